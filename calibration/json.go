package calibration

import (
	"encoding/json"

	"github.com/pkg/errors"
)

type jsonValue struct {
	ValidFileNames []string `json:"valid_file_names"`
	RMSError       float64  `json:"rms_error"`
	Width          int      `json:"width_px"`
	Height         int      `json:"height_px"`
	Fx             float64  `json:"fx"`
	Fy             float64  `json:"fy"`
	Cx             float64  `json:"cx"`
	Cy             float64  `json:"cy"`
	K1             float64  `json:"k1"`
	K2             float64  `json:"k2"`
	P1             float64  `json:"p1"`
	P2             float64  `json:"p2"`
	K3             float64  `json:"k3"`
}

// MarshalJSON encodes the calibration fields.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonValue(v.Params()))
}

// UnmarshalJSON decodes the calibration fields and rejects calibrations New would reject.
func (v *Value) UnmarshalJSON(data []byte) error {
	var decoded jsonValue
	if err := json.Unmarshal(data, &decoded); err != nil {
		return errors.Wrap(err, "error parsing calibration JSON")
	}
	parsed, err := New(Params(decoded))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
