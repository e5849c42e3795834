package calibration

import "github.com/pkg/errors"

// ErrInvalidCalibration is returned when calibration parameters cannot describe a camera.
var ErrInvalidCalibration = errors.New("invalid camera calibration")

// NewInvalidCalibrationError is used when construction is attempted with impossible parameters.
func NewInvalidCalibrationError(cause error) error {
	return errors.Wrapf(ErrInvalidCalibration, "%v", cause)
}
