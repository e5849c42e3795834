package calibration_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.eer.dev/rov/calibration"
)

func TestAdvisories(t *testing.T) {
	cal, err := calibration.New(exampleParams())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cal.Advisories(), test.ShouldBeEmpty)
	test.That(t, cal.Acceptable(1.0), test.ShouldBeTrue)
	test.That(t, cal.Acceptable(0.1), test.ShouldBeFalse)

	params := exampleParams()
	params.ValidFileNames = nil
	params.Cx = 1920
	params.K2 = math.Inf(-1)
	cal, err = calibration.New(params)
	test.That(t, err, test.ShouldBeNil)
	advisories := cal.Advisories()
	test.That(t, len(advisories), test.ShouldEqual, 3)
	test.That(t, advisories[0], test.ShouldContainSubstring, "no calibration images")
	test.That(t, advisories[1], test.ShouldContainSubstring, "principal point (1920, 540)")
	test.That(t, advisories[2], test.ShouldContainSubstring, "coefficient 1")
	test.That(t, cal.Acceptable(1.0), test.ShouldBeFalse)

	params = exampleParams()
	params.ValidFileNames = []string{"a.png", "", "a.png"}
	cal, err = calibration.New(params)
	test.That(t, err, test.ShouldBeNil)
	advisories = cal.Advisories()
	test.That(t, len(advisories), test.ShouldEqual, 2)
	test.That(t, advisories[0], test.ShouldContainSubstring, "empty name")
	test.That(t, advisories[1], test.ShouldContainSubstring, "[a.png]")

	params = exampleParams()
	params.Cy = math.NaN()
	cal, err = calibration.New(params)
	test.That(t, err, test.ShouldBeNil)
	advisories = cal.Advisories()
	test.That(t, len(advisories), test.ShouldEqual, 1)
	test.That(t, advisories[0], test.ShouldContainSubstring, "principal point (960, NaN)")
	test.That(t, cal.Acceptable(1.0), test.ShouldBeFalse)
}

func TestJSON(t *testing.T) {
	cal, err := calibration.New(exampleParams())
	test.That(t, err, test.ShouldBeNil)

	data, err := json.Marshal(cal)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(data), test.ShouldContainSubstring, `"width_px":1920`)
	test.That(t, string(data), test.ShouldContainSubstring, `"valid_file_names":["/calib/a/0001.png","/calib/a/0002.png"]`)

	var decoded calibration.Value
	test.That(t, json.Unmarshal(data, &decoded), test.ShouldBeNil)
	test.That(t, decoded.Equal(cal), test.ShouldBeTrue)

	err = json.Unmarshal([]byte(`{"width_px":0,"height_px":10,"fx":1,"fy":1}`), &decoded)
	test.That(t, errors.Is(err, calibration.ErrInvalidCalibration), test.ShouldBeTrue)
	// A failed decode leaves the destination untouched.
	test.That(t, decoded.Equal(cal), test.ShouldBeTrue)

	err = json.Unmarshal([]byte(`{"width_px":"wide"}`), &decoded)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "error parsing calibration JSON")
}
