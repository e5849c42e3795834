// Package calibration holds the results of a camera calibration and derives the intrinsic
// matrix and distortion coefficients consumed by image rectification.
package calibration

import (
	"fmt"
	"image"
	"math"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Params are the outputs of a calibration run, as supplied by the calibration procedure.
type Params struct {
	ValidFileNames []string
	RMSError       float64
	Width          int
	Height         int
	Fx             float64
	Fy             float64
	Cx             float64
	Cy             float64
	K1             float64
	K2             float64
	P1             float64
	P2             float64
	K3             float64
}

// Value is an immutable camera calibration. The zero Value is not a usable calibration;
// build one with New.
type Value struct {
	validFileNames []string
	rmsError       float64
	width, height  int
	fx, fy         float64
	cx, cy         float64
	k1, k2, k3     float64
	p1, p2         float64
}

// New validates params and returns the calibration they describe. The width, height and
// focal lengths must be positive and the RMS error must not be negative; every violation is
// reported in the returned error, which wraps ErrInvalidCalibration.
func New(params Params) (Value, error) {
	if err := params.CheckValid(); err != nil {
		return Value{}, err
	}
	return Value{
		validFileNames: slices.Clone(params.ValidFileNames),
		rmsError:       params.RMSError,
		width:          params.Width,
		height:         params.Height,
		fx:             params.Fx,
		fy:             params.Fy,
		cx:             params.Cx,
		cy:             params.Cy,
		k1:             params.K1,
		k2:             params.K2,
		k3:             params.K3,
		p1:             params.P1,
		p2:             params.P2,
	}, nil
}

// CheckValid checks if the fields for Params can build a calibration.
func (params Params) CheckValid() error {
	var errs error
	if params.Width <= 0 || params.Height <= 0 {
		errs = multierr.Append(errs, errors.Errorf("invalid size (%d, %d)", params.Width, params.Height))
	}
	if !isPositiveFinite(params.Fx) {
		errs = multierr.Append(errs, errors.Errorf("invalid focal length fx = %v", params.Fx))
	}
	if !isPositiveFinite(params.Fy) {
		errs = multierr.Append(errs, errors.Errorf("invalid focal length fy = %v", params.Fy))
	}
	if math.IsNaN(params.RMSError) || params.RMSError < 0 {
		errs = multierr.Append(errs, errors.Errorf("invalid rms error = %v", params.RMSError))
	}
	if errs != nil {
		return NewInvalidCalibrationError(errs)
	}
	return nil
}

func isPositiveFinite(f float64) bool {
	return f > 0 && !math.IsInf(f, 1)
}

// Params returns the fields of the calibration.
func (v Value) Params() Params {
	return Params{
		ValidFileNames: v.ValidFileNames(),
		RMSError:       v.rmsError,
		Width:          v.width,
		Height:         v.height,
		Fx:             v.fx,
		Fy:             v.fy,
		Cx:             v.cx,
		Cy:             v.cy,
		K1:             v.k1,
		K2:             v.k2,
		P1:             v.p1,
		P2:             v.p2,
		K3:             v.k3,
	}
}

// ValidFileNames returns the calibration images that were used, in order.
func (v Value) ValidFileNames() []string {
	return slices.Clone(v.validFileNames)
}

// RMSError returns the root mean square re-projection error of the calibration, in pixels.
// Usually it should be between 0.1 and 1.0 pixels in a good calibration.
func (v Value) RMSError() float64 { return v.rmsError }

// Width returns the calibrated sensor width in pixels.
func (v Value) Width() int { return v.width }

// Height returns the calibrated sensor height in pixels.
func (v Value) Height() int { return v.height }

// Fx returns the focal length along x in pixels.
func (v Value) Fx() float64 { return v.fx }

// Fy returns the focal length along y in pixels.
func (v Value) Fy() float64 { return v.fy }

// Cx returns the x coordinate of the principal point.
func (v Value) Cx() float64 { return v.cx }

// Cy returns the y coordinate of the principal point.
func (v Value) Cy() float64 { return v.cy }

// ImageSize returns the size of the calibrated image as (width, height).
func (v Value) ImageSize() image.Point {
	return image.Point{X: v.width, Y: v.height}
}

// IntrinsicMatrix creates a new camera matrix and returns it.
// Camera matrix:
// [[fx 0 cx],
//
//	[0 fy cy],
//	[0 0  1]]
func (v Value) IntrinsicMatrix() IntrinsicMatrix {
	return IntrinsicMatrix{
		{v.fx, 0, v.cx},
		{0, v.fy, v.cy},
		{0, 0, 1},
	}
}

// DistortionCoefficients returns the lens distortion as [k1, k2, p1, p2, k3].
func (v Value) DistortionCoefficients() DistortionCoefficients {
	return DistortionCoefficients{v.k1, v.k2, v.p1, v.p2, v.k3}
}

// Equal reports whether both calibrations hold the same field values.
func (v Value) Equal(other Value) bool {
	return slices.Equal(v.validFileNames, other.validFileNames) &&
		v.width == other.width &&
		v.height == other.height &&
		sameFloat(v.rmsError, other.rmsError) &&
		sameFloat(v.fx, other.fx) &&
		sameFloat(v.fy, other.fy) &&
		sameFloat(v.cx, other.cx) &&
		sameFloat(v.cy, other.cy) &&
		v.DistortionCoefficients().Equal(other.DistortionCoefficients())
}

func sameFloat(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

// String renders the calibration the way calibration runs log their results.
func (v Value) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "image size = %dx%d, rms error = %g, files = %d\n",
		v.width, v.height, v.rmsError, len(v.validFileNames))
	sb.WriteString("cameraMatrix = ")
	sb.WriteString(v.IntrinsicMatrix().String())
	sb.WriteString("\ndistortionCoeffs = ")
	sb.WriteString(v.DistortionCoefficients().String())
	return sb.String()
}
