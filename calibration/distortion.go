package calibration

import "github.com/golang/geo/r2"

// BrownConrady is the 5-parameter Brown-Conrady lens distortion model. It operates on
// normalized image coordinates, i.e. ((u - cx) / fx, (v - cy) / fy).
type BrownConrady struct {
	RadialK1     float64 `json:"rk1"`
	RadialK2     float64 `json:"rk2"`
	RadialK3     float64 `json:"rk3"`
	TangentialP1 float64 `json:"tp1"`
	TangentialP2 float64 `json:"tp2"`
}

// NewBrownConrady builds the model from coefficients in [k1, k2, p1, p2, k3] order.
func NewBrownConrady(coeffs DistortionCoefficients) BrownConrady {
	return BrownConrady{
		RadialK1:     coeffs.K1(),
		RadialK2:     coeffs.K2(),
		RadialK3:     coeffs.K3(),
		TangentialP1: coeffs.P1(),
		TangentialP2: coeffs.P2(),
	}
}

// Distortion returns the lens distortion model of the calibration.
func (v Value) Distortion() BrownConrady {
	return NewBrownConrady(v.DistortionCoefficients())
}

// Parameters returns the coefficients in [k1, k2, p1, p2, k3] order.
func (bc BrownConrady) Parameters() DistortionCoefficients {
	return DistortionCoefficients{bc.RadialK1, bc.RadialK2, bc.TangentialP1, bc.TangentialP2, bc.RadialK3}
}

// IsIdentity reports whether the model leaves every point in place.
func (bc BrownConrady) IsIdentity() bool {
	return bc == BrownConrady{}
}

// Distort maps an undistorted normalized point to where the lens images it:
//
//	x_d = x_u * (1 + k1*r² + k2*r⁴ + k3*r⁶) + 2*p1*x_u*y_u + p2*(r² + 2*x_u²)
//	y_d = y_u * (1 + k1*r² + k2*r⁴ + k3*r⁶) + 2*p2*x_u*y_u + p1*(r² + 2*y_u²)
func (bc BrownConrady) Distort(pt r2.Point) r2.Point {
	x, y := pt.X, pt.Y
	rSq := x*x + y*y
	r4 := rSq * rSq
	r6 := r4 * rSq
	radDist := 1.0 + bc.RadialK1*rSq + bc.RadialK2*r4 + bc.RadialK3*r6
	return r2Point(
		x*radDist+2.0*bc.TangentialP1*x*y+bc.TangentialP2*(rSq+2.0*x*x),
		y*radDist+2.0*bc.TangentialP2*x*y+bc.TangentialP1*(rSq+2.0*y*y),
	)
}

// Undistort is the inverse of Distort. There is no closed form, so it runs Newton-Raphson
// iterations starting at the distorted point, stopping on convergence or a singular Jacobian.
func (bc BrownConrady) Undistort(pt r2.Point) r2.Point {
	if bc.IsIdentity() {
		return pt
	}
	const maxIterations = 20
	const tolerance = 1e-10

	xd, yd := pt.X, pt.Y
	xu, yu := xd, yd
	for i := 0; i < maxIterations; i++ {
		rSq := xu*xu + yu*yu
		r4 := rSq * rSq

		est := bc.Distort(r2Point(xu, yu))
		errX := est.X - xd
		errY := est.Y - yd
		if errX*errX+errY*errY < tolerance*tolerance {
			break
		}

		// J = [[dxd/dxu, dxd/dyu], [dyd/dxu, dyd/dyu]]
		radDist := 1.0 + bc.RadialK1*rSq + bc.RadialK2*r4 + bc.RadialK3*r4*rSq
		dRadDistDxu := 2.0 * xu * (bc.RadialK1 + 2.0*bc.RadialK2*rSq + 3.0*bc.RadialK3*r4)
		dRadDistDyu := 2.0 * yu * (bc.RadialK1 + 2.0*bc.RadialK2*rSq + 3.0*bc.RadialK3*r4)

		dxdDxu := radDist + xu*dRadDistDxu + 2.0*bc.TangentialP1*yu + 6.0*bc.TangentialP2*xu
		dxdDyu := xu*dRadDistDyu + 2.0*bc.TangentialP1*xu + 2.0*bc.TangentialP2*yu
		dydDxu := yu*dRadDistDxu + 2.0*bc.TangentialP2*yu + 2.0*bc.TangentialP1*xu
		dydDyu := radDist + yu*dRadDistDyu + 2.0*bc.TangentialP2*xu + 6.0*bc.TangentialP1*yu

		det := dxdDxu*dydDyu - dxdDyu*dydDxu
		if det == 0 {
			break
		}
		xu -= (dydDyu*errX - dxdDyu*errY) / det
		yu -= (-dydDxu*errX + dxdDxu*errY) / det
	}
	return r2Point(xu, yu)
}

// NormalizedPoint removes the intrinsics from a pixel coordinate.
func (v Value) NormalizedPoint(pixel r2.Point) r2.Point {
	return r2Point((pixel.X-v.cx)/v.fx, (pixel.Y-v.cy)/v.fy)
}

// PixelPoint applies the intrinsics to a normalized coordinate.
func (v Value) PixelPoint(normalized r2.Point) r2.Point {
	return r2Point(normalized.X*v.fx+v.cx, normalized.Y*v.fy+v.cy)
}

// DistortPixel maps an ideal pixel to where the calibrated lens images it.
func (v Value) DistortPixel(pixel r2.Point) r2.Point {
	return v.PixelPoint(v.Distortion().Distort(v.NormalizedPoint(pixel)))
}

// UndistortPixel maps an observed pixel to where an ideal pinhole camera would image it.
func (v Value) UndistortPixel(pixel r2.Point) r2.Point {
	return v.PixelPoint(v.Distortion().Undistort(v.NormalizedPoint(pixel)))
}

func r2Point(x, y float64) r2.Point {
	return r2.Point{X: x, Y: y}
}
