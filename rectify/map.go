// Package rectify removes lens distortion from camera frames using a stored calibration.
package rectify

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"go.eer.dev/rov/calibration"
)

// ErrSizeMismatch is returned when a frame's size differs from the calibrated sensor size.
var ErrSizeMismatch = errors.New("frame size does not match calibration")

// A Map holds, for every pixel of an undistorted frame, the coordinate in the distorted source
// frame it samples from. The undistorted frame keeps the calibration's camera matrix.
type Map struct {
	width, height int
	mapX, mapY    []float32
}

// NewMap builds the undistortion map of a calibration.
func NewMap(cal calibration.Value) *Map {
	size := cal.ImageSize()
	m := &Map{
		width:  size.X,
		height: size.Y,
		mapX:   make([]float32, size.X*size.Y),
		mapY:   make([]float32, size.X*size.Y),
	}
	for v := 0; v < size.Y; v++ {
		for u := 0; u < size.X; u++ {
			src := cal.DistortPixel(r2.Point{X: float64(u), Y: float64(v)})
			i := v*size.X + u
			m.mapX[i] = float32(src.X)
			m.mapY[i] = float32(src.Y)
		}
	}
	return m
}

// Size returns the frame size the map applies to.
func (m *Map) Size() image.Point {
	return image.Pt(m.width, m.height)
}

// At returns the source coordinate sampled for destination pixel (x, y).
func (m *Map) At(x, y int) r2.Point {
	i := y*m.width + x
	return r2.Point{X: float64(m.mapX[i]), Y: float64(m.mapY[i])}
}

// Remap returns the undistorted version of img. Pixels are bilinearly interpolated; destination
// pixels whose source lies outside img are black.
func (m *Map) Remap(img image.Image) (*image.NRGBA, error) {
	if img == nil {
		return nil, errors.New("input image is nil")
	}
	bounds := img.Bounds()
	if bounds.Dx() != m.width || bounds.Dy() != m.height {
		return nil, errors.Wrapf(ErrSizeMismatch, "image (%d,%d) != calibration (%d,%d)",
			bounds.Dx(), bounds.Dy(), m.width, m.height)
	}

	src := imaging.Clone(img)
	dst := image.NewNRGBA(image.Rect(0, 0, m.width, m.height))
	for v := 0; v < m.height; v++ {
		for u := 0; u < m.width; u++ {
			i := v*m.width + u
			dst.SetNRGBA(u, v, bilinear(src, float64(m.mapX[i]), float64(m.mapY[i])))
		}
	}
	return dst, nil
}

var black = color.NRGBA{A: 0xff}

// bilinear samples img at (x, y), with img.Bounds().Min at the origin.
func bilinear(img *image.NRGBA, x, y float64) color.NRGBA {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if math.IsNaN(x) || math.IsNaN(y) || x < 0 || y < 0 || x > float64(w-1) || y > float64(h-1) {
		return black
	}
	x0, y0 := int(x), int(y)
	x1, y1 := min(x0+1, w-1), min(y0+1, h-1)
	fx, fy := x-float64(x0), y-float64(y0)

	var out [4]uint8
	for c := 0; c < 4; c++ {
		top := (1-fx)*float64(pix(img, x0, y0, c)) + fx*float64(pix(img, x1, y0, c))
		bottom := (1-fx)*float64(pix(img, x0, y1, c)) + fx*float64(pix(img, x1, y1, c))
		out[c] = uint8(math.Round((1-fy)*top + fy*bottom))
	}
	return color.NRGBA{R: out[0], G: out[1], B: out[2], A: out[3]}
}

func pix(img *image.NRGBA, x, y, c int) uint8 {
	return img.Pix[y*img.Stride+x*4+c]
}

// UndistortPoints maps distorted pixel coordinates to where an ideal pinhole camera with the
// same camera matrix would image them.
func UndistortPoints(cal calibration.Value, pts []r2.Point) []r2.Point {
	out := make([]r2.Point, len(pts))
	for i, pt := range pts {
		out[i] = cal.UndistortPixel(pt)
	}
	return out
}
