package rectify_test

import (
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"

	"go.eer.dev/rov/calibration"
	"go.eer.dev/rov/logging"
	"go.eer.dev/rov/rectify"
)

func smallCalibration(t *testing.T, k1 float64) calibration.Value {
	t.Helper()
	cal, err := calibration.New(calibration.Params{
		ValidFileNames: []string{"0001.png"},
		RMSError:       0.2,
		Width:          40,
		Height:         30,
		Fx:             20,
		Fy:             20,
		Cx:             20,
		Cy:             15,
		K1:             k1,
	})
	test.That(t, err, test.ShouldBeNil)
	return cal
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 5), G: uint8(y * 5), B: 100, A: 255})
		}
	}
	return img
}

func TestIdentityMap(t *testing.T) {
	cal := smallCalibration(t, 0)
	m := rectify.NewMap(cal)
	test.That(t, m.Size(), test.ShouldResemble, image.Pt(40, 30))
	test.That(t, m.At(0, 0), test.ShouldResemble, r2.Point{})
	test.That(t, m.At(39, 29), test.ShouldResemble, r2.Point{X: 39, Y: 29})

	img := gradient(40, 30)
	out, err := m.Remap(img)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.Pix, test.ShouldResemble, img.Pix)
}

func TestMapMatchesCameraModel(t *testing.T) {
	cal := smallCalibration(t, -0.1)
	m := rectify.NewMap(cal)

	var kInv mat.Dense
	test.That(t, kInv.Inverse(cal.IntrinsicMatrix().Dense()), test.ShouldBeNil)
	k := cal.IntrinsicMatrix().Dense()
	bc := cal.Distortion()

	for _, px := range []image.Point{{0, 0}, {5, 25}, {20, 15}, {39, 29}} {
		var ray mat.VecDense
		ray.MulVec(&kInv, mat.NewVecDense(3, []float64{float64(px.X), float64(px.Y), 1}))
		d := bc.Distort(r2.Point{X: ray.AtVec(0), Y: ray.AtVec(1)})
		var src mat.VecDense
		src.MulVec(k, mat.NewVecDense(3, []float64{d.X, d.Y, 1}))

		got := m.At(px.X, px.Y)
		test.That(t, got.X, test.ShouldAlmostEqual, src.AtVec(0), 1e-4)
		test.That(t, got.Y, test.ShouldAlmostEqual, src.AtVec(1), 1e-4)
	}
}

func TestRemapOutsideIsBlack(t *testing.T) {
	// Pincushion distortion samples past the frame edge at the corners.
	m := rectify.NewMap(smallCalibration(t, 0.5))
	img := gradient(40, 30)
	out, err := m.Remap(img)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.NRGBAAt(0, 0), test.ShouldResemble, color.NRGBA{A: 255})
	test.That(t, out.NRGBAAt(20, 15), test.ShouldResemble, img.NRGBAAt(20, 15))
}

func TestRemapOffsetBounds(t *testing.T) {
	m := rectify.NewMap(smallCalibration(t, 0))
	img := gradient(40, 30).SubImage(image.Rect(0, 0, 40, 30))
	out, err := m.Remap(img)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.Bounds(), test.ShouldResemble, image.Rect(0, 0, 40, 30))

	shifted := image.NewNRGBA(image.Rect(10, 10, 50, 40))
	out, err = m.Remap(shifted)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.Bounds().Size(), test.ShouldResemble, image.Pt(40, 30))
}

func TestRemapSizeMismatch(t *testing.T) {
	m := rectify.NewMap(smallCalibration(t, 0))
	_, err := m.Remap(gradient(20, 30))
	test.That(t, errors.Is(err, rectify.ErrSizeMismatch), test.ShouldBeTrue)

	_, err = m.Remap(nil)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestUndistortPoints(t *testing.T) {
	cal := smallCalibration(t, -0.2)
	pts := []r2.Point{{X: 2, Y: 3}, {X: 20, Y: 15}, {X: 35, Y: 27}}
	distorted := make([]r2.Point, len(pts))
	for i, pt := range pts {
		distorted[i] = cal.DistortPixel(pt)
	}
	undistorted := rectify.UndistortPoints(cal, distorted)
	test.That(t, len(undistorted), test.ShouldEqual, len(pts))
	for i, pt := range pts {
		test.That(t, undistorted[i].X, test.ShouldAlmostEqual, pt.X, 1e-6)
		test.That(t, undistorted[i].Y, test.ShouldAlmostEqual, pt.Y, 1e-6)
	}
	test.That(t, rectify.UndistortPoints(cal, nil), test.ShouldBeEmpty)
}

func TestCorrectorFiles(t *testing.T) {
	logger := logging.NewTestLogger(t)
	dir := t.TempDir()
	inDir := filepath.Join(dir, "valid")
	outDir := filepath.Join(dir, "pre")
	test.That(t, os.MkdirAll(inDir, 0o750), test.ShouldBeNil)
	test.That(t, imaging.Save(gradient(40, 30), filepath.Join(inDir, "0001.png")), test.ShouldBeNil)
	test.That(t, imaging.Save(gradient(40, 30), filepath.Join(inDir, "0002.png")), test.ShouldBeNil)
	test.That(t, os.WriteFile(filepath.Join(inDir, "notes.txt"), []byte("chessboard 9x6"), 0o600), test.ShouldBeNil)

	corrector := rectify.NewCorrector(smallCalibration(t, -0.1), logger)

	single := filepath.Join(dir, "single.png")
	test.That(t, corrector.ApplyFile(filepath.Join(inDir, "0001.png"), single), test.ShouldBeNil)
	out, err := imaging.Open(single)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.Bounds().Size(), test.ShouldResemble, image.Pt(40, 30))

	corrector.DownSample = 2
	count, err := corrector.ApplyDir(context.Background(), inDir, outDir)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, count, test.ShouldEqual, 2)
	out, err = imaging.Open(filepath.Join(outDir, "0002.png"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.Bounds().Size(), test.ShouldResemble, image.Pt(20, 15))

	err = corrector.ApplyFile(filepath.Join(inDir, "missing.png"), single)
	test.That(t, err, test.ShouldNotBeNil)

	test.That(t, imaging.Save(gradient(10, 10), filepath.Join(inDir, "0003.png")), test.ShouldBeNil)
	_, err = corrector.ApplyDir(context.Background(), inDir, outDir)
	test.That(t, errors.Is(err, rectify.ErrSizeMismatch), test.ShouldBeTrue)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = corrector.ApplyDir(ctx, inDir, outDir)
	test.That(t, errors.Is(err, context.Canceled), test.ShouldBeTrue)
}

func TestCorrectorWithoutLoggerUsesGlobal(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	previous := logging.Global()
	logging.ReplaceGlobal(logger)
	defer logging.ReplaceGlobal(previous)

	dir := t.TempDir()
	test.That(t, imaging.Save(gradient(40, 30), filepath.Join(dir, "0001.png")), test.ShouldBeNil)
	corrector := rectify.NewCorrector(smallCalibration(t, 0), nil)
	count, err := corrector.ApplyDir(context.Background(), dir, filepath.Join(dir, "out"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, count, test.ShouldEqual, 1)
	test.That(t, logs.FilterMessage("undistorted images").Len(), test.ShouldEqual, 1)
}
