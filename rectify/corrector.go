package rectify

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"runtime"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"go.eer.dev/rov/calibration"
	"go.eer.dev/rov/logging"
)

// A Corrector undistorts image files taken by one calibrated camera.
type Corrector struct {
	remap  *Map
	logger logging.Logger

	// DownSample shrinks corrected images by this factor before they are saved. Values of 1
	// or less keep the calibrated size.
	DownSample float64
}

// NewCorrector returns a Corrector for frames of the calibrated camera. A nil logger means the
// global one.
func NewCorrector(cal calibration.Value, logger logging.Logger) *Corrector {
	if logger == nil {
		logger = logging.Global()
	}
	return &Corrector{remap: NewMap(cal), logger: logger, DownSample: 1}
}

// Apply undistorts a single frame.
func (c *Corrector) Apply(img image.Image) (*image.NRGBA, error) {
	out, err := c.remap.Remap(img)
	if err != nil {
		return nil, err
	}
	if c.DownSample > 1 {
		size := c.remap.Size()
		w := int(float64(size.X) / c.DownSample)
		out = imaging.Resize(out, max(w, 1), 0, imaging.Lanczos)
	}
	return out, nil
}

// ApplyFile reads the image at input, undistorts it and writes it to output. Both formats are
// chosen from the file extensions.
func (c *Corrector) ApplyFile(input, output string) error {
	img, err := imaging.Open(input)
	if err != nil {
		return errors.Wrapf(err, "failed to read %q", input)
	}
	out, err := c.Apply(img)
	if err != nil {
		return errors.Wrapf(err, "failed to undistort %q", input)
	}
	if err := imaging.Save(out, output); err != nil {
		return errors.Wrapf(err, "failed to write %q", output)
	}
	c.logger.Debugw("undistorted image", "input", input, "output", output)
	return nil
}

// ApplyDir undistorts every image in inputDir into a file of the same name in outputDir and
// returns how many were written. Files that are not images are skipped. Images are processed
// concurrently; the first failure stops the rest.
func (c *Corrector) ApplyDir(ctx context.Context, inputDir, outputDir string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return 0, err
	}

	names := lo.FilterMap(entries, func(entry os.DirEntry, _ int) (string, bool) {
		if entry.IsDir() {
			return "", false
		}
		if _, err := imaging.FormatFromFilename(entry.Name()); err != nil {
			c.logger.Debugw("skipping non-image file", "name", entry.Name())
			return "", false
		}
		return entry.Name(), true
	})

	count := atomic.NewInt64(0)
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.NumCPU())
	for _, name := range names {
		if groupCtx.Err() != nil {
			break
		}
		name := name
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			if err := c.ApplyFile(filepath.Join(inputDir, name), filepath.Join(outputDir, name)); err != nil {
				return err
			}
			count.Inc()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return int(count.Load()), err
	}
	c.logger.Infow("undistorted images", "count", count.Load(), "input", inputDir, "output", outputDir)
	return int(count.Load()), nil
}
