package cli

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.eer.dev/rov/calibration"
	"go.eer.dev/rov/config"
	"go.eer.dev/rov/logging"
	"go.eer.dev/rov/rectify"
	"go.eer.dev/rov/store"
)

// calibrationClient bundles what every calibration command needs.
type calibrationClient struct {
	c       *cli.Context
	conf    *config.Config
	values  *store.Store[calibration.Value]
	logger  logging.Logger
	logFile *logging.FileAppender

	// global is the global logger to restore on close.
	global logging.Logger
}

func newCalibrationClient(c *cli.Context) (*calibrationClient, error) {
	conf, err := config.Read(c.String(configFlag))
	if err != nil {
		return nil, err
	}

	logger := logging.NewBlankLogger("rovcal")
	logger.AddAppender(logging.NewWriterAppender(c.App.ErrWriter))
	logger.SetLevel(conf.Level())
	if c.Bool(debugFlag) {
		logger.SetLevel(logging.DEBUG)
	}
	cc := &calibrationClient{c: c, conf: conf, logger: logger, global: logging.Global()}
	if conf.LogFile != "" {
		cc.logFile = logging.NewFileAppender(conf.LogFile)
		logger.AddAppender(cc.logFile)
	}
	logging.ReplaceGlobal(logger)

	if cc.values, err = store.Open[calibration.Value](c.Context, namespaceValue, conf.Store, logger); err != nil {
		logging.ReplaceGlobal(cc.global)
		return nil, multierr.Combine(err, cc.closeLogFile())
	}
	return cc, nil
}

func (cc *calibrationClient) closeLogFile() error {
	if cc.logFile == nil {
		return nil
	}
	return cc.logFile.Close()
}

func (cc *calibrationClient) close() error {
	logging.ReplaceGlobal(cc.global)
	return multierr.Combine(cc.values.Close(), cc.logger.Sync(), cc.closeLogFile())
}

// camera returns the normalized --camera value after checking it names a configured camera.
func (cc *calibrationClient) camera() (string, config.Dirs, error) {
	name := strings.ToLower(cc.c.String(cameraFlag))
	dirs, err := cc.conf.Calibration.CameraDirs(name)
	return name, dirs, err
}

func (cc *calibrationClient) load(name string) (calibration.Value, error) {
	cal, ok, err := cc.values.Get(cc.c.Context, name)
	if err != nil {
		return calibration.Value{}, err
	}
	if !ok {
		return calibration.Value{}, errors.Errorf("no calibration stored for camera %q", name)
	}
	return cal, nil
}

// withClient runs fn with a client that is closed afterwards.
func withClient(c *cli.Context, fn func(cc *calibrationClient) error) (err error) {
	cc, err := newCalibrationClient(c)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, cc.close())
	}()
	return fn(cc)
}

// ImportCalibrationAction is the corresponding Action for 'import'.
func ImportCalibrationAction(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return errors.New("expected exactly one calibration file")
	}
	return withClient(c, func(cc *calibrationClient) error {
		name, _, err := cc.camera()
		if err != nil {
			return err
		}
		data, err := os.ReadFile(c.Args().First())
		if err != nil {
			return err
		}
		var cal calibration.Value
		if err := cal.UnmarshalJSON(data); err != nil {
			return err
		}
		for _, advisory := range cal.Advisories() {
			warningf(c.App.ErrWriter, "camera %s: %s", name, advisory)
		}
		if err := cc.values.Set(c.Context, name, cal); err != nil {
			return err
		}
		cc.logger.Infow("stored calibration", "camera", name, "rms_error", cal.RMSError())
		printf(c.App.Writer, "stored calibration for camera %s", name)
		return nil
	})
}

// ShowCalibrationAction is the corresponding Action for 'show'.
func ShowCalibrationAction(c *cli.Context) error {
	return withClient(c, func(cc *calibrationClient) error {
		name, _, err := cc.camera()
		if err != nil {
			return err
		}
		cal, err := cc.load(name)
		if err != nil {
			return err
		}
		printf(c.App.Writer, "%s", cal)
		return nil
	})
}

// ListCalibrationsAction is the corresponding Action for 'list'.
func ListCalibrationsAction(c *cli.Context) error {
	return withClient(c, func(cc *calibrationClient) error {
		keys, err := cc.values.Keys(c.Context)
		if err != nil {
			return err
		}
		if len(keys) == 0 {
			printf(c.App.Writer, "no calibrations stored")
			return nil
		}
		for _, key := range keys {
			printf(c.App.Writer, "%s", key)
		}
		return nil
	})
}

// CheckCalibrationAction is the corresponding Action for 'check'.
func CheckCalibrationAction(c *cli.Context) error {
	return withClient(c, func(cc *calibrationClient) error {
		name, _, err := cc.camera()
		if err != nil {
			return err
		}
		cal, err := cc.load(name)
		if err != nil {
			return err
		}

		maxRMS := cc.conf.Calibration.MaxRMSError
		if c.IsSet(maxRMSFlag) {
			maxRMS = c.Float64(maxRMSFlag)
		}
		for _, advisory := range cal.Advisories() {
			warningf(c.App.ErrWriter, "camera %s: %s", name, advisory)
		}
		if !cal.Acceptable(maxRMS) {
			return errors.Errorf("calibration for camera %s is not acceptable (rms error %v, max %v)",
				name, cal.RMSError(), maxRMS)
		}
		printf(c.App.Writer, "calibration for camera %s is acceptable (rms error %v, max %v)",
			name, cal.RMSError(), maxRMS)
		return nil
	})
}

// UndistortAction is the corresponding Action for 'undistort'.
func UndistortAction(c *cli.Context) error {
	return withClient(c, func(cc *calibrationClient) error {
		name, dirs, err := cc.camera()
		if err != nil {
			return err
		}
		cal, err := cc.load(name)
		if err != nil {
			return err
		}
		corrector := rectify.NewCorrector(cal, cc.logger.Sublogger("rectify"))

		if input := c.String(inputFlag); input != "" {
			output := c.String(outputFlag)
			if output == "" {
				return errors.Errorf("--%s is required with --%s", outputFlag, inputFlag)
			}
			if err := corrector.ApplyFile(input, output); err != nil {
				return err
			}
			printf(c.App.Writer, "wrote %s", output)
			return nil
		}

		if dirs.ValidImages == "" || dirs.PreUndistorted == "" {
			return errors.Errorf("camera %s has no valid or pre-undistorted images directory configured", name)
		}
		corrector.DownSample = cc.conf.Calibration.DownSample
		count, err := corrector.ApplyDir(c.Context, dirs.ValidImages, dirs.PreUndistorted)
		if err != nil {
			return err
		}
		printf(c.App.Writer, "undistorted %d images into %s", count, dirs.PreUndistorted)
		return nil
	})
}

// DeleteCalibrationAction is the corresponding Action for 'delete'.
func DeleteCalibrationAction(c *cli.Context) error {
	return withClient(c, func(cc *calibrationClient) error {
		name, _, err := cc.camera()
		if err != nil {
			return err
		}
		if err := cc.values.Delete(c.Context, name); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return errors.Errorf("no calibration stored for camera %q", name)
			}
			return err
		}
		printf(c.App.Writer, "deleted calibration for camera %s", name)
		return nil
	})
}
