// Package config defines the structures to configure the calibration tooling and its value store.
package config

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"go.eer.dev/rov/logging"
)

const (
	// DefaultDownSample is the down-sampling factor used when none is configured.
	DefaultDownSample = 1.0
	// DefaultMaxRMSError is the largest reprojection error accepted when none is configured.
	DefaultMaxRMSError = 1.0
)

// Store backends.
const (
	MemoryBackend = "memory"
	SQLiteBackend = "sqlite"
)

// Config describes a complete configuration of the calibration tooling.
type Config struct {
	ConfigFilePath string `json:"-"`

	Calibration Calibration `json:"calibration"`
	Store       Store       `json:"store"`
	LogLevel    string      `json:"log_level,omitempty"`
	LogFile     string      `json:"log_file,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (config *Config) Validate(path string) error {
	var errs error
	if err := config.Calibration.Validate(join(path, "calibration")); err != nil {
		errs = multierr.Append(errs, err)
	}
	if err := config.Store.Validate(join(path, "store")); err != nil {
		errs = multierr.Append(errs, err)
	}
	if config.LogLevel != "" {
		if _, err := logging.LevelFromString(config.LogLevel); err != nil {
			errs = multierr.Append(errs, utils.NewConfigValidationError(join(path, "log_level"), err))
		}
	}
	return errs
}

// Level returns the configured log level, INFO when unset.
func (config *Config) Level() logging.Level {
	if config.LogLevel == "" {
		return logging.INFO
	}
	level, err := logging.LevelFromString(config.LogLevel)
	if err != nil {
		return logging.INFO
	}
	return level
}

// Calibration describes where a chessboard calibration run finds its images and which target
// it looks for.
type Calibration struct {
	CameraAImagesDir         string  `json:"camera_a_images_dir"`
	CameraBImagesDir         string  `json:"camera_b_images_dir"`
	CameraAValidImagesDir    string  `json:"camera_a_valid_images_dir"`
	CameraBValidImagesDir    string  `json:"camera_b_valid_images_dir"`
	CameraAPreUndistortedDir string  `json:"camera_a_pre_undistorted_dir"`
	CameraBPreUndistortedDir string  `json:"camera_b_pre_undistorted_dir"`
	ChessboardWidth          int     `json:"chessboard_width"`
	ChessboardHeight         int     `json:"chessboard_height"`
	DownSample               float64 `json:"down_sample,omitempty"`
	MaxRMSError              float64 `json:"max_rms_error,omitempty"`
}

// Validate ensures the calibration section is valid.
func (conf *Calibration) Validate(path string) error {
	var errs error
	if conf.ChessboardWidth <= 0 {
		errs = multierr.Append(errs, utils.NewConfigValidationError(path,
			errors.Errorf("chessboard_width must be positive, got %d", conf.ChessboardWidth)))
	}
	if conf.ChessboardHeight <= 0 {
		errs = multierr.Append(errs, utils.NewConfigValidationError(path,
			errors.Errorf("chessboard_height must be positive, got %d", conf.ChessboardHeight)))
	}
	if conf.DownSample < 1 {
		errs = multierr.Append(errs, utils.NewConfigValidationError(path,
			errors.Errorf("down_sample must be at least 1, got %v", conf.DownSample)))
	}
	if conf.MaxRMSError < 0 {
		errs = multierr.Append(errs, utils.NewConfigValidationError(path,
			errors.Errorf("max_rms_error cannot be negative, got %v", conf.MaxRMSError)))
	}
	return errs
}

// Dirs are the image directories of a single camera.
type Dirs struct {
	Images         string
	ValidImages    string
	PreUndistorted string
}

// CameraDirs returns the image directories of camera "a" or "b".
func (conf *Calibration) CameraDirs(name string) (Dirs, error) {
	switch strings.ToLower(name) {
	case "a":
		return Dirs{conf.CameraAImagesDir, conf.CameraAValidImagesDir, conf.CameraAPreUndistortedDir}, nil
	case "b":
		return Dirs{conf.CameraBImagesDir, conf.CameraBValidImagesDir, conf.CameraBPreUndistortedDir}, nil
	default:
		return Dirs{}, errors.Errorf("unknown camera %q, expected a or b", name)
	}
}

// Store describes where calibration results are kept.
type Store struct {
	Backend string `json:"backend"`
	Path    string `json:"path,omitempty"`
}

// Validate ensures the store section is valid.
func (conf *Store) Validate(path string) error {
	switch conf.Backend {
	case MemoryBackend:
	case SQLiteBackend:
		if conf.Path == "" {
			return utils.NewConfigValidationFieldRequiredError(path, "path")
		}
	case "":
		return utils.NewConfigValidationFieldRequiredError(path, "backend")
	default:
		return utils.NewConfigValidationError(path, errors.Errorf("unknown backend %q", conf.Backend))
	}
	return nil
}

func join(path, field string) string {
	if path == "" {
		return field
	}
	return fmt.Sprintf("%s.%s", path, field)
}
