package config

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/a8m/envsubst"
	"github.com/pkg/errors"
)

// Read reads a config from the given file, substituting environment variables first.
func Read(filePath string) (*Config, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	return FromReader(filePath, bytes.NewReader(buf))
}

// FromReader reads a config from the given reader and records
// where, if applicable, the file the reader came from. Defaults only fill keys that are absent.
func FromReader(sourcePath string, r io.Reader) (*Config, error) {
	cfg := Config{
		ConfigFilePath: sourcePath,
		Calibration: Calibration{
			DownSample:  DefaultDownSample,
			MaxRMSError: DefaultMaxRMSError,
		},
	}
	if err := json.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode Config from json")
	}
	if err := cfg.Validate(""); err != nil {
		return nil, err
	}
	return &cfg, nil
}
