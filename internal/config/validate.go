package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if err := c.validateS3(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		return errors.New("paths.staging_dir must be set")
	}
	return nil
}

func (c *Config) validateS3() error {
	if (c.S3.AccessKey == "") != (c.S3.SecretKey == "") {
		return errors.New("s3.access_key and s3.secret_key must be set together")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q (use debug, info, warn, or error)", c.Logging.Level)
	}
}

// Location resolves the configured timezone. An empty timezone means the
// local system zone.
func (c *Config) Location() (*time.Location, error) {
	return LoadLocation(c.Upload.Timezone)
}

// LoadLocation resolves an IANA timezone name, returning time.Local for an
// empty name.
func LoadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}
