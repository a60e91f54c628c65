package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeUpload()
	c.normalizeTransfer()
	c.normalizeS3()
	c.normalizeTags()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		c.Paths.StagingDir = defaultStagingDir()
	}
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir()
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeUpload() {
	c.Upload.Timezone = strings.TrimSpace(c.Upload.Timezone)
	if c.Upload.Timezone == "" {
		if value, ok := os.LookupEnv("REAPER_TIMEZONE"); ok {
			c.Upload.Timezone = strings.TrimSpace(value)
		}
	}
	if c.Upload.StaleWorkDirHours <= 0 {
		c.Upload.StaleWorkDirHours = defaultStaleWorkDirHours
	}
}

func (c *Config) normalizeTransfer() {
	c.Transfer.APIKey = strings.TrimSpace(c.Transfer.APIKey)
	if c.Transfer.APIKey == "" {
		if value, ok := os.LookupEnv("REAPER_API_KEY"); ok {
			c.Transfer.APIKey = strings.TrimSpace(value)
		}
	}
	if c.Transfer.TimeoutSeconds <= 0 {
		c.Transfer.TimeoutSeconds = defaultTransferTimeout
	}
}

func (c *Config) normalizeS3() {
	c.S3.Endpoint = strings.TrimSpace(c.S3.Endpoint)
	c.S3.Region = strings.TrimSpace(c.S3.Region)
	if c.S3.Region == "" {
		c.S3.Region = defaultS3Region
	}
	c.S3.AccessKey = strings.TrimSpace(c.S3.AccessKey)
	if c.S3.AccessKey == "" {
		if value, ok := os.LookupEnv("REAPER_S3_ACCESS_KEY"); ok {
			c.S3.AccessKey = strings.TrimSpace(value)
		}
	}
	c.S3.SecretKey = strings.TrimSpace(c.S3.SecretKey)
	if c.S3.SecretKey == "" {
		if value, ok := os.LookupEnv("REAPER_S3_SECRET_KEY"); ok {
			c.S3.SecretKey = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeTags() {
	c.Tags.SubjectCode = strings.TrimSpace(c.Tags.SubjectCode)
	c.Tags.SessionLabel = strings.TrimSpace(c.Tags.SessionLabel)
	c.Tags.AcquisitionLabel = strings.TrimSpace(c.Tags.AcquisitionLabel)
	c.Tags.DatasetLabel = strings.TrimSpace(c.Tags.DatasetLabel)
	c.Tags.ExamNumber = strings.TrimSpace(c.Tags.ExamNumber)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
