package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	appName                   = "reaper"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultTransferTimeout    = 300
	defaultS3Region           = "us-east-1"
	defaultStaleWorkDirHours  = 24
	defaultSubjectCodeField   = "PatientID"
	defaultSessionLabelField  = "StudyDescription"
	defaultAcquisitionField   = "SeriesDescription"
	defaultDatasetPrefixField = "SeriesNumber"
	defaultExamNumberField    = "StudyID"
)

func defaultStagingDir() string {
	return filepath.Join(xdg.DataHome, appName, "staging")
}

func defaultLogDir() string {
	return filepath.Join(xdg.DataHome, appName, "logs")
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir(),
			LogDir:     defaultLogDir(),
		},
		Upload: Upload{
			StaleWorkDirHours: defaultStaleWorkDirHours,
		},
		Transfer: Transfer{
			TimeoutSeconds: defaultTransferTimeout,
		},
		S3: S3{
			Region: defaultS3Region,
			UseSSL: true,
		},
		Tags: DefaultTags(),
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// DefaultTags returns the metadata field names used when neither the config
// file nor the command line overrides them.
func DefaultTags() Tags {
	return Tags{
		SubjectCode:      defaultSubjectCodeField,
		SessionLabel:     defaultSessionLabelField,
		AcquisitionLabel: defaultAcquisitionField,
		DatasetLabel:     defaultDatasetPrefixField,
		ExamNumber:       defaultExamNumberField,
	}
}
