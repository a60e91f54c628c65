package testsupport

import (
	"path/filepath"
	"testing"

	"reaper/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StagingDir = filepath.Join(base, "staging")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Upload.Timezone = "UTC"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithTimezone overrides the upload timezone on the test config.
func WithTimezone(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Upload.Timezone = name
	}
}

// WithDeidentify enables de-identification on the test config.
func WithDeidentify() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Upload.Deidentify = true
	}
}

// WithAPIKey sets the transfer API key on the test config.
func WithAPIKey(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Transfer.APIKey = key
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StagingDir)
}
