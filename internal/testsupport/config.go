package testsupport

import (
	"path/filepath"
	"testing"

	"cleanmedia/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// TMDB is disabled so tests never reach the network.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.HistoryDB = filepath.Join(base, "history.db")
	cfgVal.TMDB.Enabled = false
	cfgVal.TMDB.APIKey = "test"
	cfgVal.Drapto.Enabled = false

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

// WithQuarantine points the quarantine directory below the test base dir.
func WithQuarantine() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.QuarantineDir = filepath.Join(b.baseDir, "quarantine")
	}
}

// WithTMDB enables year lookup against baseURL (usually an httptest server).
func WithTMDB(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.TMDB.Enabled = true
		b.cfg.TMDB.BaseURL = baseURL
		b.cfg.TMDB.MinIntervalMS = 0
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.HistoryDB)
}
