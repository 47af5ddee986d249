package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"cleanmedia/internal/config"
)

func TestLoadDefaultConfigUsesEnvTMDBKeyAndExpandsPaths(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "test-key")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "cleanmedia", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if want := filepath.Join(tempHome, ".local", "share", "cleanmedia", "history.db"); cfg.Paths.HistoryDB != want {
		t.Fatalf("history db = %q, want %q", cfg.Paths.HistoryDB, want)
	}
	if cfg.LogFile() != filepath.Join(tempHome, ".local", "share", "cleanmedia", "logs", "cleanmedia.log") {
		t.Fatalf("unexpected log file %q", cfg.LogFile())
	}
	if cfg.Paths.QuarantineDir != "" {
		t.Fatalf("quarantine should default to empty, got %q", cfg.Paths.QuarantineDir)
	}
	if cfg.TMDB.APIKey != "test-key" || !cfg.LookupEnabled() {
		t.Fatalf("expected TMDB key from env, got %q", cfg.TMDB.APIKey)
	}
	if cfg.TMDBMinInterval() != 250*time.Millisecond {
		t.Fatalf("unexpected min interval %v", cfg.TMDBMinInterval())
	}
	if cfg.Organizer.Kind != "tv" || cfg.Organizer.TouchParentDepth != 2 {
		t.Fatalf("unexpected organizer defaults %+v", cfg.Organizer)
	}
}

func TestLoadCustomPath(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	content := `
[paths]
quarantine_dir = "` + filepath.Join(dir, "quarantine") + `"

[organizer]
kind = "Movies"
touch_parent_depth = 1
purge_foreign_subtitles = true
ignore = [" **/keep/** ", ""]

[tmdb]
enabled = false

[logging]
format = "JSON"
level = "DEBUG"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected custom path to resolve, got %q exists=%v", resolved, exists)
	}
	if cfg.Organizer.Kind != "movie" {
		t.Fatalf("kind alias not normalized: %q", cfg.Organizer.Kind)
	}
	if cfg.Organizer.TouchParentDepth != 1 || !cfg.Organizer.PurgeForeignSubtitles {
		t.Fatalf("unexpected organizer section %+v", cfg.Organizer)
	}
	if len(cfg.Organizer.Ignore) != 1 || cfg.Organizer.Ignore[0] != "**/keep/**" {
		t.Fatalf("ignore globs not trimmed: %q", cfg.Organizer.Ignore)
	}
	if cfg.Paths.QuarantineDir != filepath.Join(dir, "quarantine") {
		t.Fatalf("unexpected quarantine dir %q", cfg.Paths.QuarantineDir)
	}
	if cfg.LookupEnabled() {
		t.Fatal("lookup should be disabled")
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging not normalized: %+v", cfg.Logging)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[organizer]\nkindd = \"tv\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "your_tmdb_api_key_here") {
		t.Fatalf("sample config missing placeholder TMDB key: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Organizer.Kind != "tv" || len(cfg.Organizer.Ignore) == 0 {
		t.Fatalf("unexpected sample organizer section %+v", cfg.Organizer)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config should validate: %v", err)
	}
}

func TestSampleConfigPlaceholderKeyDisablesLookup(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	t.Setenv("TMDB_API_KEY", "")
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.TMDB.APIKey != "" || cfg.LookupEnabled() {
		t.Fatalf("placeholder key must not enable lookup, key=%q", cfg.TMDB.APIKey)
	}

	t.Setenv("TMDB_API_KEY", "env-key")
	cfg, _, _, err = config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.TMDB.APIKey != "env-key" || !cfg.LookupEnabled() {
		t.Fatalf("expected env key to replace placeholder, got %q", cfg.TMDB.APIKey)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"kind", func(c *config.Config) { c.Organizer.Kind = "music" }},
		{"touch depth", func(c *config.Config) { c.Organizer.TouchParentDepth = 9 }},
		{"ignore glob", func(c *config.Config) { c.Organizer.Ignore = []string{"[unclosed"} }},
		{"tmdb interval", func(c *config.Config) { c.TMDB.MinIntervalMS = -1 }},
		{"log level", func(c *config.Config) { c.Logging.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestEncodeRoundTripsKind(t *testing.T) {
	cfg := config.Default()
	cfg.Organizer.Kind = "movie"
	data, err := cfg.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "kind = 'movie'") && !strings.Contains(string(data), `kind = "movie"`) {
		t.Fatalf("encoded config missing kind: %s", data)
	}
}
