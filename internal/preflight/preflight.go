package preflight

import (
	"context"
	"path/filepath"

	"cleanmedia/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// root is optional; when set the library root is checked too.
func RunAll(ctx context.Context, cfg *config.Config, root string) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	if root != "" {
		results = append(results, CheckDirectoryAccess("Library root", root))
	}
	if cfg.Paths.HistoryDB != "" {
		results = append(results, CheckWritableLocation("History directory", filepath.Dir(cfg.Paths.HistoryDB)))
	}
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckWritableLocation("Log directory", cfg.Paths.LogDir))
	}
	if cfg.Paths.QuarantineDir != "" {
		results = append(results, CheckWritableLocation("Quarantine directory", cfg.Paths.QuarantineDir))
	}

	if cfg.LookupEnabled() {
		results = append(results, CheckTMDB(ctx, cfg.TMDB.BaseURL, cfg.TMDB.APIKey, cfg.TMDB.Language))
	}

	if cfg.Drapto.Enabled {
		results = append(results, CheckTranscodeDeps()...)
	}

	return results
}

// Failed filters results down to failures.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}
