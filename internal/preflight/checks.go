package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"cleanmedia/internal/deps"
	"cleanmedia/internal/services"
	"cleanmedia/internal/services/tmdb"
)

// CheckTMDB verifies that the TMDB API is reachable and the key is valid.
// It uses a 5-second timeout and a single request.
func CheckTMDB(ctx context.Context, baseURL, apiKey, language string) Result {
	const name = "TMDB"

	client, err := tmdb.New(apiKey, baseURL, language, tmdb.WithMinInterval(0))
	if err != nil {
		return Result{Name: name, Detail: "API key missing"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := client.SearchMovie(checkCtx, "The Matrix"); err != nil {
		return Result{Name: name, Detail: summarizeTMDBError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "API reachable"}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckWritableLocation passes when path is an accessible directory, or when
// it does not exist yet and its nearest existing ancestor is writable.
func CheckWritableLocation(name, path string) Result {
	if _, err := os.Stat(path); err == nil || !os.IsNotExist(err) {
		return CheckDirectoryAccess(name, path)
	}
	ancestor := filepath.Dir(path)
	for {
		if _, err := os.Stat(ancestor); err == nil {
			break
		}
		parent := filepath.Dir(ancestor)
		if parent == ancestor {
			break
		}
		ancestor = parent
	}
	result := CheckDirectoryAccess(name, ancestor)
	if result.Passed {
		result.Detail = fmt.Sprintf("%s (will be created)", path)
	}
	return result
}

// CheckTranscodeDeps reports the binaries the transcode command needs.
func CheckTranscodeDeps() []Result {
	statuses := deps.Check(deps.TranscodeRequirements())
	results := make([]Result, 0, len(statuses))
	for _, s := range statuses {
		r := Result{Name: s.Name, Passed: s.Available, Detail: s.Detail}
		if s.Available {
			r.Detail = s.Path
		}
		results = append(results, r)
	}
	return results
}

func summarizeTMDBError(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out (TMDB unresponsive)"
	case errors.Is(err, services.ErrTransient):
		return fmt.Sprintf("TMDB unavailable (%v)", err)
	default:
		return err.Error()
	}
}
