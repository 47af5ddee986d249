package drapto

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"cleanmedia/internal/fileutil"
	"cleanmedia/internal/logging"
	"cleanmedia/internal/services"
)

// TranscodeResult reports the encode of one file.
type TranscodeResult struct {
	Path        string
	Output      string
	Success     bool
	Err         error
	InputBytes  int64
	OutputBytes int64
}

// Savings is the number of bytes the encode freed. Negative when the output
// grew.
func (r TranscodeResult) Savings() int64 {
	return r.InputBytes - r.OutputBytes
}

// Summary renders the result for humans.
func (r TranscodeResult) Summary() string {
	if !r.Success {
		return fmt.Sprintf("failed: %v", r.Err)
	}
	saved := r.Savings()
	if saved < 0 {
		return fmt.Sprintf("%s -> %s (grew %s)", humanize.IBytes(uint64(r.InputBytes)), humanize.IBytes(uint64(r.OutputBytes)), humanize.IBytes(uint64(-saved)))
	}
	pct := 0.0
	if r.InputBytes > 0 {
		pct = float64(saved) / float64(r.InputBytes) * 100
	}
	return fmt.Sprintf("%s -> %s (saved %s, %.1f%%)", humanize.IBytes(uint64(r.InputBytes)), humanize.IBytes(uint64(r.OutputBytes)), humanize.IBytes(uint64(saved)), pct)
}

// Transcoder re-encodes already organized videos in place. It works outside
// the journal: an encode is not undoable.
type Transcoder struct {
	encoder Encoder
	logger  *slog.Logger
}

// NewTranscoder wraps encoder.
func NewTranscoder(encoder Encoder, logger *slog.Logger) *Transcoder {
	return &Transcoder{encoder: encoder, logger: logging.NewComponentLogger(logger, "transcode")}
}

// Transcode encodes each path in turn. Failures are reported per file and do
// not stop the batch.
func (t *Transcoder) Transcode(ctx context.Context, paths []string) []TranscodeResult {
	ctx = services.WithStage(ctx, "transcode")
	results := make([]TranscodeResult, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			results = append(results, TranscodeResult{Path: path, Err: err})
			continue
		}
		result := t.transcodeOne(ctx, path)
		logger := logging.WithContext(ctx, t.logger)
		if result.Success {
			logger.Info("transcode completed",
				logging.String("path", result.Output),
				logging.String("result", result.Summary()),
			)
		} else {
			logging.WarnWithContext(logger, "transcode failed", services.EventType(result.Err),
				logging.String("path", path),
				logging.Error(result.Err),
				logging.String(logging.FieldImpact, "original file kept"),
			)
		}
		results = append(results, result)
	}
	return results
}

func (t *Transcoder) transcodeOne(ctx context.Context, path string) TranscodeResult {
	result := TranscodeResult{Path: path}
	info, err := os.Stat(path)
	if err != nil {
		result.Err = services.Wrap(services.ErrNotFound, "transcode", "stat input", path, err)
		return result
	}
	if !info.Mode().IsRegular() {
		result.Err = services.Wrap(services.ErrValidation, "transcode", "stat input", path+" is not a regular file", nil)
		return result
	}
	result.InputBytes = info.Size()

	final := strings.TrimSuffix(path, filepath.Ext(path)) + ".mkv"
	if final != path && fileutil.Exists(final) {
		result.Err = services.Wrap(services.ErrDestinationConflict, "transcode", "replace input",
			final+" already exists", nil)
		return result
	}

	workDir, err := os.MkdirTemp(filepath.Dir(path), ".cleanmedia-transcode-")
	if err != nil {
		result.Err = services.Wrap(services.ErrIO, "transcode", "create work dir", filepath.Dir(path), err)
		return result
	}
	defer os.RemoveAll(workDir)

	progress := func(update ProgressUpdate) {
		if update.Type == EventTypeWarning {
			t.logger.Warn("drapto warning", logging.String("path", path), logging.String("message", update.Message))
		}
	}
	encoded, err := t.encoder.Encode(ctx, path, workDir, progress)
	if err != nil {
		result.Err = services.Wrap(services.ErrExternalTool, "transcode", "encode", path, err)
		return result
	}
	out, err := os.Stat(encoded)
	if err != nil {
		result.Err = services.Wrap(services.ErrExternalTool, "transcode", "stat output", encoded, err)
		return result
	}

	if final != path && fileutil.Exists(final) {
		result.Err = services.Wrap(services.ErrDestinationConflict, "transcode", "replace input",
			final+" appeared during encode", nil)
		return result
	}
	if err := os.Rename(encoded, final); err != nil {
		result.Err = services.Wrap(services.ErrIO, "transcode", "replace input", final, err)
		return result
	}
	if final != path {
		if err := os.Remove(path); err != nil {
			result.Err = services.Wrap(services.ErrIO, "transcode", "remove original", path, err)
			return result
		}
	}
	result.Output = final
	result.OutputBytes = out.Size()
	result.Success = true
	return result
}
