package drapto

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	draptolib "github.com/five82/drapto"
)

// Encoder runs one encode of inputPath into outputDir and returns the
// output file path.
type Encoder interface {
	Encode(ctx context.Context, inputPath, outputDir string, progress func(ProgressUpdate)) (string, error)
}

// Library implements Encoder using the Drapto Go library directly.
type Library struct {
	responsive bool
}

// LibraryOption configures a Library.
type LibraryOption func(*Library)

// WithResponsive reserves CPU headroom so the machine stays usable.
func WithResponsive(enabled bool) LibraryOption {
	return func(l *Library) { l.responsive = enabled }
}

// NewLibrary constructs a Library encoder.
func NewLibrary(opts ...LibraryOption) *Library {
	l := &Library{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Encode encodes a video file using the Drapto library.
func (l *Library) Encode(ctx context.Context, inputPath, outputDir string, progress func(ProgressUpdate)) (string, error) {
	if inputPath == "" {
		return "", errors.New("input path required")
	}
	if strings.TrimSpace(outputDir) == "" {
		return "", errors.New("output directory required")
	}

	var encoderOpts []draptolib.Option
	if l.responsive {
		encoderOpts = append(encoderOpts, draptolib.WithResponsive())
	}
	encoder, err := draptolib.New(encoderOpts...)
	if err != nil {
		return "", err
	}

	var rep draptolib.Reporter
	if progress != nil {
		rep = newReporter(progress)
	}
	if _, err := encoder.EncodeWithReporter(ctx, inputPath, outputDir, rep); err != nil {
		return "", err
	}
	return OutputPath(inputPath, outputDir), nil
}

// OutputPath is where drapto writes the encode of inputPath.
func OutputPath(inputPath, outputDir string) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = base
	}
	return filepath.Join(strings.TrimSpace(outputDir), stem+".mkv")
}

var _ Encoder = (*Library)(nil)
