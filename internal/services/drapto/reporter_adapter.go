package drapto

import (
	"fmt"
	"time"

	draptolib "github.com/five82/drapto"
)

// EventType names the kind of progress update.
type EventType string

const (
	EventTypeStageProgress    EventType = "stage_progress"
	EventTypeEncodingProgress EventType = "encoding_progress"
	EventTypeEncodingComplete EventType = "encoding_complete"
	EventTypeValidation       EventType = "validation"
	EventTypeWarning          EventType = "warning"
	EventTypeError            EventType = "error"
)

// ProgressUpdate is the subset of drapto reporter events the transcode
// command surfaces.
type ProgressUpdate struct {
	Type      EventType
	Timestamp time.Time
	Percent   float64
	Stage     string
	Message   string
	ETA       time.Duration
	Speed     float64

	OriginalSize int64
	EncodedSize  int64
	Passed       bool
}

// reporter adapts drapto's Reporter interface to a ProgressUpdate callback.
// Events without a counterpart are dropped.
type reporter struct {
	callback func(ProgressUpdate)
}

func newReporter(callback func(ProgressUpdate)) *reporter {
	return &reporter{callback: callback}
}

func (r *reporter) emit(update ProgressUpdate) {
	update.Timestamp = time.Now()
	r.callback(update)
}

func (r *reporter) Hardware(draptolib.HardwareSummary) {}

func (r *reporter) Initialization(draptolib.InitializationSummary) {
	r.emit(ProgressUpdate{Type: EventTypeStageProgress, Stage: "initialization"})
}

func (r *reporter) StageProgress(s draptolib.StageProgress) {
	var eta time.Duration
	if s.ETA != nil {
		eta = *s.ETA
	}
	r.emit(ProgressUpdate{Type: EventTypeStageProgress, Percent: float64(s.Percent), Stage: s.Stage, Message: s.Message, ETA: eta})
}

func (r *reporter) CropResult(draptolib.CropSummary) {}

func (r *reporter) EncodingConfig(draptolib.EncodingConfigSummary) {}

func (r *reporter) EncodingStarted(uint64) {
	r.emit(ProgressUpdate{Type: EventTypeStageProgress, Stage: "encoding"})
}

func (r *reporter) EncodingProgress(s draptolib.ProgressSnapshot) {
	r.emit(ProgressUpdate{
		Type:    EventTypeEncodingProgress,
		Percent: float64(s.Percent),
		Stage:   "encoding",
		Speed:   float64(s.Speed),
		ETA:     s.ETA,
	})
}

func (r *reporter) ValidationComplete(s draptolib.ValidationSummary) {
	r.emit(ProgressUpdate{Type: EventTypeValidation, Passed: s.Passed})
}

func (r *reporter) EncodingComplete(s draptolib.EncodingOutcome) {
	r.emit(ProgressUpdate{
		Type:         EventTypeEncodingComplete,
		Percent:      100,
		OriginalSize: int64(s.OriginalSize),
		EncodedSize:  int64(s.EncodedSize),
	})
}

func (r *reporter) Warning(message string) {
	r.emit(ProgressUpdate{Type: EventTypeWarning, Message: message})
}

func (r *reporter) Error(e draptolib.ReporterError) {
	r.emit(ProgressUpdate{Type: EventTypeError, Message: fmt.Sprintf("%v: %v", e.Title, e.Message)})
}

func (r *reporter) OperationComplete(message string) {
	r.emit(ProgressUpdate{Type: EventTypeStageProgress, Stage: "complete", Message: message})
}

func (r *reporter) BatchStarted(draptolib.BatchStartInfo) {}

func (r *reporter) FileProgress(draptolib.FileProgressContext) {}

func (r *reporter) BatchComplete(draptolib.BatchSummary) {}

var _ draptolib.Reporter = (*reporter)(nil)
