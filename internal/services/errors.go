package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrParseFailure        = errors.New("parse failure")
	ErrDestinationConflict = errors.New("destination conflict")
	ErrCrossDevice         = errors.New("cross-device move failure")
	ErrReplayMissingTarget = errors.New("journal replay missing target")
	ErrIO                  = errors.New("filesystem error")
	ErrExternalTool        = errors.New("external tool error")
	ErrValidation          = errors.New("validation error")
	ErrConfiguration       = errors.New("configuration error")
	ErrNotFound            = errors.New("not found")
	ErrTransient           = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// EventType maps an error to the event_type value used in structured warnings.
func EventType(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrParseFailure):
		return "parse_failure"
	case errors.Is(err, ErrDestinationConflict):
		return "destination_conflict"
	case errors.Is(err, ErrCrossDevice):
		return "cross_device_move_failed"
	case errors.Is(err, ErrReplayMissingTarget):
		return "replay_missing_target"
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConfiguration):
		return "invalid_input"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrExternalTool):
		return "external_tool_failed"
	default:
		return "io_error"
	}
}

// Fatal reports whether err comes from bad input or configuration rather than
// a failed filesystem or collaborator operation.
func Fatal(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrConfiguration)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
