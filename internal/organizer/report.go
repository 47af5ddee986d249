package organizer

import (
	"time"
)

// Outcome is the terminal state of one file in a run.
type Outcome int

const (
	OutcomeIgnored Outcome = iota
	OutcomePurged
	OutcomeQuarantinedSample
	OutcomeDuplicateRemoved
	OutcomeMoved
	OutcomeAlternateMoved
	OutcomeSkippedAlreadyPlaced
	OutcomeSkippedUnparsed
	OutcomeSkippedUnknown
	OutcomeFailed
)

var outcomeNames = [...]string{
	OutcomeIgnored:              "ignored",
	OutcomePurged:               "purged",
	OutcomeQuarantinedSample:    "quarantined_sample",
	OutcomeDuplicateRemoved:     "duplicate_removed",
	OutcomeMoved:                "moved",
	OutcomeAlternateMoved:       "alternate_moved",
	OutcomeSkippedAlreadyPlaced: "skipped_already_placed",
	OutcomeSkippedUnparsed:      "skipped_unparsed",
	OutcomeSkippedUnknown:       "skipped_unknown",
	OutcomeFailed:               "failed",
}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return "unknown"
	}
	return outcomeNames[o]
}

// Outcomes lists every outcome in display order.
func Outcomes() []Outcome {
	out := make([]Outcome, 0, len(outcomeNames))
	for i := range outcomeNames {
		out = append(out, Outcome(i))
	}
	return out
}

// Unexpected is a file the run deleted or left alone for a reason worth
// surfacing to the operator.
type Unexpected struct {
	Path   string
	Reason string
}

// Failure is a per-file error that did not stop the run.
type Failure struct {
	Path string
	Err  error
}

// RunReport summarizes one run.
type RunReport struct {
	RunID       string
	Root        string
	Kind        string
	Commit      bool
	Plan        bool
	StartedAt   time.Time
	FinishedAt  time.Time
	JournalPath string
	// Operations is the number of journal entries the run produced.
	Operations       int
	Counts           map[Outcome]int
	Unexpected       []Unexpected
	RemainingFolders []string
	Failures         []Failure
}

func newRunReport() RunReport {
	return RunReport{Counts: make(map[Outcome]int)}
}

// Count returns how many files ended in outcome o.
func (r RunReport) Count(o Outcome) int {
	return r.Counts[o]
}

// Files is the number of files the run visited.
func (r RunReport) Files() int {
	total := 0
	for _, n := range r.Counts {
		total += n
	}
	return total
}

// CountsByName keys the counts by outcome name, dropping zeros.
func (r RunReport) CountsByName() map[string]int {
	out := make(map[string]int, len(r.Counts))
	for o, n := range r.Counts {
		if n > 0 {
			out[o.String()] = n
		}
	}
	return out
}

// UndoReport summarizes a journal replay.
type UndoReport struct {
	JournalPath string
	Restored    int
	Skipped     []Unexpected
	Lost        []string
	Failures    []Failure
}
