package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Op names a journaled mutation.
type Op string

const (
	OpMove    Op = "move"
	OpDelete  Op = "delete"
	OpMoveDir Op = "move_dir"
)

// Entry is one mutation. Dst is empty for deletes.
type Entry struct {
	Op  Op     `json:"op"`
	Src string `json:"src"`
	Dst string `json:"dst,omitempty"`
}

// Journal is the ordered, append-only record of one run.
type Journal struct {
	entries []Entry
}

// Append records an entry.
func (j *Journal) Append(e Entry) {
	j.entries = append(j.entries, e)
}

// Entries returns a copy of the recorded entries in order.
func (j *Journal) Entries() []Entry {
	out := make([]Entry, len(j.entries))
	copy(out, j.entries)
	return out
}

// Len is the number of recorded entries.
func (j *Journal) Len() int { return len(j.entries) }

// Count returns how many entries have the given op.
func (j *Journal) Count(op Op) int {
	n := 0
	for _, e := range j.entries {
		if e.Op == op {
			n++
		}
	}
	return n
}

const (
	timestampLayout = "20060102-150405"
	fileSuffix      = ".jsonl"
)

// FileName returns ".<service>-journal-YYYYMMDD-HHMMSS.jsonl".
func FileName(service string, at time.Time) string {
	return "." + service + "-journal-" + at.Format(timestampLayout) + fileSuffix
}

// IsJournalName reports whether name looks like a journal written by any service.
func IsJournalName(name string) bool {
	return strings.HasPrefix(name, ".") && strings.Contains(name, "-journal-") && strings.HasSuffix(name, fileSuffix)
}

// Write encodes entries as one JSON object per line.
func Write(w io.Writer, entries []Entry) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			return err
		}
	}
	return nil
}

// Save writes the journal to path, syncing before close.
func (j *Journal) Save(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	bw := bufio.NewWriter(f)
	if err := Write(bw, j.entries); err != nil {
		_ = f.Close()
		return fmt.Errorf("write journal: %w", err)
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush journal: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync journal: %w", err)
	}
	return f.Close()
}

// Read parses a JSONL journal. Blank lines are skipped; unknown ops and
// malformed lines are errors so replay never starts on a corrupt file.
func Read(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(text), &e); err != nil {
			return nil, fmt.Errorf("journal line %d: %w", line, err)
		}
		if err := e.validate(); err != nil {
			return nil, fmt.Errorf("journal line %d: %w", line, err)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	return entries, nil
}

// Load opens and parses the journal at path.
func Load(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

func (e Entry) validate() error {
	if e.Src == "" {
		return errors.New("missing src")
	}
	switch e.Op {
	case OpMove, OpMoveDir:
		if e.Dst == "" {
			return fmt.Errorf("%s entry missing dst", e.Op)
		}
	case OpDelete:
	default:
		return fmt.Errorf("unknown op %q", e.Op)
	}
	return nil
}

// Latest returns the newest journal in root, optionally limited to one
// service. The timestamp in the name orders journals.
func Latest(root, service string) (string, error) {
	dirEntries, err := os.ReadDir(root)
	if err != nil {
		return "", err
	}
	var names []string
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || !IsJournalName(name) {
			continue
		}
		if service != "" && !strings.HasPrefix(name, "."+service+"-journal-") {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return "", os.ErrNotExist
	}
	sort.Slice(names, func(i, k int) bool {
		return stamp(names[i]) < stamp(names[k])
	})
	return filepath.Join(root, names[len(names)-1]), nil
}

func stamp(name string) string {
	idx := strings.LastIndex(name, "-journal-")
	return strings.TrimSuffix(name[idx+len("-journal-"):], fileSuffix)
}
