package mover

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"cleanmedia/internal/journal"
	"cleanmedia/internal/logging"
	"cleanmedia/internal/services"
	"cleanmedia/internal/testsupport"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestMoveDryRunRecordsWithoutTouchingDisk(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in", "a.mkv")
	dst := filepath.Join(dir, "Show", "Season 01", "Show.S01E01.mkv")
	writeFile(t, src, "x")

	var j journal.Journal
	m := New(&j, false, logging.NewNop())
	if err := m.Move(src, dst); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("source should remain in dry run: %v", err)
	}
	if _, err := os.Stat(filepath.Dir(dst)); !os.IsNotExist(err) {
		t.Fatalf("dry run must not create directories, stat err = %v", err)
	}
	if got := j.Entries(); len(got) != 1 || got[0] != (journal.Entry{Op: journal.OpMove, Src: src, Dst: dst}) {
		t.Fatalf("unexpected journal %+v", got)
	}
}

func TestMoveCommit(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in", "a.mkv")
	dst := filepath.Join(dir, "Show", "Season 01", "Show.S01E01.mkv")
	writeFile(t, src, "x")

	past := time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)
	var j journal.Journal
	m := New(&j, true, logging.NewNop())
	m.now = func() time.Time { return past }
	if err := m.Move(src, dst); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("source should be gone, stat err = %v", err)
	}
	if data, err := os.ReadFile(dst); err != nil || string(data) != "x" {
		t.Fatalf("destination content = %q, %v", data, err)
	}
	info, err := os.Stat(filepath.Join(dir, "Show"))
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(past) {
		t.Fatalf("expected show folder mtime to be touched, got %v", info.ModTime())
	}
	if j.Count(journal.OpMove) != 1 {
		t.Fatalf("expected one move entry, got %+v", j.Entries())
	}
}

func TestMoveRefusesExistingDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.mkv")
	dst := filepath.Join(dir, "b.mkv")
	writeFile(t, src, "a")
	writeFile(t, dst, "b")

	var j journal.Journal
	for _, commit := range []bool{false, true} {
		err := New(&j, commit, nil).Move(src, dst)
		if !errors.Is(err, ErrDestinationExists) || !errors.Is(err, services.ErrDestinationConflict) {
			t.Fatalf("commit=%v: expected destination conflict, got %v", commit, err)
		}
	}
	if j.Len() != 0 {
		t.Fatalf("failed moves must not be journaled: %+v", j.Entries())
	}
}

func TestMoveCrossDeviceFallback(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in", "a.mkv")
	dst := filepath.Join(dir, "out", "a.mkv")
	writeFile(t, src, "payload")

	exdev := func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: unix.EXDEV}
	}
	var j journal.Journal
	m := New(&j, true, logging.NewNop(), WithRename(exdev), WithTouchDepth(0))
	if err := m.Move(src, dst); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("source should be removed after copy, stat err = %v", err)
	}
	if data, _ := os.ReadFile(dst); string(data) != "payload" {
		t.Fatalf("destination content = %q", data)
	}
	if got := j.Entries(); len(got) != 1 || got[0].Op != journal.OpMove {
		t.Fatalf("journal should look like a plain move: %+v", got)
	}
}

func TestMoveCrossDeviceCopiesWholeFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in", "big.mkv")
	dst := filepath.Join(dir, "out", "big.mkv")
	const size = 3<<20 + 17
	testsupport.WriteFile(t, src, size)

	exdev := func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: unix.EXDEV}
	}
	var j journal.Journal
	m := New(&j, true, logging.NewNop(), WithRename(exdev), WithTouchDepth(0))
	if err := m.Move(src, dst); err != nil {
		t.Fatalf("Move: %v", err)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatalf("stat destination: %v", err)
	}
	if info.Size() != size {
		t.Fatalf("destination size = %d, want %d", info.Size(), size)
	}
}

func TestMoveDirCrossDevice(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Release", "Sample")
	writeFile(t, filepath.Join(src, "sample.mkv"), "s")
	dst := filepath.Join(dir, "quarantine", "Sample")

	exdev := func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: unix.EXDEV}
	}
	var j journal.Journal
	if err := New(&j, true, nil, WithRename(exdev)).MoveDir(src, dst); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dst, "sample.mkv")); err != nil {
		t.Fatalf("expected copied tree: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("expected source tree removed, stat err = %v", err)
	}
	if j.Count(journal.OpMoveDir) != 1 {
		t.Fatalf("expected move_dir entry, got %+v", j.Entries())
	}
}

func TestRenameErrorIsIO(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.mkv")
	writeFile(t, src, "a")
	denied := func(string, string) error { return os.ErrPermission }

	var j journal.Journal
	err := New(&j, true, nil, WithRename(denied)).Move(src, filepath.Join(dir, "b.mkv"))
	if !errors.Is(err, services.ErrIO) {
		t.Fatalf("expected io error, got %v", err)
	}
	if j.Len() != 0 {
		t.Fatal("failed move was journaled")
	}
}

func TestDelete(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "junk.nfo")
	tree := filepath.Join(dir, "Screens")
	writeFile(t, file, "x")
	writeFile(t, filepath.Join(tree, "s1.jpg"), "x")

	var j journal.Journal
	dry := New(&j, false, nil)
	if err := dry.Delete(file); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(file); err != nil {
		t.Fatal("dry run deleted the file")
	}

	m := New(&j, true, nil)
	for _, path := range []string{file, tree} {
		if err := m.Delete(path); err != nil {
			t.Fatal(err)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatalf("%s should be gone", path)
		}
	}
	if j.Count(journal.OpDelete) != 3 {
		t.Fatalf("expected three delete entries, got %+v", j.Entries())
	}
}
