package organizer_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleanmedia/internal/journal"
	"cleanmedia/internal/logging"
	"cleanmedia/internal/organizer"
	"cleanmedia/internal/services"
	"cleanmedia/internal/testsupport"
)

func TestUndoRestoresMovesAndReportsDeletes(t *testing.T) {
	root := t.TempDir()
	letterkennyTree(t, root)

	report, err := newTV().Run(context.Background(), organizer.Options{Root: root, Commit: true})
	require.NoError(t, err)

	undo, err := organizer.Undo(context.Background(), report.JournalPath, logging.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 2, undo.Restored)
	assert.Empty(t, undo.Failures)
	release := filepath.Join(root, letterkennyRelease)
	assert.ElementsMatch(t, []string{
		release,
		filepath.Join(release, "Letterkenny.S05E01.fr.srt"),
	}, undo.Lost)

	assert.FileExists(t, filepath.Join(release, "Letterkenny.S05E01.1080p.HULU.WEBRip.mkv"))
	assert.FileExists(t, filepath.Join(release, "Letterkenny.S05E01.en.srt"))
	assert.NoFileExists(t, filepath.Join(release, "Letterkenny.S05E01.fr.srt"))
	assert.NoFileExists(t, filepath.Join(root, "Letterkenny", "Season 05", "Letterkenny.S05E01.mkv"))
}

func TestUndoRestoresQuarantinedFolder(t *testing.T) {
	root := t.TempDir()
	quarantine := t.TempDir()
	testsupport.WriteTree(t, root, "Show.S01E01.720p-GRP/Sample/clip.mkv")

	report, err := newTV().Run(context.Background(), organizer.Options{Root: root, Commit: true, Quarantine: quarantine})
	require.NoError(t, err)
	require.NoFileExists(t, filepath.Join(root, "Show.S01E01.720p-GRP", "Sample", "clip.mkv"))

	undo, err := organizer.Undo(context.Background(), report.JournalPath, logging.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, undo.Restored)
	assert.FileExists(t, filepath.Join(root, "Show.S01E01.720p-GRP", "Sample", "clip.mkv"))
}

func TestUndoSkipsMissingTargetsAndOccupiedSources(t *testing.T) {
	root := t.TempDir()
	gone := filepath.Join(root, "gone.mkv")
	occupied := filepath.Join(root, "occupied.mkv")
	testsupport.WriteTree(t, root, "placed/occupied.mkv", "occupied.mkv")

	j := &journal.Journal{}
	j.Append(journal.Entry{Op: journal.OpMove, Src: gone, Dst: filepath.Join(root, "placed", "gone.mkv")})
	j.Append(journal.Entry{Op: journal.OpMove, Src: occupied, Dst: filepath.Join(root, "placed", "occupied.mkv")})
	path := filepath.Join(root, journal.FileName("clean-tv", fixedClock()()))
	require.NoError(t, j.Save(path))

	undo, err := organizer.Undo(context.Background(), path, logging.NewNop())
	require.NoError(t, err)

	assert.Zero(t, undo.Restored)
	require.Len(t, undo.Skipped, 2)
	assert.Equal(t, "source exists", undo.Skipped[0].Reason)
	assert.Equal(t, "missing target", undo.Skipped[1].Reason)
	assert.FileExists(t, filepath.Join(root, "placed", "occupied.mkv"))
}

func TestUndoRejectsBadJournal(t *testing.T) {
	dir := t.TempDir()

	_, err := organizer.Undo(context.Background(), filepath.Join(dir, "missing.jsonl"), logging.NewNop())
	assert.ErrorIs(t, err, services.ErrNotFound)

	bad := filepath.Join(dir, "bad.jsonl")
	require.NoError(t, os.WriteFile(bad, []byte("{\"op\":\"move\"\n"), 0o644))
	_, err = organizer.Undo(context.Background(), bad, logging.NewNop())
	assert.ErrorIs(t, err, services.ErrValidation)
}
