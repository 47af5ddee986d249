package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cleanmedia/internal/testsupport"
)

type cliTestEnv struct {
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("TMDB_API_KEY", "")

	cfg := testsupport.NewConfig(t)
	configPath := filepath.Join(base, "cleanmedia.toml")
	content := fmt.Sprintf(
		"[paths]\nlog_dir = %q\nhistory_db = %q\n\n[organizer]\nkind = \"tv\"\n\n[tmdb]\nenabled = false\n\n[logging]\nlevel = \"warn\"\n",
		cfg.Paths.LogDir,
		cfg.Paths.HistoryDB,
	)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return &cliTestEnv{configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestRunCommitHistoryAndUndo(t *testing.T) {
	env := setupCLITestEnv(t)
	root := filepath.Join(env.baseDir, "library")
	testsupport.WriteTree(t, root, "Show.S01E01.720p.WEB-GRP/Show.S01E01.720p.WEB-GRP.mkv")
	original := filepath.Join(root, "Show.S01E01.720p.WEB-GRP", "Show.S01E01.720p.WEB-GRP.mkv")
	placed := filepath.Join(root, "Show", "Season 01", "Show.S01E01.mkv")

	out, _, err := runCLI(t, []string{"run", root}, env.configPath)
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	requireContains(t, out, "Dry run")
	if _, err := os.Stat(original); err != nil {
		t.Fatalf("dry run touched the tree: %v", err)
	}

	out, _, err = runCLI(t, []string{"run", root, "--commit"}, env.configPath)
	if err != nil {
		t.Fatalf("commit run: %v", err)
	}
	requireContains(t, out, "Journal:")
	if _, err := os.Stat(placed); err != nil {
		t.Fatalf("expected %s: %v", placed, err)
	}

	out, _, err = runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, root)
	requireContains(t, out, "moved=1")

	out, _, err = runCLI(t, []string{"undo", "--last", "--root", root}, env.configPath)
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	requireContains(t, out, "Restored: 1")
	if _, err := os.Stat(original); err != nil {
		t.Fatalf("expected %s restored: %v", original, err)
	}

	out, _, err = runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history after undo: %v", err)
	}
	requireContains(t, out, "commit")
}

func TestUndoRequiresTarget(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"undo"}, env.configPath); err == nil {
		t.Fatal("expected error without a journal")
	}
	if _, _, err := runCLI(t, []string{"undo", "--last"}, env.configPath); err == nil || !strings.Contains(err.Error(), "--root") {
		t.Fatalf("expected --root error, got %v", err)
	}
}

func TestParseCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"parse", "--root", "/lib", "Letterkenny.S05E01.1080p.HULU.WEBRip.mkv", "notes.pdf"}, env.configPath)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	requireContains(t, out, "Letterkenny S05E01")
	requireContains(t, out, "/lib/Letterkenny/Season 05/Letterkenny.S05E01.mkv")
	requireContains(t, out, "unparsed")

	out, _, err = runCLI(t, []string{"parse", "--kind", "movie", "--root", "/lib", "The.Matrix.1999.1080p.BluRay.x264-GROUP.mkv"}, env.configPath)
	if err != nil {
		t.Fatalf("parse movie: %v", err)
	}
	requireContains(t, out, "The Matrix (1999)/The Matrix (1999).mkv")

	out, _, err = runCLI(t, []string{"parse", "--kind", "movie", "--root", "/lib", "The.Matrix.1999.spa.forced.srt"}, env.configPath)
	if err != nil {
		t.Fatalf("parse sidecar: %v", err)
	}
	requireContains(t, out, "The Matrix (1999).spa.forced.srt")
	requireContains(t, out, "Spanish")
}

func TestConfigInitShowAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "Media kind: tv")

	out, _, err = runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "[organizer]")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}
}

func TestTranscodeDisabled(t *testing.T) {
	env := setupCLITestEnv(t)
	cfgPath := env.configPath
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfgPath, append(data, []byte("\n[drapto]\nenabled = false\n")...), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err = runCLI(t, []string{"transcode", "video.mkv"}, cfgPath)
	if err == nil || !strings.Contains(err.Error(), "disabled") {
		t.Fatalf("expected disabled error, got %v", err)
	}
}
