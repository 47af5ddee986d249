package classify_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"cleanmedia/internal/classify"
	"cleanmedia/internal/naming"
)

const root = "/library"

func isJournal(name string) bool {
	return strings.HasPrefix(name, ".clean-tv-journal-")
}

func TestClassifyTV(t *testing.T) {
	c := classify.New(naming.TV{}, root, isJournal)
	release := "Letterkenny.S05.1080p.HULU.WEBRip.AAC2.0.x264-monkee[rartv]"

	tests := []struct {
		path string
		role classify.Role
		show string
	}{
		{".clean-tv-journal-20240101-120000.jsonl", classify.Ignored, ""},
		{release + "/Screens/shot01.jpg", classify.ScreensContent, ""},
		{release + "/screens/nested/notes.txt", classify.ScreensContent, ""},
		{release + "/letterkenny.s05e01.sample.mkv", classify.Sample, ""},
		{release + "/Sample/clip.mkv", classify.Sample, ""},
		{release + "/RARBG.txt.rar", classify.DeleteJunk, ""},
		{release + "/cover.JPG", classify.Image, ""},
		{release + "/Letterkenny.S05E01.1080p.HULU.WEBRip.mkv", classify.Video, "Letterkenny"},
		{release + "/Letterkenny.S05E01.en.srt", classify.Sidecar, "Letterkenny"},
		{release + "/Letterkenny.S05E01.fr.srt", classify.ForeignSubtitle, ""},
		{release + "/Subs/French.srt", classify.ForeignSubtitle, ""},
		{"Letterkenny.S05E01.1080p/Subs/English.srt", classify.Sidecar, "Letterkenny"},
		{"Letterkenny.S05E02/video.mkv", classify.Video, "Letterkenny"},
		{"Letterkenny/Season 05/Letterkenny.S05E01.fre.srt", classify.Sidecar, "Letterkenny"},
		{"Letterkenny.S05E02/RARBG.com.url", classify.ReleaseFolderJunk, ""},
		{"random.mkv", classify.Video, ""},
		{"notes.pdf", classify.Unknown, ""},
		{"Docs/manual.pdf", classify.Unknown, ""},
		{"Trailer.Park.Boys.S01E01.mkv", classify.Video, "Trailer Park Boys"},
		{"Silver Screens/Season 01/Silver.Screens.S01E01.mkv", classify.Video, "Silver Screens"},
		{"Show.S01E01.1080p.Trailer.mkv", classify.Sample, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			entry := classify.NewEntry(filepath.Join(root, filepath.FromSlash(tt.path)))
			got := c.Classify(context.Background(), entry)
			if got.Role != tt.role {
				t.Fatalf("role = %s, want %s", got.Role, tt.role)
			}
			if got.Identity.Show != tt.show {
				t.Fatalf("show = %q, want %q", got.Identity.Show, tt.show)
			}
		})
	}
}

func TestClassifyMovieDeletesInfoFiles(t *testing.T) {
	c := classify.New(naming.Movie{}, root, nil)
	entry := classify.NewEntry(filepath.Join(root, "The.Matrix.1999.1080p.BluRay.x264-GROUP", "RARBG.nfo"))
	if got := c.Classify(context.Background(), entry); got.Role != classify.DeleteJunk {
		t.Fatalf("role = %s, want junk", got.Role)
	}

	tv := classify.New(naming.TV{}, root, nil)
	entry = classify.NewEntry(filepath.Join(root, "Letterkenny", "Season 05", "Letterkenny.S05E01.nfo"))
	if got := tv.Classify(context.Background(), entry); got.Role != classify.Sidecar {
		t.Fatalf("tv nfo role = %s, want sidecar", got.Role)
	}
}

func TestPurgeForeignSubtitlesPolicy(t *testing.T) {
	path := filepath.Join(root, "The Matrix (1999)", "The Matrix (1999).spa.srt")

	c := classify.New(naming.Movie{}, root, nil)
	if got := c.Classify(context.Background(), classify.NewEntry(path)); got.Role != classify.Sidecar {
		t.Fatalf("default policy role = %s, want sidecar", got.Role)
	}

	c.PurgeForeignSubtitles = true
	if got := c.Classify(context.Background(), classify.NewEntry(path)); got.Role != classify.ForeignSubtitle {
		t.Fatalf("purge policy role = %s, want foreign_subtitle", got.Role)
	}
}

type stubLookup struct {
	calls []string
}

func (s *stubLookup) LookupYear(_ context.Context, title string) (string, string, bool) {
	s.calls = append(s.calls, title)
	if title == "Inception" {
		return "Inception", "2010", true
	}
	return "", "", false
}

func TestClassifyMovieYearLookup(t *testing.T) {
	lookup := &stubLookup{}
	c := classify.New(naming.Movie{}, root, nil).WithLookup(lookup)

	got := c.Classify(context.Background(), classify.NewEntry(filepath.Join(root, "Inception.1080p.BluRay.mkv")))
	if got.Role != classify.Video || got.Identity != naming.NewMovie("Inception", "2010") {
		t.Fatalf("decision = %+v, want Inception (2010)", got)
	}

	// Sidecars never trigger a lookup.
	c.Classify(context.Background(), classify.NewEntry(filepath.Join(root, "Unknown.Title.srt")))
	if len(lookup.calls) != 1 || lookup.calls[0] != "Inception" {
		t.Fatalf("lookup calls = %v", lookup.calls)
	}
}

func TestRoleDeletes(t *testing.T) {
	for _, role := range []classify.Role{classify.DeleteJunk, classify.Image, classify.ScreensContent, classify.ForeignSubtitle, classify.ReleaseFolderJunk} {
		if !role.Deletes() {
			t.Errorf("%s should delete", role)
		}
	}
	for _, role := range []classify.Role{classify.Video, classify.Sidecar, classify.Sample, classify.Unknown, classify.Ignored} {
		if role.Deletes() {
			t.Errorf("%s should not delete", role)
		}
	}
}

func TestRoleReason(t *testing.T) {
	tests := map[classify.Role]string{
		classify.ScreensContent:    "screens-folder content",
		classify.ForeignSubtitle:   "non-English subtitle",
		classify.ReleaseFolderJunk: "release folder junk",
		classify.Unknown:           "unknown",
		classify.DeleteJunk:        "",
		classify.Video:             "",
	}
	for role, want := range tests {
		if got := role.Reason(); got != want {
			t.Errorf("%s.Reason() = %q, want %q", role, got, want)
		}
	}
}

func TestIsScreensFolder(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Screens", true},
		{"screenshots", true},
		{"Screen Shots", true},
		{"Silver Screens", false},
		{"Screenshots of Letterkenny", false},
	}
	for _, tt := range tests {
		if got := classify.IsScreensFolder(tt.name); got != tt.want {
			t.Errorf("IsScreensFolder(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
