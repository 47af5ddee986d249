package naming

import "testing"

func TestParseEpisode(t *testing.T) {
	tests := []struct {
		input   string
		show    string
		season  string
		episode string
	}{
		{"Letterkenny.S05E01.1080p.HULU.WEBRip.AAC2.0.x264-monkee.mkv", "Letterkenny", "05", "01"},
		{"Show Name - 1x02 - Pilot.mkv", "Show Name", "01", "02"},
		{"The Office Season 2 Episode 5.avi", "The Office", "02", "05"},
		{"the.office.s2e5.mkv", "The Office", "02", "05"},
		{"The.Office.US.S02E05.mkv", "The Office US", "02", "05"},
		{"[rartv]Letterkenny.S05E01.mkv", "Letterkenny", "05", "01"},
		{"www.UIndex.org    -    Letterkenny S05E02 720p.mkv", "Letterkenny", "05", "02"},
		{"eztv.re.Letterkenny.S05E03.mkv", "Letterkenny", "05", "03"},
		{"Doctor Who (2005) S10E01.mkv", "Doctor Who", "10", "01"},
		{"Show – S01E02.mkv", "Show", "01", "02"},
		{"Letterkenny.S05E01 (alt).mkv", "Letterkenny", "05", "01"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			id := ParseEpisode(tt.input)
			if id.Kind != KindEpisode {
				t.Fatalf("ParseEpisode(%q) = %v, want episode", tt.input, id)
			}
			if id.Show != tt.show || id.Season != tt.season || id.Episode != tt.episode {
				t.Errorf("ParseEpisode(%q) = %q S%sE%s, want %q S%sE%s",
					tt.input, id.Show, id.Season, id.Episode, tt.show, tt.season, tt.episode)
			}
		})
	}
}

func TestParseEpisodeUnparsed(t *testing.T) {
	for _, input := range []string{
		"S01E01.mkv",
		"Random.Movie.2019.1080p.mkv",
		"Movie.1920x1080.mkv",
		"",
		"Letterkenny.S05.1080p.HULU.WEBRip.AAC2.0.x264-monkee[rartv]",
	} {
		if id := ParseEpisode(input); id.Parsed() {
			t.Errorf("ParseEpisode(%q) = %v, want unparsed", input, id)
		}
	}
}

func TestParseMovie(t *testing.T) {
	tests := []struct {
		input string
		title string
		year  string
	}{
		{"The.Matrix.1999.1080p.BluRay.x264-GROUP.mkv", "The Matrix", "1999"},
		{"The Matrix (1999).mkv", "The Matrix", "1999"},
		{"The Matrix (1999)", "The Matrix", "1999"},
		{"The Matrix (1999) (alt).mkv", "The Matrix", "1999"},
		{"2001.A.Space.Odyssey.1968", "2001 A Space Odyssey", "1968"},
		{"2001.A.Space.Odyssey.1968.mkv", "2001 A Space Odyssey", "1968"},
		{"Die.Hard.2.1990.720p.mkv", "Die Hard 2", "1990"},
		{"FBI.Movie.2010.mkv", "FBI Movie", "2010"},
		{"[YTS] Inception.2010.BRRip.mp4", "Inception", "2010"},
		{"yts.Inception (2010) [1080p]", "Inception", "2010"},
		{"the_big_lebowski_1998_dvdrip.avi", "The Big Lebowski", "1998"},
		{"Amélie (2001).mkv", "Amélie", "2001"},
		{"The Matrix (1999).eng.forced.srt", "The Matrix", "1999"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			id := ParseMovie(tt.input)
			if id.Kind != KindMovie {
				t.Fatalf("ParseMovie(%q) = %v, want movie", tt.input, id)
			}
			if id.Title != tt.title || id.Year != tt.year {
				t.Errorf("ParseMovie(%q) = %q (%s), want %q (%s)", tt.input, id.Title, id.Year, tt.title, tt.year)
			}
		})
	}
}

func TestParseMovieUnparsed(t *testing.T) {
	for _, input := range []string{
		"Movie.Without.Year.mkv",
		"Home.Video.1080p.mkv",
		"1999.mkv",
		"Movie.3000.mkv",
	} {
		if id := ParseMovie(input); id.Parsed() {
			t.Errorf("ParseMovie(%q) = %v, want unparsed", input, id)
		}
	}
}

func TestParseIsDeterministic(t *testing.T) {
	inputs := []string{
		"Letterkenny.S05E01.1080p.HULU.WEBRip.mkv",
		"The.Matrix.1999.1080p.BluRay.x264-GROUP.mkv",
		"garbage",
	}
	for _, input := range inputs {
		if ParseEpisode(input) != ParseEpisode(input) {
			t.Errorf("ParseEpisode(%q) not deterministic", input)
		}
		if ParseMovie(input) != ParseMovie(input) {
			t.Errorf("ParseMovie(%q) not deterministic", input)
		}
	}
}

func TestCleanMovieTitle(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"The.Matrix", "The Matrix"},
		{"Inception.1080p.BluRay.x264", "Inception"},
		{"Cam.Girl", "Cam Girl"},
		{"Movie.CAM", "Movie"},
		{"Some.Movie.EXTENDED.REMUX", "Some Movie"},
		{"Heist - GRP", "Heist"},
		{"Spider-Man", "Spider-Man"},
		{"Title [YTS]", "Title"},
		{"NASA.Files", "NASA Files"},
		{"SHOUTING.TITLE", "Shouting Title"},
	}
	for _, tt := range tests {
		if got := CleanMovieTitle(tt.input); got != tt.want {
			t.Errorf("CleanMovieTitle(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestStripNoisePrefix(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"[TGx] Show.S01E01", "Show.S01E01"},
		{"rarbg-Show.S01E01", "Show.S01E01"},
		{"www.Torrenting.com - Show.S01E01", "Show.S01E01"},
		{"www.Show.S01E01", "Show.S01E01"},
		{"Show.S01E01", "Show.S01E01"},
	}
	for _, tt := range tests {
		if got := StripNoisePrefix(tt.input); got != tt.want {
			t.Errorf("StripNoisePrefix(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
