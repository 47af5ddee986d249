package textutil

import "testing"

func TestNormalizeSeparators(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Show – 1x02", "Show - 1x02"},
		{"Show Name—Part", "Show Name-Part"},
		{"  many   spaces\there ", "many spaces here"},
		{"Amélie", "Amélie"},
	}
	for _, tt := range tests {
		if got := NormalizeSeparators(tt.in); got != tt.want {
			t.Fatalf("NormalizeSeparators(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Mission: Impossible", "Mission- Impossible"},
		{"What If?", "What If"},
		{"  AC/DC  ", "AC-DC"},
		{"", ""},
		{"Tab\tName", "TabName"},
		{"Trailing...", "Trailing"},
	}
	for _, tt := range tests {
		if got := SanitizeFileName(tt.in); got != tt.want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTernary(t *testing.T) {
	if Ternary(true, "a", "b") != "a" || Ternary(false, 1, 2) != 2 {
		t.Fatal("unexpected ternary result")
	}
}
