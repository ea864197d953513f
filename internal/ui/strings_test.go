package ui

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"Ring Road Resurfacing", 10, "Ring Ro..."},
		{"short", 10, "short"},
		{"  padded  ", 0, "padded"},
		{"abcdef", 3, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.limit); got != tt.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
		}
	}
}

func TestTruncateMiddle(t *testing.T) {
	got := truncateMiddle("/static/uploads/site-photo-final.jpg", 15)
	if len([]rune(got)) != 15 {
		t.Fatalf("truncateMiddle length = %d, want 15 (%q)", len([]rune(got)), got)
	}
	if got[:7] != "/static" {
		t.Fatalf("truncateMiddle(...) = %q, want /static prefix", got)
	}
}

func TestTitleCase(t *testing.T) {
	tests := map[string]string{
		"technical_review":        "Technical Review",
		"In Progress":             "In Progress",
		"client_approval_pending": "Client Approval Pending",
		"":                        "",
	}
	for in, want := range tests {
		if got := titleCase(in); got != want {
			t.Fatalf("titleCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 4); got != "ab  " {
		t.Fatalf("padRight = %q", got)
	}
	if got := padRight("abcdef", 4); got != "abcd" {
		t.Fatalf("padRight clip = %q", got)
	}
}
