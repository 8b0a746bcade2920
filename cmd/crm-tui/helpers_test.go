package main

import (
	"testing"

	"github.com/elishevaschwarz-hash/CRM2/internal/domain"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		limit int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"hello", 0, ""},
		{"hello", 2, "he"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.limit); got != tc.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
		}
	}
}

func TestCompactSingleLine(t *testing.T) {
	got := compactSingleLine("  a\n\tb   c  ", 20)
	if got != "a b c" {
		t.Fatalf("compactSingleLine = %q, want %q", got, "a b c")
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("one two three four", 9)
	want := "one two\nthree\nfour"
	if got != want {
		t.Fatalf("wrapText = %q, want %q", got, want)
	}
	if got := wrapText("untouched", 0); got != "untouched" {
		t.Fatalf("wrapText with zero width = %q", got)
	}
}

func TestFormatDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2026-09-01", "01/09/2026"},
		{"", "—"},
		{"not a date", "—"},
	}
	for _, tc := range cases {
		if got := formatDate(tc.in); got != tc.want {
			t.Fatalf("formatDate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestClampInt(t *testing.T) {
	if got := clampInt(5, 0, 3); got != 3 {
		t.Fatalf("clampInt(5,0,3) = %d", got)
	}
	if got := clampInt(-1, 0, 3); got != 0 {
		t.Fatalf("clampInt(-1,0,3) = %d", got)
	}
	if got := clampInt(2, 0, 3); got != 2 {
		t.Fatalf("clampInt(2,0,3) = %d", got)
	}
}

func TestNextStatusFilterCycles(t *testing.T) {
	got := nextStatusFilter("", 1)
	if got != domain.StatusActive {
		t.Fatalf("first step = %q, want %q", got, domain.StatusActive)
	}
	// A full lap lands back on "all".
	current := domain.ContactStatus("")
	for range append([]domain.ContactStatus{""}, domain.ContactStatuses...) {
		current = nextStatusFilter(current, 1)
	}
	if current != "" {
		t.Fatalf("full cycle ends on %q, want all", current)
	}
}

func TestNextStatusCycles(t *testing.T) {
	if got := nextStatus(domain.StatusActive, 1); got != domain.StatusLead {
		t.Fatalf("nextStatus(active) = %q", got)
	}
	if got := nextStatus(domain.StatusInactive, 1); got != domain.StatusActive {
		t.Fatalf("nextStatus(inactive) = %q", got)
	}
}

func TestTypeIcon(t *testing.T) {
	if typeIcon(domain.TypeCall) == typeIcon(domain.TypeEmail) {
		t.Fatal("icons must differ per type")
	}
	if typeIcon(domain.InteractionType("bogus")) == "" {
		t.Fatal("unknown type needs a fallback icon")
	}
}
