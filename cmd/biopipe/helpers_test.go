package main

import (
	"strings"
	"testing"
	"time"
)

func TestMethodDisplayName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"raw", "Raw"},
		{"mean", "Mean"},
		{"moving_average", "Moving Average"},
		{"rmssd", "RMSSD"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := methodDisplayName(tc.in); got != tc.want {
			t.Fatalf("methodDisplayName(%q): got %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatOptionalTimestamp(t *testing.T) {
	if got := formatOptionalTimestamp(nil); got != "-" {
		t.Fatalf("nil timestamp: got %q", got)
	}
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	if got := formatOptionalTimestamp(&ts); got == "-" || got == "" {
		t.Fatalf("timestamp not rendered: %q", got)
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	var sb strings.Builder
	out := renderTable(&sb,
		[]string{"A", "B"},
		[][]string{{"only"}},
		[]columnAlignment{alignLeft, alignRight},
	)
	if !strings.Contains(out, "only") {
		t.Fatalf("row content missing from table:\n%s", out)
	}
	if !strings.Contains(out, "A") || !strings.Contains(out, "B") {
		t.Fatalf("headers missing from table:\n%s", out)
	}
}

func TestFormatOptionalFloat(t *testing.T) {
	if got := formatOptionalFloat(nil); got != "-" {
		t.Fatalf("nil float: got %q", got)
	}
	v := 1.7321
	if got := formatOptionalFloat(&v); got != "1.732" {
		t.Fatalf("float formatting: got %q", got)
	}
}
