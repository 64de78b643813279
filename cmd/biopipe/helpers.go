package main

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// methodDisplayName turns an analysis method identifier into a
// human-readable label, e.g. "moving_average" becomes "Moving Average".
func methodDisplayName(method string) string {
	cleaned := strings.ReplaceAll(strings.TrimSpace(method), "_", " ")
	if cleaned == "" {
		return ""
	}
	if strings.EqualFold(cleaned, "rmssd") {
		return "RMSSD"
	}
	return cases.Title(language.Und).String(cleaned)
}

func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format("2006-01-02 15:04:05")
}

func formatOptionalTimestamp(ts *time.Time) string {
	if ts == nil {
		return "-"
	}
	return formatTimestamp(*ts)
}
