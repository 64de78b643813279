package timesync_test

import (
	"errors"
	"math"
	"testing"

	"biopipe/internal/series"
	"biopipe/internal/timesync"
)

func TestNormalizePrefersUnixColumn(t *testing.T) {
	raw := timesync.RawLog{
		HasUnix:      true,
		HasTimestamp: true,
		Rows: []timesync.RawEvent{
			{Unix: "1700000100.5", Timestamp: "garbage", Marker: "stimulus"},
			{Unix: "1700000050", Marker: "baseline", Condition: "rest"},
		},
	}
	log, dropped, err := timesync.Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if dropped != 0 {
		t.Fatalf("expected no drops, got %d", dropped)
	}
	if len(log) != 2 {
		t.Fatalf("expected 2 events, got %d", len(log))
	}
	// Sorted ascending regardless of source order.
	if log[0].Marker != "baseline" || log[0].Timestamp != 1700000050 {
		t.Fatalf("unexpected first event: %+v", log[0])
	}
	if log[1].Timestamp != 1700000100.5 {
		t.Fatalf("unexpected second event: %+v", log[1])
	}
	if log[0].Condition != "rest" {
		t.Fatalf("condition not carried through: %+v", log[0])
	}
}

func TestNormalizeParsesHumanReadableTimestamps(t *testing.T) {
	cases := []struct {
		name string
		cell string
	}{
		{"rfc3339", "2024-03-01T10:00:00Z"},
		{"space separated", "2024-03-01 10:00:00"},
		{"fractional", "2024-03-01 10:00:00.250"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := timesync.RawLog{
				HasTimestamp: true,
				Rows:         []timesync.RawEvent{{Timestamp: tc.cell, Marker: "m"}},
			}
			log, dropped, err := timesync.Normalize(raw)
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			if dropped != 0 || len(log) != 1 {
				t.Fatalf("expected one parsed event, got %d events %d dropped", len(log), dropped)
			}
			if log[0].Timestamp <= 0 {
				t.Fatalf("timestamp did not normalize to unix seconds: %v", log[0].Timestamp)
			}
		})
	}
}

func TestNormalizeDropsBadRows(t *testing.T) {
	raw := timesync.RawLog{
		HasUnix: true,
		Rows: []timesync.RawEvent{
			{Unix: "not-a-number", Marker: "a"},
			{Unix: "-5", Marker: "b"},
			{Unix: "0", Marker: "c"},
			{Unix: "1700000000", Marker: "keep"},
		},
	}
	log, dropped, err := timesync.Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if dropped != 3 {
		t.Fatalf("expected 3 drops, got %d", dropped)
	}
	if len(log) != 1 || log[0].Marker != "keep" {
		t.Fatalf("unexpected survivors: %+v", log)
	}
}

func TestNormalizeFailsWithoutTimestampColumns(t *testing.T) {
	_, _, err := timesync.Normalize(timesync.RawLog{Rows: []timesync.RawEvent{{Marker: "m"}}})
	if !errors.Is(err, timesync.ErrNoTimestampColumn) {
		t.Fatalf("expected ErrNoTimestampColumn, got %v", err)
	}
}

func TestOffsetAnchorsEarliestTimestamps(t *testing.T) {
	log := timesync.Log{
		{Timestamp: 1700000200, Marker: "late"},
		{Timestamp: 1700000100, Marker: "early"},
	}
	s := series.Series{Samples: []series.Sample{
		{Local: 52.5, Value: 70},
		{Local: 50.0, Value: 71},
	}}

	offset, err := timesync.Offset(log, s)
	if err != nil {
		t.Fatalf("Offset: %v", err)
	}
	if want := 1700000100 - 50.0; offset != want {
		t.Fatalf("got offset %v, want %v", offset, want)
	}

	aligned := timesync.Align(s, offset)
	for _, sample := range aligned.Samples {
		if got := sample.Adjusted - sample.Local; got != offset {
			t.Fatalf("adjusted timestamp off by %v, want %v", got, offset)
		}
	}
}

func TestOffsetEmptyStreams(t *testing.T) {
	s := series.Series{Samples: []series.Sample{{Local: 1}}}
	if _, err := timesync.Offset(timesync.Log{}, s); !errors.Is(err, timesync.ErrEmptyStream) {
		t.Fatalf("expected ErrEmptyStream for empty log, got %v", err)
	}
	log := timesync.Log{{Timestamp: 1700000000}}
	if _, err := timesync.Offset(log, series.Series{}); !errors.Is(err, timesync.ErrEmptyStream) {
		t.Fatalf("expected ErrEmptyStream for empty series, got %v", err)
	}
}

func TestMatchEventsWithinTolerance(t *testing.T) {
	s := series.Series{Samples: []series.Sample{
		{Adjusted: 100.0, Value: 70},
		{Adjusted: 101.0, Value: 71},
		{Adjusted: 102.0, Value: 72},
	}}
	log := timesync.Log{
		{Timestamp: 100.9, Marker: "near"},
		{Timestamp: 110.0, Marker: "far"},
	}

	report := timesync.MatchEvents(s, log, 1.0)
	if len(report.Matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(report.Matches))
	}
	match := report.Matches[0]
	if match.SampleIndex != 1 || match.Value != 71 {
		t.Fatalf("matched the wrong sample: %+v", match)
	}
	if math.Abs(match.TimeDiff-0.1) > 1e-9 {
		t.Fatalf("unexpected time difference: %v", match.TimeDiff)
	}
	if len(report.Unmatched) != 1 || report.Unmatched[0].Marker != "far" {
		t.Fatalf("expected the far event to be unmatched: %+v", report.Unmatched)
	}
}

func TestExtractWindowAll(t *testing.T) {
	s := series.Series{Metric: "HR", Samples: []series.Sample{{Adjusted: 1}, {Adjusted: 2}}}
	out, err := timesync.ExtractWindow(s, timesync.Log{}, timesync.WindowSpec{Label: "Session", Type: timesync.WindowAll})
	if err != nil {
		t.Fatalf("ExtractWindow: %v", err)
	}
	if out.Len() != 2 {
		t.Fatalf("window type all should take everything, got %d", out.Len())
	}
}

func TestExtractWindowFullEndsAtNextMarker(t *testing.T) {
	s := series.Series{Metric: "HR"}
	for ts := 100.0; ts <= 130.0; ts++ {
		s.Samples = append(s.Samples, series.Sample{Adjusted: ts, Value: ts})
	}
	log := timesync.Log{
		{Timestamp: 105, Marker: "stimulus"},
		{Timestamp: 115, Marker: "recovery"},
	}

	out, err := timesync.ExtractWindow(s, log, timesync.WindowSpec{
		Label:       "Stim",
		EventMarker: "stimulus",
		Type:        timesync.WindowFull,
	})
	if err != nil {
		t.Fatalf("ExtractWindow: %v", err)
	}
	// [105, 115): start inclusive, next marker exclusive.
	if out.Len() != 10 {
		t.Fatalf("expected 10 samples, got %d", out.Len())
	}
	if out.Samples[0].Adjusted != 105 || out.Samples[out.Len()-1].Adjusted != 114 {
		t.Fatalf("unexpected window bounds: first=%v last=%v", out.Samples[0].Adjusted, out.Samples[out.Len()-1].Adjusted)
	}
}

func TestExtractWindowFullFallsBackToLogEnd(t *testing.T) {
	s := series.Series{Metric: "HR"}
	for ts := 100.0; ts <= 130.0; ts++ {
		s.Samples = append(s.Samples, series.Sample{Adjusted: ts})
	}
	log := timesync.Log{{Timestamp: 110, Marker: "last"}}

	out, err := timesync.ExtractWindow(s, log, timesync.WindowSpec{
		Label:       "Tail",
		EventMarker: "last",
		Type:        timesync.WindowFull,
	})
	if err != nil {
		t.Fatalf("ExtractWindow: %v", err)
	}
	// No later marker: the window collapses to [110, 110), which holds
	// nothing. The caller treats an empty window as a skipped group.
	if !out.Empty() {
		t.Fatalf("expected empty window, got %d samples", out.Len())
	}
}

func TestExtractWindowCustomIsInclusive(t *testing.T) {
	s := series.Series{Metric: "HR"}
	for ts := 100.0; ts <= 130.0; ts++ {
		s.Samples = append(s.Samples, series.Sample{Adjusted: ts})
	}
	log := timesync.Log{{Timestamp: 110, Marker: "stimulus"}}

	out, err := timesync.ExtractWindow(s, log, timesync.WindowSpec{
		Label:       "Pre/post",
		EventMarker: "stimulus",
		Type:        timesync.WindowCustom,
		CustomStart: -5,
		CustomEnd:   5,
	})
	if err != nil {
		t.Fatalf("ExtractWindow: %v", err)
	}
	if out.Len() != 11 {
		t.Fatalf("expected 11 samples for [105, 115], got %d", out.Len())
	}
	if out.Samples[0].Adjusted != 105 || out.Samples[out.Len()-1].Adjusted != 115 {
		t.Fatalf("unexpected bounds: first=%v last=%v", out.Samples[0].Adjusted, out.Samples[out.Len()-1].Adjusted)
	}
}

func TestExtractWindowConcatenatesOccurrences(t *testing.T) {
	s := series.Series{Metric: "HR"}
	for ts := 100.0; ts <= 140.0; ts++ {
		s.Samples = append(s.Samples, series.Sample{Adjusted: ts})
	}
	log := timesync.Log{
		{Timestamp: 105, Marker: "trial"},
		{Timestamp: 125, Marker: "trial"},
	}

	out, err := timesync.ExtractWindow(s, log, timesync.WindowSpec{
		Label:       "Trials",
		EventMarker: "trial",
		Type:        timesync.WindowCustom,
		CustomStart: 0,
		CustomEnd:   2,
	})
	if err != nil {
		t.Fatalf("ExtractWindow: %v", err)
	}
	want := []float64{105, 106, 107, 125, 126, 127}
	if out.Len() != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), out.Len())
	}
	for i, sample := range out.Samples {
		if sample.Adjusted != want[i] {
			t.Fatalf("position %d: got %v, want %v", i, sample.Adjusted, want[i])
		}
	}
}

func TestExtractWindowConditionFilter(t *testing.T) {
	s := series.Series{Metric: "HR"}
	for ts := 100.0; ts <= 140.0; ts++ {
		s.Samples = append(s.Samples, series.Sample{Adjusted: ts})
	}
	log := timesync.Log{
		{Timestamp: 105, Marker: "trial", Condition: "easy"},
		{Timestamp: 125, Marker: "trial", Condition: "hard"},
	}

	out, err := timesync.ExtractWindow(s, log, timesync.WindowSpec{
		Label:       "Hard trials",
		EventMarker: "trial",
		Condition:   "hard",
		Type:        timesync.WindowCustom,
		CustomStart: 0,
		CustomEnd:   1,
	})
	if err != nil {
		t.Fatalf("ExtractWindow: %v", err)
	}
	if out.Len() != 2 || out.Samples[0].Adjusted != 125 {
		t.Fatalf("condition filter failed: %+v", out.Samples)
	}
}

func TestExtractWindowUnknownType(t *testing.T) {
	_, err := timesync.ExtractWindow(series.Series{}, timesync.Log{}, timesync.WindowSpec{Type: "sliding"})
	if err == nil {
		t.Fatal("expected an error for an unknown window type")
	}
}
