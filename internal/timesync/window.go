package timesync

import (
	"fmt"

	"biopipe/internal/series"
)

// WindowType selects how an analysis window relates to event occurrences.
type WindowType string

const (
	// WindowAll ignores the event log and takes the whole recording.
	WindowAll WindowType = "all"
	// WindowFull runs from each occurrence until the next non-empty
	// marker row in the log.
	WindowFull WindowType = "full"
	// WindowCustom is a fixed offset range around each occurrence.
	WindowCustom WindowType = "custom"
)

// WindowSpec names one comparison group and describes how to carve its
// window out of the aligned stream. Condition further restricts matching
// occurrences when non-empty. CustomStart may be negative to capture a
// pre-event baseline.
type WindowSpec struct {
	Label       string
	EventMarker string
	Condition   string
	Type        WindowType
	CustomStart float64
	CustomEnd   float64
}

// ExtractWindow slices the offset-aligned series into the concatenation
// of per-occurrence sub-ranges described by spec. Occurrences are
// concatenated in event-log order and rows within each occurrence keep
// source order. Zero matching occurrences or zero contained samples yield
// an empty series; that is a valid outcome the caller must check before
// running analysis on it. An unknown window type is a caller bug and
// fails hard.
func ExtractWindow(s series.Series, log Log, spec WindowSpec) (series.Series, error) {
	switch spec.Type {
	case WindowAll:
		return s.Clone(), nil
	case WindowFull, WindowCustom:
	default:
		return series.Series{Metric: s.Metric}, fmt.Errorf("unknown window type %q", spec.Type)
	}

	out := series.Series{Metric: s.Metric}
	for _, event := range log {
		if event.Marker != spec.EventMarker {
			continue
		}
		if spec.Condition != "" && event.Condition != spec.Condition {
			continue
		}

		var window series.Series
		if spec.Type == WindowFull {
			end := nextMarkerTime(log, event.Timestamp)
			window = s.Filter(func(sample series.Sample) bool {
				return sample.Adjusted >= event.Timestamp && sample.Adjusted < end
			})
		} else {
			start := event.Timestamp + spec.CustomStart
			end := event.Timestamp + spec.CustomEnd
			window = s.Filter(func(sample series.Sample) bool {
				return sample.Adjusted >= start && sample.Adjusted <= end
			})
		}
		out.Samples = append(out.Samples, window.Samples...)
	}
	return out, nil
}

// nextMarkerTime returns the timestamp of the first non-empty marker row
// strictly after t, falling back to the end of the log when none follows.
func nextMarkerTime(log Log, t float64) float64 {
	for _, event := range log {
		if event.Timestamp > t && event.Marker != "" {
			return event.Timestamp
		}
	}
	end, _ := log.MaxTimestamp()
	return end
}
