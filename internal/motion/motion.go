// Package motion detects out-of-range movement intervals on a 3-axis
// accelerometer stream and excludes the matching time ranges from an
// independently sampled physiological series.
//
// Motion artifacts on one channel corrupt nearby samples of other
// channels even when those values look superficially valid, so exclusion
// works by time overlap rather than shared row indices; the two streams
// are not guaranteed to share a sampling grid.
package motion

import (
	"biopipe/internal/series"
)

// Frame holds co-sampled accelerometer axes on a shared device clock.
// The four slices have equal length.
type Frame struct {
	Timestamps []float64
	X          []float64
	Y          []float64
	Z          []float64
}

// Len reports the number of rows in the frame.
func (f Frame) Len() int { return len(f.Timestamps) }

// Config bounds acceptable per-axis readings and controls how far each
// flagged run is widened before exclusion.
type Config struct {
	Lower  float64
	Upper  float64
	Margin int // samples added on both sides of each out-of-range run
}

// Interval is a closed time range on the motion stream's clock.
type Interval struct {
	Start float64
	End   float64
}

// FlagIntervals finds runs of rows where any axis leaves [Lower, Upper],
// widens each run by Margin samples clipped to the frame bounds, merges
// overlapping runs, and translates the surviving runs' boundary rows into
// boundary timestamps.
func FlagIntervals(f Frame, cfg Config) []Interval {
	n := f.Len()
	if n == 0 {
		return nil
	}

	type span struct{ start, end int } // inclusive row indices
	var spans []span
	runStart := -1
	for i := 0; i < n; i++ {
		if outOfRange(f, i, cfg) {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		if runStart >= 0 {
			spans = append(spans, span{runStart, i - 1})
			runStart = -1
		}
	}
	if runStart >= 0 {
		spans = append(spans, span{runStart, n - 1})
	}
	if len(spans) == 0 {
		return nil
	}

	// Expand by the margin, clipping to the recording bounds, then merge
	// runs that now touch or overlap. Spans were collected in order, so a
	// single forward pass suffices.
	merged := make([]span, 0, len(spans))
	for _, sp := range spans {
		sp.start = max(0, sp.start-cfg.Margin)
		sp.end = min(n-1, sp.end+cfg.Margin)
		if len(merged) > 0 && sp.start <= merged[len(merged)-1].end+1 {
			if sp.end > merged[len(merged)-1].end {
				merged[len(merged)-1].end = sp.end
			}
			continue
		}
		merged = append(merged, sp)
	}

	intervals := make([]Interval, len(merged))
	for i, sp := range merged {
		intervals[i] = Interval{Start: f.Timestamps[sp.start], End: f.Timestamps[sp.end]}
	}
	return intervals
}

// Exclude removes every sample of s whose device-local timestamp falls
// inside a flagged motion interval. When no interval is flagged the input
// series is returned unchanged alongside a nil interval slice.
func Exclude(s series.Series, f Frame, cfg Config) (series.Series, []Interval) {
	intervals := FlagIntervals(f, cfg)
	if len(intervals) == 0 {
		return s, nil
	}
	out := s.Filter(func(sample series.Sample) bool {
		for _, iv := range intervals {
			if sample.Local >= iv.Start && sample.Local <= iv.End {
				return false
			}
		}
		return true
	})
	return out, intervals
}

func outOfRange(f Frame, i int, cfg Config) bool {
	return f.X[i] < cfg.Lower || f.X[i] > cfg.Upper ||
		f.Y[i] < cfg.Lower || f.Y[i] > cfg.Upper ||
		f.Z[i] < cfg.Lower || f.Z[i] > cfg.Upper
}
