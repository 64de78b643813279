package series

import (
	"math"
	"sort"
)

// Sample is one sensor reading. Local carries the device clock in seconds
// (arbitrary epoch); Adjusted carries the wall-clock timestamp once a
// synchronization offset has been applied and is zero before that. A NaN
// Value marks a missing reading that a later pipeline stage may fill or
// drop.
type Sample struct {
	Local    float64
	Adjusted float64
	Value    float64
}

// Series is an ordered run of samples for a single metric, subject, and
// recording. Timestamps are non-decreasing in source order but not
// guaranteed gap-free or evenly sampled.
type Series struct {
	Metric  string
	Samples []Sample
}

// Len reports the number of samples.
func (s Series) Len() int { return len(s.Samples) }

// Empty reports whether the series holds no samples.
func (s Series) Empty() bool { return len(s.Samples) == 0 }

// Clone returns a deep copy. Pipeline stages operate on clones so callers
// never observe their input mutated.
func (s Series) Clone() Series {
	out := Series{Metric: s.Metric}
	if s.Samples != nil {
		out.Samples = make([]Sample, len(s.Samples))
		copy(out.Samples, s.Samples)
	}
	return out
}

// Filter returns a new series holding the samples for which keep returns
// true, preserving source order.
func (s Series) Filter(keep func(Sample) bool) Series {
	out := Series{Metric: s.Metric, Samples: make([]Sample, 0, len(s.Samples))}
	for _, sample := range s.Samples {
		if keep(sample) {
			out.Samples = append(out.Samples, sample)
		}
	}
	return out
}

// SortedByLocal returns a copy sorted by the device-local timestamp.
// The sort is stable so co-timestamped samples retain source order.
func (s Series) SortedByLocal() Series {
	out := s.Clone()
	sort.SliceStable(out.Samples, func(i, j int) bool {
		return out.Samples[i].Local < out.Samples[j].Local
	})
	return out
}

// WithOffset returns a copy whose Adjusted timestamps are Local plus the
// given offset in seconds.
func (s Series) WithOffset(offset float64) Series {
	out := s.Clone()
	for i := range out.Samples {
		out.Samples[i].Adjusted = out.Samples[i].Local + offset
	}
	return out
}

// Values returns the metric values in order.
func (s Series) Values() []float64 {
	vals := make([]float64, len(s.Samples))
	for i, sample := range s.Samples {
		vals[i] = sample.Value
	}
	return vals
}

// FiniteValues returns the metric values with NaN and infinities removed.
func (s Series) FiniteValues() []float64 {
	vals := make([]float64, 0, len(s.Samples))
	for _, sample := range s.Samples {
		if isFinite(sample.Value) {
			vals = append(vals, sample.Value)
		}
	}
	return vals
}

// MinLocal returns the smallest device-local timestamp. The boolean is
// false for an empty series.
func (s Series) MinLocal() (float64, bool) {
	if len(s.Samples) == 0 {
		return 0, false
	}
	min := s.Samples[0].Local
	for _, sample := range s.Samples[1:] {
		if sample.Local < min {
			min = sample.Local
		}
	}
	return min, true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
