// Package analysis transforms extracted analysis windows and computes
// method-aware summary statistics for them.
package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"biopipe/internal/series"
)

// Analysis method names. An unrecognized name is a caller programming
// error, not a data problem, and fails hard.
const (
	MethodRaw           = "raw"
	MethodMean          = "mean"
	MethodMovingAverage = "moving_average"
	MethodRMSSD         = "rmssd"
)

// DefaultMovingAverageWindow is the rolling window size in samples when
// the caller does not override it.
const DefaultMovingAverageWindow = 30

// Options carries method-specific parameters.
type Options struct {
	// MovingAverageWindow overrides the rolling window size; zero or
	// negative means DefaultMovingAverageWindow.
	MovingAverageWindow int
}

// Result is a transformed window. RMSSD is window-level metadata retained
// only by the successive-difference method.
type Result struct {
	Series   series.Series
	Method   string
	RMSSD    float64
	HasRMSSD bool
}

// Methods lists the recognized method names.
func Methods() []string {
	return []string{MethodRaw, MethodMean, MethodMovingAverage, MethodRMSSD}
}

// ValidMethod reports whether name is a recognized analysis method.
func ValidMethod(name string) bool {
	switch name {
	case MethodRaw, MethodMean, MethodMovingAverage, MethodRMSSD:
		return true
	}
	return false
}

// Apply transforms the window with the named method. The input is never
// mutated; empty input yields an empty result for every method.
func Apply(s series.Series, method string, opts Options) (Result, error) {
	switch method {
	case MethodRaw:
		return Result{Series: s.Clone(), Method: method}, nil
	case MethodMean:
		return applyMean(s), nil
	case MethodMovingAverage:
		window := opts.MovingAverageWindow
		if window <= 0 {
			window = DefaultMovingAverageWindow
		}
		return applyMovingAverage(s, window), nil
	case MethodRMSSD:
		return applyRMSSD(s), nil
	default:
		return Result{}, fmt.Errorf("unknown analysis method %q", method)
	}
}

// applyMean collapses the window to a single row holding the mean of its
// timestamps and the mean of its metric values.
func applyMean(s series.Series) Result {
	res := Result{Series: series.Series{Metric: s.Metric}, Method: MethodMean}
	if s.Empty() {
		return res
	}

	var sumLocal, sumAdjusted float64
	for _, sample := range s.Samples {
		sumLocal += sample.Local
		sumAdjusted += sample.Adjusted
	}
	n := float64(s.Len())

	mean := stat.Mean(s.FiniteValues(), nil)
	res.Series.Samples = []series.Sample{{
		Local:    sumLocal / n,
		Adjusted: sumAdjusted / n,
		Value:    mean,
	}}
	return res
}

// applyMovingAverage computes a centered rolling mean. The first and last
// half-window samples use a shrinking window rather than being dropped,
// so every input row produces an output row.
func applyMovingAverage(s series.Series, window int) Result {
	out := s.Clone()
	values := s.Values()
	n := len(values)
	half := (window - 1) / 2
	for i := range out.Samples {
		lo := max(0, i-half)
		hi := min(n, i+window/2+1)
		var sum float64
		count := 0
		for _, v := range values[lo:hi] {
			if math.IsNaN(v) {
				continue
			}
			sum += v
			count++
		}
		if count > 0 {
			out.Samples[i].Value = sum / float64(count)
		}
	}
	return Result{Series: out, Method: MethodMovingAverage}
}

// applyRMSSD replaces an n-row window with the n-1 successive differences
// and retains the RMSSD scalar as window-level metadata.
func applyRMSSD(s series.Series) Result {
	res := Result{Series: series.Series{Metric: s.Metric}, Method: MethodRMSSD, HasRMSSD: true}
	if s.Len() < 2 {
		return res
	}

	diffs := make([]float64, s.Len()-1)
	var sumSquares float64
	for i := 0; i < s.Len()-1; i++ {
		diffs[i] = s.Samples[i+1].Value - s.Samples[i].Value
		sumSquares += diffs[i] * diffs[i]
	}
	res.RMSSD = math.Sqrt(sumSquares / float64(len(diffs)))

	res.Series.Samples = make([]series.Sample, len(diffs))
	for i, d := range diffs {
		res.Series.Samples[i] = series.Sample{
			Local:    s.Samples[i].Local,
			Adjusted: s.Samples[i].Adjusted,
			Value:    d,
		}
	}
	return res
}
