package cleaning

import (
	"math"

	"github.com/montanaflynn/stats"

	"biopipe/internal/series"
)

const (
	// outlierThreshold is the modified z-score magnitude beyond which a
	// value is rejected; 3.5 covers roughly 99.95% of a normal
	// distribution.
	outlierThreshold = 3.5
	// madScale converts a median absolute deviation into standard
	// deviation units for normally distributed data.
	madScale = 0.6745
	// interpolateLimit bounds the length of an interior gap that linear
	// interpolation will fill.
	interpolateLimit = 10
	// edgeFillLimit bounds how many leading or trailing missing samples
	// are filled with the nearest valid value.
	edgeFillLimit = 5
	// smoothingWindow is the centered median filter width.
	smoothingWindow = 5
)

// removeInvalid drops NaN and infinite values, plus negative values for
// metrics whose physical quantity cannot be negative.
func (c *Cleaner) removeInvalid(s series.Series) (series.Series, int) {
	before := s.Len()
	out := s.Filter(func(sample series.Sample) bool {
		if math.IsNaN(sample.Value) || math.IsInf(sample.Value, 0) {
			return false
		}
		if c.negativeInvalid && sample.Value < 0 {
			return false
		}
		return true
	})
	return out, before - out.Len()
}

// removePhysiologicalOutliers drops values outside the catalog range.
// The lower and upper bounds apply independently; either may be absent.
func (c *Cleaner) removePhysiologicalOutliers(s series.Series) (series.Series, int) {
	before := s.Len()
	out := s.Filter(func(sample series.Sample) bool {
		if math.IsNaN(sample.Value) {
			return true
		}
		if c.threshold.Min != nil && sample.Value < *c.threshold.Min {
			return false
		}
		if c.threshold.Max != nil && sample.Value > *c.threshold.Max {
			return false
		}
		return true
	})
	return out, before - out.Len()
}

// removeStatisticalOutliers rejects values whose modified z-score
// (median/MAD based) reaches outlierThreshold in magnitude. A constant
// signal has MAD zero; the stage then falls back to the ordinary sample
// standard deviation with the same threshold.
func (c *Cleaner) removeStatisticalOutliers(s series.Series) (series.Series, int) {
	values := s.FiniteValues()
	if len(values) == 0 {
		return s, 0
	}

	median, err := stats.Median(values)
	if err != nil {
		return s, 0
	}
	mad, err := stats.MedianAbsoluteDeviation(values)
	if err != nil {
		return s, 0
	}

	before := s.Len()
	var out series.Series
	if mad == 0 {
		std, err := stats.StandardDeviationSample(values)
		if err != nil || std <= 0 {
			return s, 0
		}
		out = s.Filter(func(sample series.Sample) bool {
			if math.IsNaN(sample.Value) {
				return true
			}
			return math.Abs((sample.Value-median)/std) < outlierThreshold
		})
	} else {
		out = s.Filter(func(sample series.Sample) bool {
			if math.IsNaN(sample.Value) {
				return true
			}
			z := madScale * (sample.Value - median) / mad
			return math.Abs(z) < outlierThreshold
		})
	}
	return out, before - out.Len()
}

// removeSuddenChanges sorts by the device clock and drops the later
// sample of any consecutive retained pair whose rate of change exceeds
// the catalog limit. Pairs with zero time delta have an undefined rate
// and never trigger a drop. This is the only stage that reorders data.
func (c *Cleaner) removeSuddenChanges(s series.Series) (series.Series, int) {
	sorted := s.SortedByLocal()
	maxChange := *c.threshold.MaxChange

	out := series.Series{Metric: sorted.Metric, Samples: make([]series.Sample, 0, sorted.Len())}
	haveAnchor := false
	var anchor series.Sample
	removed := 0

	for _, sample := range sorted.Samples {
		if math.IsNaN(sample.Value) {
			out.Samples = append(out.Samples, sample)
			continue
		}
		if haveAnchor {
			dt := sample.Local - anchor.Local
			if dt > 0 {
				rate := math.Abs(sample.Value-anchor.Value) / dt
				if rate > maxChange {
					removed++
					continue
				}
			}
		}
		out.Samples = append(out.Samples, sample)
		anchor = sample
		haveAnchor = true
	}
	return out, removed
}

// interpolateMissing fills interior gaps of at most interpolateLimit
// consecutive missing values by positional linear interpolation and fills
// edge gaps with the nearest valid value, bounded to edgeFillLimit
// samples. Remaining missing values are dropped as rows. Fills replace
// missing values in place; the stage never adds rows.
func (c *Cleaner) interpolateMissing(s series.Series) (series.Series, int, int) {
	out := s.Clone()
	samples := out.Samples
	n := len(samples)
	filled := 0

	i := 0
	for i < n {
		if !math.IsNaN(samples[i].Value) {
			i++
			continue
		}
		j := i
		for j < n && math.IsNaN(samples[j].Value) {
			j++
		}
		run := j - i
		switch {
		case i == 0 && j == n:
			// Nothing valid anywhere; everything drops below.
		case i == 0:
			// Leading gap: backfill the run's tail from the first valid
			// sample, at most edgeFillLimit values.
			fill := min(run, edgeFillLimit)
			for k := j - fill; k < j; k++ {
				samples[k].Value = samples[j].Value
				filled++
			}
		case j == n:
			// Trailing gap: forward-fill from the last valid sample.
			fill := min(run, edgeFillLimit)
			for k := i; k < i+fill; k++ {
				samples[k].Value = samples[i-1].Value
				filled++
			}
		case run <= interpolateLimit:
			prev := samples[i-1].Value
			next := samples[j].Value
			step := (next - prev) / float64(run+1)
			for k := 0; k < run; k++ {
				samples[i+k].Value = prev + step*float64(k+1)
				filled++
			}
		}
		i = j
	}

	out, dropped := c.dropMissing(out)
	return out, filled, dropped
}

// dropMissing removes every row whose value is still missing.
func (c *Cleaner) dropMissing(s series.Series) (series.Series, int) {
	before := s.Len()
	out := s.Filter(func(sample series.Sample) bool {
		return !math.IsNaN(sample.Value)
	})
	return out, before - out.Len()
}

// smooth applies a centered median filter with a shrinking window at the
// edges. Series no longer than the window pass through untouched.
func (c *Cleaner) smooth(s series.Series) series.Series {
	n := s.Len()
	if n <= smoothingWindow {
		return s
	}
	half := smoothingWindow / 2
	values := s.Values()
	out := s.Clone()
	for i := range out.Samples {
		lo := max(0, i-half)
		hi := min(n, i+half+1)
		window := make([]float64, hi-lo)
		copy(window, values[lo:hi])
		median, err := stats.Median(window)
		if err != nil {
			continue
		}
		out.Samples[i].Value = median
	}
	return out
}
