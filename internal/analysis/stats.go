package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Statistics is the flat per-group summary record handed to reporting
// sinks. RMSSD is set only for the successive-difference method and
// Smoothness only for the moving average. Every field is coerced to a
// finite value so the record serializes safely; that normalization is
// deliberately lossy.
type Statistics struct {
	Mean       float64
	Std        float64
	Min        float64
	Max        float64
	Count      int
	RMSSD      *float64
	Smoothness *float64
}

// Compute summarizes a transformed window. Missing values are excluded;
// an empty window yields an all-zero record rather than an error.
func Compute(res Result) Statistics {
	values := res.Series.FiniteValues()
	stats := Statistics{Count: len(values)}
	if len(values) > 0 {
		stats.Mean = coerce(stat.Mean(values, nil))
		stats.Std = coerce(stat.StdDev(values, nil))
		stats.Min = coerce(floats.Min(values))
		stats.Max = coerce(floats.Max(values))
	}

	if res.Method == MethodRMSSD && res.HasRMSSD {
		rmssd := coerce(res.RMSSD)
		stats.RMSSD = &rmssd
	}
	if res.Method == MethodMovingAverage {
		smoothness := 0.0
		if stats.Mean != 0 {
			smoothness = coerce(stats.Std / stats.Mean)
		}
		stats.Smoothness = &smoothness
	}
	return stats
}

// coerce maps NaN and infinities to 0.0 for serialization safety.
func coerce(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
