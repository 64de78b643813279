package cleaning

import (
	"biopipe/internal/series"
)

// Cleaner validates sample series for a single metric type.
type Cleaner struct {
	metric          string
	threshold       Threshold
	negativeInvalid bool
}

// New constructs a cleaner for the given metric tag. Unknown tags get the
// unconstrained default thresholds, so only the validity stage has any
// effect on them.
func New(metric string) *Cleaner {
	return &Cleaner{
		metric:          metric,
		threshold:       LookupThreshold(metric),
		negativeInvalid: nonNegativeMetrics[metric],
	}
}

// Metric returns the metric tag the cleaner was built for.
func (c *Cleaner) Metric() string { return c.metric }

// Threshold returns the resolved physiological bounds.
func (c *Cleaner) Threshold() Threshold { return c.threshold }

// Clean runs the enabled stages in their fixed order and returns the
// validated series with per-stage removal counts. The input is never
// mutated. An empty result is valid and signals that the recording
// produced no usable data for this metric.
func (c *Cleaner) Clean(s series.Series, cfg StageConfig) (series.Series, Report) {
	out := s.Clone()
	report := Report{Original: out.Len()}

	if cfg.RemoveInvalid {
		out, report.Invalid = c.removeInvalid(out)
	}
	if cfg.RemovePhysiologicalOutliers {
		if c.threshold.Min != nil || c.threshold.Max != nil {
			out, report.Physiological = c.removePhysiologicalOutliers(out)
		}
	}
	if cfg.RemoveStatisticalOutliers {
		out, report.Statistical = c.removeStatisticalOutliers(out)
	}
	if cfg.RemoveSuddenChanges {
		if c.threshold.MaxChange != nil {
			out, report.SuddenChanges = c.removeSuddenChanges(out)
		}
	}
	if cfg.Interpolate {
		out, report.Interpolated, report.MissingDrops = c.interpolateMissing(out)
	} else {
		out, report.MissingDrops = c.dropMissing(out)
	}
	if cfg.Smooth {
		out = c.smooth(out)
	}

	report.Final = out.Len()
	return out, report
}
