package cleaning

// Metric tags understood by the threshold catalog. Unknown tags fall back
// to an unconstrained default entry.
const (
	MetricHeartRate   = "HR"
	MetricEDA         = "EDA"
	MetricTemperature = "TEMP"
	MetricRespiration = "RR"
	MetricPPGInfrared = "PI"
	MetricPPGRed      = "PR"
	MetricPPGGreen    = "PG"
)

// Threshold holds the physiological bounds for one metric type. A nil
// field means no constraint on that dimension. MaxChange is expressed in
// metric units per second.
type Threshold struct {
	Min       *float64
	Max       *float64
	MaxChange *float64
}

// catalog maps metric tags to their validation bounds. The values mirror
// adult human physiology: HR in BPM, EDA in microsiemens, TEMP in degrees
// Celsius, RR in breaths per minute. PPG channels are raw light
// intensities with no meaningful upper bound or rate limit.
var catalog = map[string]Threshold{
	MetricHeartRate:   {Min: f(30), Max: f(220), MaxChange: f(30)},
	MetricEDA:         {Min: f(0), Max: f(100), MaxChange: f(5)},
	MetricTemperature: {Min: f(30), Max: f(42), MaxChange: f(2)},
	MetricRespiration: {Min: f(4), Max: f(60), MaxChange: f(10)},
	MetricPPGInfrared: {Min: f(0)},
	MetricPPGRed:      {Min: f(0)},
	MetricPPGGreen:    {Min: f(0)},
}

// nonNegativeMetrics enumerates the metric types whose physical quantity
// cannot be negative; stage 1 drops negative readings for these.
var nonNegativeMetrics = map[string]bool{
	MetricEDA:         true,
	MetricPPGInfrared: true,
	MetricPPGRed:      true,
	MetricPPGGreen:    true,
}

// LookupThreshold resolves the bounds for a metric tag, returning the
// unconstrained default for unknown tags.
func LookupThreshold(metric string) Threshold {
	if t, ok := catalog[metric]; ok {
		return t
	}
	return Threshold{}
}

// KnownMetrics returns the metric tags with catalog entries.
func KnownMetrics() []string {
	return []string{
		MetricHeartRate,
		MetricEDA,
		MetricTemperature,
		MetricRespiration,
		MetricPPGInfrared,
		MetricPPGRed,
		MetricPPGGreen,
	}
}

func f(v float64) *float64 { return &v }
