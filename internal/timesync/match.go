package timesync

import (
	"math"

	"biopipe/internal/series"
)

// Match pairs an event with the offset-aligned sensor sample closest to
// it in time.
type Match struct {
	Event       Event
	SampleIndex int
	Adjusted    float64
	Value       float64
	TimeDiff    float64
}

// MatchReport separates matched events from the ones with no sensor
// sample inside the tolerance. Unmatched events are reported rather than
// silently dropped so synchronization quality stays observable.
type MatchReport struct {
	Matches   []Match
	Unmatched []Event
}

// MatchEvents finds, for every event, the aligned sample with the
// minimum absolute time difference and accepts it when that difference is
// within tolerance seconds.
func MatchEvents(s series.Series, log Log, tolerance float64) MatchReport {
	var report MatchReport
	for _, event := range log {
		best := -1
		bestDiff := math.Inf(1)
		for i, sample := range s.Samples {
			diff := math.Abs(sample.Adjusted - event.Timestamp)
			if diff < bestDiff {
				best = i
				bestDiff = diff
			}
		}
		if best < 0 || bestDiff > tolerance {
			report.Unmatched = append(report.Unmatched, event)
			continue
		}
		report.Matches = append(report.Matches, Match{
			Event:       event,
			SampleIndex: best,
			Adjusted:    s.Samples[best].Adjusted,
			Value:       s.Samples[best].Value,
			TimeDiff:    bestDiff,
		})
	}
	return report
}
