package timesync

import (
	"errors"

	"biopipe/internal/series"
)

// ErrEmptyStream reports that the offset cannot be anchored because one
// of the two streams holds no usable rows.
var ErrEmptyStream = errors.New("cannot compute offset from empty stream")

// Offset computes the additive correction in seconds that maps the sensor
// device's local clock onto the event log's wall clock:
//
//	offset = min(event timestamps) - min(sensor local timestamps)
//
// The offset is computed fresh for every subject and session; device
// clocks drift independently, so it must never be cached across them.
func Offset(log Log, s series.Series) (float64, error) {
	eventStart, ok := log.MinTimestamp()
	if !ok {
		return 0, ErrEmptyStream
	}
	sensorStart, ok := s.MinLocal()
	if !ok {
		return 0, ErrEmptyStream
	}
	return eventStart - sensorStart, nil
}

// Align returns a copy of the series with the offset applied to every
// sample's adjusted timestamp.
func Align(s series.Series, offset float64) series.Series {
	return s.WithOffset(offset)
}
