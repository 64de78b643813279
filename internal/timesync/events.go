package timesync

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrNoTimestampColumn reports an event log with neither a unix-epoch
// column nor a parseable human-readable timestamp column. This is a
// structural problem with the file, not a row-level one.
var ErrNoTimestampColumn = errors.New("event log has no usable timestamp column")

// Event is one normalized event-log row. Timestamp is unix seconds and
// always positive; rows that fail normalization are dropped, never kept
// as nulls.
type Event struct {
	Timestamp float64
	Marker    string
	Condition string
}

// Log is a normalized event log ordered by timestamp. Multiple rows may
// share a marker (repeated trials).
type Log []Event

// RawEvent is an event-log row as read from disk, before timestamp
// normalization. Unix holds the unix_timestamp cell when that column
// exists; Timestamp holds the human-readable cell.
type RawEvent struct {
	Unix      string
	Timestamp string
	Marker    string
	Condition string
}

// RawLog is an un-normalized event log plus which timestamp columns the
// source file carried.
type RawLog struct {
	HasUnix      bool
	HasTimestamp bool
	Rows         []RawEvent
}

// timestampLayouts are tried in order when parsing human-readable cells.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// Normalize converts a raw event log into unix-epoch events, dropping
// rows whose timestamp fails to parse or normalizes to a non-positive
// value. It returns the number of rows dropped. A log with neither
// timestamp column fails outright with ErrNoTimestampColumn.
func Normalize(raw RawLog) (Log, int, error) {
	if !raw.HasUnix && !raw.HasTimestamp {
		return nil, 0, ErrNoTimestampColumn
	}

	log := make(Log, 0, len(raw.Rows))
	dropped := 0
	for _, row := range raw.Rows {
		ts, ok := normalizeTimestamp(raw, row)
		if !ok {
			dropped++
			continue
		}
		log = append(log, Event{
			Timestamp: ts,
			Marker:    strings.TrimSpace(row.Marker),
			Condition: strings.TrimSpace(row.Condition),
		})
	}
	sort.SliceStable(log, func(i, j int) bool { return log[i].Timestamp < log[j].Timestamp })
	return log, dropped, nil
}

func normalizeTimestamp(raw RawLog, row RawEvent) (float64, bool) {
	if raw.HasUnix {
		ts, err := strconv.ParseFloat(strings.TrimSpace(row.Unix), 64)
		if err != nil || math.IsNaN(ts) || math.IsInf(ts, 0) || ts <= 0 {
			return 0, false
		}
		return ts, true
	}
	cell := strings.TrimSpace(row.Timestamp)
	if cell == "" {
		return 0, false
	}
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, cell)
		if err != nil {
			continue
		}
		ts := float64(parsed.UnixNano()) / float64(time.Second)
		if ts <= 0 {
			return 0, false
		}
		return ts, true
	}
	return 0, false
}

// MinTimestamp returns the earliest event time. The boolean is false for
// an empty log.
func (l Log) MinTimestamp() (float64, bool) {
	if len(l) == 0 {
		return 0, false
	}
	min := l[0].Timestamp
	for _, e := range l[1:] {
		if e.Timestamp < min {
			min = e.Timestamp
		}
	}
	return min, true
}

// MaxTimestamp returns the latest event time. The boolean is false for
// an empty log.
func (l Log) MaxTimestamp() (float64, bool) {
	if len(l) == 0 {
		return 0, false
	}
	max := l[0].Timestamp
	for _, e := range l[1:] {
		if e.Timestamp > max {
			max = e.Timestamp
		}
	}
	return max, true
}
