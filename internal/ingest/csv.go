package ingest

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"biopipe/internal/motion"
	"biopipe/internal/series"
	"biopipe/internal/timesync"
)

// Column naming conventions in sensor exports.
const (
	localTimestampColumn = "LocalTimestamp"
	unixTimestampColumn  = "unix_timestamp"
	timestampColumn      = "timestamp"
	eventMarkerColumn    = "event_marker"
	conditionColumn      = "condition"
)

// ReadMetricSeries loads a sensor CSV into a series. The device-local
// timestamp comes from the LocalTimestamp column (first column when
// absent) and the metric value from the last column. Rows with an
// unparseable timestamp are skipped; unparseable or empty value cells
// become missing values for the cleaning pipeline to resolve.
func ReadMetricSeries(path, metric string) (series.Series, error) {
	records, err := readAll(path)
	if err != nil {
		return series.Series{}, err
	}
	if len(records) == 0 {
		return series.Series{}, fmt.Errorf("%s: empty file", path)
	}

	header := records[0]
	tsIdx := columnIndex(header, localTimestampColumn)
	if tsIdx < 0 {
		tsIdx = 0
	}
	valIdx := len(header) - 1
	if valIdx == tsIdx && len(header) > 1 {
		valIdx = len(header) - 2
	}

	out := series.Series{Metric: metric, Samples: make([]series.Sample, 0, len(records)-1)}
	for _, record := range records[1:] {
		if tsIdx >= len(record) || valIdx >= len(record) {
			continue
		}
		ts, err := strconv.ParseFloat(strings.TrimSpace(record[tsIdx]), 64)
		if err != nil {
			continue
		}
		value := math.NaN()
		if cell := strings.TrimSpace(record[valIdx]); cell != "" {
			if parsed, err := strconv.ParseFloat(cell, 64); err == nil {
				value = parsed
			}
		}
		out.Samples = append(out.Samples, series.Sample{Local: ts, Value: value})
	}
	return out, nil
}

// ReadEventLog loads an event marker CSV without normalizing timestamps;
// normalization (and the required-column check) belongs to timesync.
func ReadEventLog(path string) (timesync.RawLog, error) {
	records, err := readAll(path)
	if err != nil {
		return timesync.RawLog{}, err
	}
	if len(records) == 0 {
		return timesync.RawLog{}, fmt.Errorf("%s: empty file", path)
	}

	header := records[0]
	unixIdx := columnIndex(header, unixTimestampColumn)
	tsIdx := columnIndex(header, timestampColumn)
	markerIdx := columnIndex(header, eventMarkerColumn)
	conditionIdx := columnIndex(header, conditionColumn)

	raw := timesync.RawLog{
		HasUnix:      unixIdx >= 0,
		HasTimestamp: tsIdx >= 0,
		Rows:         make([]timesync.RawEvent, 0, len(records)-1),
	}
	for _, record := range records[1:] {
		raw.Rows = append(raw.Rows, timesync.RawEvent{
			Unix:      cellAt(record, unixIdx),
			Timestamp: cellAt(record, tsIdx),
			Marker:    cellAt(record, markerIdx),
			Condition: cellAt(record, conditionIdx),
		})
	}
	return raw, nil
}

// ReadMotionFrame combines the three accelerometer axis files into one
// co-sampled frame, truncating to the shortest axis. Timestamps come
// from the X axis file.
func ReadMotionFrame(pathX, pathY, pathZ string) (motion.Frame, error) {
	x, err := ReadMetricSeries(pathX, AxisX)
	if err != nil {
		return motion.Frame{}, err
	}
	y, err := ReadMetricSeries(pathY, AxisY)
	if err != nil {
		return motion.Frame{}, err
	}
	z, err := ReadMetricSeries(pathZ, AxisZ)
	if err != nil {
		return motion.Frame{}, err
	}

	n := min(x.Len(), min(y.Len(), z.Len()))
	frame := motion.Frame{
		Timestamps: make([]float64, n),
		X:          make([]float64, n),
		Y:          make([]float64, n),
		Z:          make([]float64, n),
	}
	for i := 0; i < n; i++ {
		frame.Timestamps[i] = x.Samples[i].Local
		frame.X[i] = x.Samples[i].Value
		frame.Y[i] = y.Samples[i].Value
		frame.Z[i] = z.Samples[i].Value
	}
	return frame, nil
}

func readAll(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	return records, nil
}

func columnIndex(header []string, name string) int {
	for i, col := range header {
		if strings.EqualFold(strings.TrimSpace(col), name) {
			return i
		}
	}
	return -1
}

func cellAt(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}
