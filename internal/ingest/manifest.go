package ingest

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"biopipe/internal/cleaning"
)

// Accelerometer axis tags carried in filename suffixes.
const (
	AxisX = "AX"
	AxisY = "AY"
	AxisZ = "AZ"
)

// Manifest lists the classified files of one subject directory.
type Manifest struct {
	SubjectDir  string
	Subject     string
	MetricFiles map[string]string // metric tag -> path
	MotionFiles map[string]string // axis tag -> path
	EventLog    string
}

// HasMotion reports whether all three accelerometer axis files exist.
func (m Manifest) HasMotion() bool {
	return m.MotionFiles[AxisX] != "" && m.MotionFiles[AxisY] != "" && m.MotionFiles[AxisZ] != ""
}

// Metrics returns the metric tags with a classified file, in catalog order.
func (m Manifest) Metrics() []string {
	tags := make([]string, 0, len(m.MetricFiles))
	for _, tag := range cleaning.KnownMetrics() {
		if m.MetricFiles[tag] != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// BuildManifest walks a subject directory and classifies every CSV by its
// filename suffix. Files that match no known tag are ignored; an event
// marker file is recognized by the "event_markers" name fragment.
func BuildManifest(dir string) (Manifest, error) {
	manifest := Manifest{
		SubjectDir:  dir,
		Subject:     filepath.Base(dir),
		MetricFiles: make(map[string]string),
		MotionFiles: make(map[string]string),
	}

	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), ".csv") {
			return nil
		}
		if strings.Contains(strings.ToLower(name), "event_markers") {
			manifest.EventLog = path
			return nil
		}
		tag := classifySuffix(name)
		switch tag {
		case "":
		case AxisX, AxisY, AxisZ:
			manifest.MotionFiles[tag] = path
		default:
			manifest.MetricFiles[tag] = path
		}
		return nil
	})
	if err != nil {
		return Manifest{}, fmt.Errorf("scan subject directory: %w", err)
	}
	return manifest, nil
}

// classifySuffix extracts the metric tag from a filename of the form
// <base>_<TAG>.csv, returning "" when the tag is unknown.
func classifySuffix(name string) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	idx := strings.LastIndex(stem, "_")
	if idx < 0 || idx == len(stem)-1 {
		return ""
	}
	tag := stem[idx+1:]
	switch tag {
	case AxisX, AxisY, AxisZ:
		return tag
	}
	for _, known := range cleaning.KnownMetrics() {
		if tag == known {
			return tag
		}
	}
	return ""
}
