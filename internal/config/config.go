package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir   string `toml:"data_dir"`
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Cleaning toggles the six signal-cleaning stages. Nil fields take the
// documented stage defaults rather than false; the merge happens once at
// pipeline construction, not at each use site.
type Cleaning struct {
	RemoveInvalid               *bool `toml:"remove_invalid"`
	RemovePhysiologicalOutliers *bool `toml:"remove_physiological_outliers"`
	RemoveStatisticalOutliers   *bool `toml:"remove_statistical_outliers"`
	RemoveSuddenChanges         *bool `toml:"remove_sudden_changes"`
	Interpolate                 *bool `toml:"interpolate"`
	Smooth                      *bool `toml:"smooth"`
}

// Sync contains clock synchronization settings.
type Sync struct {
	// MatchTolerance is the maximum event-to-sample time difference in
	// seconds accepted when matching event markers to sensor readings.
	MatchTolerance float64 `toml:"match_tolerance"`
}

// Analysis contains analysis method settings.
type Analysis struct {
	Method              string `toml:"method"`
	MovingAverageWindow int    `toml:"moving_average_window"`
}

// Motion contains accelerometer-based artifact exclusion settings.
type Motion struct {
	Enabled       bool    `toml:"enabled"`
	Lower         float64 `toml:"lower"`
	Upper         float64 `toml:"upper"`
	MarginSamples int     `toml:"margin_samples"`
}

// Group defines one comparison group: a named rule for slicing
// event-relative sub-series out of a continuous sensor stream.
type Group struct {
	Label       string  `toml:"label"`
	EventMarker string  `toml:"event_marker"`
	Condition   string  `toml:"condition"`
	WindowType  string  `toml:"window_type"`
	CustomStart float64 `toml:"custom_start"`
	CustomEnd   float64 `toml:"custom_end"`
}

// Config encapsulates all configuration values for biopipe.
type Config struct {
	Paths    Paths    `toml:"paths"`
	Logging  Logging  `toml:"logging"`
	Cleaning Cleaning `toml:"cleaning"`
	Sync     Sync     `toml:"sync"`
	Analysis Analysis `toml:"analysis"`
	Motion   Motion   `toml:"motion"`
	Groups   []Group  `toml:"groups"`
}

// DefaultConfigPath returns the absolute path to the default
// configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/biopipe/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("biopipe.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the pipeline writes to.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the location of the results database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.OutputDir, "results.db")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
