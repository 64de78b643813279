package config

import (
	"errors"
	"fmt"
)

var validMethods = map[string]bool{
	"raw":            true,
	"mean":           true,
	"moving_average": true,
	"rmssd":          true,
}

var validWindowTypes = map[string]bool{
	"all":    true,
	"full":   true,
	"custom": true,
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateSync(); err != nil {
		return err
	}
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	if err := c.validateMotion(); err != nil {
		return err
	}
	return c.validateGroups()
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateSync() error {
	if c.Sync.MatchTolerance <= 0 {
		return errors.New("sync.match_tolerance must be positive")
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	if !validMethods[c.Analysis.Method] {
		return fmt.Errorf("analysis.method %q is not recognized", c.Analysis.Method)
	}
	return nil
}

func (c *Config) validateMotion() error {
	if !c.Motion.Enabled {
		return nil
	}
	if c.Motion.Lower >= c.Motion.Upper {
		return errors.New("motion.lower must be below motion.upper")
	}
	if c.Motion.MarginSamples < 0 {
		return errors.New("motion.margin_samples must not be negative")
	}
	return nil
}

func (c *Config) validateGroups() error {
	seen := make(map[string]bool, len(c.Groups))
	for _, group := range c.Groups {
		if group.Label == "" {
			return errors.New("groups: every group needs a label")
		}
		if seen[group.Label] {
			return fmt.Errorf("groups: duplicate label %q", group.Label)
		}
		seen[group.Label] = true
		if !validWindowTypes[group.WindowType] {
			return fmt.Errorf("groups: window_type %q is not recognized (label %q)", group.WindowType, group.Label)
		}
		if group.WindowType != "all" && group.EventMarker == "" {
			return fmt.Errorf("groups: event_marker is required for window_type %q (label %q)", group.WindowType, group.Label)
		}
		if group.WindowType == "custom" && group.CustomEnd < group.CustomStart {
			return fmt.Errorf("groups: custom_end must not precede custom_start (label %q)", group.Label)
		}
	}
	return nil
}
