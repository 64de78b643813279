package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	c.normalizeAnalysis()
	c.normalizeGroups()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeAnalysis() {
	c.Analysis.Method = strings.ToLower(strings.TrimSpace(c.Analysis.Method))
	if c.Analysis.Method == "" {
		c.Analysis.Method = defaultAnalysisMethod
	}
	if c.Analysis.MovingAverageWindow <= 0 {
		c.Analysis.MovingAverageWindow = defaultMovingAverageWindow
	}
}

func (c *Config) normalizeGroups() {
	for i := range c.Groups {
		c.Groups[i].Label = strings.TrimSpace(c.Groups[i].Label)
		c.Groups[i].EventMarker = strings.TrimSpace(c.Groups[i].EventMarker)
		c.Groups[i].Condition = strings.TrimSpace(c.Groups[i].Condition)
		c.Groups[i].WindowType = strings.ToLower(strings.TrimSpace(c.Groups[i].WindowType))
		if c.Groups[i].WindowType == "" {
			c.Groups[i].WindowType = "full"
		}
	}
}
