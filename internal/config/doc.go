// Package config loads, normalizes, and validates biopipe configuration
// data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every
// knob the CLI and pipeline need: data and output directories, logging,
// cleaning stage overrides, synchronization tolerance, analysis method
// parameters, motion exclusion bounds, and the comparison-group window
// definitions.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
