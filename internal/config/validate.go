package config

import (
	"fmt"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validPresets = map[string]bool{
	"video": true, "audio": true, "docs": true, "all": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if c.Rename.Template == "" {
		errs = append(errs, "rename.template: required")
	}
	if c.Rename.Padding < 0 || c.Rename.Padding > 10 {
		errs = append(errs, fmt.Sprintf("rename.padding: must be between 0 and 10, got %d", c.Rename.Padding))
	}

	if !validPresets[c.Scan.Preset] {
		errs = append(errs, fmt.Sprintf("scan.preset: must be one of video, audio, docs, all; got %q", c.Scan.Preset))
	}
	if c.Scan.MaxDepth < 0 {
		errs = append(errs, fmt.Sprintf("scan.max_depth: must not be negative, got %d", c.Scan.MaxDepth))
	}

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}

	if c.Database.Path == "" {
		errs = append(errs, "database.path: required")
	}

	return errs
}
