package config

import (
	"bytes"
	_ "embed"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// defaultConfig is the commented example written by `config init`.
//
//go:embed default_config.toml
var defaultConfig []byte

// WriteDefault writes the commented example config, creating parent
// directories as needed.
func WriteDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, defaultConfig, 0o644)
}

// Write serializes the configuration back to TOML. Comments from the
// original file are not preserved.
func (c *Config) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
