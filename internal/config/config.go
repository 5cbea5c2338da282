// Package config handles TOML configuration loading with environment
// variable substitution.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Rename   RenameConfig   `toml:"rename"`
	Scan     ScanConfig     `toml:"scan"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
}

type RenameConfig struct {
	Template string `toml:"template"`
	Padding  int    `toml:"padding"`
}

type ScanConfig struct {
	Preset        string   `toml:"preset"`
	Extensions    []string `toml:"extensions"`
	Recursive     bool     `toml:"recursive"`
	MaxDepth      int      `toml:"max_depth"`
	IncludeHidden bool     `toml:"include_hidden"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// SlogLevel maps the configured name to a slog level, defaulting to info.
func (l LogConfig) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Default returns the built-in configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Rename.Template == "" {
		c.Rename.Template = "{number:pad}. {title}"
	}
	if c.Rename.Padding == 0 {
		c.Rename.Padding = 2
	}
	if c.Scan.Preset == "" && len(c.Scan.Extensions) == 0 {
		c.Scan.Preset = "video"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./data/epirename.db"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1]
		if value, ok := os.LookupEnv(varName); ok {
			return value
		}
		return match // Leave unchanged if not found
	})
}
