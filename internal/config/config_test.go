package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "epirename.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[rename]
template = "S{season:02}E{episode:02} {title}"
padding = 3

[scan]
preset = "audio"
recursive = true
max_depth = 2

[database]
path = "/var/lib/epirename/history.db"

[log]
level = "debug"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Rename.Template != "S{season:02}E{episode:02} {title}" {
		t.Errorf("template = %q", cfg.Rename.Template)
	}
	if cfg.Rename.Padding != 3 {
		t.Errorf("padding = %d, want 3", cfg.Rename.Padding)
	}
	if cfg.Scan.Preset != "audio" || !cfg.Scan.Recursive || cfg.Scan.MaxDepth != 2 {
		t.Errorf("scan = %+v", cfg.Scan)
	}
	if cfg.Database.Path != "/var/lib/epirename/history.db" {
		t.Errorf("database path = %q", cfg.Database.Path)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Rename.Template != "{number:pad}. {title}" {
		t.Errorf("default template = %q", cfg.Rename.Template)
	}
	if cfg.Rename.Padding != 2 {
		t.Errorf("default padding = %d", cfg.Rename.Padding)
	}
	if cfg.Scan.Preset != "video" {
		t.Errorf("default preset = %q", cfg.Scan.Preset)
	}
	if cfg.Database.Path != "./data/epirename.db" {
		t.Errorf("default database path = %q", cfg.Database.Path)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("default log level = %q", cfg.Log.Level)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("want error for missing file")
	}
}

func TestLoad_ExplicitExtensionsSkipPresetDefault(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
[scan]
extensions = ["mkv", "mp4"]
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Scan.Preset != "" {
		t.Errorf("preset = %q, want empty when extensions are explicit", cfg.Scan.Preset)
	}
	if len(cfg.Scan.Extensions) != 2 {
		t.Errorf("extensions = %v", cfg.Scan.Extensions)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Rename.Padding = 4
	cfg.Scan.Recursive = true

	path := filepath.Join(t.TempDir(), "out", "config.toml")
	if err := cfg.Write(path); err != nil {
		t.Fatalf("Write: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Rename.Padding != 4 || !loaded.Scan.Recursive {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "config.toml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load of written default: %v", err)
	}
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("default config invalid: %v", errs)
	}
}
