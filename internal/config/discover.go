package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Discover locates the configuration file. The EPIRENAME_CONFIG
// environment variable wins outright and must point at an existing
// file; otherwise the first existing candidate from searchPaths is
// used.
func Discover() (string, error) {
	if p := os.Getenv("EPIRENAME_CONFIG"); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("EPIRENAME_CONFIG=%s: %w", p, err)
		}
		return p, nil
	}

	candidates := searchPaths()
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("no config file found (checked %s)", strings.Join(candidates, ", "))
}

// searchPaths is the discovery order: the working directory first, so a
// config sitting next to the media library wins over the user-level one,
// then the user config dir, then the system-wide fallback.
func searchPaths() []string {
	paths := []string{"./epirename.toml"}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "epirename", "config.toml"))
	}
	return append(paths, "/etc/epirename/config.toml")
}
