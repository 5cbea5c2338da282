package config

import (
	"fmt"
	"strings"
)

// ConfigError collects every validation problem found in one config
// file, so a single run surfaces all of them at once.
type ConfigError struct {
	Path   string
	Errors []string
}

func (e *ConfigError) Error() string {
	if len(e.Errors) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d problem(s):", e.Path, len(e.Errors))
	for _, msg := range e.Errors {
		b.WriteString("\n  - ")
		b.WriteString(msg)
	}
	return b.String()
}

// HasErrors reports whether any problem was recorded.
func (e *ConfigError) HasErrors() bool { return len(e.Errors) > 0 }
