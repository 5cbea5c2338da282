package rename

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/epirename/epirename/internal/episode"
)

// Sanitizer produces a cleaned, filesystem-safe title from a raw filename
// stem. Implementations must be total: never empty output.
type Sanitizer interface {
	Clean(raw string) string
}

// SanitizerFunc adapts a plain function to the Sanitizer interface.
type SanitizerFunc func(string) string

func (f SanitizerFunc) Clean(raw string) string { return f(raw) }

// Builder turns sorted metadata into a fully resolved transaction.
// It performs no filesystem access; target paths are computed as siblings
// of each source path. Build is a pure function of the builder's
// configuration and its input, so building twice yields identical targets.
type Builder struct {
	Template  string
	Padding   int
	Sanitizer Sanitizer
	Formatter Formatter
}

// NewBuilder creates a builder for the given template and padding width.
// An empty template selects DefaultTemplate.
func NewBuilder(template string, padding int, sanitizer Sanitizer) *Builder {
	if template == "" {
		template = DefaultTemplate
	}
	return &Builder{
		Template:  template,
		Padding:   padding,
		Sanitizer: sanitizer,
	}
}

// Build produces a transaction whose operations have resolved target
// names and paths. The template must already be validated; a residual
// formatting error is attributed to the specific metadata entry that
// triggered it rather than skipped.
func (b *Builder) Build(metas []episode.Metadata) (*Transaction, error) {
	tx := NewTransaction()

	for i, meta := range metas {
		stem := strings.TrimSuffix(meta.OriginalName, meta.Extension)
		cleaned := meta.WithTitle(b.Sanitizer.Clean(stem))

		base, err := b.Formatter.Format(b.Template, cleaned, b.Padding)
		if err != nil {
			return nil, fmt.Errorf("format entry %d (%s): %w", i, meta.OriginalName, err)
		}

		targetName := base + meta.Extension
		targetPath := filepath.Join(filepath.Dir(meta.SourcePath), targetName)

		tx.Add(&Operation{
			Meta:       cleaned,
			TargetName: targetName,
			TargetPath: targetPath,
		})
	}

	return tx, nil
}
