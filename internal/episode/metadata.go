// Package episode defines the metadata value type shared by the parser,
// sorter, and rename engine.
package episode

import "fmt"

// Metadata describes one scanned file and what was extracted from its name.
// Values are never mutated after construction; derive adjusted copies with
// the With* methods.
type Metadata struct {
	OriginalName string // base name including extension
	SourcePath   string // absolute or caller-relative path to the file

	Season  *int // nil if no season marker matched
	Episode *int // nil if no episode marker matched
	Number  *int // primary sequence number, nil if none found

	Confidence float64 // extraction confidence in [0, 1]

	CleanedTitle string
	Extension    string // includes leading dot, may be empty
	Method       string // name of the extraction pattern that matched
}

// New validates and constructs a Metadata value.
// Confidence outside [0, 1] is a construction error, not a clamp.
func New(originalName, sourcePath string, confidence float64) (Metadata, error) {
	if confidence < 0 || confidence > 1 {
		return Metadata{}, fmt.Errorf("confidence must be in [0, 1], got %v", confidence)
	}
	return Metadata{
		OriginalName: originalName,
		SourcePath:   sourcePath,
		Confidence:   confidence,
	}, nil
}

// HasNumber reports whether a primary sequence number was extracted.
func (m Metadata) HasNumber() bool { return m.Number != nil }

// NumberOr returns the primary number, or fallback if none was extracted.
func (m Metadata) NumberOr(fallback int) int {
	if m.Number == nil {
		return fallback
	}
	return *m.Number
}

// WithTitle returns a copy with the cleaned title replaced.
func (m Metadata) WithTitle(title string) Metadata {
	m.CleanedTitle = title
	return m
}

// WithNumber returns a copy with the primary number replaced and the
// extraction method annotated.
func (m Metadata) WithNumber(n int, method string) Metadata {
	num := n
	m.Number = &num
	m.Method = method
	return m
}

// Renumber assigns sequential numbers starting at start, preserving order.
// Each result is a fresh value; inputs are untouched.
func Renumber(metas []Metadata, start int) []Metadata {
	out := make([]Metadata, len(metas))
	for i, m := range metas {
		out[i] = m.WithNumber(start+i, m.Method+"+renumbered")
	}
	return out
}
