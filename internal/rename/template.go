package rename

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/epirename/epirename/internal/episode"
)

// DefaultTemplate is the naming template used when none is configured.
const DefaultTemplate = "{number:pad}. {title}"

// allowedFields is the placeholder whitelist. Anything else is rejected
// at validation time so a template can never reach into other state.
var allowedFields = map[string]bool{
	"number":    true,
	"title":     true,
	"season":    true,
	"episode":   true,
	"extension": true,
}

// numericFields accept a zero-padding width.
var numericFields = map[string]bool{
	"number":  true,
	"season":  true,
	"episode": true,
}

// placeholderPattern matches {name}, {name:02} or {name:pad}.
var placeholderPattern = regexp.MustCompile(`\{(\w+)(?::(\d+|pad))?\}`)

// bracePattern finds any brace so stray ones can be rejected.
var bracePattern = regexp.MustCompile(`[{}]`)

// Formatter expands naming templates against episode metadata. The zero
// value is ready to use.
//
// Supported placeholder forms:
//
//	{title}       cleaned title
//	{number}      primary number, unpadded
//	{number:02}   primary number, zero-padded to the given width
//	{number:pad}  primary number, zero-padded to the configured width
//	{season} {episode} {extension}   likewise
type Formatter struct{}

// Validate checks a template before any metadata is formatted with it.
// It rejects unknown placeholders, widths on non-numeric fields, and
// braces that do not form a recognized placeholder.
func (Formatter) Validate(template string) error {
	matches := placeholderPattern.FindAllStringSubmatch(template, -1)
	for _, m := range matches {
		name, spec := m[1], m[2]
		if !allowedFields[name] {
			return fmt.Errorf("%w: unknown placeholder {%s}, allowed: number, title, season, episode, extension",
				ErrTemplateInvalid, name)
		}
		if spec != "" && !numericFields[name] {
			return fmt.Errorf("%w: placeholder {%s} does not accept a width", ErrTemplateInvalid, name)
		}
	}

	// Any brace left after removing well-formed placeholders is a syntax
	// error (unmatched or malformed placeholder).
	stripped := placeholderPattern.ReplaceAllString(template, "")
	if loc := bracePattern.FindStringIndex(stripped); loc != nil {
		return fmt.Errorf("%w: malformed or unmatched brace", ErrTemplateInvalid)
	}

	if len(matches) == 0 {
		return fmt.Errorf("%w: template has no placeholders", ErrTemplateInvalid)
	}
	return nil
}

// Format expands the template for one metadata record. padding is the
// width applied by the {name:pad} form; explicit widths win over it.
// The template must have passed Validate; residual errors here are
// reported, never swallowed.
func (f Formatter) Format(template string, meta episode.Metadata, padding int) (string, error) {
	if err := f.Validate(template); err != nil {
		return "", err
	}

	title := meta.CleanedTitle
	if title == "" {
		title = "untitled"
	}

	out := placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		m := placeholderPattern.FindStringSubmatch(match)
		name, spec := m[1], m[2]

		switch name {
		case "title":
			return title
		case "extension":
			return strings.TrimPrefix(meta.Extension, ".")
		}

		var n int
		switch name {
		case "number":
			n = meta.NumberOr(0)
		case "season":
			if meta.Season != nil {
				n = *meta.Season
			}
		case "episode":
			if meta.Episode != nil {
				n = *meta.Episode
			}
		}

		width := 0
		switch spec {
		case "":
		case "pad":
			width = padding
		default:
			width, _ = strconv.Atoi(spec)
		}
		if width > 0 {
			return fmt.Sprintf("%0*d", width, n)
		}
		return strconv.Itoa(n)
	})

	return out, nil
}
