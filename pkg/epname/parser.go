// Package epname extracts episode numbering from filenames and cleans
// titles for renaming. Patterns are confidence-scored so that ambiguous
// names resolve the same way on every run.
package epname

import (
	"regexp"
	"strconv"
)

// Confidence levels assigned by the extraction patterns.
const (
	ConfidenceHigh   = 0.9  // explicit season/episode markers (S01E02, 1x02)
	ConfidenceMedium = 0.6  // episode/part/chapter markers without season
	ConfidenceLow    = 0.3  // standalone leading/trailing numbers
	ConfidenceGuess  = 0.15 // last standalone number anywhere in the name
	ConfidenceNone   = 0.0
)

// Extraction is the result of parsing one filename stem.
type Extraction struct {
	Season     *int
	Episode    *int
	Number     *int // primary sequence number
	Confidence float64
	Method     string // which pattern matched, empty if none

	// Byte offsets of the whole matched marker in the stem, including
	// any separators the pattern consumed. Equal when nothing matched.
	// CleanTitle removes this span so the number never leaks into the
	// cleaned title.
	markerStart, markerEnd int
}

// HasNumber reports whether a primary number was found.
func (e Extraction) HasNumber() bool { return e.Number != nil }

type seasonEpisodePattern struct {
	re     *regexp.Regexp
	method string
}

type numberPattern struct {
	re     *regexp.Regexp
	method string
}

var seasonEpisodePatterns = []seasonEpisodePattern{
	{regexp.MustCompile(`(?i)s(\d{1,2})e(\d{1,3})`), "s00e00"},
	{regexp.MustCompile(`(\d{1,2})[xX](\d{1,3})`), "0x00"},
	{regexp.MustCompile(`(?i)season\s*(\d{1,2})\s*episode\s*(\d{1,3})`), "season_episode"},
}

var episodePatterns = []numberPattern{
	{regexp.MustCompile(`(?i)ep(?:isode)?\.?\s*(\d{1,3})`), "episode_marker"},
	{regexp.MustCompile(`(?i)p(?:ar)?t\.?\s*(\d{1,3})`), "part_marker"},
	{regexp.MustCompile(`(?i)ch(?:apter)?\.?\s*(\d{1,3})`), "chapter_marker"},
	{regexp.MustCompile(`[\[(](\d{1,3})[\])]`), "bracketed_number"},
	{regexp.MustCompile(`#(\d{1,3})`), "hash_number"},
}

var (
	leadingNumber    = regexp.MustCompile(`^(\d{1,3})(?:\s*[-_.\s]|\s+)`)
	trailingNumber   = regexp.MustCompile(`[-_.\s](\d{1,3})(?:\s*[-_.\s])?$`)
	standaloneNumber = regexp.MustCompile(`\b(\d{1,3})\b`)
)

// exclusionPatterns match digit runs that are not sequence numbers:
// years, resolutions, bitrates, frequencies, version strings.
var exclusionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(19|20)\d{2}\b`),
	regexp.MustCompile(`\b\d{3,4}[pP]\b`),
	regexp.MustCompile(`\b[248][kK]\b`),
	regexp.MustCompile(`(?i)\b\d+[km]bps\b`),
	regexp.MustCompile(`\b\d+[hH][zZ]\b`),
	regexp.MustCompile(`\bv?\d+\.\d+\b`),
}

// Parse extracts episode numbering from a filename stem (no extension).
// The highest-confidence match wins; when nothing matches, the returned
// Extraction has no number and zero confidence.
func Parse(stem string) Extraction {
	best := Extraction{Confidence: ConfidenceNone}

	if ex, ok := trySeasonEpisode(stem); ok {
		return ex
	}
	if ex, ok := tryEpisodeMarkers(stem); ok && ex.Confidence > best.Confidence {
		best = ex
	}
	if ex, ok := tryStandaloneNumbers(stem); ok && ex.Confidence > best.Confidence {
		best = ex
	}
	return best
}

func trySeasonEpisode(stem string) (Extraction, bool) {
	for _, p := range seasonEpisodePatterns {
		m := p.re.FindStringSubmatchIndex(stem)
		if m == nil {
			continue
		}
		season, _ := strconv.Atoi(stem[m[2]:m[3]])
		ep, _ := strconv.Atoi(stem[m[4]:m[5]])
		num := ep
		return Extraction{
			Season:      &season,
			Episode:     &ep,
			Number:      &num,
			Confidence:  ConfidenceHigh,
			Method:      p.method,
			markerStart: m[0],
			markerEnd:   m[1],
		}, true
	}
	return Extraction{}, false
}

func tryEpisodeMarkers(stem string) (Extraction, bool) {
	for _, p := range episodePatterns {
		m := p.re.FindStringSubmatchIndex(stem)
		if m == nil {
			continue
		}
		if excludedAt(stem, m[2]) {
			continue
		}
		n, _ := strconv.Atoi(stem[m[2]:m[3]])
		return Extraction{
			Number:      &n,
			Confidence:  ConfidenceMedium,
			Method:      p.method,
			markerStart: m[0],
			markerEnd:   m[1],
		}, true
	}
	return Extraction{}, false
}

func tryStandaloneNumbers(stem string) (Extraction, bool) {
	if m := leadingNumber.FindStringSubmatchIndex(stem); m != nil && !excludedAt(stem, m[2]) {
		n, _ := strconv.Atoi(stem[m[2]:m[3]])
		return Extraction{Number: &n, Confidence: ConfidenceLow, Method: "leading_number", markerStart: m[0], markerEnd: m[1]}, true
	}
	if m := trailingNumber.FindStringSubmatchIndex(stem); m != nil && !excludedAt(stem, m[2]) {
		n, _ := strconv.Atoi(stem[m[2]:m[3]])
		return Extraction{Number: &n, Confidence: ConfidenceLow, Method: "trailing_number", markerStart: m[0], markerEnd: m[1]}, true
	}

	// Fallback: the last standalone number anywhere wins, at halved
	// confidence. The reversed scan is deliberate and load-bearing for
	// names like "Top 10 Scenes 03": compatibility with prior runs
	// depends on keeping it.
	all := standaloneNumber.FindAllStringSubmatchIndex(stem, -1)
	for i := len(all) - 1; i >= 0; i-- {
		m := all[i]
		if excludedAt(stem, m[2]) {
			continue
		}
		n, _ := strconv.Atoi(stem[m[2]:m[3]])
		return Extraction{Number: &n, Confidence: ConfidenceGuess, Method: "standalone_number", markerStart: m[0], markerEnd: m[1]}, true
	}
	return Extraction{}, false
}

// excludedAt reports whether the digit run starting at pos sits inside a
// context window that matches an exclusion pattern.
func excludedAt(stem string, pos int) bool {
	start := pos - 10
	if start < 0 {
		start = 0
	}
	end := pos + 15
	if end > len(stem) {
		end = len(stem)
	}
	window := stem[start:end]
	for _, re := range exclusionPatterns {
		if re.MatchString(window) {
			return true
		}
	}
	return false
}
