package epname

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// junkPatterns match technical artifacts that carry no title information:
// resolutions, codecs, audio formats, rip sources, streaming tags,
// release-group brackets, website watermarks.
var junkPatterns = []*regexp.Regexp{
	// Resolution
	regexp.MustCompile(`\b\d{3,4}[pPiI]\b`),
	regexp.MustCompile(`\b[248][kK]\b`),
	regexp.MustCompile(`(?i)\bUHD\b`),
	regexp.MustCompile(`\bHD\b`),
	regexp.MustCompile(`(?i)\bFHD\b`),
	regexp.MustCompile(`\b\d{3,4}x\d{3,4}\b`),
	// Video codecs
	regexp.MustCompile(`\b[xXhH]\.?26[45]\b`),
	regexp.MustCompile(`(?i)\bHEVC\b`),
	regexp.MustCompile(`(?i)\bAVC\b`),
	regexp.MustCompile(`(?i)\bVP9\b`),
	regexp.MustCompile(`(?i)\bAV1\b`),
	regexp.MustCompile(`(?i)\bXviD\b`),
	regexp.MustCompile(`(?i)\bDivX\b`),
	regexp.MustCompile(`(?i)\b10bit\b`),
	regexp.MustCompile(`(?i)\bHDR(?:10)?\b`),
	regexp.MustCompile(`(?i)\bDolby[-\s]?Vision\b`),
	// Audio
	regexp.MustCompile(`(?i)\bAAC(?:[-.\s]?2\.0)?\b`),
	regexp.MustCompile(`(?i)\bAC3\b`),
	regexp.MustCompile(`(?i)\bDTS(?:[-.\s]?HD)?(?:[-.\s]?MA)?\b`),
	regexp.MustCompile(`(?i)\bTrueHD\b`),
	regexp.MustCompile(`(?i)\bFLAC\b`),
	regexp.MustCompile(`(?i)\bMP3\b`),
	regexp.MustCompile(`(?i)\bOpus\b`),
	regexp.MustCompile(`(?i)\bAtmos\b`),
	regexp.MustCompile(`\b[257]\.1(?:\.\d)?\b`),
	// Sources
	regexp.MustCompile(`(?i)\bWEB[-.\s]?DL\b`),
	regexp.MustCompile(`(?i)\bWEB[-.\s]?Rip\b`),
	regexp.MustCompile(`(?i)\bBlu[-.\s]?Ray\b`),
	regexp.MustCompile(`(?i)\bBDRip\b`),
	regexp.MustCompile(`(?i)\bDVDRip\b`),
	regexp.MustCompile(`(?i)\bHDTV\b`),
	// Streaming tags
	regexp.MustCompile(`(?i)\bNetflix\b`),
	regexp.MustCompile(`(?i)\bAmazon\b`),
	regexp.MustCompile(`(?i)\bDisney\+?\b`),
	regexp.MustCompile(`(?i)\bHBO\b`),
	regexp.MustCompile(`(?i)\bHulu\b`),
	regexp.MustCompile(`(?i)\bApple[-.\s]?TV\+?\b`),
	// Common junk tokens
	regexp.MustCompile(`(?i)\bREPACK\b`),
	regexp.MustCompile(`(?i)\bPROPER\b`),
	regexp.MustCompile(`(?i)\bREMUX\b`),
	regexp.MustCompile(`(?i)\bHYBRID\b`),
	regexp.MustCompile(`(?i)\bDUAL\b`),
	regexp.MustCompile(`(?i)\bMULTi\d?\b`),
	// Release groups and watermarks
	regexp.MustCompile(`\[[^\]]+\]`),
	regexp.MustCompile(`\{[^}]+\}`),
	regexp.MustCompile(`(?i)\([^)]*(?:RARBG|YTS|YIFY|ETRG|FGT)[^)]*\)`),
	regexp.MustCompile(`(?i)\bwww\.[a-z0-9]+\.[a-z]{2,}\b`),
	regexp.MustCompile(`(?i)\b[a-z0-9]+\.(?:com|net)\b`),
}

// youtubeID matches trailing 11-character YouTube video IDs.
var youtubeID = regexp.MustCompile(`-[A-Za-z0-9_-]{11}$`)

var (
	illegalChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f\x7f]`)
	multiSpace   = regexp.MustCompile(`\s+`)
)

var smartCharReplacer = strings.NewReplacer(
	"‘", "'", "’", "'",
	"“", `"`, "”", `"`,
	"–", "-", "—", "-", "―", "-",
	"…", "...",
)

// CleanTitle strips the episode-number marker and technical artifacts
// from a filename stem and returns a human-readable, filesystem-safe
// title. The marker removed is the one Parse would extract, so "1 - A"
// cleans to "A" and the number ends up only where the naming template
// places it. Always returns a non-empty string; names that clean down
// to nothing become "untitled".
func CleanTitle(stem string) string {
	if ex := Parse(stem); ex.markerEnd > ex.markerStart {
		stem = stem[:ex.markerStart] + stem[ex.markerEnd:]
	}

	s := youtubeID.ReplaceAllString(stem, "")
	for _, re := range junkPatterns {
		s = re.ReplaceAllString(s, "")
	}

	s = norm.NFC.String(s)
	s = smartCharReplacer.Replace(s)
	s = illegalChars.ReplaceAllString(s, "")
	s = normalizeSeparators(s)
	s = multiSpace.ReplaceAllString(s, " ")
	s = strings.Trim(s, " .")

	if s == "" {
		return "untitled"
	}
	return s
}

// normalizeSeparators converts underscore and dot separators to spaces,
// leaving dots inside acronyms (letter-dot-letter) alone.
func normalizeSeparators(s string) string {
	s = strings.ReplaceAll(s, "_", " ")

	var b strings.Builder
	b.Grow(len(s))
	runes := []rune(s)
	for i, r := range runes {
		if r == '.' {
			prevWord := i > 0 && isWordRune(runes[i-1])
			nextWord := i+1 < len(runes) && isWordRune(runes[i+1])
			if prevWord && nextWord {
				b.WriteRune(r)
				continue
			}
			b.WriteRune(' ')
			continue
		}
		if r == '-' {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// SanitizeFilename removes characters unsafe for filenames on common
// filesystems and collapses the resulting whitespace.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\x00", "")
	name = illegalChars.ReplaceAllString(name, " ")
	name = multiSpace.ReplaceAllString(name, " ")
	return strings.Trim(name, " .")
}
