package episode

import (
	"sort"
	"strings"
	"unicode"
)

// Sort orders metadata for renaming: entries with a primary number first in
// ascending numeric order, unnumbered entries after them, ties broken by
// natural comparison of the original name. The result is a new slice; the
// input is left untouched. The ordering is a total order, so repeated runs
// over the same input always produce the same output.
func Sort(metas []Metadata) []Metadata {
	out := make([]Metadata, len(metas))
	copy(out, metas)
	sort.SliceStable(out, func(i, j int) bool {
		return Less(out[i], out[j])
	})
	return out
}

// Less is the ordering used by Sort, exposed for reuse by callers that sort
// their own slices of metadata.
func Less(a, b Metadata) bool {
	switch {
	case a.HasNumber() && !b.HasNumber():
		return true
	case !a.HasNumber() && b.HasNumber():
		return false
	case a.HasNumber() && b.HasNumber() && *a.Number != *b.Number:
		return *a.Number < *b.Number
	}
	if c := NaturalCompare(a.OriginalName, b.OriginalName); c != 0 {
		return c < 0
	}
	// Exact name then path keep the order total when names collide only
	// in case or the same file appears under two paths.
	if a.OriginalName != b.OriginalName {
		return a.OriginalName < b.OriginalName
	}
	return a.SourcePath < b.SourcePath
}

// SortByConfidence orders metadata by descending extraction confidence,
// then by primary number. Used for reviewing extraction quality, not for
// building transactions.
func SortByConfidence(metas []Metadata) []Metadata {
	out := make([]Metadata, len(metas))
	copy(out, metas)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		return a.NumberOr(int(^uint(0)>>1)) < b.NumberOr(int(^uint(0)>>1))
	})
	return out
}

// NaturalCompare compares two strings the way a human reads them: embedded
// digit runs compare as integers ("2" before "10"), everything else
// compares case-insensitively. Returns -1, 0, or 1.
func NaturalCompare(a, b string) int {
	ar, br := []rune(a), []rune(b)
	i, j := 0, 0
	for i < len(ar) && j < len(br) {
		if unicode.IsDigit(ar[i]) && unicode.IsDigit(br[j]) {
			ni, i2 := takeDigits(ar, i)
			nj, j2 := takeDigits(br, j)
			if c := compareNumeric(ni, nj); c != 0 {
				return c
			}
			i, j = i2, j2
			continue
		}
		ca := unicode.ToLower(ar[i])
		cb := unicode.ToLower(br[j])
		if ca != cb {
			if ca < cb {
				return -1
			}
			return 1
		}
		i++
		j++
	}
	switch {
	case i < len(ar):
		return 1
	case j < len(br):
		return -1
	}
	return 0
}

// takeDigits consumes a digit run starting at i and returns it with the
// index past the run.
func takeDigits(r []rune, i int) (string, int) {
	start := i
	for i < len(r) && unicode.IsDigit(r[i]) {
		i++
	}
	return string(r[start:i]), i
}

// compareNumeric compares two digit strings as integers without parsing,
// so arbitrarily long runs cannot overflow.
func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
