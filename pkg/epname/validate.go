package epname

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Conservative length limits; the path limit mirrors the Windows MAX_PATH
// default since renamed libraries are often shared across machines.
const (
	maxFilenameLength = 200
	maxPathLength     = 260
)

// reservedNames are filenames Windows refuses regardless of extension.
var reservedNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {},
	"COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {},
	"LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// Validation is the outcome of checking a proposed filename.
type Validation struct {
	OK       bool
	Problem  string   // set when OK is false
	Warnings []string // advisory, name is still usable
}

// ValidateFilename checks that a proposed filename is usable across common
// filesystems. dir is the directory the file will live in, used for the
// full-path length warning.
func ValidateFilename(name, dir string) Validation {
	var v Validation

	if strings.TrimSpace(name) == "" {
		return Validation{Problem: "filename is empty"}
	}
	if len(name) > maxFilenameLength {
		return Validation{Problem: fmt.Sprintf("filename exceeds %d characters", maxFilenameLength)}
	}
	if illegalChars.MatchString(name) {
		return Validation{Problem: "filename contains illegal characters"}
	}

	base := name
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	if _, reserved := reservedNames[strings.ToUpper(base)]; reserved {
		return Validation{Problem: "reserved filename: " + base}
	}

	if name != strings.Trim(name, " .") {
		v.Warnings = append(v.Warnings, "filename has leading or trailing spaces or dots")
	}
	if len(filepath.Join(dir, name)) > maxPathLength {
		v.Warnings = append(v.Warnings, "full path exceeds the Windows path limit")
	}

	v.OK = true
	return v
}
