// Package filenamevalidate implements the two levels of filename checking
// the engine relies on: strict character-level validation of fragments and
// whole basenames, and a best-effort "filename-safety" cleaner used to turn
// free-form metadata values into usable fragments.
package filenamevalidate

import (
	"regexp"
	"strings"
)

// Sentinel is the application-defined marker returned in place of an
// invalid fragment. It is never a value a caller could have produced from a
// legitimate filename, so downstream code can detect it with a plain
// string comparison.
const Sentinel = "__VALIDATION_ERROR__"

// InvalidChars is the built-in set of characters rejected by
// character-level validation, matching Windows path-separator and
// reserved-glyph rules.
const InvalidChars = `<>:"/\|?*`

// extraInvalidChars holds caller-supplied characters layered on top of
// InvalidChars by Configure (renameconfig's validation.extra_invalid_chars).
var extraInvalidChars string

// Configure merges caller-supplied overrides into the reserved-name and
// invalid-character tables. It is meant to be called once at startup,
// before any validation runs, from the loaded renameconfig.ValidationConfig.
func Configure(extraReservedNames []string, extraChars string) {
	for _, name := range extraReservedNames {
		reservedNames[strings.ToUpper(name)] = true
	}
	extraInvalidChars = extraChars
}

// invalidTrailingChars are stripped from the end of a fragment before it is
// judged empty-or-not; a fragment that is only dots/spaces is invalid.
const invalidTrailingChars = " ."

var reservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// HasInvalidChar reports whether s contains any character-level-invalid
// character. This is the predicate used by live keystroke filtering.
func HasInvalidChar(s string) bool {
	return strings.ContainsAny(s, InvalidChars+extraInvalidChars)
}

// IsReservedName reports whether name is a Windows reserved device name,
// compared case-insensitively.
func IsReservedName(name string) bool {
	return reservedNames[strings.ToUpper(name)]
}

// ValidateFragment runs character-level validation on a filename fragment.
// On success it returns the cleaned fragment (trailing dots/spaces
// stripped) and ok=true. On failure it returns Sentinel and ok=false.
func ValidateFragment(fragment string) (string, bool) {
	if fragment == "" {
		return Sentinel, false
	}
	if HasInvalidChar(fragment) {
		return Sentinel, false
	}
	if IsReservedName(fragment) {
		return Sentinel, false
	}
	cleaned := strings.TrimRight(fragment, invalidTrailingChars)
	if cleaned == "" {
		return Sentinel, false
	}
	return cleaned, true
}

// ValidateBasenameStem runs the same character-level validation as
// ValidateFragment but is named separately for call sites that validate
// the stem of a full basename (§4.7 Validation Manager), where the
// sentinel distinction matters less than the boolean outcome.
func ValidateBasenameStem(stem string) bool {
	_, ok := ValidateFragment(stem)
	return ok
}

var (
	collapseSpaces     = regexp.MustCompile(` +`)
	safeCharPattern    = regexp.MustCompile(`[^A-Za-z0-9_.+-]+`)
	collapseUnderscore = regexp.MustCompile(`_+`)
)

// CleanForFilename implements the filename-safety cleaner used by the
// metadata module when turning free-form values (camera model strings,
// EXIF fields, etc.) into filename fragments. Unlike ValidateFragment this
// never fails outright: it always returns a best-effort cleaned string,
// even if that string may still fail character-level validation on return
// (callers reject it downstream in that case).
func CleanForFilename(value string) string {
	s := strings.ReplaceAll(value, ":", "_")
	for _, c := range []string{"<", ">", "\"", "/", "\\", "|", "?", "*"} {
		s = strings.ReplaceAll(s, c, "_")
	}
	s = collapseSpaces.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, " ", "_")
	s = safeCharPattern.ReplaceAllString(s, "_")
	s = collapseUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")

	if !ValidateBasenameStem(s) {
		s = aggressiveSanitize(s)
	}
	return s
}

// aggressiveSanitize is the fallback sanitiser mentioned in the spec for
// values that still fail character-level validation after the standard
// cleaning pass (e.g. a value that cleans down to a reserved device name).
func aggressiveSanitize(s string) string {
	if IsReservedName(s) {
		s = "_" + s
	}
	s = strings.TrimRight(s, invalidTrailingChars)
	if s == "" {
		return "_"
	}
	return s
}
