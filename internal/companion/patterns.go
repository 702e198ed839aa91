// Package companion implements discovery and rename-pairing of sidecar
// ("companion") files that must travel with a primary media file (§4.10).
package companion

import (
	"fmt"
	"regexp"
	"strings"
)

// patternEntry is one candidate-companion rule for a primary extension:
// companions must match Regexp, anchored so the captured stem equals the
// primary's stem.
type patternEntry struct {
	Regexp *regexp.Regexp
}

func mustPattern(pattern string) patternEntry {
	return patternEntry{Regexp: regexp.MustCompile(pattern)}
}

// Table maps a primary's lowercased extension to its companion patterns,
// adapted from the original implementation's COMPANION_PATTERNS (see
// SPEC_FULL §12) plus any RegisterExtraPatterns overrides layered on top.
var Table = map[string][]patternEntry{}

func init() {
	sonyVideo := []patternEntry{
		mustPattern(`(?i)^(.+)M0[12]\.XML$`),
	}
	subtitle := []patternEntry{
		mustPattern(`(?i)^(.+)\.srt$`),
		mustPattern(`(?i)^(.+)\.vtt$`),
		mustPattern(`(?i)^(.+)\.ass$`),
		mustPattern(`(?i)^(.+)\.ssa$`),
	}
	rawSidecars := []patternEntry{
		mustPattern(`(?i)^(.+)\.xmp$`),
		mustPattern(`(?i)^(.+)\.jpe?g$`),
	}
	imageSidecars := []patternEntry{
		mustPattern(`(?i)^(.+)\.xmp$`),
	}
	// reverseRAWSidecars implements the standard-image entries' "plus
	// reverse RAW companions" rule: a JPEG can be the camera-generated or
	// user-added preview for a RAW original, so it carries the RAW as its
	// own companion.
	reverseRAWSidecars := []patternEntry{
		mustPattern(`(?i)^(.+)\.cr2$`),
		mustPattern(`(?i)^(.+)\.crw$`),
		mustPattern(`(?i)^(.+)\.nef$`),
		mustPattern(`(?i)^(.+)\.nrw$`),
		mustPattern(`(?i)^(.+)\.arw$`),
		mustPattern(`(?i)^(.+)\.srf$`),
		mustPattern(`(?i)^(.+)\.dng$`),
		mustPattern(`(?i)^(.+)\.orf$`),
		mustPattern(`(?i)^(.+)\.rw2$`),
		mustPattern(`(?i)^(.+)\.pef$`),
	}

	for _, ext := range []string{"mp4", "mov", "mts", "m2ts"} {
		Table[ext] = append(append([]patternEntry{}, sonyVideo...), subtitle...)
	}
	for _, ext := range []string{"mkv", "avi", "wmv"} {
		Table[ext] = append(Table[ext], subtitle...)
	}
	for _, ext := range []string{"cr2", "crw", "nef", "nrw", "arw", "srf", "dng", "orf", "rw2", "pef"} {
		Table[ext] = append(Table[ext], rawSidecars...)
	}
	for _, ext := range []string{"png", "tif", "tiff", "heic", "gif", "webp"} {
		Table[ext] = append(Table[ext], imageSidecars...)
	}
	for _, ext := range []string{"jpg", "jpeg"} {
		Table[ext] = append(append(Table[ext], imageSidecars...), reverseRAWSidecars...)
	}
}

// RegisterExtraPatterns layers caller-supplied regexps on top of the
// built-in Table, keyed by lowercased extension (renameconfig's
// companions.extra_patterns). A malformed pattern is reported rather than
// silently dropped.
func RegisterExtraPatterns(extra map[string][]string) error {
	for ext, patterns := range extra {
		for _, raw := range patterns {
			re, err := regexp.Compile(raw)
			if err != nil {
				return fmt.Errorf("companion: compiling extra pattern %q for %q: %w", raw, ext, err)
			}
			Table[strings.ToLower(ext)] = append(Table[strings.ToLower(ext)], patternEntry{Regexp: re})
		}
	}
	return nil
}
