// Package modules implements the name-fragment modules that make up a
// rename pipeline: pure, (mostly) stateless functions that each produce a
// string fragment from a file, an effective index, and a metadata lookup.
//
// Rather than the reflection-based discovery the source system uses
// (scanning a package for classes carrying DISPLAY_NAME/UI_ROWS/...
// attributes), modules here are a closed, statically registered set: a
// tagged-union Config plus an explicit switch in the pipeline applier. New
// modules are added by extending the Kind enum, the Config struct, and the
// Apply switch in one place — no runtime reflection involved.
package modules

import (
	"strings"
	"time"

	"github.com/renamecraft/renamectl/internal/fileref"
	"github.com/renamecraft/renamectl/internal/filenamevalidate"
)

// Kind identifies which module a Config instance configures.
type Kind string

const (
	KindCounter       Kind = "counter"
	KindSpecifiedText Kind = "specified_text"
	KindOriginalName  Kind = "original_name"
	KindTextRemoval   Kind = "text_removal"
	KindMetadata      Kind = "metadata"
)

// TextRemovalPosition selects where in the name a text-removal module looks
// for matches.
type TextRemovalPosition string

const (
	PositionStart     TextRemovalPosition = "start"
	PositionEnd       TextRemovalPosition = "end"
	PositionAnywhere  TextRemovalPosition = "anywhere"
)

// MetadataCategory selects which metadata source a metadata module reads.
type MetadataCategory string

const (
	CategoryFileDates    MetadataCategory = "file_dates"
	CategoryHash         MetadataCategory = "hash"
	CategoryMetadataKeys MetadataCategory = "metadata_keys"
)

// CounterScope is the grouping over which a counter module's effective
// index resets.
type CounterScope string

const (
	ScopeGlobal       CounterScope = "GLOBAL"
	ScopePerFolder    CounterScope = "PER_FOLDER"
	ScopePerExtension CounterScope = "PER_EXTENSION"
	ScopePerFileGroup CounterScope = "PER_FILEGROUP"
	ScopePerSelection CounterScope = "PER_SELECTION"
)

// Config is a tagged-union configuration record: exactly one module type is
// active per Config value, selected by Kind. Unused fields for other kinds
// are left at their zero value.
type Config struct {
	Kind Kind `json:"kind"`

	// Counter
	Start   int          `json:"start,omitempty"`
	Step    int          `json:"step,omitempty"`
	Padding int          `json:"padding,omitempty"`
	Scope   CounterScope `json:"scope,omitempty"`

	// SpecifiedText
	Text string `json:"text,omitempty"`

	// OriginalName
	Greeklish bool `json:"greeklish,omitempty"`

	// TextRemoval
	TextToRemove  string              `json:"text_to_remove,omitempty"`
	Position      TextRemovalPosition `json:"position,omitempty"`
	CaseSensitive bool                `json:"case_sensitive,omitempty"`

	// Metadata
	Field    string           `json:"field,omitempty"`
	Category MetadataCategory `json:"category,omitempty"`
}

// Lookup is the per-file view modules consult for optional metadata
// key/value pairs. It is satisfied directly by *fileref.FileRef; the
// content hash is read from the FileRef's HashValue field, not through
// Lookup.
type Lookup interface {
	MetadataValue(key string) (string, bool)
}

// IsEffective reports whether this module contributes output given its
// configuration, per each module's "Effective iff ..." rule in §4.1.
func (c Config) IsEffective() bool {
	switch c.Kind {
	case KindCounter:
		return true
	case KindSpecifiedText:
		return c.Text != ""
	case KindOriginalName:
		return true
	case KindTextRemoval:
		return c.TextToRemove != ""
	case KindMetadata:
		return c.Field != ""
	default:
		return false
	}
}

// Apply produces this module's string fragment for one file. effectiveIndex
// is the counter's scope-adjusted index (ignored by non-counter modules).
// hashAvailable/metadataAvailable reflect the Batch Query Provider's
// availability hints for this file.
func Apply(c Config, file *fileref.FileRef, effectiveIndex int, lookup Lookup, hashAvailable, metadataAvailable bool) string {
	switch c.Kind {
	case KindCounter:
		return applyCounter(c, effectiveIndex)
	case KindSpecifiedText:
		return applySpecifiedText(c)
	case KindOriginalName:
		return applyOriginalName(c, file)
	case KindTextRemoval:
		return applyTextRemoval(c, file)
	case KindMetadata:
		return applyMetadata(c, file, lookup, hashAvailable, metadataAvailable)
	default:
		return ""
	}
}

func applyCounter(c Config, effectiveIndex int) (fragment string) {
	padding := c.Padding
	if padding <= 0 {
		padding = 4
	}
	step := c.Step
	if step == 0 {
		step = 1
	}
	defer func() {
		if r := recover(); r != nil {
			fragment = strings.Repeat("#", padding)
		}
	}()
	value := c.Start + effectiveIndex*step
	return zeroPad(value, padding)
}

func zeroPad(value, width int) string {
	s := itoa(value)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	for len(s) < width {
		s = "0" + s
	}
	if neg {
		s = "-" + s
	}
	return s
}

// itoa avoids importing strconv just for this; kept trivial and explicit.
func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf []byte
	for v > 0 {
		buf = append([]byte{byte('0' + v%10)}, buf...)
		v /= 10
	}
	if neg {
		buf = append([]byte{'-'}, buf...)
	}
	return string(buf)
}

func applySpecifiedText(c Config) string {
	if c.Text == "" {
		return ""
	}
	cleaned, ok := filenamevalidate.ValidateFragment(c.Text)
	if !ok {
		return filenamevalidate.Sentinel
	}
	return cleaned
}

func applyOriginalName(c Config, file *fileref.FileRef) string {
	stem := file.Stem()
	if !c.Greeklish {
		return stem
	}
	transliterated := Greeklish(stem)
	if strings.TrimSpace(transliterated) == "" {
		return stem
	}
	return transliterated
}

func applyTextRemoval(c Config, file *fileref.FileRef) string {
	stem := file.Stem()
	if c.TextToRemove == "" {
		return stem
	}
	return removeText(stem, c.TextToRemove, c.Position, c.CaseSensitive)
}

func removeText(stem, target string, pos TextRemovalPosition, caseSensitive bool) string {
	haystack := stem
	needle := target
	if !caseSensitive {
		haystack = strings.ToLower(haystack)
		needle = strings.ToLower(needle)
	}

	switch pos {
	case PositionStart:
		if strings.HasPrefix(haystack, needle) {
			return stem[len(target):]
		}
		return stem
	case PositionEnd:
		if strings.HasSuffix(haystack, needle) {
			return stem[:len(stem)-len(target)]
		}
		return stem
	default: // Anywhere
		return replaceAllPreservingCase(stem, haystack, needle)
	}
}

func replaceAllPreservingCase(original, haystack, needle string) string {
	if needle == "" {
		return original
	}
	var b strings.Builder
	rest := original
	restLower := haystack
	for {
		idx := strings.Index(restLower, needle)
		if idx < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:idx])
		rest = rest[idx+len(needle):]
		restLower = restLower[idx+len(needle):]
	}
	return b.String()
}

func applyMetadata(c Config, file *fileref.FileRef, lookup Lookup, hashAvailable, metadataAvailable bool) string {
	switch c.Category {
	case CategoryFileDates:
		return formatFileDate(c.Field, file.ModifiedTime)
	case CategoryHash:
		if !strings.HasPrefix(c.Field, "hash_") {
			return file.Stem()
		}
		if !hashAvailable || file.HashValue == "" {
			return file.Stem()
		}
		return file.HashValue
	case CategoryMetadataKeys:
		if !metadataAvailable {
			return file.Stem()
		}
		value, ok := lookupWithAliases(lookup, c.Field)
		if !ok {
			return file.Stem()
		}
		return filenamevalidate.CleanForFilename(value)
	default:
		return file.Stem()
	}
}

// metadataAliases is the canonical, intentionally small alias table carried
// over from the source's MetadataFieldMapper: only the two aliases the
// original actually implements. No new aliases are invented here — the
// caller owns the canonical table if it needs more.
var metadataAliases = map[string][]string{
	"creation_date": {"date_created"},
	"date":          {"date"},
}

func lookupWithAliases(lookup Lookup, field string) (string, bool) {
	if lookup == nil {
		return "", false
	}
	if v, ok := lookup.MetadataValue(field); ok {
		return v, true
	}
	for _, alias := range metadataAliases[field] {
		if v, ok := lookup.MetadataValue(alias); ok {
			return v, true
		}
	}
	return "", false
}

func formatFileDate(field string, t time.Time) string {
	switch field {
	case "last_modified_iso":
		return t.Format("2006-01-02")
	case "last_modified_eu":
		return t.Format("02-01-2006")
	case "last_modified_us":
		return t.Format("01-02-2006")
	case "last_modified_year":
		return t.Format("2006")
	case "last_modified_month":
		return t.Format("01")
	case "last_modified_iso_time":
		return t.Format("2006-01-02T150405")
	case "last_modified_eu_time":
		return t.Format("02-01-2006 150405")
	case "last_modified_compact":
		return t.Format("20060102150405")
	case "last_modified_yymmdd", "last_modified":
		return t.Format("060102")
	default:
		return t.Format("060102")
	}
}
