// Package fileref defines the unit of work the rename engine operates on:
// a reference to one file under consideration for renaming.
package fileref

import (
	"path/filepath"
	"strings"
	"time"
)

// FileRef represents one file under consideration for renaming. The engine
// never creates or destroys FileRef values; it receives a slice from the
// caller and returns rename outcomes. FullPath is updated by the caller
// after a successful rename.
type FileRef struct {
	FullPath     string         `json:"full_path"`
	Filename     string         `json:"filename"`
	Extension    string         `json:"extension"`
	SizeBytes    int64          `json:"size_bytes"`
	ModifiedTime time.Time      `json:"modified_time"`
	Checked      bool           `json:"checked"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	HashValue    string         `json:"hash_value,omitempty"`
	ColorTag     string         `json:"color_tag,omitempty"`
}

// New builds a FileRef from a full path, deriving Filename and Extension.
// Extension is lowercased and has no leading dot; it is empty when the
// filename has none.
func New(fullPath string, size int64, modified time.Time) *FileRef {
	filename := filepath.Base(fullPath)
	return &FileRef{
		FullPath:     fullPath,
		Filename:     filename,
		Extension:    extensionOf(filename),
		SizeBytes:    size,
		ModifiedTime: modified,
		Checked:      true,
	}
}

func extensionOf(filename string) string {
	ext := filepath.Ext(filename)
	if ext == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// Stem returns the filename without its extension.
func (f *FileRef) Stem() string {
	return Stem(f.Filename)
}

// Dir returns the directory component of the file's full path.
func (f *FileRef) Dir() string {
	return filepath.Dir(f.FullPath)
}

// Stem strips the extension (including the dot) from a basename.
func Stem(basename string) string {
	ext := filepath.Ext(basename)
	if ext == "" {
		return basename
	}
	return strings.TrimSuffix(basename, ext)
}

// MetadataValue reads a key from Metadata, returning ok=false when the
// FileRef carries no metadata or the key is absent.
func (f *FileRef) MetadataValue(key string) (string, bool) {
	if f.Metadata == nil {
		return "", false
	}
	v, ok := f.Metadata[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
