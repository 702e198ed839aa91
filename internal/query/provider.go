// Package query implements the Batch Query Provider (§4.4): bulk
// hash-availability and metadata-availability lookups that modules use to
// short-circuit when their preconditions are missing. This is the only
// place in the core that talks to external caches; both the hash and
// metadata stores, and the cache storage engine backing them, are external
// collaborators whose contracts are consumed here, not implemented.
package query

import (
	"strings"

	"github.com/renamecraft/renamectl/internal/fileref"
)

// HashStore is the external hash-lookup contract (§6.4): reports which
// files have a cached hash for a given algorithm.
type HashStore interface {
	FilesWithHash(paths []string, algorithm string) (map[string]bool, error)
}

// MetadataEntry mirrors the richer get_entry(path) form of the metadata
// contract (§6.3): a key/value map plus whether the entry carries
// extended (as opposed to minimal) metadata.
type MetadataEntry struct {
	Data       map[string]any
	IsExtended bool
}

// MetadataStore is the external metadata-lookup contract (§6.3).
type MetadataStore interface {
	EntriesBatch(paths []string) (map[string]MetadataEntry, error)
}

// internalKeys are ignored when deciding whether a metadata entry counts as
// "available" — they are bookkeeping keys, not user-visible fields.
var internalKeys = map[string]bool{"path": true, "filename": true}

func isInternalKey(key string) bool {
	return strings.HasPrefix(key, "_") || internalKeys[key]
}

// Provider answers bulk availability queries for a file set. All methods
// are best-effort: store errors are treated conservatively as "false" for
// every file in the batch, per §4.4.
type Provider struct {
	Hashes    HashStore
	Metadata  MetadataStore
	Algorithm string
}

// NewProvider builds a Provider. Either store may be nil, in which case
// availability is always reported false for that dimension.
func NewProvider(hashes HashStore, metadata MetadataStore, algorithm string) *Provider {
	if algorithm == "" {
		algorithm = "crc32"
	}
	return &Provider{Hashes: hashes, Metadata: metadata, Algorithm: algorithm}
}

// HashAvailability reports, for each file, whether a hash is known.
func (p *Provider) HashAvailability(files []*fileref.FileRef) map[string]bool {
	result := make(map[string]bool, len(files))
	if p.Hashes == nil {
		for _, f := range files {
			result[f.FullPath] = false
		}
		return result
	}
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.FullPath
	}
	have, err := p.Hashes.FilesWithHash(paths, p.Algorithm)
	if err != nil {
		for _, f := range files {
			result[f.FullPath] = false
		}
		return result
	}
	for _, f := range files {
		result[f.FullPath] = have[f.FullPath]
	}
	return result
}

// MetadataAvailability reports, for each file, whether the metadata store
// holds at least one non-internal key.
func (p *Provider) MetadataAvailability(files []*fileref.FileRef) map[string]bool {
	result := make(map[string]bool, len(files))
	if p.Metadata == nil {
		for _, f := range files {
			result[f.FullPath] = false
		}
		return result
	}
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.FullPath
	}
	entries, err := p.Metadata.EntriesBatch(paths)
	if err != nil {
		for _, f := range files {
			result[f.FullPath] = false
		}
		return result
	}
	for _, f := range files {
		entry, ok := entries[f.FullPath]
		if !ok {
			result[f.FullPath] = false
			continue
		}
		result[f.FullPath] = hasUserKey(entry.Data)
	}
	return result
}

func hasUserKey(data map[string]any) bool {
	for k := range data {
		if !isInternalKey(k) {
			return true
		}
	}
	return false
}
