package query

import (
	"errors"
	"testing"

	"github.com/renamecraft/renamectl/internal/fileref"
	"github.com/stretchr/testify/assert"
)

type fakeHashStore struct {
	have map[string]bool
	err  error
}

func (f *fakeHashStore) FilesWithHash(paths []string, algorithm string) (map[string]bool, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.have, nil
}

type fakeMetadataStore struct {
	entries map[string]MetadataEntry
	err     error
}

func (f *fakeMetadataStore) EntriesBatch(paths []string) (map[string]MetadataEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

func files(paths ...string) []*fileref.FileRef {
	var out []*fileref.FileRef
	for _, p := range paths {
		out = append(out, &fileref.FileRef{FullPath: p})
	}
	return out
}

func TestNewProvider_DefaultsAlgorithm(t *testing.T) {
	p := NewProvider(nil, nil, "")
	assert.Equal(t, "crc32", p.Algorithm)
}

func TestHashAvailability_NilStoreReportsFalse(t *testing.T) {
	p := NewProvider(nil, nil, "crc32")
	result := p.HashAvailability(files("/a.txt", "/b.txt"))

	assert.False(t, result["/a.txt"])
	assert.False(t, result["/b.txt"])
}

func TestHashAvailability_ReportsPerFile(t *testing.T) {
	store := &fakeHashStore{have: map[string]bool{"/a.txt": true}}
	p := NewProvider(store, nil, "crc32")

	result := p.HashAvailability(files("/a.txt", "/b.txt"))

	assert.True(t, result["/a.txt"])
	assert.False(t, result["/b.txt"])
}

func TestHashAvailability_StoreErrorReportsAllFalse(t *testing.T) {
	store := &fakeHashStore{err: errors.New("store down")}
	p := NewProvider(store, nil, "crc32")

	result := p.HashAvailability(files("/a.txt"))

	assert.False(t, result["/a.txt"])
}

func TestMetadataAvailability_NilStoreReportsFalse(t *testing.T) {
	p := NewProvider(nil, nil, "")
	result := p.MetadataAvailability(files("/a.txt"))
	assert.False(t, result["/a.txt"])
}

func TestMetadataAvailability_IgnoresInternalKeys(t *testing.T) {
	store := &fakeMetadataStore{
		entries: map[string]MetadataEntry{
			"/a.txt": {Data: map[string]any{"path": "/a.txt", "_internal": 1}},
			"/b.txt": {Data: map[string]any{"camera": "Sony"}},
		},
	}
	p := NewProvider(nil, store, "")

	result := p.MetadataAvailability(files("/a.txt", "/b.txt"))

	assert.False(t, result["/a.txt"], "only internal keys present, should report unavailable")
	assert.True(t, result["/b.txt"])
}

func TestMetadataAvailability_MissingEntryReportsFalse(t *testing.T) {
	store := &fakeMetadataStore{entries: map[string]MetadataEntry{}}
	p := NewProvider(nil, store, "")

	result := p.MetadataAvailability(files("/a.txt"))
	assert.False(t, result["/a.txt"])
}

func TestMetadataAvailability_StoreErrorReportsAllFalse(t *testing.T) {
	store := &fakeMetadataStore{err: errors.New("store down")}
	p := NewProvider(nil, store, "")

	result := p.MetadataAvailability(files("/a.txt"))
	assert.False(t, result["/a.txt"])
}
