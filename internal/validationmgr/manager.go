// Package validationmgr implements the Validation Manager (§4.7): judges
// intrinsic validity and intra-batch uniqueness of preview pairs. It never
// consults the filesystem; filesystem conflicts are the Execution
// Manager's concern.
package validationmgr

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/renamecraft/renamectl/internal/cache"
	"github.com/renamecraft/renamectl/internal/filenamevalidate"
	"github.com/renamecraft/renamectl/internal/fileref"
	"github.com/renamecraft/renamectl/internal/previewmgr"
)

// DefaultTTL matches the pipeline applier's module-memoization TTL (§9),
// since the Validation Manager sits on the same hot typing-feedback path.
const DefaultTTL = 50 * time.Millisecond

// Item mirrors §3's ValidationItem.
type Item struct {
	OldName      string
	NewName      string
	IsValid      bool
	IsDuplicate  bool
	IsUnchanged  bool
	ErrorMessage string
}

// Result mirrors §3's ValidationResult.
type Result struct {
	Items          []Item
	Duplicates     map[string]bool
	HasErrors      bool
	HasUnchanged   bool
	UnchangedCount int
	ValidCount     int
	InvalidCount   int
	DuplicateCount int
}

// Manager is the Validation Manager.
type Manager struct {
	ttl   time.Duration
	cache *cache.Cache
}

// New builds a Validation Manager with the default 50ms TTL.
func New() *Manager {
	return &Manager{
		ttl:   DefaultTTL,
		cache: cache.NewCache(cache.Config{MaxSize: 256, DefaultTTL: DefaultTTL}),
	}
}

// WithTTL overrides the cache TTL.
func (m *Manager) WithTTL(ttl time.Duration) *Manager {
	m.ttl = ttl
	m.cache = cache.NewCache(cache.Config{MaxSize: 256, DefaultTTL: ttl})
	return m
}

// Validate implements §4.7's algorithm over the Preview Manager's pairs.
func (m *Manager) Validate(pairs []previewmgr.NamePair) Result {
	key := cacheKeyForPairs(pairs)
	if cached, ok := m.cache.Get(key); ok {
		return cached.(Result)
	}

	seen := map[string]bool{}
	duplicates := map[string]bool{}
	items := make([]Item, len(pairs))

	for i, p := range pairs {
		item := Item{OldName: p.OldName, NewName: p.NewName}
		item.IsUnchanged = p.OldName == p.NewName

		stem := fileref.Stem(p.NewName)
		item.IsValid = filenamevalidate.ValidateBasenameStem(stem)
		if !item.IsValid {
			item.ErrorMessage = "invalid filename: " + p.NewName
		}

		if seen[p.NewName] {
			item.IsDuplicate = true
			duplicates[p.NewName] = true
		}
		seen[p.NewName] = true

		items[i] = item
	}

	// A second pass is needed so the *first* occurrence of a name that
	// turns out to be duplicated is also marked, matching §8 property 8
	// ("duplicate_count == 4" for [a, a, b, b, c] — both occurrences of
	// a and b count, not just the repeats).
	for i := range items {
		if duplicates[items[i].NewName] {
			items[i].IsDuplicate = true
		}
	}

	result := Result{Items: items, Duplicates: duplicates}
	for _, it := range items {
		if !it.IsValid {
			result.InvalidCount++
			result.HasErrors = true
		} else {
			result.ValidCount++
		}
		if it.IsUnchanged {
			result.UnchangedCount++
			result.HasUnchanged = true
		}
		if it.IsDuplicate {
			result.DuplicateCount++
		}
	}

	m.cache.SetWithTTL(key, result, m.ttl)
	return result
}

func cacheKeyForPairs(pairs []previewmgr.NamePair) string {
	var b strings.Builder
	for _, p := range pairs {
		b.WriteString(p.OldName)
		b.WriteByte(0)
		b.WriteString(p.NewName)
		b.WriteByte(0)
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
