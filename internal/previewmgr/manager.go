// Package previewmgr implements the Preview Manager (§4.5): orchestrates
// the pipeline applier and batch query provider to produce (old_name,
// new_name) pairs for a file set, behind a short-lived TTL cache.
package previewmgr

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/renamecraft/renamectl/internal/cache"
	"github.com/renamecraft/renamectl/internal/fileref"
	"github.com/renamecraft/renamectl/internal/modules"
	"github.com/renamecraft/renamectl/internal/pipeline"
	"golang.org/x/time/rate"
)

// DefaultTTL is the default cache TTL (§3 invariant: "never returns entries
// older than its TTL (default 100 ms)").
const DefaultTTL = 100 * time.Millisecond

// SlowThreshold is the performance target past which GeneratePreview logs
// an informational record (§4.5).
const SlowThreshold = 50 * time.Millisecond

// NamePair is one (old_basename, new_basename) entry.
type NamePair struct {
	OldName string
	NewName string
}

// Result mirrors §3's PreviewResult.
type Result struct {
	NamePairs  []NamePair
	HasChanges bool
	Errors     []string
	Timestamp  time.Time
}

// Availability is the subset of the Batch Query Provider contract the
// Preview Manager needs.
type Availability interface {
	HashAvailability(files []*fileref.FileRef) map[string]bool
	MetadataAvailability(files []*fileref.FileRef) map[string]bool
}

// Logger is the minimal logging seam the engine uses for its one
// info-level log line (§4.5 performance target). Any type with an Infof
// method satisfies it; a *log.Logger has no Infof and needs an adapter.
// New substitutes a logger that discards every record when given nil.
type Logger interface {
	Infof(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Infof(string, ...any) {}

// Manager is the Preview Manager.
type Manager struct {
	ttl          time.Duration
	cache        *cache.Cache
	applier      *pipeline.Applier
	availability Availability
	logger       Logger

	// logLimiter throttles the "preview exceeded 50ms" info log so a
	// caller hammering GeneratePreview with large, slow batches cannot
	// flood the log sink.
	logLimiter *rate.Limiter

	mu sync.Mutex
}

// New builds a Preview Manager with the default 100ms TTL.
func New(availability Availability, logger Logger) *Manager {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Manager{
		ttl:          DefaultTTL,
		cache:        cache.NewCache(cache.Config{MaxSize: 256, DefaultTTL: DefaultTTL}),
		applier:      pipeline.NewApplier(),
		availability: availability,
		logger:       logger,
		logLimiter:   rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// WithTTL overrides the cache TTL (tests use this to avoid sleeping 100ms).
func (m *Manager) WithTTL(ttl time.Duration) *Manager {
	m.ttl = ttl
	m.cache = cache.NewCache(cache.Config{MaxSize: 256, DefaultTTL: ttl})
	return m
}

// GeneratePreview implements §4.5's algorithm.
func (m *Manager) GeneratePreview(files []*fileref.FileRef, modulesData []modules.Config, post pipeline.PostTransformConfig) Result {
	start := time.Now()

	if len(files) == 0 {
		return Result{NamePairs: nil, HasChanges: false, Timestamp: start}
	}

	key := cacheKey(files, modulesData, post)
	if cached, ok := m.cache.Get(key); ok {
		return cached.(Result)
	}

	var hashAvail, metaAvail map[string]bool
	if m.availability != nil {
		hashAvail = m.availability.HashAvailability(files)
		metaAvail = m.availability.MetadataAvailability(files)
	}

	pairs := make([]NamePair, len(files))
	hasChanges := false
	for i, f := range files {
		newName := m.applier.Apply(modulesData, post, f, i, files, f, hashAvail[f.FullPath], metaAvail[f.FullPath])
		pairs[i] = NamePair{OldName: f.Filename, NewName: newName}
		if newName != f.Filename {
			hasChanges = true
		}
	}

	result := Result{NamePairs: pairs, HasChanges: hasChanges, Timestamp: time.Now()}
	m.cache.SetWithTTL(key, result, m.ttl)

	if elapsed := time.Since(start); elapsed > SlowThreshold {
		if m.logLimiter.Allow() {
			m.logger.Infof("generate_preview took %s for %d files (target <%s)", elapsed, len(files), SlowThreshold)
		}
	}

	return result
}

// ClearCache implements §4.5's explicit clear_cache(): clears this
// manager's own result cache only.
func (m *Manager) ClearCache() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache.Clear()
}

// ClearAllCaches clears this manager's result cache plus the pipeline
// applier's module-level memoization (§4.5: clear_all_caches "additionally
// clears the module-level memoization in the pipeline applier").
func (m *Manager) ClearAllCaches() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache.Clear()
	m.applier.ClearCache()
}

// cacheKey builds a stable cache key from the tuple of full paths plus a
// stable hash of modules_data and post_transform, per §4.5 step 2.
func cacheKey(files []*fileref.FileRef, modulesData []modules.Config, post pipeline.PostTransformConfig) string {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.FullPath
	}

	h := sha256.New()
	h.Write([]byte(strings.Join(paths, "\x00")))
	h.Write([]byte{0})
	h.Write(stableHash(modulesData))
	h.Write([]byte{0})
	h.Write(stableHash(post))
	return hex.EncodeToString(h.Sum(nil))
}

// stableHash serialises v as canonical JSON where possible, falling back
// to its fmt string form, per §4.5 step 2.
func stableHash(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		b = []byte(fmt.Sprintf("%#v", v))
	}
	sum := sha256.Sum256(b)
	return sum[:]
}
