package companion

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/renamecraft/renamectl/internal/fileref"
	"github.com/renamecraft/renamectl/internal/workerpool"
)

// Pair is one companion-rename pairing derived from a primary rename.
type Pair struct {
	OldPath string
	NewPath string
}

// Discover finds companion files for primary among folderFiles (all files
// in the primary's folder, supplied by the caller — no folder I/O happens
// here), per §4.10 steps 1-3.
func Discover(primary *fileref.FileRef, folderFiles []*fileref.FileRef) []*fileref.FileRef {
	patterns := Table[strings.ToLower(primary.Extension)]
	if len(patterns) == 0 {
		return nil
	}
	stem := primary.Stem()

	var companions []*fileref.FileRef
	for _, candidate := range folderFiles {
		if candidate.FullPath == primary.FullPath {
			continue
		}
		if matchesAnyPattern(patterns, candidate.Filename, stem) {
			companions = append(companions, candidate)
		}
	}
	return companions
}

func matchesAnyPattern(patterns []patternEntry, filename, expectedStem string) bool {
	for _, p := range patterns {
		m := p.Regexp.FindStringSubmatch(filename)
		if m != nil && len(m) > 1 && m[1] == expectedStem {
			return true
		}
	}
	return false
}

// DiscoverBatch runs Discover for many primaries concurrently across a
// bounded worker pool, since discovery is a pure, read-only, per-primary
// computation over an already-materialized file list.
func DiscoverBatch(primaries []*fileref.FileRef, folderFilesByDir map[string][]*fileref.FileRef) map[string][]*fileref.FileRef {
	results := make(map[string][]*fileref.FileRef, len(primaries))
	if len(primaries) == 0 {
		return results
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	pool := workerpool.NewWorkerPool(workerpool.DefaultConfig())
	defer pool.Shutdown(time.Second)

	for _, primary := range primaries {
		primary := primary
		wg.Add(1)
		task := workerpool.Task(func(ctx context.Context) error {
			defer wg.Done()
			folderFiles := folderFilesByDir[primary.Dir()]
			found := Discover(primary, folderFiles)
			mu.Lock()
			results[primary.FullPath] = found
			mu.Unlock()
			return nil
		})
		if err := pool.Submit(task); err != nil {
			_ = task(context.Background())
		}
	}
	wg.Wait()

	return results
}

// RenamePairs computes companion renames for a primary renamed from oldName
// to newName in the same directory, per §4.10's "Rename pairing": each
// companion's basename is rewritten by a literal substitution of the
// primary's old stem with its new stem, wherever it appears.
func RenamePairs(primary *fileref.FileRef, companions []*fileref.FileRef, newPrimaryName string) []Pair {
	oldStem := primary.Stem()
	newStem := fileref.Stem(newPrimaryName)
	dir := primary.Dir()

	pairs := make([]Pair, 0, len(companions))
	for _, c := range companions {
		newCompanionName := strings.ReplaceAll(c.Filename, oldStem, newStem)
		if newCompanionName == c.Filename {
			continue
		}
		pairs = append(pairs, Pair{
			OldPath: c.FullPath,
			NewPath: filepath.Join(dir, newCompanionName),
		})
	}
	return pairs
}

// IsCompanion performs the reverse lookup of §4.10's last paragraph: given
// a candidate file and all files in its folder, determine whether any of
// them claims it as a companion via its own extension's pattern table.
func IsCompanion(candidate *fileref.FileRef, folderFiles []*fileref.FileRef) bool {
	for _, f := range folderFiles {
		if f.FullPath == candidate.FullPath {
			continue
		}
		patterns := Table[strings.ToLower(f.Extension)]
		if len(patterns) == 0 {
			continue
		}
		if matchesAnyPattern(patterns, candidate.Filename, f.Stem()) {
			return true
		}
	}
	return false
}
