// Package pipeline composes name-fragment modules into full basenames
// (the Pipeline Applier, §4.2) and computes scope-aware counter indices
// (the Scope-aware Indexer, §4.3).
package pipeline

import (
	"strings"

	"github.com/renamecraft/renamectl/internal/fileref"
	"github.com/renamecraft/renamectl/internal/modules"
)

// FileGroup mirrors the spec's FileGroup data-model entry: a named
// collection of files in a stable order, used by PER_FILEGROUP and
// PER_SELECTION counter scopes.
type FileGroup struct {
	SourcePath string
	Files      []*fileref.FileRef
	Recursive  bool
	Metadata   map[string]string
}

// Indexer computes the effective counter index for a file given a scope,
// per §4.3. All_files must be in the same stable order the caller intends
// to use as the global index ordering; ties within a scope are broken by
// ascending global index.
type Indexer struct {
	// Groups, when non-nil, supplies the PER_FILEGROUP / PER_SELECTION
	// grouping. When nil, PER_FILEGROUP falls back to folder-derived
	// grouping (the default described in §4.3).
	Groups []FileGroup
}

// EffectiveIndex returns the effective index for the file at globalIndex i
// within allFiles, under the given scope.
func (idx *Indexer) EffectiveIndex(scope modules.CounterScope, allFiles []*fileref.FileRef, i int) int {
	if allFiles == nil {
		return i
	}
	switch scope {
	case modules.ScopeGlobal:
		return i
	case modules.ScopePerFolder:
		return countBefore(allFiles, i, func(f *fileref.FileRef) string { return f.Dir() })
	case modules.ScopePerExtension:
		return countBefore(allFiles, i, func(f *fileref.FileRef) string { return strings.ToLower(f.Extension) })
	case modules.ScopePerFileGroup, modules.ScopePerSelection:
		return idx.effectiveGroupIndex(allFiles, i)
	default:
		return i
	}
}

func countBefore(allFiles []*fileref.FileRef, i int, key func(*fileref.FileRef) string) int {
	if i < 0 || i >= len(allFiles) {
		return i
	}
	target := key(allFiles[i])
	count := 0
	for j := 0; j < i; j++ {
		if key(allFiles[j]) == target {
			count++
		}
	}
	return count
}

func (idx *Indexer) effectiveGroupIndex(allFiles []*fileref.FileRef, i int) int {
	if i < 0 || i >= len(allFiles) {
		return i
	}
	groups := idx.Groups
	if groups == nil {
		groups = GroupByFolder(allFiles)
	}
	target := allFiles[i]
	for _, g := range groups {
		pos := -1
		for gi, f := range g.Files {
			if f == target {
				pos = gi
				break
			}
		}
		if pos >= 0 {
			return pos
		}
	}
	return i
}

// GroupByFolder is the default PER_FILEGROUP grouping: one group per
// directory, preserving the input order of files within each group.
func GroupByFolder(files []*fileref.FileRef) []FileGroup {
	order := []string{}
	byDir := map[string][]*fileref.FileRef{}
	for _, f := range files {
		dir := f.Dir()
		if _, ok := byDir[dir]; !ok {
			order = append(order, dir)
		}
		byDir[dir] = append(byDir[dir], f)
	}
	groups := make([]FileGroup, 0, len(order))
	for _, dir := range order {
		groups = append(groups, FileGroup{SourcePath: dir, Files: byDir[dir]})
	}
	return groups
}
