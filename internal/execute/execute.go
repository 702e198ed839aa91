// Package execute implements the Execution Manager (§4.9): commits a
// validated batch of renames to the filesystem, extending the plan with
// companion renames, resolving conflicts without blocking on an external
// prompt for every file, and protecting case-only renames on
// case-insensitive filesystems.
package execute

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/renamecraft/renamectl/internal/companion"
	"github.com/renamecraft/renamectl/internal/conflict"
	"github.com/renamecraft/renamectl/internal/fileref"
	"github.com/renamecraft/renamectl/internal/preexec"
	"github.com/spf13/afero"
)

// SkipUnchanged is the skip reason recorded for items whose new name
// equals their old name — §4.9 step 1's "already matches, nothing to do".
const SkipUnchanged = "unchanged"

// Item is one planned rename, mutated in place as execution proceeds.
type Item struct {
	OldPath    string
	NewPath    string
	Success    bool
	SkipReason string
	Err        error
	IsCompanion bool
}

// Decision is the caller's answer to a conflict at one item's NewPath.
type Decision string

const (
	DecisionSkip      Decision = "skip"
	DecisionSkipAll   Decision = "skip_all"
	DecisionOverwrite Decision = "overwrite"
	DecisionRename    Decision = "rename"
	DecisionCancel    Decision = "cancel"
)

// ConflictCallback is invoked once per detected conflict, unless a prior
// call already returned DecisionSkipAll, per §4.9.2.
type ConflictCallback func(item *Item) Decision

// Result is the aggregate outcome of one Execute call, per §4.9's
// "aggregate outcome" description.
type Result struct {
	Items []*Item

	SuccessCount  int
	ErrorCount    int
	SkippedCount  int
	ConflictsCount int
}

// RenamedCount aliases SuccessCount.
func (r *Result) RenamedCount() int { return r.SuccessCount }

// FailedCount aliases ErrorCount.
func (r *Result) FailedCount() int { return r.ErrorCount }

// DefaultCaseRenameMaxAttempts bounds the temp-name search in
// caseSafeRename: the number of `.renametmp-N-<name>` candidates tried
// before giving up on a case-only rename.
const DefaultCaseRenameMaxAttempts = 100

// Manager is the Execution Manager.
type Manager struct {
	Fs                    afero.Fs
	Resolver              *conflict.Resolver
	Validator             *preexec.Validator
	IncludeCompanions     bool
	CaseRenameMaxAttempts int
}

// New builds a Manager. resolver and validator may be nil to disable
// conflict-resolution bookkeeping or the pre-execution check, respectively.
func New(fs afero.Fs, resolver *conflict.Resolver) *Manager {
	return &Manager{
		Fs:                    fs,
		Resolver:              resolver,
		IncludeCompanions:     true,
		CaseRenameMaxAttempts: DefaultCaseRenameMaxAttempts,
	}
}

// BuildPlan constructs the execution plan from files paired with their
// generated names (§4.9 step 1): unchanged pairs are pre-marked
// successful with SkipUnchanged, and — when IncludeCompanions is set —
// each changed primary's companions are appended as their own items.
func (m *Manager) BuildPlan(files []*fileref.FileRef, newNames map[string]string, folderFilesByDir map[string][]*fileref.FileRef) []*Item {
	items := make([]*Item, 0, len(files))
	for _, f := range files {
		newName, ok := newNames[f.FullPath]
		if !ok {
			continue
		}
		newPath := filepath.Join(f.Dir(), newName)
		item := &Item{OldPath: f.FullPath, NewPath: newPath}
		if newPath == f.FullPath {
			item.Success = true
			item.SkipReason = SkipUnchanged
		}
		items = append(items, item)

		if !m.IncludeCompanions || item.SkipReason == SkipUnchanged {
			continue
		}
		folderFiles := folderFilesByDir[f.Dir()]
		companions := companion.Discover(f, folderFiles)
		if len(companions) == 0 {
			continue
		}
		for _, pair := range companion.RenamePairs(f, companions, newName) {
			items = append(items, &Item{OldPath: pair.OldPath, NewPath: pair.NewPath, IsCompanion: true})
		}
	}
	return items
}

// Execute commits every non-skipped item, per §4.9 steps 2-5. Files
// already flagged Success (e.g. SkipUnchanged) are left untouched. When
// m.Validator is set, each remaining item is re-checked immediately
// before its rename; a critical issue fails that item without touching
// the filesystem.
func (m *Manager) Execute(items []*Item, onConflict ConflictCallback) *Result {
	result := &Result{Items: items}
	skipAll := false

	for _, item := range items {
		if item.Success {
			result.SuccessCount++
			continue
		}
		if skipAll {
			item.SkipReason = "skip_all"
			result.SkippedCount++
			continue
		}

		cancel := m.executeOne(item, &skipAll, onConflict, result)
		if cancel {
			break
		}
	}
	return result
}

// executeOne runs the checks, conflict resolution and rename for a
// single non-skipped item, updating result's counters and *skipAll in
// place. It reports whether the whole batch should stop (DecisionCancel).
func (m *Manager) executeOne(item *Item, skipAll *bool, onConflict ConflictCallback, result *Result) bool {
	if m.Validator != nil {
		v := m.Validator.Validate([]*fileref.FileRef{{FullPath: item.OldPath}})
		for _, issue := range v.Issues {
			if issue.Critical() {
				item.Err = fmt.Errorf("execute: pre-execution check failed: %s (%s)", issue.Detail, issue.Type)
				result.ErrorCount++
				return false
			}
		}
	}

	if exists, _ := afero.Exists(m.Fs, item.NewPath); exists && item.NewPath != item.OldPath {
		result.ConflictsCount++
		decision := DecisionSkip
		if onConflict != nil {
			decision = onConflict(item)
		}
		switch decision {
		case DecisionCancel:
			item.SkipReason = "cancelled"
			result.SkippedCount++
			return true
		case DecisionSkipAll:
			*skipAll = true
			item.SkipReason = "skip_all"
			result.SkippedCount++
			return false
		case DecisionSkip:
			item.SkipReason = "skip"
			result.SkippedCount++
			return false
		case DecisionOverwrite:
			res, err := m.resolve(conflict.StrategyOverwrite, item)
			if err != nil {
				item.Err = err
				result.ErrorCount++
				return false
			}
			item.NewPath = res.TargetPath
		case DecisionRename:
			res, err := m.resolve(conflict.StrategyNumber, item)
			if err != nil {
				item.Err = err
				result.ErrorCount++
				return false
			}
			item.NewPath = res.TargetPath
		}
	}

	if err := performRename(m.Fs, item.OldPath, item.NewPath, m.caseRenameMaxAttempts()); err != nil {
		item.Err = err
		result.ErrorCount++
		return false
	}
	if m.Resolver != nil {
		m.Resolver.RecordRename(item.OldPath, item.NewPath)
	}
	item.Success = true
	result.SuccessCount++
	return false
}

func (m *Manager) resolve(strategy conflict.Strategy, item *Item) (conflict.Resolution, error) {
	if m.Resolver != nil {
		return m.Resolver.Resolve(strategy, item.OldPath, item.NewPath)
	}
	r := conflict.New(m.Fs, "")
	return r.Resolve(strategy, item.OldPath, item.NewPath)
}

// caseRenameMaxAttempts returns m.CaseRenameMaxAttempts, falling back to
// the default for a zero-value Manager (e.g. one built without New).
func (m *Manager) caseRenameMaxAttempts() int {
	if m.CaseRenameMaxAttempts <= 0 {
		return DefaultCaseRenameMaxAttempts
	}
	return m.CaseRenameMaxAttempts
}

// performRename commits one rename, routing case-only renames (same
// path under case-insensitive comparison, different bytes) through a
// temp-rename dance so case-insensitive filesystems (macOS, Windows)
// actually observe the case change (§4.9.1).
func performRename(fs afero.Fs, oldPath, newPath string, maxAttempts int) error {
	if oldPath == newPath {
		return nil
	}
	if isCaseOnlyRename(oldPath, newPath) && sameFileOnDisk(fs, oldPath, newPath) {
		return caseSafeRename(fs, oldPath, newPath, maxAttempts)
	}
	if err := fs.Rename(oldPath, newPath); err != nil {
		return fmt.Errorf("execute: rename %s -> %s: %w", oldPath, newPath, err)
	}
	return nil
}

func isCaseOnlyRename(oldPath, newPath string) bool {
	return oldPath != newPath && strings.EqualFold(oldPath, newPath)
}

// sameFileOnDisk confirms oldPath and newPath currently identify the same
// inode, the way the original implementation guards against a
// case-insensitive filesystem silently treating them as distinct entries.
// Filesystems that don't back onto *os.File (e.g. afero's in-memory fs
// used in tests) can't answer this via os.SameFile, so they're trusted
// at face value — case-only collisions there are exercised by the
// caller's own path comparison, not the OS.
func sameFileOnDisk(fs afero.Fs, oldPath, newPath string) bool {
	if _, ok := fs.(*afero.OsFs); !ok {
		return true
	}
	oldInfo, err := os.Stat(oldPath)
	if err != nil {
		return true
	}
	newInfo, err := os.Stat(newPath)
	if err != nil {
		return true
	}
	return os.SameFile(oldInfo, newInfo)
}

// caseSafeRename renames oldPath to a temporary name first, then to
// newPath, so a case-insensitive filesystem commits the case change
// instead of silently no-op'ing a direct oldPath->newPath rename. On
// failure after the first hop, it restores oldPath.
func caseSafeRename(fs afero.Fs, oldPath, newPath string, maxAttempts int) error {
	dir := filepath.Dir(oldPath)
	var tempPath string
	for n := 0; n < maxAttempts; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf(".renametmp-%d-%s", n, filepath.Base(oldPath)))
		if exists, _ := afero.Exists(fs, candidate); !exists {
			tempPath = candidate
			break
		}
	}
	if tempPath == "" {
		return fmt.Errorf("execute: no free temp name for case-only rename of %s", oldPath)
	}

	if err := fs.Rename(oldPath, tempPath); err != nil {
		return fmt.Errorf("execute: case-safe rename, stage 1: %w", err)
	}
	if err := fs.Rename(tempPath, newPath); err != nil {
		if restoreErr := fs.Rename(tempPath, oldPath); restoreErr != nil {
			return fmt.Errorf("execute: case-safe rename failed (%w) and restore failed (%v)", err, restoreErr)
		}
		return fmt.Errorf("execute: case-safe rename, stage 2: %w", err)
	}
	return nil
}
