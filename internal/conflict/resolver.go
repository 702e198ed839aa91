// Package conflict implements the Conflict Resolver and Undo Stack
// (§4.9.2): strategies for resolving a target-already-exists conflict
// without a user prompt, plus a bounded undo/redo log of committed
// filesystem actions.
package conflict

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/renamecraft/renamectl/internal/fileref"
	"github.com/spf13/afero"
)

// Strategy selects how the Conflict Resolver resolves a collision.
type Strategy string

const (
	StrategyTimestamp Strategy = "timestamp"
	StrategyNumber    Strategy = "number"
	StrategySkip      Strategy = "skip"
	StrategyOverwrite Strategy = "overwrite"
)

// OperationKind distinguishes undo-log entry kinds.
type OperationKind string

const (
	OpRename    OperationKind = "rename"
	OpOverwrite OperationKind = "overwrite"
)

// Operation is an undo-log entry, grounded on the teacher's Backup struct
// shape (uuid-keyed, timestamped) but repurposed to record a single
// reversible filesystem action rather than a whole-file backup blob.
type Operation struct {
	ID          string
	Kind        OperationKind
	OldPath     string
	NewPath     string
	BackupPath  string // set only for OpOverwrite
	PerformedAt time.Time
}

// Pair is one (oldPath, targetPath) conflict operation, as consumed by
// the Engine Facade's resolve_conflicts_batch (§6.1).
type Pair struct {
	OldPath    string
	TargetPath string
}

// Resolution is the outcome of resolving one conflict.
type Resolution struct {
	Strategy   Strategy
	TargetPath string
	BackupPath string
	Skipped    bool
}

// DefaultUndoCapacity matches §3's invariant: "the undo stack never
// exceeds its configured capacity (default 100)".
const DefaultUndoCapacity = 100

// Resolver is the Conflict Resolver + Undo Stack.
type Resolver struct {
	Fs          afero.Fs
	BackupDir   string
	capacity    int
	undo        []Operation
	redo        []Operation
}

// New builds a Resolver. backupDir is where `overwrite` stashes replaced
// files before overwriting, per §6.5's "Persisted state owned by the
// core" note (default caller-configurable, e.g. ~/.renamectl/backups/).
func New(fs afero.Fs, backupDir string) *Resolver {
	return &Resolver{Fs: fs, BackupDir: backupDir, capacity: DefaultUndoCapacity}
}

// WithCapacity overrides the undo stack capacity.
func (r *Resolver) WithCapacity(capacity int) *Resolver {
	r.capacity = capacity
	return r
}

// Resolve resolves a conflict at targetPath using the given strategy,
// applying the filesystem side effect (copy-to-backup for overwrite) and
// pushing an undo entry when a filesystem action is taken.
func (r *Resolver) Resolve(strategy Strategy, oldPath, targetPath string) (Resolution, error) {
	switch strategy {
	case StrategySkip:
		return Resolution{Strategy: strategy, TargetPath: targetPath, Skipped: true}, nil

	case StrategyTimestamp:
		newTarget := suffixed(targetPath, fmt.Sprintf("_%d", time.Now().Unix()))
		return Resolution{Strategy: strategy, TargetPath: newTarget}, nil

	case StrategyNumber:
		newTarget, err := r.firstFreeNumberedName(targetPath)
		if err != nil {
			return Resolution{}, err
		}
		return Resolution{Strategy: strategy, TargetPath: newTarget}, nil

	case StrategyOverwrite:
		backupPath, err := r.backupBeforeOverwrite(targetPath)
		if err != nil {
			return Resolution{}, err
		}
		r.push(Operation{
			ID: uuid.New().String(), Kind: OpOverwrite,
			OldPath: oldPath, NewPath: targetPath,
			BackupPath: backupPath, PerformedAt: time.Now(),
		})
		return Resolution{Strategy: strategy, TargetPath: targetPath, BackupPath: backupPath}, nil

	default:
		return Resolution{}, fmt.Errorf("conflict: unknown strategy %q", strategy)
	}
}

func suffixed(path, suffix string) string {
	ext := filepath.Ext(path)
	stem := fileref.Stem(filepath.Base(path))
	return filepath.Join(filepath.Dir(path), stem+suffix+ext)
}

func (r *Resolver) firstFreeNumberedName(targetPath string) (string, error) {
	for n := 1; n <= 10000; n++ {
		candidate := suffixed(targetPath, fmt.Sprintf("_%d", n))
		_, err := r.Fs.Stat(candidate)
		if os.IsNotExist(err) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("conflict: no free numbered slot for %s", targetPath)
}

func (r *Resolver) backupBeforeOverwrite(targetPath string) (string, error) {
	exists, err := afero.Exists(r.Fs, targetPath)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", nil
	}

	if r.BackupDir != "" {
		if err := r.Fs.MkdirAll(r.BackupDir, 0o755); err != nil {
			return "", fmt.Errorf("conflict: creating backup dir: %w", err)
		}
	}

	backupName := fmt.Sprintf("%d_%s", time.Now().Unix(), filepath.Base(targetPath))
	backupPath := filepath.Join(r.BackupDir, backupName)

	content, err := afero.ReadFile(r.Fs, targetPath)
	if err != nil {
		return "", fmt.Errorf("conflict: reading file to back up: %w", err)
	}
	if err := afero.WriteFile(r.Fs, backupPath, content, 0o644); err != nil {
		return "", fmt.Errorf("conflict: writing backup: %w", err)
	}
	return backupPath, nil
}

// RecordRename pushes an undo-log entry for a plain rename that has
// already been committed by the Execution Manager.
func (r *Resolver) RecordRename(oldPath, newPath string) {
	r.push(Operation{ID: uuid.New().String(), Kind: OpRename, OldPath: oldPath, NewPath: newPath, PerformedAt: time.Now()})
}

// push appends to the undo stack, evicting the oldest entry over capacity
// and clearing the redo stack, per §3's invariant.
func (r *Resolver) push(op Operation) {
	r.undo = append(r.undo, op)
	if len(r.undo) > r.capacity {
		r.undo = r.undo[len(r.undo)-r.capacity:]
	}
	r.redo = nil
}

// UndoLast reverses the most recently committed operation, per §8 property
// 11: rename reverses by renaming back, overwrite restores from backup.
func (r *Resolver) UndoLast() (*Operation, error) {
	if len(r.undo) == 0 {
		return nil, nil
	}
	op := r.undo[len(r.undo)-1]
	r.undo = r.undo[:len(r.undo)-1]

	switch op.Kind {
	case OpRename:
		if err := r.Fs.Rename(op.NewPath, op.OldPath); err != nil {
			return nil, fmt.Errorf("conflict: undo rename: %w", err)
		}
	case OpOverwrite:
		if op.BackupPath != "" {
			content, err := afero.ReadFile(r.Fs, op.BackupPath)
			if err != nil {
				return nil, fmt.Errorf("conflict: undo overwrite, reading backup: %w", err)
			}
			if err := afero.WriteFile(r.Fs, op.NewPath, content, 0o644); err != nil {
				return nil, fmt.Errorf("conflict: undo overwrite, restoring: %w", err)
			}
		}
	}

	r.redo = append(r.redo, op)
	return &op, nil
}

// RedoLast repeats the most recently undone operation.
func (r *Resolver) RedoLast() (*Operation, error) {
	if len(r.redo) == 0 {
		return nil, nil
	}
	op := r.redo[len(r.redo)-1]
	r.redo = r.redo[:len(r.redo)-1]

	switch op.Kind {
	case OpRename:
		if err := r.Fs.Rename(op.OldPath, op.NewPath); err != nil {
			return nil, fmt.Errorf("conflict: redo rename: %w", err)
		}
	case OpOverwrite:
		// Re-applying an overwrite without the original replaced content
		// available would destroy data; redo of overwrite is intentionally
		// a no-op beyond bookkeeping.
	}

	r.undo = append(r.undo, op)
	return &op, nil
}

// ClearHistory empties both stacks.
func (r *Resolver) ClearHistory() {
	r.undo = nil
	r.redo = nil
}

// History returns the current undo stack, most recent last.
func (r *Resolver) History() []Operation {
	return append([]Operation(nil), r.undo...)
}
