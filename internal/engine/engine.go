// Package engine implements the Rename Engine Facade (§6.1): the single
// entry point wiring the Preview Manager, Validation Manager, Execution
// Manager, Batch Query Provider, Conflict Resolver and Rename State
// Manager into the five synchronous surfaces the spec describes.
package engine

import (
	"github.com/renamecraft/renamectl/internal/conflict"
	"github.com/renamecraft/renamectl/internal/execute"
	"github.com/renamecraft/renamectl/internal/fileref"
	"github.com/renamecraft/renamectl/internal/modules"
	"github.com/renamecraft/renamectl/internal/pipeline"
	"github.com/renamecraft/renamectl/internal/preexec"
	"github.com/renamecraft/renamectl/internal/previewmgr"
	"github.com/renamecraft/renamectl/internal/query"
	"github.com/renamecraft/renamectl/internal/state"
	"github.com/renamecraft/renamectl/internal/validationmgr"
	"github.com/spf13/afero"
)

// Engine is the Rename Engine Facade. All methods are synchronous and
// expect single-caller discipline (§5): nothing here is safe to call
// concurrently from multiple goroutines against the same Engine.
type Engine struct {
	Preview    *previewmgr.Manager
	Validation *validationmgr.Manager
	Execution  *execute.Manager
	Query      *query.Provider
	Resolver   *conflict.Resolver
	State      *state.Manager
}

// New wires the facade together. fs is the filesystem the Execution
// Manager commits renames against; backupDir is where the Conflict
// Resolver's `overwrite` strategy stashes replaced files.
func New(fs afero.Fs, hashes query.HashStore, metadata query.MetadataStore, algorithm, backupDir string) *Engine {
	provider := query.NewProvider(hashes, metadata, algorithm)
	resolver := conflict.New(fs, backupDir)
	execMgr := execute.New(fs, resolver)
	execMgr.Validator = preexec.New(fs)

	return &Engine{
		Preview:    previewmgr.New(provider, nil),
		Validation: validationmgr.New(),
		Execution:  execMgr,
		Query:      provider,
		Resolver:   resolver,
		State:      state.New(),
	}
}

// GeneratePreview implements §6.1's generate_preview.
func (e *Engine) GeneratePreview(files []*fileref.FileRef, modulesData []modules.Config, post pipeline.PostTransformConfig) previewmgr.Result {
	result := e.Preview.GeneratePreview(files, modulesData, post)
	e.State.UpdatePreview(&result)
	return result
}

// ValidatePreview implements §6.1's validate_preview.
func (e *Engine) ValidatePreview(pairs []previewmgr.NamePair) validationmgr.Result {
	result := e.Validation.Validate(pairs)
	e.State.UpdateValidation(&result)
	return result
}

// ExecuteRename implements §6.1's execute_rename: builds the execution
// plan (including companion renames) and commits it, updating state.
func (e *Engine) ExecuteRename(files []*fileref.FileRef, newNames map[string]string, folderFilesByDir map[string][]*fileref.FileRef, onConflict execute.ConflictCallback) *execute.Result {
	items := e.Execution.BuildPlan(files, newNames, folderFilesByDir)
	result := e.Execution.Execute(items, onConflict)
	e.State.UpdateExecution(result)
	return result
}

// GetCurrentState implements §6.1's get_current_state.
func (e *Engine) GetCurrentState() state.State {
	return e.State.Current()
}

// ClearCache clears the Preview Manager's cache only.
func (e *Engine) ClearCache() {
	e.Preview.ClearCache()
}

// ClearAllCaches clears the Preview Manager's result cache and the
// pipeline applier's module-level memoization that ClearCache leaves alone.
// The Validation Manager's cache is not cleared; its entries expire with
// their TTL.
func (e *Engine) ClearAllCaches() {
	e.Preview.ClearAllCaches()
}

// GetHashAvailability implements §6.1's get_hash_availability.
func (e *Engine) GetHashAvailability(files []*fileref.FileRef) map[string]bool {
	return e.Query.HashAvailability(files)
}

// GetMetadataAvailability implements §6.1's get_metadata_availability.
func (e *Engine) GetMetadataAvailability(files []*fileref.FileRef) map[string]bool {
	return e.Query.MetadataAvailability(files)
}

// UndoLastOperation implements §6.1's undo_last_operation.
func (e *Engine) UndoLastOperation() (*conflict.Operation, error) {
	return e.Resolver.UndoLast()
}

// ClearConflictHistory implements §6.1's clear_conflict_history.
func (e *Engine) ClearConflictHistory() {
	e.Resolver.ClearHistory()
}

// FileProcessor is one unit of work for BatchProcessFiles.
type FileProcessor func(f *fileref.FileRef) (any, error)

// BatchProcessFiles implements §6.1's batch_process_files: applies
// processor to each file in order, collecting results positionally. A
// processor error for one file does not stop the batch; its slot holds
// the error instead of a value.
func BatchProcessFiles(files []*fileref.FileRef, processor FileProcessor) []any {
	results := make([]any, len(files))
	for i, f := range files {
		value, err := processor(f)
		if err != nil {
			results[i] = err
			continue
		}
		results[i] = value
	}
	return results
}

// ResolveConflictsBatch implements §6.1's resolve_conflicts_batch: applies
// one strategy across many (oldPath, targetPath) operations.
func (e *Engine) ResolveConflictsBatch(operations []conflict.Pair, strategy conflict.Strategy) []conflict.Resolution {
	results := make([]conflict.Resolution, 0, len(operations))
	for _, op := range operations {
		res, err := e.Resolver.Resolve(strategy, op.OldPath, op.TargetPath)
		if err != nil {
			res = conflict.Resolution{Strategy: strategy, TargetPath: op.TargetPath}
		}
		results = append(results, res)
	}
	return results
}
