// Package state implements the Rename State Manager (§4.11): holds the
// triple (preview, validation, execution) together with the inputs that
// produced them, and computes change flags on each update.
package state

import (
	"reflect"

	"github.com/renamecraft/renamectl/internal/execute"
	"github.com/renamecraft/renamectl/internal/previewmgr"
	"github.com/renamecraft/renamectl/internal/validationmgr"
)

// ChangeFlags reports which fields of the state actually moved on the
// most recent update, per §4.11 step 3's field-level comparison.
type ChangeFlags struct {
	PreviewChanged    bool
	ValidationChanged bool
	ExecutionChanged  bool
}

// Any reports whether any field changed.
func (c ChangeFlags) Any() bool {
	return c.PreviewChanged || c.ValidationChanged || c.ExecutionChanged
}

// State is the current snapshot held by the Manager.
type State struct {
	Preview    *previewmgr.Result
	Validation *validationmgr.Result
	Execution  *execute.Result
}

// Manager is the Rename State Manager. It is not safe for concurrent use
// from multiple goroutines (§5's "single-caller discipline"), matching
// the rest of the core's single-threaded contract.
type Manager struct {
	current  State
	previous State
}

// New returns a Manager holding the zero state.
func New() *Manager {
	return &Manager{}
}

// Current returns the current state.
func (m *Manager) Current() State {
	return m.current
}

// Previous returns the state as of before the most recent update.
func (m *Manager) Previous() State {
	return m.previous
}

// UpdatePreview stores a new preview result, per §4.11 steps 1-3.
func (m *Manager) UpdatePreview(result *previewmgr.Result) ChangeFlags {
	m.previous = m.current
	m.current.Preview = result
	return m.diff()
}

// UpdateValidation stores a new validation result.
func (m *Manager) UpdateValidation(result *validationmgr.Result) ChangeFlags {
	m.previous = m.current
	m.current.Validation = result
	return m.diff()
}

// UpdateExecution stores a new execution result.
func (m *Manager) UpdateExecution(result *execute.Result) ChangeFlags {
	m.previous = m.current
	m.current.Execution = result
	return m.diff()
}

func (m *Manager) diff() ChangeFlags {
	return ChangeFlags{
		PreviewChanged:    !reflect.DeepEqual(m.previous.Preview, m.current.Preview),
		ValidationChanged: !reflect.DeepEqual(m.previous.Validation, m.current.Validation),
		ExecutionChanged:  !reflect.DeepEqual(m.previous.Execution, m.current.Execution),
	}
}

// Reset clears both current and previous state, e.g. when a new batch of
// files is selected and no prior preview/validation/execution applies.
func (m *Manager) Reset() {
	m.previous = State{}
	m.current = State{}
}
