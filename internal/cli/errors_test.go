package cli

import (
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func newTestCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().Bool("verbose", false, "")
	cmd.Flags().Bool("quiet", false, "")
	return cmd
}

func TestWithErrorHandling_NoErrorRunsCleanly(t *testing.T) {
	called := false
	wrapped := WithErrorHandling(func(cmd *cobra.Command, args []string) error {
		called = true
		return nil
	})

	wrapped(newTestCommand(), nil)
	assert.True(t, called)
}

func TestCommonErrorSuggestions_ForFileOperation(t *testing.T) {
	s := CommonErrorSuggestions{}

	assert.Contains(t, s.ForFileOperation("preview", "a.txt", errors.New("x")), "pre-execution check")
	assert.Contains(t, s.ForFileOperation("validate", "a.txt", errors.New("x")), "name_pairs")
	assert.Contains(t, s.ForFileOperation("execute", "a.txt", errors.New("x")), "backup_dir")
	assert.Contains(t, s.ForFileOperation("unknown", "a.txt", errors.New("x")), "--help")
}

func TestCommonErrorSuggestions_ForValidationOperation(t *testing.T) {
	s := CommonErrorSuggestions{}

	assert.Contains(t, s.ForValidationOperation("created", "date"), "ISO date format")
	assert.Contains(t, s.ForValidationOperation("start", "number"), "numeric")
	assert.Contains(t, s.ForValidationOperation("case_sensitive", "boolean"), "true or false")
	assert.Contains(t, s.ForValidationOperation("field", "unknown"), "JSON request")
}

func TestCommonErrorSuggestions_ForConfigOperation(t *testing.T) {
	s := CommonErrorSuggestions{}
	assert.Contains(t, s.ForConfigOperation("renamectl.yaml"), "renamectl.yaml")
}

func TestCommonErrorSuggestions_ForConflictOperation(t *testing.T) {
	s := CommonErrorSuggestions{}

	assert.Contains(t, s.ForConflictOperation("rename"), "numbered slots")
	assert.Contains(t, s.ForConflictOperation("overwrite"), "backup_dir")
	assert.Contains(t, s.ForConflictOperation("skip"), "on_conflict")
}
