package cli

import (
	"os"

	"github.com/renamecraft/renamectl/internal/errors"
	"github.com/spf13/cobra"
)

// HandleError processes errors consistently across all commands
func HandleError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")

	errorHandler := errors.NewErrorHandler(verbose, quiet)
	errorMessage := errorHandler.Handle(err)

	cmd.PrintErrln(errorMessage)

	os.Exit(errors.ExitCode(err))
}

// WithErrorHandling wraps a command function with consistent error handling
func WithErrorHandling(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		if err := fn(cmd, args); err != nil {
			HandleError(cmd, err)
		}
	}
}

// CommonErrorSuggestions provides suggestions for common error scenarios
type CommonErrorSuggestions struct{}

// ForFileOperation suggests solutions for file operation errors
func (s CommonErrorSuggestions) ForFileOperation(operation, file string, err error) string {
	switch operation {
	case "preview":
		return "Check that the file list in the request is well-formed and every path exists. Preview does not run the pre-execution check; `renamectl execute` reports the files that fail it."
	case "validate":
		return "Ensure every entry in name_pairs has both old_name and new_name set; validation only checks intrinsic validity and duplicates, not filesystem state."
	case "execute":
		return "Ensure you have write permissions for the target directory and sufficient disk space. Consider configuring a backup_dir so overwrites are reversible."
	default:
		return "Use --help to see available options, or --verbose for more detailed output."
	}
}

// ForValidationOperation suggests solutions for validation errors
func (s CommonErrorSuggestions) ForValidationOperation(field, expectedType string) string {
	switch expectedType {
	case "date":
		return "Use ISO date format (YYYY-MM-DD) for metadata date fields referenced by a metadata module."
	case "number":
		return "Counter start/step/padding must be numeric."
	case "boolean":
		return "Use true or false without quotes for case_sensitive, greeklish, and similar flags."
	default:
		return "Check the field format in your JSON request. Use 'renamectl --help' for more information."
	}
}

// ForConfigOperation suggests solutions for configuration errors
func (s CommonErrorSuggestions) ForConfigOperation(configFile string) string {
	return "Check renamectl.yaml for syntax errors and ensure engine/execution/validation/companions sections use valid keys."
}

// ForConflictOperation suggests solutions for execution conflicts
func (s CommonErrorSuggestions) ForConflictOperation(strategy string) string {
	switch strategy {
	case "rename":
		return "The conflict resolver ran out of free numbered slots (up to 10000 attempts); clean up the target directory or choose a different strategy."
	case "overwrite":
		return "Overwrite failed while staging the backup copy; check backup_dir is writable."
	default:
		return "Pass on_conflict as one of skip, skip_all, overwrite, rename, or cancel."
	}
}
