// Package renamectl implements the CLI surface SPEC_FULL §10 describes:
// a thin command that accepts a JSON spec of (files, pipeline,
// post_transform) on stdin and emits a JSON PreviewResult or
// ExecutionResult — the core itself has no CLI opinion beyond this.
package renamectl

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/renamecraft/renamectl/internal/companion"
	"github.com/renamecraft/renamectl/internal/conflict"
	"github.com/renamecraft/renamectl/internal/engine"
	"github.com/renamecraft/renamectl/internal/execute"
	"github.com/renamecraft/renamectl/internal/fileref"
	"github.com/renamecraft/renamectl/internal/filenamevalidate"
	"github.com/renamecraft/renamectl/internal/modules"
	"github.com/renamecraft/renamectl/internal/pipeline"
	"github.com/renamecraft/renamectl/internal/previewmgr"
	"github.com/renamecraft/renamectl/internal/renameconfig"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// NewCommand builds the `renamectl` root command with its preview,
// validate, execute and undo subcommands.
func NewCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "renamectl",
		Short: "Batch file rename engine",
		Long: `renamectl previews, validates and executes batch file renames
driven by a pipeline of name-fragment modules. Each subcommand reads a
JSON request from stdin and writes a JSON result to stdout.`,
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (not read: renamectl.yaml is loaded from ., ~ or /etc/renamectl)")

	cmd.AddCommand(newPreviewCommand())
	cmd.AddCommand(newValidateCommand())
	cmd.AddCommand(newExecuteCommand())
	cmd.AddCommand(newUndoCommand())
	cmd.AddCommand(newConfigShowCommand())
	return cmd
}

func loadConfig() *renameconfig.Config {
	cfg, err := renameconfig.NewLoader().Load()
	if err != nil {
		return renameconfig.Default()
	}
	return cfg
}

// newEngine wires an Engine with the fully resolved configuration (file,
// environment and defaults merged by loadConfig): cache/undo sizing,
// filename-validation overrides, execution tuning and companion pattern
// overrides all flow from the same cfg that backupDir came from, rather
// than leaving them at New's bare defaults.
func newEngine() *engine.Engine {
	cfg := loadConfig()
	e := engine.New(afero.NewOsFs(), nil, nil, "", cfg.Execution.BackupDir)

	if cfg.Engine.UndoCapacity > 0 {
		e.Resolver.WithCapacity(cfg.Engine.UndoCapacity)
	}
	if ttl := cfg.Engine.PreviewCacheTTL(); ttl > 0 {
		e.Preview.WithTTL(ttl)
	}
	if ttl := cfg.Engine.ValidationCacheTTL(); ttl > 0 {
		e.Validation.WithTTL(ttl)
	}
	filenamevalidate.Configure(cfg.Validation.ExtraReservedNames, cfg.Validation.ExtraInvalidChars)

	e.Execution.IncludeCompanions = cfg.Execution.IncludeCompanions
	if cfg.Execution.CaseRenameMaxAttempts > 0 {
		e.Execution.CaseRenameMaxAttempts = cfg.Execution.CaseRenameMaxAttempts
	}
	if e.Execution.Validator != nil {
		e.Execution.Validator.CheckHash = cfg.Execution.HashDriftCheck
		if cfg.Execution.MaxParallelism > 0 {
			e.Execution.Validator.MaxParallelism = cfg.Execution.MaxParallelism
		}
	}

	if cfg.Companions.Enabled {
		if err := companion.RegisterExtraPatterns(cfg.Companions.ExtraPatterns); err != nil {
			fmt.Fprintf(os.Stderr, "renamectl: ignoring invalid companion pattern override: %v\n", err)
		}
	}

	return e
}

// previewRequest is the JSON request body for `renamectl preview`.
type previewRequest struct {
	Files         []*fileref.FileRef         `json:"files"`
	Modules       []modules.Config           `json:"modules"`
	PostTransform pipeline.PostTransformConfig `json:"post_transform"`
}

func newPreviewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "Generate a rename preview from a JSON request on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			var req previewRequest
			if err := decodeJSON(cmd.InOrStdin(), &req); err != nil {
				return err
			}
			e := newEngine()
			result := e.GeneratePreview(req.Files, req.Modules, req.PostTransform)
			return encodeJSON(cmd.OutOrStdout(), result)
		},
	}
}

// validateRequest is the JSON request body for `renamectl validate`.
type validateRequest struct {
	NamePairs []previewmgr.NamePair `json:"name_pairs"`
}

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate name pairs from a JSON request on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			var req validateRequest
			if err := decodeJSON(cmd.InOrStdin(), &req); err != nil {
				return err
			}
			e := newEngine()
			result := e.ValidatePreview(req.NamePairs)
			return encodeJSON(cmd.OutOrStdout(), result)
		},
	}
}

// executeRequest is the JSON request body for `renamectl execute`.
type executeRequest struct {
	Files            []*fileref.FileRef              `json:"files"`
	NewNames         map[string]string               `json:"new_names"`
	FolderFilesByDir map[string][]*fileref.FileRef   `json:"folder_files_by_dir,omitempty"`
	OnConflict       string                          `json:"on_conflict,omitempty"` // fixed decision applied to every conflict when set
}

func newExecuteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "execute",
		Short: "Execute a batch rename from a JSON request on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			var req executeRequest
			if err := decodeJSON(cmd.InOrStdin(), &req); err != nil {
				return err
			}
			e := newEngine()

			var onConflict execute.ConflictCallback
			if req.OnConflict != "" {
				decision := execute.Decision(req.OnConflict)
				onConflict = func(item *execute.Item) execute.Decision { return decision }
			}

			result := e.ExecuteRename(req.Files, req.NewNames, req.FolderFilesByDir, onConflict)
			return encodeJSON(cmd.OutOrStdout(), result)
		},
	}
}

func newUndoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Undo the most recently committed rename or overwrite",
		RunE: func(cmd *cobra.Command, args []string) error {
			e := newEngine()
			op, err := e.UndoLastOperation()
			if err != nil {
				return fmt.Errorf("renamectl undo: %w", err)
			}
			return encodeJSON(cmd.OutOrStdout(), struct {
				Operation *conflict.Operation `json:"operation"`
			}{op})
		},
	}
}

func newConfigShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config-show",
		Short: "Print the resolved configuration (defaults, file, and env merged) as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			data, err := cfg.YAML()
			if err != nil {
				return fmt.Errorf("renamectl config-show: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	return cmd
}

func decodeJSON(r io.Reader, v any) error {
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("renamectl: decoding request: %w", err)
	}
	return nil
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("renamectl: encoding response: %w", err)
	}
	return nil
}
