// Package root wires renamectl's subcommands under one cobra root
// command, matching the teacher's root-command-plus-persistent-flags
// shape at a scale appropriate to a single-domain CLI.
package root

import (
	"github.com/renamecraft/renamectl/cmd/renamectl"
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command for renamectl.
func NewRootCommand() *cobra.Command {
	cmd := renamectl.NewCommand()
	cmd.PersistentFlags().Bool("verbose", false, "detailed output")
	cmd.PersistentFlags().Bool("quiet", false, "print errors as a bare message, without context or suggestions")
	return cmd
}
