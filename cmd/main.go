package main

import (
	"fmt"

	"github.com/renamecraft/renamectl/cmd/root"
	"github.com/renamecraft/renamectl/internal/cli"
)

// Build-time variables set by goreleaser
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	// Set version information
	rootCmd := root.NewRootCommand()
	rootCmd.Version = buildVersion()
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	if err := rootCmd.Execute(); err != nil {
		cli.HandleError(rootCmd, err)
	}
}

func buildVersion() string {
	if version == "dev" {
		return "dev (built from source)"
	}

	return fmt.Sprintf("%s\ncommit: %s\nbuilt at: %s\nbuilt by: %s", version, commit, date, builtBy)
}
