package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Go0ners/Orphan-Sweeper/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "orphansweeper",
		Short: "Orphaned media file sweeper",
		Long: `orphansweeper finds video files in a source tree that have no
content-identical copy under one or more destination trees and removes them
safely. Equivalence is decided by sampled content fingerprints, so renamed or
moved copies are still recognized.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add global flags
	cli.AddGlobalFlags(rootCmd)

	// Add commands
	rootCmd.AddCommand(cli.NewSweepCommand())
	rootCmd.AddCommand(cli.NewCacheCommand())
	rootCmd.AddCommand(cli.NewVersionCommand())

	return rootCmd.Execute()
}
