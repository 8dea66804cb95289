// Package commands wires the orchestra CLI.
package commands

import (
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "orchestra",
		Short: "Strudel track compiler and tooling",
		Long: color.CyanString(`Orchestra - Strudel track orchestrator

Orchestra validates and packages declarative Strudel tracks: YAML front
matter plus an executable pattern body, compiled into normalized build
artifacts.

Features:
  • Metadata and pattern-code validation with fail-fast gating
  • Headless-browser lint pass over pattern code
  • JSON, Markdown, and raw artifact emission
  • Audio bounces via the browser renderer and ffmpeg`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewInitCommand())
	rootCmd.AddCommand(NewCompileCommand())
	rootCmd.AddCommand(NewRenderCommand())
	rootCmd.AddCommand(NewSpliceCommand())
	rootCmd.AddCommand(NewWatchCommand())
	rootCmd.AddCommand(NewFetchCommand())

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("orchestra %s\n", Version)
			cmd.Printf("  commit:     %s\n", GitCommit)
			cmd.Printf("  built:      %s\n", BuildDate)
			cmd.Printf("  go version: %s\n", runtime.Version())
		},
	}
}
