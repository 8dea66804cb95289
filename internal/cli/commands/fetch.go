package commands

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	fetchRepoURL string
	fetchDest    string
	fetchSparse  []string
	fetchInclude []string
	fetchForce   bool
)

// NewFetchCommand creates the fetch-strudel command
func NewFetchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch-strudel",
		Short: "Sparse-clone the Strudel repo into vendor/ for local inspection",
		RunE:  runFetch,
	}

	cmd.Flags().StringVar(&fetchRepoURL, "repo-url", "https://codeberg.org/uzu/strudel.git", "Git URL of the Strudel repository")
	cmd.Flags().StringVar(&fetchDest, "dest", "vendor/strudel", "Destination directory for the clone")
	cmd.Flags().StringArrayVar(&fetchSparse, "sparse", []string{"packages/web", "packages/repl", "docs", "examples"}, "Sparse-checkout directories to include (repeatable)")
	cmd.Flags().StringArrayVar(&fetchInclude, "include", []string{"README.md"}, "Additional top-level files to include (repeatable)")
	cmd.Flags().BoolVar(&fetchForce, "force", false, "Remove existing destination before cloning")

	return cmd
}

func runFetch(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(fetchDest); err == nil && fetchForce {
		if err := os.RemoveAll(fetchDest); err != nil {
			return fmt.Errorf("failed to remove existing destination: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(fetchDest), 0755); err != nil {
		return fmt.Errorf("failed to create destination parent: %w", err)
	}

	if err := runGit("", []string{"clone", "--depth", "1", "--filter=blob:none", "--sparse", fetchRepoURL, fetchDest}); err != nil {
		return err
	}

	if err := runGit(fetchDest, []string{"sparse-checkout", "set", "--cone"}); err != nil {
		return err
	}
	if len(fetchSparse) > 0 {
		if err := runGit(fetchDest, append([]string{"sparse-checkout", "set"}, fetchSparse...)); err != nil {
			return err
		}
	}
	for _, include := range fetchInclude {
		if err := runGit(fetchDest, []string{"sparse-checkout", "add", "--skip-checks", include}); err != nil {
			return err
		}
	}

	color.New(color.FgGreen, color.Bold).Fprintf(cmd.OutOrStdout(), "✓ Strudel repository fetched into %s\n", fetchDest)
	return nil
}

func runGit(dir string, args []string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git %s failed: %w: %s", args[0], err, string(output))
	}
	return nil
}
