package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/strudel-tools/orchestra/internal/browser"
	"github.com/strudel-tools/orchestra/internal/cli/config"
	"github.com/strudel-tools/orchestra/internal/cli/ui"
	"github.com/strudel-tools/orchestra/internal/logging"
	"github.com/strudel-tools/orchestra/internal/orchestrator"
)

var (
	compileTracksDir string
	compileOut       string
	compileFormat    string
	compileCheckOnly bool
	compileLogLevel  string
	compileLogDir    string
)

// NewCompileCommand creates the compile command
func NewCompileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Validate tracks and emit compilation artifacts",
		Long: `Validate all .strudel files in the tracks directory and emit artifacts.

The compile process:
  1. Discovery - enumerate .strudel sources
  2. Validation - front matter, metadata, and pattern heuristics
  3. Lint - run each pattern through the browser lint session
  4. Emission - write json/md/raw artifacts (skipped with --check-only)

Any validation or lint error aborts the whole batch before output is
written.`,
		Example: `  # Compile with defaults from orchestra.yml
  orchestra compile

  # Validate only, write nothing
  orchestra compile --check-only

  # Emit only the aggregate JSON
  orchestra compile --format json`,
		RunE: runCompile,
	}

	cmd.Flags().StringVar(&compileTracksDir, "tracks-dir", "", "Directory containing .strudel sources (default: tracks)")
	cmd.Flags().StringVarP(&compileOut, "out", "o", "", "Output directory for generated artifacts (default: dist)")
	cmd.Flags().StringVar(&compileFormat, "format", "", "Comma-separated artifact formats to emit (json, md, raw)")
	cmd.Flags().BoolVar(&compileCheckOnly, "check-only", false, "Run validations without writing output files")
	cmd.Flags().StringVar(&compileLogLevel, "log-level", "", "Logging verbosity (silent, error, warn, info, debug)")
	cmd.Flags().StringVar(&compileLogDir, "log-dir", "", "Directory for structured log files (default: logs)")

	return cmd
}

func runCompile(cmd *cobra.Command, args []string) error {
	startTime := time.Now()
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	settings := orchestrator.Settings{
		TracksDir: firstNonEmpty(compileTracksDir, cfg.TracksDir),
		OutDir:    firstNonEmpty(compileOut, cfg.OutDir),
		Formats:   splitList(compileFormat, cfg.Formats),
		CheckOnly: compileCheckOnly,
	}

	log, err := newRunLogger(cfg, compileLogLevel, compileLogDir, "compile")
	if err != nil {
		return err
	}
	defer log.Close()

	harness := filepath.Join(cfg.AssetsDir, "strudel_linter.html")
	factory := func(ctx context.Context) (orchestrator.LintSession, error) {
		return browser.NewSession(ctx, harness)
	}

	driver := orchestrator.NewDriver(settings, log, factory)
	report, err := driver.Compile(cmd.Context())
	if err != nil {
		if report != nil {
			ui.WriteReport(cmd.ErrOrStderr(), report, false)
		}
		color.New(color.FgRed, color.Bold).Fprintf(cmd.ErrOrStderr(), "✗ Compilation failed: %v\n", err)
		return fmt.Errorf("compilation failed")
	}

	elapsed := time.Since(startTime)
	color.New(color.FgGreen, color.Bold).Fprintf(cmd.OutOrStdout(), "✓ Compiled %d track(s) in %.2fs\n", len(report.Tracks), elapsed.Seconds())
	return nil
}

// newRunLogger builds a per-run logger honoring flag overrides over the
// loaded config.
func newRunLogger(cfg *config.Config, levelFlag, dirFlag, prefix string) (*logging.Logger, error) {
	logFile, err := logging.RunFile(firstNonEmpty(dirFlag, cfg.Log.Dir), prefix)
	if err != nil {
		return nil, err
	}
	return logging.New(logging.Config{
		Level:   firstNonEmpty(levelFlag, cfg.Log.Level),
		LogFile: logFile,
	})
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

// splitList parses a comma-separated flag value, falling back when the
// flag was not given.
func splitList(flag string, fallback []string) []string {
	if strings.TrimSpace(flag) == "" {
		return fallback
	}
	var parts []string
	for _, part := range strings.Split(flag, ",") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, strings.ToLower(part))
		}
	}
	if len(parts) == 0 {
		return fallback
	}
	return parts
}
