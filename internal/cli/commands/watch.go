package commands

import (
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/strudel-tools/orchestra/internal/cli/config"
	"github.com/strudel-tools/orchestra/internal/orchestrator"
)

var (
	watchTracksDir string
	watchLogLevel  string
	watchLogDir    string
)

// debounceWindow batches rapid editor save events into one recompile.
const debounceWindow = 100 * time.Millisecond

// NewWatchCommand creates the watch command
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-validate tracks whenever sources change",
		Long: `Watch the tracks directory and re-run a check-only compile after each
change batch. The browser lint stage is skipped in watch mode; run a full
compile before publishing.`,
		RunE: runWatch,
	}

	cmd.Flags().StringVar(&watchTracksDir, "tracks-dir", "", "Directory containing .strudel sources (default: tracks)")
	cmd.Flags().StringVar(&watchLogLevel, "log-level", "", "Logging verbosity (silent, error, warn, info, debug)")
	cmd.Flags().StringVar(&watchLogDir, "log-dir", "", "Directory for structured log files (default: logs)")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	tracksDir := firstNonEmpty(watchTracksDir, cfg.TracksDir)

	log, err := newRunLogger(cfg, watchLogLevel, watchLogDir, "watch")
	if err != nil {
		return err
	}
	defer log.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(tracksDir); err != nil {
		return err
	}
	log.Infow("watching for changes", "tracks_dir", tracksDir)

	settings := orchestrator.Settings{TracksDir: tracksDir, CheckOnly: true}
	recompile := func() {
		driver := orchestrator.NewDriver(settings, log, nil)
		if _, err := driver.Compile(cmd.Context()); err != nil {
			log.Errorw("check failed", "error", err)
		}
	}
	recompile()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	debounce := time.NewTimer(debounceWindow)
	if !debounce.Stop() {
		<-debounce.C
	}

	for {
		select {
		case <-ctx.Done():
			log.Infow("watch stopped")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(filepath.Base(event.Name), ".strudel") {
				continue
			}
			debounce.Reset(debounceWindow)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Errorw("watch error", "error", err)
		case <-debounce.C:
			recompile()
		}
	}
}
