package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/strudel-tools/orchestra/internal/audio"
	"github.com/strudel-tools/orchestra/internal/browser"
	"github.com/strudel-tools/orchestra/internal/cli/config"
	"github.com/strudel-tools/orchestra/internal/logging"
	"github.com/strudel-tools/orchestra/internal/orchestrator"
)

var (
	renderTracksDir string
	renderOut       string
	renderFormat    string
	renderDuration  float64
	renderWarmup    float64
	renderSlugs     []string
	renderLoop      int
	renderLogLevel  string
	renderLogDir    string
)

// renderer abstracts the browser session so renderAll stays testable
// without a running Chrome.
type renderer interface {
	Render(ctx context.Context, code string, durationMs, warmupMs int) ([]byte, error)
	Close() error
}

type renderOptions struct {
	tracksDir  string
	outDir     string
	formats    []string
	durationMs int
	warmupMs   int
	slugs      []string
	loop       int
}

// NewRenderCommand creates the render command
func NewRenderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Bounce Strudel patterns to audio files",
		Long: `Render validated tracks to audio through the browser session and
convert the captured webm with ffmpeg. Tracks with validation errors are
skipped with a logged diagnostic rather than aborting the batch.`,
		Example: `  # Render every track to wav and mp3
  orchestra render

  # Render one track, looped 4 times
  orchestra render --slug night-drive --loop 4`,
		RunE: runRender,
	}

	cmd.Flags().StringVar(&renderTracksDir, "tracks-dir", "", "Directory containing .strudel sources (default: tracks)")
	cmd.Flags().StringVarP(&renderOut, "out", "o", "", "Directory for rendered audio (default: audio)")
	cmd.Flags().StringVar(&renderFormat, "format", "", "Comma-separated audio formats to emit (wav, mp3, webm)")
	cmd.Flags().Float64Var(&renderDuration, "duration", 0, "Capture duration in seconds after warmup (default: 8)")
	cmd.Flags().Float64Var(&renderWarmup, "warmup", 0, "Warmup time in seconds before recording (default: 4)")
	cmd.Flags().StringArrayVar(&renderSlugs, "slug", nil, "Render only specific track slugs (repeatable)")
	cmd.Flags().IntVar(&renderLoop, "loop", 0, "Repeat each bounce N times via ffmpeg")
	cmd.Flags().StringVar(&renderLogLevel, "log-level", "", "Logging verbosity (silent, error, warn, info, debug)")
	cmd.Flags().StringVar(&renderLogDir, "log-dir", "", "Directory for render logs (default: logs)")

	return cmd
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	duration := renderDuration
	if duration == 0 {
		duration = cfg.Render.Duration
	}
	warmup := renderWarmup
	if warmup == 0 {
		warmup = cfg.Render.Warmup
	}

	opts := renderOptions{
		tracksDir:  firstNonEmpty(renderTracksDir, cfg.TracksDir),
		outDir:     firstNonEmpty(renderOut, cfg.Render.OutDir),
		formats:    splitList(renderFormat, cfg.Render.Formats),
		durationMs: int(duration * 1000),
		warmupMs:   int(warmup * 1000),
		slugs:      renderSlugs,
		loop:       renderLoop,
	}

	log, err := newRunLogger(cfg, renderLogLevel, renderLogDir, "render")
	if err != nil {
		return err
	}
	defer log.Close()

	session, err := browser.NewSession(cmd.Context(), filepath.Join(cfg.AssetsDir, "strudel_renderer.html"))
	if err != nil {
		log.Errorw("failed to start render session", "error", err)
		return err
	}
	defer session.Close()

	count, err := renderAll(cmd.Context(), opts, log, session)
	if err != nil {
		return err
	}

	color.New(color.FgGreen, color.Bold).Fprintf(cmd.OutOrStdout(), "✓ Rendered %d track(s)\n", count)
	return nil
}

// renderAll loads and filters tracks, bounces each eligible one through
// the session, and converts the captured audio.
func renderAll(ctx context.Context, opts renderOptions, log *logging.Logger, session renderer) (int, error) {
	wanted := make(map[string]bool, len(opts.slugs))
	for _, slug := range opts.slugs {
		if slug = strings.TrimSpace(slug); slug != "" {
			wanted[slug] = true
		}
	}

	paths, err := filepath.Glob(filepath.Join(opts.tracksDir, "*.strudel"))
	if err != nil {
		return 0, fmt.Errorf("failed to discover tracks: %w", err)
	}
	sort.Strings(paths)
	if len(paths) == 0 {
		log.Warnw("no .strudel tracks found for rendering", "tracks_dir", opts.tracksDir)
		return 0, nil
	}

	var eligible []*orchestrator.TrackArtifact
	for _, path := range paths {
		artifact, err := orchestrator.LoadTrack(path)
		if err != nil {
			return 0, err
		}
		if len(wanted) > 0 && !wanted[artifact.Slug()] {
			continue
		}
		if len(artifact.Errors) > 0 {
			log.Errorw("track contains validation errors; skipping audio render", "path", path, "errors", artifact.Errors)
			continue
		}
		if len(artifact.Warnings) > 0 {
			log.Warnw("track has validation warnings", "path", path, "warnings", artifact.Warnings)
		}
		eligible = append(eligible, artifact)
	}

	if len(eligible) == 0 {
		log.Warnw("no eligible tracks to render")
		return 0, nil
	}

	if err := os.MkdirAll(opts.outDir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create render output directory: %w", err)
	}

	total := 0
	for _, artifact := range eligible {
		log.Infow("rendering audio", "slug", artifact.Slug(), "duration_ms", opts.durationMs)
		bounce, err := session.Render(ctx, artifact.Code, opts.durationMs, opts.warmupMs)
		if err != nil {
			return total, fmt.Errorf("failed to render %s: %w", artifact.Slug(), err)
		}

		webmPath := filepath.Join(opts.outDir, artifact.Slug()+".webm")
		if err := os.WriteFile(webmPath, bounce, 0644); err != nil {
			return total, fmt.Errorf("failed to write %s: %w", webmPath, err)
		}

		if opts.loop > 1 {
			looped := filepath.Join(opts.outDir, fmt.Sprintf("%s-x%d.webm", artifact.Slug(), opts.loop))
			if err := audio.Loop(webmPath, opts.loop, looped); err != nil {
				return total, err
			}
		}

		if err := convertBounce(webmPath, opts.formats, log); err != nil {
			return total, err
		}
		total++
	}

	log.Infow("rendered tracks", "count", total)
	return total, nil
}

func convertBounce(webmPath string, formats []string, log *logging.Logger) error {
	for _, format := range formats {
		format = strings.ToLower(strings.TrimSpace(format))
		if format == "" || format == "webm" {
			continue // already produced
		}
		if !audio.ConvertFormats[format] {
			log.Warnw("unsupported audio format requested; skipping", "format", format)
			continue
		}
		output, err := audio.Convert(webmPath, format)
		if err != nil {
			log.Errorw("ffmpeg conversion failed", "input", webmPath, "format", format, "error", err)
			return err
		}
		log.Debugw("converted audio", "output", output)
	}
	return nil
}
