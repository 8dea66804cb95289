// Package orchestrator implements the Strudel track compilation pipeline:
// discovery, loading, validation, lint gating, and artifact emission.
package orchestrator

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/strudel-tools/orchestra/internal/logging"
)

// Settings configures one compilation run.
type Settings struct {
	TracksDir string
	OutDir    string
	Formats   []string
	CheckOnly bool
}

// LintResult is the outcome of linting one pattern body.
type LintResult struct {
	OK      bool
	Message string
}

// LintSession executes untrusted pattern code in an isolated environment
// and reports pass/fail. A session holds a single automation context and
// is not safe for concurrent use; the driver issues lint calls one at a
// time in artifact order.
type LintSession interface {
	Lint(ctx context.Context, code string) (LintResult, error)
	Close() error
}

// SessionFactory acquires a lint session. The driver calls it at most
// once per run and always closes the result. A factory error is fatal to
// the whole run.
type SessionFactory func(ctx context.Context) (LintSession, error)

// Report is the terminal record of one run, appended to the log sink
// exactly once regardless of which gate ended the run.
type Report struct {
	Timestamp string        `json:"timestamp"`
	RunID     string        `json:"run_id"`
	Success   bool          `json:"success"`
	Tracks    []TrackReport `json:"tracks"`
}

// TrackReport summarizes one track in the run report.
type TrackReport struct {
	Slug     string   `json:"slug"`
	Path     string   `json:"path"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Driver runs the compilation state machine: discover, load, structural
// gate, lint, lint gate, write (unless check-only), report. Both gates
// are all-or-nothing: a single failing track aborts the batch before any
// output is produced.
type Driver struct {
	settings   Settings
	log        *logging.Logger
	newSession SessionFactory
}

// NewDriver wires a driver from explicit collaborators. newSession may be
// nil, in which case the lint stage is skipped (used by watch mode and
// tests that exercise only local validation).
func NewDriver(settings Settings, log *logging.Logger, newSession SessionFactory) *Driver {
	return &Driver{settings: settings, log: log, newSession: newSession}
}

// Compile executes one run. The returned report is always non-nil and
// has been appended to the log sink; err != nil means the run aborted
// (validation, lint, session, I/O, or configuration failure).
func (d *Driver) Compile(ctx context.Context) (rep *Report, err error) {
	runID := uuid.NewString()
	var artifacts []*TrackArtifact
	success := false
	defer func() {
		rep = buildReport(runID, artifacts, success)
		if aerr := d.log.AppendReport(rep); aerr != nil {
			d.log.Warnw("failed to append run report", "error", aerr)
		}
	}()

	d.log.Infow("starting compilation",
		"run_id", runID,
		"tracks_dir", d.settings.TracksDir,
		"formats", d.settings.Formats,
		"check_only", d.settings.CheckOnly,
	)

	paths, err := filepath.Glob(filepath.Join(d.settings.TracksDir, "*.strudel"))
	if err != nil {
		return nil, fmt.Errorf("failed to discover tracks: %w", err)
	}
	sort.Strings(paths)
	if len(paths) == 0 {
		d.log.Warnw("no .strudel files discovered", "tracks_dir", d.settings.TracksDir)
	}

	var failed []string
	for _, path := range paths {
		artifact, loadErr := LoadTrack(path)
		if loadErr != nil {
			return nil, loadErr
		}
		artifacts = append(artifacts, artifact)
		switch {
		case len(artifact.Errors) > 0:
			d.log.Errorw("validation failed", "path", path, "errors", artifact.Errors)
			failed = append(failed, path)
		case len(artifact.Warnings) > 0:
			d.log.Warnw("validation warnings", "path", path, "warnings", artifact.Warnings)
		default:
			d.log.Infow("track OK", "path", path)
		}
	}

	if len(failed) > 0 {
		d.log.Errorw("compilation aborted due to validation errors", "failed_tracks", failed)
		return nil, fmt.Errorf("validation failed for %d track(s)", len(failed))
	}

	failures, err := d.lintAll(ctx, artifacts)
	if err != nil {
		d.log.Errorw("lint session unavailable", "error", err)
		return nil, err
	}
	if len(failures) > 0 {
		var failedPaths []string
		for _, artifact := range artifacts {
			message, ok := failures[artifact.Path]
			if !ok {
				continue
			}
			artifact.LintError = message
			artifact.Errors = append(artifact.Errors, "lint failed: "+message)
			failedPaths = append(failedPaths, artifact.Path)
		}
		d.log.Errorw("compilation aborted due to lint errors", "failed_tracks", failedPaths)
		return nil, fmt.Errorf("lint failed for %d track(s)", len(failedPaths))
	}

	if d.settings.CheckOnly {
		d.log.Infow("check-only mode: outputs not written")
	} else {
		if writeErr := WriteArtifacts(artifacts, d.settings.OutDir, d.settings.Formats); writeErr != nil {
			d.log.Errorw("failed to write artifacts", "error", writeErr)
			return nil, writeErr
		}
		d.log.Infow("artifacts written", "out_dir", d.settings.OutDir, "formats", d.settings.Formats)
	}

	success = true
	warned := 0
	for _, artifact := range artifacts {
		if len(artifact.Warnings) > 0 {
			warned++
		}
	}
	d.log.Infow("compilation complete", "tracks", len(artifacts), "tracks_with_warnings", warned)
	return nil, nil
}

// lintAll runs every non-empty pattern body through one lint session and
// returns failing paths mapped to messages. Per-track session errors are
// recorded as that track's failure; only session acquisition errors are
// returned.
func (d *Driver) lintAll(ctx context.Context, artifacts []*TrackArtifact) (map[string]string, error) {
	var pending []*TrackArtifact
	for _, artifact := range artifacts {
		if strings.TrimSpace(artifact.Code) != "" {
			pending = append(pending, artifact)
		}
	}
	if len(pending) == 0 || d.newSession == nil {
		return nil, nil
	}

	session, err := d.newSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start lint session: %w", err)
	}
	defer session.Close()

	failures := make(map[string]string)
	for _, artifact := range pending {
		result, lintErr := session.Lint(ctx, artifact.Code)
		if lintErr != nil {
			failures[artifact.Path] = lintErr.Error()
			continue
		}
		if !result.OK {
			message := result.Message
			if message == "" {
				message = "unknown lint error"
			}
			failures[artifact.Path] = message
		}
	}
	return failures, nil
}

func buildReport(runID string, artifacts []*TrackArtifact, success bool) *Report {
	report := &Report{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RunID:     runID,
		Success:   success,
		Tracks:    []TrackReport{},
	}
	for _, artifact := range artifacts {
		report.Tracks = append(report.Tracks, TrackReport{
			Slug:     artifact.Slug(),
			Path:     artifact.Path,
			Errors:   artifact.Errors,
			Warnings: artifact.Warnings,
		})
	}
	return report
}
