package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/strudel-tools/orchestra/internal/orchestrator"
)

func TestFormatReport(t *testing.T) {
	report := &orchestrator.Report{
		Success: false,
		Tracks: []orchestrator.TrackReport{
			{
				Path:   "tracks/broken.strudel",
				Errors: []string{"YAML front matter block is required at top of file"},
			},
			{
				Path:     "tracks/night-drive.strudel",
				Slug:     "night-drive",
				Errors:   []string{},
				Warnings: []string{"`mood` is recommended to help downstream curation"},
			},
		},
	}

	out := FormatReport(report, true)

	assert.Contains(t, out, "✗ tracks/broken.strudel")
	assert.Contains(t, out, "error: YAML front matter block is required")
	assert.Contains(t, out, "✓ tracks/night-drive.strudel")
	assert.Contains(t, out, "warning: `mood`")
}

func TestFormatReportEmpty(t *testing.T) {
	out := FormatReport(&orchestrator.Report{Success: true, Tracks: []orchestrator.TrackReport{}}, true)
	assert.Empty(t, out)
}
