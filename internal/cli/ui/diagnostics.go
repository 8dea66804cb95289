// Package ui formats pipeline diagnostics for terminal output.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/strudel-tools/orchestra/internal/orchestrator"
)

// FormatReport renders the per-track outcome of a compilation run.
//
// Example output:
//
//	✗ tracks/broken.strudel
//	    error: YAML front matter block is required at top of file
//	✓ tracks/night-drive.strudel
//	    warning: `mood` is recommended to help downstream curation
func FormatReport(report *orchestrator.Report, noColor bool) string {
	failColor := color.New(color.FgRed, color.Bold)
	okColor := color.New(color.FgGreen)
	errColor := color.New(color.FgRed)
	warnColor := color.New(color.FgYellow)
	if noColor {
		failColor.DisableColor()
		okColor.DisableColor()
		errColor.DisableColor()
		warnColor.DisableColor()
	}

	var b strings.Builder
	for _, track := range report.Tracks {
		if len(track.Errors) > 0 {
			failColor.Fprintf(&b, "✗ %s\n", track.Path)
		} else {
			okColor.Fprintf(&b, "✓ %s\n", track.Path)
		}
		for _, message := range track.Errors {
			errColor.Fprintf(&b, "    error: %s\n", message)
		}
		for _, message := range track.Warnings {
			warnColor.Fprintf(&b, "    warning: %s\n", message)
		}
	}
	return b.String()
}

// WriteReport writes a formatted report to the writer
func WriteReport(w io.Writer, report *orchestrator.Report, noColor bool) {
	fmt.Fprint(w, FormatReport(report, noColor))
}
