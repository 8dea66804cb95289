// Package audio shells out to ffmpeg for format conversion and splicing
// of rendered bounces. ffmpeg is treated as a black box; only command
// construction lives here.
package audio

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ConvertFormats enumerates the conversion targets ffmpeg is asked for.
var ConvertFormats = map[string]bool{"wav": true, "mp3": true}

// runFFmpeg executes ffmpeg with -y prepended. Swappable in tests.
var runFFmpeg = func(args []string) error {
	cmd := exec.Command("ffmpeg", append([]string{"-y"}, args...)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg failed: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Convert transcodes a webm bounce into the requested format and returns
// the output path.
func Convert(webmPath, format string) (string, error) {
	if !ConvertFormats[format] {
		return "", fmt.Errorf("unsupported audio format: %s", format)
	}
	output := strings.TrimSuffix(webmPath, filepath.Ext(webmPath)) + "." + format
	args := []string{"-i", webmPath}
	if format == "mp3" {
		args = append(args, "-codec:a", "libmp3lame", "-qscale:a", "2")
	}
	args = append(args, output)
	if err := runFFmpeg(args); err != nil {
		return "", err
	}
	return output, nil
}

// Concat joins inputs end to end into output using the concat demuxer.
// The temporary list file it needs is removed afterwards.
func Concat(inputs []string, output string) error {
	if len(inputs) == 0 {
		return fmt.Errorf("no input files supplied for concat")
	}
	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var list strings.Builder
	for _, input := range inputs {
		fmt.Fprintf(&list, "file '%s'\n", input)
	}
	listPath := output + ".list"
	if err := os.WriteFile(listPath, []byte(list.String()), 0644); err != nil {
		return fmt.Errorf("failed to write concat list: %w", err)
	}
	defer os.Remove(listPath)

	return runFFmpeg([]string{"-f", "concat", "-safe", "0", "-i", listPath, output})
}

// Loop repeats input the given number of times into output via a
// filter_complex concat graph.
func Loop(input string, repeats int, output string) error {
	if repeats < 1 {
		return fmt.Errorf("repeats must be >= 1")
	}
	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var args []string
	var graph strings.Builder
	for i := 0; i < repeats; i++ {
		args = append(args, "-i", input)
		fmt.Fprintf(&graph, "[%d:a]", i)
	}
	fmt.Fprintf(&graph, "concat=n=%d:v=0:a=1[out]", repeats)
	args = append(args, "-filter_complex", graph.String(), "-map", "[out]", output)
	return runFFmpeg(args)
}
