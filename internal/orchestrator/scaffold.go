package orchestrator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/strudel-tools/orchestra/internal/schema"
)

const stubTemplate = `---
slug: %s
title: "%s"
tempo: %d
mood: ""
tags: []
summary: |
  Describe the arrangement, instrumentation, and intended mood.
resources: []
---
setcpm(%d)
// Define shared resources (e.g., chords) here
stack(
  sound("bd hh sd hh").bank("RolandTR707").gain(0.8),
  sound("hh*16").gain("[0.4 1]*4"),
  n("<0 [2 4] 5>").scale("C:minor").sound("sawtooth")
)
`

// CreateTrackStub writes a starter .strudel file for slug into tracksDir
// and returns its path. An empty title defaults to the title-cased slug.
// An existing file is only overwritten when force is set.
func CreateTrackStub(slug, title string, tempo int, tracksDir string, force bool) (string, error) {
	if !schema.SlugPattern.MatchString(slug) {
		return "", fmt.Errorf("slug must be kebab-case (lowercase alphanumerics separated by dashes)")
	}

	if title == "" {
		title = titleFromSlug(slug)
	}

	if err := os.MkdirAll(tracksDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create tracks directory: %w", err)
	}

	target := filepath.Join(tracksDir, slug+".strudel")
	if _, err := os.Stat(target); err == nil && !force {
		return "", fmt.Errorf("track %s already exists; use --force to overwrite", target)
	}

	content := fmt.Sprintf(stubTemplate, slug, title, tempo, tempo)
	if err := os.WriteFile(target, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", target, err)
	}
	return target, nil
}

func titleFromSlug(slug string) string {
	words := strings.Split(slug, "-")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
