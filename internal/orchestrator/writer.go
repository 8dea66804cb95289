package orchestrator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// SupportedFormats enumerates the artifact representations the writer can
// emit.
var SupportedFormats = map[string]bool{"json": true, "md": true, "raw": true}

// trackPayload is the per-track shape shared by the aggregate and
// per-slug JSON artifacts.
type trackPayload struct {
	Slug     string                 `json:"slug"`
	Path     string                 `json:"path,omitempty"`
	Metadata map[string]interface{} `json:"metadata"`
	Code     string                 `json:"code"`
	Warnings []string               `json:"warnings"`
}

// WriteArtifacts serializes validated tracks into out directory in the
// requested formats. Formats outside SupportedFormats are a configuration
// error reported before anything is written. Writes are not transactional;
// the driver only reaches this stage after validation has passed.
func WriteArtifacts(artifacts []*TrackArtifact, outDir string, formats []string) error {
	requested := make(map[string]bool, len(formats))
	var unknown []string
	for _, format := range formats {
		format = strings.ToLower(strings.TrimSpace(format))
		if format == "" {
			continue
		}
		if !SupportedFormats[format] {
			unknown = append(unknown, format)
			continue
		}
		requested[format] = true
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unsupported formats requested: %s", strings.Join(unknown, ", "))
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if requested["json"] {
		if err := writeJSON(artifacts, outDir); err != nil {
			return err
		}
	}
	if requested["md"] {
		if err := writeMarkdown(artifacts, outDir); err != nil {
			return err
		}
	}
	if requested["raw"] {
		if err := writeRaw(artifacts, outDir); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(artifacts []*TrackArtifact, outDir string) error {
	tracks := make([]trackPayload, 0, len(artifacts))
	for _, artifact := range artifacts {
		tracks = append(tracks, trackPayload{
			Slug:     artifact.Slug(),
			Path:     artifact.Path,
			Metadata: artifact.Metadata,
			Code:     artifact.Code,
			Warnings: artifact.Warnings,
		})
	}
	aggregate := struct {
		GeneratedAt string         `json:"generated_at"`
		Tracks      []trackPayload `json:"tracks"`
	}{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Tracks:      tracks,
	}
	if err := writeJSONFile(filepath.Join(outDir, "tracks.json"), aggregate); err != nil {
		return err
	}

	// Per-track files only exist for artifacts with a resolved slug; the
	// rest still appear in the aggregate above.
	for _, artifact := range artifacts {
		slug := artifact.Slug()
		if slug == "" {
			continue
		}
		payload := trackPayload{
			Slug:     slug,
			Metadata: artifact.Metadata,
			Code:     artifact.Code,
			Warnings: artifact.Warnings,
		}
		if err := writeJSONFile(filepath.Join(outDir, slug+".json"), payload); err != nil {
			return err
		}
	}
	return nil
}

func writeMarkdown(artifacts []*TrackArtifact, outDir string) error {
	for _, artifact := range artifacts {
		slug := artifact.Slug()
		if slug == "" {
			continue
		}

		title := slug
		if t, ok := artifact.Metadata["title"].(string); ok && t != "" {
			title = t
		}
		warnings := "- none"
		if len(artifact.Warnings) > 0 {
			lines := make([]string, len(artifact.Warnings))
			for i, warning := range artifact.Warnings {
				lines[i] = "- " + warning
			}
			warnings = strings.Join(lines, "\n")
		}
		metadata, err := json.MarshalIndent(artifact.Metadata, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode metadata for %s: %w", slug, err)
		}

		doc := fmt.Sprintf(`# %s

**Slug:** `+"`%s`"+`
**Source:** `+"`%s`"+`
**Warnings:**
%s

## Metadata

`+"```json\n%s\n```"+`

## Pattern

`+"```strudel\n%s\n```"+`
`, title, slug, artifact.Path, warnings, metadata, artifact.Code)

		path := filepath.Join(outDir, slug+".md")
		if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return nil
}

// writeRaw copies the original source back out byte-for-byte, named by
// slug. Round-tripping a loaded track through this format must reproduce
// the input exactly.
func writeRaw(artifacts []*TrackArtifact, outDir string) error {
	for _, artifact := range artifacts {
		slug := artifact.Slug()
		if slug == "" {
			continue
		}
		path := filepath.Join(outDir, slug+".strudel")
		if err := os.WriteFile(path, []byte(artifact.RawContent), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return nil
}

func writeJSONFile(path string, payload interface{}) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
