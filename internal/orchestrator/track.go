package orchestrator

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/strudel-tools/orchestra/internal/schema"
)

// TrackArtifact is the in-memory representation of one .strudel source
// through a compilation run. All malformed-input conditions are captured
// in Errors/Warnings rather than raised; only I/O failures on the path
// itself escape LoadTrack. LintError is filled in by the driver after the
// browser lint pass.
type TrackArtifact struct {
	Path       string
	RawContent string
	Metadata   map[string]interface{}
	Code       string
	Errors     []string
	Warnings   []string
	LintError  string
}

// Slug returns the track identifier, or "" when the metadata block did
// not decode or carries no string slug.
func (a *TrackArtifact) Slug() string {
	if a.Metadata == nil {
		return ""
	}
	slug, _ := a.Metadata["slug"].(string)
	return slug
}

// LoadTrack reads and validates one track source. Pattern-code heuristics
// run even when the metadata block is broken so a single pass surfaces as
// many diagnostics as possible.
func LoadTrack(path string) (*TrackArtifact, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	content := string(raw)

	artifact := &TrackArtifact{
		Path:       path,
		RawContent: content,
		Errors:     []string{},
		Warnings:   []string{},
	}

	metaText, code, found := splitFrontMatter(content)
	artifact.Code = code

	var metaErrors, metaWarnings []string
	if !found {
		metaErrors = append(metaErrors, "YAML front matter block is required at top of file")
	} else {
		var decoded interface{}
		if err := yaml.Unmarshal([]byte(metaText), &decoded); err != nil {
			metaErrors = append(metaErrors, fmt.Sprintf("failed to parse YAML front matter: %v", err))
		} else {
			if fields, ok := decoded.(map[string]interface{}); ok {
				artifact.Metadata = fields
			}
			metaErrors, metaWarnings = schema.ValidateMetadata(decoded)
		}
	}

	codeErrors, codeWarnings := schema.ValidatePatternCode(code)

	artifact.Errors = append(artifact.Errors, metaErrors...)
	artifact.Errors = append(artifact.Errors, codeErrors...)
	artifact.Warnings = append(artifact.Warnings, metaWarnings...)
	artifact.Warnings = append(artifact.Warnings, codeWarnings...)

	return artifact, nil
}

// splitFrontMatter separates the delimited metadata block from the
// pattern body. Content that does not open with "---", or never closes
// the block, is treated as all code with found=false. The closing marker
// search prefers an LF-prefixed delimiter and falls back to CRLF; exactly
// one line terminator after the closing marker is stripped from the body
// (CRLF before LF). A line inside the metadata block that happens to
// equal the delimiter is undefined input; the first qualifying marker
// wins.
func splitFrontMatter(content string) (metaText, code string, found bool) {
	if !strings.HasPrefix(content, "---") {
		return "", content, false
	}

	delimiter := "\n---"
	end := indexFrom(content, delimiter, 3)
	if end == -1 {
		delimiter = "\r\n---"
		end = indexFrom(content, delimiter, 3)
		if end == -1 {
			return "", content, false
		}
	}

	metaText = strings.TrimSpace(content[3:end])
	remainder := content[end+len(delimiter):]
	if strings.HasPrefix(remainder, "\r\n") {
		remainder = remainder[2:]
	} else if strings.HasPrefix(remainder, "\n") {
		remainder = remainder[1:]
	}
	return metaText, remainder, true
}

func indexFrom(s, substr string, start int) int {
	if start > len(s) {
		return -1
	}
	i := strings.Index(s[start:], substr)
	if i == -1 {
		return -1
	}
	return i + start
}
