package orchestrator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validTrack = `---
slug: night-drive
title: "Night Drive"
tempo: 90
mood: "nocturnal"
tags: [synth, downtempo]
summary: "Late night cruising."
---
setcpm(90)
sound("bd hh sd hh").gain(0.8)
`

func writeTrack(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSplitFrontMatter(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantMeta  string
		wantCode  string
		wantFound bool
	}{
		{
			name:      "basic",
			content:   "---\nslug: a\n---\ncode here",
			wantMeta:  "slug: a",
			wantCode:  "code here",
			wantFound: true,
		},
		{
			name:      "crlf",
			content:   "---\r\nslug: a\r\n---\r\ncode here",
			wantMeta:  "slug: a",
			wantCode:  "code here",
			wantFound: true,
		},
		{
			name:      "no opening marker",
			content:   "slug: a\n---\ncode",
			wantMeta:  "",
			wantCode:  "slug: a\n---\ncode",
			wantFound: false,
		},
		{
			name:      "unterminated block",
			content:   "---\nslug: a\ncode never starts",
			wantMeta:  "",
			wantCode:  "---\nslug: a\ncode never starts",
			wantFound: false,
		},
		{
			name:      "empty code after marker",
			content:   "---\nslug: a\n---\n",
			wantMeta:  "slug: a",
			wantCode:  "",
			wantFound: true,
		},
		{
			name:      "only one terminator stripped",
			content:   "---\nslug: a\n---\n\ncode",
			wantMeta:  "slug: a",
			wantCode:  "\ncode",
			wantFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, code, found := splitFrontMatter(tt.content)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.wantMeta, meta)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestLoadTrack_Valid(t *testing.T) {
	dir := t.TempDir()
	path := writeTrack(t, dir, "night-drive.strudel", validTrack)

	artifact, err := LoadTrack(path)
	require.NoError(t, err)

	assert.Equal(t, path, artifact.Path)
	assert.Equal(t, validTrack, artifact.RawContent)
	assert.Equal(t, "night-drive", artifact.Slug())
	assert.Empty(t, artifact.Errors)
	assert.Empty(t, artifact.Warnings)
	assert.Contains(t, artifact.Code, "setcpm(90)")
}

func TestLoadTrack_MissingFrontMatter(t *testing.T) {
	dir := t.TempDir()
	path := writeTrack(t, dir, "bare.strudel", `setcpm(90)`+"\n"+`sound("bd")`)

	artifact, err := LoadTrack(path)
	require.NoError(t, err)

	require.NotEmpty(t, artifact.Errors)
	assert.Contains(t, artifact.Errors[0], "front matter")
	assert.Equal(t, "", artifact.Slug())
	// pattern heuristics still ran on the full content
	assert.Contains(t, artifact.Code, "setcpm(90)")
}

func TestLoadTrack_BrokenYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeTrack(t, dir, "broken.strudel", "---\nslug: [unclosed\n---\nsetcpm(90)\n")

	artifact, err := LoadTrack(path)
	require.NoError(t, err)

	require.NotEmpty(t, artifact.Errors)
	assert.Contains(t, artifact.Errors[0], "failed to parse YAML front matter")
	assert.Nil(t, artifact.Metadata)
}

func TestLoadTrack_EmptyBodyIsError(t *testing.T) {
	dir := t.TempDir()
	path := writeTrack(t, dir, "silent.strudel", "---\nslug: silent-one\ntitle: \"Silent\"\ntempo: 90\n---\n")

	artifact, err := LoadTrack(path)
	require.NoError(t, err)

	assert.Contains(t, artifact.Errors, "pattern body is empty")
}

func TestLoadTrack_CombinesMetadataAndCodeDiagnostics(t *testing.T) {
	content := "---\ntitle: \"No Slug\"\ntempo: 90\n---\nsound(\"bd\").gain(1.5)\n"
	dir := t.TempDir()
	path := writeTrack(t, dir, "mixed.strudel", content)

	artifact, err := LoadTrack(path)
	require.NoError(t, err)

	// metadata errors come before code errors, warnings likewise
	require.Len(t, artifact.Errors, 1)
	assert.Contains(t, artifact.Errors[0], "`slug`")
	require.Len(t, artifact.Warnings, 5)
	assert.Contains(t, artifact.Warnings[0], "`mood`")
	assert.Contains(t, artifact.Warnings[3], "setcpm")
	assert.Contains(t, artifact.Warnings[4], "1.5")
}

func TestLoadTrack_MissingFileIsFatal(t *testing.T) {
	_, err := LoadTrack(filepath.Join(t.TempDir(), "absent.strudel"))
	assert.Error(t, err)
}
