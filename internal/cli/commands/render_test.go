package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strudel-tools/orchestra/internal/logging"
)

const renderableTrack = `---
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

type fakeRenderer struct {
	rendered []string
	bounce   []byte
}

func (f *fakeRenderer) Render(ctx context.Context, code string, durationMs, warmupMs int) ([]byte, error) {
	f.rendered = append(f.rendered, code)
	return f.bounce, nil
}

func (f *fakeRenderer) Close() error { return nil }

func silentLogger(t *testing.T) *logging.Logger {
	t.Helper()
	log, err := logging.New(logging.Config{Level: "silent"})
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })
	return log
}

func TestNewRenderCommand(t *testing.T) {
	cmd := NewRenderCommand()

	assert.Equal(t, "render", cmd.Use)
	for _, flag := range []string{"tracks-dir", "out", "format", "duration", "warmup", "slug", "loop"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "expected --%s flag to be registered", flag)
	}
}

func TestRenderAll(t *testing.T) {
	tracksDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "audio")
	require.NoError(t, os.WriteFile(filepath.Join(tracksDir, "night-drive.strudel"), []byte(renderableTrack), 0644))

	session := &fakeRenderer{bounce: []byte("webm-bytes")}
	count, err := renderAll(context.Background(), renderOptions{
		tracksDir:  tracksDir,
		outDir:     outDir,
		formats:    []string{"webm"},
		durationMs: 8000,
		warmupMs:   4000,
	}, silentLogger(t), session)

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, session.rendered, 1)
	assert.Contains(t, session.rendered[0], "setcpm(90)")

	data, err := os.ReadFile(filepath.Join(outDir, "night-drive.webm"))
	require.NoError(t, err)
	assert.Equal(t, "webm-bytes", string(data))
}

func TestRenderAllSkipsInvalidTracks(t *testing.T) {
	tracksDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tracksDir, "broken.strudel"), []byte("no front matter"), 0644))

	session := &fakeRenderer{bounce: []byte("x")}
	count, err := renderAll(context.Background(), renderOptions{
		tracksDir: tracksDir,
		outDir:    filepath.Join(t.TempDir(), "audio"),
		formats:   []string{"webm"},
	}, silentLogger(t), session)

	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Empty(t, session.rendered)
}

func TestRenderAllFiltersBySlug(t *testing.T) {
	tracksDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tracksDir, "night-drive.strudel"), []byte(renderableTrack), 0644))

	session := &fakeRenderer{bounce: []byte("x")}
	count, err := renderAll(context.Background(), renderOptions{
		tracksDir: tracksDir,
		outDir:    filepath.Join(t.TempDir(), "audio"),
		formats:   []string{"webm"},
		slugs:     []string{"some-other-track"},
	}, silentLogger(t), session)

	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRenderAllEmptyDirectory(t *testing.T) {
	count, err := renderAll(context.Background(), renderOptions{
		tracksDir: t.TempDir(),
		outDir:    filepath.Join(t.TempDir(), "audio"),
		formats:   []string{"webm"},
	}, silentLogger(t), &fakeRenderer{})

	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
