package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithFileSink(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "run.log")

	log, err := New(Config{Level: "info", LogFile: logFile})
	require.NoError(t, err)

	log.Infow("starting compilation", "tracks", 3)
	log.Warnw("validation warnings", "path", "tracks/a.strudel")
	require.NoError(t, log.Close())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "starting compilation")
	assert.Contains(t, content, "validation warnings")
}

func TestFileSinkIgnoresConsoleThreshold(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "run.log")

	log, err := New(Config{Level: "error", LogFile: logFile})
	require.NoError(t, err)
	log.Debugw("discovered file", "path", "tracks/a.strudel")
	require.NoError(t, log.Close())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "discovered file")
}

func TestAppendReport(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "run.log")

	log, err := New(Config{Level: "silent", LogFile: logFile})
	require.NoError(t, err)

	report := map[string]interface{}{"success": true, "tracks": []string{}}
	require.NoError(t, log.AppendReport(report))
	require.NoError(t, log.Close())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)

	var wrapper struct {
		Report struct {
			Success bool `json:"success"`
		} `json:"report"`
	}
	require.NoError(t, json.Unmarshal(data, &wrapper))
	assert.True(t, wrapper.Report.Success)
}

func TestAppendReportWithoutFileSink(t *testing.T) {
	log, err := New(Config{Level: "silent"})
	require.NoError(t, err)
	defer log.Close()

	assert.NoError(t, log.AppendReport(map[string]bool{"success": true}))
}

func TestRunFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	path, err := RunFile(dir, "compile")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(filepath.Base(path), "compile-"))
	assert.True(t, strings.HasSuffix(path, ".log"))

	_, err = os.Stat(dir)
	assert.NoError(t, err, "log directory is created")
}
