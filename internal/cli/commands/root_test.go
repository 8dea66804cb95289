package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	assert.Equal(t, "orchestra", cmd.Use)
	assert.True(t, cmd.SilenceUsage)
	assert.True(t, cmd.SilenceErrors)

	expected := []string{"version", "init", "compile", "render", "splice", "watch", "fetch-strudel"}
	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %s", name)
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := NewVersionCommand()

	var out bytes.Buffer
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "orchestra dev")
	assert.Contains(t, out.String(), "go version")
}
