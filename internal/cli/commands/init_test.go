package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewInitCommand(t *testing.T) {
	cmd := NewInitCommand()

	assert.Equal(t, "init <slug>", cmd.Use)
	for _, flag := range []string{"title", "tempo", "tracks-dir", "force"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "expected --%s flag to be registered", flag)
	}

	// slug argument is mandatory
	assert.Error(t, cmd.Args(cmd, []string{}))
	assert.NoError(t, cmd.Args(cmd, []string{"night-drive"}))
}

func TestNewSpliceCommand(t *testing.T) {
	cmd := NewSpliceCommand()

	assert.Equal(t, "splice <input>...", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("out"))
	assert.NotNil(t, cmd.Flags().Lookup("loop"))
	assert.Error(t, cmd.Args(cmd, []string{}))
}

func TestNewWatchCommand(t *testing.T) {
	cmd := NewWatchCommand()

	assert.Equal(t, "watch", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("tracks-dir"))
}

func TestNewFetchCommand(t *testing.T) {
	cmd := NewFetchCommand()

	assert.Equal(t, "fetch-strudel", cmd.Use)
	for _, flag := range []string{"repo-url", "dest", "sparse", "include", "force"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "expected --%s flag to be registered", flag)
	}
}
