package main

import (
	"os"
	"path/filepath"
	"testing"

	"ctchen222/tictactoe-engine/internal/bot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRunRejectsUnknownDifficulty(t *testing.T) {
	path := writeConfig(t, "bot:\n  difficulty: godlike\n")

	err := run(path)
	assert.ErrorIs(t, err, bot.ErrUnknownDifficulty)
}

func TestRunReturnsRedisFailure(t *testing.T) {
	// Given: events enabled against a port nothing listens on
	path := writeConfig(t, "http-addr: \"127.0.0.1:0\"\nredis:\n  enabled: true\n  host: 127.0.0.1\n  port: \"1\"\n")

	// When: starting the server
	err := run(path)

	// Then: the failure comes back as an error instead of exiting the process
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize redis")
}
