package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir(), "server")
	require.NoError(t, err)

	assert.Equal(t, 3001, cfg.Server.Port)
	assert.Equal(t, DriverMemory, cfg.Roster.Driver)
	assert.Equal(t, "chat:roster", cfg.Redis.RosterKey)
	assert.Equal(t, "lobby", cfg.Redis.Room)
	assert.Equal(t, 60*time.Second, cfg.WebSocket.PongWait)
	assert.Equal(t, 256, cfg.WebSocket.SendBuffer)
}

func TestFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	body := "roster:\n  driver: redis\nredis:\n  address: redis:6379\nwebsocket:\n  pong_wait: 90s\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "server.yaml"), []byte(body), 0o600))
	t.Setenv("PORT", "9000")

	cfg, err := LoadFrom(dir, "server")
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, DriverRedis, cfg.Roster.Driver)
	assert.Equal(t, "redis:6379", cfg.Redis.PubSub().Address)
	assert.Equal(t, 90*time.Second, cfg.WebSocket.PongWait)
}
