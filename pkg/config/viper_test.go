package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	v, err := Load(t.TempDir(), "absent")
	require.NoError(t, err)
	require.NotNil(t, v)
}

func TestLoadReadsYAMLAndEnv(t *testing.T) {
	dir := t.TempDir()
	body := "auth:\n  base_url: http://example.test\ntyping:\n  timeout: 5s\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "client.yaml"), []byte(body), 0o600))

	t.Setenv("TYPING_TIMEOUT", "7s")

	v, err := Load(dir, "client")
	require.NoError(t, err)
	assert.Equal(t, "http://example.test", v.GetString("auth.base_url"))
	assert.Equal(t, 7*time.Second, Duration(v, "typing.timeout", time.Second))
}

func TestDurationFallback(t *testing.T) {
	v, err := Load(t.TempDir(), "absent")
	require.NoError(t, err)

	v.Set("bad", "soon")
	v.Set("negative", "-1s")
	assert.Equal(t, 3*time.Second, Duration(v, "bad", 3*time.Second))
	assert.Equal(t, 3*time.Second, Duration(v, "negative", 3*time.Second))
	assert.Equal(t, 3*time.Second, Duration(v, "missing", 3*time.Second))
}

func TestGetEnv(t *testing.T) {
	t.Setenv("OPEN_CHAT_TEST_VALUE", "set")
	assert.Equal(t, "set", GetEnv("OPEN_CHAT_TEST_VALUE", "default"))
	assert.Equal(t, "default", GetEnv("OPEN_CHAT_TEST_UNSET", "default"))
}
