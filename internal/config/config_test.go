package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("NOTION_TOKEN", "secret_env")
	t.Setenv("NOTION_TIMEOUT", "5s")

	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)
	assert.Equal(t, "secret_env", cfg.Token)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadMissingToken(t *testing.T) {
	t.Setenv("NOTION_TOKEN", "")

	_, err := Load(NewViper(), "")
	require.ErrorIs(t, err, ErrMissingToken)
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("NOTION_TOKEN", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "notionplus.yaml")
	require.NoError(t, os.WriteFile(path, []byte("token: secret_file\nlog_level: debug\nproject_id: my-project\n"), 0o644))

	cfg, err := Load(NewViper(), path)
	require.NoError(t, err)
	assert.Equal(t, "secret_file", cfg.Token)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "my-project", cfg.ProjectID)
	assert.Equal(t, defaultTimeout, cfg.Timeout)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("NOTION_TOKEN", "secret_env")
	dir := t.TempDir()
	path := filepath.Join(dir, "notionplus.yaml")
	require.NoError(t, os.WriteFile(path, []byte("token: secret_file\n"), 0o644))

	cfg, err := Load(NewViper(), path)
	require.NoError(t, err)
	assert.Equal(t, "secret_env", cfg.Token)
}

func TestLoadUnreadableFile(t *testing.T) {
	_, err := Load(NewViper(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
