package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"TALLY_DATA_PATH", "TALLY_BACKEND", "TALLY_DB_PATH", "TALLY_LOG_LEVEL", "TALLY_CONFIG"} {
		t.Setenv(k, "")
	}
}

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "conf", "config.toml")

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultDataPath, cfg.DataPath)
	assert.Equal(t, "text", cfg.Backend)
	assert.Equal(t, "enter", cfg.Keys.Confirm)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "data_path")
	assert.Contains(t, string(raw), DefaultDataPath)
}

func TestLoadOrCreateReadsFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
data_path = "/tmp/tasks.txt"
backend = "sqlite"
log_level = "debug"

[keys]
cancel = "ctrl+g"
`), 0o644))

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/tasks.txt", cfg.DataPath)
	assert.Equal(t, "sqlite", cfg.Backend)
	assert.Equal(t, DefaultDBPath, cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "ctrl+g", cfg.Keys.Cancel)
	assert.Equal(t, "enter", cfg.Keys.Confirm)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TALLY_DATA_PATH", "elsewhere.txt")
	t.Setenv("TALLY_LOG_LEVEL", "error")

	cfg, err := LoadOrCreate(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, "elsewhere.txt", cfg.DataPath)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestUnknownBackend(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`backend = "csv"`), 0o644))

	_, err := LoadOrCreate(path)
	assert.Error(t, err)
}

func TestBadToml(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`backend = `), 0o644))

	_, err := LoadOrCreate(path)
	assert.Error(t, err)
}

func TestResolveConfigPath(t *testing.T) {
	clearEnv(t)
	assert.Equal(t, DefaultConfigFileName, ResolveConfigPath(""))
	t.Setenv("TALLY_CONFIG", "/etc/tally.toml")
	assert.Equal(t, "/etc/tally.toml", ResolveConfigPath(""))
	assert.Equal(t, "x.toml", ResolveConfigPath("x.toml"))
}
