package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "file", cfg.DataSource.Kind)
	assert.Equal(t, 50, cfg.Strategy.BacktestWindow)
	assert.Equal(t, int64(42), cfg.Strategy.Seed)
	assert.Equal(t, ":8080", cfg.Web.Addr)
	require.NoError(t, cfg.Validate())
	assert.False(t, cfg.TelegramEnabled())
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "config.yaml")
	yml := `
data_source:
  base_url: https://example.test/draws
  page_size: 25
strategy:
  backtest_window: 80
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))
	t.Setenv("DRAWSENTINEL_BACKTEST_WINDOW", "120")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http", cfg.DataSource.Kind)
	assert.Equal(t, 25, cfg.DataSource.PageSize)
	assert.Equal(t, 120, cfg.Strategy.BacktestWindow)
	assert.Equal(t, "/tmp/x.db", cfg.Database.SQLitePath)
	require.NoError(t, cfg.Validate())
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DRAWSENTINEL_SEED=7\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("DRAWSENTINEL_SEED") })
	cfg, err := Load(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Strategy.Seed)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"http without url", func(c *Config) { c.DataSource.Kind = "http" }, false},
		{"feed without url", func(c *Config) { c.DataSource.Kind = "feed" }, false},
		{"unknown kind", func(c *Config) { c.DataSource.Kind = "ftp" }, false},
		{"token without chat", func(c *Config) { c.Telegram.BotToken = "x" }, false},
		{"negative window", func(c *Config) { c.Strategy.BacktestWindow = -1 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			c.applyDefaults()
			tt.mutate(c)
			err := c.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
