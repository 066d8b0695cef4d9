package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("LEAP_CONFIG", "")
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, 3, cfg.API.Retry.MaxAttempts)
	assert.Equal(t, filepath.Join(dir, "data", "leap", "leap.db"), cfg.Store.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "leap.toml")
	content := `
[api]
base_url = "https://leap.example.com"
timeout = "3s"

[api.retry]
max_attempts = 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://leap.example.com", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, 5, cfg.API.Retry.MaxAttempts)
	// Unset keys keep their defaults.
	assert.Equal(t, 2.0, cfg.API.Retry.Multiplier)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "leap.toml")
	require.NoError(t, os.WriteFile(path, []byte("[api]\nbase_url = \"https://file.example.com\"\n"), 0o644))
	t.Setenv("LEAP_API_BASE_URL", "https://env.example.com")
	t.Setenv("LEAP_API_TOKEN", "secret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com", cfg.API.BaseURL)
	assert.Equal(t, "secret", cfg.API.Token)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load(filepath.Join(dir, "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", cfg.API.BaseURL)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "leap.toml")
	require.NoError(t, os.WriteFile(path, []byte("[api\nbase_url ="), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"https", func(c *Config) { c.API.BaseURL = "https://api.leap.dev" }, false},
		{"ftp scheme", func(c *Config) { c.API.BaseURL = "ftp://api.leap.dev" }, true},
		{"no host", func(c *Config) { c.API.BaseURL = "http://" }, true},
		{"zero timeout", func(c *Config) { c.API.Timeout = 0 }, true},
		{"zero attempts", func(c *Config) { c.API.Retry.MaxAttempts = 0 }, true},
		{"shrinking backoff", func(c *Config) { c.API.Retry.Multiplier = 0.5 }, true},
		{"bad level", func(c *Config) { c.Log.Level = "chatty" }, true},
		{"upper level", func(c *Config) { c.Log.Level = "DEBUG" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
