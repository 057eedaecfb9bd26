package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))

	assert.Equal(t, "dod3", cfg.Shred.DefaultMethod)
	assert.Equal(t, int64(1024*1024), cfg.Shred.ChunkSize)
	assert.Equal(t, 16, cfg.Shred.NameLength)
	assert.True(t, cfg.Security.RequireConfirmation)
	assert.Equal(t, "json", cfg.Reporting.Format)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadPartialOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
shred:
  default_method: gutmann
  verify: true
free_space:
  max_duration: 30m
security:
  protected_paths:
    - /srv/keep
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gutmann", cfg.Shred.DefaultMethod)
	assert.True(t, cfg.Shred.Verify)
	assert.Equal(t, int64(1024*1024), cfg.Shred.ChunkSize)
	assert.Equal(t, []string{"/srv/keep"}, cfg.Security.ProtectedPaths)
	assert.Equal(t, 30*time.Minute, cfg.GetMaxDuration())
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("shred: [unclosed"), 0644))
	_, err := Load(bad)
	assert.Error(t, err)

	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("shred:\n  default_method: dod5\n"), 0644))
	_, err = Load(unknown)
	assert.ErrorContains(t, err, "invalid default method")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"chunk zero", func(c *Config) { c.Shred.ChunkSize = 0 }},
		{"chunk too large", func(c *Config) { c.Shred.ChunkSize = 200 * 1024 * 1024 }},
		{"negative speed", func(c *Config) { c.Shred.MaxSpeedMBps = -1 }},
		{"short name", func(c *Config) { c.Shred.NameLength = 4 }},
		{"too many workers", func(c *Config) { c.Shred.MaxConcurrent = 32 }},
		{"free space chunk", func(c *Config) { c.FreeSpace.ChunkSize = 0 }},
		{"negative max bytes", func(c *Config) { c.FreeSpace.MaxBytes = -1 }},
		{"bad duration", func(c *Config) { c.FreeSpace.MaxDuration = "soon" }},
		{"bad level", func(c *Config) { c.Logging.Level = "TRACE" }},
		{"bad format", func(c *Config) { c.Reporting.Format = "xml" }},
		{"empty protected path", func(c *Config) { c.Security.ProtectedPaths = []string{""} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, Validate(cfg))
		})
	}

	cfg := Default()
	cfg.Logging.Level = "debug"
	assert.NoError(t, Validate(cfg))
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Shred.DefaultMethod = "dod7"
	cfg.Reporting.Format = "yaml"
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	cfg.Shred.DefaultMethod = "nope"
	assert.Error(t, Save(cfg, path))
}

func TestApplyProfile(t *testing.T) {
	want := map[string]string{
		"quick":    "zeros",
		"standard": "dod3",
		"thorough": "dod7",
		"paranoid": "gutmann",
	}

	for _, name := range Profiles {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			require.NoError(t, ApplyProfile(cfg, name))
			assert.Equal(t, want[name], cfg.Shred.DefaultMethod)
			assert.NoError(t, Validate(cfg))
		})
	}

	cfg := Default()
	require.NoError(t, ApplyProfile(cfg, "paranoid"))
	assert.True(t, cfg.Shred.Verify)
	assert.Equal(t, 1, cfg.Shred.MaxConcurrent)

	assert.Error(t, ApplyProfile(Default(), "reckless"))
}

func TestGetMaxDuration(t *testing.T) {
	cfg := Default()
	assert.Equal(t, time.Duration(0), cfg.GetMaxDuration())

	cfg.FreeSpace.MaxDuration = "2h"
	assert.Equal(t, 2*time.Hour, cfg.GetMaxDuration())

	cfg.FreeSpace.MaxDuration = "garbage"
	assert.Equal(t, time.Duration(0), cfg.GetMaxDuration())
}
