package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "text", cfg.Format)
	assert.False(t, cfg.Quiet)
	assert.Equal(t, "reports", cfg.Defaults.ReportsDir)
	assert.Equal(t, "gpt-4o", cfg.Defaults.Model)
	assert.Equal(t, 3, cfg.Defaults.FetchRetries)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
format: json
verbose: true
defaults:
  reports_dir: out
  model: gpt-4o-mini
  fetch_retries: 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Format)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "out", cfg.Defaults.ReportsDir)
	assert.Equal(t, "gpt-4o-mini", cfg.Defaults.Model)
	assert.Equal(t, 5, cfg.Defaults.FetchRetries)
	// Unset keys keep their defaults.
	assert.Equal(t, "1s", cfg.Defaults.FetchRetryDelay)
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("RELSCOPE_FORMAT", "json")
	t.Setenv("RELSCOPE_QUIET", "1")
	t.Setenv("RELSCOPE_MODEL", "gpt-4.1")

	cfg := Default()
	applyEnvOverrides(cfg)

	assert.Equal(t, "json", cfg.Format)
	assert.True(t, cfg.Quiet)
	assert.Equal(t, "gpt-4.1", cfg.Defaults.Model)
}
