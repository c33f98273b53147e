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

	assert.Empty(t, cfg.Repository.Path)
	assert.Equal(t, "200ms", cfg.Watch.Debounce.String())
	assert.Equal(t, "git", cfg.Git.Binary)
	assert.Equal(t, "30s", cfg.Git.Timeout.String())
	assert.True(t, cfg.Locks.Enabled)
	assert.False(t, cfg.Locks.FoldCase)
	assert.Empty(t, cfg.Metrics.Address)
}

func TestNew_MissingRepositoryPathFails(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	_, err := New()
	require.Error(t, err)
}

func TestNew_LoadsYAML(t *testing.T) {
	yamlPath := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "repository:\n" +
		"  path: /srv/repo\n" +
		"git:\n" +
		"  binary: /usr/local/bin/git\n" +
		"locks:\n" +
		"  fold_case: true\n"
	require.NoError(t, os.WriteFile(yamlPath, []byte(yaml), 0o600))
	t.Setenv("CONFIG_PATH", yamlPath)

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "/srv/repo", cfg.Repository.Path)
	assert.Equal(t, "/usr/local/bin/git", cfg.Git.Binary)
	assert.True(t, cfg.Locks.FoldCase)
	// Untouched keys keep their defaults.
	assert.Equal(t, "200ms", cfg.Watch.Debounce.String())
	assert.True(t, cfg.Locks.Enabled)
}
