package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/miturka/FWinPhotoViewer/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := config.New()

	assert.Empty(t, cfg.Settings.StartDirectory)
	assert.Empty(t, cfg.Settings.ExcludePatterns)
	assert.False(t, cfg.Watch.Enabled)
	assert.Equal(t, 250, cfg.Watch.DebounceMs)
	assert.Equal(t, 1100, cfg.Window.Width)
	assert.Equal(t, 800, cfg.Window.Height)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 1100, cfg.Window.Width)
}

func TestLoadMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
settings:
  start_directory: ` + dir + `
  exclude_patterns: ["*.tmp", ".thumbnails/*"]
  debug: true
watch:
  enabled: true
window:
  width: 1920
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := config.LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Settings.StartDirectory)
	assert.Equal(t, []string{"*.tmp", ".thumbnails/*"}, cfg.Settings.ExcludePatterns)
	assert.True(t, cfg.Settings.Debug)
	assert.True(t, cfg.Watch.Enabled)
	assert.Equal(t, 250, cfg.Watch.DebounceMs, "unset debounce keeps default")
	assert.Equal(t, 1920, cfg.Window.Width)
	assert.Equal(t, 800, cfg.Window.Height, "unset height keeps default")
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("settings: [not: a: map"), 0644))

	_, err := config.LoadConfigFile(path)
	assert.Error(t, err)
}

func TestValidateRejectsBadPattern(t *testing.T) {
	cfg := config.New()
	cfg.Settings.ExcludePatterns = []string{"[unclosed"}
	assert.Error(t, cfg.Validate())

	cfg = config.New()
	cfg.Settings.ExcludePatterns = []string{""}
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsMissingStartDirectory(t *testing.T) {
	cfg := config.New()
	cfg.Settings.StartDirectory = filepath.Join(t.TempDir(), "does-not-exist")
	assert.Error(t, cfg.Validate())
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := config.New()
	cfg.Settings.ExcludePatterns = []string{"*.bak"}
	cfg.Window.Width = 640
	require.NoError(t, config.SaveConfig(cfg, path))

	loaded, err := config.LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"*.bak"}, loaded.Settings.ExcludePatterns)
	assert.Equal(t, 640, loaded.Window.Width)
}
