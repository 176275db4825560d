package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultScheduleURL, cfg.ScheduleURL)
	assert.Equal(t, "epub", cfg.Format)
	assert.Equal(t, "full", cfg.RenderMode)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := &Config{
		ScheduleURL:      "https://example.org/schedule.json",
		CacheDir:         "/tmp/cache",
		Output:           "out.html",
		Format:           "html",
		RenderMode:       "inline",
		KeepIntermediate: true,
	}
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := &Config{Format: "docx", RenderMode: "sideways"}
	cfg.Normalize()

	assert.Equal(t, "epub", cfg.Format)
	assert.Equal(t, "full", cfg.RenderMode)
	assert.Equal(t, DefaultScheduleURL, cfg.ScheduleURL)
	assert.NotEmpty(t, cfg.CacheDir)
	assert.NotEmpty(t, cfg.Output)
}

func TestLoadEmptyPath(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)
}
