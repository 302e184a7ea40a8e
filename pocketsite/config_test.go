package pocketsite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.HeadRows)
	assert.Equal(t, 8, cfg.MaxChains)
	assert.Equal(t, "red", cfg.Viewer.Color)
	assert.Equal(t, 1.0, cfg.Viewer.Radius)
}

func TestConfigSaveLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg := Config{HeadRows: 25, SkipMalformed: true, LastPrankPath: "/data/prank.csv"}
	require.NoError(t, SaveConfig(path, cfg))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 25, loaded.HeadRows)
	assert.True(t, loaded.SkipMalformed)
	assert.Equal(t, "/data/prank.csv", loaded.LastPrankPath)
	assert.Equal(t, 20, loaded.HistogramBins)
}

func TestConfigSaveLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pocketsite.yaml")
	require.NoError(t, os.WriteFile(path, []byte("headRows: 5\nviewer:\n  color: blue\n  radius: 2.5\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.HeadRows)
	assert.Equal(t, "blue", cfg.Viewer.Color)
	assert.Equal(t, 2.5, cfg.Viewer.Radius)
	assert.Equal(t, 800, cfg.Viewer.Width)

	cfg.MaxChains = 4
	require.NoError(t, SaveConfig(path, cfg))
	again, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadConfigColumnsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pocketsite.yaml")
	require.NoError(t, os.WriteFile(path, []byte("columns:\n  chain: [chain_id, ch]\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"chain_id", "ch"}, cfg.Columns.Chain)
	assert.Equal(t, DefaultColumnCandidates().Probability, cfg.Columns.Probability)
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "decode config")
}

func TestConfigClone(t *testing.T) {
	cfg := Config{HeadRows: 3}
	cfg.ApplyDefaults()
	cp := cfg.Clone()
	cp.Viewer.Color = "green"
	assert.Equal(t, "red", cfg.Viewer.Color)
}
