package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFillsMissingFieldsWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pulse.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pipeline:\n  k: 7\nstore:\n  type: sqlite\n  path: out.db\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Pipeline.K)
	assert.Equal(t, int64(42), cfg.Pipeline.Seed)
	assert.Equal(t, 500, cfg.Pipeline.MaxBatchSize)
	assert.Equal(t, 0.3, cfg.Pipeline.PositiveThreshold)
	assert.Equal(t, "gemini-2.0-flash", cfg.Scorer.Model)
	assert.Equal(t, "sqlite", cfg.Store.Type)
	assert.Equal(t, "out.db", cfg.Store.Path)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pulse.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pipeline: [not a map"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pulse.yaml")
	cfg := Default()
	cfg.Pipeline.K = 9
	cfg.Pipeline.ExtraStopwords = []string{"rig"}
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
