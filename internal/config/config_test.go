package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
permissive: true
registry: extra.yaml
default_crs: EPSG:32632
distance:
  line_reducer: max
resample: 25.5
concurrency: 4
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Permissive)
	assert.Equal(t, "extra.yaml", cfg.Registry)
	assert.Equal(t, "EPSG:32632", cfg.DefaultCRS)
	assert.Equal(t, 25.5, cfg.Resample)
	assert.Equal(t, 4, cfg.Concurrency)
	// unset keys keep defaults
	assert.Equal(t, "min", cfg.Distance.PointReducer)
	assert.Equal(t, "max", cfg.Distance.LineReducer)

	r, err := cfg.Reducers()
	require.NoError(t, err)
	assert.Equal(t, 3.0, r.Overall([]float64{1, 3, 2}))
	assert.Equal(t, 1.0, r.PerPoint([]float64{1, 3, 2}))
}

func TestLoadInvalid(t *testing.T) {
	_, err := Load(writeConfig(t, "distance:\n  point_reducer: median\n"))
	assert.ErrorContains(t, err, "point_reducer")

	_, err = Load(writeConfig(t, "concurrency: -1\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "resample: [1, 2]\n"))
	assert.Error(t, err)
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Concurrency)

	_, err = LoadOrDefault(writeConfig(t, "concurrency: -3\n"))
	assert.Error(t, err)
}
