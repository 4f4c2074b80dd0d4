package main

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/georef/internal/config"
	"github.com/woozymasta/georef/internal/lines"
)

func TestBuildPairs(t *testing.T) {
	features := []lines.Feature{
		{Name: "a", Line: orb.LineString{{0, 0}, {4, 0}}},
		{Name: "b", Line: orb.LineString{{0, 1}, {4, 1}}},
		{Name: "c", Line: orb.LineString{{0, 2}, {4, 2}}},
	}

	pairs, err := buildPairs(features, "", 0, nil)
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, "b", pairs[0].Name)
	assert.Equal(t, features[0].Line, pairs[0].Reference)

	pairs, err = buildPairs(features, "c", 1, nil)
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, "a", pairs[0].Name)
	assert.Len(t, pairs[0].Reference, 5)
	assert.Len(t, pairs[0].Line, 5)
	// inputs are not resampled in place
	assert.Len(t, features[0].Line, 2)

	_, err = buildPairs(features, "missing", 0, nil)
	assert.Error(t, err)
	_, err = buildPairs(features[:1], "", 0, nil)
	assert.Error(t, err)
}

func TestApplyFlags(t *testing.T) {
	cfg := config.Default()
	applyFlags(cfg, &Options{CRS: "EPSG:3857", LineReducer: "max", Concurrency: 2})
	assert.Equal(t, "EPSG:3857", cfg.DefaultCRS)
	assert.Equal(t, "max", cfg.Distance.LineReducer)
	assert.Equal(t, "min", cfg.Distance.PointReducer)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.False(t, cfg.Permissive)
}
