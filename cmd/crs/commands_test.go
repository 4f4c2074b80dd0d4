package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, format string, cmd interface{ Execute([]string) error }) string {
	t.Helper()
	var buf bytes.Buffer
	stdout = &buf
	opts = Options{Format: format}
	require.NoError(t, cmd.Execute(nil))
	return buf.String()
}

func TestConvertCommand(t *testing.T) {
	out := run(t, "text", &convertCommand{To: "OGC_URN", Args: crsArg{CRS: "EPSG:4326"}})
	assert.Equal(t, "urn:ogc:def:crs:EPSG::4326\n", out)

	out = run(t, "json", &convertCommand{To: "EPSG", Args: crsArg{CRS: "urn:ogc:def:crs:EPSG::4326"}})
	assert.JSONEq(t, `{"EPSG":"EPSG:4326"}`, out)

	out = run(t, "text", &convertCommand{To: "EPSG", Args: crsArg{CRS: "+proj=utm +zone=32 +datum=WGS84"}})
	assert.Equal(t, "EPSG:32632\n", out)
}

func TestDetectCommand(t *testing.T) {
	out := run(t, "yaml", &detectCommand{Args: crsArg{CRS: "http://www.opengis.net/def/crs/EPSG/0/3857"}})
	assert.Equal(t, "notation: OGC_URL\n", out)
}

func TestInfoCommand(t *testing.T) {
	out := run(t, "json", &infoCommand{Args: crsArg{CRS: "EPSG:32633"}})
	var got info
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "projected", got.Kind)
	assert.Equal(t, "EPSG:32633", got.EPSG)
	assert.Equal(t, 33, got.UTMZone)
	assert.Equal(t, "m", got.Unit)
	assert.True(t, got.Valid)
}

func TestUTMAndDistanceCommands(t *testing.T) {
	out := run(t, "text", &utmCommand{Lat: -10, Lon: 20, To: "EPSG"})
	assert.Equal(t, "EPSG:32734\n", out)

	out = run(t, "text", &distanceCommand{CRS: "EPSG:3857", Args: pointArgs{"0", "0", "3", "4"}})
	assert.Equal(t, "5\n", out)
}

func TestReprojectCommand(t *testing.T) {
	out := run(t, "json", &reprojectCommand{From: "EPSG:4326", To: "EPSG:32632", Args: xyArgs{"9", "45"}})
	var got struct{ X, Y float64 }
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.InDelta(t, 500000, got.X, 0.01)
	assert.InDelta(t, 4982950.4, got.Y, 1)
}
