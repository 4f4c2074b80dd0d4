package processor

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"
)

// ErrOutputExists is returned by SaveGeoJSON when the file exists and force is not set.
var ErrOutputExists = errors.New("output file exists")

// Report builds a feature collection with one feature per pair, carrying
// the pair properties plus "name", "distance" and, for failed pairs, "error".
func Report(pairs []Pair, results []Result) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, p := range pairs {
		f := geojson.NewFeature(p.Line)
		for k, v := range p.Properties {
			f.Properties[k] = v
		}
		if p.Name != "" {
			f.Properties["name"] = p.Name
		}

		if i < len(results) {
			res := results[i]
			if res.Err != nil {
				f.Properties["error"] = res.Err.Error()
			} else {
				f.Properties["distance"] = res.Distance
			}
		}
		fc.Append(f)
	}
	return fc
}

// WriteGeoJSON encodes the feature collection to w.
func WriteGeoJSON(w io.Writer, fc *geojson.FeatureCollection) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(fc)
}

// SaveGeoJSON writes the feature collection to path, creating parent
// directories. An existing file is kept unless force is set.
func SaveGeoJSON(path string, fc *geojson.FeatureCollection, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		log.Debug().Str("path", path).Msg("Report file exists, skipping")
		return errors.Mark(errors.Newf("%s", path), ErrOutputExists)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	return writeAndClose(f, path, fc)
}

// writeAndClose encodes fc to wc and closes it. A close failure is
// returned when the encode succeeded.
func writeAndClose(wc io.WriteCloser, path string, fc *geojson.FeatureCollection) (err error) {
	// We care about write errors on close
	defer func() {
		if closeErr := wc.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Failed to close file")
			if err == nil {
				err = errors.Wrapf(closeErr, "close %s", path)
			}
		}
	}()

	return WriteGeoJSON(wc, fc)
}
