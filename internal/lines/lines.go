// Package lines builds and prepares orb line strings for distance measurement.
package lines

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/resample"
	"github.com/tidwall/geodesic"

	"github.com/woozymasta/georef/internal/coords"
	"github.com/woozymasta/georef/internal/planar"
)

// ErrNotLinear is returned for geometries that are neither a LineString nor
// a MultiLineString.
var ErrNotLinear = errors.New("geometry is not linear")

// FromPoints builds a line from points in any form the normalizer accepts.
func FromPoints(points []any) (orb.LineString, error) {
	ls := make(orb.LineString, 0, len(points))
	for i, p := range points {
		c, err := coords.ToCoordinate(p)
		if err != nil {
			return nil, errors.Wrapf(err, "vertex %d", i)
		}
		ls = append(ls, c.Point())
	}
	return ls, nil
}

// Explode splits a geometry into its line strings.
func Explode(g orb.Geometry) ([]orb.LineString, error) {
	switch v := g.(type) {
	case orb.LineString:
		return []orb.LineString{v}, nil
	case orb.MultiLineString:
		out := make([]orb.LineString, 0, len(v))
		for _, ls := range v {
			if len(ls) > 0 {
				out = append(out, ls)
			}
		}
		return out, nil
	case nil:
		return nil, errors.Mark(errors.New("nil geometry"), ErrNotLinear)
	default:
		return nil, errors.Mark(errors.Newf("got %s", g.GeoJSONType()), ErrNotLinear)
	}
}

// Resample returns ls with vertices every interval units along its length,
// measured with df. Lines shorter than two vertices and non-positive
// intervals return a copy of ls.
func Resample(ls orb.LineString, interval float64, df planar.DistanceFunc) orb.LineString {
	out := ls.Clone()
	if len(out) < 2 || !(interval > 0) {
		return out
	}
	return resample.ToInterval(out, orbDistance(df), interval)
}

// ConcatDistance measures the gap between the last vertex of l1 and the
// first vertex of l2.
func ConcatDistance(l1, l2 orb.LineString, df planar.DistanceFunc) (float64, error) {
	if len(l1) == 0 || len(l2) == 0 {
		return 0, errors.Mark(errors.New("cannot join an empty line"), planar.ErrEmptyGeometry)
	}
	if df == nil {
		df = planar.ProjectedDistance
	}
	a, b := l1[len(l1)-1], l2[0]
	return df(coords.New(a[0], a[1]), coords.New(b[0], b[1])), nil
}

// Length sums the segment lengths of ls measured with df.
func Length(ls orb.LineString, df planar.DistanceFunc) float64 {
	if df == nil {
		df = planar.ProjectedDistance
	}
	var total float64
	for i := 1; i < len(ls); i++ {
		total += df(coords.New(ls[i-1][0], ls[i-1][1]), coords.New(ls[i][0], ls[i][1]))
	}
	return total
}

// GeodesicLength is the WGS 84 length in metres of a (lon, lat) line.
func GeodesicLength(ls orb.LineString) float64 {
	if len(ls) < 2 {
		return 0
	}
	p := geodesic.WGS84.PolygonInit(true)
	for _, v := range ls {
		p.AddPoint(v[1], v[0])
	}
	var perimeter float64
	p.Compute(false, false, nil, &perimeter)
	return perimeter
}

// Feature is a named line with the properties of the feature it came from.
type Feature struct {
	Properties map[string]any
	Name       string
	Line       orb.LineString
}

// Parse reads lines from GeoJSON (a FeatureCollection, a Feature or a bare
// geometry) or WKT text, one geometry per line. Multi lines are exploded,
// so one input feature may yield several lines.
func Parse(data []byte) ([]orb.LineString, error) {
	fs, err := ParseFeatures(data)
	if err != nil {
		return nil, err
	}
	out := make([]orb.LineString, len(fs))
	for i, f := range fs {
		out[i] = f.Line
	}
	return out, nil
}

// ParseFeatures is Parse keeping feature properties. Lines are named after
// the "name" property, or "line-N" by input position, with a "-M" suffix
// for the parts of a multi line.
func ParseFeatures(data []byte) ([]Feature, error) {
	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, errors.Mark(errors.New("no input"), planar.ErrEmptyGeometry)
	}

	var fc *geojson.FeatureCollection
	if strings.HasPrefix(text, "{") {
		var err error
		switch {
		case strings.Contains(text, `"FeatureCollection"`):
			fc, err = geojson.UnmarshalFeatureCollection(data)
		case strings.Contains(text, `"Feature"`):
			var f *geojson.Feature
			if f, err = geojson.UnmarshalFeature(data); err == nil {
				fc = geojson.NewFeatureCollection().Append(f)
			}
		default:
			var g *geojson.Geometry
			if g, err = geojson.UnmarshalGeometry(data); err == nil {
				fc = geojson.NewFeatureCollection().Append(geojson.NewFeature(g.Geometry()))
			}
		}
		if err != nil {
			return nil, errors.Wrap(err, "decode geojson")
		}
	} else {
		fc = geojson.NewFeatureCollection()
		for _, row := range strings.Split(text, "\n") {
			row = strings.TrimSpace(row)
			if row == "" || strings.HasPrefix(row, "#") {
				continue
			}
			g, err := wkt.Unmarshal(row)
			if err != nil {
				return nil, errors.Wrapf(err, "decode wkt %q", row)
			}
			fc.Append(geojson.NewFeature(g))
		}
	}

	var out []Feature
	for i, f := range fc.Features {
		parts, err := Explode(f.Geometry)
		if err != nil {
			return nil, errors.Wrapf(err, "geometry %d", i)
		}

		name := f.Properties.MustString("name", fmt.Sprintf("line-%d", i))
		for j, ls := range parts {
			n := name
			if len(parts) > 1 {
				n = fmt.Sprintf("%s-%d", name, j)
			}
			out = append(out, Feature{Name: n, Properties: f.Properties, Line: ls})
		}
	}
	return out, nil
}

func orbDistance(df planar.DistanceFunc) orb.DistanceFunc {
	if df == nil {
		df = planar.ProjectedDistance
	}
	return func(a, b orb.Point) float64 {
		return df(coords.New(a[0], a[1]), coords.New(b[0], b[1]))
	}
}
