package planar

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb"
	"github.com/tidwall/geodesic"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/woozymasta/georef/internal/coords"
	"github.com/woozymasta/georef/internal/units"
)

// DistanceFunc measures the distance between two coordinates.
type DistanceFunc func(a, b coords.Coordinate) float64

// Reducer folds a non-empty sequence of distances into one value.
type Reducer func([]float64) float64

// Reducers used by LineDistance. PerPoint reduces the distances from one
// vertex of the second line to all vertices of the first, Overall reduces
// the per-vertex results. Nil fields default to Min.
type Reducers struct {
	PerPoint Reducer
	Overall  Reducer
}

// Built-in reducers.
var (
	Min  Reducer = floats.Min
	Max  Reducer = floats.Max
	Sum  Reducer = floats.Sum
	Mean Reducer = func(v []float64) float64 { return stat.Mean(v, nil) }
)

var reducers = map[string]Reducer{
	"min":  Min,
	"max":  Max,
	"mean": Mean,
	"sum":  Sum,
}

// ReducerByName returns the reducer called min, max, mean or sum.
func ReducerByName(name string) (Reducer, error) {
	r, ok := reducers[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, errors.Newf("unknown reducer %q", name)
	}
	return r, nil
}

// ProjectedDistance is the Euclidean distance in map units.
func ProjectedDistance(a, b coords.Coordinate) float64 {
	return floats.Distance([]float64{a.X, a.Y}, []float64{b.X, b.Y}, 2)
}

// GeographicDistance is the WGS 84 geodesic distance between two
// (lon=X, lat=Y) coordinates, expressed in degrees using the degree length
// at their mean latitude.
func GeographicDistance(a, b coords.Coordinate) float64 {
	return units.MetersToDegreesAt(GeodesicMeters(a, b), (a.Y+b.Y)/2)
}

// GeodesicMeters is the WGS 84 geodesic distance in metres between two
// (lon=X, lat=Y) coordinates.
func GeodesicMeters(a, b coords.Coordinate) float64 {
	var s12 float64
	geodesic.WGS84.Inverse(a.Y, a.X, b.Y, b.X, &s12, nil, nil)
	return s12
}

// PointDistances returns the distance from p to every vertex of line.
func PointDistances(line orb.LineString, p coords.Coordinate, df DistanceFunc) []float64 {
	if df == nil {
		df = ProjectedDistance
	}
	out := make([]float64, len(line))
	for i, v := range line {
		out[i] = df(p, coords.New(v[0], v[1]))
	}
	return out
}

// PointDistance reduces the vertex distances from p to line, by default to
// their minimum. Only vertices are considered, not the segments between them.
func PointDistance(line orb.LineString, p coords.Coordinate, df DistanceFunc, reduce Reducer) (float64, error) {
	if len(line) == 0 {
		return 0, errors.Mark(errors.New("line has no vertices"), ErrEmptyGeometry)
	}
	if reduce == nil {
		reduce = Min
	}
	return reduce(PointDistances(line, p, df)), nil
}

// LineDistances returns PointDistance for every vertex of l2 against l1.
func LineDistances(l1, l2 orb.LineString, df DistanceFunc, perPoint Reducer) ([]float64, error) {
	if len(l1) == 0 || len(l2) == 0 {
		return nil, errors.Mark(errors.Newf("lines have %d and %d vertices", len(l1), len(l2)), ErrEmptyGeometry)
	}
	out := make([]float64, len(l2))
	for i, v := range l2 {
		d, err := PointDistance(l1, coords.New(v[0], v[1]), df, perPoint)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

// LineDistance is a vertex-sampled distance between two lines: every
// vertex of l2 is measured against l1 with the PerPoint reducer and the
// results are reduced with Overall. PerPoint Min with Overall Max gives
// the discrete directed Hausdorff distance.
func LineDistance(l1, l2 orb.LineString, df DistanceFunc, r Reducers) (float64, error) {
	overall := r.Overall
	if overall == nil {
		overall = Min
	}
	ds, err := LineDistances(l1, l2, df, r.PerPoint)
	if err != nil {
		return 0, err
	}
	return overall(ds), nil
}
