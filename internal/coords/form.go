package coords

import (
	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Form tags the external representation a point was supplied in.
type Form int

// Supported point forms.
const (
	FormUnknown    Form = iota
	FormCoordinate      // Coordinate
	FormSlice           // []float64
	FormArray           // [2]float64
	FormTriple          // [3]float64, z is zero on the way back
	FormPoint           // orb.Point, also used for any orb.Pointer
	FormGeoJSON         // geojson.Point
	FormAny             // []any of numbers, as decoded from JSON or YAML
)

var formNames = map[Form]string{
	FormCoordinate: "coordinate",
	FormSlice:      "slice",
	FormArray:      "array",
	FormTriple:     "triple",
	FormPoint:      "point",
	FormGeoJSON:    "geojson",
	FormAny:        "any",
}

func (f Form) String() string {
	if name, ok := formNames[f]; ok {
		return name
	}
	return "unknown"
}

// Wrap converts c into the representation tagged by f.
func (f Form) Wrap(c Coordinate) (any, error) {
	switch f {
	case FormCoordinate:
		return c, nil
	case FormSlice:
		return []float64{c.X, c.Y}, nil
	case FormArray:
		return [2]float64{c.X, c.Y}, nil
	case FormTriple:
		return [3]float64{c.X, c.Y, 0}, nil
	case FormPoint:
		return orb.Point{c.X, c.Y}, nil
	case FormGeoJSON:
		return geojson.Point{c.X, c.Y}, nil
	case FormAny:
		return []any{c.X, c.Y}, nil
	}

	return nil, errors.Mark(errors.Newf("form %d", int(f)), ErrUnsupportedTargetType)
}

// Point is the set of point types accepted by the generic helpers.
type Point interface {
	Coordinate | []float64 | [2]float64 | [3]float64 | orb.Point | geojson.Point
}

// Of converts a typed point into a Coordinate.
func Of[P Point](p P) (Coordinate, error) {
	return ToCoordinate(any(p))
}

// As converts c into the point type P.
func As[P Point](c Coordinate) P {
	var zero P
	var out any
	switch any(zero).(type) {
	case Coordinate:
		out = c
	case []float64:
		out = []float64{c.X, c.Y}
	case [2]float64:
		out = [2]float64{c.X, c.Y}
	case [3]float64:
		out = [3]float64{c.X, c.Y, 0}
	case orb.Point:
		out = orb.Point{c.X, c.Y}
	case geojson.Point:
		out = geojson.Point{c.X, c.Y}
	}
	return out.(P)
}
