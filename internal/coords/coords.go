// Package coords normalizes external point representations into a single
// two-component Coordinate and re-wraps coordinates back into the caller's form.
package coords

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

var (
	// ErrUnsupportedInputType is returned for values that are not a recognized point form.
	ErrUnsupportedInputType = errors.New("unsupported coordinate input type")
	// ErrUnsupportedTargetType is returned when re-wrapping into an unknown form.
	ErrUnsupportedTargetType = errors.New("unsupported coordinate target type")
)

// Coordinate is a planar (x, y) or geographic (lon, lat) position.
// It carries no CRS; callers track the system a coordinate belongs to.
type Coordinate struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

var _ orb.Pointer = Coordinate{}

// New returns the coordinate (x, y).
func New(x, y float64) Coordinate {
	return Coordinate{X: x, Y: y}
}

// Point returns the coordinate as an orb point.
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.X, c.Y}
}

// Add returns c + o.
func (c Coordinate) Add(o Coordinate) Coordinate {
	return Coordinate{X: c.X + o.X, Y: c.Y + o.Y}
}

// Sub returns c - o.
func (c Coordinate) Sub(o Coordinate) Coordinate {
	return Coordinate{X: c.X - o.X, Y: c.Y - o.Y}
}

// Scale returns c * k.
func (c Coordinate) Scale(k float64) Coordinate {
	return Coordinate{X: c.X * k, Y: c.Y * k}
}

// Length is the Euclidean norm of c seen as a vector.
func (c Coordinate) Length() float64 {
	return math.Hypot(c.X, c.Y)
}

// Equal reports whether both components are exactly equal.
func (c Coordinate) Equal(o Coordinate) bool {
	return c.X == o.X && c.Y == o.Y
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%v, %v)", c.X, c.Y)
}

// ToCoordinate converts any supported point form into a Coordinate.
// Only the first two components are used, a third (z) is dropped.
func ToCoordinate(v any) (Coordinate, error) {
	c, _, err := Capture(v)
	return c, err
}

// FormOf returns the form tag of a supported point value.
func FormOf(v any) (Form, error) {
	_, f, err := Capture(v)
	return f, err
}

// Capture converts v into a Coordinate and returns the form it was given in,
// so that results can be handed back in the same representation.
func Capture(v any) (Coordinate, Form, error) {
	switch p := v.(type) {
	case Coordinate:
		return p, FormCoordinate, nil
	case *Coordinate:
		if p == nil {
			return Coordinate{}, FormUnknown, unsupportedInput(v, "nil pointer")
		}
		return *p, FormCoordinate, nil
	case orb.Point:
		return Coordinate{X: p[0], Y: p[1]}, FormPoint, nil
	case geojson.Point:
		return Coordinate{X: p[0], Y: p[1]}, FormGeoJSON, nil
	case [2]float64:
		return Coordinate{X: p[0], Y: p[1]}, FormArray, nil
	case [3]float64:
		return Coordinate{X: p[0], Y: p[1]}, FormTriple, nil
	case []float64:
		if len(p) < 2 {
			return Coordinate{}, FormUnknown, unsupportedInput(v, fmt.Sprintf("%d components", len(p)))
		}
		return Coordinate{X: p[0], Y: p[1]}, FormSlice, nil
	case []any:
		if len(p) < 2 {
			return Coordinate{}, FormUnknown, unsupportedInput(v, fmt.Sprintf("%d components", len(p)))
		}
		x, okX := toFloat(p[0])
		y, okY := toFloat(p[1])
		if !okX || !okY {
			return Coordinate{}, FormUnknown, unsupportedInput(v, "non-numeric component")
		}
		return Coordinate{X: x, Y: y}, FormAny, nil
	case orb.Pointer:
		pt := p.Point()
		return Coordinate{X: pt[0], Y: pt[1]}, FormPoint, nil
	}

	return Coordinate{}, FormUnknown, unsupportedInput(v, "unknown type")
}

// FromCoordinate re-wraps c into the given form.
func FromCoordinate(c Coordinate, f Form) (any, error) {
	return f.Wrap(c)
}

func unsupportedInput(v any, reason string) error {
	return errors.Mark(errors.Newf("coordinate of type %T: %s", v, reason), ErrUnsupportedInputType)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
