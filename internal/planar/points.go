package planar

import (
	"math"

	"github.com/cockroachdb/errors"

	"github.com/woozymasta/georef/internal/coords"
)

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b coords.Coordinate) coords.Coordinate {
	return coords.New((a.X+b.X)/2, (a.Y+b.Y)/2)
}

// NextPoint continues the direction a->b past b by distance d.
// A negative d steps back towards a.
func NextPoint(a, b coords.Coordinate, d float64) (coords.Coordinate, error) {
	v := b.Sub(a)
	n := v.Length()
	if n == 0 {
		return coords.Coordinate{}, errors.Mark(errors.Newf("direction from %s to itself", a), ErrDegenerateSegment)
	}
	return b.Add(v.Scale(d / n)), nil
}

// Determinant is the cross product of a->b and a->p: positive when p is
// left of the directed segment, negative when right, zero when collinear.
func Determinant(a, b, p coords.Coordinate) float64 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

// PointPosition returns 1 when p is left of a->b, -1 when right and 0 when
// the three points are collinear.
func PointPosition(a, b, p coords.Coordinate) int {
	det := Determinant(a, b, p)
	switch {
	case det > 0:
		return 1
	case det < 0:
		return -1
	}
	return 0
}

// NeighboringPoints returns the two points at distance d from center on the
// line of the given slope through center. A nil or infinite slope means a
// vertical line and yields (x, y+d), (x, y-d). Otherwise the root with the
// positive square root comes first.
func NeighboringPoints(center coords.Coordinate, d float64, slope *float64) (coords.Coordinate, coords.Coordinate, error) {
	x, y := center.X, center.Y
	if slope == nil || math.IsInf(*slope, 0) {
		return coords.New(x, y+d), coords.New(x, y-d), nil
	}

	m := *slope
	q := y - m*x
	a := 1 + m*m
	b := -2*x + 2*m*(q-y)
	c := x*x + (q-y)*(q-y) - d*d

	disc := b*b - 4*a*c
	if !(disc >= 0) {
		return coords.Coordinate{}, coords.Coordinate{}, errors.Mark(
			errors.Newf("discriminant %v for slope %v and distance %v", disc, m, d), ErrNoRealSolution)
	}

	s := math.Sqrt(disc)
	x1 := (-b + s) / (2 * a)
	x2 := (-b - s) / (2 * a)
	return coords.New(x1, m*x1+q), coords.New(x2, m*x2+q), nil
}
