// Package planar holds Euclidean plane geometry on coordinates: lines
// through points, midpoints, offsets along a direction, orientation tests
// and vertex-sampled distances between points and line strings.
package planar

import (
	"fmt"
	"math"

	"github.com/cockroachdb/errors"

	"github.com/woozymasta/georef/internal/coords"
)

var (
	// ErrDegenerateSegment is returned when a direction is requested from two equal points.
	ErrDegenerateSegment = errors.New("degenerate segment")
	// ErrNoRealSolution is returned when no point at the requested distance lies on the line.
	ErrNoRealSolution = errors.New("no real solution")
	// ErrEmptyGeometry is returned for distances against a line without vertices.
	ErrEmptyGeometry = errors.New("empty geometry")
)

// LineEquation is y = Slope*x + Intercept. A vertical line has an
// infinite Slope and carries the y of its defining point as Intercept,
// so it does not identify the line's x.
type LineEquation struct {
	Slope     float64 `json:"slope" yaml:"slope"`
	Intercept float64 `json:"intercept" yaml:"intercept"`
}

// IsVertical reports whether the slope is infinite.
func (l LineEquation) IsVertical() bool {
	return math.IsInf(l.Slope, 0)
}

// At returns y for x. It is NaN for vertical lines.
func (l LineEquation) At(x float64) float64 {
	if l.IsVertical() {
		return math.NaN()
	}
	return l.Slope*x + l.Intercept
}

func (l LineEquation) String() string {
	return fmt.Sprintf("y = %v*x + %v", l.Slope, l.Intercept)
}

// LineThrough returns the line through a and b.
func LineThrough(a, b coords.Coordinate) LineEquation {
	if a.X == b.X {
		return LineEquation{Slope: math.Inf(1), Intercept: a.Y}
	}
	m := (b.Y - a.Y) / (b.X - a.X)
	return LineEquation{Slope: m, Intercept: a.Y - m*a.X}
}

// Perpendicular returns the line perpendicular to segment a-b passing
// through p.
func Perpendicular(a, b, p coords.Coordinate) LineEquation {
	l := LineThrough(a, b)
	switch {
	case l.Slope == 0:
		return LineEquation{Slope: math.Inf(1), Intercept: p.Y}
	case l.IsVertical():
		return LineEquation{Slope: 0, Intercept: p.Y}
	}
	m := -1 / l.Slope
	return LineEquation{Slope: m, Intercept: p.Y - m*p.X}
}
