package planar

import (
	"github.com/rs/zerolog"

	"github.com/woozymasta/georef/internal/coords"
)

// Options configure an Engine.
type Options struct {
	// Permissive makes operations return zero values instead of errors.
	Permissive bool
	// Logger receives suppressed errors at debug level. Nil disables logging.
	Logger *zerolog.Logger
}

// Engine runs the geometry operations on points of any supported form and
// returns results in the form of the first point argument.
type Engine struct {
	permissive bool
	log        zerolog.Logger
}

// NewEngine creates an engine.
func NewEngine(opts Options) *Engine {
	e := &Engine{permissive: opts.Permissive, log: zerolog.Nop()}
	if opts.Logger != nil {
		e.log = opts.Logger.With().Str("component", "planar").Logger()
	}
	return e
}

func (e *Engine) fail(op string, err error) error {
	if !e.permissive {
		return err
	}
	e.log.Debug().Err(err).Str("op", op).Msg("Geometry error suppressed")
	return nil
}

// capture converts the points, keeping the form of the first.
func capture(points ...any) ([]coords.Coordinate, coords.Form, error) {
	out := make([]coords.Coordinate, len(points))
	var form coords.Form
	for i, p := range points {
		c, f, err := coords.Capture(p)
		if err != nil {
			return nil, coords.FormUnknown, err
		}
		if i == 0 {
			form = f
		}
		out[i] = c
	}
	return out, form, nil
}

// Midpoint returns the point halfway between a and b.
func (e *Engine) Midpoint(a, b any) (any, error) {
	cs, form, err := capture(a, b)
	if err != nil {
		return nil, e.fail("midpoint", err)
	}
	out, err := form.Wrap(Midpoint(cs[0], cs[1]))
	if err != nil {
		return nil, e.fail("midpoint", err)
	}
	return out, nil
}

// NextPoint continues the direction a->b past b by distance d.
func (e *Engine) NextPoint(a, b any, d float64) (any, error) {
	cs, form, err := capture(a, b)
	if err != nil {
		return nil, e.fail("next point", err)
	}
	c, err := NextPoint(cs[0], cs[1], d)
	if err != nil {
		return nil, e.fail("next point", err)
	}
	out, err := form.Wrap(c)
	if err != nil {
		return nil, e.fail("next point", err)
	}
	return out, nil
}

// NeighboringPoints returns the two points at distance d from center on the
// line of the given slope.
func (e *Engine) NeighboringPoints(center any, d float64, slope *float64) (any, any, error) {
	cs, form, err := capture(center)
	if err != nil {
		return nil, nil, e.fail("neighboring points", err)
	}
	p1, p2, err := NeighboringPoints(cs[0], d, slope)
	if err != nil {
		return nil, nil, e.fail("neighboring points", err)
	}
	o1, err := form.Wrap(p1)
	if err != nil {
		return nil, nil, e.fail("neighboring points", err)
	}
	o2, err := form.Wrap(p2)
	if err != nil {
		return nil, nil, e.fail("neighboring points", err)
	}
	return o1, o2, nil
}

// LineThrough returns the line through a and b.
func (e *Engine) LineThrough(a, b any) (LineEquation, error) {
	cs, _, err := capture(a, b)
	if err != nil {
		return LineEquation{}, e.fail("line through", err)
	}
	return LineThrough(cs[0], cs[1]), nil
}

// Perpendicular returns the line perpendicular to a-b through p.
func (e *Engine) Perpendicular(a, b, p any) (LineEquation, error) {
	cs, _, err := capture(a, b, p)
	if err != nil {
		return LineEquation{}, e.fail("perpendicular", err)
	}
	return Perpendicular(cs[0], cs[1], cs[2]), nil
}

// PointPosition returns the side of a->b that p lies on.
func (e *Engine) PointPosition(a, b, p any) (int, error) {
	cs, _, err := capture(a, b, p)
	if err != nil {
		return 0, e.fail("point position", err)
	}
	return PointPosition(cs[0], cs[1], cs[2]), nil
}

// Distance measures a to b with df, Euclidean when df is nil.
func (e *Engine) Distance(a, b any, df DistanceFunc) (float64, error) {
	cs, _, err := capture(a, b)
	if err != nil {
		return 0, e.fail("distance", err)
	}
	if df == nil {
		df = ProjectedDistance
	}
	return df(cs[0], cs[1]), nil
}
