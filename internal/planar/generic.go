package planar

import "github.com/woozymasta/georef/internal/coords"

// MidpointOf is Midpoint on typed points.
func MidpointOf[P coords.Point](a, b P) (P, error) {
	var zero P
	ca, err := coords.Of(a)
	if err != nil {
		return zero, err
	}
	cb, err := coords.Of(b)
	if err != nil {
		return zero, err
	}
	return coords.As[P](Midpoint(ca, cb)), nil
}

// NextPointOf is NextPoint on typed points.
func NextPointOf[P coords.Point](a, b P, d float64) (P, error) {
	var zero P
	ca, err := coords.Of(a)
	if err != nil {
		return zero, err
	}
	cb, err := coords.Of(b)
	if err != nil {
		return zero, err
	}
	c, err := NextPoint(ca, cb, d)
	if err != nil {
		return zero, err
	}
	return coords.As[P](c), nil
}

// NeighboringPointsOf is NeighboringPoints on a typed point.
func NeighboringPointsOf[P coords.Point](center P, d float64, slope *float64) (P, P, error) {
	var zero P
	c, err := coords.Of(center)
	if err != nil {
		return zero, zero, err
	}
	p1, p2, err := NeighboringPoints(c, d, slope)
	if err != nil {
		return zero, zero, err
	}
	return coords.As[P](p1), coords.As[P](p2), nil
}
