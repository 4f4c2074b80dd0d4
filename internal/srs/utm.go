package srs

import (
	"math"

	"github.com/cockroachdb/errors"
)

// UTMCode returns the EPSG code of the WGS 84 UTM zone containing the
// point: 326xx north of the equator (lat >= 0), 327xx south of it.
// The zone is floor((lon+180)/6)+1 with no wrapping, so lon = 180 yields
// zone 61, which has no registered system.
func UTMCode(lat, lon float64) int {
	zone := int(math.Floor((lon+180)/6)) + 1
	if lat >= 0 {
		return 32600 + zone
	}
	return 32700 + zone
}

// UTM returns the UTM system containing the point.
func (r *Resolver) UTM(lat, lon float64) (*SpatialReference, error) {
	ref, err := r.utm(lat, lon)
	return tolerate(r, ref, err)
}

func (r *Resolver) utm(lat, lon float64) (*SpatialReference, error) {
	code := UTMCode(lat, lon)
	ref, err := r.FromEPSG(code)
	if err != nil {
		hemisphere := "N"
		if lat < 0 {
			hemisphere = "S"
		}
		return nil, errors.Mark(errors.Newf("EPSG:%d for zone %d%s", code, code%100, hemisphere), ErrInvalidUTMZone)
	}
	return ref, nil
}

// UTMNotation returns the UTM system containing the point written in n.
func (r *Resolver) UTMNotation(lat, lon float64, n Notation) (string, error) {
	ref, err := r.utm(lat, lon)
	if err != nil {
		return tolerate(r, "", err)
	}
	s, err := ref.Export(n)
	return tolerate(r, s, err)
}
