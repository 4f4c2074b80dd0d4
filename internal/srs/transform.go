package srs

import (
	"github.com/cockroachdb/errors"
	"github.com/wroge/wgs84"

	"github.com/woozymasta/georef/internal/coords"
)

type transformFunc = func(a, b, c float64) (a2, b2, c2 float64)

// Transform maps a coordinate from one CRS to another.
type Transform func(c coords.Coordinate) coords.Coordinate

type spheroid struct {
	a, fi float64
}

func (s spheroid) A() float64 {
	return s.a
}

func (s spheroid) Fi() float64 {
	return s.fi
}

func everywhere(lon, lat float64) bool {
	return true
}

func (d Datum) spheroidDatum() wgs84.Datum {
	return wgs84.Datum{
		Spheroid: spheroid{a: d.Ellipsoid.A, fi: d.Ellipsoid.InvFlattening},
		Area:     wgs84.AreaFunc(everywhere),
	}
}

// Transformer returns a function reprojecting coordinates from one CRS to
// another through WGS 84 longitude and latitude. Datum shifts are not
// applied. Geographic, UTM, transverse Mercator and spherical Mercator
// systems are supported.
func (r *Resolver) Transformer(from, to any) (Transform, error) {
	fn, err := r.transformer(from, to)
	return tolerate(r, fn, err)
}

func (r *Resolver) transformer(from, to any) (Transform, error) {
	src, err := r.load(from)
	if err != nil {
		return nil, err
	}
	dst, err := r.load(to)
	if err != nil {
		return nil, err
	}
	fwd, _, err := pivot(src)
	if err != nil {
		return nil, err
	}
	_, inv, err := pivot(dst)
	if err != nil {
		return nil, err
	}
	return func(c coords.Coordinate) coords.Coordinate {
		lon, lat, h := fwd(c.X, c.Y, 0)
		x, y, _ := inv(lon, lat, h)
		return coords.New(x, y)
	}, nil
}

func identity(a, b, c float64) (float64, float64, float64) {
	return a, b, c
}

// pivot returns the conversions of ref to and from WGS 84 longitude and latitude.
func pivot(ref *SpatialReference) (fwd, inv transformFunc, err error) {
	lonLat := wgs84.WGS84().LonLat()
	switch ref.method {
	case "longlat":
		return identity, identity, nil
	case "utm":
		p := utmParams(ref.zone, ref.south)
		tm := ref.datum.spheroidDatum().TransverseMercator(p["lon_0"], p["lat_0"], p["k"], p["x_0"], p["y_0"])
		return wgs84.Transform(tm, lonLat), wgs84.Transform(lonLat, tm), nil
	case "tmerc":
		p := ref.params
		if ref.unit.Factor != 1 {
			break
		}
		tm := ref.datum.spheroidDatum().TransverseMercator(p["lon_0"], p["lat_0"], p["k"], p["x_0"], p["y_0"])
		return wgs84.Transform(tm, lonLat), wgs84.Transform(lonLat, tm), nil
	case "merc":
		if !ref.datum.Ellipsoid.IsSphere() || ref.datum.Ellipsoid.A != 6378137 {
			break
		}
		p := ref.params
		if p["lon_0"] != 0 || p["x_0"] != 0 || p["y_0"] != 0 || p["k"] != 1 {
			break
		}
		wm := wgs84.WebMercator()
		return wgs84.Transform(wm, lonLat), wgs84.Transform(lonLat, wm), nil
	}
	return nil, nil, errors.Mark(errors.Newf("%s (+proj=%s)", ref.Name(), ref.method), ErrUnsupportedTransform)
}
