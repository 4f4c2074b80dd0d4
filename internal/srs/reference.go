package srs

import (
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/woozymasta/georef/internal/units"
)

// Kind classifies a CRS.
type Kind int

// CRS kinds.
const (
	KindUnknown Kind = iota
	KindGeographic
	KindProjected
	KindGeocentric
)

func (k Kind) String() string {
	switch k {
	case KindGeographic:
		return "geographic"
	case KindProjected:
		return "projected"
	case KindGeocentric:
		return "geocentric"
	}
	return "unknown"
}

// SpatialReference is a parsed CRS. Values are immutable once built and
// safe to share between goroutines.
type SpatialReference struct {
	name      string
	geogName  string
	kind      Kind
	authority string
	code      string

	datum  Datum
	primem PrimeMeridian
	unit   LinearUnit

	// method is the PROJ.4 projection name: longlat, geocent, utm, tmerc,
	// merc, lcc, laea or aea.
	method   string
	params   map[string]float64
	zone     int
	south    bool
	nadgrids string
}

// Name returns the CRS name, "unknown" when it has none.
func (r *SpatialReference) Name() string {
	if r.name == "" {
		return "unknown"
	}
	return r.name
}

// Kind returns the CRS kind.
func (r *SpatialReference) Kind() Kind { return r.kind }

// IsGeographic reports whether coordinates are longitude and latitude.
func (r *SpatialReference) IsGeographic() bool { return r.kind == KindGeographic }

// IsProjected reports whether coordinates are planar map units.
func (r *SpatialReference) IsProjected() bool { return r.kind == KindProjected }

// Datum returns the geodetic datum.
func (r *SpatialReference) Datum() Datum { return r.datum }

// Method returns the PROJ.4 projection name.
func (r *SpatialReference) Method() string { return r.method }

// Param returns a projection parameter by its PROJ.4 key.
func (r *SpatialReference) Param(key string) (float64, bool) {
	v, ok := r.params[key]
	return v, ok
}

// Params returns a copy of the projection parameters.
func (r *SpatialReference) Params() map[string]float64 {
	out := make(map[string]float64, len(r.params))
	for k, v := range r.params {
		out[k] = v
	}
	return out
}

// UTMZone returns the zone and hemisphere of a UTM system.
func (r *SpatialReference) UTMZone() (zone int, south bool, ok bool) {
	if r.method != "utm" {
		return 0, false, false
	}
	return r.zone, r.south, true
}

// Authority returns the authority name and code, if any.
func (r *SpatialReference) Authority() (name, code string, ok bool) {
	if r.authority == "" || r.code == "" {
		return "", "", false
	}
	return r.authority, r.code, true
}

// EPSG returns the numeric authority code.
func (r *SpatialReference) EPSG() (int, error) {
	_, code, ok := r.Authority()
	if !ok {
		return 0, errors.Mark(errors.Newf("%s has no authority code", r.Name()), ErrMissingAuthorityCode)
	}
	n, err := strconv.Atoi(code)
	if err != nil {
		return 0, errors.Mark(errors.Wrapf(err, "authority code %q", code), ErrMissingAuthorityCode)
	}
	return n, nil
}

// Unit returns the kind of unit coordinates of this CRS are measured in.
func (r *SpatialReference) Unit() units.Kind {
	if r.IsGeographic() {
		return units.Degrees
	}
	return units.Meters
}

// LinearUnit returns the length unit of a projected or geocentric CRS.
func (r *SpatialReference) LinearUnit() LinearUnit { return r.unit }

// FromMeters converts a distance in metres into units of this CRS,
// using the equatorial degree length for geographic systems.
func (r *SpatialReference) FromMeters(m float64) float64 {
	if r.IsGeographic() {
		return units.MetersToDegrees(m)
	}
	return m
}

// FromMetersAt is FromMeters with the degree length taken at latitude lat.
func (r *SpatialReference) FromMetersAt(m, lat float64) float64 {
	if r.IsGeographic() {
		return units.MetersToDegreesAt(m, lat)
	}
	return m
}

// FromDegrees converts a distance in degrees into units of this CRS.
func (r *SpatialReference) FromDegrees(dg float64) float64 {
	if r.IsGeographic() {
		return dg
	}
	return units.DegreesToMeters(dg)
}

// FromDegreesAt is FromDegrees with the degree length taken at latitude lat.
func (r *SpatialReference) FromDegreesAt(dg, lat float64) float64 {
	if r.IsGeographic() {
		return dg
	}
	return units.DegreesToMetersAt(dg, lat)
}

// IsValid reports whether Validate succeeds.
func (r *SpatialReference) IsValid() bool {
	return r.Validate() == nil
}

// Validate checks the definition for internal consistency.
func (r *SpatialReference) Validate() error {
	if r.kind == KindUnknown {
		return invalidf("unknown CRS kind")
	}

	e := r.datum.Ellipsoid
	if !(e.A > 0) || math.IsInf(e.A, 0) {
		return invalidf("semi-major axis %v", e.A)
	}
	if e.InvFlattening < 0 || (e.InvFlattening > 0 && e.InvFlattening <= 1) {
		return invalidf("inverse flattening %v", e.InvFlattening)
	}
	if n := len(r.datum.ToWGS84); n != 0 && n != 3 && n != 7 {
		return invalidf("towgs84 has %d parameters", n)
	}
	if math.Abs(r.primem.Longitude) > 180 {
		return invalidf("prime meridian %v", r.primem.Longitude)
	}
	if r.kind != KindGeographic && !(r.unit.Factor > 0) {
		return invalidf("linear unit factor %v", r.unit.Factor)
	}
	if r.kind != KindProjected {
		return nil
	}

	if _, ok := projections[r.method]; !ok {
		return invalidf("projection %q", r.method)
	}
	if r.method == "utm" && (r.zone < 1 || r.zone > 60) {
		return invalidf("UTM zone %d", r.zone)
	}
	for key, v := range r.params {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return invalidf("parameter %s=%v", key, v)
		}
		switch {
		case strings.HasPrefix(key, "lat_"):
			if math.Abs(v) > 90 {
				return invalidf("latitude %s=%v", key, v)
			}
		case key == "lon_0":
			if math.Abs(v) > 180 {
				return invalidf("longitude %s=%v", key, v)
			}
		case key == "k":
			if v <= 0 {
				return invalidf("scale factor %v", v)
			}
		}
	}
	return nil
}

func (r *SpatialReference) clone() *SpatialReference {
	c := *r
	c.params = make(map[string]float64, len(r.params))
	for k, v := range r.params {
		c.params[k] = v
	}
	if r.datum.ToWGS84 != nil {
		c.datum.ToWGS84 = append([]float64(nil), r.datum.ToWGS84...)
	}
	return &c
}

// withAuthority returns a copy carrying the given name and authority code.
func (r *SpatialReference) withAuthority(name, authority, code string) *SpatialReference {
	c := r.clone()
	if name != "" {
		c.name = name
	}
	c.authority = authority
	c.code = code
	return c
}

// geographicName is the name of the base geographic CRS.
func (r *SpatialReference) geographicName() string {
	if r.geogName != "" {
		return r.geogName
	}
	if name, ok := geographicNames[r.datum.Key]; ok {
		return name
	}
	return "unknown"
}
