package srs

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

var projAliases = map[string]string{
	"longlat": "longlat",
	"latlong": "longlat",
	"lonlat":  "longlat",
	"latlon":  "longlat",
	"geocent": "geocent",
	"utm":     "utm",
	"tmerc":   "tmerc",
	"merc":    "merc",
	"lcc":     "lcc",
	"laea":    "laea",
	"aea":     "aea",
}

// paramset holds PROJ.4 "+key=value" tokens. Flags have an empty value.
type paramset map[string]string

func parseParamset(s string) (paramset, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, invalidf("empty PROJ.4 definition")
	}
	p := make(paramset, len(fields))
	for _, f := range fields {
		if !strings.HasPrefix(f, "+") {
			return nil, invalidf("PROJ.4 token %q has no leading '+'", f)
		}
		key, val, _ := strings.Cut(f[1:], "=")
		if key == "" {
			return nil, invalidf("PROJ.4 token %q has no key", f)
		}
		p[key] = val
	}
	return p, nil
}

func (p paramset) has(key string) bool {
	_, ok := p[key]
	return ok
}

func (p paramset) float(key string) (float64, bool, error) {
	v, ok := p[key]
	if !ok {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, true, errors.Mark(errors.Wrapf(err, "+%s", key), ErrInvalidCRSDefinition)
	}
	return f, true, nil
}

func (p paramset) floats(key string) ([]float64, error) {
	v, ok := p[key]
	if !ok {
		return nil, nil
	}
	parts := strings.Split(v, ",")
	out := make([]float64, 0, len(parts))
	for _, s := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "+%s", key), ErrInvalidCRSDefinition)
		}
		out = append(out, f)
	}
	return out, nil
}

// parseProj4 builds a reference from a PROJ.4 definition. Parameters PROJ
// would ignore are ignored here too; +init is resolved by the caller.
func parseProj4(s string) (*SpatialReference, error) {
	p, err := parseParamset(s)
	if err != nil {
		return nil, err
	}

	name, ok := p["proj"]
	if !ok {
		return nil, invalidf("PROJ.4 definition has no +proj")
	}
	method, ok := projAliases[name]
	if !ok {
		return nil, invalidf("unsupported projection +proj=%s", name)
	}

	ref := &SpatialReference{
		method: method,
		primem: greenwich,
		unit:   metre,
		params: map[string]float64{},
	}
	switch method {
	case "longlat":
		ref.kind = KindGeographic
	case "geocent":
		ref.kind = KindGeocentric
	default:
		ref.kind = KindProjected
	}

	if ref.datum, err = p.datum(); err != nil {
		return nil, err
	}
	if ref.primem, err = p.primeMeridian(); err != nil {
		return nil, err
	}
	if ref.unit, err = p.linearUnit(); err != nil {
		return nil, err
	}
	ref.nadgrids = p["nadgrids"]

	if method == "utm" {
		z, ok := p["zone"]
		if !ok {
			return nil, invalidf("+proj=utm requires +zone")
		}
		if ref.zone, err = strconv.Atoi(z); err != nil {
			return nil, errors.Mark(errors.Wrap(err, "+zone"), ErrInvalidCRSDefinition)
		}
		ref.south = p.has("south")
	} else if proj, ok := projections[method]; ok {
		for _, key := range proj.params {
			alias := key
			if key == "k" && !p.has("k") {
				alias = "k_0"
			}
			v, ok, err := p.float(alias)
			if err != nil {
				return nil, err
			}
			if ok {
				ref.params[key] = v
			}
		}
		normalizeParams(method, ref.params)
		detectUTM(ref)
	}

	if ref.kind == KindGeographic {
		ref.name = ref.geographicName()
	}
	return ref, nil
}

func (p paramset) datum() (Datum, error) {
	towgs84, err := p.floats("towgs84")
	if err != nil {
		return Datum{}, err
	}

	if key, ok := p["datum"]; ok {
		d, ok := datums[key]
		if !ok {
			return Datum{}, invalidf("unknown datum +datum=%s", key)
		}
		if towgs84 != nil {
			d.ToWGS84 = towgs84
		}
		return d, nil
	}

	var e Ellipsoid
	var key string
	switch {
	case p.has("ellps"):
		key = p["ellps"]
		known, ok := ellipsoids[key]
		if !ok {
			return Datum{}, invalidf("unknown ellipsoid +ellps=%s", key)
		}
		e = known
	case p.has("R"):
		r, _, err := p.float("R")
		if err != nil {
			return Datum{}, err
		}
		e = Ellipsoid{Name: "unnamed", A: r}
	case p.has("a"):
		a, _, err := p.float("a")
		if err != nil {
			return Datum{}, err
		}
		e = Ellipsoid{Name: "unnamed", A: a}
		if rf, ok, err := p.float("rf"); err != nil {
			return Datum{}, err
		} else if ok {
			e.InvFlattening = rf
		} else if f, ok, err := p.float("f"); err != nil {
			return Datum{}, err
		} else if ok && f != 0 {
			e.InvFlattening = 1 / f
		} else if b, ok, err := p.float("b"); err != nil {
			return Datum{}, err
		} else if ok && b != a {
			e.InvFlattening = a / (a - b)
		}
		key = ellipsoidKey(e)
	default:
		return datums["WGS84"], nil
	}

	d := Datum{Name: "unknown", Ellipsoid: e, EllipsoidKey: key, ToWGS84: towgs84}
	if e.Name != "unnamed" {
		d.Name = "Unknown_based_on_" + strings.ReplaceAll(e.Name, " ", "_") + "_ellipsoid"
	}
	return d, nil
}

func (p paramset) primeMeridian() (PrimeMeridian, error) {
	v, ok := p["pm"]
	if !ok {
		return greenwich, nil
	}
	switch strings.ToLower(v) {
	case "greenwich":
		return greenwich, nil
	case "paris":
		return PrimeMeridian{Name: "Paris", Longitude: 2.33722917}, nil
	case "ferro":
		return PrimeMeridian{Name: "Ferro", Longitude: -17.66666666666667}, nil
	}
	lon, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return PrimeMeridian{}, invalidf("prime meridian +pm=%s", v)
	}
	return PrimeMeridian{Name: "unnamed", Longitude: lon}, nil
}

func (p paramset) linearUnit() (LinearUnit, error) {
	if key, ok := p["units"]; ok {
		u, ok := linearUnits[key]
		if !ok {
			return LinearUnit{}, invalidf("unknown unit +units=%s", key)
		}
		return u, nil
	}
	f, ok, err := p.float("to_meter")
	if err != nil {
		return LinearUnit{}, err
	}
	if ok {
		return unitFromFactor("unknown", f), nil
	}
	return metre, nil
}

// formatProj4 writes the canonical PROJ.4 form of ref: parameters in a
// fixed per-method order, the datum as +datum, +ellps or explicit axes.
func formatProj4(ref *SpatialReference) string {
	parts := []string{"+proj=" + ref.method}

	if ref.method == "utm" {
		parts = append(parts, "+zone="+strconv.Itoa(ref.zone))
		if ref.south {
			parts = append(parts, "+south")
		}
	} else if proj, ok := projections[ref.method]; ok {
		for _, key := range proj.params {
			if v, ok := ref.params[key]; ok {
				parts = append(parts, "+"+key+"="+formatFloat(v))
			}
		}
	}

	d := ref.datum
	switch {
	case d.Key != "":
		parts = append(parts, "+datum="+d.Key)
	case d.EllipsoidKey != "":
		parts = append(parts, "+ellps="+d.EllipsoidKey)
	case d.Ellipsoid.IsSphere():
		a := formatFloat(d.Ellipsoid.A)
		parts = append(parts, "+a="+a, "+b="+a)
	default:
		parts = append(parts, "+a="+formatFloat(d.Ellipsoid.A), "+rf="+formatFloat(d.Ellipsoid.InvFlattening))
	}
	if d.Key == "" && len(d.ToWGS84) > 0 {
		parts = append(parts, "+towgs84="+joinFloats(d.ToWGS84))
	}
	if ref.primem.Longitude != 0 {
		parts = append(parts, "+pm="+formatFloat(ref.primem.Longitude))
	}
	if ref.kind != KindGeographic {
		if ref.unit.Key != "" {
			parts = append(parts, "+units="+ref.unit.Key)
		} else {
			parts = append(parts, "+to_meter="+formatFloat(ref.unit.Factor))
		}
	}
	if ref.nadgrids != "" {
		parts = append(parts, "+nadgrids="+ref.nadgrids, "+wktext")
	}
	parts = append(parts, "+no_defs")
	return strings.Join(parts, " ")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func joinFloats(vs []float64) string {
	s := make([]string, len(vs))
	for i, v := range vs {
		s[i] = formatFloat(v)
	}
	return strings.Join(s, ",")
}
