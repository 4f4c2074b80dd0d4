package srs

import "strings"

var (
	geographicKeywords = []string{"GEOGCS", "GEOGCRS", "GEOGRAPHICCRS", "BASEGEOGCRS", "BASEGEODCRS"}
	projectedKeywords  = []string{"PROJCS", "PROJCRS", "PROJECTEDCRS"}
	geodeticKeywords   = []string{"GEODCRS", "GEODETICCRS", "GEOCCS"}
	datumKeywords      = []string{"DATUM", "GEODETICDATUM", "TRF", "ENSEMBLE"}
	ellipsoidKeywords  = []string{"SPHEROID", "ELLIPSOID"}
	authorityKeywords  = []string{"AUTHORITY", "ID"}
	lengthUnitKeywords = []string{"UNIT", "LENGTHUNIT"}
)

// parseWKT builds a reference from WKT1 or WKT2 text.
func parseWKT(s string) (*SpatialReference, error) {
	root, err := parseWKTTree(s)
	if err != nil {
		return nil, err
	}

	var ref *SpatialReference
	switch {
	case keywordIn(root.keyword, geographicKeywords):
		ref, err = wktGeographic(root)
	case keywordIn(root.keyword, projectedKeywords):
		ref, err = wktProjected(root)
	case keywordIn(root.keyword, geodeticKeywords):
		ref, err = wktGeodetic(root)
	default:
		return nil, invalidf("unsupported WKT element %s", root.keyword)
	}
	if err != nil {
		return nil, err
	}

	if auth := root.child(authorityKeywords...); auth != nil {
		ref.authority = strings.ToUpper(auth.text(0))
		ref.code = auth.text(1)
	}
	return ref, nil
}

func wktDatum(n *wktNode) (Datum, PrimeMeridian, error) {
	dn := n.child(datumKeywords...)
	if dn == nil {
		return Datum{}, PrimeMeridian{}, invalidf("%s has no DATUM", n.keyword)
	}
	en := dn.child(ellipsoidKeywords...)
	if en == nil {
		return Datum{}, PrimeMeridian{}, invalidf("DATUM %q has no ellipsoid", dn.name())
	}
	a, okA := en.number(1)
	rf, okRF := en.number(2)
	if !okA || !okRF {
		return Datum{}, PrimeMeridian{}, invalidf("ellipsoid %q needs axis and inverse flattening", en.name())
	}
	e := Ellipsoid{Name: en.name(), A: a, InvFlattening: rf}

	var towgs84 []float64
	if tn := dn.child("TOWGS84"); tn != nil {
		for i := range tn.args {
			v, ok := tn.number(i)
			if !ok {
				return Datum{}, PrimeMeridian{}, invalidf("TOWGS84 argument %d", i)
			}
			towgs84 = append(towgs84, v)
		}
	}
	d := datumFromName(dn.name(), e, towgs84)

	pm := greenwich
	if pn := n.child("PRIMEM", "PRIMEMERIDIAN"); pn != nil {
		lon, _ := pn.number(1)
		pm = PrimeMeridian{Name: pn.name(), Longitude: lon}
	}
	return d, pm, nil
}

func wktGeographic(n *wktNode) (*SpatialReference, error) {
	d, pm, err := wktDatum(n)
	if err != nil {
		return nil, err
	}
	return &SpatialReference{
		name:     n.name(),
		geogName: n.name(),
		kind:     KindGeographic,
		datum:    d,
		primem:   pm,
		method:   "longlat",
		params:   map[string]float64{},
	}, nil
}

// wktGeodetic handles GEOCCS and WKT2 GEODCRS, which is geocentric only
// with a Cartesian coordinate system.
func wktGeodetic(n *wktNode) (*SpatialReference, error) {
	if !strings.EqualFold(n.keyword, "GEOCCS") {
		cs := n.child("CS")
		if cs == nil || !strings.EqualFold(cs.text(0), "Cartesian") {
			return wktGeographic(n)
		}
	}
	d, pm, err := wktDatum(n)
	if err != nil {
		return nil, err
	}
	return &SpatialReference{
		name:     n.name(),
		geogName: n.name(),
		kind:     KindGeocentric,
		datum:    d,
		primem:   pm,
		unit:     wktLinearUnit(n),
		method:   "geocent",
		params:   map[string]float64{},
	}, nil
}

func wktProjected(n *wktNode) (*SpatialReference, error) {
	base := n.child(geographicKeywords...)
	if base == nil {
		return nil, invalidf("%s %q has no base geographic CRS", n.keyword, n.name())
	}
	geog, err := wktGeographic(base)
	if err != nil {
		return nil, err
	}

	if ext := n.child("EXTENSION"); ext != nil && strings.EqualFold(ext.text(0), "PROJ4") {
		ref, err := parseProj4(ext.text(1))
		if err != nil {
			return nil, err
		}
		ref.name = n.name()
		ref.geogName = geog.name
		return ref, nil
	}

	conv := n
	if c := n.child("CONVERSION"); c != nil {
		conv = c
	}
	pn := conv.child("PROJECTION", "METHOD")
	if pn == nil {
		return nil, invalidf("%s %q has no projection method", n.keyword, n.name())
	}
	methodName := normalizeName(pn.name())
	method, ok := wktProjections[methodName]
	if !ok {
		return nil, invalidf("unsupported projection %q", pn.name())
	}

	params := map[string]float64{}
	for _, p := range append(n.children("PARAMETER"), conv.children("PARAMETER")...) {
		key, ok := wktParams[normalizeName(p.name())]
		if !ok {
			continue
		}
		v, ok := p.number(1)
		if !ok {
			return nil, invalidf("parameter %q has no value", p.name())
		}
		if method == "merc" && key == "lat_1" {
			key = "lat_ts"
		}
		params[key] = v
	}

	ref := &SpatialReference{
		name:     n.name(),
		geogName: geog.name,
		kind:     KindProjected,
		datum:    geog.datum,
		primem:   geog.primem,
		unit:     wktLinearUnit(n),
		method:   method,
		params:   params,
	}
	if methodName == "popular_visualisation_pseudo_mercator" {
		ref.datum = Datum{
			Name:      geog.datum.Name,
			Ellipsoid: Ellipsoid{Name: "unnamed", A: geog.datum.Ellipsoid.A},
		}
		ref.nadgrids = "@null"
	}
	normalizeParams(method, ref.params)
	detectUTM(ref)
	return ref, nil
}

// wktLinearUnit finds the length unit of a CRS node, either as a direct
// UNIT child or as the unit of its first axis.
func wktLinearUnit(n *wktNode) LinearUnit {
	un := n.child(lengthUnitKeywords...)
	if un == nil {
		if cs := n.child("CS"); cs != nil {
			un = cs.child(lengthUnitKeywords...)
		}
	}
	if un == nil {
		if ax := n.child("AXIS"); ax != nil {
			un = ax.child(lengthUnitKeywords...)
		}
	}
	if un == nil {
		return metre
	}
	f, ok := un.number(1)
	if !ok {
		return metre
	}
	return unitFromFactor(un.name(), f)
}

// formatWKT writes ref as WKT1.
func formatWKT(ref *SpatialReference) string {
	w := &wktWriter{}
	switch ref.kind {
	case KindGeocentric:
		w.open("GEOCCS", ref.Name())
		w.sep()
		writeDatum(w, ref)
		w.sep()
		writeUnit(w, ref.unit)
	case KindProjected:
		w.open("PROJCS", ref.Name())
		w.sep()
		writeGeographic(w, ref, ref.geographicName(), false)
		writeProjection(w, ref)
		w.sep()
		writeUnit(w, ref.unit)
		if ref.nadgrids != "" || (ref.method == "merc" && ref.datum.Ellipsoid.IsSphere()) {
			w.sep()
			w.open("EXTENSION", "PROJ4")
			w.str(formatProj4(ref))
			w.close()
		}
	default:
		writeGeographic(w, ref, ref.Name(), true)
		return w.String()
	}
	writeAuthority(w, ref)
	w.close()
	return w.String()
}

func writeGeographic(w *wktWriter, ref *SpatialReference, name string, root bool) {
	w.open("GEOGCS", name)
	w.sep()
	writeDatum(w, ref)
	w.sep()
	w.leaf("UNIT", "degree", degreeFactor)
	if root {
		writeAuthority(w, ref)
	}
	w.close()
}

func writeDatum(w *wktWriter, ref *SpatialReference) {
	d := ref.datum
	w.open("DATUM", d.Name)
	w.sep()
	e := d.Ellipsoid
	w.leaf("SPHEROID", e.Name, e.A, e.InvFlattening)
	if len(d.ToWGS84) > 0 {
		w.sep()
		w.b.WriteString("TOWGS84[")
		w.b.WriteString(joinFloats(d.ToWGS84))
		w.close()
	}
	w.close()
	w.sep()
	w.leaf("PRIMEM", ref.primem.Name, ref.primem.Longitude)
}

func writeProjection(w *wktWriter, ref *SpatialReference) {
	params := ref.params
	name := projections[ref.method].wkt
	if ref.method == "utm" {
		params = utmParams(ref.zone, ref.south)
	}
	order := projections[ref.method].params
	if ref.method == "utm" {
		order = projections["tmerc"].params
	}
	if _, ok := params["lat_ts"]; ok && ref.method == "merc" {
		name = "Mercator_2SP"
	}

	w.sep()
	w.open("PROJECTION", name)
	w.close()
	for _, key := range order {
		v, ok := params[key]
		if !ok {
			continue
		}
		w.sep()
		w.leaf("PARAMETER", wktParamName(ref.method, key), v)
	}
}

func writeUnit(w *wktWriter, u LinearUnit) {
	w.leaf("UNIT", u.Name, u.Factor)
}

func writeAuthority(w *wktWriter, ref *SpatialReference) {
	if auth, code, ok := ref.Authority(); ok {
		w.sep()
		w.open("AUTHORITY", auth)
		w.str(code)
		w.close()
	}
}
