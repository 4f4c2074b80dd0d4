package srs

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Notation is a textual form a CRS can be written in.
type Notation string

// Supported notations.
const (
	EPSG   Notation = "EPSG"
	WKT    Notation = "WKT"
	PROJ   Notation = "PROJ"
	OGCURN Notation = "OGC_URN"
	OGCURL Notation = "OGC_URL"
)

const (
	urnPrefix = "urn:ogc:def:crs:"
	urlPrefix = "http://www.opengis.net/def/crs/"
)

// Notations returns every notation in detection order.
func Notations() []Notation {
	return []Notation{EPSG, WKT, PROJ, OGCURN, OGCURL}
}

// ParseNotation parses a notation name, case-insensitively.
// "URN" and "URL" are accepted as short forms.
func ParseNotation(s string) (Notation, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "EPSG":
		return EPSG, nil
	case "WKT":
		return WKT, nil
	case "PROJ", "PROJ4":
		return PROJ, nil
	case "OGC_URN", "URN":
		return OGCURN, nil
	case "OGC_URL", "URL":
		return OGCURL, nil
	}
	return "", errors.Mark(errors.Newf("notation %q", s), ErrUnknownNotation)
}

func (n Notation) String() string {
	return string(n)
}

type detector struct {
	notation Notation
	match    func(string) bool
}

// detectors are evaluated in order and the first match wins. The grammars
// overlap (digits are both an EPSG code and input to the generic importer),
// so the order must not change.
func (r *Resolver) detectors() []detector {
	return []detector{
		{EPSG, r.IsEPSG},
		{WKT, r.IsWKT},
		{PROJ, r.IsProj4},
		{OGCURN, r.IsOGCURN},
		{OGCURL, r.IsOGCURL},
	}
}

// Detect returns the notation crs is written in.
func (r *Resolver) Detect(crs string) (Notation, error) {
	for _, d := range r.detectors() {
		if d.match(crs) {
			r.log.Trace().Str("crs", crs).Str("notation", string(d.notation)).Msg("CRS notation detected")
			return d.notation, nil
		}
	}
	return tolerate(r, Notation(""), errors.Mark(errors.Newf("%q", crs), ErrUnrecognizedCRS))
}

// IsEPSG reports whether crs is "EPSG:<code>" or a bare code known to the registry.
func (r *Resolver) IsEPSG(crs string) bool {
	code, ok := parseEPSGCode(crs)
	if !ok {
		return false
	}
	_, ok = r.registry.Lookup(code)
	return ok
}

// IsWKT reports whether crs parses as a WKT CRS.
func (r *Resolver) IsWKT(crs string) bool {
	_, err := parseWKT(crs)
	return err == nil
}

// IsProj4 reports whether crs parses as a PROJ.4 definition.
func (r *Resolver) IsProj4(crs string) bool {
	_, err := r.FromProj4(crs)
	return err == nil
}

// IsOGCURN reports whether crs imports and is written as an OGC URN.
func (r *Resolver) IsOGCURN(crs string) bool {
	if !strings.HasPrefix(strings.ToLower(crs), urnPrefix) {
		return false
	}
	_, err := r.fromUserInput(crs)
	return err == nil
}

// IsOGCURL reports whether crs imports and is written as an OGC URL.
func (r *Resolver) IsOGCURL(crs string) bool {
	if !strings.HasPrefix(strings.ToLower(crs), urlPrefix) {
		return false
	}
	_, err := r.fromUserInput(crs)
	return err == nil
}
