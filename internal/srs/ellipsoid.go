package srs

import (
	"math"
	"strings"
)

// Ellipsoid is a reference ellipsoid. InvFlattening is zero for a sphere.
type Ellipsoid struct {
	Name          string  `json:"name" yaml:"name"`
	A             float64 `json:"a" yaml:"a"`
	InvFlattening float64 `json:"inv_flattening" yaml:"inv_flattening"`
}

// B returns the semi-minor axis.
func (e Ellipsoid) B() float64 {
	if e.InvFlattening == 0 {
		return e.A
	}
	return e.A * (1 - 1/e.InvFlattening)
}

// IsSphere reports whether the ellipsoid has no flattening.
func (e Ellipsoid) IsSphere() bool {
	return e.InvFlattening == 0
}

// Datum is a geodetic datum. Key and EllipsoidKey hold the PROJ.4
// +datum and +ellps names when the datum or ellipsoid is a known one.
type Datum struct {
	Name         string    `json:"name" yaml:"name"`
	Key          string    `json:"key,omitempty" yaml:"key,omitempty"`
	Ellipsoid    Ellipsoid `json:"ellipsoid" yaml:"ellipsoid"`
	EllipsoidKey string    `json:"ellipsoid_key,omitempty" yaml:"ellipsoid_key,omitempty"`
	ToWGS84      []float64 `json:"towgs84,omitempty" yaml:"towgs84,omitempty"`
}

// PrimeMeridian is a named meridian with its longitude from Greenwich in degrees.
type PrimeMeridian struct {
	Name      string  `json:"name" yaml:"name"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// LinearUnit is a length unit with its size in metres. Key is the PROJ.4
// +units name, empty when only +to_meter can express it.
type LinearUnit struct {
	Name   string  `json:"name" yaml:"name"`
	Key    string  `json:"key,omitempty" yaml:"key,omitempty"`
	Factor float64 `json:"factor" yaml:"factor"`
}

// degreeFactor is the size of a degree in radians as written in WKT.
const degreeFactor = 0.0174532925199433

var (
	greenwich = PrimeMeridian{Name: "Greenwich"}
	metre     = LinearUnit{Name: "metre", Key: "m", Factor: 1}
)

var ellipsoids = map[string]Ellipsoid{
	"WGS84":  {Name: "WGS 84", A: 6378137, InvFlattening: 298.257223563},
	"GRS80":  {Name: "GRS 1980", A: 6378137, InvFlattening: 298.257222101},
	"intl":   {Name: "International 1924", A: 6378388, InvFlattening: 297},
	"airy":   {Name: "Airy 1830", A: 6377563.396, InvFlattening: 299.3249646},
	"clrk66": {Name: "Clarke 1866", A: 6378206.4, InvFlattening: 294.978698213898},
	"bessel": {Name: "Bessel 1841", A: 6377397.155, InvFlattening: 299.1528128},
}

var datums = map[string]Datum{
	"WGS84": {
		Name: "WGS_1984", Key: "WGS84",
		Ellipsoid: ellipsoids["WGS84"], EllipsoidKey: "WGS84",
		ToWGS84: []float64{0, 0, 0},
	},
	"NAD83": {
		Name: "North_American_Datum_1983", Key: "NAD83",
		Ellipsoid: ellipsoids["GRS80"], EllipsoidKey: "GRS80",
		ToWGS84: []float64{0, 0, 0},
	},
	"NAD27": {
		Name: "North_American_Datum_1927", Key: "NAD27",
		Ellipsoid: ellipsoids["clrk66"], EllipsoidKey: "clrk66",
	},
	"OSGB36": {
		Name: "OSGB_1936", Key: "OSGB36",
		Ellipsoid: ellipsoids["airy"], EllipsoidKey: "airy",
		ToWGS84: []float64{446.448, -125.157, 542.06, 0.15, 0.247, 0.842, -20.489},
	},
	"potsdam": {
		Name: "Deutsches_Hauptdreiecksnetz", Key: "potsdam",
		Ellipsoid: ellipsoids["bessel"], EllipsoidKey: "bessel",
		ToWGS84: []float64{598.1, 73.7, 418.2, 0.202, 0.045, -2.455, 6.7},
	},
}

// geographicNames maps a datum key to the name of its geographic CRS.
var geographicNames = map[string]string{
	"WGS84":   "WGS 84",
	"NAD83":   "NAD83",
	"NAD27":   "NAD27",
	"OSGB36":  "OSGB 1936",
	"potsdam": "DHDN",
}

// datumAliases maps normalized WKT datum names to datum keys.
var datumAliases = map[string]string{
	"wgs_1984":                              "WGS84",
	"wgs84":                                 "WGS84",
	"world_geodetic_system_1984":            "WGS84",
	"world_geodetic_system_1984_ensemble":   "WGS84",
	"north_american_datum_1983":             "NAD83",
	"north_american_datum_1927":             "NAD27",
	"osgb_1936":                             "OSGB36",
	"ordnance_survey_of_great_britain_1936": "OSGB36",
	"deutsches_hauptdreiecksnetz":           "potsdam",
}

var linearUnits = map[string]LinearUnit{
	"m":     metre,
	"km":    {Name: "kilometre", Key: "km", Factor: 1000},
	"ft":    {Name: "foot", Key: "ft", Factor: 0.3048},
	"us-ft": {Name: "US survey foot", Key: "us-ft", Factor: 0.304800609601219},
}

func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

// ellipsoidKey finds the PROJ.4 name of an ellipsoid by its parameters.
func ellipsoidKey(e Ellipsoid) string {
	for key, known := range ellipsoids {
		if math.Abs(known.A-e.A) < 1e-3 && math.Abs(known.InvFlattening-e.InvFlattening) < 1e-9 {
			return key
		}
	}
	return ""
}

// datumFromName resolves a WKT datum name, falling back to a custom datum
// on the given ellipsoid.
func datumFromName(name string, e Ellipsoid, towgs84 []float64) Datum {
	if key, ok := datumAliases[normalizeName(name)]; ok {
		d := datums[key]
		if len(towgs84) > 0 {
			d.ToWGS84 = towgs84
		}
		return d
	}
	return Datum{
		Name:         name,
		Ellipsoid:    e,
		EllipsoidKey: ellipsoidKey(e),
		ToWGS84:      towgs84,
	}
}

func unitFromFactor(name string, factor float64) LinearUnit {
	for _, u := range linearUnits {
		if math.Abs(u.Factor-factor) < 1e-12 {
			return u
		}
	}
	return LinearUnit{Name: name, Factor: factor}
}
