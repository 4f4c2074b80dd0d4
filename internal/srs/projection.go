package srs

import "math"

// projection describes a supported map projection: its WKT1 name and the
// ordered PROJ.4 parameters it takes, with defaults.
type projection struct {
	wkt      string
	params   []string
	defaults map[string]float64
}

var projections = map[string]projection{
	"utm": {wkt: "Transverse_Mercator"},
	"tmerc": {
		wkt:      "Transverse_Mercator",
		params:   []string{"lat_0", "lon_0", "k", "x_0", "y_0"},
		defaults: map[string]float64{"k": 1},
	},
	"merc": {
		wkt:      "Mercator_1SP",
		params:   []string{"lat_ts", "lon_0", "k", "x_0", "y_0"},
		defaults: map[string]float64{"k": 1},
	},
	"lcc": {
		wkt:    "Lambert_Conformal_Conic_2SP",
		params: []string{"lat_0", "lon_0", "lat_1", "lat_2", "x_0", "y_0"},
	},
	"laea": {
		wkt:    "Lambert_Azimuthal_Equal_Area",
		params: []string{"lat_0", "lon_0", "x_0", "y_0"},
	},
	"aea": {
		wkt:    "Albers_Conic_Equal_Area",
		params: []string{"lat_0", "lon_0", "lat_1", "lat_2", "x_0", "y_0"},
	},
}

// wktProjections maps normalized WKT1 and WKT2 method names to PROJ.4 names.
var wktProjections = map[string]string{
	"transverse_mercator":                   "tmerc",
	"mercator":                              "merc",
	"mercator_1sp":                          "merc",
	"mercator_2sp":                          "merc",
	"mercator_(variant_a)":                  "merc",
	"mercator_(variant_b)":                  "merc",
	"popular_visualisation_pseudo_mercator": "merc",
	"lambert_conformal_conic_2sp":           "lcc",
	"lambert_conic_conformal_(2sp)":         "lcc",
	"lambert_azimuthal_equal_area":          "laea",
	"albers_conic_equal_area":               "aea",
	"albers_equal_area":                     "aea",
}

// wktParams maps normalized WKT parameter names to PROJ.4 keys.
var wktParams = map[string]string{
	"latitude_of_origin":                "lat_0",
	"latitude_of_center":                "lat_0",
	"latitude_of_natural_origin":        "lat_0",
	"latitude_of_false_origin":          "lat_0",
	"latitude_of_projection_centre":     "lat_0",
	"central_meridian":                  "lon_0",
	"longitude_of_center":               "lon_0",
	"longitude_of_natural_origin":       "lon_0",
	"longitude_of_false_origin":         "lon_0",
	"longitude_of_origin":               "lon_0",
	"scale_factor":                      "k",
	"scale_factor_at_natural_origin":    "k",
	"false_easting":                     "x_0",
	"easting_at_false_origin":           "x_0",
	"false_northing":                    "y_0",
	"northing_at_false_origin":          "y_0",
	"standard_parallel_1":               "lat_1",
	"latitude_of_1st_standard_parallel": "lat_1",
	"standard_parallel_2":               "lat_2",
	"latitude_of_2nd_standard_parallel": "lat_2",
}

// wktParamName returns the WKT1 parameter name of a PROJ.4 key for a method.
func wktParamName(method, key string) string {
	centered := method == "laea" || method == "aea"
	switch key {
	case "lat_0":
		if centered {
			return "latitude_of_center"
		}
		return "latitude_of_origin"
	case "lon_0":
		if centered {
			return "longitude_of_center"
		}
		return "central_meridian"
	case "k":
		return "scale_factor"
	case "x_0":
		return "false_easting"
	case "y_0":
		return "false_northing"
	case "lat_1", "lat_ts":
		return "standard_parallel_1"
	case "lat_2":
		return "standard_parallel_2"
	}
	return key
}

// normalizeParams fills projection defaults and folds the Mercator variants:
// a true scale latitude without a scale factor is Mercator_2SP, otherwise
// the scale factor wins and a zero lat_ts is dropped.
func normalizeParams(method string, params map[string]float64) {
	p, ok := projections[method]
	if !ok {
		return
	}
	secant := false
	if method == "merc" {
		_, hasK := params["k"]
		ts, hasTS := params["lat_ts"]
		switch {
		case hasTS && ts != 0 && !hasK:
			secant = true
		case hasTS && ts == 0:
			delete(params, "lat_ts")
		}
	}
	if method == "lcc" || method == "aea" {
		if _, ok := params["lat_2"]; !ok {
			if v, ok := params["lat_1"]; ok {
				params["lat_2"] = v
			}
		}
	}
	for _, key := range p.params {
		if key == "lat_ts" || key == "lat_1" || key == "lat_2" || (key == "k" && secant) {
			continue
		}
		if _, ok := params[key]; !ok {
			params[key] = p.defaults[key]
		}
	}
}

// detectUTM rewrites a transverse Mercator that matches a UTM zone into the
// utm method.
func detectUTM(r *SpatialReference) {
	if r.method != "tmerc" {
		return
	}
	p := r.params
	if p["lat_0"] != 0 || p["k"] != 0.9996 || p["x_0"] != 500000 {
		return
	}
	south := p["y_0"] == 10000000
	if p["y_0"] != 0 && !south {
		return
	}
	zone := (p["lon_0"] + 183) / 6
	if zone != math.Trunc(zone) || zone < 1 || zone > 60 {
		return
	}
	r.method = "utm"
	r.zone = int(zone)
	r.south = south
	r.params = map[string]float64{}
}

// utmParams expands a UTM zone into transverse Mercator parameters.
func utmParams(zone int, south bool) map[string]float64 {
	y0 := 0.0
	if south {
		y0 = 10000000
	}
	return map[string]float64{
		"lat_0": 0,
		"lon_0": float64(zone*6 - 183),
		"k":     0.9996,
		"x_0":   500000,
		"y_0":   y0,
	}
}
