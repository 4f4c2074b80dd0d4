package srs

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/georef/internal/coords"
)

const wgs84WKT = `GEOGCS["WGS 84",DATUM["World Geodetic System 1984",SPHEROID["WGS 84",6378137,298.257223563,AUTHORITY["EPSG","7030"]],AUTHORITY["EPSG","6326"]],PRIMEM["Greenwich",0,AUTHORITY["EPSG","8901"]],UNIT["degree",0.017453292519943278,AUTHORITY["EPSG","9122"]],AXIS["Lat",NORTH],AXIS["Lon",EAST],AUTHORITY["EPSG","4326"]]`

const utm32WKT2 = `PROJCRS["WGS 84 / UTM zone 32N",
    BASEGEOGCRS["WGS 84",
        ENSEMBLE["World Geodetic System 1984 ensemble",
            MEMBER["World Geodetic System 1984 (Transit)"],
            MEMBER["World Geodetic System 1984 (G2139)"],
            ELLIPSOID["WGS 84",6378137,298.257223563,
                LENGTHUNIT["metre",1]],
            ENSEMBLEACCURACY[2.0]],
        PRIMEM["Greenwich",0,
            ANGLEUNIT["degree",0.0174532925199433]],
        ID["EPSG",4326]],
    CONVERSION["UTM zone 32N",
        METHOD["Transverse Mercator",
            ID["EPSG",9807]],
        PARAMETER["Latitude of natural origin",0,
            ANGLEUNIT["degree",0.0174532925199433],
            ID["EPSG",8801]],
        PARAMETER["Longitude of natural origin",9,
            ANGLEUNIT["degree",0.0174532925199433],
            ID["EPSG",8802]],
        PARAMETER["Scale factor at natural origin",0.9996,
            SCALEUNIT["unity",1],
            ID["EPSG",8805]],
        PARAMETER["False easting",500000,
            LENGTHUNIT["metre",1],
            ID["EPSG",8806]],
        PARAMETER["False northing",0,
            LENGTHUNIT["metre",1],
            ID["EPSG",8807]]],
    CS[Cartesian,2],
        AXIS["(E)",east,
            ORDER[1],
            LENGTHUNIT["metre",1]],
        AXIS["(N)",north,
            ORDER[2],
            LENGTHUNIT["metre",1]],
    ID["EPSG",32632]]`

func TestDetect(t *testing.T) {
	r := New(Options{})

	tests := []struct {
		in   string
		want Notation
	}{
		{"EPSG:4326", EPSG},
		{"epsg:32632", EPSG},
		{"4326", EPSG},
		{wgs84WKT, WKT},
		{utm32WKT2, WKT},
		{"+proj=longlat +datum=WGS84 +no_defs", PROJ},
		{"+proj=utm +zone=33 +south +ellps=intl", PROJ},
		{"urn:ogc:def:crs:EPSG::4326", OGCURN},
		{"URN:OGC:DEF:CRS:EPSG:0:32632", OGCURN},
		{"http://www.opengis.net/def/crs/EPSG/0/4326", OGCURL},
	}
	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			got, err := r.Detect(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, in := range []string{"", "garbage", "EPSG:999999", "GEOGCS[", "proj=longlat", "urn:ogc:def:crs:EPSG::999999"} {
		_, err := r.Detect(in)
		assert.True(t, errors.Is(err, ErrUnrecognizedCRS), "%q: %v", in, err)
	}
}

func TestDetectPermissive(t *testing.T) {
	r := New(Options{Permissive: true})
	n, err := r.Detect("garbage")
	assert.NoError(t, err)
	assert.Equal(t, Notation(""), n)
}

func TestExport(t *testing.T) {
	r := New(Options{})

	tests := []struct {
		n    Notation
		want string
	}{
		{EPSG, "EPSG:4326"},
		{OGCURN, "urn:ogc:def:crs:EPSG::4326"},
		{OGCURL, "http://www.opengis.net/def/crs/EPSG/0/4326"},
		{PROJ, "+proj=longlat +datum=WGS84 +no_defs"},
		{WKT, `GEOGCS["WGS 84",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563],TOWGS84[0,0,0]],PRIMEM["Greenwich",0],UNIT["degree",0.0174532925199433],AUTHORITY["EPSG","4326"]]`},
	}
	for _, tt := range tests {
		t.Run(string(tt.n), func(t *testing.T) {
			got, err := r.Export("EPSG:4326", tt.n)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := r.Export("EPSG:4326", Notation("GML"))
	assert.True(t, errors.Is(err, ErrUnknownNotation))
}

func TestRoundTrip(t *testing.T) {
	r := New(Options{})

	for _, code := range []int{4326, 4258, 4978, 3857, 3395, 3035, 2154, 5070, 27700, 31467, 3003, 2263, 32632, 32733, 25832} {
		t.Run(strconv.Itoa(code), func(t *testing.T) {
			proj, err := r.Export(code, PROJ)
			require.NoError(t, err)

			for _, n := range Notations() {
				s, err := r.Export(code, n)
				require.NoError(t, err, n)

				back, err := r.Load(s)
				require.NoError(t, err, "%s: %s", n, s)

				got, err := back.Export(PROJ)
				require.NoError(t, err)
				assert.Equal(t, proj, got, n)

				// PROJ.4 carries no authority, the registry lookup restores it
				if n == PROJ {
					back, err = r.Identify(back)
					require.NoError(t, err)
				}
				epsg, err := back.Export(EPSG)
				require.NoError(t, err, n)
				assert.Equal(t, "EPSG:"+strconv.Itoa(code), epsg, n)

				detected, err := r.Detect(s)
				require.NoError(t, err)
				assert.Equal(t, n, detected)
			}
		})
	}
}

func TestCanonicalProj4(t *testing.T) {
	r := New(Options{})

	tests := []struct {
		in, want string
	}{
		{"+proj=longlat +datum=WGS84 +no_defs", "+proj=longlat +datum=WGS84 +no_defs"},
		{"+proj=latlong +ellps=GRS80", "+proj=longlat +ellps=GRS80 +no_defs"},
		{"+proj=utm +zone=32 +datum=WGS84", "+proj=utm +zone=32 +datum=WGS84 +units=m +no_defs"},
		{"+proj=tmerc +lon_0=15 +k=0.9996 +x_0=500000 +y_0=10000000 +datum=WGS84", "+proj=utm +zone=33 +south +datum=WGS84 +units=m +no_defs"},
		{"+proj=tmerc +lon_0=12 +ellps=bessel +units=km", "+proj=tmerc +lat_0=0 +lon_0=12 +k=1 +x_0=0 +y_0=0 +ellps=bessel +units=km +no_defs"},
		{"+proj=merc +lat_ts=41 +lon_0=0 +R=6371000", "+proj=merc +lat_ts=41 +lon_0=0 +x_0=0 +y_0=0 +a=6371000 +b=6371000 +units=m +no_defs"},
		{"+proj=lcc +lat_1=45 +lon_0=10 +a=6378000 +rf=300", "+proj=lcc +lat_0=0 +lon_0=10 +lat_1=45 +lat_2=45 +x_0=0 +y_0=0 +a=6378000 +rf=300 +units=m +no_defs"},
		{"+proj=geocent +ellps=WGS84 +to_meter=1000", "+proj=geocent +ellps=WGS84 +units=km +no_defs"},
	}
	for _, tt := range tests {
		ref, err := r.Load(tt.in)
		require.NoError(t, err, tt.in)
		got, err := ref.Export(PROJ)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestExternalWKT(t *testing.T) {
	r := New(Options{})

	ref, err := r.Load(wgs84WKT)
	require.NoError(t, err)
	assert.True(t, ref.IsGeographic())
	assert.Equal(t, "WGS 84", ref.Name())
	code, err := r.EPSGCode(ref)
	require.NoError(t, err)
	assert.Equal(t, 4326, code)
	proj, err := ref.Export(PROJ)
	require.NoError(t, err)
	assert.Equal(t, "+proj=longlat +datum=WGS84 +no_defs", proj)

	ref, err = r.Load(utm32WKT2)
	require.NoError(t, err)
	assert.True(t, ref.IsProjected())
	zone, south, ok := ref.UTMZone()
	require.True(t, ok)
	assert.Equal(t, 32, zone)
	assert.False(t, south)
	s, err := r.EPSGString(ref)
	require.NoError(t, err)
	assert.Equal(t, "EPSG:32632", s)
	proj, err = ref.Export(PROJ)
	require.NoError(t, err)
	assert.Equal(t, "+proj=utm +zone=32 +datum=WGS84 +units=m +no_defs", proj)
}

func TestInvalidInput(t *testing.T) {
	r := New(Options{})

	for _, in := range []string{
		`GEOGCS["x"`,
		`LOCAL_CS["x",UNIT["metre",1]]`,
		`GEOGCS["x",PRIMEM["Greenwich",0]]`,
		`PROJCS["x",GEOGCS["WGS 84",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563]]],PROJECTION["Polyconic"]]`,
		"+proj=foo",
		"+proj=utm",
		"+proj=utm +zone=x",
		"+proj=longlat +ellps=nope",
		"+proj=tmerc +lon_0=abc",
		"+init=esri:102100",
		"EPSG:99999",
		"urn:ogc:def:crs:FOO::1",
		"http://www.opengis.net/def/crs/EPSG/0/abc",
		"not a crs",
		"",
	} {
		_, err := r.Load(in)
		require.Error(t, err, in)
		assert.Truef(t, errors.Is(err, ErrInvalidCRSDefinition), "%q: %v", in, err)
	}

	for _, in := range []any{3.14, 99999, (*SpatialReference)(nil), []string{"EPSG:4326"}} {
		_, err := r.Load(in)
		require.Error(t, err, in)
		assert.Truef(t, errors.Is(err, ErrInvalidCRSDefinition), "%v: %v", in, err)
		assert.Truef(t, errors.Is(err, ErrUnrecognizedCRS), "%v: %v", in, err)
	}

	_, err := r.FromEPSG(99999)
	assert.True(t, errors.Is(err, ErrInvalidCRSDefinition))

	// detection keeps its own category
	_, err = r.Detect("not a crs")
	assert.True(t, errors.Is(err, ErrUnrecognizedCRS))
}

func TestMissingAuthority(t *testing.T) {
	r := New(Options{})
	const def = "+proj=tmerc +lon_0=12 +ellps=bessel"

	for _, n := range []Notation{EPSG, OGCURN, OGCURL} {
		_, err := r.Export(def, n)
		assert.True(t, errors.Is(err, ErrMissingAuthorityCode), n)
	}
	_, err := r.EPSGCode(def)
	assert.True(t, errors.Is(err, ErrMissingAuthorityCode))

	wkt, err := r.Export(def, WKT)
	require.NoError(t, err)
	assert.NotContains(t, wkt, "AUTHORITY")

	p := New(Options{Permissive: true})
	s, err := p.Export(def, EPSG)
	assert.NoError(t, err)
	assert.Empty(t, s)
	code, err := p.EPSGCode(def)
	assert.NoError(t, err)
	assert.Zero(t, code)
}

func TestLoadForms(t *testing.T) {
	r := New(Options{})

	for _, in := range []any{4326, "4326", " EPSG:4326 ", "WGS84", "CRS84", "+init=epsg:4326", "urn:ogc:def:crs:OGC:1.3:CRS84", "https://www.opengis.net/def/crs/EPSG/0/4326"} {
		ref, err := r.Load(in)
		require.NoError(t, err, in)
		s, err := ref.Export(EPSG)
		require.NoError(t, err)
		assert.Equal(t, "EPSG:4326", s, in)
	}

	a, err := r.Load("EPSG:32632")
	require.NoError(t, err)
	b, err := r.Load("EPSG:32632")
	require.NoError(t, err)
	assert.Same(t, a, b)

	c, err := r.Load(a)
	require.NoError(t, err)
	assert.Same(t, a, c)
}

func TestClassification(t *testing.T) {
	r := New(Options{})

	geo, err := r.IsGeographic("EPSG:4326")
	require.NoError(t, err)
	assert.True(t, geo)

	proj, err := r.IsProjected("EPSG:32632")
	require.NoError(t, err)
	assert.True(t, proj)

	ref, err := r.Load("EPSG:4978")
	require.NoError(t, err)
	assert.Equal(t, KindGeocentric, ref.Kind())
	assert.False(t, ref.IsGeographic())
	assert.False(t, ref.IsProjected())

	valid, err := r.IsValid("EPSG:3857")
	require.NoError(t, err)
	assert.True(t, valid)

	for _, in := range []string{"+proj=utm +zone=75 +datum=WGS84", "+proj=longlat +a=-1 +rf=300", "+proj=tmerc +lat_0=95"} {
		valid, err := r.IsValid(in)
		require.NoError(t, err, in)
		assert.False(t, valid, in)
	}

	_, err = r.IsValid("garbage")
	assert.True(t, errors.Is(err, ErrUnrecognizedCRS))
	_, err = r.IsGeographic("garbage")
	assert.True(t, errors.Is(err, ErrUnrecognizedCRS))

	p := New(Options{Permissive: true})
	geo, err = p.IsGeographic("garbage")
	assert.NoError(t, err)
	assert.False(t, geo)
}

func TestDistanceFunction(t *testing.T) {
	r := New(Options{})

	df, err := r.DistanceFunction("EPSG:4326")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, df(coords.New(0, 0), coords.New(1, 0)), 1e-4)

	df, err = r.DistanceFunction("EPSG:32632")
	require.NoError(t, err)
	assert.Equal(t, 5.0, df(coords.New(0, 0), coords.New(3, 4)))

	_, err = r.DistanceFunction("EPSG:4978")
	assert.True(t, errors.Is(err, ErrUnsupportedCRSForDistance))

	p := New(Options{Permissive: true})
	df, err = p.DistanceFunction("EPSG:4978")
	assert.NoError(t, err)
	assert.Nil(t, df)
}

func TestUTMCode(t *testing.T) {
	tests := []struct {
		lat, lon float64
		want     int
	}{
		{45, 9, 32632},
		{-33.9, 18.4, 32734},
		{0, 0, 32631},
		{-1e-9, 0, 32731},
		{51.5, -0.1, 32630},
		{10, -180, 32601},
		{10, 179.999, 32660},
		{10, 180, 32661},
		{-10, 180, 32761},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, UTMCode(tt.lat, tt.lon), "lat=%v lon=%v", tt.lat, tt.lon)
	}
}

func TestUTM(t *testing.T) {
	r := New(Options{})

	ref, err := r.UTM(45, 9)
	require.NoError(t, err)
	assert.Equal(t, "WGS 84 / UTM zone 32N", ref.Name())

	s, err := r.UTMNotation(-33.9, 18.4, EPSG)
	require.NoError(t, err)
	assert.Equal(t, "EPSG:32734", s)

	s, err = r.UTMNotation(45, 9, PROJ)
	require.NoError(t, err)
	assert.Equal(t, "+proj=utm +zone=32 +datum=WGS84 +units=m +no_defs", s)

	_, err = r.UTM(10, 180)
	assert.True(t, errors.Is(err, ErrInvalidUTMZone))
	assert.Contains(t, err.Error(), "zone 61N")

	p := New(Options{Permissive: true})
	ref, err = p.UTM(10, 180)
	assert.NoError(t, err)
	assert.Nil(t, ref)
}

func TestIdentify(t *testing.T) {
	r := New(Options{})

	ref, err := r.Identify("+proj=utm +zone=32 +datum=WGS84")
	require.NoError(t, err)
	code, err := ref.EPSG()
	require.NoError(t, err)
	assert.Equal(t, 32632, code)

	ref, err = r.Identify("+proj=lcc +lat_0=46.5 +lon_0=3 +lat_1=49 +lat_2=44 +x_0=700000 +y_0=6600000 +ellps=GRS80 +towgs84=0,0,0,0,0,0,0 +units=m")
	require.NoError(t, err)
	assert.Equal(t, "RGF93 v1 / Lambert-93", ref.Name())

	_, err = r.Identify("+proj=tmerc +lon_0=12 +ellps=bessel")
	assert.True(t, errors.Is(err, ErrMissingAuthorityCode))
}

func TestReferenceUnits(t *testing.T) {
	r := New(Options{})

	geo, err := r.Load("EPSG:4326")
	require.NoError(t, err)
	assert.Equal(t, "dg", string(geo.Unit()))
	assert.Equal(t, 1.0, geo.FromMeters(111320))
	assert.Equal(t, 2.0, geo.FromDegrees(2))
	assert.InDelta(t, 2.0, geo.FromMetersAt(111320, 60), 1e-9)

	utm, err := r.Load("EPSG:32632")
	require.NoError(t, err)
	assert.Equal(t, "m", string(utm.Unit()))
	assert.Equal(t, 5.0, utm.FromMeters(5))
	assert.Equal(t, 111320.0, utm.FromDegrees(1))
	assert.InDelta(t, 55660.0, utm.FromDegreesAt(1, 60), 1e-6)
}

func TestParseNotation(t *testing.T) {
	for in, want := range map[string]Notation{
		"epsg": EPSG, "WKT": WKT, "proj4": PROJ, "urn": OGCURN, "OGC_URL": OGCURL,
	} {
		got, err := ParseNotation(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseNotation("gml")
	assert.True(t, errors.Is(err, ErrUnknownNotation))
}

func TestRegistry(t *testing.T) {
	reg := DefaultRegistry()

	for zone := 1; zone <= 60; zone++ {
		for _, base := range []int{32600, 32700} {
			ref, ok := reg.Lookup(base + zone)
			require.True(t, ok, base+zone)
			z, south, ok := ref.UTMZone()
			require.True(t, ok)
			assert.Equal(t, zone, z)
			assert.Equal(t, base == 32700, south)
		}
	}
	for code := 25828; code <= 25838; code++ {
		_, ok := reg.Lookup(code)
		assert.True(t, ok, code)
	}
	codes := reg.Codes()
	assert.Len(t, codes, reg.Len())
	assert.IsIncreasing(t, codes)

	for _, code := range codes {
		ref, _ := reg.Lookup(code)
		assert.NoError(t, ref.Validate(), code)
		assert.False(t, ref.IsGeographic() && ref.IsProjected(), code)
		if ref.Kind() == KindGeocentric {
			assert.False(t, ref.IsGeographic() || ref.IsProjected(), code)
		}
	}
}

func TestRegistryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extra.yaml")
	doc := strings.Join([]string{
		"crs:",
		"  - code: 900913",
		"    name: Google Maps Global Mercator",
		"    base: WGS 84",
		"    proj4: +proj=merc +a=6378137 +b=6378137 +lat_ts=0 +lon_0=0 +x_0=0 +y_0=0 +k=1 +units=m +nadgrids=@null +wktext +no_defs",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	reg, err := LoadRegistryFile(DefaultRegistry(), path)
	require.NoError(t, err)
	assert.Equal(t, DefaultRegistry().Len()+1, reg.Len())

	r := New(Options{Registry: reg})
	n, err := r.Detect("EPSG:900913")
	require.NoError(t, err)
	assert.Equal(t, EPSG, n)

	// the default registry is unchanged
	_, ok := DefaultRegistry().Lookup(900913)
	assert.False(t, ok)

	_, err = LoadRegistryFile(DefaultRegistry(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = DefaultRegistry().Extend([]byte("crs:\n  - code: 1\n    proj4: +proj=nope\n"))
	assert.True(t, errors.Is(err, ErrInvalidCRSDefinition))
}

func TestTransformer(t *testing.T) {
	r := New(Options{})

	fwd, err := r.Transformer("EPSG:4326", "EPSG:32632")
	require.NoError(t, err)
	p := fwd(coords.New(9, 45))
	assert.InDelta(t, 500000, p.X, 0.01)
	assert.InDelta(t, 4982950.4, p.Y, 1)

	inv, err := r.Transformer("EPSG:32632", "EPSG:4326")
	require.NoError(t, err)
	back := inv(p)
	assert.InDelta(t, 9, back.X, 1e-6)
	assert.InDelta(t, 45, back.Y, 1e-6)

	merc, err := r.Transformer("EPSG:4326", "EPSG:3857")
	require.NoError(t, err)
	m := merc(coords.New(180, 0))
	assert.InDelta(t, 20037508.34, m.X, 0.01)
	assert.InDelta(t, 0, m.Y, 1e-6)

	_, err = r.Transformer("EPSG:4326", "EPSG:2154")
	assert.True(t, errors.Is(err, ErrUnsupportedTransform))
}

func TestConcurrentLoad(t *testing.T) {
	r := New(Options{})
	inputs := []string{"EPSG:4326", utm32WKT2, "+proj=utm +zone=33 +datum=WGS84", "urn:ogc:def:crs:EPSG::3857"}

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(in string) {
			defer wg.Done()
			if _, err := r.Export(in, PROJ); err != nil {
				errs <- err
			}
		}(inputs[i%len(inputs)])
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}
