package main

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"

	"github.com/woozymasta/georef/internal/coords"
	"github.com/woozymasta/georef/internal/srs"
	"github.com/woozymasta/georef/internal/units"
)

type crsArg struct {
	CRS string `positional-arg-name:"crs" description:"EPSG code, WKT, PROJ.4 string, OGC URN or URL"`
}

type detectCommand struct {
	Args crsArg `positional-args:"yes" required:"yes"`
}

func (c *detectCommand) Execute([]string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	n, err := a.resolver.Detect(c.Args.CRS)
	if err != nil {
		return err
	}
	if opts.Format == "text" {
		return emit(n.String())
	}
	return emit(map[string]string{"notation": n.String()})
}

type convertCommand struct {
	To   string `short:"t" long:"to" description:"Target notation" required:"yes" choice:"EPSG" choice:"WKT" choice:"PROJ" choice:"OGC_URN" choice:"OGC_URL"`
	Args crsArg `positional-args:"yes" required:"yes"`
}

func (c *convertCommand) Execute([]string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	n, err := srs.ParseNotation(c.To)
	if err != nil {
		return err
	}
	crs := any(c.Args.CRS)
	if n != srs.WKT && n != srs.PROJ {
		// PROJ.4 input carries no code, look it up in the registry
		ref, err := a.resolver.Identify(c.Args.CRS)
		if err != nil {
			return err
		}
		if ref != nil {
			crs = ref
		}
	}
	s, err := a.resolver.Export(crs, n)
	if err != nil {
		return err
	}
	if opts.Format == "text" {
		return emit(s)
	}
	return emit(map[string]string{string(n): s})
}

type info struct {
	Params        map[string]float64 `json:"params,omitempty" yaml:"params,omitempty"`
	EPSG          string             `json:"epsg,omitempty" yaml:"epsg,omitempty"`
	Name          string             `json:"name" yaml:"name"`
	Kind          string             `json:"kind" yaml:"kind"`
	Notation      string             `json:"notation,omitempty" yaml:"notation,omitempty"`
	Unit          string             `json:"unit" yaml:"unit"`
	LinearUnit    string             `json:"linear_unit,omitempty" yaml:"linear_unit,omitempty"`
	Datum         string             `json:"datum" yaml:"datum"`
	Ellipsoid     string             `json:"ellipsoid" yaml:"ellipsoid"`
	Method        string             `json:"method" yaml:"method"`
	Proj4         string             `json:"proj4" yaml:"proj4"`
	Invalid       string             `json:"invalid,omitempty" yaml:"invalid,omitempty"`
	ToWGS84       []float64          `json:"towgs84,omitempty" yaml:"towgs84,omitempty,flow"`
	SemiMajor     float64            `json:"semi_major" yaml:"semi_major"`
	InvFlattening float64            `json:"inv_flattening" yaml:"inv_flattening"`
	UTMZone       int                `json:"utm_zone,omitempty" yaml:"utm_zone,omitempty"`
	South         bool               `json:"south,omitempty" yaml:"south,omitempty"`
	Valid         bool               `json:"valid" yaml:"valid"`
}

type infoCommand struct {
	Identify bool   `short:"i" long:"identify" description:"Look up the authority code of definitions without one"`
	Args     crsArg `positional-args:"yes" required:"yes"`
}

func (c *infoCommand) Execute([]string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	ref, err := a.resolver.Load(c.Args.CRS)
	if err != nil {
		return err
	}
	if ref == nil {
		return emit(nil)
	}
	if c.Identify {
		if id, err := a.resolver.Identify(ref); err == nil && id != nil {
			ref = id
		}
	}

	d := ref.Datum()
	out := info{
		Name:          ref.Name(),
		Kind:          ref.Kind().String(),
		Unit:          string(ref.Unit()),
		Datum:         d.Name,
		Ellipsoid:     d.Ellipsoid.Name,
		SemiMajor:     d.Ellipsoid.A,
		InvFlattening: d.Ellipsoid.InvFlattening,
		ToWGS84:       d.ToWGS84,
		Method:        ref.Method(),
		Params:        ref.Params(),
		Valid:         true,
	}
	if n, err := a.resolver.Detect(c.Args.CRS); err == nil {
		out.Notation = n.String()
	}
	if !ref.IsGeographic() {
		out.LinearUnit = ref.LinearUnit().Name
	}
	if s, err := ref.Export(srs.EPSG); err == nil {
		out.EPSG = s
	}
	out.Proj4, _ = ref.Export(srs.PROJ)
	if zone, south, ok := ref.UTMZone(); ok {
		out.UTMZone, out.South = zone, south
	}
	if err := ref.Validate(); err != nil {
		out.Valid, out.Invalid = false, err.Error()
	}

	return emit(out)
}

type utmCommand struct {
	Lat float64 `long:"lat" description:"Latitude in degrees" required:"yes"`
	Lon float64 `long:"lon" description:"Longitude in degrees" required:"yes"`
	To  string  `short:"t" long:"to" description:"Notation of the result" default:"EPSG" choice:"EPSG" choice:"WKT" choice:"PROJ" choice:"OGC_URN" choice:"OGC_URL"`
}

func (c *utmCommand) Execute([]string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	n, err := srs.ParseNotation(c.To)
	if err != nil {
		return err
	}
	s, err := a.resolver.UTMNotation(c.Lat, c.Lon, n)
	if err != nil {
		return err
	}
	if opts.Format == "text" {
		return emit(s)
	}
	return emit(map[string]any{
		"code": srs.UTMCode(c.Lat, c.Lon),
		"crs":  s,
	})
}

type pointArgs struct {
	X1 string `positional-arg-name:"x1"`
	Y1 string `positional-arg-name:"y1"`
	X2 string `positional-arg-name:"x2"`
	Y2 string `positional-arg-name:"y2"`
}

type distanceCommand struct {
	CRS    string    `long:"crs" description:"CRS of the points, the configured default_crs when empty"`
	Meters bool      `short:"m" long:"meters" description:"Report geographic distances in metres"`
	Args   pointArgs `positional-args:"yes" required:"yes"`
}

func (c *distanceCommand) Execute([]string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	crs := c.CRS
	if crs == "" {
		crs = a.cfg.DefaultCRS
	}

	vals, err := parseFloats(c.Args.X1, c.Args.Y1, c.Args.X2, c.Args.Y2)
	if err != nil {
		return err
	}
	p1, p2 := coords.New(vals[0], vals[1]), coords.New(vals[2], vals[3])

	ref, err := a.resolver.Load(crs)
	if err != nil || ref == nil {
		return err
	}
	df, err := a.resolver.DistanceFunction(ref)
	if err != nil || df == nil {
		return err
	}

	d, unit := df(p1, p2), ref.Unit()
	if c.Meters && ref.IsGeographic() {
		d = units.DegreesToMetersAt(d, (p1.Y+p2.Y)/2)
		unit = units.Meters
	}
	log.Debug().
		Str("crs", ref.Name()).
		Stringer("from", p1).
		Stringer("to", p2).
		Msg("Distance measured")

	if opts.Format == "text" {
		return emit(strconv.FormatFloat(d, 'f', -1, 64))
	}
	return emit(map[string]any{"distance": d, "unit": string(unit)})
}

type xyArgs struct {
	X string `positional-arg-name:"x"`
	Y string `positional-arg-name:"y"`
}

type reprojectCommand struct {
	From string `short:"f" long:"from" description:"Source CRS, the configured default_crs when empty"`
	To   string `short:"t" long:"to" description:"Target CRS" required:"yes"`
	Args xyArgs `positional-args:"yes" required:"yes"`
}

func (c *reprojectCommand) Execute([]string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	from := c.From
	if from == "" {
		from = a.cfg.DefaultCRS
	}

	vals, err := parseFloats(c.Args.X, c.Args.Y)
	if err != nil {
		return err
	}
	fn, err := a.resolver.Transformer(from, c.To)
	if err != nil || fn == nil {
		return err
	}
	out := fn(coords.New(vals[0], vals[1]))

	if opts.Format == "text" {
		return emit(out.String())
	}
	return emit(out)
}

type notationsCommand struct{}

func (c *notationsCommand) Execute([]string) error {
	names := make([]string, 0, len(srs.Notations()))
	for _, n := range srs.Notations() {
		names = append(names, n.String())
	}
	return emit(names)
}

func parseFloats(args ...string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, s := range args {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "argument %d", i+1)
		}
		out[i] = v
	}
	return out, nil
}
