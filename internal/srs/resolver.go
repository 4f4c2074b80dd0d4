// Package srs resolves coordinate reference systems written as EPSG codes,
// WKT, PROJ.4 strings, OGC URNs or OGC URLs, converts between those
// notations and classifies the systems they describe.
package srs

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/rs/zerolog"

	"github.com/woozymasta/georef/internal/planar"
)

// Options configure a Resolver.
type Options struct {
	// Registry resolves authority codes. Nil means DefaultRegistry.
	Registry *Registry
	// Permissive makes operations return zero values instead of errors.
	// Suppressed errors are logged at debug level.
	Permissive bool
	// Logger receives debug and trace events. Nil disables logging.
	Logger *zerolog.Logger
}

// Resolver loads and exports CRS definitions. It is safe for concurrent use.
type Resolver struct {
	registry   *Registry
	permissive bool
	log        zerolog.Logger
	cache      cmap.ConcurrentMap[string, *SpatialReference]
}

// New creates a resolver.
func New(opts Options) *Resolver {
	r := &Resolver{
		registry:   opts.Registry,
		permissive: opts.Permissive,
		log:        zerolog.Nop(),
		cache:      cmap.New[*SpatialReference](),
	}
	if r.registry == nil {
		r.registry = DefaultRegistry()
	}
	if opts.Logger != nil {
		r.log = opts.Logger.With().Str("component", "srs").Logger()
	}
	return r
}

// Registry returns the registry used to resolve codes.
func (r *Resolver) Registry() *Registry {
	return r.registry
}

// Permissive reports whether errors are suppressed.
func (r *Resolver) Permissive() bool {
	return r.permissive
}

// tolerate returns v and err unchanged in strict mode. In permissive mode an
// error is logged and replaced by the zero value of T.
func tolerate[T any](r *Resolver, v T, err error) (T, error) {
	if err == nil || !r.permissive {
		return v, err
	}
	r.log.Debug().Err(err).Msg("CRS error suppressed")
	var zero T
	return zero, nil
}

// Load returns the reference described by crs: a string in any supported
// notation, an EPSG code as int, or an already loaded *SpatialReference.
// Parsed strings are cached.
func (r *Resolver) Load(crs any) (*SpatialReference, error) {
	ref, err := r.load(crs)
	return tolerate(r, ref, err)
}

// load marks every rejected input as an invalid definition, on top of
// any more specific category.
func (r *Resolver) load(crs any) (*SpatialReference, error) {
	ref, err := r.resolve(crs)
	if err != nil && !errors.Is(err, ErrInvalidCRSDefinition) {
		return nil, errors.Mark(err, ErrInvalidCRSDefinition)
	}
	return ref, err
}

func (r *Resolver) resolve(crs any) (*SpatialReference, error) {
	switch v := crs.(type) {
	case *SpatialReference:
		if v == nil {
			return nil, errors.Mark(errors.New("nil reference"), ErrUnrecognizedCRS)
		}
		return v, nil
	case string:
		if ref, ok := r.cache.Get(v); ok {
			return ref, nil
		}
		ref, err := r.fromUserInput(v)
		if err != nil {
			return nil, err
		}
		r.cache.SetIfAbsent(v, ref)
		r.log.Trace().Str("crs", v).Int("cached", r.cache.Count()).Msg("CRS loaded")
		return ref, nil
	case int:
		return r.FromEPSG(v)
	}
	return nil, errors.Mark(errors.Newf("CRS of type %T", crs), ErrUnrecognizedCRS)
}

// FromEPSG returns the registered reference for code.
func (r *Resolver) FromEPSG(code int) (*SpatialReference, error) {
	ref, ok := r.registry.Lookup(code)
	if !ok {
		err := errors.Mark(errors.Newf("EPSG:%d", code), ErrUnrecognizedCRS)
		return nil, errors.Mark(err, ErrInvalidCRSDefinition)
	}
	return ref, nil
}

// FromWKT parses WKT1 or WKT2 text.
func (r *Resolver) FromWKT(s string) (*SpatialReference, error) {
	return parseWKT(s)
}

// FromProj4 parses a PROJ.4 definition. "+init=epsg:<code>" is resolved
// through the registry.
func (r *Resolver) FromProj4(s string) (*SpatialReference, error) {
	p, err := parseParamset(s)
	if err != nil {
		return nil, err
	}
	if init, ok := p["init"]; ok {
		auth, code, _ := strings.Cut(init, ":")
		n, err := strconv.Atoi(code)
		if !strings.EqualFold(auth, r.registry.Authority()) || err != nil {
			return nil, invalidf("+init=%s", init)
		}
		return r.FromEPSG(n)
	}
	return parseProj4(s)
}

var wellKnownNames = map[string]int{
	"WGS84": 4326,
	"CRS84": 4326,
	"NAD83": 4269,
	"NAD27": 4267,
}

// fromUserInput imports any supported notation, the way a user would type it.
func (r *Resolver) fromUserInput(s string) (*SpatialReference, error) {
	t := strings.TrimSpace(s)
	lower := strings.ToLower(t)
	if code, ok := parseEPSGCode(t); ok {
		return r.FromEPSG(code)
	}
	switch {
	case t == "":
		return nil, errors.Mark(errors.New("empty CRS"), ErrUnrecognizedCRS)
	case strings.HasPrefix(lower, urnPrefix):
		return r.fromOGC(t[len(urnPrefix):], ":")
	case strings.HasPrefix(lower, urlPrefix):
		return r.fromOGC(t[len(urlPrefix):], "/")
	case strings.HasPrefix(lower, "https://www.opengis.net/def/crs/"):
		return r.fromOGC(t[len("https://www.opengis.net/def/crs/"):], "/")
	case strings.HasPrefix(t, "+"):
		return r.FromProj4(t)
	}
	if code, ok := wellKnownNames[strings.ToUpper(t)]; ok {
		return r.FromEPSG(code)
	}
	ref, err := parseWKT(t)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "%q", s), ErrUnrecognizedCRS)
	}
	return ref, nil
}

// fromOGC resolves the "{authority}{sep}{version}{sep}{code}" tail of an
// OGC URN or URL. The version may be empty or "0".
func (r *Resolver) fromOGC(tail, sep string) (*SpatialReference, error) {
	parts := strings.Split(tail, sep)
	if len(parts) != 3 {
		return nil, errors.Mark(errors.Newf("OGC identifier %q", tail), ErrUnrecognizedCRS)
	}
	auth, code := parts[0], parts[2]
	if strings.EqualFold(auth, "OGC") && strings.EqualFold(code, "CRS84") {
		return r.FromEPSG(4326)
	}
	if !strings.EqualFold(auth, r.registry.Authority()) {
		return nil, errors.Mark(errors.Newf("authority %q", auth), ErrUnrecognizedCRS)
	}
	n, err := strconv.Atoi(code)
	if err != nil {
		return nil, errors.Mark(errors.Newf("OGC code %q", code), ErrUnrecognizedCRS)
	}
	return r.FromEPSG(n)
}

// parseEPSGCode accepts "EPSG:<n>" in any case, or a bare integer.
func parseEPSGCode(s string) (int, bool) {
	t := strings.TrimSpace(s)
	if len(t) > 5 && strings.EqualFold(t[:5], "EPSG:") {
		t = t[5:]
	}
	n, err := strconv.Atoi(t)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Export writes crs in notation n.
func (r *Resolver) Export(crs any, n Notation) (string, error) {
	ref, err := r.load(crs)
	if err != nil {
		return tolerate(r, "", err)
	}
	s, err := ref.Export(n)
	return tolerate(r, s, err)
}

// Export writes the reference in notation n. EPSG, OGC_URN and OGC_URL
// need an authority code.
func (ref *SpatialReference) Export(n Notation) (string, error) {
	switch n {
	case WKT:
		return formatWKT(ref), nil
	case PROJ:
		return formatProj4(ref), nil
	case EPSG, OGCURN, OGCURL:
	default:
		return "", errors.Mark(errors.Newf("notation %q", string(n)), ErrUnknownNotation)
	}

	auth, code, ok := ref.Authority()
	if !ok {
		return "", errors.Mark(errors.Newf("%s has no authority code for %s", ref.Name(), n), ErrMissingAuthorityCode)
	}
	switch n {
	case EPSG:
		return strings.ToUpper(auth) + ":" + code, nil
	case OGCURN:
		return fmt.Sprintf("%s%s::%s", urnPrefix, auth, code), nil
	default:
		return fmt.Sprintf("%s%s/0/%s", urlPrefix, auth, code), nil
	}
}

// EPSGCode returns the numeric authority code of crs.
func (r *Resolver) EPSGCode(crs any) (int, error) {
	ref, err := r.load(crs)
	if err != nil {
		return tolerate(r, 0, err)
	}
	code, err := ref.EPSG()
	return tolerate(r, code, err)
}

// EPSGString returns crs as "AUTHORITY:code".
func (r *Resolver) EPSGString(crs any) (string, error) {
	return r.Export(crs, EPSG)
}

// IsGeographic reports whether crs uses longitude and latitude.
func (r *Resolver) IsGeographic(crs any) (bool, error) {
	ref, err := r.load(crs)
	if err != nil {
		return tolerate(r, false, err)
	}
	return ref.IsGeographic(), nil
}

// IsProjected reports whether crs is a map projection.
func (r *Resolver) IsProjected(crs any) (bool, error) {
	ref, err := r.load(crs)
	if err != nil {
		return tolerate(r, false, err)
	}
	return ref.IsProjected(), nil
}

// IsValid reports whether crs loads and passes validation. An error is
// returned only when crs cannot be loaded.
func (r *Resolver) IsValid(crs any) (bool, error) {
	ref, err := r.load(crs)
	if err != nil {
		return tolerate(r, false, err)
	}
	if err := ref.Validate(); err != nil {
		r.log.Debug().Err(err).Str("crs", ref.Name()).Msg("CRS failed validation")
		return false, nil
	}
	return true, nil
}

// DistanceFunction selects the distance metric matching the kind of crs:
// geodesic metres for geographic systems, Euclidean map units for
// projected ones.
func (r *Resolver) DistanceFunction(crs any) (planar.DistanceFunc, error) {
	ref, err := r.load(crs)
	if err != nil {
		return tolerate[planar.DistanceFunc](r, nil, err)
	}
	switch {
	case ref.IsGeographic():
		return planar.GeographicDistance, nil
	case ref.IsProjected():
		return planar.ProjectedDistance, nil
	}
	err = errors.Mark(errors.Newf("%s is %s", ref.Name(), ref.Kind()), ErrUnsupportedCRSForDistance)
	return tolerate[planar.DistanceFunc](r, nil, err)
}

// Identify returns crs with its authority code, looking the definition up
// in the registry when crs carries none.
func (r *Resolver) Identify(crs any) (*SpatialReference, error) {
	ref, err := r.load(crs)
	if err != nil {
		return tolerate(r, ref, err)
	}
	if _, _, ok := ref.Authority(); ok {
		return ref, nil
	}
	match, ok := r.registry.Match(ref)
	if !ok {
		err = errors.Mark(errors.Newf("no registered CRS matches %s", formatProj4(ref)), ErrMissingAuthorityCode)
		return tolerate[*SpatialReference](r, nil, err)
	}
	r.log.Debug().Str("proj4", formatProj4(ref)).Str("code", match.code).Msg("CRS identified")
	return match, nil
}
