package srs

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strconv"
	"sync"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

//go:embed registry.yaml
var registryYAML []byte

// RegistryEntry is one CRS definition of a registry file.
type RegistryEntry struct {
	Code  int    `yaml:"code"`
	Name  string `yaml:"name"`
	Base  string `yaml:"base,omitempty"`
	Proj4 string `yaml:"proj4"`
}

// RegistryFile is the YAML layout of a registry.
type RegistryFile struct {
	Authority string          `yaml:"authority"`
	CRS       []RegistryEntry `yaml:"crs"`
}

// Registry maps authority codes to parsed references. It is read-only
// after construction.
type Registry struct {
	authority string
	refs      map[int]*SpatialReference
	canonical map[string]int
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the built-in EPSG registry.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		r, err := NewRegistry(registryYAML)
		if err != nil {
			panic(errors.Wrap(err, "embedded registry"))
		}
		defaultRegistry = r.withEntries(generatedUTM())
	})
	return defaultRegistry
}

// NewRegistry parses a YAML registry document.
func NewRegistry(data []byte) (*Registry, error) {
	r := &Registry{
		authority: "EPSG",
		refs:      map[int]*SpatialReference{},
		canonical: map[string]int{},
	}
	return r.Extend(data)
}

// LoadRegistryFile returns base extended with the definitions of a YAML file.
func LoadRegistryFile(base *Registry, path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read registry %s", path)
	}
	r, err := base.Extend(data)
	if err != nil {
		return nil, errors.Wrapf(err, "registry %s", path)
	}
	return r, nil
}

// Extend returns a copy of r with the definitions of a YAML document added.
// Entries override existing codes.
func (r *Registry) Extend(data []byte) (*Registry, error) {
	var f RegistryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decode registry"), ErrInvalidCRSDefinition)
	}
	authority := r.authority
	if f.Authority != "" {
		authority = f.Authority
	}

	refs := make(map[int]*SpatialReference, len(f.CRS))
	for _, e := range f.CRS {
		ref, err := e.parse(authority)
		if err != nil {
			return nil, err
		}
		refs[e.Code] = ref
	}

	out := r.withRefs(refs)
	out.authority = authority
	return out, nil
}

func (e RegistryEntry) parse(authority string) (*SpatialReference, error) {
	if e.Code <= 0 {
		return nil, invalidf("registry entry %q has code %d", e.Name, e.Code)
	}
	ref, err := parseProj4(e.Proj4)
	if err != nil {
		return nil, errors.Wrapf(err, "%s:%d", authority, e.Code)
	}
	ref = ref.withAuthority(e.Name, authority, strconv.Itoa(e.Code))
	if e.Base != "" {
		ref.geogName = e.Base
	} else if ref.kind != KindProjected {
		ref.geogName = e.Name
	}
	return ref, nil
}

func (r *Registry) withEntries(entries []RegistryEntry) *Registry {
	refs := make(map[int]*SpatialReference, len(entries))
	for _, e := range entries {
		ref, err := e.parse(r.authority)
		if err != nil {
			panic(err)
		}
		refs[e.Code] = ref
	}
	return r.withRefs(refs)
}

func (r *Registry) withRefs(refs map[int]*SpatialReference) *Registry {
	out := &Registry{
		authority: r.authority,
		refs:      make(map[int]*SpatialReference, len(r.refs)+len(refs)),
	}
	for code, ref := range r.refs {
		out.refs[code] = ref
	}
	for code, ref := range refs {
		out.refs[code] = ref
	}
	out.index()
	return out
}

// index maps each canonical PROJ.4 form to its lowest code.
func (r *Registry) index() {
	r.canonical = make(map[string]int, len(r.refs))
	for _, code := range r.Codes() {
		key := formatProj4(r.refs[code])
		if _, ok := r.canonical[key]; !ok {
			r.canonical[key] = code
		}
	}
}

// Lookup returns the reference registered under code.
func (r *Registry) Lookup(code int) (*SpatialReference, bool) {
	ref, ok := r.refs[code]
	return ref, ok
}

// Match finds the registered reference with the same definition as ref.
func (r *Registry) Match(ref *SpatialReference) (*SpatialReference, bool) {
	code, ok := r.canonical[formatProj4(ref)]
	if !ok {
		return nil, false
	}
	return r.refs[code], true
}

// Codes returns all registered codes in ascending order.
func (r *Registry) Codes() []int {
	codes := make([]int, 0, len(r.refs))
	for code := range r.refs {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	return codes
}

// Len returns the number of registered references.
func (r *Registry) Len() int {
	return len(r.refs)
}

// Authority returns the authority name of the registry codes.
func (r *Registry) Authority() string {
	return r.authority
}

// generatedUTM lists the UTM zones on WGS 84 in both hemispheres and
// the ETRS89 zones 28 to 38.
func generatedUTM() []RegistryEntry {
	entries := make([]RegistryEntry, 0, 60*2+11)
	for zone := 1; zone <= 60; zone++ {
		entries = append(entries,
			RegistryEntry{
				Code:  32600 + zone,
				Name:  fmt.Sprintf("WGS 84 / UTM zone %dN", zone),
				Base:  "WGS 84",
				Proj4: fmt.Sprintf("+proj=utm +zone=%d +datum=WGS84 +units=m +no_defs", zone),
			},
			RegistryEntry{
				Code:  32700 + zone,
				Name:  fmt.Sprintf("WGS 84 / UTM zone %dS", zone),
				Base:  "WGS 84",
				Proj4: fmt.Sprintf("+proj=utm +zone=%d +south +datum=WGS84 +units=m +no_defs", zone),
			},
		)
	}
	for zone := 28; zone <= 38; zone++ {
		entries = append(entries, RegistryEntry{
			Code:  25800 + zone,
			Name:  fmt.Sprintf("ETRS89 / UTM zone %dN", zone),
			Base:  "ETRS89",
			Proj4: fmt.Sprintf("+proj=utm +zone=%d +ellps=GRS80 +towgs84=0,0,0,0,0,0,0 +units=m +no_defs", zone),
		})
	}
	return entries
}
