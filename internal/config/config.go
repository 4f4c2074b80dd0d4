// Package config handles configuration loading for the command line tools.
package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/woozymasta/georef/internal/planar"
)

// Config represents the root configuration file structure.
type Config struct {
	Distance    Distance `yaml:"distance" json:"distance"`
	Registry    string   `yaml:"registry,omitempty" json:"registry,omitempty"` // extra EPSG catalogue file
	DefaultCRS  string   `yaml:"default_crs,omitempty" json:"default_crs,omitempty"`
	Resample    float64  `yaml:"resample,omitempty" json:"resample,omitempty"` // 0 disables
	Concurrency int      `yaml:"concurrency,omitempty" json:"concurrency,omitempty"`
	Permissive  bool     `yaml:"permissive,omitempty" json:"permissive,omitempty"`
}

// Distance selects the reducers used for line distances.
type Distance struct {
	PointReducer string `yaml:"point_reducer,omitempty" json:"point_reducer,omitempty"`
	LineReducer  string `yaml:"line_reducer,omitempty" json:"line_reducer,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		DefaultCRS:  "EPSG:4326",
		Concurrency: 8,
		Distance: Distance{
			PointReducer: "min",
			LineReducer:  "min",
		},
	}
}

// Load reads and parses the YAML configuration file from the specified path.
// Keys missing from the file keep their Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "validate %s", path)
	}

	return cfg, nil
}

// LoadOrDefault is Load, except a missing file yields Default.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	cfg, err := Load(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	return cfg, err
}

// Validate checks reducer names and numeric ranges.
func (c *Config) Validate() error {
	if c.Concurrency < 0 {
		return errors.Newf("concurrency must not be negative, got %d", c.Concurrency)
	}
	if c.Resample < 0 {
		return errors.Newf("resample interval must not be negative, got %v", c.Resample)
	}
	if _, err := c.Reducers(); err != nil {
		return err
	}
	return nil
}

// Reducers resolves the configured reducer names.
func (c *Config) Reducers() (planar.Reducers, error) {
	var r planar.Reducers
	var err error
	if c.Distance.PointReducer != "" {
		if r.PerPoint, err = planar.ReducerByName(c.Distance.PointReducer); err != nil {
			return r, errors.Wrap(err, "point_reducer")
		}
	}
	if c.Distance.LineReducer != "" {
		if r.Overall, err = planar.ReducerByName(c.Distance.LineReducer); err != nil {
			return r, errors.Wrap(err, "line_reducer")
		}
	}
	return r, nil
}
