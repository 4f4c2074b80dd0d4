package main

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/jessevdk/go-flags"
	"github.com/paulmach/orb"
	"github.com/rs/zerolog/log"

	"github.com/woozymasta/georef/internal/config"
	"github.com/woozymasta/georef/internal/lines"
	"github.com/woozymasta/georef/internal/logger"
	"github.com/woozymasta/georef/internal/planar"
	"github.com/woozymasta/georef/internal/processor"
	"github.com/woozymasta/georef/internal/srs"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile   string  `short:"c" long:"config"        env:"CONFIG_FILE"   description:"Path to configuration file" default:"config.yaml"`
	CRS          string  `short:"s" long:"crs"           env:"CRS"           description:"CRS of the input coordinates, the configured default_crs when empty"`
	Registry     string  `short:"r" long:"registry"      env:"REGISTRY"      description:"Extra EPSG catalogue (YAML)"`
	Reference    string  `short:"R" long:"reference"     env:"REFERENCE"     description:"Name of the reference line, the first line when empty"`
	PointReducer string  `long:"point-reducer"           env:"POINT_REDUCER" description:"Reducer over the vertices of the reference line" choice:"min" choice:"max" choice:"mean" choice:"sum"`
	LineReducer  string  `long:"line-reducer"            env:"LINE_REDUCER"  description:"Reducer over the vertices of each line" choice:"min" choice:"max" choice:"mean" choice:"sum"`
	Output       string  `short:"o" long:"output"        env:"OUTPUT"        description:"GeoJSON report path, stdout when empty"`
	Resample     float64 `short:"i" long:"resample"      env:"RESAMPLE"      description:"Resample lines to this vertex interval in CRS units, 0 disables"`
	Concurrency  int     `short:"p" long:"concurrency"   env:"CONCURRENCY"   description:"Concurrency"`
	Force        bool    `short:"f" long:"force"         description:"Force overwrite of existing output"`
	Permissive   bool    `short:"P" long:"permissive"    env:"PERMISSIVE"    description:"Skip CRS errors instead of failing"`

	Args struct {
		Input string `positional-arg-name:"input" description:"GeoJSON or WKT file, stdin when omitted or -"`
	} `positional-args:"yes"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg, err := config.LoadOrDefault(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	applyFlags(cfg, &opts)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid options")
	}

	registry := srs.DefaultRegistry()
	if cfg.Registry != "" {
		if registry, err = srs.LoadRegistryFile(registry, cfg.Registry); err != nil {
			log.Fatal().Err(err).Str("path", cfg.Registry).Msg("Failed to load registry")
		}
	}
	resolver := srs.New(srs.Options{
		Registry:   registry,
		Permissive: cfg.Permissive,
		Logger:     logger.Get(),
	})

	df, err := resolver.DistanceFunction(cfg.DefaultCRS)
	if err != nil {
		log.Fatal().Err(err).Str("crs", cfg.DefaultCRS).Msg("Failed to select distance function")
	}
	if df == nil {
		log.Warn().Str("crs", cfg.DefaultCRS).Msg("Unusable CRS, falling back to planar distance")
		df = planar.ProjectedDistance
	}
	reducers, err := cfg.Reducers()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid reducers")
	}

	data, err := readInput(opts.Args.Input)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read input")
	}
	features, err := lines.ParseFeatures(data)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse input")
	}

	pairs, err := buildPairs(features, opts.Reference, cfg.Resample, df)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to prepare lines")
	}

	log.Info().
		Str("crs", cfg.DefaultCRS).
		Int("lines", len(features)).
		Int("pairs", len(pairs)).
		Float64("resample", cfg.Resample).
		Int("concurrency", cfg.Concurrency).
		Msg("Starting line distances")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results := processor.LineDistances(ctx, pairs, cfg.Concurrency, func(l1, l2 orb.LineString) (float64, error) {
		return planar.LineDistance(l1, l2, df, reducers)
	})

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			log.Error().Err(res.Err).Str("name", res.Name).Msg("Failed to measure line")
		}
	}

	report := processor.Report(pairs, results)
	if opts.Output == "" {
		err = processor.WriteGeoJSON(os.Stdout, report)
	} else {
		err = processor.SaveGeoJSON(opts.Output, report, opts.Force)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to write report")
	}

	log.Info().
		Int("measured", len(results)-failed).
		Int("failed", failed).
		Msg("Line distances finished")
}

// applyFlags overrides config values with flags given on the command line.
func applyFlags(cfg *config.Config, opts *Options) {
	if opts.CRS != "" {
		cfg.DefaultCRS = opts.CRS
	}
	if opts.Registry != "" {
		cfg.Registry = opts.Registry
	}
	if opts.PointReducer != "" {
		cfg.Distance.PointReducer = opts.PointReducer
	}
	if opts.LineReducer != "" {
		cfg.Distance.LineReducer = opts.LineReducer
	}
	if opts.Resample > 0 {
		cfg.Resample = opts.Resample
	}
	if opts.Concurrency > 0 {
		cfg.Concurrency = opts.Concurrency
	}
	if opts.Permissive {
		cfg.Permissive = true
	}
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
