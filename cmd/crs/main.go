package main

import (
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"

	"github.com/woozymasta/georef/internal/config"
	"github.com/woozymasta/georef/internal/logger"
	"github.com/woozymasta/georef/internal/srs"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config"     env:"CONFIG_FILE" description:"Path to configuration file" default:"config.yaml"`
	Registry   string `short:"r" long:"registry"   env:"REGISTRY"    description:"Extra EPSG catalogue (YAML)"`
	Format     string `short:"o" long:"format"     env:"FORMAT"      description:"Output format" default:"json" choice:"json" choice:"yaml" choice:"text"`
	Permissive bool   `short:"P" long:"permissive" env:"PERMISSIVE"  description:"Print empty results instead of failing"`
}

var opts Options

// app is shared by all commands and built once flags are parsed.
type app struct {
	cfg      *config.Config
	resolver *srs.Resolver
}

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		opts.Logger.Setup()
		if cmd == nil {
			return nil
		}
		return cmd.Execute(args)
	}

	commands := []struct {
		data  flags.Commander
		name  string
		short string
	}{
		{&detectCommand{}, "detect", "Detect the notation of a CRS definition"},
		{&convertCommand{}, "convert", "Rewrite a CRS in another notation"},
		{&infoCommand{}, "info", "Describe a CRS"},
		{&utmCommand{}, "utm", "Find the UTM zone of a point"},
		{&distanceCommand{}, "distance", "Measure the distance between two points"},
		{&reprojectCommand{}, "reproject", "Transform a point between two CRS"},
		{&notationsCommand{}, "notations", "List supported notations"},
	}
	for _, c := range commands {
		if _, err := parser.AddCommand(c.name, c.short, c.short, c.data); err != nil {
			log.Fatal().Err(err).Str("command", c.name).Msg("Failed to register command")
		}
	}

	if _, err := parser.Parse(); err != nil {
		// errors are already printed by the parser
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}

// newApp loads the configuration and builds the resolver. Flags take
// precedence over config values.
func newApp() (*app, error) {
	cfg, err := config.LoadOrDefault(opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	if opts.Registry != "" {
		cfg.Registry = opts.Registry
	}
	if opts.Permissive {
		cfg.Permissive = true
	}

	registry := srs.DefaultRegistry()
	if cfg.Registry != "" {
		if registry, err = srs.LoadRegistryFile(registry, cfg.Registry); err != nil {
			return nil, err
		}
		log.Debug().
			Str("path", cfg.Registry).
			Int("codes", registry.Len()).
			Msg("Registry extended")
	}

	return &app{
		cfg: cfg,
		resolver: srs.New(srs.Options{
			Registry:   registry,
			Permissive: cfg.Permissive,
			Logger:     logger.Get(),
		}),
	}, nil
}
