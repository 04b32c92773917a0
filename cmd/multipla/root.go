package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/monkeython/multipla"
	"github.com/monkeython/multipla/discovery"
	"github.com/monkeython/multipla/internal/config"
	"github.com/monkeython/multipla/internal/log"
	"github.com/monkeython/multipla/internal/tracing"
)

var (
	cfgFile string
	cfg     config.Config
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "multipla",
	Short: "Inspect and resolve rated plugin registries",
	Long: `multipla powers up a plugin registry from plug manifests, lets you
rate competing implementations of an extension point, and resolves a name
to the highest-rated implementation.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/multipla/config.yaml)")
	rootCmd.PersistentFlags().StringP("registry", "r", "",
		"registry name to operate on")
	rootCmd.PersistentFlags().StringSliceP("manifests", "m", nil,
		"manifest directories to power up from")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"write a debug log")

	_ = viper.BindPFlag("registry", rootCmd.PersistentFlags().Lookup("registry"))
	_ = viper.BindPFlag("manifest_dirs", rootCmd.PersistentFlags().Lookup("manifests"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("registry", defaults.Registry)
	viper.SetDefault("manifest_dirs", defaults.ManifestDirs)
	viper.SetDefault("watch.enabled", defaults.Watch.Enabled)
	viper.SetDefault("watch.debounce", defaults.Watch.Debounce)
	viper.SetDefault("cache.enabled", defaults.Cache.Enabled)
	viper.SetDefault("cache.ttl", defaults.Cache.TTL)
	viper.SetDefault("log_path", defaults.LogPath)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .multipla/config.yaml (current directory)
		// 2. ~/.config/multipla/config.yaml (user config)
		if _, err := os.Stat(".multipla/config.yaml"); err == nil {
			viper.SetConfigFile(".multipla/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "multipla"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	viper.SetEnvPrefix("multipla")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Missing config is fine, we run on defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// setup validates the configuration and initializes logging and tracing.
// The returned cleanup flushes both and must run before exit.
func setup(ctx context.Context) (*tracing.Provider, func(), error) {
	if err := config.Validate(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cleanupLog := func() {}
	if debug || os.Getenv("MULTIPLA_DEBUG") != "" {
		closeLog, err := log.Init(cfg.LogPath)
		if err != nil {
			return nil, nil, fmt.Errorf("initializing log: %w", err)
		}
		cleanupLog = closeLog
	}

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		cleanupLog()
		return nil, nil, fmt.Errorf("initializing tracing: %w", err)
	}

	cleanup := func() {
		if err := provider.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatTrace, "tracing shutdown failed", err)
		}
		cleanupLog()
	}
	return provider, cleanup, nil
}

// manifestSources builds one discovery source per configured manifest
// directory, skipping directories that do not exist.
func manifestSources() []*discovery.ManifestDir {
	var sources []*discovery.ManifestDir
	for _, dir := range cfg.ManifestDirs {
		if _, err := os.Stat(dir); err != nil {
			log.Warn(log.CatConfig, "skipping missing manifest dir", "dir", dir)
			continue
		}
		sources = append(sources, discovery.NewManifestDir(dir))
	}
	return sources
}

// powerUp builds the configured registry: subscribes it to every manifest
// directory and applies the preset ratings from the config file.
func powerUp(ctx context.Context) (*multipla.Multipla, error) {
	dirs := manifestSources()
	sources := make([]discovery.Source, len(dirs))
	for i, dir := range dirs {
		sources[i] = dir
	}

	registry, err := multipla.PowerUp(ctx, cfg.Registry, sources...)
	if err != nil {
		return nil, err
	}

	for label, scores := range cfg.Ratings {
		adapter := registry.SwitchOn(label)
		for id, score := range scores {
			// Rated one at a time: presets may name plugs that are not
			// installed, and those must not block the ones that are.
			if err := adapter.Rate(map[string]float64{id: score}); err != nil {
				log.Warn(log.CatConfig, "preset rating skipped",
					"label", label, "id", id, "reason", err)
			}
		}
	}
	return registry, nil
}
