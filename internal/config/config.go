// Package config provides configuration types and defaults for the
// multipla CLI.
package config

import (
	"fmt"
	"time"

	"github.com/monkeython/multipla/internal/tracing"
)

// WatchConfig controls live manifest watching.
type WatchConfig struct {
	Enabled  bool          `mapstructure:"enabled" yaml:"enabled"`
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

// CacheConfig controls the resolve cache.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled" yaml:"enabled"`
	TTL     time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

// Config holds all configuration options for the multipla CLI.
type Config struct {
	// Registry is the registry name commands operate on.
	Registry string `mapstructure:"registry" yaml:"registry"`

	// ManifestDirs are the directories scanned for plug manifests.
	ManifestDirs []string `mapstructure:"manifest_dirs" yaml:"manifest_dirs"`

	Watch WatchConfig `mapstructure:"watch" yaml:"watch"`
	Cache CacheConfig `mapstructure:"cache" yaml:"cache"`

	// Ratings are preset scores applied after power-up:
	// extension point label -> implementation id -> score.
	Ratings map[string]map[string]float64 `mapstructure:"ratings" yaml:"ratings"`

	Tracing tracing.Config `mapstructure:"tracing" yaml:"tracing"`

	// LogPath is where the debug log is written when --debug is set.
	LogPath string `mapstructure:"log_path" yaml:"log_path"`
}

// Defaults returns the configuration used when no config file is present.
func Defaults() Config {
	return Config{
		Registry:     "default",
		ManifestDirs: []string{".multipla/plugs"},
		Watch: WatchConfig{
			Enabled:  false,
			Debounce: 500 * time.Millisecond,
		},
		Cache: CacheConfig{
			Enabled: false,
			TTL:     time.Minute,
		},
		Ratings: map[string]map[string]float64{},
		Tracing: tracing.DefaultConfig(),
		LogPath: ".multipla/debug.log",
	}
}

// Validate rejects configurations the commands cannot work with.
func Validate(cfg Config) error {
	if cfg.Registry == "" {
		return fmt.Errorf("registry name must not be empty")
	}
	for label, scores := range cfg.Ratings {
		if label == "" {
			return fmt.Errorf("ratings contain an empty extension point label")
		}
		for id, score := range scores {
			if id == "" {
				return fmt.Errorf("ratings for %q contain an empty implementation id", label)
			}
			if score < 0 {
				return fmt.Errorf("rating %s.%s is negative", label, id)
			}
		}
	}
	return nil
}
