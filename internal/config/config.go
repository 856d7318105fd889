package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/dpup/lrs/internal/lib/lrs"
	"github.com/dpup/lrs/internal/lib/source"
)

// EnvPrefix is the prefix of environment overrides. Double underscores
// separate levels, so LRS_FRAGMENT__MAX_LENGTH sets fragment.max_length.
const EnvPrefix = "LRS_"

// ErrInvalidConfig is returned when a loaded configuration fails validation
var ErrInvalidConfig = errors.New("invalid configuration")

// Config represents the complete configuration
type Config struct {
	System   string         `yaml:"system"`
	Fragment FragmentConfig `yaml:"fragment"`
	Logging  LoggingConfig  `yaml:"logging"`
	Routes   []RouteConfig  `yaml:"routes"`
}

// FragmentConfig controls how routes are split
type FragmentConfig struct {
	MaxLength int `yaml:"max_length"` // 0 keeps routes whole
	MaxExtent int `yaml:"max_extent"`
}

// LoggingConfig selects the logger level and encoding
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// RouteConfig represents a route to register. Exactly one geometry field
// must be set.
type RouteConfig struct {
	ID              string      `yaml:"id"`
	Name            string      `yaml:"name"`
	Coordinates     [][]float64 `yaml:"coordinates"`
	EncodedPolyline string      `yaml:"encoded_polyline"`
	GeoJSON         string      `yaml:"geojson"`
}

// ToDefinition converts RouteConfig to a source definition
func (r RouteConfig) ToDefinition() source.Definition {
	return source.Definition{
		ID:              r.ID,
		Name:            r.Name,
		Coordinates:     r.Coordinates,
		EncodedPolyline: r.EncodedPolyline,
		GeoJSON:         r.GeoJSON,
	}
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		System: string(lrs.Spherical),
		Fragment: FragmentConfig{
			MaxLength: 1000,
			MaxExtent: 50,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads the defaults, then the YAML file at path when path is not
// empty, then LRS_ environment variables, each layer overriding the last
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	d := DefaultConfig()
	defaults := map[string]interface{}{
		"system":              d.System,
		"fragment.max_length": d.Fragment.MaxLength,
		"fragment.max_extent": d.Fragment.MaxExtent,
		"logging.level":       d.Logging.Level,
		"logging.format":      d.Logging.Format,
	}
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Validate checks values that cannot be caught while decoding
func (c *Config) Validate() error {
	if _, err := lrs.ParseSystem(c.System); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Fragment.MaxLength < 0 {
		return fmt.Errorf("%w: fragment.max_length must not be negative", ErrInvalidConfig)
	}
	if c.Fragment.MaxExtent < 0 {
		return fmt.Errorf("%w: fragment.max_extent must not be negative", ErrInvalidConfig)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: logging.format must be console or json, got %q", ErrInvalidConfig, c.Logging.Format)
	}

	seen := make(map[string]bool, len(c.Routes))
	for i, r := range c.Routes {
		if r.ID == "" {
			return fmt.Errorf("%w: routes[%d] has no id", ErrInvalidConfig, i)
		}
		if seen[r.ID] {
			return fmt.Errorf("%w: duplicate route id %q", ErrInvalidConfig, r.ID)
		}
		seen[r.ID] = true
	}
	return nil
}
