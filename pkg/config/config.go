// Package config loads dimgraph settings from TOML.
//
// A configuration file has one section per concern:
//
//	[viewport]
//	width = 1024
//	height = 768
//
//	[simulation]
//	repulsion_strength = 800
//	damping = 0.6
//
//	[clustering]
//	enabled = true
//	dimension = "era"
//
//	[style]
//	influence = "impact"
//
//	[animation]
//	node_duration = "1s"
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
// Missing keys keep their [Default] values.
package config

import (
	"io"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/dimgraph/pkg/core/anim"
	"github.com/matzehuels/dimgraph/pkg/core/physics"
	"github.com/matzehuels/dimgraph/pkg/core/style"
	"github.com/matzehuels/dimgraph/pkg/errors"
)

// Cache backends.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Config is the full set of tunables.
type Config struct {
	Viewport   Viewport                 `toml:"viewport"`
	Simulation physics.Parameters       `toml:"simulation"`
	Clustering physics.ClusteringConfig `toml:"clustering"`
	Style      style.Mapping            `toml:"style"`
	Animation  Animation                `toml:"animation"`
	Cache      Cache                    `toml:"cache"`
}

// Viewport sizes the layout area.
type Viewport struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
	Seed   int64   `toml:"seed"`
}

// Animation sets transition durations.
type Animation struct {
	NodeDuration      Duration `toml:"node_duration"`
	TransformDuration Duration `toml:"transform_duration"`
}

// Cache selects and configures the layout cache backend.
type Cache struct {
	Backend string   `toml:"backend"`
	Dir     string   `toml:"dir"` // file backend; empty uses the user cache dir
	TTL     Duration `toml:"ttl"`

	RedisURL string `toml:"redis_url"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// Duration is a time.Duration written as a Go duration string ("1.5s").
type Duration struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "duration %q", b)
	}
	d.Duration = v
	return nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Viewport: Viewport{
			Width:  800,
			Height: 600,
			Seed:   1,
		},
		Simulation: physics.DefaultParameters(),
		Clustering: physics.ClusteringConfig{}.WithDefaults(),
		Style:      style.DefaultMapping(),
		Animation: Animation{
			NodeDuration:      Duration{anim.DefaultNodeDuration},
			TransformDuration: Duration{anim.DefaultTransformDuration},
		},
		Cache: Cache{
			Backend:         BackendFile,
			TTL:             Duration{7 * 24 * time.Hour},
			MongoDatabase:   "dimgraph",
			MongoCollection: "layouts",
		},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}
	return Parse(data)
}

// Parse decodes TOML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Write encodes cfg as TOML.
func (c Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate reports every invalid value.
func (c Config) Validate() error {
	errs := []error{
		errors.ValidatePositive("viewport.width", c.Viewport.Width),
		errors.ValidatePositive("viewport.height", c.Viewport.Height),
		c.Simulation.Validate(),
		c.Clustering.Validate(),
		errors.ValidateNonNegative("animation.node_duration", c.Animation.NodeDuration.Seconds()),
		errors.ValidateNonNegative("animation.transform_duration", c.Animation.TransformDuration.Seconds()),
		errors.ValidateNonNegative("cache.ttl", c.Cache.TTL.Seconds()),
	}
	switch c.Cache.Backend {
	case "", BackendNone, BackendFile:
	case BackendRedis:
		if c.Cache.RedisURL == "" {
			errs = append(errs, errors.New(errors.ErrCodeInvalidConfig, "cache.redis_url is required for the redis backend"))
		}
	case BackendMongo:
		if c.Cache.MongoURI == "" {
			errs = append(errs, errors.New(errors.ErrCodeInvalidConfig, "cache.mongo_uri is required for the mongo backend"))
		}
	default:
		errs = append(errs, errors.New(errors.ErrCodeInvalidConfig, "unknown cache.backend %q", c.Cache.Backend))
	}
	return errors.Join(errs...)
}
