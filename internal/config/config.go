// Package config loads server configuration from a TOML file. Every field
// has a working default so the server runs with no file at all.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/structlab/structlab/pkg/errors"
)

// Duration decodes TOML duration strings like "30s" or "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Config is the full server configuration.
type Config struct {
	Server   Server   `toml:"server"`
	Layout   Layout   `toml:"layout"`
	Registry Registry `toml:"registry"`
	Archive  Archive  `toml:"archive"`
}

// Server configures the HTTP listener.
type Server struct {
	Addr            string   `toml:"addr"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// Layout configures the force-directed placement canvas and schedule.
type Layout struct {
	Width      float64 `toml:"width"`
	Height     float64 `toml:"height"`
	Margin     float64 `toml:"margin"`
	Iterations int     `toml:"iterations"`
	Step       float64 `toml:"step"`
	Damping    float64 `toml:"damping"`
	Seed       uint64  `toml:"seed"`
}

// Registry configures fragment token lifetimes and the optional Redis
// backend. An empty RedisAddr selects the in-memory store. A zero TTL
// means tokens never expire.
type Registry struct {
	TTL           Duration `toml:"ttl"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
}

// Archive configures the optional MongoDB snapshot archive. An empty URI
// selects the in-memory store.
type Archive struct {
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: Server{
			Addr:            ":8080",
			ReadTimeout:     Duration{10 * time.Second},
			WriteTimeout:    Duration{30 * time.Second},
			ShutdownTimeout: Duration{10 * time.Second},
		},
		Layout: Layout{
			Width:      1200,
			Height:     800,
			Margin:     50,
			Iterations: 100,
			Step:       0.1,
			Damping:    0.9,
			Seed:       1,
		},
		Registry: Registry{
			TTL: Duration{24 * time.Hour},
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults
// unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %q", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %q", path)
	}
	return cfg, nil
}
