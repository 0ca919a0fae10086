// Package config loads atlas settings from a TOML file.
//
// The file lives at ~/.config/atlas/config.toml by default and every
// field has a working default, so a missing file is not an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Backend names accepted in the store section.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Config holds all atlas settings.
type Config struct {
	// DataDir is where the file backend keeps snapshots and backups.
	DataDir string `toml:"data_dir"`

	// Backend selects the snapshot store: file, redis, or mongo.
	Backend string `toml:"backend"`

	Redis  Redis  `toml:"redis"`
	Mongo  Mongo  `toml:"mongo"`
	Server Server `toml:"server"`
	Cache  Cache  `toml:"cache"`
}

// Redis configures the redis store backend.
type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// Mongo configures the mongo store backend.
type Mongo struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Server configures the HTTP server.
type Server struct {
	Addr string `toml:"addr"`

	// Autosave persists the graph after every mutating request.
	Autosave bool `toml:"autosave"`
}

// Cache configures the render artifact cache.
type Cache struct {
	// Dir overrides the cache directory. Empty uses the user cache dir.
	Dir string `toml:"dir"`

	// Disabled turns artifact caching off.
	Disabled bool `toml:"disabled"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		DataDir: "data",
		Backend: BackendFile,
		Redis: Redis{
			Addr:   "localhost:6379",
			Prefix: "atlas",
		},
		Mongo: Mongo{
			URI:        "mongodb://localhost:27017",
			Database:   "atlas",
			Collection: "snapshots",
		},
		Server: Server{
			Addr:     "localhost:8351",
			Autosave: true,
		},
	}
}

// Path returns the default config file location,
// ~/.config/atlas/config.toml.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "atlas", "config.toml"), nil
}

// Load reads the config file at path, filling unset fields with defaults.
// A missing file returns the defaults with no error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault loads from the default path.
func LoadDefault() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), err
	}
	return Load(path)
}

func (c Config) validate() error {
	switch c.Backend {
	case BackendFile, BackendRedis, BackendMongo:
		return nil
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
}
