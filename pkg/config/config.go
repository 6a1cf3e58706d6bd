// Package config loads refnet configuration from TOML files.
//
// Configuration is optional: every field has a sensible default, and a
// missing config file is not an error. The CLI looks for refnet.toml in
// the working directory unless a path is given with --config.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/refnetlabs/refnet/pkg/growth"
)

// DefaultFilename is the config file the CLI looks for when no path is given.
const DefaultFilename = "refnet.toml"

// Config holds all refnet settings.
type Config struct {
	Simulator SimulatorConfig `toml:"simulator"`
	Server    ServerConfig    `toml:"server"`
	Cache     CacheConfig     `toml:"cache"`
	Store     StoreConfig     `toml:"store"`
}

// SimulatorConfig holds growth simulation defaults.
type SimulatorConfig struct {
	InitialReferrers int     `toml:"initial_referrers"`
	Capacity         float64 `toml:"capacity"`
}

// ServerConfig holds API server settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// CacheConfig holds cache backend settings.
type CacheConfig struct {
	// Backend selects the cache implementation: file, redis, or none.
	Backend string `toml:"backend"`

	// Dir is the cache directory for the file backend.
	// Empty means the XDG cache directory.
	Dir string `toml:"dir"`

	// RedisAddr is the host:port of the Redis server for the redis backend.
	RedisAddr string `toml:"redis_addr"`
}

// StoreConfig holds report store settings.
type StoreConfig struct {
	// Backend selects the store implementation: memory or mongo.
	Backend string `toml:"backend"`

	// MongoURI is the connection string for the mongo backend.
	MongoURI string `toml:"mongo_uri"`

	// MongoDatabase is the database name for the mongo backend.
	MongoDatabase string `toml:"mongo_database"`
}

// Default returns a Config with all default values applied.
func Default() Config {
	return Config{
		Simulator: SimulatorConfig{
			InitialReferrers: growth.DefaultInitialReferrers,
			Capacity:         growth.DefaultCapacity,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Cache: CacheConfig{
			Backend: "file",
		},
		Store: StoreConfig{
			Backend:       "memory",
			MongoDatabase: "refnet",
		},
	}
}

// Load reads a TOML config file and merges it over the defaults.
// A missing file at the default path is not an error; a missing file at an
// explicitly given path is.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && path == DefaultFilename {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Cache.Backend {
	case "file", "redis", "none":
	default:
		return fmt.Errorf("invalid cache backend: %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case "memory", "mongo":
	default:
		return fmt.Errorf("invalid store backend: %q (must be one of: memory, mongo)", c.Store.Backend)
	}
	if c.Simulator.InitialReferrers < 0 {
		return fmt.Errorf("initial_referrers cannot be negative")
	}
	if c.Simulator.Capacity < 0 {
		return fmt.Errorf("capacity cannot be negative")
	}
	return nil
}
