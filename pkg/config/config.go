// Package config loads the optional user configuration file. Settings
// cover cache placement and backend, the serve address, and viewer
// preferences; every field has a working default so the file is never
// required.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/mhersch/treeline/pkg/errors"
)

// Config is the user configuration, loaded from
// ~/.config/treeline/config.toml when present.
type Config struct {
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Viewer ViewerConfig `toml:"viewer"`
}

// CacheConfig selects and tunes the pipeline cache backend.
type CacheConfig struct {
	// Backend is "file", "redis", or "none".
	Backend string `toml:"backend"`

	// Dir is the file cache directory. Empty uses ~/.cache/treeline.
	Dir string `toml:"dir"`

	// RedisAddr is the host:port of the Redis server for the redis
	// backend.
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// ServerConfig tunes the HTTP API server.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `toml:"addr"`
}

// ViewerConfig holds interactive viewer preferences.
type ViewerConfig struct {
	// FitOnOpen runs a fit-to-content pass when a document is first
	// shown.
	FitOnOpen bool `toml:"fit_on_open"`

	// ShowContent displays node body text in addition to topics.
	ShowContent bool `toml:"show_content"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Cache:  CacheConfig{Backend: "file"},
		Server: ServerConfig{Addr: ":8080"},
		Viewer: ViewerConfig{FitOnOpen: true, ShowContent: true},
	}
}

// Path returns the location of the user configuration file.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "resolve config dir")
	}
	return filepath.Join(dir, "treeline", "config.toml"), nil
}

// Load reads the configuration file at path, falling back to defaults
// for a missing file. An empty path uses the standard location.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		p, err := Path()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "read config %s", path)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.Cache.Backend {
	case "file", "redis", "none":
	default:
		return errors.New(errors.ErrCodeInvalidInput,
			"unknown cache backend %q (must be file, redis, or none)", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "redis backend requires redis_addr")
	}
	return nil
}
