// Package config loads the application configuration from YAML with
// environment overrides for connection secrets.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/retailscan/retailscan/internal/engine"
	"github.com/retailscan/retailscan/internal/scan"
)

// Config is the full application configuration.
type Config struct {
	Engine    engine.Config `yaml:"engine"`
	Scan      scan.Config   `yaml:"scan"`
	Server    ServerConfig  `yaml:"server"`
	Store     StoreConfig   `yaml:"store"`
	Watchlist []string      `yaml:"watchlist"` // fallback when no database is configured
}

// ServerConfig tunes the HTTP API listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// StoreConfig wires persistence. Empty DSN or address disables the
// corresponding backend; the rest of the app degrades gracefully.
type StoreConfig struct {
	PostgresDSN string        `yaml:"postgres_dsn"`
	RedisAddr   string        `yaml:"redis_addr"`
	RedisDB     int           `yaml:"redis_db"`
	CacheTTL    time.Duration `yaml:"cache_ttl"`
}

// Default returns the configuration the binary runs with when no file is
// given: engine defaults, conservative scan settings, no persistence.
func Default() *Config {
	return &Config{
		Engine: *engine.DefaultConfig(),
		Scan:   scan.DefaultConfig(),
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			CacheTTL: 15 * time.Minute,
		},
	}
}

// Load reads a YAML config file over the defaults, applies environment
// overrides, and validates the result.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyEnv lets deployments keep secrets out of the YAML file.
func (c *Config) applyEnv() {
	if dsn := os.Getenv("RETAILSCAN_POSTGRES_DSN"); dsn != "" {
		c.Store.PostgresDSN = dsn
	}
	if addr := os.Getenv("RETAILSCAN_REDIS_ADDR"); addr != "" {
		c.Store.RedisAddr = addr
	}
}

// Validate checks the configuration end to end, engine thresholds included.
func (c *Config) Validate() error {
	if err := c.Engine.Validate(); err != nil {
		return err
	}
	if c.Scan.Workers <= 0 {
		return fmt.Errorf("scan.workers must be positive, got %d", c.Scan.Workers)
	}
	if c.Scan.RPS <= 0 {
		return fmt.Errorf("scan.rps must be positive, got %v", c.Scan.RPS)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}
	if c.Store.CacheTTL < 0 {
		return fmt.Errorf("store.cache_ttl must not be negative")
	}
	return nil
}
