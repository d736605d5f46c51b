package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hbenali/aeropass/pkg/database"
	"github.com/hbenali/aeropass/pkg/keyset"
	"github.com/hbenali/aeropass/pkg/storage"
	"github.com/pelletier/go-toml/v2"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvAeropassEnv             = "AEROPASS_ENV"
	EnvAeropassShutdownTimeout = "AEROPASS_SHUTDOWN_TIMEOUT"
	EnvAeropassVersion         = "AEROPASS_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "AEROPASS_DB_HOST",
	Port:            "AEROPASS_DB_PORT",
	Name:            "AEROPASS_DB_NAME",
	User:            "AEROPASS_DB_USER",
	Password:        "AEROPASS_DB_PASSWORD",
	SSLMode:         "AEROPASS_DB_SSL_MODE",
	MaxOpenConns:    "AEROPASS_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "AEROPASS_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "AEROPASS_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "AEROPASS_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "AEROPASS_STORAGE_CONTAINER_NAME",
	ConnectionString: "AEROPASS_STORAGE_CONNECTION_STRING",
}

var keysetEnv = &keyset.Env{
	Host:      "AEROPASS_REDIS_HOST",
	Port:      "AEROPASS_REDIS_PORT",
	Password:  "AEROPASS_REDIS_PASSWORD",
	DB:        "AEROPASS_REDIS_DB",
	KeyPrefix: "AEROPASS_REDIS_KEY_PREFIX",
}

// Config is the root configuration for the Aeropass service.
type Config struct {
	Server          ServerConfig        `toml:"server"`
	Database        database.Config     `toml:"database"`
	Storage         storage.Config      `toml:"storage"`
	Keyset          keyset.Config       `toml:"keyset"`
	API             APIConfig           `toml:"api"`
	Notifications   NotificationsConfig `toml:"notifications"`
	ShutdownTimeout string              `toml:"shutdown_timeout"`
	Version         string              `toml:"version"`
}

// Env returns the AEROPASS_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvAeropassEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Keyset.Merge(&overlay.Keyset)
	c.API.Merge(&overlay.API)
	c.Notifications.Merge(&overlay.Notifications)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Keyset.Finalize(keysetEnv); err != nil {
		return fmt.Errorf("keyset: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Notifications.Finalize(); err != nil {
		return fmt.Errorf("notifications: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvAeropassShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvAeropassVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvAeropassEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
