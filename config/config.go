package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Defaults for optional settings
const (
	DefaultListenAddr = ":9000"
	DefaultMongoURI   = "mongodb://localhost:27017"
	DefaultMongoDB    = "marketloop"
	DefaultRedisURL   = "redis://localhost:6379/0"
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// Config holds the process configuration. Signing secrets and cookie policy
// are passed explicitly to the components that need them; nothing reads the
// environment after startup.
type Config struct {
	ListenAddr string

	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration

	MongoURI      string
	MongoDatabase string
	RedisURL      string

	// Production enables the Secure attribute on auth cookies
	Production bool
}

// FromEnv builds a Config from AUTHD_* environment variables
func FromEnv() (Config, error) {
	cfg := Config{
		ListenAddr:    getenv("AUTHD_LISTEN_ADDR", DefaultListenAddr),
		AccessSecret:  os.Getenv("AUTHD_ACCESS_SECRET"),
		RefreshSecret: os.Getenv("AUTHD_REFRESH_SECRET"),
		AccessTTL:     DefaultAccessTTL,
		RefreshTTL:    DefaultRefreshTTL,
		MongoURI:      getenv("AUTHD_MONGO_URI", DefaultMongoURI),
		MongoDatabase: getenv("AUTHD_MONGO_DATABASE", DefaultMongoDB),
		RedisURL:      getenv("AUTHD_REDIS_URL", DefaultRedisURL),
		Production:    os.Getenv("AUTHD_ENV") == "production",
	}

	for _, name := range []string{"AUTHD_ACCESS_TTL", "AUTHD_REFRESH_TTL"} {
		raw := os.Getenv(name)
		if raw == "" {
			continue
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", name, err)
		}
		if name == "AUTHD_ACCESS_TTL" {
			cfg.AccessTTL = d
		} else {
			cfg.RefreshTTL = d
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks that the configuration is usable
func (c Config) Validate() error {
	if c.AccessSecret == "" {
		return errors.New("AUTHD_ACCESS_SECRET is required")
	}
	if c.RefreshSecret == "" {
		return errors.New("AUTHD_REFRESH_SECRET is required")
	}
	// Distinct secrets so that compromise of one key does not compromise both
	// token kinds
	if c.AccessSecret == c.RefreshSecret {
		return errors.New("access and refresh secrets must differ")
	}
	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		return errors.New("token TTLs must be positive")
	}
	return nil
}

func getenv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
