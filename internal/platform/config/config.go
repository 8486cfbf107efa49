// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. A local '.env' file
is honored through 'joho/godotenv' before parsing.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Refresh token slot backends.
const (
	RefreshStorePostgres = "postgres"
	RefreshStoreRedis    = "redis"
)

// # Configuration Schema

// Config holds all runtime configuration for the Clipstream API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// RefreshTokenStore selects where the per-account refresh token slot lives.
	RefreshTokenStore string `env:"REFRESH_TOKEN_STORE" envDefault:"postgres"`

	// Token signing
	AccessTokenSecret  string        `env:"ACCESS_TOKEN_SECRET,required,unset"`
	RefreshTokenSecret string        `env:"REFRESH_TOKEN_SECRET,required,unset"`
	AccessTokenTTL     time.Duration `env:"ACCESS_TOKEN_TTL"  envDefault:"15m"`
	RefreshTokenTTL    time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"240h"`

	// Session cookies
	CookieSecure bool   `env:"COOKIE_SECURE" envDefault:"true"`
	CookieDomain string `env:"COOKIE_DOMAIN"`

	// Cross-Origin Resource Sharing
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`

	// Tracing (empty disables the exporter)
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// # Configuration Loading

// Load reads an optional .env file and parses environment variables into a [Config].
func Load() (*Config, error) {

	// A missing .env is the normal case outside local development
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env file: %w", err)
	}

	return Parse(env.Options{})
}

// MigrationConfig is the subset of settings the migrate command needs.
type MigrationConfig struct {
	DatabaseURL   string `env:"DATABASE_URL,required"`
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`
}

// LoadMigration reads an optional .env file and parses a [MigrationConfig].
func LoadMigration() (*MigrationConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env file: %w", err)
	}

	return ParseMigration(env.Options{})
}

// ParseMigration maps environment variables into a [MigrationConfig].
func ParseMigration(options env.Options) (*MigrationConfig, error) {
	cfg := &MigrationConfig{}
	if err := env.ParseWithOptions(cfg, options); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}
	return cfg, nil
}

// Parse maps environment variables into a [Config] and validates it.
// Options allow tests to supply an explicit environment.
func Parse(options env.Options) (*Config, error) {
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.ParseWithOptions(cfg, options); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate enforces cross-field rules that struct tags cannot express.
func (c *Config) Validate() error {
	if c.AccessTokenSecret == c.RefreshTokenSecret {
		return errors.New("config: ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
	}

	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return errors.New("config: token lifetimes must be positive")
	}

	if c.AccessTokenTTL >= c.RefreshTokenTTL {
		return errors.New("config: ACCESS_TOKEN_TTL must be shorter than REFRESH_TOKEN_TTL")
	}

	c.RefreshTokenStore = strings.ToLower(strings.TrimSpace(c.RefreshTokenStore))
	if c.RefreshTokenStore != RefreshStorePostgres && c.RefreshTokenStore != RefreshStoreRedis {
		return fmt.Errorf("config: unsupported REFRESH_TOKEN_STORE %q", c.RefreshTokenStore)
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
