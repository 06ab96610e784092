// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"

	platformspanner "github.com/vinialbano/alura-ddd-tatico-sub001/internal/platform/spanner"
)

// Config holds all runtime configuration. Values are read from
// ORDERS_-prefixed environment variables.
type Config struct {
	HTTPHost string `envconfig:"HTTP_HOST" default:""`
	HTTPPort int    `envconfig:"HTTP_PORT" default:"8080"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// External service endpoints. When empty, static in-process
	// gateways are used instead.
	PricingBaseURL string `envconfig:"PRICING_BASE_URL" default:""`
	CatalogBaseURL string `envconfig:"CATALOG_BASE_URL" default:""`

	// Spanner coordinates. When ProjectID is empty, in-memory
	// repositories are used instead.
	SpannerProjectID  string `envconfig:"SPANNER_PROJECT_ID" default:""`
	SpannerInstanceID string `envconfig:"SPANNER_INSTANCE_ID" default:""`
	SpannerDatabaseID string `envconfig:"SPANNER_DATABASE_ID" default:""`
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("ORDERS", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if cfg.SpannerProjectID != "" {
		if cfg.SpannerInstanceID == "" || cfg.SpannerDatabaseID == "" {
			return Config{}, fmt.Errorf("load config: spanner instance and database are required when a project is set")
		}
	}
	return cfg, nil
}

// UseSpanner reports whether Spanner-backed persistence is configured.
func (c Config) UseSpanner() bool {
	return c.SpannerProjectID != ""
}

// Spanner returns the Spanner client configuration.
func (c Config) Spanner() platformspanner.Config {
	return platformspanner.Config{
		ProjectID:  c.SpannerProjectID,
		InstanceID: c.SpannerInstanceID,
		DatabaseID: c.SpannerDatabaseID,
	}
}

// SlogLevel maps the configured log level to a slog.Level.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
