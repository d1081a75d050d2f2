// Package config loads process configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the web process configuration. PORT wins over WEB_PORT when
// both are set (Cloud Run convention).
type Config struct {
	Port            string        `env:"PORT"`
	WebPort         string        `env:"WEB_PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"30m"`
}

// Addr returns the listen address.
func (c Config) Addr() string {
	port := c.Port
	if port == "" {
		port = c.WebPort
	}
	return ":" + port
}

// ParseEnv loads configuration from environment variables.
func ParseEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
