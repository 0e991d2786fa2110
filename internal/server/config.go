package server

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the process-wide server configuration, parsed from the
// environment. godotenv loading happens in cmd/server before parsing.
type Config struct {
	Addr      string        `env:"SERVER_ADDR" envDefault:":8080"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"720h"` // 30 days

	DBHost string `env:"DB_HOST" envDefault:"localhost"`
	DBUser string `env:"DB_USER"`
	DBPass string `env:"DB_PASS"`
	DBName string `env:"DB_NAME"`
	DBPort string `env:"DB_PORT" envDefault:"5432"`
}

// LoadConfig parses the environment into a Config. Rotating JWT_SECRET
// invalidates every outstanding token, which is the accepted
// revoke-everything mechanism.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is missing")
	}
	return cfg, nil
}

// Secret returns the signing key as bytes.
func (c *Config) Secret() []byte {
	return []byte(c.JWTSecret)
}
