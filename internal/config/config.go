package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/abrezinsky/rosterdraw/pkg/naming"
)

// Config holds the process settings read from the environment
type Config struct {
	Port         int    `env:"PORT" envDefault:"8081"`
	DBPath       string `env:"DB_PATH" envDefault:":memory:"`
	HostPassword string `env:"HOST_PASSWORD"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	LogNoColor   bool   `env:"LOG_NO_COLOR"`

	GeminiAPIKey  string        `env:"GEMINI_API_KEY"`
	GeminiModel   string        `env:"GEMINI_MODEL"`
	NamingURL     string        `env:"NAMING_URL"`
	NamingTimeout time.Duration `env:"NAMING_TIMEOUT" envDefault:"8s"`

	DrawTicks    int           `env:"DRAW_TICKS" envDefault:"30"`
	DrawInterval time.Duration `env:"DRAW_INTERVAL" envDefault:"100ms"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`
}

// Load reads optional .env files (default ".env") and parses the environment.
// Missing files are ignored; variables already set win over file values.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges that the env parser cannot express
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.DrawTicks < 0 {
		return fmt.Errorf("DRAW_TICKS must not be negative, got %d", c.DrawTicks)
	}
	if c.DrawInterval <= 0 {
		return fmt.Errorf("DRAW_INTERVAL must be positive, got %s", c.DrawInterval)
	}
	if c.NamingTimeout <= 0 {
		return fmt.Errorf("NAMING_TIMEOUT must be positive, got %s", c.NamingTimeout)
	}
	return nil
}

// Addr is the listen address for the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Naming returns the naming collaborator settings
func (c *Config) Naming() naming.Config {
	return naming.Config{
		GeminiAPIKey: c.GeminiAPIKey,
		GeminiModel:  c.GeminiModel,
		URL:          c.NamingURL,
		Timeout:      c.NamingTimeout,
	}
}
