// Package config reads scheduler settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds process-level settings. Command-line flags override it.
type Config struct {
	Addr         string  `env:"SCHEDULER_ADDR" envDefault:":8080"`
	DBPath       string  `env:"SCHEDULER_DB_PATH" envDefault:"data/scheduler.db"`
	StaticDir    string  `env:"SCHEDULER_STATIC_DIR" envDefault:"web/dist"`
	HorizonWeeks int     `env:"SCHEDULER_HORIZON_WEEKS" envDefault:"8"`
	DailyHours   float64 `env:"SCHEDULER_DAILY_HOURS" envDefault:"5"`
}

// Load applies the given .env files (".env" when none are named) and then
// parses the environment. Missing files are skipped.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate rejects settings the engine cannot run with.
func (c Config) Validate() error {
	if c.HorizonWeeks < 1 {
		return fmt.Errorf("horizon weeks must be at least 1, got %d", c.HorizonWeeks)
	}
	if !(c.DailyHours > 0) {
		return fmt.Errorf("daily hours must be positive, got %v", c.DailyHours)
	}
	return nil
}
