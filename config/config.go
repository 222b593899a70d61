// Package config reads dicelab settings from the environment. Command-line
// flags override what is read here.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the environment settings.
type Config struct {
	Seed        *int64 `env:"DICELAB_SEED"`     // nil when unset
	SaveDir     string `env:"DICELAB_SAVE_DIR"` // empty means ~/.dicelab/saves
	Plain       bool   `env:"DICELAB_PLAIN"`
	Trace       bool   `env:"DICELAB_TRACE"`
	HistorySize int    `env:"DICELAB_HISTORY" envDefault:"100"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the environment into a Config and checks it.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.HistorySize < 1 {
		return Config{}, fmt.Errorf("DICELAB_HISTORY must be at least 1, got %d", cfg.HistorySize)
	}
	return cfg, nil
}

// PickSeed chooses the session seed. A seed given on the command line wins,
// then DICELAB_SEED, then a non-zero seed from the game definition, then
// the wall clock.
func (c Config) PickSeed(flagSeed *int64, gameSeed int64) int64 {
	switch {
	case flagSeed != nil:
		return *flagSeed
	case c.Seed != nil:
		return *c.Seed
	case gameSeed != 0:
		return gameSeed
	}
	return time.Now().UnixNano()
}
