// Package config loads rewardcore settings from the environment.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the process-wide settings. Command-line flags override it.
type Config struct {
	MaxDepth      int           `env:"REWARDCORE_MAX_DEPTH" envDefault:"64"`
	Seed          int64         `env:"REWARDCORE_SEED"`
	SaveDir       string        `env:"REWARDCORE_SAVE_DIR"`
	LogLevel      slog.Level    `env:"REWARDCORE_LOG_LEVEL" envDefault:"info"`
	LogFormat     string        `env:"REWARDCORE_LOG_FORMAT" envDefault:"text"`
	WatchDebounce time.Duration `env:"REWARDCORE_WATCH_DEBOUNCE" envDefault:"100ms"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads Config from the environment and fills derived defaults.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	if cfg.SaveDir == "" {
		cfg.SaveDir = DefaultSaveDir()
	}
	return cfg, nil
}

// Validate checks values env parsing cannot.
func (c Config) Validate() error {
	if c.MaxDepth < 1 {
		return fmt.Errorf("REWARDCORE_MAX_DEPTH must be at least 1, got %d", c.MaxDepth)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("REWARDCORE_LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	if c.WatchDebounce < 0 {
		return fmt.Errorf("REWARDCORE_WATCH_DEBOUNCE must not be negative, got %s", c.WatchDebounce)
	}
	return nil
}

// DefaultSaveDir is ~/.rewardcore/saves, or a relative directory when the
// home directory is unknown.
func DefaultSaveDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".rewardcore", "saves")
	}
	return filepath.Join(home, ".rewardcore", "saves")
}

// Logger builds the process logger described by the config.
func (c Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
