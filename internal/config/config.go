package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR"           envDefault:":8080"`
	LogLevelName    string        `env:"LOG_LEVEL"           envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT"          envDefault:"json"`
	RollDelay       time.Duration `env:"ROLL_DELAY"          envDefault:"2s"`
	ViewTTL         time.Duration `env:"VIEW_TTL"            envDefault:"30m"`
	SweepInterval   time.Duration `env:"VIEW_SWEEP_INTERVAL" envDefault:"1m"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"    envDefault:"10s"`
	MetricsEnabled  bool          `env:"METRICS_ENABLED"     envDefault:"true"`
	// Seed makes rolls reproducible when set.
	Seed *int64 `env:"DICE_SEED"`

	LogLevel slog.Level
}

func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the values and resolves LogLevel from LogLevelName.
func (c *Config) Validate() error {
	level, err := parseLogLevel(c.LogLevelName)
	if err != nil {
		return err
	}
	c.LogLevel = level

	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q", c.LogFormat)
	}

	var errs []error
	for name, d := range map[string]time.Duration{
		"ROLL_DELAY":          c.RollDelay,
		"VIEW_TTL":            c.ViewTTL,
		"VIEW_SWEEP_INTERVAL": c.SweepInterval,
		"SHUTDOWN_TIMEOUT":    c.ShutdownTimeout,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", name, d))
		}
	}
	return errors.Join(errs...)
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
}
