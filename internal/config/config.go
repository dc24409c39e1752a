// Package config loads calculator settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/zephyrtronium/calc"
	"github.com/zephyrtronium/calc/internal/logging"
)

// Config holds the calculator's settings.
type Config struct {
	Precision uint   `env:"CALC_PRECISION" envDefault:"64"`
	Angle     string `env:"CALC_ANGLE"     envDefault:"deg"`
	LogLevel  string `env:"CALC_LOG_LEVEL" envDefault:"warn"`
	Color     bool   `env:"CALC_COLOR"     envDefault:"true"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Override changes a setting after the environment is read, e.g. from a
// command line flag.
type Override func(*Config)

// Load reads a Config from the environment, applies the overrides in order,
// and validates the result.
func Load(overrides ...Override) (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	for _, o := range overrides {
		o(&cfg)
	}
	return cfg, cfg.Validate()
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Precision == 0 {
		return fmt.Errorf("precision must be positive")
	}
	if _, err := ParseAngle(c.Angle); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ContextOptions converts the settings into evaluation context options.
// c must be valid.
func (c Config) ContextOptions() []calc.ContextOption {
	unit, _ := ParseAngle(c.Angle)
	return []calc.ContextOption{calc.Prec(c.Precision), calc.Angle(unit)}
}

// Level returns the configured log level. c must be valid.
func (c Config) Level() slog.Level {
	l, _ := logging.ParseLevel(c.LogLevel)
	return l
}

// ParseAngle converts "deg" or "rad" (or their long forms) to an angle unit.
func ParseAngle(s string) (calc.AngleUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deg", "degree", "degrees":
		return calc.Degrees, nil
	case "rad", "radian", "radians":
		return calc.Radians, nil
	default:
		return 0, fmt.Errorf("unknown angle unit %q", s)
	}
}
