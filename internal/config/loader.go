package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if QUAD_CONFIG is set
//  3. env (prefix QUAD_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("QUAD_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: QUAD_ADDR, QUAD_QUEUE_SIZE, ...
	// Map env keys like QUAD_QUEUE_SIZE -> queue_size (flat keys),
	// preserving underscores to match the koanf tags on the struct.
	envProvider := env.Provider("QUAD_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "quad_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate checks invariants the rest of the service assumes.
func validate(cfg *Config) error {
	switch {
	case cfg.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case cfg.ConfessionMinLength <= 0 || cfg.ConfessionMaxLength <= cfg.ConfessionMinLength:
		return fmt.Errorf("%w: confession length bounds must satisfy 0 < min < max", ErrInvalidConfig)
	case cfg.ReminderHighMinutes <= 0 || cfg.ReminderWindowMinutes <= cfg.ReminderHighMinutes:
		return fmt.Errorf("%w: reminder windows must satisfy 0 < high < window", ErrInvalidConfig)
	case cfg.ShoutRatio <= 0 || cfg.ShoutRatio >= 1:
		return fmt.Errorf("%w: shout_ratio must be in (0,1)", ErrInvalidConfig)
	}
	return nil
}
