package config

import (
	"fmt"

	"github.com/mrz1836/latch/internal/errors"
)

// Validate checks the configuration for values latch cannot run with.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if cfg.Jobs < 0 {
		return fmt.Errorf("%w: jobs must not be negative, got %d", errors.ErrConfigInvalid, cfg.Jobs)
	}
	if cfg.HookTimeout < 0 {
		return fmt.Errorf("%w: hook_timeout must not be negative, got %s", errors.ErrConfigInvalid, cfg.HookTimeout)
	}
	if cfg.FetchTimeout < 0 {
		return fmt.Errorf("%w: fetch_timeout must not be negative, got %s", errors.ErrConfigInvalid, cfg.FetchTimeout)
	}

	switch cfg.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("%w: color must be auto, always, or never, got %q", errors.ErrConfigInvalid, cfg.Color)
	}

	switch cfg.Output {
	case OutputText, OutputJSON:
	default:
		return fmt.Errorf("%w: %q (want text or json)", errors.ErrInvalidOutputFormat, cfg.Output)
	}

	return nil
}
