// Package config provides configuration management for latch.
//
// Configuration is loaded with the following precedence (highest first):
//  1. CLI flag overrides
//  2. Environment variables (LATCH_* prefix)
//  3. Project config (.latch/config.yaml)
//  4. Global config (~/.latch/config.yaml)
//  5. Built-in defaults
package config

import (
	"runtime"
	"time"

	"github.com/mrz1836/latch/internal/constants"
)

// Output formats for the run report.
const (
	// OutputText is the human-readable styled report.
	OutputText = "text"
	// OutputJSON is the machine-readable report.
	OutputJSON = "json"
)

// Color modes for report rendering.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds all latch configuration.
type Config struct {
	// CacheDir overrides where latch persists fetched repositories and
	// materialized environments. Empty means ~/.latch.
	CacheDir string `mapstructure:"cache_dir" yaml:"cache_dir"`

	// Jobs bounds concurrent hook executions. Zero means the CPU count.
	Jobs int `mapstructure:"jobs" yaml:"jobs"`

	// HookTimeout is the maximum duration for one hook invocation.
	HookTimeout time.Duration `mapstructure:"hook_timeout" yaml:"hook_timeout"`

	// FetchTimeout is the maximum duration for fetching one hook repository.
	FetchTimeout time.Duration `mapstructure:"fetch_timeout" yaml:"fetch_timeout"`

	// Color controls report styling: auto, always, or never.
	Color string `mapstructure:"color" yaml:"color"`

	// Output selects the report format: text or json.
	Output string `mapstructure:"output" yaml:"output"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		CacheDir:     "",
		Jobs:         0,
		HookTimeout:  constants.DefaultHookTimeout,
		FetchTimeout: constants.DefaultFetchTimeout,
		Color:        ColorAuto,
		Output:       OutputText,
	}
}

// EffectiveJobs resolves the worker pool size: the configured value, or the
// CPU count when unset.
func (c *Config) EffectiveJobs() int {
	if c.Jobs > 0 {
		return c.Jobs
	}
	return runtime.NumCPU()
}
