package config

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/latch/internal/constants"
	"github.com/mrz1836/latch/internal/errors"
)

// newViperInstance creates a Viper instance with the standard latch setup:
// defaults, LATCH_ environment prefix, and key replacer.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("LATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// setDefaults configures all default values on the Viper instance.
// Keys must match the yaml tag names exactly.
func setDefaults(v *viper.Viper) {
	v.SetDefault("cache_dir", "")
	v.SetDefault("jobs", 0)
	v.SetDefault("hook_timeout", constants.DefaultHookTimeout.String())
	v.SetDefault("fetch_timeout", constants.DefaultFetchTimeout.String())
	v.SetDefault("color", ColorAuto)
	v.SetDefault("output", OutputText)
}

// isConfigNotFoundError reports whether err is viper's config-file-not-found.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var notFound viper.ConfigFileNotFoundError
	return stderrors.As(err, &notFound)
}

// Load reads configuration from all available sources with proper precedence.
// Missing config files are expected and never an error; only actual
// configuration problems are.
//
// For CLI flag overrides, use LoadWithOverrides instead.
func Load(ctx context.Context) (*Config, error) {
	v := newViperInstance()

	if err := loadGlobalConfig(v); err != nil {
		return nil, err
	}
	if err := loadProjectConfig(v); err != nil {
		return nil, err
	}

	cfg, err := unmarshalAndValidate(v)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("component", "config").
		Int("jobs", cfg.Jobs).
		Dur("hook_timeout", cfg.HookTimeout).
		Str("output", cfg.Output).
		Msg("configuration loaded")

	return cfg, nil
}

// LoadWithOverrides loads configuration and applies CLI flag overrides, which
// have the highest precedence. Only non-zero override values are applied.
func LoadWithOverrides(ctx context.Context, overrides *Config) (*Config, error) {
	cfg, err := Load(ctx)
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		applyOverrides(cfg, overrides)
	}

	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration after overrides")
	}
	return cfg, nil
}

// LoadFromPaths loads configuration from explicit file paths (for testing).
// Either path may be empty to skip that level.
func LoadFromPaths(_ context.Context, projectConfigPath, globalConfigPath string) (*Config, error) {
	v := newViperInstance()

	if globalConfigPath != "" {
		v.SetConfigFile(globalConfigPath)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read global config: %s", globalConfigPath)
		}
	}

	if projectConfigPath != "" {
		v.SetConfigFile(projectConfigPath)
		if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read project config: %s", projectConfigPath)
		}
	}

	return unmarshalAndValidate(v)
}

// loadGlobalConfig merges the global config file (~/.latch/config.yaml) when
// it exists. Silently skips when the home directory is unavailable.
func loadGlobalConfig(v *viper.Viper) error {
	dir, err := GlobalConfigDir()
	if err != nil {
		return nil //nolint:nilerr // No home directory means no global config
	}

	path := filepath.Join(dir, "config.yaml")
	if !fileExists(path) {
		return nil
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read global config file")
	}
	return nil
}

// loadProjectConfig merges the project config file (.latch/config.yaml)
// relative to the working directory when it exists.
func loadProjectConfig(v *viper.Viper) error {
	path := ProjectConfigPath()
	if !fileExists(path) {
		return nil
	}

	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read project config file")
	}
	return nil
}

// unmarshalAndValidate decodes the viper state into a Config and validates it.
func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// viperDecoderOption configures mapstructure to decode duration strings.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	)
}

// applyOverrides merges non-zero override values into the config.
func applyOverrides(cfg, overrides *Config) {
	if overrides.CacheDir != "" {
		cfg.CacheDir = overrides.CacheDir
	}
	if overrides.Jobs != 0 {
		cfg.Jobs = overrides.Jobs
	}
	if overrides.HookTimeout != 0 {
		cfg.HookTimeout = overrides.HookTimeout
	}
	if overrides.FetchTimeout != 0 {
		cfg.FetchTimeout = overrides.FetchTimeout
	}
	if overrides.Color != "" {
		cfg.Color = overrides.Color
	}
	if overrides.Output != "" {
		cfg.Output = overrides.Output
	}
}

// fileExists returns true if the file at path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
