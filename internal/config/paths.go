package config

import (
	"os"
	"path/filepath"

	"github.com/mrz1836/latch/internal/constants"
	"github.com/mrz1836/latch/internal/errors"
)

// GlobalConfigDir returns the global latch directory: LATCH_HOME when set,
// otherwise ~/.latch. Configuration, caches, and logs all live under it.
//
// Returns an error if the home directory cannot be determined.
func GlobalConfigDir() (string, error) {
	if latchHome := os.Getenv("LATCH_HOME"); latchHome != "" {
		return latchHome, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.LatchHome), nil
}

// GlobalConfigPath returns the full path to the global configuration file,
// typically ~/.latch/config.yaml.
func GlobalConfigPath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// ProjectConfigPath returns the relative path to the project configuration
// file: .latch/config.yaml under the repository root.
func ProjectConfigPath() string {
	return filepath.Join(constants.LatchHome, "config.yaml")
}

// CacheRoot resolves the cache directory: the configured override when set,
// otherwise the global latch directory.
func (c *Config) CacheRoot() (string, error) {
	if c.CacheDir != "" {
		return c.CacheDir, nil
	}
	return GlobalConfigDir()
}

// ReposDir returns the directory caching fetched hook repositories.
func (c *Config) ReposDir() (string, error) {
	root, err := c.CacheRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, constants.ReposDir), nil
}

// EnvsDir returns the directory caching materialized environments.
func (c *Config) EnvsDir() (string, error) {
	root, err := c.CacheRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, constants.EnvsDir), nil
}

// LogsDir returns the directory holding the rotating CLI log.
func (c *Config) LogsDir() (string, error) {
	root, err := c.CacheRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, constants.LogsDir), nil
}
