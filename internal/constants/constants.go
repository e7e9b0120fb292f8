// Package constants provides centralized constant values used throughout latch.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// File names latch looks for in repositories.
const (
	// ManifestFileName is the manifest of repositories of checks at the root
	// of the repository being checked.
	ManifestFileName = ".latch.yaml"

	// HooksFileName is the hook definitions file at the root of a hook
	// repository. It declares the hooks a repository exports.
	HooksFileName = ".latch-hooks.yaml"
)

// Directory names used by latch for persisted state.
const (
	// LatchHome is the hidden directory name where latch stores all its data.
	// This directory is created in the user's home directory.
	LatchHome = ".latch"

	// ReposDir is the directory name under LatchHome where fetched hook
	// repositories are cached, content-addressed by (locator, revision).
	ReposDir = "repos"

	// EnvsDir is the directory name under LatchHome where materialized
	// execution environments are cached, content-addressed by cache key.
	EnvsDir = "envs"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"
)

// LocalRepo is the pseudo-locator for hooks defined inline in the manifest.
// It bypasses fetching and resolves to the repository being checked.
const LocalRepo = "local"

// Marker files used inside cache entries.
const (
	// ReadyMarkerFileName flags a cache entry as fully materialized. An entry
	// without the marker is treated as absent and rebuilt.
	ReadyMarkerFileName = ".latch-ready"

	// LockFileName is the flock target used to serialize materialization of
	// one cache entry across processes.
	LockFileName = ".latch-lock"
)

// Timeout and sizing defaults.
const (
	// DefaultHookTimeout is the default maximum duration for one hook
	// invocation (a single batch).
	DefaultHookTimeout = 5 * time.Minute

	// DefaultFetchTimeout is the default maximum duration for fetching one
	// hook repository.
	DefaultFetchTimeout = 10 * time.Minute

	// MaxBatchBytes is the argv byte budget per hook invocation. A hook's
	// filtered file set is split into batches no larger than this.
	MaxBatchBytes = 128 * 1024
)

// Logging configuration for the rotating CLI log file.
const (
	// CLILogFileName is the name of the global CLI log file.
	CLILogFileName = "latch.log"

	// LogMaxSizeMB is the maximum size in megabytes before log rotation.
	LogMaxSizeMB = 10

	// LogMaxBackups is the maximum number of rotated log files to retain.
	LogMaxBackups = 3

	// LogMaxAgeDays is the maximum age in days before rotated logs are deleted.
	LogMaxAgeDays = 30

	// LogCompress controls whether rotated log files are gzip compressed.
	LogCompress = true
)
