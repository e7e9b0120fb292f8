// Package errors provides centralized error handling for latch.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrManifestParse indicates the manifest file could not be parsed.
	ErrManifestParse = errors.New("manifest parse failed")

	// ErrManifestNotFound indicates the manifest file does not exist.
	ErrManifestNotFound = errors.New("manifest file not found")

	// ErrDefinitionNotFound indicates a hook override references an identifier
	// that is absent from its repository's hook definitions. Fatal to that one
	// hook instance only.
	ErrDefinitionNotFound = errors.New("hook definition not found")

	// ErrDuplicateInstance indicates two hook overrides in the same repository
	// block resolve to the same (id, alias) identity.
	ErrDuplicateInstance = errors.New("duplicate hook instance")

	// ErrLocalHookIncomplete indicates a local-repository hook override is
	// missing the entry or language required to synthesize a definition.
	ErrLocalHookIncomplete = errors.New("local hook missing entry or language")

	// ErrSourceFetch indicates a hook repository could not be fetched at its
	// pinned revision. Fatal to every instance of that repository block.
	ErrSourceFetch = errors.New("source fetch failed")

	// ErrEnvironment indicates an execution environment could not be
	// materialized or the hook program could not be started inside it. Fatal
	// to every instance sharing the environment cache key.
	ErrEnvironment = errors.New("environment failure")

	// ErrUnknownLanguage indicates a hook declares a runtime latch has no
	// backend for.
	ErrUnknownLanguage = errors.New("unknown hook language")

	// ErrHookFailed indicates the invoked checker reported a non-zero exit
	// status. Expected, routine, reported per instance.
	ErrHookFailed = errors.New("hook failed")

	// ErrGitOperation indicates a git command (clone, ls-files, checkout)
	// failed during execution.
	ErrGitOperation = errors.New("git operation failed")

	// ErrNotInGitRepo indicates a git repository is required but not found.
	ErrNotInGitRepo = errors.New("not in a git repository")

	// ErrCommandTimeout indicates a hook invocation exceeded its timeout.
	ErrCommandTimeout = errors.New("command timeout exceeded")

	// ErrRunIncomplete indicates the run was canceled before every scheduled
	// hook instance produced an outcome.
	ErrRunIncomplete = errors.New("run incomplete")

	// ErrInvalidStage indicates an unrecognized stage name was supplied.
	ErrInvalidStage = errors.New("invalid stage")

	// ErrInvalidPattern indicates a hook filter pattern failed to compile.
	ErrInvalidPattern = errors.New("invalid filter pattern")

	// ErrConfigNil indicates a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalid indicates an invalid configuration value.
	ErrConfigInvalid = errors.New("invalid configuration")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")
)
