// Package cli provides the command-line interface for latch.
package cli

import (
	stderrors "errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/latch/internal/config"
)

// Exit codes for the CLI.
const (
	// ExitSuccess means every hook passed without modifying files.
	ExitSuccess = 0
	// ExitHookFailure means at least one hook failed or modified files.
	ExitHookFailure = 1
	// ExitError means latch itself could not complete: invalid input, a
	// resolution error, or an interrupted run.
	ExitError = 2
)

// GlobalFlags holds flags available to all commands.
type GlobalFlags struct {
	// Output specifies the report format (text or json).
	Output string
	// Verbose enables debug-level logging.
	Verbose bool
	// Quiet suppresses non-essential output (warn level only).
	Quiet bool
	// Color controls report styling (auto, always, never).
	Color string
}

// AddGlobalFlags adds global flags to a command.
// These flags are available to all subcommands via PersistentFlags.
func AddGlobalFlags(cmd *cobra.Command, flags *GlobalFlags) {
	cmd.PersistentFlags().StringVarP(&flags.Output, "output", "o", config.OutputText, "output format (text|json)")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "suppress non-essential output")
	cmd.PersistentFlags().StringVar(&flags.Color, "color", config.ColorAuto, "colorize report output (auto|always|never)")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

// BindGlobalFlags binds global flags to Viper for configuration file and
// environment variable support. The LATCH_ prefix is used for environment
// variables (e.g., LATCH_OUTPUT, LATCH_VERBOSE).
func BindGlobalFlags(v *viper.Viper, cmd *cobra.Command) error {
	// Use Root().PersistentFlags() to find flags defined on the root command,
	// even when called from a subcommand's PersistentPreRunE.
	rootFlags := cmd.Root().PersistentFlags()

	for _, name := range []string{"output", "verbose", "quiet", "color"} {
		if err := v.BindPFlag(name, rootFlags.Lookup(name)); err != nil {
			return err
		}
	}

	v.SetEnvPrefix("LATCH")
	v.AutomaticEnv()

	return nil
}

// ValidOutputFormats returns the list of valid output format values.
func ValidOutputFormats() []string {
	return []string{config.OutputText, config.OutputJSON}
}

// IsValidOutputFormat checks if the given format is a valid output format.
func IsValidOutputFormat(format string) bool {
	for _, valid := range ValidOutputFormats() {
		if format == valid {
			return true
		}
	}
	return false
}

// hookFailureError marks an error that should exit with ExitHookFailure:
// hooks ran, some failed or modified files. Distinct from latch-level errors.
type hookFailureError struct {
	msg string
}

func (e *hookFailureError) Error() string {
	return e.msg
}

// newHookFailureError creates an error that maps to ExitHookFailure.
func newHookFailureError(msg string) error {
	return &hookFailureError{msg: msg}
}

// ExitCodeForError returns the exit code for the given error: ExitSuccess for
// nil, ExitHookFailure for hook findings, and ExitError for everything else
// (bad input, resolution failures, interrupted runs).
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var failure *hookFailureError
	if stderrors.As(err, &failure) {
		return ExitHookFailure
	}

	return ExitError
}
