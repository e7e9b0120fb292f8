package executor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/latch/internal/clock"
	"github.com/mrz1836/latch/internal/constants"
	"github.com/mrz1836/latch/internal/ctxutil"
	"github.com/mrz1836/latch/internal/environ"
	latcherrors "github.com/mrz1836/latch/internal/errors"
	"github.com/mrz1836/latch/internal/manifest"
)

// Executor runs hook instances against their filtered file sets.
type Executor struct {
	runner        CommandRunner
	clock         clock.Clock
	timeout       time.Duration
	maxBatchBytes int
}

// NewExecutor creates an executor with the default command runner.
func NewExecutor(timeout time.Duration) *Executor {
	return NewExecutorWithRunner(timeout, &ExecRunner{})
}

// NewExecutorWithRunner creates an executor with a custom runner (for testing).
func NewExecutorWithRunner(timeout time.Duration, runner CommandRunner) *Executor {
	if timeout <= 0 {
		timeout = constants.DefaultHookTimeout
	}
	return &Executor{
		runner:        runner,
		clock:         clock.RealClock{},
		timeout:       timeout,
		maxBatchBytes: constants.MaxBatchBytes,
	}
}

// SetClock replaces the executor's clock (for testing durations).
func (e *Executor) SetClock(c clock.Clock) {
	e.clock = c
}

// Run invokes one hook instance inside its resolved environment and returns
// its outcome.
//
// With pass_filenames unset the command runs exactly once with no file list;
// the program discovers its own file set. Otherwise the filtered set is split
// into argv-budgeted batches, every file appears in exactly one invocation,
// and a failing batch never suppresses reporting of the others. An empty
// filtered set with pass_filenames set is a skip, not an invocation with
// zero arguments.
func (e *Executor) Run(ctx context.Context, inst *manifest.Instance, files []string, env *environ.Handle, workDir string) Outcome {
	log := zerolog.Ctx(ctx)

	outcome := Outcome{
		HookID: inst.DisplayID(),
		Name:   inst.Name,
	}

	if inst.PassFilenames && len(files) == 0 {
		outcome.Status = StatusSkipped
		outcome.SkipReason = "no files to check"
		log.Debug().Str("hook", inst.DisplayID()).Msg("hook skipped: empty filtered file set")
		return outcome
	}

	started := e.clock.Now()

	batches := e.batches(inst, files)
	log.Info().
		Str("hook", inst.DisplayID()).
		Int("files", len(files)).
		Int("batches", len(batches)).
		Msg("executing hook")

	before := fingerprintFiles(workDir, files)

	var stdout, stderr strings.Builder
	worstExit := 0
	var invokeErr error

	for _, batch := range batches {
		if err := ctxutil.Canceled(ctx); err != nil {
			outcome.Status = StatusIncomplete
			outcome.Err = err
			outcome.Duration = e.clock.Now().Sub(started)
			return outcome
		}

		out, errOut, exitCode, err := e.runBatch(ctx, inst, batch, env, workDir)
		stdout.WriteString(out)
		stderr.WriteString(errOut)
		if exitCode > worstExit {
			worstExit = exitCode
		}
		if err != nil && invokeErr == nil {
			invokeErr = err
		}
	}

	outcome.Stdout = stdout.String()
	outcome.Stderr = stderr.String()
	outcome.ExitCode = worstExit
	outcome.Modified = !fingerprintsEqual(before, fingerprintFiles(workDir, files))
	outcome.Duration = e.clock.Now().Sub(started)

	// An invocation torn down by cancellation is the run being interrupted,
	// not a broken environment: retrying on a fresh environment would not help.
	if err := ctxutil.Canceled(ctx); err != nil && invokeErr != nil {
		outcome.Status = StatusIncomplete
		outcome.Err = err
		log.Debug().Str("hook", inst.DisplayID()).Msg("hook interrupted mid-invocation")
		return outcome
	}

	e.classify(&outcome, inst, invokeErr, log)
	return outcome
}

// runBatch executes one invocation with the per-invocation timeout applied.
func (e *Executor) runBatch(ctx context.Context, inst *manifest.Instance, batch []string, env *environ.Handle, workDir string) (stdout, stderr string, exitCode int, err error) {
	batchCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var envVars []string
	if env != nil {
		envVars = env.Env
	}

	stdout, stderr, exitCode, err = e.runner.Run(batchCtx, workDir, envVars, inst.Entry, inst.Args, batch)

	if err != nil && batchCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
		err = fmt.Errorf("%w: after %s", latcherrors.ErrCommandTimeout, e.timeout)
	}
	return stdout, stderr, exitCode, err
}

// classify turns the raw invocation results into a final status.
//
// A crash of the invoked program (not found, permission denied) is an
// environment failure, not a hook failure: the former retries meaningfully
// on a fresh environment, the latter does not.
func (e *Executor) classify(outcome *Outcome, inst *manifest.Instance, invokeErr error, log *zerolog.Logger) {
	switch {
	case invokeErr != nil:
		outcome.Status = StatusError
		outcome.Err = fmt.Errorf("%w: %s: %s", latcherrors.ErrEnvironment, inst.Entry, invokeErr)
		log.Error().Err(invokeErr).Str("hook", inst.DisplayID()).Msg("hook invocation crashed")

	case outcome.ExitCode == exitCommandNotFound || outcome.ExitCode == exitPermissionDenied:
		outcome.Status = StatusError
		outcome.Err = fmt.Errorf("%w: %s: %s", latcherrors.ErrEnvironment, inst.Entry, strings.TrimSpace(outcome.Stderr))
		log.Error().Int("exit_code", outcome.ExitCode).Str("hook", inst.DisplayID()).Msg("hook program not runnable")

	case outcome.ExitCode != 0:
		outcome.Status = StatusFailed
		outcome.Err = fmt.Errorf("%w: exit code %d", latcherrors.ErrHookFailed, outcome.ExitCode)
		log.Info().Int("exit_code", outcome.ExitCode).Str("hook", inst.DisplayID()).Msg("hook failed")

	default:
		outcome.Status = StatusPassed
		if outcome.Modified {
			log.Info().Str("hook", inst.DisplayID()).Msg("hook passed but modified files")
		}
	}
}

// batches splits files into invocations. Hooks that discover their own files
// get exactly one invocation with no file list, regardless of the filtered
// set's size.
func (e *Executor) batches(inst *manifest.Instance, files []string) [][]string {
	if !inst.PassFilenames {
		return [][]string{nil}
	}

	var out [][]string
	var current []string
	currentBytes := 0

	for _, f := range files {
		cost := len(f) + 1
		if len(current) > 0 && currentBytes+cost > e.maxBatchBytes {
			out = append(out, current)
			current = nil
			currentBytes = 0
		}
		current = append(current, f)
		currentBytes += cost
	}
	if len(current) > 0 {
		out = append(out, current)
	}
	return out
}
