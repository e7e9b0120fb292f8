package executor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
)

// Exit codes the shell reports for hook programs that crashed rather than ran.
const (
	// exitPermissionDenied is sh's exit status when the entry exists but
	// cannot be executed.
	exitPermissionDenied = 126

	// exitCommandNotFound is sh's exit status when the entry cannot be found.
	exitCommandNotFound = 127
)

// CommandRunner invokes one hook batch. The entry command template, effective
// arguments, and file batch are kept separate so test doubles can assert on
// each part of the assembled invocation.
//
// The returned error is non-nil only when the invocation could not run at all
// (start failure, context cancellation); a program that ran and exited
// non-zero yields a nil error and its exit code.
type CommandRunner interface {
	Run(ctx context.Context, workDir string, env []string, entry string, args, files []string) (stdout, stderr string, exitCode int, err error)
}

// ExecRunner implements CommandRunner with os/exec.
//
// The entry is a command template (it may carry embedded flags, as in
// "prettier --list-different"), so the invocation goes through a shell
// trampoline: sh -c '<entry> "$@"' with arguments and the file batch bound
// to the positional parameters. This keeps argv assembly as
// [entry] + args + files without re-parsing quoting rules ourselves.
type ExecRunner struct{}

// Run executes one hook invocation.
func (r *ExecRunner) Run(ctx context.Context, workDir string, env []string, entry string, args, files []string) (stdout, stderr string, exitCode int, err error) {
	argv := make([]string, 0, 3+len(args)+len(files))
	argv = append(argv, "-c", entry+` "$@"`, entry)
	argv = append(argv, args...)
	argv = append(argv, files...)

	cmd := exec.CommandContext(ctx, "sh", argv...) //#nosec G204 -- the entry comes from the user's own manifest, same trust model as a Makefile
	cmd.Dir = workDir
	cmd.Env = append(os.Environ(), env...)

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	runErr := cmd.Run()
	stdout = outBuf.String()
	stderr = errBuf.String()

	if runErr != nil {
		if ctx.Err() != nil {
			return stdout, stderr, 0, ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			// Ran and exited non-zero: a result, not an invocation error.
			return stdout, stderr, exitErr.ExitCode(), nil
		}
		return stdout, stderr, 0, runErr
	}

	return stdout, stderr, 0, nil
}

// Ensure ExecRunner implements CommandRunner.
var _ CommandRunner = (*ExecRunner)(nil)
