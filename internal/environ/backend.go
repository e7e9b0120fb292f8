package environ

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	latcherrors "github.com/mrz1836/latch/internal/errors"
)

// Backend constructs execution environments. Materialize installs the runtime
// and dependency set into dir; Environ returns the process environment
// overrides a hook needs to run inside the materialized dir. Environ is
// recomputed on cache hits, so it must not depend on materialization state.
type Backend interface {
	Materialize(ctx context.Context, spec Spec, dir string) error
	Environ(spec Spec, dir string) []string
}

// ExecBackend materializes environments by shelling out to the language's
// own tooling (venv/pip for python, npm for node). The system and script
// languages run against the ambient system and need no installation.
type ExecBackend struct{}

// NewExecBackend creates the default environment backend.
func NewExecBackend() *ExecBackend {
	return &ExecBackend{}
}

// Materialize installs the runtime and dependencies for spec into dir.
func (b *ExecBackend) Materialize(ctx context.Context, spec Spec, dir string) error {
	switch spec.Language {
	case "system", "script":
		// Nothing to install; the hook runs against the ambient system.
		return nil
	case "python":
		return b.materializePython(ctx, spec, dir)
	case "node":
		return b.materializeNode(ctx, spec, dir)
	default:
		return fmt.Errorf("%w: %s", latcherrors.ErrUnknownLanguage, spec.Language)
	}
}

// Environ returns the environment variable overrides for a materialized dir.
// Overrides are appended after the inherited environment, so a PATH override
// here wins over the inherited one.
func (b *ExecBackend) Environ(spec Spec, dir string) []string {
	switch spec.Language {
	case "python":
		return []string{
			"VIRTUAL_ENV=" + dir,
			"PATH=" + prependPath(filepath.Join(dir, "bin")),
		}
	case "node":
		return []string{
			"PATH=" + prependPath(filepath.Join(dir, "node_modules", ".bin")),
		}
	default:
		return nil
	}
}

// prependPath places dir ahead of the inherited PATH.
func prependPath(dir string) string {
	if current := os.Getenv("PATH"); current != "" {
		return dir + string(os.PathListSeparator) + current
	}
	return dir
}

// materializePython creates a virtualenv in dir and installs the dependency set.
func (b *ExecBackend) materializePython(ctx context.Context, spec Spec, dir string) error {
	interpreter := "python3"
	if spec.Version != "" {
		interpreter = "python" + spec.Version
	}

	if err := runInstall(ctx, "", interpreter, "-m", "venv", dir); err != nil {
		return err
	}
	if len(spec.Dependencies) == 0 {
		return nil
	}

	args := append([]string{"install", "--quiet"}, spec.Dependencies...)
	return runInstall(ctx, "", filepath.Join(dir, "bin", "pip"), args...)
}

// materializeNode installs the dependency set under dir with npm.
func (b *ExecBackend) materializeNode(ctx context.Context, spec Spec, dir string) error {
	if len(spec.Dependencies) == 0 {
		return nil
	}
	args := append([]string{"install", "--silent", "--prefix", dir}, spec.Dependencies...)
	return runInstall(ctx, dir, "npm", args...)
}

// runInstall executes an installer command, surfacing stderr on failure.
func runInstall(ctx context.Context, workDir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //#nosec G204 -- argv is constructed from the hook's declared runtime
	cmd.Dir = workDir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if stderr.Len() > 0 {
			return fmt.Errorf("%s %s: %s: %w", name, args[0], strings.TrimSpace(stderr.String()), err)
		}
		return fmt.Errorf("%s %s: %w", name, args[0], err)
	}
	return nil
}

// Ensure ExecBackend implements Backend.
var _ Backend = (*ExecBackend)(nil)
