package runner_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/latch/internal/clock"
	"github.com/mrz1836/latch/internal/environ"
	latcherrors "github.com/mrz1836/latch/internal/errors"
	"github.com/mrz1836/latch/internal/executor"
	"github.com/mrz1836/latch/internal/fileset"
	"github.com/mrz1836/latch/internal/manifest"
	"github.com/mrz1836/latch/internal/runner"
	"github.com/mrz1836/latch/internal/source"
	"github.com/mrz1836/latch/internal/testutil"
)

// newTestRunner builds a runner against temp caches, with clone injected so
// no test touches the network.
func newTestRunner(t *testing.T, workDir string, clone source.CloneFunc) *runner.Runner {
	t.Helper()
	cacheRoot := t.TempDir()
	sources := source.NewCacheWithClone(filepath.Join(cacheRoot, "repos"), workDir, clone)
	envs := environ.NewResolver(filepath.Join(cacheRoot, "envs"), environ.NewExecBackend())
	return runner.New(sources, envs, executor.NewExecutor(time.Minute))
}

// hookRepoClone fabricates a hook repository whose definitions file holds defs.
func hookRepoClone(t *testing.T, defs string) source.CloneFunc {
	t.Helper()
	return func(_ context.Context, _, _, dir string) error {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(dir, ".latch-hooks.yaml"), []byte(defs), 0o600)
	}
}

func parseManifest(t *testing.T, text string) *manifest.Manifest {
	t.Helper()
	m, err := manifest.Parse([]byte(text))
	require.NoError(t, err)
	return m
}

func workTree(t *testing.T, files map[string]string) (string, *fileset.Snapshot) {
	t.Helper()
	root := t.TempDir()
	paths := make([]string, 0, len(files))
	for rel, content := range files {
		require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(root, rel)), 0o750))
		require.NoError(t, os.WriteFile(filepath.Join(root, rel), []byte(content), 0o600))
		paths = append(paths, rel)
	}
	return root, fileset.FromPaths(root, paths)
}

func TestRunAllHooksPass(t *testing.T) {
	root, snap := workTree(t, map[string]string{"a.go": "package a\n"})
	r := newTestRunner(t, root, nil)

	m := parseManifest(t, `
repos:
  - repo: local
    hooks:
      - id: noop
        name: Noop
        entry: "true"
        language: system
`)

	report := r.Run(context.Background(), m, snap, runner.Options{Stage: "pre-commit", Jobs: 2})

	require.Len(t, report.Results, 1)
	assert.Equal(t, executor.StatusPassed, report.Results[0].Status)
	assert.Equal(t, runner.ExitOK, report.ExitCode())
	assert.NotEmpty(t, report.RunID)
}

func TestRunFailingHookYieldsExitOne(t *testing.T) {
	root, snap := workTree(t, map[string]string{"a.go": "package a\n"})
	r := newTestRunner(t, root, nil)

	m := parseManifest(t, `
repos:
  - repo: local
    hooks:
      - id: fails
        entry: "false"
        language: system
      - id: passes
        entry: "true"
        language: system
`)

	report := r.Run(context.Background(), m, snap, runner.Options{Stage: "pre-commit", Jobs: 2})

	require.Len(t, report.Results, 2)
	assert.Equal(t, executor.StatusFailed, report.Results[0].Status)
	assert.Equal(t, executor.StatusPassed, report.Results[1].Status)
	assert.Equal(t, runner.ExitFailed, report.ExitCode())
}

func TestRunResultsFollowDeclarationOrder(t *testing.T) {
	root, snap := workTree(t, map[string]string{"a.go": "package a\n"})
	r := newTestRunner(t, root, nil)

	// Reverse-sorted ids with enough parallelism that completion order is
	// unlikely to match declaration order by accident.
	m := parseManifest(t, `
repos:
  - repo: local
    hooks:
      - id: zeta
        entry: "true"
        language: system
      - id: mid
        entry: "sleep 0.05; true"
        language: system
      - id: alpha
        entry: "true"
        language: system
`)

	report := r.Run(context.Background(), m, snap, runner.Options{Stage: "pre-commit", Jobs: 3})

	require.Len(t, report.Results, 3)
	assert.Equal(t, "zeta", report.Results[0].HookID)
	assert.Equal(t, "mid", report.Results[1].HookID)
	assert.Equal(t, "alpha", report.Results[2].HookID)
}

func TestRunStageGatingSkips(t *testing.T) {
	root, snap := workTree(t, map[string]string{"a.go": "package a\n"})
	r := newTestRunner(t, root, nil)

	m := parseManifest(t, `
repos:
  - repo: local
    hooks:
      - id: push-only
        entry: "false"
        language: system
        stages: [pre-push]
      - id: everywhere
        entry: "true"
        language: system
`)

	report := r.Run(context.Background(), m, snap, runner.Options{Stage: "pre-commit", Jobs: 1})

	require.Len(t, report.Results, 2)
	assert.Equal(t, executor.StatusSkipped, report.Results[0].Status)
	assert.Contains(t, report.Results[0].SkipReason, "pre-commit")
	assert.Equal(t, executor.StatusPassed, report.Results[1].Status)
	assert.Equal(t, runner.ExitOK, report.ExitCode(), "a stage-gated hook never counts against the run")
}

func TestRunManualStageOnlyRunsManualHooks(t *testing.T) {
	root, snap := workTree(t, map[string]string{"a.go": "package a\n"})
	r := newTestRunner(t, root, nil)

	m := parseManifest(t, `
repos:
  - repo: local
    hooks:
      - id: manual-only
        entry: "true"
        language: system
        stages: [manual]
      - id: default-stage
        entry: "true"
        language: system
`)

	report := r.Run(context.Background(), m, snap, runner.Options{Stage: "manual", Jobs: 1})

	require.Len(t, report.Results, 2)
	assert.Equal(t, executor.StatusPassed, report.Results[0].Status)
	assert.Equal(t, executor.StatusSkipped, report.Results[1].Status)
}

func TestRunModifyingHookCountsAgainstRun(t *testing.T) {
	root, snap := workTree(t, map[string]string{"note.txt": "aaa\n"})
	r := newTestRunner(t, root, nil)

	m := parseManifest(t, `
repos:
  - repo: local
    hooks:
      - id: rewrite
        entry: "sed -i s/a/b/g"
        language: system
`)

	report := r.Run(context.Background(), m, snap, runner.Options{Stage: "pre-commit", Jobs: 1})

	require.Len(t, report.Results, 1)
	assert.Equal(t, executor.StatusPassed, report.Results[0].Status)
	assert.True(t, report.Results[0].Modified)
	assert.Equal(t, runner.ExitFailed, report.ExitCode())
}

func TestRunFetchFailureDoesNotAbortOtherBlocks(t *testing.T) {
	root, snap := workTree(t, map[string]string{"a.go": "package a\n"})
	clone := func(context.Context, string, string, string) error {
		return testutil.ErrMockFetch
	}
	r := newTestRunner(t, root, clone)

	m := parseManifest(t, `
repos:
  - repo: https://example.com/unreachable
    rev: v1.0.0
    hooks:
      - id: first
      - id: second
  - repo: local
    hooks:
      - id: still-runs
        entry: "true"
        language: system
`)

	report := r.Run(context.Background(), m, snap, runner.Options{Stage: "pre-commit", Jobs: 2})

	require.Len(t, report.Results, 3)
	assert.Equal(t, executor.StatusError, report.Results[0].Status)
	assert.ErrorIs(t, report.Results[0].Err, latcherrors.ErrSourceFetch)
	assert.Equal(t, executor.StatusError, report.Results[1].Status)
	assert.Equal(t, executor.StatusPassed, report.Results[2].Status)
	assert.Equal(t, runner.ExitError, report.ExitCode())
}

func TestRunRemoteRepositoryHooks(t *testing.T) {
	root, snap := workTree(t, map[string]string{"a.go": "package a\n"})
	clone := hookRepoClone(t, `
- id: lint
  name: Lint
  entry: "true"
  language: system
`)
	r := newTestRunner(t, root, clone)

	m := parseManifest(t, `
repos:
  - repo: https://example.com/hooks
    rev: v2.1.0
    hooks:
      - id: lint
`)

	report := r.Run(context.Background(), m, snap, runner.Options{Stage: "pre-commit", Jobs: 1})

	require.Len(t, report.Results, 1)
	assert.Equal(t, executor.StatusPassed, report.Results[0].Status)
	assert.Equal(t, "Lint", report.Results[0].Name)
}

func TestRunUnknownDefinitionBecomesErrorOutcome(t *testing.T) {
	root, snap := workTree(t, map[string]string{"a.go": "package a\n"})
	clone := hookRepoClone(t, `
- id: present
  entry: "true"
  language: system
`)
	r := newTestRunner(t, root, clone)

	m := parseManifest(t, `
repos:
  - repo: https://example.com/hooks
    rev: v2.1.0
    hooks:
      - id: absent
      - id: present
`)

	report := r.Run(context.Background(), m, snap, runner.Options{Stage: "pre-commit", Jobs: 1})

	require.Len(t, report.Results, 2)
	assert.ErrorIs(t, report.Results[0].Err, latcherrors.ErrDefinitionNotFound)
	assert.Equal(t, executor.StatusPassed, report.Results[1].Status)
	assert.Equal(t, runner.ExitError, report.ExitCode())
}

func TestRunIncompleteLocalHookBecomesErrorOutcome(t *testing.T) {
	root, snap := workTree(t, map[string]string{"a.go": "package a\n"})
	r := newTestRunner(t, root, nil)

	m := parseManifest(t, `
repos:
  - repo: local
    hooks:
      - id: missing-entry
        language: system
`)

	report := r.Run(context.Background(), m, snap, runner.Options{Stage: "pre-commit", Jobs: 1})

	require.Len(t, report.Results, 1)
	assert.ErrorIs(t, report.Results[0].Err, latcherrors.ErrLocalHookIncomplete)
	assert.Equal(t, runner.ExitError, report.ExitCode())
}

func TestRunCanceledContextYieldsIncompleteAndExitError(t *testing.T) {
	root, snap := workTree(t, map[string]string{"a.go": "package a\n"})
	r := newTestRunner(t, root, nil)

	m := parseManifest(t, `
repos:
  - repo: local
    hooks:
      - id: never-ran
        entry: "true"
        language: system
`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report := r.Run(ctx, m, snap, runner.Options{Stage: "pre-commit", Jobs: 1})

	require.Len(t, report.Results, 1)
	assert.Equal(t, executor.StatusIncomplete, report.Results[0].Status)
	assert.Equal(t, runner.ExitError, report.ExitCode())
}

func TestRunAliasedInstancesRunIndependently(t *testing.T) {
	root, snap := workTree(t, map[string]string{"a.py": "x = 1\n", "b.md": "# hi\n"})
	clone := hookRepoClone(t, `
- id: check
  entry: "true"
  language: system
`)
	r := newTestRunner(t, root, clone)

	m := parseManifest(t, `
repos:
  - repo: https://example.com/hooks
    rev: v1.0.0
    hooks:
      - id: check
        alias: check-python
        types: [python]
      - id: check
        alias: check-docs
        types: [markdown]
`)

	report := r.Run(context.Background(), m, snap, runner.Options{Stage: "pre-commit", Jobs: 2})

	require.Len(t, report.Results, 2)
	assert.Equal(t, "check-python", report.Results[0].HookID)
	assert.Equal(t, "check-docs", report.Results[1].HookID)
	assert.Equal(t, executor.StatusPassed, report.Results[0].Status)
	assert.Equal(t, executor.StatusPassed, report.Results[1].Status)
}

// erroringBackend fails every materialization, so any environment resolution
// attempt surfaces as an error outcome.
type erroringBackend struct{}

func (erroringBackend) Materialize(context.Context, environ.Spec, string) error {
	return testutil.ErrMockMaterialize
}

func (erroringBackend) Environ(environ.Spec, string) []string { return nil }

func TestRunEmptyFileSetSkipsWithoutResolvingEnvironment(t *testing.T) {
	root, snap := workTree(t, map[string]string{"a.go": "package a\n"})
	cacheRoot := t.TempDir()
	sources := source.NewCacheWithClone(filepath.Join(cacheRoot, "repos"), root, nil)
	envs := environ.NewResolver(filepath.Join(cacheRoot, "envs"), erroringBackend{})
	r := runner.New(sources, envs, executor.NewExecutor(time.Minute))

	m := parseManifest(t, `
repos:
  - repo: local
    hooks:
      - id: py-only
        entry: "true"
        language: python
        additional_dependencies: [flake8]
        types: [python]
`)

	report := r.Run(context.Background(), m, snap, runner.Options{Stage: "pre-commit", Jobs: 1})

	require.Len(t, report.Results, 1)
	assert.Equal(t, executor.StatusSkipped, report.Results[0].Status)
	assert.Equal(t, "no files to check", report.Results[0].SkipReason)
	assert.Equal(t, runner.ExitOK, report.ExitCode())
}

func TestRunReportTimesComeFromClock(t *testing.T) {
	root, snap := workTree(t, map[string]string{"a.go": "package a\n"})
	r := newTestRunner(t, root, nil)

	t0 := time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC)
	r.SetClock(&clock.FixedClock{Times: []time.Time{t0, t0.Add(3 * time.Second)}})

	m := parseManifest(t, `
repos:
  - repo: local
    hooks:
      - id: noop
        entry: "true"
        language: system
`)

	report := r.Run(context.Background(), m, snap, runner.Options{Stage: "pre-commit", Jobs: 1})

	assert.Equal(t, t0, report.Started)
	assert.Equal(t, 3*time.Second, report.Duration)
}

func TestRenderReportText(t *testing.T) {
	report := &runner.Report{
		RunID: "test-run",
		Stage: "pre-commit",
		Results: []executor.Outcome{
			{HookID: "fmt", Name: "Format", Status: executor.StatusPassed},
			{HookID: "lint", Name: "Lint", Status: executor.StatusFailed, ExitCode: 1, Stdout: "a.go:1: bad\n"},
			{HookID: "push-only", Name: "Push Only", Status: executor.StatusSkipped, SkipReason: "not in stage pre-commit"},
		},
	}

	var buf strings.Builder
	runner.Render(&buf, report)
	out := buf.String()

	assert.Contains(t, out, "Format")
	assert.Contains(t, out, "Passed")
	assert.Contains(t, out, "Failed")
	assert.Contains(t, out, "a.go:1: bad")
	assert.Contains(t, out, "not in stage pre-commit")
	assert.Contains(t, out, "1 passed")
	assert.Contains(t, out, "1 failed")
	assert.Contains(t, out, "1 skipped")

	lintIdx := strings.Index(out, "Lint")
	fmtIdx := strings.Index(out, "Format")
	assert.Less(t, fmtIdx, lintIdx, "results render in declaration order")
}

func TestRenderReportJSON(t *testing.T) {
	report := &runner.Report{
		RunID: "test-run",
		Stage: "pre-commit",
		Results: []executor.Outcome{
			{HookID: "lint", Status: executor.StatusFailed, ExitCode: 1, Err: latcherrors.ErrHookFailed},
		},
	}

	var buf strings.Builder
	require.NoError(t, runner.RenderJSON(&buf, report))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(buf.String()), &decoded))
	assert.Equal(t, "test-run", decoded["run_id"])
	assert.InDelta(t, float64(runner.ExitFailed), decoded["exit_code"], 0)

	results, ok := decoded["results"].([]any)
	require.True(t, ok)
	require.Len(t, results, 1)
	first, ok := results[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "lint", first["hook_id"])
	assert.NotEmpty(t, first["error"])
}
