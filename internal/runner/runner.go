// Package runner orchestrates a full run: it resolves the manifest's
// repository blocks into hook instances, executes them on a bounded worker
// pool, and aggregates the outcomes into a report ordered by declaration.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/latch/internal/clock"
	"github.com/mrz1836/latch/internal/ctxutil"
	"github.com/mrz1836/latch/internal/environ"
	latcherrors "github.com/mrz1836/latch/internal/errors"
	"github.com/mrz1836/latch/internal/executor"
	"github.com/mrz1836/latch/internal/fileset"
	"github.com/mrz1836/latch/internal/manifest"
	"github.com/mrz1836/latch/internal/source"
)

// Options select what a run covers.
type Options struct {
	// Stage is the hook stage this run executes.
	Stage string
	// Jobs bounds concurrent hook executions. Values below one mean one.
	Jobs int
}

// Runner wires the source cache, environment resolver, and executor into a
// single run pipeline.
type Runner struct {
	sources *source.Cache
	envs    *environ.Resolver
	exec    *executor.Executor
	clock   clock.Clock
	newID   func() string
}

// New creates a runner.
func New(sources *source.Cache, envs *environ.Resolver, exec *executor.Executor) *Runner {
	return &Runner{
		sources: sources,
		envs:    envs,
		exec:    exec,
		clock:   clock.RealClock{},
		newID:   uuid.NewString,
	}
}

// SetClock replaces the runner's clock (for testing).
func (r *Runner) SetClock(c clock.Clock) {
	r.clock = c
}

// plannedHook is one hook instance in declaration order, or the resolution
// error that prevented instantiating it.
type plannedHook struct {
	inst *manifest.Instance
	// id and name identify the hook in the report when inst is nil.
	id   string
	name string
	err  error
}

// Run executes every hook instance the manifest declares against the
// snapshot and returns the aggregated report.
//
// Resolution failures (source fetch, missing definition, bad override) never
// abort the run: they become per-hook error outcomes while unaffected hooks
// proceed. The report lists results in manifest declaration order regardless
// of which worker finished first.
func (r *Runner) Run(ctx context.Context, m *manifest.Manifest, snap *fileset.Snapshot, opts Options) *Report {
	log := zerolog.Ctx(ctx)
	started := r.clock.Now()

	report := &Report{
		RunID:   r.newID(),
		Stage:   opts.Stage,
		Started: started,
	}

	plan := r.buildPlan(ctx, m)
	report.Results = make([]executor.Outcome, len(plan))

	jobs := opts.Jobs
	if jobs < 1 {
		jobs = 1
	}

	log.Info().
		Str("run_id", report.RunID).
		Str("stage", opts.Stage).
		Int("hooks", len(plan)).
		Int("jobs", jobs).
		Msg("run started")

	var g errgroup.Group
	g.SetLimit(jobs)

	for i, p := range plan {
		g.Go(func() error {
			report.Results[i] = r.runOne(ctx, p, snap, opts.Stage)
			return nil
		})
	}
	_ = g.Wait()

	report.Duration = r.clock.Now().Sub(started)

	log.Info().
		Str("run_id", report.RunID).
		Int("exit_code", report.ExitCode()).
		Dur("duration", report.Duration).
		Msg("run finished")

	return report
}

// runOne produces the outcome for a single planned hook.
func (r *Runner) runOne(ctx context.Context, p plannedHook, snap *fileset.Snapshot, stage string) executor.Outcome {
	if p.err != nil {
		return executor.Outcome{
			HookID: p.id,
			Name:   p.name,
			Status: executor.StatusError,
			Err:    p.err,
		}
	}

	inst := p.inst
	if !inst.HasStage(stage) {
		return executor.Outcome{
			HookID:     inst.DisplayID(),
			Name:       inst.Name,
			Status:     executor.StatusSkipped,
			SkipReason: fmt.Sprintf("not in stage %s", stage),
		}
	}

	if err := ctxutil.Canceled(ctx); err != nil {
		return executor.Outcome{
			HookID: inst.DisplayID(),
			Name:   inst.Name,
			Status: executor.StatusIncomplete,
			Err:    err,
		}
	}

	files := fileset.Select(snap, inst)

	// Skip before touching the environment cache: a hook with nothing to
	// check must not trigger a materialization.
	if inst.PassFilenames && len(files) == 0 {
		return executor.Outcome{
			HookID:     inst.DisplayID(),
			Name:       inst.Name,
			Status:     executor.StatusSkipped,
			SkipReason: "no files to check",
		}
	}

	spec := environ.NewSpec(inst.Language, inst.LanguageVersion, inst.Dependencies)
	env, err := r.envs.Resolve(ctx, spec)
	if err != nil {
		return executor.Outcome{
			HookID: inst.DisplayID(),
			Name:   inst.Name,
			Status: executor.StatusError,
			Err:    err,
		}
	}

	return r.exec.Run(ctx, inst, files, env, snap.Root)
}

// buildPlan resolves every repository block into hook instances, preserving
// manifest declaration order. A failure while resolving one block is recorded
// on each of that block's hooks and resolution continues with the next block.
func (r *Runner) buildPlan(ctx context.Context, m *manifest.Manifest) []plannedHook {
	var plan []plannedHook

	for _, block := range m.Repos {
		src := block.Source()

		if src.IsLocal() {
			for _, ov := range block.Hooks {
				plan = append(plan, r.planLocal(src, ov))
			}
			continue
		}

		dir, err := r.sources.Fetch(ctx, src.Locator, src.Rev)
		if err != nil {
			// Every hook of the block is unrunnable; other blocks still run.
			for _, ov := range block.Hooks {
				plan = append(plan, plannedHook{id: displayID(ov), name: ov.Name, err: err})
			}
			continue
		}

		defs, err := manifest.LoadDefinitions(dir)
		if err != nil {
			for _, ov := range block.Hooks {
				plan = append(plan, plannedHook{id: displayID(ov), name: ov.Name, err: err})
			}
			continue
		}

		for _, ov := range block.Hooks {
			def, ok := defs[ov.ID]
			if !ok {
				plan = append(plan, plannedHook{
					id:   displayID(ov),
					name: ov.Name,
					err:  fmt.Errorf("%w: %s in %s", latcherrors.ErrDefinitionNotFound, ov.ID, src),
				})
				continue
			}
			plan = append(plan, r.planInstance(src, def, ov))
		}
	}

	return plan
}

// planLocal instantiates a hook whose definition lives inline in the manifest.
func (r *Runner) planLocal(src manifest.RepositorySource, ov manifest.Override) plannedHook {
	def, err := manifest.SynthesizeLocal(ov)
	if err != nil {
		return plannedHook{id: displayID(ov), name: ov.Name, err: err}
	}
	return r.planInstance(src, def, ov)
}

// planInstance resolves one override against its definition.
func (r *Runner) planInstance(src manifest.RepositorySource, def *manifest.Definition, ov manifest.Override) plannedHook {
	inst, err := manifest.NewInstance(src, def, ov)
	if err != nil {
		return plannedHook{id: displayID(ov), name: ov.Name, err: err}
	}
	return plannedHook{inst: inst, id: inst.DisplayID(), name: inst.Name}
}

// displayID mirrors Instance.DisplayID for hooks that never became instances.
func displayID(ov manifest.Override) string {
	if ov.Alias != "" {
		return ov.Alias
	}
	return ov.ID
}

// Report aggregates every hook outcome of one run.
type Report struct {
	RunID    string             `json:"run_id"`
	Stage    string             `json:"stage"`
	Started  time.Time          `json:"started"`
	Duration time.Duration      `json:"duration_ns"`
	Results  []executor.Outcome `json:"results"`
}

// Exit codes a run can produce.
const (
	// ExitOK means every hook passed without modifying files.
	ExitOK = 0
	// ExitFailed means at least one hook failed or modified files.
	ExitFailed = 1
	// ExitError means at least one hook could not be run at all, or the run
	// was interrupted before completing.
	ExitError = 2
)

// ExitCode collapses the run into a process exit code. Orchestrator-level
// problems outrank hook findings: an error or an incomplete run yields 2,
// any failed or file-modifying hook yields 1, everything else 0.
func (r *Report) ExitCode() int {
	code := ExitOK
	for _, res := range r.Results {
		switch {
		case res.Status == executor.StatusError || res.Status == executor.StatusIncomplete:
			return ExitError
		case res.Failed():
			code = ExitFailed
		}
	}
	return code
}

// Counts tallies results by status bucket for the report summary.
func (r *Report) Counts() (passed, failed, skipped, errored int) {
	for _, res := range r.Results {
		switch {
		case res.Failed():
			failed++
		case res.Status == executor.StatusPassed:
			passed++
		case res.Status == executor.StatusSkipped:
			skipped++
		default:
			errored++
		}
	}
	return passed, failed, skipped, errored
}
