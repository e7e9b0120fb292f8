package cli

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/mrz1836/latch/internal/config"
	"github.com/mrz1836/latch/internal/constants"
	"github.com/mrz1836/latch/internal/environ"
	"github.com/mrz1836/latch/internal/errors"
	"github.com/mrz1836/latch/internal/executor"
	"github.com/mrz1836/latch/internal/fileset"
	"github.com/mrz1836/latch/internal/git"
	"github.com/mrz1836/latch/internal/manifest"
	"github.com/mrz1836/latch/internal/runner"
	"github.com/mrz1836/latch/internal/source"
)

// runFlags holds flags specific to the run command.
type runFlags struct {
	stage    string
	manual   bool
	files    []string
	allFiles bool
	jobs     int
	cacheDir string
}

// AddRunCommand adds the run command to the parent command.
func AddRunCommand(parent *cobra.Command, global *GlobalFlags) {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the hooks declared in .latch.yaml",
		Long: `Run executes every hook instance the manifest declares for the selected
stage against the repository's tracked files. Results are reported in
manifest order; the exit code is 0 when everything passed, 1 when a hook
failed or modified files, and 2 when a hook could not be run at all.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHooks(cmd, global, flags)
		},
	}

	cmd.Flags().StringVar(&flags.stage, "stage", constants.DefaultStage, "hook stage to run")
	cmd.Flags().BoolVar(&flags.manual, "manual", false, "run manual-stage hooks (shorthand for --stage manual)")
	cmd.Flags().StringSliceVar(&flags.files, "files", nil, "run only against these paths (relative to the repository root)")
	cmd.Flags().BoolVar(&flags.allFiles, "all-files", false, "run against every tracked file (the default)")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "maximum concurrent hooks (0 means CPU count)")
	cmd.Flags().StringVar(&flags.cacheDir, "cache-dir", "", "override the cache directory (default ~/.latch)")
	cmd.MarkFlagsMutuallyExclusive("files", "all-files")
	cmd.MarkFlagsMutuallyExclusive("stage", "manual")

	parent.AddCommand(cmd)
}

// runHooks is the run command implementation.
func runHooks(cmd *cobra.Command, global *GlobalFlags, flags *runFlags) error {
	logger := GetLogger()
	ctx := logger.WithContext(cmd.Context())

	if flags.manual {
		flags.stage = constants.StageManual
	}
	if !constants.IsKnownStage(flags.stage) {
		return fmt.Errorf("%w: %q (known stages: %v)", errors.ErrInvalidStage, flags.stage, constants.KnownStages())
	}

	cfg, err := config.LoadWithOverrides(ctx, &config.Config{
		CacheDir: flags.cacheDir,
		Jobs:     flags.jobs,
		Color:    global.Color,
		Output:   global.Output,
	})
	if err != nil {
		return err
	}

	root, err := git.RepoRoot(ctx, ".")
	if err != nil {
		return err
	}

	m, err := manifest.ParseFile(filepath.Join(root, constants.ManifestFileName))
	if err != nil {
		return err
	}

	var snap *fileset.Snapshot
	if len(flags.files) > 0 {
		snap = fileset.FromPaths(root, flags.files)
	} else {
		snap, err = fileset.Take(ctx, root)
		if err != nil {
			return err
		}
	}

	r, err := buildRunner(cfg, root)
	if err != nil {
		return err
	}

	report := r.Run(ctx, m, snap, runner.Options{
		Stage: flags.stage,
		Jobs:  cfg.EffectiveJobs(),
	})

	if err := renderReport(cmd, cfg, report); err != nil {
		return err
	}

	switch report.ExitCode() {
	case runner.ExitOK:
		return nil
	case runner.ExitFailed:
		return newHookFailureError(failureSummary(report))
	default:
		return fmt.Errorf("%w: run %s", errors.ErrRunIncomplete, report.RunID)
	}
}

// buildRunner wires the source cache, environment resolver, and executor
// from configuration.
func buildRunner(cfg *config.Config, repoRoot string) (*runner.Runner, error) {
	reposDir, err := cfg.ReposDir()
	if err != nil {
		return nil, err
	}
	envsDir, err := cfg.EnvsDir()
	if err != nil {
		return nil, err
	}

	sources := source.NewCache(reposDir, repoRoot)
	envs := environ.NewResolver(envsDir, environ.NewExecBackend())
	exec := executor.NewExecutor(cfg.HookTimeout)

	return runner.New(sources, envs, exec), nil
}

// renderReport writes the report in the configured format and color mode.
func renderReport(cmd *cobra.Command, cfg *config.Config, report *runner.Report) error {
	if cfg.Output == config.OutputJSON {
		return runner.RenderJSON(cmd.OutOrStdout(), report)
	}

	switch cfg.Color {
	case config.ColorNever:
		lipgloss.SetColorProfile(termenv.Ascii)
	case config.ColorAlways:
		lipgloss.SetColorProfile(termenv.ANSI256)
	default:
		runner.CheckNoColor()
	}

	runner.Render(cmd.OutOrStdout(), report)
	return nil
}

// failureSummary builds the one-line error for a run with hook findings.
func failureSummary(report *runner.Report) string {
	_, failed, _, _ := report.Counts()
	if failed == 1 {
		return "1 hook failed or modified files"
	}
	return fmt.Sprintf("%d hooks failed or modified files", failed)
}
