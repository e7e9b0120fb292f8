package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrz1836/latch/internal/config"
)

// cleanFlags holds flags specific to the clean command.
type cleanFlags struct {
	cacheDir string
	repos    bool
	envs     bool
}

// AddCleanCommand adds the clean command to the parent command.
func AddCleanCommand(parent *cobra.Command, _ *GlobalFlags) {
	flags := &cleanFlags{}

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove cached hook repositories and environments",
		Long: `Clean deletes latch's caches. Both caches are rebuilt lazily on the next
run, so cleaning is always safe. With no flags both caches are removed;
--repos or --envs restricts cleaning to one of them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := GetLogger()
			ctx := logger.WithContext(cmd.Context())

			cfg, err := config.LoadWithOverrides(ctx, &config.Config{CacheDir: flags.cacheDir})
			if err != nil {
				return err
			}

			// No selection means everything.
			cleanRepos := flags.repos || !flags.envs
			cleanEnvs := flags.envs || !flags.repos

			if cleanRepos {
				dir, err := cfg.ReposDir()
				if err != nil {
					return err
				}
				if err := removeCache(cmd, dir, "hook repository cache"); err != nil {
					return err
				}
			}

			if cleanEnvs {
				dir, err := cfg.EnvsDir()
				if err != nil {
					return err
				}
				if err := removeCache(cmd, dir, "environment cache"); err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&flags.cacheDir, "cache-dir", "", "override the cache directory (default ~/.latch)")
	cmd.Flags().BoolVar(&flags.repos, "repos", false, "clean only the hook repository cache")
	cmd.Flags().BoolVar(&flags.envs, "envs", false, "clean only the environment cache")

	parent.AddCommand(cmd)
}

// removeCache deletes dir and reports what happened.
func removeCache(cmd *cobra.Command, dir, what string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s already empty (%s)\n", what, dir)
		return nil
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("removing %s: %w", what, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %s (%s)\n", what, dir)
	return nil
}
