package cli

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/mrz1836/latch/internal/constants"
	"github.com/mrz1836/latch/internal/errors"
	"github.com/mrz1836/latch/internal/git"
	"github.com/mrz1836/latch/internal/manifest"
)

// AddValidateCommand adds the validate command to the parent command.
func AddValidateCommand(parent *cobra.Command, _ *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the manifest without running any hooks",
		Long: `Validate parses .latch.yaml, checks its structural rules (required fields,
known stages, distinct aliases), and compiles every declared file pattern.
Nothing is fetched and no hook runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := GetLogger()
			ctx := logger.WithContext(cmd.Context())

			root, err := git.RepoRoot(ctx, ".")
			if err != nil {
				return err
			}

			path := filepath.Join(root, constants.ManifestFileName)
			m, err := manifest.ParseFile(path)
			if err != nil {
				return err
			}

			if err := validatePatterns(m); err != nil {
				return err
			}

			hooks := 0
			for _, block := range m.Repos {
				hooks += len(block.Hooks)
			}

			logger.Info().Str("manifest", path).Int("repos", len(m.Repos)).Int("hooks", hooks).Msg("manifest validated")
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d repositories, %d hooks, no problems found\n", path, len(m.Repos), hooks)
			return nil
		},
	}

	parent.AddCommand(cmd)
}

// validatePatterns compiles every files/exclude pattern the manifest declares.
// Instance resolution compiles them too, but only at run time against fetched
// definitions; validate surfaces bad patterns without fetching anything.
func validatePatterns(m *manifest.Manifest) error {
	for _, block := range m.Repos {
		for _, ov := range block.Hooks {
			for _, pattern := range []*string{ov.Files, ov.Exclude} {
				if pattern == nil || *pattern == "" {
					continue
				}
				if _, err := regexp.Compile(*pattern); err != nil {
					return fmt.Errorf("%w: %q in hook %s: %s", errors.ErrInvalidPattern, *pattern, ov.ID, err)
				}
			}
		}
	}
	return nil
}
