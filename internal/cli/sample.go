package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// sampleManifest is the starter manifest printed by sample-config.
const sampleManifest = `# .latch.yaml - manifest of repositories of checks
repos:
  - repo: https://github.com/example/latch-hooks
    rev: v1.4.0
    hooks:
      - id: trailing-whitespace
      - id: check-yaml
        files: ^config/
      - id: flake8
        args: [--max-line-length=100]
        additional_dependencies: [flake8-bugbear]

  # Hooks defined inline against the repository being checked.
  - repo: local
    hooks:
      - id: unit-tests
        name: Unit tests
        entry: go test ./...
        language: system
        pass_filenames: false
        stages: [pre-push]
`

// AddSampleConfigCommand adds the sample-config command to the parent command.
func AddSampleConfigCommand(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "sample-config",
		Short: "Print a starter .latch.yaml manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprint(cmd.OutOrStdout(), sampleManifest)
			return nil
		},
	}

	parent.AddCommand(cmd)
}
