// Package manifest models the declarative manifest of repositories of checks.
//
// A manifest is a sequence of repository blocks, each naming a source locator,
// a pinned revision, and the hook overrides to instantiate from that source.
// Parsing fully resolves document-level indirection (YAML anchors and `<<:`
// merge keys) so the execution phase only ever sees concrete structures.
package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mrz1836/latch/internal/constants"
	latcherrors "github.com/mrz1836/latch/internal/errors"
)

// RepositorySource identifies a resolved source of hook definitions.
// Immutable once resolved; identity is (Locator, Rev).
type RepositorySource struct {
	// Locator is a clonable URL or the "local" pseudo-locator.
	Locator string
	// Rev is the pinned revision (tag, branch, or commit). Empty for local.
	Rev string
}

// IsLocal reports whether the source is the local pseudo-locator.
func (s RepositorySource) IsLocal() bool {
	return s.Locator == constants.LocalRepo
}

// String renders the source as locator@rev for logs and error messages.
func (s RepositorySource) String() string {
	if s.Rev == "" {
		return s.Locator
	}
	return s.Locator + "@" + s.Rev
}

// Manifest is the parsed in-memory form of a .latch.yaml file.
type Manifest struct {
	Repos []RepoBlock `yaml:"repos"`
}

// RepoBlock is one repository block: a source plus its hook overrides.
type RepoBlock struct {
	Repo  string     `yaml:"repo"`
	Rev   string     `yaml:"rev"`
	Hooks []Override `yaml:"hooks"`
}

// Source returns the block's repository source.
func (b RepoBlock) Source() RepositorySource {
	return RepositorySource{Locator: b.Repo, Rev: b.Rev}
}

// Override is one hook override block within a repository block. Every field
// except ID is optional; set fields replace the corresponding definition
// defaults, with the sole exception of AdditionalDependencies which appends.
//
// Pointer fields distinguish "explicitly set" from "absent" so that an
// explicit empty value still replaces the default.
type Override struct {
	ID                     string   `yaml:"id"`
	Name                   string   `yaml:"name,omitempty"`
	Alias                  string   `yaml:"alias,omitempty"`
	Entry                  string   `yaml:"entry,omitempty"`
	Language               string   `yaml:"language,omitempty"`
	LanguageVersion        string   `yaml:"language_version,omitempty"`
	Args                   []string `yaml:"args,omitempty"`
	Files                  *string  `yaml:"files,omitempty"`
	Exclude                *string  `yaml:"exclude,omitempty"`
	Types                  []string `yaml:"types,omitempty"`
	Stages                 []string `yaml:"stages,omitempty"`
	AdditionalDependencies []string `yaml:"additional_dependencies,omitempty"`
	PassFilenames          *bool    `yaml:"pass_filenames,omitempty"`
}

// Parse decodes manifest YAML. Anchors, aliases, and `<<:` merge keys are
// expanded by the decoder, so an override block reused as a template by a
// second block arrives here as two concrete blocks.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %s", latcherrors.ErrManifestParse, err)
	}
	if err := validate(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ParseFile reads and parses the manifest at path.
func ParseFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the user's own flags
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", latcherrors.ErrManifestNotFound, path)
		}
		return nil, latcherrors.Wrapf(err, "reading manifest %s", path)
	}
	return Parse(data)
}

// validate applies the structural rules the model depends on.
func validate(m *Manifest) error {
	for bi, block := range m.Repos {
		if block.Repo == "" {
			return fmt.Errorf("%w: repos[%d]: repo is required", latcherrors.ErrManifestParse, bi)
		}
		if block.Repo != constants.LocalRepo && block.Rev == "" {
			return fmt.Errorf("%w: repos[%d] (%s): rev is required", latcherrors.ErrManifestParse, bi, block.Repo)
		}

		seen := make(map[string]struct{}, len(block.Hooks))
		for hi, ov := range block.Hooks {
			if ov.ID == "" {
				return fmt.Errorf("%w: repos[%d].hooks[%d]: id is required", latcherrors.ErrManifestParse, bi, hi)
			}
			for _, stage := range ov.Stages {
				if !constants.IsKnownStage(stage) {
					return fmt.Errorf("%w: %q in hook %s", latcherrors.ErrInvalidStage, stage, ov.ID)
				}
			}

			// Two instances of the same definition must carry distinct aliases.
			key := ov.ID + "\x00" + ov.Alias
			if _, dup := seen[key]; dup {
				return fmt.Errorf("%w: %s (alias %q) in %s", latcherrors.ErrDuplicateInstance, ov.ID, ov.Alias, block.Repo)
			}
			seen[key] = struct{}{}
		}
	}
	return nil
}
