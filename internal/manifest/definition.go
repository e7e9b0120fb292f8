package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mrz1836/latch/internal/constants"
	latcherrors "github.com/mrz1836/latch/internal/errors"
)

// Definition is one hook as declared by its repository's .latch-hooks.yaml.
// Owned by a RepositorySource; never mutated after load. User overrides
// produce a derived Instance, not a mutation.
type Definition struct {
	ID              string   `yaml:"id"`
	Name            string   `yaml:"name,omitempty"`
	Entry           string   `yaml:"entry"`
	Language        string   `yaml:"language"`
	LanguageVersion string   `yaml:"language_version,omitempty"`
	Args            []string `yaml:"args,omitempty"`
	Files           string   `yaml:"files,omitempty"`
	Exclude         string   `yaml:"exclude,omitempty"`
	Types           []string `yaml:"types,omitempty"`
	Stages          []string `yaml:"stages,omitempty"`
	Dependencies    []string `yaml:"dependencies,omitempty"`
	PassFilenames   *bool    `yaml:"pass_filenames,omitempty"`
}

// LoadDefinitions reads the hook definitions file at the root of a fetched
// hook repository and returns the definitions keyed by identifier.
func LoadDefinitions(repoDir string) (map[string]*Definition, error) {
	path := filepath.Join(repoDir, constants.HooksFileName)
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is inside the latch-managed source cache
	if err != nil {
		return nil, latcherrors.Wrapf(err, "reading hook definitions %s", path)
	}

	var defs []Definition
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", latcherrors.ErrManifestParse, path, err)
	}

	byID := make(map[string]*Definition, len(defs))
	for i := range defs {
		def := &defs[i]
		if def.ID == "" || def.Entry == "" || def.Language == "" {
			return nil, fmt.Errorf("%w: %s: definition %d needs id, entry, and language", latcherrors.ErrManifestParse, path, i)
		}
		if _, dup := byID[def.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate definition %s in %s", latcherrors.ErrManifestParse, def.ID, path)
		}
		byID[def.ID] = def
	}
	return byID, nil
}

// SynthesizeLocal builds a Definition from a local-repository override block.
// Local hooks carry their full definition inline in the manifest, so entry
// and language are mandatory on the override itself.
func SynthesizeLocal(ov Override) (*Definition, error) {
	if ov.Entry == "" || ov.Language == "" {
		return nil, fmt.Errorf("%w: %s", latcherrors.ErrLocalHookIncomplete, ov.ID)
	}
	def := &Definition{
		ID:              ov.ID,
		Name:            ov.Name,
		Entry:           ov.Entry,
		Language:        ov.Language,
		LanguageVersion: ov.LanguageVersion,
	}
	return def, nil
}
