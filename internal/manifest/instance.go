package manifest

import (
	"fmt"
	"regexp"

	"github.com/mrz1836/latch/internal/constants"
	latcherrors "github.com/mrz1836/latch/internal/errors"
)

// Instance is a fully resolved hook instance: a shared, read-only Definition
// plus the effective settings after merging one override block onto it.
//
// Override resolution happens exactly once, in NewInstance, before any file
// selection. Replacement semantics apply to args, filters, types, and stages
// (an explicitly set override replaces the default, never merges with it);
// additional dependencies are appended to the definition's own.
//
// Two Instances may share a Definition. They are independent hooks, keyed by
// (repository, identifier, alias), with environments keyed by their own
// dependency sets.
type Instance struct {
	// Source is the repository the definition came from.
	Source RepositorySource
	// Definition is the shared, read-only declared hook.
	Definition *Definition

	// ID is the definition identifier this instance was created from.
	ID string
	// Alias disambiguates two instances of the same definition. May be empty.
	Alias string
	// Name is the display name used in the report.
	Name string

	// Entry is the effective command template.
	Entry string
	// Args are the effective arguments.
	Args []string
	// Language and LanguageVersion are the effective runtime declaration.
	Language        string
	LanguageVersion string
	// Dependencies is the definition's list plus additional_dependencies.
	Dependencies []string

	// Types are the include type tags; a file must carry every tag.
	Types []string
	// Files and Exclude are the compiled path filters. Either may be nil.
	Files   *regexp.Regexp
	Exclude *regexp.Regexp

	// Stages are the effective stages gating execution.
	Stages []string
	// PassFilenames controls whether the filtered file list is appended to argv.
	PassFilenames bool
}

// NewInstance resolves one override block against its definition.
func NewInstance(src RepositorySource, def *Definition, ov Override) (*Instance, error) {
	inst := &Instance{
		Source:     src,
		Definition: def,
		ID:         ov.ID,
		Alias:      ov.Alias,
	}

	inst.Name = firstNonEmpty(ov.Name, def.Name, ov.ID)
	inst.Entry = firstNonEmpty(ov.Entry, def.Entry)
	inst.Language = firstNonEmpty(ov.Language, def.Language)
	inst.LanguageVersion = firstNonEmpty(ov.LanguageVersion, def.LanguageVersion)

	// Override replaces, never merges. nil means absent; an explicit empty
	// list still replaces.
	inst.Args = replaceSlice(def.Args, ov.Args)
	inst.Types = replaceSlice(def.Types, ov.Types)

	inst.Stages = replaceSlice(def.Stages, ov.Stages)
	if len(inst.Stages) == 0 {
		inst.Stages = []string{constants.DefaultStage}
	}

	// Dependencies append; everything else replaces.
	inst.Dependencies = make([]string, 0, len(def.Dependencies)+len(ov.AdditionalDependencies))
	inst.Dependencies = append(inst.Dependencies, def.Dependencies...)
	inst.Dependencies = append(inst.Dependencies, ov.AdditionalDependencies...)

	inst.PassFilenames = true
	if def.PassFilenames != nil {
		inst.PassFilenames = *def.PassFilenames
	}
	if ov.PassFilenames != nil {
		inst.PassFilenames = *ov.PassFilenames
	}

	filesPattern := def.Files
	if ov.Files != nil {
		filesPattern = *ov.Files
	}
	excludePattern := def.Exclude
	if ov.Exclude != nil {
		excludePattern = *ov.Exclude
	}

	var err error
	if inst.Files, err = compilePattern(filesPattern); err != nil {
		return nil, fmt.Errorf("%w: files %q in hook %s: %s", latcherrors.ErrInvalidPattern, filesPattern, ov.ID, err)
	}
	if inst.Exclude, err = compilePattern(excludePattern); err != nil {
		return nil, fmt.Errorf("%w: exclude %q in hook %s: %s", latcherrors.ErrInvalidPattern, excludePattern, ov.ID, err)
	}

	return inst, nil
}

// DisplayID returns the identifier shown in reports: the alias when present,
// the definition identifier otherwise.
func (i *Instance) DisplayID() string {
	if i.Alias != "" {
		return i.Alias
	}
	return i.ID
}

// HasStage reports whether the instance's effective stages include stage.
func (i *Instance) HasStage(stage string) bool {
	for _, s := range i.Stages {
		if s == stage {
			return true
		}
	}
	return false
}

// compilePattern compiles a path filter. Empty patterns mean "no filter".
func compilePattern(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil //nolint:nilnil // Absent filter is represented as nil
	}
	return regexp.Compile(pattern)
}

// replaceSlice returns override when set (non-nil), otherwise a copy of def.
func replaceSlice(def, override []string) []string {
	if override != nil {
		out := make([]string, len(override))
		copy(out, override)
		return out
	}
	out := make([]string, len(def))
	copy(out, def)
	return out
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
