package manifest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/latch/internal/constants"
	latcherrors "github.com/mrz1836/latch/internal/errors"
	"github.com/mrz1836/latch/internal/manifest"
)

func TestParseBasicManifest(t *testing.T) {
	data := []byte(`repos:
  - repo: https://example.com/mirrors-prettier
    rev: v3.0.3
    hooks:
      - id: prettier
        args: ["--list-different"]
        exclude: ^vendor/
  - repo: local
    hooks:
      - id: tree-fmt
        entry: scripts/fmt.sh
        language: system
        pass_filenames: false
`)

	m, err := manifest.Parse(data)
	require.NoError(t, err)
	require.Len(t, m.Repos, 2)

	first := m.Repos[0]
	assert.Equal(t, "https://example.com/mirrors-prettier", first.Repo)
	assert.Equal(t, "v3.0.3", first.Rev)
	require.Len(t, first.Hooks, 1)
	assert.Equal(t, []string{"--list-different"}, first.Hooks[0].Args)
	require.NotNil(t, first.Hooks[0].Exclude)
	assert.Equal(t, "^vendor/", *first.Hooks[0].Exclude)

	second := m.Repos[1]
	assert.True(t, second.Source().IsLocal())
	require.Len(t, second.Hooks, 1)
	require.NotNil(t, second.Hooks[0].PassFilenames)
	assert.False(t, *second.Hooks[0].PassFilenames)
}

// TestParseMergeKeyTemplate verifies that one override block reused as a
// template by a second block (YAML anchor + merge key) expands to two
// concrete blocks before instance construction.
func TestParseMergeKeyTemplate(t *testing.T) {
	data := []byte(`repos:
  - repo: https://example.com/flake8
    rev: 6.1.0
    hooks:
      - &flake8-base
        id: flake8
        args: ["--select", "D"]
        additional_dependencies: ["flake8-docstrings"]
      - <<: *flake8-base
        alias: flake8-darglint
        name: flake8 (darglint)
        additional_dependencies: ["darglint"]
`)

	m, err := manifest.Parse(data)
	require.NoError(t, err)
	require.Len(t, m.Repos, 1)
	require.Len(t, m.Repos[0].Hooks, 2)

	base := m.Repos[0].Hooks[0]
	derived := m.Repos[0].Hooks[1]

	// The template's fields carried over.
	assert.Equal(t, "flake8", derived.ID)
	assert.Equal(t, base.Args, derived.Args)

	// The derived block's own fields won over the template's.
	assert.Equal(t, "flake8-darglint", derived.Alias)
	assert.Equal(t, "flake8 (darglint)", derived.Name)
	assert.Equal(t, []string{"darglint"}, derived.AdditionalDependencies)
	assert.Empty(t, base.Alias)
}

func TestParseRejectsMissingRepo(t *testing.T) {
	_, err := manifest.Parse([]byte("repos:\n  - rev: v1\n    hooks: [{id: x}]\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, latcherrors.ErrManifestParse)
}

func TestParseRejectsMissingRevForRemote(t *testing.T) {
	_, err := manifest.Parse([]byte("repos:\n  - repo: https://example.com/x\n    hooks: [{id: x}]\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, latcherrors.ErrManifestParse)
}

func TestParseAllowsMissingRevForLocal(t *testing.T) {
	m, err := manifest.Parse([]byte("repos:\n  - repo: local\n    hooks: [{id: x, entry: e, language: system}]\n"))
	require.NoError(t, err)
	assert.Equal(t, constants.LocalRepo, m.Repos[0].Repo)
}

func TestParseRejectsUnknownStage(t *testing.T) {
	data := []byte(`repos:
  - repo: https://example.com/x
    rev: v1
    hooks:
      - id: x
        stages: [post-merge]
`)
	_, err := manifest.Parse(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, latcherrors.ErrInvalidStage)
}

func TestParseRejectsDuplicateInstanceIdentity(t *testing.T) {
	data := []byte(`repos:
  - repo: https://example.com/x
    rev: v1
    hooks:
      - id: flake8
      - id: flake8
`)
	_, err := manifest.Parse(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, latcherrors.ErrDuplicateInstance)
}

func TestParseAllowsSameIDWithDistinctAliases(t *testing.T) {
	data := []byte(`repos:
  - repo: https://example.com/x
    rev: v1
    hooks:
      - id: flake8
      - id: flake8
        alias: flake8-strict
`)
	m, err := manifest.Parse(data)
	require.NoError(t, err)
	assert.Len(t, m.Repos[0].Hooks, 2)
}

func TestParseFileMissing(t *testing.T) {
	_, err := manifest.ParseFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, latcherrors.ErrManifestNotFound)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), constants.ManifestFileName)
	require.NoError(t, os.WriteFile(path, []byte("repos:\n  - repo: local\n    hooks: [{id: x, entry: e, language: system}]\n"), 0o600))

	m, err := manifest.ParseFile(path)
	require.NoError(t, err)
	assert.Len(t, m.Repos, 1)
}
