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

func writeHooksFile(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, constants.HooksFileName), []byte(content), 0o600))
}

func TestLoadDefinitions(t *testing.T) {
	dir := t.TempDir()
	writeHooksFile(t, dir, `- id: black
  name: black
  entry: black
  language: python
  types: [python]
- id: black-check
  entry: black --check
  language: python
  types: [python]
  pass_filenames: true
`)

	defs, err := manifest.LoadDefinitions(dir)
	require.NoError(t, err)
	require.Len(t, defs, 2)

	black, ok := defs["black"]
	require.True(t, ok)
	assert.Equal(t, "black", black.Entry)
	assert.Equal(t, []string{"python"}, black.Types)

	check, ok := defs["black-check"]
	require.True(t, ok)
	assert.Equal(t, "black --check", check.Entry)
}

func TestLoadDefinitionsMissingFile(t *testing.T) {
	_, err := manifest.LoadDefinitions(t.TempDir())
	assert.Error(t, err)
}

func TestLoadDefinitionsRejectsIncomplete(t *testing.T) {
	dir := t.TempDir()
	writeHooksFile(t, dir, "- id: broken\n  language: python\n")

	_, err := manifest.LoadDefinitions(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, latcherrors.ErrManifestParse)
}

func TestLoadDefinitionsRejectsDuplicates(t *testing.T) {
	dir := t.TempDir()
	writeHooksFile(t, dir, `- id: black
  entry: black
  language: python
- id: black
  entry: black
  language: python
`)

	_, err := manifest.LoadDefinitions(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, latcherrors.ErrManifestParse)
}
