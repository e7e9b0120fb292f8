package source_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	latcherrors "github.com/mrz1836/latch/internal/errors"
	"github.com/mrz1836/latch/internal/source"
	"github.com/mrz1836/latch/internal/testutil"
)

// countingClone is a CloneFunc test double that records invocations.
type countingClone struct {
	calls int
	fail  bool
}

func (c *countingClone) clone(_ context.Context, _, rev, dir string) error {
	c.calls++
	if c.fail {
		return testutil.ErrMockFetch
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "rev.txt"), []byte(rev), 0o600)
}

func TestFetchIsIdempotent(t *testing.T) {
	cc := &countingClone{}
	cache := source.NewCacheWithClone(t.TempDir(), "", cc.clone)

	first, err := cache.Fetch(context.Background(), "https://example.com/hooks", "v1.0.0")
	require.NoError(t, err)

	second, err := cache.Fetch(context.Background(), "https://example.com/hooks", "v1.0.0")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, cc.calls, "second fetch of the same (locator, rev) must be a no-op")
}

func TestFetchDistinguishesRevisions(t *testing.T) {
	cc := &countingClone{}
	cache := source.NewCacheWithClone(t.TempDir(), "", cc.clone)

	v1, err := cache.Fetch(context.Background(), "https://example.com/hooks", "v1.0.0")
	require.NoError(t, err)
	v2, err := cache.Fetch(context.Background(), "https://example.com/hooks", "v2.0.0")
	require.NoError(t, err)

	assert.NotEqual(t, v1, v2)
	assert.Equal(t, 2, cc.calls)
}

func TestFetchLocalBypassesClone(t *testing.T) {
	cc := &countingClone{}
	localDir := t.TempDir()
	cache := source.NewCacheWithClone(t.TempDir(), localDir, cc.clone)

	dir, err := cache.Fetch(context.Background(), "local", "")
	require.NoError(t, err)
	assert.Equal(t, localDir, dir)
	assert.Zero(t, cc.calls)
}

func TestFetchFailureWrapsSentinel(t *testing.T) {
	cc := &countingClone{fail: true}
	root := t.TempDir()
	cache := source.NewCacheWithClone(root, "", cc.clone)

	_, err := cache.Fetch(context.Background(), "https://example.com/down", "v1")
	require.Error(t, err)
	assert.ErrorIs(t, err, latcherrors.ErrSourceFetch)

	// Nothing half-materialized is left behind.
	entries, readErr := os.ReadDir(root)
	require.NoError(t, readErr)
	for _, e := range entries {
		assert.False(t, e.IsDir(), "failed fetch must not leave a cache directory")
	}
}

func TestFetchRebuildsInterruptedEntry(t *testing.T) {
	cc := &countingClone{}
	root := t.TempDir()
	cache := source.NewCacheWithClone(root, "", cc.clone)

	// Simulate an interrupted fetch: directory exists, no ready marker.
	stale := filepath.Join(root, source.Key("https://example.com/hooks", "v1"))
	require.NoError(t, os.MkdirAll(stale, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(stale, "partial"), []byte("x"), 0o600))

	dir, err := cache.Fetch(context.Background(), "https://example.com/hooks", "v1")
	require.NoError(t, err)
	assert.Equal(t, stale, dir)
	assert.Equal(t, 1, cc.calls, "stale entry must be rebuilt")

	_, statErr := os.Stat(filepath.Join(dir, "partial"))
	assert.True(t, os.IsNotExist(statErr), "stale contents must be cleared")
}

func TestKeyIsStable(t *testing.T) {
	assert.Equal(t,
		source.Key("https://example.com/hooks", "v1"),
		source.Key("https://example.com/hooks", "v1"))
	assert.NotEqual(t,
		source.Key("https://example.com/hooks", "v1"),
		source.Key("https://example.com/hooks", "v2"))
}
