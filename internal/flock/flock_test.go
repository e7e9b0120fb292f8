//go:build unix

package flock_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mrz1836/latch/internal/flock"
)

func TestExclusiveAndUnlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lock")
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	require.NoError(t, flock.Exclusive(f.Fd()))
	require.NoError(t, flock.Unlock(f.Fd()))
}

func TestExclusiveFailsWhenHeld(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lock")

	first, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	require.NoError(t, err)
	defer func() { _ = first.Close() }()
	require.NoError(t, flock.Exclusive(first.Fd()))

	// A second descriptor on the same file cannot acquire the lock.
	second, err := os.OpenFile(path, os.O_RDWR, 0o600)
	require.NoError(t, err)
	defer func() { _ = second.Close() }()
	require.Error(t, flock.Exclusive(second.Fd()))

	require.NoError(t, flock.Unlock(first.Fd()))
	require.NoError(t, flock.Exclusive(second.Fd()))
	require.NoError(t, flock.Unlock(second.Fd()))
}
