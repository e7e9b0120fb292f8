// Package source caches fetched hook repositories, content-addressed by
// (locator, revision).
//
// A fetch of an already-cached pair is a no-op returning the cached path. The
// cache directory is safe to delete; entries are rebuilt lazily on the next
// run. Entries are only considered present once their ready marker exists, so
// an interrupted fetch is rebuilt rather than trusted.
package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/mrz1836/latch/internal/constants"
	latcherrors "github.com/mrz1836/latch/internal/errors"
	"github.com/mrz1836/latch/internal/flock"
	"github.com/mrz1836/latch/internal/git"
)

// CloneFunc fetches a repository at a pinned revision into dir.
// Injectable for testing; the default is git.CloneAtRevision.
type CloneFunc func(ctx context.Context, url, rev, dir string) error

// Cache is an on-disk store of fetched hook repositories.
type Cache struct {
	root     string
	localDir string
	clone    CloneFunc
}

// NewCache creates a source cache rooted at root. localDir is the path the
// "local" pseudo-locator resolves to (the repository being checked).
func NewCache(root, localDir string) *Cache {
	return &Cache{
		root:     root,
		localDir: localDir,
		clone:    git.CloneAtRevision,
	}
}

// NewCacheWithClone creates a cache with a custom clone function (for testing).
func NewCacheWithClone(root, localDir string, clone CloneFunc) *Cache {
	return &Cache{
		root:     root,
		localDir: localDir,
		clone:    clone,
	}
}

// Key returns the content address for a (locator, revision) pair.
func Key(locator, rev string) string {
	sum := sha256.Sum256([]byte(locator + "@" + rev))
	return hex.EncodeToString(sum[:])
}

// Fetch returns the local path holding the hook definitions for
// (locator, rev), fetching and pinning them on first use.
//
// The "local" pseudo-locator bypasses fetching entirely. Fetch failures are
// wrapped with ErrSourceFetch; the caller attributes them to every hook of
// the repository block without aborting other blocks.
func (c *Cache) Fetch(ctx context.Context, locator, rev string) (string, error) {
	if locator == constants.LocalRepo {
		return c.localDir, nil
	}

	log := zerolog.Ctx(ctx)
	dir := filepath.Join(c.root, Key(locator, rev))
	marker := filepath.Join(dir, constants.ReadyMarkerFileName)

	if fileExists(marker) {
		log.Debug().Str("locator", locator).Str("rev", rev).Msg("source cache hit")
		return dir, nil
	}

	if err := os.MkdirAll(c.root, 0o750); err != nil {
		return "", fmt.Errorf("%w: creating cache root: %s", latcherrors.ErrSourceFetch, err)
	}

	// Serialize materialization of this entry across processes.
	unlock, err := lockEntry(dir + constants.LockFileName)
	if err != nil {
		return "", fmt.Errorf("%w: locking cache entry: %s", latcherrors.ErrSourceFetch, err)
	}
	defer unlock()

	// Another process may have completed the fetch while we waited.
	if fileExists(marker) {
		return dir, nil
	}

	// A directory without a marker is a leftover from an interrupted fetch.
	if fileExists(dir) {
		if err := os.RemoveAll(dir); err != nil {
			return "", fmt.Errorf("%w: clearing stale entry: %s", latcherrors.ErrSourceFetch, err)
		}
	}

	log.Info().Str("locator", locator).Str("rev", rev).Msg("fetching hook repository")
	if err := c.clone(ctx, locator, rev, dir); err != nil {
		// Leave nothing half-materialized behind.
		_ = os.RemoveAll(dir)
		return "", fmt.Errorf("%w: %s@%s: %s", latcherrors.ErrSourceFetch, locator, rev, err)
	}

	if err := os.WriteFile(marker, []byte(Key(locator, rev)+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("%w: writing ready marker: %s", latcherrors.ErrSourceFetch, err)
	}

	return dir, nil
}

// lockEntry takes a blocking exclusive lock on path and returns the unlock function.
func lockEntry(path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600) //nolint:gosec // G304: path is inside the latch cache
	if err != nil {
		return nil, err
	}
	if err := flock.ExclusiveBlocking(f.Fd()); err != nil {
		_ = f.Close()
		return nil, err
	}
	return func() {
		_ = flock.Unlock(f.Fd())
		_ = f.Close()
	}, nil
}

// fileExists returns true if path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
