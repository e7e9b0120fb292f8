package environ

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/mrz1836/latch/internal/constants"
	latcherrors "github.com/mrz1836/latch/internal/errors"
	"github.com/mrz1836/latch/internal/flock"
)

// Handle references a materialized execution environment.
type Handle struct {
	// Key is the environment cache key.
	Key string
	// Dir is the on-disk location of the environment.
	Dir string
	// Env is the process environment overrides for running hooks inside it.
	Env []string
}

// Resolver materializes environments lazily and caches them by key.
//
// Concurrent resolution requests for the same key are coalesced: exactly one
// goroutine materializes, the rest block on and share its result
// (singleflight). A flock on the entry extends the same guarantee across
// latch processes sharing the cache directory.
type Resolver struct {
	root    string
	backend Backend
	group   singleflight.Group
}

// NewResolver creates a resolver persisting environments under root.
func NewResolver(root string, backend Backend) *Resolver {
	return &Resolver{
		root:    root,
		backend: backend,
	}
}

// Resolve returns a handle for spec, materializing the environment on first
// use. Deterministic given the cache key: a hit returns the existing entry
// without re-materializing. Failures are wrapped with ErrEnvironment and
// tagged with the cache key; the caller attributes them only to hook
// instances sharing that key.
func (r *Resolver) Resolve(ctx context.Context, spec Spec) (*Handle, error) {
	key := spec.Key()

	v, err, _ := r.group.Do(key, func() (any, error) {
		return r.materialize(ctx, spec, key)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: env %s: %s", latcherrors.ErrEnvironment, shortKey(key), err)
	}

	handle, ok := v.(*Handle)
	if !ok {
		return nil, fmt.Errorf("%w: env %s: unexpected resolver result", latcherrors.ErrEnvironment, shortKey(key))
	}
	return handle, nil
}

// materialize builds (or reuses) the on-disk entry for key.
func (r *Resolver) materialize(ctx context.Context, spec Spec, key string) (*Handle, error) {
	log := zerolog.Ctx(ctx)
	dir := filepath.Join(r.root, key)
	marker := filepath.Join(dir, constants.ReadyMarkerFileName)

	handle := &Handle{
		Key: key,
		Dir: dir,
		Env: r.backend.Environ(spec, dir),
	}

	if fileExists(marker) {
		log.Debug().Str("env_key", shortKey(key)).Msg("environment cache hit")
		return handle, nil
	}

	if err := os.MkdirAll(r.root, 0o750); err != nil {
		return nil, err
	}

	unlock, err := lockEntry(dir + constants.LockFileName)
	if err != nil {
		return nil, err
	}
	defer unlock()

	// Another process may have finished while we waited on the lock.
	if fileExists(marker) {
		return handle, nil
	}

	// An entry without a marker is an interrupted materialization.
	if fileExists(dir) {
		if err := os.RemoveAll(dir); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, err
	}

	log.Info().
		Str("env_key", shortKey(key)).
		Str("language", spec.Language).
		Int("dependencies", len(spec.Dependencies)).
		Msg("materializing environment")

	if err := r.backend.Materialize(ctx, spec, dir); err != nil {
		_ = os.RemoveAll(dir)
		return nil, err
	}

	if err := os.WriteFile(marker, []byte(key+"\n"), 0o600); err != nil {
		return nil, err
	}

	return handle, nil
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

// shortKey abbreviates a cache key for logs and error messages.
func shortKey(key string) string {
	if len(key) > 12 {
		return key[:12]
	}
	return key
}
