// Package flock provides cross-platform file locking utilities.
//
// Latch uses exclusive, non-blocking file locks to serialize materialization
// of one cache entry (a fetched hook repository or an execution environment)
// across processes. In-process callers are serialized by singleflight; the
// lock covers concurrent latch processes sharing the same cache directory.
//
// Usage:
//
//	file, _ := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
//	if err := flock.Exclusive(file.Fd()); err != nil {
//	    // Lock not acquired - another process is materializing
//	}
//	defer flock.Unlock(file.Fd())
package flock
