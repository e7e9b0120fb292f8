// Package testutil provides testing utilities for latch.
//
// This package contains mock errors and test helpers used across test files.
// It should only be imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors for testing purposes.
// These errors are used to simulate various failure scenarios in tests.
var (
	// ErrMockFetch indicates a mock source fetch failed (used in tests).
	ErrMockFetch = errors.New("fetch failed")

	// ErrMockMaterialize indicates a mock environment build failed (used in tests).
	ErrMockMaterialize = errors.New("materialize failed")

	// ErrMockExec indicates a mock command execution failed (used in tests).
	ErrMockExec = errors.New("exec failed")
)
