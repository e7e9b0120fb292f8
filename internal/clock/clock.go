// Package clock provides an abstraction for time operations to improve testability.
// Instead of calling time.Now() directly, code can use the Clock interface which
// can be mocked in tests to control hook durations and timestamps.
package clock

import "time"

// Clock is an interface for time operations.
// This allows code to be tested with mock clocks.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the actual system time.
type RealClock struct{}

// Now returns the current time from the system clock.
func (RealClock) Now() time.Time {
	return time.Now()
}

// Ensure RealClock implements Clock.
var _ Clock = RealClock{}

// FixedClock implements Clock returning a preset sequence of times.
// Each call to Now returns the next time in the sequence; the final
// time repeats once the sequence is exhausted. Useful for asserting
// measured durations in tests.
type FixedClock struct {
	Times []time.Time
	next  int
}

// Now returns the next preset time.
func (c *FixedClock) Now() time.Time {
	if len(c.Times) == 0 {
		return time.Time{}
	}
	t := c.Times[c.next]
	if c.next < len(c.Times)-1 {
		c.next++
	}
	return t
}

// Ensure FixedClock implements Clock.
var _ Clock = (*FixedClock)(nil)
