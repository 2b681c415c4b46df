// Package clock provides the production implementation of the Clock port.
package clock

import "time"

// System reads the wall clock. It is the implementation wired in production;
// tests inject fixed clocks through the same port.
type System struct{}

// NewSystem creates a wall-clock implementation.
func NewSystem() System {
	return System{}
}

// Now returns the current UTC time.
func (System) Now() time.Time {
	return time.Now().UTC()
}
