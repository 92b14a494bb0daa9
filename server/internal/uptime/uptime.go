// Package uptime tracks how long the shard process has been running.
package uptime

import "time"

// Tracker records the instant it was created and reports elapsed whole seconds.
type Tracker struct {
	start time.Time
	now   func() time.Time // injectable for deterministic tests
}

// New creates a Tracker started at the current time.
func New() *Tracker {
	return NewWithClock(time.Now)
}

// NewWithClock creates a Tracker that reads time from now. The start instant
// is taken from now once, at construction.
func NewWithClock(now func() time.Time) *Tracker {
	return &Tracker{start: now(), now: now}
}

// Start returns the instant the tracker was created.
func (t *Tracker) Start() time.Time {
	return t.start
}

// Seconds returns the elapsed time since start, floored to whole seconds.
// A clock that reads earlier than start yields 0.
func (t *Tracker) Seconds() int64 {
	d := t.now().Sub(t.start)
	if d < 0 {
		return 0
	}
	return int64(d / time.Second)
}
