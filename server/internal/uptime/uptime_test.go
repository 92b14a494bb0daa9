package uptime

import (
	"testing"
	"time"
)

// fakeClock is a settable clock for deterministic tests.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestSeconds_StartsAtZero(t *testing.T) {
	c := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	tr := NewWithClock(c.now)

	if s := tr.Seconds(); s != 0 {
		t.Errorf("Seconds: got %d, want 0", s)
	}
}

func TestSeconds_FloorsToWholeSeconds(t *testing.T) {
	c := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	tr := NewWithClock(c.now)

	c.advance(999 * time.Millisecond)
	if s := tr.Seconds(); s != 0 {
		t.Errorf("after 999ms: got %d, want 0", s)
	}
	c.advance(1 * time.Millisecond)
	if s := tr.Seconds(); s != 1 {
		t.Errorf("after 1s: got %d, want 1", s)
	}
	c.advance(90*time.Minute + 500*time.Millisecond)
	if s := tr.Seconds(); s != 5401 {
		t.Errorf("after 1h30m1.5s: got %d, want 5401", s)
	}
}

func TestSeconds_ClockBeforeStart(t *testing.T) {
	c := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	tr := NewWithClock(c.now)

	c.advance(-time.Hour)
	if s := tr.Seconds(); s != 0 {
		t.Errorf("Seconds: got %d, want 0", s)
	}
}

func TestSeconds_NonDecreasing(t *testing.T) {
	tr := New()
	prev := tr.Seconds()
	for i := 0; i < 1000; i++ {
		s := tr.Seconds()
		if s < prev {
			t.Fatalf("Seconds went backwards: %d after %d", s, prev)
		}
		prev = s
	}
}

func TestStart(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	tr := NewWithClock(func() time.Time { return base })
	if !tr.Start().Equal(base) {
		t.Errorf("Start: got %v, want %v", tr.Start(), base)
	}
}
