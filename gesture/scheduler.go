package gesture

import (
	"sync"
	"time"
)

// Timer is a pending deferred call.
type Timer interface {
	// Stop prevents the call from running. It reports false if the call
	// already ran or was already stopped.
	Stop() bool
}

// Scheduler runs a function after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealScheduler schedules on wall-clock time.
type RealScheduler struct{}

func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// VirtualClock is a Scheduler whose time only moves when Advance is called.
// Due callbacks run synchronously on the goroutine calling Advance, in deadline
// order, so tests and script replay are fully deterministic.
type VirtualClock struct {
	mu      sync.Mutex
	now     time.Duration
	seq     uint64
	pending []*virtualTimer
}

type virtualTimer struct {
	clock    *VirtualClock
	deadline time.Duration
	seq      uint64
	fn       func()
	done     bool
}

func NewVirtualClock() *VirtualClock {
	return &VirtualClock{}
}

// Now returns the virtual time elapsed since the clock was created.
func (c *VirtualClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Pending returns the number of scheduled calls that have not run or been stopped.
func (c *VirtualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

func (c *VirtualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	if d < 0 {
		d = 0
	}

	c.seq++
	t := &virtualTimer{
		clock:    c,
		deadline: c.now + d,
		seq:      c.seq,
		fn:       f,
	}
	c.pending = append(c.pending, t)
	return t
}

// Advance moves the clock forward by d, running every call that falls due,
// including calls scheduled by callbacks during the advance.
func (c *VirtualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		next := c.popDue(target)
		if next == nil {
			if c.now < target {
				c.now = target
			}
			c.mu.Unlock()
			return
		}
		c.now = next.deadline
		c.mu.Unlock()

		next.fn()
	}
}

// popDue removes and returns the earliest timer due at or before target.
// Must be called with mu held.
func (c *VirtualClock) popDue(target time.Duration) *virtualTimer {
	best := -1
	for i, t := range c.pending {
		if t.deadline > target {
			continue
		}
		if best < 0 || t.deadline < c.pending[best].deadline ||
			(t.deadline == c.pending[best].deadline && t.seq < c.pending[best].seq) {
			best = i
		}
	}
	if best < 0 {
		return nil
	}

	t := c.pending[best]
	c.pending = append(c.pending[:best], c.pending[best+1:]...)
	t.done = true
	return t
}

func (t *virtualTimer) Stop() bool {
	c := t.clock
	c.mu.Lock()
	defer c.mu.Unlock()

	if t.done {
		return false
	}
	t.done = true
	for i, p := range c.pending {
		if p == t {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			break
		}
	}
	return true
}
