// Package timer provides the in-memory study and break countdowns. Nothing
// here is persisted; a restart starts from idle.
package timer

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidTransition = errors.New("invalid timer transition")
	ErrNegativeDuration  = errors.New("countdown duration must not be negative")
	ErrNoTaskSelected    = errors.New("no task selected")
	ErrDurationTooLong   = errors.New("countdown duration too long")
)

// State is the lifecycle position of a countdown.
type State int

const (
	Idle State = iota
	Running
	Paused
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// MaxMinutes is the longest countdown, in minutes, that a task or break may ask for.
const MaxMinutes = 60 * 24 * 365

// Minutes converts a minute count into a countdown duration.
func Minutes(n int) (time.Duration, error) {
	switch {
	case n < 0:
		return 0, ErrNegativeDuration
	case n > MaxMinutes:
		return 0, ErrDurationTooLong
	}
	return time.Duration(n) * time.Minute, nil
}

// Countdown counts a duration down to zero. Remaining time is recomputed from
// a wall-clock deadline on every tick, so late or dropped ticks never skew it.
type Countdown struct {
	state     State
	total     time.Duration
	remaining time.Duration
	deadline  time.Time
}

func (c *Countdown) State() State { return c.state }

// Total is the duration the countdown was last started with.
func (c *Countdown) Total() time.Duration { return c.total }

// Remaining is the time left as of the last Start, Pause or Tick.
func (c *Countdown) Remaining() time.Duration { return c.remaining }

// Start (re)starts the countdown from d. A zero duration finishes immediately.
func (c *Countdown) Start(d time.Duration, now time.Time) error {
	if d < 0 {
		return ErrNegativeDuration
	}
	c.total = d
	c.run(d, now)
	return nil
}

func (c *Countdown) run(d time.Duration, now time.Time) {
	c.remaining = d
	c.deadline = now.Add(d)
	c.state = Running
	if d == 0 {
		c.state = Finished
	}
}

// Pause freezes the remaining time. Only a running countdown can pause.
func (c *Countdown) Pause(now time.Time) error {
	if c.state != Running {
		return fmt.Errorf("pause from %s: %w", c.state, ErrInvalidTransition)
	}
	c.remaining = c.left(now)
	c.state = Paused
	return nil
}

// Resume continues a paused countdown with exactly the time it had left.
func (c *Countdown) Resume(now time.Time) error {
	if c.state != Paused {
		return fmt.Errorf("resume from %s: %w", c.state, ErrInvalidTransition)
	}
	c.run(c.remaining, now)
	return nil
}

// Tick advances a running countdown to now and reports whether it finished on
// this tick. Ticks in any other state are ignored.
func (c *Countdown) Tick(now time.Time) bool {
	if c.state != Running {
		return false
	}
	c.remaining = c.left(now)
	if c.remaining == 0 {
		c.state = Finished
		return true
	}
	return false
}

// Cancel returns the countdown to idle from any state.
func (c *Countdown) Cancel() {
	*c = Countdown{}
}

func (c *Countdown) left(now time.Time) time.Duration {
	d := c.deadline.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Format renders d as zero-padded HH:MM:SS. Hours are not wrapped.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	h := ms / 3_600_000
	m := ms / 60_000 % 60
	s := ms / 1000 % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
