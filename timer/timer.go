// Package timer provides frame timing for update loops.
package timer

import "time"

// Timer tracks wall-clock time since its creation and since the previous
// frame. One Tick per frame drives both values.
type Timer struct {
	start time.Time
	last  time.Time

	now func() time.Time
}

// New returns a started timer.
func New() *Timer {
	t := &Timer{now: time.Now}
	n := t.now()
	t.start, t.last = n, n
	return t
}

// Tick marks a frame boundary. It returns the time elapsed since the timer
// started and since the previous Tick.
func (t *Timer) Tick() (age, delta time.Duration) {
	n := t.now()
	age = n.Sub(t.start)
	delta = n.Sub(t.last)
	t.last = n
	return age, delta
}

// Age returns the time elapsed since the timer started without affecting the
// per-frame delta.
func (t *Timer) Age() time.Duration {
	return t.now().Sub(t.start)
}
