package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock steps a Timer through deterministic instants.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }
func (c *fakeClock) now() time.Time          { return c.t }

func newFakeTimer() (*Timer, *fakeClock) {
	c := &fakeClock{t: time.Unix(1000, 0)}
	t := &Timer{now: c.now}
	t.start, t.last = c.t, c.t
	return t, c
}

func TestTick(t *testing.T) {
	tm, clock := newFakeTimer()

	clock.advance(16 * time.Millisecond)
	age, delta := tm.Tick()
	assert.Equal(t, 16*time.Millisecond, age)
	assert.Equal(t, 16*time.Millisecond, delta)

	clock.advance(20 * time.Millisecond)
	age, delta = tm.Tick()
	assert.Equal(t, 36*time.Millisecond, age)
	assert.Equal(t, 20*time.Millisecond, delta)
}

func TestAgeDoesNotAffectDelta(t *testing.T) {
	tm, clock := newFakeTimer()

	clock.advance(10 * time.Millisecond)
	assert.Equal(t, 10*time.Millisecond, tm.Age())

	clock.advance(10 * time.Millisecond)
	_, delta := tm.Tick()
	assert.Equal(t, 20*time.Millisecond, delta, "Age must not reset the frame delta")
}

func TestNewStartsAtZero(t *testing.T) {
	tm := New()
	age, delta := tm.Tick()
	require.GreaterOrEqual(t, age, time.Duration(0))
	require.GreaterOrEqual(t, delta, time.Duration(0))
	assert.Less(t, age, time.Second)
}
