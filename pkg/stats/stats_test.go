package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestTrackerComputesFPS(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	tr := NewTrackerWithClock(clock.now)
	tr.Start()

	clock.advance(2 * time.Second)
	got := tr.Update(10)

	assert.Equal(t, 10, got.FramesProcessed)
	assert.InDelta(t, 2.0, got.ElapsedSeconds, 1e-9)
	assert.InDelta(t, 5.0, got.FPS, 1e-9)
	assert.Equal(t, got, tr.Snapshot())
}

func TestTrackerZeroElapsedYieldsZeroFPS(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	tr := NewTrackerWithClock(clock.now)
	tr.Start()

	got := tr.Update(3)
	assert.Equal(t, 3, got.FramesProcessed)
	assert.Zero(t, got.FPS)
}

func TestTrackerFrameCountIsMonotonic(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	tr := NewTrackerWithClock(clock.now)
	tr.Start()

	clock.advance(time.Second)
	last := 0
	for i := 1; i <= 5; i++ {
		got := tr.Update(i)
		assert.GreaterOrEqual(t, got.FramesProcessed, last)
		last = got.FramesProcessed
	}

	// A stale count must not roll the snapshot backwards.
	got := tr.Update(2)
	assert.Equal(t, 5, got.FramesProcessed)
}

func TestTrackerStartResets(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	tr := NewTrackerWithClock(clock.now)
	tr.Start()
	clock.advance(time.Second)
	tr.Update(30)

	tr.Start()
	assert.Zero(t, tr.Snapshot().FramesProcessed)
	assert.Zero(t, tr.Snapshot().FPS)
}
