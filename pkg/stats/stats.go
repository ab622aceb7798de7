// Package stats tracks per-run throughput: frames processed and wall-clock
// elapsed time since the run started, reduced to an instantaneous frames/sec.
package stats

import "time"

// RunStats is a point-in-time snapshot of one processing run.
type RunStats struct {
	FramesProcessed int
	ElapsedSeconds  float64
	FPS             float64
}

// Tracker computes RunStats snapshots against a reference start time. It is
// owned by a single control flow and is not safe for concurrent use.
type Tracker struct {
	now     func() time.Time
	start   time.Time
	current RunStats
}

// NewTracker returns a Tracker using the wall clock.
func NewTracker() *Tracker {
	return &Tracker{now: time.Now}
}

// NewTrackerWithClock returns a Tracker reading time from now; used in tests.
func NewTrackerWithClock(now func() time.Time) *Tracker {
	return &Tracker{now: now}
}

// Start records the reference time and resets the snapshot. Called once per
// run, before the first Update.
func (t *Tracker) Start() {
	t.start = t.now()
	t.current = RunStats{}
}

// Update recomputes the snapshot for the given cumulative frame count and
// returns it. The frame count never decreases within a run; a stale value is
// clamped to the last one seen. Zero elapsed time yields zero FPS rather than
// a division fault.
func (t *Tracker) Update(frameCount int) RunStats {
	if frameCount < t.current.FramesProcessed {
		frameCount = t.current.FramesProcessed
	}

	elapsed := t.now().Sub(t.start).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}

	fps := 0.0
	if elapsed > 0 {
		fps = float64(frameCount) / elapsed
	}

	t.current = RunStats{
		FramesProcessed: frameCount,
		ElapsedSeconds:  elapsed,
		FPS:             fps,
	}
	return t.current
}

// Snapshot returns the most recent stats without recomputing them.
func (t *Tracker) Snapshot() RunStats {
	return t.current
}
