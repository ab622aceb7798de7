// Package display renders the per-frame transform views to a live viewer and
// carries user interrupt requests back to the pipeline.
package display

import (
	"github.com/framemill/framemill/pkg/stats"
	"github.com/framemill/framemill/pkg/transform"
)

// Sink receives every view of each processed frame. Present blocks until the
// frame has been handed off; Interrupted is polled once per pipeline
// iteration. Close is idempotent and must be called on every exit path.
type Sink interface {
	Present(set *transform.Set, s stats.RunStats) error
	Interrupted() bool
	Close() error
}

// Nop is a Sink that discards all frames. Used for headless runs.
type Nop struct{}

func (Nop) Present(*transform.Set, stats.RunStats) error { return nil }

func (Nop) Interrupted() bool { return false }

func (Nop) Close() error { return nil }
