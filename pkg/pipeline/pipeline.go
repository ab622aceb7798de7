// Package pipeline sequences one video processing run: decode, transform,
// stats update, annotate, display, encode, interrupt poll — one frame at a
// time on a single control flow, with guaranteed resource release on every
// exit path.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/framemill/framemill/pkg/annotate"
	"github.com/framemill/framemill/pkg/display"
	"github.com/framemill/framemill/pkg/media"
	"github.com/framemill/framemill/pkg/stats"
	"github.com/framemill/framemill/pkg/transform"
)

// Options configures a run. Source and Output are required; everything else
// has a working default.
type Options struct {
	Source string
	Output string

	// Target resolution all views and the output video are produced at.
	// Defaults to transform.DefaultWidth x transform.DefaultHeight.
	TargetWidth  int
	TargetHeight int

	// OpenDecoder and OpenEncoder default to the vidio-backed media
	// implementations; tests substitute fakes.
	OpenDecoder func(path string) (media.Decoder, error)
	OpenEncoder func(path string, width, height int, fps float64) (media.Encoder, error)

	// Sink defaults to display.Nop.
	Sink display.Sink

	// Log receives the run telemetry. Defaults to a discard logger.
	Log logrus.FieldLogger
}

func (o *Options) applyDefaults() error {
	if o.Source == "" {
		return errors.New("pipeline: source path is required")
	}
	if o.Output == "" {
		return errors.New("pipeline: output path is required")
	}
	if o.TargetWidth == 0 && o.TargetHeight == 0 {
		o.TargetWidth, o.TargetHeight = transform.DefaultWidth, transform.DefaultHeight
	}
	if o.TargetWidth <= 0 || o.TargetHeight <= 0 {
		return fmt.Errorf("pipeline: invalid target size %dx%d", o.TargetWidth, o.TargetHeight)
	}
	if o.OpenDecoder == nil {
		o.OpenDecoder = media.OpenDecoder
	}
	if o.OpenEncoder == nil {
		o.OpenEncoder = media.OpenEncoder
	}
	if o.Sink == nil {
		o.Sink = display.Nop{}
	}
	if o.Log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		o.Log = discard
	}
	return nil
}

// Result summarizes a finished run. State is the terminal state the loop
// reached, not the final Closed state.
type Result struct {
	State           State
	Meta            media.Meta
	FramesProcessed int
	Stats           stats.RunStats
	Output          string
}

// Orchestrator owns the main loop and the lifecycle of the decoder, encoder,
// and display sink. One Orchestrator performs exactly one run.
type Orchestrator struct {
	opts    Options
	pipe    *transform.Pipeline
	ann     *annotate.Annotator
	tracker *stats.Tracker
	log     logrus.FieldLogger

	state    State
	terminal State

	closeMu  sync.Mutex
	closed   bool
	closers  []namedCloser
	closeErr error
}

type namedCloser struct {
	name string
	fn   func() error
}

// New validates opts and prepares an Orchestrator in the Idle state.
func New(opts Options) (*Orchestrator, error) {
	if err := opts.applyDefaults(); err != nil {
		return nil, err
	}
	ann, err := annotate.New()
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	return &Orchestrator{
		opts:    opts,
		pipe:    transform.New(opts.TargetWidth, opts.TargetHeight),
		ann:     ann,
		tracker: stats.NewTracker(),
		log:     opts.Log,
		state:   StateIdle,
	}, nil
}

// State returns the orchestrator's current lifecycle state.
func (o *Orchestrator) State() State {
	return o.state
}

// Run executes the full lifecycle and blocks until a terminal state is
// reached. Resources are released before Run returns, on every path. The
// returned Result is valid even when err is non-nil.
func (o *Orchestrator) Run(ctx context.Context) (res Result, err error) {
	res.Output = o.opts.Output
	o.addCloser("display", o.opts.Sink.Close)
	defer func() {
		if closeErr := o.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		res.State = o.terminal
	}()

	// Idle -> Opened: validate the source before touching the encoder.
	if _, statErr := os.Stat(o.opts.Source); statErr != nil {
		return res, o.fail(fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, o.opts.Source, statErr))
	}
	dec, decErr := o.opts.OpenDecoder(o.opts.Source)
	if decErr != nil {
		return res, o.fail(fmt.Errorf("%w: %v", ErrSourceUnavailable, decErr))
	}
	o.addCloser("decoder", dec.Close)

	meta := dec.Meta()
	res.Meta = meta
	o.log.WithFields(logrus.Fields{
		"source": o.opts.Source,
		"width":  meta.Width,
		"height": meta.Height,
		"fps":    meta.FPS,
		"frames": meta.TotalFrames,
	}).Info("video opened")

	enc, encErr := o.opts.OpenEncoder(o.opts.Output, o.opts.TargetWidth, o.opts.TargetHeight, meta.FPS)
	if encErr != nil {
		return res, o.fail(fmt.Errorf("%w: %v", ErrEncode, encErr))
	}
	o.addCloser("encoder", enc.Close)
	o.state = StateOpened

	// Opened -> Running: the per-frame loop.
	o.state = StateRunning
	o.tracker.Start()
	frameCount := 0

	for {
		frame, readErr := dec.ReadFrame()
		if errors.Is(readErr, io.EOF) {
			o.log.WithField("frames", frameCount).Info("end of stream")
			o.state = StateCompleted
			break
		}
		if readErr != nil {
			err = o.fail(fmt.Errorf("%w: frame %d: %v", ErrDecode, frameCount+1, readErr))
			break
		}
		frameCount++

		set, procErr := o.pipe.Process(frame)
		if procErr != nil {
			err = o.fail(fmt.Errorf("%w: frame %d: %v", ErrDecode, frameCount, procErr))
			break
		}

		snap := o.tracker.Update(frameCount)
		o.ann.Annotate(set.Original, frameCount, meta.TotalFrames, snap)

		if presentErr := o.opts.Sink.Present(set, snap); presentErr != nil {
			err = o.fail(fmt.Errorf("%w: frame %d: %v", ErrDisplay, frameCount, presentErr))
			break
		}
		if writeErr := enc.WriteFrame(set.Original); writeErr != nil {
			err = o.fail(fmt.Errorf("%w: frame %d: %v", ErrEncode, frameCount, writeErr))
			break
		}

		o.log.WithFields(logrus.Fields{
			"frame": frameCount,
			"fps":   snap.FPS,
		}).Info("processed frame")

		if o.opts.Sink.Interrupted() {
			o.log.WithField("frame", frameCount).Info("user interrupted processing")
			o.state = StateInterrupted
			break
		}
		select {
		case <-ctx.Done():
			o.log.WithField("frame", frameCount).Info("run canceled")
			o.state = StateInterrupted
		default:
		}
		if o.state == StateInterrupted {
			break
		}
	}

	res.FramesProcessed = frameCount
	res.Stats = o.tracker.Snapshot()
	return res, err
}

// Close releases every acquired resource exactly once and moves the
// orchestrator to Closed. Safe to call repeatedly and on every exit path.
func (o *Orchestrator) Close() error {
	o.closeMu.Lock()
	defer o.closeMu.Unlock()
	if o.closed {
		return o.closeErr
	}
	o.closed = true

	// Release in reverse acquisition order.
	var errs []error
	for i := len(o.closers) - 1; i >= 0; i-- {
		c := o.closers[i]
		if err := c.fn(); err != nil {
			o.log.WithError(err).WithField("resource", c.name).Warn("close failed")
			errs = append(errs, fmt.Errorf("close %s: %w", c.name, err))
		}
	}
	o.closers = nil

	if !o.state.Terminal() {
		// Closing before a terminal state counts the run as failed.
		o.state = StateFailed
	}
	o.terminal = o.state
	o.state = StateClosed
	o.closeErr = errors.Join(errs...)
	return o.closeErr
}

func (o *Orchestrator) addCloser(name string, fn func() error) {
	o.closeMu.Lock()
	defer o.closeMu.Unlock()
	o.closers = append(o.closers, namedCloser{name: name, fn: fn})
}

func (o *Orchestrator) fail(err error) error {
	o.state = StateFailed
	o.log.WithError(err).Error("run failed")
	return err
}
