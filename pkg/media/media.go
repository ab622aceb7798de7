// Package media defines the decode and encode boundaries of the pipeline and
// provides ffmpeg-backed implementations via vidio. Frames cross the boundary
// as tightly packed RGBA images at the source's native size.
package media

import (
	"fmt"
	"image"
)

// Meta describes an opened video source. It is read once at open time and
// immutable afterwards.
type Meta struct {
	Width       int
	Height      int
	FPS         float64
	TotalFrames int
}

// Validate reports whether the source advertised usable properties.
func (m Meta) Validate() error {
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("media: invalid frame size %dx%d", m.Width, m.Height)
	}
	if m.FPS <= 0 {
		return fmt.Errorf("media: invalid frame rate %v", m.FPS)
	}
	if m.TotalFrames < 0 {
		return fmt.Errorf("media: invalid frame count %d", m.TotalFrames)
	}
	return nil
}

// Decoder yields ordered frames from a video source. ReadFrame returns io.EOF
// once the stream is exhausted. Close is idempotent.
type Decoder interface {
	Meta() Meta
	ReadFrame() (*image.RGBA, error)
	Close() error
}

// Encoder accepts ordered frames for an output video sink and finalizes the
// container on Close. Close is idempotent.
type Encoder interface {
	WriteFrame(*image.RGBA) error
	Close() error
}
