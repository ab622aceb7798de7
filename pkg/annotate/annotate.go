// Package annotate burns textual run statistics onto a frame in place.
package annotate

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/framemill/framemill/pkg/stats"
)

// Fixed overlay geometry: both lines share a left anchor, baselines at 50 and
// 100 pixels from the top. Text that exceeds the frame is clipped downstream.
const (
	anchorX       = 50.0
	frameLineY    = 50.0
	fpsLineY      = 100.0
	overlayPtSize = 24.0
)

var overlayColor = color.RGBA{R: 0, G: 255, B: 0, A: 255}

// Annotator draws the frame-progress and throughput overlays. One Annotator
// is reused for the whole run; the parsed font face is shared across calls.
type Annotator struct {
	face font.Face
}

// New parses the bundled Go Regular face at the fixed overlay size.
func New() (*Annotator, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse overlay font: %w", err)
	}
	return &Annotator{
		face: truetype.NewFace(f, &truetype.Options{Size: overlayPtSize}),
	}, nil
}

// Annotate mutates frame in place, drawing "Frame: i/n" and the current FPS
// formatted to two decimals. It returns the same frame for chaining. Only the
// frame passed in is touched.
func (a *Annotator) Annotate(frame *image.RGBA, frameIndex, totalFrames int, s stats.RunStats) *image.RGBA {
	dc := gg.NewContextForRGBA(frame)
	dc.SetFontFace(a.face)
	dc.SetColor(overlayColor)
	dc.DrawString(fmt.Sprintf("Frame: %d/%d", frameIndex, totalFrames), anchorX, frameLineY)
	dc.DrawString(fmt.Sprintf("FPS: %.2f", s.FPS), anchorX, fpsLineY)
	return frame
}
