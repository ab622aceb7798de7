// Package transform implements the fixed per-frame transform battery. Every
// decoded frame is scaled to a single target resolution and fanned out into
// eight derived views, all computed in one pass with no shared state.
package transform

import (
	"errors"
	"image"

	"golang.org/x/image/draw"
)

// Default target resolution all views are computed at.
const (
	DefaultWidth  = 540
	DefaultHeight = 380
)

var errEmptyFrame = errors.New("transform: empty input frame")

// ViewNames lists the derived views in presentation order.
var ViewNames = []string{
	"original", "gray", "hls", "hsv", "thresh", "laplacian", "blur", "equalized",
}

// Set holds the eight views derived from one input frame. All views share the
// pipeline's target width and height; channel count varies per view.
type Set struct {
	Original  *image.RGBA
	Gray      *image.Gray
	HLS       *image.RGBA
	HSV       *image.RGBA
	Thresh    *image.Gray
	Laplacian *image.Gray
	Blur      *image.Gray
	Equalized *image.Gray
}

// View pairs a view name with its image.
type View struct {
	Name  string
	Image image.Image
}

// Views returns the named views in the same order as ViewNames.
func (s *Set) Views() []View {
	return []View{
		{"original", s.Original},
		{"gray", s.Gray},
		{"hls", s.HLS},
		{"hsv", s.HSV},
		{"thresh", s.Thresh},
		{"laplacian", s.Laplacian},
		{"blur", s.Blur},
		{"equalized", s.Equalized},
	}
}

// Pipeline computes a Set from an input frame. Process is deterministic and
// keeps no state across calls, so one Pipeline may be reused for a whole run.
type Pipeline struct {
	width  int
	height int
	scaler draw.Scaler
}

// New returns a Pipeline that computes all views at the given target size.
func New(width, height int) *Pipeline {
	if width <= 0 || height <= 0 {
		panic("transform: target size must be positive")
	}
	return &Pipeline{width: width, height: height, scaler: draw.CatmullRom}
}

// NewDefault returns a Pipeline at the default 540x380 target size.
func NewDefault() *Pipeline {
	return New(DefaultWidth, DefaultHeight)
}

// TargetBounds returns the rectangle every view is computed at.
func (p *Pipeline) TargetBounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// Process derives the full Set from src. The input is scaled first; all other
// views are computed from the scaled frame or its grayscale reduction. Every
// view is freshly allocated, so callers may mutate Set.Original freely.
func (p *Pipeline) Process(src image.Image) (*Set, error) {
	if src == nil || src.Bounds().Empty() {
		return nil, errEmptyFrame
	}

	original := p.resize(src)
	gray := grayscale(original)

	return &Set{
		Original:  original,
		Gray:      gray,
		HLS:       toHLS(original),
		HSV:       toHSV(original),
		Thresh:    adaptiveThreshold(gray),
		Laplacian: laplacian(gray),
		Blur:      gaussianBlur(gray),
		Equalized: equalizeHist(gray),
	}, nil
}

// resize scales src to the target size with Catmull-Rom interpolation, the
// bicubic-grade scaler from x/image.
func (p *Pipeline) resize(src image.Image) *image.RGBA {
	dst := image.NewRGBA(p.TargetBounds())
	p.scaler.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
