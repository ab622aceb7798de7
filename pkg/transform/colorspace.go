package transform

import (
	"image"
	"math"
)

// The alternate color-space views follow the 8-bit conventions used by the
// common vision toolkits: hue is halved into 0..180 so it fits one byte, the
// remaining channels span the full 0..255 range. Channels are packed into the
// R, G, B bytes of an RGBA frame (H,S,V and H,L,S respectively) with opaque
// alpha, which is also how the views render in the live display.

// toHSV converts src to the hue-saturation-value representation.
func toHSV(src *image.RGBA) *image.RGBA {
	return convertPixels(src, func(r, g, b float64) (uint8, uint8, uint8) {
		v := math.Max(r, math.Max(g, b))
		mn := math.Min(r, math.Min(g, b))
		d := v - mn

		var s float64
		if v > 0 {
			s = 255 * d / v
		}
		return packHue(hueDegrees(r, g, b, v, d)), clampRound(s), uint8(v)
	})
}

// toHLS converts src to the hue-lightness-saturation representation.
func toHLS(src *image.RGBA) *image.RGBA {
	return convertPixels(src, func(r, g, b float64) (uint8, uint8, uint8) {
		mx := math.Max(r, math.Max(g, b))
		mn := math.Min(r, math.Min(g, b))
		d := mx - mn
		sum := mx + mn
		l := sum / 2

		var s float64
		if d > 0 {
			if l < 128 {
				s = 255 * d / sum
			} else {
				s = 255 * d / (510 - sum)
			}
		}
		return packHue(hueDegrees(r, g, b, mx, d)), clampRound(l), clampRound(s)
	})
}

// hueDegrees returns the shared hue angle in 0..360 for a pixel whose maximum
// channel is mx with chroma d. Zero chroma maps to hue 0.
func hueDegrees(r, g, b, mx, d float64) float64 {
	if d == 0 {
		return 0
	}
	var h float64
	switch mx {
	case r:
		h = 60 * (g - b) / d
	case g:
		h = 120 + 60*(b-r)/d
	default:
		h = 240 + 60*(r-g)/d
	}
	if h < 0 {
		h += 360
	}
	return h
}

// packHue halves the hue angle into the byte-sized 0..180 convention.
func packHue(deg float64) uint8 {
	h := int(math.Round(deg / 2))
	if h >= 180 {
		h = 0
	}
	return uint8(h)
}

func clampRound(v float64) uint8 {
	r := math.Round(v)
	if r < 0 {
		return 0
	}
	if r > 255 {
		return 255
	}
	return uint8(r)
}

func convertPixels(src *image.RGBA, conv func(r, g, b float64) (uint8, uint8, uint8)) *image.RGBA {
	bounds := src.Bounds()
	dst := image.NewRGBA(bounds)

	w, h := bounds.Dx(), bounds.Dy()
	for y := 0; y < h; y++ {
		i := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		for x := 0; x < w; x++ {
			c0, c1, c2 := conv(float64(src.Pix[i]), float64(src.Pix[i+1]), float64(src.Pix[i+2]))
			dst.Pix[i] = c0
			dst.Pix[i+1] = c1
			dst.Pix[i+2] = c2
			dst.Pix[i+3] = 0xFF
			i += 4
		}
	}
	return dst
}
