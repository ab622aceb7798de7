package transform

import "image"

// equalizeHist stretches the global intensity histogram of src so the
// cumulative distribution becomes approximately linear. A constant image has
// nothing to stretch and is returned unchanged (as a fresh copy).
func equalizeHist(src *image.Gray) *image.Gray {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dst := image.NewGray(bounds)
	total := w * h

	var hist [256]int
	for y := 0; y < h; y++ {
		si := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		for x := 0; x < w; x++ {
			hist[src.Pix[si+x]]++
		}
	}

	first := 0
	for hist[first] == 0 {
		first++
	}
	if hist[first] == total {
		// Single-value image: equalization is a no-op.
		copyGray(dst, src)
		return dst
	}

	// Map the first occupied bin to 0 and scale the remaining cumulative
	// mass across the full range.
	scale := 255.0 / float64(total-hist[first])
	var lut [256]uint8
	sum := 0
	for i := first + 1; i < 256; i++ {
		sum += hist[i]
		lut[i] = clampRound(float64(sum) * scale)
	}

	for y := 0; y < h; y++ {
		si := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		di := dst.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		for x := 0; x < w; x++ {
			dst.Pix[di+x] = lut[src.Pix[si+x]]
		}
	}
	return dst
}

func copyGray(dst, src *image.Gray) {
	copy(dst.Pix, src.Pix)
}
