package transform

import "image"

// Adaptive threshold parameters: an 11x11 local mean window with a constant
// offset of 2, inverted polarity so dark regions become foreground.
const (
	threshBlockSize = 11
	threshOffset    = 2
	threshMaxValue  = 255
)

// adaptiveThreshold binarizes src against the mean of each pixel's local
// window. The per-pixel threshold saturates to the unsigned 8-bit range before
// the compare, so a uniform black frame thresholds to all-foreground. Windows
// are clipped at the frame borders and averaged over their actual area.
func adaptiveThreshold(src *image.Gray) *image.Gray {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dst := image.NewGray(bounds)

	// Summed-area table with one row/column of zero padding.
	integral := make([]int, (w+1)*(h+1))
	stride := w + 1
	for y := 0; y < h; y++ {
		rowSum := 0
		si := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		for x := 0; x < w; x++ {
			rowSum += int(src.Pix[si+x])
			integral[(y+1)*stride+x+1] = integral[y*stride+x+1] + rowSum
		}
	}

	radius := threshBlockSize / 2
	for y := 0; y < h; y++ {
		di := dst.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		y0 := max(0, y-radius)
		y1 := min(h-1, y+radius)
		for x := 0; x < w; x++ {
			x0 := max(0, x-radius)
			x1 := min(w-1, x+radius)

			sum := integral[(y1+1)*stride+x1+1] -
				integral[y0*stride+x1+1] -
				integral[(y1+1)*stride+x0] +
				integral[y0*stride+x0]
			area := (x1 - x0 + 1) * (y1 - y0 + 1)
			mean := (sum + area/2) / area

			t := mean - threshOffset
			if t < 0 {
				t = 0
			}
			if int(src.Pix[src.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)]) <= t {
				dst.Pix[di+x] = threshMaxValue
			} else {
				dst.Pix[di+x] = 0
			}
		}
	}
	return dst
}
