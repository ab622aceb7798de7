package transform

import "image"

// 5x5 Gaussian expressed as the separable binomial kernel [1 4 6 4 1]/16,
// the standard fixed kernel for this size when no sigma is given.
var blurKernel = [5]int{1, 4, 6, 4, 1}

const blurKernelShift = 4 // per-pass normalization: sum of weights is 16

// gaussianBlur smooths src with the separable 5x5 kernel. Each pass rounds
// back to 8 bits; borders replicate the edge pixel.
func gaussianBlur(src *image.Gray) *image.Gray {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	clampX := func(x int) int {
		if x < 0 {
			return 0
		}
		if x >= w {
			return w - 1
		}
		return x
	}
	clampY := func(y int) int {
		if y < 0 {
			return 0
		}
		if y >= h {
			return h - 1
		}
		return y
	}

	// Horizontal pass.
	tmp := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		si := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		for x := 0; x < w; x++ {
			sum := 0
			for k := -2; k <= 2; k++ {
				sum += blurKernel[k+2] * int(src.Pix[si+clampX(x+k)])
			}
			tmp[y*w+x] = uint8((sum + 1<<(blurKernelShift-1)) >> blurKernelShift)
		}
	}

	// Vertical pass.
	dst := image.NewGray(bounds)
	for y := 0; y < h; y++ {
		di := dst.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		for x := 0; x < w; x++ {
			sum := 0
			for k := -2; k <= 2; k++ {
				sum += blurKernel[k+2] * int(tmp[clampY(y+k)*w+x])
			}
			dst.Pix[di+x] = uint8((sum + 1<<(blurKernelShift-1)) >> blurKernelShift)
		}
	}
	return dst
}
