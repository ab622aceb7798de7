package transform

import "image"

// laplacian applies the 4-neighbor second-derivative kernel
//
//	 0  1  0
//	 1 -4  1
//	 0  1  0
//
// at full integer precision, then folds the signed response back into 0..255
// via absolute value. Borders replicate the edge pixel.
func laplacian(src *image.Gray) *image.Gray {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dst := image.NewGray(bounds)

	at := func(x, y int) int {
		if x < 0 {
			x = 0
		} else if x >= w {
			x = w - 1
		}
		if y < 0 {
			y = 0
		} else if y >= h {
			y = h - 1
		}
		return int(src.Pix[src.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)])
	}

	for y := 0; y < h; y++ {
		di := dst.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		for x := 0; x < w; x++ {
			v := at(x-1, y) + at(x+1, y) + at(x, y-1) + at(x, y+1) - 4*at(x, y)
			if v < 0 {
				v = -v
			}
			if v > 255 {
				v = 255
			}
			dst.Pix[di+x] = uint8(v)
		}
	}
	return dst
}
