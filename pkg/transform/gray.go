package transform

import "image"

// Luma weights (0.299, 0.587, 0.114) in 14-bit fixed point.
const (
	lumaR     = 4899
	lumaG     = 9617
	lumaB     = 1868
	lumaShift = 14
)

// grayscale reduces an RGBA frame to single-channel intensity using the
// standard luma weighting. A frame whose source was already single-channel
// carries R==G==B, so the reduction degrades to a pass-through of that channel.
func grayscale(src *image.RGBA) *image.Gray {
	bounds := src.Bounds()
	dst := image.NewGray(bounds)

	w, h := bounds.Dx(), bounds.Dy()
	for y := 0; y < h; y++ {
		si := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		di := dst.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		for x := 0; x < w; x++ {
			r := int(src.Pix[si])
			g := int(src.Pix[si+1])
			b := int(src.Pix[si+2])
			dst.Pix[di] = uint8((lumaR*r + lumaG*g + lumaB*b + 1<<(lumaShift-1)) >> lumaShift)
			si += 4
			di++
		}
	}
	return dst
}
