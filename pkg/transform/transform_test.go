package transform

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noisyFrame(w, h int, seed int64) *image.RGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = uint8(rng.Intn(256))
		img.Pix[i+1] = uint8(rng.Intn(256))
		img.Pix[i+2] = uint8(rng.Intn(256))
		img.Pix[i+3] = 0xFF
	}
	return img
}

func uniformGray(w, h int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func TestProcessProducesAllViewsAtTargetSize(t *testing.T) {
	p := NewDefault()
	set, err := p.Process(noisyFrame(64, 48, 1))
	require.NoError(t, err)

	views := set.Views()
	require.Len(t, views, len(ViewNames))
	want := image.Rect(0, 0, DefaultWidth, DefaultHeight)
	for i, v := range views {
		assert.Equal(t, ViewNames[i], v.Name)
		require.NotNil(t, v.Image, v.Name)
		assert.Equal(t, want, v.Image.Bounds(), v.Name)
	}
}

func TestProcessIsDeterministic(t *testing.T) {
	p := New(32, 24)
	src := noisyFrame(50, 40, 7)

	a, err := p.Process(src)
	require.NoError(t, err)
	b, err := p.Process(src)
	require.NoError(t, err)

	assert.Equal(t, a.Original.Pix, b.Original.Pix)
	assert.Equal(t, a.Gray.Pix, b.Gray.Pix)
	assert.Equal(t, a.HLS.Pix, b.HLS.Pix)
	assert.Equal(t, a.HSV.Pix, b.HSV.Pix)
	assert.Equal(t, a.Thresh.Pix, b.Thresh.Pix)
	assert.Equal(t, a.Laplacian.Pix, b.Laplacian.Pix)
	assert.Equal(t, a.Blur.Pix, b.Blur.Pix)
	assert.Equal(t, a.Equalized.Pix, b.Equalized.Pix)
}

func TestProcessRejectsEmptyFrame(t *testing.T) {
	p := NewDefault()

	_, err := p.Process(nil)
	assert.Error(t, err)

	_, err = p.Process(image.NewRGBA(image.Rectangle{}))
	assert.Error(t, err)
}

// A uniform black input must threshold to all-foreground (the saturated local
// mean equals the pixel value) and equalize to itself.
func TestProcessBlackFrame(t *testing.T) {
	p := New(16, 12)
	src := image.NewRGBA(image.Rect(0, 0, 16, 12))
	for i := 3; i < len(src.Pix); i += 4 {
		src.Pix[i] = 0xFF
	}

	set, err := p.Process(src)
	require.NoError(t, err)

	for i, px := range set.Thresh.Pix {
		require.EqualValues(t, 255, px, "thresh pixel %d", i)
	}
	for i, px := range set.Equalized.Pix {
		require.EqualValues(t, 0, px, "equalized pixel %d", i)
	}
}

func TestGrayscaleLumaWeights(t *testing.T) {
	cases := map[string]struct {
		in   color.RGBA
		want uint8
	}{
		"red":   {color.RGBA{255, 0, 0, 255}, 76},
		"green": {color.RGBA{0, 255, 0, 255}, 150},
		"blue":  {color.RGBA{0, 0, 255, 255}, 29},
		"white": {color.RGBA{255, 255, 255, 255}, 255},
		"black": {color.RGBA{0, 0, 0, 255}, 0},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			src := image.NewRGBA(image.Rect(0, 0, 2, 2))
			for y := 0; y < 2; y++ {
				for x := 0; x < 2; x++ {
					src.SetRGBA(x, y, c.in)
				}
			}
			got := grayscale(src)
			assert.Equal(t, c.want, got.Pix[0])
		})
	}
}

func TestColorSpaceKnownValues(t *testing.T) {
	cases := map[string]struct {
		in      color.RGBA
		wantHSV [3]uint8
		wantHLS [3]uint8
	}{
		"red":   {color.RGBA{255, 0, 0, 255}, [3]uint8{0, 255, 255}, [3]uint8{0, 128, 255}},
		"green": {color.RGBA{0, 255, 0, 255}, [3]uint8{60, 255, 255}, [3]uint8{60, 128, 255}},
		"blue":  {color.RGBA{0, 0, 255, 255}, [3]uint8{120, 255, 255}, [3]uint8{120, 128, 255}},
		"gray":  {color.RGBA{100, 100, 100, 255}, [3]uint8{0, 0, 100}, [3]uint8{0, 100, 0}},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			src := image.NewRGBA(image.Rect(0, 0, 1, 1))
			src.SetRGBA(0, 0, c.in)

			hsv := toHSV(src)
			assert.Equal(t, c.wantHSV, [3]uint8{hsv.Pix[0], hsv.Pix[1], hsv.Pix[2]}, "hsv")
			hls := toHLS(src)
			assert.Equal(t, c.wantHLS, [3]uint8{hls.Pix[0], hls.Pix[1], hls.Pix[2]}, "hls")
		})
	}
}

func TestAdaptiveThresholdDarkForeground(t *testing.T) {
	// A single dark pixel in a bright field is the only foreground pixel.
	src := uniformGray(21, 21, 200)
	src.SetGray(10, 10, color.Gray{Y: 0})

	got := adaptiveThreshold(src)
	for y := 0; y < 21; y++ {
		for x := 0; x < 21; x++ {
			want := uint8(0)
			if x == 10 && y == 10 {
				want = 255
			}
			assert.Equal(t, want, got.GrayAt(x, y).Y, "pixel (%d,%d)", x, y)
		}
	}
}

func TestLaplacian(t *testing.T) {
	t.Run("flat region has zero response", func(t *testing.T) {
		got := laplacian(uniformGray(12, 12, 93))
		for i, px := range got.Pix {
			require.EqualValues(t, 0, px, "pixel %d", i)
		}
	})

	t.Run("isolated bright pixel responds", func(t *testing.T) {
		src := uniformGray(9, 9, 0)
		src.SetGray(4, 4, color.Gray{Y: 100})
		got := laplacian(src)
		// Center: |4*0 - 4*100| clamped; neighbors: |100 - 0|.
		assert.EqualValues(t, 255, got.GrayAt(4, 4).Y)
		assert.EqualValues(t, 100, got.GrayAt(3, 4).Y)
		assert.EqualValues(t, 100, got.GrayAt(4, 5).Y)
		assert.EqualValues(t, 0, got.GrayAt(0, 0).Y)
	})
}

func TestGaussianBlurPreservesUniformRegions(t *testing.T) {
	got := gaussianBlur(uniformGray(15, 11, 77))
	for i, px := range got.Pix {
		require.EqualValues(t, 77, px, "pixel %d", i)
	}
}

func TestEqualizeHist(t *testing.T) {
	t.Run("constant image is a no-op", func(t *testing.T) {
		src := uniformGray(10, 10, 42)
		got := equalizeHist(src)
		assert.Equal(t, src.Pix, got.Pix)
	})

	t.Run("two-level image stretches to full range", func(t *testing.T) {
		src := uniformGray(10, 10, 100)
		for x := 0; x < 10; x++ {
			for y := 0; y < 5; y++ {
				src.SetGray(x, y, color.Gray{Y: 140})
			}
		}
		got := equalizeHist(src)
		assert.EqualValues(t, 0, got.GrayAt(0, 9).Y)
		assert.EqualValues(t, 255, got.GrayAt(0, 0).Y)
	})
}

// Frames whose content is already grayscale must pass through the luma
// reduction untouched: R==G==B pins the weighted sum to the channel value.
func TestGrayscalePassThroughForSingleChannelContent(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			v := uint8(x * 30)
			src.SetRGBA(x, y, color.RGBA{v, v, v, 255})
		}
	}
	got := grayscale(src)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			assert.Equal(t, uint8(x*30), got.GrayAt(x, y).Y)
		}
	}
}
