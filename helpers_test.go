package shapeme

import (
	"image"
	"image/color"
	"math/rand"
)

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, 255
	}
	return img
}

func gradientImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// tri builds an opaque triangle from three coordinate pairs.
func tri(x0, y0, x1, y1, x2, y2 float64, c Color) Triangle {
	return Triangle{
		Vertices: [3]Point{{x0, y0}, {x1, y1}, {x2, y2}},
		Color:    c,
	}
}
