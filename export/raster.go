package export

import (
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"

	"github.com/esimov/shapeme"
)

// Raster redraws shapes with an anti-aliasing vector rasterizer at an
// arbitrary scale, independently of the renderer used during optimization.
type Raster struct {
	Width      int
	Height     int
	Scale      float64
	Background color.NRGBA
	Shapes     []shapeme.Shape
}

// Draw returns the rendered image.
func (r *Raster) Draw() image.Image {
	scale := r.Scale
	if scale <= 0 {
		scale = 1
	}
	w := int(float64(r.Width)*scale + 0.5)
	h := int(float64(r.Height)*scale + 0.5)

	ctx := gg.NewContext(w, h)
	bg := r.Background
	bg.A = 255
	ctx.SetColor(bg)
	ctx.DrawRectangle(0, 0, float64(w), float64(h))
	ctx.Fill()

	ctx.Scale(scale, scale)
	for _, s := range r.Shapes {
		p0, p1, p2 := s.Points[0], s.Points[1], s.Points[2]

		ctx.MoveTo(p0[0], p0[1])
		ctx.LineTo(p1[0], p1[1])
		ctx.LineTo(p2[0], p2[1])
		ctx.ClosePath()
		ctx.SetFillStyle(gg.NewSolidPattern(s.Fill))
		ctx.Fill()
	}
	return ctx.Image()
}

// Encode writes the rendered image as PNG.
func (r *Raster) Encode(w io.Writer) error {
	return gg.NewContextForImage(r.Draw()).EncodePNG(w)
}

// Save writes the rendered image as PNG into the named file.
func (r *Raster) Save(path string) error {
	return gg.SavePNG(path, r.Draw())
}
