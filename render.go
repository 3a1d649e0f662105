package shapeme

import (
	"image"
	"image/color"
	"math"
)

// DefaultBackground is the opaque color the canvas is cleared to before painting.
var DefaultBackground = color.NRGBA{R: 0, G: 0, B: 0, A: 255}

// Renderer rasterizes candidates onto an RGBA pixel buffer.
//
// A pixel is covered by a triangle when its center lies inside the triangle.
// Centers falling exactly on an edge are resolved with the top-left rule, so
// two triangles sharing an edge never both paint (or both skip) a pixel.
type Renderer struct {
	Background color.NRGBA
}

// NewRenderer returns a renderer clearing the canvas to the given color.
// The background is always treated as opaque.
func NewRenderer(bg color.NRGBA) *Renderer {
	bg.A = 255
	return &Renderer{Background: bg}
}

// Render paints the candidate over the default background into a new buffer.
func Render(c Candidate, width, height int) *image.NRGBA {
	return NewRenderer(DefaultBackground).Render(c, width, height)
}

// Render paints the candidate into a newly allocated width x height buffer.
func (r *Renderer) Render(c Candidate, width, height int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	r.RenderInto(dst, c)
	return dst
}

// RenderInto clears dst to the background and paints the candidate over it.
// dst must have its origin at (0, 0).
func (r *Renderer) RenderInto(dst *image.NRGBA, c Candidate) {
	r.clear(dst)
	for _, t := range c {
		drawTriangle(dst, t)
	}
}

func (r *Renderer) clear(dst *image.NRGBA) {
	bg := r.Background
	pix := dst.Pix
	if len(pix) < 4 {
		return
	}
	pix[0], pix[1], pix[2], pix[3] = bg.R, bg.G, bg.B, 255
	// Doubling copy fills the buffer in log(n) steps.
	for filled := 4; filled < len(pix); filled *= 2 {
		copy(pix[filled:], pix[:filled])
	}
}

// edge is the implicit line equation of one triangle side,
// evaluated as e(x, y) = a*x + b*y + c.
type edge struct {
	a, b, c float64
	topLeft bool
}

func newEdge(p, q Point) edge {
	dx, dy := q.X-p.X, q.Y-p.Y
	return edge{
		a: -dy,
		b: dx,
		c: dy*p.X - dx*p.Y,
		// Vertices are wound clockwise on screen (y grows downwards):
		// a top edge runs exactly horizontal to the right,
		// a left edge runs upwards.
		topLeft: (dy == 0 && dx > 0) || dy < 0,
	}
}

func (e edge) covers(x, y float64) bool {
	v := e.a*x + e.b*y + e.c
	return v > 0 || (v == 0 && e.topLeft)
}

func drawTriangle(dst *image.NRGBA, t Triangle) {
	alpha := t.Color.A
	if alpha <= 0 {
		return
	}
	area := t.area2()
	if area == 0 || math.IsNaN(area) {
		return
	}
	v0, v1, v2 := t.Vertices[0], t.Vertices[1], t.Vertices[2]
	if area < 0 {
		v1, v2 = v2, v1
	}
	e0, e1, e2 := newEdge(v0, v1), newEdge(v1, v2), newEdge(v2, v0)

	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	minX, minY, maxX, maxY := t.bounds()
	x0 := int(math.Max(math.Ceil(minX-0.5), 0))
	y0 := int(math.Max(math.Ceil(minY-0.5), 0))
	x1 := int(math.Min(math.Floor(maxX-0.5), float64(w-1)))
	y1 := int(math.Min(math.Floor(maxY-0.5), float64(h-1)))
	if x0 > x1 || y0 > y1 {
		return
	}

	alpha = math.Min(alpha, 1)
	inv := 1 - alpha
	sr := float64(t.Color.R) * alpha
	sg := float64(t.Color.G) * alpha
	sb := float64(t.Color.B) * alpha

	for y := y0; y <= y1; y++ {
		cy := float64(y) + 0.5
		i := dst.PixOffset(x0, y)
		for x := x0; x <= x1; x, i = x+1, i+4 {
			cx := float64(x) + 0.5
			if !e0.covers(cx, cy) || !e1.covers(cx, cy) || !e2.covers(cx, cy) {
				continue
			}
			p := dst.Pix[i : i+3 : i+3]
			p[0] = uint8(sr + float64(p[0])*inv + 0.5)
			p[1] = uint8(sg + float64(p[1])*inv + 0.5)
			p[2] = uint8(sb + float64(p[2])*inv + 0.5)
		}
	}
}
