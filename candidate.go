package shapeme

import (
	"image/color"
	"math"
)

// Candidate is one full approximation of the target image.
// The slice order is the paint order: later triangles are blended over earlier ones.
type Candidate []Triangle

// Clone returns a deep copy of the candidate.
func (c Candidate) Clone() Candidate {
	if c == nil {
		return nil
	}
	dst := make(Candidate, len(c))
	copy(dst, c)
	return dst
}

// Shape is the renderer independent description of a triangle,
// used by exporters which draw the final candidate on their own.
type Shape struct {
	Points  [3][2]float64
	Fill    color.NRGBA
	Opacity float64
}

// Shapes returns the triangles of the candidate in paint order.
func (c Candidate) Shapes() []Shape {
	shapes := make([]Shape, 0, len(c))
	for _, t := range c {
		var s Shape
		for i, v := range t.Vertices {
			s.Points[i] = [2]float64{v.X, v.Y}
		}
		s.Fill = color.NRGBA{
			R: t.Color.R,
			G: t.Color.G,
			B: t.Color.B,
			A: uint8(math.Round(t.Color.A * 255)),
		}
		s.Opacity = t.Color.A
		shapes = append(shapes, s)
	}
	return shapes
}
