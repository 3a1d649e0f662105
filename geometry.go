package shapeme

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// Point is a vertex position in canvas coordinates.
type Point struct {
	X, Y float64
}

// Color holds the straight (non premultiplied) fill color of a triangle.
// A is the opacity in the [0, 1] range.
type Color struct {
	R, G, B uint8
	A       float64
}

// Triangle is a filled, semi-transparent triangle.
// It is a plain value: copying it never shares state with the original.
type Triangle struct {
	Vertices [3]Point
	Color    Color
}

func (c Color) String() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %.2f)", c.R, c.G, c.B, c.A)
}

func (t Triangle) String() string {
	v := t.Vertices
	return fmt.Sprintf("Triangle [(%.1f,%.1f),(%.1f,%.1f),(%.1f,%.1f)] %s",
		v[0].X, v[0].Y, v[1].X, v[1].Y, v[2].X, v[2].Y, t.Color)
}

// area2 returns twice the signed area of the triangle.
// The sign is positive when the vertices wind clockwise in image space (y down).
func (t Triangle) area2() float64 {
	a, b, c := t.Vertices[0], t.Vertices[1], t.Vertices[2]
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// bounds returns the axis aligned bounding box of the triangle.
func (t Triangle) bounds() (minX, minY, maxX, maxY float64) {
	v := t.Vertices
	minX = Min(v[0].X, v[1].X, v[2].X)
	maxX = Max(v[0].X, v[1].X, v[2].X)
	minY = Min(v[0].Y, v[1].Y, v[2].Y)
	maxY = Max(v[0].Y, v[1].Y, v[2].Y)
	return
}

// Min returns the smallest of the provided values.
func Min[T constraints.Ordered](values ...T) T {
	var acc T = values[0]

	for _, v := range values {
		if v < acc {
			acc = v
		}
	}
	return acc
}

// Max returns the biggest of the provided values.
func Max[T constraints.Ordered](values ...T) T {
	var acc T = values[0]

	for _, v := range values {
		if v > acc {
			acc = v
		}
	}
	return acc
}

// clamp restricts v to the [lo, hi] interval.
func clamp[T constraints.Integer | constraints.Float](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampChannel converts an integer channel value to uint8, saturating at the range ends.
func clampChannel(v int) uint8 {
	return uint8(clamp(v, 0, math.MaxUint8))
}
