package shapeme

import (
	"bytes"
	"image/color"
	"slices"
	"testing"
)

func TestRender_Deterministic(t *testing.T) {
	m := NewMutator(32, 24, 1, 64)
	rng := newRand(1)
	for i := 0; i < 20; i++ {
		c := m.RandomCandidate(rng, 1+rng.Intn(20))
		a := Render(c, 32, 24)
		b := Render(c, 32, 24)
		if !bytes.Equal(a.Pix, b.Pix) {
			t.Fatalf("candidate %d rendered differently on two calls", i)
		}
	}
}

func TestRender_Background(t *testing.T) {
	bg := color.NRGBA{R: 12, G: 34, B: 56, A: 255}
	img := NewRenderer(bg).Render(nil, 3, 2)
	want := solidImage(3, 2, bg)
	if !bytes.Equal(img.Pix, want.Pix) {
		t.Errorf("empty candidate: got %v, want %v", img.Pix, want.Pix)
	}
}

func TestRender_Coverage(t *testing.T) {
	red := Color{R: 200, G: 10, B: 20, A: 1}
	half := Color{R: 255, G: 255, B: 255, A: 0.5}

	tests := []struct {
		name string
		c    Candidate
		// want maps every pixel index to the expected red channel value
		want []uint8
	}{
		{
			name: "opaque triangle covering the canvas",
			c:    Candidate{tri(0, 0, 8, 0, 0, 8, red)},
			want: []uint8{200, 200, 200, 200},
		},
		{
			name: "outside the canvas",
			c:    Candidate{tri(10, 10, 20, 10, 10, 20, red)},
			want: []uint8{0, 0, 0, 0},
		},
		{
			name: "degenerate",
			c:    Candidate{tri(0, 0, 1, 1, 2, 2, red)},
			want: []uint8{0, 0, 0, 0},
		},
		{
			name: "half transparent white over black",
			c:    Candidate{tri(-1, -1, 9, -1, -1, 9, half)},
			want: []uint8{128, 128, 128, 128},
		},
		{
			name: "paint order",
			c: Candidate{
				tri(0, 0, 8, 0, 0, 8, Color{R: 255, A: 1}),
				tri(0, 0, 8, 0, 0, 8, Color{R: 0, A: 0.5}),
			},
			want: []uint8{128, 128, 128, 128},
		},
		{
			name: "only the top left pixel center",
			c:    Candidate{tri(0, 0, 1, 0, 0, 1.5, red)},
			want: []uint8{200, 0, 0, 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := Render(tt.c, 2, 2)
			for i, want := range tt.want {
				if got := img.Pix[i*4]; got != want {
					t.Errorf("pixel %d: got red %d, want %d", i, got, want)
				}
				if img.Pix[i*4+3] != 255 {
					t.Errorf("pixel %d: alpha channel %d, want 255", i, img.Pix[i*4+3])
				}
			}
		})
	}
}

func TestRender_SharedEdgeCoveredOnce(t *testing.T) {
	half := Color{R: 255, G: 255, B: 255, A: 0.5}
	windings := []Candidate{
		{tri(0, 0, 4, 0, 4, 4, half), tri(0, 0, 4, 4, 0, 4, half)},
		{tri(0, 0, 4, 4, 4, 0, half), tri(0, 0, 0, 4, 4, 4, half)},
		{tri(4, 0, 0, 4, 0, 0, half), tri(4, 0, 4, 4, 0, 4, half)},
	}
	for i, c := range windings {
		img := Render(c, 4, 4)
		for p := 0; p < 16; p++ {
			if got := img.Pix[p*4]; got != 128 {
				t.Errorf("split %d, pixel %d: got %d, want 128 (covered exactly once)", i, p, got)
			}
		}
	}
}

func TestRender_DoesNotModifyCandidate(t *testing.T) {
	c := NewMutator(10, 10, 1, 10).RandomCandidate(newRand(3), 5)
	orig := c.Clone()
	Render(c, 10, 10)
	if !slices.Equal(c, orig) {
		t.Error("render modified the candidate")
	}
}

func TestRenderInto_ReusesBuffer(t *testing.T) {
	r := NewRenderer(DefaultBackground)
	c := Candidate{tri(0, 0, 8, 0, 0, 8, Color{G: 90, A: 1})}
	buf := r.Render(c, 4, 4)
	r.RenderInto(buf, nil)
	if !bytes.Equal(buf.Pix, solidImage(4, 4, DefaultBackground).Pix) {
		t.Error("buffer was not cleared before painting")
	}
}
