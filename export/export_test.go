package export

import (
	"bytes"
	"encoding/xml"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/esimov/shapeme"
)

func testShapes() []shapeme.Shape {
	c := shapeme.Candidate{
		{Vertices: [3]shapeme.Point{{X: 0, Y: 0}, {X: 8, Y: 0}, {X: 0, Y: 8}}, Color: shapeme.Color{R: 255, G: 16, B: 0, A: 0.5}},
		{Vertices: [3]shapeme.Point{{X: 2, Y: 2}, {X: 6, Y: 2}, {X: 2, Y: 6}}, Color: shapeme.Color{R: 0, G: 0, B: 255, A: 1}},
	}
	return c.Shapes()
}

func TestSVG_Encode(t *testing.T) {
	svg := &SVG{
		Title:      "test",
		Width:      8,
		Height:     8,
		Background: color.NRGBA{A: 255},
		Shapes:     testShapes(),
	}
	var buf bytes.Buffer
	if err := svg.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if n := strings.Count(out, "<polygon"); n != 2 {
		t.Errorf("got %d polygons, want 2", n)
	}
	for _, want := range []string{
		`<rect x="0" y="0" width="8" height="8" fill="#000000"/>`,
		`points="0,0 8,0 0,8" fill="#ff1000" fill-opacity="0.500"`,
		`fill="#0000ff" fill-opacity="1.000"`,
		"<title>test</title>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "#ff1000") > strings.Index(out, "#0000ff") {
		t.Error("shapes are not written in paint order")
	}
}

func TestSVG_EncodeEscapesText(t *testing.T) {
	svg := &SVG{
		Title:       "mona & <lisa>",
		Description: `"quoted" & 'single'`,
		Width:       8,
		Height:      8,
		Shapes:      testShapes(),
	}
	var buf bytes.Buffer
	if err := svg.Encode(&buf); err != nil {
		t.Fatal(err)
	}

	dec := xml.NewDecoder(&buf)
	var (
		inTitle bool
		title   string
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("invalid document: %v", err)
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			inTitle = tok.Name.Local == "title"
		case xml.EndElement:
			inTitle = false
		case xml.CharData:
			if inTitle {
				title += string(tok)
			}
		}
	}
	if title != svg.Title {
		t.Errorf("title: got %q, want %q", title, svg.Title)
	}
}

func TestPNGFrames(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")
	sink, err := NewPNGFrames(dir)
	if err != nil {
		t.Fatal(err)
	}
	img := shapeme.Render(nil, 3, 2)
	for i := 0; i < 3; i++ {
		if err := sink.WriteFrame(i, img); err != nil {
			t.Fatal(err)
		}
	}
	f, err := os.Open(filepath.Join(dir, "frame_000002.png"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Bounds() != image.Rect(0, 0, 3, 2) {
		t.Errorf("decoded frame bounds %v", decoded.Bounds())
	}
}

func TestRaster_Scale(t *testing.T) {
	r := &Raster{
		Width:      8,
		Height:     6,
		Scale:      2.5,
		Background: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		Shapes:     testShapes(),
	}
	img := r.Draw()
	if img.Bounds().Dx() != 20 || img.Bounds().Dy() != 15 {
		t.Fatalf("got bounds %v, want 20x15", img.Bounds())
	}
	// Inside the opaque blue triangle.
	if rr, g, b, _ := img.At(7, 7).RGBA(); rr>>8 > 8 || g>>8 > 8 || b>>8 < 247 {
		t.Errorf("expected blue at (7, 7), got %d %d %d", rr>>8, g>>8, b>>8)
	}
	// Outside every triangle.
	if rr, g, b, _ := img.At(19, 14).RGBA(); rr>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("expected the background at (19, 14), got %d %d %d", rr>>8, g>>8, b>>8)
	}
}

func TestRaster_Encode(t *testing.T) {
	r := &Raster{Width: 8, Height: 6, Scale: 2, Background: color.NRGBA{A: 255}, Shapes: testShapes()}
	var buf bytes.Buffer
	if err := r.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 16, 12) {
		t.Errorf("got bounds %v, want 16x12", img.Bounds())
	}
	want := r.Draw()
	for _, p := range []image.Point{{X: 1, Y: 1}, {X: 5, Y: 5}, {X: 15, Y: 11}} {
		r1, g1, b1, _ := img.At(p.X, p.Y).RGBA()
		r2, g2, b2, _ := want.At(p.X, p.Y).RGBA()
		if r1>>8 != r2>>8 || g1>>8 != g2>>8 || b1>>8 != b2>>8 {
			t.Errorf("pixel %v differs from Draw: %d %d %d vs %d %d %d", p, r1>>8, g1>>8, b1>>8, r2>>8, g2>>8, b2>>8)
		}
	}
}

func TestHistory_Plot(t *testing.T) {
	h := &History{}
	for i := 0; i < 10; i++ {
		h.Record(shapeme.Progress{Step: i, Current: shapeme.Fitness(100 - i), Best: shapeme.Fitness(100 - 2*i)})
	}
	if h.Len() != 10 {
		t.Fatalf("got %d records, want 10", h.Len())
	}
	path := filepath.Join(t.TempDir(), "fitness.png")
	if err := h.Plot("Fitness", path); err != nil {
		t.Fatal(err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Errorf("plot not written: %v", err)
	}
}
