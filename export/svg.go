package export

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"image/color"
	"io"
	"os"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/esimov/shapeme"
)

// SVG describes the vector export of a candidate.
type SVG struct {
	Title       string
	Description string
	Width       int
	Height      int
	Background  color.NRGBA
	Shapes      []shapeme.Shape
}

func hex(c color.NRGBA) string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

// Encode writes the document: a background rectangle followed by one
// polygon per shape, in paint order.
func (s *SVG) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)
	bg := hex(s.Background)

	fmt.Fprintf(bw, `<?xml version="1.0" standalone="no"?>`+"\n")
	fmt.Fprintf(bw, `<svg width="%d" height="%d" viewBox="0 0 %d %d" version="1.1" xmlns="http://www.w3.org/2000/svg">`+"\n",
		s.Width, s.Height, s.Width, s.Height)
	if err := writeElement(bw, "title", s.Title); err != nil {
		return err
	}
	if err := writeElement(bw, "desc", s.Description); err != nil {
		return err
	}
	fmt.Fprintf(bw, `<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`+"\n", s.Width, s.Height, bg)

	for _, sh := range s.Shapes {
		p := sh.Points
		fmt.Fprintf(bw, `<polygon points="%g,%g %g,%g %g,%g" fill="%s" fill-opacity="%.3f" stroke="none"/>`+"\n",
			p[0][0], p[0][1], p[1][0], p[1][1], p[2][0], p[2][1], hex(sh.Fill), sh.Opacity)
	}
	fmt.Fprintln(bw, "</svg>")
	return bw.Flush()
}

// writeElement writes a text element with its content escaped. Empty text
// writes nothing.
func writeElement(w *bufio.Writer, name, text string) error {
	if text == "" {
		return nil
	}
	fmt.Fprintf(w, "<%s>", name)
	if err := xml.EscapeText(w, []byte(text)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "</%s>\n", name)
	return err
}

// Save writes the document into the named file.
func (s *SVG) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := s.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
