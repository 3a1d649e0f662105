package export

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// PNGFrames writes every frame it receives as a numbered PNG file.
// It implements shapeme.FrameSink.
type PNGFrames struct {
	Dir string
	// Pattern formats the frame index into a file name.
	Pattern string
}

// NewPNGFrames creates dir if needed and returns a sink writing frame_000000.png,
// frame_000001.png and so on into it.
func NewPNGFrames(dir string) (*PNGFrames, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create frames directory: %w", err)
	}
	return &PNGFrames{Dir: dir, Pattern: "frame_%06d.png"}, nil
}

// Path returns the file the frame with the given index is written to.
func (f *PNGFrames) Path(index int) string {
	return filepath.Join(f.Dir, fmt.Sprintf(f.Pattern, index))
}

// WriteFrame encodes img as PNG into the file of the given index.
func (f *PNGFrames) WriteFrame(index int, img *image.NRGBA) error {
	return SavePNG(f.Path(index), img)
}

// SavePNG encodes img into the named file.
func SavePNG(path string, img image.Image) error {
	fq, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(fq, img); err != nil {
		fq.Close()
		return err
	}
	return fq.Close()
}
