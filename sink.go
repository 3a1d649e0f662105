package shapeme

import "image"

// FrameSink receives the best rendering found so far every FrameInterval
// steps. index counts the emitted frames, starting at zero.
type FrameSink interface {
	WriteFrame(index int, img *image.NRGBA) error
}

// FrameSinkFunc adapts a function to the FrameSink interface.
type FrameSinkFunc func(index int, img *image.NRGBA) error

// WriteFrame calls f(index, img).
func (f FrameSinkFunc) WriteFrame(index int, img *image.NRGBA) error {
	return f(index, img)
}

// Progress is a snapshot of a running optimization.
type Progress struct {
	// Step is the iteration (annealing) or generation (genetic) index.
	Step    int
	Current Fitness
	Best    Fitness
	// Worst is the worst score of the population. Zero for annealing.
	Worst       Fitness
	Temperature float64
	Triangles   int
}

// ProgressFunc is invoked every LogInterval steps.
type ProgressFunc func(Progress)
