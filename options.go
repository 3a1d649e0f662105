package shapeme

import (
	"image"
	"image/color"
	"math/rand"
	"runtime"
)

const (
	// DefaultMinAlpha is the lowest opacity a triangle may take.
	DefaultMinAlpha = 0.01
	// DefaultMaxAlpha is the highest opacity a triangle may take.
	DefaultMaxAlpha = 1.0
)

// Common holds the options shared by both optimizers.
type Common struct {
	// Background is the opaque color every rendering starts from.
	Background color.NRGBA
	// Metric scores renderings against the target. Nil selects SumSquares.
	Metric Metric
	// Margin is how far vertices may drift outside the canvas.
	Margin   float64
	MinAlpha float64
	MaxAlpha float64
	Seed     int64
	// FrameInterval is the number of iterations (or generations) between two
	// frames handed to the sink. Zero disables frames.
	FrameInterval int
	// LogInterval is the number of iterations (or generations) between two
	// Progress calls. Zero disables progress reports.
	LogInterval int
	Progress    ProgressFunc
}

// AnnealOptions configures the simulated annealing optimizer.
type AnnealOptions struct {
	Common

	MaxTriangles int
	Iterations   int
	// Temperature is the initial temperature.
	Temperature float64
	// CoolingRate multiplies the temperature after every iteration.
	CoolingRate float64
	// AddInterval is the number of iterations between two triangle insertions.
	AddInterval int
	// ReheatTemperature is the temperature floor restored after an insertion.
	ReheatTemperature float64
	// MutationStrength is the strength used at the initial temperature.
	// It decays proportionally with the temperature down to MinStrength.
	MutationStrength float64
	MinStrength      float64
	// AbsoluteDelta disables the normalization of the score difference by the
	// current score before the Metropolis test.
	AbsoluteDelta bool
	// Initial, when set, replaces the random single triangle start.
	Initial Candidate
}

// GeneticOptions configures the genetic optimizer.
type GeneticOptions struct {
	Common

	Population  int
	Triangles   int
	Generations int
	Tournament  int
	Elitism     int
	// MutationRate is the probability, drawn once per triangle of an
	// offspring, of applying one mutation to that offspring.
	MutationRate     float64
	MutationStrength float64
	// Workers bounds the number of concurrent evaluations.
	// Zero uses GOMAXPROCS.
	Workers int
}

// DefaultCommon returns the shared defaults: black background, sum of
// squared differences and a frame every 200 steps.
func DefaultCommon() Common {
	return Common{
		Background:    DefaultBackground,
		Metric:        SumSquares,
		MinAlpha:      DefaultMinAlpha,
		MaxAlpha:      DefaultMaxAlpha,
		Seed:          42,
		FrameInterval: 200,
		LogInterval:   1000,
	}
}

// DefaultAnnealOptions returns a configuration suited to images of a few
// hundred pixels per side.
func DefaultAnnealOptions() AnnealOptions {
	return AnnealOptions{
		Common:            DefaultCommon(),
		MaxTriangles:      128,
		Iterations:        500_000,
		Temperature:       1,
		CoolingRate:       0.99995,
		AddInterval:       2000,
		ReheatTemperature: 0.01,
		MutationStrength:  0.1,
		MinStrength:       0.01,
	}
}

// DefaultGeneticOptions returns the default genetic configuration.
func DefaultGeneticOptions() GeneticOptions {
	c := DefaultCommon()
	c.FrameInterval = 100
	c.LogInterval = 100
	return GeneticOptions{
		Common:           c,
		Population:       50,
		Triangles:        50,
		Generations:      10_000,
		Tournament:       3,
		Elitism:          2,
		MutationRate:     0.05,
		MutationStrength: 0.05,
	}
}

func (c *Common) validate() error {
	switch {
	case c.Margin < 0:
		return invalid("Margin", "must not be negative, got %v", c.Margin)
	case c.MinAlpha < 0 || c.MinAlpha > 1:
		return invalid("MinAlpha", "must be within [0, 1], got %v", c.MinAlpha)
	case c.MaxAlpha <= 0 || c.MaxAlpha > 1:
		return invalid("MaxAlpha", "must be within (0, 1], got %v", c.MaxAlpha)
	case c.MinAlpha > c.MaxAlpha:
		return invalid("MinAlpha", "must not exceed MaxAlpha (%v > %v)", c.MinAlpha, c.MaxAlpha)
	case c.FrameInterval < 0:
		return invalid("FrameInterval", "must not be negative, got %d", c.FrameInterval)
	case c.LogInterval < 0:
		return invalid("LogInterval", "must not be negative, got %d", c.LogInterval)
	}
	return nil
}

// Validate reports the first option outside its accepted range.
func (o *AnnealOptions) Validate() error {
	if err := o.Common.validate(); err != nil {
		return err
	}
	switch {
	case o.MaxTriangles < 1:
		return invalid("MaxTriangles", "must be at least 1, got %d", o.MaxTriangles)
	case o.Iterations < 0:
		return invalid("Iterations", "must not be negative, got %d", o.Iterations)
	case !(o.Temperature > 0):
		return invalid("Temperature", "must be positive, got %v", o.Temperature)
	case !(o.CoolingRate > 0 && o.CoolingRate < 1):
		return invalid("CoolingRate", "must be within (0, 1), got %v", o.CoolingRate)
	case o.AddInterval < 0:
		return invalid("AddInterval", "must not be negative, got %d", o.AddInterval)
	case o.ReheatTemperature < 0:
		return invalid("ReheatTemperature", "must not be negative, got %v", o.ReheatTemperature)
	case o.MutationStrength < 0:
		return invalid("MutationStrength", "must not be negative, got %v", o.MutationStrength)
	case o.MinStrength < 0:
		return invalid("MinStrength", "must not be negative, got %v", o.MinStrength)
	case o.Initial != nil && (len(o.Initial) < 1 || len(o.Initial) > o.MaxTriangles):
		return invalid("Initial", "must hold between 1 and %d triangles, got %d", o.MaxTriangles, len(o.Initial))
	}
	return nil
}

// Validate reports the first option outside its accepted range.
func (o *GeneticOptions) Validate() error {
	if err := o.Common.validate(); err != nil {
		return err
	}
	switch {
	case o.Population <= 0:
		return invalid("Population", "must be positive, got %d", o.Population)
	case o.Triangles <= 0:
		return invalid("Triangles", "must be positive, got %d", o.Triangles)
	case o.Generations < 0:
		return invalid("Generations", "must not be negative, got %d", o.Generations)
	case o.Elitism < 0 || o.Elitism >= o.Population:
		return invalid("Elitism", "must be within [0, %d), got %d", o.Population, o.Elitism)
	case o.Tournament < 1 || o.Tournament > o.Population:
		return invalid("Tournament", "must be within [1, %d], got %d", o.Population, o.Tournament)
	case o.Tournament <= o.Elitism:
		return invalid("Tournament", "must exceed Elitism (%d <= %d)", o.Tournament, o.Elitism)
	case o.MutationRate < 0 || o.MutationRate > 1:
		return invalid("MutationRate", "must be within [0, 1], got %v", o.MutationRate)
	case o.MutationStrength < 0:
		return invalid("MutationStrength", "must not be negative, got %v", o.MutationStrength)
	case o.Workers < 0:
		return invalid("Workers", "must not be negative, got %d", o.Workers)
	}
	return nil
}

func (o *GeneticOptions) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (c *Common) evaluator(target *image.NRGBA) *Evaluator {
	return NewEvaluator(target, NewRenderer(c.Background), c.Metric)
}

func (c *Common) mutator(target *image.NRGBA, minTriangles, maxTriangles int) *Mutator {
	m := NewMutator(target.Rect.Dx(), target.Rect.Dy(), minTriangles, maxTriangles)
	m.Margin = c.Margin
	m.MinAlpha = c.MinAlpha
	m.MaxAlpha = c.MaxAlpha
	return m
}

func (c *Common) rng() *rand.Rand {
	return rand.New(rand.NewSource(c.Seed))
}

// checkTarget rejects empty targets and returns a copy with its origin at
// (0, 0) and a tightly packed stride when target is not laid out that way.
func checkTarget(target *image.NRGBA) (*image.NRGBA, error) {
	if target == nil || target.Rect.Empty() {
		return nil, invalid("Target", "must be a non empty image")
	}
	w, h := target.Rect.Dx(), target.Rect.Dy()
	if target.Rect.Min == (image.Point{}) && target.Stride == 4*w {
		return target, nil
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		si := target.PixOffset(target.Rect.Min.X, target.Rect.Min.Y+y)
		copy(dst.Pix[y*dst.Stride:(y+1)*dst.Stride], target.Pix[si:si+4*w])
	}
	return dst, nil
}
