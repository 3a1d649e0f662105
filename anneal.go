package shapeme

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"math"
	"math/rand"
)

// Phase is the state of the annealing state machine.
type Phase int

const (
	PhaseInitializing Phase = iota
	PhaseIterating
	// PhaseGrowing is entered every AddInterval iterations to insert a
	// triangle and reheat before the regular iteration resumes.
	PhaseGrowing
	PhaseTerminated
)

func (p Phase) String() string {
	switch p {
	case PhaseInitializing:
		return "initializing"
	case PhaseIterating:
		return "iterating"
	case PhaseGrowing:
		return "growing"
	case PhaseTerminated:
		return "terminated"
	}
	return "unknown"
}

// minTemperature is the temperature below which worsening moves are never accepted.
const minTemperature = 1e-10

// Accept implements the Metropolis criterion. Non positive deltas are always
// accepted, otherwise the move is accepted when u, drawn uniformly from [0, 1),
// falls below exp(-delta/temperature).
func Accept(delta, temperature, u float64) bool {
	if delta <= 0 {
		return true
	}
	if temperature < minTemperature {
		return false
	}
	return u < math.Exp(-delta/temperature)
}

// AnnealState is a snapshot of the annealer.
type AnnealState struct {
	Candidate   Candidate
	Score       Fitness
	Temperature float64
	Iteration   int
	// Added counts the triangles inserted by the growing phase.
	Added int
	Phase Phase
}

// Annealer approximates the target with a single, growing candidate
// using simulated annealing. It is not safe for concurrent use.
type Annealer struct {
	opts AnnealOptions
	eval *Evaluator
	mut  *Mutator
	rng  *rand.Rand
	buf  *image.NRGBA

	state     AnnealState
	best      Candidate
	bestScore Fitness
}

// NewAnnealer validates opts and initializes the annealer with a single
// random triangle, or with opts.Initial when provided.
func NewAnnealer(target *image.NRGBA, opts AnnealOptions) (*Annealer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	target, err := checkTarget(target)
	if err != nil {
		return nil, err
	}
	a := &Annealer{
		opts: opts,
		eval: opts.evaluator(target),
		mut:  opts.mutator(target, 1, opts.MaxTriangles),
		rng:  opts.rng(),
	}
	a.buf = a.eval.NewBuffer()
	a.state.Phase = PhaseInitializing

	var c Candidate
	if opts.Initial != nil {
		c = opts.Initial.Clone()
	} else {
		c = Candidate{a.mut.RandomTriangle(a.rng)}
	}
	s, err := a.eval.Evaluate(c, a.buf)
	if err != nil {
		return nil, err
	}
	a.state.Candidate = c
	a.state.Score = s
	a.state.Temperature = opts.Temperature
	a.best, a.bestScore = c.Clone(), s
	a.state.Phase = PhaseIterating
	return a, nil
}

// State returns a copy of the current state.
func (a *Annealer) State() AnnealState {
	s := a.state
	s.Candidate = s.Candidate.Clone()
	return s
}

// Best returns the best candidate accepted so far and its score.
func (a *Annealer) Best() (Candidate, Fitness) {
	return a.best.Clone(), a.bestScore
}

// Step runs one iteration: cooling, the growing phase when it is due,
// one mutation and the Metropolis test.
func (a *Annealer) Step() error {
	if a.state.Phase == PhaseTerminated {
		return nil
	}
	a.state.Temperature *= a.opts.CoolingRate

	if a.growDue() {
		a.state.Phase = PhaseGrowing
		if err := a.grow(); err != nil {
			return err
		}
		a.state.Phase = PhaseIterating
	}

	next := a.mut.Mutate(a.state.Candidate, a.rng, a.strength())
	s, err := a.eval.Evaluate(next, a.buf)
	if err != nil {
		return err
	}
	if Accept(a.delta(s), a.state.Temperature, a.rng.Float64()) {
		a.state.Candidate, a.state.Score = next, s
		a.record()
	}
	a.state.Iteration++
	return nil
}

func (a *Annealer) growDue() bool {
	it := a.state.Iteration
	return a.opts.AddInterval > 0 && it > 0 && it%a.opts.AddInterval == 0 &&
		len(a.state.Candidate) < a.opts.MaxTriangles
}

// grow appends a random triangle regardless of its effect on the score and
// restores the temperature to at least the reheat value. The grown candidate
// is rescored so the next Metropolis test compares against it.
func (a *Annealer) grow() error {
	c := make(Candidate, len(a.state.Candidate), len(a.state.Candidate)+1)
	copy(c, a.state.Candidate)
	c = append(c, a.mut.RandomTriangle(a.rng))

	s, err := a.eval.Evaluate(c, a.buf)
	if err != nil {
		return err
	}
	a.state.Candidate, a.state.Score = c, s
	a.state.Added++
	a.state.Temperature = math.Max(a.state.Temperature, a.opts.ReheatTemperature)
	a.record()

	Logger().Debug("triangle added",
		slog.Int("iteration", a.state.Iteration),
		slog.Int("triangles", len(c)),
		slog.Float64("temperature", a.state.Temperature),
		slog.Float64("score", float64(s)),
	)
	return nil
}

func (a *Annealer) record() {
	if a.state.Score < a.bestScore {
		a.best, a.bestScore = a.state.Candidate.Clone(), a.state.Score
	}
}

// strength decays with the temperature, bounded below by MinStrength.
func (a *Annealer) strength() float64 {
	return math.Max(a.opts.MutationStrength*a.state.Temperature/a.opts.Temperature, a.opts.MinStrength)
}

func (a *Annealer) delta(s Fitness) float64 {
	d := float64(s - a.state.Score)
	if a.opts.AbsoluteDelta {
		return d
	}
	return d / (float64(a.state.Score) + 1)
}

// Run iterates until the iteration budget is spent or ctx is done.
// The best rendering is handed to sink every FrameInterval iterations;
// sink may be nil. A cancelled context stops the run between two iterations
// and its error is returned; the best candidate remains available.
func (a *Annealer) Run(ctx context.Context, sink FrameSink) error {
	log := Logger()
	log.Info("annealing started",
		slog.Int("iterations", a.opts.Iterations),
		slog.Int("max_triangles", a.opts.MaxTriangles),
		slog.Float64("score", float64(a.state.Score)),
	)
	defer func() {
		a.state.Phase = PhaseTerminated
		log.Info("annealing finished",
			slog.Int("iteration", a.state.Iteration),
			slog.Int("triangles", len(a.best)),
			slog.Float64("best", float64(a.bestScore)),
		)
	}()

	for a.state.Iteration < a.opts.Iterations {
		if err := ctx.Err(); err != nil {
			return err
		}
		it := a.state.Iteration
		if err := a.Step(); err != nil {
			return err
		}
		if a.opts.Progress != nil && a.opts.LogInterval > 0 && it%a.opts.LogInterval == 0 {
			a.opts.Progress(Progress{
				Step:        it,
				Current:     a.state.Score,
				Best:        a.bestScore,
				Temperature: a.state.Temperature,
				Triangles:   len(a.state.Candidate),
			})
		}
		if sink != nil && a.opts.FrameInterval > 0 && it%a.opts.FrameInterval == 0 {
			img := a.eval.Renderer.Render(a.best, a.buf.Rect.Dx(), a.buf.Rect.Dy())
			if err := sink.WriteFrame(it/a.opts.FrameInterval, img); err != nil {
				return fmt.Errorf("writing frame at iteration %d: %w", it, err)
			}
		}
	}
	return nil
}
