package shapeme

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"math/rand"
	"sort"

	"github.com/sourcegraph/conc/pool"
)

// Individual is a member of the genetic population with its cached score.
type Individual struct {
	Candidate Candidate
	Score     Fitness
}

// Genetic evolves a fixed size population of candidates holding the same
// number of triangles. It is not safe for concurrent use, although it
// evaluates the individuals of a generation concurrently.
type Genetic struct {
	opts GeneticOptions
	eval *Evaluator
	mut  *Mutator
	rng  *rand.Rand

	pop        []Individual
	generation int
	best       Individual
}

// NewGenetic validates opts, creates a random population and scores it.
func NewGenetic(target *image.NRGBA, opts GeneticOptions) (*Genetic, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	target, err := checkTarget(target)
	if err != nil {
		return nil, err
	}
	g := &Genetic{
		opts: opts,
		eval: opts.evaluator(target),
		// The triangle count of every individual stays fixed, which rules out
		// the insertion and removal mutations.
		mut: opts.mutator(target, opts.Triangles, opts.Triangles),
		rng: opts.rng(),
	}

	cands := make([]Candidate, opts.Population)
	for i := range cands {
		cands[i] = g.mut.RandomCandidate(g.rng, opts.Triangles)
	}
	scores, err := g.evaluate(cands)
	if err != nil {
		return nil, err
	}
	g.pop = make([]Individual, len(cands))
	for i := range cands {
		g.pop[i] = Individual{Candidate: cands[i], Score: scores[i]}
	}
	sortPopulation(g.pop)
	g.best = g.pop[0].clone()
	return g, nil
}

func (ind Individual) clone() Individual {
	return Individual{Candidate: ind.Candidate.Clone(), Score: ind.Score}
}

// sortPopulation orders individuals by ascending score, keeping the
// previous order between equal scores.
func sortPopulation(pop []Individual) {
	sort.SliceStable(pop, func(i, j int) bool { return pop[i].Score < pop[j].Score })
}

// Generation returns the number of completed generations.
func (g *Genetic) Generation() int { return g.generation }

// Population returns a copy of the current population, best first.
func (g *Genetic) Population() []Individual {
	out := make([]Individual, len(g.pop))
	for i, ind := range g.pop {
		out[i] = ind.clone()
	}
	return out
}

// Best returns the best individual of the current population.
func (g *Genetic) Best() Individual { return g.pop[0].clone() }

// BestEver returns the best individual seen since initialization.
func (g *Genetic) BestEver() Individual { return g.best.clone() }

// Step produces the next generation: elites are copied forward with their
// cached scores, the remaining slots are filled by tournament selection,
// crossover and mutation, and the offspring are scored concurrently.
func (g *Genetic) Step() error {
	size := g.opts.Population
	next := make([]Individual, 0, size)
	for i := 0; i < g.opts.Elitism; i++ {
		next = append(next, g.pop[i].clone())
	}

	offspring := make([]Candidate, 0, size-len(next))
	for len(next)+len(offspring) < size {
		a := g.tournament()
		b := g.tournament()
		child, err := Crossover(g.pop[a].Candidate, g.pop[b].Candidate, g.rng)
		if err != nil {
			return err
		}
		offspring = append(offspring, g.mutate(child))
	}

	scores, err := g.evaluate(offspring)
	if err != nil {
		return err
	}
	for i, c := range offspring {
		next = append(next, Individual{Candidate: c, Score: scores[i]})
	}
	sortPopulation(next)

	g.pop = next
	g.generation++
	if g.pop[0].Score < g.best.Score {
		g.best = g.pop[0].clone()
	}
	return nil
}

// tournament samples Tournament individuals with replacement and returns the
// index of the lowest score. The earliest sample wins ties.
func (g *Genetic) tournament() int {
	best := g.rng.Intn(len(g.pop))
	for i := 1; i < g.opts.Tournament; i++ {
		j := g.rng.Intn(len(g.pop))
		if g.pop[j].Score < g.pop[best].Score {
			best = j
		}
	}
	return best
}

func (g *Genetic) mutate(c Candidate) Candidate {
	for range c {
		if g.rng.Float64() < g.opts.MutationRate {
			c = g.mut.Mutate(c, g.rng, g.opts.MutationStrength)
		}
	}
	return c
}

// evaluate renders and scores every candidate. Each task owns its buffer
// and result slot; Wait is the barrier closing the generation.
func (g *Genetic) evaluate(cands []Candidate) ([]Fitness, error) {
	scores := make([]Fitness, len(cands))
	p := pool.New().WithErrors().WithMaxGoroutines(g.opts.workers())
	for i, c := range cands {
		i, c := i, c
		p.Go(func() error {
			s, err := g.eval.Evaluate(c, g.eval.NewBuffer())
			if err != nil {
				return err
			}
			scores[i] = s
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}

// Run evolves the population until the generation budget is spent or ctx is
// done. The best rendering is handed to sink every FrameInterval generations;
// sink may be nil.
func (g *Genetic) Run(ctx context.Context, sink FrameSink) error {
	log := Logger()
	log.Info("evolution started",
		slog.Int("generations", g.opts.Generations),
		slog.Int("population", g.opts.Population),
		slog.Int("triangles", g.opts.Triangles),
		slog.Float64("score", float64(g.best.Score)),
	)
	defer func() {
		log.Info("evolution finished",
			slog.Int("generation", g.generation),
			slog.Float64("best", float64(g.best.Score)),
		)
	}()

	w, h := g.eval.Target.Rect.Dx(), g.eval.Target.Rect.Dy()
	for g.generation < g.opts.Generations {
		if err := ctx.Err(); err != nil {
			return err
		}
		gen := g.generation
		if err := g.Step(); err != nil {
			return err
		}
		if g.opts.Progress != nil && g.opts.LogInterval > 0 && gen%g.opts.LogInterval == 0 {
			g.opts.Progress(Progress{
				Step:      gen,
				Current:   g.pop[0].Score,
				Best:      g.best.Score,
				Worst:     g.pop[len(g.pop)-1].Score,
				Triangles: g.opts.Triangles,
			})
		}
		if sink != nil && g.opts.FrameInterval > 0 && gen%g.opts.FrameInterval == 0 {
			img := g.eval.Renderer.Render(g.best.Candidate, w, h)
			if err := sink.WriteFrame(gen/g.opts.FrameInterval, img); err != nil {
				return fmt.Errorf("writing frame at generation %d: %w", gen, err)
			}
		}
	}
	return nil
}
