package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/esimov/shapeme"
	"github.com/esimov/shapeme/export"
	"github.com/esimov/shapeme/utils"
)

var (
	// Flags
	mode          = flag.String("mode", "anneal", "Optimizer: anneal or genetic")
	destination   = flag.String("o", "triangles.svg", "Output SVG path")
	outputPNG     = flag.String("png", "triangles.png", "Output PNG path")
	scale         = flag.Float64("scale", 1, "Scale factor of the output PNG")
	numShapes     = flag.Int("s", 0, "Maximum number of triangles (anneal) or triangles per individual (genetic)")
	generations   = flag.Int("g", 0, "Number of iterations (anneal) or generations (genetic)")
	coolingRate   = flag.Float64("c", 0.99995, "Cooling rate")
	temperature   = flag.Float64("t", 1, "Initial temperature")
	addInterval   = flag.Int("add", 2000, "Iterations between triangle insertions")
	reheat        = flag.Float64("reheat", 0.01, "Temperature restored after a triangle insertion")
	population    = flag.Int("p", 50, "Population size")
	tournament    = flag.Int("k", 3, "Tournament size")
	elitism       = flag.Int("e", 2, "Number of elite individuals preserved each generation")
	mutationRate  = flag.Float64("m", 0.05, "Mutation rate")
	strength      = flag.Float64("strength", 0, "Mutation strength (0 uses the optimizer default)")
	seed          = flag.Int64("seed", 42, "Random seed")
	framesDir     = flag.String("frames", "frames", "Directory for animation frames (empty to disable)")
	frameInterval = flag.Int("frame-interval", -1, "Steps between two frames (0 disables frames, -1 uses the default)")
	logInterval   = flag.Int("log-interval", -1, "Steps between two progress reports (-1 uses the default)")
	plotPath      = flag.String("plot", "", "Save a fitness chart to this path")
	maxSide       = flag.Int("max-side", 0, "Downscale the input so that its longest side fits (0 keeps the size)")
	background    = flag.String("bg", "#000000", "Background color")
	metric        = flag.String("metric", "sse", "Fitness metric: sse, euclid or lab")
	margin        = flag.Float64("margin", 0, "How far vertices may drift outside the canvas")
	workers       = flag.Int("workers", 0, "Concurrent evaluations (genetic, 0 uses all CPUs)")
	quiet         = flag.Bool("q", false, "Suppress progress output")
	verbose       = flag.Bool("v", false, "Log optimizer diagnostics")
)

// result is the outcome of either optimizer.
type result struct {
	best  shapeme.Candidate
	score shapeme.Fitness
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: shapeme [flags] input.png\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	if *verbose {
		shapeme.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	bg, err := colorful.Hex(*background)
	if err != nil {
		log.Fatalf("Invalid background color %q: %v", *background, err)
	}
	m, err := shapeme.MetricByName(*metric)
	if err != nil {
		log.Fatalf("%v", err)
	}

	src, err := utils.LoadImage(flag.Arg(0))
	if err != nil {
		log.Fatalf("Unable to open source: %v", err)
	}
	target := utils.Downscale(src, *maxSide)
	w, h := target.Bounds().Dx(), target.Bounds().Dy()

	common := shapeme.DefaultCommon()
	r, g, b := bg.RGB255()
	common.Background = color.NRGBA{R: r, G: g, B: b, A: 255}
	common.Metric = m
	common.Margin = *margin
	common.Seed = *seed

	var sink shapeme.FrameSink
	if *framesDir != "" && *frameInterval != 0 {
		frames, err := export.NewPNGFrames(*framesDir)
		if err != nil {
			log.Fatalf("%v", err)
		}
		sink = frames
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	history := &export.History{}
	report := newReporter(*quiet, *verbose)

	if !*quiet {
		fmt.Fprintf(os.Stderr, "Loaded image: %s\n", utils.Decorate(os.Stderr, utils.SuccessColor, fmt.Sprintf("%dx%d", w, h)))
	}

	start := time.Now()
	var res result
	switch *mode {
	case "anneal":
		res, err = anneal(ctx, target, common, sink, history, report)
	case "genetic":
		res, err = evolve(ctx, target, common, sink, history, report)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	report.done()
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "Interrupted, saving the best result so far")
	} else if err != nil {
		log.Fatalf("Error approximating image: %v", err)
	}

	if err := save(res, w, h, common.Background, history); err != nil {
		log.Fatalf("Unable to save result: %v", err)
	}
	if !*quiet {
		fmt.Fprintf(os.Stderr, "\nGenerated in: %s\n", utils.Decorate(os.Stderr, utils.SuccessColor, utils.FormatTime(time.Since(start))))
		fmt.Fprintf(os.Stderr, "Final best fitness: %s with %d triangles\n",
			utils.Decorate(os.Stderr, utils.SuccessColor, fmt.Sprintf("%.0f", float64(res.score))), len(res.best))
		fmt.Fprintf(os.Stderr, "Saved as: %s, %s %s\n", filepath.Base(*destination), filepath.Base(*outputPNG),
			utils.Decorate(os.Stderr, utils.SuccessColor, "✓"))
	}
}

func anneal(ctx context.Context, target *image.NRGBA, common shapeme.Common, sink shapeme.FrameSink,
	history *export.History, report *reporter) (result, error) {
	opts := shapeme.DefaultAnnealOptions()
	opts.Common = applyIntervals(common, opts.FrameInterval, opts.LogInterval)
	if *numShapes > 0 {
		opts.MaxTriangles = *numShapes
	}
	if *generations > 0 {
		opts.Iterations = *generations
	}
	opts.CoolingRate = *coolingRate
	opts.Temperature = *temperature
	opts.AddInterval = *addInterval
	opts.ReheatTemperature = *reheat
	if *strength > 0 {
		opts.MutationStrength = *strength
	}
	opts.Progress = func(p shapeme.Progress) {
		history.Record(p)
		report.line(fmt.Sprintf("Iteration %d/%d: current=%.0f, best=%.0f, temp=%.6f, triangles=%d",
			p.Step, opts.Iterations, float64(p.Current), float64(p.Best), p.Temperature, p.Triangles))
	}

	a, err := shapeme.NewAnnealer(target, opts)
	if err != nil {
		return result{}, err
	}
	err = a.Run(ctx, sink)
	best, score := a.Best()
	return result{best: best, score: score}, err
}

func evolve(ctx context.Context, target *image.NRGBA, common shapeme.Common, sink shapeme.FrameSink,
	history *export.History, report *reporter) (result, error) {
	opts := shapeme.DefaultGeneticOptions()
	opts.Common = applyIntervals(common, opts.FrameInterval, opts.LogInterval)
	if *numShapes > 0 {
		opts.Triangles = *numShapes
	}
	if *generations > 0 {
		opts.Generations = *generations
	}
	opts.Population = *population
	opts.Tournament = *tournament
	opts.Elitism = *elitism
	opts.MutationRate = *mutationRate
	if *strength > 0 {
		opts.MutationStrength = *strength
	}
	opts.Workers = *workers
	opts.Progress = func(p shapeme.Progress) {
		history.Record(p)
		report.line(fmt.Sprintf("Generation %d/%d: best_ever=%.0f, gen_best=%.0f, gen_worst=%.0f",
			p.Step, opts.Generations, float64(p.Best), float64(p.Current), float64(p.Worst)))
	}

	g, err := shapeme.NewGenetic(target, opts)
	if err != nil {
		return result{}, err
	}
	err = g.Run(ctx, sink)
	best := g.BestEver()
	return result{best: best.Candidate, score: best.Score}, err
}

func applyIntervals(c shapeme.Common, frames, logs int) shapeme.Common {
	c.FrameInterval = frames
	if *frameInterval >= 0 {
		c.FrameInterval = *frameInterval
	}
	c.LogInterval = logs
	if *logInterval >= 0 {
		c.LogInterval = *logInterval
	}
	return c
}

func save(res result, w, h int, bg color.NRGBA, history *export.History) error {
	shapes := res.best.Shapes()
	svg := &export.SVG{
		Title:       "shapeme",
		Description: fmt.Sprintf("%d triangles, fitness %.0f", len(shapes), float64(res.score)),
		Width:       w,
		Height:      h,
		Background:  bg,
		Shapes:      shapes,
	}
	if err := svg.Save(*destination); err != nil {
		return err
	}
	// At scale 1 the PNG is the exact buffer the optimizer scored.
	if *scale == 1 {
		if err := export.SavePNG(*outputPNG, shapeme.NewRenderer(bg).Render(res.best, w, h)); err != nil {
			return err
		}
	} else {
		raster := &export.Raster{Width: w, Height: h, Scale: *scale, Background: bg, Shapes: shapes}
		if err := raster.Save(*outputPNG); err != nil {
			return err
		}
	}
	if *plotPath != "" && history.Len() > 1 {
		return history.Plot("Fitness", *plotPath)
	}
	return nil
}

// reporter prints progress either behind a spinner on interactive
// terminals or as plain lines otherwise.
type reporter struct {
	quiet   bool
	spinner *utils.Spinner
}

func newReporter(quiet, verbose bool) *reporter {
	r := &reporter{quiet: quiet}
	if !quiet && !verbose && utils.IsTerminal(os.Stderr) {
		r.spinner = utils.NewSpinner(os.Stderr)
		r.spinner.Start("Approximating image...")
	}
	return r
}

func (r *reporter) line(msg string) {
	switch {
	case r.quiet:
	case r.spinner != nil:
		r.spinner.SetMessage(msg)
	default:
		fmt.Fprintln(os.Stderr, msg)
	}
}

func (r *reporter) done() {
	if r.spinner != nil {
		r.spinner.Stop()
	}
}
