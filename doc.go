/*
Package shapeme approximates images with a small number of semi-transparent triangles.

Two optimizers are provided. Annealer runs simulated annealing on a single
candidate which starts with one triangle and periodically grows, reheating the
schedule every time a triangle is inserted. Genetic evolves a population of
candidates holding a fixed number of triangles, using tournament selection,
single point crossover, mutation and elitism.

Both optimizers share the same fitness oracle: a candidate is rasterized in
paint order with straight alpha compositing and compared pixel by pixel with
the target.

The package provides a command line utility supporting various customization options.
Check the supported commands by typing:

	$ shapeme --help

Example running the annealer and exporting the result as SVG:

	package main

	import (
		"context"
		"log"

		"github.com/esimov/shapeme"
		"github.com/esimov/shapeme/export"
		"github.com/esimov/shapeme/utils"
	)

	func main() {
		target, err := utils.LoadImage("monalisa.png")
		if err != nil {
			log.Fatal(err)
		}
		opts := shapeme.DefaultAnnealOptions()
		opts.Iterations = 100_000

		a, err := shapeme.NewAnnealer(target, opts)
		if err != nil {
			log.Fatal(err)
		}
		if err := a.Run(context.Background(), nil); err != nil {
			log.Fatal(err)
		}
		best, _ := a.Best()
		svg := &export.SVG{
			Width:      target.Bounds().Dx(),
			Height:     target.Bounds().Dy(),
			Background: opts.Background,
			Shapes:     best.Shapes(),
		}
		if err := svg.Save("monalisa.svg"); err != nil {
			log.Fatal(err)
		}
	}
*/
package shapeme
