package export

import (
	"sync"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/esimov/shapeme"
)

// History collects the progress reports of a run.
type History struct {
	mu     sync.Mutex
	points []shapeme.Progress
}

// Record stores p. It has the shapeme.ProgressFunc signature.
func (h *History) Record(p shapeme.Progress) {
	h.mu.Lock()
	h.points = append(h.points, p)
	h.mu.Unlock()
}

// Len returns the number of recorded reports.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.points)
}

// Plot draws the current and best score against the step index and saves
// the chart; the format follows the file extension (png, svg, pdf...).
func (h *History) Plot(title, path string) error {
	h.mu.Lock()
	points := append([]shapeme.Progress(nil), h.points...)
	h.mu.Unlock()

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Step"
	p.Y.Label.Text = "Fitness"

	current := make(plotter.XYs, len(points))
	best := make(plotter.XYs, len(points))
	for i, pt := range points {
		current[i].X, current[i].Y = float64(pt.Step), float64(pt.Current)
		best[i].X, best[i].Y = float64(pt.Step), float64(pt.Best)
	}

	curLine, err := plotter.NewLine(current)
	if err != nil {
		return err
	}
	bestLine, err := plotter.NewLine(best)
	if err != nil {
		return err
	}
	bestLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(curLine, bestLine)
	p.Legend.Add("current", curLine)
	p.Legend.Add("best", bestLine)
	p.Legend.Top = true

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
