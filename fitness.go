package shapeme

import (
	"fmt"
	"image"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Fitness is the dissimilarity between a rendering and the target image.
// It is never negative, zero means a pixel perfect match and lower is better.
type Fitness float64

// Metric computes the pixel wise dissimilarity of two buffers of identical size.
// Only the RGB channels take part in the comparison.
type Metric func(current, reference *image.NRGBA) Fitness

// SumSquares sums the squared per channel differences over all pixels.
func SumSquares(current, reference *image.NRGBA) Fitness {
	var sum uint64
	a, b := current.Pix, reference.Pix
	for i := 0; i+3 < len(a); i += 4 {
		dr := int64(a[i]) - int64(b[i])
		dg := int64(a[i+1]) - int64(b[i+1])
		db := int64(a[i+2]) - int64(b[i+2])
		sum += uint64(dr*dr + dg*dg + db*db)
	}
	return Fitness(sum)
}

// Euclidean sums the truncated RGB distance of every pixel pair.
// Truncation makes it not strictly monotonic: (1,0,0) and (1,1,0) both count 1.
func Euclidean(current, reference *image.NRGBA) Fitness {
	var sum int64
	a, b := current.Pix, reference.Pix
	for i := 0; i+3 < len(a); i += 4 {
		dr := int64(a[i]) - int64(b[i])
		dg := int64(a[i+1]) - int64(b[i+1])
		db := int64(a[i+2]) - int64(b[i+2])
		sum += int64(math.Sqrt(float64(dr*dr + dg*dg + db*db)))
	}
	return Fitness(sum)
}

// LabDistance sums the CIE76 color difference of every pixel pair.
// The distance is computed in the CIE L*a*b* space, which follows the
// perceived difference more closely than plain RGB distances.
func LabDistance(current, reference *image.NRGBA) Fitness {
	var sum float64
	a, b := current.Pix, reference.Pix
	for i := 0; i+3 < len(a); i += 4 {
		if a[i] == b[i] && a[i+1] == b[i+1] && a[i+2] == b[i+2] {
			continue
		}
		ca := colorful.Color{R: float64(a[i]) / 255, G: float64(a[i+1]) / 255, B: float64(a[i+2]) / 255}
		cb := colorful.Color{R: float64(b[i]) / 255, G: float64(b[i+1]) / 255, B: float64(b[i+2]) / 255}
		sum += ca.DistanceCIE76(cb)
	}
	return Fitness(sum * 100)
}

// MetricByName resolves the metric names accepted on the command line.
func MetricByName(name string) (Metric, error) {
	switch name {
	case "", "sse":
		return SumSquares, nil
	case "euclid":
		return Euclidean, nil
	case "lab":
		return LabDistance, nil
	}
	return nil, &ConfigError{Field: "Metric", Reason: fmt.Sprintf("unknown metric %q", name)}
}

// Score compares buf against target with the default metric.
func Score(buf, target *image.NRGBA) (Fitness, error) {
	return score(SumSquares, buf, target)
}

func score(m Metric, buf, target *image.NRGBA) (Fitness, error) {
	if buf.Rect.Dx() != target.Rect.Dx() || buf.Rect.Dy() != target.Rect.Dy() {
		return 0, fmt.Errorf("%w: buffer %dx%d, target %dx%d", ErrDimensionMismatch,
			buf.Rect.Dx(), buf.Rect.Dy(), target.Rect.Dx(), target.Rect.Dy())
	}
	return m(buf, target), nil
}

// Evaluator renders candidates and scores them against a fixed target.
// The target is only ever read, so an Evaluator may be shared by
// concurrent evaluations as long as each one owns its buffer.
type Evaluator struct {
	Renderer *Renderer
	Metric   Metric
	Target   *image.NRGBA
}

// NewEvaluator returns an evaluator for target. Nil arguments select the defaults.
func NewEvaluator(target *image.NRGBA, r *Renderer, m Metric) *Evaluator {
	if r == nil {
		r = NewRenderer(DefaultBackground)
	}
	if m == nil {
		m = SumSquares
	}
	return &Evaluator{Renderer: r, Metric: m, Target: target}
}

// NewBuffer allocates a buffer matching the target size.
func (e *Evaluator) NewBuffer() *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, e.Target.Rect.Dx(), e.Target.Rect.Dy()))
}

// Evaluate renders c into buf and scores it.
func (e *Evaluator) Evaluate(c Candidate, buf *image.NRGBA) (Fitness, error) {
	e.Renderer.RenderInto(buf, c)
	return score(e.Metric, buf, e.Target)
}
