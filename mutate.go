package shapeme

import (
	"math"
	"math/rand"
)

// MutationKind identifies one of the perturbations a Mutator may apply.
type MutationKind int

const (
	// MoveVertex jitters one vertex of one triangle.
	MoveVertex MutationKind = iota
	// ShiftColor jitters one RGB channel of one triangle.
	ShiftColor
	// ShiftAlpha jitters the opacity of one triangle.
	ShiftAlpha
	// AddTriangle appends a random triangle on top of the others.
	AddTriangle
	// RemoveTriangle drops one triangle.
	RemoveTriangle
	// ReplaceTriangle swaps one triangle for a freshly randomized one.
	ReplaceTriangle

	numMutationKinds
)

var kindNames = [numMutationKinds]string{"move-vertex", "shift-color", "shift-alpha", "add", "remove", "replace"}

func (k MutationKind) String() string {
	if k < 0 || k >= numMutationKinds {
		return "unknown"
	}
	return kindNames[k]
}

// Weights holds the relative draw frequency of every MutationKind.
type Weights [numMutationKinds]int

// DefaultWeights favours small geometric and color moves.
var DefaultWeights = Weights{
	MoveVertex:      4,
	ShiftColor:      3,
	ShiftAlpha:      1,
	AddTriangle:     1,
	RemoveTriangle:  1,
	ReplaceTriangle: 1,
}

// Mutator produces perturbed copies of candidates for a fixed canvas.
type Mutator struct {
	Width, Height int
	// Margin is how far vertices may drift outside the [0, Width] x [0, Height] canvas.
	Margin       float64
	MinTriangles int
	MaxTriangles int
	MinAlpha     float64
	MaxAlpha     float64
	Weights      Weights
}

// NewMutator returns a mutator for a width x height canvas with the default
// weights and alpha range.
func NewMutator(width, height, minTriangles, maxTriangles int) *Mutator {
	return &Mutator{
		Width:        width,
		Height:       height,
		MinTriangles: minTriangles,
		MaxTriangles: maxTriangles,
		MinAlpha:     DefaultMinAlpha,
		MaxAlpha:     DefaultMaxAlpha,
		Weights:      DefaultWeights,
	}
}

// RandomTriangle returns a triangle with its vertices inside the canvas,
// a random color and an opacity within the mutator's alpha range.
func (m *Mutator) RandomTriangle(rng *rand.Rand) Triangle {
	var t Triangle
	for i := range t.Vertices {
		t.Vertices[i] = Point{
			X: rng.Float64() * float64(m.Width),
			Y: rng.Float64() * float64(m.Height),
		}
	}
	bits := rng.Uint32()
	t.Color = Color{
		R: uint8(bits),
		G: uint8(bits >> 8),
		B: uint8(bits >> 16),
		A: m.MinAlpha + rng.Float64()*(m.MaxAlpha-m.MinAlpha),
	}
	return t
}

// RandomCandidate returns a candidate made of n random triangles.
func (m *Mutator) RandomCandidate(rng *rand.Rand, n int) Candidate {
	c := make(Candidate, n)
	for i := range c {
		c[i] = m.RandomTriangle(rng)
	}
	return c
}

// Mutate returns a copy of c with exactly one perturbation applied.
// A non positive strength returns an unmodified copy.
func (m *Mutator) Mutate(c Candidate, rng *rand.Rand, strength float64) Candidate {
	out, _ := m.MutateKind(c, rng, strength)
	return out
}

// MutateKind is like Mutate and also reports the applied kind.
// The kind is -1 when nothing was changed.
func (m *Mutator) MutateKind(c Candidate, rng *rand.Rand, strength float64) (Candidate, MutationKind) {
	out := c.Clone()
	if strength <= 0 {
		return out, -1
	}
	kind, ok := m.pick(len(c), rng)
	if !ok {
		return out, -1
	}

	switch kind {
	case MoveVertex:
		i := rng.Intn(len(out))
		out[i] = m.moveVertex(out[i], rng, strength)
	case ShiftColor:
		i := rng.Intn(len(out))
		out[i] = shiftColor(out[i], rng, strength)
	case ShiftAlpha:
		i := rng.Intn(len(out))
		out[i] = m.shiftAlpha(out[i], rng, strength)
	case AddTriangle:
		out = append(out, m.RandomTriangle(rng))
	case RemoveTriangle:
		i := rng.Intn(len(out))
		out = append(out[:i], out[i+1:]...)
	case ReplaceTriangle:
		i := rng.Intn(len(out))
		out[i] = m.RandomTriangle(rng)
	}
	return out, kind
}

// pick draws a kind among those applicable to a candidate of n triangles.
func (m *Mutator) pick(n int, rng *rand.Rand) (MutationKind, bool) {
	var (
		weights Weights
		total   int
	)
	for k := MutationKind(0); k < numMutationKinds; k++ {
		if m.Weights[k] <= 0 || !m.applicable(k, n) {
			continue
		}
		weights[k] = m.Weights[k]
		total += weights[k]
	}
	if total == 0 {
		return 0, false
	}
	r := rng.Intn(total)
	for k := MutationKind(0); k < numMutationKinds; k++ {
		if r < weights[k] {
			return k, true
		}
		r -= weights[k]
	}
	return 0, false
}

func (m *Mutator) applicable(k MutationKind, n int) bool {
	switch k {
	case AddTriangle:
		return n < m.MaxTriangles
	case RemoveTriangle:
		return n > Max(m.MinTriangles, 1)
	default:
		return n > 0
	}
}

func (m *Mutator) moveVertex(t Triangle, rng *rand.Rand, strength float64) Triangle {
	reach := math.Max(strength*float64(Max(m.Width, m.Height)), 1)
	i := rng.Intn(3)
	v := t.Vertices[i]
	v.X = clamp(v.X+(rng.Float64()*2-1)*reach, -m.Margin, float64(m.Width)+m.Margin)
	v.Y = clamp(v.Y+(rng.Float64()*2-1)*reach, -m.Margin, float64(m.Height)+m.Margin)
	t.Vertices[i] = v
	return t
}

func shiftColor(t Triangle, rng *rand.Rand, strength float64) Triangle {
	reach := int(math.Max(math.Round(strength*255), 1))
	d := rng.Intn(2*reach+1) - reach
	switch rng.Intn(3) {
	case 0:
		t.Color.R = clampChannel(int(t.Color.R) + d)
	case 1:
		t.Color.G = clampChannel(int(t.Color.G) + d)
	default:
		t.Color.B = clampChannel(int(t.Color.B) + d)
	}
	return t
}

func (m *Mutator) shiftAlpha(t Triangle, rng *rand.Rand, strength float64) Triangle {
	reach := math.Max(strength, 1.0/255)
	t.Color.A = clamp(t.Color.A+(rng.Float64()*2-1)*reach, m.MinAlpha, m.MaxAlpha)
	return t
}
