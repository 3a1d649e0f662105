package shapeme

import (
	"slices"
	"testing"
)

func checkCandidate(t *testing.T, m *Mutator, c Candidate) {
	t.Helper()
	if len(c) < 1 || len(c) > m.MaxTriangles {
		t.Fatalf("triangle count %d outside [1, %d]", len(c), m.MaxTriangles)
	}
	for _, tr := range c {
		if tr.Color.A < m.MinAlpha || tr.Color.A > m.MaxAlpha {
			t.Fatalf("alpha %v outside [%v, %v]", tr.Color.A, m.MinAlpha, m.MaxAlpha)
		}
		for _, v := range tr.Vertices {
			if v.X < -m.Margin || v.X > float64(m.Width)+m.Margin ||
				v.Y < -m.Margin || v.Y > float64(m.Height)+m.Margin {
				t.Fatalf("vertex %v outside the canvas margin", v)
			}
		}
	}
}

func TestMutate_Closure(t *testing.T) {
	m := NewMutator(20, 10, 1, 5)
	m.Margin = 2
	rng := newRand(7)
	c := Candidate{m.RandomTriangle(rng)}
	for i := 0; i < 5000; i++ {
		strength := rng.Float64() * 2
		c = m.Mutate(c, rng, strength)
		checkCandidate(t, m, c)
	}
}

func TestMutate_LeavesInputUntouched(t *testing.T) {
	m := NewMutator(20, 20, 1, 8)
	rng := newRand(8)
	c := m.RandomCandidate(rng, 4)
	orig := c.Clone()
	for i := 0; i < 500; i++ {
		m.Mutate(c, rng, 0.5)
		if !slices.Equal(c, orig) {
			t.Fatalf("iteration %d: input candidate was modified", i)
		}
	}
}

func TestMutate_ZeroStrength(t *testing.T) {
	m := NewMutator(20, 20, 1, 8)
	rng := newRand(9)
	c := m.RandomCandidate(rng, 3)
	got, kind := m.MutateKind(c, rng, 0)
	if kind != -1 || !slices.Equal(got, c) {
		t.Errorf("zero strength changed the candidate (kind %v)", kind)
	}
}

func TestMutate_SingleChange(t *testing.T) {
	m := NewMutator(30, 30, 1, 10)
	rng := newRand(10)
	c := m.RandomCandidate(rng, 5)
	for i := 0; i < 2000; i++ {
		next, kind := m.MutateKind(c, rng, 0.3)
		switch kind {
		case AddTriangle:
			if len(next) != len(c)+1 || !slices.Equal(next[:len(c)], c) {
				t.Fatalf("add: unexpected result")
			}
		case RemoveTriangle:
			if len(next) != len(c)-1 {
				t.Fatalf("remove: got %d triangles, want %d", len(next), len(c)-1)
			}
		default:
			if len(next) != len(c) {
				t.Fatalf("%v changed the triangle count", kind)
			}
			changed := 0
			for j := range c {
				if next[j] != c[j] {
					changed++
				}
			}
			if changed > 1 {
				t.Fatalf("%v changed %d triangles", kind, changed)
			}
		}
		c = next
	}
}

func TestMutate_Bounds(t *testing.T) {
	tests := []struct {
		name      string
		min, max  int
		start     int
		forbidden MutationKind
	}{
		{"at cap", 1, 3, 3, AddTriangle},
		{"at minimum", 1, 3, 1, RemoveTriangle},
		{"fixed count add", 4, 4, 4, AddTriangle},
		{"fixed count remove", 4, 4, 4, RemoveTriangle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMutator(16, 16, tt.min, tt.max)
			rng := newRand(12)
			c := m.RandomCandidate(rng, tt.start)
			for i := 0; i < 1000; i++ {
				if _, kind := m.MutateKind(c, rng, 0.2); kind == tt.forbidden {
					t.Fatalf("%v applied to a candidate of %d triangles", kind, len(c))
				}
			}
		})
	}
}

func TestMutate_ColorSaturates(t *testing.T) {
	m := NewMutator(4, 4, 1, 1)
	m.Weights = Weights{ShiftColor: 1, ShiftAlpha: 1}
	rng := newRand(13)
	c := Candidate{tri(0, 0, 4, 0, 0, 4, Color{R: 250, G: 3, B: 128, A: 0.99})}
	for i := 0; i < 1000; i++ {
		c = m.Mutate(c, rng, 1)
		checkCandidate(t, m, c)
	}
}

func TestMutationKind_String(t *testing.T) {
	if MoveVertex.String() != "move-vertex" || MutationKind(-1).String() != "unknown" {
		t.Error("unexpected kind names")
	}
}
