package shapeme

import (
	"errors"
	"slices"
	"testing"
)

// distinctParents returns two candidates of n triangles sharing no triangle.
func distinctParents(n int) (Candidate, Candidate) {
	a, b := make(Candidate, n), make(Candidate, n)
	for i := 0; i < n; i++ {
		f := float64(i)
		a[i] = tri(f, 0, f+1, 0, f, 1, Color{R: uint8(i), A: 1})
		b[i] = tri(f, 5, f+1, 5, f, 6, Color{G: uint8(i), A: 1})
	}
	return a, b
}

func TestCrossover_ArityMismatch(t *testing.T) {
	a, _ := distinctParents(3)
	_, b := distinctParents(4)
	if _, err := Crossover(a, b, newRand(1)); !errors.Is(err, ErrArityMismatch) {
		t.Fatalf("got %v, want ErrArityMismatch", err)
	}
}

func TestCrossover_PreservesArityAndIdentity(t *testing.T) {
	rng := newRand(2)
	for _, n := range []int{1, 2, 5, 12} {
		a, b := distinctParents(n)
		for i := 0; i < 200; i++ {
			child, err := Crossover(a, b, rng)
			if err != nil {
				t.Fatal(err)
			}
			if len(child) != n {
				t.Fatalf("n=%d: offspring holds %d triangles", n, len(child))
			}
			for j, tr := range child {
				if tr != a[j] && tr != b[j] {
					t.Fatalf("n=%d: triangle %d comes from neither parent", n, j)
				}
			}
		}
	}
}

func TestCrossover_SplitRange(t *testing.T) {
	rng := newRand(3)
	a, b := distinctParents(5)
	seen := map[int]bool{}
	for i := 0; i < 500; i++ {
		child, _ := Crossover(a, b, rng)
		split := slices.IndexFunc(child, func(tr Triangle) bool { return tr.Color.G != 0 || tr.Vertices[0].Y == 5 })
		if split < 1 || split > 4 {
			t.Fatalf("split %d outside [1, 4]", split)
		}
		if !slices.Equal(child[:split], a[:split]) || !slices.Equal(child[split:], b[split:]) {
			t.Fatalf("offspring is not a single point splice at %d", split)
		}
		seen[split] = true
	}
	if len(seen) != 4 {
		t.Errorf("expected every split in [1, 4] to occur, saw %v", seen)
	}
}

func TestSpliceAt(t *testing.T) {
	a, b := distinctParents(4)
	child, err := SpliceAt(a, b, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := Candidate{a[0], a[1], b[2], b[3]}
	if !slices.Equal(child, want) {
		t.Errorf("got %v, want %v", child, want)
	}
	child[0] = b[0]
	if a[0] == b[0] {
		t.Error("offspring aliases its parent")
	}
	if _, err := SpliceAt(a, b, 5); err == nil {
		t.Error("expected an error for an out of range split")
	}
}
