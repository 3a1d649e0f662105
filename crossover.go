package shapeme

import (
	"fmt"
	"math/rand"
)

// Crossover combines two parents of equal length into one offspring using a
// single split point drawn uniformly from [1, n-1]. Parents of a single
// triangle have no interior split point: the offspring then copies one parent,
// chosen with a fair coin.
func Crossover(a, b Candidate, rng *rand.Rand) (Candidate, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: parents hold %d and %d triangles", ErrArityMismatch, len(a), len(b))
	}
	switch n := len(a); {
	case n == 0:
		return Candidate{}, nil
	case n == 1:
		if rng.Intn(2) == 0 {
			return a.Clone(), nil
		}
		return b.Clone(), nil
	default:
		return SpliceAt(a, b, 1+rng.Intn(n-1))
	}
}

// SpliceAt returns a[:split] followed by b[split:].
func SpliceAt(a, b Candidate, split int) (Candidate, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: parents hold %d and %d triangles", ErrArityMismatch, len(a), len(b))
	}
	if split < 0 || split > len(a) {
		return nil, fmt.Errorf("split index %d out of range [0, %d]", split, len(a))
	}
	child := make(Candidate, 0, len(a))
	child = append(child, a[:split]...)
	child = append(child, b[split:]...)
	return child, nil
}
