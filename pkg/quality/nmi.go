package quality

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// ErrLengthMismatch is returned when two clusterings cover different node counts.
var ErrLengthMismatch = errors.New("quality: clusterings must have the same length")

// NMI returns the normalized mutual information of two clusterings of the
// same nodes, normalized by the mean of their entropies. Two single-cluster
// clusterings score 1.
func NMI(a, b []int) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d and %d", ErrLengthMismatch, len(a), len(b))
	}
	n := len(a)
	if n == 0 {
		return 0, nil
	}

	type pair struct{ a, b int }
	joint := make(map[pair]int)
	countA := make(map[int]int)
	countB := make(map[int]int)
	for i := range a {
		joint[pair{a[i], b[i]}]++
		countA[a[i]]++
		countB[b[i]]++
	}

	mi := 0.0
	for p, nij := range joint {
		ni, nj := countA[p.a], countB[p.b]
		mi += float64(nij) / float64(n) * math.Log(float64(nij)*float64(n)/(float64(ni)*float64(nj)))
	}

	avg := (stat.Entropy(distribution(countA, n)) + stat.Entropy(distribution(countB, n))) / 2
	if avg == 0 {
		return 1, nil
	}
	return mi / avg, nil
}

func distribution(counts map[int]int, n int) []float64 {
	p := make([]float64, 0, len(counts))
	for _, c := range counts {
		p = append(p, float64(c)/float64(n))
	}
	return p
}
