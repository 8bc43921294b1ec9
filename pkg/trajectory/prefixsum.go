package trajectory

// Number is the set of weight types PrefixSum can accumulate.
type Number interface {
	~int | ~int64 | ~float64
}

// PrefixSum answers range-sum queries over a fixed weight sequence in O(1),
// the shape the incremental free-space graph needs for weighted coverage
// (see pkg/freespace). Built once over the (possibly id-spaced) weight
// sequence and never mutated.
type PrefixSum[T Number] struct {
	sums []T
}

// NewPrefixSum builds a PrefixSum over weights.
func NewPrefixSum[T Number](weights []T) PrefixSum[T] {
	sums := make([]T, len(weights)+1)
	for i, w := range weights {
		sums[i+1] = sums[i] + w
	}
	return PrefixSum[T]{sums: sums}
}

// Sum returns the total weight of indices in [l, r).
func (p PrefixSum[T]) Sum(l, r int) T {
	return p.sums[r] - p.sums[l]
}
