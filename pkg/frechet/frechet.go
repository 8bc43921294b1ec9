// Package frechet computes the discrete Fréchet distance between two
// subtrajectories, via the Eiter-Mannila recurrence.
package frechet

import (
	"math"

	"github.com/azybler/pathlets/pkg/geom"
)

// PointSeq abstracts over whatever vertex source the caller has at hand
// (a trajectory.Store slice, a reindexed view, ...): just its length and
// indexed access to its vertices.
type PointSeq interface {
	Len() int
	At(i int) geom.Point
}

// Slice adapts a plain point slice to PointSeq.
type Slice []geom.Point

func (s Slice) Len() int            { return len(s) }
func (s Slice) At(i int) geom.Point { return s[i] }

// SqQuadratic computes the squared discrete Fréchet distance between P and Q
// using the full O(|P||Q|) cost matrix. Returns 0 immediately if P and Q have
// equal length and identical points (the common case of comparing a
// reference to itself).
func SqQuadratic(p, q PointSeq, sq geom.SqDist) float64 {
	if sameSeq(p, q) {
		return 0
	}
	n, m := p.Len(), q.Len()
	c := make([][]float64, n)
	for i := range c {
		c[i] = make([]float64, m)
	}
	c[0][0] = sq(p.At(0), q.At(0))
	for i := 1; i < n; i++ {
		c[i][0] = math.Max(c[i-1][0], sq(p.At(i), q.At(0)))
	}
	for j := 1; j < m; j++ {
		c[0][j] = math.Max(c[0][j-1], sq(p.At(0), q.At(j)))
	}
	for i := 1; i < n; i++ {
		for j := 1; j < m; j++ {
			best := math.Min(c[i-1][j], math.Min(c[i-1][j-1], c[i][j-1]))
			c[i][j] = math.Max(best, sq(p.At(i), q.At(j)))
		}
	}
	return c[n-1][m-1]
}

// SqLight computes the same value as SqQuadratic but keeps only two rolling
// rows of length |Q|, trading reconstructability for O(|Q|) memory.
func SqLight(p, q PointSeq, sq geom.SqDist) float64 {
	if sameSeq(p, q) {
		return 0
	}
	n, m := p.Len(), q.Len()
	prev := make([]float64, m)
	cur := make([]float64, m)

	prev[0] = sq(p.At(0), q.At(0))
	for j := 1; j < m; j++ {
		prev[j] = math.Max(prev[j-1], sq(p.At(0), q.At(j)))
	}
	for i := 1; i < n; i++ {
		cur[0] = math.Max(prev[0], sq(p.At(i), q.At(0)))
		for j := 1; j < m; j++ {
			best := math.Min(prev[j], math.Min(prev[j-1], cur[j-1]))
			cur[j] = math.Max(best, sq(p.At(i), q.At(j)))
		}
		prev, cur = cur, prev
	}
	return prev[m-1]
}

func sameSeq(p, q PointSeq) bool {
	if p.Len() != q.Len() {
		return false
	}
	for i := 0; i < p.Len(); i++ {
		if p.At(i) != q.At(i) {
			return false
		}
	}
	return true
}
