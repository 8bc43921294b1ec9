// Package simplify implements curve simplification (C8): merging
// consecutive points within a fraction of the query radius, to accelerate
// the right-step routine.
package simplify

import (
	"github.com/azybler/pathlets/pkg/geom"
	"github.com/azybler/pathlets/pkg/trajectory"
)

// Simplification is a reduced trajectory store plus the bookkeeping needed
// to map reference/member ranges on it back to the original store.
type Simplification struct {
	Store *trajectory.Store

	// Weight[i] is the number of original points merged into simplified
	// index i; LeftmostIndex[i] is the original index of the group's
	// leftmost (and representative) point.
	Weight        []int
	LeftmostIndex []trajectory.Ix
}

// Build groups consecutive same-id, non-deleted points of orig whose squared
// distance to the group's leftmost point is at most sqDistOriginal*(factor/2)^2.
// factor must be in [0, 1).
func Build(orig *trajectory.Store, sqDistOriginal, factor float64, sq geom.SqDist) *Simplification {
	threshold := sqDistOriginal * (factor / 2) * (factor / 2)

	simplified := trajectory.New()
	var weight []int
	var leftmost []trajectory.Ix

	n := orig.TotalSize()
	for i := 0; i < n; {
		if orig.IsDeleted(i) {
			i++
			continue
		}
		leftPoint := orig.Point(i)
		id := orig.GetID(i)
		groupLeft := i
		j := i + 1
		for j < n && !orig.IsDeleted(j) && orig.GetID(j) == id && sq(leftPoint, orig.Point(j)) <= threshold {
			j++
		}
		simplified.Push(leftPoint, id)
		weight = append(weight, j-groupLeft)
		leftmost = append(leftmost, groupLeft)
		i = j
	}

	return &Simplification{Store: simplified, Weight: weight, LeftmostIndex: leftmost}
}

// DownstreamSqDistance is the squared distance the caller should query the
// simplified trajectory at: sqDistOriginal*(1-factor)^2.
func DownstreamSqDistance(sqDistOriginal, factor float64) float64 {
	f := 1 - factor
	return sqDistOriginal * f * f
}

// Unsimplify maps a subtrajectory on the simplified trajectory back to the
// original index range it represents.
func (s *Simplification) Unsimplify(sub trajectory.Subtrajectory) trajectory.Subtrajectory {
	return trajectory.Subtrajectory{
		A: s.LeftmostIndex[sub.A],
		B: s.LeftmostIndex[sub.B] + s.Weight[sub.B] - 1,
	}
}

// UnsimplifyCluster maps every member and the reference of c back to
// original indices.
func (s *Simplification) UnsimplifyCluster(c *trajectory.Cluster) trajectory.Cluster {
	var out trajectory.Cluster
	for _, m := range c.Members {
		out.PushBack(s.Unsimplify(m))
	}
	if c.HasReference {
		out.SetReference(s.Unsimplify(c.Reference))
	}
	return out
}
