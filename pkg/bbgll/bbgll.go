// Package bbgll implements the fixed-length/fixed-cardinality subtrajectory
// routine due to Buchin et al., built on top of the retrieving free-space
// graph (C4).
package bbgll

import (
	"math"

	"github.com/azybler/pathlets/pkg/freespace"
	"github.com/azybler/pathlets/pkg/trajectory"
)

// RadiusSearch is the C2 contract this routine depends on.
type RadiusSearch interface {
	Search(i trajectory.Ix, sqRadius float64) []trajectory.Ix
}

// objective parameterizes the best-cluster selector over {length,
// cardinality}: a lower-bound sentinel plus a value extractor.
type objective struct {
	value      func(c *trajectory.Cluster) int
	lowerBound int
}

var lengthObjective = objective{
	value:      func(c *trajectory.Cluster) int { return c.Reference.Length() },
	lowerBound: -1,
}

var cardinalityObjective = objective{
	value:      func(c *trajectory.Cluster) int { return c.Size() },
	lowerBound: -1,
}

// bestClusterStore double-buffers two clusters, swapping the "best" and
// "temp" slots whenever temp improves on best under obj. This avoids
// reallocating a cluster's member slice on every candidate.
type bestClusterStore struct {
	obj               objective
	clusters          [2]trajectory.Cluster
	bestIdx, tempIdx  int
	bestValue         int
}

func newBestClusterStore(obj objective) *bestClusterStore {
	return &bestClusterStore{obj: obj, bestIdx: 0, tempIdx: 1, bestValue: obj.lowerBound}
}

func (s *bestClusterStore) temp() *trajectory.Cluster { return &s.clusters[s.tempIdx] }
func (s *bestClusterStore) best() *trajectory.Cluster { return &s.clusters[s.bestIdx] }

func (s *bestClusterStore) testForImprovement() bool {
	v := s.obj.value(s.temp())
	if v > s.bestValue {
		s.bestIdx, s.tempIdx = s.tempIdx, s.bestIdx
		s.bestValue = v
		return true
	}
	return false
}

// Routine runs the BBGLL sweep over a trajectory store, respecting id
// boundaries and tombstoned points.
type Routine struct {
	store  *trajectory.Store
	search RadiusSearch
}

// New returns a Routine over store, using search for column population.
func New(store *trajectory.Store, search RadiusSearch) *Routine {
	return &Routine{store: store, search: search}
}

// FindLongestClusterOfTargetSizeByCardinality finds the cluster with the
// longest reference subtrajectory among those with at least targetSize
// members, at query distance sqDistance.
func (r *Routine) FindLongestClusterOfTargetSizeByCardinality(targetSize int, sqDistance float64) trajectory.Cluster {
	return r.findLongestClusterOfTargetSize(lengthObjective, targetSize, sqDistance)
}

// FindMaxCardinalityClusterOfFixedLength finds the cluster with the most
// members whose reference subtrajectory has exactly targetLength segments.
func (r *Routine) FindMaxCardinalityClusterOfFixedLength(targetLength int, sqDistance float64) trajectory.Cluster {
	rightColumn := r.store.FirstNonDeleted()
	leftColumn := rightColumn
	fs := freespace.NewRetrieving(rightColumn)
	r.populateColumn(fs, rightColumn, sqDistance)
	clusters := newBestClusterStore(cardinalityObjective)

	for {
		r.advanceWithFixedLength(targetLength, sqDistance, fs, &leftColumn, &rightColumn)
		if rightColumn >= r.store.TotalSize() {
			break
		}

		temp := clusters.temp()
		temp.Clear()
		fs.QuerySubtrajectoriesRespectingIDs(r.store, temp, math.MaxInt)
		clusters.testForImprovement()

		leftColumn++
		fs.DeleteColumn()
		if !(leftColumn < r.store.TotalSize()) {
			break
		}
	}
	return *clusters.best()
}

// FindMaxCardinalityClusterMaximizingLength finds the longest cluster among
// those of maximum cardinality at query distance sqDistance. minLength, if
// nonzero, is used instead of a global neighborhood scan to establish the
// maximum cardinality M.
func (r *Routine) FindMaxCardinalityClusterMaximizingLength(sqDistance float64, minLength int) trajectory.Cluster {
	m := 0
	if minLength == 0 {
		for idx := 0; idx < r.store.TotalSize(); idx++ {
			if r.store.GetID(idx) == trajectory.DeletedID {
				continue
			}
			if n := len(r.search.Search(idx, sqDistance)); n > m {
				m = n
			}
		}
	} else {
		m = r.FindMaxCardinalityClusterOfFixedLength(minLength, sqDistance).Size()
	}

	if m == 0 {
		return trajectory.Cluster{}
	}
	return r.FindLongestClusterOfTargetSizeByCardinality(m, sqDistance)
}

func (r *Routine) populateColumn(fs *freespace.Retrieving, columnIdx int, sqDistance float64) {
	for _, idx := range r.search.Search(columnIdx, sqDistance) {
		fs.AddZero(idx)
	}
}

// advanceToNextRightColumn advances rightColumn to the next non-deleted
// column, populating it. Reports whether a deleted column was skipped.
func (r *Routine) advanceToNextRightColumn(sqDistance float64, fs *freespace.Retrieving, rightColumn *int) bool {
	skippedDeletedVertex := false
	for {
		*rightColumn++
		if *rightColumn >= r.store.TotalSize() {
			return skippedDeletedVertex
		}
		if r.store.GetID(*rightColumn) == trajectory.DeletedID {
			skippedDeletedVertex = true
			continue
		}
		break
	}
	fs.NewColumn(*rightColumn)
	r.populateColumn(fs, *rightColumn, sqDistance)
	return skippedDeletedVertex
}

func (r *Routine) advanceWithFixedLength(targetLength int, sqDistance float64, fs *freespace.Retrieving, leftColumn, rightColumn *int) {
	for *rightColumn-*leftColumn != targetLength {
		skipped := r.advanceToNextRightColumn(sqDistance, fs, rightColumn)
		if *rightColumn >= r.store.TotalSize() {
			break
		}
		if skipped || r.store.GetID(*rightColumn) != r.store.GetID(*leftColumn) {
			fs.AdvanceLeftColumnToRight()
			*leftColumn = *rightColumn
		}
	}
}

func (r *Routine) findLongestClusterOfTargetSize(obj objective, targetSize int, sqDistance float64) trajectory.Cluster {
	rightColumn := r.store.FirstNonDeleted()
	leftColumn := rightColumn
	fs := freespace.NewRetrieving(rightColumn)
	r.populateColumn(fs, rightColumn, sqDistance)
	clusters := newBestClusterStore(obj)
	skippedDeletedVertex := false

	for {
		temp := clusters.temp()
		temp.Clear()
		fs.QuerySubtrajectoriesRespectingIDs(r.store, temp, targetSize)
		if temp.Size() < targetSize && leftColumn != rightColumn {
			fs.DeleteColumn()
			leftColumn++
		} else {
			if temp.Size() >= targetSize {
				clusters.testForImprovement()
			}
			skippedDeletedVertex = r.advanceToNextRightColumn(sqDistance, fs, &rightColumn)
			if rightColumn >= r.store.TotalSize() {
				break
			}
			if skippedDeletedVertex || r.store.GetID(rightColumn) != r.store.GetID(leftColumn) {
				fs.AdvanceLeftColumnToRight()
				leftColumn = rightColumn
			}
			skippedDeletedVertex = false
		}
		if !(leftColumn < r.store.TotalSize()) {
			break
		}
	}
	return *clusters.best()
}
