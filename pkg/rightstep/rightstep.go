// Package rightstep implements the right-step subtrajectory routine (C7):
// enumerating candidate reference intervals (all, or a tree-structured
// O(n log n) subset), scoring each via the incremental free-space graph
// (C5), and reconstructing the winner with the incremental graph's
// member-range query on the id-spaced rows.
//
// The implementation respects trajectory boundaries and tombstoned points;
// it requires the trajectory store be sorted by id.
package rightstep

import (
	"github.com/azybler/pathlets/pkg/freespace"
	"github.com/azybler/pathlets/pkg/trajectory"
)

// RadiusSearch is the C2 contract this routine depends on.
type RadiusSearch interface {
	Search(i trajectory.Ix, sqRadius float64) []trajectory.Ix
}

// Config tunes the right-step sweep.
type Config struct {
	// TreeIntervalsOnly restricts the sweep to O(n log n) candidate
	// intervals (a 2-approximation) instead of all O(n^2) intervals.
	TreeIntervalsOnly bool
	// CurveSimplificationFactor merges consecutive points within
	// (factor/2)*distance before the sweep runs; 0 disables simplification.
	CurveSimplificationFactor float64
	// PreferSmallSubtrajectories biases toward many short members over one
	// long one; good for k-center, bad for k-means.
	PreferSmallSubtrajectories bool
	// CostPerPathlet is the cost of one additional cluster member:
	// c2/c1*distance for k-means (the means driver scales it by the fixed
	// distance once known), 0 for k-center (coverage is maximized directly).
	CostPerPathlet float64
}

// Routine runs the right-step sweep over a trajectory store.
type Routine struct {
	store        *trajectory.Store
	pointWeights trajectory.PrefixSum[int]
	search       RadiusSearch
	config       Config
}

// New returns a Routine over store, with pointWeights indexed exactly like
// store (one weight per index; simplification or a bare "all weight 1"
// slice both work).
func New(store *trajectory.Store, pointWeights []int, search RadiusSearch, config Config) *Routine {
	return &Routine{
		store:        store,
		pointWeights: trajectory.NewPrefixSum(reindexWithTrajectoryID(pointWeights, store)),
		search:       search,
		config:       config,
	}
}

// reindexWithTrajectoryID maps old_weights[i] to new_weights[i+id(i)], the
// id-spacing scheme the incremental graph relies on to stay within a single
// trajectory.
func reindexWithTrajectoryID(old []int, store *trajectory.Store) []int {
	newWeights := make([]int, store.TotalSize()+store.NumTrajectories())
	for i := 0; i < store.TotalSize(); i++ {
		if store.IsDeleted(i) {
			continue
		}
		newWeights[i+int(store.GetID(i))] = old[i]
	}
	return newWeights
}

// adjustIndex reflects a row for a reverse sweep: adjustIndex(i+1) ==
// adjustIndex(i)-1 and adjustIndex is its own inverse. Relies on Go's ^
// operator on signed ints being the same bit-for-bit two's-complement
// identity as the ~x-1 trick in the original unsigned arithmetic.
func adjustIndex(x int, reverse bool) int {
	if !reverse {
		return x
	}
	return ^x - 1
}

func (r *Routine) spacedIndex(i int) int {
	return i + int(r.store.GetID(i))
}

// undoIndexSpacing maps cluster member indices from the spaced domain back
// to original indices. Must be called with members visited in non-increasing
// spaced order, which is what the incremental graph naturally produces.
func (r *Routine) undoIndexSpacing(cluster *trajectory.Cluster) {
	origIndex := r.store.TotalSize() - 1
	unspace := func(index *int) {
		for r.store.IsDeleted(origIndex) || r.spacedIndex(origIndex) != *index {
			origIndex--
		}
		*index = origIndex
	}
	for i := range cluster.Members {
		unspace(&cluster.Members[i].B)
		unspace(&cluster.Members[i].A)
	}
}

// FindBestCluster finds and reconstructs the best-scoring cluster at
// distanceMax.
func (r *Routine) FindBestCluster(distanceMax float64) trajectory.Cluster {
	cand, found := r.FindBestClusterCandidate(distanceMax)
	if !found {
		return trajectory.Cluster{}
	}
	return r.toSubtrajectoryCluster(cand, distanceMax)
}

// FindBestClusterCandidate scores every candidate reference interval
// without reconstructing it. Scoring uses (coverage-per-cost, span) when
// CostPerPathlet > 0, otherwise (covered-points-count, span).
func (r *Routine) FindBestClusterCandidate(distanceMax float64) (freespace.ClusterSummary, bool) {
	if r.config.CostPerPathlet > 0 {
		return r.findBestClusterBy(distanceMax, func(c freespace.ClusterSummary) (float64, int) {
			return c.CoveragePerCost, c.RightColumn - c.LeftColumn
		})
	}
	return r.findBestClusterBy(distanceMax, func(c freespace.ClusterSummary) (float64, int) {
		return float64(c.CoveredPointsCount), c.RightColumn - c.LeftColumn
	})
}

// ClusterFromCandidate reconstructs the cluster a prior
// FindBestClusterCandidate call scored, at distanceMax. Used to reconstruct
// on the original (unsimplified) trajectory a candidate found on a
// simplified one.
func (r *Routine) ClusterFromCandidate(distanceMax float64, cand freespace.ClusterSummary) trajectory.Cluster {
	return r.toSubtrajectoryCluster(cand, distanceMax)
}

func (r *Routine) findBestClusterBy(distanceMax float64, score func(freespace.ClusterSummary) (float64, int)) (freespace.ClusterSummary, bool) {
	var best freespace.ClusterSummary
	found := false
	process := func(c freespace.ClusterSummary) {
		if !found {
			best, found = c, true
			return
		}
		bScore, bSpan := score(best)
		cScore, cSpan := score(c)
		if cScore > bScore || (cScore == bScore && cSpan > bSpan) {
			best = c
		}
	}
	if r.config.TreeIntervalsOnly {
		r.foreachTreeCluster(distanceMax, process)
	} else {
		r.foreachPossibleCluster(distanceMax, process)
	}
	return best, found
}

func (r *Routine) foreachPossibleCluster(distanceMax float64, callback func(freespace.ClusterSummary)) {
	fs := freespace.NewIncremental(0, r.config.PreferSmallSubtrajectories, r.config.CostPerPathlet)
	for leftColumn := r.store.FirstNonDeleted(); leftColumn < r.store.TotalSize(); leftColumn++ {
		r.doColumnSweep(distanceMax, callback, fs, leftColumn, r.store.TotalSize(), false)
	}
}

func (r *Routine) foreachTreeCluster(distanceMax float64, callback func(freespace.ClusterSummary)) {
	fs := freespace.NewIncremental(0, r.config.PreferSmallSubtrajectories, r.config.CostPerPathlet)
	sweepDistance := func(column int) int { return column & -column }

	for column := r.store.FirstNonDeleted(); column < r.store.TotalSize(); column++ {
		if r.store.GetID(column) == trajectory.DeletedID {
			continue
		}
		end := column + sweepDistance(column)
		if end > r.store.TotalSize() {
			end = r.store.TotalSize()
		}
		r.doColumnSweep(distanceMax, callback, fs, column, end, false)
		r.doColumnSweep(distanceMax, callback, fs, column, column-sweepDistance(column+1), true)
	}

	// Also try each whole trajectory, for the case it covers only itself.
	leftColumn := 0
	for rightColumn := 0; rightColumn <= r.store.TotalSize(); rightColumn++ {
		if rightColumn == r.store.TotalSize() || r.store.GetID(leftColumn) != r.store.GetID(rightColumn) {
			if r.store.GetID(leftColumn) != trajectory.DeletedID {
				r.doColumnSweep(distanceMax, callback, fs, leftColumn, rightColumn, false)
			}
			leftColumn = rightColumn
		}
	}
}

func (r *Routine) doColumnSweep(distanceMax float64, callback func(freespace.ClusterSummary), fs *freespace.Incremental, columnBegin, columnEnd int, reverse bool) {
	columnStep := 1
	if reverse {
		columnStep = -1
	}

	refTrajID := r.store.GetID(columnBegin)
	if refTrajID == trajectory.DeletedID {
		return
	}

	fs.Reset(columnBegin)
	for column := columnBegin; column != columnEnd && r.store.GetID(column) == refTrajID; column += columnStep {
		r.populateColumn(fs, distanceMax, column, reverse)

		summary := fs.QueryClusterCandidate(func(l, rr int) int {
			if reverse {
				l--
				rr--
				l, rr = rr, l
			}
			return r.pointWeights.Sum(adjustIndex(l, reverse), adjustIndex(rr, reverse))
		}, adjustIndex(r.spacedIndex(columnBegin), reverse), adjustIndex(r.spacedIndex(column), reverse))

		if reverse {
			summary.LeftColumn = column
			summary.RightColumn = columnBegin
		}
		if summary.SubtrajectoriesCount > 0 {
			callback(summary)
		}

		fs.NewColumn()
	}
}

func (r *Routine) populateColumn(fs *freespace.Incremental, distanceMax float64, column int, reverse bool) {
	indices := r.search.Search(column, distanceMax)
	if reverse {
		for i, j := 0, len(indices)-1; i < j; i, j = i+1, j-1 {
			indices[i], indices[j] = indices[j], indices[i]
		}
	}
	for _, idx := range indices {
		if r.store.IsDeleted(idx) {
			continue
		}
		fs.AddZero(adjustIndex(r.spacedIndex(idx), reverse))
	}
}

func (r *Routine) toSubtrajectoryCluster(cs freespace.ClusterSummary, distanceMax float64) trajectory.Cluster {
	fs := freespace.NewIncremental(cs.LeftColumn, r.config.PreferSmallSubtrajectories, r.config.CostPerPathlet)
	for column := cs.LeftColumn; column <= cs.RightColumn; column++ {
		if column != cs.LeftColumn {
			fs.NewColumn()
		}
		for _, idx := range r.search.Search(column, distanceMax) {
			if r.store.IsDeleted(idx) {
				continue
			}
			fs.AddZero(r.spacedIndex(idx))
		}
	}

	var cluster trajectory.Cluster
	fs.QuerySubtrajectories(&cluster, r.spacedIndex(cs.LeftColumn), r.spacedIndex(cs.RightColumn))
	cluster.SetReference(trajectory.Subtrajectory{A: cs.LeftColumn, B: cs.RightColumn})
	r.undoIndexSpacing(&cluster)

	return cluster
}
