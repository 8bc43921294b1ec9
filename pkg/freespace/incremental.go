package freespace

import (
	"math"

	"github.com/azybler/pathlets/pkg/trajectory"
)

// ivertex is an incremental-graph vertex: the row it sits on, and the
// highest row reachable in the leftmost column of the current sweep
// (breaking ties by minimizing the lowest row one could step down to from
// there).
type ivertex struct {
	row                  int
	highestLeftRow       int
	highestLeftRowBottom int
}

// ClusterSummary is the result of scoring a candidate reference band without
// reconstructing its members.
type ClusterSummary struct {
	SubtrajectoriesCount int
	CoveredPointsCount   int
	CoveragePerCost      float64
	LeftColumn           int
	RightColumn          int
}

// Incremental is the faster, restricted free-space graph (C5): insertions
// only, a single fixed left column for the whole sweep, no id-awareness (the
// caller id-spaces row indices instead), and support for point weights from
// curve simplification. It either scores a candidate reference band or
// reconstructs its member ranges.
type Incremental struct {
	preferSmallSubtrajectories bool
	costPerPathlet             float64

	leftColumn, rightColumn int

	rightVertices    []ivertex
	previousVertices []ivertex
	leftCandidateIdx int // cursor into previousVertices

	pathletWeights []int // reused scratch buffer for compute_coverage_per_cost
}

// NewIncremental starts a sweep at initColumn. preferSmallSubtrajectories
// biases merges toward more, shorter members (good for k-center); costPerPathlet
// is the per-member cost used by coverage-per-cost scoring (0 disables it).
func NewIncremental(initColumn int, preferSmallSubtrajectories bool, costPerPathlet float64) *Incremental {
	g := &Incremental{
		preferSmallSubtrajectories: preferSmallSubtrajectories,
		costPerPathlet:             costPerPathlet,
	}
	g.Reset(initColumn)
	return g
}

// Reset discards all columns and starts a fresh sweep at newLeftColumn.
func (g *Incremental) Reset(newLeftColumn int) {
	g.leftColumn = newLeftColumn
	g.rightColumn = newLeftColumn
	g.rightVertices = g.rightVertices[:0]
	g.previousVertices = g.previousVertices[:0]
	g.leftCandidateIdx = 0
}

// NewColumnTo starts newRightColumn as the rightmost column, resetting the
// sweep if it isn't contiguous with the current one.
func (g *Incremental) NewColumnTo(newRightColumn int) {
	if newRightColumn != g.rightColumn+1 {
		g.Reset(newRightColumn)
	} else {
		g.NewColumn()
	}
}

// NewColumn advances to the column right after rightColumn.
func (g *Incremental) NewColumn() {
	g.rightColumn++
	g.previousVertices, g.rightVertices = g.rightVertices, g.previousVertices[:0]
	g.leftCandidateIdx = 0
}

// AddZero inserts a free cell at (rightColumn, row). Rows must arrive
// strictly increasing within a column. The zero is silently dropped if it
// cannot reach the left column at all.
func (g *Incremental) AddZero(row int) {
	if g.leftColumn == g.rightColumn {
		bottom := row
		if n := len(g.rightVertices); n > 0 && g.rightVertices[n-1].row == row-1 {
			bottom = g.rightVertices[n-1].highestLeftRowBottom
		}
		g.rightVertices = append(g.rightVertices, ivertex{row: row, highestLeftRow: row, highestLeftRowBottom: bottom})
		return
	}

	var best mergeCandidate
	if n := len(g.rightVertices); n > 0 {
		down := g.rightVertices[n-1]
		if down.row == row-1 {
			best = best.merge(down.highestLeftRow, down.highestLeftRowBottom, g.preferSmallSubtrajectories)
		}
	}
	for g.leftCandidateIdx < len(g.previousVertices) && g.previousVertices[g.leftCandidateIdx].row+1 < row {
		g.leftCandidateIdx++
	}
	if g.leftCandidateIdx < len(g.previousVertices) && g.previousVertices[g.leftCandidateIdx].row+1 == row {
		lc := g.previousVertices[g.leftCandidateIdx]
		best = best.merge(lc.highestLeftRow, lc.highestLeftRowBottom, g.preferSmallSubtrajectories)
		g.leftCandidateIdx++
	}
	if g.leftCandidateIdx < len(g.previousVertices) && g.previousVertices[g.leftCandidateIdx].row == row {
		lc := g.previousVertices[g.leftCandidateIdx]
		best = best.merge(lc.highestLeftRow, lc.highestLeftRowBottom, g.preferSmallSubtrajectories)
		// don't advance: this candidate may also serve the next row.
	}

	if !best.has {
		return // unreachable from the left column: don't store it.
	}
	g.rightVertices = append(g.rightVertices, ivertex{row: row, highestLeftRow: best.row, highestLeftRowBottom: best.bottom})
}

// mergeCandidate tracks the best-so-far (highestLeftRow, highestLeftRowBottom)
// pair while folding in up to three incoming candidates.
type mergeCandidate struct {
	row, bottom int
	has         bool
}

func (c mergeCandidate) merge(row, bottom int, preferSmall bool) mergeCandidate {
	cand := mergeCandidate{row: row, bottom: bottom, has: true}
	if !c.has {
		return cand
	}
	// Maximize row (primary), minimize bottom (secondary) when preferSmall;
	// otherwise minimize row, maximize bottom.
	if preferSmall {
		if row > c.row || (row == c.row && bottom < c.bottom) {
			return cand
		}
	} else {
		if row < c.row || (row == c.row && bottom > c.bottom) {
			return cand
		}
	}
	return c
}

// QueryClusterCandidate scores the reference band [firstReferenceRow,
// lastReferenceRow] (order-insensitive: the two ends may be passed in either
// order) using totalWeight(l, r) as the prefix-sum of point weights over
// [l, r).
func (g *Incremental) QueryClusterCandidate(totalWeight func(l, r int) int, firstReferenceRow, lastReferenceRow int) ClusterSummary {
	subtrajectoryCount := 0
	coveredWeight := 0
	g.pathletWeights = g.pathletWeights[:0]

	g.doQuery(
		func(firstRow, lastRow int) {
			subtrajectoryCount++
			delta := totalWeight(lastRow, firstRow+1)
			coveredWeight += delta
			g.pathletWeights = append(g.pathletWeights, delta)
		},
		func(oldLastRow, newLastRow int) {
			delta := totalWeight(oldLastRow, newLastRow)
			coveredWeight -= delta
			g.pathletWeights[len(g.pathletWeights)-1] -= delta
		},
		firstReferenceRow, lastReferenceRow,
	)

	return ClusterSummary{
		SubtrajectoriesCount: subtrajectoryCount,
		CoveredPointsCount:   coveredWeight,
		CoveragePerCost:      g.computeCoveragePerCost(),
		LeftColumn:           g.leftColumn,
		RightColumn:          g.rightColumn,
	}
}

// QuerySubtrajectories reconstructs the member ranges for the reference band
// [firstReferenceRow, lastReferenceRow].
func (g *Incremental) QuerySubtrajectories(out *trajectory.Cluster, firstReferenceRow, lastReferenceRow int) {
	g.doQuery(
		func(firstRow, lastRow int) {
			out.PushBack(trajectory.Subtrajectory{A: lastRow, B: firstRow})
		},
		func(_, newLastRow int) {
			out.Back().A = newLastRow
		},
		firstReferenceRow, lastReferenceRow,
	)
	out.SetReference(trajectory.Subtrajectory{A: firstReferenceRow, B: lastReferenceRow})
}

// computeCoveragePerCost binary-searches the gamma solving
// Σ max(0, coverage_i - gamma*costPerPathlet) = gamma, a monotone-decreasing
// feasibility test in gamma. Returns -1 when costPerPathlet is 0 (scoring
// disabled, the driver falls back to covered-points count).
func (g *Incremental) computeCoveragePerCost() float64 {
	if g.costPerPathlet == 0 {
		return -1
	}
	feasible := func(gamma float64) bool {
		total := 0.0
		for _, coverage := range g.pathletWeights {
			delta := float64(coverage) - gamma*g.costPerPathlet
			if delta > 0 {
				total += delta
			}
		}
		return total > gamma
	}
	l, r := 0.0, 1.0
	for feasible(r) {
		r *= 2
	}
	for i := 0; i < 50; i++ {
		m := l + (r-l)/2
		if feasible(m) {
			l = m
		} else {
			r = m
		}
	}
	return l
}

// doQuery walks rightVertices top-down, yielding disjoint extension ranges
// [lastUsedRow, firstUsedRow]; when an extension would enter the reference
// band it is snapped to the reference instead. newSubtrajectory(firstRow,
// lastRow) reports an optimistic extension down to the vertex's
// highestLeftRowBottom;
// shortenPrevious(oldLastRow, newLastRow) retracts the previous extension
// when the next vertex overlapped it.
func (g *Incremental) doQuery(newSubtrajectory func(firstRow, lastRow int), shortenPrevious func(oldLastRow, newLastRow int), firstReferenceRow, lastReferenceRow int) {
	if firstReferenceRow < lastReferenceRow {
		firstReferenceRow, lastReferenceRow = lastReferenceRow, firstReferenceRow
	}

	startVertex := len(g.rightVertices) - 1
	previousRowExtension := math.MaxInt
	for startVertex >= 0 {
		firstUsedRow := g.rightVertices[startVertex].row
		lastUsedRow := g.rightVertices[startVertex].highestLeftRow
		rowExtension := g.rightVertices[startVertex].highestLeftRowBottom

		if firstUsedRow >= lastReferenceRow && lastUsedRow <= firstReferenceRow {
			firstUsedRow = firstReferenceRow
			lastUsedRow = lastReferenceRow
			rowExtension = lastReferenceRow
		}

		if previousRowExtension <= firstUsedRow {
			shortenPrevious(previousRowExtension, firstUsedRow+1)
		}
		previousRowExtension = rowExtension

		newSubtrajectory(firstUsedRow, rowExtension)

		for startVertex >= 0 && g.rightVertices[startVertex].row >= lastUsedRow {
			startVertex--
		}
	}
}
