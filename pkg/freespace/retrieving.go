package freespace

import (
	"math"

	"github.com/azybler/pathlets/pkg/trajectory"
)

const noEdgeLabel = math.MaxInt

type vertex struct {
	row int

	up, left, belowLeft, below *vertex

	labelLeft, labelBelowLeft, labelBelow, minLabel int
}

// Retrieving is the column-sweep free-space diagram that can extract the
// disjoint subtrajectories it covers (C4). Each incoming edge (left,
// below-left, below) carries a label: the smallest column index from which a
// monotone path reaches the vertex. A vertex's min_label is the minimum of
// its three incoming labels and the current column.
type Retrieving struct {
	pool arena[vertex]

	// lowestPerColumn[0] is the lowest vertex of leftColumn; the last entry
	// is the lowest vertex of rightColumn. A nil entry means the column has
	// no zero yet.
	lowestPerColumn []*vertex

	leftColumn, rightColumn int

	highestInLastCol                       *vertex
	candidateForLeft, candidateForBelowLeft *vertex
}

// NewRetrieving starts a sweep whose first (and initially only) column is
// initRightColumn.
func NewRetrieving(initRightColumn int) *Retrieving {
	return &Retrieving{
		leftColumn:      initRightColumn,
		rightColumn:     initRightColumn,
		lowestPerColumn: []*vertex{nil},
	}
}

// NewColumnNext starts the column right after the current rightColumn.
func (g *Retrieving) NewColumnNext() { g.NewColumn(g.rightColumn + 1) }

// NewColumn starts newRightColumn as the new rightmost column.
func (g *Retrieving) NewColumn(newRightColumn int) {
	if last := g.lowestPerColumn[len(g.lowestPerColumn)-1]; last != nil {
		g.candidateForLeft = last
		g.candidateForBelowLeft = last.below
	} else {
		g.candidateForLeft = nil
		g.candidateForBelowLeft = nil
	}
	g.lowestPerColumn = append(g.lowestPerColumn, nil)
	g.highestInLastCol = nil
	g.rightColumn = newRightColumn
}

// AddZero inserts a free cell at (rightColumn, row). Rows must arrive
// strictly increasing within a column.
func (g *Retrieving) AddZero(row int) {
	v := g.pool.construct(vertex{
		row:            row,
		labelLeft:      noEdgeLabel,
		labelBelowLeft: noEdgeLabel,
		labelBelow:     noEdgeLabel,
	})

	if g.lowestPerColumn[len(g.lowestPerColumn)-1] == nil {
		g.lowestPerColumn[len(g.lowestPerColumn)-1] = v
	}

	if g.rightColumn > 0 {
		g.advanceCandidateForLeft(row)
		if g.candidateForLeft != nil && g.candidateForLeft.row == row {
			v.left = g.candidateForLeft
			v.labelLeft = g.candidateForLeft.minLabel
		}
		if g.candidateForBelowLeft != nil && g.candidateForBelowLeft.row == row-1 {
			v.belowLeft = g.candidateForBelowLeft
			v.labelBelowLeft = g.candidateForBelowLeft.minLabel
		}
	}

	if g.highestInLastCol != nil {
		v.below = g.highestInLastCol
		if g.highestInLastCol.row == row-1 {
			v.labelBelow = g.highestInLastCol.minLabel
		} else {
			v.labelBelow = noEdgeLabel
		}
		g.highestInLastCol.up = v
	}

	g.highestInLastCol = v
	v.minLabel = min4(v.labelLeft, v.labelBelowLeft, v.labelBelow, g.rightColumn)
}

func (g *Retrieving) advanceCandidateForLeft(row int) {
	for g.candidateForLeft != nil && g.candidateForLeft.row < row {
		g.candidateForBelowLeft = g.candidateForLeft
		g.candidateForLeft = g.candidateForLeft.up
	}
}

// DeleteColumn drops the leftmost column, releasing its vertices to the
// arena, and advances leftColumn by one.
func (g *Retrieving) DeleteColumn() {
	deletePtr := g.lowestPerColumn[0]
	g.lowestPerColumn = g.lowestPerColumn[1:]
	for deletePtr != nil {
		next := deletePtr.up
		g.pool.release(deletePtr)
		deletePtr = next
	}
	g.leftColumn++
}

// AdvanceLeftColumnToRight collapses the sweep, releasing every column
// except the rightmost.
func (g *Retrieving) AdvanceLeftColumnToRight() {
	for len(g.lowestPerColumn) > 1 {
		deletePtr := g.lowestPerColumn[0]
		g.lowestPerColumn = g.lowestPerColumn[1:]
		for deletePtr != nil {
			next := deletePtr.up
			g.pool.release(deletePtr)
			deletePtr = next
		}
	}
	g.leftColumn = g.rightColumn
}

// QuerySubtrajectoriesRespectingIDs extracts disjoint members from the
// current sweep into out, stopping once maxMembers are found (pass
// math.MaxInt for no cap). Members are appended top-down (descending first
// row); the reference [leftColumn, rightColumn] is always pushed last.
func (g *Retrieving) QuerySubtrajectoriesRespectingIDs(store *trajectory.Store, out *trajectory.Cluster, maxMembers int) {
	startVertex := g.highestInLastCol
	var endVertex *vertex
	nextRow := startVertex.row

	for {
		for {
			if store.GetID(startVertex.row) == trajectory.DeletedID {
				nextRow--
			}
			startVertex = g.findEligibleRow(startVertex, nextRow)
			if startVertex == nil || store.GetID(startVertex.row) != trajectory.DeletedID {
				break
			}
		}
		if startVertex == nil {
			break
		}

		var candidate trajectory.Subtrajectory
		success, nextRowC, nextEndVertex := g.extractTrajectoryRespectingIDs(store, startVertex, &candidate)
		nextRow = nextRowC
		if success {
			if endVertex != nil {
				g.optimizeInLeftColumn(store, out.Back(), endVertex, startVertex)
			}
			endVertex = nextEndVertex
			nextRow = candidate.A - 1
			out.PushBack(candidate)
			if candidate.A == 0 || out.Size() >= maxMembers {
				break
			}
		}
		if nextRow == startVertex.row {
			if nextRow == 0 {
				break
			}
			nextRow--
		}
	}
	if endVertex != nil {
		g.optimizeInLeftColumn(store, out.Back(), endVertex, nil)
	}
	ref := trajectory.Subtrajectory{A: g.leftColumn, B: g.rightColumn}
	out.PushBack(ref)
	out.SetReference(ref)
}

// findEligibleRow walks down via below pointers until finding a vertex whose
// row is at most belowThis and which is reachable from leftColumn.
func (g *Retrieving) findEligibleRow(cur *vertex, belowThis int) *vertex {
	v := cur
	for v != nil && (v.row > belowThis || v.minLabel > g.leftColumn) {
		v = v.below
	}
	return v
}

// extractTrajectoryRespectingIDs walks toward the left column from
// startVertex, preferring left, then below-left, then below edges whose
// label reaches leftColumn. Returns false if the walk re-enters the
// reference band [leftColumn, rightColumn] or crosses a trajectory-id
// boundary.
func (g *Retrieving) extractTrajectoryRespectingIDs(store *trajectory.Store, startVertex *vertex, candidate *trajectory.Subtrajectory) (success bool, nextRow int, outVertex *vertex) {
	if g.leftColumn <= startVertex.row && startVertex.row <= g.rightColumn {
		return false, g.leftColumn, nil
	}
	currentColumnIdx := g.rightColumn
	candidate.A = startVertex.row
	candidate.B = startVertex.row
	for currentColumnIdx > g.leftColumn {
		switch {
		case startVertex.labelLeft <= g.leftColumn:
			currentColumnIdx--
			startVertex = startVertex.left
		case startVertex.labelBelowLeft <= g.leftColumn:
			currentColumnIdx--
			candidate.A--
			startVertex = startVertex.belowLeft
		case startVertex.labelBelow <= g.leftColumn:
			candidate.A--
			startVertex = startVertex.below
		}
		if g.leftColumn <= candidate.A && candidate.A <= g.rightColumn {
			return false, g.leftColumn, nil
		}
		if store.GetID(candidate.A) != store.GetID(candidate.B) {
			return false, candidate.B, nil
		}
	}
	return true, candidate.B, startVertex
}

// optimizeInLeftColumn extends sub's start index by walking further down
// within the leftmost column through rows of the same live id, without
// passing nextStartVertex's row or re-entering the reference band.
func (g *Retrieving) optimizeInLeftColumn(store *trajectory.Store, sub *trajectory.Subtrajectory, endVertex, nextStartVertex *vertex) {
	trajID := store.GetID(sub.A)
	for {
		sub.A--
		endVertex = endVertex.below
		if !((nextStartVertex == nil || sub.A > nextStartVertex.row) &&
			endVertex != nil && endVertex.row == sub.A &&
			store.GetID(sub.A) == trajID &&
			(sub.A < g.leftColumn || sub.A > g.rightColumn)) {
			break
		}
	}
	sub.A++
}

func min4(a, b, c, d int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	if d < m {
		m = d
	}
	return m
}
