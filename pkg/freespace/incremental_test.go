package freespace

import (
	"math"
	"testing"
)

func TestIncrementalAddZeroWithinSingleColumn(t *testing.T) {
	g := NewIncremental(0, false, 0)
	g.AddZero(0)
	g.AddZero(1)
	g.AddZero(2)

	want := []ivertex{
		{row: 0, highestLeftRow: 0, highestLeftRowBottom: 0},
		{row: 1, highestLeftRow: 1, highestLeftRowBottom: 0},
		{row: 2, highestLeftRow: 2, highestLeftRowBottom: 0},
	}
	if len(g.rightVertices) != len(want) {
		t.Fatalf("got %d vertices, want %d", len(g.rightVertices), len(want))
	}
	for i, w := range want {
		if g.rightVertices[i] != w {
			t.Errorf("vertex %d = %+v, want %+v", i, g.rightVertices[i], w)
		}
	}
}

func TestIncrementalAddZeroUnreachableDropped(t *testing.T) {
	g := NewIncremental(0, false, 0)
	g.AddZero(0)
	g.NewColumn()
	// Row 5 has no left-column neighbor at row 4 or 5: unreachable, dropped.
	g.AddZero(5)
	if len(g.rightVertices) != 0 {
		t.Fatalf("expected unreachable zero to be dropped, got %+v", g.rightVertices)
	}
}

func TestIncrementalAddZeroReachableViaLeftColumn(t *testing.T) {
	g := NewIncremental(0, false, 0)
	g.AddZero(3)
	g.NewColumn()
	g.AddZero(3) // same row as the left-column vertex: reachable.
	if len(g.rightVertices) != 1 {
		t.Fatalf("expected one reachable vertex, got %+v", g.rightVertices)
	}
	if g.rightVertices[0].highestLeftRow != 3 {
		t.Errorf("highestLeftRow = %d, want 3", g.rightVertices[0].highestLeftRow)
	}
}

func TestComputeCoveragePerCostMonotonicity(t *testing.T) {
	g := NewIncremental(0, false, 2)
	g.pathletWeights = []int{5, 3, 1}

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

	prev := true
	for gamma := 0.0; gamma <= 10; gamma += 0.25 {
		cur := feasible(gamma)
		if cur && !prev {
			t.Fatalf("feasibility not monotone non-increasing at gamma=%v", gamma)
		}
		prev = cur
	}

	gamma := g.computeCoveragePerCost()
	if gamma < 0 || math.IsNaN(gamma) {
		t.Fatalf("computeCoveragePerCost = %v, want a finite non-negative value", gamma)
	}
}

func TestComputeCoveragePerCostDisabledWhenCostIsZero(t *testing.T) {
	g := NewIncremental(0, false, 0)
	g.pathletWeights = []int{5, 3, 1}
	if got := g.computeCoveragePerCost(); got != -1 {
		t.Errorf("computeCoveragePerCost with costPerPathlet=0 = %v, want -1", got)
	}
}
