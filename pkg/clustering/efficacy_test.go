package clustering

import (
	"math"
	"testing"

	"github.com/azybler/pathlets/pkg/geom"
	"github.com/azybler/pathlets/pkg/trajectory"
)

func buildLine(t *testing.T, n int, id trajectory.Id) *trajectory.Store {
	t.Helper()
	s := trajectory.New()
	for i := 0; i < n; i++ {
		if err := s.Push(geom.Point{float64(i), 0}, id); err != nil {
			t.Fatalf("Push: %v", err)
		}
	}
	return s
}

func TestOneFrechetDistanceIdentity(t *testing.T) {
	store := buildLine(t, 5, 0)
	sub := trajectory.Subtrajectory{A: 0, B: 4}
	if got := OneFrechetDistance(store, geom.Euclidean2D, sub, sub); got != 0 {
		t.Errorf("OneFrechetDistance(sub, sub) = %v, want 0", got)
	}
}

func TestComputeEfficacyMeansSumsAcrossClusters(t *testing.T) {
	store := buildLine(t, 10, 0)
	ref := trajectory.Subtrajectory{A: 0, B: 1}
	clusters := []trajectory.Cluster{
		// member {0,1} is the reference itself (distance 0); member {2,3} is
		// a parallel-shifted segment two units over (distance 2).
		{Reference: ref, Members: []trajectory.Subtrajectory{{A: 0, B: 1}, {A: 2, B: 3}}},
	}
	factors := EfficacyFactors{C1: 1, C2: 1, C3: 1}
	got := ComputeEfficacyMeans(store, geom.Euclidean2D, clusters, factors)
	uncovered := store.UncoveredFraction(clusters, false)
	want := factors.C1*1 + factors.C2*2 + factors.C3*uncovered
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("ComputeEfficacyMeans = %v, want %v", got, want)
	}
}

func TestComputeEfficacyCenterUsesMax(t *testing.T) {
	store := buildLine(t, 10, 0)
	ref := trajectory.Subtrajectory{A: 0, B: 1}
	// Member distances to the reference are 0, 2 and 4: max is 4, sum is 6.
	clusters := []trajectory.Cluster{
		{Reference: ref, Members: []trajectory.Subtrajectory{{A: 0, B: 1}, {A: 2, B: 3}, {A: 4, B: 5}}},
	}
	factors := EfficacyFactors{C1: 1, C2: 1, C3: 0}
	got := ComputeEfficacyCenter(store, geom.Euclidean2D, clusters, factors)
	if got != 5 {
		t.Errorf("ComputeEfficacyCenter with one cluster and c3=0 = %v, want 1 + max(0, 2, 4) = 5", got)
	}
}

func TestInitializeSqDistancesQuadrupleGrowth(t *testing.T) {
	distances := InitializeSqDistances(1, 100)
	if len(distances) == 0 {
		t.Fatal("expected a non-empty ladder")
	}
	for i := 1; i < len(distances); i++ {
		if math.Abs(distances[i]-4*distances[i-1]) > 1e-9 {
			t.Errorf("distances[%d] = %v, want 4*distances[%d] = %v", i, distances[i], i-1, 4*distances[i-1])
		}
	}
	if distances[len(distances)-1] >= 100 {
		t.Errorf("ladder should stop before reaching the max: last = %v", distances[len(distances)-1])
	}
}

func TestComputeGammaReturnsNonNegative(t *testing.T) {
	store := buildLine(t, 10, 0)
	cluster := trajectory.Cluster{
		Reference: trajectory.Subtrajectory{A: 0, B: 1},
		Members:   []trajectory.Subtrajectory{{A: 0, B: 1}, {A: 2, B: 3}, {A: 4, B: 5}},
	}
	factors := DefaultEfficacyFactors
	gamma := ComputeGamma(store, geom.Euclidean2D, cluster, factors)
	if gamma < 0 || math.IsNaN(gamma) || math.IsInf(gamma, 0) {
		t.Errorf("ComputeGamma = %v, want a finite non-negative value", gamma)
	}
}

func TestPruneInefficientSubtrajectoriesKeepsAtLeastNonNegativeDelta(t *testing.T) {
	store := buildLine(t, 10, 0)
	cluster := trajectory.Cluster{
		Reference: trajectory.Subtrajectory{A: 0, B: 1},
		Members:   []trajectory.Subtrajectory{{A: 0, B: 1}, {A: 2, B: 3}},
	}
	factors := DefaultEfficacyFactors
	before := len(cluster.Members)
	PruneInefficientSubtrajectories(store, geom.Euclidean2D, &cluster, 0, factors)
	if len(cluster.Members) != before {
		t.Errorf("pruning at gamma 0 should keep every member (all deltas are positive): got %d, had %d", len(cluster.Members), before)
	}
}
