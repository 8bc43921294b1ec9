package clustering

import (
	"testing"

	"github.com/azybler/pathlets/pkg/geom"
	"github.com/azybler/pathlets/pkg/rightstep"
	"github.com/azybler/pathlets/pkg/spatial"
)

func newTestAlgo(t *testing.T) *Algo {
	t.Helper()
	store := buildThreeCopies(t)
	index := spatial.NewIndex(store, geom.Euclidean2D)
	sqDistances := InitializeSqDistances(0.01, 1)
	cfg := Config{
		InitialMinPathletLength: 1,
		ClusterScanStep:         1,
		EfficacyFactors:         DefaultEfficacyFactors,
	}
	return New(store, index, geom.Euclidean2D, sqDistances, cfg)
}

func TestPerformMeansClusteringCoversTheStore(t *testing.T) {
	a := newTestAlgo(t)
	a.PerformMeansClustering()

	if len(a.GetClusters()) == 0 {
		t.Fatal("expected at least one pathlet from means clustering")
	}
	if uncovered := a.store.UncoveredFraction(a.GetClusters(), false); uncovered != 0 {
		t.Errorf("UncoveredFraction = %v, want 0 after exhaustive means clustering", uncovered)
	}
	if eff := a.ComputeMeansEfficacy(); eff < 0 {
		t.Errorf("ComputeMeansEfficacy = %v, want non-negative", eff)
	}
}

func TestPerformMeansClusteringMembersDoNotOverlap(t *testing.T) {
	a := newTestAlgo(t)
	a.PerformMeansClustering()

	seen := make(map[int]bool)
	for _, c := range a.GetClusters() {
		for _, m := range c.Members {
			for i := m.A; i <= m.B; i++ {
				if seen[i] {
					t.Fatalf("overlapping member coverage at index %d", i)
				}
				seen[i] = true
			}
		}
	}
}

func TestPerformCenterClusteringBBGLLPicksANonEmptyDistance(t *testing.T) {
	a := newTestAlgo(t)
	a.PerformCenterClustering(CenterBBGLL, rightstep.Config{})

	if len(a.GetClusters()) == 0 {
		t.Fatal("expected at least one pathlet from center clustering")
	}
	if eff := a.ComputeCenterEfficacy(); eff < 0 {
		t.Errorf("ComputeCenterEfficacy = %v, want non-negative", eff)
	}
}

func TestPerformCenterClusteringRightstepPicksANonEmptyDistance(t *testing.T) {
	a := newTestAlgo(t)
	a.PerformCenterClustering(CenterRightstep, rightstep.Config{TreeIntervalsOnly: false})

	if len(a.GetClusters()) == 0 {
		t.Fatal("expected at least one pathlet from rightstep center clustering")
	}
}

func TestFindBestClusterRightstepAndGammaWireIntoFixedDistanceClustering(t *testing.T) {
	store := buildThreeCopies(t)
	index := spatial.NewIndex(store, geom.Euclidean2D)
	f := NewFixedDistanceClustering(store, index, 0.01, geom.Euclidean2D)

	cluster, ok := f.FindBestClusterRightstep(rightstep.Config{CostPerPathlet: DefaultEfficacyFactors.C2 / DefaultEfficacyFactors.C1})
	if !ok {
		t.Fatal("expected a right-step candidate for three identical curves")
	}

	gamma := f.ComputeGamma(cluster, DefaultEfficacyFactors)
	if gamma < 0 {
		t.Fatalf("ComputeGamma = %v, want non-negative", gamma)
	}

	before := cluster.Size()
	f.PruneInefficientSubtrajectories(&cluster, gamma, DefaultEfficacyFactors)
	if cluster.Size() > before {
		t.Errorf("pruning should never grow the member list: got %d, had %d", cluster.Size(), before)
	}
}
