package clustering

import (
	"testing"

	"github.com/azybler/pathlets/pkg/bbgll"
	"github.com/azybler/pathlets/pkg/geom"
	"github.com/azybler/pathlets/pkg/spatial"
)

func TestFindBestClusterAtFixedDistanceBBGLLScansDownFromMaxSize(t *testing.T) {
	store := buildThreeCopies(t)
	index := spatial.NewIndex(store, geom.Euclidean2D)
	routine := bbgll.New(store, index)

	cluster, ok := findBestClusterAtFixedDistanceBBGLL(routine, 0.01, 2, 1)
	if !ok {
		t.Fatal("expected a cluster for three identical length-2 curves")
	}
	if cluster.Size() != 3 {
		t.Errorf("cluster size = %d, want 3 (one member per copy)", cluster.Size())
	}
}

func TestFindBestClusterAtFixedDistanceBBGLLFailsWhenLengthUnreachable(t *testing.T) {
	store := buildThreeCopies(t)
	index := spatial.NewIndex(store, geom.Euclidean2D)
	routine := bbgll.New(store, index)

	// Each trajectory only has 3 points (length 2); asking for length 100
	// cannot be satisfied by any subtrajectory.
	_, ok := findBestClusterAtFixedDistanceBBGLL(routine, 0.01, 100, 1)
	if ok {
		t.Error("expected no cluster to be found at an unreachable pathlet length")
	}
}
