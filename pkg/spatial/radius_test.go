package spatial

import (
	"testing"

	"github.com/azybler/pathlets/pkg/geom"
	"github.com/azybler/pathlets/pkg/trajectory"
)

func buildGrid(t *testing.T) *trajectory.Store {
	t.Helper()
	s := trajectory.New()
	for i := 0; i < 5; i++ {
		if err := s.Push(geom.Point{float64(i), 0}, 0); err != nil {
			t.Fatalf("Push: %v", err)
		}
	}
	return s
}

func TestSearchReturnsSortedWithinRadius(t *testing.T) {
	store := buildGrid(t)
	idx := NewIndex(store, geom.Euclidean2D)

	got := idx.Search(2, 1) // radius 1 around x=2: indices 1,2,3
	want := []trajectory.Ix{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("Search = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Search = %v, want %v", got, want)
		}
	}
}

func TestSearchExcludesDeleted(t *testing.T) {
	store := buildGrid(t)
	idx := NewIndex(store, geom.Euclidean2D)
	idx.Delete(3)

	got := idx.Search(2, 1)
	for _, i := range got {
		if i == 3 {
			t.Fatalf("Search returned deleted index 3: %v", got)
		}
	}
}

func TestNearestAndFarthest(t *testing.T) {
	store := buildGrid(t)
	idx := NewIndex(store, geom.Euclidean2D)

	nearest, farthest, ok := idx.NearestAndFarthest(2)
	if !ok {
		t.Fatal("expected ok = true")
	}
	if nearest != 1 {
		t.Errorf("nearest sq dist = %v, want 1", nearest)
	}
	if farthest != 4 {
		t.Errorf("farthest sq dist = %v, want 4", farthest)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	store := buildGrid(t)
	idx := NewIndex(store, geom.Euclidean2D)
	clone := idx.Clone()
	clone.Delete(2)

	if got := idx.Search(2, 0); len(got) != 1 {
		t.Errorf("deleting from clone affected the original index: %v", got)
	}
	if got := clone.Search(1, 1); len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Errorf("clone Search after delete = %v, want [0 1] (index 2 removed)", got)
	}
}
