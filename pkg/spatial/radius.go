// Package spatial provides the radius-search contract (C2) that the
// clustering routines use to discover candidate columns. It wraps
// tidwall/rtree, keyed by point index rather than by coordinate so that
// coincident points remain distinguishable entries.
package spatial

import (
	"math"
	"sort"

	"github.com/tidwall/rtree"

	"github.com/azybler/pathlets/pkg/geom"
	"github.com/azybler/pathlets/pkg/trajectory"
)

// Index supports radius queries and deletion by point index over a live
// trajectory store.
type Index struct {
	tree   rtree.RTreeG[trajectory.Ix]
	points []geom.Point // points[i] is the coordinate of store index i, live or not
	live   []bool
	sq     geom.SqDist
}

// NewIndex builds a radius index over every point currently in store, using
// sq as the squared-distance function.
func NewIndex(store *trajectory.Store, sq geom.SqDist) *Index {
	idx := &Index{
		points: make([]geom.Point, store.TotalSize()),
		live:   make([]bool, store.TotalSize()),
		sq:     sq,
	}
	for i := 0; i < store.TotalSize(); i++ {
		p := store.Point(i)
		idx.points[i] = p
		if !store.IsDeleted(i) {
			idx.live[i] = true
			box := [2]float64{p[0], p[1]}
			idx.tree.Insert(box, box, i)
		}
	}
	return idx
}

// Clone deep-copies the index, used when the clustering driver fans a
// distance candidate out into its own private state.
func (idx *Index) Clone() *Index {
	clone := &Index{
		points: append([]geom.Point(nil), idx.points...),
		live:   append([]bool(nil), idx.live...),
		sq:     idx.sq,
	}
	for i, alive := range clone.live {
		if alive {
			box := [2]float64{clone.points[i][0], clone.points[i][1]}
			clone.tree.Insert(box, box, i)
		}
	}
	return clone
}

// Delete removes point index i from the index. A no-op if i was never
// present or already removed.
func (idx *Index) Delete(i trajectory.Ix) {
	if i < 0 || i >= len(idx.live) || !idx.live[i] {
		return
	}
	box := [2]float64{idx.points[i][0], idx.points[i][1]}
	idx.tree.Delete(box, box, i)
	idx.live[i] = false
}

// Search returns the indices of all live points within squared radius sqRadius
// of point i, sorted ascending.
func (idx *Index) Search(i trajectory.Ix, sqRadius float64) []trajectory.Ix {
	center := idx.points[i]
	r := radiusBound(sqRadius)
	min := [2]float64{center[0] - r, center[1] - r}
	max := [2]float64{center[0] + r, center[1] + r}

	var out []trajectory.Ix
	idx.tree.Search(min, max, func(_, _ [2]float64, j trajectory.Ix) bool {
		if idx.sq(center, idx.points[j]) <= sqRadius {
			out = append(out, j)
		}
		return true
	})
	sort.Ints(out)
	return out
}

// NearestAndFarthest returns the squared distance to the nearest and
// farthest live neighbor of point i (i excluded), used to auto-compute the
// distance ladder bounds. ok is false if no other live point exists.
func (idx *Index) NearestAndFarthest(i trajectory.Ix) (nearest, farthest float64, ok bool) {
	center := idx.points[i]
	nearest = -1
	for j, alive := range idx.live {
		if !alive || j == i {
			continue
		}
		d := idx.sq(center, idx.points[j])
		if nearest < 0 || d < nearest {
			nearest = d
		}
		if d > farthest {
			farthest = d
		}
		ok = true
	}
	return nearest, farthest, ok
}

func radiusBound(sqRadius float64) float64 {
	if sqRadius < 0 {
		return 0
	}
	return math.Sqrt(sqRadius)
}
