// Package clustering implements the greedy pathlet-clustering driver (C9):
// a distance ladder, the k-means and k-center objectives, and the gamma
// threshold used to prune cluster members that aren't worth their distance.
package clustering

import (
	"math"

	"github.com/azybler/pathlets/pkg/frechet"
	"github.com/azybler/pathlets/pkg/geom"
	"github.com/azybler/pathlets/pkg/trajectory"
)

// EfficacyFactors weights the terms of a clustering's efficacy score: C1 per
// cluster, C2 per unit of evaluated Frechet distance, C3 per unit of
// uncovered fraction.
type EfficacyFactors struct {
	C1, C2, C3          float64
	IgnorePointClusters bool
}

// DefaultEfficacyFactors matches the original CLI's defaults.
var DefaultEfficacyFactors = EfficacyFactors{C1: 1, C2: 0.005, C3: 1}

// Accumulator combines per-cluster evaluation scores.
type Accumulator func(a, b float64) float64

// MaxAccum yields the k-center score when used to accumulate per-cluster
// evaluations.
func MaxAccum(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// PlusAccum yields the k-means score when used to accumulate per-cluster
// evaluations.
func PlusAccum(a, b float64) float64 { return a + b }

// OneFrechetDistance is the unsquared discrete Fréchet distance between
// reference and covered, computed with the two-row DP. Identical ranges
// short-circuit to 0 to dodge floating point noise.
func OneFrechetDistance(store *trajectory.Store, sq geom.SqDist, reference, covered trajectory.Subtrajectory) float64 {
	if reference == covered {
		return 0
	}
	p := frechet.Slice(store.Points(reference))
	q := frechet.Slice(store.Points(covered))
	return math.Sqrt(frechet.SqLight(p, q, sq))
}

// Eval scores a single cluster: the accumulation (by accum) of the distance
// from every member to the cluster's reference.
func Eval(store *trajectory.Store, sq geom.SqDist, cluster trajectory.Cluster, accum Accumulator) float64 {
	result := 0.0
	for _, m := range cluster.Members {
		result = accum(result, OneFrechetDistance(store, sq, cluster.Reference, m))
	}
	return result
}

// ComputeEfficacy scores a whole clustering: c1*(#clusters) + c2*accum(evals)
// + c3*(uncovered fraction). When IgnorePointClusters is set, clusters whose
// reference is a single point don't contribute a cluster count or eval, and
// their members count as uncovered.
func ComputeEfficacy(store *trajectory.Store, sq geom.SqDist, clusters []trajectory.Cluster, factors EfficacyFactors, accum Accumulator) float64 {
	evalResult := 0.0
	numClusters := 0
	for _, c := range clusters {
		if factors.IgnorePointClusters && c.Reference.IsPoint() {
			continue
		}
		numClusters++
		evalResult = accum(evalResult, Eval(store, sq, c, accum))
	}
	uncovered := store.UncoveredFraction(clusters, factors.IgnorePointClusters)
	return factors.C1*float64(numClusters) + factors.C2*evalResult + factors.C3*uncovered
}

// ComputeEfficacyCenter is ComputeEfficacy with the max accumulator (k-center).
func ComputeEfficacyCenter(store *trajectory.Store, sq geom.SqDist, clusters []trajectory.Cluster, factors EfficacyFactors) float64 {
	return ComputeEfficacy(store, sq, clusters, factors, MaxAccum)
}

// ComputeEfficacyMeans is ComputeEfficacy with the sum accumulator (k-means).
func ComputeEfficacyMeans(store *trajectory.Store, sq geom.SqDist, clusters []trajectory.Cluster, factors EfficacyFactors) float64 {
	return ComputeEfficacy(store, sq, clusters, factors, PlusAccum)
}

// subtrajectoryScoreDelta is a member's net contribution at threshold gamma:
// its coverage share minus gamma times its weighted distance cost.
func subtrajectoryScoreDelta(store *trajectory.Store, member trajectory.Subtrajectory, frechetDist, gamma float64, factors EfficacyFactors) float64 {
	coverage := float64(member.B-member.A+1) / float64(store.TotalSize())
	return coverage - gamma*factors.C2*frechetDist
}

// ComputeGamma binary-searches the threshold gamma at which
// sum(max(0, score_delta_i(gamma))) == gamma*C1, the break-even point beyond
// which keeping every member stops paying for the cluster itself.
func ComputeGamma(store *trajectory.Store, sq geom.SqDist, cluster trajectory.Cluster, factors EfficacyFactors) float64 {
	distances := make([]float64, len(cluster.Members))
	for i, m := range cluster.Members {
		distances[i] = OneFrechetDistance(store, sq, cluster.Reference, m)
	}
	coverageDistanceScore := func(gamma float64) float64 {
		score := 0.0
		for i, m := range cluster.Members {
			if delta := subtrajectoryScoreDelta(store, m, distances[i], gamma, factors); delta > 0 {
				score += delta
			}
		}
		return score
	}

	l, r := 0.0, 1.0
	for it := 0; it < 50 && coverageDistanceScore(r) >= r*factors.C1; it++ {
		r *= 2
	}
	for it := 0; it < 100; it++ {
		step := r - l
		m := l + step/2
		if coverageDistanceScore(m) >= m*factors.C1 {
			l += step * 0.4
		} else {
			r -= step * 0.4
		}
	}
	return r
}

// PruneInefficientSubtrajectories drops members whose score delta at gamma is
// negative: they cost more (in distance) than their coverage is worth.
func PruneInefficientSubtrajectories(store *trajectory.Store, sq geom.SqDist, cluster *trajectory.Cluster, gamma float64, factors EfficacyFactors) {
	kept := cluster.Members[:0]
	for _, m := range cluster.Members {
		d := OneFrechetDistance(store, sq, cluster.Reference, m)
		if subtrajectoryScoreDelta(store, m, d, gamma, factors) >= 0 {
			kept = append(kept, m)
		}
	}
	cluster.Members = kept
}

// ErasePointsInCluster tombstones every point covered by cluster, in both the
// trajectory store and the radius index.
func ErasePointsInCluster(store *trajectory.Store, index RadiusIndex, cluster trajectory.Cluster) {
	for _, m := range cluster.Members {
		store.DeleteSubtrajectory(m)
		for idx := m.A; idx <= m.B; idx++ {
			index.Delete(idx)
		}
	}
}

// RadiusIndex is the C2 contract this package depends on for deletion and
// distance-ladder bootstrapping.
type RadiusIndex interface {
	Search(i trajectory.Ix, sqRadius float64) []trajectory.Ix
	Delete(i trajectory.Ix)
	NearestAndFarthest(i trajectory.Ix) (nearest, farthest float64, ok bool)
}

// ComputeMinMaxSqDistance scans every live point's nearest and farthest
// neighbor to bound the distance ladder.
func ComputeMinMaxSqDistance(store *trajectory.Store, index RadiusIndex) (minDistance, maxDistance float64) {
	minDistance = math.Inf(1)
	for idx := 0; idx < store.TotalSize(); idx++ {
		nn, fn, ok := index.NearestAndFarthest(idx)
		if !ok {
			continue
		}
		if nn > 0 && nn < minDistance {
			minDistance = nn
		}
		if fn > maxDistance {
			maxDistance = fn
		}
	}
	return minDistance, maxDistance
}

// InitializeSqDistances builds the geometric distance ladder: squared
// distances starting at minDistance and growing by 4x (2x unsquared) until
// maxDistance is reached.
func InitializeSqDistances(minDistance, maxDistance float64) []float64 {
	var distances []float64
	for d := minDistance; d < maxDistance; d *= 4 {
		distances = append(distances, d)
	}
	return distances
}
