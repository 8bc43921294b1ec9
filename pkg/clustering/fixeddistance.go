package clustering

import (
	"math"

	"github.com/azybler/pathlets/pkg/bbgll"
	"github.com/azybler/pathlets/pkg/geom"
	"github.com/azybler/pathlets/pkg/rightstep"
	"github.com/azybler/pathlets/pkg/simplify"
	"github.com/azybler/pathlets/pkg/spatial"
	"github.com/azybler/pathlets/pkg/trajectory"
)

// FixedDistanceClustering greedily covers a trajectory store with clusters at
// a single fixed squared distance, using either the BBGLL or the right-step
// per-distance routine. It owns a private store/index pair so it can run
// concurrently with clusterings at other distances.
type FixedDistanceClustering struct {
	store      *trajectory.Store
	index      *spatial.Index
	sqDistance float64
	sq         geom.SqDist

	clusters []trajectory.Cluster
}

// NewFixedDistanceClustering starts a fixed-distance clustering over store
// and index (mutated in place as clusters are established, so pass clones
// when fanning out across a distance ladder).
func NewFixedDistanceClustering(store *trajectory.Store, index *spatial.Index, sqDistance float64, sq geom.SqDist) *FixedDistanceClustering {
	return &FixedDistanceClustering{store: store, index: index, sqDistance: sqDistance, sq: sq}
}

// EstablishCluster records cluster as final output and tombstones the points
// it covers, in both the store and the radius index.
func (f *FixedDistanceClustering) EstablishCluster(cluster trajectory.Cluster) {
	f.clusters = append(f.clusters, cluster)
	ErasePointsInCluster(f.store, f.index, cluster)
}

// PerformClusteringBBGLL greedily covers the store using the BBGLL routine:
// repeatedly find the maximum-cardinality cluster at minPathletLength (or
// shorter, if none exists), establishing each until the store is empty.
func (f *FixedDistanceClustering) PerformClusteringBBGLL(initialMinPathletLength, clusterScanStep int) {
	minPathletLength := initialMinPathletLength
	for f.store.ActualSize() > 0 {
		routine := bbgll.New(f.store, f.index)
		cluster, ok := findBestClusterAtFixedDistanceBBGLL(routine, f.sqDistance, minPathletLength, clusterScanStep)
		if !ok {
			minPathletLength--
			continue
		}
		f.EstablishCluster(cluster)
	}
}

// PerformClusteringRightstep greedily covers the store using the right-step
// routine, re-deriving a fresh Routine from the current (shrinking) store on
// every iteration since right-step sweep state doesn't tolerate deletion
// mid-sweep. This is the k-center driver: it maximizes coverage directly, so
// it always clusters at zero cost per pathlet regardless of what config
// carries in.
func (f *FixedDistanceClustering) PerformClusteringRightstep(config rightstep.Config) {
	config.CostPerPathlet = 0
	for f.store.ActualSize() > 0 {
		cluster, ok := f.FindBestClusterRightstep(config)
		if !ok || cluster.Size() == 0 {
			break
		}
		f.EstablishCluster(cluster)
	}
}

// FindBestClusterRightstep finds (without establishing) the best cluster at
// this distance using the right-step routine. It is the earliest point at
// which the distance is fixed, so config.CostPerPathlet is scaled by the
// unsquared distance here, matching the k-means driver's "cost per
// additional member" semantics.
func (f *FixedDistanceClustering) FindBestClusterRightstep(config rightstep.Config) (trajectory.Cluster, bool) {
	config.CostPerPathlet *= math.Sqrt(f.sqDistance)
	if f.store.ActualSize() == 0 {
		return trajectory.Cluster{}, false
	}
	if config.CurveSimplificationFactor == 0 {
		routine := rightstep.New(f.store, onesWeights(f.store.TotalSize()), f.index, config)
		return routine.FindBestCluster(f.sqDistance), true
	}

	simplified := simplify.Build(f.store, f.sqDistance, config.CurveSimplificationFactor, f.sq)
	simplifiedIndex := spatial.NewIndex(simplified.Store, f.sq)
	simplifiedRoutine := rightstep.New(simplified.Store, simplified.Weight, simplifiedIndex, config)
	downstreamSq := simplify.DownstreamSqDistance(f.sqDistance, config.CurveSimplificationFactor)
	candidate, ok := simplifiedRoutine.FindBestClusterCandidate(downstreamSq)
	if !ok {
		return trajectory.Cluster{}, false
	}

	unsimplified := simplified.Unsimplify(trajectory.Subtrajectory{A: candidate.LeftColumn, B: candidate.RightColumn})
	candidate.LeftColumn, candidate.RightColumn = unsimplified.A, unsimplified.B

	routine := rightstep.New(f.store, onesWeights(f.store.TotalSize()), f.index, config)
	return routine.ClusterFromCandidate(f.sqDistance, candidate), true
}

func onesWeights(n int) []int {
	w := make([]int, n)
	for i := range w {
		w[i] = 1
	}
	return w
}

// ComputeGamma delegates to the shared gamma computation for cluster.
func (f *FixedDistanceClustering) ComputeGamma(cluster trajectory.Cluster, factors EfficacyFactors) float64 {
	return ComputeGamma(f.store, f.sq, cluster, factors)
}

// PruneInefficientSubtrajectories delegates to the shared member-pruning pass
// at the given gamma threshold.
func (f *FixedDistanceClustering) PruneInefficientSubtrajectories(cluster *trajectory.Cluster, gamma float64, factors EfficacyFactors) {
	PruneInefficientSubtrajectories(f.store, f.sq, cluster, gamma, factors)
}

// DropInefficientClustersMeans removes any established cluster whose
// contribution to the means efficacy is worse than leaving its points
// unclustered.
func (f *FixedDistanceClustering) DropInefficientClustersMeans(factors EfficacyFactors) {
	f.dropInefficientClusters(factors, ComputeEfficacyMeans)
}

// DropInefficientClustersCenter is DropInefficientClustersMeans for the
// center score, heuristically zeroing c2 (dropping one cluster is assumed
// not to change the global max distance).
func (f *FixedDistanceClustering) DropInefficientClustersCenter(factors EfficacyFactors) {
	factors.C2 = 0
	f.dropInefficientClusters(factors, ComputeEfficacyCenter)
}

func (f *FixedDistanceClustering) dropInefficientClusters(factors EfficacyFactors, efficacy func(*trajectory.Store, geom.SqDist, []trajectory.Cluster, EfficacyFactors) float64) {
	scoreEmpty := efficacy(f.store, f.sq, nil, factors)
	kept := f.clusters[:0]
	for _, c := range f.clusters {
		scoreUsed := efficacy(f.store, f.sq, []trajectory.Cluster{c}, factors)
		if scoreUsed <= scoreEmpty {
			kept = append(kept, c)
		}
	}
	f.clusters = kept
}

// GetClusters returns the clusters established so far.
func (f *FixedDistanceClustering) GetClusters() []trajectory.Cluster { return f.clusters }

// CountRemainingPoints is the number of live points left in the store.
func (f *FixedDistanceClustering) CountRemainingPoints() int { return f.store.ActualSize() }

// SqDistance is the fixed squared distance this clustering runs at.
func (f *FixedDistanceClustering) SqDistance() float64 { return f.sqDistance }
