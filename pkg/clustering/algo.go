package clustering

import (
	"math"
	"sync"

	"github.com/azybler/pathlets/pkg/geom"
	"github.com/azybler/pathlets/pkg/rightstep"
	"github.com/azybler/pathlets/pkg/spatial"
	"github.com/azybler/pathlets/pkg/trajectory"
)

// CenterVariant selects which per-distance routine the center loop uses.
type CenterVariant int

const (
	CenterBBGLL CenterVariant = iota
	CenterRightstep
)

// Config holds the tunables of the greedy driver that don't vary per
// distance.
type Config struct {
	InitialMinPathletLength int
	ClusterScanStep         int
	EfficacyFactors         EfficacyFactors
}

// Algo is the top-level greedy clustering driver (C9): it owns the original
// trajectory store and radius index, a precomputed distance ladder, and runs
// either the means or the center loop over it.
type Algo struct {
	store       *trajectory.Store
	index       *spatial.Index
	sq          geom.SqDist
	sqDistances []float64
	cfg         Config

	pathlets []trajectory.Cluster
}

// New returns an Algo over store/index, clustering at every distance in
// sqDistances (ascending, as produced by InitializeSqDistances).
func New(store *trajectory.Store, index *spatial.Index, sq geom.SqDist, sqDistances []float64, cfg Config) *Algo {
	return &Algo{
		store:       store,
		index:       index,
		sq:          sq,
		sqDistances: sqDistances,
		cfg:         cfg,
	}
}

// PerformMeansClustering runs the greedy means loop: at every iteration,
// every distance in the ladder proposes its best right-step candidate and
// its gamma (the coverage-per-distance break-even threshold) concurrently;
// the candidate with the highest gamma wins, has its inefficient members
// pruned at that gamma, and is established on every per-distance worker's
// private state, keeping them in lockstep for the next iteration.
func (a *Algo) PerformMeansClustering() {
	workers := make([]*FixedDistanceClustering, len(a.sqDistances))
	for i, d := range a.sqDistances {
		workers[i] = NewFixedDistanceClustering(a.store.Clone(), a.index.Clone(), d, a.sq)
	}

	// The distance isn't fixed yet, so FindBestClusterRightstep scales this
	// by sqrt(distance) once it is.
	rsConfig := rightstep.Config{CostPerPathlet: a.cfg.EfficacyFactors.C2 / a.cfg.EfficacyFactors.C1}

	for workers[0].CountRemainingPoints() > 0 {
		candidates := make([]trajectory.Cluster, len(workers))
		gammas := make([]float64, len(workers))
		oks := make([]bool, len(workers))

		var wg sync.WaitGroup
		for i, w := range workers {
			wg.Add(1)
			go func(i int, w *FixedDistanceClustering) {
				defer wg.Done()
				cluster, ok := w.FindBestClusterRightstep(rsConfig)
				if !ok {
					return
				}
				candidates[i] = cluster
				gammas[i] = w.ComputeGamma(cluster, a.cfg.EfficacyFactors)
				oks[i] = true
			}(i, w)
		}
		wg.Wait()

		// Pick best cluster as in Section 4.3 of Agarwal et al., 2018: the
		// distance whose candidate has the highest gamma.
		bestIdx := -1
		for i, ok := range oks {
			if !ok {
				continue
			}
			if bestIdx < 0 || gammas[i] > gammas[bestIdx] {
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			break
		}

		best := candidates[bestIdx]
		workers[bestIdx].PruneInefficientSubtrajectories(&best, gammas[bestIdx], a.cfg.EfficacyFactors)
		// On very dense data sets, floating point inaccuracy can empty the
		// cluster; the remaining points are better left unclustered.
		if best.Size() == 0 {
			break
		}

		for _, w := range workers {
			w.EstablishCluster(best)
		}
	}

	// All workers hold the same clustering; use any one of them.
	workers[0].DropInefficientClustersMeans(a.cfg.EfficacyFactors)
	a.pathlets = workers[0].GetClusters()
}

// PerformCenterClustering clusters each distance in the ladder to exhaustion
// concurrently (each against its own store/index clone), drops
// inefficient clusters from each result, then keeps whichever distance's
// clustering minimizes the full center efficacy.
func (a *Algo) PerformCenterClustering(variant CenterVariant, rsConfig rightstep.Config) {
	clusterers := make([]*FixedDistanceClustering, len(a.sqDistances))
	for i, d := range a.sqDistances {
		clusterers[i] = NewFixedDistanceClustering(a.store.Clone(), a.index.Clone(), d, a.sq)
	}

	var wg sync.WaitGroup
	for _, c := range clusterers {
		wg.Add(1)
		go func(c *FixedDistanceClustering) {
			defer wg.Done()
			switch variant {
			case CenterRightstep:
				c.PerformClusteringRightstep(rsConfig)
			default:
				c.PerformClusteringBBGLL(a.cfg.InitialMinPathletLength, a.cfg.ClusterScanStep)
			}
			c.DropInefficientClustersCenter(a.cfg.EfficacyFactors)
		}(c)
	}
	wg.Wait()

	bestEfficacy := math.Inf(1)
	bestIdx := 0
	for i, c := range clusterers {
		eff := ComputeEfficacyCenter(a.store, a.sq, c.GetClusters(), a.cfg.EfficacyFactors)
		if eff < bestEfficacy {
			bestEfficacy = eff
			bestIdx = i
		}
	}
	a.pathlets = clusterers[bestIdx].GetClusters()
}

// ComputeMeansEfficacy scores the final pathlets with the k-means accumulator.
func (a *Algo) ComputeMeansEfficacy() float64 {
	return ComputeEfficacyMeans(a.store, a.sq, a.pathlets, a.cfg.EfficacyFactors)
}

// ComputeCenterEfficacy scores the final pathlets with the k-center accumulator.
func (a *Algo) ComputeCenterEfficacy() float64 {
	return ComputeEfficacyCenter(a.store, a.sq, a.pathlets, a.cfg.EfficacyFactors)
}

// GetClusters returns the final pathlets.
func (a *Algo) GetClusters() []trajectory.Cluster { return a.pathlets }
