package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/azybler/pathlets/pkg/clustering"
	"github.com/azybler/pathlets/pkg/geom"
	"github.com/azybler/pathlets/pkg/rightstep"
	"github.com/azybler/pathlets/pkg/spatial"
	"github.com/azybler/pathlets/pkg/trajectory"
	"github.com/azybler/pathlets/pkg/trajfile"
	"github.com/azybler/pathlets/pkg/validate"
)

func main() {
	minDistance := flag.Float64("distance_min", -1, "Minimum distance for the clustering ladder (-1 auto-computes from the radius index)")
	maxDistance := flag.Float64("distance_max", -1, "Maximum distance for the clustering ladder (-1 auto-computes from the radius index)")
	c1 := flag.Float64("c1", 1, "Efficacy factor: cost per cluster")
	c2 := flag.Float64("c2", 0.005, "Efficacy factor: cost per unit of Frechet distance")
	c3 := flag.Float64("c3", 1, "Efficacy factor: cost per unit of uncovered fraction")
	pathletLength := flag.Int("pathlet_length", 0, "Initial minimum length of pathlets (center mode, bbgll algorithm only)")
	scanStep := flag.Int("step", 1, "How many sizes to skip when scanning for the best cluster at a fixed distance")
	ignorePointClusters := flag.Bool("ignore_point_clusters", false, "Treat points in point clusters as unclustered when computing efficacy")
	mode := flag.String("mode", "means", "Which clustering objective to use: means or center")
	algorithm := flag.String("algorithm", "bbgll", "Per-distance routine to use: bbgll or rightstep")
	allIntervals := flag.Bool("all_intervals", false, "Right-step: consider all intervals instead of the tree-structured subset")
	simplifyFactor := flag.Float64("simplify", 0, "Right-step: curve simplification factor in [0, 1)")
	preferSmall := flag.Bool("prefer_small_subtrajectories", false, "Right-step: bias merges toward more, shorter members")
	timestamps := flag.Bool("timestamps", false, "Read the \"id t x y\" input form instead of \"x y id\"")
	output := flag.String("output", "", "Output file path (default stdout)")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: cluster [flags] <input-file>")
		flag.PrintDefaults()
		os.Exit(1)
	}
	input := flag.Arg(0)

	f, err := os.Open(input)
	if err != nil {
		log.Fatalf("Failed to open input file: %v", err)
	}
	defer f.Close()

	var store = mustLoad(f, *timestamps)
	log.Printf("Loaded %s: %d points, %d trajectories", filepath.Base(input), store.TotalSize(), store.NumTrajectories())
	if !store.IsSortedByID() {
		log.Fatalf("Input trajectory ids are not sorted non-decreasing")
	}

	sq := geom.Euclidean2D
	index := spatial.NewIndex(store, sq)

	lo, hi := *minDistance, *maxDistance
	if lo < 0 || hi < 0 {
		autoMin, autoMax := clustering.ComputeMinMaxSqDistance(store, index)
		if lo < 0 {
			lo = autoMin
		} else {
			lo *= lo
		}
		if hi < 0 {
			hi = autoMax
		} else {
			hi *= hi
		}
	} else {
		lo, hi = lo*lo, hi*hi
	}
	if lo > hi {
		log.Fatalf("Minimum distance %v exceeds maximum distance %v; refusing to proceed", lo, hi)
	}
	sqDistances := clustering.InitializeSqDistances(lo, hi)
	log.Printf("Using %d distances", len(sqDistances))

	cfg := clustering.Config{
		InitialMinPathletLength: *pathletLength,
		ClusterScanStep:         *scanStep,
		EfficacyFactors: clustering.EfficacyFactors{
			C1: *c1, C2: *c2, C3: *c3,
			IgnorePointClusters: *ignorePointClusters,
		},
	}
	algo := clustering.New(store, index, sq, sqDistances, cfg)

	// Center mode always clusters at zero cost per pathlet (it maximizes
	// coverage directly); PerformClusteringRightstep enforces this itself.
	rsConfig := rightstep.Config{
		TreeIntervalsOnly:          !*allIntervals,
		CurveSimplificationFactor:  *simplifyFactor,
		PreferSmallSubtrajectories: *preferSmall,
	}

	start := time.Now()
	var efficacy float64
	switch strings.ToLower(*mode) {
	case "means":
		algo.PerformMeansClustering()
		efficacy = algo.ComputeMeansEfficacy()
	case "center":
		variant := clustering.CenterBBGLL
		if strings.ToLower(*algorithm) == "rightstep" {
			variant = clustering.CenterRightstep
		}
		algo.PerformCenterClustering(variant, rsConfig)
		efficacy = algo.ComputeCenterEfficacy()
	default:
		log.Fatalf("Unknown mode %q: expected means or center", *mode)
	}
	elapsed := time.Since(start)
	log.Printf("Clustering done in %s, efficacy %v", elapsed.Round(time.Millisecond), efficacy)

	clusters := algo.GetClusters()
	if foundOverlap, report := validate.ValidateNoOverlap(clusters); foundOverlap {
		log.Printf("validation failed:\n%s", report)
	}

	out := os.Stdout
	if *output != "" {
		w, err := os.Create(*output)
		if err != nil {
			log.Fatalf("Failed to open output file: %v", err)
		}
		defer w.Close()
		out = w
	}

	algorithmLine := fmt.Sprintf("%s %v %v %v %v", *mode, *pathletLength, lo, hi, *scanStep)
	if err := trajfile.WriteClustering(out, store, filepath.Base(input), algorithmLine, elapsed.Seconds(), clusters); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}
}

func mustLoad(f *os.File, timestamps bool) *trajectory.Store {
	var (
		store *trajectory.Store
		err   error
	)
	if timestamps {
		store, err = trajfile.ReadIDTXY(f)
	} else {
		store, err = trajfile.ReadXYID(f)
	}
	if err != nil {
		log.Fatalf("Failed to read input trajectory: %v", err)
	}
	return store
}
