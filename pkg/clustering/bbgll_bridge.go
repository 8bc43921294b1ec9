package clustering

import (
	"github.com/azybler/pathlets/pkg/bbgll"
	"github.com/azybler/pathlets/pkg/trajectory"
)

// findBestClusterAtFixedDistanceBBGLL finds the best cluster at sqDistance
// among maximum-cardinality clusters of length minPathletLength: first
// establishes the achievable cardinality M at that length, then scans
// candidate target sizes from M down to 1 in steps of max(1, M/scanStep),
// keeping the one covering the most vertices. Returns false if no cluster of
// minPathletLength exists at all (the caller should retry with a shorter
// length).
func findBestClusterAtFixedDistanceBBGLL(routine *bbgll.Routine, sqDistance float64, minPathletLength, scanStep int) (trajectory.Cluster, bool) {
	maxSizeCluster := routine.FindMaxCardinalityClusterOfFixedLength(minPathletLength, sqDistance)
	maxSize := maxSizeCluster.Size()
	if maxSize == 0 {
		return trajectory.Cluster{}, false
	}

	sizeDiff := maxSize / scanStep
	if sizeDiff < 1 {
		sizeDiff = 1
	}

	var best trajectory.Cluster
	bestCover := 0
	for m := maxSize; m > 0; {
		temp := routine.FindLongestClusterOfTargetSizeByCardinality(m, sqDistance)
		if cover := temp.NumberOfVertices(); cover > bestCover {
			best = temp
			bestCover = cover
		}
		if m <= sizeDiff {
			m = 0
		} else {
			m -= sizeDiff
		}
	}
	return best, true
}
