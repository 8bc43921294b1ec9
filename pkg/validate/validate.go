// Package validate implements the non-overlap check (C10): no point index
// may be covered by more than one cluster member across an entire
// clustering.
package validate

import (
	"fmt"

	"github.com/azybler/pathlets/pkg/trajectory"
)

// Overlap records one index found covered by more than one member.
type Overlap struct {
	Index trajectory.Ix
}

// NoOverlap scans every member of every cluster and reports every index
// covered more than once. An empty result means the clustering is valid.
func NoOverlap(clusters []trajectory.Cluster) []Overlap {
	var covered []bool
	var overlaps []Overlap
	for _, cluster := range clusters {
		for _, sub := range cluster.Members {
			for i := sub.A; i <= sub.B; i++ {
				for i >= len(covered) {
					covered = append(covered, false)
				}
				if covered[i] {
					overlaps = append(overlaps, Overlap{Index: i})
				}
				covered[i] = true
			}
		}
	}
	return overlaps
}

// ValidateNoOverlap is NoOverlap plus a human-readable report on stderr-style
// output; returns true if any overlap was found.
func ValidateNoOverlap(clusters []trajectory.Cluster) (foundOverlap bool, report string) {
	overlaps := NoOverlap(clusters)
	if len(overlaps) == 0 {
		return false, ""
	}
	s := ""
	for _, o := range overlaps {
		s += fmt.Sprintf("found an overlap at vertex %d\n", o.Index)
	}
	return true, s
}
