package trajectory

import (
	"errors"

	"github.com/azybler/pathlets/pkg/geom"
)

// ErrAlreadyDeleted is returned by DeletePoint when the point is already a
// tombstone.
var ErrAlreadyDeleted = errors.New("trajectory: point already deleted")

// ErrDeletedID is returned by Push when the caller tries to insert a live
// point carrying the reserved DeletedID.
var ErrDeletedID = errors.New("trajectory: cannot push a point with the deleted id")

const noPoint Ix = -1

// Store is a flat, append-only sequence of 2D points tagged with a
// trajectory id. Points are never physically removed: deletion tombstones
// the id slot so indices remain stable for the lifetime of the store.
type Store struct {
	points      []geom.Point
	ids         []Id
	originalIDs []Id

	trajectorySize    []int
	firstPointOfTraj  []Ix
	numDeletedOfTraj  []int

	actualSize int
}

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

// Push appends a point under the given trajectory id. Ids must arrive in
// non-decreasing order across live points; the store does not enforce this
// at push time (callers can check with IsSortedByID after loading).
func (s *Store) Push(p geom.Point, id Id) error {
	if id == DeletedID {
		return ErrDeletedID
	}
	s.points = append(s.points, p)
	s.ids = append(s.ids, id)
	s.originalIDs = append(s.originalIDs, id)
	s.actualSize++

	for int(id) >= len(s.trajectorySize) {
		s.trajectorySize = append(s.trajectorySize, 0)
		s.firstPointOfTraj = append(s.firstPointOfTraj, noPoint)
		s.numDeletedOfTraj = append(s.numDeletedOfTraj, 0)
	}
	s.trajectorySize[id]++
	if s.firstPointOfTraj[id] == noPoint {
		s.firstPointOfTraj[id] = len(s.ids) - 1
	}
	return nil
}

// Point returns the coordinate stored at index i.
func (s *Store) Point(i Ix) geom.Point { return s.points[i] }

// Points returns the coordinates of sub, inclusive of both endpoints.
func (s *Store) Points(sub Subtrajectory) []geom.Point { return s.points[sub.A : sub.B+1] }

// GetID returns the (possibly DeletedID) id at index i.
func (s *Store) GetID(i Ix) Id { return s.ids[i] }

// OriginalID returns the id index i was pushed with, even if it has since
// been tombstoned. Used to attribute coverage statistics to the original
// trajectory.
func (s *Store) OriginalID(i Ix) Id { return s.originalIDs[i] }

// IsDeleted reports whether index i is a tombstone.
func (s *Store) IsDeleted(i Ix) bool { return s.ids[i] == DeletedID }

// IndexInTrajectory returns the position of index i within its own
// trajectory. Only meaningful when the store is sorted by trajectory id.
func (s *Store) IndexInTrajectory(i Ix) Ix {
	return i - s.firstPointOfTraj[s.OriginalID(i)]
}

// ActualSize is the number of live (non-tombstoned) points.
func (s *Store) ActualSize() int { return s.actualSize }

// TotalSize is the number of points ever pushed, live or tombstoned.
func (s *Store) TotalSize() int { return len(s.points) }

// TrajectorySize returns how many points trajectory id originally had.
func (s *Store) TrajectorySize(id Id) int { return s.trajectorySize[id] }

// NumTrajectories returns the number of distinct trajectory ids seen.
func (s *Store) NumTrajectories() int { return len(s.trajectorySize) }

// IsSortedByID reports whether live points appear in non-decreasing id
// order; tombstoned points are ignored.
func (s *Store) IsSortedByID() bool {
	var previous Id
	for _, id := range s.ids {
		if id == DeletedID {
			continue
		}
		if id < previous {
			return false
		}
		previous = id
	}
	return true
}

// FirstNonDeleted scans from index 0 for the first live point.
func (s *Store) FirstNonDeleted() Ix {
	i := 0
	for i < len(s.ids) && s.ids[i] == DeletedID {
		i++
	}
	return i
}

// DeletePoint tombstones index i. Returns ErrAlreadyDeleted if i is already
// tombstoned.
func (s *Store) DeletePoint(i Ix) error {
	if s.ids[i] == DeletedID {
		return ErrAlreadyDeleted
	}
	id := s.ids[i]
	s.ids[i] = DeletedID
	s.numDeletedOfTraj[id]++
	s.actualSize--
	return nil
}

// DeleteSubtrajectory tombstones every index in [sub.A, sub.B].
func (s *Store) DeleteSubtrajectory(sub Subtrajectory) error {
	for i := sub.A; i <= sub.B; i++ {
		if err := s.DeletePoint(i); err != nil {
			return err
		}
	}
	return nil
}

// UncoveredFraction computes the simplified coverage score across all
// clusters: the fraction of points (by original trajectory slot) that no
// cluster member covers. When ignorePointClusters is set, clusters whose
// reference is a single point (a == b) do not contribute coverage.
func (s *Store) UncoveredFraction(clusters []Cluster, ignorePointClusters bool) float64 {
	covered := make([]int, len(s.trajectorySize))
	for _, c := range clusters {
		if ignorePointClusters && c.Reference.IsPoint() {
			continue
		}
		for _, m := range c.Members {
			id := s.OriginalID(m.A)
			covered[id] += m.Vertices()
		}
	}
	total := 0
	for _, c := range covered {
		total += c
	}
	return float64(s.TotalSize()-total) / float64(s.TotalSize())
}

// Clone returns a deep copy, used by the clustering driver to give each
// per-distance worker an independent trajectory store.
func (s *Store) Clone() *Store {
	clone := &Store{
		points:           append([]geom.Point(nil), s.points...),
		ids:              append([]Id(nil), s.ids...),
		originalIDs:      append([]Id(nil), s.originalIDs...),
		trajectorySize:   append([]int(nil), s.trajectorySize...),
		firstPointOfTraj: append([]Ix(nil), s.firstPointOfTraj...),
		numDeletedOfTraj: append([]int(nil), s.numDeletedOfTraj...),
		actualSize:       s.actualSize,
	}
	return clone
}
