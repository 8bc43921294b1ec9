// Package trajfile implements the plain-text trajectory input formats and
// the clustering output format described by the system's external
// interface: reading "x y id" or "id t x y" point streams into a
// trajectory.Store, and writing a clustering as a dataset header, algorithm
// line, running time, and two lines per cluster.
package trajfile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/azybler/pathlets/pkg/geom"
	"github.com/azybler/pathlets/pkg/trajectory"
)

// ParseError reports the input line number and the underlying cause.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// ReadXYID reads the "x y id" form: one point per line, no timestamps.
func ReadXYID(r io.Reader) (*trajectory.Store, error) {
	store := trajectory.New()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if isBlank(text) {
			continue
		}
		var x, y float64
		var id int
		if _, err := fmt.Sscan(text, &x, &y, &id); err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}
		if id < 0 {
			return nil, &ParseError{Line: line, Err: fmt.Errorf("negative trajectory id %d", id)}
		}
		if err := store.Push(geom.Point{x, y}, trajectory.Id(id)); err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return store, nil
}

// ReadIDTXY reads the "id t x y" form: points ordered by id then strictly
// increasing t within id; ids must start at 0 and increase by exactly 1
// between blocks.
func ReadIDTXY(r io.Reader) (*trajectory.Store, error) {
	store := trajectory.New()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	line := 0
	prevID := -1
	prevT := 0.0
	for sc.Scan() {
		line++
		text := sc.Text()
		if isBlank(text) {
			continue
		}
		var id int
		var t, x, y float64
		if _, err := fmt.Sscan(text, &id, &t, &x, &y); err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}
		if id == prevID {
			if t <= prevT {
				return nil, &ParseError{Line: line, Err: fmt.Errorf("timestamp %v did not increase within trajectory %d", t, id)}
			}
		} else if id != prevID+1 {
			return nil, &ParseError{Line: line, Err: fmt.Errorf("trajectory id %d did not follow %d", id, prevID)}
		}
		if err := store.Push(geom.Point{x, y}, trajectory.Id(id)); err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}
		prevID, prevT = id, t
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return store, nil
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\r' {
			return false
		}
	}
	return true
}

// WriteClustering writes datasetName, algorithmLine, and runningTimeSeconds
// as a three-line header, then two lines per cluster:
//
//	<ref_id> <ref_l_in_traj> <ref_r_in_traj>
//	<id1> <l1> <r1> <id2> <l2> <r2> ...
//
// Indices are 0-based within their originating trajectory, not the global
// store.
func WriteClustering(w io.Writer, store *trajectory.Store, datasetName, algorithmLine string, runningTimeSeconds float64, clusters []trajectory.Cluster) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s\n", datasetName)
	fmt.Fprintf(bw, "%s\n", algorithmLine)
	fmt.Fprintf(bw, "%s\n", strconv.FormatFloat(runningTimeSeconds, 'f', -1, 64))

	for _, cluster := range clusters {
		ref := cluster.Reference
		refID := store.GetID(ref.A)
		fmt.Fprintf(bw, "%d %d %d\n", refID, store.IndexInTrajectory(ref.A), store.IndexInTrajectory(ref.B))

		for i, m := range cluster.Members {
			if i > 0 {
				fmt.Fprint(bw, " ")
			}
			id := store.GetID(m.A)
			fmt.Fprintf(bw, "%d %d %d", id, store.IndexInTrajectory(m.A), store.IndexInTrajectory(m.B))
		}
		fmt.Fprint(bw, "\n")
	}
	return bw.Flush()
}
