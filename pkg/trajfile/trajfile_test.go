package trajfile

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/azybler/pathlets/pkg/trajectory"
)

func TestReadXYIDBasic(t *testing.T) {
	input := "0 0 0\n1 0 0\n0 1 1\n1 1 1\n"
	store, err := ReadXYID(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadXYID: %v", err)
	}
	if store.TotalSize() != 4 {
		t.Fatalf("TotalSize = %d, want 4", store.TotalSize())
	}
	if store.NumTrajectories() != 2 {
		t.Fatalf("NumTrajectories = %d, want 2", store.NumTrajectories())
	}
}

func TestReadXYIDSkipsBlankLines(t *testing.T) {
	input := "0 0 0\n\n   \n1 0 0\n"
	store, err := ReadXYID(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadXYID: %v", err)
	}
	if store.TotalSize() != 2 {
		t.Fatalf("TotalSize = %d, want 2", store.TotalSize())
	}
}

func TestReadXYIDRejectsNegativeID(t *testing.T) {
	_, err := ReadXYID(strings.NewReader("0 0 -1\n"))
	if err == nil {
		t.Fatal("expected an error for a negative trajectory id")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Errorf("expected a *ParseError, got %T: %v", err, err)
	}
}

func TestReadXYIDRejectsMalformedLine(t *testing.T) {
	_, err := ReadXYID(strings.NewReader("not a number\n"))
	if err == nil {
		t.Fatal("expected a parse error for a malformed line")
	}
}

func TestReadIDTXYOrdering(t *testing.T) {
	input := "0 0.0 0 0\n0 1.0 1 0\n1 0.0 0 1\n"
	store, err := ReadIDTXY(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadIDTXY: %v", err)
	}
	if store.TotalSize() != 3 {
		t.Fatalf("TotalSize = %d, want 3", store.TotalSize())
	}
}

func TestReadIDTXYRejectsNonIncreasingTimestamp(t *testing.T) {
	input := "0 1.0 0 0\n0 1.0 1 0\n"
	_, err := ReadIDTXY(strings.NewReader(input))
	if err == nil {
		t.Fatal("expected an error for a non-increasing timestamp")
	}
}

func TestReadIDTXYRejectsSkippedID(t *testing.T) {
	input := "0 0.0 0 0\n2 0.0 0 0\n"
	_, err := ReadIDTXY(strings.NewReader(input))
	if err == nil {
		t.Fatal("expected an error for a skipped trajectory id")
	}
}

func TestWriteClusteringFormat(t *testing.T) {
	store, err := ReadXYID(strings.NewReader("0 0 0\n1 0 0\n2 0 0\n3 0 0\n"))
	if err != nil {
		t.Fatalf("ReadXYID: %v", err)
	}
	clusters := []trajectory.Cluster{
		{
			Reference: trajectory.Subtrajectory{A: 0, B: 1},
			Members:   []trajectory.Subtrajectory{{A: 0, B: 1}, {A: 2, B: 3}},
		},
	}

	var buf bytes.Buffer
	if err := WriteClustering(&buf, store, "dataset.txt", "means 0 0 1 1", 1.5, clusters); err != nil {
		t.Fatalf("WriteClustering: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5 (3 header + 2 per cluster): %q", len(lines), buf.String())
	}
	if lines[0] != "dataset.txt" {
		t.Errorf("dataset line = %q", lines[0])
	}
	if lines[1] != "means 0 0 1 1" {
		t.Errorf("algorithm line = %q", lines[1])
	}
	if lines[2] != "1.5" {
		t.Errorf("running time line = %q", lines[2])
	}
	if lines[3] != "0 0 1" {
		t.Errorf("reference line = %q, want \"0 0 1\"", lines[3])
	}
	if lines[4] != "0 0 1 0 2 3" {
		t.Errorf("members line = %q, want \"0 0 1 0 2 3\"", lines[4])
	}
}

