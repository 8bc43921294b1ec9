package frechet

import (
	"math"
	"testing"

	"github.com/azybler/pathlets/pkg/geom"
)

func TestSqQuadraticIdentity(t *testing.T) {
	p := Slice{{0, 0}, {1, 0}, {2, 0}, {3, 0}}
	if got := SqQuadratic(p, p, geom.Euclidean2D); got != 0 {
		t.Errorf("SqQuadratic(p, p) = %v, want 0", got)
	}
}

func TestSqQuadraticSymmetry(t *testing.T) {
	p := Slice{{0, 0}, {1, 0}, {2, 0}, {3, 0}}
	q := Slice{{0, 1}, {1, 1}, {2.5, 1}, {3, 1}}
	ab := SqQuadratic(p, q, geom.Euclidean2D)
	ba := SqQuadratic(q, p, geom.Euclidean2D)
	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("SqQuadratic not symmetric: %v vs %v", ab, ba)
	}
}

func TestSqQuadraticParallelLines(t *testing.T) {
	p := Slice{{0, 0}, {1, 0}, {2, 0}, {3, 0}}
	q := Slice{{0, 1}, {1, 1}, {2, 1}, {3, 1}}
	got := math.Sqrt(SqQuadratic(p, q, geom.Euclidean2D))
	if math.Abs(got-1) > 1e-9 {
		t.Errorf("distance = %v, want 1", got)
	}

	q[2] = geom.Point{2, 2}
	got = math.Sqrt(SqQuadratic(p, q, geom.Euclidean2D))
	if math.Abs(got-2) > 1e-9 {
		t.Errorf("distance after raising one vertex = %v, want 2", got)
	}
}

func TestSqLightAgreesWithSqQuadratic(t *testing.T) {
	cases := []struct {
		name string
		p, q Slice
	}{
		{"parallel lines", Slice{{0, 0}, {1, 0}, {2, 0}, {3, 0}}, Slice{{0, 1}, {1, 1}, {2, 1}, {3, 1}}},
		{"identical", Slice{{0, 0}, {1, 1}}, Slice{{0, 0}, {1, 1}}},
		{"different lengths", Slice{{0, 0}, {1, 0}, {2, 0}}, Slice{{0, 1}, {3, 1}}},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			full := SqQuadratic(tt.p, tt.q, geom.Euclidean2D)
			light := SqLight(tt.p, tt.q, geom.Euclidean2D)
			if math.Abs(full-light) > 1e-9 {
				t.Errorf("SqQuadratic = %v, SqLight = %v, want equal", full, light)
			}
		})
	}
}
