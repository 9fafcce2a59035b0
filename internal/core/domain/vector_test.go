package domain

import (
	"math"
	"testing"
)

func TestCosine(t *testing.T) {
	cases := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical direction", []float32{1, 0}, []float32{1, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"diagonal", []float32{1, 0}, []float32{0.7, 0.7}, 0.7071067811865476},
		{"magnitude independent", []float32{2, 0}, []float32{9, 0}, 1},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
		{"length mismatch", []float32{1, 0, 0}, []float32{1, 0}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Cosine(tc.a, tc.b)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("Cosine(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestCosine_Bounded(t *testing.T) {
	a := []float32{0.3, -0.9, 0.1, 0.4}
	b := []float32{-0.2, 0.8, 0.5, -0.1}
	got := Cosine(a, b)
	if got < -1 || got > 1 {
		t.Errorf("cosine similarity %v out of [-1, 1]", got)
	}
}
