package rag

import (
	"math"
	"testing"
)

func TestCosineSimilarityIdentity(t *testing.T) {
	v := []float32{0.5, -1.2, 3.3, 0.01}
	if got := CosineSimilarity(v, v); math.Abs(got-1) > 1e-9 {
		t.Errorf("CosineSimilarity(v, v) = %v, want 1", got)
	}
}

func TestCosineSimilarityOpposite(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{-1, -2, -3}
	if got := CosineSimilarity(a, b); math.Abs(got+1) > 1e-9 {
		t.Errorf("opposite vectors: got %v, want -1", got)
	}
}

func TestCosineSimilarityOrthogonal(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	if got := CosineSimilarity(a, b); got != 0 {
		t.Errorf("orthogonal vectors: got %v, want 0", got)
	}
}

func TestCosineSimilarityDegenerate(t *testing.T) {
	if got := CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3}); got != 0 {
		t.Errorf("mismatched lengths: got %v, want 0", got)
	}
	if got := CosineSimilarity([]float32{1, 2, 3}, []float32{0, 0, 0}); got != 0 {
		t.Errorf("zero vector: got %v, want 0", got)
	}
	if got := CosineSimilarity(nil, nil); got != 0 {
		t.Errorf("nil vectors: got %v, want 0", got)
	}
}

func TestCosineSimilarityBounds(t *testing.T) {
	a := []float32{0.3, 0.9, -0.2, 4.1}
	b := []float32{-2.2, 0.4, 1.1, 0.05}
	got := CosineSimilarity(a, b)
	if got < -1-1e-9 || got > 1+1e-9 {
		t.Errorf("similarity %v outside [-1, 1]", got)
	}
}
