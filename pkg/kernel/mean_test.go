package kernel

import (
	"math"
	"testing"
)

func almostEqual(t *testing.T, got, want float64) {
	t.Helper()
	tol := math.Max(1e-12*math.Abs(want), 1e-15)
	if math.Abs(got-want) > tol {
		t.Fatalf("got %v, want %v (tol %v)", got, want, tol)
	}
}

func TestMeanSingleValue(t *testing.T) {
	r, err := Mean([]float64{42.0}, MeanParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	almostEqual(t, r.Value, 42.0)
	if r.Count != 1 {
		t.Fatalf("count = %d, want 1", r.Count)
	}
}

func TestMeanTwoValues(t *testing.T) {
	r, err := Mean([]float64{1, 2}, MeanParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	almostEqual(t, r.Value, 1.5)
}

func TestMeanEmptyInput(t *testing.T) {
	_, err := Mean(nil, MeanParams{})
	if err == nil || err.Code != EmptyInput {
		t.Fatalf("expected EmptyInput, got %v", err)
	}
}

func TestMeanNaNErrorsByDefault(t *testing.T) {
	_, err := Mean([]float64{1, math.NaN(), 3}, MeanParams{})
	if err == nil || err.Code != InvalidNumeric {
		t.Fatalf("expected InvalidNumeric, got %v", err)
	}
}

func TestMeanSkipNaN(t *testing.T) {
	r, err := Mean([]float64{1, math.NaN(), 3}, MeanParams{SkipNaN: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	almostEqual(t, r.Value, 2.0)
	if r.Count != 2 {
		t.Fatalf("count = %d, want 2", r.Count)
	}
}

func TestMeanSkipNaNAllNaN(t *testing.T) {
	_, err := Mean([]float64{math.NaN(), math.NaN()}, MeanParams{SkipNaN: true})
	if err == nil || err.Code != EmptyInput {
		t.Fatalf("expected EmptyInput after filtering, got %v", err)
	}
}

func TestMeanLargeInputAccuracy(t *testing.T) {
	n := 1_000_000
	data := make([]float64, n)
	for i := range data {
		data[i] = 1.0
	}
	data[0] = 1e9
	r, err := Mean(data, MeanParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := (1e9 + float64(n-1)) / float64(n)
	almostEqual(t, r.Value, want)
}
