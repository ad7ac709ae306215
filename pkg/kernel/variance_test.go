package kernel

import "testing"

func TestVarianceConstantSequenceIsZero(t *testing.T) {
	r, err := Variance([]float64{5, 5, 5, 5}, VarianceParams{DDOF: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	almostEqual(t, r.Value, 0)
}

func TestStdConstantSequenceIsZero(t *testing.T) {
	r, err := Std([]float64{5, 5, 5, 5}, VarianceParams{DDOF: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	almostEqual(t, r.Value, 0)
}

func TestVarianceSampleKnownValue(t *testing.T) {
	// population {2,4,4,4,5,5,7,9}: sample variance (ddof=1) is 4.571428571...
	data := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	r, err := Variance(data, VarianceParams{DDOF: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	almostEqual(t, r.Value, 32.0/7.0)
	if r.DDOF != 1 {
		t.Fatalf("ddof = %d, want 1", r.DDOF)
	}
}

func TestVariancePopulationDDOF0(t *testing.T) {
	data := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	r, err := Variance(data, VarianceParams{DDOF: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	almostEqual(t, r.Value, 4.0)
}

func TestVarianceInsufficientData(t *testing.T) {
	_, err := Variance([]float64{3}, VarianceParams{DDOF: 1})
	if err == nil || err.Code != InsufficientData {
		t.Fatalf("expected InsufficientData, got %v", err)
	}
}

func TestVarianceEmptyInput(t *testing.T) {
	_, err := Variance(nil, VarianceParams{DDOF: 1})
	if err == nil || err.Code != EmptyInput {
		t.Fatalf("expected EmptyInput, got %v", err)
	}
}
