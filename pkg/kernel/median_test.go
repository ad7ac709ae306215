package kernel

import "testing"

func TestMedianOddLength(t *testing.T) {
	r, err := Median([]float64{3, 1, 2}, MedianParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	almostEqual(t, r.Value, 2.0)
}

func TestMedianEvenLengthLinearDefault(t *testing.T) {
	r, err := Median([]float64{1, 2, 3, 4}, MedianParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	almostEqual(t, r.Value, 2.5)
}

func TestMedianInterpolationModes(t *testing.T) {
	data := []float64{1, 2, 3, 4}
	cases := map[Interpolation]float64{
		InterpLower:    2,
		InterpHigher:   3,
		InterpMidpoint: 2.5,
		InterpLinear:   2.5,
	}
	for interp, want := range cases {
		r, err := Median(data, MedianParams{Interpolation: interp})
		if err != nil {
			t.Fatalf("interp %s: unexpected error: %v", interp, err)
		}
		almostEqual(t, r.Value, want)
	}
}

func TestMedianEqualsPercentile50(t *testing.T) {
	data := []float64{5, 1, 9, 3, 7, 2}
	med, err := Median(data, MedianParams{Interpolation: InterpLinear})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pr, err := Percentile(data, PercentileParams{P: []float64{50}, Interpolation: InterpLinear})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	almostEqual(t, med.Value, pr.Value[0])
}

func TestMedianConstantSequence(t *testing.T) {
	r, err := Median([]float64{7, 7, 7, 7, 7}, MedianParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	almostEqual(t, r.Value, 7)
}

func TestMedianEmptyInput(t *testing.T) {
	_, err := Median(nil, MedianParams{})
	if err == nil || err.Code != EmptyInput {
		t.Fatalf("expected EmptyInput, got %v", err)
	}
}
