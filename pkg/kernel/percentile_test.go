package kernel

import "testing"

func TestPercentileLinearInterpolation(t *testing.T) {
	r, err := Percentile([]float64{1, 2, 3, 4}, PercentileParams{P: []float64{50}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Value) != 1 {
		t.Fatalf("expected 1 value, got %d", len(r.Value))
	}
	almostEqual(t, r.Value[0], 2.5)
	if r.Count != 4 {
		t.Fatalf("count = %d, want 4", r.Count)
	}
}

func TestPercentileMultipleInOrder(t *testing.T) {
	data := []float64{10, 20, 30, 40, 50}
	r, err := Percentile(data, PercentileParams{P: []float64{90, 10, 50}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.P) != 3 || len(r.Value) != 3 {
		t.Fatalf("mismatched output lengths")
	}
	if r.P[0] != 90 || r.P[1] != 10 || r.P[2] != 50 {
		t.Fatalf("p order not preserved: %v", r.P)
	}
}

func TestPercentileConstantSequence(t *testing.T) {
	data := []float64{4, 4, 4, 4}
	r, err := Percentile(data, PercentileParams{P: []float64{0, 25, 50, 75, 100}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, v := range r.Value {
		almostEqual(t, v, 4)
	}
}

func TestPercentileOutOfRange(t *testing.T) {
	_, err := Percentile([]float64{1, 2, 3}, PercentileParams{P: []float64{150}})
	if err == nil || err.Code != ParamOutOfRange {
		t.Fatalf("expected ParamOutOfRange, got %v", err)
	}
}

func TestParsePercentileListCSV(t *testing.T) {
	vals, err := ParsePercentileList("10, 50,90")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{10, 50, 90}
	for i, v := range want {
		if vals[i] != v {
			t.Fatalf("vals[%d] = %v, want %v", i, vals[i], v)
		}
	}
}

func TestParsePercentileListMissing(t *testing.T) {
	_, err := ParsePercentileList("")
	if err == nil || err.Code != ParamMissing {
		t.Fatalf("expected ParamMissing, got %v", err)
	}
}
