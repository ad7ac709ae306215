package kernel

import "math"

// MeanParams configures Mean. SkipNaN, when true, omits NaN values from
// the computation instead of erroring on them (§9 Open Question 2).
type MeanParams struct {
	SkipNaN bool
}

// MeanResult is the canonical JSON shape for "mean": {"value":..,"count":..}.
type MeanResult struct {
	Value float64 `json:"value"`
	Count uint64  `json:"count"`
}

// Mean computes the arithmetic mean using Kahan-compensated summation
// (§4.1 rule 2 — naive sequential += is prohibited over large inputs).
func Mean(data []float64, p MeanParams) (*MeanResult, *Error) {
	if err := requireNonEmpty(len(data)); err != nil {
		return nil, err
	}
	clean, hadNaN := filterFinite(data, p.SkipNaN)
	if hadNaN && !p.SkipNaN {
		return nil, errInvalidNumeric("mean: NaN present in input; set skip_nan=true to omit")
	}
	if len(clean) == 0 {
		return nil, errEmptyInput()
	}

	sum, comp := 0.0, 0.0
	for _, x := range clean {
		y := x - comp
		t := sum + y
		comp = (t - sum) - y
		sum = t
	}
	return &MeanResult{Value: sum / float64(len(clean)), Count: uint64(len(clean))}, nil
}

// kahanSum performs a compensated summation pass, used by several other
// kernel functions that need a plain sum rather than a running mean.
func kahanSum(data []float64) float64 {
	sum, comp := 0.0, 0.0
	for _, x := range data {
		y := x - comp
		t := sum + y
		comp = (t - sum) - y
		sum = t
	}
	return sum
}

// hasNaNOrInf reports whether any element is NaN or ±Inf.
func hasNaNOrInf(data []float64) bool {
	for _, x := range data {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return true
		}
	}
	return false
}
