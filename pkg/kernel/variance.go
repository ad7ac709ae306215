package kernel

import "math"

// VarianceParams configures Variance and Std. DDOF is the delta degrees
// of freedom subtracted from n in the divisor; the zero value is 0
// (population), and the registry supplies ddof=1 (sample) when a request
// omits it.
type VarianceParams struct {
	DDOF uint32
}

// VarianceResult is the canonical JSON shape for "variance"/"std".
type VarianceResult struct {
	Value float64 `json:"value"`
	Count uint64  `json:"count"`
	DDOF  uint32  `json:"ddof"`
}

// Variance computes the variance with a one-pass Welford accumulation
// (§4.1 rule 2 — avoids the catastrophic cancellation of the naive
// sum-of-squares formula).
func Variance(data []float64, p VarianceParams) (*VarianceResult, *Error) {
	return welford(data, p, false)
}

// Std computes the standard deviation, the square root of Variance's
// result, computed via the same one-pass accumulation.
func Std(data []float64, p VarianceParams) (*VarianceResult, *Error) {
	return welford(data, p, true)
}

func welford(data []float64, p VarianceParams, wantStd bool) (*VarianceResult, *Error) {
	if err := requireNonEmpty(len(data)); err != nil {
		return nil, err
	}
	if hasNaNOrInf(data) {
		return nil, errInvalidNumeric("variance: input contains NaN or Inf")
	}
	ddof := p.DDOF
	n := uint64(len(data))
	if n <= uint64(ddof) {
		return nil, errInsufficientData("variance: n must be greater than ddof")
	}

	var mean, m2 float64
	var count uint64
	for _, x := range data {
		count++
		delta := x - mean
		mean += delta / float64(count)
		delta2 := x - mean
		m2 += delta * delta2
	}

	variance := m2 / float64(n-uint64(ddof))
	value := variance
	if wantStd {
		value = math.Sqrt(variance)
	}
	return &VarianceResult{Value: value, Count: n, DDOF: ddof}, nil
}
