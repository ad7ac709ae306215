package kernel

import "math"

// SummaryResult is the canonical JSON shape for "summary".
type SummaryResult struct {
	Count uint64  `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	P25   float64 `json:"p25"`
	P50   float64 `json:"p50"`
	P75   float64 `json:"p75"`
}

// Summary computes count/mean/std/min/max in a single Welford pass, then
// the quartiles via Percentile (quickselect, not a full sort; one or two
// selections per quartile).
func Summary(data []float64) (*SummaryResult, *Error) {
	if err := requireNonEmpty(len(data)); err != nil {
		return nil, err
	}
	if hasNaNOrInf(data) {
		return nil, errInvalidNumeric("summary: input contains NaN or Inf")
	}
	if len(data) < 2 {
		return nil, errInsufficientData("summary: at least 2 values required for std (ddof=1)")
	}

	var mean, m2 float64
	var count uint64
	min, max := data[0], data[0]
	for _, x := range data {
		count++
		delta := x - mean
		mean += delta / float64(count)
		delta2 := x - mean
		m2 += delta * delta2
		if x < min {
			min = x
		}
		if x > max {
			max = x
		}
	}
	variance := m2 / float64(count-1)
	std := math.Sqrt(variance)

	pr, err := Percentile(data, PercentileParams{P: []float64{25, 50, 75}, Interpolation: InterpLinear})
	if err != nil {
		return nil, err
	}

	return &SummaryResult{
		Count: count,
		Mean:  mean,
		Std:   std,
		Min:   min,
		Max:   max,
		P25:   pr.Value[0],
		P50:   pr.Value[1],
		P75:   pr.Value[2],
	}, nil
}
