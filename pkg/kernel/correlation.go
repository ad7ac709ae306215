package kernel

import "math"

// CorrelationParams configures Correlation. A Lag of 0 correlates the
// series with itself; the registry supplies lag=1 when a request omits it.
type CorrelationParams struct {
	Lag uint32
}

// CorrelationResult is the canonical JSON shape for "correlation".
type CorrelationResult struct {
	Value float64 `json:"value"`
	Lag   uint32  `json:"lag"`
	Count uint64  `json:"count"`
}

// Correlation computes the Pearson correlation between the series and
// its lag-shifted self at p.Lag.
func Correlation(data []float64, p CorrelationParams) (*CorrelationResult, *Error) {
	if err := requireNonEmpty(len(data)); err != nil {
		return nil, err
	}
	if hasNaNOrInf(data) {
		return nil, errInvalidNumeric("correlation: input contains NaN or Inf")
	}
	n := len(data)
	lag := int(p.Lag)
	if lag >= n {
		return nil, errInsufficientData("correlation: lag must be less than input length")
	}
	m := n - lag
	if m < 2 {
		return nil, errInsufficientData("correlation: fewer than 2 overlapping pairs at this lag")
	}

	x := data[:m]
	y := data[lag:]

	meanX := kahanSum(x) / float64(m)
	meanY := kahanSum(y) / float64(m)

	dx := make([]float64, m)
	dy := make([]float64, m)
	prod := make([]float64, m)
	for i := 0; i < m; i++ {
		dx[i] = (x[i] - meanX) * (x[i] - meanX)
		dy[i] = (y[i] - meanY) * (y[i] - meanY)
		prod[i] = (x[i] - meanX) * (y[i] - meanY)
	}

	varX := kahanSum(dx)
	varY := kahanSum(dy)
	cov := kahanSum(prod)

	denom := math.Sqrt(varX * varY)
	if denom == 0 {
		return nil, errInsufficientData("correlation: constant sequence has undefined correlation")
	}

	return &CorrelationResult{Value: cov / denom, Lag: p.Lag, Count: uint64(n)}, nil
}
