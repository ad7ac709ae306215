package kernel

import "fmt"

// MedianParams configures Median. Interpolation defaults to linear, the
// same type-7 rule Percentile(p=50) uses, so the two agree exactly
// (§8 "percentile(p=50) equals median with interpolation=linear").
type MedianParams struct {
	Interpolation Interpolation
}

// MedianResult is the canonical JSON shape for "median".
type MedianResult struct {
	Value float64 `json:"value"`
	Count uint64  `json:"count"`
}

func Median(data []float64, p MedianParams) (*MedianResult, *Error) {
	if err := requireNonEmpty(len(data)); err != nil {
		return nil, err
	}
	if hasNaNOrInf(data) {
		return nil, errInvalidNumeric("median: input contains NaN or Inf")
	}
	interp := p.Interpolation
	if interp == "" {
		interp = InterpLinear
	}
	switch interp {
	case InterpLower, InterpHigher, InterpMidpoint, InterpLinear:
	default:
		return nil, newErr(ParamOutOfRange, fmt.Sprintf("median: unknown interpolation %q", interp))
	}
	v, err := quantileAt(data, 0.5, interp)
	if err != nil {
		return nil, err
	}
	return &MedianResult{Value: v, Count: uint64(len(data))}, nil
}
