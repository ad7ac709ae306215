package kernel

import (
	"fmt"
	"strconv"
	"strings"
)

// Interpolation selects how a fractional rank is resolved to a value.
type Interpolation string

const (
	InterpLower    Interpolation = "lower"
	InterpHigher   Interpolation = "higher"
	InterpMidpoint Interpolation = "midpoint"
	InterpLinear   Interpolation = "linear"
)

// PercentileParams configures Percentile. P holds one or more percentiles
// in [0,100], in the order the caller requested them.
type PercentileParams struct {
	P             []float64
	Interpolation Interpolation
}

// PercentileResult is the canonical JSON shape for "percentile".
type PercentileResult struct {
	P     []float64 `json:"p"`
	Value []float64 `json:"value"`
	Count uint64    `json:"count"`
}

// ParsePercentileList parses the "p" request parameter, which accepts a
// single value or a comma-separated list (§4.1 percentile).
func ParsePercentileList(raw string) ([]float64, *Error) {
	if raw == "" {
		return nil, errParamMissing("p")
	}
	parts := strings.Split(raw, ",")
	out := make([]float64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, errParamOutOfRange(fmt.Sprintf("percentile: invalid p value %q", part))
		}
		if v < 0 || v > 100 {
			return nil, errParamOutOfRange(fmt.Sprintf("percentile: p=%v out of range [0,100]", v))
		}
		out = append(out, v)
	}
	return out, nil
}

// Percentile computes one or more percentiles using type-7 (linear by
// default) interpolation between adjacent order statistics, via
// quickselect rather than a full sort (§4.1 rule on selection algorithm).
func Percentile(data []float64, p PercentileParams) (*PercentileResult, *Error) {
	if err := requireNonEmpty(len(data)); err != nil {
		return nil, err
	}
	if hasNaNOrInf(data) {
		return nil, errInvalidNumeric("percentile: input contains NaN or Inf")
	}
	if len(p.P) == 0 {
		return nil, errParamMissing("p")
	}
	interp := p.Interpolation
	if interp == "" {
		interp = InterpLinear
	}

	values := make([]float64, len(p.P))
	for i, pct := range p.P {
		if pct < 0 || pct > 100 {
			return nil, errParamOutOfRange(fmt.Sprintf("percentile: p=%v out of range [0,100]", pct))
		}
		v, err := quantileAt(data, pct/100.0, interp)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return &PercentileResult{P: p.P, Value: values, Count: uint64(len(data))}, nil
}

// quantileAt computes a single quantile (fraction in [0,1]) using the
// requested interpolation. It operates on a private copy of data so the
// caller's slice is never reordered.
func quantileAt(data []float64, frac float64, interp Interpolation) (float64, *Error) {
	n := len(data)
	if n == 1 {
		return data[0], nil
	}
	rank := frac * float64(n-1)
	lo := int(rank)
	hi := lo
	if float64(lo) < rank {
		hi = lo + 1
	}
	if hi > n-1 {
		hi = n - 1
	}

	work := copyOf(data)
	loVal := quickselect(work, lo)
	var hiVal float64
	if hi == lo {
		hiVal = loVal
	} else {
		work2 := copyOf(data)
		hiVal = quickselect(work2, hi)
	}

	switch interp {
	case InterpLower:
		return loVal, nil
	case InterpHigher:
		return hiVal, nil
	case InterpMidpoint:
		return (loVal + hiVal) / 2, nil
	case InterpLinear, "":
		fracPart := rank - float64(lo)
		return loVal + fracPart*(hiVal-loVal), nil
	default:
		return 0, newErr(ParamOutOfRange, fmt.Sprintf("percentile: unknown interpolation %q", interp))
	}
}
