package kernel

import "math"

// filterFinite returns data with NaNs removed when skipNaN is true. It
// reports whether any NaN was found (so a caller that disallows NaN can
// still tell the difference between "NaN present" and "already clean").
// The returned slice is a fresh copy only when filtering actually removes
// elements; otherwise the input slice is returned unchanged.
func filterFinite(data []float64, skipNaN bool) (out []float64, hadNaN bool) {
	for _, x := range data {
		if math.IsNaN(x) {
			hadNaN = true
			break
		}
	}
	if !hadNaN || !skipNaN {
		return data, hadNaN
	}
	out = make([]float64, 0, len(data))
	for _, x := range data {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out, true
}

// requireNonEmpty validates the common empty-input precondition.
func requireNonEmpty(n int) *Error {
	if n == 0 {
		return errEmptyInput()
	}
	return nil
}
