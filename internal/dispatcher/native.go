package dispatcher

import (
	"analyticsengine/internal/registry"
	"analyticsengine/pkg/kernel"
)

// runNative dispatches to the native kernel tier by algorithm name. The
// registry has already validated and coerced np, so this is a thin
// adapter from the generic NormalizedParams shape to each kernel
// function's typed Params struct.
func runNative(algorithm string, data []float64, np registry.NormalizedParams) (interface{}, *Error) {
	switch algorithm {
	case "mean":
		res, err := kernel.Mean(data, kernel.MeanParams{SkipNaN: np.Bools["skip_nan"]})
		return wrapKernel(res, err)
	case "median":
		res, err := kernel.Median(data, kernel.MedianParams{
			Interpolation: kernel.Interpolation(np.Strings["interpolation"]),
		})
		return wrapKernel(res, err)
	case "variance":
		res, err := kernel.Variance(data, kernel.VarianceParams{DDOF: uint32(np.Uints["ddof"])})
		return wrapKernel(res, err)
	case "std":
		res, err := kernel.Std(data, kernel.VarianceParams{DDOF: uint32(np.Uints["ddof"])})
		return wrapKernel(res, err)
	case "percentile":
		res, err := kernel.Percentile(data, kernel.PercentileParams{
			P:             np.Lists["p"],
			Interpolation: kernel.Interpolation(np.Strings["interpolation"]),
		})
		return wrapKernel(res, err)
	case "correlation":
		res, err := kernel.Correlation(data, kernel.CorrelationParams{Lag: uint32(np.Uints["lag"])})
		return wrapKernel(res, err)
	case "summary":
		res, err := kernel.Summary(data)
		return wrapKernel(res, err)
	default:
		return nil, &Error{Code: string(kernel.Unsupported), Message: "no native implementation for " + algorithm}
	}
}

// wrapKernel converts a (*T, *kernel.Error) pair into the dispatcher's
// unified (interface{}, *Error) shape, regardless of which kernel result
// type T is.
func wrapKernel[T any](res *T, err *kernel.Error) (interface{}, *Error) {
	if err != nil {
		return nil, &Error{Code: string(err.Code), Message: err.Message}
	}
	return *res, nil
}
