package dispatcher

import (
	"context"
	"strconv"

	"analyticsengine/internal/bridge"
	"analyticsengine/internal/registry"
)

// runInterpreted flattens NormalizedParams back to the bridge's
// map[string]string shape (the Lua modules parse their own params the
// same way the registry's ValidateParams does) and submits the job.
func (d *Dispatcher) runInterpreted(ctx context.Context, algorithm string, data []float64, np registry.NormalizedParams) (interface{}, *Error) {
	if d.br == nil {
		return nil, &Error{Code: string(bridge.ErrUnsupported), Message: "interpreted tier is disabled"}
	}

	params := make(map[string]string, len(np.Floats)+len(np.Uints)+len(np.Strings)+len(np.Bools))
	for k, v := range np.Floats {
		params[k] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	for k, v := range np.Uints {
		params[k] = strconv.FormatUint(v, 10)
	}
	for k, v := range np.Strings {
		params[k] = v
	}
	for k, v := range np.Bools {
		params[k] = strconv.FormatBool(v)
	}

	val, berr := d.br.Submit(ctx, algorithm, data, params)
	if berr != nil {
		return nil, &Error{Code: string(berr.Kind), Message: berr.Message}
	}
	return val, nil
}
