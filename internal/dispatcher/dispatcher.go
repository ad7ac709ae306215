// Package dispatcher implements the tier decision procedure (C4): given a
// request and its registry.Capability, decide whether the native kernel
// tier, the interpreted bridge tier, or both (in order, with fallback) run
// the request, and attach provenance describing which tier actually
// answered and why.
//
// Native-tier deadlines are enforced only at the boundary: ctx is checked
// before a native call starts, so a deadline that already elapsed while
// queued is reported immediately without running. Once a native call
// starts it runs to completion — kernel functions are tight synchronous
// loops over a slice with no cancellation point to preempt at, unlike the
// interpreted tier, where bridge.Submit's ctx.Done() case can abandon a
// queued or in-flight Lua call. A very large native computation can
// therefore overrun its deadline by however long that single call takes;
// callers with a hard latency budget on large inputs should route through
// the interpreted tier, which is cooperatively cancellable.
package dispatcher

import (
	"context"
	"fmt"

	"analyticsengine/internal/bridge"
	"analyticsengine/internal/registry"
	"analyticsengine/pkg/kernel"
)

// Tier identifies which execution path produced a result.
type Tier string

const (
	TierNative      Tier = "native"
	TierInterpreted Tier = "interpreted"
)

// Result is the dispatcher's output: the algorithm's return value plus
// provenance for AnalysisMetadata.
type Result struct {
	Value          interface{}
	Tier           Tier
	FallbackReason string
}

// Error is a unified failure shape so the pipeline has one type to map
// onto RPC status codes regardless of which tier produced it.
type Error struct {
	// Code is either a kernel.Code (native tier / param validation) or a
	// bridge.ErrorKind (interpreted tier), carried as a string so this
	// package does not have to re-export both taxonomies.
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

// Dispatcher ties the registry, the native kernel, and the interpreter
// bridge together.
type Dispatcher struct {
	reg *registry.Registry
	br  *bridge.Bridge
}

// New builds a Dispatcher. br may be nil in configurations that disable
// the interpreted tier entirely (ANALYTICS_FEATURES=native-only); any request
// that requires the interpreted tier then fails Unsupported rather than
// panicking on a nil bridge.
func New(reg *registry.Registry, br *bridge.Bridge) *Dispatcher {
	return &Dispatcher{reg: reg, br: br}
}

// Dispatch runs algorithm over data with the given normalized params,
// choosing tiers per cap and opts, per the decision procedure:
//
//  1. Determine which tiers are eligible: native iff cap.NativeSupported;
//     interpreted iff cap.InterpretedSupported && opts allow it.
//  2. Order eligible tiers: native first unless opts prefer interpreted
//     (PreferNative == false) and the interpreted tier is eligible.
//  3. Run the first tier. Native-tier errors are terminal — they reflect
//     a genuine data or parameter problem that the interpreted tier would
//     reproduce identically, so there is nothing to gain by falling back.
//     Interpreted-tier Unsupported/Runtime errors are fallback-eligible;
//     Busy/Deadline errors are terminal — a busy queue or an already-
//     expired deadline would only be made worse by re-running on another
//     tier after the budget is spent.
//  4. If the first tier fails with a fallback-eligible error and a second
//     tier is eligible, run the second tier and attach FallbackReason.
//     FallbackReason is also attached when the interpreted tier runs
//     first and succeeds but the caller's PreferNative couldn't be
//     honored (the algorithm has no native implementation), since that
//     preference mismatch is the same kind of fact a caller needs from
//     metadata even though no retry actually happened.
func (d *Dispatcher) Dispatch(ctx context.Context, algorithm string, data []float64, np registry.NormalizedParams, opts Options) (*Result, *Error) {
	entry, ok := d.reg.Lookup(algorithm)
	if !ok {
		return nil, &Error{Code: string(kernel.Unsupported), Message: "unknown algorithm: " + algorithm}
	}

	interpretedEligible := entry.InterpretedSupported && opts.AllowInterpreted && d.br != nil
	nativeEligible := entry.NativeSupported

	if !nativeEligible && !interpretedEligible {
		return nil, &Error{Code: string(kernel.Unsupported), Message: "algorithm " + algorithm + " has no eligible tier for this request"}
	}

	// native-first unless the caller asked for interpreted and it's eligible
	if nativeEligible && (opts.PreferNative || !interpretedEligible) {
		if ctxErr := ctxError(ctx); ctxErr != nil {
			return nil, ctxErr
		}
		val, err := runNative(algorithm, data, np)
		if err != nil {
			// Native-tier errors are terminal (see doc comment above).
			return nil, err
		}
		return &Result{Value: val, Tier: TierNative}, nil
	}

	val, err := d.runInterpreted(ctx, algorithm, data, np)
	if err == nil {
		reason := ""
		if opts.PreferNative && !nativeEligible {
			reason = fmt.Sprintf("Unsupported on native: %s has no native implementation", algorithm)
		}
		return &Result{Value: val, Tier: TierInterpreted, FallbackReason: reason}, nil
	}
	if !isFallbackEligible(err) || !nativeEligible {
		return nil, err
	}
	if ctxErr := ctxError(ctx); ctxErr != nil {
		return nil, ctxErr
	}
	nativeVal, nativeErr := runNative(algorithm, data, np)
	if nativeErr != nil {
		return nil, nativeErr
	}
	return &Result{
		Value:          nativeVal,
		Tier:           TierNative,
		FallbackReason: fmt.Sprintf("interpreted tier returned %s: %s", err.Code, err.Message),
	}, nil
}

// ctxError reports ctx's own error, if any, as a terminal dispatcher
// Error, for the boundary check before a native call starts (see the
// package doc comment on native-tier deadline enforcement). Returns nil
// when ctx is still live.
func ctxError(ctx context.Context) *Error {
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return &Error{Code: "DeadlineExceeded", Message: "deadline expired before native execution started"}
	case context.Canceled:
		return &Error{Code: "Cancelled", Message: "request canceled before native execution started"}
	default:
		return nil
	}
}

func isFallbackEligible(err *Error) bool {
	switch bridge.ErrorKind(err.Code) {
	case bridge.ErrUnsupported, bridge.ErrRuntime:
		return true
	default:
		return false
	}
}

// Options mirrors the caller-visible tier preferences from wire.AnalysisOptions.
type Options struct {
	PreferNative     bool
	AllowInterpreted bool
}
