package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"analyticsengine/internal/admission"
	"analyticsengine/internal/dispatcher"
	"analyticsengine/internal/registry"
	"analyticsengine/internal/telemetry"
	"analyticsengine/internal/wire"
	"analyticsengine/pkg/kernel"
)

// Pipeline wires admission, the registry, and the dispatcher into the
// request paths the RPC surface calls.
type Pipeline struct {
	reg              *registry.Registry
	disp             *dispatcher.Dispatcher
	gate             *admission.Gate
	log              zerolog.Logger
	serverVersion    string
	maxBatchConc     int64
	defaultTimeoutMS uint32
}

// Config constructs a Pipeline.
type Config struct {
	Registry         *registry.Registry
	Dispatcher       *dispatcher.Dispatcher
	Gate             *admission.Gate
	Logger           zerolog.Logger
	ServerVersion    string
	MaxBatchParallel int64
	// DefaultTimeoutMS is the server-side default per-request timeout
	// (§5); 0 disables it, leaving the effective deadline to the caller's
	// transport deadline and request timeout_ms alone.
	DefaultTimeoutMS uint32
}

// New builds a Pipeline from Config, defaulting MaxBatchParallel to 8 when
// unset.
func New(cfg Config) *Pipeline {
	maxBatchConc := cfg.MaxBatchParallel
	if maxBatchConc < 1 {
		maxBatchConc = 8
	}
	return &Pipeline{
		reg:              cfg.Registry,
		disp:             cfg.Dispatcher,
		gate:             cfg.Gate,
		log:              cfg.Logger,
		serverVersion:    cfg.ServerVersion,
		maxBatchConc:     maxBatchConc,
		defaultTimeoutMS: cfg.DefaultTimeoutMS,
	}
}

// Analyze runs one AnalysisRequest end to end: admission, validation,
// dispatch, and response assembly. It never returns a transport-level
// error for a request-shaped failure — those are carried in the response
// as Success=false with ErrorCode/ErrorMessage, per the wire contract;
// the returned error is reserved for admission rejection (Busy), which
// the RPC surface maps onto a distinct transport status before even
// entering a request-scoped log line.
func (p *Pipeline) Analyze(ctx context.Context, req wire.AnalysisRequest) (*wire.AnalysisResponse, error) {
	if !p.gate.TryAcquire() {
		telemetry.AdmissionRejectedTotal.Inc()
		return nil, statusFor(string(busyCode), "admission gate at capacity").Err()
	}
	defer p.gate.Release()

	telemetry.InFlightRequests.Inc()
	defer telemetry.InFlightRequests.Dec()

	start := time.Now()
	resp, outcomeInfo := p.analyzeAdmitted(ctx, req)
	duration := time.Since(start)
	if resp.Metadata != nil {
		resp.Metadata.DurationMS = duration.Milliseconds()
	}

	outcome := "ok"
	if !resp.Success {
		outcome = "error"
	}
	tier := outcomeInfo.tier
	if tier == "" {
		tier = "unknown"
	}
	algLabel := req.Algorithm
	if _, ok := p.reg.Lookup(algLabel); !ok {
		algLabel = "unknown"
	}
	telemetry.RequestsTotal.WithLabelValues(algLabel, tier, outcome).Inc()
	telemetry.RequestDuration.WithLabelValues(algLabel, tier).Observe(duration.Seconds())
	if outcomeInfo.fallbackReason != "" {
		telemetry.FallbacksTotal.WithLabelValues(algLabel).Inc()
	}

	p.log.Info().
		Str("request_id", req.RequestID).
		Str("algorithm", req.Algorithm).
		Str("tier", tier).
		Int64("duration_ms", duration.Milliseconds()).
		Bool("success", resp.Success).
		Str("error_code", resp.ErrorCode).
		Msg("analyze complete")

	return resp, nil
}

const busyCode = "Busy"

// dispatchOutcome carries bookkeeping the caller (Analyze) needs for
// metrics and logging but that may not belong in the wire response body.
type dispatchOutcome struct {
	tier           string
	fallbackReason string
}

func (p *Pipeline) analyzeAdmitted(ctx context.Context, req wire.AnalysisRequest) (*wire.AnalysisResponse, dispatchOutcome) {
	entry, ok := p.reg.Lookup(req.Algorithm)
	if !ok {
		return errorResponse(req, "Unsupported", "unknown algorithm: "+req.Algorithm), dispatchOutcome{}
	}

	if !req.Options.PreferNativeOrDefault() && !req.Options.AllowInterpretedOrDefault() {
		return errorResponse(req, string(kernel.ParamOutOfRange), "at least one of prefer_native/allow_interpreted must be true"), dispatchOutcome{}
	}

	if len(req.Data) == 0 {
		if !entry.AcceptsEmptyInput {
			return errorResponse(req, string(kernel.EmptyInput), "input sequence is empty"), dispatchOutcome{}
		}
	} else if len(req.Data) < entry.MinInputLength {
		return errorResponse(req, string(kernel.InsufficientData), "input shorter than the minimum required length"), dispatchOutcome{}
	}

	np, verr := entry.ValidateParams(req.Params)
	if verr != nil {
		return errorResponse(req, string(verr.Code), verr.Message), dispatchOutcome{}
	}

	runCtx := ctx
	if effMS := p.effectiveTimeoutMS(req.Options.TimeoutMS); effMS > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, time.Duration(effMS)*time.Millisecond)
		defer cancel()
	}

	opts := dispatcher.Options{
		PreferNative:     req.Options.PreferNativeOrDefault(),
		AllowInterpreted: req.Options.AllowInterpretedOrDefault(),
	}

	result, derr := p.disp.Dispatch(runCtx, req.Algorithm, req.Data, np, opts)
	if derr != nil {
		return errorResponse(req, derr.Code, derr.Message), dispatchOutcome{}
	}
	out := dispatchOutcome{tier: string(result.Tier), fallbackReason: result.FallbackReason}

	payload, jerr := json.Marshal(result.Value)
	if jerr != nil {
		return errorResponse(req, "Internal", "failed to encode result: "+jerr.Error()), out
	}

	resp := &wire.AnalysisResponse{
		RequestID:  req.RequestID,
		Success:    true,
		ResultJSON: string(payload),
	}
	if req.Options.IncludeMetadata {
		resp.Metadata = &wire.AnalysisMetadata{
			Tier:           string(result.Tier),
			Algorithm:      req.Algorithm,
			InputLength:    uint64(len(req.Data)),
			ServerVersion:  p.serverVersion,
			FallbackReason: result.FallbackReason,
		}
	}
	return resp, out
}

// effectiveTimeoutMS applies §5's "effective deadline = min(caller
// deadline, request timeout_ms, server default)" rule for the two
// server-known components; the caller's own transport deadline is
// already carried by ctx and composes automatically, since
// context.WithTimeout on a context that already has an earlier deadline
// never extends it.
func (p *Pipeline) effectiveTimeoutMS(requestTimeoutMS uint32) uint32 {
	switch {
	case requestTimeoutMS == 0:
		return p.defaultTimeoutMS
	case p.defaultTimeoutMS == 0:
		return requestTimeoutMS
	case requestTimeoutMS < p.defaultTimeoutMS:
		return requestTimeoutMS
	default:
		return p.defaultTimeoutMS
	}
}

func errorResponse(req wire.AnalysisRequest, code, message string) *wire.AnalysisResponse {
	return &wire.AnalysisResponse{
		RequestID:    req.RequestID,
		Success:      false,
		ErrorCode:    code,
		ErrorMessage: message,
	}
}
