package rpcsurface

import (
	"bufio"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"analyticsengine/internal/wire"
)

// handleAnalyze serves POST /v1/analyze: one AnalysisRequest in, one
// AnalysisResponse out, both JSON.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req wire.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	resp, err := s.pipeline.Analyze(contextWithRequest(r), req)
	if err != nil {
		writeTransportError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

// handleBatchAnalyze serves POST /v1/batch-analyze: one BatchRequest in,
// a stream of newline-delimited AnalysisResponse JSON objects out, each
// flushed as soon as it is ready so a client sees completed elements
// without waiting for the whole batch.
func (s *Server) handleBatchAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req wire.BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.BatchID == "" {
		req.BatchID = uuid.NewString()
	}
	for i := range req.Requests {
		if req.Requests[i].RequestID == "" {
			req.Requests[i].RequestID = uuid.NewString()
		}
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)

	bw := bufio.NewWriter(w)
	flusher, canFlush := w.(http.Flusher)

	enc := json.NewEncoder(bw)
	emit := func(resp wire.AnalysisResponse) error {
		if err := enc.Encode(resp); err != nil {
			return err
		}
		if err := bw.Flush(); err != nil {
			return err
		}
		if canFlush {
			flusher.Flush()
		}
		return nil
	}

	if err := s.pipeline.BatchAnalyze(contextWithRequest(r), req, emit); err != nil {
		s.log.Warn().Err(err).Str("batch_id", req.BatchID).Msg("batch-analyze stream aborted")
	}
}

// handleHealth serves GET /v1/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	resp := wire.HealthResponse{
		Healthy:           true,
		Version:           s.version,
		CapabilitiesCount: len(s.registry.Iter()),
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

// handleCapabilities serves GET /v1/capabilities.
func (s *Server) handleCapabilities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	entries := s.registry.Iter()
	out := wire.CapabilityList{Capabilities: make([]wire.Capability, len(entries))}
	for i, c := range entries {
		schemaJSON, _ := json.Marshal(c.ParamSchemaNames())
		out.Capabilities[i] = wire.Capability{
			Name:                 c.Name,
			NativeSupported:      c.NativeSupported,
			InterpretedSupported: c.InterpretedSupported,
			ParamSchemaJSON:      string(schemaJSON),
			MinInputLength:       uint64(c.MinInputLength),
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(out)
}

// writeTransportError maps a transport-level error from Analyze (admission
// rejection; Analyze never returns any other kind) onto an HTTP status.
// Request-shaped failures never reach here — those travel inside a
// normal 200 response with Success=false, per the wire contract.
func writeTransportError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), http.StatusServiceUnavailable)
}
