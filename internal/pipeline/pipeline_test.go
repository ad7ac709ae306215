package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"analyticsengine/internal/admission"
	"analyticsengine/internal/bridge"
	"analyticsengine/internal/dispatcher"
	"analyticsengine/internal/registry"
	"analyticsengine/internal/wire"
)

func testPipeline(t *testing.T, gateLimit int64) *Pipeline {
	t.Helper()
	br, err := bridge.BuildBridge(bridge.Config{Workers: 2, QueueDepth: 8})
	if err != nil {
		t.Fatalf("BuildBridge: %v", err)
	}
	t.Cleanup(br.Close)

	reg := registry.New()
	disp := dispatcher.New(reg, br)
	gate := admission.New(gateLimit, 8)

	return New(Config{
		Registry:         reg,
		Dispatcher:       disp,
		Gate:             gate,
		Logger:           zerolog.Nop(),
		ServerVersion:    "test",
		MaxBatchParallel: 4,
	})
}

func TestAnalyzeSuccess(t *testing.T) {
	p := testPipeline(t, 8)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	resp, err := p.Analyze(ctx, wire.AnalysisRequest{
		RequestID: "r1",
		Algorithm: "mean",
		Data:      []float64{1, 2, 3},
		Options:   wire.AnalysisOptions{IncludeMetadata: true},
	})
	if err != nil {
		t.Fatalf("unexpected transport error: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success, got error_code=%s message=%s", resp.ErrorCode, resp.ErrorMessage)
	}
	if resp.Metadata == nil || resp.Metadata.Tier != "native" {
		t.Fatalf("expected native tier metadata, got %+v", resp.Metadata)
	}
}

func TestAnalyzeUnknownAlgorithm(t *testing.T) {
	p := testPipeline(t, 8)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	resp, err := p.Analyze(ctx, wire.AnalysisRequest{RequestID: "r2", Algorithm: "not-real", Data: []float64{1, 2}})
	if err != nil {
		t.Fatalf("unexpected transport error: %v", err)
	}
	if resp.Success {
		t.Fatalf("expected failure for unknown algorithm")
	}
}

func TestAnalyzeEmptyInputReportsEmptyInput(t *testing.T) {
	p := testPipeline(t, 8)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	resp, err := p.Analyze(ctx, wire.AnalysisRequest{RequestID: "r-empty", Algorithm: "mean", Data: []float64{}})
	if err != nil {
		t.Fatalf("unexpected transport error: %v", err)
	}
	if resp.Success {
		t.Fatalf("expected failure for empty input")
	}
	if resp.ErrorCode != "EmptyInput" {
		t.Fatalf("error_code = %q, want EmptyInput", resp.ErrorCode)
	}
}

func TestAnalyzeRejectsInconsistentOptions(t *testing.T) {
	p := testPipeline(t, 8)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	no := false
	resp, err := p.Analyze(ctx, wire.AnalysisRequest{
		RequestID: "r-opts",
		Algorithm: "mean",
		Data:      []float64{1, 2, 3},
		Options:   wire.AnalysisOptions{PreferNative: &no, AllowInterpreted: &no},
	})
	if err != nil {
		t.Fatalf("unexpected transport error: %v", err)
	}
	if resp.Success {
		t.Fatalf("expected failure when both prefer_native and allow_interpreted are false")
	}
	if resp.ErrorCode != "ParamOutOfRange" {
		t.Fatalf("error_code = %q, want ParamOutOfRange", resp.ErrorCode)
	}
}

func TestAnalyzeAdmissionRejection(t *testing.T) {
	p := testPipeline(t, 1)
	p.gate.TryAcquire() // occupy the only slot

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := p.Analyze(ctx, wire.AnalysisRequest{RequestID: "r3", Algorithm: "mean", Data: []float64{1, 2}})
	if err == nil {
		t.Fatalf("expected admission rejection error")
	}
}

func TestEffectiveTimeoutMSTakesSmaller(t *testing.T) {
	p := testPipeline(t, 8)
	p.defaultTimeoutMS = 5000

	if got := p.effectiveTimeoutMS(1000); got != 1000 {
		t.Fatalf("expected request timeout to win when smaller, got %d", got)
	}
	if got := p.effectiveTimeoutMS(9000); got != 5000 {
		t.Fatalf("expected server default to win when smaller, got %d", got)
	}
	if got := p.effectiveTimeoutMS(0); got != 5000 {
		t.Fatalf("expected server default when request omits timeout_ms, got %d", got)
	}

	p.defaultTimeoutMS = 0
	if got := p.effectiveTimeoutMS(0); got != 0 {
		t.Fatalf("expected no timeout when neither side sets one, got %d", got)
	}
}

func TestBatchAnalyzeEmitsInOrder(t *testing.T) {
	p := testPipeline(t, 8)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req := wire.BatchRequest{
		BatchID: "b1",
		Requests: []wire.AnalysisRequest{
			{RequestID: "a", Algorithm: "mean", Data: []float64{1, 2, 3}},
			{RequestID: "b", Algorithm: "median", Data: []float64{4, 5, 6}},
			{RequestID: "c", Algorithm: "not-real", Data: []float64{1}},
		},
	}

	var seen []string
	err := p.BatchAnalyze(ctx, req, func(resp wire.AnalysisResponse) error {
		seen = append(seen, resp.RequestID)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"a", "b", "c"}
	for i, id := range want {
		if seen[i] != id {
			t.Fatalf("emission order = %v, want %v", seen, want)
		}
	}
}
