package pipeline

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"analyticsengine/internal/telemetry"
	"analyticsengine/internal/wire"
)

// slotTable buffers out-of-order worker completions and drains them to
// emit in original request order, so a BatchAnalyze caller streaming
// responses sees them in the same order the batch was submitted even
// though the workers that produced them finish in whatever order the
// dispatcher schedules them.
type slotTable struct {
	mu      sync.Mutex
	cond    *sync.Cond
	results []*wire.AnalysisResponse
	ready   []bool
	next    int
}

func newSlotTable(n int) *slotTable {
	st := &slotTable{results: make([]*wire.AnalysisResponse, n), ready: make([]bool, n)}
	st.cond = sync.NewCond(&st.mu)
	return st
}

func (st *slotTable) set(i int, resp *wire.AnalysisResponse) {
	st.mu.Lock()
	st.results[i] = resp
	st.ready[i] = true
	st.cond.Broadcast()
	st.mu.Unlock()
}

// drain blocks until every slot is ready, calling emit on each in index
// order, and stops at the first emit error.
func (st *slotTable) drain(emit func(*wire.AnalysisResponse) error) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	for st.next < len(st.results) {
		for !st.ready[st.next] {
			st.cond.Wait()
		}
		resp := st.results[st.next]
		st.next++
		st.mu.Unlock()
		err := emit(resp)
		st.mu.Lock()
		if err != nil {
			return err
		}
	}
	return nil
}

// BatchAnalyze runs every element of req independently with bounded
// concurrency (a weighted semaphore caps in-flight elements regardless of
// batch size) and streams responses to emit in original request order.
// Each element passes the admission gate and gets its own deadline from
// its own Options.TimeoutMS; canceling ctx (e.g. the client
// disconnecting) cancels every element, started or not, via errgroup's
// shared context.
func (p *Pipeline) BatchAnalyze(ctx context.Context, req wire.BatchRequest, emit func(wire.AnalysisResponse) error) error {
	n := len(req.Requests)
	if n == 0 {
		return nil
	}

	sem := semaphore.NewWeighted(p.maxBatchConc)
	st := newSlotTable(n)

	grp, grpCtx := errgroup.WithContext(ctx)

	for i, elem := range req.Requests {
		i, elem := i, elem
		grp.Go(func() error {
			if err := sem.Acquire(grpCtx, 1); err != nil {
				st.set(i, errorResponse(elem, "Deadline", "batch canceled before this element started"))
				return nil
			}
			defer sem.Release(1)

			if !p.gate.TryAcquire() {
				telemetry.AdmissionRejectedTotal.Inc()
				st.set(i, errorResponse(elem, busyCode, "admission gate at capacity"))
				telemetry.BatchElementsTotal.WithLabelValues("error").Inc()
				return nil
			}
			defer p.gate.Release()

			elemStart := time.Now()
			resp, _ := p.analyzeAdmitted(grpCtx, elem)
			if resp.Metadata != nil {
				resp.Metadata.DurationMS = time.Since(elemStart).Milliseconds()
			}
			st.set(i, resp)

			outcome := "ok"
			if !resp.Success {
				outcome = "error"
			}
			telemetry.BatchElementsTotal.WithLabelValues(outcome).Inc()
			return nil
		})
	}

	drainErr := make(chan error, 1)
	go func() {
		drainErr <- st.drain(func(resp *wire.AnalysisResponse) error {
			return emit(*resp)
		})
	}()

	groupErr := grp.Wait()
	emitErr := <-drainErr

	if emitErr != nil {
		return emitErr
	}
	return groupErr
}
