package bridge

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

type job struct {
	id        string
	algorithm string
	data      []float64
	params    map[string]string
	resp      chan jobResult
}

type jobResult struct {
	value interface{}
	err   *Error
}

// worker owns exactly one *lua.LState. The one-time module load runs in
// newWorker before the worker goroutine starts, when nothing else can
// reach L; every later access to L happens while mu is held — the
// interpreter itself is never safe for concurrent use, mu is what makes
// the GIL emulation real rather than aspirational.
type worker struct {
	id   int
	L    *lua.LState
	mu   sync.Mutex
	jobs chan *job
	quit chan struct{}
	wg   sync.WaitGroup
}

func newWorker(id int, queueDepth int, modules map[string]string) (*worker, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: false})
	for algorithm, src := range modules {
		if err := L.DoString(src); err != nil {
			L.Close()
			return nil, fmt.Errorf("bridge worker %d: loading module %q: %w", id, algorithm, err)
		}
	}

	w := &worker{
		id:   id,
		L:    L,
		jobs: make(chan *job, queueDepth),
		quit: make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

func (w *worker) run() {
	defer w.wg.Done()
	for {
		select {
		case j := <-w.jobs:
			j.resp <- w.execute(j)
		case <-w.quit:
			return
		}
	}
}

// execute calls the registered Lua function for j.algorithm. It recovers
// from Lua-side panics (gopher-lua can panic on stack exhaustion or
// malformed bytecode) and reports them as runtime errors rather than
// crashing the worker goroutine.
func (w *worker) execute(j *job) (result jobResult) {
	w.mu.Lock()
	defer w.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			result = jobResult{err: newError(ErrRuntime, fmt.Sprintf("module panicked: %v", r))}
		}
	}()

	fn := w.L.GetGlobal(j.algorithm)
	if fn.Type() != lua.LTFunction {
		return jobResult{err: newError(ErrUnsupported, "no interpreted module registered for "+j.algorithm)}
	}

	dataTable := pushFloatSlice(w.L, j.data)
	paramsTable := pushStringParams(w.L, j.params)

	if err := w.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, dataTable, paramsTable); err != nil {
		msg := fmt.Sprintf("%s (job=%s algorithm=%s params=%v)", err.Error(), j.id, j.algorithm, sortedParamKeys(j.params))
		return jobResult{err: newError(ErrRuntime, msg)}
	}

	ret := w.L.Get(-1)
	w.L.Pop(1)

	value, cerr := luaValueToGo(ret)
	if cerr != nil {
		return jobResult{err: cerr}
	}
	return jobResult{value: value}
}

func (w *worker) stop() {
	close(w.quit)
	w.wg.Wait()
	w.mu.Lock()
	w.L.Close()
	w.mu.Unlock()
}
