package bridge

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/dgryski/go-rendezvous"
	"github.com/google/uuid"
)

// Bridge is a bounded pool of Lua workers reachable only through Submit.
type Bridge struct {
	workers []*worker
	rv      *rendezvous.Rendezvous
	modules map[string]string
}

// Config controls pool shape.
type Config struct {
	// Workers is the number of Lua interpreter workers to run. Must be >= 1.
	Workers int
	// QueueDepth is the per-worker bounded job queue depth.
	QueueDepth int
	// ModulePath, if non-empty, is a filesystem root holding one .lua file
	// per interpreted algorithm (filename without extension is the
	// algorithm name). Empty keeps the built-in modules.
	ModulePath string
}

// BuildBridge constructs a Bridge with the interpreted-tier modules loaded
// into every worker, mirroring the teacher's adapter factory: a single
// entry point that fails closed on misconfiguration instead of returning a
// partially-initialized pool.
func BuildBridge(cfg Config) (*Bridge, error) {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.QueueDepth < 1 {
		cfg.QueueDepth = 1
	}

	modules := builtinModules
	if cfg.ModulePath != "" {
		loaded, err := loadModulesFromPath(cfg.ModulePath)
		if err != nil {
			return nil, err
		}
		modules = loaded
	}

	workers := make([]*worker, cfg.Workers)
	nodes := make([]string, cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		w, err := newWorker(i, cfg.QueueDepth, modules)
		if err != nil {
			for _, started := range workers {
				if started != nil {
					started.stop()
				}
			}
			return nil, err
		}
		workers[i] = w
		nodes[i] = strconv.Itoa(i)
	}

	rv := rendezvous.New(nodes, xxhash.Sum64String)
	return &Bridge{workers: workers, rv: rv, modules: modules}, nil
}

// Submit routes algorithm to its rendezvous-assigned worker and blocks
// until the worker finishes, the queue is full (Busy), or ctx expires
// (Deadline). The rendezvous assignment means repeated calls for the same
// algorithm land on the same worker, so that worker's warm Lua state
// (any memoization a module keeps in its own globals) stays useful.
func (b *Bridge) Submit(ctx context.Context, algorithm string, data []float64, params map[string]string) (interface{}, *Error) {
	idx, err := strconv.Atoi(b.rv.Lookup(algorithm))
	if err != nil || idx < 0 || idx >= len(b.workers) {
		return nil, newError(ErrRuntime, "bridge: rendezvous lookup returned an invalid worker")
	}
	w := b.workers[idx]

	j := &job{
		id:        uuid.NewString(),
		algorithm: algorithm,
		data:      data,
		params:    params,
		resp:      make(chan jobResult, 1),
	}

	select {
	case w.jobs <- j:
	default:
		return nil, newError(ErrBusy, "bridge worker queue "+j.id+" is full for "+algorithm)
	case <-ctx.Done():
		return nil, newError(ErrDeadline, "deadline expired waiting to enqueue "+algorithm+" (job "+j.id+")")
	}

	select {
	case res := <-j.resp:
		if res.err != nil {
			return nil, res.err
		}
		return res.value, nil
	case <-ctx.Done():
		return nil, newError(ErrDeadline, "deadline expired waiting for "+algorithm+" to complete")
	}
}

// Supports reports whether a loaded module is registered for algorithm,
// independent of the registry's own capability table — this is the
// bridge's own source of truth about what it can execute.
func (b *Bridge) Supports(algorithm string) bool {
	_, ok := b.modules[algorithm]
	return ok
}

// Close stops every worker, waiting for in-flight jobs to finish.
func (b *Bridge) Close() {
	for _, w := range b.workers {
		w.stop()
	}
}

// loadModulesFromPath reads every *.lua file directly under dir into the
// module table, keyed by filename without extension (e.g. kmeans.lua
// registers "kmeans"). This is the ANALYTICS_MODULE_PATH escape hatch for
// operators who want to swap in their own interpreted algorithms without
// a rebuild.
func loadModulesFromPath(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	modules := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".lua") {
			continue
		}
		src, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(e.Name(), ".lua")
		modules[name] = string(src)
	}
	return modules, nil
}
