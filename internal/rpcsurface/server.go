// Package rpcsurface implements the public-facing HTTP/2 server (C6):
// Analyze, BatchAnalyze, HealthCheck, and ListCapabilities, plus a
// Prometheus /metrics endpoint. Requests and responses are JSON, served
// over cleartext HTTP/2 (h2c) so the transport gets real HTTP/2
// multiplexing without requiring TLS termination in front of it.
package rpcsurface

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"analyticsengine/internal/pipeline"
	"analyticsengine/internal/registry"
)

// Server holds the dependencies the HTTP handlers need.
type Server struct {
	pipeline *pipeline.Pipeline
	registry *registry.Registry
	log      zerolog.Logger
	version  string
	started  time.Time
}

// Config constructs a Server.
type Config struct {
	Pipeline *pipeline.Pipeline
	Registry *registry.Registry
	Logger   zerolog.Logger
	Version  string
}

// New builds a Server.
func New(cfg Config) *Server {
	return &Server{
		pipeline: cfg.Pipeline,
		registry: cfg.Registry,
		log:      cfg.Logger,
		version:  cfg.Version,
		started:  time.Now(),
	}
}

// RegisterRoutes sets up every HTTP route on mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/analyze", s.handleAnalyze)
	mux.HandleFunc("/v1/batch-analyze", s.handleBatchAnalyze)
	mux.HandleFunc("/v1/health", s.handleHealth)
	mux.HandleFunc("/v1/capabilities", s.handleCapabilities)
	mux.Handle("/metrics", promhttp.Handler())
}

// Handler wraps mux in an h2c handler so the server accepts HTTP/2
// cleartext connections without negotiating TLS/ALPN first, the same way
// a plaintext internal service mesh link would.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return h2c.NewHandler(mux, &http2.Server{})
}

// Listener builds a net.Listener for addr. network is "tcp" or "unix";
// for "unix" addr is a filesystem path and any stale socket file is
// removed first.
func Listener(network, addr string) (net.Listener, error) {
	if network == "unix" {
		_ = removeStaleSocket(addr)
	}
	return net.Listen(network, addr)
}

func removeStaleSocket(path string) error {
	return removeIfSocket(path)
}

// contextWithRequest attaches nothing beyond the inbound request's own
// context; kept as a named wrapper so handlers have one place to extend
// per-request context values (trace IDs, etc.) later.
func contextWithRequest(r *http.Request) context.Context {
	return r.Context()
}
