package host

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"analyticsengine/internal/admission"
	"analyticsengine/internal/bridge"
	"analyticsengine/internal/dispatcher"
	"analyticsengine/internal/pipeline"
	"analyticsengine/internal/registry"
	"analyticsengine/internal/rpcsurface"
	"analyticsengine/internal/telemetry"
)

// ShutdownGrace is the default grace period §4.7 specifies for in-flight
// unary requests to finish before the host force-closes listeners.
const ShutdownGrace = 10 * time.Second

// Run constructs every component in dependency order, starts the
// configured listeners, and blocks until a termination signal arrives or
// ctx is canceled, then drains in-flight requests for up to
// ShutdownGrace before returning. A non-nil error here is a fatal
// start-up failure (exit code 1 per §6); configuration problems are
// caught earlier by LoadConfig (exit code 2).
func Run(ctx context.Context, cfg Config) error {
	log := telemetry.NewLogger(telemetry.LoggerConfig{
		Level:  telemetry.LogLevelInfo,
		Format: telemetry.LogFormatJSON,
		Output: os.Stdout,
	})

	reg := registry.New()

	var br *bridge.Bridge
	if cfg.InterpreterEnabled() {
		var err error
		br, err = bridge.BuildBridge(bridge.Config{
			Workers:    cfg.InterpreterWorkers,
			QueueDepth: cfg.InterpreterQueue,
			ModulePath: cfg.ModulePath,
		})
		if err != nil {
			return fmt.Errorf("interpreter bridge init: %w", err)
		}
		defer br.Close()
	}

	disp := dispatcher.New(reg, br)
	gate := admission.New(cfg.MaxConcurrent, 0)

	pl := pipeline.New(pipeline.Config{
		Registry:         reg,
		Dispatcher:       disp,
		Gate:             gate,
		Logger:           log,
		ServerVersion:    cfg.ServerVersion,
		DefaultTimeoutMS: cfg.DefaultTimeoutMS,
	})

	srv := rpcsurface.New(rpcsurface.Config{
		Pipeline: pl,
		Registry: reg,
		Logger:   log,
		Version:  cfg.ServerVersion,
	})
	handler := srv.Handler()

	listeners, err := openListeners(cfg)
	if err != nil {
		return fmt.Errorf("listener start-up: %w", err)
	}
	if len(listeners) == 0 {
		return fmt.Errorf("no transport enabled")
	}

	httpServers := make([]*http.Server, len(listeners))
	serveErrs := make(chan error, len(listeners))
	for i, ln := range listeners {
		hs := &http.Server{Handler: handler}
		httpServers[i] = hs
		go func(hs *http.Server, ln net.Listener) {
			if err := hs.Serve(ln); err != nil && err != http.ErrServerClosed {
				serveErrs <- err
				return
			}
			serveErrs <- nil
		}(hs, ln)
	}

	log.Info().
		Str("features", string(cfg.Features)).
		Str("listen_addr", cfg.ListenAddr).
		Str("socket_path", cfg.SocketPath).
		Int("interpreter_workers", cfg.InterpreterWorkers).
		Int("capabilities", len(reg.Iter())).
		Msg("analytics engine listening")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info().Msg("shutdown signal received")
	case err := <-serveErrs:
		if err != nil {
			return fmt.Errorf("listener failed: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownGrace)
	defer cancel()
	for _, hs := range httpServers {
		if err := hs.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("graceful shutdown deadline exceeded, forcing close")
			_ = hs.Close()
		}
	}

	log.Info().Msg("analytics engine stopped")
	return nil
}

func openListeners(cfg Config) ([]net.Listener, error) {
	var listeners []net.Listener
	if cfg.ListenAddr != "" {
		ln, err := net.Listen("tcp", cfg.ListenAddr)
		if err != nil {
			return nil, err
		}
		listeners = append(listeners, ln)
	}
	if cfg.SocketPath != "" {
		ln, err := rpcsurface.Listener("unix", cfg.SocketPath)
		if err != nil {
			return nil, err
		}
		listeners = append(listeners, ln)
	}
	return listeners, nil
}
