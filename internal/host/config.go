// Package host implements the Process Host (C7): reads configuration from
// the environment, constructs every component in dependency order, starts
// the configured listeners, and manages graceful shutdown.
package host

import (
	"fmt"
	"os"
	"strconv"
)

// Features selects which dispatch tiers the process starts with.
type Features string

const (
	FeaturesDefault         Features = "default"
	FeaturesNativeOnly      Features = "native-only"
	FeaturesWithInterpreter Features = "with-interpreter"
)

// Config is the process-wide configuration, read once from the
// environment at start-up (§6). CLI flag parsing is out of scope per §1,
// so unlike the teacher's cmd/ratelimiter-api this reads os.Getenv
// directly rather than defining flag.*Var bindings.
type Config struct {
	ListenAddr         string
	SocketPath         string
	Features           Features
	MaxConcurrent      int64
	DefaultTimeoutMS   uint32
	InterpreterWorkers int
	InterpreterQueue   int
	ModulePath         string
	ServerVersion      string
}

// ConfigError is a configuration-validation failure; the host maps it to
// exit code 2 (§6), distinct from exit code 1 for start-up failures.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return e.Message }

// LoadConfig reads Config from the environment, applying the defaults §6
// documents and validating that at least one transport is enabled.
func LoadConfig() (Config, error) {
	listenAddr, listenAddrSet := os.LookupEnv("ANALYTICS_LISTEN_ADDR")
	if !listenAddrSet {
		listenAddr = "0.0.0.0:50051"
	}

	cfg := Config{
		ListenAddr:         listenAddr,
		SocketPath:         os.Getenv("ANALYTICS_SOCKET_PATH"),
		Features:           Features(getEnv("ANALYTICS_FEATURES", string(FeaturesDefault))),
		MaxConcurrent:      64,
		DefaultTimeoutMS:   30000,
		InterpreterWorkers: 4,
		InterpreterQueue:   32,
		ModulePath:         os.Getenv("ANALYTICS_MODULE_PATH"),
		ServerVersion:      getEnv("ANALYTICS_VERSION", "dev"),
	}

	var err error
	if cfg.MaxConcurrent, err = getEnvInt64("ANALYTICS_MAX_CONCURRENT", cfg.MaxConcurrent); err != nil {
		return Config{}, err
	}
	var timeoutMS int64
	if timeoutMS, err = getEnvInt64("ANALYTICS_DEFAULT_TIMEOUT_MS", int64(cfg.DefaultTimeoutMS)); err != nil {
		return Config{}, err
	}
	cfg.DefaultTimeoutMS = uint32(timeoutMS)

	var workers, queue int64
	if workers, err = getEnvInt64("ANALYTICS_INTERPRETER_WORKERS", int64(cfg.InterpreterWorkers)); err != nil {
		return Config{}, err
	}
	cfg.InterpreterWorkers = int(workers)
	if queue, err = getEnvInt64("ANALYTICS_INTERPRETER_QUEUE", int64(cfg.InterpreterQueue)); err != nil {
		return Config{}, err
	}
	cfg.InterpreterQueue = int(queue)

	switch cfg.Features {
	case FeaturesDefault, FeaturesNativeOnly, FeaturesWithInterpreter:
	default:
		return Config{}, &ConfigError{Message: fmt.Sprintf("ANALYTICS_FEATURES: unrecognized value %q", cfg.Features)}
	}

	if cfg.ListenAddr == "" && cfg.SocketPath == "" {
		return Config{}, &ConfigError{Message: "at least one transport must be enabled (ANALYTICS_LISTEN_ADDR or ANALYTICS_SOCKET_PATH)"}
	}

	return cfg, nil
}

// InterpreterEnabled reports whether the configured feature set requires
// the Interpreter Bridge. "default" enables it; only "native-only" turns
// it off.
func (c Config) InterpreterEnabled() bool {
	return c.Features != FeaturesNativeOnly
}

func getEnv(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func getEnvInt64(name string, def int64) (int64, error) {
	v := os.Getenv(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, &ConfigError{Message: fmt.Sprintf("%s: invalid integer %q", name, v)}
	}
	return n, nil
}
