// Package main is the entry point for the analytics engine daemon: it
// reads configuration from the environment, builds the process via
// internal/host, and exits with the code §6 specifies.
package main

import (
	"context"
	"fmt"
	"os"

	"analyticsengine/internal/host"
)

func main() {
	os.Exit(run())
}

// run builds the process per §6 exit codes: 0 normal shutdown, 1 fatal
// start-up error, 2 configuration error. host.Run owns its own
// SIGINT/SIGTERM handling for the graceful-shutdown path; ctx here is
// only the outer cancellation scope, never canceled in normal operation.
func run() int {
	cfg, err := host.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		return 2
	}

	if err := host.Run(context.Background(), cfg); err != nil {
		fmt.Fprintln(os.Stderr, "fatal start-up error:", err)
		return 1
	}
	return 0
}
