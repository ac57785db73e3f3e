// Package logging wires the process-wide slog setup: JSON to stdout for
// every record, with ERROR and above additionally batched into the
// system_logs table so moderation incidents stay queryable after the
// container logs rotate away.
package logging

import (
	"log/slog"
	"os"
)

// Setup installs the stdout JSON logger as the slog default. main swaps it
// for a MultiHandler once the database handler is available.
func Setup() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}
