package logger

import (
	"log/slog"
	"os"
)

// New returns the process logger. Text output to stdout keeps local runs
// readable; swap the handler for JSON when shipping to a collector.
func New() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
