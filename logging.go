package main

import (
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
)

// setupLogging routes slog through the pterm logger so log lines match the
// rest of the terminal output. Every record carries the run id.
func setupLogging(w io.Writer, debug bool) *slog.Logger {
	level := pterm.LogLevelInfo
	if debug {
		level = pterm.LogLevelDebug
	}

	ptermLogger := pterm.DefaultLogger.WithLevel(level).WithWriter(w)

	logger := slog.New(pterm.NewSlogHandler(ptermLogger)).With(
		slog.String(logKeyRun, uuid.NewString()),
	)
	slog.SetDefault(logger)

	return logger
}
