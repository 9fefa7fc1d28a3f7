package config

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger builds the process logger: JSON output in production for log
// shippers, human-readable text with source locations everywhere else.
// Every entry carries the service name so dashboard, provider and report
// logs stay attributable when aggregated.
func NewLogger(env string) *slog.Logger {
	return newLogger(os.Stdout, env)
}

func newLogger(w io.Writer, env string) *slog.Logger {
	opts := &slog.HandlerOptions{}

	var handler slog.Handler
	if env == "production" {
		opts.Level = slog.LevelInfo
		handler = slog.NewJSONHandler(w, opts)
	} else {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler).With(slog.String("service", "facex"))
}
