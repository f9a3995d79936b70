// Package logging configures slog to write to stderr and, when configured,
// a log file through a shared multi-writer. The stdlib log package is
// redirected to the same writer so leaf packages keep their log.Printf calls.
package logging

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
)

// Setup configures the default slog logger. filePath may be empty (stderr
// only). The returned closer owns the log file; call it on shutdown.
func Setup(level, filePath string) (*slog.Logger, io.Closer, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, nil, err
	}

	var w io.Writer = os.Stderr
	closer := io.Closer(nopCloser{})

	if filePath != "" {
		f, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = io.MultiWriter(os.Stderr, f)
		closer = f
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	// Align stdlib log with the same writer.
	log.SetOutput(w)

	return logger, closer, nil
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", level)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
