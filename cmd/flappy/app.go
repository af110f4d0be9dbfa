package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/flappy-wall/internal/games/flappy"
	"github.com/vovakirdan/flappy-wall/internal/leaderboard"
	"github.com/vovakirdan/flappy-wall/internal/storage"
)

// newLogger creates a logger at the configured level.
func newLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(settings.LogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", settings.LogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// fileLogger logs to the configured log file; the alt screen owns the
// terminal during play. It falls back to discarding when the file cannot
// be opened.
func fileLogger(prefix string) (*log.Logger, func()) {
	path := settings.LogFile
	if path == "" {
		return log.New(io.Discard), func() {}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot create log directory: %v\n", err)
		return log.New(io.Discard), func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot open log file: %v\n", err)
		return log.New(io.Discard), func() {}
	}
	return newLogger(f, prefix), func() { f.Close() }
}

// connect opens the configured score store.
func connect(ctx context.Context) (storage.Backend, error) {
	backend, err := storage.Connect(ctx, settings.Store)
	if err != nil {
		return nil, fmt.Errorf("cannot open score store %q: %w", settings.Store, err)
	}
	return backend, nil
}

// lookupVariant resolves a mode id with a CLI-friendly error.
func lookupVariant(id string) (flappy.Variant, error) {
	v, err := flappy.Lookup(id)
	if err != nil {
		return flappy.Variant{}, fmt.Errorf("unknown mode %q; run 'flappy list' to see the modes", id)
	}
	return v, nil
}

// boardOf returns the leaderboard of v, or nil when v keeps none.
func boardOf(backend storage.Backend, v flappy.Variant) leaderboard.Store {
	if backend == nil || v.Board == "" {
		return nil
	}
	return backend.Leaderboard(v.Board)
}

// termSize returns the terminal size, defaulting to 80x24.
func termSize() (int, int) {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return width, height
}

// seed returns the configured seed, or a clock-based one.
func seed() int64 {
	if settings.Seed != 0 {
		return settings.Seed
	}
	return time.Now().UnixNano()
}
