package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// newLogger builds the logger for one configuration run. Output goes to
// stderr; with --log-path a per-configuration file receives the same stream.
// The returned close function flushes the file sink, if any.
func newLogger(verbose int, quiet bool, logPath, confPath string) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if verbose > 0 {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelError
	}

	var out io.Writer = os.Stderr
	closeLog := func() {}
	if logPath != "" {
		name := filepath.Join(logPath, filepath.Base(confPath)+".log")
		file, err := os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = io.MultiWriter(os.Stderr, file)
		closeLog = func() { _ = file.Close() }
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	return slog.New(handler), closeLog, nil
}
