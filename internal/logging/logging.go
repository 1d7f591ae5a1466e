// Package logging configures zerolog for the command line and the TUI.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Level returns debug when verbose is set, info otherwise
func Level(verbose bool) zerolog.Level {
	if verbose {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// NewConsole returns a human-readable logger writing to w, usually stderr
func NewConsole(w io.Writer, verbose bool) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	return zerolog.New(out).
		Level(Level(verbose)).
		With().
		Timestamp().
		Logger()
}

// NewFile returns a JSON logger appending to path, for use while the
// terminal is owned by the TUI. The caller closes the returned file.
func NewFile(path string, verbose bool) (zerolog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := zerolog.New(f).
		Level(Level(verbose)).
		With().
		Timestamp().
		Logger()
	return logger, f, nil
}
