package logger

import (
	"fmt"
	"log/slog"
	"os"
)

// New returns a logger writing to the file at path; the terminal belongs to the TUI so nothing is
// logged to stdout or stderr. The caller closes the returned file.
func New(path string, level slog.Level) (*slog.Logger, *os.File, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	// Create a text handler that writes to the file
	handler := slog.NewTextHandler(file, &slog.HandlerOptions{
		Level: level,
	})

	// Create a logger with the file handler
	return slog.New(handler), file, nil
}
