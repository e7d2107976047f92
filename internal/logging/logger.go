// Package logging sets up the process-wide slog logger. Records go to a file
// because the terminal belongs to the TUI.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Common structured logging keys.
const (
	KeyRunID  = "run_id"
	KeyOp     = "op"
	KeyTaskID = "task_id"
	KeyError  = "error"
	KeyStatus = "status"
)

// Options mirrors the log section of config.yaml.
type Options struct {
	Level  string
	JSON   bool
	File   string    // ignored when Output is set
	Output io.Writer // tests
}

// ParseLevel maps a config string onto a slog level. Unknown values are info.
func ParseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return l
}

// New builds a logger tagged with a fresh run id and installs it as the slog
// default. The returned closer releases the log file, if one was opened.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	out := opts.Output
	var closer io.Closer = nopCloser{}
	if out == nil {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out, closer = f, f
	}

	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}
	var h slog.Handler
	if opts.JSON {
		h = slog.NewJSONHandler(out, handlerOpts)
	} else {
		h = slog.NewTextHandler(out, handlerOpts)
	}

	logger := slog.New(h).With(KeyRunID, uuid.NewString())
	slog.SetDefault(logger)
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
