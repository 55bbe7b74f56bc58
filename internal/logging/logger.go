package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"marquee/internal/config"
)

// LogFileName is the file written under paths.log_dir.
const LogFileName = "marquee.log"

// Options describes one log destination. Level defaults to info and Format
// to console. Path appends to a file; without it Writer is used, then stderr.
// Development adds source locations at every level.
type Options struct {
	Level       string
	Format      string
	Path        string
	Writer      io.Writer
	Development bool
}

// New builds a logger for a single destination.
func New(opts Options) (*slog.Logger, error) {
	h, err := newHandler(opts)
	if err != nil {
		return nil, err
	}
	return slog.New(h), nil
}

func newHandler(opts Options) (slog.Handler, error) {
	level := ParseLevel(opts.Level)
	addSource := opts.Development || level <= slog.LevelDebug

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format != "" && format != "console" && format != "json" {
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	w := opts.Writer
	if path := strings.TrimSpace(opts.Path); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("ensure log directory: %w", err)
		}
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", path, err)
		}
		w = file
	}
	if w == nil {
		w = os.Stderr
	}

	if format == "json" {
		return newJSONHandler(w, level, addSource), nil
	}
	return newConsoleHandler(w, level, addSource), nil
}

// NewFromConfig creates the application logger. The log file under
// paths.log_dir gets logging.level in logging.format. Stderr only sees
// warnings unless verbose is set so command output stays clean.
func NewFromConfig(cfg *config.Config, verbose bool) (*slog.Logger, error) {
	terminalLevel := "warn"
	if verbose {
		terminalLevel = "debug"
	}
	terminal, err := newHandler(Options{Level: terminalLevel})
	if err != nil {
		return nil, err
	}
	if cfg == nil || strings.TrimSpace(cfg.Paths.LogDir) == "" {
		return slog.New(terminal), nil
	}

	file, err := newHandler(Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Path:   filepath.Join(cfg.Paths.LogDir, LogFileName),
	})
	if err != nil {
		return nil, err
	}
	return slog.New(Tee(terminal, file)), nil
}

// ParseLevel maps a config level name to a slog level. Unknown names are
// treated as info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
