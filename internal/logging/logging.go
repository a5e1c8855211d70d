// Package logging configures the watchdog's zerolog logger: human-readable
// console output on stderr plus an append-only, timestamped log file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

const timeFormat = "2006-01-02 15:04:05"

// Config holds logger settings.
type Config struct {
	// Level is the minimum level: debug, info, warn, error. Default: info.
	Level string `koanf:"level"`

	// File is the append-only log file. Empty disables file output.
	File string `koanf:"file"`
}

// New builds the logger. The log file is opened append-only; if it cannot be
// created at the configured path (typically /var/log without privileges), the
// file falls back to the working directory, matching the worker's own
// behavior. The returned cleanup closes the file.
func New(cfg Config) (zerolog.Logger, func(), error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: timeFormat,
	}}

	cleanup := func() {}
	if cfg.File != "" {
		f, path, err := openLogFile(cfg.File)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
		}
		if path != cfg.File {
			fmt.Fprintf(os.Stderr, "warning: cannot write %s, logging to %s\n", cfg.File, path)
		}
		// Plain line-oriented text in the file, no ANSI escapes.
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        f,
			NoColor:    true,
			TimeFormat: timeFormat,
		})
		cleanup = func() { f.Close() }
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger()

	return logger, cleanup, nil
}

// openLogFile opens path for appending, falling back to the bare filename in
// the working directory when the configured location is not writable.
func openLogFile(path string) (*os.File, string, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err == nil {
		return f, path, nil
	}

	local := filepath.Base(path)
	f, localErr := os.OpenFile(local, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if localErr != nil {
		return nil, "", err
	}
	return f, local, nil
}

func parseLevel(s string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return zerolog.InfoLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", s)
	}
}
