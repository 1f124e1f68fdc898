// Package logging configures the zerolog sink shared by all components.
//
// Output is line-oriented console format so the log file stays readable on
// the device. zerolog serializes each event's write, so the detection loop
// and the upload worker can log concurrently without interleaving lines.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config holds the log sink settings.
type Config struct {
	// Level is the minimum level: debug, info, warn, error.
	Level string

	// File is the log file path. Empty means stderr.
	File string

	// KeepLogs preserves the previous file contents; otherwise the file is
	// truncated at startup.
	KeepLogs bool
}

// New opens the configured sink and returns the logger plus a close func for
// the underlying file (a no-op for stderr).
func New(cfg Config) (zerolog.Logger, func() error, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var out io.Writer = os.Stderr
	closeFn := func() error { return nil }

	if cfg.File != "" {
		flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
		if !cfg.KeepLogs {
			flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
		}
		f, err := os.OpenFile(cfg.File, flags, 0644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
		closeFn = f.Close
	}

	writer := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    true,
		TimeFormat: time.RFC3339,
	}

	logger := zerolog.New(writer).Level(level).With().Timestamp().Logger()
	return logger, closeFn, nil
}
