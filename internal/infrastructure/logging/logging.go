// Package logging sets up the session logger: structured text on stderr
// plus one file per run under the configured directory, so crash reports
// can attach the exact session.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Setup builds the engine logger. Every session gets a short unique id
// and its own file <dir>/<timestamp>_<id>.log; dir is created if
// missing. The returned close function flushes and closes the file.
func Setup(dir, level string) (*slog.Logger, func() error, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log dir %s: %w", dir, err)
	}

	session := uuid.NewString()[:8]
	name := fmt.Sprintf("%s_%s.log", time.Now().Format("2006-01-02_15-04-05"), session)
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create log file %s: %w", name, err)
	}

	handler := slog.NewTextHandler(io.MultiWriter(os.Stderr, f), &slog.HandlerOptions{Level: lvl})
	log := slog.New(handler).With("session", session)
	return log, f.Close, nil
}

// ParseLevel maps a config string to a slog level. An empty string
// selects info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

// Discard returns a logger that drops everything. Tests use it to keep
// component constructors quiet.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
