package gfxcmd

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	charmlog "github.com/charmbracelet/log"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the package logger. Accessed atomically so SetLogger can
// race with logging from other goroutines (the shader watcher).
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger used by gfxcmd and the devices it
// creates. By default gfxcmd produces no log output. Pass nil to restore
// the silent default.
//
// Log levels used by gfxcmd:
//   - [slog.LevelDebug]: playback traces, lazy vertex-format creation
//   - [slog.LevelInfo]: device and driver lifecycle
//   - [slog.LevelWarn]: rejected buffer writes, stale handles at playback
//   - [slog.LevelError]: driver failures
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current package logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// NewConsoleLogger returns a slog logger that writes human readable,
// colorized records to w.
func NewConsoleLogger(w io.Writer, level slog.Level) *slog.Logger {
	h := charmlog.NewWithOptions(w, charmlog.Options{
		ReportCaller:    level <= slog.LevelDebug,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "gfxcmd",
		Level:           charmlog.Level(level),
	})
	return slog.New(h)
}

// ParseLevel converts a level name (debug, info, warn, error) to a slog
// level. Unknown names map to info.
func ParseLevel(name string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return l
}
