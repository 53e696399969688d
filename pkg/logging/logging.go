// Package logging holds the slog logger shared by the facesvg core packages.
// By default nothing is logged; the CLI installs a handler with SetLogger.
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record. Enabled reports false so callers skip
// formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger installs l for all core packages. Passing nil restores the
// silent default. Safe for concurrent use.
//
// Levels:
//   - Debug: per-part decisions (assembly reversals, arc parameters, placements)
//   - Info: profiles captured and documents written
//   - Warn: relief skipped, validation warnings
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. It never returns nil.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
