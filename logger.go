package colorman

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/colorman/registry"
)

// nopHandler drops every record. Enabled reports false, so attributes of
// disabled calls are never evaluated.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr holds the package logger shared by every Manager created
// without WithLogger.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger sets the logger used by colorman and the registry package.
// colorman is silent until SetLogger is called; nil silences it again.
// It may be called while other goroutines are logging.
//
// Levels:
//   - [slog.LevelDebug]: cache hits and misses, processor creation, partial updates
//   - [slog.LevelWarn]: missing roles, unknown names, fallback configuration
//
//	colorman.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	registry.SetLogger(l)
}

// Logger returns the package logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
