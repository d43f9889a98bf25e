// Package devlog carries the development-mode warning channel shared by the
// reactive core, the scheduler, watchers and the renderer.
//
// Warnings are never fatal. When dev mode is off every call is a no-op.
package devlog

import (
	"context"
	"log/slog"
	"sync/atomic"
)

var (
	enabled atomic.Bool
	logger  atomic.Pointer[slog.Logger]
)

// SetEnabled turns development warnings on or off.
// This should be set at startup and not changed while effects are running.
func SetEnabled(on bool) {
	enabled.Store(on)
}

// Enabled reports whether development warnings are emitted.
func Enabled() bool {
	return enabled.Load()
}

// SetLogger replaces the logger used for warnings. A nil logger restores
// slog.Default().
func SetLogger(l *slog.Logger) {
	logger.Store(l)
}

// Logger returns the current warning logger.
func Logger() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return slog.Default()
}

// Warn emits a development warning. Arguments follow slog's key/value form.
func Warn(msg string, args ...any) {
	if !enabled.Load() {
		return
	}
	Logger().Log(context.Background(), slog.LevelWarn, "reactor: "+msg, args...)
}
