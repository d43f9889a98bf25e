package reactive

import (
	"log/slog"

	"github.com/vango-dev/reactor/internal/devlog"
)

// SetDevMode enables development warnings and debug hooks
// (OnTrack/OnTrigger). Set it at startup.
func SetDevMode(on bool) {
	devlog.SetEnabled(on)
}

// DevMode reports whether development mode is on.
func DevMode() bool {
	return devlog.Enabled()
}

// SetLogger sets the logger that receives development warnings.
func SetLogger(l *slog.Logger) {
	devlog.SetLogger(l)
}

func devMode() bool {
	return devlog.Enabled()
}

func warn(msg string, args ...any) {
	devlog.Warn(msg, args...)
}
