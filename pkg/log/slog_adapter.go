package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes timer events to an slog.Logger.
// Useful for development when you want to watch timers on the console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given
// slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("registry_id", event.RegistryID),
		slog.String("category", event.Category.String()),
		slog.String("timer", event.Timer),
	}

	if event.Kind != "" {
		attrs = append(attrs, slog.String("kind", event.Kind))
	}
	attrs = append(attrs, slog.Bool("armed", event.Armed))
	if event.Interval != 0 {
		attrs = append(attrs, slog.Int64("interval", event.Interval))
	}
	if event.Expiration != 0 {
		attrs = append(attrs, slog.Int64("expiration", event.Expiration))
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "timer event", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
