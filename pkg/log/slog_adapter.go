package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes codec events to an slog.Logger.
// Useful for development when you want to see codec activity in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event at Debug level, or at Warn level for failed calls.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("call_id", event.CallID),
		slog.String("op", event.Operation.String()),
		slog.String("model", event.Model),
		slog.Int("size", event.Size),
		slog.Int("fields", event.Fields),
	}
	if event.Duration > 0 {
		attrs = append(attrs, slog.Duration("duration", event.Duration))
	}
	if event.Versioned {
		attrs = append(attrs, slog.Bool("versioned", true))
	}

	level := slog.LevelDebug
	if event.Error != nil {
		level = slog.LevelWarn
		attrs = append(attrs,
			slog.String("error_kind", event.Error.Kind.String()),
			slog.String("error", event.Error.Message),
		)
	}

	a.logger.LogAttrs(context.Background(), level, "codec", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
