package log

// Logger is the interface applications implement to receive codec events.
// Pass nil or NoopLogger to disable tracing.
type Logger interface {
	// Log records a codec event. Implementations must be thread-safe.
	Log(event Event)
}

// NoopLogger discards all events.
// NoopLogger is safe for concurrent use and usable as a zero value.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// Compile-time interface satisfaction check.
var _ Logger = NoopLogger{}
