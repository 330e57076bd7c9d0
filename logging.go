package styleopts

import "time"

// Log levels carried by LogEvent.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// LogEvent describes one notable step of the option pipeline.
type LogEvent struct {
	Level    string
	Message  string
	OptionID string
	Plugin   Kind
	Engine   string
	Expr     string
	Duration time.Duration
	Fields   map[string]any
	Err      error
}

// Logger records pipeline events.
type Logger interface {
	LogEvent(LogEvent)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(LogEvent)

// LogEvent implements Logger.
func (f LoggerFunc) LogEvent(event LogEvent) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) LogEvent(LogEvent) {}

// NoopLogger returns a logger that discards everything.
func NoopLogger() Logger { return noopLogger{} }
