package cli

import (
	"context"
	"io"
	"sort"

	"github.com/charmbracelet/log"

	styleopts "github.com/goliatone/go-style-options"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps filtered at level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the attached logger or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
			return l
		}
	}
	return log.Default()
}

// eventLogger forwards engine events to a charm logger.
type eventLogger struct {
	logger *log.Logger
}

func (l eventLogger) LogEvent(event styleopts.LogEvent) {
	keyvals := make([]any, 0, 12+2*len(event.Fields))
	add := func(key string, value any) {
		keyvals = append(keyvals, key, value)
	}
	if event.OptionID != "" {
		add("option", event.OptionID)
	}
	if event.Plugin != "" {
		add("plugin", string(event.Plugin))
	}
	if event.Engine != "" {
		add("engine", event.Engine)
	}
	if event.Expr != "" {
		add("expr", event.Expr)
	}
	if event.Duration > 0 {
		add("duration", event.Duration)
	}
	keys := make([]string, 0, len(event.Fields))
	for key := range event.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		add(key, event.Fields[key])
	}
	if event.Err != nil {
		add("err", event.Err)
	}

	switch event.Level {
	case styleopts.LevelDebug:
		l.logger.Debug(event.Message, keyvals...)
	case styleopts.LevelWarn:
		l.logger.Warn(event.Message, keyvals...)
	case styleopts.LevelError:
		l.logger.Error(event.Message, keyvals...)
	default:
		l.logger.Info(event.Message, keyvals...)
	}
}
