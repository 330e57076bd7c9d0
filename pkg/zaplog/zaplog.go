// Package zaplog adapts zap loggers to the styleopts Logger interface.
package zaplog

import (
	"fmt"
	"io"
	"os"
	"sort"

	styleopts "github.com/goliatone/go-style-options"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger forwards pipeline events to zap.
type Logger struct {
	log *zap.Logger
}

// New wraps log, naming it "styleopts". A nil log discards events.
func New(log *zap.Logger) *Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Logger{log: log.Named("styleopts")}
}

// Zap returns the underlying logger.
func (l *Logger) Zap() *zap.Logger {
	return l.log
}

// LogEvent implements styleopts.Logger.
func (l *Logger) LogEvent(event styleopts.LogEvent) {
	level := levelOf(event.Level)
	ce := l.log.Check(level, event.Message)
	if ce == nil {
		return
	}
	ce.Write(fields(event)...)
}

func levelOf(level string) zapcore.Level {
	switch level {
	case styleopts.LevelDebug:
		return zapcore.DebugLevel
	case styleopts.LevelWarn:
		return zapcore.WarnLevel
	case styleopts.LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func fields(event styleopts.LogEvent) []zap.Field {
	out := make([]zap.Field, 0, 6+len(event.Fields))
	if event.OptionID != "" {
		out = append(out, zap.String("option", event.OptionID))
	}
	if event.Plugin != "" {
		out = append(out, zap.String("plugin", string(event.Plugin)))
	}
	if event.Engine != "" {
		out = append(out, zap.String("engine", event.Engine))
	}
	if event.Expr != "" {
		out = append(out, zap.String("expr", event.Expr))
	}
	if event.Duration > 0 {
		out = append(out, zap.Duration("duration", event.Duration))
	}
	keys := make([]string, 0, len(event.Fields))
	for key := range event.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		out = append(out, zap.Any(key, event.Fields[key]))
	}
	if event.Err != nil {
		out = append(out, zap.Error(event.Err))
	}
	return out
}

// NewConsole builds a development console logger writing to w (stderr when
// nil). Level is one of "none", "debug" or "normal".
func NewConsole(w io.Writer, level string) (*zap.Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	var enabler zapcore.LevelEnabler
	switch level {
	case "none":
		return zap.NewNop(), nil
	case "debug":
		enabler = zapcore.DebugLevel
	case "normal", "":
		enabler = zapcore.InfoLevel
	default:
		return nil, fmt.Errorf("zaplog: unknown level %q", level)
	}
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.TimeKey = zapcore.OmitKey
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(zapcore.AddSync(w)), enabler)
	return zap.New(core), nil
}
