// Package observability builds the structured loggers the tableside
// binaries use.
package observability

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gildedspoon/tableside"
)

// NewLogger creates a structured zap.Logger. Unknown levels fall back
// to info. The client binary passes a log file path so the TUI and the
// log stream never share a terminal; the server logs to stdout.
func NewLogger(level string, outputPaths ...string) (*zap.Logger, error) {
	parsed := zapcore.InfoLevel
	if err := parsed.Set(strings.ToLower(level)); err != nil {
		parsed = zapcore.InfoLevel
	}

	if len(outputPaths) == 0 {
		outputPaths = []string{"stdout"}
	}

	cfg := zap.Config{
		Level:    zap.NewAtomicLevelAt(parsed),
		Encoding: "json",
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "message",
			LevelKey:   "level",
			TimeKey:    "ts",
			EncodeLevel: func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
				enc.AppendString(l.String())
			},
			EncodeTime: zapcore.ISO8601TimeEncoder,
		},
		OutputPaths:      outputPaths,
		ErrorOutputPaths: outputPaths,
	}

	return cfg.Build()
}

// sessionLogger adapts zap's sugared printf surface to the session
// core's Logger interface.
type sessionLogger struct {
	sugar *zap.SugaredLogger
}

// SessionLogger wraps a zap logger for use by the session manager and
// the REST client.
func SessionLogger(logger *zap.Logger) tableside.Logger {
	return &sessionLogger{sugar: logger.Sugar()}
}

func (l *sessionLogger) Debug(format string, args ...any) {
	l.sugar.Debugf(format, args...)
}

func (l *sessionLogger) Info(format string, args ...any) {
	l.sugar.Infof(format, args...)
}

func (l *sessionLogger) Error(format string, args ...any) {
	l.sugar.Errorf(format, args...)
}
