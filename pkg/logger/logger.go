// Package logger wraps zerolog with a context-carrying API: request-scoped
// fields ride on the context, and every emit pulls the enriched entry back
// out. Services never touch zerolog directly.
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/estilosboom/boom-backend/pkg/env"
)

// Options configures the structured logger.
type Options struct {
	ServiceName string
	Level       zerolog.Level
	WarnStack   bool
	Output      io.Writer
}

// Logger is the emit side. Field enrichment happens through the With*
// helpers, which return a derived context.
type Logger struct {
	base      *zerolog.Logger
	warnStack bool
}

type ctxKey struct{}

// New builds a logger writing JSON to Output (stdout by default). Setting
// LOG_FORMAT=console switches to the human-readable writer for local runs.
func New(opts Options) *Logger {
	if opts.Level == zerolog.NoLevel {
		opts.Level = zerolog.InfoLevel
	}

	var output io.Writer = opts.Output
	if output == nil {
		output = os.Stdout
	}
	if env.Get("LOG_FORMAT", "json") == "console" {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: "15:04:05"}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	base := zerolog.New(output).
		With().
		Timestamp().
		Str("service", opts.ServiceName).
		Logger().
		Level(opts.Level)

	return &Logger{base: &base, warnStack: opts.WarnStack}
}

// ParseLevel maps a config string to a zerolog level, defaulting to info on
// anything unrecognized.
func ParseLevel(value string) zerolog.Level {
	raw := strings.ToLower(strings.TrimSpace(value))
	if raw == "" {
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(raw)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *Logger) entryFor(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if entry, ok := ctx.Value(ctxKey{}).(*zerolog.Logger); ok {
			return entry
		}
	}
	return l.base
}

func stash(ctx context.Context, entry zerolog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, &entry)
}

// WithField derives a context whose log entries carry the extra field.
func (l *Logger) WithField(ctx context.Context, key string, value any) context.Context {
	return stash(ctx, l.entryFor(ctx).With().Interface(key, value).Logger())
}

// WithFields is WithField for several keys at once.
func (l *Logger) WithFields(ctx context.Context, fields map[string]any) context.Context {
	builder := l.entryFor(ctx).With()
	for k, v := range fields {
		builder = builder.Interface(k, v)
	}
	return stash(ctx, builder.Logger())
}

func (l *Logger) WithRequestID(ctx context.Context, requestID string) context.Context {
	return l.WithField(ctx, "request_id", requestID)
}

func (l *Logger) WithUserID(ctx context.Context, userID string) context.Context {
	return l.WithField(ctx, "user_id", userID)
}

func (l *Logger) Info(ctx context.Context, msg string) {
	l.entryFor(ctx).Info().Msg(msg)
}

func (l *Logger) Warn(ctx context.Context, msg string) {
	event := l.entryFor(ctx).Warn()
	if l.warnStack {
		event = event.Str("stack", stackTrace())
	}
	event.Msg(msg)
}

func (l *Logger) Error(ctx context.Context, msg string, err error) {
	event := l.entryFor(ctx).Error()
	if err != nil {
		event = event.Err(err)
	}
	event.Str("stack", stackTrace()).Msg(msg)
}

func stackTrace() string {
	return strings.TrimSpace(string(debug.Stack()))
}
