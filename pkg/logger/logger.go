package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/angelmondragon/sellerbazaar-backend/pkg/env"
)

// maxStackBytes caps stack traces attached to error entries.
const maxStackBytes = 8 << 10

type Options struct {
	ServiceName string
	Level       zerolog.Level
	// WarnStack attaches a stack trace to warnings as well as errors.
	WarnStack bool
	// Fields are stamped on every entry, e.g. the instance id.
	Fields map[string]any
	Output io.Writer
}

// Logger is a zerolog root whose per-request children travel on the context.
type Logger struct {
	root      zerolog.Logger
	warnStack bool
}

type ctxKey struct{}

func New(opts Options) *Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if env.Get("LOG_FORMAT", "json") == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano

	builder := zerolog.New(out).With().Timestamp().Str("service", opts.ServiceName)
	root := withSorted(builder, opts.Fields).Logger().Level(opts.Level)
	return &Logger{root: root, warnStack: opts.WarnStack}
}

// Nop discards everything.
func Nop() *Logger {
	return New(Options{ServiceName: "nop", Output: io.Discard, Level: zerolog.Disabled})
}

// ParseLevel maps a config string to a level, defaulting to info.
func ParseLevel(value string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(value)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *Logger) from(ctx context.Context) zerolog.Logger {
	if ctx != nil {
		if child, ok := ctx.Value(ctxKey{}).(zerolog.Logger); ok {
			return child
		}
	}
	return l.root
}

func (l *Logger) into(ctx context.Context, child zerolog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey{}, child)
}

// WithField returns a child context whose entries carry key=value. The parent
// context is unchanged.
func (l *Logger) WithField(ctx context.Context, key string, value any) context.Context {
	return l.into(ctx, l.from(ctx).With().Interface(key, value).Logger())
}

// WithFields is WithField for several keys, emitted in sorted key order.
func (l *Logger) WithFields(ctx context.Context, fields map[string]any) context.Context {
	return l.into(ctx, withSorted(l.from(ctx).With(), fields).Logger())
}

func (l *Logger) WithRequestID(ctx context.Context, requestID string) context.Context {
	return l.WithField(ctx, "request_id", requestID)
}

func (l *Logger) WithShopperID(ctx context.Context, shopperID string) context.Context {
	return l.WithField(ctx, "shopper_id", shopperID)
}

func (l *Logger) Debug(ctx context.Context, msg string) {
	child := l.from(ctx)
	child.Debug().Msg(msg)
}

func (l *Logger) Info(ctx context.Context, msg string) {
	child := l.from(ctx)
	child.Info().Msg(msg)
}

func (l *Logger) Warn(ctx context.Context, msg string) {
	child := l.from(ctx)
	event := child.Warn()
	if l.warnStack {
		event = event.Str("stack", stack())
	}
	event.Msg(msg)
}

func (l *Logger) Error(ctx context.Context, msg string, err error) {
	child := l.from(ctx)
	child.Error().Err(err).Str("stack", stack()).Msg(msg)
}

func withSorted(builder zerolog.Context, fields map[string]any) zerolog.Context {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		builder = builder.Interface(k, fields[k])
	}
	return builder
}

func stack() string {
	trace := debug.Stack()
	if len(trace) > maxStackBytes {
		trace = trace[:maxStackBytes]
	}
	return strings.TrimSpace(string(trace))
}
