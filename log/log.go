package log

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"time"
)

// Logger writes structured records through a [slog.Handler] built from its
// options. A Logger is an immutable value and is safe for concurrent use.
//
// The zero Logger discards everything, so components may hold one
// unconditionally and callers opt in with [Make].
type Logger struct {
	*slog.Logger

	settings settings
}

// Make returns a Logger writing to w. Without options it writes pretty JSON
// at [DefaultLevel] with [DefaultTimeLayout] timestamps.
func Make(w io.Writer, opts ...Option) Logger {
	return build(defaults(w).with(opts...))
}

func build(s settings) Logger {
	return Logger{Logger: slog.New(s.handler()), settings: s}
}

// Wrap returns a copy of l with opts applied over its settings. Attributes
// added with [Logger.With] are not carried over.
func (l Logger) Wrap(opts ...Option) Logger {
	if l.Logger == nil {
		return Make(io.Discard, opts...)
	}

	return build(l.settings.with(opts...))
}

// With returns a copy of l that adds attrs to every record.
func (l Logger) With(attrs ...slog.Attr) Logger {
	if l.Logger == nil || len(attrs) == 0 {
		return l
	}

	l.Logger = slog.New(l.Handler().WithAttrs(attrs))

	return l
}

// Level returns the lowest level l writes.
func (l Logger) Level() Level {
	if l.Logger == nil {
		return DefaultLevel
	}

	return l.settings.level
}

func (l Logger) Format() Format {
	if l.Logger == nil {
		return DefaultFormat
	}

	return l.settings.format
}

// EnabledAt reports whether a record at level would be written.
func (l Logger) EnabledAt(ctx context.Context, level Level) bool {
	return l.Logger != nil && l.Enabled(ctx, slog.Level(level))
}

func (l Logger) TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.emit(ctx, LevelTrace, msg, attrs)
}

func (l Logger) DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.emit(ctx, LevelDebug, msg, attrs)
}

func (l Logger) InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.emit(ctx, LevelInfo, msg, attrs)
}

func (l Logger) WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.emit(ctx, LevelWarn, msg, attrs)
}

func (l Logger) ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.emit(ctx, LevelError, msg, attrs)
}

// Trace, Debug, Info, Warn and Error log with [DefaultContextProvider].

func (l Logger) Trace(msg string, attrs ...slog.Attr) {
	l.emit(DefaultContextProvider(), LevelTrace, msg, attrs)
}

func (l Logger) Debug(msg string, attrs ...slog.Attr) {
	l.emit(DefaultContextProvider(), LevelDebug, msg, attrs)
}

func (l Logger) Info(msg string, attrs ...slog.Attr) {
	l.emit(DefaultContextProvider(), LevelInfo, msg, attrs)
}

func (l Logger) Warn(msg string, attrs ...slog.Attr) {
	l.emit(DefaultContextProvider(), LevelWarn, msg, attrs)
}

func (l Logger) Error(msg string, attrs ...slog.Attr) {
	l.emit(DefaultContextProvider(), LevelError, msg, attrs)
}

// callerDepth skips runtime.Callers, emit and the exported method or
// function that called emit.
const callerDepth = 3

// emit must be called directly by every exported logging method and function
// so the recorded source is their caller.
func (l Logger) emit(ctx context.Context, level Level, msg string, attrs []slog.Attr) {
	if l.Logger == nil || !l.Enabled(ctx, slog.Level(level)) {
		return
	}

	var pc [1]uintptr
	if l.settings.caller {
		runtime.Callers(callerDepth, pc[:])
	}

	r := slog.NewRecord(time.Now(), slog.Level(level), msg, pc[0])
	r.AddAttrs(attrs...)

	_ = l.Handler().Handle(ctx, r)
}
