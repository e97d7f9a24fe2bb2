package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// record decodes the single JSON record written to buf.
func record(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}

	return m
}

func TestMake_Defaults(t *testing.T) {
	l := Make(nil)

	if l.Level() != DefaultLevel || l.Format() != DefaultFormat {
		t.Errorf("level %v format %v", l.Level(), l.Format())
	}

	var zero Logger
	if zero.Level() != DefaultLevel || zero.EnabledAt(context.Background(), LevelError) {
		t.Error("zero Logger should report defaults and write nothing")
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	methods := []struct {
		level Level
		log   func(Logger, string)
	}{
		{LevelTrace, func(l Logger, m string) { l.Trace(m) }},
		{LevelDebug, func(l Logger, m string) { l.Debug(m) }},
		{LevelInfo, func(l Logger, m string) { l.Info(m) }},
		{LevelWarn, func(l Logger, m string) { l.Warn(m) }},
		{LevelError, func(l Logger, m string) { l.Error(m) }},
		{LevelTrace, func(l Logger, m string) { l.TraceContext(context.Background(), m) }},
		{LevelInfo, func(l Logger, m string) { l.InfoContext(context.Background(), m) }},
		{LevelError, func(l Logger, m string) { l.ErrorContext(context.Background(), m) }},
	}

	for _, floor := range []Level{LevelTrace, LevelInfo, LevelError} {
		t.Run(floor.String(), func(t *testing.T) {
			var buf bytes.Buffer

			l := Make(&buf, WithLevel(floor), WithPretty(false))

			for _, m := range methods {
				buf.Reset()
				m.log(l, "msg")

				if written := buf.Len() > 0; written != (m.level >= floor) {
					t.Errorf("%v at floor %v: written = %v", m.level, floor, written)
				}
			}
		})
	}
}

func TestLogger_RecordFields(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithPretty(false), WithTimeLayout("DateOnly"), WithLevel(LevelTrace))
	l.Trace("token", slog.String("kind", "Plus"), slog.Int("column", 3))

	m := record(t, &buf)

	want := map[string]any{
		"level":  "TRACE",
		"msg":    "token",
		"kind":   "Plus",
		"column": float64(3),
	}

	for k, v := range want {
		if m[k] != v {
			t.Errorf("%s = %v, want %v", k, m[k], v)
		}
	}

	if ts, _ := m["time"].(string); len(ts) != len("2006-01-02") {
		t.Errorf("time = %q, want a date", ts)
	}
}

func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithCaller(true), WithPretty(false), WithFormat(FormatText))

	l.Info("method")
	l.WarnContext(context.Background(), "context method")

	for line := range strings.Lines(buf.String()) {
		if !strings.Contains(line, "log_test.go") {
			t.Errorf("source is not the caller: %s", line)
		}
	}

	buf.Reset()
	Make(&buf, WithPretty(false)).Info("no caller")

	if strings.Contains(buf.String(), "source") {
		t.Errorf("caller written without WithCaller: %s", buf.String())
	}
}

func TestLogger_WrapAndWith(t *testing.T) {
	var buf bytes.Buffer

	base := Make(&buf, WithPretty(false))
	tagged := base.With(slog.String("route", "/eval"))
	quiet := tagged.Wrap(WithLevel(LevelError))

	tagged.Info("tagged")

	if m := record(t, &buf); m["route"] != "/eval" {
		t.Errorf("route = %v", m["route"])
	}

	buf.Reset()
	base.Info("base")

	if strings.Contains(buf.String(), "route") {
		t.Errorf("With changed its receiver: %s", buf.String())
	}

	buf.Reset()
	quiet.Warn("dropped")

	if buf.Len() != 0 || quiet.Level() != LevelError || tagged.Level() != DefaultLevel {
		t.Errorf("Wrap: output %q, levels %v %v", buf.String(), quiet.Level(), tagged.Level())
	}

	var zero Logger
	if zero.With(slog.Int("n", 1)).Logger != nil {
		t.Error("With on zero Logger allocated a handler")
	}

	if zero.Wrap(WithLevel(LevelWarn)).Level() != LevelWarn {
		t.Error("Wrap on zero Logger ignored options")
	}
}

func TestLogger_ZeroValue(t *testing.T) {
	var l Logger

	l.Trace("x")
	l.Info("x", slog.Int("n", 1))
	l.ErrorContext(context.Background(), "x")
}

func TestLogger_Concurrent(t *testing.T) {
	var (
		buf syncBuffer
		wg  sync.WaitGroup
	)

	l := Make(&buf, WithPretty(false))

	for i := range 16 {
		wg.Go(func() {
			l.With(slog.Int("worker", i)).Info("hello")
		})
	}

	wg.Wait()

	if n := strings.Count(buf.String(), "\n"); n != 16 {
		t.Errorf("records = %d, want 16", n)
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func TestPrettyText_GroupsAndAttrs(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithFormat(FormatText), WithTimeLayout("none"))

	grouped := slog.New(l.Handler().WithGroup("eval").WithAttrs(
		[]slog.Attr{slog.String("source", "1+2")},
	))
	grouped.Info("done", slog.Float64("value", 3))

	out := buf.String()
	for _, want := range []string{"eval.source", "1+2", "eval.value", "3", "done", "INFO"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %s", want, out)
		}
	}

	if strings.Contains(out, "time") {
		t.Errorf("time written with layout none: %s", out)
	}
}

func TestPrettyJSON_Multiline(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf).Warn("careful", slog.Bool("ok", false))

	out := buf.String()
	if !strings.HasPrefix(out, "{\n") || !strings.HasSuffix(out, "}\n") {
		t.Errorf("not a braced multiline record: %q", out)
	}

	if !strings.Contains(out, "WARN") || !strings.Contains(out, "careful") {
		t.Errorf("missing level or message: %s", out)
	}
}

func BenchmarkLogger_Info(b *testing.B) {
	l := Make(nil, WithPretty(false))

	for b.Loop() {
		l.Info("evaluated", slog.Float64("value", 7))
	}
}
