package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/fatih/color"
)

// Palette used by the pretty handlers.
//
// The color package disables itself when stdout is not a terminal; the pretty
// handlers are only selected on request, so they force color on.
var (
	keyColor    = paint(color.FgHiBlack)
	stringColor = paint(color.FgCyan)
	numberColor = paint(color.FgYellow)
	trueColor   = paint(color.FgGreen)
	falseColor  = paint(color.FgRed)
	timeColor   = paint(color.FgBlue)
	durColor    = paint(color.FgMagenta)
)

func paint(attr ...color.Attribute) *color.Color {
	c := color.New(attr...)
	c.EnableColor()

	return c
}

func levelColor(level slog.Level) *color.Color {
	switch {
	case level >= slog.LevelError:
		return falseColor
	case level >= slog.LevelWarn:
		return numberColor
	case level >= slog.LevelInfo:
		return trueColor
	default:
		return timeColor
	}
}

// prettyHandler holds the state shared by the text and JSON pretty handlers.
type prettyHandler struct {
	opts       slog.HandlerOptions
	mu         *sync.Mutex
	w          io.Writer
	formatTime FormatTime
	prefix     string
	attrs      []slog.Attr
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

// fields returns every attribute of r in output order, including the
// record's builtin keys and those accumulated with WithAttrs.
func (h *prettyHandler) fields(r slog.Record) []slog.Attr {
	out := make([]slog.Attr, 0, 4+len(h.attrs)+r.NumAttrs())

	if !r.Time.IsZero() {
		if ts := h.formatTime(r.Time); ts != "" {
			out = append(out, slog.String(slog.TimeKey, ts))
		}
	}

	out = append(out, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			out = append(out, slog.String(
				slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line),
			))
		}
	}

	out = append(out, slog.String(slog.MessageKey, r.Message))
	out = append(out, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		out = append(out, h.qualify(a))

		return true
	})

	return out
}

func (h *prettyHandler) qualify(a slog.Attr) slog.Attr {
	if h.prefix != "" {
		a.Key = h.prefix + a.Key
	}

	return a
}

func (h *prettyHandler) withAttrs(attrs []slog.Attr) prettyHandler {
	c := *h
	c.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	c.attrs = append(c.attrs, h.attrs...)

	for _, a := range attrs {
		c.attrs = append(c.attrs, h.qualify(a))
	}

	return c
}

func (h *prettyHandler) withGroup(name string) prettyHandler {
	c := *h
	if name != "" {
		c.prefix = h.prefix + name + "."
	}

	return c
}

func (h *prettyHandler) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

// renderValue writes v in its type color without quoting.
func renderValue(buf *bytes.Buffer, v slog.Value) {
	v = v.Resolve()

	switch v.Kind() {
	case slog.KindString:
		buf.WriteString(stringColor.Sprint(v.String()))

	case slog.KindInt64:
		buf.WriteString(numberColor.Sprint(strconv.FormatInt(v.Int64(), 10)))

	case slog.KindUint64:
		buf.WriteString(numberColor.Sprint(strconv.FormatUint(v.Uint64(), 10)))

	case slog.KindFloat64:
		buf.WriteString(
			numberColor.Sprint(strconv.FormatFloat(v.Float64(), 'g', -1, 64)),
		)

	case slog.KindBool:
		if v.Bool() {
			buf.WriteString(trueColor.Sprint("true"))
		} else {
			buf.WriteString(falseColor.Sprint("false"))
		}

	case slog.KindDuration:
		buf.WriteString(durColor.Sprint(v.Duration().String()))

	case slog.KindTime:
		buf.WriteString(timeColor.Sprint(v.Time().String()))

	case slog.KindGroup:
		buf.WriteByte('{')

		for i, a := range v.Group() {
			if i > 0 {
				buf.WriteByte(' ')
			}

			buf.WriteString(keyColor.Sprint(a.Key))
			buf.WriteByte('=')
			renderValue(buf, a.Value)
		}

		buf.WriteByte('}')

	default:
		if level, ok := v.Any().(slog.Level); ok {
			buf.WriteString(
				levelColor(level).Sprint(Level(level).label()),
			)

			return
		}

		if v.Any() == nil {
			buf.WriteString(keyColor.Sprint("null"))

			return
		}

		buf.WriteString(stringColor.Sprint(v.String()))
	}
}

// prettyTextHandler implements a colorized text handler for log messages.
type prettyTextHandler struct{ prettyHandler }

func newPrettyTextHandler(
	w io.Writer,
	formatTime FormatTime,
	opts *slog.HandlerOptions,
) *prettyTextHandler {
	return &prettyTextHandler{prettyHandler{
		opts:       *opts,
		mu:         &sync.Mutex{},
		w:          w,
		formatTime: formatTime,
	}}
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	for _, a := range h.fields(r) {
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(keyColor.Sprint(a.Key))
		buf.WriteByte('=')
		renderValue(buf, a.Value)
	}

	return h.write(buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

// prettyJSONHandler implements a multiline, indented JSON-like handler.
type prettyJSONHandler struct{ prettyHandler }

func newPrettyJSONHandler(
	w io.Writer,
	formatTime FormatTime,
	opts *slog.HandlerOptions,
) *prettyJSONHandler {
	return &prettyJSONHandler{prettyHandler{
		opts:       *opts,
		mu:         &sync.Mutex{},
		w:          w,
		formatTime: formatTime,
	}}
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)
	buf.WriteString("{\n")

	for i, a := range h.fields(r) {
		if i > 0 {
			buf.WriteString(",\n")
		}

		buf.WriteString("  ")
		buf.WriteString(keyColor.Sprint(a.Key))
		buf.WriteString(": ")
		renderValue(buf, a.Value)
	}

	buf.WriteString("\n}")

	return h.write(buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}
