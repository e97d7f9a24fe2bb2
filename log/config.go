package log

//go:generate go tool stringer --linecomment --type Level,Format --output config_string.go

import (
	"fmt"
	"io"
	"iter"
	"log/slog"
	"slices"
	"strings"
	"time"
)

// Level is the severity of a record: the [slog] levels plus Trace below
// Debug.
type Level slog.Level

const (
	LevelTrace = Level(slog.LevelDebug - 4) // trace
	LevelDebug = Level(slog.LevelDebug)     // debug
	LevelInfo  = Level(slog.LevelInfo)      // info
	LevelWarn  = Level(slog.LevelWarn)      // warn
	LevelError = Level(slog.LevelError)     // error
)

const DefaultLevel = LevelInfo

var levels = []Level{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError}

// Levels yields the name of every level, lowest first.
func Levels() iter.Seq[string] { return names(levels) }

// ParseLevel returns the level named s, ignoring case and surrounding space.
// Anything slog accepts ("warn+2", "DEBUG-1") is also understood. Unknown
// names yield [DefaultLevel].
func ParseLevel(s string) Level {
	var l Level
	if l.UnmarshalText([]byte(s)) != nil {
		return DefaultLevel
	}

	return l
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (l *Level) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if strings.EqualFold(s, LevelTrace.String()) {
		*l = LevelTrace

		return nil
	}

	var sl slog.Level
	if err := sl.UnmarshalText([]byte(s)); err != nil {
		return err
	}

	*l = Level(sl)

	return nil
}

// MarshalText implements [encoding.TextMarshaler].
func (l Level) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// label is the level as rendered in a record: "TRACE" rather than slog's
// "DEBUG-4".
func (l Level) label() string {
	if slices.Contains(levels, l) {
		return strings.ToUpper(l.String())
	}

	return slog.Level(l).String()
}

// Format selects the record encoding.
type Format int

const (
	FormatText Format = iota // text
	FormatJSON               // json
)

const DefaultFormat = FormatJSON

var formats = []Format{FormatJSON, FormatText}

// Formats yields the name of every format, default first.
func Formats() iter.Seq[string] { return names(formats) }

// ParseFormat returns the format named s, or [DefaultFormat].
func ParseFormat(s string) Format {
	var f Format
	if f.UnmarshalText([]byte(s)) != nil {
		return DefaultFormat
	}

	return f
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (f *Format) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))

	i := slices.IndexFunc(formats, func(c Format) bool { return c.String() == s })
	if i < 0 {
		return fmt.Errorf("unknown log format %q", text)
	}

	*f = formats[i]

	return nil
}

// MarshalText implements [encoding.TextMarshaler].
func (f Format) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func names[T fmt.Stringer](values []T) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, v := range values {
			if !yield(v.String()) {
				return
			}
		}
	}
}

// FormatTime renders a record timestamp. An empty result drops the field.
type FormatTime func(time.Time) string

const (
	DefaultTimeLayout = time.RFC3339
	DefaultCaller     = false
	DefaultPretty     = true
)

// settings is the immutable configuration behind a [Logger]. Options apply
// to a copy, so a Logger never observes a change made through another.
type settings struct {
	output io.Writer
	stamp  FormatTime
	level  Level
	format Format
	caller bool
	pretty bool
}

// Option changes one setting of a [Logger].
type Option func(*settings)

func defaults(w io.Writer) settings {
	if w == nil {
		w = io.Discard
	}

	return settings{
		output: w,
		stamp:  layoutFunc(DefaultTimeLayout),
		level:  DefaultLevel,
		format: DefaultFormat,
		caller: DefaultCaller,
		pretty: DefaultPretty,
	}
}

func (s settings) with(opts ...Option) settings {
	for _, opt := range opts {
		opt(&s)
	}

	return s
}

// WithOutput sets the destination of records. nil discards them.
func WithOutput(w io.Writer) Option {
	return func(s *settings) {
		s.output = w
		if w == nil {
			s.output = io.Discard
		}
	}
}

// WithLevel sets the lowest level written.
func WithLevel(level Level) Option {
	return func(s *settings) { s.level = level }
}

func WithFormat(format Format) Option {
	return func(s *settings) { s.format = format }
}

// WithTimeLayout sets the timestamp layout. Named layouts of the [time]
// package are matched ignoring case and punctuation ("RFC3339Nano",
// "date-time"), along with the short names "ms", "us" and "ns" for the
// Stamp layouts. Anything else is a [time.Time.Format] layout. "none" or a
// blank layout omits timestamps.
func WithTimeLayout(layout string) Option {
	stamp := layoutFunc(layout)

	return func(s *settings) { s.stamp = stamp }
}

// WithCaller adds the source file and line of each call.
func WithCaller(enable bool) Option {
	return func(s *settings) { s.caller = enable }
}

// WithPretty renders records in color. Text drops quoting and JSON is
// indented over several lines.
func WithPretty(enable bool) Option {
	return func(s *settings) { s.pretty = enable }
}

func (s settings) handler() slog.Handler {
	opts := &slog.HandlerOptions{
		AddSource:   s.caller,
		Level:       slog.Level(s.level),
		ReplaceAttr: s.replace,
	}

	switch {
	case s.pretty && s.format == FormatText:
		return newPrettyTextHandler(s.output, s.stamp, opts)

	case s.pretty:
		return newPrettyJSONHandler(s.output, s.stamp, opts)

	case s.format == FormatText:
		return slog.NewTextHandler(s.output, opts)

	default:
		return slog.NewJSONHandler(s.output, opts)
	}
}

// replace applies the time layout and level labels to the builtin slog
// handlers.
func (s settings) replace(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}

	switch v := a.Value.Any().(type) {
	case time.Time:
		if a.Key != slog.TimeKey {
			break
		}

		ts := s.stamp(v)
		if ts == "" {
			return slog.Attr{}
		}

		a.Value = slog.StringValue(ts)

	case slog.Level:
		if a.Key == slog.LevelKey {
			a.Value = slog.StringValue(Level(v).label())
		}
	}

	return a
}

var namedLayouts = map[string]string{
	"ansic":       time.ANSIC,
	"unixdate":    time.UnixDate,
	"rubydate":    time.RubyDate,
	"rfc822":      time.RFC822,
	"rfc822z":     time.RFC822Z,
	"rfc850":      time.RFC850,
	"rfc1123":     time.RFC1123,
	"rfc1123z":    time.RFC1123Z,
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"kitchen":     time.Kitchen,
	"datetime":    time.DateTime,
	"dateonly":    time.DateOnly,
	"timeonly":    time.TimeOnly,
	"stamp":       time.Stamp,
	"stampmilli":  time.StampMilli,
	"stampmicro":  time.StampMicro,
	"stampnano":   time.StampNano,
	"ms":          time.StampMilli,
	"us":          time.StampMicro,
	"ns":          time.StampNano,
	"none":        "",
}

func layoutFunc(layout string) FormatTime {
	key := strings.Map(func(r rune) rune {
		switch {
		case 'a' <= r && r <= 'z', '0' <= r && r <= '9':
			return r
		case 'A' <= r && r <= 'Z':
			return r + 'a' - 'A'
		}

		return -1
	}, layout)

	if named, ok := namedLayouts[key]; ok {
		layout = named
	}

	if key == "" || layout == "" {
		return func(time.Time) string { return "" }
	}

	return func(t time.Time) string { return t.Format(layout) }
}
