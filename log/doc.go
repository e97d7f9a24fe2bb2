// Package log is a small structured logger over [log/slog].
//
// A [Logger] is an immutable value built by [Make] from functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//	logger.Info("evaluated", slog.Float64("value", 7))
//
// [Logger.Wrap] derives a Logger with different options and [Logger.With]
// one with extra attributes. The zero Logger discards everything.
//
// The package-level functions ([Info], [TraceContext], ...) write through a
// default Logger that [Config] reconfigures and [SetDefault] replaces.
//
// # Levels
//
// [LevelTrace] sits below the four [slog] levels and is rendered as "TRACE".
// [Level] and [Format] implement [encoding.TextUnmarshaler], so flag and
// config decoders accept their names directly.
//
// # Output
//
// [FormatJSON] is the default. With [WithPretty], which is on by default,
// records are colored with github.com/fatih/color and JSON spans several
// indented lines.
package log
