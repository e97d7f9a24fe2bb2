// Package cli contains the command line interface for arith.
//
// # Usage
//
//	arith [flags] [SOURCE...]          evaluate files or stdin (default command)
//	arith eval -e 'def r = 2; r * r'   evaluate inline program text
//	arith fmt native|json|yaml|ast|tokens [SOURCE]
//	arith compile [--show] [SOURCE]
//	arith repl [--prelude FILE...]
//	arith serve [--addr :8080] [--prelude FILE...]
//	arith init [--force]
//
// # Configuration
//
// Flag defaults are read from config.json and config.yaml in the user
// configuration directory ($XDG_CONFIG_HOME/arith). The YAML loader
// ([loadYAML]) accepts flag names with hyphens or underscores, and a mapping
// keyed by a command name scopes flags to that command:
//
//	log-level: debug
//	serve:
//	  addr: ":9090"
//	  prelude: [/etc/arith/units.arith]
//
// arith init writes the current flag values in this form.
//
// Every flag can also be set from the environment by its name in upper case
// with an ARITH_ prefix, such as ARITH_LOG_LEVEL=debug.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o arith .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/arith/pprof)
package cli
