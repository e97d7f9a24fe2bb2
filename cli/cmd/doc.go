// Package cmd implements the arith subcommands: eval, fmt, compile, repl,
// serve and init.
//
// Commands receive the parsed [kong.Context] and their output writers through
// the context passed to Run; see [WithContext] and [WithOutput].
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path of
	// the YAML configuration file written by init.
	ConfigIdentifier = "config"
)
