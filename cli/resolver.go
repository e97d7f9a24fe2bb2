package cli

import (
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/arith/lang"
)

var (
	ErrReadConfig  = lang.NewError("read configuration file")
	ErrParseConfig = lang.NewError("parse configuration file")
)

// loadYAML is a [kong.ConfigurationLoader] that reads flag defaults from a
// YAML document.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(loadYAML, "/path/to/config.yaml")
//
// Top-level keys name global flags. A mapping keyed by a command name holds
// that command's flags and takes precedence over a top-level key of the same
// name. Flag names may use hyphens or underscores:
//
//	log-level: debug
//	log_pretty: false
//	serve:
//	  addr: ":9090"
//
// Command-line flags override config file values. An empty document yields a
// resolver that resolves nothing.
func loadYAML(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrReadConfig.Wrap(err)
	}

	var values map[string]any

	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, ErrParseConfig.Wrap(err)
	}

	return config(values), nil
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	parent *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if parent != nil && parent.Command != nil {
		if scope, ok := r[parent.Command.Name].(map[string]any); ok {
			if value, ok := lookup(scope, flag.Name); ok {
				return flagValue(value), nil
			}
		}
	}

	if value, ok := lookup(r, flag.Name); ok {
		return flagValue(value), nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// lookup finds name in m as written or with hyphens replaced by underscores.
func lookup(m map[string]any, name string) (any, bool) {
	if value, ok := m[name]; ok {
		return value, true
	}

	value, ok := m[strings.ReplaceAll(name, "-", "_")]

	return value, ok
}

// flagValue converts a decoded YAML value to a form Kong's mappers accept.
// Kong requires numbers as strings for parsing.
func flagValue(value any) any {
	switch v := value.(type) {
	case uint64:
		return strconv.FormatUint(v, 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = flagValue(e)
		}

		return out
	default:
		return value
	}
}
