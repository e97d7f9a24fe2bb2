package lang

import "github.com/ardnew/arith/log"

// Option configures parsing, evaluation and compilation.
type Option func(*options)

type options struct {
	logger log.Logger
}

func makeOptions(opts ...Option) options {
	var o options

	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

// WithLogger sets the logger that receives trace records. The zero
// [log.Logger] (the default) discards them.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}
