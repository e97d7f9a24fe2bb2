package profile

// Stopper ends a profiling session and flushes its output.
type Stopper interface{ Stop() }

// Profiler describes a profiling session.
//
// Mode selects one of [Modes]. Path is the output directory; the profiler
// default is used when it is empty. Quiet suppresses the profiler's own
// start and stop messages.
type Profiler struct {
	Mode  string
	Path  string
	Quiet bool
}

// Start begins profiling and returns the [Stopper] that ends it.
//
// If the binary was built without the pprof tag, or Mode is empty or unknown,
// Start returns a no-op. Both Start and Stop are always safely callable.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
