package profile

// Profiler describes a profiling session.
type Profiler struct {
	// Mode is one of [Modes]. An empty mode disables profiling.
	Mode string
	// Path is the output directory; empty uses the working directory.
	Path string
	// Quiet suppresses the profiler's own start and stop messages.
	Quiet bool
}

// Stopper ends a profiling session and flushes its output.
type Stopper interface{ Stop() }

// Start begins profiling and returns a handle that stops it.
//
// When built without the pprof tag, or when p.Mode is empty or unknown,
// Start returns a no-op handle. Stop is always safe to call.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
