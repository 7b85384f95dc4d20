// Package profile wraps [github.com/pkg/profile] so the jpx command can
// record pprof data for a single invocation.
//
// Support is compiled in only with the pprof build tag:
//
//	go build -tags pprof .
//
// Without the tag [Modes] is empty and [Profiler.Start] always returns a
// no-op [Stopper], so the command carries no profiling code at all.
//
// A session records exactly one mode, one of:
//
//	allocs block clock cpu goroutine heap mem mutex thread trace
//
// and writes <mode>.pprof (or trace.out) into the configured directory when
// stopped:
//
//	stop := profile.Profiler{Mode: "cpu", Path: dir, Quiet: true}.Start()
//	defer stop.Stop()
//
// From the command line, profile a search over a large document and then
// inspect where evaluation spends its time:
//
//	jpx --pprof-mode cpu --pprof-dir ./prof 'sort_by(items, &ts)[-10:]' big.json
//	go tool pprof -top ./jpx ./prof/cpu.pprof
//
// Heap profiles are useful for expressions that build large intermediate
// projections, for example group_by over every element of a document:
//
//	jpx --pprof-mode heap --pprof-dir ./prof 'group_by(events, &kind)' events.yaml
//	go tool pprof -http=: ./prof/heap.pprof
//
// The default directory is the pprof subdirectory of the jpx cache
// directory.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
