// Package profile provides optional runtime profiling for the arith command.
//
// Profiling is backed by [github.com/pkg/profile] and compiled in only with
// the "pprof" build tag:
//
//	go build -tags pprof .
//	arith --pprof-mode cpu eval '1+2*3'
//	go tool pprof "$(arith --help | grep -o '[^ ]*/pprof')/cpu.pprof"
//
// Without the tag, [Modes] is empty and [Profiler.Start] returns a no-op
// [Stopper]. The pprof build also registers the [net/http/pprof] handlers on
// [net/http.DefaultServeMux].
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
