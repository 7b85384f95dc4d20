//go:build pprof

package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/jpx/log"
	"github.com/ardnew/jpx/profile"
)

// pprofConfig selects a profiling mode for one invocation.
type pprofConfig struct {
	Mode string `default:""            enum:",${pprofModeEnum}" help:"Enable profiling"         placeholder:"${enum}" short:"p"`
	Dir  string `default:"${pprofDir}"                          help:"Profile output directory"                                 type:"path"`
}

func (pprofConfig) vars() kong.Vars {
	return kong.Vars{
		"pprofModeEnum": strings.Join(profile.Modes(), ","),
		"pprofDir":      filepath.Join(cacheDir(), profile.Tag),
	}
}

func (pprofConfig) group() kong.Group {
	var group kong.Group

	group.Key = "pprof"
	group.Title = "Profiling (pprof)"

	return group
}

// start begins the profiling session selected by --pprof-mode and returns
// the function that ends it. Profiling covers the whole command, including
// library loading and expression compilation.
func (f pprofConfig) start(ctx context.Context) (stop func()) {
	if f.Mode == "" {
		return func() {}
	}

	attrs := []slog.Attr{slog.String("mode", f.Mode), slog.String("dir", f.Dir)}

	if err := os.MkdirAll(f.Dir, defaultDirMode); err != nil {
		log.WarnContext(ctx, "pprof disabled",
			append(attrs, slog.Any("error", err))...)

		return func() {}
	}

	log.DebugContext(ctx, "pprof start", attrs...)

	profiler := profile.Profiler{Mode: f.Mode, Path: f.Dir, Quiet: true}.Start()

	return func() {
		profiler.Stop()
		log.DebugContext(ctx, "pprof stop", attrs...)
	}
}
