package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/sahilm/fuzzy"
)

// Functions lists the callable functions and their signatures.
type Functions struct {
	Pattern string `arg:"" help:"Show only names matching this fuzzy pattern" optional:""`
	Defined bool   `       help:"Show only library-defined functions"          short:"D"`
}

// Run executes the functions command.
func (f *Functions) Run(ctx context.Context) error {
	funcs := EngineFrom(ctx).Functions()

	names := make([]string, len(funcs))
	for i, fn := range funcs {
		names[i] = fn.Name
	}

	show := make([]int, 0, len(funcs))

	if f.Pattern == "" {
		for i := range funcs {
			show = append(show, i)
		}
	} else {
		for _, m := range fuzzy.Find(f.Pattern, names) {
			show = append(show, m.Index)
		}
	}

	tw := tabwriter.NewWriter(stdout(ctx), 0, 4, 2, ' ', 0)

	for _, i := range show {
		fn := funcs[i]
		if f.Defined && !fn.Defined {
			continue
		}

		origin := "builtin"
		if fn.Defined {
			origin = "defined"
		}

		if _, err := fmt.Fprintf(tw, "%s\t%s\n", fn, origin); err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	}

	if err := tw.Flush(); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
