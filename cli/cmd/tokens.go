package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/ardnew/jpx/lang"
)

// Tokens prints the token stream of an expression.
type Tokens struct {
	Expression string `arg:"" help:"Expression to tokenize"`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) error {
	toks, err := lang.Tokenize(t.Expression)
	if err != nil {
		return ErrCompile.
			With(slog.String("expression", t.Expression)).
			Wrap(err)
	}

	tw := tabwriter.NewWriter(stdout(ctx), 0, 4, 2, ' ', 0)

	for _, tok := range toks {
		if _, err := fmt.Fprintln(tw, tok); err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	}

	if err := tw.Flush(); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
