package cmd

import (
	"context"
	"log/slog"
	"strings"
)

// AST prints the syntax tree of an expression.
type AST struct {
	Expression string `arg:"" help:"Expression to parse"`
	Indent     int    `       help:"Indentation width" default:"2"`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) error {
	node, err := EngineFrom(ctx).Compile(ctx, a.Expression)
	if err != nil {
		return ErrCompile.
			With(slog.String("expression", a.Expression)).
			Wrap(err)
	}

	if err := node.Fprint(stdout(ctx), strings.Repeat(" ", max(a.Indent, 1))); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
