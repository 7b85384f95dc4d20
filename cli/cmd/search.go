package cmd

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/ardnew/jpx/lang"
	"github.com/ardnew/jpx/log"
)

// Search evaluates an expression against each input document.
type Search struct {
	Expression string   `arg:"" help:"Expression to evaluate"`
	Files      []string `arg:"" help:"Input file(s) or '-' for stdin" optional:""`

	Input     string   `default:"auto" enum:"auto,json,yaml" help:"Input format"                                     short:"i"`
	NullInput bool     `                                     help:"Evaluate once against null without reading input" short:"n"`
	Define    []string `                                     help:"Define a function as name=expression"             short:"d" placeholder:"NAME=EXPR" sep:"none"`
	Output    string   `default:"json" enum:"json,yaml"      help:"Output format"                                    short:"o"`
	Indent    int      `default:"2"                          help:"Indentation width"`
	Raw       bool     `                                     help:"Print string results without quotes"              short:"r"`
	Compact   bool     `                                     help:"Print each result on a single line"               short:"c"`
}

// Run executes the search command.
func (s *Search) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	engine := EngineFrom(ctx)

	if err := define(ctx, engine, s.Define); err != nil {
		return err
	}

	node, err := engine.Compile(ctx, s.Expression)
	if err != nil {
		return ErrCompile.
			With(slog.String("expression", s.Expression)).
			Wrap(err)
	}

	enc := s.encoder()
	w := stdout(ctx)

	if s.NullInput {
		return evaluate(ctx, engine, node, nil, enc, w)
	}

	srcs, err := OpenSources(s.Files)
	if err != nil {
		return err
	}

	defer closeSources(srcs)

	for _, src := range srcs {
		docs, err := Decode(ctx, src, s.Input)
		if err != nil {
			return err
		}

		log.DebugContext(ctx, "decoded input",
			slog.String("file", src.Name),
			slog.Int("documents", len(docs)))

		for _, doc := range docs {
			if err := evaluate(ctx, engine, node, doc, enc, w); err != nil {
				return err
			}
		}
	}

	return nil
}

func (s *Search) encoder() Encoder {
	indent := s.Indent
	if s.Compact || indent < 0 {
		indent = 0
	}

	return Encoder{Format: s.Output, Indent: indent, Raw: s.Raw}
}

func evaluate(
	ctx context.Context,
	engine *lang.Engine,
	node *lang.Node,
	doc any,
	enc Encoder,
	w io.Writer,
) error {
	result, err := engine.Evaluate(ctx, node, doc)
	if err != nil {
		return ErrEvaluate.Wrap(err)
	}

	return enc.Encode(ctx, w, result)
}

// define registers each name=expression pair with engine.
func define(ctx context.Context, engine *lang.Engine, defs []string) error {
	for _, def := range defs {
		name, expr, ok := strings.Cut(def, "=")

		name = strings.TrimSpace(name)
		if !ok || name == "" || strings.TrimSpace(expr) == "" {
			return ErrDefine.With(slog.String("define", def))
		}

		if err := engine.Define(ctx, name, expr); err != nil {
			return ErrDefine.With(slog.String("name", name)).Wrap(err)
		}
	}

	return nil
}
