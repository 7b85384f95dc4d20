package function

import (
	"log/slog"

	"github.com/ardnew/jpx/lang/runtime"
	"github.com/ardnew/jpx/lang/types"
)

var conditionalTable = runtime.Table{
	"let":        entry(let, accepts(tObject), accepts(tExpref)),
	"define":     entry(define, accepts(tString), accepts(tExpref)),
	"is_defined": entry(isDefined, accepts(tString)),
	"if":         entry(ifThen, accepts(tAny), accepts(tExpref), optional(tExpref)),
	"case":       entry(caseOf, variadic(tExpref, tArrayExpref)),
}

// let evaluates the expression in its captured context with the members of
// the object bound as scope variables.
func let(rt *runtime.Runtime, args []any) (any, error) {
	c := closureArg(args, 1)

	defer rt.Scope().Push(objectArg(args, 0))()

	return rt.Invoke(c, c.Context())
}

// define registers a function and returns the context the expression
// reference captured.
func define(rt *runtime.Runtime, args []any) (any, error) {
	c := closureArg(args, 1)
	if err := rt.Define(stringArg(args, 0), c); err != nil {
		return nil, err
	}

	return c.Context(), nil
}

func isDefined(rt *runtime.Runtime, args []any) (any, error) {
	return rt.IsDefined(stringArg(args, 0)), nil
}

func ifThen(rt *runtime.Runtime, args []any) (any, error) {
	if !types.IsFalse(args[0]) {
		c := closureArg(args, 1)

		return rt.Invoke(c, c.Context())
	}

	if len(args) > 2 {
		c := closureArg(args, 2)

		return rt.Invoke(c, c.Context())
	}

	return nil, nil
}

// caseOf evaluates [condition, result] pairs in order and returns the
// result of the first pair whose condition is truthy. A bare expression
// reference is a default and ends the search.
func caseOf(rt *runtime.Runtime, args []any) (any, error) {
	for i, arg := range args {
		switch arm := arg.(type) {
		case types.Closure:
			return rt.Invoke(arm, arm.Context())
		case []any:
			if len(arm) != 2 {
				return nil, types.ErrArgumentType.With(
					slog.String("function", "case()"),
					slog.Int("argument", i+1),
					slog.String("expected", "array<expref> of 2 elements"),
					slog.Int("received", len(arm)),
				)
			}

			cond, _ := arm[0].(types.Closure)
			then, _ := arm[1].(types.Closure)

			ok, err := rt.Invoke(cond, cond.Context())
			if err != nil {
				return nil, err
			}

			if !types.IsFalse(ok) {
				return rt.Invoke(then, then.Context())
			}
		}
	}

	return nil, nil
}
