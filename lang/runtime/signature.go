package runtime

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/jpx/lang/types"
)

// Param declares the accepted types of one function parameter.
type Param struct {
	Types    []types.TypeTag
	Optional bool
	Variadic bool
}

// Accepts returns a required parameter accepting any of tags.
func Accepts(tags ...types.TypeTag) Param { return Param{Types: tags} }

// Optional returns an optional trailing parameter accepting any of tags.
func Optional(tags ...types.TypeTag) Param {
	return Param{Types: tags, Optional: true}
}

// Variadic returns a variadic trailing parameter accepting any of tags.
func Variadic(tags ...types.TypeTag) Param {
	return Param{Types: tags, Variadic: true}
}

// Matches reports whether v satisfies any accepted type.
func (p Param) Matches(v any) bool {
	if len(p.Types) == 0 {
		return true
	}

	return slices.ContainsFunc(p.Types, func(t types.TypeTag) bool {
		return t.Matches(v)
	})
}

func (p Param) String() string {
	names := make([]string, len(p.Types))
	for i, t := range p.Types {
		names[i] = t.String()
	}

	s := strings.Join(names, "|")
	if s == "" {
		s = types.TypeAny.String()
	}

	switch {
	case p.Variadic:
		return "..." + s
	case p.Optional:
		return s + "?"
	}

	return s
}

// Signature is the ordered parameter list of a function. Only the last
// parameter may be optional or variadic.
type Signature []Param

// Arity returns the minimum and maximum argument counts; max is -1 when the
// signature is variadic.
func (s Signature) Arity() (minArgs, maxArgs int) {
	minArgs, maxArgs = len(s), len(s)
	if len(s) == 0 {
		return minArgs, maxArgs
	}

	switch last := s[len(s)-1]; {
	case last.Variadic:
		maxArgs = -1
	case last.Optional:
		minArgs--
	}

	return minArgs, maxArgs
}

// Format renders the signature as a call, e.g. "pad(string, number, string?)".
func (s Signature) Format(name string) string {
	params := make([]string, len(s))
	for i, p := range s {
		params[i] = p.String()
	}

	return name + "(" + strings.Join(params, ", ") + ")"
}

// Validate checks arity and argument types for a call to name.
func (s Signature) Validate(name string, args []any) error {
	minArgs, maxArgs := s.Arity()

	if len(args) < minArgs || (maxArgs >= 0 && len(args) > maxArgs) {
		expected := strconv.Itoa(minArgs)

		switch {
		case maxArgs < 0:
			expected = "at least " + expected
		case maxArgs != minArgs:
			expected += " or " + strconv.Itoa(maxArgs)
		}

		return types.ErrArgumentCount.With(
			slog.String("function", name+"()"),
			slog.String("expected", expected),
			slog.Int("received", len(args)),
		)
	}

	for i, arg := range args {
		p := s[min(i, len(s)-1)]
		if !p.Matches(arg) {
			return types.ErrArgumentType.With(
				slog.String("function", name+"()"),
				slog.Int("argument", i+1),
				slog.String("expected", strings.TrimSuffix(strings.TrimPrefix(p.String(), "..."), "?")),
				slog.String("received", types.TypeOf(arg).String()),
			)
		}
	}

	return nil
}
