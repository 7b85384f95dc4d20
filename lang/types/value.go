package types

import (
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/grafana/regexp"
)

// TypeTag classifies runtime values and declares accepted parameter types.
type TypeTag uint8

const (
	TypeAny TypeTag = iota
	TypeNumber
	TypeString
	TypeArray
	TypeObject
	TypeBoolean
	TypeNull
	TypeExpref
	TypeRegexp
	TypeDate
	TypeArrayNumber
	TypeArrayString
	TypeArrayObject
	TypeArrayExpref
)

var typeTagName = [...]string{
	TypeAny:         "any",
	TypeNumber:      "number",
	TypeString:      "string",
	TypeArray:       "array",
	TypeObject:      "object",
	TypeBoolean:     "boolean",
	TypeNull:        "null",
	TypeExpref:      "expref",
	TypeRegexp:      "regexp",
	TypeDate:        "date",
	TypeArrayNumber: "array<number>",
	TypeArrayString: "array<string>",
	TypeArrayObject: "array<object>",
	TypeArrayExpref: "array<expref>",
}

func (t TypeTag) String() string {
	if int(t) < len(typeTagName) {
		return typeTagName[t]
	}

	return "unknown"
}

// Elem returns the element tag of an array refinement and true, or
// TypeAny and false when t is not a refinement.
func (t TypeTag) Elem() (TypeTag, bool) {
	switch t {
	case TypeArrayNumber:
		return TypeNumber, true
	case TypeArrayString:
		return TypeString, true
	case TypeArrayObject:
		return TypeObject, true
	case TypeArrayExpref:
		return TypeExpref, true
	default:
		return TypeAny, false
	}
}

// TypeOf returns the runtime tag of v. It never returns TypeAny or an array
// refinement.
func TypeOf(v any) TypeTag {
	switch v := v.(type) {
	case nil:
		return TypeNull
	case bool:
		return TypeBoolean
	case string:
		return TypeString
	case []any:
		return TypeArray
	case map[string]any:
		return TypeObject
	case Closure:
		return TypeExpref
	case *Regexp:
		return TypeRegexp
	case time.Time:
		return TypeDate
	default:
		if _, ok := ToFloat(v); ok {
			return TypeNumber
		}

		return TypeNull
	}
}

// Matches reports whether v satisfies the accepted type t, checking array
// refinements element-wise.
func (t TypeTag) Matches(v any) bool {
	if t == TypeAny {
		return true
	}

	if elem, ok := t.Elem(); ok {
		arr, ok := v.([]any)
		if !ok {
			return false
		}

		for _, e := range arr {
			if !elem.Matches(e) {
				return false
			}
		}

		return true
	}

	return TypeOf(v) == t
}

// ToFloat converts any Go numeric value to float64.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// ToInt converts an integral numeric value to int, saturating at the
// bounds of int.
func ToInt(v any) (int, bool) {
	f, ok := ToFloat(v)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}

	return Saturate(f), true
}

// Saturate truncates f toward zero and clamps the result to the range of
// int. NaN yields 0.
func Saturate(f float64) int {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt:
		return math.MaxInt
	case f <= math.MinInt:
		return math.MinInt
	}

	return int(f)
}

// Closure is an expression reference captured during evaluation: the
// unevaluated node plus the value that was current when it was created.
type Closure struct {
	node    *Node
	context any
}

// NewClosure returns a closure over node with the given captured context.
func NewClosure(node *Node, context any) Closure {
	return Closure{node: node, context: context}
}

// Node returns the referenced expression.
func (c Closure) Node() *Node { return c.node }

// Context returns the value captured when the reference was evaluated.
func (c Closure) Context() any { return c.context }

func (c Closure) LogValue() slog.Value {
	kind := NodeInvalid
	if c.node != nil {
		kind = c.node.Kind
	}

	return slog.GroupValue(slog.String("expref", kind.String()))
}

// MarshalJSON renders closures as null so results containing them can
// still be encoded.
func (Closure) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// Regexp is a compiled regular expression literal.
type Regexp struct {
	*regexp.Regexp
	Source string
	Flags  string
	Global bool
}

// CompileRegexp compiles pattern with the given literal flags. Flags i, m
// and s map to the corresponding inline flags; g marks the expression as
// global for replace; u is accepted and ignored.
func CompileRegexp(pattern, flags string) (*Regexp, error) {
	var (
		inline strings.Builder
		global bool
	)

	for _, f := range flags {
		switch f {
		case 'i', 'm', 's':
			if !strings.ContainsRune(inline.String(), f) {
				inline.WriteRune(f)
			}
		case 'g':
			global = true
		case 'u':
		default:
			return nil, ErrInvalidRegexp.With(
				slog.String("pattern", pattern),
				slog.String("flag", string(f)),
			)
		}
	}

	expr := pattern
	if inline.Len() > 0 {
		expr = "(?" + inline.String() + ")" + pattern
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, ErrInvalidRegexp.
			With(slog.String("pattern", pattern)).
			Wrap(err)
	}

	return &Regexp{Regexp: re, Source: pattern, Flags: flags, Global: global}, nil
}

func (r *Regexp) String() string { return "/" + r.Source + "/" + r.Flags }

// MarshalJSON renders the literal source form.
func (r *Regexp) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}
