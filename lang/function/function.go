// Package function provides the built-in function library.
//
// Each family contributes a [runtime.Table]; [Table] merges them into the
// static table installed on every runtime.
package function

import (
	"log/slog"
	"maps"
	"strconv"

	"github.com/ardnew/jpx/lang/runtime"
	"github.com/ardnew/jpx/lang/types"
)

// Table returns a new table holding every built-in function.
func Table() runtime.Table {
	table := make(runtime.Table)
	for _, family := range []runtime.Table{
		mathTable,
		numberTable,
		typeTable,
		objectTable,
		stringTable,
		arrayTable,
		dateTable,
		conditionalTable,
	} {
		maps.Copy(table, family)
	}

	return table
}

// Shorthands used by the family tables.
const (
	tAny         = types.TypeAny
	tNumber      = types.TypeNumber
	tString      = types.TypeString
	tArray       = types.TypeArray
	tObject      = types.TypeObject
	tBoolean     = types.TypeBoolean
	tNull        = types.TypeNull
	tExpref      = types.TypeExpref
	tRegexp      = types.TypeRegexp
	tDate        = types.TypeDate
	tArrayNumber = types.TypeArrayNumber
	tArrayString = types.TypeArrayString
	tArrayObject = types.TypeArrayObject
	tArrayExpref = types.TypeArrayExpref
)

func entry(f runtime.Func, params ...runtime.Param) runtime.Entry {
	return runtime.Entry{Func: f, Signature: params}
}

var (
	accepts  = runtime.Accepts
	optional = runtime.Optional
	variadic = runtime.Variadic
)

func num(v any) float64 {
	f, _ := types.ToFloat(v)

	return f
}

func integer(v any) int { return types.Saturate(num(v)) }

// maxResultLength bounds the length of strings built from a numeric
// argument (pad, repeat).
const maxResultLength = 1 << 24

func checkLength(name string, n int) error {
	if n > maxResultLength {
		return types.ErrResultTooLarge.With(
			slog.String("function", name+"()"),
			slog.Int("length", n),
			slog.Int("max", maxResultLength))
	}

	return nil
}

// keyString renders a by-key result as an object member name.
func keyString(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(v)
	}

	if f, ok := types.ToFloat(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	s, _ := toString(v)

	return s
}

// closureArg returns args[i] as a closure; signature validation guarantees
// the type.
func closureArg(args []any, i int) types.Closure {
	c, _ := args[i].(types.Closure)

	return c
}

func arrayArg(args []any, i int) []any {
	a, _ := args[i].([]any)

	return a
}

func stringArg(args []any, i int) string {
	s, _ := args[i].(string)

	return s
}

func objectArg(args []any, i int) map[string]any {
	m, _ := args[i].(map[string]any)

	return m
}
