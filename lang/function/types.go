package function

import (
	"github.com/goccy/go-json"

	"github.com/ardnew/jpx/lang/runtime"
	"github.com/ardnew/jpx/lang/types"
)

var typeTable = runtime.Table{
	"type":      entry(typeName, accepts(tAny)),
	"not_null":  entry(notNull, variadic(tAny)),
	"to_string": entry(toStringFunc, accepts(tAny)),
	"to_array":  entry(toArray, accepts(tAny)),
}

func typeName(_ *runtime.Runtime, args []any) (any, error) {
	return types.TypeOf(args[0]).String(), nil
}

func notNull(_ *runtime.Runtime, args []any) (any, error) {
	for _, v := range args {
		if v != nil {
			return v, nil
		}
	}

	return nil, nil
}

func toStringFunc(_ *runtime.Runtime, args []any) (any, error) {
	return toString(args[0])
}

func toArray(_ *runtime.Runtime, args []any) (any, error) {
	if arr, ok := args[0].([]any); ok {
		return arr, nil
	}

	return []any{args[0]}, nil
}

// toString returns strings unchanged and the compact JSON encoding of
// anything else.
func toString(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return "", types.ErrInvalidValue.Wrap(err)
	}

	return string(b), nil
}
