package function

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/ardnew/jpx/lang/interp"
	"github.com/ardnew/jpx/lang/runtime"
	"github.com/ardnew/jpx/lang/types"
)

var objectTable = runtime.Table{
	"keys":         entry(keys, accepts(tObject)),
	"values":       entry(values, accepts(tObject)),
	"merge":        entry(merge, variadic(tObject)),
	"to_entries":   entry(toEntries, accepts(tObject)),
	"from_entries": entry(fromEntries, accepts(tArrayObject)),
}

func sortedKeys(obj map[string]any) []string {
	return slices.Sorted(maps.Keys(obj))
}

func keys(_ *runtime.Runtime, args []any) (any, error) {
	names := sortedKeys(objectArg(args, 0))

	result := make([]any, len(names))
	for i, k := range names {
		result[i] = k
	}

	return result, nil
}

func values(_ *runtime.Runtime, args []any) (any, error) {
	return interp.Values(objectArg(args, 0)), nil
}

func merge(_ *runtime.Runtime, args []any) (any, error) {
	merged := make(map[string]any)
	for i := range args {
		maps.Copy(merged, objectArg(args, i))
	}

	return merged, nil
}

func toEntries(_ *runtime.Runtime, args []any) (any, error) {
	obj := objectArg(args, 0)

	entries := make([]any, 0, len(obj))
	for _, k := range sortedKeys(obj) {
		entries = append(entries, map[string]any{"key": k, "value": obj[k]})
	}

	return entries, nil
}

func fromEntries(_ *runtime.Runtime, args []any) (any, error) {
	out := make(map[string]any)

	for i, e := range arrayArg(args, 0) {
		pair, _ := e.(map[string]any)

		key, ok := pair["key"].(string)
		if !ok {
			return nil, types.ErrArgumentType.With(
				slog.String("function", "from_entries()"),
				slog.Int("element", i),
				slog.String("expected", "string key"),
				slog.String("received", types.TypeOf(pair["key"]).String()),
			)
		}

		out[key] = pair["value"]
	}

	return out, nil
}
