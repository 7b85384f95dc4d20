package function

import (
	"slices"

	"github.com/ardnew/jpx/lang/runtime"
	"github.com/ardnew/jpx/lang/types"
)

var arrayTable = runtime.Table{
	"length":          entry(length, accepts(tString, tArray, tObject)),
	"reverse":         entry(reverse, accepts(tString, tArray)),
	"sort":            entry(sortValues, accepts(tArrayNumber, tArrayString)),
	"sort_by":         entry(sortBy, accepts(tArray), accepts(tExpref)),
	"max_by":          entry(extremumBy("max_by", 1), accepts(tArray), accepts(tExpref)),
	"min_by":          entry(extremumBy("min_by", -1), accepts(tArray), accepts(tExpref)),
	"group_by":        entry(groupBy, accepts(tArray), accepts(tExpref)),
	"key_by":          entry(keyBy, accepts(tArray), accepts(tExpref)),
	"unique_by":       entry(uniqueBy, accepts(tArray), accepts(tExpref)),
	"map":             entry(mapValues, accepts(tExpref), accepts(tArray)),
	"chunk":           entry(chunk, accepts(tArray), accepts(tNumber)),
	"difference":      entry(difference, accepts(tArray), accepts(tArray)),
	"intersection":    entry(intersection, accepts(tArray), accepts(tArray)),
	"every":           entry(every, accepts(tArray), accepts(tExpref)),
	"some":            entry(some, accepts(tArray), accepts(tExpref)),
	"find":            entry(find(false, false), accepts(tArray), accepts(tExpref)),
	"find_last":       entry(find(true, false), accepts(tArray), accepts(tExpref)),
	"find_index":      entry(find(false, true), accepts(tArray), accepts(tExpref)),
	"find_last_index": entry(find(true, true), accepts(tArray), accepts(tExpref)),
}

// Key types accepted by the ordering and grouping operations.
var (
	orderedKeys = []types.TypeTag{tNumber, tString}
	uniqueKeys  = []types.TypeTag{tNumber, tString, tBoolean, tNull}
)

func length(_ *runtime.Runtime, args []any) (any, error) {
	switch v := args[0].(type) {
	case string:
		return float64(len([]rune(v))), nil
	case []any:
		return float64(len(v)), nil
	case map[string]any:
		return float64(len(v)), nil
	}

	return nil, nil
}

func reverse(_ *runtime.Runtime, args []any) (any, error) {
	if s, ok := args[0].(string); ok {
		r := []rune(s)
		slices.Reverse(r)

		return string(r), nil
	}

	arr := slices.Clone(arrayArg(args, 0))
	slices.Reverse(arr)

	return arr, nil
}

func sortValues(_ *runtime.Runtime, args []any) (any, error) {
	arr := slices.Clone(arrayArg(args, 0))
	slices.SortStableFunc(arr, func(a, b any) int {
		c, _ := types.Compare(a, b)

		return c
	})

	return arr, nil
}

// sortBy orders elements by the keys computed from the expression. Equal
// keys keep their input order.
func sortBy(rt *runtime.Runtime, args []any) (any, error) {
	arr := arrayArg(args, 0)

	keys, err := rt.KeyFunc("sort_by", closureArg(args, 1), orderedKeys...).Keys(arr)
	if err != nil {
		return nil, err
	}

	order := make([]int, len(arr))
	for i := range order {
		order[i] = i
	}

	slices.SortStableFunc(order, func(a, b int) int {
		c, _ := types.Compare(keys[a], keys[b])

		return c
	})

	sorted := make([]any, len(arr))
	for i, j := range order {
		sorted[i] = arr[j]
	}

	return sorted, nil
}

// extremumBy returns the first element whose key has the sign of want
// against every other key. Empty arrays yield null.
func extremumBy(name string, want int) runtime.Func {
	return func(rt *runtime.Runtime, args []any) (any, error) {
		arr := arrayArg(args, 0)
		if len(arr) == 0 {
			return nil, nil
		}

		keys, err := rt.KeyFunc(name, closureArg(args, 1), orderedKeys...).Keys(arr)
		if err != nil {
			return nil, err
		}

		best := 0

		for i := 1; i < len(arr); i++ {
			if c, _ := types.Compare(keys[i], keys[best]); c*want > 0 {
				best = i
			}
		}

		return arr[best], nil
	}
}

func groupBy(rt *runtime.Runtime, args []any) (any, error) {
	arr := arrayArg(args, 0)

	keys, err := rt.KeyFunc("group_by", closureArg(args, 1), orderedKeys...).Keys(arr)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]any)

	for i, elem := range arr {
		k := keyString(keys[i])
		group, _ := groups[k].([]any)
		groups[k] = append(group, elem)
	}

	return groups, nil
}

// keyBy maps each key to the last element producing it.
func keyBy(rt *runtime.Runtime, args []any) (any, error) {
	arr := arrayArg(args, 0)

	keys, err := rt.KeyFunc("key_by", closureArg(args, 1), orderedKeys...).Keys(arr)
	if err != nil {
		return nil, err
	}

	out := make(map[string]any, len(arr))
	for i, elem := range arr {
		out[keyString(keys[i])] = elem
	}

	return out, nil
}

// uniqueBy keeps the first element producing each key, in input order.
func uniqueBy(rt *runtime.Runtime, args []any) (any, error) {
	arr := arrayArg(args, 0)

	keys, err := rt.KeyFunc("unique_by", closureArg(args, 1), uniqueKeys...).Keys(arr)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(arr))
	out := make([]any, 0, len(arr))

	for i, elem := range arr {
		k := keyString(keys[i])
		if !seen[k] {
			seen[k] = true
			out = append(out, elem)
		}
	}

	return out, nil
}

// mapValues evaluates the expression against each element with $index
// bound to the element's position.
func mapValues(rt *runtime.Runtime, args []any) (any, error) {
	c, arr := closureArg(args, 0), arrayArg(args, 1)

	mapped := make([]any, len(arr))

	for i, elem := range arr {
		v, err := func() (any, error) {
			defer rt.Scope().Push(map[string]any{"index": float64(i)})()

			return rt.Invoke(c, elem)
		}()
		if err != nil {
			return nil, err
		}

		mapped[i] = v
	}

	return mapped, nil
}

func chunk(_ *runtime.Runtime, args []any) (any, error) {
	arr, size := arrayArg(args, 0), integer(args[1])
	if size < 1 {
		return []any{}, nil
	}

	size = min(size, max(len(arr), 1))

	out := make([]any, 0, (len(arr)+size-1)/size)
	for c := range slices.Chunk(arr, size) {
		out = append(out, slices.Clone(c))
	}

	return out, nil
}

func containsValue(arr []any, v any) bool {
	return slices.ContainsFunc(arr, func(e any) bool { return types.DeepEqual(e, v) })
}

func difference(_ *runtime.Runtime, args []any) (any, error) {
	a, b := arrayArg(args, 0), arrayArg(args, 1)

	out := make([]any, 0, len(a))

	for _, v := range a {
		if !containsValue(b, v) {
			out = append(out, v)
		}
	}

	return out, nil
}

// intersection returns the distinct elements of the first array that also
// appear in the second.
func intersection(_ *runtime.Runtime, args []any) (any, error) {
	a, b := arrayArg(args, 0), arrayArg(args, 1)

	out := make([]any, 0)

	for _, v := range a {
		if containsValue(b, v) && !containsValue(out, v) {
			out = append(out, v)
		}
	}

	return out, nil
}

func every(rt *runtime.Runtime, args []any) (any, error) {
	c := closureArg(args, 1)

	for _, elem := range arrayArg(args, 0) {
		v, err := rt.Invoke(c, elem)
		if err != nil {
			return nil, err
		}

		if types.IsFalse(v) {
			return false, nil
		}
	}

	return true, nil
}

func some(rt *runtime.Runtime, args []any) (any, error) {
	c := closureArg(args, 1)

	for _, elem := range arrayArg(args, 0) {
		v, err := rt.Invoke(c, elem)
		if err != nil {
			return nil, err
		}

		if !types.IsFalse(v) {
			return true, nil
		}
	}

	return false, nil
}

// find scans for the first element (or the last, when backward) for which
// the expression is truthy, and returns the element or its index. A failed
// search yields null or -1.
func find(backward, index bool) runtime.Func {
	return func(rt *runtime.Runtime, args []any) (any, error) {
		arr, c := arrayArg(args, 0), closureArg(args, 1)

		for n := range len(arr) {
			i := n
			if backward {
				i = len(arr) - 1 - n
			}

			v, err := rt.Invoke(c, arr[i])
			if err != nil {
				return nil, err
			}

			if !types.IsFalse(v) {
				if index {
					return float64(i), nil
				}

				return arr[i], nil
			}
		}

		if index {
			return float64(-1), nil
		}

		return nil, nil
	}
}
