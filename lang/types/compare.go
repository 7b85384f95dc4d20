package types

import (
	"cmp"
	"strings"
	"time"
)

// IsFalse reports whether v is false under the language's falsiness rules:
// the empty string, false, null, an empty array and an empty object.
func IsFalse(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case bool:
		return !v
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	default:
		return false
	}
}

// DeepEqual reports whether a and b are structurally equal. Numbers compare
// by value regardless of their Go type; arrays compare by length and order;
// objects compare by key set and member values.
func DeepEqual(a, b any) bool {
	if x, ok := ToFloat(a); ok {
		y, ok := ToFloat(b)

		return ok && x == y
	}

	switch x := a.(type) {
	case nil:
		return b == nil
	case bool:
		y, ok := b.(bool)

		return ok && x == y
	case string:
		y, ok := b.(string)

		return ok && x == y
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}

		for i := range x {
			if !DeepEqual(x[i], y[i]) {
				return false
			}
		}

		return true
	case map[string]any:
		y, ok := b.(map[string]any)
		if !ok || len(x) != len(y) {
			return false
		}

		for k, xv := range x {
			yv, ok := y[k]
			if !ok || !DeepEqual(xv, yv) {
				return false
			}
		}

		return true
	case time.Time:
		y, ok := b.(time.Time)

		return ok && x.Equal(y)
	case *Regexp:
		y, ok := b.(*Regexp)

		return ok && x.String() == y.String()
	case Closure:
		y, ok := b.(Closure)

		return ok && x.node == y.node && DeepEqual(x.context, y.context)
	default:
		return false
	}
}

// Compare orders a and b when both are numbers, both are strings, or both
// are dates. It returns false for any other pair.
func Compare(a, b any) (int, bool) {
	if x, ok := ToFloat(a); ok {
		if y, ok := ToFloat(b); ok {
			return cmp.Compare(x, y), true
		}

		return 0, false
	}

	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y), true
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y), true
		}
	}

	return 0, false
}
