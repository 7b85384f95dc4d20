package lang

import (
	"fmt"
	"maps"
	"reflect"
	"time"

	"github.com/goccy/go-json"

	"github.com/ardnew/jpx/lang/types"
)

// Normalize converts v to the value model expressions operate on:
//
//   - numbers of any Go numeric type, and [json.Number], become float64
//   - slices and arrays become []any
//   - maps become map[string]any, formatting non-string keys with fmt
//   - structs become the object their JSON encoding describes
//   - pointers are followed; a nil pointer becomes null
//   - any other scalar becomes its fmt string form
//
// Values already in the model (including time.Time, regular expressions
// and expression references) pass through. v itself is never modified;
// containers are copied only when an element changes.
//
// [Engine.Evaluate] normalizes its input, so callers may pass decoded
// documents or Go collections directly.
func Normalize(v any) any {
	out, _ := normalize(v)

	return out
}

// normalize reports whether the result differs from v.
func normalize(v any) (any, bool) {
	switch v := v.(type) {
	case nil, bool, string, float64, time.Time, *types.Regexp, types.Closure:
		return v, false

	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return v.String(), true
		}

		return f, true

	case []any:
		var out []any

		for i, e := range v {
			n, changed := normalize(e)
			if changed && out == nil {
				out = make([]any, len(v))
				copy(out, v[:i])
			}

			if out != nil {
				out[i] = n
			}
		}

		if out == nil {
			return v, false
		}

		return out, true

	case map[string]any:
		var out map[string]any

		for k, e := range v {
			n, changed := normalize(e)
			if !changed {
				continue
			}

			if out == nil {
				out = maps.Clone(v)
			}

			out[k] = n
		}

		if out == nil {
			return v, false
		}

		return out, true
	}

	if f, ok := types.ToFloat(v); ok {
		return f, true
	}

	return normalizeReflect(reflect.ValueOf(v)), true
}

func normalizeReflect(rv reflect.Value) any {
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil
		}

		out := make([]any, rv.Len())
		for i := range out {
			out[i] = Normalize(rv.Index(i).Interface())
		}

		return out

	case reflect.Map:
		if rv.IsNil() {
			return nil
		}

		out := make(map[string]any, rv.Len())
		for iter := rv.MapRange(); iter.Next(); {
			out[fmt.Sprint(iter.Key().Interface())] = Normalize(iter.Value().Interface())
		}

		return out

	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}

		return Normalize(rv.Elem().Interface())

	case reflect.Struct:
		b, err := json.Marshal(rv.Interface())
		if err != nil {
			break
		}

		var out any
		if err := json.Unmarshal(b, &out); err != nil {
			break
		}

		return out
	}

	return fmt.Sprint(rv.Interface())
}
