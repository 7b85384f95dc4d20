package runtime

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/ardnew/jpx/lang/types"
)

// KeyFunc computes per-element keys for by-key operations. All keys
// produced by one KeyFunc must share a single type drawn from the allowed
// set.
type KeyFunc struct {
	rt      *Runtime
	name    string
	closure types.Closure
	allowed []types.TypeTag
	first   types.TypeTag
	seen    bool
}

// KeyFunc returns a key function for the named operation that evaluates c
// against each element.
func (r *Runtime) KeyFunc(name string, c types.Closure, allowed ...types.TypeTag) *KeyFunc {
	return &KeyFunc{rt: r, name: name, closure: c, allowed: allowed}
}

// Key evaluates the key of elem.
func (k *KeyFunc) Key(elem any) (any, error) {
	key, err := k.rt.Invoke(k.closure, elem)
	if err != nil {
		return nil, err
	}

	tag := types.TypeOf(key)

	if !slices.Contains(k.allowed, tag) {
		names := make([]string, len(k.allowed))
		for i, t := range k.allowed {
			names[i] = t.String()
		}

		return nil, types.ErrKeyType.With(
			slog.String("function", k.name+"()"),
			slog.String("expected", strings.Join(names, "|")),
			slog.String("received", tag.String()),
		)
	}

	if !k.seen {
		k.first, k.seen = tag, true
	} else if tag != k.first {
		return nil, types.ErrKeyType.With(
			slog.String("function", k.name+"()"),
			slog.String("expected", k.first.String()),
			slog.String("received", tag.String()),
			slog.String("reason", "mixed key types"),
		)
	}

	return key, nil
}

// Keys evaluates the key of every element in order.
func (k *KeyFunc) Keys(elems []any) ([]any, error) {
	keys := make([]any, len(elems))

	for i, e := range elems {
		key, err := k.Key(e)
		if err != nil {
			return nil, err
		}

		keys[i] = key
	}

	return keys, nil
}
