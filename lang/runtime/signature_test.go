package runtime

import (
	"errors"
	"testing"

	"github.com/ardnew/jpx/lang/types"
)

func TestParamString(t *testing.T) {
	tests := []struct {
		param Param
		want  string
	}{
		{Accepts(types.TypeNumber), "number"},
		{Accepts(types.TypeString, types.TypeArray, types.TypeObject), "string|array|object"},
		{Variadic(types.TypeObject), "...object"},
		{Optional(types.TypeNumber), "number?"},
		{Param{}, "any"},
	}

	for _, tt := range tests {
		if got := tt.param.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestSignatureArity(t *testing.T) {
	tests := []struct {
		name    string
		sig     Signature
		wantMin int
		wantMax int
	}{
		{"none", Signature{}, 0, 0},
		{"fixed", Signature{Accepts(types.TypeArray), Accepts(types.TypeExpref)}, 2, 2},
		{"optional", Signature{Accepts(types.TypeString), Optional(types.TypeNumber)}, 1, 2},
		{"variadic", Signature{Variadic(types.TypeObject)}, 1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotMin, gotMax := tt.sig.Arity()
			if gotMin != tt.wantMin || gotMax != tt.wantMax {
				t.Errorf("Arity() = (%d, %d), want (%d, %d)",
					gotMin, gotMax, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestSignatureFormat(t *testing.T) {
	sig := Signature{
		Accepts(types.TypeString),
		Accepts(types.TypeNumber),
		Optional(types.TypeString),
	}

	if got, want := sig.Format("pad"), "pad(string, number, string?)"; got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}

	if got, want := (Signature{}).Format("now"), "now()"; got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestSignatureValidate(t *testing.T) {
	tests := []struct {
		name    string
		sig     Signature
		args    []any
		want    error
		wantMsg string
	}{
		{
			name: "ok",
			sig:  Signature{Accepts(types.TypeNumber)},
			args: []any{1.0},
		},
		{
			name:    "too_few",
			sig:     Signature{Accepts(types.TypeNumber)},
			args:    nil,
			want:    types.ErrArgumentCount,
			wantMsg: `ArgumentError: wrong number of arguments (function="f()" expected=1 received=0)`,
		},
		{
			name:    "too_many_optional",
			sig:     Signature{Accepts(types.TypeString), Optional(types.TypeNumber)},
			args:    []any{"a", 1.0, 2.0},
			want:    types.ErrArgumentCount,
			wantMsg: `ArgumentError: wrong number of arguments (function="f()" expected="1 or 2" received=3)`,
		},
		{
			name:    "variadic_empty",
			sig:     Signature{Variadic(types.TypeObject)},
			want:    types.ErrArgumentCount,
			wantMsg: `ArgumentError: wrong number of arguments (function="f()" expected="at least 1" received=0)`,
		},
		{
			name: "variadic_many",
			sig:  Signature{Variadic(types.TypeObject)},
			args: []any{map[string]any{}, map[string]any{}, map[string]any{}},
		},
		{
			name:    "variadic_type_checked",
			sig:     Signature{Variadic(types.TypeObject)},
			args:    []any{map[string]any{}, "x"},
			want:    types.ErrArgumentType,
			wantMsg: `TypeError: invalid argument type (function="f()" argument=2 expected=object received=string)`,
		},
		{
			name: "typed_array",
			sig:  Signature{Accepts(types.TypeString), Accepts(types.TypeArrayString)},
			args: []any{",", []any{1.0}},
			want: types.ErrArgumentType,
		},
		{
			name: "union",
			sig:  Signature{Accepts(types.TypeString, types.TypeArray)},
			args: []any{[]any{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sig.Validate("f", tt.args)
			if !errors.Is(err, tt.want) || (tt.want == nil && err != nil) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.want)
			}

			if tt.wantMsg != "" && err.Error() != tt.wantMsg {
				t.Errorf("Validate() error = %q, want %q", err.Error(), tt.wantMsg)
			}
		})
	}
}
