package types

import (
	"testing"
	"time"
)

func TestIsFalse(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want bool
	}{
		{"null", nil, true},
		{"false", false, true},
		{"true", true, false},
		{"empty_string", "", true},
		{"string", "a", false},
		{"empty_array", []any{}, true},
		{"array", []any{nil}, false},
		{"empty_object", map[string]any{}, true},
		{"object", map[string]any{"a": nil}, false},
		{"zero", 0.0, false},
		{"date", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFalse(tt.in); got != tt.want {
				t.Errorf("IsFalse(%#v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDeepEqual(t *testing.T) {
	re1, _ := CompileRegexp("a+", "i")
	re2, _ := CompileRegexp("a+", "i")
	re3, _ := CompileRegexp("a+", "")

	node := NewNode(NodeCurrent, nil)
	day := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"numbers_across_types", 1.0, int64(1), true},
		{"number_vs_string", 1.0, "1", false},
		{"null", nil, nil, true},
		{"null_vs_false", nil, false, false},
		{"strings", "a", "a", true},
		{"arrays_ordered", []any{1.0, "x"}, []any{1.0, "x"}, true},
		{"arrays_reordered", []any{1.0, "x"}, []any{"x", 1.0}, false},
		{"arrays_length", []any{1.0}, []any{1.0, 1.0}, false},
		{
			"objects_unordered",
			map[string]any{"a": 1.0, "b": []any{true}},
			map[string]any{"b": []any{true}, "a": 1.0},
			true,
		},
		{"objects_missing_key", map[string]any{"a": nil}, map[string]any{"b": nil}, false},
		{"dates_equal_instant", day, day.In(time.FixedZone("X", 3600)), true},
		{"regexps_same_source", re1, re2, true},
		{"regexps_different_flags", re1, re3, false},
		{"closures", NewClosure(node, 1.0), NewClosure(node, 1.0), true},
		{"closures_context", NewClosure(node, 1.0), NewClosure(node, 2.0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeepEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("DeepEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}

			if got := DeepEqual(tt.b, tt.a); got != tt.want {
				t.Errorf("DeepEqual(%v, %v) = %v, want %v (reversed)", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	early := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)

	tests := []struct {
		name   string
		a, b   any
		want   int
		wantOK bool
	}{
		{"numbers_less", 1.0, 2.0, -1, true},
		{"numbers_mixed_types", 3, 3.0, 0, true},
		{"strings", "b", "a", 1, true},
		{"dates", early, late, -1, true},
		{"number_string", 1.0, "1", 0, false},
		{"booleans", true, false, 0, false},
		{"nulls", nil, nil, 0, false},
		{"arrays", []any{}, []any{}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Compare(tt.a, tt.b)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Compare(%v, %v) = (%d, %v), want (%d, %v)",
					tt.a, tt.b, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
