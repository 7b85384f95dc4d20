package interp

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/jpx/lang/types"
)

func ptr(n int) *int { return &n }

func TestSlice(t *testing.T) {
	arr := []any{0.0, 1.0, 2.0, 3.0, 4.0}

	tests := []struct {
		name              string
		start, stop, step *int
		want              []any
	}{
		{"all", nil, nil, nil, arr},
		{"range", ptr(1), ptr(3), nil, []any{1.0, 2.0}},
		{"reverse", nil, nil, ptr(-1), []any{4.0, 3.0, 2.0, 1.0, 0.0}},
		{"negative_start", ptr(-2), nil, nil, []any{3.0, 4.0}},
		{"negative_stop", nil, ptr(-2), nil, []any{0.0, 1.0, 2.0}},
		{"start_past_end", ptr(10), nil, nil, []any{}},
		{"step", nil, nil, ptr(2), []any{0.0, 2.0, 4.0}},
		{"reverse_range", ptr(3), ptr(0), ptr(-1), []any{3.0, 2.0, 1.0}},
		{"start_before_begin", ptr(-10), ptr(2), nil, []any{0.0, 1.0}},
		{"reverse_past_begin", ptr(4), ptr(-10), ptr(-2), []any{4.0, 2.0, 0.0}},
		{"reverse_from_past_end", ptr(10), nil, ptr(-1), []any{4.0, 3.0, 2.0, 1.0, 0.0}},
		{"empty_range", ptr(1), ptr(1), nil, []any{}},
		{"backwards_range", ptr(3), ptr(1), nil, []any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Slice(arr, tt.start, tt.stop, tt.step)
			if err != nil {
				t.Fatalf("Slice() error = %v", err)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Slice() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSliceZeroStep(t *testing.T) {
	if _, err := Slice([]any{1.0}, nil, nil, ptr(0)); !errors.Is(err, types.ErrZeroStep) {
		t.Errorf("Slice() error = %v, want ErrZeroStep", err)
	}
}

func TestSliceBounds(t *testing.T) {
	tests := []struct {
		name              string
		length            int
		start, stop, step *int
		from, to, by      int
	}{
		{"defaults", 5, nil, nil, nil, 0, 5, 1},
		{"negative_defaults", 5, nil, nil, ptr(-1), 4, -1, -1},
		{"empty", 0, nil, nil, ptr(-1), -1, -1, -1},
		{"clamped", 3, ptr(-7), ptr(9), nil, 0, 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, by, err := SliceBounds(tt.length, tt.start, tt.stop, tt.step)
			if err != nil {
				t.Fatalf("SliceBounds() error = %v", err)
			}

			if from != tt.from || to != tt.to || by != tt.by {
				t.Errorf("SliceBounds() = (%d, %d, %d), want (%d, %d, %d)",
					from, to, by, tt.from, tt.to, tt.by)
			}
		})
	}
}
