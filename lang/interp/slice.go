package interp

import (
	"log/slog"

	"github.com/ardnew/jpx/lang/types"
)

// Slice returns the elements of arr selected by start:stop:step. Nil parts
// take their defaults; a zero step is an error.
func Slice(arr []any, start, stop, step *int) ([]any, error) {
	from, to, by, err := SliceBounds(len(arr), start, stop, step)
	if err != nil {
		return nil, err
	}

	result := make([]any, 0, max(0, (to-from)/by))

	if by > 0 {
		for i := from; i < to; i += by {
			result = append(result, arr[i])
		}
	} else {
		for i := from; i > to; i += by {
			result = append(result, arr[i])
		}
	}

	return result, nil
}

// SliceBounds resolves the effective iteration bounds of a slice over a
// sequence of the given length.
func SliceBounds(length int, start, stop, step *int) (from, to, by int, err error) {
	by = 1
	if step != nil {
		by = *step
	}

	if by == 0 {
		return 0, 0, 0, types.ErrZeroStep.With(slog.Int("length", length))
	}

	switch {
	case start != nil:
		from = capSlice(length, *start, by)
	case by < 0:
		from = length - 1
	}

	switch {
	case stop != nil:
		to = capSlice(length, *stop, by)
	case by < 0:
		to = -1
	default:
		to = length
	}

	return from, to, by, nil
}

func capSlice(length, actual, step int) int {
	switch {
	case actual < 0:
		actual += length
		if actual < 0 {
			if step < 0 {
				return -1
			}

			return 0
		}
	case actual >= length:
		if step < 0 {
			return length - 1
		}

		return length
	}

	return actual
}
