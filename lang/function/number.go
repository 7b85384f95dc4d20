package function

import (
	"math"
	"strconv"
	"strings"

	"github.com/ardnew/jpx/lang/runtime"
	"github.com/ardnew/jpx/lang/types"
)

var numberTable = runtime.Table{
	"max":       entry(extremum(1), accepts(tArrayNumber, tArrayString)),
	"min":       entry(extremum(-1), accepts(tArrayNumber, tArrayString)),
	"to_number": entry(toNumber, accepts(tAny)),
}

// extremum returns the element e for which Compare(e, other) has the sign
// of want against every other element; empty arrays yield null.
func extremum(want int) runtime.Func {
	return func(_ *runtime.Runtime, args []any) (any, error) {
		arr := arrayArg(args, 0)
		if len(arr) == 0 {
			return nil, nil
		}

		best := arr[0]

		for _, v := range arr[1:] {
			if c, ok := types.Compare(v, best); ok && c*want > 0 {
				best = v
			}
		}

		return best, nil
	}
}

func toNumber(_ *runtime.Runtime, args []any) (any, error) {
	switch v := args[0].(type) {
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, nil
		}

		return f, nil
	default:
		if f, ok := types.ToFloat(v); ok {
			return f, nil
		}

		return nil, nil
	}
}
