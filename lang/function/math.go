package function

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/ardnew/jpx/lang/runtime"
)

var mathTable = runtime.Table{
	"abs":   entry(unary(math.Abs), accepts(tNumber)),
	"ceil":  entry(unary(math.Ceil), accepts(tNumber)),
	"floor": entry(unary(math.Floor), accepts(tNumber)),
	"avg":   entry(avg, accepts(tArrayNumber)),
	"sum":   entry(sum, accepts(tArrayNumber)),
	"round": entry(round, accepts(tNumber), optional(tNumber)),
}

func unary(f func(float64) float64) runtime.Func {
	return func(_ *runtime.Runtime, args []any) (any, error) {
		return f(num(args[0])), nil
	}
}

func sum(_ *runtime.Runtime, args []any) (any, error) {
	var total float64
	for _, v := range arrayArg(args, 0) {
		total += num(v)
	}

	return total, nil
}

func avg(rt *runtime.Runtime, args []any) (any, error) {
	arr := arrayArg(args, 0)
	if len(arr) == 0 {
		return nil, nil
	}

	total, _ := sum(rt, args)

	return total.(float64) / float64(len(arr)), nil
}

// maxRoundPlaces is past the precision of any float64 in either
// direction, so clamping to it never changes a result.
const maxRoundPlaces = 350

// round rounds half away from zero to the given number of decimal places;
// negative places round to tens, hundreds and so on.
func round(_ *runtime.Runtime, args []any) (any, error) {
	var places int32
	if len(args) > 1 {
		places = int32(min(max(integer(args[1]), -maxRoundPlaces), maxRoundPlaces))
	}

	f, _ := decimal.NewFromFloat(num(args[0])).Round(places).Float64()

	return f, nil
}
