package function

import (
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/ardnew/jpx/lang/runtime"
)

var dateTable = runtime.Table{
	"now":         entry(now),
	"date_parse":  entry(dateParse, accepts(tString, tNull), optional(tString)),
	"date_format": entry(dateFormat, accepts(tDate, tNull), optional(tString)),
}

// isoLayouts are tried in order when date_parse has no explicit layout.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// isoFormat renders dates in UTC with millisecond precision.
const isoFormat = "2006-01-02T15:04:05.000Z07:00"

// clock is replaced in tests.
var clock = time.Now

func now(_ *runtime.Runtime, _ []any) (any, error) {
	return clock().UTC(), nil
}

// dateParse parses a string with a strftime layout, or as an ISO 8601 date
// when no layout is given. Unparseable input yields null.
func dateParse(_ *runtime.Runtime, args []any) (any, error) {
	value, ok := args[0].(string)
	if !ok {
		return nil, nil
	}

	if len(args) > 1 {
		t, err := strftime.Parse(stringArg(args, 1), value)
		if err != nil {
			return nil, nil
		}

		return t, nil
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	return nil, nil
}

func dateFormat(_ *runtime.Runtime, args []any) (any, error) {
	t, ok := args[0].(time.Time)
	if !ok {
		return nil, nil
	}

	if len(args) > 1 {
		return strftime.Format(stringArg(args, 1), t.UTC()), nil
	}

	return t.UTC().Format(isoFormat), nil
}
