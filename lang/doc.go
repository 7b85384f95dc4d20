// Package lang is a query language for JSON-like data.
//
// An expression is compiled into an AST and evaluated against a value to
// select, filter, reshape or aggregate it. Values are the ones produced by
// decoding JSON into any: nil, bool, float64, string, []any and
// map[string]any, plus the dates, regular expressions and expression
// references that functions create and consume.
//
// # Grammar
//
//	a.b            field access
//	a[0], a[-1]    index
//	a[0:3:1]       slice; all three parts optional
//	a[*], a.*      list and object projections
//	a[]            flatten
//	a[?b == `1`]   filter projection
//	a | b          pipe
//	a || b, a && b, !a
//	==  !=  <  <=  >  >=
//	[a, b]         multiselect list
//	{k: a}         multiselect hash
//	f(a, b)        function call
//	&expr          expression reference
//	`json`         literal
//	'text'         raw string
//	"field"        quoted identifier
//	/pat/flags     regular expression
//	$name          scope variable
//
// # Scope
//
// let({x: `1`}, &expr) evaluates expr with $x bound to 1. Frames nest, and
// the innermost binding of a name wins. map() binds $index to the position
// of each element.
//
// # Functions
//
// The built-in library lives in package function. Callers can add their
// own with [WithDefinition], and expressions can add theirs with
// define(name, &expr). Defined functions belong to the [Engine] that ran
// the define.
//
// # Example
//
//	data := map[string]any{"people": []any{
//		map[string]any{"name": "ada", "age": 36.0},
//		map[string]any{"name": "alan", "age": 41.0},
//	}}
//
//	v, err := lang.Search(ctx, data, "people[?age > `40`].name | [0]")
//	// v == "alan"
package lang
