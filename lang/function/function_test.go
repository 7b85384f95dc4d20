package function

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/jpx/lang/interp"
	"github.com/ardnew/jpx/lang/parser"
	"github.com/ardnew/jpx/lang/runtime"
	"github.com/ardnew/jpx/lang/types"
)

// evaluator returns a search function whose definitions persist across
// calls.
func evaluator() func(data any, expression string) (any, error) {
	rt := runtime.New(Table())

	return func(data any, expression string) (any, error) {
		node, err := parser.Parse(expression)
		if err != nil {
			return nil, err
		}

		in := interp.New()
		in.SetDispatcher(rt.Bind(in))

		return in.Visit(node, data)
	}
}

var people = map[string]any{
	"people": []any{
		map[string]any{"name": "alice", "age": 30.0, "dept": "eng"},
		map[string]any{"name": "bob", "age": 25.0, "dept": "ops"},
		map[string]any{"name": "carol", "age": 30.0, "dept": "eng"},
	},
	"text": "hi-diddly-ho there, neighborino",
}

type functionTest struct {
	name  string
	input string
	want  any
}

func runFunctionTests(t *testing.T, tests []functionTest) {
	t.Helper()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evaluator()(people, tt.input)
			if err != nil {
				t.Fatalf("search(%q) error = %v", tt.input, err)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("search(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestArrayFunctions(t *testing.T) {
	runFunctionTests(t, []functionTest{
		{"length_string_runes", "length('héllo')", 5.0},
		{"length_array", "length(people)", 3.0},
		{"length_object", "length(people[0])", 3.0},
		{"reverse_string", "reverse('abc')", "cba"},
		{"reverse_array", "reverse(`[1, 2, 3]`)", []any{3.0, 2.0, 1.0}},
		{"sort_numbers", "sort(`[3, 1, 2]`)", []any{1.0, 2.0, 3.0}},
		{"sort_strings", "sort(`[\"b\", \"a\"]`)", []any{"a", "b"}},
		{"sort_by_stable", "sort_by(people, &age)[*].name", []any{"bob", "alice", "carol"}},
		{"max_by_first_wins", "max_by(people, &age).name", "alice"},
		{"min_by", "min_by(people, &age).name", "bob"},
		{"max_by_empty", "max_by(`[]`, &a)", nil},
		{"group_by", "group_by(people, &dept).eng[*].name", []any{"alice", "carol"}},
		{"group_by_keys", "keys(group_by(people, &age))", []any{"25", "30"}},
		{"key_by_last_wins", "key_by(people, &dept).eng.name", "carol"},
		{"unique_by", "unique_by(people, &age)[*].name", []any{"alice", "bob"}},
		{
			"map_binds_index",
			"map(&[$index, @], `[\"a\", \"b\"]`)",
			[]any{[]any{0.0, "a"}, []any{1.0, "b"}},
		},
		{"map_keeps_null", "map(&missing, `[1, 2]`)", []any{nil, nil}},
		{
			"chunk",
			"chunk(`[1, 2, 3, 4, 5]`, `2`)",
			[]any{[]any{1.0, 2.0}, []any{3.0, 4.0}, []any{5.0}},
		},
		{"chunk_zero", "chunk(`[1]`, `0`)", []any{}},
		{"difference", "difference(`[1, 2, 3, 2]`, `[2]`)", []any{1.0, 3.0}},
		{"intersection_distinct", "intersection(`[1, 2, 2, 3]`, `[2, 3, 4]`)", []any{2.0, 3.0}},
		{"every", "every(people, &age > `20`)", true},
		{"every_empty", "every(`[]`, &a)", true},
		{"some", "some(people, &age > `29`)", true},
		{"some_empty", "some(`[]`, &a)", false},
		{"find", "find(people, &age == `30`).name", "alice"},
		{"find_last", "find_last(people, &age == `30`).name", "carol"},
		{"find_index", "find_index(people, &age == `25`)", 1.0},
		{"find_last_index_missing", "find_last_index(people, &age == `99`)", -1.0},
		{"find_missing", "find(people, &age == `99`)", nil},
	})
}

func TestConditionalFunctions(t *testing.T) {
	runFunctionTests(t, []functionTest{
		{"let", "let({x: `1`}, &$x)", 1.0},
		{"let_filter", "let({min: `26`}, &people[?age > $min].name)", []any{"alice", "carol"}},
		{"let_shadowing", "let({x: `1`}, &[let({x: `2`}, &$x), $x])", []any{2.0, 1.0}},
		{"let_scope_released", "[let({x: `1`}, &$x), $x]", []any{1.0, nil}},
		{"let_context", "let({n: 'x'}, &people[0].name)", "alice"},
		{"if_true", "if(`true`, &'yes', &'no')", "yes"},
		{"if_false", "if(`[]`, &'yes', &'no')", "no"},
		{"if_no_else", "if(`false`, &'yes')", nil},
		{"if_context", "if(people[0].age > `26`, &people[0].name)", "alice"},
		{
			"case_per_element",
			"map(&case([&age > `29`, &'senior'], &'junior'), people)",
			[]any{"senior", "junior", "senior"},
		},
		{"case_no_match", "case([&`false`, &'x'])", nil},
		{"case_first_match", "case([&`true`, &'a'], [&`true`, &'b'])", "a"},
		{"is_defined_missing", "is_defined('nope')", false},
	})
}

func TestDefine(t *testing.T) {
	search := evaluator()

	got, err := search("context", "define('twice', &[@, @])")
	if err != nil {
		t.Fatalf("define() error = %v", err)
	}

	if got != "context" {
		t.Errorf("define() = %v, want the captured context", got)
	}

	got, err = search("x", "[is_defined('twice'), twice('a')]")
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]any{true, []any{"a", "a"}}, got); diff != "" {
		t.Errorf("twice() mismatch (-want +got):\n%s", diff)
	}

	if _, err := search(nil, "define('twice', &@)"); !errors.Is(err, types.ErrRedefined) {
		t.Errorf("redefine error = %v, want ErrRedefined", err)
	}

	// A separate runtime does not see the definition.
	if _, err := evaluator()(nil, "twice('a')"); !errors.Is(err, types.ErrUnknownFunction) {
		t.Errorf("twice() on a new runtime error = %v, want ErrUnknownFunction", err)
	}
}

func TestDateFunctions(t *testing.T) {
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 678000000, time.UTC)

	saved := clock
	clock = func() time.Time { return fixed.In(time.FixedZone("X", -7200)) }

	t.Cleanup(func() { clock = saved })

	runFunctionTests(t, []functionTest{
		{"now_type", "type(now())", "date"},
		{"now_utc", "date_format(now())", "2025-01-02T03:04:05.678Z"},
		{"parse_iso", "date_format(date_parse('2024-03-05T10:20:30Z'))", "2024-03-05T10:20:30.000Z"},
		{"parse_offset", "date_format(date_parse('2024-03-05T10:20:30+02:00'))", "2024-03-05T08:20:30.000Z"},
		{"parse_date_only", "date_format(date_parse('2024-03-05'), '%Y/%m/%d')", "2024/03/05"},
		{"parse_layout", "date_format(date_parse('05/03/2024', '%d/%m/%Y'), '%Y-%m-%d')", "2024-03-05"},
		{"parse_invalid", "date_parse('garbage')", nil},
		{"parse_null", "date_parse(missing)", nil},
		{"format_null", "date_format(`null`)", nil},
		{"compare_dates", "date_parse('2024-01-01') < date_parse('2024-06-01')", true},
	})
}

func TestMathFunctions(t *testing.T) {
	runFunctionTests(t, []functionTest{
		{"abs", "abs(`-2`)", 2.0},
		{"ceil", "ceil(`1.2`)", 2.0},
		{"floor", "floor(`1.8`)", 1.0},
		{"avg", "avg(`[1, 2, 3, 4]`)", 2.5},
		{"avg_empty", "avg(`[]`)", nil},
		{"sum", "sum(people[*].age)", 85.0},
		{"sum_empty", "sum(`[]`)", 0.0},
		{"round_half_up", "round(`2.5`)", 3.0},
		{"round_half_away_from_zero", "round(`-2.5`)", -3.0},
		{"round_places", "round(`3.14159`, `2`)", 3.14},
		{"round_negative_places", "round(`1234`, `-2`)", 1200.0},
		{"max", "max(`[1, 3, 2]`)", 3.0},
		{"min_strings", "min(`[\"b\", \"a\"]`)", "a"},
		{"max_empty", "max(`[]`)", nil},
		{"to_number", "to_number('42')", 42.0},
		{"to_number_spaces", "to_number(' 1.5 ')", 1.5},
		{"to_number_invalid", "to_number('abc')", nil},
		{"to_number_nan", "to_number('NaN')", nil},
		{"to_number_bool", "to_number(`true`)", nil},
		{"to_number_number", "to_number(`7`)", 7.0},
	})
}

func TestObjectFunctions(t *testing.T) {
	runFunctionTests(t, []functionTest{
		{"keys_sorted", "keys(`{\"b\": 1, \"a\": 2}`)", []any{"a", "b"}},
		{"values_by_key", "values(`{\"b\": 1, \"a\": 2}`)", []any{2.0, 1.0}},
		{
			"merge_later_wins",
			"merge(`{\"a\": 1, \"b\": 1}`, `{\"b\": 2}`)",
			map[string]any{"a": 1.0, "b": 2.0},
		},
		{"merge_single", "merge(`{}`)", map[string]any{}},
		{
			"to_entries",
			"to_entries(`{\"a\": 1}`)",
			[]any{map[string]any{"key": "a", "value": 1.0}},
		},
		{
			"from_entries",
			"from_entries(`[{\"key\": \"a\", \"value\": 1}, {\"key\": \"a\", \"value\": 2}]`)",
			map[string]any{"a": 2.0},
		},
		{"entries_round_trip", "from_entries(to_entries(people[1])).name", "bob"},
	})
}

func TestStringFunctions(t *testing.T) {
	runFunctionTests(t, []functionTest{
		{"contains_string", "contains('abc', 'b')", true},
		{"contains_array", "contains(`[1, \"a\"]`, 'a')", true},
		{"contains_string_non_string", "contains('abc', `1`)", false},
		{"starts_with", "starts_with('abc', 'ab')", true},
		{"ends_with", "ends_with('abc', 'ab')", false},
		{"lower", "lower('ABC')", "abc"},
		{"upper", "upper('abc')", "ABC"},
		{"upper_first", "upper_first('élan vital')", "Élan vital"},
		{"upper_first_empty", "upper_first('')", ""},
		{"camel_case", "camel_case('foo_bar baz')", "fooBarBaz"},
		{"kebab_case", "kebab_case('fooBar')", "foo-bar"},
		{"snake_case", "snake_case('FooBar')", "foo_bar"},
		{"sname_case", "sname_case('FooBar')", "foo_bar"},
		{"trim", "trim('  a  ')", "a"},
		{"trim_chars", "trim('xxaxx', 'x')", "a"},
		{"pad_even", "pad('ab', `6`)", "  ab  "},
		{"pad_odd", "pad('ab', `5`, '*')", "*ab**"},
		{"pad_start", "pad_start('5', `3`, '0')", "005"},
		{"pad_end_cycles_fill", "pad_end('ab', `5`, 'xy')", "abxyx"},
		{"pad_shorter", "pad('abc', `2`)", "abc"},
		{"repeat", "repeat('ab', `3`)", "ababab"},
		{"repeat_negative", "repeat('a', `-1`)", ""},
		{"replace_first", "replace('a-b-c', '-', '+')", "a+b-c"},
		{"replace_regexp_first", "replace('a-b-c', /-/, '+')", "a+b-c"},
		{"replace_global", "replace('a-b-c', /-/g, '+')", "a+b+c"},
		{"replace_groups", "replace('john smith', /(\\w+) (\\w+)/, '$2 $1')", "smith john"},
		{"split", "split('a,b,c', ',')", []any{"a", "b", "c"}},
		{"split_regexp", "split('a1b22c', /\\d+/)", []any{"a", "b", "c"}},
		{"substr", "substr('hello', `1`, `3`)", "ell"},
		{"substr_negative", "substr('hello', `-3`)", "llo"},
		{"substr_past_end", "substr('hello', `10`)", ""},
		{"substr_zero_length", "substr('hello', `1`, `0`)", ""},
		{"truncate_default", "truncate(text)", "hi-diddly-ho there, neighbo..."},
		{"truncate_separator", "truncate(text, {length: `24`, separator: ' '})", "hi-diddly-ho there,..."},
		{"truncate_regexp", "truncate(text, {length: `24`, separator: /,? +/})", "hi-diddly-ho there..."},
		{"truncate_omission", "truncate(text, {length: `25`, omission: ' [...]'})", "hi-diddly-ho there, [...]"},
		{"truncate_short", "truncate('short')", "short"},
		{"truncate_omission_only", "truncate('abcdef', {length: `2`})", "..."},
		{"escape", "escape('<a href=\"x\">')", "&lt;a href=&quot;x&quot;&gt;"},
		{"unescape", "unescape('&lt;b&gt; &amp; &#39;')", "<b> & '"},
		{"words", "words('fooBar, baz42')", []any{"foo", "Bar", "baz", "42"}},
		{"words_acronym", "words('XMLHttpRequest')", []any{"XML", "Http", "Request"}},
		{"words_pattern", "words('a-b c', '[^, ]+')", []any{"a-b", "c"}},
		{"words_regexp", "words('a1b2', /\\d/)", []any{"1", "2"}},
		{"join", "join(', ', `[\"a\", \"b\"]`)", "a, b"},
		{"join_empty", "join('-', `[]`)", ""},
	})
}

func TestTypeFunctions(t *testing.T) {
	runFunctionTests(t, []functionTest{
		{"type_number", "type(`1`)", "number"},
		{"type_string", "type('a')", "string"},
		{"type_regexp", "type(/x/)", "regexp"},
		{"type_expref", "type(&a)", "expref"},
		{"type_null", "type(`null`)", "null"},
		{"type_object", "type(@)", "object"},
		{"not_null", "not_null(`null`, missing, 'x')", "x"},
		{"not_null_none", "not_null(`null`)", nil},
		{"not_null_false", "not_null(`false`, 'x')", false},
		{"to_string_array", "to_string(`[1, \"a\"]`)", `[1,"a"]`},
		{"to_string_string", "to_string('a')", "a"},
		{"to_string_number", "to_string(`1.5`)", "1.5"},
		{"to_array_scalar", "to_array(`1`)", []any{1.0}},
		{"to_array_array", "to_array(`[1]`)", []any{1.0}},
	})
}

func TestFunctionErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"abs_string", "abs('x')", types.ErrArgumentType},
		{"length_number", "length(`1`)", types.ErrArgumentType},
		{"sort_mixed", "sort(`[1, \"a\"]`)", types.ErrArgumentType},
		{"sort_by_null_key", "sort_by(people, &missing)", types.ErrKeyType},
		{"sort_by_mixed_keys", "sort_by(`[{\"a\": 1}, {\"a\": \"x\"}]`, &a)", types.ErrKeyType},
		{"unique_by_object_key", "unique_by(people, &@)", types.ErrKeyType},
		{"unknown_function", "nope()", types.ErrUnknownFunction},
		{"merge_no_arguments", "merge()", types.ErrArgumentCount},
		{"round_too_many", "round(`1`, `2`, `3`)", types.ErrArgumentCount},
		{"words_bad_pattern", "words('x', '(')", types.ErrInvalidRegexp},
		{"join_non_strings", "join(',', `[1]`)", types.ErrArgumentType},
		{"from_entries_key", "from_entries(`[{\"key\": 1}]`)", types.ErrArgumentType},
		{"case_arm_length", "case([&a])", types.ErrArgumentType},
		{"case_non_expref", "case('a')", types.ErrArgumentType},
		{"let_non_object", "let(`1`, &a)", types.ErrArgumentType},
		{"if_non_expref", "if(`true`, 'a')", types.ErrArgumentType},
		{"map_error_propagates", "map(&abs(@), `[\"a\"]`)", types.ErrArgumentType},
		{"zero_step", "people[::0]", types.ErrZeroStep},
		{"pad_too_wide", "pad('a', `1e18`)", types.ErrResultTooLarge},
		{"pad_start_too_wide", "pad_start('a', `1e12`)", types.ErrResultTooLarge},
		{"pad_end_too_wide", "pad_end('a', `1e300`)", types.ErrResultTooLarge},
		{"repeat_too_long", "repeat('ab', `1e19`)", types.ErrResultTooLarge},
		{"repeat_just_over", "repeat('ab', `8388609`)", types.ErrResultTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evaluator()(people, tt.input)
			if !errors.Is(err, tt.want) {
				t.Errorf("search(%q) = %v, %v; want error %v", tt.input, got, err, tt.want)
			}
		})
	}
}

func TestScopeReleasedOnError(t *testing.T) {
	rt := runtime.New(Table())
	in := interp.New()
	in.SetDispatcher(rt.Bind(in))

	for _, expression := range []string{
		"let({x: `1`}, &abs('x'))",
		"map(&abs(@), `[1, \"a\"]`)",
		"let({x: `1`}, &let({y: 'a'}, &abs($y)))",
		"let({x: `1`}, &map(&abs($x), `[1]`)) | abs('x')",
	} {
		node, err := parser.Parse(expression)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", expression, err)
		}

		if _, err := in.Visit(node, people); !errors.Is(err, types.ErrArgumentType) {
			t.Errorf("Visit(%q) error = %v, want %v", expression, err, types.ErrArgumentType)
		}

		if depth := in.Scope().Depth(); depth != 0 {
			t.Errorf("after Visit(%q): scope depth = %d, want 0", expression, depth)
		}
	}
}

func TestNumericArgumentBounds(t *testing.T) {
	runFunctionTests(t, []functionTest{
		{"chunk_huge_size", "chunk(`[1, 2, 3]`, `1e300`)", []any{[]any{1.0, 2.0, 3.0}}},
		{"chunk_empty_huge_size", "chunk(`[]`, `1e300`)", []any{}},
		{"substr_huge_start", "substr('abc', `1e300`)", ""},
		{"substr_huge_negative_start", "substr('abc', `-1e300`)", "abc"},
		{"substr_huge_length", "substr('abc', `1`, `1e300`)", "bc"},
		{"round_huge_places", "round(`1.55`, `4294967297`)", 1.55},
		{"round_huge_negative_places", "round(`1234`, `-1e10`)", 0.0},
		{"round_int32_places", "round(`1.55`, `2147483648`)", 1.55},
		{"pad_huge_negative_width", "pad('a', `-1e300`)", "a"},
		{"repeat_huge_negative", "repeat('ab', `-1e300`)", ""},
		{"repeat_empty_huge", "repeat('', `1e300`)", ""},
		{"pad_at_limit", "length(pad_end('', `16777216`, 'x'))", 16777216.0},
	})
}

func TestTableSignatures(t *testing.T) {
	table := Table()

	tests := []struct {
		name string
		want string
	}{
		{"length", "length(string|array|object)"},
		{"sort_by", "sort_by(array, expref)"},
		{"merge", "merge(...object)"},
		{"not_null", "not_null(...any)"},
		{"abs", "abs(number)"},
		{"join", "join(string, array<string>)"},
		{"pad", "pad(string, number, string?)"},
		{"case", "case(...expref|array<expref>)"},
		{"now", "now()"},
	}

	for _, tt := range tests {
		e, ok := table[tt.name]
		if !ok {
			t.Errorf("%s missing from table", tt.name)

			continue
		}

		if got := e.Signature.Format(tt.name); got != tt.want {
			t.Errorf("Format() = %q, want %q", got, tt.want)
		}
	}

	for _, name := range []string{"divide", "first"} {
		if _, ok := table[name]; ok {
			t.Errorf("unexpected function %s", name)
		}
	}
}
