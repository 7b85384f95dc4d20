package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/jpx/lang/types"
)

// tree renders an AST in the indented form of [types.Node.String], taking
// the expected lines without their common tab prefix.
func tree(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "field",
			input: "foo",
			want:  tree(`Field "foo"`),
		},
		{
			name:  "subexpression",
			input: `foo."bar"`,
			want: tree(
				`SubExpression`,
				`  Field "foo"`,
				`  Field "bar"`,
			),
		},
		{
			name:  "index",
			input: "foo[-1]",
			want: tree(
				`IndexExpression`,
				`  Field "foo"`,
				`  Index -1`,
			),
		},
		{
			name:  "slice_projects",
			input: "foo[1::2].a",
			want: tree(
				`Projection`,
				`  IndexExpression`,
				`    Field "foo"`,
				`    Slice [1::2]`,
				`  Field "a"`,
			),
		},
		{
			name:  "list_projection",
			input: "foo[*].bar",
			want: tree(
				`Projection`,
				`  Field "foo"`,
				`  Field "bar"`,
			),
		},
		{
			name:  "value_projection",
			input: "foo.*",
			want: tree(
				`ValueProjection`,
				`  Field "foo"`,
				`  Identity`,
			),
		},
		{
			name:  "flatten",
			input: "a[].b",
			want: tree(
				`Projection`,
				`  Flatten`,
				`    Field "a"`,
				`  Field "b"`,
			),
		},
		{
			name:  "filter",
			input: "[?a > `1`]",
			want: tree(
				`FilterProjection`,
				`  Identity`,
				`  Identity`,
				`  Comparator "GT"`,
				`    Field "a"`,
				`    Literal 1`,
			),
		},
		{
			name:  "or_and_precedence",
			input: "a || b && !c",
			want: tree(
				`OrExpression`,
				`  Field "a"`,
				`  AndExpression`,
				`    Field "b"`,
				`    NotExpression`,
				`      Field "c"`,
			),
		},
		{
			name:  "pipe_lowest",
			input: "a | b || c",
			want: tree(
				`Pipe`,
				`  Field "a"`,
				`  OrExpression`,
				`    Field "b"`,
				`    Field "c"`,
			),
		},
		{
			name:  "projection_stops_at_pipe",
			input: "a[*].b | [0]",
			want: tree(
				`Pipe`,
				`  Projection`,
				`    Field "a"`,
				`    Field "b"`,
				`  IndexExpression`,
				`    Identity`,
				`    Index 0`,
			),
		},
		{
			name:  "function",
			input: "sort_by(@, &a.b)",
			want: tree(
				`Function "sort_by"`,
				`  Current`,
				`  ExpressionReference`,
				`    SubExpression`,
				`      Field "a"`,
				`      Field "b"`,
			),
		},
		{
			name:  "no_arguments",
			input: "now()",
			want:  tree(`Function "now"`),
		},
		{
			name:  "multiselect",
			input: `a.{x: b, "y z": [c, d]}`,
			want: tree(
				`SubExpression`,
				`  Field "a"`,
				`  MultiSelectHash`,
				`    KeyValuePair "x"`,
				`      Field "b"`,
				`    KeyValuePair "y z"`,
				`      MultiSelectList`,
				`        Field "c"`,
				`        Field "d"`,
			),
		},
		{
			name:  "scope_and_regex",
			input: "[$x, /a+/i]",
			want: tree(
				`MultiSelectList`,
				`  Scope "x"`,
				`  RegexLiteral /a+/i`,
			),
		},
		{
			name:  "parenthesized",
			input: "(a || b).c",
			want: tree(
				`SubExpression`,
				`  OrExpression`,
				`    Field "a"`,
				`    Field "b"`,
				`  Field "c"`,
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}

			if got := node.String(); got != tt.want {
				t.Errorf("Parse(%q) =\n%s\nwant:\n%s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"empty", "", types.ErrUnexpectedToken},
		{"trailing_tokens", "foo bar", types.ErrUnexpectedToken},
		{"dangling_dot", "foo.", types.ErrUnexpectedToken},
		{"unclosed_index", "foo[0", types.ErrUnexpectedToken},
		{"unclosed_call", "length(a", types.ErrUnexpectedToken},
		{"trailing_argument_comma", "length(a,)", types.ErrUnexpectedToken},
		{"quoted_function_name", `"length"(a)`, types.ErrUnexpectedToken},
		{"call_on_expression", "@(c)", types.ErrUnexpectedToken},
		{"too_many_slice_parts", "a[1:2:3:4]", types.ErrUnexpectedToken},
		{"repeated_slice_number", "a[1 2]", types.ErrUnexpectedToken},
		{"trailing_list_comma", "[a, b,]", types.ErrUnexpectedToken},
		{"hash_key_not_identifier", "{`1`: a}", types.ErrUnexpectedToken},
		{"hash_missing_colon", "{a b}", types.ErrUnexpectedToken},
		{"invalid_regex", "/(/", types.ErrInvalidRegexp},
		{"invalid_regex_flag", "/a/q", types.ErrInvalidRegexp},
		{"lex_error", "a ~ b", types.ErrUnknownCharacter},
		{"unclosed_paren", "(a", types.ErrUnexpectedToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := Parse(tt.input)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Parse(%q) = %v, %v; want error %v", tt.input, node, err, tt.want)
			}
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := Parse("foo bar")

	var e *types.Error
	if !errors.As(err, &e) {
		t.Fatalf("Parse() error = %v, want *types.Error", err)
	}

	if !strings.Contains(e.Error(), "position=4") {
		t.Errorf("Error() = %q, want position=4", e.Error())
	}
}

func TestParseZeroStepSlice(t *testing.T) {
	// A zero step is rejected when the slice is evaluated, not parsed.
	if _, err := Parse("a[::0]"); err != nil {
		t.Errorf("Parse() error = %v", err)
	}
}
