package function

import (
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/iancoleman/strcase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ardnew/jpx/lang/runtime"
	"github.com/ardnew/jpx/lang/types"
)

var stringTable = runtime.Table{
	"contains":    entry(contains, accepts(tString, tArray), accepts(tAny)),
	"starts_with": entry(stringPred(strings.HasPrefix), accepts(tString), accepts(tString)),
	"ends_with":   entry(stringPred(strings.HasSuffix), accepts(tString), accepts(tString)),
	"lower":       entry(caser(func() cases.Caser { return cases.Lower(language.Und) }), accepts(tString)),
	"upper":       entry(caser(func() cases.Caser { return cases.Upper(language.Und) }), accepts(tString)),
	"upper_first": entry(upperFirst, accepts(tString)),
	"camel_case":  entry(stringMap(strcase.ToLowerCamel), accepts(tString)),
	"kebab_case":  entry(stringMap(strcase.ToKebab), accepts(tString)),
	"snake_case":  entry(stringMap(strcase.ToSnake), accepts(tString)),
	"sname_case":  entry(stringMap(strcase.ToSnake), accepts(tString)),
	"trim":        entry(trim, accepts(tString), optional(tString)),
	"pad":         entry(pad("pad", true, true), accepts(tString), accepts(tNumber), optional(tString)),
	"pad_start":   entry(pad("pad_start", true, false), accepts(tString), accepts(tNumber), optional(tString)),
	"pad_end":     entry(pad("pad_end", false, true), accepts(tString), accepts(tNumber), optional(tString)),
	"repeat":      entry(repeat, accepts(tString), accepts(tNumber)),
	"replace":     entry(replace, accepts(tString), accepts(tString, tRegexp), accepts(tString)),
	"split":       entry(split, accepts(tString), accepts(tString, tRegexp)),
	"substr":      entry(substr, accepts(tString), accepts(tNumber), optional(tNumber)),
	"truncate":    entry(truncate, accepts(tString), optional(tObject)),
	"escape":      entry(stringMap(htmlEscaper.Replace), accepts(tString)),
	"unescape":    entry(stringMap(htmlUnescaper.Replace), accepts(tString)),
	"words":       entry(words, accepts(tString), optional(tString, tRegexp)),
	"join":        entry(join, accepts(tString), accepts(tArrayString)),
}

var (
	htmlEscaper = strings.NewReplacer(
		"&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&#39;",
	)
	htmlUnescaper = strings.NewReplacer(
		"&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&#39;", "'",
	)
)

func stringMap(f func(string) string) runtime.Func {
	return func(_ *runtime.Runtime, args []any) (any, error) {
		return f(stringArg(args, 0)), nil
	}
}

func stringPred(f func(s, sub string) bool) runtime.Func {
	return func(_ *runtime.Runtime, args []any) (any, error) {
		return f(stringArg(args, 0), stringArg(args, 1)), nil
	}
}

// caser wraps a case mapping. Casers are stateful, so each call gets its
// own.
func caser(newCaser func() cases.Caser) runtime.Func {
	return func(_ *runtime.Runtime, args []any) (any, error) {
		c := newCaser()

		return c.String(stringArg(args, 0)), nil
	}
}

func contains(_ *runtime.Runtime, args []any) (any, error) {
	switch subject := args[0].(type) {
	case string:
		needle, ok := args[1].(string)

		return ok && strings.Contains(subject, needle), nil
	case []any:
		for _, v := range subject {
			if types.DeepEqual(v, args[1]) {
				return true, nil
			}
		}
	}

	return false, nil
}

func upperFirst(_ *runtime.Runtime, args []any) (any, error) {
	s := stringArg(args, 0)
	if s == "" {
		return s, nil
	}

	_, size := utf8.DecodeRuneInString(s)

	return cases.Upper(language.Und).String(s[:size]) + s[size:], nil
}

func trim(_ *runtime.Runtime, args []any) (any, error) {
	s := stringArg(args, 0)
	if len(args) > 1 {
		return strings.Trim(s, stringArg(args, 1)), nil
	}

	return strings.TrimSpace(s), nil
}

// pad extends a string to the given length with repetitions of the fill
// characters (a space by default). Padding both sides puts the smaller half
// on the left.
func pad(name string, left, right bool) runtime.Func {
	return func(_ *runtime.Runtime, args []any) (any, error) {
		s := stringArg(args, 0)
		width := integer(args[1])
		if err := checkLength(name, width); err != nil {
			return nil, err
		}

		fill := " "
		if len(args) > 2 {
			fill = stringArg(args, 2)
		}

		n := width - len([]rune(s))
		if n <= 0 || fill == "" {
			return s, nil
		}

		switch {
		case left && right:
			return padding(n/2, fill) + s + padding(n-n/2, fill), nil
		case left:
			return padding(n, fill) + s, nil
		default:
			return s + padding(n, fill), nil
		}
	}
}

func padding(n int, fill string) string {
	f := []rune(fill)
	out := make([]rune, n)

	for i := range out {
		out[i] = f[i%len(f)]
	}

	return string(out)
}

func repeat(_ *runtime.Runtime, args []any) (any, error) {
	s, n := stringArg(args, 0), integer(args[1])
	if n <= 0 || s == "" {
		return "", nil
	}

	if n > maxResultLength/len(s) {
		return nil, types.ErrResultTooLarge.With(
			slog.String("function", "repeat()"),
			slog.Int("count", n),
			slog.Int("max", maxResultLength))
	}

	return strings.Repeat(s, n), nil
}

// replace substitutes the first match of a string or regexp pattern, or
// every match of a global regexp. Regexp replacements may reference groups
// with $1 or ${name}.
func replace(_ *runtime.Runtime, args []any) (any, error) {
	s, with := stringArg(args, 0), stringArg(args, 2)

	switch pattern := args[1].(type) {
	case string:
		return strings.Replace(s, pattern, with, 1), nil
	case *types.Regexp:
		if pattern.Global {
			return pattern.ReplaceAllString(s, with), nil
		}

		m := pattern.FindStringSubmatchIndex(s)
		if m == nil {
			return s, nil
		}

		expanded := pattern.ExpandString(nil, with, s, m)

		return s[:m[0]] + string(expanded) + s[m[1]:], nil
	}

	return s, nil
}

func split(_ *runtime.Runtime, args []any) (any, error) {
	s := stringArg(args, 0)

	var parts []string

	switch sep := args[1].(type) {
	case string:
		parts = strings.Split(s, sep)
	case *types.Regexp:
		parts = sep.Split(s, -1)
	}

	return stringsToValues(parts), nil
}

// substr returns up to length characters starting at start; a negative
// start counts back from the end.
func substr(_ *runtime.Runtime, args []any) (any, error) {
	r := []rune(stringArg(args, 0))

	start := integer(args[1])
	if start < 0 {
		start = max(len(r)+start, 0)
	}

	start = min(start, len(r))

	end := len(r)
	if len(args) > 2 {
		n := integer(args[2])
		if n <= 0 {
			return "", nil
		}

		end = start + min(n, len(r)-start)
	}

	return string(r[start:end]), nil
}

// truncate shortens a string to at most options.length characters
// (default 30), ending with options.omission (default "..."). When
// options.separator is given the cut moves back to its last occurrence.
func truncate(_ *runtime.Runtime, args []any) (any, error) {
	s := stringArg(args, 0)

	length, omission := 30, "..."

	var separator any

	if len(args) > 1 {
		opts := objectArg(args, 1)
		if v, ok := types.ToInt(opts["length"]); ok {
			length = v
		}

		if v, ok := opts["omission"].(string); ok {
			omission = v
		}

		separator = opts["separator"]
	}

	r := []rune(s)
	if len(r) <= length {
		return s, nil
	}

	end := length - len([]rune(omission))
	if end < 1 {
		return omission, nil
	}

	result := string(r[:end])

	switch sep := separator.(type) {
	case string:
		if sep != "" && !strings.HasPrefix(string(r[end:]), sep) {
			if i := strings.LastIndex(result, sep); i > -1 {
				result = result[:i]
			}
		}
	case *types.Regexp:
		if m := sep.FindAllStringIndex(result, -1); len(m) > 0 {
			result = result[:m[len(m)-1][0]]
		}
	}

	return result + omission, nil
}

// words splits a string into its words, or into the matches of the given
// pattern.
func words(_ *runtime.Runtime, args []any) (any, error) {
	s := stringArg(args, 0)

	if len(args) > 1 {
		switch pattern := args[1].(type) {
		case string:
			re, err := types.CompileRegexp(pattern, "")
			if err != nil {
				return nil, err
			}

			return stringsToValues(re.FindAllString(s, -1)), nil
		case *types.Regexp:
			return stringsToValues(pattern.FindAllString(s, -1)), nil
		}
	}

	return stringsToValues(splitWords(s)), nil
}

// splitWords breaks s at non-alphanumeric runes, lower-to-upper case
// transitions, the last capital of an acronym followed by a lowercase
// letter, and letter-digit boundaries.
func splitWords(s string) []string {
	var (
		out  []string
		word []rune
	)

	flush := func() {
		if len(word) > 0 {
			out = append(out, string(word))
			word = word[:0]
		}
	}

	r := []rune(s)
	for i, c := range r {
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			flush()

			continue
		}

		if len(word) > 0 {
			prev := word[len(word)-1]

			switch {
			case unicode.IsDigit(prev) != unicode.IsDigit(c):
				flush()
			case unicode.IsLower(prev) && unicode.IsUpper(c):
				flush()
			case unicode.IsUpper(prev) && unicode.IsUpper(c) &&
				i+1 < len(r) && unicode.IsLower(r[i+1]):
				flush()
			}
		}

		word = append(word, c)
	}

	flush()

	return out
}

func join(_ *runtime.Runtime, args []any) (any, error) {
	arr := arrayArg(args, 1)

	parts := make([]string, len(arr))
	for i, v := range arr {
		parts[i], _ = v.(string)
	}

	return strings.Join(parts, stringArg(args, 0)), nil
}

func stringsToValues(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}

	return out
}
