package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/jpx/lang"
)

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
	signatureSeparatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// functionCall locates the cursor within a call's argument list.
type functionCall struct {
	name     string
	argIndex int
	inCall   bool
}

// detectFunctionCall finds the innermost call whose argument list contains
// the cursor, and which argument the cursor is in.
func detectFunctionCall(input string, cursor int) functionCall {
	if cursor > len(input) {
		cursor = len(input)
	}

	parenDepth := 0
	openParenPos := -1

scan:
	for i := cursor; i > 0; {
		ch, size := utf8.DecodeLastRuneInString(input[:i])
		i -= size

		switch ch {
		case ')':
			parenDepth++
		case '(':
			if parenDepth == 0 {
				openParenPos = i

				break scan
			}

			parenDepth--
		}
	}

	if openParenPos == -1 {
		return functionCall{inCall: false}
	}

	nameStart := openParenPos

	for nameStart > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:nameStart])
		if !isIdentRune(r) {
			break
		}

		nameStart -= size
	}

	funcName := input[nameStart:openParenPos]
	if funcName == "" {
		return functionCall{inCall: false}
	}

	// Only commas outside nested brackets and literals separate arguments.
	argIndex := 0
	depth := 0

	var quote rune

	for _, ch := range input[openParenPos+1 : cursor] {
		if quote != 0 {
			if ch == quote {
				quote = 0
			}

			continue
		}

		switch ch {
		case '\'', '"', '`':
			quote = ch
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				argIndex++
			}
		}
	}

	return functionCall{
		name:     funcName,
		argIndex: argIndex,
		inCall:   true,
	}
}

// activeParam returns the index of the parameter receiving argument
// argIndex, or -1 when the call already has more arguments than sig takes.
// Every argument from the variadic position onward maps to the variadic
// parameter.
func activeParam(sig lang.Signature, argIndex int) int {
	if n := len(sig); n > 0 && argIndex >= n-1 && sig[n-1].Variadic {
		return n - 1
	}

	if argIndex < 0 || argIndex >= len(sig) {
		return -1
	}

	return argIndex
}

// renderSignatureHint renders fn's call signature with the parameter at
// argIndex highlighted. Defined functions are marked so they can be told
// apart from built-ins of the same shape.
func renderSignatureHint(fn lang.Function, argIndex int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(fn.Name))
	b.WriteString(signatureStyle.Render("("))

	active := activeParam(fn.Signature, argIndex)

	for i, p := range fn.Signature {
		if i > 0 {
			b.WriteString(signatureSeparatorStyle.Render(", "))
		}

		style := signatureStyle
		if i == active {
			style = currentParamStyle
		}

		b.WriteString(style.Render(p.String()))
	}

	b.WriteString(signatureStyle.Render(")"))

	if fn.Defined {
		b.WriteString(signatureStyle.Render("  defined"))
	}

	return b.String()
}
