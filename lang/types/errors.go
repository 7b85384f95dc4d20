package types

import (
	"log/slog"
	"strings"
)

// Kind classifies an [Error] by the stage that raised it.
type Kind int

const (
	KindLex      Kind = iota + 1 // LexError
	KindParse                    // ParseError
	KindArgument                 // ArgumentError
	KindType                     // TypeError
	KindRuntime                  // RuntimeError
)

func (k Kind) String() string {
	switch k {
	case KindLex:
		return "LexError"
	case KindParse:
		return "ParseError"
	case KindArgument:
		return "ArgumentError"
	case KindType:
		return "TypeError"
	case KindRuntime:
		return "RuntimeError"
	default:
		return "Error"
	}
}

// Sentinel errors. Callers refine them with [Error.With] and [Error.Wrap];
// [errors.Is] still matches the sentinel afterwards.
var (
	ErrUnknownCharacter = NewError(KindLex, "unknown character")
	ErrUnterminated     = NewError(KindLex, "unterminated token")
	ErrInvalidNumber    = NewError(KindLex, "invalid number")
	ErrInvalidLiteral   = NewError(KindLex, "invalid literal")
	ErrInvalidScope     = NewError(KindLex, "invalid scope variable")

	ErrUnexpectedToken = NewError(KindParse, "unexpected token")
	ErrInvalidRegexp   = NewError(KindParse, "invalid regular expression")

	ErrArgumentCount = NewError(KindArgument, "wrong number of arguments")
	ErrArgumentType  = NewError(KindType, "invalid argument type")
	ErrKeyType       = NewError(KindType, "invalid key type")

	ErrZeroStep        = NewError(KindRuntime, "slice step cannot be 0")
	ErrUnknownFunction = NewError(KindRuntime, "unknown function")
	ErrRedefined       = NewError(KindRuntime, "function cannot be redefined")
	ErrUnknownNode     = NewError(KindRuntime, "unknown node kind")
	ErrMaxDepth        = NewError(KindRuntime, "maximum nesting depth exceeded")
	ErrInvalidValue    = NewError(KindRuntime, "invalid value")
	ErrResultTooLarge  = NewError(KindRuntime, "result too large")
)

// Error is a classified error carrying structured attributes.
type Error struct {
	base  *Error
	msg   string
	err   error
	attrs []slog.Attr
	kind  Kind
}

// NewError returns a new sentinel error of the given kind.
func NewError(kind Kind, msg string) *Error {
	e := &Error{kind: kind, msg: msg}
	e.base = e

	return e
}

// Kind returns the error classification.
func (e *Error) Kind() Kind { return e.kind }

// Attrs returns a copy of the structured attributes attached to e.
func (e *Error) Attrs() []slog.Attr {
	return append([]slog.Attr(nil), e.attrs...)
}

// Error renders "Kind: msg (key=value ...): cause".
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(e.kind.String())
	b.WriteString(": ")
	b.WriteString(e.msg)

	if len(e.attrs) > 0 {
		b.WriteString(" (")

		for i, a := range e.attrs {
			if i > 0 {
				b.WriteByte(' ')
			}

			b.WriteString(a.Key)
			b.WriteByte('=')

			if a.Value.Kind() == slog.KindString {
				b.WriteString(quote(a.Value.String()))
			} else {
				b.WriteString(a.Value.String())
			}
		}

		b.WriteByte(')')
	}

	if e.err != nil {
		b.WriteString(": ")
		b.WriteString(e.err.Error())
	}

	return b.String()
}

func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.base == e.base
}

func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)
	attrs = append(attrs,
		slog.String("kind", e.kind.String()),
		slog.String("error", e.msg),
	)

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap returns a copy of e with err as its cause.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.err = err

	return &c
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := *e
	c.attrs = make([]slog.Attr, 0, len(e.attrs)+len(attrs))
	c.attrs = append(append(c.attrs, e.attrs...), attrs...)

	return &c
}

// At attaches a source position.
func (e *Error) At(pos int) *Error {
	return e.With(slog.Int("position", pos))
}

func quote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n\"=()") {
		return s
	}

	var b strings.Builder

	b.WriteByte('"')

	for _, r := range s {
		switch r {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}

	b.WriteByte('"')

	return b.String()
}
