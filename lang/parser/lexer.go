package parser

import (
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-json"

	"github.com/ardnew/jpx/lang/types"
)

// RegexSource is the value of a [TokenRegex] token.
type RegexSource struct {
	Pattern string
	Flags   string
}

func (r RegexSource) String() string { return "/" + r.Pattern + "/" + r.Flags }

// single maps one-character punctuation to its token kind.
var single = map[byte]TokenKind{
	'.': TokenDot,
	'*': TokenStar,
	',': TokenComma,
	':': TokenColon,
	'{': TokenLBrace,
	'}': TokenRBrace,
	']': TokenRBracket,
	'(': TokenLParen,
	')': TokenRParen,
	'@': TokenCurrent,
}

// Lexer converts an expression into a sequence of tokens in a single
// forward scan. The first error aborts the scan.
type Lexer struct {
	input string
	pos   int
}

// NewLexer returns a lexer over input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Tokenize returns the tokens of source, not including the trailing EOF.
func Tokenize(source string) ([]Token, error) {
	return NewLexer(source).Tokens()
}

// Tokens scans the remaining input.
func (l *Lexer) Tokens() ([]Token, error) {
	var tokens []Token

	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}

		if tok.Kind == TokenEOF {
			return tokens, nil
		}

		tokens = append(tokens, tok)
	}
}

// Next returns the next token, or a [TokenEOF] token once the input is
// exhausted.
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespace()

	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Position: l.pos}, nil
	}

	start := l.pos
	c := l.input[l.pos]

	switch {
	case isAlpha(c):
		return Token{
			Kind:     TokenUnquotedIdentifier,
			Value:    l.identifier(),
			Position: start,
		}, nil

	case isDigit(c) || c == '-':
		return l.number()
	}

	if kind, ok := single[c]; ok {
		l.pos++

		return Token{Kind: kind, Value: string(c), Position: start}, nil
	}

	switch c {
	case '"':
		name, err := l.quotedIdentifier()
		if err != nil {
			return Token{}, err
		}

		return Token{Kind: TokenQuotedIdentifier, Value: name, Position: start}, nil

	case '\'':
		return l.rawString()

	case '`':
		return l.literal()

	case '/':
		return l.regex()

	case '$':
		return l.scope()

	case '[':
		switch l.peek(1) {
		case '?':
			return l.emit(TokenFilter, 2), nil
		case ']':
			return l.emit(TokenFlatten, 2), nil
		default:
			return l.emit(TokenLBracket, 1), nil
		}

	case '&':
		return l.either('&', TokenAnd, TokenExpref), nil

	case '|':
		return l.either('|', TokenOr, TokenPipe), nil

	case '<':
		return l.either('=', TokenLTE, TokenLT), nil

	case '>':
		return l.either('=', TokenGTE, TokenGT), nil

	case '!':
		return l.either('=', TokenNE, TokenNot), nil

	case '=':
		if l.peek(1) == '=' {
			return l.emit(TokenEQ, 2), nil
		}
	}

	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])

	return Token{}, types.ErrUnknownCharacter.
		With(slog.String("char", string(r))).
		At(start)
}

func (l *Lexer) peek(offset int) byte {
	if l.pos+offset < len(l.input) {
		return l.input[l.pos+offset]
	}

	return 0
}

func (l *Lexer) emit(kind TokenKind, width int) Token {
	tok := Token{
		Kind:     kind,
		Value:    l.input[l.pos : l.pos+width],
		Position: l.pos,
	}
	l.pos += width

	return tok
}

// either emits the two-character kind when the next byte is next, else the
// one-character kind.
func (l *Lexer) either(next byte, two, one TokenKind) Token {
	if l.peek(1) == next {
		return l.emit(two, 2)
	}

	return l.emit(one, 1)
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case ' ', '\t', '\n', '\r':
			l.pos++
		default:
			return
		}
	}
}

func (l *Lexer) identifier() string {
	start := l.pos
	for l.pos < len(l.input) && isAlnum(l.input[l.pos]) {
		l.pos++
	}

	return l.input[start:l.pos]
}

func (l *Lexer) number() (Token, error) {
	start := l.pos
	if l.input[l.pos] == '-' {
		l.pos++
	}

	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.pos++
	}

	text := l.input[start:l.pos]

	n, err := strconv.Atoi(text)
	if err != nil {
		return Token{}, types.ErrInvalidNumber.
			With(slog.String("text", text)).
			At(start)
	}

	return Token{Kind: TokenNumber, Value: n, Position: start}, nil
}

// delimited consumes a delim-enclosed run starting at the current position,
// honoring backslash escapes, and returns the raw content between the
// delimiters.
func (l *Lexer) delimited(delim byte) (string, error) {
	start := l.pos
	l.pos++

	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case '\\':
			l.pos += 2

			continue
		case delim:
			content := l.input[start+1 : l.pos]
			l.pos++

			return content, nil
		}

		l.pos++
	}

	l.pos = len(l.input)

	return "", types.ErrUnterminated.
		With(slog.String("delimiter", string(delim))).
		At(start)
}

func (l *Lexer) quotedIdentifier() (string, error) {
	start := l.pos

	content, err := l.delimited('"')
	if err != nil {
		return "", err
	}

	var name string

	err = json.Unmarshal([]byte(`"`+content+`"`), &name)
	if err != nil {
		return "", types.ErrInvalidLiteral.
			With(slog.String("identifier", content)).
			At(start).
			Wrap(err)
	}

	return name, nil
}

func (l *Lexer) rawString() (Token, error) {
	start := l.pos

	content, err := l.delimited('\'')
	if err != nil {
		return Token{}, err
	}

	var b strings.Builder

	for i := 0; i < len(content); i++ {
		if content[i] == '\\' && i+1 < len(content) &&
			(content[i+1] == '\'' || content[i+1] == '\\') {
			i++
		}

		b.WriteByte(content[i])
	}

	return Token{Kind: TokenLiteral, Value: b.String(), Position: start}, nil
}

func (l *Lexer) literal() (Token, error) {
	start := l.pos

	content, err := l.delimited('`')
	if err != nil {
		return Token{}, err
	}

	text := strings.TrimLeft(strings.ReplaceAll(content, "\\`", "`"), " \t\n\r")

	var value any

	if looksLikeJSON(text) {
		err = json.Unmarshal([]byte(text), &value)
	} else {
		err = json.Unmarshal([]byte(`"`+text+`"`), &value)
	}

	if err != nil {
		return Token{}, types.ErrInvalidLiteral.
			With(slog.String("literal", text)).
			At(start).
			Wrap(err)
	}

	return Token{Kind: TokenLiteral, Value: value, Position: start}, nil
}

func looksLikeJSON(s string) bool {
	if s == "" {
		return false
	}

	switch s[0] {
	case '[', '{', '"':
		return true
	}

	switch s {
	case "true", "false", "null":
		return true
	}

	if s[0] == '-' || isDigit(s[0]) {
		var f float64

		return json.Unmarshal([]byte(s), &f) == nil
	}

	return false
}

func (l *Lexer) regex() (Token, error) {
	start := l.pos

	content, err := l.delimited('/')
	if err != nil {
		return Token{}, err
	}

	src := RegexSource{Pattern: strings.ReplaceAll(content, `\/`, "/")}
	if l.pos < len(l.input) && isAlpha(l.input[l.pos]) {
		src.Flags = l.identifier()
	}

	return Token{Kind: TokenRegex, Value: src, Position: start}, nil
}

func (l *Lexer) scope() (Token, error) {
	start := l.pos
	l.pos++

	if l.pos < len(l.input) {
		switch c := l.input[l.pos]; {
		case isAlpha(c):
			return Token{Kind: TokenScope, Value: l.identifier(), Position: start}, nil

		case c == '"':
			name, err := l.quotedIdentifier()
			if err != nil {
				return Token{}, err
			}

			return Token{Kind: TokenScope, Value: name, Position: start}, nil
		}
	}

	return Token{}, types.ErrInvalidScope.At(start)
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlnum(c byte) bool { return isAlpha(c) || isDigit(c) }
