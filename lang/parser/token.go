package parser

import "fmt"

// TokenKind identifies a lexical token.
type TokenKind uint8

const (
	TokenEOF TokenKind = iota

	TokenUnquotedIdentifier // foo
	TokenQuotedIdentifier   // "foo"
	TokenNumber             // 42, -1
	TokenLiteral            // `json`, 'raw'
	TokenRegex              // /pattern/flags
	TokenScope              // $name

	TokenDot      // .
	TokenStar     // *
	TokenComma    // ,
	TokenColon    // :
	TokenLBrace   // {
	TokenRBrace   // }
	TokenLBracket // [
	TokenRBracket // ]
	TokenLParen   // (
	TokenRParen   // )
	TokenCurrent  // @
	TokenExpref   // &
	TokenPipe     // |
	TokenOr       // ||
	TokenAnd      // &&
	TokenNot      // !
	TokenFilter   // [?
	TokenFlatten  // []
	TokenEQ       // ==
	TokenNE       // !=
	TokenLT       // <
	TokenLTE      // <=
	TokenGT       // >
	TokenGTE      // >=
)

var tokenKindName = [...]string{
	TokenEOF:                "EOF",
	TokenUnquotedIdentifier: "UnquotedIdentifier",
	TokenQuotedIdentifier:   "QuotedIdentifier",
	TokenNumber:             "Number",
	TokenLiteral:            "Literal",
	TokenRegex:              "Regex",
	TokenScope:              "Scope",
	TokenDot:                "Dot",
	TokenStar:               "Star",
	TokenComma:              "Comma",
	TokenColon:              "Colon",
	TokenLBrace:             "Lbrace",
	TokenRBrace:             "Rbrace",
	TokenLBracket:           "Lbracket",
	TokenRBracket:           "Rbracket",
	TokenLParen:             "Lparen",
	TokenRParen:             "Rparen",
	TokenCurrent:            "Current",
	TokenExpref:             "Expref",
	TokenPipe:               "Pipe",
	TokenOr:                 "Or",
	TokenAnd:                "And",
	TokenNot:                "Not",
	TokenFilter:             "Filter",
	TokenFlatten:            "Flatten",
	TokenEQ:                 "EQ",
	TokenNE:                 "NE",
	TokenLT:                 "LT",
	TokenLTE:                "LTE",
	TokenGT:                 "GT",
	TokenGTE:                "GTE",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindName) {
		return tokenKindName[k]
	}

	return fmt.Sprintf("TokenKind(%d)", k)
}

// bindingPower is the left binding power of each token kind. Kinds absent
// from the table bind at 0 and terminate an expression.
var bindingPower = [...]int{
	TokenPipe:     1,
	TokenOr:       2,
	TokenAnd:      3,
	TokenEQ:       5,
	TokenNE:       5,
	TokenLT:       5,
	TokenLTE:      5,
	TokenGT:       5,
	TokenGTE:      5,
	TokenFlatten:  9,
	TokenStar:     20,
	TokenFilter:   21,
	TokenDot:      40,
	TokenNot:      45,
	TokenLBrace:   50,
	TokenLBracket: 55,
	TokenLParen:   60,
}

// projectionStop is the binding power below which a projection's right-hand
// side is Identity.
const projectionStop = 10

// BindingPower returns the left binding power of k.
func (k TokenKind) BindingPower() int {
	if int(k) < len(bindingPower) {
		return bindingPower[k]
	}

	return 0
}

// Token is a single lexical token.
type Token struct {
	Value    any
	Position int
	Kind     TokenKind
}

func (t Token) String() string {
	switch t.Kind {
	case TokenEOF:
		return fmt.Sprintf("%d\t%s", t.Position, t.Kind)
	case TokenLiteral, TokenQuotedIdentifier:
		return fmt.Sprintf("%d\t%s\t%#v", t.Position, t.Kind, t.Value)
	default:
		return fmt.Sprintf("%d\t%s\t%v", t.Position, t.Kind, t.Value)
	}
}
