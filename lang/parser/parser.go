package parser

import (
	"fmt"
	"log/slog"

	"github.com/ardnew/jpx/lang/types"
)

// Parser builds an AST from a token stream using top-down operator
// precedence. A Parser is single use.
type Parser struct {
	tokens []Token
	index  int
}

// Parse compiles source into an AST.
func Parse(source string) (*types.Node, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}

	return New(tokens, len(source)).Parse()
}

// New returns a parser over tokens. The end position locates the implicit
// EOF token in error messages.
func New(tokens []Token, end int) *Parser {
	all := make([]Token, len(tokens), len(tokens)+1)
	copy(all, tokens)

	return &Parser{tokens: append(all, Token{Kind: TokenEOF, Position: end})}
}

// Parse parses one complete expression. Trailing tokens are an error.
func (p *Parser) Parse() (*types.Node, error) {
	node, err := p.expression(0)
	if err != nil {
		return nil, err
	}

	if p.lookahead(0) != TokenEOF {
		return nil, p.unexpected(p.token(0))
	}

	return node, nil
}

func (p *Parser) token(offset int) Token {
	i := p.index + offset
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}

	return p.tokens[i]
}

func (p *Parser) lookahead(offset int) TokenKind { return p.token(offset).Kind }

func (p *Parser) advance() Token {
	tok := p.token(0)
	if p.index < len(p.tokens)-1 {
		p.index++
	}

	return tok
}

func (p *Parser) match(kind TokenKind) error {
	if p.lookahead(0) != kind {
		return p.unexpected(p.token(0), slog.String("expected", kind.String()))
	}

	p.advance()

	return nil
}

func (p *Parser) unexpected(tok Token, attrs ...slog.Attr) error {
	attrs = append([]slog.Attr{slog.String("token", tok.Kind.String())}, attrs...)
	if tok.Kind != TokenEOF {
		attrs = append(attrs, slog.String("value", fmt.Sprint(tok.Value)))
	}

	return types.ErrUnexpectedToken.With(attrs...).At(tok.Position)
}

func (p *Parser) expression(rbp int) (*types.Node, error) {
	left, err := p.nud(p.advance())
	if err != nil {
		return nil, err
	}

	for rbp < p.lookahead(0).BindingPower() {
		left, err = p.led(p.advance(), left)
		if err != nil {
			return nil, err
		}
	}

	return left, nil
}

func identity() *types.Node { return types.NewNode(types.NodeIdentity, nil) }

func (p *Parser) nud(tok Token) (*types.Node, error) {
	switch tok.Kind {
	case TokenLiteral:
		return types.NewNode(types.NodeLiteral, tok.Value), nil

	case TokenRegex:
		src, _ := tok.Value.(RegexSource)

		re, err := types.CompileRegexp(src.Pattern, src.Flags)
		if err != nil {
			if e, ok := err.(*types.Error); ok {
				return nil, e.At(tok.Position)
			}

			return nil, err
		}

		return types.NewNode(types.NodeRegexLiteral, re), nil

	case TokenUnquotedIdentifier:
		return types.NewNode(types.NodeField, tok.Value), nil

	case TokenQuotedIdentifier:
		if p.lookahead(0) == TokenLParen {
			return nil, p.unexpected(p.token(0),
				slog.String("reason", "quoted identifier cannot name a function"))
		}

		return types.NewNode(types.NodeField, tok.Value), nil

	case TokenScope:
		return types.NewNode(types.NodeScope, tok.Value), nil

	case TokenNot:
		expr, err := p.expression(TokenNot.BindingPower())
		if err != nil {
			return nil, err
		}

		return types.NewNode(types.NodeNotExpression, nil, expr), nil

	case TokenStar:
		right := identity()
		if p.lookahead(0) != TokenRBracket {
			var err error

			right, err = p.projectionRHS(TokenStar.BindingPower())
			if err != nil {
				return nil, err
			}
		}

		return types.NewNode(types.NodeValueProjection, nil, identity(), right), nil

	case TokenFilter:
		return p.led(tok, identity())

	case TokenLBrace:
		return p.multiSelectHash()

	case TokenFlatten:
		right, err := p.projectionRHS(TokenFlatten.BindingPower())
		if err != nil {
			return nil, err
		}

		return types.NewNode(types.NodeProjection, nil,
			types.NewNode(types.NodeFlatten, nil, identity()), right), nil

	case TokenLBracket:
		switch {
		case p.lookahead(0) == TokenNumber || p.lookahead(0) == TokenColon:
			right, err := p.indexExpression()
			if err != nil {
				return nil, err
			}

			return p.projectIfSlice(identity(), right)

		case p.lookahead(0) == TokenStar && p.lookahead(1) == TokenRBracket:
			p.advance()
			p.advance()

			right, err := p.projectionRHS(TokenStar.BindingPower())
			if err != nil {
				return nil, err
			}

			return types.NewNode(types.NodeProjection, nil, identity(), right), nil
		}

		return p.multiSelectList()

	case TokenCurrent:
		return types.NewNode(types.NodeCurrent, nil), nil

	case TokenExpref:
		expr, err := p.expression(TokenExpref.BindingPower())
		if err != nil {
			return nil, err
		}

		return types.NewNode(types.NodeExpressionReference, nil, expr), nil

	case TokenLParen:
		expr, err := p.expression(0)
		if err != nil {
			return nil, err
		}

		if err := p.match(TokenRParen); err != nil {
			return nil, err
		}

		return expr, nil
	}

	return nil, p.unexpected(tok)
}

var comparator = map[TokenKind]string{
	TokenEQ:  types.CmpEQ,
	TokenNE:  types.CmpNE,
	TokenLT:  types.CmpLT,
	TokenLTE: types.CmpLTE,
	TokenGT:  types.CmpGT,
	TokenGTE: types.CmpGTE,
}

func (p *Parser) led(tok Token, left *types.Node) (*types.Node, error) {
	switch tok.Kind {
	case TokenDot:
		rbp := TokenDot.BindingPower()
		if p.lookahead(0) != TokenStar {
			right, err := p.dotRHS(rbp)
			if err != nil {
				return nil, err
			}

			return types.NewNode(types.NodeSubExpression, nil, left, right), nil
		}

		p.advance()

		right, err := p.projectionRHS(rbp)
		if err != nil {
			return nil, err
		}

		return types.NewNode(types.NodeValueProjection, nil, left, right), nil

	case TokenPipe, TokenOr, TokenAnd:
		right, err := p.expression(tok.Kind.BindingPower())
		if err != nil {
			return nil, err
		}

		kind := map[TokenKind]types.NodeKind{
			TokenPipe: types.NodePipe,
			TokenOr:   types.NodeOrExpression,
			TokenAnd:  types.NodeAndExpression,
		}[tok.Kind]

		return types.NewNode(kind, nil, left, right), nil

	case TokenLParen:
		if left.Kind != types.NodeField {
			return nil, p.unexpected(tok,
				slog.String("reason", "function name must be an identifier"))
		}

		args, err := p.arguments()
		if err != nil {
			return nil, err
		}

		return types.NewNode(types.NodeFunction, left.Value, args...), nil

	case TokenFilter:
		condition, err := p.expression(0)
		if err != nil {
			return nil, err
		}

		if err := p.match(TokenRBracket); err != nil {
			return nil, err
		}

		right := identity()
		if p.lookahead(0) != TokenFlatten {
			right, err = p.projectionRHS(TokenFilter.BindingPower())
			if err != nil {
				return nil, err
			}
		}

		return types.NewNode(types.NodeFilterProjection, nil, left, right, condition), nil

	case TokenFlatten:
		right, err := p.projectionRHS(TokenFlatten.BindingPower())
		if err != nil {
			return nil, err
		}

		return types.NewNode(types.NodeProjection, nil,
			types.NewNode(types.NodeFlatten, nil, left), right), nil

	case TokenEQ, TokenNE, TokenLT, TokenLTE, TokenGT, TokenGTE:
		right, err := p.expression(tok.Kind.BindingPower())
		if err != nil {
			return nil, err
		}

		return types.NewNode(types.NodeComparator, comparator[tok.Kind], left, right), nil

	case TokenLBracket:
		if p.lookahead(0) == TokenNumber || p.lookahead(0) == TokenColon {
			right, err := p.indexExpression()
			if err != nil {
				return nil, err
			}

			return p.projectIfSlice(left, right)
		}

		if err := p.match(TokenStar); err != nil {
			return nil, err
		}

		if err := p.match(TokenRBracket); err != nil {
			return nil, err
		}

		right, err := p.projectionRHS(TokenStar.BindingPower())
		if err != nil {
			return nil, err
		}

		return types.NewNode(types.NodeProjection, nil, left, right), nil
	}

	return nil, p.unexpected(tok)
}

// arguments parses a comma-separated argument list after "(" through ")".
func (p *Parser) arguments() ([]*types.Node, error) {
	var args []*types.Node

	for p.lookahead(0) != TokenRParen {
		var arg *types.Node

		if p.lookahead(0) == TokenCurrent &&
			(p.lookahead(1) == TokenComma || p.lookahead(1) == TokenRParen) {
			p.advance()

			arg = types.NewNode(types.NodeCurrent, nil)
		} else {
			var err error

			arg, err = p.expression(0)
			if err != nil {
				return nil, err
			}
		}

		args = append(args, arg)

		switch p.lookahead(0) {
		case TokenComma:
			p.advance()

			if p.lookahead(0) == TokenRParen {
				return nil, p.unexpected(p.token(0),
					slog.String("reason", "trailing comma in argument list"))
			}
		case TokenRParen:
		default:
			return nil, p.unexpected(p.token(0), slog.String("expected", TokenRParen.String()))
		}
	}

	return args, p.match(TokenRParen)
}

func (p *Parser) indexExpression() (*types.Node, error) {
	if p.lookahead(0) == TokenColon || p.lookahead(1) == TokenColon {
		return p.sliceExpression()
	}

	tok := p.advance()

	index, ok := tok.Value.(int)
	if tok.Kind != TokenNumber || !ok {
		return nil, p.unexpected(tok, slog.String("expected", TokenNumber.String()))
	}

	if err := p.match(TokenRBracket); err != nil {
		return nil, err
	}

	return types.NewNode(types.NodeIndex, index), nil
}

// sliceExpression parses [start:stop:step] after the opening bracket.
func (p *Parser) sliceExpression() (*types.Node, error) {
	var (
		parts [3]*int
		index int
	)

	for p.lookahead(0) != TokenRBracket {
		tok := p.token(0)

		switch tok.Kind {
		case TokenColon:
			if index == len(parts)-1 {
				return nil, p.unexpected(tok, slog.String("reason", "too many slice parts"))
			}

			index++
		case TokenNumber:
			n, ok := tok.Value.(int)
			if !ok || parts[index] != nil {
				return nil, p.unexpected(tok, slog.String("reason", "malformed slice"))
			}

			parts[index] = &n
		default:
			return nil, p.unexpected(tok, slog.String("reason", "malformed slice"))
		}

		p.advance()
	}

	if err := p.match(TokenRBracket); err != nil {
		return nil, err
	}

	return types.NewNode(types.NodeSlice, parts), nil
}

func (p *Parser) projectIfSlice(left, right *types.Node) (*types.Node, error) {
	index := types.NewNode(types.NodeIndexExpression, nil, left, right)
	if right.Kind != types.NodeSlice {
		return index, nil
	}

	rhs, err := p.projectionRHS(TokenStar.BindingPower())
	if err != nil {
		return nil, err
	}

	return types.NewNode(types.NodeProjection, nil, index, rhs), nil
}

func (p *Parser) projectionRHS(rbp int) (*types.Node, error) {
	switch next := p.lookahead(0); {
	case next.BindingPower() < projectionStop:
		return identity(), nil

	case next == TokenLBracket, next == TokenFilter:
		return p.expression(rbp)

	case next == TokenDot:
		p.advance()

		return p.dotRHS(rbp)
	}

	return nil, p.unexpected(p.token(0))
}

func (p *Parser) dotRHS(rbp int) (*types.Node, error) {
	switch p.lookahead(0) {
	case TokenUnquotedIdentifier, TokenQuotedIdentifier, TokenStar:
		return p.expression(rbp)

	case TokenLBracket:
		p.advance()

		return p.multiSelectList()

	case TokenLBrace:
		p.advance()

		return p.multiSelectHash()
	}

	return nil, p.unexpected(p.token(0))
}

// multiSelectList parses "expr, expr ]" after the opening bracket.
func (p *Parser) multiSelectList() (*types.Node, error) {
	var exprs []*types.Node

	for {
		expr, err := p.expression(0)
		if err != nil {
			return nil, err
		}

		exprs = append(exprs, expr)

		switch p.lookahead(0) {
		case TokenComma:
			p.advance()

			if p.lookahead(0) == TokenRBracket {
				return nil, p.unexpected(p.token(0),
					slog.String("reason", "trailing comma in multiselect list"))
			}

			continue

		case TokenRBracket:
			p.advance()

			return types.NewNode(types.NodeMultiSelectList, nil, exprs...), nil
		}

		return nil, p.unexpected(p.token(0), slog.String("expected", TokenRBracket.String()))
	}
}

// multiSelectHash parses "key: expr, ... }" after the opening brace.
func (p *Parser) multiSelectHash() (*types.Node, error) {
	var pairs []*types.Node

	for {
		key := p.advance()
		if key.Kind != TokenUnquotedIdentifier && key.Kind != TokenQuotedIdentifier {
			return nil, p.unexpected(key,
				slog.String("reason", "multiselect hash key must be an identifier"))
		}

		if err := p.match(TokenColon); err != nil {
			return nil, err
		}

		value, err := p.expression(0)
		if err != nil {
			return nil, err
		}

		pairs = append(pairs, types.NewNode(types.NodeKeyValuePair, key.Value, value))

		switch p.lookahead(0) {
		case TokenComma:
			p.advance()

			continue

		case TokenRBrace:
			p.advance()

			return types.NewNode(types.NodeMultiSelectHash, nil, pairs...), nil
		}

		return nil, p.unexpected(p.token(0), slog.String("expected", TokenRBrace.String()))
	}
}
