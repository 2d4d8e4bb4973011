package parser

import (
	"strconv"
	"strings"

	"github.com/pontaoski/tally/ast"
	"github.com/pontaoski/tally/errors"
	"github.com/pontaoski/tally/lexer"
	"github.com/pontaoski/tally/types"
	"github.com/ztrue/tracerr"
)

type Parser struct {
	s   *lexer.Stream
	ast ast.Program
}

func NewParser(s *lexer.Stream) Parser {
	a := ast.Program{}
	return Parser{s, a}
}

// Parse parses a complete token sequence into a program.
func Parse(tokens []types.Token) (*ast.Program, error) {
	p := NewParser(lexer.NewStream(tokens))
	if err := p.Parse(); err != nil {
		return nil, err
	}
	return p.Program(), nil
}

func (p *Parser) Program() *ast.Program {
	return &p.ast
}

// Parse consumes the whole stream. The first error aborts parsing; it is
// returned wrapped with a stack trace, tracerr.Unwrap recovers the
// errors.Issuer underneath.
func (p *Parser) Parse() (err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(errors.Issuer)
			if ok {
				err = tracerr.Wrap(rerr)
			} else {
				panic(r)
			}
		}
	}()
	for !p.s.Empty() {
		if p.peekIs(0, types.KEYWORD, types.Function) {
			p.ast.Body = append(p.ast.Body, p.parseFunction())
			continue
		}

		p.ast.Body = append(p.ast.Body, ast.Statement{Block: p.parseBlock()})
	}
	return
}

func (p *Parser) peekIs(i int, kind types.TokenKind, text string) bool {
	return p.s.Peek(i).Is(kind, text)
}

func (p *Parser) next(expected ...types.TokenKind) types.Token {
	tok, ok := p.s.Next()
	if !ok {
		panic(errors.UnexpectedEndOfInput{
			Expected: expected,
			Location: tok.Location,
		})
	}
	return tok
}

func (p *Parser) lexExpecting(k ...types.TokenKind) types.Token {
	token := p.next(k...)
	for _, kind := range k {
		if token.Kind == kind {
			return token
		}
	}

	panic(errors.SyntaxError{
		Expected: k,
		Got:      token,
	})
}

func (p *Parser) lexExpectingValue(k types.TokenKind, text string) types.Token {
	token := p.next(k)
	if !token.Is(k, text) {
		panic(errors.SyntaxError{
			Expected: []types.TokenKind{k},
			Value:    text,
			Got:      token,
		})
	}
	return token
}

// parseFunction expects the stream to be at the function keyword.
func (p *Parser) parseFunction() ast.Function {
	p.lexExpectingValue(types.KEYWORD, types.Function)
	name := p.lexExpecting(types.IDENT).Text

	p.lexExpecting(types.LPAREN)
	var params []string
	seen := map[string]bool{}
	for !p.peekIs(0, types.RPAREN, "") {
		tok := p.lexExpecting(types.IDENT, types.RPAREN)
		if seen[tok.Text] {
			panic(errors.DuplicateParameter{
				Function: name,
				Name:     tok.Text,
				Location: tok.Location,
			})
		}
		seen[tok.Text] = true
		params = append(params, tok.Text)
	}
	p.lexExpecting(types.RPAREN)
	p.lexExpecting(types.COLON)

	var body []ast.Block
	for !p.s.Empty() && !p.peekIs(0, types.KEYWORD, types.End) {
		body = append(body, p.parseBlock())
	}
	p.lexExpectingValue(types.KEYWORD, types.End)

	return ast.Function{
		Name:       name,
		Parameters: params,
		Body:       body,
	}
}

func (p *Parser) parseBlock() ast.Block {
	if p.peekIs(0, types.KEYWORD, types.Var) {
		return p.parseAssignment()
	}

	return ast.Expr{Expression: p.parseExpression()}
}

func (p *Parser) parseAssignment() ast.Assignment {
	p.lexExpectingValue(types.KEYWORD, types.Var)
	to := p.lexExpecting(types.IDENT).Text
	p.lexExpecting(types.ASSIGN)

	return ast.Assignment{
		To:    to,
		Value: p.parseExpression(),
	}
}

// parseExpression decides between the three expression shapes by looking at
// the second token only. The right hand side of a binary expression is a
// full expression, so operator chains group to the right.
func (p *Parser) parseExpression() ast.Expression {
	second := p.s.Peek(1)

	switch {
	case p.s.Len() <= 1 || (second.Kind != types.OPERATOR && second.Kind != types.LPAREN):
		return ast.Prim{Primitive: p.parsePrimitive()}
	case second.Kind == types.LPAREN:
		return p.parseCall()
	}

	left := p.parsePrimitive()
	op := p.lexExpecting(types.OPERATOR)

	return ast.Binary{
		Operator: op.Text,
		Left:     left,
		Right:    p.parseExpression(),
	}
}

// parseCall arguments are separated by whitespace only.
func (p *Parser) parseCall() ast.Call {
	name := p.lexExpecting(types.IDENT).Text
	p.lexExpecting(types.LPAREN)

	args := []ast.Expression{}
	for !p.s.Empty() && !p.peekIs(0, types.RPAREN, "") {
		args = append(args, p.parseExpression())
	}
	p.lexExpecting(types.RPAREN)

	return ast.Call{
		Function:  name,
		Arguments: args,
	}
}

func (p *Parser) parsePrimitive() ast.Primitive {
	tok := p.lexExpecting(types.NUMBER, types.IDENT)

	if tok.Kind == types.IDENT {
		return ast.Identifier{Name: tok.Text}
	}

	if strings.Contains(tok.Text, ".") {
		parsed, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			panic(errors.SyntaxError{Expected: []types.TokenKind{types.NUMBER}, Got: tok})
		}
		return ast.Number{NumberType: ast.Float(parsed)}
	}

	parsed, err := strconv.ParseInt(tok.Text, 10, 64)
	if err != nil {
		panic(errors.SyntaxError{Expected: []types.TokenKind{types.NUMBER}, Got: tok})
	}
	return ast.Number{NumberType: ast.Integer(parsed)}
}
