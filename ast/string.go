package ast

import (
	"math"
	"strconv"
	"strings"

	"github.com/pontaoski/tally/types"
)

func tok(kind types.TokenKind, text string) types.Token {
	return types.Token{Kind: kind, Text: text}
}

// Literal renders a number the way the lexer reads it back: floats always
// carry a decimal point.
func Literal(n NumberType) string {
	switch v := n.(type) {
	case Integer:
		return strconv.FormatInt(int64(v), 10)
	case Float:
		s := strconv.FormatFloat(float64(v), 'f', -1, 64)
		// +Inf, -Inf and NaN have no literal form to complete.
		if !math.IsInf(float64(v), 0) && !math.IsNaN(float64(v)) && !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}

	panic("unhandled")
}

func primitiveTokens(p Primitive) []types.Token {
	switch v := p.(type) {
	case Number:
		return []types.Token{tok(types.NUMBER, Literal(v.NumberType))}
	case Identifier:
		return []types.Token{tok(types.IDENT, v.Name)}
	}

	panic("unhandled")
}

func expressionTokens(e Expression) (ret []types.Token) {
	switch v := e.(type) {
	case Prim:
		return primitiveTokens(v.Primitive)
	case Binary:
		ret = append(ret, primitiveTokens(v.Left)...)
		ret = append(ret, tok(types.OPERATOR, v.Operator))
		return append(ret, expressionTokens(v.Right)...)
	case Call:
		ret = append(ret, tok(types.IDENT, v.Function), tok(types.LPAREN, "("))
		for _, arg := range v.Arguments {
			ret = append(ret, expressionTokens(arg)...)
		}
		return append(ret, tok(types.RPAREN, ")"))
	}

	panic("unhandled")
}

func blockTokens(b Block) []types.Token {
	switch v := b.(type) {
	case Assignment:
		ret := []types.Token{tok(types.KEYWORD, types.Var), tok(types.IDENT, v.To), tok(types.ASSIGN, "=")}
		return append(ret, expressionTokens(v.Value)...)
	case Expr:
		return expressionTokens(v.Expression)
	}

	panic("unhandled")
}

func functionHeader(f Function) []types.Token {
	ret := []types.Token{tok(types.KEYWORD, types.Function), tok(types.IDENT, f.Name), tok(types.LPAREN, "(")}
	for _, p := range f.Parameters {
		ret = append(ret, tok(types.IDENT, p))
	}
	return append(ret, tok(types.RPAREN, ")"), tok(types.COLON, ":"))
}

// Tokens serialises a program back to its canonical token sequence.
// Parsing the result yields a program equal to p.
func Tokens(p *Program) (ret []types.Token) {
	for _, tl := range p.Body {
		switch v := tl.(type) {
		case Function:
			ret = append(ret, functionHeader(v)...)
			for _, b := range v.Body {
				ret = append(ret, blockTokens(b)...)
			}
			ret = append(ret, tok(types.KEYWORD, types.End))
		case Statement:
			ret = append(ret, blockTokens(v.Block)...)
		default:
			panic("unhandled")
		}
	}
	return
}

func join(tokens []types.Token) string {
	var parts []string
	for _, t := range tokens {
		parts = append(parts, t.Text)
	}
	return strings.Join(parts, " ")
}

// Format renders a program as canonical source: one block per line,
// function bodies indented.
func Format(p *Program) string {
	var sb strings.Builder
	for _, tl := range p.Body {
		switch v := tl.(type) {
		case Function:
			sb.WriteString(join(functionHeader(v)))
			sb.WriteString("\n")
			for _, b := range v.Body {
				sb.WriteString("\t")
				sb.WriteString(join(blockTokens(b)))
				sb.WriteString("\n")
			}
			sb.WriteString(types.End)
			sb.WriteString("\n")
		case Statement:
			sb.WriteString(join(blockTokens(v.Block)))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (f Function) String() string {
	return join(functionHeader(f)) + " ... " + types.End
}

func (c Call) String() string {
	return join(expressionTokens(c))
}

func (b Binary) String() string {
	return join(expressionTokens(b))
}
