package types

import (
	"fmt"
)

type Position struct {
	Line     int
	Column   int
	Filename string
}

type Span struct {
	From Position
	To   Position
}

type TokenKind int

const (
	EOF TokenKind = iota
	ILLEGAL

	NUMBER
	OPERATOR
	IDENT
	KEYWORD
	ASSIGN
	LPAREN
	RPAREN
	COLON
)

func (t TokenKind) String() string {
	data := map[TokenKind]string{
		EOF:      "EOF",
		ILLEGAL:  "ILLEGAL",
		NUMBER:   "NUMBER",
		OPERATOR: "OPERATOR",
		IDENT:    "IDENT",
		KEYWORD:  "KEYWORD",
		ASSIGN:   "ASSIGN",
		LPAREN:   "LPAREN",
		RPAREN:   "RPAREN",
		COLON:    "COLON",
	}
	return data[t]
}

// Keywords of the language. Every other alphabetic fragment is an identifier.
const (
	Var      = "var"
	Function = "function"
	End      = "end"
)

func (p Position) String() string {
	if p.Filename == "" {
		p.Filename = "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%d:%d", s.From, s.To.Line, s.To.Column)
}

func SingleCharSpan(p Position) Span {
	return Span{p, p}
}

type Token struct {
	Kind     TokenKind
	Text     string
	Location Span
}

// Is reports whether the token has the given kind and, when text is not
// empty, the given literal text.
func (t Token) Is(kind TokenKind, text string) bool {
	return t.Kind == kind && (text == "" || t.Text == text)
}

func (t Token) String() string {
	if t.Kind == EOF {
		return "end of input"
	}
	return fmt.Sprintf("%s '%s'", t.Kind, t.Text)
}

// Label is the static numeric kind the type checker assigns to an
// expression or binding.
type Label string

const (
	Integer Label = "integer"
	Float   Label = "float"
)
