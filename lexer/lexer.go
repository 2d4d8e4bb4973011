package lexer

import (
	"bufio"
	"io"
	"regexp"
	"strings"
	"unicode"

	"github.com/pontaoski/tally/errors"
	"github.com/pontaoski/tally/types"
)

var (
	numberPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]*)?$`)
	identPattern  = regexp.MustCompile(`^[a-zA-Z]+$`)
)

type Lexer struct {
	pos    types.Position
	reader *bufio.Reader
}

func NewLexer(reader io.Reader, filename string) *Lexer {
	return &Lexer{
		pos:    types.Position{Line: 1, Column: 0, Filename: filename},
		reader: bufio.NewReader(reader),
	}
}

func (l *Lexer) newline() {
	l.pos.Line++
	l.pos.Column = 0
}

func (l *Lexer) backup() {
	if err := l.reader.UnreadRune(); err != nil {
		panic(err)
	}

	l.pos.Column--
}

func (l *Lexer) kinded(t types.TokenKind) types.Token {
	return types.Token{
		Location: types.SingleCharSpan(l.pos),
		Kind:     t,
	}
}

// lexFragment reads a maximal run of non-space runes.
func (l *Lexer) lexFragment() (types.Position, types.Position, string) {
	var lit strings.Builder
	var from types.Position
	var to types.Position

	r, _, err := l.reader.ReadRune()
	l.pos.Column++
	from = l.pos
	to = l.pos

	for {
		if err != nil {
			if err == io.EOF {
				return from, to, lit.String()
			}
			panic(err)
		}

		if unicode.IsSpace(r) {
			l.backup()
			return from, to, lit.String()
		}
		lit.WriteRune(r)
		to = l.pos

		r, _, err = l.reader.ReadRune()
		l.pos.Column++
	}
}

// Classify maps a single lexical fragment to its token kind.
func Classify(fragment string) (types.TokenKind, bool) {
	switch fragment {
	case "+", "-", "*", "/":
		return types.OPERATOR, true
	case "=":
		return types.ASSIGN, true
	case "(":
		return types.LPAREN, true
	case ")":
		return types.RPAREN, true
	case ":":
		return types.COLON, true
	}

	switch {
	case numberPattern.MatchString(fragment):
		return types.NUMBER, true
	case identPattern.MatchString(fragment):
		switch fragment {
		case types.Var, types.Function, types.End:
			return types.KEYWORD, true
		}
		return types.IDENT, true
	}

	return types.ILLEGAL, false
}

// Lex returns the next token, or an EOF token once the input is exhausted.
// It panics with errors.UnknownFragment on a fragment it cannot classify.
func (l *Lexer) Lex() types.Token {
	for {
		r, _, err := l.reader.ReadRune()
		if err != nil {
			if err == io.EOF {
				return l.kinded(types.EOF)
			}
			panic(err)
		}

		l.pos.Column++

		switch {
		case r == '\n':
			l.newline()
			continue
		case unicode.IsSpace(r):
			continue
		}

		l.backup()
		from, to, lit := l.lexFragment()

		kind, ok := Classify(lit)
		if !ok {
			panic(errors.UnknownFragment{
				Text:     lit,
				Location: types.Span{From: from, To: to},
			})
		}

		return types.Token{Kind: kind, Text: lit, Location: types.Span{From: from, To: to}}
	}
}

// Tokenize reads the whole input and returns its tokens, without the
// trailing EOF token.
func Tokenize(reader io.Reader, filename string) (ret []types.Token, err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(errors.UnknownFragment)
			if ok {
				ret, err = nil, rerr
			} else {
				panic(r)
			}
		}
	}()

	l := NewLexer(reader, filename)
	for t := l.Lex(); t.Kind != types.EOF; t = l.Lex() {
		ret = append(ret, t)
	}
	return
}

func TokenizeString(src, filename string) ([]types.Token, error) {
	return Tokenize(strings.NewReader(src), filename)
}
