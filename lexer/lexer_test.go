package lexer

import (
	goerrors "errors"
	"strings"
	"testing"

	"github.com/alecthomas/repr"
	"github.com/pontaoski/tally/errors"
	"github.com/pontaoski/tally/types"
)

func kindsOf(tokens []types.Token) (ret []types.TokenKind) {
	for _, t := range tokens {
		ret = append(ret, t.Kind)
	}
	return
}

func TestLexer(t *testing.T) {
	tokens, err := Tokenize(strings.NewReader("var x = 1\nfunction add ( a b ) :\n  a + b * 2.5 - c / d\nend"), "stdin")
	if err != nil {
		t.Fatal(err)
	}

	want := []types.TokenKind{
		types.KEYWORD, types.IDENT, types.ASSIGN, types.NUMBER,
		types.KEYWORD, types.IDENT, types.LPAREN, types.IDENT, types.IDENT, types.RPAREN, types.COLON,
		types.IDENT, types.OPERATOR, types.IDENT, types.OPERATOR, types.NUMBER, types.OPERATOR, types.IDENT, types.OPERATOR, types.IDENT,
		types.KEYWORD,
	}
	got := kindsOf(tokens)
	if repr.String(got) != repr.String(want) {
		t.Fatalf("got %s, want %s", repr.String(got), repr.String(want))
	}

	if tokens[15].Text != "2.5" {
		t.Errorf("float literal lexed as %q", tokens[15].Text)
	}
}

func TestLexerPositions(t *testing.T) {
	tokens, err := TokenizeString("var x = 1\n  xy", "prog.tally")
	if err != nil {
		t.Fatal(err)
	}

	last := tokens[len(tokens)-1]
	if last.Location.From.Line != 2 || last.Location.From.Column != 3 || last.Location.To.Column != 4 {
		t.Fatalf("bad location %s", last.Location)
	}
	if last.Location.From.Filename != "prog.tally" {
		t.Fatalf("bad filename %q", last.Location.From.Filename)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		fragment string
		kind     types.TokenKind
		ok       bool
	}{
		{"12", types.NUMBER, true},
		{"12.", types.NUMBER, true},
		{"1.25", types.NUMBER, true},
		{"1.2.3", types.ILLEGAL, false},
		{"abc", types.IDENT, true},
		{"end", types.KEYWORD, true},
		{"function", types.KEYWORD, true},
		{"a1", types.ILLEGAL, false},
		{"*", types.OPERATOR, true},
		{"/", types.OPERATOR, true},
		{"=", types.ASSIGN, true},
		{":", types.COLON, true},
		{"%", types.ILLEGAL, false},
	}

	for _, c := range cases {
		kind, ok := Classify(c.fragment)
		if kind != c.kind || ok != c.ok {
			t.Errorf("Classify(%q) = %s, %v; want %s, %v", c.fragment, kind, ok, c.kind, c.ok)
		}
	}
}

func TestUnknownFragment(t *testing.T) {
	_, err := TokenizeString("var x = 1 % 2", "stdin")

	var unknown errors.UnknownFragment
	if !goerrors.As(err, &unknown) {
		t.Fatalf("expected UnknownFragment, got %v", err)
	}
	if unknown.Text != "%" || unknown.Location.From.Column != 11 {
		t.Fatalf("bad error %s", repr.String(unknown))
	}
}

func TestStream(t *testing.T) {
	tokens, err := TokenizeString("a + b", "stdin")
	if err != nil {
		t.Fatal(err)
	}

	s := NewStream(tokens)
	if s.Len() != 3 {
		t.Fatalf("len %d", s.Len())
	}
	if s.Peek(1).Kind != types.OPERATOR {
		t.Fatalf("second token %s", s.Peek(1))
	}
	if s.Len() != 3 {
		t.Fatalf("peek consumed tokens")
	}

	for _, want := range []string{"a", "+", "b"} {
		tok, ok := s.Next()
		if !ok || tok.Text != want {
			t.Fatalf("got %s, want %q", tok, want)
		}
	}

	if tok, ok := s.Next(); ok || tok.Kind != types.EOF {
		t.Fatalf("expected end of stream, got %s", tok)
	}
	if !s.Empty() {
		t.Fatal("stream not empty")
	}
}
