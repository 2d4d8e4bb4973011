package compiler

import (
	goerrors "errors"
	"reflect"
	"testing"

	"github.com/kr/pretty"
	"github.com/pontaoski/tally/ast"
	"github.com/pontaoski/tally/errors"
	"github.com/pontaoski/tally/parser"
	"github.com/pontaoski/tally/runtime"
	"github.com/ztrue/tracerr"
)

func mustRun(t *testing.T, src string) runtime.Value {
	t.Helper()
	v, err := Run(src, "test", runtime.Options{})
	if err != nil {
		t.Fatalf("run error: %v\nsource:\n%s", err, src)
	}
	return v
}

func TestAssociativity(t *testing.T) {
	cases := []struct {
		src  string
		want runtime.Value
	}{
		{"1 + 2 + 3", mustRun(t, "var r = 2 + 3\n1 + r")},
		{"10 - 5 - 2", runtime.Int(7)},
		{"10 - 5 - 2", mustRun(t, "var r = 5 - 2\n10 - r")},
		{"100 / 10 / 5", runtime.Int(50)},
		{"8.0 - 4.0 - 2.0", runtime.Float(6)},
	}

	for _, c := range cases {
		if got := mustRun(t, c.src); got != c.want {
			t.Errorf("%q: got %s, want %s", c.src, got, c.want)
		}
	}
}

func TestTypeMismatchStopsBeforeEvaluation(t *testing.T) {
	s := NewSession(runtime.Options{})
	_, err := s.Eval("var a = 5\nvar x = 1\nvar y = 2.5\nx + y", "test")

	var mismatch errors.TypeMismatch
	if !goerrors.As(err, &mismatch) {
		t.Fatalf("expected TypeMismatch, got %v", err)
	}
	if _, ok := s.Interpreter().Lookup("a"); ok {
		t.Fatal("program was evaluated despite the type error")
	}
}

func TestArithmetic(t *testing.T) {
	cases := []struct {
		src  string
		want runtime.Value
	}{
		{"var z = 10\nvar w = 3\nz / w", runtime.Int(3)},
		{"var z = 10\nvar w = 3\nz * w", runtime.Int(30)},
		{"var z = 10.0\nvar w = 2.5\nz / w", runtime.Float(4)},
		{"var z = 10.0\nvar w = 2.5\nz * w", runtime.Float(25)},
	}

	for _, c := range cases {
		if got := mustRun(t, c.src); got != c.want {
			t.Errorf("%q: got %s, want %s", c.src, got, c.want)
		}
	}
}

func TestResultSelection(t *testing.T) {
	if got := mustRun(t, "var x = 1\nvar y = 2\nx\ny"); got != runtime.Int(2) {
		t.Errorf("got %s", got)
	}
	if got := mustRun(t, "var x = 1\nvar y = 2"); got != runtime.Int(0) {
		t.Errorf("got %s", got)
	}
	if got := mustRun(t, "1\nfunction f ( ) : 2 end"); got != runtime.Int(1) {
		t.Errorf("declaration changed the result: %s", got)
	}
}

func TestFunctions(t *testing.T) {
	add := "function add ( a b ) : var c = a + b\nc\nend\n"
	if got := mustRun(t, add+"add ( 2 3 )"); got != runtime.Int(5) {
		t.Fatalf("got %s", got)
	}

	_, err := Run(add+"add ( 2 )", "test", runtime.Options{})
	var arity errors.ArityMismatch
	if !goerrors.As(err, &arity) || arity.Expected != 2 || arity.Actual != 1 {
		t.Fatalf("expected ArityMismatch, got %v", err)
	}
}

func TestParseErrorsAreTraced(t *testing.T) {
	_, err := Run("var x =", "test", runtime.Options{})
	if _, ok := err.(tracerr.Error); !ok {
		t.Fatalf("expected a traced error, got %T", err)
	}

	var end errors.UnexpectedEndOfInput
	if !goerrors.As(tracerr.Unwrap(err), &end) {
		t.Fatalf("expected UnexpectedEndOfInput, got %v", err)
	}
}

func TestLexErrors(t *testing.T) {
	_, err := Run("var x = 1 ^ 2", "test", runtime.Options{})
	var unknown errors.UnknownFragment
	if !goerrors.As(err, &unknown) || unknown.Text != "^" {
		t.Fatalf("expected UnknownFragment, got %v", err)
	}
}

func TestSession(t *testing.T) {
	s := NewSession(runtime.Options{})
	steps := []struct {
		src  string
		want runtime.Value
	}{
		{"var x = 2", runtime.Int(0)},
		{"function double ( n ) : n * 2 end", runtime.Int(0)},
		{"double ( x )", runtime.Int(4)},
		{"var x = double ( x ) \n x", runtime.Int(4)},
	}
	for _, step := range steps {
		got, err := s.Eval(step.src, "repl")
		if err != nil {
			t.Fatalf("%q: %v", step.src, err)
		}
		if got != step.want {
			t.Fatalf("%q: got %s, want %s", step.src, got, step.want)
		}
	}

	if _, err := s.Eval("x + 1.5", "repl"); err == nil {
		t.Fatal("expected a type mismatch against the session's bindings")
	}

	var zero errors.DivisionByZero
	if _, err := s.Eval("var z = 0\nvar q = 1 / z\nfunction f ( ) : 7 end", "repl"); !goerrors.As(err, &zero) {
		t.Fatalf("expected DivisionByZero, got %v", err)
	}
	if _, ok := s.Context().Lookup("q"); ok {
		t.Fatal("checker kept a binding from input that failed to run")
	}
	if _, ok := s.Context().Lookup("z"); ok {
		t.Fatal("checker kept z from input that failed to run")
	}
	if _, ok := s.Interpreter().Lookup("z"); ok {
		t.Fatal("interpreter kept z from input that failed to run")
	}

	var unbound errors.UnboundIdentifier
	if _, err := s.Eval("q", "repl"); !goerrors.As(err, &unbound) {
		t.Fatalf("q should be unknown to the checker, got %v", err)
	}
	if _, err := s.Eval("f ( )", "repl"); !goerrors.As(err, &unbound) || !unbound.Function {
		t.Fatalf("f should be unknown to the checker, got %v", err)
	}

	if got, err := s.Eval("double ( x )", "repl"); err != nil || got != runtime.Int(8) {
		t.Fatalf("session unusable after a failed run: %v %v", got, err)
	}
}

func TestCanonicalRoundTrip(t *testing.T) {
	src := `
var x = 1
var y = 2 + 3 + 10
var z = x + y

function add ( a b ) :
	var c = a + b
	c
end

var zPlusTen = add ( z 10 )

zPlusTen / 2.5
`
	prog, err := Parse(src, "test")
	if err != nil {
		t.Fatal(err)
	}
	again, err := parser.Parse(ast.Tokens(prog))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(prog, again) {
		t.Fatalf("round trip changed the program:\n%s", pretty.Diff(prog, again))
	}
}
