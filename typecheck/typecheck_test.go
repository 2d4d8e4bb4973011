package typecheck

import (
	goerrors "errors"
	"testing"

	"github.com/alecthomas/repr"
	"github.com/pontaoski/tally/ast"
	"github.com/pontaoski/tally/errors"
	"github.com/pontaoski/tally/lexer"
	"github.com/pontaoski/tally/parser"
	"github.com/pontaoski/tally/types"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	tokens, err := lexer.TokenizeString(src, "test")
	if err != nil {
		t.Fatalf("tokenize error: %v\nsource:\n%s", err, src)
	}
	prog, err := parser.Parse(tokens)
	if err != nil {
		t.Fatalf("parse error: %v\nsource:\n%s", err, src)
	}
	return prog
}

func mustInfer(t *testing.T, src string) *Context {
	t.Helper()
	ctx, err := Infer(mustParse(t, src))
	if err != nil {
		t.Fatalf("infer error: %v\nsource:\n%s", err, src)
	}
	return ctx
}

func TestInferBindings(t *testing.T) {
	ctx := mustInfer(t, "var x = 1\nvar y = 2.5\nvar z = x + 3\nvar w = y * 1.5\nz")

	want := map[string]types.Label{
		"x": types.Integer,
		"y": types.Float,
		"z": types.Integer,
		"w": types.Float,
	}
	for name, label := range want {
		if got, ok := ctx.Lookup(name); !ok || got != label {
			t.Errorf("%s: got %s, want %s", name, got, label)
		}
	}
	if ctx.Result != types.Integer {
		t.Errorf("result label %s", ctx.Result)
	}
}

func TestReassignmentOverwritesLabel(t *testing.T) {
	ctx := mustInfer(t, "var x = 1\nvar x = 2.0\nx")
	if l, _ := ctx.Lookup("x"); l != types.Float {
		t.Fatalf("x is %s", l)
	}
	if ctx.Result != types.Float {
		t.Fatalf("result is %s", ctx.Result)
	}
}

func TestAssignmentOnlyResultIsInteger(t *testing.T) {
	ctx := mustInfer(t, "var x = 1.5")
	if ctx.Result != types.Integer {
		t.Fatalf("result is %s", ctx.Result)
	}
}

func TestTypeMismatch(t *testing.T) {
	cases := []struct {
		src         string
		op          string
		left, right types.Label
	}{
		{"var x = 1\nvar y = 2.5\nx + y", "+", types.Integer, types.Float},
		{"2.5 / 2", "/", types.Float, types.Integer},
		{"1 - 2 - 3.0", "-", types.Integer, types.Float},
	}

	for _, c := range cases {
		_, err := Infer(mustParse(t, c.src))
		var mismatch errors.TypeMismatch
		if !goerrors.As(err, &mismatch) {
			t.Errorf("%q: expected TypeMismatch, got %v", c.src, err)
			continue
		}
		if mismatch.Operator != c.op || mismatch.Left != c.left || mismatch.Right != c.right {
			t.Errorf("%q: got %s", c.src, repr.String(mismatch))
		}
	}
}

func TestUnboundIdentifier(t *testing.T) {
	_, err := Infer(mustParse(t, "var x = y + 1"))
	var unbound errors.UnboundIdentifier
	if !goerrors.As(err, &unbound) || unbound.Name != "y" || unbound.Function {
		t.Fatalf("expected UnboundIdentifier y, got %v", err)
	}

	_, err = Infer(mustParse(t, "f ( 1 )"))
	if !goerrors.As(err, &unbound) || unbound.Name != "f" || !unbound.Function {
		t.Fatalf("expected unbound function f, got %v", err)
	}
}

func TestCallInfersBody(t *testing.T) {
	ctx := mustInfer(t, `
function add ( a b ) :
	var c = a + b
	c
end
var i = add ( 2 3 )
var f = add ( 2.0 0.5 )
var again = add ( i 1 )
`)

	if l, _ := ctx.Lookup("i"); l != types.Integer {
		t.Errorf("i is %s", l)
	}
	if l, _ := ctx.Lookup("f"); l != types.Float {
		t.Errorf("f is %s", l)
	}
	if _, ok := ctx.Lookup("c"); ok {
		t.Errorf("function local leaked into the global bindings")
	}

	if len(ctx.Instances) != 2 {
		t.Fatalf("expected 2 instances, got %s", repr.String(ctx.Instances))
	}
	inst, ok := ctx.Instance("add", 1, []types.Label{types.Float, types.Float})
	if !ok || inst.Result != types.Float {
		t.Fatalf("missing float instance: %s", repr.String(ctx.Instances))
	}
}

func TestCallBodyMismatch(t *testing.T) {
	_, err := Infer(mustParse(t, "function add ( a b ) : a + b end\nadd ( 1 2.0 )"))
	var mismatch errors.TypeMismatch
	if !goerrors.As(err, &mismatch) {
		t.Fatalf("expected TypeMismatch, got %v", err)
	}
}

func TestFunctionCannotSeeGlobals(t *testing.T) {
	_, err := Infer(mustParse(t, "var g = 1\nfunction f ( ) : g end\nf ( )"))
	var unbound errors.UnboundIdentifier
	if !goerrors.As(err, &unbound) || unbound.Name != "g" {
		t.Fatalf("expected UnboundIdentifier g, got %v", err)
	}
}

func TestArityMismatch(t *testing.T) {
	_, err := Infer(mustParse(t, "function add ( a b ) : a + b end\nadd ( 1 )"))
	var arity errors.ArityMismatch
	if !goerrors.As(err, &arity) {
		t.Fatalf("expected ArityMismatch, got %v", err)
	}
	if arity.Function != "add" || arity.Expected != 2 || arity.Actual != 1 {
		t.Fatalf("bad error %s", repr.String(arity))
	}
}

func TestRecursiveCall(t *testing.T) {
	_, err := Infer(mustParse(t, "function loop ( n ) : loop ( n ) end\nloop ( 1 )"))
	var rec errors.RecursiveCall
	if !goerrors.As(err, &rec) || rec.Function != "loop" {
		t.Fatalf("expected RecursiveCall, got %v", err)
	}
}

func TestRedefinitionGetsNewInstances(t *testing.T) {
	ctx := mustInfer(t, "function f ( ) : 1 end\nvar a = f ( )\nfunction f ( ) : 1.0 end\nvar b = f ( )")
	if l, _ := ctx.Lookup("a"); l != types.Integer {
		t.Errorf("a is %s", l)
	}
	if l, _ := ctx.Lookup("b"); l != types.Float {
		t.Errorf("b is %s", l)
	}
	if _, ok := ctx.Instance("f", 2, nil); !ok {
		t.Errorf("missing instance of the second definition")
	}
}

func TestCalleeResolvedPerGeneration(t *testing.T) {
	ctx := mustInfer(t, `
function g ( ) : 1 end
function f ( ) : g ( ) end
var a = f ( )
function g ( ) : 1.0 end
var b = f ( )
`)
	if l, _ := ctx.Lookup("a"); l != types.Integer {
		t.Errorf("a is %s", l)
	}
	if l, _ := ctx.Lookup("b"); l != types.Float {
		t.Errorf("b is %s", l)
	}
}

func TestUncalledFunctionBodies(t *testing.T) {
	unbound := []string{
		"function f ( a ) : b end",
		"function f ( a ) : var c = a + 1\nd end",
		"function f ( ) : g ( x ) end",
	}
	for _, src := range unbound {
		_, err := Infer(mustParse(t, src))
		var e errors.UnboundIdentifier
		if !goerrors.As(err, &e) {
			t.Errorf("%q: expected UnboundIdentifier, got %v", src, err)
		}
	}

	mismatched := []string{
		"function f ( a ) : 1 + 2.0 end",
		"function f ( a ) : var c = 1\nc * 2.5 end",
		"function f ( a ) : var c = a + 1\nc * 2.5 end",
	}
	for _, src := range mismatched {
		_, err := Infer(mustParse(t, src))
		var e errors.TypeMismatch
		if !goerrors.As(err, &e) {
			t.Errorf("%q: expected TypeMismatch, got %v", src, err)
		}
	}

	fine := []string{
		"function f ( a b ) : a + b end",
		"function f ( ) : g ( ) end",
		"function f ( a ) : var c = a\nc * 2.5 end",
		"function f ( a ) : var c = g ( a )\nc + 1 end",
	}
	for _, src := range fine {
		if _, err := Infer(mustParse(t, src)); err != nil {
			t.Errorf("%q: %v", src, err)
		}
	}
}

func TestCheckerIsTransactional(t *testing.T) {
	c := NewChecker()
	if err := c.Check(mustParse(t, "var x = 1")); err != nil {
		t.Fatal(err)
	}
	if err := c.Check(mustParse(t, "var x = 2.0\nvar y = x + 1")); err == nil {
		t.Fatal("expected a type mismatch")
	}
	if l, _ := c.Context().Lookup("x"); l != types.Integer {
		t.Fatalf("failed check leaked x as %s", l)
	}
	if _, ok := c.Context().Lookup("y"); ok {
		t.Fatal("failed check leaked y")
	}
}
