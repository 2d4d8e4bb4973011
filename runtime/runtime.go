// Package runtime evaluates a checked program by walking its tree.
//
// Top-level assignments live in the global frame. Every function call pushes
// a fresh frame that holds only the call's parameters and the assignments
// made by its body, and pops it when the call returns. A body cannot see the
// frame of its caller or the globals.
package runtime

import (
	"sort"

	"github.com/pontaoski/tally/ast"
	"github.com/pontaoski/tally/errors"
)

type Options struct {
	// MaxCallDepth bounds nested calls. Zero means DefaultMaxCallDepth.
	MaxCallDepth int
}

const DefaultMaxCallDepth = 10000

type Interpreter struct {
	opts      Options
	names     []map[string]Value
	functions map[string]ast.Function
}

func NewInterpreter(opts Options) *Interpreter {
	if opts.MaxCallDepth <= 0 {
		opts.MaxCallDepth = DefaultMaxCallDepth
	}
	return &Interpreter{
		opts:      opts,
		names:     []map[string]Value{{}},
		functions: map[string]ast.Function{},
	}
}

// Evaluate runs a program in a fresh interpreter.
func Evaluate(p *ast.Program) (Value, error) {
	return NewInterpreter(Options{}).Eval(p)
}

func (in *Interpreter) pushScope() {
	in.names = append(in.names, make(map[string]Value))
}

func (in *Interpreter) popScope() {
	in.names = in.names[:len(in.names)-1]
}

func (in *Interpreter) top() map[string]Value {
	return in.names[len(in.names)-1]
}

func (in *Interpreter) lookup(name string) (Value, error) {
	val, ok := in.top()[name]
	if !ok {
		return nil, errors.UnboundIdentifier{Name: name}
	}
	return val, nil
}

// Lookup returns a global binding.
func (in *Interpreter) Lookup(name string) (Value, bool) {
	val, ok := in.names[0][name]
	return val, ok
}

// Globals lists the global binding names in sorted order.
func (in *Interpreter) Globals() []string {
	var ret []string
	for name := range in.names[0] {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}

// Functions lists the declared function names in sorted order.
func (in *Interpreter) Functions() []string {
	var ret []string
	for name := range in.functions {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}

// Snapshot holds copies of the globals and the function table.
type Snapshot struct {
	globals   map[string]Value
	functions map[string]ast.Function
}

func (in *Interpreter) Save() Snapshot {
	s := Snapshot{
		globals:   map[string]Value{},
		functions: map[string]ast.Function{},
	}
	for k, v := range in.names[0] {
		s.globals[k] = v
	}
	for k, v := range in.functions {
		s.functions[k] = v
	}
	return s
}

// Restore drops every call frame and reinstates the saved globals and
// functions.
func (in *Interpreter) Restore(s Snapshot) {
	in.names = []map[string]Value{s.globals}
	in.functions = s.functions
}

// Eval runs the top-level entities of p in order, keeping bindings and
// functions for later calls. The result is the value of the last expression
// block, Int(0) when there is none.
//
// If evaluation fails, the globals and functions are left as they were
// before the call.
func (in *Interpreter) Eval(p *ast.Program) (Value, error) {
	var ret Value = Int(0)
	saved := in.Save()

	for _, tl := range p.Body {
		switch t := tl.(type) {
		case ast.Function:
			in.functions[t.Name] = t
		case ast.Statement:
			val, isExpr, err := in.evalBlock(t.Block)
			if err != nil {
				in.Restore(saved)
				return nil, err
			}
			if isExpr {
				ret = val
			}
		default:
			panic("unhandled")
		}
	}

	return ret, nil
}

func (in *Interpreter) evalBlock(b ast.Block) (Value, bool, error) {
	switch bl := b.(type) {
	case ast.Assignment:
		val, err := in.evalExpression(bl.Value)
		if err != nil {
			return nil, false, err
		}
		in.top()[bl.To] = val
		return val, false, nil
	case ast.Expr:
		val, err := in.evalExpression(bl.Expression)
		return val, true, err
	}

	panic("unhandled")
}

func (in *Interpreter) evalExpression(e ast.Expression) (Value, error) {
	switch expr := e.(type) {
	case ast.Prim:
		return in.evalPrimitive(expr.Primitive)
	case ast.Binary:
		left, err := in.evalPrimitive(expr.Left)
		if err != nil {
			return nil, err
		}
		right, err := in.evalExpression(expr.Right)
		if err != nil {
			return nil, err
		}
		return arith(expr.Operator, left, right)
	case ast.Call:
		return in.evalCall(expr)
	}

	panic("unhandled")
}

func (in *Interpreter) evalPrimitive(p ast.Primitive) (Value, error) {
	switch prim := p.(type) {
	case ast.Number:
		return literal(prim.NumberType), nil
	case ast.Identifier:
		return in.lookup(prim.Name)
	}

	panic("unhandled")
}

func (in *Interpreter) evalCall(call ast.Call) (Value, error) {
	fn, ok := in.functions[call.Function]
	if !ok {
		return nil, errors.UnboundIdentifier{Name: call.Function, Function: true}
	}
	if len(call.Arguments) != len(fn.Parameters) {
		return nil, errors.ArityMismatch{
			Function: call.Function,
			Expected: len(fn.Parameters),
			Actual:   len(call.Arguments),
		}
	}

	args := make([]Value, 0, len(call.Arguments))
	for _, arg := range call.Arguments {
		val, err := in.evalExpression(arg)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}

	if len(in.names) > in.opts.MaxCallDepth {
		return nil, errors.CallDepthExceeded{Function: call.Function, Limit: in.opts.MaxCallDepth}
	}

	in.pushScope()
	defer in.popScope()

	for i, param := range fn.Parameters {
		in.top()[param] = args[i]
	}

	var ret Value = Int(0)
	for _, b := range fn.Body {
		val, isExpr, err := in.evalBlock(b)
		if err != nil {
			return nil, err
		}
		if isExpr {
			ret = val
		}
	}
	return ret, nil
}
