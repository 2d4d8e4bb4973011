// Package typecheck infers a numeric label for every binding of a program
// and rejects binary expressions whose operands disagree, before anything is
// evaluated.
//
// Functions carry no declared types. A function body is inferred once per
// distinct list of argument labels it is called with; every such
// instantiation is recorded as an Instance, which is what the LLVM back end
// emits.
package typecheck

import (
	"fmt"
	"strings"

	"github.com/pontaoski/tally/ast"
	"github.com/pontaoski/tally/errors"
	"github.com/pontaoski/tally/types"
)

type Instance struct {
	Function string
	// Generation identifies the function table the body was inferred
	// against: it counts the declarations seen so far. Calls in the body
	// resolve against that table.
	Generation  int
	Parameters  []types.Label
	Result      types.Label
	Declaration ast.Function

	pending bool
}

func (i *Instance) String() string {
	var labels []string
	for _, l := range i.Parameters {
		labels = append(labels, string(l))
	}
	return fmt.Sprintf("%s(%s) %s", i.Function, strings.Join(labels, " "), i.Result)
}

type Context struct {
	Bindings  map[string]types.Label
	Result    types.Label
	Instances []*Instance
}

func (c *Context) Lookup(name string) (types.Label, bool) {
	l, ok := c.Bindings[name]
	return l, ok
}

// Instance finds the instantiation of a function, as declared in table
// generation g, for the given argument labels.
func (c *Context) Instance(name string, g int, args []types.Label) (*Instance, bool) {
	for _, inst := range c.Instances {
		if inst.Function == name && inst.Generation == g && sameLabels(inst.Parameters, args) {
			return inst, true
		}
	}
	return nil, false
}

func sameLabels(a, b []types.Label) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

type scope map[string]types.Label

// Checker keeps bindings, functions and instances across calls to Check, so
// a session can check a program piece by piece.
type Checker struct {
	ctx        *Context
	functions  map[string]ast.Function
	generation int
	instances  map[string]*Instance
}

func NewChecker() *Checker {
	return &Checker{
		ctx:       &Context{Bindings: map[string]types.Label{}, Result: types.Integer},
		functions: map[string]ast.Function{},
		instances: map[string]*Instance{},
	}
}

// Generation is the number of function declarations checked so far.
func (c *Checker) Generation() int {
	return c.generation
}

// Infer checks a whole program with a fresh checker.
func Infer(p *ast.Program) (*Context, error) {
	c := NewChecker()
	if err := c.Check(p); err != nil {
		return nil, err
	}
	return c.Context(), nil
}

func (c *Checker) Context() *Context {
	return c.ctx
}

// Snapshot is the state of a Checker at one point, for Restore.
type Snapshot struct {
	bindings   map[string]types.Label
	functions  map[string]ast.Function
	generation int
	instances  map[string]*Instance
	ordered    []*Instance
	result     types.Label
}

func (c *Checker) Save() Snapshot {
	s := Snapshot{
		bindings:   map[string]types.Label{},
		functions:  map[string]ast.Function{},
		generation: c.generation,
		instances:  map[string]*Instance{},
		ordered:    append([]*Instance(nil), c.ctx.Instances...),
		result:     c.ctx.Result,
	}
	for k, v := range c.ctx.Bindings {
		s.bindings[k] = v
	}
	for k, v := range c.functions {
		s.functions[k] = v
	}
	for k, v := range c.instances {
		s.instances[k] = v
	}
	return s
}

// Restore puts the checker back into the state s was saved in. A session
// uses it when a program that checked fails to run.
func (c *Checker) Restore(s Snapshot) {
	c.ctx.Bindings = s.bindings
	c.ctx.Instances = s.ordered
	c.ctx.Result = s.result
	c.functions = s.functions
	c.generation = s.generation
	c.instances = s.instances
}

// Check infers labels for the top-level entities of p in source order. On
// failure the checker is left as it was before the call.
func (c *Checker) Check(p *ast.Program) error {
	saved := c.Save()

	c.ctx.Result = types.Integer
	for _, tl := range p.Body {
		if err := c.checkTopLevel(tl); err != nil {
			c.Restore(saved)
			return err
		}
	}
	return nil
}

func (c *Checker) checkTopLevel(t ast.TopLevel) error {
	switch tl := t.(type) {
	case ast.Function:
		if err := checkDeclaration(tl); err != nil {
			return err
		}
		c.generation++
		c.functions[tl.Name] = tl
		return nil
	case ast.Statement:
		label, isExpr, err := c.checkBlock(c.ctx.Bindings, tl.Block)
		if err != nil {
			return err
		}
		if isExpr {
			c.ctx.Result = label
		}
		return nil
	}

	panic("unhandled")
}

// checkBlock returns the label of an expression block; isExpr is false for
// assignments, whose label is recorded in s instead.
func (c *Checker) checkBlock(s scope, b ast.Block) (label types.Label, isExpr bool, err error) {
	switch bl := b.(type) {
	case ast.Assignment:
		label, err = c.checkExpression(s, bl.Value)
		if err != nil {
			return "", false, err
		}
		s[bl.To] = label
		return label, false, nil
	case ast.Expr:
		label, err = c.checkExpression(s, bl.Expression)
		return label, true, err
	}

	panic("unhandled")
}

func (c *Checker) checkExpression(s scope, e ast.Expression) (types.Label, error) {
	switch expr := e.(type) {
	case ast.Prim:
		return c.checkPrimitive(s, expr.Primitive)
	case ast.Binary:
		left, err := c.checkPrimitive(s, expr.Left)
		if err != nil {
			return "", err
		}
		right, err := c.checkExpression(s, expr.Right)
		if err != nil {
			return "", err
		}
		if left != right {
			return "", errors.TypeMismatch{Operator: expr.Operator, Left: left, Right: right}
		}
		return left, nil
	case ast.Call:
		return c.checkCall(s, expr)
	}

	panic("unhandled")
}

func (c *Checker) checkPrimitive(s scope, p ast.Primitive) (types.Label, error) {
	switch prim := p.(type) {
	case ast.Number:
		return LabelOf(prim.NumberType), nil
	case ast.Identifier:
		label, ok := s[prim.Name]
		if !ok {
			return "", errors.UnboundIdentifier{Name: prim.Name}
		}
		return label, nil
	}

	panic("unhandled")
}

// LabelOf is the label of a number literal.
func LabelOf(n ast.NumberType) types.Label {
	switch n.(type) {
	case ast.Integer:
		return types.Integer
	case ast.Float:
		return types.Float
	}

	panic("unhandled")
}

// unknown is the label of a parameter, or of a call, before any call
// instantiates the body.
const unknown types.Label = ""

// checkDeclaration checks a function body once when it is declared, before
// the labels of its parameters are known. Every name must be a parameter or
// a local assigned earlier, and operands whose labels are already known must
// agree. Called functions may be declared later, so calls are not resolved.
func checkDeclaration(fn ast.Function) error {
	s := scope{}
	for _, param := range fn.Parameters {
		s[param] = unknown
	}

	for _, b := range fn.Body {
		switch bl := b.(type) {
		case ast.Assignment:
			label, err := declaredExpression(s, bl.Value)
			if err != nil {
				return err
			}
			s[bl.To] = label
		case ast.Expr:
			if _, err := declaredExpression(s, bl.Expression); err != nil {
				return err
			}
		default:
			panic("unhandled")
		}
	}
	return nil
}

// declaredExpression labels e as far as it can without parameter labels.
// Both operands of a binary expression must end up with the same label, so
// when one side is known the result is too.
func declaredExpression(s scope, e ast.Expression) (types.Label, error) {
	switch expr := e.(type) {
	case ast.Prim:
		return declaredPrimitive(s, expr.Primitive)
	case ast.Binary:
		left, err := declaredPrimitive(s, expr.Left)
		if err != nil {
			return unknown, err
		}
		right, err := declaredExpression(s, expr.Right)
		if err != nil {
			return unknown, err
		}
		if left != unknown && right != unknown && left != right {
			return unknown, errors.TypeMismatch{Operator: expr.Operator, Left: left, Right: right}
		}
		if left == unknown {
			return right, nil
		}
		return left, nil
	case ast.Call:
		for _, arg := range expr.Arguments {
			if _, err := declaredExpression(s, arg); err != nil {
				return unknown, err
			}
		}
		return unknown, nil
	}

	panic("unhandled")
}

func declaredPrimitive(s scope, p ast.Primitive) (types.Label, error) {
	switch prim := p.(type) {
	case ast.Number:
		return LabelOf(prim.NumberType), nil
	case ast.Identifier:
		label, ok := s[prim.Name]
		if !ok {
			return unknown, errors.UnboundIdentifier{Name: prim.Name}
		}
		return label, nil
	}

	panic("unhandled")
}

func (c *Checker) checkCall(s scope, call ast.Call) (types.Label, error) {
	fn, ok := c.functions[call.Function]
	if !ok {
		return "", errors.UnboundIdentifier{Name: call.Function, Function: true}
	}
	if len(call.Arguments) != len(fn.Parameters) {
		return "", errors.ArityMismatch{
			Function: call.Function,
			Expected: len(fn.Parameters),
			Actual:   len(call.Arguments),
		}
	}

	var args []types.Label
	for _, arg := range call.Arguments {
		label, err := c.checkExpression(s, arg)
		if err != nil {
			return "", err
		}
		args = append(args, label)
	}

	inst, err := c.instantiate(fn, args)
	if err != nil {
		return "", err
	}
	return inst.Result, nil
}

func instanceKey(name string, generation int, args []types.Label) string {
	var labels []string
	for _, l := range args {
		labels = append(labels, string(l))
	}
	return fmt.Sprintf("%s@%d(%s)", name, generation, strings.Join(labels, ","))
}

// instantiate infers the body of fn with its parameters bound to args. The
// body sees its parameters and its own assignments only.
func (c *Checker) instantiate(fn ast.Function, args []types.Label) (*Instance, error) {
	key := instanceKey(fn.Name, c.generation, args)
	if inst, ok := c.instances[key]; ok {
		if inst.pending {
			return nil, errors.RecursiveCall{Function: fn.Name}
		}
		return inst, nil
	}

	inst := &Instance{
		Function:    fn.Name,
		Generation:  c.generation,
		Parameters:  args,
		Result:      types.Integer,
		Declaration: fn,
		pending:     true,
	}
	c.instances[key] = inst

	local := scope{}
	for i, param := range fn.Parameters {
		local[param] = args[i]
	}
	for _, b := range fn.Body {
		label, isExpr, err := c.checkBlock(local, b)
		if err != nil {
			delete(c.instances, key)
			return nil, err
		}
		if isExpr {
			inst.Result = label
		}
	}

	inst.pending = false
	c.ctx.Instances = append(c.ctx.Instances, inst)
	return inst, nil
}
