// Package codegen lowers a checked program to LLVM IR.
//
// Every inferred instance of a function becomes one LLVM function. The
// top-level statements become @tally_main, which returns the program
// result; unless a library is being built, @main prints it.
package codegen

import (
	"strconv"
	"strings"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/pontaoski/tally/ast"
	"github.com/pontaoski/tally/errors"
	"github.com/pontaoski/tally/typecheck"
	tally "github.com/pontaoski/tally/types"
)

type Settings struct {
	// Library leaves out @main.
	Library  bool
	Package  string
	Language string
	// Source is fingerprinted into the type information.
	Source string
}

type namedThing interface{ isNamedThing() }
type namedThingImpl struct{}

func (n namedThingImpl) isNamedThing() {}

// llvmValue is a name bound directly to an SSA value, as parameters are.
type llvmValue struct {
	namedThingImpl
	value.Value
}

type llvmMutableValue struct {
	namedThingImpl
	slot *ir.InstAlloca
}

type ctx struct {
	names      []map[string]namedThing
	types      *typecheck.Context
	functions  map[*typecheck.Instance]*ir.Func
	builtins   map[string]value.Value
	generation int
}

func (c *ctx) pushScope() {
	c.names = append(c.names, make(map[string]namedThing))
}

func (c *ctx) popScope() {
	c.names = c.names[:len(c.names)-1]
}

func (c *ctx) top() map[string]namedThing {
	return c.names[len(c.names)-1]
}

// lookup only searches the innermost scope: a function body cannot see the
// names of its caller.
func (c *ctx) lookup(name string) namedThing {
	val, ok := c.top()[name]
	if !ok {
		panic(errors.UnboundIdentifier{Name: name})
	}
	return val
}

func (c *ctx) assign(b *ir.Block, name string, v value.Value) {
	if to, ok := c.top()[name].(llvmMutableValue); ok && to.slot.ElemType.Equal(v.Type()) {
		b.NewStore(v, to.slot)
		return
	}

	slot := b.NewAlloca(v.Type())
	b.NewStore(v, slot)
	c.top()[name] = llvmMutableValue{slot: slot}
}

// symbol names the LLVM function of an instance, e.g. add.1.integer.integer.
func symbol(inst *typecheck.Instance) string {
	parts := []string{inst.Function, strconv.Itoa(inst.Generation)}
	for _, l := range inst.Parameters {
		parts = append(parts, string(l))
	}
	return strings.Join(parts, ".")
}

func codegenPrimitive(c *ctx, p ast.Primitive, b *ir.Block) value.Value {
	switch prim := p.(type) {
	case ast.Number:
		switch n := prim.NumberType.(type) {
		case ast.Integer:
			return constant.NewInt(Integer, int64(n))
		case ast.Float:
			return constant.NewFloat(Float, float64(n))
		}
	case ast.Identifier:
		switch v := c.lookup(prim.Name).(type) {
		case llvmValue:
			return v.Value
		case llvmMutableValue:
			return b.NewLoad(v.slot.ElemType, v.slot)
		}
	}

	panic("unhandled")
}

func codegenArith(c *ctx, op string, l, r value.Value, b *ir.Block) value.Value {
	if types.IsFloat(l.Type()) {
		switch op {
		case "+":
			return b.NewFAdd(l, r)
		case "-":
			return b.NewFSub(l, r)
		case "*":
			return b.NewFMul(l, r)
		case "/":
			return b.NewFDiv(l, r)
		}
	} else {
		switch op {
		case "+":
			return b.NewAdd(l, r)
		case "-":
			return b.NewSub(l, r)
		case "*":
			return b.NewMul(l, r)
		case "/":
			return b.NewCall(c.builtins["tally.sdiv"], l, r)
		}
	}

	panic(errors.InvalidOperator{Operator: op})
}

func codegenExpression(c *ctx, e ast.Expression, b *ir.Block) value.Value {
	switch expr := e.(type) {
	case ast.Prim:
		return codegenPrimitive(c, expr.Primitive, b)
	case ast.Binary:
		l := codegenPrimitive(c, expr.Left, b)
		r := codegenExpression(c, expr.Right, b)

		if !l.Type().Equal(r.Type()) {
			panic(errors.TypeMismatch{Operator: expr.Operator, Left: labelOf(l.Type()), Right: labelOf(r.Type())})
		}

		return codegenArith(c, expr.Operator, l, r, b)
	case ast.Call:
		var args []value.Value
		var labels []tally.Label
		for _, arg := range expr.Arguments {
			val := codegenExpression(c, arg, b)
			args = append(args, val)
			labels = append(labels, labelOf(val.Type()))
		}

		inst, ok := c.types.Instance(expr.Function, c.generation, labels)
		if !ok {
			panic(errors.UnboundIdentifier{Name: expr.Function, Function: true})
		}
		return b.NewCall(c.functions[inst], args...)
	}

	panic("unhandled")
}

// codegenBlock returns the value of an expression block; isExpr is false
// for assignments.
func codegenBlock(c *ctx, bl ast.Block, b *ir.Block) (val value.Value, isExpr bool) {
	switch block := bl.(type) {
	case ast.Assignment:
		val = codegenExpression(c, block.Value, b)
		c.assign(b, block.To, val)
		return val, false
	case ast.Expr:
		return codegenExpression(c, block.Expression, b), true
	}

	panic("unhandled")
}

func (c *ctx) declare(m *ir.Module, inst *typecheck.Instance) {
	var params []*ir.Param
	for i, name := range inst.Declaration.Parameters {
		params = append(params, ir.NewParam(name, llvmType(inst.Parameters[i])))
	}

	c.functions[inst] = m.NewFunc(symbol(inst), llvmType(inst.Result), params...)
}

func (c *ctx) define(inst *typecheck.Instance) {
	fn := c.functions[inst]
	// unnamed, since a parameter may be called entry
	b := fn.NewBlock("")

	c.generation = inst.Generation
	c.pushScope()
	defer c.popScope()

	for i, name := range inst.Declaration.Parameters {
		c.top()[name] = llvmValue{Value: fn.Params[i]}
	}

	var ret value.Value = constant.NewInt(Integer, 0)
	for _, bl := range inst.Declaration.Body {
		if val, isExpr := codegenBlock(c, bl, b); isExpr {
			ret = val
		}
	}
	b.NewRet(ret)
}

func (c *ctx) program(m *ir.Module, p *ast.Program) *ir.Func {
	fn := m.NewFunc("tally_main", llvmType(c.types.Result))
	b := fn.NewBlock("entry")

	c.generation = 0
	c.pushScope()
	defer c.popScope()

	var ret value.Value = constant.NewInt(Integer, 0)
	for _, tl := range p.Body {
		switch t := tl.(type) {
		case ast.Function:
			c.generation++
		case ast.Statement:
			if val, isExpr := codegenBlock(c, t.Block, b); isExpr {
				ret = val
			}
		}
	}
	b.NewRet(ret)

	return fn
}

// Generate emits p, which must have been checked as a whole into tc by
// typecheck.Infer.
func Generate(p *ast.Program, tc *typecheck.Context, s Settings) (m *ir.Module, err error) {
	defer func() {
		if v := recover(); v != nil {
			if issue, ok := v.(errors.Issuer); ok {
				m, err = nil, issue
				return
			}
			panic(v)
		}
	}()

	m = ir.NewModule()
	m.SourceFilename = s.Package

	c := &ctx{
		types:     tc,
		functions: map[*typecheck.Instance]*ir.Func{},
		builtins:  addBuiltins(m),
	}

	for _, inst := range tc.Instances {
		c.declare(m, inst)
	}
	for _, inst := range tc.Instances {
		c.define(inst)
	}

	entry := c.program(m, p)
	if !s.Library {
		addEntry(m, c.builtins, entry)
	}

	registerTypeInfoWithModule(c.typeInfo(s), m)

	return m, nil
}
