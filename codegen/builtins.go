package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

type builtin func(m *ir.Module, known map[string]value.Value) (string, value.Value)

// addBuiltins declares the C functions the generated code relies on and
// defines the helpers built from them. Later builtins may use earlier ones.
func addBuiltins(m *ir.Module) (ret map[string]value.Value) {
	ret = make(map[string]value.Value)

	funcs := []builtin{
		addPrintf,
		addExit,
		addDivide,
	}
	for _, fn := range funcs {
		k, v := fn(m, ret)
		ret[k] = v
	}

	return
}

// cstring defines a NUL terminated global and returns a pointer to its
// first byte.
func cstring(m *ir.Module, name, s string) constant.Constant {
	data := constant.NewCharArrayFromString(s + "\x00")
	g := m.NewGlobalDef(name, data)
	g.Immutable = true

	zero := constant.NewInt(types.I64, 0)
	return constant.NewGetElementPtr(data.Typ, g, zero, zero)
}

func addPrintf(m *ir.Module, _ map[string]value.Value) (string, value.Value) {
	fn := m.NewFunc("printf", types.I32, ir.NewParam("format", types.I8Ptr))
	fn.Sig.Variadic = true

	return "printf", fn
}

func addExit(m *ir.Module, _ map[string]value.Value) (string, value.Value) {
	return "exit", m.NewFunc("exit", types.Void, ir.NewParam("status", types.I32))
}

// addDivide defines integer division that stops the program with a message
// instead of dividing by zero. Dividing by -1 negates with wraparound, since
// sdiv of the minimum integer by -1 is undefined.
func addDivide(m *ir.Module, known map[string]value.Value) (string, value.Value) {
	fn := m.NewFunc("tally.sdiv", Integer, ir.NewParam("dividend", Integer), ir.NewParam("divisor", Integer))
	dividend, divisor := fn.Params[0], fn.Params[1]

	entry := fn.NewBlock("entry")
	zero := fn.NewBlock("zero")
	nonzero := fn.NewBlock("nonzero")
	negate := fn.NewBlock("negate")
	ok := fn.NewBlock("ok")

	isZero := entry.NewICmp(enum.IPredEQ, divisor, constant.NewInt(Integer, 0))
	entry.NewCondBr(isZero, zero, nonzero)

	zero.NewCall(known["printf"], cstring(m, ".str.zero", "error: division by zero\n"))
	zero.NewCall(known["exit"], constant.NewInt(types.I32, 1))
	zero.NewUnreachable()

	isMinusOne := nonzero.NewICmp(enum.IPredEQ, divisor, constant.NewInt(Integer, -1))
	nonzero.NewCondBr(isMinusOne, negate, ok)

	negate.NewRet(negate.NewSub(constant.NewInt(Integer, 0), dividend))

	ok.NewRet(ok.NewSDiv(dividend, divisor))

	return "tally.sdiv", fn
}

// addEntry defines the C entry point, which prints the result of
// tally_main.
func addEntry(m *ir.Module, known map[string]value.Value, program *ir.Func) {
	format := "%ld\n"
	if types.IsFloat(program.Sig.RetType) {
		format = "%g\n"
	}

	fn := m.NewFunc("main", types.I32)
	b := fn.NewBlock("entry")

	result := b.NewCall(program)
	b.NewCall(known["printf"], cstring(m, ".str.result", format), result)
	b.NewRet(constant.NewInt(types.I32, 0))
}
