package codegen

import (
	"github.com/llir/llvm/ir/types"
	tally "github.com/pontaoski/tally/types"
)

var (
	Integer = types.I64
	Float   = types.Double
)

func llvmType(l tally.Label) types.Type {
	switch l {
	case tally.Integer:
		return Integer
	case tally.Float:
		return Float
	}

	panic("unhandled")
}

func labelOf(t types.Type) tally.Label {
	if types.IsFloat(t) {
		return tally.Float
	}
	return tally.Integer
}
