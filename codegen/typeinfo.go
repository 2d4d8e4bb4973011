package codegen

import (
	"encoding/json"
	"strconv"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	tally "github.com/pontaoski/tally/types"
	"github.com/segmentio/fasthash/fnv1a"
)

// TypeInfoSymbol is the global holding the JSON encoded TypeInfo of a
// built module.
const TypeInfoSymbol = "__tally_types"

type TypeInfo struct {
	Package     string      `json:"package"`
	Language    string      `json:"language"`
	Fingerprint string      `json:"fingerprint"`
	Result      tally.Label `json:"result"`
	// Functions maps symbols to signatures.
	Functions map[string]string `json:"functions"`
}

func Fingerprint(src string) string {
	return strconv.FormatUint(fnv1a.HashString64(src), 16)
}

func (c *ctx) typeInfo(s Settings) TypeInfo {
	t := TypeInfo{
		Package:     s.Package,
		Language:    s.Language,
		Fingerprint: Fingerprint(s.Source),
		Result:      c.types.Result,
		Functions:   map[string]string{},
	}
	for inst, fn := range c.functions {
		t.Functions[fn.Name()] = inst.String()
	}
	return t
}

func registerTypeInfoWithModule(t TypeInfo, m *ir.Module) {
	data, err := json.Marshal(t)
	if err != nil {
		panic(err)
	}

	g := m.NewGlobalDef(TypeInfoSymbol, constant.NewCharArray(append(data, 0)))
	g.Immutable = true
}

func DecodeTypeInfo(data string) (t TypeInfo, err error) {
	err = json.Unmarshal([]byte(data), &t)
	return
}
