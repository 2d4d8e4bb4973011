package runtime

import (
	"strconv"

	"github.com/pontaoski/tally/ast"
	"github.com/pontaoski/tally/errors"
	"github.com/pontaoski/tally/types"
)

// Value is a number produced by evaluation.
type Value interface {
	Label() types.Label
	Float64() float64
	String() string
}

type Int int64

func (v Int) Label() types.Label { return types.Integer }
func (v Int) Float64() float64   { return float64(v) }
func (v Int) String() string     { return strconv.FormatInt(int64(v), 10) }

type Float float64

func (v Float) Label() types.Label { return types.Float }
func (v Float) Float64() float64   { return float64(v) }
func (v Float) String() string     { return ast.Literal(ast.Float(v)) }

func literal(n ast.NumberType) Value {
	switch v := n.(type) {
	case ast.Integer:
		return Int(v)
	case ast.Float:
		return Float(v)
	}

	panic("unhandled")
}

// arith applies a binary operator. Integers use int64 arithmetic with
// truncating division; anything involving a float is computed in float64.
func arith(op string, left, right Value) (Value, error) {
	l, lok := left.(Int)
	r, rok := right.(Int)
	if lok && rok {
		switch op {
		case "+":
			return l + r, nil
		case "-":
			return l - r, nil
		case "*":
			return l * r, nil
		case "/":
			if r == 0 {
				return nil, errors.DivisionByZero{}
			}
			return l / r, nil
		}
		return nil, errors.InvalidOperator{Operator: op}
	}

	lf, rf := left.Float64(), right.Float64()
	switch op {
	case "+":
		return Float(lf + rf), nil
	case "-":
		return Float(lf - rf), nil
	case "*":
		return Float(lf * rf), nil
	case "/":
		return Float(lf / rf), nil
	}
	return nil, errors.InvalidOperator{Operator: op}
}
