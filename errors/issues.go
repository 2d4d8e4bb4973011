package errors

import "github.com/lyraproj/issue/issue"

const (
	UnexpectedEnd  = `TALLY_UNEXPECTED_END_OF_INPUT`
	Syntax         = `TALLY_SYNTAX_ERROR`
	Fragment       = `TALLY_UNKNOWN_FRAGMENT`
	DuplicateParam = `TALLY_DUPLICATE_PARAMETER`
	Mismatch       = `TALLY_TYPE_MISMATCH`
	Unbound        = `TALLY_UNBOUND_IDENTIFIER`
	Arity          = `TALLY_ARITY_MISMATCH`
	Operator       = `TALLY_INVALID_OPERATOR`
	Recursive      = `TALLY_RECURSIVE_CALL`
	ZeroDivision   = `TALLY_DIVISION_BY_ZERO`
	CallDepth      = `TALLY_CALL_DEPTH_EXCEEDED`
)

func init() {
	issue.Hard(UnexpectedEnd, `unexpected end of input, expected one of %{expected}`)

	issue.Hard(Syntax, `expected %{expected}, got %{found}`)

	issue.Hard(Fragment, `'%{text}' is not a number, identifier, keyword, operator or punctuation`)

	issue.Hard(DuplicateParam, `parameter '%{name}' of function '%{function}' is specified more than once`)

	issue.Hard(Mismatch, `type mismatch in '%{operator}': %{left} and %{right}`)

	issue.Hard(Unbound, `unbound %{what} '%{name}'`)

	issue.Hard(Arity, `function '%{function}' expects %{expected} arguments, got %{actual}`)

	issue.Hard(Operator, `unexpected operator '%{operator}'`)

	issue.Hard(Recursive, `function '%{function}' calls itself and can never return`)

	issue.Hard(ZeroDivision, `integer division by zero`)

	issue.Hard(CallDepth, `calling '%{function}' exceeds the maximum call depth of %{limit}`)
}
