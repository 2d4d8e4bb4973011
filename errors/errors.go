package errors

import (
	"fmt"
	"strings"

	"github.com/lyraproj/issue/issue"
	"github.com/pontaoski/tally/types"
)

// Issuer is implemented by every error the language front end and runtime
// raise, so hosts can render them uniformly.
type Issuer interface {
	error
	Issue() issue.Reported
}

func location(s types.Span) issue.Location {
	return issue.NewLocation(s.From.Filename, s.From.Line, s.From.Column)
}

type UnexpectedEndOfInput struct {
	Expected []types.TokenKind
	Location types.Span
}

func (e UnexpectedEndOfInput) Error() string {
	return fmt.Sprintf("unexpected end of input, expected one of %s. %s", e.Expected, e.Location)
}

func (e UnexpectedEndOfInput) Issue() issue.Reported {
	return issue.NewReported(UnexpectedEnd, issue.SEVERITY_ERROR, issue.H{`expected`: kinds(e.Expected)}, location(e.Location))
}

// SyntaxError is raised when a token does not have the expected kind, or
// when Value is set, the expected literal text.
type SyntaxError struct {
	Expected []types.TokenKind
	Value    string
	Got      types.Token
}

func (e SyntaxError) expectation() string {
	if e.Value != "" {
		return fmt.Sprintf("'%s'", e.Value)
	}
	return "one of " + kinds(e.Expected)
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("got %s, expected %s. %s", e.Got, e.expectation(), e.Got.Location)
}

func (e SyntaxError) Issue() issue.Reported {
	return issue.NewReported(Syntax, issue.SEVERITY_ERROR, issue.H{`expected`: e.expectation(), `found`: e.Got.String()}, location(e.Got.Location))
}

type UnknownFragment struct {
	Text     string
	Location types.Span
}

func (e UnknownFragment) Error() string {
	return fmt.Sprintf("unknown fragment '%s'. %s", e.Text, e.Location)
}

func (e UnknownFragment) Issue() issue.Reported {
	return issue.NewReported(Fragment, issue.SEVERITY_ERROR, issue.H{`text`: e.Text}, location(e.Location))
}

type DuplicateParameter struct {
	Function string
	Name     string
	Location types.Span
}

func (e DuplicateParameter) Error() string {
	return fmt.Sprintf("parameter %s of function %s specified more than once. %s", e.Name, e.Function, e.Location)
}

func (e DuplicateParameter) Issue() issue.Reported {
	return issue.NewReported(DuplicateParam, issue.SEVERITY_ERROR, issue.H{`function`: e.Function, `name`: e.Name}, location(e.Location))
}

type TypeMismatch struct {
	Operator string
	Left     types.Label
	Right    types.Label
}

func (e TypeMismatch) Error() string {
	return fmt.Sprintf("type mismatch in '%s': %s and %s", e.Operator, e.Left, e.Right)
}

func (e TypeMismatch) Issue() issue.Reported {
	return issue.NewReported(Mismatch, issue.SEVERITY_ERROR, issue.H{`operator`: e.Operator, `left`: string(e.Left), `right`: string(e.Right)}, location(types.Span{}))
}

// UnboundIdentifier is raised by both the type checker and the evaluator
// for a name with no binding. Function is set when the name was called.
type UnboundIdentifier struct {
	Name     string
	Function bool
}

func (e UnboundIdentifier) what() string {
	if e.Function {
		return "function"
	}
	return "identifier"
}

func (e UnboundIdentifier) Error() string {
	return fmt.Sprintf("unbound %s '%s'", e.what(), e.Name)
}

func (e UnboundIdentifier) Issue() issue.Reported {
	return issue.NewReported(Unbound, issue.SEVERITY_ERROR, issue.H{`what`: e.what(), `name`: e.Name}, location(types.Span{}))
}

type ArityMismatch struct {
	Function string
	Expected int
	Actual   int
}

func (e ArityMismatch) Error() string {
	return fmt.Sprintf("function %s expects %d arguments, got %d", e.Function, e.Expected, e.Actual)
}

func (e ArityMismatch) Issue() issue.Reported {
	return issue.NewReported(Arity, issue.SEVERITY_ERROR, issue.H{`function`: e.Function, `expected`: e.Expected, `actual`: e.Actual}, location(types.Span{}))
}

type InvalidOperator struct {
	Operator string
}

func (e InvalidOperator) Error() string {
	return fmt.Sprintf("unexpected operator '%s'", e.Operator)
}

func (e InvalidOperator) Issue() issue.Reported {
	return issue.NewReported(Operator, issue.SEVERITY_ERROR, issue.H{`operator`: e.Operator}, location(types.Span{}))
}

// RecursiveCall is raised when inferring a call re-enters a function
// signature that is still being inferred. With no conditionals in the
// language such a call can never return.
type RecursiveCall struct {
	Function string
}

func (e RecursiveCall) Error() string {
	return fmt.Sprintf("function %s calls itself and can never return", e.Function)
}

func (e RecursiveCall) Issue() issue.Reported {
	return issue.NewReported(Recursive, issue.SEVERITY_ERROR, issue.H{`function`: e.Function}, location(types.Span{}))
}

type DivisionByZero struct{}

func (e DivisionByZero) Error() string {
	return "integer division by zero"
}

func (e DivisionByZero) Issue() issue.Reported {
	return issue.NewReported(ZeroDivision, issue.SEVERITY_ERROR, issue.NO_ARGS, location(types.Span{}))
}

type CallDepthExceeded struct {
	Function string
	Limit    int
}

func (e CallDepthExceeded) Error() string {
	return fmt.Sprintf("calling %s exceeds the maximum call depth of %d", e.Function, e.Limit)
}

func (e CallDepthExceeded) Issue() issue.Reported {
	return issue.NewReported(CallDepth, issue.SEVERITY_ERROR, issue.H{`function`: e.Function, `limit`: e.Limit}, location(types.Span{}))
}

func kinds(k []types.TokenKind) string {
	var names []string
	for _, kind := range k {
		names = append(names, kind.String())
	}
	return "[" + strings.Join(names, " ") + "]"
}
