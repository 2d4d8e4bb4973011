package compiler

import (
	"io"
	"strings"

	"github.com/pontaoski/tally/ast"
	"github.com/pontaoski/tally/lexer"
	"github.com/pontaoski/tally/parser"
	"github.com/pontaoski/tally/runtime"
	"github.com/pontaoski/tally/typecheck"
)

// ParseReader tokenizes and parses a whole program.
func ParseReader(r io.Reader, filename string) (*ast.Program, error) {
	tokens, err := lexer.Tokenize(r, filename)
	if err != nil {
		return nil, err
	}
	return parser.Parse(tokens)
}

func Parse(src, filename string) (*ast.Program, error) {
	return ParseReader(strings.NewReader(src), filename)
}

func Check(src, filename string) (*ast.Program, *typecheck.Context, error) {
	prog, err := Parse(src, filename)
	if err != nil {
		return nil, nil, err
	}
	ctx, err := typecheck.Infer(prog)
	if err != nil {
		return nil, nil, err
	}
	return prog, ctx, nil
}

// Run parses, checks and evaluates src. Nothing is evaluated unless the
// whole program checks.
func Run(src, filename string, opts runtime.Options) (runtime.Value, error) {
	prog, _, err := Check(src, filename)
	if err != nil {
		return nil, err
	}
	return runtime.NewInterpreter(opts).Eval(prog)
}

// Session keeps checker and interpreter state between pieces of source, as
// a REPL needs.
type Session struct {
	checker     *typecheck.Checker
	interpreter *runtime.Interpreter
}

func NewSession(opts runtime.Options) *Session {
	return &Session{
		checker:     typecheck.NewChecker(),
		interpreter: runtime.NewInterpreter(opts),
	}
}

func (s *Session) Eval(src, filename string) (runtime.Value, error) {
	prog, err := Parse(src, filename)
	if err != nil {
		return nil, err
	}
	return s.EvalProgram(prog)
}

// EvalProgram checks and evaluates an already parsed piece of source. It
// applies fully or not at all: if checking or evaluation fails, neither the
// checker nor the interpreter change.
func (s *Session) EvalProgram(prog *ast.Program) (runtime.Value, error) {
	saved := s.checker.Save()
	if err := s.checker.Check(prog); err != nil {
		return nil, err
	}

	v, err := s.interpreter.Eval(prog)
	if err != nil {
		s.checker.Restore(saved)
		return nil, err
	}
	return v, nil
}

func (s *Session) Context() *typecheck.Context {
	return s.checker.Context()
}

func (s *Session) Interpreter() *runtime.Interpreter {
	return s.interpreter
}
