package main

import (
	goerrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/pontaoski/tally/ast"
	"github.com/pontaoski/tally/compiler"
	"github.com/pontaoski/tally/errors"
	"github.com/pontaoski/tally/runtime"
	"github.com/ztrue/tracerr"
)

const (
	historyFile = ".tally_history"
	promptMain  = "tally> "
	promptCont  = "  ...> "
)

func repl(opts runtime.Options) error {
	fmt.Printf("tally %s. Type :help for commands.\n", LanguageVersion)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	s := compiler.NewSession(opts)
	for {
		src, prog, ok, err := readProgram(ln)
		if !ok {
			fmt.Println()
			return nil
		}

		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			if replCommand(s, trimmed) {
				return nil
			}
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		if err != nil {
			report(err)
			continue
		}

		v, err := s.EvalProgram(prog)
		if err != nil {
			report(err)
			continue
		}
		if hasResult(prog) {
			fmt.Println(v)
		}
	}
}

// replCommand handles a line starting with a colon and reports whether the
// session should end.
func replCommand(s *compiler.Session, cmd string) (exit bool) {
	switch cmd {
	case ":quit", ":q":
		return true
	case ":env":
		in := s.Interpreter()
		for _, name := range in.Globals() {
			v, _ := in.Lookup(name)
			fmt.Printf("%s = %s (%s)\n", name, v, v.Label())
		}
		for _, name := range in.Functions() {
			fmt.Printf("function %s\n", name)
		}
	case ":help":
		fmt.Println(":env   list bindings and functions")
		fmt.Println(":quit  leave")
	default:
		fmt.Printf("unknown command %s. Type :help for commands.\n", cmd)
	}
	return false
}

func hasResult(p *ast.Program) bool {
	for i := len(p.Body) - 1; i >= 0; i-- {
		if st, ok := p.Body[i].(ast.Statement); ok {
			if _, ok := st.Block.(ast.Expr); ok {
				return true
			}
		}
	}
	return false
}

// readProgram reads lines until they parse, or fail to parse for a reason
// other than running out of input. ok is false at end of input.
func readProgram(ln *liner.State) (src string, prog *ast.Program, ok bool, err error) {
	var b strings.Builder

	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}

		line, perr := ln.Prompt(prompt)
		if goerrors.Is(perr, io.EOF) {
			return "", nil, false, nil
		}
		if perr != nil {
			return "", nil, true, nil
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src = b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, nil, true, nil
		}

		prog, err = compiler.Parse(src, "repl")
		var end errors.UnexpectedEndOfInput
		if err != nil && goerrors.As(tracerr.Unwrap(err), &end) && strings.TrimSpace(line) != "" {
			continue
		}
		return src, prog, true, err
	}
}
