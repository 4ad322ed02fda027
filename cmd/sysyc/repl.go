package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/you-not-fish/sysyc/internal/syntax"
)

const (
	promptMain  = "sysy> "
	promptCont  = "....> "
	historyFile = ".sysyc_history"
	replName    = "<repl>"
)

const replHelp = `Enter top-level declarations and function definitions; they are kept
for the rest of the session once they compile.

  :tokens [code]  print the tokens of code, or of the session
  :ast            print the AST of the session
  :ir [func]      print the IR of the session, or of one function
  :ll             print the LLVM IR of the session
  :src            print the session source
  :reset          forget everything entered so far
  :help           show this text
  :quit           leave
`

// session is the state of an interactive session: the source of every
// accepted input, in order.
type session struct {
	src    string
	opts   *options
	out    io.Writer
	errOut io.Writer
}

func newSession(opts *options, out, errOut io.Writer) *session {
	return &session{opts: opts, out: out, errOut: errOut}
}

// eval handles one complete input and reports whether the session should
// end.
func (s *session) eval(input string) (quit bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return false
	}
	if strings.HasPrefix(trimmed, ":") {
		return s.command(trimmed)
	}

	// The input is accepted only if the whole session still compiles.
	candidate := s.src + input + "\n"
	u := s.compile(candidate, modeIR)
	if !u.ok() {
		s.printDiags(u)
		return false
	}
	s.src = candidate

	toks, _ := syntax.Tokenize([]byte(input))
	units, _ := syntax.Parse(toks)
	for _, cu := range units {
		fmt.Fprintln(s.out, describe(cu))
	}
	return false
}

func (s *session) command(line string) (quit bool) {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case ":quit", ":q":
		return true
	case ":help":
		fmt.Fprint(s.out, replHelp)
	case ":reset":
		s.src = ""
		fmt.Fprintln(s.out, "session cleared")
	case ":src":
		fmt.Fprint(s.out, s.src)
	case ":tokens":
		src := s.src
		if arg != "" {
			src = arg
		}
		s.show(s.compile(src, modeTokens))
	case ":ast":
		s.show(s.compile(s.src, modeAST))
	case ":ir":
		saved := s.opts.dumpFunc
		s.opts.dumpFunc = arg
		s.show(s.compile(s.src, modeIR))
		s.opts.dumpFunc = saved
	case ":ll":
		s.show(s.compile(s.src, modeLL))
	default:
		fmt.Fprintf(s.out, "unknown command %s; type :help for a list\n", cmd)
	}
	return false
}

func (s *session) compile(src string, m mode) *unit {
	opts := *s.opts
	opts.mode = m
	opts.verify = true
	return compile(context.Background(), replName, []byte(src), &opts)
}

func (s *session) show(u *unit) {
	s.printDiags(u)
	_, _ = u.out.WriteTo(s.out)
}

func (s *session) printDiags(u *unit) {
	for _, d := range u.diags {
		fmt.Fprintln(s.errOut, d)
	}
}

// describe returns a one-line summary of a top-level item.
func describe(cu *syntax.CompUnit) string {
	switch item := cu.Item.(type) {
	case *syntax.FuncDef:
		return fmt.Sprintf("func %s", item.Name)
	case *syntax.Decl:
		kind := "var"
		if item.Const {
			kind = "const"
		}
		names := make([]string, len(item.Var.Defs))
		for i, d := range item.Var.Defs {
			names[i] = d.Name
		}
		return fmt.Sprintf("%s %s", kind, strings.Join(names, ", "))
	}
	return fmt.Sprintf("%T", cu.Item)
}

// incomplete reports whether src has unclosed brackets, in which case the
// REPL keeps reading lines.
func incomplete(src string) bool {
	toks, _ := syntax.Tokenize([]byte(src))
	depth := 0
	for _, tok := range toks {
		switch tok.Kind {
		case syntax.Lbrace, syntax.Lparen, syntax.Lbrack:
			depth++
		case syntax.Rbrace, syntax.Rparen, syntax.Rbrack:
			depth--
		}
	}
	return depth > 0
}

// runREPL runs an interactive session on the terminal.
func runREPL(opts *options) (ret int) {
	fmt.Printf("SysY %s. Type :help for help.\n", Version)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetMultiLineMode(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	s := newSession(opts, os.Stdout, os.Stderr)
	for {
		code, ok := readBalanced(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			break
		}
		if strings.TrimSpace(code) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		if s.eval(code) {
			break
		}
	}
	return 0
}

// readBalanced reads lines until the brackets of the input balance.
// It reports false at end of input.
func readBalanced(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			// Ctrl-C drops the pending input.
			return "", true
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") || !incomplete(src) {
			return src, true
		}
	}
}
