package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os/exec"
	"time"

	"github.com/you-not-fish/sysyc/internal/codegen"
	"github.com/you-not-fish/sysyc/internal/ssa"
	"github.com/you-not-fish/sysyc/internal/syntax"
)

// mode selects the artifact the pipeline stops at.
type mode int

const (
	modeTokens mode = iota
	modeAST
	modeIR
	modeLL
	modeAsm
)

var modeNames = [...]string{
	modeTokens: "tokens",
	modeAST:    "ast",
	modeIR:     "ir",
	modeLL:     "ll",
	modeAsm:    "asm",
}

func (m mode) String() string { return modeNames[m] }

// ext returns the file extension of the artifact.
func (m mode) ext(astFormat string) string {
	switch m {
	case modeTokens:
		return ".tokens"
	case modeAST:
		if astFormat == "json" {
			return ".json"
		}
		return ".ast"
	case modeIR:
		return ".ir"
	case modeAsm:
		return ".s"
	}
	return ".ll"
}

// options configures one compiler run.
type options struct {
	mode      mode
	astFormat string // "text" or "json"
	dumpFunc  string // restrict -emit-ir to one function
	verify    bool
	llc       string
	output    string
	jobs      int
	log       *log.Logger
}

// unit is the outcome of compiling one source file.
type unit struct {
	name  string
	out   bytes.Buffer // the artifact; may be partial when diags is non-empty
	diags []string
}

func (u *unit) ok() bool { return len(u.diags) == 0 }

// report records front-end errors as "name:line: kind: msg".
func (u *unit) report(kind string, errs []*syntax.Error) {
	for _, e := range errs {
		u.diags = append(u.diags, fmt.Sprintf("%s:%d: %s: %s", u.name, e.Line, kind, e.Msg))
	}
}

func (u *unit) fail(err error) {
	u.diags = append(u.diags, fmt.Sprintf("%s: %v", u.name, err))
}

// compile runs the pipeline on src up to the stage opts.mode asks for.
// Lexing and parsing always run to completion so that every diagnostic is
// reported; lowering only starts on an error-free parse.
func compile(ctx context.Context, name string, src []byte, opts *options) *unit {
	u := &unit{name: name}
	logf := func(stage string, start time.Time, format string, args ...interface{}) {
		opts.log.Printf("%s: %-5s %s (%v)", name, stage, fmt.Sprintf(format, args...), time.Since(start))
	}

	start := time.Now()
	toks, lexErrs := syntax.Tokenize(src)
	logf("lex", start, "%d tokens, %d errors", len(toks), len(lexErrs))
	u.report("lexical error", lexErrs)
	if opts.mode == modeTokens {
		for _, tok := range toks {
			fmt.Fprintln(&u.out, tok)
		}
		return u
	}

	start = time.Now()
	units, parseErrs := syntax.Parse(toks)
	logf("parse", start, "%d top-level items, %d errors", len(units), len(parseErrs))
	u.report("syntax error", parseErrs)
	if opts.mode == modeAST {
		if err := printAST(&u.out, units, opts.astFormat); err != nil {
			u.fail(err)
		}
		return u
	}
	if !u.ok() {
		return u
	}
	if err := ctx.Err(); err != nil {
		u.fail(err)
		return u
	}

	start = time.Now()
	m, err := ssa.Build(units)
	if err != nil {
		var lerr *ssa.Error
		if errors.As(err, &lerr) {
			u.diags = append(u.diags, fmt.Sprintf("%s:%d: error: %s", name, lerr.Line, lerr.Msg))
		} else {
			u.fail(err)
		}
		return u
	}
	nvalues := 0
	for _, f := range m.Funcs {
		nvalues += f.NumValues()
	}
	logf("lower", start, "%d globals, %d functions, %d values", len(m.Globals), len(m.Funcs), nvalues)
	if opts.verify {
		if err := ssa.VerifyModule(m); err != nil {
			u.fail(err)
			return u
		}
	}

	start = time.Now()
	switch opts.mode {
	case modeIR:
		err = printIR(&u.out, m, opts.dumpFunc)
	case modeLL:
		err = codegen.Generate(&u.out, m)
	case modeAsm:
		var ll bytes.Buffer
		if err = codegen.Generate(&ll, m); err == nil {
			err = runLLC(ctx, opts.llc, &ll, &u.out)
		}
	}
	if err != nil {
		u.fail(err)
		return u
	}
	logf("emit", start, "%d bytes of %s", u.out.Len(), opts.mode)
	return u
}

func printAST(w io.Writer, units []*syntax.CompUnit, format string) error {
	if format == "json" {
		return syntax.FprintJSON(w, units)
	}
	return syntax.Fprint(w, units)
}

// printIR prints the module, or only the function called name.
func printIR(w io.Writer, m *ssa.Module, name string) error {
	if name == "" {
		ssa.FprintModule(w, m)
		return nil
	}
	f := m.Func(name)
	if f == nil {
		return fmt.Errorf("-dump-func: no function named %s", name)
	}
	ssa.Fprint(w, f)
	return nil
}

// runLLC compiles LLVM IR read from ll to assembly written to out.
func runLLC(ctx context.Context, llc string, ll io.Reader, out io.Writer) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, llc, "-o", "-")
	cmd.Stdin = ll
	cmd.Stdout = out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return fmt.Errorf("%s: %w\n%s", llc, err, bytes.TrimSpace(stderr.Bytes()))
		}
		return fmt.Errorf("%s: %w", llc, err)
	}
	return nil
}
