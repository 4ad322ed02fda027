package main

import (
	"bytes"
	"strings"
	"testing"
)

func newTestSession() (*session, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return newSession(testOptions(modeLL), &out, &errOut), &out, &errOut
}

func TestSessionAccepts(t *testing.T) {
	s, out, errOut := newTestSession()
	s.eval("const int N = 3, M = 4;")
	s.eval("int sq(int x) {\n  return x * x;\n}")
	s.eval("int a[2];")
	if errOut.Len() != 0 {
		t.Fatalf("errors:\n%s", errOut.String())
	}
	if got, want := out.String(), "const N, M\nfunc sq\nvar a\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}

	out.Reset()
	s.eval(":ir sq")
	if !strings.HasPrefix(out.String(), "func sq(x) int:\n") {
		t.Errorf(":ir sq output:\n%s", out.String())
	}

	out.Reset()
	s.eval(":ll")
	for _, want := range []string{"@N = constant i32 3", "define i32 @sq(i32 %arg0)"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf(":ll output does not contain %q:\n%s", want, out.String())
		}
	}
}

func TestSessionRejects(t *testing.T) {
	s, out, errOut := newTestSession()
	s.eval("int f() { return 1; }")
	out.Reset()

	tests := []struct {
		input string
		want  string
	}{
		{"int g() { return y; }", "<repl>:2: error: undefined: y"},
		{"int f() { return 2; }", "f redeclared in this block"},
		{"int h( { }", "syntax error"},
		{"int $;", "lexical error"},
	}
	for _, tt := range tests {
		errOut.Reset()
		s.eval(tt.input)
		if !strings.Contains(errOut.String(), tt.want) {
			t.Errorf("eval(%q) errors = %q, want %q", tt.input, errOut.String(), tt.want)
		}
	}
	if out.Len() != 0 {
		t.Errorf("rejected input produced output:\n%s", out.String())
	}

	// Only the first definition was kept.
	out.Reset()
	s.eval(":src")
	if got, want := out.String(), "int f() { return 1; }\n"; got != want {
		t.Errorf(":src = %q, want %q", got, want)
	}
}

func TestSessionCommands(t *testing.T) {
	s, out, _ := newTestSession()
	s.eval("int x;")

	out.Reset()
	s.eval(":tokens x = 010;")
	if got, want := out.String(), "IDENFR x\nASSIGN =\nINTCON 8\nSEMICN ;\n"; got != want {
		t.Errorf(":tokens = %q, want %q", got, want)
	}

	out.Reset()
	s.eval(":ast")
	if !strings.Contains(out.String(), "IDENFR: x") {
		t.Errorf(":ast output:\n%s", out.String())
	}

	out.Reset()
	s.eval(":reset")
	s.eval(":src")
	if got := out.String(); got != "session cleared\n" {
		t.Errorf("after :reset, output = %q", got)
	}

	out.Reset()
	s.eval(":frobnicate")
	if !strings.Contains(out.String(), "unknown command :frobnicate") {
		t.Errorf("unknown command output = %q", out.String())
	}

	out.Reset()
	s.eval(":help")
	if !strings.Contains(out.String(), ":quit") {
		t.Errorf(":help output = %q", out.String())
	}

	for _, q := range []string{":quit", ":q", "  :QUIT  "} {
		if !s.eval(q) {
			t.Errorf("eval(%q) did not quit", q)
		}
	}
	if s.eval("") {
		t.Error("empty input quit the session")
	}
}

func TestIncomplete(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"int f() {", true},
		{"int f() {\n  while (1) {", true},
		{"int f() {\n  return 0;\n}", false},
		{"int a[2] = {1,", true},
		{"int x;", false},
		{"int f(", true},
		{"}", false},
	}
	for _, tt := range tests {
		if got := incomplete(tt.src); got != tt.want {
			t.Errorf("incomplete(%q) = %v, want %v", tt.src, got, tt.want)
		}
	}
}
