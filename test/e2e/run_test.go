package e2e

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/you-not-fish/sysyc/internal/codegen"
	"github.com/you-not-fish/sysyc/internal/ssa"
	"github.com/you-not-fish/sysyc/internal/syntax"
)

// TestE2E runs end-to-end tests for all .sy files in testdata/.
// Each test:
//  1. Runs the full pipeline: lex → parse → lower → verify → codegen
//  2. Writes the LLVM IR to a temp .ll file
//  3. Compiles it with clang
//  4. Runs the binary and captures its exit status
//  5. Compares the status against the .golden file
func TestE2E(t *testing.T) {
	testFiles := sourceFiles(t)

	if _, err := exec.LookPath("clang"); err != nil {
		t.Skip("clang not found, skipping E2E tests")
	}
	if major := clangMajor(t); major != 0 && major < 15 {
		t.Skipf("clang %d needs -opaque-pointers for the emitted IR, skipping E2E tests", major)
	}

	for _, testFile := range testFiles {
		name := strings.TrimSuffix(filepath.Base(testFile), ".sy")
		t.Run(name, func(t *testing.T) {
			runE2ETest(t, testFile)
		})
	}
}

var clangVersionRE = regexp.MustCompile(`clang version (\d+)\.`)

// clangMajor returns the major version of clang, or 0 if it is unknown.
func clangMajor(t *testing.T) int {
	t.Helper()
	out, err := exec.Command("clang", "--version").Output()
	if err != nil {
		return 0
	}
	m := clangVersionRE.FindSubmatch(out)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(string(m[1]))
	return n
}

// TestPipeline checks that every test program gets through the in-process
// pipeline. It needs no external tools.
func TestPipeline(t *testing.T) {
	for _, testFile := range sourceFiles(t) {
		name := strings.TrimSuffix(filepath.Base(testFile), ".sy")
		t.Run(name, func(t *testing.T) {
			compileTo(t, testFile, filepath.Join(t.TempDir(), "output.ll"))
		})
	}
}

func sourceFiles(t *testing.T) []string {
	t.Helper()
	testFiles, err := filepath.Glob("testdata/*.sy")
	if err != nil {
		t.Fatal(err)
	}
	if len(testFiles) == 0 {
		t.Fatal("no .sy test files found in testdata/")
	}
	return testFiles
}

// runE2ETest runs a single end-to-end test.
func runE2ETest(t *testing.T, syFile string) {
	t.Helper()

	goldenFile := strings.TrimSuffix(syFile, ".sy") + ".golden"
	expected, err := os.ReadFile(goldenFile)
	if err != nil {
		t.Fatalf("reading golden file: %v", err)
	}

	tmpDir := t.TempDir()
	llFile := filepath.Join(tmpDir, "output.ll")
	binFile := filepath.Join(tmpDir, "output")

	// Step 1: Compile .sy → .ll (in-process).
	compileTo(t, syFile, llFile)

	// Step 2: Build with clang.
	cmd := exec.Command("clang", llFile, "-o", binFile)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("clang failed:\n%s\n%v", out, err)
	}

	// Step 3: Run the binary. main's result is the exit status.
	status := 0
	if err := exec.Command(binFile).Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			t.Fatalf("binary execution failed: %v", err)
		}
		status = exitErr.ExitCode()
	}

	// Step 4: Compare.
	got := strconv.Itoa(status)
	want := strings.TrimSpace(string(expected))
	if got != want {
		t.Errorf("exit status mismatch: got %s, want %s", got, want)
	}
}

// compileTo runs the full compilation pipeline in-process and writes LLVM IR to llFile.
func compileTo(t *testing.T, syFile, llFile string) {
	t.Helper()

	src, err := os.ReadFile(syFile)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	toks, lexErrs := syntax.Tokenize(src)
	units, parseErrs := syntax.Parse(toks)
	var errs []string
	for _, e := range append(lexErrs, parseErrs...) {
		errs = append(errs, e.Error())
	}
	if len(errs) > 0 {
		t.Fatalf("front end errors:\n%s", strings.Join(errs, "\n"))
	}

	m, err := ssa.Build(units)
	if err != nil {
		t.Fatalf("lowering failed: %v", err)
	}
	if err := ssa.VerifyModule(m); err != nil {
		t.Fatalf("%v\n%s", err, ssa.SprintModule(m))
	}

	out, err := os.Create(llFile)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer out.Close()

	if err := codegen.Generate(out, m); err != nil {
		t.Fatalf("codegen: %v", err)
	}
}
