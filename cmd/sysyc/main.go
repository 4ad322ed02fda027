// Package main implements the SysY compiler entry point.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"regexp"
	"runtime"
	"strconv"
	"strings"
)

// Compiler flags
var (
	emitTokens = flag.Bool("emit-tokens", false, "Output token stream")
	emitAST    = flag.Bool("emit-ast", false, "Output AST")
	astFormat  = flag.String("ast-format", "text", "AST output format (text or json)")
	emitIR     = flag.Bool("emit-ir", false, "Output IR")
	emitLL     = flag.Bool("emit-ll", false, "Output LLVM IR (default)")
	emitAsm    = flag.Bool("emit-asm", false, "Output assembly (requires llc)")
	output     = flag.String("o", "", "Output file, or output directory when compiling several files")
	dumpFunc   = flag.String("dump-func", "", "Only dump specific function")
	irVerify   = flag.Bool("ir-verify", false, "Verify IR after lowering")
	jobs       = flag.Int("j", runtime.NumCPU(), "Number of files compiled in parallel")
	repl       = flag.Bool("repl", false, "Start an interactive session")
	trace      = flag.Bool("trace", false, "Output timing trace")
	llc        = flag.String("llc", "llc", "llc binary used by -emit-asm")
	doctor     = flag.Bool("doctor", false, "Check toolchain")
	version    = flag.Bool("version", false, "Print version")
)

// Version information
const Version = "0.1.0-dev"

var errUsage = errors.New("usage error")

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "SysY Compiler %s\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: sysyc [options] <file.sy>...\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *version {
		fmt.Printf("sysyc version %s\n", Version)
		fmt.Printf("go version %s\n", runtime.Version())
		os.Exit(0)
	}

	if *doctor {
		os.Exit(runDoctor())
	}

	opts, err := buildOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	if *repl {
		os.Exit(runREPL(opts))
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "error: no input file")
		fmt.Fprintln(os.Stderr, "usage: sysyc [options] <file.sy>...")
		os.Exit(2)
	}

	os.Exit(run(args, opts, os.Stdout, os.Stderr))
}

// buildOptions turns the command-line flags into compiler options.
func buildOptions() (*options, error) {
	m, err := selectMode(*emitTokens, *emitAST, *emitIR, *emitLL, *emitAsm)
	if err != nil {
		return nil, err
	}
	if *astFormat != "text" && *astFormat != "json" {
		return nil, fmt.Errorf("%w: -ast-format must be text or json, not %q", errUsage, *astFormat)
	}
	opts := &options{
		mode:      m,
		astFormat: *astFormat,
		dumpFunc:  *dumpFunc,
		verify:    *irVerify,
		llc:       *llc,
		output:    *output,
		jobs:      *jobs,
		log:       newTracer(os.Stderr, *trace),
	}
	if opts.jobs < 1 {
		opts.jobs = 1
	}
	return opts, nil
}

// selectMode returns the mode chosen by the -emit-* flags, in the order
// tokens, ast, ir, ll, asm. At most one may be set; none means ll.
func selectMode(flags ...bool) (mode, error) {
	chosen := modeLL
	n := 0
	for i, set := range flags {
		if set {
			chosen = mode(i)
			n++
		}
	}
	if n > 1 {
		return 0, fmt.Errorf("%w: only one -emit-* flag may be given", errUsage)
	}
	return chosen, nil
}

// newTracer returns the stage logger. It discards everything unless
// enabled.
func newTracer(w io.Writer, enabled bool) *log.Logger {
	if !enabled {
		w = io.Discard
	}
	return log.New(w, "sysyc: ", log.Lmsgprefix)
}

// runDoctor checks the toolchain and returns an exit code.
func runDoctor() int {
	fmt.Println("SysY Toolchain Doctor")
	fmt.Println("=====================")
	fmt.Println()

	allOk := true

	fmt.Printf("Go:      %s ✓\n", runtime.Version())

	// llc turns emitted LLVM IR into assembly (-emit-asm).
	llcVersion, llcOk := checkTool(*llc, "--version")
	fmt.Printf("llc:     %s", llcVersion)
	switch major, known := llcMajor(*llc); {
	case !llcOk:
		fmt.Println(" ✗ (not found)")
		allOk = false
	case known && major < minLLVMMajor:
		fmt.Printf(" ✗ (LLVM %d or newer is required for opaque pointers)\n", minLLVMMajor)
		allOk = false
	default:
		fmt.Println(" ✓")
	}

	// clang links programs in the end-to-end tests.
	clangVersion, clangOk := checkTool("clang", "--version")
	fmt.Printf("clang:   %s", clangVersion)
	if clangOk {
		fmt.Println(" ✓")
	} else {
		fmt.Println(" (optional, not found)")
	}

	fmt.Println()
	if allOk {
		fmt.Println("All required tools available!")
		return 0
	}

	fmt.Println("Some required tools are missing.")
	return 1
}

// minLLVMMajor is the oldest LLVM whose llc reads the emitted "ptr" type
// without -opaque-pointers.
const minLLVMMajor = 15

var llvmVersionRE = regexp.MustCompile(`LLVM version (\d+)\.`)

// llcMajor returns the LLVM major version of the llc binary at path.
func llcMajor(path string) (int, bool) {
	out, err := exec.Command(path, "--version").Output()
	if err != nil {
		return 0, false
	}
	return llvmMajor(string(out))
}

// llvmMajor extracts the major version from the output of an LLVM tool's
// --version flag.
func llvmMajor(version string) (int, bool) {
	m := llvmVersionRE.FindStringSubmatch(version)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	return n, err == nil
}

// checkTool runs a tool with the given arguments and returns the first line of output.
func checkTool(name string, args ...string) (string, bool) {
	cmd := exec.Command(name, args...)
	out, err := cmd.Output()
	if err != nil {
		return "", false
	}

	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) > 60 {
			line = line[:57] + "..."
		}
		return line, true
	}
	return "", true
}
