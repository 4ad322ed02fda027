// Package codegen emits LLVM textual IR for a lowered SysY module. The
// output is meant for an external backend such as llc or clang.
package codegen

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/you-not-fish/sysyc/internal/rtabi"
	"github.com/you-not-fish/sysyc/internal/ssa"
)

// generator holds the state for emitting one module.
type generator struct {
	e *emitter
	m *ssa.Module

	// flags maps a comparison value to the i1 it was widened from, so
	// that a branch on it can use the i1 directly.
	flags map[*ssa.Value]string

	// intrinsics records the intrinsics called so far.
	intrinsics map[string]bool
}

// Generate writes m to w as LLVM IR. It returns the first write error, or
// an error if m contains something that has no LLVM lowering.
func Generate(w io.Writer, m *ssa.Module) error {
	g := &generator{
		e:          &emitter{w: w},
		m:          m,
		intrinsics: make(map[string]bool),
	}

	g.e.emit("; ModuleID = '%s'", m.Name)
	g.e.emit("source_filename = %q", m.Name)

	if len(m.Globals) > 0 {
		g.e.emitLine()
		for _, gl := range m.Globals {
			g.lowerGlobal(gl)
		}
	}

	for _, fn := range m.Funcs {
		g.e.emitLine()
		g.lowerFunc(fn)
	}

	if len(g.intrinsics) > 0 {
		names := make([]string, 0, len(g.intrinsics))
		for name := range g.intrinsics {
			names = append(names, name)
		}
		sort.Strings(names)
		g.e.emitLine()
		for _, name := range names {
			sig, ok := rtabi.Lookup(name)
			if !ok {
				g.e.fail(fmt.Errorf("codegen: unknown intrinsic %s", name))
				break
			}
			g.e.emit("%s", sig.Declare())
		}
	}
	return g.e.err
}

// lowerGlobal emits a global definition. Arrays of any rank are stored
// flat, matching the row-major offsets the IR computes.
func (g *generator) lowerGlobal(gl *ssa.Global) {
	kind := "global"
	if gl.Const {
		kind = "constant"
	}
	g.e.emit("@%s = %s %s %s, align %d", gl.Name, kind, llvmStorageType(gl), globalInit(gl), rtabi.AlignInt)
}

// globalInit returns the LLVM initializer of gl.
func globalInit(gl *ssa.Global) string {
	if len(gl.Dims) == 0 {
		if gl.Init == nil {
			return "0"
		}
		return strconv.FormatInt(int64(int32(gl.Init[0])), 10)
	}
	zero := true
	for _, n := range gl.Init {
		if n != 0 {
			zero = false
			break
		}
	}
	if zero {
		return "zeroinitializer"
	}
	elems := make([]string, len(gl.Init))
	for i, n := range gl.Init {
		elems[i] = fmt.Sprintf("%s %d", rtabi.LLVMTypeInt, int32(n))
	}
	return "[" + strings.Join(elems, ", ") + "]"
}
