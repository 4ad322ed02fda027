package codegen

import (
	"fmt"
	"io"

	"github.com/you-not-fish/sysyc/internal/ssa"
)

// emitter wraps an io.Writer with helpers for emitting LLVM IR text.
type emitter struct {
	w   io.Writer
	err error // first write or lowering error
	tmp int   // counter for anonymous temporaries (%t0, %t1, ...)
}

// emit writes a formatted line to the output (no indentation).
func (e *emitter) emit(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format+"\n", args...)
}

// emitLine writes a blank line.
func (e *emitter) emitLine() {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintln(e.w)
}

// emitLabel writes a basic block label.
func (e *emitter) emitLabel(b *ssa.Block) {
	e.emit("%s:", blockName(b))
}

// emitInst writes an indented instruction line.
func (e *emitter) emitInst(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, "  "+format+"\n", args...)
}

// fail records err unless an earlier error is pending.
func (e *emitter) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

// nextTmp returns the next anonymous temporary name (%t0, %t1, ...).
func (e *emitter) nextTmp() string {
	name := fmt.Sprintf("%%t%d", e.tmp)
	e.tmp++
	return name
}

// valueName returns the LLVM local name for an IR value: %vN.
func valueName(v *ssa.Value) string {
	return fmt.Sprintf("%%v%d", v.ID)
}

// argName returns the LLVM name of the i-th parameter.
func argName(i int64) string {
	return fmt.Sprintf("%%arg%d", i)
}

// blockName returns the LLVM label for an IR block, the same label the IR
// printer uses.
func blockName(b *ssa.Block) string {
	return b.Label()
}
