package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/you-not-fish/sysyc/internal/rtabi"
	"github.com/you-not-fish/sysyc/internal/ssa"
)

// lowerFunc emits the LLVM IR for a single function.
func (g *generator) lowerFunc(fn *ssa.Func) {
	params := make([]string, len(fn.Params))
	for i := range fn.Params {
		params[i] = fmt.Sprintf("%s %s", rtabi.LLVMTypeInt, argName(int64(i)))
	}

	g.e.tmp = 0
	g.flags = make(map[*ssa.Value]string)
	g.e.emit("define %s @%s(%s) {", llvmReturnType(fn), fn.Name, strings.Join(params, ", "))

	for _, b := range fn.Blocks {
		g.lowerBlock(b)
	}

	g.e.emit("}")
}

// lowerBlock emits the LLVM IR for a single basic block.
func (g *generator) lowerBlock(b *ssa.Block) {
	g.e.emitLabel(b)

	for _, v := range b.Values {
		g.lowerValue(v)
	}

	g.lowerTerminator(b)
}

// lowerValue emits the LLVM IR for a single value.
func (g *generator) lowerValue(v *ssa.Value) {
	switch v.Op {
	// Constants, parameters and global addresses are inlined at use
	// sites; no instruction is emitted.
	case ssa.OpConst, ssa.OpArg, ssa.OpGlobal:
		return

	case ssa.OpAdd, ssa.OpSub, ssa.OpMul, ssa.OpDiv, ssa.OpMod:
		g.e.emitInst("%s = %s %s %s, %s", valueName(v), binaryInsts[v.Op], rtabi.LLVMTypeInt,
			g.operand(v.Args[0]), g.operand(v.Args[1]))
	case ssa.OpNeg:
		g.e.emitInst("%s = sub %s 0, %s", valueName(v), rtabi.LLVMTypeInt, g.operand(v.Args[0]))

	case ssa.OpEq, ssa.OpNeq, ssa.OpLt, ssa.OpLeq, ssa.OpGt, ssa.OpGeq:
		flag := g.emitICmp(icmpPredicates[v.Op], g.operand(v.Args[0]), g.operand(v.Args[1]))
		g.widen(v, flag)
	case ssa.OpNot:
		flag := g.emitICmp("eq", g.operand(v.Args[0]), "0")
		g.widen(v, flag)
	case ssa.OpAndL, ssa.OpOrL:
		x := g.emitICmp("ne", g.operand(v.Args[0]), "0")
		y := g.emitICmp("ne", g.operand(v.Args[1]), "0")
		inst := "and"
		if v.Op == ssa.OpOrL {
			inst = "or"
		}
		flag := g.e.nextTmp()
		g.e.emitInst("%s = %s %s %s, %s", flag, inst, rtabi.LLVMTypeBool, x, y)
		g.widen(v, flag)

	// Memory
	case ssa.OpAlloca:
		if v.AuxInt == 1 {
			g.e.emitInst("%s = alloca %s, align %d", valueName(v), rtabi.LLVMTypeInt, rtabi.AlignInt)
		} else {
			g.e.emitInst("%s = alloca %s, %s %d, align %d", valueName(v), rtabi.LLVMTypeInt, rtabi.LLVMTypeInt, v.AuxInt, rtabi.AlignInt)
		}
	case ssa.OpLoad:
		g.e.emitInst("%s = load %s, ptr %s, align %d", valueName(v), rtabi.LLVMTypeInt, g.operand(v.Args[0]), rtabi.AlignInt)
	case ssa.OpStore:
		g.e.emitInst("store %s %s, ptr %s, align %d", rtabi.LLVMTypeInt, g.operand(v.Args[1]), g.operand(v.Args[0]), rtabi.AlignInt)
	case ssa.OpZero:
		g.intrinsics[rtabi.Memset] = true
		g.e.emitInst("call void @%s(ptr %s, i8 0, %s %d, i1 false)", rtabi.Memset, g.operand(v.Args[0]),
			rtabi.LLVMTypeSize, v.AuxInt*rtabi.SizeInt)
	case ssa.OpIndexPtr:
		g.e.emitInst("%s = getelementptr inbounds %s, ptr %s, %s %s", valueName(v), rtabi.LLVMTypeInt,
			g.operand(v.Args[0]), rtabi.LLVMTypeInt, g.operand(v.Args[1]))

	case ssa.OpCall:
		g.lowerCall(v)

	default:
		g.e.fail(fmt.Errorf("codegen: unhandled op %s in %s", v.Op, v.Block.Func.Name))
	}
}

// lowerTerminator emits the block terminator instruction.
func (g *generator) lowerTerminator(b *ssa.Block) {
	switch b.Kind {
	case ssa.BlockPlain:
		if len(b.Succs) > 0 {
			g.e.emitInst("br label %%%s", blockName(b.Succs[0]))
		} else {
			g.e.emitInst("unreachable")
		}
	case ssa.BlockIf:
		c := b.Controls[0]
		flag, ok := g.flags[c]
		if !ok {
			flag = g.emitICmp("ne", g.operand(c), "0")
		}
		g.e.emitInst("br i1 %s, label %%%s, label %%%s",
			flag, blockName(b.Succs[0]), blockName(b.Succs[1]))
	case ssa.BlockReturn:
		if len(b.Controls) > 0 && b.Controls[0] != nil {
			g.e.emitInst("ret %s %s", rtabi.LLVMTypeInt, g.operand(b.Controls[0]))
		} else {
			g.e.emitInst("ret void")
		}
	default:
		g.e.fail(fmt.Errorf("codegen: block %s of %s has kind %s", b, b.Func.Name, b.Kind))
	}
}

// operand returns the LLVM IR operand string for a value. Constants,
// parameters and globals are inlined, others use their %vN name.
func (g *generator) operand(v *ssa.Value) string {
	switch v.Op {
	case ssa.OpConst:
		return strconv.FormatInt(int64(int32(v.AuxInt)), 10)
	case ssa.OpArg:
		return argName(v.AuxInt)
	case ssa.OpGlobal:
		return "@" + v.Aux.(*ssa.Global).Name
	}
	return valueName(v)
}

// emitICmp emits an i32 comparison into a fresh temporary and returns it.
func (g *generator) emitICmp(cond, x, y string) string {
	tmp := g.e.nextTmp()
	g.e.emitInst("%s = icmp %s %s %s, %s", tmp, cond, rtabi.LLVMTypeInt, x, y)
	return tmp
}

// widen zero-extends flag into v and remembers flag for branches.
func (g *generator) widen(v *ssa.Value, flag string) {
	g.e.emitInst("%s = zext %s %s to %s", valueName(v), rtabi.LLVMTypeBool, flag, rtabi.LLVMTypeInt)
	g.flags[v] = flag
}

// lowerCall emits a direct function call.
func (g *generator) lowerCall(v *ssa.Value) {
	callee := v.Aux.(*ssa.Func)
	args := make([]string, len(v.Args))
	for i, a := range v.Args {
		args[i] = fmt.Sprintf("%s %s", rtabi.LLVMTypeInt, g.operand(a))
	}
	if callee.Void {
		g.e.emitInst("call void @%s(%s)", callee.Name, strings.Join(args, ", "))
		return
	}
	g.e.emitInst("%s = call %s @%s(%s)", valueName(v), llvmType(v.Type), callee.Name, strings.Join(args, ", "))
}
