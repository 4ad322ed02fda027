package codegen

import (
	"fmt"

	"github.com/you-not-fish/sysyc/internal/rtabi"
	"github.com/you-not-fish/sysyc/internal/ssa"
)

// llvmType maps an IR type to its LLVM IR type string.
func llvmType(t ssa.Type) string {
	switch t {
	case ssa.TypeInt:
		return rtabi.LLVMTypeInt
	case ssa.TypePtr:
		return rtabi.LLVMTypePtr
	}
	return "void"
}

// llvmReturnType returns the LLVM return type of fn.
func llvmReturnType(fn *ssa.Func) string {
	if fn.Void {
		return "void"
	}
	return rtabi.LLVMTypeInt
}

// llvmStorageType returns the in-memory type of a global: i32 for a scalar
// and a flat [N x i32] for an array of any rank.
func llvmStorageType(g *ssa.Global) string {
	if len(g.Dims) == 0 {
		return rtabi.LLVMTypeInt
	}
	return fmt.Sprintf("[%d x %s]", g.Size(), rtabi.LLVMTypeInt)
}

// icmpPredicates maps comparison ops to signed icmp predicates.
var icmpPredicates = map[ssa.Op]string{
	ssa.OpEq:  "eq",
	ssa.OpNeq: "ne",
	ssa.OpLt:  "slt",
	ssa.OpLeq: "sle",
	ssa.OpGt:  "sgt",
	ssa.OpGeq: "sge",
}

// binaryInsts maps arithmetic ops to LLVM instructions.
var binaryInsts = map[ssa.Op]string{
	ssa.OpAdd: "add",
	ssa.OpSub: "sub",
	ssa.OpMul: "mul",
	ssa.OpDiv: "sdiv",
	ssa.OpMod: "srem",
}
