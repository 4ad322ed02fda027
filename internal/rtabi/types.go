// Package rtabi defines the target conventions shared between the code
// generator and the tools that consume its output.
package rtabi

// Scalar layout. SysY has a single 32-bit signed integer type; arrays are
// flat runs of it.
const (
	SizeInt  = 4
	AlignInt = 4
)

// LLVM type names for code generation
const (
	LLVMTypeInt  = "i32"
	LLVMTypeBool = "i1"  // comparison results, before widening to i32
	LLVMTypeSize = "i64" // byte counts passed to intrinsics
	LLVMTypePtr  = "ptr" // opaque pointer (LLVM 15+)
)
