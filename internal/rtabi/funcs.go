package rtabi

import (
	"fmt"
	"strings"
)

// LLVM intrinsics called by generated code
const (
	// Memset fills a local array with zeros before its initializer runs.
	Memset = "llvm.memset.p0.i64"
)

// FuncSignature describes an external function for code generation.
type FuncSignature struct {
	Name       string   // Function name
	ReturnType string   // LLVM return type ("void", "i32", ...)
	ParamTypes []string // LLVM parameter types
	NoReturn   bool     // Whether function has noreturn attribute
}

// Declare returns the LLVM declaration of the function.
func (s FuncSignature) Declare() string {
	decl := fmt.Sprintf("declare %s @%s(%s)", s.ReturnType, s.Name, strings.Join(s.ParamTypes, ", "))
	if s.NoReturn {
		decl += " noreturn"
	}
	return decl
}

// Intrinsics returns the signatures of all intrinsics generated code may
// call.
func Intrinsics() []FuncSignature {
	return []FuncSignature{
		{Name: Memset, ReturnType: "void", ParamTypes: []string{LLVMTypePtr, "i8", LLVMTypeSize, LLVMTypeBool}},
	}
}

// Lookup returns the signature of the named intrinsic.
func Lookup(name string) (FuncSignature, bool) {
	for _, s := range Intrinsics() {
		if s.Name == name {
			return s, true
		}
	}
	return FuncSignature{}, false
}
