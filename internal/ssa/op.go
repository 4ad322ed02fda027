// Package ssa implements the basic-block intermediate representation that
// SysY programs are lowered to, together with the lowering pass itself.
//
// Every scalar is a 32-bit integer. Variables live in memory (Alloca or
// Global) and are accessed through Load and Store; no phi nodes are built.
package ssa

// Op represents an IR operation code.
type Op int

const (
	OpInvalid Op = iota

	// Constants and parameters
	OpConst // integer constant; AuxInt = value
	OpArg   // function argument; AuxInt = param index; Aux = param name

	// Arithmetic (32-bit, wrapping)
	OpAdd
	OpSub
	OpMul
	OpDiv // signed, truncating
	OpMod // signed; sign follows the dividend
	OpNeg

	// Comparison; the result is 0 or 1
	OpEq
	OpNeq
	OpLt
	OpLeq
	OpGt
	OpGeq

	// Logic; the result is 0 or 1. Both operands of AndL and OrL are
	// always evaluated.
	OpNot
	OpAndL
	OpOrL

	// Memory
	OpAlloca   // stack slot of AuxInt ints in the entry block; Aux = name
	OpGlobal   // address of a global; Aux = *Global
	OpLoad     // Args[0] = ptr
	OpStore    // Args[0] = ptr, Args[1] = val; void
	OpZero     // zero AuxInt ints at Args[0]; void
	OpIndexPtr // &Args[0][Args[1]]; the offset counts ints

	// Calls
	OpCall // direct call; Aux = *Func; Args = arguments

	opCount // sentinel; must be last
)

// OpInfo holds metadata about an IR operation.
type OpInfo struct {
	Name   string
	NArgs  int  // number of arguments, or -1 if variable
	IsVoid bool // produces no value
}

var opInfoTable = [opCount]OpInfo{
	OpInvalid: {Name: "Invalid"},

	OpConst: {Name: "Const"},
	OpArg:   {Name: "Arg"},

	OpAdd: {Name: "Add", NArgs: 2},
	OpSub: {Name: "Sub", NArgs: 2},
	OpMul: {Name: "Mul", NArgs: 2},
	OpDiv: {Name: "Div", NArgs: 2},
	OpMod: {Name: "Mod", NArgs: 2},
	OpNeg: {Name: "Neg", NArgs: 1},

	OpEq:  {Name: "Eq", NArgs: 2},
	OpNeq: {Name: "Neq", NArgs: 2},
	OpLt:  {Name: "Lt", NArgs: 2},
	OpLeq: {Name: "Leq", NArgs: 2},
	OpGt:  {Name: "Gt", NArgs: 2},
	OpGeq: {Name: "Geq", NArgs: 2},

	OpNot:  {Name: "Not", NArgs: 1},
	OpAndL: {Name: "AndL", NArgs: 2},
	OpOrL:  {Name: "OrL", NArgs: 2},

	OpAlloca:   {Name: "Alloca"},
	OpGlobal:   {Name: "Global"},
	OpLoad:     {Name: "Load", NArgs: 1},
	OpStore:    {Name: "Store", NArgs: 2, IsVoid: true},
	OpZero:     {Name: "Zero", NArgs: 1, IsVoid: true},
	OpIndexPtr: {Name: "IndexPtr", NArgs: 2},

	OpCall: {Name: "Call", NArgs: -1},
}

// String returns the human-readable name of the op.
func (o Op) String() string {
	return o.Info().Name
}

// Info returns the OpInfo for this op.
func (o Op) Info() OpInfo {
	if o >= 0 && int(o) < len(opInfoTable) {
		return opInfoTable[o]
	}
	return OpInfo{Name: "unknown"}
}

// IsVoid reports whether the op produces no value.
func (o Op) IsVoid() bool { return o.Info().IsVoid }

// Type is the type of a value. Scalars are 32-bit integers and every
// pointer points at ints.
type Type uint8

const (
	TypeNone Type = iota // void
	TypeInt
	TypePtr
)

func (t Type) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypePtr:
		return "ptr"
	}
	return "void"
}
