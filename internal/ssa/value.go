package ssa

import "fmt"

// ID is a unique identifier for Values and Blocks within a Func.
type ID int32

// Value represents a single computation.
type Value struct {
	// ID is a unique identifier within the containing Func.
	ID ID

	// Op is the operation this value computes.
	Op Op

	// Type is the result type; TypeNone for void operations and calls of
	// void functions.
	Type Type

	// Args are the input values to this operation.
	Args []*Value

	// Block is the basic block that contains this value.
	Block *Block

	// AuxInt holds an auxiliary integer (constant value, slot size,
	// parameter index).
	AuxInt int64

	// Aux holds auxiliary data: a name, a *Global or a *Func.
	Aux interface{}

	// Uses counts the references to this value from Args and Controls.
	Uses int32

	// Line is the source line the value was lowered from, or 0.
	Line uint32
}

// String returns a short string representation of the value (e.g., "v5").
func (v *Value) String() string {
	return fmt.Sprintf("v%d", v.ID)
}

// LongString returns a detailed representation including op, type and args.
func (v *Value) LongString() string {
	return formatValue(v)
}

// AddArg appends a value to the argument list and increments its use count.
func (v *Value) AddArg(arg *Value) {
	v.Args = append(v.Args, arg)
	arg.Uses++
}
