package ssa

import (
	"fmt"

	"github.com/you-not-fish/sysyc/internal/syntax"
)

var binaryOps = [...]Op{
	syntax.Mul:    OpMul,
	syntax.Div:    OpDiv,
	syntax.Rem:    OpMod,
	syntax.Add:    OpAdd,
	syntax.Sub:    OpSub,
	syntax.Lss:    OpLt,
	syntax.Gtr:    OpGt,
	syntax.Leq:    OpLeq,
	syntax.Geq:    OpGeq,
	syntax.Eql:    OpEq,
	syntax.Neq:    OpNeq,
	syntax.AndAnd: OpAndL,
	syntax.OrOr:   OpOrL,
}

// expr lowers an expression used as a value.
func (b *builder) expr(x *syntax.Exp) *Value {
	return b.binary(x.X)
}

// exprStmt lowers an expression statement, where a call of a void
// function is allowed.
func (b *builder) exprStmt(x *syntax.Exp) {
	if x.X.Op == syntax.Single {
		if call, ok := x.X.Leaf.(*syntax.FuncCall); ok {
			b.call(call)
			return
		}
	}
	b.expr(x)
}

// cond lowers a branch condition: nonzero is true.
func (b *builder) cond(x *syntax.Exp) *Value {
	v := b.expr(x)
	return b.fn.NewValueLine(b.b, OpNeq, TypeInt, x.Line(), v, b.constInt(0, x.Line()))
}

// binary lowers both operands, left first, and then the operation. && and
// || do not short-circuit.
func (b *builder) binary(e *syntax.BinaryExp) *Value {
	if e.Op == syntax.Single {
		return b.unary(e.Leaf)
	}
	x := b.binary(e.X)
	y := b.binary(e.Y)
	return b.fn.NewValueLine(b.b, binaryOps[e.Op], TypeInt, e.Line(), x, y)
}

func (b *builder) unary(u syntax.UnaryExp) *Value {
	switch u := u.(type) {
	case *syntax.UnaryOperation:
		x := b.unary(u.X)
		switch u.Op {
		case syntax.Minus:
			return b.fn.NewValueLine(b.b, OpNeg, TypeInt, u.Line(), x)
		case syntax.Not:
			return b.fn.NewValueLine(b.b, OpNot, TypeInt, u.Line(), x)
		}
		return x

	case *syntax.FuncCall:
		v := b.call(u)
		if v == nil {
			b.errorf(u.Line(), "%s() (no value) used as value", u.Name)
		}
		return v

	case *syntax.ParenExp:
		return b.expr(u.X)

	case *syntax.LVal:
		ptr, _ := b.lvalAddr(u)
		return b.fn.NewValueLine(b.b, OpLoad, TypeInt, u.Line(), ptr)

	case *syntax.Number:
		return b.constInt(u.Value, u.Line())
	}
	panic(fmt.Sprintf("ssa.builder.unary: unhandled %T", u))
}

// call checks the callee and the argument count, lowers the arguments left
// to right and emits the call. It returns nil for a void callee.
func (b *builder) call(c *syntax.FuncCall) *Value {
	v, _ := b.scope.LookupParent(c.Name)
	switch {
	case v == nil:
		b.errorf(c.Line(), "undefined function: %s", c.Name)
	case v.Func == nil:
		b.errorf(c.Line(), "cannot call non-function %s", c.Name)
	}
	fn := v.Func
	if len(c.Args) != len(fn.Params) {
		b.errorf(c.Line(), "wrong number of arguments in call to %s: have %d, want %d", c.Name, len(c.Args), len(fn.Params))
	}

	args := make([]*Value, len(c.Args))
	for i, a := range c.Args {
		args[i] = b.expr(a)
	}
	typ := TypeInt
	if fn.Void {
		typ = TypeNone
	}
	call := b.fn.NewValueLine(b.b, OpCall, typ, c.Line(), args...)
	call.Aux = fn
	if fn.Void {
		return nil
	}
	return call
}

// lookup resolves a variable name through the scope chain.
func (b *builder) lookup(name string, line uint32) *Var {
	v, _ := b.scope.LookupParent(name)
	switch {
	case v == nil:
		b.errorf(line, "undefined: %s", name)
	case v.Func != nil:
		b.errorf(line, "function %s used as a variable", name)
	}
	return v
}

// lvalAddr returns the address of the int that l designates. The element
// offset of a[i][j]...[k] is ((i*d1 + j)*d2 + ...)*dn + k.
func (b *builder) lvalAddr(l *syntax.LVal) (*Value, *Var) {
	v := b.lookup(l.Name, l.Line())
	if len(l.Indices) != len(v.Dims) {
		if len(v.Dims) == 0 {
			b.errorf(l.Line(), "cannot index scalar %s", l.Name)
		}
		b.errorf(l.Line(), "%s has %d dimensions but is used with %d indices", l.Name, len(v.Dims), len(l.Indices))
	}

	var base *Value
	if v.Global != nil {
		base = b.fn.NewValueLine(b.b, OpGlobal, TypePtr, l.Line())
		base.Aux = v.Global
	} else {
		base = v.Addr
	}
	if len(l.Indices) == 0 {
		return base, v
	}

	off := b.expr(l.Indices[0])
	for k, x := range l.Indices[1:] {
		dim := b.constInt(v.Dims[k+1], x.Line())
		off = b.fn.NewValueLine(b.b, OpMul, TypeInt, x.Line(), off, dim)
		off = b.fn.NewValueLine(b.b, OpAdd, TypeInt, x.Line(), off, b.expr(x))
	}
	return b.fn.NewValueLine(b.b, OpIndexPtr, TypePtr, l.Line(), base, off), v
}

// constInt emits a constant, truncated to 32 bits.
func (b *builder) constInt(n int64, line uint32) *Value {
	v := b.fn.NewValueLine(b.b, OpConst, TypeInt, line)
	v.AuxInt = int64(int32(n))
	return v
}

// ----------------------------------------------------------------------------
// Constant expressions

// mustConst evaluates x at compile time and fails if it is not constant.
func (b *builder) mustConst(x *syntax.Exp, what string) int64 {
	n, ok := b.constEval(x)
	if !ok {
		b.errorf(x.Line(), "%s must be a constant expression", what)
	}
	return n
}

// constEval evaluates x with 32-bit wrapping arithmetic. It reports false
// if x calls a function or reads anything but a constant.
func (b *builder) constEval(x *syntax.Exp) (int64, bool) {
	n, ok := b.constBinary(x.X)
	return int64(n), ok
}

func (b *builder) constBinary(e *syntax.BinaryExp) (int32, bool) {
	if e.Op == syntax.Single {
		return b.constUnary(e.Leaf)
	}
	x, ok := b.constBinary(e.X)
	if !ok {
		return 0, false
	}
	y, ok := b.constBinary(e.Y)
	if !ok {
		return 0, false
	}
	switch e.Op {
	case syntax.Mul:
		return x * y, true
	case syntax.Div, syntax.Rem:
		if y == 0 {
			b.errorf(e.Line(), "division by zero in constant expression")
		}
		if e.Op == syntax.Div {
			return x / y, true
		}
		return x % y, true
	case syntax.Add:
		return x + y, true
	case syntax.Sub:
		return x - y, true
	case syntax.Lss:
		return b2i(x < y), true
	case syntax.Gtr:
		return b2i(x > y), true
	case syntax.Leq:
		return b2i(x <= y), true
	case syntax.Geq:
		return b2i(x >= y), true
	case syntax.Eql:
		return b2i(x == y), true
	case syntax.Neq:
		return b2i(x != y), true
	case syntax.AndAnd:
		return b2i(x != 0 && y != 0), true
	case syntax.OrOr:
		return b2i(x != 0 || y != 0), true
	}
	panic(fmt.Sprintf("ssa.constBinary: unhandled operator %v", e.Op))
}

func (b *builder) constUnary(u syntax.UnaryExp) (int32, bool) {
	switch u := u.(type) {
	case *syntax.UnaryOperation:
		x, ok := b.constUnary(u.X)
		switch u.Op {
		case syntax.Minus:
			x = -x
		case syntax.Not:
			x = b2i(x == 0)
		}
		return x, ok

	case *syntax.ParenExp:
		return b.constBinary(u.X.X)

	case *syntax.Number:
		return int32(u.Value), true

	case *syntax.LVal:
		v := b.lookup(u.Name, u.Line())
		if v.Values == nil || len(u.Indices) != len(v.Dims) {
			return 0, false
		}
		var off int64
		for k, x := range u.Indices {
			i, ok := b.constEval(x)
			if !ok || i < 0 || i >= v.Dims[k] {
				return 0, false
			}
			off = off*v.Dims[k] + i
		}
		return int32(v.Values[off]), true
	}
	return 0, false
}

func b2i(c bool) int32 {
	if c {
		return 1
	}
	return 0
}
