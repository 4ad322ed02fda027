package ssa

import (
	"fmt"
	"math"

	"github.com/you-not-fish/sysyc/internal/rtabi"
	"github.com/you-not-fish/sysyc/internal/syntax"
)

// maxArrayLen is the largest number of elements of an array. The byte size
// of every object must fit in an i32.
const maxArrayLen = math.MaxInt32 / rtabi.SizeInt

// Error is a fatal lowering error.
type Error struct {
	Line uint32
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// builder holds the state for lowering one program.
type builder struct {
	mod   *Module
	scope *Scope // innermost scope

	fn *Func  // current function
	b  *Block // current block (nil = unreachable)

	loops []loopTargets // innermost last
}

type loopTargets struct {
	continueTarget *Block
	breakTarget    *Block
}

// Build lowers a parsed program. The units must come from an error-free
// parse. Lowering stops at the first semantic error, which is returned as
// an *Error.
func Build(units []*syntax.CompUnit) (m *Module, err error) {
	b := &builder{
		mod:   &Module{Name: "SysY"},
		scope: NewScope(nil),
	}
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(*Error)
			if !ok {
				panic(r)
			}
			m, err = nil, e
		}
	}()

	for _, u := range units {
		switch item := u.Item.(type) {
		case *syntax.Decl:
			b.globalDecl(item)
		case *syntax.FuncDef:
			b.funcDef(item)
		default:
			panic(fmt.Sprintf("ssa.Build: unhandled %T", item))
		}
	}
	return b.mod, nil
}

// errorf aborts lowering.
func (b *builder) errorf(line uint32, format string, args ...interface{}) {
	panic(&Error{Line: line, Msg: fmt.Sprintf(format, args...)})
}

func (b *builder) openScope() {
	b.scope = NewScope(b.scope)
}

func (b *builder) closeScope() {
	b.scope = b.scope.Parent()
}

// declare binds v in the innermost scope.
func (b *builder) declare(v *Var) {
	if prev := b.scope.Insert(v); prev != nil {
		b.errorf(v.Line, "%s redeclared in this block (previous declaration at line %d)", v.Name, prev.Line)
	}
}

// ----------------------------------------------------------------------------
// Functions

func (b *builder) funcDef(fd *syntax.FuncDef) {
	var params []string
	if fd.Params != nil {
		for _, p := range fd.Params.List {
			params = append(params, p.Name)
		}
	}
	fn := NewFunc(fd.Name, params, fd.Result == syntax.FuncVoid)
	fn.Line = fd.Line()

	// Declared before the body so that the function can call itself.
	b.declare(&Var{Name: fd.Name, Line: fd.Line(), Func: fn})
	b.mod.Funcs = append(b.mod.Funcs, fn)

	b.fn = fn
	b.b = fn.Entry
	b.openScope()

	if !fn.Void {
		fn.RetSlot = b.entryAlloca(1, "")
		b.store(fn.RetSlot, b.constInt(0, fd.Line()), fd.Line())
	}
	for i, name := range params {
		line := fd.Params.List[i].Line()
		arg := fn.NewValueLine(fn.Entry, OpArg, TypeInt, line)
		arg.AuxInt = int64(i)
		arg.Aux = name

		slot := b.entryAlloca(1, name)
		b.store(slot, arg, line)
		b.declare(&Var{Name: name, Line: line, Addr: slot})
	}
	fn.Exit = fn.NewBlock(BlockReturn, "exit")

	// The body shares the parameters' scope.
	b.blockItems(fd.Body.Items)

	// Falling off the end returns the current content of the return slot.
	if b.b != nil {
		b.jump(fn.Exit)
	}
	if !fn.Void {
		fn.Exit.SetControl(fn.NewValue(fn.Exit, OpLoad, TypeInt, fn.RetSlot))
	}
	fn.moveToEnd(fn.Exit)

	b.closeScope()
	b.fn, b.b = nil, nil
}

// entryAlloca creates a stack slot of n ints in the entry block.
func (b *builder) entryAlloca(n int64, name string) *Value {
	v := b.fn.NewValue(b.fn.Entry, OpAlloca, TypePtr)
	v.AuxInt = n
	if name != "" {
		v.Aux = name
	}
	return v
}

// ----------------------------------------------------------------------------
// Declarations

func (b *builder) globalDecl(d *syntax.Decl) {
	for _, def := range d.Var.Defs {
		g := &Global{
			Name:  def.Name,
			Dims:  b.dims(def),
			Const: d.Const,
			Line:  def.Line(),
		}
		if def.Init != nil {
			g.Init = make([]int64, g.Size())
			for _, e := range b.flatten(def, g.Dims) {
				g.Init[e.offset] = b.mustConst(e.x, "initializer of global "+def.Name)
			}
		}
		v := &Var{Name: def.Name, Line: def.Line(), Global: g, Dims: g.Dims, Const: d.Const}
		if d.Const {
			v.Values = g.Init
		}
		b.declare(v)
		b.mod.Globals = append(b.mod.Globals, g)
	}
}

func (b *builder) localDecl(d *syntax.Decl) {
	for _, def := range d.Var.Defs {
		b.localDef(def, d.Const)
	}
}

// localDef allocates a local and stores its initial value. Scalars without
// an initializer are set to 0 and arrays are zeroed before the explicit
// elements are stored. The name is bound only after the initializer has
// been lowered, so the initializer still sees an outer variable of the same
// name.
func (b *builder) localDef(def *syntax.VarDef, isConst bool) {
	line := def.Line()
	dims := b.dims(def)
	size := product(dims)
	v := &Var{Name: def.Name, Line: line, Dims: dims, Const: isConst}
	v.Addr = b.entryAlloca(size, def.Name)

	var elems []initElem
	if def.Init != nil {
		elems = b.flatten(def, dims)
	}
	if isConst {
		v.Values = make([]int64, size)
		for _, e := range elems {
			v.Values[e.offset] = b.mustConst(e.x, "initializer of constant "+def.Name)
		}
	}

	if len(dims) == 0 {
		var val *Value
		if len(elems) > 0 {
			val = b.expr(elems[0].x)
		} else {
			val = b.constInt(0, line)
		}
		b.store(v.Addr, val, line)
	} else {
		zero := b.fn.NewValueLine(b.b, OpZero, TypeNone, line, v.Addr)
		zero.AuxInt = size
		for _, e := range elems {
			val := b.expr(e.x)
			ptr := b.fn.NewValueLine(b.b, OpIndexPtr, TypePtr, e.x.Line(), v.Addr, b.constInt(e.offset, e.x.Line()))
			b.store(ptr, val, e.x.Line())
		}
	}
	b.declare(v)
}

// dims evaluates the array dimensions of def.
func (b *builder) dims(def *syntax.VarDef) []int64 {
	var dims []int64
	size := int64(1)
	for _, x := range def.Dims {
		n := b.mustConst(x, "array dimension")
		if n <= 0 {
			b.errorf(x.Line(), "array %s has non-positive dimension %d", def.Name, n)
		}
		if n > maxArrayLen/size {
			b.errorf(x.Line(), "array %s is too large (more than %d elements)", def.Name, maxArrayLen)
		}
		size *= n
		dims = append(dims, n)
	}
	return dims
}

// initElem is one scalar of an initializer and its row-major offset.
type initElem struct {
	offset int64
	x      *syntax.Exp
}

// flatten assigns every scalar in the initializer of def an offset into an
// object of shape dims. Elements that are not mentioned stay zero.
func (b *builder) flatten(def *syntax.VarDef, dims []int64) []initElem {
	switch init := def.Init.(type) {
	case *syntax.ScalarInit:
		if len(dims) > 0 {
			b.errorf(init.Line(), "array %s must be initialized with a brace-enclosed list", def.Name)
		}
		return []initElem{{0, init.X}}

	case *syntax.AggregateInit:
		if len(dims) == 0 {
			b.errorf(init.Line(), "scalar %s initialized with a brace-enclosed list", def.Name)
		}
		var out []initElem
		b.fill(init, dims, 0, &out)
		return out
	}
	panic(fmt.Sprintf("ssa.flatten: unhandled %T", def.Init))
}

// fill places the elements of agg into the sub-object of shape dims that
// starts at base. A nested list starts at the next element and covers the
// largest trailing sub-array whose boundary that element lies on.
func (b *builder) fill(agg *syntax.AggregateInit, dims []int64, base int64, out *[]initElem) {
	end := base + product(dims)
	pos := base
	for _, e := range agg.Elems {
		if pos >= end {
			b.errorf(e.Line(), "too many elements in initializer")
		}
		switch e := e.(type) {
		case *syntax.ScalarInit:
			*out = append(*out, initElem{pos, e.X})
			pos++

		case *syntax.AggregateInit:
			k := 1
			for k < len(dims) && (pos-base)%product(dims[k:]) != 0 {
				k++
			}
			if k == len(dims) {
				b.errorf(e.Line(), "brace-enclosed list does not start on a sub-array boundary")
			}
			b.fill(e, dims[k:], pos, out)
			pos += product(dims[k:])
		}
	}
}

// ----------------------------------------------------------------------------
// Statements

// blockItems lowers a list of block items. Items after a return, break or
// continue are unreachable and are not lowered.
func (b *builder) blockItems(items []syntax.BlockItem) {
	for _, item := range items {
		if b.b == nil {
			break
		}
		switch item := item.(type) {
		case *syntax.Decl:
			b.localDecl(item)
		case syntax.Stmt:
			b.stmt(item)
		}
	}
}

func (b *builder) stmt(s syntax.Stmt) {
	if b.b == nil {
		return
	}
	switch s := s.(type) {
	case *syntax.AssignStmt:
		val := b.expr(s.X)
		ptr, v := b.lvalAddr(s.LVal)
		if v.Const {
			b.errorf(s.Line(), "cannot assign to constant %s", v.Name)
		}
		b.store(ptr, val, s.Line())

	case *syntax.ExpStmt:
		if s.X != nil {
			b.exprStmt(s.X)
		}

	case *syntax.BlockStmt:
		b.openScope()
		b.blockItems(s.Block.Items)
		b.closeScope()

	case *syntax.IfStmt:
		b.ifStmt(s)

	case *syntax.WhileStmt:
		b.whileStmt(s)

	case *syntax.BreakStmt:
		if len(b.loops) == 0 {
			b.errorf(s.Line(), "break is not in a loop")
		}
		b.jump(b.loops[len(b.loops)-1].breakTarget)

	case *syntax.ContinueStmt:
		if len(b.loops) == 0 {
			b.errorf(s.Line(), "continue is not in a loop")
		}
		b.jump(b.loops[len(b.loops)-1].continueTarget)

	case *syntax.ReturnStmt:
		b.returnStmt(s)

	default:
		panic(fmt.Sprintf("ssa.builder.stmt: unhandled %T", s))
	}
}

// returnStmt stores the result into the return slot and jumps to the
// shared exit block.
func (b *builder) returnStmt(s *syntax.ReturnStmt) {
	switch {
	case s.X != nil && b.fn.Void:
		b.errorf(s.Line(), "too many return values in void function %s", b.fn.Name)
	case s.X == nil && !b.fn.Void:
		b.errorf(s.Line(), "missing return value in function %s", b.fn.Name)
	}
	if s.X != nil {
		b.store(b.fn.RetSlot, b.expr(s.X), s.Line())
	}
	b.jump(b.fn.Exit)
}

// ifStmt lowers an if statement to
//
//	    cond
//	   /    \
//	then    else
//	   \    /
//	   merge
//
// A branch that ends in a jump of its own does not flow into merge. If
// neither does, merge is dropped and the code after the if is unreachable.
func (b *builder) ifStmt(s *syntax.IfStmt) {
	cond := b.cond(s.Cond)

	bThen := b.fn.NewBlock(BlockPlain, "then")
	var bElse *Block
	if s.Else != nil {
		bElse = b.fn.NewBlock(BlockPlain, "else")
	}
	bMerge := b.fn.NewBlock(BlockPlain, "merge")
	if bElse == nil {
		bElse = bMerge
	}
	b.branch(cond, bThen, bElse)

	b.b = bThen
	b.stmt(s.Then)
	if b.b != nil {
		b.jump(bMerge)
	}

	if s.Else != nil {
		b.b = bElse
		b.stmt(s.Else)
		if b.b != nil {
			b.jump(bMerge)
		}
	}

	if len(bMerge.Preds) == 0 {
		b.fn.removeBlock(bMerge)
		b.b = nil
		return
	}
	b.b = bMerge
}

// whileStmt lowers a loop to the blocks below. continue jumps to cond and
// break to after.
//
//	-> cond -> body -> cond
//	      \
//	       -> after
func (b *builder) whileStmt(s *syntax.WhileStmt) {
	bCond := b.fn.NewBlock(BlockPlain, "cond")
	bBody := b.fn.NewBlock(BlockPlain, "body")
	bAfter := b.fn.NewBlock(BlockPlain, "after")

	b.jump(bCond)
	b.b = bCond
	b.branch(b.cond(s.Cond), bBody, bAfter)

	b.loops = append(b.loops, loopTargets{continueTarget: bCond, breakTarget: bAfter})
	b.b = bBody
	b.stmt(s.Body)
	if b.b != nil {
		b.jump(bCond)
	}
	b.loops = b.loops[:len(b.loops)-1]

	b.b = bAfter
}

// jump ends the current block with a jump to target.
func (b *builder) jump(target *Block) {
	b.checkOpen()
	b.b.Kind = BlockPlain
	b.b.AddSucc(target)
	b.b = nil
}

// branch ends the current block with a conditional branch.
func (b *builder) branch(cond *Value, then, els *Block) {
	b.checkOpen()
	b.b.Kind = BlockIf
	b.b.SetControl(cond)
	b.b.AddSucc(then)
	b.b.AddSucc(els)
	b.b = nil
}

func (b *builder) checkOpen() {
	if b.b.Terminated() {
		panic(fmt.Sprintf("ssa: %s of %s terminated twice", b.b, b.fn.Name))
	}
}

func (b *builder) store(ptr, val *Value, line uint32) {
	b.fn.NewValueLine(b.b, OpStore, TypeNone, line, ptr, val)
}
