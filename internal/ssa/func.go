package ssa

// Module is a lowered program: its globals and functions in declaration
// order.
type Module struct {
	Name    string
	Globals []*Global
	Funcs   []*Func
}

// Func returns the function called name, or nil.
func (m *Module) Func(name string) *Func {
	for _, f := range m.Funcs {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Global is a module-level variable or constant.
type Global struct {
	Name  string
	Dims  []int64 // empty for scalars
	Init  []int64 // row-major initial value, Size() long; nil means all zero
	Const bool
	Line  uint32
}

// Size returns the number of ints the global occupies.
func (g *Global) Size() int64 {
	return product(g.Dims)
}

func (g *Global) String() string { return g.Name }

// product returns the number of elements of an array of shape dims.
func product(dims []int64) int64 {
	n := int64(1)
	for _, d := range dims {
		n *= d
	}
	return n
}

// Func represents a lowered function.
//
// Every function has a single exit block that returns; all other blocks
// reach it through plain jumps. Blocks[0] is the entry block and the exit
// block is last once lowering has finished.
type Func struct {
	// Name is the function name.
	Name string

	// Params are the parameter names, in order. All parameters are ints.
	Params []string

	// Void reports whether the function returns no value.
	Void bool

	// Blocks is the list of basic blocks.
	Blocks []*Block

	Entry *Block
	Exit  *Block

	// RetSlot is the stack slot that return statements store into. It is
	// nil for void functions.
	RetSlot *Value

	Line uint32

	nextValueID ID
	nextBlockID ID
}

// NewFunc creates a function with an entry block.
func NewFunc(name string, params []string, void bool) *Func {
	f := &Func{
		Name:   name,
		Params: params,
		Void:   void,
	}
	f.Entry = f.NewBlock(BlockPlain, "entry")
	return f
}

// NewBlock creates a basic block and appends it to the function.
func (f *Func) NewBlock(kind BlockKind, hint string) *Block {
	b := &Block{
		ID:   f.nextBlockID,
		Hint: hint,
		Kind: kind,
		Func: f,
	}
	f.nextBlockID++
	f.Blocks = append(f.Blocks, b)
	return b
}

// NewValue creates a value at the end of block b.
func (f *Func) NewValue(b *Block, op Op, typ Type, args ...*Value) *Value {
	v := &Value{
		ID:    f.nextValueID,
		Op:    op,
		Type:  typ,
		Block: b,
	}
	f.nextValueID++
	for _, arg := range args {
		v.AddArg(arg)
	}
	b.Values = append(b.Values, v)
	return v
}

// NewValueLine is NewValue with a source line.
func (f *Func) NewValueLine(b *Block, op Op, typ Type, line uint32, args ...*Value) *Value {
	v := f.NewValue(b, op, typ, args...)
	v.Line = line
	return v
}

// NumBlocks returns the number of blocks in the function.
func (f *Func) NumBlocks() int { return len(f.Blocks) }

// NumValues returns the total number of values across all blocks.
func (f *Func) NumValues() int {
	n := 0
	for _, b := range f.Blocks {
		n += len(b.Values)
	}
	return n
}

// removeBlock drops b from the block list. b must be disconnected.
func (f *Func) removeBlock(b *Block) {
	for i, blk := range f.Blocks {
		if blk == b {
			f.Blocks = append(f.Blocks[:i], f.Blocks[i+1:]...)
			return
		}
	}
}

// moveToEnd moves b to the end of the block list.
func (f *Func) moveToEnd(b *Block) {
	f.removeBlock(b)
	f.Blocks = append(f.Blocks, b)
}
