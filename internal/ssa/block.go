package ssa

import "fmt"

// BlockKind describes how a basic block terminates.
type BlockKind int

const (
	BlockInvalid BlockKind = iota
	BlockPlain             // unconditional jump to Succs[0]
	BlockIf                // if Controls[0] != 0 then Succs[0] else Succs[1]
	BlockReturn            // function return; Controls[0] = result, absent for void
)

var blockKindNames = [...]string{
	BlockInvalid: "invalid",
	BlockPlain:   "plain",
	BlockIf:      "if",
	BlockReturn:  "ret",
}

func (k BlockKind) String() string {
	if int(k) < len(blockKindNames) {
		return blockKindNames[k]
	}
	return "unknown"
}

// Block is a basic block: a sequence of non-branching Values followed by a
// terminator given by Kind.
type Block struct {
	// ID is a unique identifier within the containing Func.
	ID ID

	// Hint names the control-flow role of the block ("entry", "then",
	// "else", "merge", "cond", "body", "after", "exit"). It only affects
	// printed labels.
	Hint string

	// Kind describes how this block terminates.
	Kind BlockKind

	// Controls holds the terminator's operand values.
	// For BlockIf: Controls[0] = branch condition.
	// For BlockReturn: Controls[0] = return value, if any.
	Controls []*Value

	// Succs lists the successor blocks.
	// For BlockIf: Succs[0] = then, Succs[1] = else.
	Succs []*Block

	// Preds lists the predecessor blocks.
	Preds []*Block

	// Values is the ordered list of values computed in this block.
	Values []*Value

	// Func is the function containing this block.
	Func *Func

	// Dominator tree, filled in by ComputeDom.
	Idom     *Block
	Dominees []*Block
}

// String returns a short string representation (e.g., "b3").
func (b *Block) String() string {
	return fmt.Sprintf("b%d", b.ID)
}

// Label returns the name the block is printed and emitted under, e.g.
// "entry" or "then3".
func (b *Block) Label() string {
	switch b.Hint {
	case "entry":
		return b.Hint
	case "":
		return b.String()
	}
	return fmt.Sprintf("%s%d", b.Hint, b.ID)
}

// AddSucc adds a successor block, updating both Succs and the successor's Preds.
func (b *Block) AddSucc(succ *Block) {
	b.Succs = append(b.Succs, succ)
	succ.Preds = append(succ.Preds, b)
}

// SetControl sets the branch or return operand.
func (b *Block) SetControl(v *Value) {
	b.Controls = []*Value{v}
	v.Uses++
}

// Terminated reports whether the block already ends in a jump, branch or
// return.
func (b *Block) Terminated() bool {
	return b.Kind != BlockPlain || len(b.Succs) > 0
}
