package ssa

import (
	"fmt"
	"strings"
)

// verifier collects violations.
type verifier struct {
	errs []string
}

func (v *verifier) add(format string, args ...interface{}) {
	v.errs = append(v.errs, fmt.Sprintf(format, args...))
}

func (v *verifier) err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return fmt.Errorf("IR verification failed:\n  %s", strings.Join(v.errs, "\n  "))
}

// Verify checks the structural integrity of a function. It returns an error
// describing all violations found, or nil.
func Verify(f *Func) error {
	v := &verifier{}
	v.verifyFunc(f)
	return v.err()
}

// VerifyModule runs Verify and the dominance checks on every function and
// checks names and calls across the module.
func VerifyModule(m *Module) error {
	v := &verifier{}

	names := make(map[string]bool)
	for _, g := range m.Globals {
		if names[g.Name] {
			v.add("duplicate module-level name %s", g.Name)
		}
		names[g.Name] = true
		if g.Init != nil && int64(len(g.Init)) != g.Size() {
			v.add("global %s: %d initial values for %d ints", g.Name, len(g.Init), g.Size())
		}
	}
	funcs := make(map[*Func]bool)
	for _, f := range m.Funcs {
		if names[f.Name] {
			v.add("duplicate module-level name %s", f.Name)
		}
		names[f.Name] = true
		funcs[f] = true
	}

	for _, f := range m.Funcs {
		n := len(v.errs)
		v.verifyFunc(f)
		if len(v.errs) == n {
			// Dominance is only meaningful on a well-formed graph.
			ComputeDom(f)
			v.verifyDom(f)
		}
		for _, b := range f.Blocks {
			for _, val := range b.Values {
				if val.Op != OpCall {
					continue
				}
				callee, ok := val.Aux.(*Func)
				switch {
				case !ok || !funcs[callee]:
					v.add("func %s, %s: call of a function outside the module", f.Name, val)
				case len(val.Args) != len(callee.Params):
					v.add("func %s, %s: call of %s with %d args, want %d", f.Name, val, callee.Name, len(val.Args), len(callee.Params))
				case callee.Void != (val.Type == TypeNone):
					v.add("func %s, %s: call of %s has type %s", f.Name, val, callee.Name, val.Type)
				}
			}
		}
	}
	return v.err()
}

func (v *verifier) verifyFunc(f *Func) {
	if f.Entry == nil || len(f.Blocks) == 0 {
		v.add("func %s: no entry block", f.Name)
		return
	}
	if f.Blocks[0] != f.Entry {
		v.add("func %s: Blocks[0] is not the entry block", f.Name)
	}
	if len(f.Entry.Preds) != 0 {
		v.add("func %s: entry block has %d predecessors, want 0", f.Name, len(f.Entry.Preds))
	}
	if f.Exit == nil || f.Blocks[len(f.Blocks)-1] != f.Exit {
		v.add("func %s: exit block is not the last block", f.Name)
	}
	if !f.Void && f.RetSlot == nil {
		v.add("func %s: int function has no return slot", f.Name)
	}

	blockSet := make(map[*Block]bool, len(f.Blocks))
	valueSet := make(map[*Value]bool)
	for _, b := range f.Blocks {
		blockSet[b] = true
		for _, val := range b.Values {
			valueSet[val] = true
		}
	}

	for _, b := range f.Blocks {
		if b.Func != f {
			v.add("func %s, %s: block Func pointer mismatch", f.Name, b)
		}
		for _, val := range b.Values {
			v.verifyValue(f, b, val, valueSet)
		}

		switch b.Kind {
		case BlockPlain:
			if len(b.Succs) != 1 {
				v.add("func %s, %s: plain block has %d succs, want 1", f.Name, b, len(b.Succs))
			}
			if len(b.Controls) != 0 {
				v.add("func %s, %s: plain block has controls", f.Name, b)
			}
		case BlockIf:
			if len(b.Controls) != 1 {
				v.add("func %s, %s: if block has %d controls, want 1", f.Name, b, len(b.Controls))
			}
			if len(b.Succs) != 2 {
				v.add("func %s, %s: if block has %d succs, want 2", f.Name, b, len(b.Succs))
			}
		case BlockReturn:
			if b != f.Exit {
				v.add("func %s, %s: return outside the exit block", f.Name, b)
			}
			if len(b.Succs) != 0 {
				v.add("func %s, %s: return block has %d succs, want 0", f.Name, b, len(b.Succs))
			}
			want := 1
			if f.Void {
				want = 0
			}
			if len(b.Controls) != want {
				v.add("func %s, %s: return has %d controls, want %d", f.Name, b, len(b.Controls), want)
			}
		default:
			v.add("func %s, %s: block has invalid kind", f.Name, b)
		}

		for _, c := range b.Controls {
			switch {
			case c == nil:
				v.add("func %s, %s: nil control", f.Name, b)
			case !valueSet[c]:
				v.add("func %s, %s: control %s not found in function", f.Name, b, c)
			case c.Type != TypeInt:
				v.add("func %s, %s: control %s has type %s", f.Name, b, c, c.Type)
			}
		}

		for _, succ := range b.Succs {
			if !blockSet[succ] {
				v.add("func %s, %s: successor %s not in function", f.Name, b, succ)
			} else if !containsBlock(succ.Preds, b) {
				v.add("func %s, %s: successor %s does not have %s as predecessor", f.Name, b, succ, b)
			}
		}
		for _, pred := range b.Preds {
			if !blockSet[pred] {
				v.add("func %s, %s: predecessor %s not in function", f.Name, b, pred)
			} else if !containsBlock(pred.Succs, b) {
				v.add("func %s, %s: predecessor %s does not have %s as successor", f.Name, b, pred, b)
			}
		}
	}
}

func (v *verifier) verifyValue(f *Func, b *Block, val *Value, valueSet map[*Value]bool) {
	if val.Block != b {
		v.add("func %s, %s, %s: value Block pointer is %s, want %s", f.Name, b, val, val.Block, b)
	}
	info := val.Op.Info()
	if val.Op <= OpInvalid || val.Op >= opCount {
		v.add("func %s, %s, %s: invalid op", f.Name, b, val)
		return
	}
	if info.NArgs >= 0 && len(val.Args) != info.NArgs {
		v.add("func %s, %s, %s (%s): %d args, want %d", f.Name, b, val, val.Op, len(val.Args), info.NArgs)
	}
	for i, arg := range val.Args {
		switch {
		case arg == nil:
			v.add("func %s, %s, %s: arg[%d] is nil", f.Name, b, val, i)
		case !valueSet[arg]:
			v.add("func %s, %s, %s: arg[%d] (%s) not found in function", f.Name, b, val, i, arg)
		case arg.Type == TypeNone:
			v.add("func %s, %s, %s: arg[%d] (%s) has no value", f.Name, b, val, i, arg)
		}
	}

	want := TypeInt
	switch val.Op {
	case OpAlloca, OpGlobal, OpIndexPtr:
		want = TypePtr
	case OpStore, OpZero:
		want = TypeNone
	case OpCall:
		want = val.Type // checked against the callee by VerifyModule
	}
	if val.Type != want {
		v.add("func %s, %s, %s (%s): type %s, want %s", f.Name, b, val, val.Op, val.Type, want)
	}

	switch val.Op {
	case OpAlloca, OpArg:
		if b != f.Entry {
			v.add("func %s, %s, %s: %s outside the entry block", f.Name, b, val, val.Op)
		}
	case OpGlobal:
		if _, ok := val.Aux.(*Global); !ok {
			v.add("func %s, %s, %s: Global without *Global aux", f.Name, b, val)
		}
	case OpLoad, OpStore, OpZero, OpIndexPtr:
		if len(val.Args) > 0 && val.Args[0] != nil && val.Args[0].Type != TypePtr {
			v.add("func %s, %s, %s: %s through non-pointer %s", f.Name, b, val, val.Op, val.Args[0])
		}
	}
}

// verifyDom checks that every argument and control is defined before its
// use: earlier in the same block, or in a dominating block. ComputeDom must
// have been called.
func (v *verifier) verifyDom(f *Func) {
	index := make(map[*Value]int)
	for _, b := range f.Blocks {
		for i, val := range b.Values {
			index[val] = i
		}
	}
	reachable := func(b *Block) bool { return b == f.Entry || b.Idom != nil }

	for _, b := range f.Blocks {
		if !reachable(b) {
			continue
		}
		for _, val := range b.Values {
			for i, arg := range val.Args {
				switch {
				case arg.Block == b:
					if index[arg] >= index[val] {
						v.add("func %s, %s, %s: arg[%d] %s is defined after its use", f.Name, b, val, i, arg)
					}
				case !Dominates(arg.Block, b):
					v.add("func %s, %s, %s: arg[%d] %s defined in %s which does not dominate %s",
						f.Name, b, val, i, arg, arg.Block, b)
				}
			}
		}
		for i, c := range b.Controls {
			if c.Block != b && !Dominates(c.Block, b) {
				v.add("func %s, %s: control[%d] %s defined in %s which does not dominate %s",
					f.Name, b, i, c, c.Block, b)
			}
		}
	}
}

func containsBlock(bs []*Block, b *Block) bool {
	for _, x := range bs {
		if x == b {
			return true
		}
	}
	return false
}
