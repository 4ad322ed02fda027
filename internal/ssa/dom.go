package ssa

// postorder returns the blocks reachable from f.Entry in depth-first
// postorder.
func postorder(f *Func) []*Block {
	type frame struct {
		b    *Block
		next int // index of the next successor to visit
	}
	seen := make([]bool, f.nextBlockID)
	seen[f.Entry.ID] = true
	stack := []frame{{b: f.Entry}}
	var order []*Block
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < len(top.b.Succs) {
			s := top.b.Succs[top.next]
			top.next++
			if !seen[s.ID] {
				seen[s.ID] = true
				stack = append(stack, frame{b: s})
			}
			continue
		}
		order = append(order, top.b)
		stack = stack[:len(stack)-1]
	}
	return order
}

// ReversePostOrder returns the blocks of f in reverse postorder, starting
// at f.Entry. Unreachable blocks are excluded.
func ReversePostOrder(f *Func) []*Block {
	po := postorder(f)
	rpo := make([]*Block, len(po))
	for i, b := range po {
		rpo[len(po)-1-i] = b
	}
	return rpo
}

// ComputeDom computes the immediate dominator tree for f with the
// iterative algorithm of Cooper, Harvey and Kennedy. It fills in Idom and
// Dominees for all reachable blocks; unreachable blocks get a nil Idom.
func ComputeDom(f *Func) {
	for _, b := range f.Blocks {
		b.Idom = nil
		b.Dominees = nil
	}
	rpo := ReversePostOrder(f)
	num := make([]int, f.nextBlockID)
	for i, b := range rpo {
		num[b.ID] = i
	}

	intersect := func(x, y *Block) *Block {
		for x != y {
			for num[x.ID] > num[y.ID] {
				x = x.Idom
			}
			for num[y.ID] > num[x.ID] {
				y = y.Idom
			}
		}
		return x
	}

	// The entry is its own dominator while iterating.
	entry := rpo[0]
	entry.Idom = entry
	for changed := true; changed; {
		changed = false
		for _, b := range rpo[1:] {
			var idom *Block
			for _, p := range b.Preds {
				switch {
				case p.Idom == nil:
					// not processed yet, or unreachable
				case idom == nil:
					idom = p
				default:
					idom = intersect(p, idom)
				}
			}
			if idom != b.Idom {
				b.Idom = idom
				changed = true
			}
		}
	}
	entry.Idom = nil

	for _, b := range rpo[1:] {
		b.Idom.Dominees = append(b.Idom.Dominees, b)
	}
}

// Dominates reports whether a dominates b. ComputeDom must have been run.
func Dominates(a, b *Block) bool {
	for ; b != nil; b = b.Idom {
		if b == a {
			return true
		}
	}
	return false
}
