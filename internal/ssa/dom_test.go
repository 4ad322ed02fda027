package ssa

import "testing"

// newGraph returns a void function with n blocks besides the entry and
// the given edges. Block i of the result is Blocks[i]; 0 is the entry.
func newGraph(n int, edges [][2]int) *Func {
	f := NewFunc("g", nil, true)
	for i := 0; i < n; i++ {
		f.NewBlock(BlockPlain, "")
	}
	for _, e := range edges {
		f.Blocks[e[0]].AddSucc(f.Blocks[e[1]])
	}
	return f
}

func idoms(f *Func) []int {
	out := make([]int, len(f.Blocks))
	for i, b := range f.Blocks {
		out[i] = -1
		if b.Idom != nil {
			out[i] = int(b.Idom.ID)
		}
	}
	return out
}

func TestComputeDom(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		edges [][2]int
		want  []int // immediate dominator per block, -1 for none
	}{
		{
			name:  "line",
			n:     2,
			edges: [][2]int{{0, 1}, {1, 2}},
			want:  []int{-1, 0, 1},
		},
		{
			name:  "diamond",
			n:     3,
			edges: [][2]int{{0, 1}, {0, 2}, {1, 3}, {2, 3}},
			want:  []int{-1, 0, 0, 0},
		},
		{
			name:  "loop",
			n:     4,
			edges: [][2]int{{0, 1}, {1, 2}, {1, 3}, {2, 1}, {3, 4}},
			want:  []int{-1, 0, 1, 1, 3},
		},
		{
			name: "loop with break",
			// 1 cond, 2 body, 3 then(break), 4 latch, 5 after
			n:     5,
			edges: [][2]int{{0, 1}, {1, 2}, {1, 5}, {2, 3}, {2, 4}, {3, 5}, {4, 1}},
			want:  []int{-1, 0, 1, 2, 2, 1},
		},
		{
			name:  "unreachable",
			n:     3,
			edges: [][2]int{{0, 1}, {2, 1}, {2, 3}},
			want:  []int{-1, 0, -1, -1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGraph(tt.n, tt.edges)
			ComputeDom(f)
			got := idoms(f)
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("idoms = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestDominees(t *testing.T) {
	f := newGraph(3, [][2]int{{0, 1}, {0, 2}, {1, 3}, {2, 3}})
	ComputeDom(f)
	if n := len(f.Entry.Dominees); n != 3 {
		t.Errorf("entry dominates %d blocks directly, want 3", n)
	}
	if !Dominates(f.Entry, f.Blocks[3]) {
		t.Error("entry does not dominate the merge block")
	}
	if Dominates(f.Blocks[1], f.Blocks[3]) {
		t.Error("one arm of the diamond dominates the merge block")
	}
	if !Dominates(f.Blocks[2], f.Blocks[2]) {
		t.Error("a block does not dominate itself")
	}
}

func TestReversePostOrder(t *testing.T) {
	f := newGraph(4, [][2]int{{0, 1}, {1, 2}, {1, 3}, {2, 1}, {3, 4}})
	f.NewBlock(BlockPlain, "") // unreachable
	rpo := ReversePostOrder(f)
	if len(rpo) != 5 {
		t.Fatalf("len(rpo) = %d, want 5", len(rpo))
	}
	if rpo[0] != f.Entry {
		t.Errorf("rpo starts at %s, want the entry", rpo[0])
	}
	pos := make(map[*Block]int)
	for i, b := range rpo {
		pos[b] = i
	}
	// Every forward edge goes to a later block.
	for _, e := range [][2]int{{0, 1}, {1, 2}, {1, 3}, {3, 4}} {
		if pos[f.Blocks[e[0]]] >= pos[f.Blocks[e[1]]] {
			t.Errorf("edge %d -> %d goes backwards in %v", e[0], e[1], rpo)
		}
	}
}

func TestComputeDomLoweredLoop(t *testing.T) {
	m := buildFromSource(t, "int f(int n) { while (n > 0) { if (n == 3) break; n = n - 1; } return n; }")
	fn := getFunc(t, m, "f")
	ComputeDom(fn)
	var cond *Block
	for _, b := range fn.Blocks {
		if b.Hint == "cond" {
			cond = b
		}
	}
	if cond == nil {
		t.Fatal("no cond block")
	}
	for _, b := range fn.Blocks {
		if b == fn.Entry || b == fn.Exit {
			continue
		}
		if b != cond && !Dominates(cond, b) {
			t.Errorf("%s is not dominated by the loop condition", b.Label())
		}
	}
}
