package ssa

import (
	"fmt"
	"testing"
)

// pointer is an address in the interpreter: a slot and an offset into it.
type pointer struct {
	mem []int32
	off int64
}

// machine executes lowered modules. It exists so that tests can check
// control flow and scoping by behavior instead of by shape.
type machine struct {
	t       *testing.T
	globals map[*Global][]int32
	steps   int
}

const maxSteps = 1000000

func newMachine(t *testing.T, m *Module) *machine {
	mc := &machine{t: t, globals: make(map[*Global][]int32)}
	for _, g := range m.Globals {
		mem := make([]int32, g.Size())
		for i, n := range g.Init {
			mem[i] = int32(n)
		}
		mc.globals[g] = mem
	}
	return mc
}

// run calls the function called name and returns its result.
func run(t *testing.T, m *Module, name string, args ...int32) int32 {
	t.Helper()
	f := m.Func(name)
	if f == nil {
		t.Fatalf("function %s not found", name)
	}
	return newMachine(t, m).call(f, args)
}

func (mc *machine) fatalf(format string, args ...interface{}) {
	mc.t.Helper()
	mc.t.Fatalf("interp: %s", fmt.Sprintf(format, args...))
}

func (mc *machine) cell(p pointer) *int32 {
	if p.off < 0 || p.off >= int64(len(p.mem)) {
		mc.fatalf("access at offset %d of a %d-int object", p.off, len(p.mem))
	}
	return &p.mem[p.off]
}

func (mc *machine) call(f *Func, args []int32) int32 {
	if len(args) != len(f.Params) {
		mc.fatalf("%s called with %d args, want %d", f.Name, len(args), len(f.Params))
	}
	vals := make(map[*Value]int32)
	ptrs := make(map[*Value]pointer)

	b := f.Entry
	for {
		mc.steps++
		if mc.steps > maxSteps {
			mc.fatalf("step limit exceeded in %s", f.Name)
		}
		for _, v := range b.Values {
			var x, y int32
			if len(v.Args) > 0 {
				x = vals[v.Args[0]]
			}
			if len(v.Args) > 1 {
				y = vals[v.Args[1]]
			}
			switch v.Op {
			case OpConst:
				vals[v] = int32(v.AuxInt)
			case OpArg:
				vals[v] = args[v.AuxInt]
			case OpAdd:
				vals[v] = x + y
			case OpSub:
				vals[v] = x - y
			case OpMul:
				vals[v] = x * y
			case OpDiv, OpMod:
				if y == 0 {
					mc.fatalf("division by zero at line %d", v.Line)
				}
				if v.Op == OpDiv {
					vals[v] = x / y
				} else {
					vals[v] = x % y
				}
			case OpNeg:
				vals[v] = -x
			case OpEq:
				vals[v] = b2i(x == y)
			case OpNeq:
				vals[v] = b2i(x != y)
			case OpLt:
				vals[v] = b2i(x < y)
			case OpLeq:
				vals[v] = b2i(x <= y)
			case OpGt:
				vals[v] = b2i(x > y)
			case OpGeq:
				vals[v] = b2i(x >= y)
			case OpNot:
				vals[v] = b2i(x == 0)
			case OpAndL:
				vals[v] = b2i(x != 0 && y != 0)
			case OpOrL:
				vals[v] = b2i(x != 0 || y != 0)
			case OpAlloca:
				ptrs[v] = pointer{mem: make([]int32, v.AuxInt)}
			case OpGlobal:
				ptrs[v] = pointer{mem: mc.globals[v.Aux.(*Global)]}
			case OpLoad:
				vals[v] = *mc.cell(ptrs[v.Args[0]])
			case OpStore:
				*mc.cell(ptrs[v.Args[0]]) = y
			case OpZero:
				p := ptrs[v.Args[0]]
				for i := int64(0); i < v.AuxInt; i++ {
					*mc.cell(pointer{p.mem, p.off + i}) = 0
				}
			case OpIndexPtr:
				p := ptrs[v.Args[0]]
				ptrs[v] = pointer{p.mem, p.off + int64(y)}
			case OpCall:
				callArgs := make([]int32, len(v.Args))
				for i, a := range v.Args {
					callArgs[i] = vals[a]
				}
				r := mc.call(v.Aux.(*Func), callArgs)
				if v.Type == TypeInt {
					vals[v] = r
				}
			default:
				mc.fatalf("unhandled op %s", v.Op)
			}
		}

		switch b.Kind {
		case BlockPlain:
			b = b.Succs[0]
		case BlockIf:
			if vals[b.Controls[0]] != 0 {
				b = b.Succs[0]
			} else {
				b = b.Succs[1]
			}
		case BlockReturn:
			if len(b.Controls) > 0 {
				return vals[b.Controls[0]]
			}
			return 0
		default:
			mc.fatalf("block %s of kind %s", b, b.Kind)
		}
	}
}
