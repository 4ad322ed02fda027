package ssa

import (
	"strings"
	"testing"
)

// newVoidFunc returns a well-formed void function: entry jumps to exit.
func newVoidFunc(name string) *Func {
	f := NewFunc(name, nil, true)
	f.Exit = f.NewBlock(BlockReturn, "exit")
	f.Entry.AddSucc(f.Exit)
	return f
}

func TestVerifyValid(t *testing.T) {
	if err := Verify(newVoidFunc("f")); err != nil {
		t.Errorf("Verify: %v", err)
	}
	m := &Module{Funcs: []*Func{newVoidFunc("f"), newVoidFunc("g")}}
	if err := VerifyModule(m); err != nil {
		t.Errorf("VerifyModule: %v", err)
	}
}

func TestVerifyErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *Func)
		want   string
	}{
		{
			name: "alloca outside entry",
			mutate: func(f *Func) {
				v := f.NewValue(f.Exit, OpAlloca, TypePtr)
				v.AuxInt = 1
			},
			want: "Alloca outside the entry block",
		},
		{
			name: "wrong arg count",
			mutate: func(f *Func) {
				c := f.NewValue(f.Entry, OpConst, TypeInt)
				f.NewValue(f.Entry, OpAdd, TypeInt, c)
			},
			want: "1 args, want 2",
		},
		{
			name: "wrong type",
			mutate: func(f *Func) {
				f.NewValue(f.Entry, OpConst, TypePtr)
			},
			want: "type ptr, want int",
		},
		{
			name: "load through int",
			mutate: func(f *Func) {
				c := f.NewValue(f.Entry, OpConst, TypeInt)
				f.NewValue(f.Entry, OpLoad, TypeInt, c)
			},
			want: "Load through non-pointer",
		},
		{
			name: "use of void value",
			mutate: func(f *Func) {
				p := f.NewValue(f.Entry, OpAlloca, TypePtr)
				c := f.NewValue(f.Entry, OpConst, TypeInt)
				s := f.NewValue(f.Entry, OpStore, TypeNone, p, c)
				f.NewValue(f.Entry, OpNeg, TypeInt, s)
			},
			want: "has no value",
		},
		{
			name: "plain block with two succs",
			mutate: func(f *Func) {
				f.Entry.AddSucc(f.Exit)
			},
			want: "plain block has 2 succs, want 1",
		},
		{
			name: "missing pred",
			mutate: func(f *Func) {
				f.Exit.Preds = nil
			},
			want: "does not have b0 as predecessor",
		},
		{
			name: "return outside exit",
			mutate: func(f *Func) {
				f.Entry.Kind = BlockReturn
			},
			want: "return outside the exit block",
		},
		{
			name: "exit not last",
			mutate: func(f *Func) {
				b := f.NewBlock(BlockPlain, "")
				b.AddSucc(f.Exit)
			},
			want: "exit block is not the last block",
		},
		{
			name: "void function returns a value",
			mutate: func(f *Func) {
				f.Exit.SetControl(f.NewValue(f.Exit, OpConst, TypeInt))
			},
			want: "return has 1 controls, want 0",
		},
		{
			name: "foreign arg",
			mutate: func(f *Func) {
				other := NewFunc("other", nil, true)
				c := other.NewValue(other.Entry, OpConst, TypeInt)
				f.NewValue(f.Entry, OpNeg, TypeInt, c)
			},
			want: "not found in function",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newVoidFunc("f")
			tt.mutate(f)
			err := Verify(f)
			if err == nil {
				t.Fatalf("Verify succeeded, want error containing %q\n%s", tt.want, Sprint(f))
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestVerifyModuleDominance(t *testing.T) {
	// entry branches to then and else, which meet at exit. A value from
	// then is used at exit.
	f := NewFunc("f", nil, true)
	f.Exit = f.NewBlock(BlockReturn, "exit")
	then := f.NewBlock(BlockPlain, "then")
	els := f.NewBlock(BlockPlain, "else")
	f.moveToEnd(f.Exit)

	f.Entry.Kind = BlockIf
	f.Entry.SetControl(f.NewValue(f.Entry, OpConst, TypeInt))
	f.Entry.AddSucc(then)
	f.Entry.AddSucc(els)
	then.AddSucc(f.Exit)
	els.AddSucc(f.Exit)
	x := f.NewValue(then, OpConst, TypeInt)
	f.NewValue(f.Exit, OpNeg, TypeInt, x)

	if err := Verify(f); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	err := VerifyModule(&Module{Funcs: []*Func{f}})
	if err == nil || !strings.Contains(err.Error(), "which does not dominate") {
		t.Errorf("VerifyModule error = %v, want a dominance violation", err)
	}
}

func TestVerifyModuleUseBeforeDef(t *testing.T) {
	f := newVoidFunc("f")
	c := f.NewValue(f.Entry, OpConst, TypeInt)
	neg := f.NewValue(f.Entry, OpNeg, TypeInt, c)
	f.Entry.Values[0], f.Entry.Values[1] = neg, c

	err := VerifyModule(&Module{Funcs: []*Func{f}})
	if err == nil || !strings.Contains(err.Error(), "is defined after its use") {
		t.Errorf("VerifyModule error = %v, want a use before definition", err)
	}
}

func TestVerifyModuleCalls(t *testing.T) {
	tests := []struct {
		name string
		call func(m *Module, caller *Func) *Value
		want string
	}{
		{
			name: "callee outside module",
			call: func(m *Module, caller *Func) *Value {
				v := caller.NewValue(caller.Entry, OpCall, TypeNone)
				v.Aux = newVoidFunc("stray")
				return v
			},
			want: "call of a function outside the module",
		},
		{
			name: "arg count",
			call: func(m *Module, caller *Func) *Value {
				c := caller.NewValue(caller.Entry, OpConst, TypeInt)
				v := caller.NewValue(caller.Entry, OpCall, TypeNone, c)
				v.Aux = m.Func("callee")
				return v
			},
			want: "call of callee with 1 args, want 0",
		},
		{
			name: "void call used as int",
			call: func(m *Module, caller *Func) *Value {
				v := caller.NewValue(caller.Entry, OpCall, TypeInt)
				v.Aux = m.Func("callee")
				return v
			},
			want: "call of callee has type int",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller := newVoidFunc("caller")
			m := &Module{Funcs: []*Func{caller, newVoidFunc("callee")}}
			tt.call(m, caller)
			err := VerifyModule(m)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("VerifyModule error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestVerifyModuleNames(t *testing.T) {
	m := &Module{
		Globals: []*Global{
			{Name: "x"},
			{Name: "a", Dims: []int64{3}, Init: []int64{1, 2}},
		},
		Funcs: []*Func{newVoidFunc("x")},
	}
	err := VerifyModule(m)
	if err == nil {
		t.Fatal("VerifyModule succeeded")
	}
	for _, want := range []string{
		"duplicate module-level name x",
		"global a: 2 initial values for 3 ints",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error = %v, want it to contain %q", err, want)
		}
	}
}
