package ssa

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes a function to w.
//
// Format, for int id(int a) { return a; }:
//
//	func id(a) int:
//	  entry:
//	    v0 = Alloca <ptr> [1]
//	    v1 = Const <int> [0]
//	    Store v0 v1
//	    v3 = Arg <int> [0] {a}
//	    v4 = Alloca <ptr> [1] {a}
//	    Store v4 v3
//	    v6 = Load <int> v4
//	    Store v0 v6
//	    Plain -> exit1
//	  exit1: <- entry
//	    v8 = Load <int> v0
//	    Return v8
func Fprint(w io.Writer, f *Func) {
	result := " int"
	if f.Void {
		result = ""
	}
	fmt.Fprintf(w, "func %s(%s)%s:\n", f.Name, strings.Join(f.Params, ", "), result)

	for _, b := range f.Blocks {
		fprintBlock(w, b)
	}
}

func fprintBlock(w io.Writer, b *Block) {
	preds := ""
	if len(b.Preds) > 0 {
		labels := make([]string, len(b.Preds))
		for i, p := range b.Preds {
			labels[i] = p.Label()
		}
		preds = " <- " + strings.Join(labels, " ")
	}
	fmt.Fprintf(w, "  %s:%s\n", b.Label(), preds)

	for _, v := range b.Values {
		fmt.Fprintf(w, "    %s\n", formatValue(v))
	}
	fmt.Fprintf(w, "    %s\n", formatTerminator(b))
}

func formatValue(v *Value) string {
	var sb strings.Builder

	if v.Op.IsVoid() || v.Type == TypeNone {
		sb.WriteString(v.Op.String())
	} else {
		fmt.Fprintf(&sb, "v%d = %s <%s>", v.ID, v.Op, v.Type)
	}

	switch v.Op {
	case OpConst, OpAlloca, OpZero, OpArg:
		fmt.Fprintf(&sb, " [%d]", v.AuxInt)
	}

	switch aux := v.Aux.(type) {
	case *Func:
		fmt.Fprintf(&sb, " {%s}", aux.Name)
	case *Global:
		fmt.Fprintf(&sb, " {@%s}", aux.Name)
	case string:
		fmt.Fprintf(&sb, " {%s}", aux)
	}

	for _, arg := range v.Args {
		fmt.Fprintf(&sb, " %s", arg)
	}
	return sb.String()
}

func formatTerminator(b *Block) string {
	switch b.Kind {
	case BlockPlain:
		if len(b.Succs) > 0 {
			return "Plain -> " + b.Succs[0].Label()
		}
		return "Plain"
	case BlockIf:
		if len(b.Controls) > 0 && len(b.Succs) >= 2 {
			return fmt.Sprintf("If %s -> %s %s", b.Controls[0], b.Succs[0].Label(), b.Succs[1].Label())
		}
		return "If (malformed)"
	case BlockReturn:
		if len(b.Controls) > 0 {
			return "Return " + b.Controls[0].String()
		}
		return "Return"
	}
	return "???"
}

// Sprint returns the printed form of a function.
func Sprint(f *Func) string {
	var sb strings.Builder
	Fprint(&sb, f)
	return sb.String()
}

// FprintModule writes the globals of m followed by its functions.
//
//	global n
//	const N [3] = {1, 2, 3}
func FprintModule(w io.Writer, m *Module) {
	for _, g := range m.Globals {
		kw := "global"
		if g.Const {
			kw = "const"
		}
		fmt.Fprintf(w, "%s %s", kw, g.Name)
		for _, d := range g.Dims {
			fmt.Fprintf(w, " [%d]", d)
		}
		if g.Init != nil {
			vals := make([]string, len(g.Init))
			for i, n := range g.Init {
				vals[i] = fmt.Sprint(n)
			}
			fmt.Fprintf(w, " = {%s}", strings.Join(vals, ", "))
		}
		fmt.Fprintln(w)
	}
	for i, f := range m.Funcs {
		if i > 0 || len(m.Globals) > 0 {
			fmt.Fprintln(w)
		}
		Fprint(w, f)
	}
}

// SprintModule returns the printed form of a module.
func SprintModule(m *Module) string {
	var sb strings.Builder
	FprintModule(&sb, m)
	return sb.String()
}
