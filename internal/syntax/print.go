package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes an indented tree dump of units to w, one node per line.
// Structural nodes print as "Name (line)"; leaves print as "KIND: text"
// (e.g. "IDENFR: x", "INTCON: 8") or "Type: int".
func Fprint(w io.Writer, units []*CompUnit) error {
	p := &printer{w: w}
	for _, u := range units {
		p.print(u)
	}
	return p.err
}

// Sprint returns the tree dump of units as a string.
func Sprint(units []*CompUnit) string {
	var sb strings.Builder
	Fprint(&sb, units)
	return sb.String()
}

type printer struct {
	w      io.Writer
	indent int
	err    error
}

func (p *printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

// open prints a structural node header and indents its children.
func (p *printer) open(name string, n Node) {
	p.printf("%s (%d)", name, n.Line())
	p.indent++
}

func (p *printer) close() {
	p.indent--
}

func (p *printer) leaf(k Kind, text string) {
	p.printf("%s: %s", k, text)
}

func (p *printer) print(n Node) {
	switch n := n.(type) {
	case *CompUnit:
		p.open("CompUnit", n)
		p.print(n.Item)
		p.close()

	case *Decl:
		p.open("Decl", n)
		name := "VarDecl"
		if n.Const {
			name = "ConstDecl"
		}
		p.open(name, n.Var)
		p.printf("Type: %s", n.Var.Type)
		for _, def := range n.Var.Defs {
			p.print(def)
		}
		p.close()
		p.close()

	case *VarDef:
		p.open("VarDef", n)
		p.leaf(_Ident, n.Name)
		for _, dim := range n.Dims {
			p.print(dim)
		}
		if n.Init != nil {
			p.print(n.Init)
		}
		p.close()

	case *ScalarInit:
		p.open("InitVal", n)
		p.print(n.X)
		p.close()

	case *AggregateInit:
		p.open("InitVal", n)
		for _, e := range n.Elems {
			p.print(e)
		}
		p.close()

	case *FuncDef:
		p.open("FuncDef", n)
		p.printf("Type: %s", n.Result)
		p.leaf(_Ident, n.Name)
		if n.Params != nil {
			p.print(n.Params)
		}
		p.print(n.Body)
		p.close()

	case *FuncFParams:
		p.open("FuncFParams", n)
		for _, param := range n.List {
			p.print(param)
		}
		p.close()

	case *FuncFParam:
		p.open("FuncFParam", n)
		p.printf("Type: %s", n.Type)
		p.leaf(_Ident, n.Name)
		p.close()

	case *Block:
		p.open("Block", n)
		for _, item := range n.Items {
			p.print(item)
		}
		p.close()

	case *AssignStmt:
		p.open("AssignStmt", n)
		p.print(n.LVal)
		p.print(n.X)
		p.close()

	case *ExpStmt:
		p.open("ExpStmt", n)
		if n.X != nil {
			p.print(n.X)
		}
		p.close()

	case *BlockStmt:
		p.open("BlockStmt", n)
		p.print(n.Block)
		p.close()

	case *IfStmt:
		p.open("IfStmt", n)
		p.print(n.Cond)
		p.print(n.Then)
		if n.Else != nil {
			p.leaf(_Else, _Else.Value())
			p.print(n.Else)
		}
		p.close()

	case *WhileStmt:
		p.open("WhileStmt", n)
		p.print(n.Cond)
		p.print(n.Body)
		p.close()

	case *BreakStmt:
		p.open("BreakStmt", n)
		p.close()

	case *ContinueStmt:
		p.open("ContinueStmt", n)
		p.close()

	case *ReturnStmt:
		p.open("ReturnStmt", n)
		if n.X != nil {
			p.print(n.X)
		}
		p.close()

	case *Exp:
		p.open("Exp", n)
		p.print(n.X)
		p.close()

	case *BinaryExp:
		if n.Op == Single {
			p.print(n.Leaf)
			return
		}
		p.open("BinaryExp", n)
		p.print(n.X)
		p.leaf(n.Op.Kind(), n.Op.String())
		p.print(n.Y)
		p.close()

	case *UnaryOperation:
		p.open("UnaryExp", n)
		p.leaf(n.Op.Kind(), n.Op.String())
		p.print(n.X)
		p.close()

	case *FuncCall:
		p.open("FuncCall", n)
		p.leaf(_Ident, n.Name)
		for _, arg := range n.Args {
			p.print(arg)
		}
		p.close()

	case *ParenExp:
		p.open("PrimaryExp", n)
		p.print(n.X)
		p.close()

	case *LVal:
		p.open("LVal", n)
		p.leaf(_Ident, n.Name)
		for _, idx := range n.Indices {
			p.print(idx)
		}
		p.close()

	case *Number:
		p.leaf(_IntLit, fmt.Sprint(n.Value))

	default:
		panic(fmt.Sprintf("syntax.Fprint: unexpected node %T", n))
	}
}
