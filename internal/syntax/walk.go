package syntax

import "fmt"

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(node Node) bool

// Walk traverses an AST in depth-first order.
// Leaf wrappers (BinaryExp with Op == Single) are visited like any other node.
func Walk(node Node, v Visitor) {
	if node == nil || !v(node) {
		return
	}

	switch n := node.(type) {
	case *CompUnit:
		Walk(n.Item, v)

	case *Decl:
		for _, def := range n.Var.Defs {
			Walk(def, v)
		}

	case *VarDef:
		for _, dim := range n.Dims {
			Walk(dim, v)
		}
		if n.Init != nil {
			Walk(n.Init, v)
		}

	case *ScalarInit:
		Walk(n.X, v)

	case *AggregateInit:
		for _, e := range n.Elems {
			Walk(e, v)
		}

	case *FuncDef:
		if n.Params != nil {
			Walk(n.Params, v)
		}
		Walk(n.Body, v)

	case *FuncFParams:
		for _, param := range n.List {
			Walk(param, v)
		}

	case *Block:
		for _, item := range n.Items {
			Walk(item, v)
		}

	case *AssignStmt:
		Walk(n.LVal, v)
		Walk(n.X, v)

	case *ExpStmt:
		if n.X != nil {
			Walk(n.X, v)
		}

	case *BlockStmt:
		Walk(n.Block, v)

	case *IfStmt:
		Walk(n.Cond, v)
		Walk(n.Then, v)
		if n.Else != nil {
			Walk(n.Else, v)
		}

	case *WhileStmt:
		Walk(n.Cond, v)
		Walk(n.Body, v)

	case *ReturnStmt:
		if n.X != nil {
			Walk(n.X, v)
		}

	case *Exp:
		Walk(n.X, v)

	case *BinaryExp:
		if n.Op == Single {
			Walk(n.Leaf, v)
		} else {
			Walk(n.X, v)
			Walk(n.Y, v)
		}

	case *UnaryOperation:
		Walk(n.X, v)

	case *FuncCall:
		for _, arg := range n.Args {
			Walk(arg, v)
		}

	case *ParenExp:
		Walk(n.X, v)

	case *LVal:
		for _, idx := range n.Indices {
			Walk(idx, v)
		}

	case *FuncFParam, *BreakStmt, *ContinueStmt, *Number:
		// leaves

	default:
		panic(fmt.Sprintf("syntax.Walk: unexpected node %T", n))
	}
}
