package syntax

import (
	"encoding/json"
	"fmt"
	"io"
)

// FprintJSON writes a JSON representation of units to w.
func FprintJSON(w io.Writer, units []*CompUnit) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	list := make([]interface{}, len(units))
	for i, u := range units {
		list[i] = toJSON(u)
	}
	return enc.Encode(list)
}

type object = map[string]interface{}

func toJSON(n Node) interface{} {
	switch n := n.(type) {
	case *CompUnit:
		return object{"type": "CompUnit", "line": n.line, "item": toJSON(n.Item)}

	case *Decl:
		return object{
			"type":  "Decl",
			"line":  n.line,
			"const": n.Const,
			"btype": n.Var.Type.String(),
			"defs":  mapSlice(n.Var.Defs),
		}

	case *VarDef:
		m := object{"type": "VarDef", "line": n.line, "name": n.Name}
		if len(n.Dims) > 0 {
			m["dims"] = mapSlice(n.Dims)
		}
		if n.Init != nil {
			m["init"] = toJSON(n.Init)
		}
		return m

	case *ScalarInit:
		return object{"type": "InitVal", "line": n.line, "exp": toJSON(n.X)}

	case *AggregateInit:
		return object{"type": "InitVal", "line": n.line, "elems": mapSlice(n.Elems)}

	case *FuncDef:
		m := object{
			"type":   "FuncDef",
			"line":   n.line,
			"result": n.Result.String(),
			"name":   n.Name,
			"body":   toJSON(n.Body),
		}
		if n.Params != nil {
			m["params"] = mapSlice(n.Params.List)
		}
		return m

	case *FuncFParam:
		return object{"type": "FuncFParam", "line": n.line, "btype": n.Type.String(), "name": n.Name}

	case *Block:
		return object{"type": "Block", "line": n.line, "items": mapSlice(n.Items)}

	case *AssignStmt:
		return object{"type": "AssignStmt", "line": n.line, "lval": toJSON(n.LVal), "exp": toJSON(n.X)}

	case *ExpStmt:
		m := object{"type": "ExpStmt", "line": n.line}
		if n.X != nil {
			m["exp"] = toJSON(n.X)
		}
		return m

	case *BlockStmt:
		return object{"type": "BlockStmt", "line": n.line, "block": toJSON(n.Block)}

	case *IfStmt:
		m := object{"type": "IfStmt", "line": n.line, "cond": toJSON(n.Cond), "then": toJSON(n.Then)}
		if n.Else != nil {
			m["else"] = toJSON(n.Else)
		}
		return m

	case *WhileStmt:
		return object{"type": "WhileStmt", "line": n.line, "cond": toJSON(n.Cond), "body": toJSON(n.Body)}

	case *BreakStmt:
		return object{"type": "BreakStmt", "line": n.line}

	case *ContinueStmt:
		return object{"type": "ContinueStmt", "line": n.line}

	case *ReturnStmt:
		m := object{"type": "ReturnStmt", "line": n.line}
		if n.X != nil {
			m["exp"] = toJSON(n.X)
		}
		return m

	case *Exp:
		return toJSON(n.X)

	case *BinaryExp:
		if n.Op == Single {
			return toJSON(n.Leaf)
		}
		return object{"type": "BinaryExp", "line": n.line, "op": n.Op.String(), "x": toJSON(n.X), "y": toJSON(n.Y)}

	case *UnaryOperation:
		return object{"type": "UnaryExp", "line": n.line, "op": n.Op.String(), "x": toJSON(n.X)}

	case *FuncCall:
		return object{"type": "FuncCall", "line": n.line, "name": n.Name, "args": mapSlice(n.Args)}

	case *ParenExp:
		return object{"type": "ParenExp", "line": n.line, "exp": toJSON(n.X)}

	case *LVal:
		m := object{"type": "LVal", "line": n.line, "name": n.Name}
		if len(n.Indices) > 0 {
			m["indices"] = mapSlice(n.Indices)
		}
		return m

	case *Number:
		return object{"type": "Number", "line": n.line, "value": n.Value}
	}
	panic(fmt.Sprintf("syntax.toJSON: unexpected node %T", n))
}

func mapSlice[T Node](list []T) []interface{} {
	out := make([]interface{}, len(list))
	for i, n := range list {
		out[i] = toJSON(n)
	}
	return out
}
