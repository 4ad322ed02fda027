package syntax

import (
	"fmt"
	"strconv"
)

// Parser builds an AST from a token list.
//
// Productions return an error instead of recording it. Errors travel up to
// one of two recovery points: the block item loop, which drops the tokens
// left on the line of the error, and the top-level loop, which drops one
// token.
type Parser struct {
	toks []Token
	pos  int    // index of tok in toks
	tok  Token  // current token; Kind is EOF past the end
	line uint32 // line of the last consumed token

	errs []*Error
}

// NewParser returns a parser that owns toks.
func NewParser(toks []Token) *Parser {
	p := &Parser{toks: toks, pos: -1}
	p.next()
	return p
}

// Parse parses toks as a whole program and returns the units it could
// build together with every syntax error it recovered from.
func Parse(toks []Token) ([]*CompUnit, []*Error) {
	p := NewParser(toks)
	units := p.Parse()
	return units, p.Errors()
}

// Errors returns the syntax errors recorded so far, in source order.
func (p *Parser) Errors() []*Error {
	return p.errs
}

// ----------------------------------------------------------------------------
// Token navigation

// peek returns the token n positions after the current one.
func (p *Parser) peek(n int) Token {
	if i := p.pos + n; i < len(p.toks) {
		return p.toks[i]
	}
	return p.eof()
}

func (p *Parser) eof() Token {
	var line uint32 = 1
	if len(p.toks) > 0 {
		line = p.toks[len(p.toks)-1].Line
	}
	return Token{Kind: _EOF, Line: line}
}

// next advances to the next token.
func (p *Parser) next() {
	if p.pos >= 0 && p.pos < len(p.toks) {
		p.line = p.tok.Line
	}
	if p.pos < len(p.toks) {
		p.pos++
	}
	p.tok = p.peek(0)
}

// got consumes the current token if it is k.
func (p *Parser) got(k Kind) bool {
	if p.tok.Kind == k {
		p.next()
		return true
	}
	return false
}

// want consumes the current token if it is k and fails otherwise.
// A missing ';' is reported on the line of the construct it terminates.
func (p *Parser) want(k Kind) error {
	if !p.got(k) {
		err := p.errorf("expected '%s'", k.Value())
		if k == _Semi && p.line != 0 {
			err.Line = p.line
		}
		return err
	}
	return nil
}

// at returns the node header for a node opened by the current token.
func (p *Parser) at() node {
	return node{line: p.tok.Line}
}

// ----------------------------------------------------------------------------
// Error handling

// errorf returns a syntax error at the current token. It does not record it.
func (p *Parser) errorf(format string, args ...interface{}) *Error {
	return &Error{Line: p.tok.Line, Msg: fmt.Sprintf(format, args...)}
}

func (p *Parser) record(err error) {
	e, ok := err.(*Error)
	if !ok {
		e = &Error{Line: p.tok.Line, Msg: err.Error()}
	}
	p.errs = append(p.errs, e)
}

// resync drops the tokens left on the line of err. It always moves past
// start, the position at which the failed item began.
func (p *Parser) resync(err error, start int) {
	line := p.tok.Line
	if e, ok := err.(*Error); ok {
		line = e.Line
	}
	for p.tok.Kind != _EOF && p.tok.Line == line {
		p.next()
	}
	if p.pos == start {
		p.next()
	}
}

// ----------------------------------------------------------------------------
// Compilation units

// Parse parses the whole token list.
//
//	CompUnit = { Decl | FuncDef } .
func (p *Parser) Parse() []*CompUnit {
	var units []*CompUnit
	for p.tok.Kind != _EOF {
		u, err := p.compUnit()
		if err != nil {
			p.record(err)
			p.next()
			continue
		}
		units = append(units, u)
	}
	return units
}

func (p *Parser) compUnit() (*CompUnit, error) {
	u := &CompUnit{node: p.at()}
	switch p.tok.Kind {
	case _Int, _Void:
		if p.peek(1).Kind == _Ident && p.peek(2).Kind == _Lparen {
			fd, err := p.funcDef()
			if err != nil {
				return nil, err
			}
			u.Item = fd
			return u, nil
		}
		if p.tok.Kind == _Void {
			return nil, p.errorf("invalid type")
		}
		fallthrough
	case _Const:
		d, err := p.decl()
		if err != nil {
			return nil, err
		}
		u.Item = d
		return u, nil
	}
	return nil, p.errorf("expected a declaration or function definition")
}

// ----------------------------------------------------------------------------
// Declarations

// decl parses a variable or constant declaration.
//
//	Decl = [ "const" ] BType VarDef { "," VarDef } ";" .
func (p *Parser) decl() (*Decl, error) {
	d := &Decl{node: p.at()}
	d.Const = p.got(_Const)

	vd := &VarDecl{node: p.at()}
	typ, err := p.btype()
	if err != nil {
		return nil, err
	}
	vd.Type = typ
	for {
		def, err := p.varDef(d.Const)
		if err != nil {
			return nil, err
		}
		vd.Defs = append(vd.Defs, def)
		if !p.got(_Comma) {
			break
		}
	}
	if err := p.want(_Semi); err != nil {
		return nil, err
	}
	d.Var = vd
	return d, nil
}

func (p *Parser) btype() (BType, error) {
	if !p.got(_Int) {
		return 0, p.errorf("expected a type")
	}
	return TypeInt, nil
}

// ident consumes an identifier and returns its spelling.
func (p *Parser) ident() (string, error) {
	if p.tok.Kind != _Ident {
		return "", p.errorf("expected an identifier")
	}
	name := p.tok.Text
	p.next()
	return name, nil
}

// varDef parses one variable or constant definition.
//
//	VarDef = ident { "[" Exp "]" } [ "=" InitVal ] .
func (p *Parser) varDef(isConst bool) (*VarDef, error) {
	def := &VarDef{node: p.at()}
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	def.Name = name

	for p.got(_Lbrack) {
		dim, err := p.exp()
		if err != nil {
			return nil, err
		}
		if err := p.want(_Rbrack); err != nil {
			return nil, err
		}
		def.Dims = append(def.Dims, dim)
	}

	if p.got(_Assign) {
		init, err := p.initVal()
		if err != nil {
			return nil, err
		}
		def.Init = init
	} else if isConst {
		return nil, p.errorf("expected '=' in constant definition")
	}
	return def, nil
}

// initVal parses a scalar or brace-enclosed initializer.
//
//	InitVal = Exp | "{" [ InitVal { "," InitVal } ] "}" .
func (p *Parser) initVal() (InitVal, error) {
	if p.tok.Kind != _Lbrace {
		init := &ScalarInit{node: p.at()}
		x, err := p.exp()
		if err != nil {
			return nil, err
		}
		init.X = x
		return init, nil
	}

	agg := &AggregateInit{node: p.at()}
	p.next()
	if p.got(_Rbrace) {
		return agg, nil
	}
	for {
		elem, err := p.initVal()
		if err != nil {
			return nil, err
		}
		agg.Elems = append(agg.Elems, elem)
		if !p.got(_Comma) {
			break
		}
	}
	if err := p.want(_Rbrace); err != nil {
		return nil, err
	}
	return agg, nil
}

// ----------------------------------------------------------------------------
// Functions

// funcDef parses a function definition.
//
//	FuncDef = ( "int" | "void" ) ident "(" [ FuncFParams ] ")" Block .
func (p *Parser) funcDef() (*FuncDef, error) {
	fd := &FuncDef{node: p.at()}
	switch p.tok.Kind {
	case _Int:
		fd.Result = FuncInt
	case _Void:
		fd.Result = FuncVoid
	default:
		return nil, p.errorf("expected function return type ('int' or 'void')")
	}
	p.next()

	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	fd.Name = name

	if err := p.want(_Lparen); err != nil {
		return nil, err
	}
	if p.tok.Kind != _Rparen {
		params, err := p.funcFParams()
		if err != nil {
			return nil, err
		}
		fd.Params = params
	}
	if err := p.want(_Rparen); err != nil {
		return nil, err
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}
	fd.Body = body
	return fd, nil
}

// funcFParams parses a non-empty parameter list.
//
//	FuncFParams = BType ident { "," BType ident } .
func (p *Parser) funcFParams() (*FuncFParams, error) {
	params := &FuncFParams{node: p.at()}
	for {
		param := &FuncFParam{node: p.at()}
		typ, err := p.btype()
		if err != nil {
			return nil, err
		}
		name, err := p.ident()
		if err != nil {
			return nil, err
		}
		param.Type = typ
		param.Name = name
		params.List = append(params.List, param)
		if !p.got(_Comma) {
			break
		}
	}
	return params, nil
}

// ----------------------------------------------------------------------------
// Statements

// block parses a brace-delimited block. A failing item is recorded and the
// tokens left on the error's line are skipped; the block itself only fails
// on its braces.
//
//	Block = "{" { Decl | Stmt } "}" .
func (p *Parser) block() (*Block, error) {
	b := &Block{node: p.at()}
	if err := p.want(_Lbrace); err != nil {
		return nil, err
	}
	for p.tok.Kind != _Rbrace && p.tok.Kind != _EOF {
		start := p.pos
		item, err := p.blockItem()
		if err != nil {
			p.record(err)
			p.resync(err, start)
			continue
		}
		b.Items = append(b.Items, item)
	}
	if err := p.want(_Rbrace); err != nil {
		return nil, err
	}
	return b, nil
}

func (p *Parser) blockItem() (BlockItem, error) {
	if p.tok.Kind == _Int || p.tok.Kind == _Const {
		return p.decl()
	}
	return p.stmt()
}

func (p *Parser) stmt() (Stmt, error) {
	n := p.at()
	switch p.tok.Kind {
	case _Lbrace:
		blk, err := p.block()
		if err != nil {
			return nil, err
		}
		return &BlockStmt{node: n, Block: blk}, nil

	case _If:
		return p.ifStmt()

	case _While:
		return p.whileStmt()

	case _Break:
		p.next()
		if err := p.want(_Semi); err != nil {
			return nil, err
		}
		return &BreakStmt{node: n}, nil

	case _Continue:
		p.next()
		if err := p.want(_Semi); err != nil {
			return nil, err
		}
		return &ContinueStmt{node: n}, nil

	case _Return:
		p.next()
		s := &ReturnStmt{node: n}
		if p.tok.Kind != _Semi {
			x, err := p.exp()
			if err != nil {
				return nil, err
			}
			s.X = x
		}
		if err := p.want(_Semi); err != nil {
			return nil, err
		}
		return s, nil

	case _Semi:
		p.next()
		return &ExpStmt{node: n}, nil
	}

	if p.isAssign() {
		s := &AssignStmt{node: n}
		lv, err := p.lval()
		if err != nil {
			return nil, err
		}
		if err := p.want(_Assign); err != nil {
			return nil, err
		}
		x, err := p.exp()
		if err != nil {
			return nil, err
		}
		if err := p.want(_Semi); err != nil {
			return nil, err
		}
		s.LVal, s.X = lv, x
		return s, nil
	}

	s := &ExpStmt{node: n}
	x, err := p.exp()
	if err != nil {
		return nil, err
	}
	if err := p.want(_Semi); err != nil {
		return nil, err
	}
	s.X = x
	return s, nil
}

// isAssign reports whether an '=' occurs before the next ';'.
// It does not consume tokens.
func (p *Parser) isAssign() bool {
	for i := 0; ; i++ {
		switch p.peek(i).Kind {
		case _Assign:
			return true
		case _Semi, _EOF:
			return false
		}
	}
}

// ifStmt parses an if statement. An else binds to the nearest if.
//
//	IfStmt = "if" "(" Exp ")" Stmt [ "else" Stmt ] .
func (p *Parser) ifStmt() (*IfStmt, error) {
	s := &IfStmt{node: p.at()}
	p.next()
	if err := p.want(_Lparen); err != nil {
		return nil, err
	}
	cond, err := p.exp()
	if err != nil {
		return nil, err
	}
	if err := p.want(_Rparen); err != nil {
		return nil, err
	}
	then, err := p.stmt()
	if err != nil {
		return nil, err
	}
	s.Cond, s.Then = cond, then

	// else binds to the nearest if: this one.
	if p.got(_Else) {
		els, err := p.stmt()
		if err != nil {
			return nil, err
		}
		s.Else = els
	}
	return s, nil
}

// whileStmt parses a while loop.
//
//	WhileStmt = "while" "(" Exp ")" Stmt .
func (p *Parser) whileStmt() (*WhileStmt, error) {
	s := &WhileStmt{node: p.at()}
	p.next()
	if err := p.want(_Lparen); err != nil {
		return nil, err
	}
	cond, err := p.exp()
	if err != nil {
		return nil, err
	}
	if err := p.want(_Rparen); err != nil {
		return nil, err
	}
	body, err := p.stmt()
	if err != nil {
		return nil, err
	}
	s.Cond, s.Body = cond, body
	return s, nil
}

// ----------------------------------------------------------------------------
// Expressions

func (p *Parser) exp() (*Exp, error) {
	e := &Exp{node: p.at()}
	x, err := p.binaryExp()
	if err != nil {
		return nil, err
	}
	e.X = x
	return e, nil
}

// binaryExp parses a chain of unary expressions joined by binary operators
// using an operand stack and an operator stack. Before an operator is
// pushed, every stacked operator that binds at least as tightly is reduced,
// which makes operators of equal precedence left-associative.
func (p *Parser) binaryExp() (*BinaryExp, error) {
	first, err := p.unaryExp()
	if err != nil {
		return nil, err
	}
	operands := []*BinaryExp{leaf(first)}
	var ops []BinaryOp

	reduce := func() {
		n := len(operands)
		x, y := operands[n-2], operands[n-1]
		op := ops[len(ops)-1]
		ops = ops[:len(ops)-1]
		operands = append(operands[:n-2], &BinaryExp{node: x.node, Op: op, X: x, Y: y})
	}

	for {
		op, ok := binaryOp(p.tok.Kind)
		if !ok {
			break
		}
		prec := p.tok.Kind.Precedence()
		for len(ops) > 0 && ops[len(ops)-1].Kind().Precedence() >= prec {
			reduce()
		}
		p.next()

		y, err := p.unaryExp()
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
		operands = append(operands, leaf(y))
	}
	for len(ops) > 0 {
		reduce()
	}
	return operands[0], nil
}

func leaf(x UnaryExp) *BinaryExp {
	return &BinaryExp{node: node{line: x.Line()}, Op: Single, Leaf: x}
}

// unaryExp parses a unary expression. Unary plus produces no node.
//
//	UnaryExp = ( "+" | "-" | "!" ) UnaryExp | ident "(" [ FuncRParams ] ")" | PrimaryExp .
func (p *Parser) unaryExp() (UnaryExp, error) {
	n := p.at()
	switch p.tok.Kind {
	case _Add:
		// Unary plus does not appear in the tree.
		p.next()
		return p.unaryExp()

	case _Sub, _Not:
		op := Minus
		if p.tok.Kind == _Not {
			op = Not
		}
		p.next()
		x, err := p.unaryExp()
		if err != nil {
			return nil, err
		}
		return &UnaryOperation{node: n, Op: op, X: x}, nil

	case _Ident:
		if p.peek(1).Kind == _Lparen {
			return p.funcCall()
		}
	}
	return p.primaryExp()
}

// primaryExp parses a parenthesized expression, an lvalue or a number.
//
//	PrimaryExp = "(" Exp ")" | LVal | Number .
func (p *Parser) primaryExp() (PrimaryExp, error) {
	n := p.at()
	switch p.tok.Kind {
	case _Lparen:
		p.next()
		x, err := p.exp()
		if err != nil {
			return nil, err
		}
		if err := p.want(_Rparen); err != nil {
			return nil, err
		}
		return &ParenExp{node: n, X: x}, nil

	case _Ident:
		return p.lval()

	case _IntLit:
		v, err := strconv.ParseInt(p.tok.Text, 10, 64)
		if err != nil {
			return nil, p.errorf("expected a number")
		}
		p.next()
		return &Number{node: n, Value: v}, nil
	}
	return nil, p.errorf("expected an expression")
}

// funcCall parses a call. The callee is known to be followed by "(".
//
//	FuncCall = ident "(" [ Exp { "," Exp } ] ")" .
func (p *Parser) funcCall() (*FuncCall, error) {
	call := &FuncCall{node: p.at()}
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	call.Name = name
	if err := p.want(_Lparen); err != nil {
		return nil, err
	}
	if p.got(_Rparen) {
		return call, nil
	}
	for {
		arg, err := p.exp()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
		if !p.got(_Comma) {
			break
		}
	}
	if err := p.want(_Rparen); err != nil {
		return nil, err
	}
	return call, nil
}

// lval parses a variable use with its indices.
//
//	LVal = ident { "[" Exp "]" } .
func (p *Parser) lval() (*LVal, error) {
	lv := &LVal{node: p.at()}
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	lv.Name = name
	for p.got(_Lbrack) {
		idx, err := p.exp()
		if err != nil {
			return nil, err
		}
		if err := p.want(_Rbrack); err != nil {
			return nil, err
		}
		lv.Indices = append(lv.Indices, idx)
	}
	return lv, nil
}
