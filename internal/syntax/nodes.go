package syntax

// ----------------------------------------------------------------------------
// Interfaces
//
// The node set is closed: every interface carries an unexported marker
// method, so only types in this package implement it and every consumer can
// switch over the complete list of variants.

// Node is implemented by all AST nodes.
type Node interface {
	// Line returns the source line of the token that opened the node.
	Line() uint32
	aNode()
}

// TopLevel is a compilation unit item: *Decl or *FuncDef.
type TopLevel interface {
	Node
	aTopLevel()
}

// BlockItem is a *Decl or a Stmt.
type BlockItem interface {
	Node
	aBlockItem()
}

// Stmt is a statement.
type Stmt interface {
	BlockItem
	aStmt()
}

// InitVal is a *ScalarInit or an *AggregateInit.
type InitVal interface {
	Node
	aInitVal()
}

// UnaryExp is a *UnaryOperation, a *FuncCall or a PrimaryExp.
type UnaryExp interface {
	Node
	aUnaryExp()
}

// PrimaryExp is a *ParenExp, an *LVal or a *Number.
type PrimaryExp interface {
	UnaryExp
	aPrimaryExp()
}

// node is embedded in every concrete node type.
type node struct {
	line uint32
}

func (n *node) Line() uint32 { return n.line }
func (*node) aNode()         {}

// ----------------------------------------------------------------------------
// Types

// BType is the element type of a declaration. The language has one.
type BType uint8

const TypeInt BType = 0

func (BType) String() string { return "int" }

// FuncType is the result type of a function.
type FuncType uint8

const (
	FuncInt FuncType = iota
	FuncVoid
)

func (t FuncType) String() string {
	if t == FuncVoid {
		return "void"
	}
	return "int"
}

// ----------------------------------------------------------------------------
// Declarations

// CompUnit is one top-level item. A program is an ordered list of them.
type CompUnit struct {
	node
	Item TopLevel
}

// Decl is a variable or constant declaration.
type Decl struct {
	node
	Const bool // const int ...
	Var   *VarDecl
}

type VarDecl struct {
	node
	Type BType
	Defs []*VarDef // non-empty
}

// VarDef declares one name.
//
//	Name[Dims[0]]...[Dims[n-1]] = Init
type VarDef struct {
	node
	Name string
	Dims []*Exp
	Init InitVal // or nil
}

type ScalarInit struct {
	node
	X *Exp
}

// AggregateInit is a brace-enclosed initializer list.
type AggregateInit struct {
	node
	Elems []InitVal
}

type FuncDef struct {
	node
	Result FuncType
	Name   string
	Params *FuncFParams // or nil
	Body   *Block
}

type FuncFParams struct {
	node
	List []*FuncFParam
}

type FuncFParam struct {
	node
	Type BType
	Name string
}

// ----------------------------------------------------------------------------
// Statements

type Block struct {
	node
	Items []BlockItem
}

// LVal = X;
type AssignStmt struct {
	node
	LVal *LVal
	X    *Exp
}

// X; or an empty statement when X is nil.
type ExpStmt struct {
	node
	X *Exp
}

type BlockStmt struct {
	node
	Block *Block
}

// if (Cond) Then else Else
type IfStmt struct {
	node
	Cond *Exp
	Then Stmt
	Else Stmt // or nil
}

// while (Cond) Body
type WhileStmt struct {
	node
	Cond *Exp
	Body Stmt
}

type BreakStmt struct {
	node
}

type ContinueStmt struct {
	node
}

// return X; X may be nil.
type ReturnStmt struct {
	node
	X *Exp
}

// ----------------------------------------------------------------------------
// Expressions

// Exp is the root of an expression tree.
type Exp struct {
	node
	X *BinaryExp
}

// BinaryOp is a binary operator. Single marks a leaf.
type BinaryOp uint8

const (
	Single BinaryOp = iota
	Mul
	Div
	Rem
	Add
	Sub
	Lss
	Gtr
	Leq
	Geq
	Eql
	Neq
	AndAnd
	OrOr
)

// binaryKinds maps operators to the token kind they are spelled with.
var binaryKinds = [...]Kind{
	Mul:    _Mul,
	Div:    _Div,
	Rem:    _Rem,
	Add:    _Add,
	Sub:    _Sub,
	Lss:    _Lss,
	Gtr:    _Gtr,
	Leq:    _Leq,
	Geq:    _Geq,
	Eql:    _Eql,
	Neq:    _Neq,
	AndAnd: _AndAnd,
	OrOr:   _OrOr,
}

// Kind returns the token kind of op, or EOF for Single.
func (op BinaryOp) Kind() Kind {
	if int(op) < len(binaryKinds) {
		return binaryKinds[op]
	}
	return _EOF
}

func (op BinaryOp) String() string {
	if op == Single {
		return "single"
	}
	return op.Kind().Value()
}

// binaryOp returns the operator spelled by k.
func binaryOp(k Kind) (BinaryOp, bool) {
	for op := Mul; op <= OrOr; op++ {
		if binaryKinds[op] == k {
			return op, true
		}
	}
	return Single, false
}

// BinaryExp is either a leaf (Op == Single, Leaf set, X and Y nil) or an
// operator node (X and Y set, Leaf nil).
type BinaryExp struct {
	node
	Op   BinaryOp
	Leaf UnaryExp
	X, Y *BinaryExp
}

// UnaryOp is a prefix operator.
type UnaryOp uint8

const (
	Plus UnaryOp = iota
	Minus
	Not
)

var unaryKinds = [...]Kind{
	Plus:  _Add,
	Minus: _Sub,
	Not:   _Not,
}

func (op UnaryOp) Kind() Kind { return unaryKinds[op] }

func (op UnaryOp) String() string { return op.Kind().Value() }

// Op X
type UnaryOperation struct {
	node
	Op UnaryOp
	X  UnaryExp
}

// Name(Args...)
type FuncCall struct {
	node
	Name string
	Args []*Exp
}

// (X)
type ParenExp struct {
	node
	X *Exp
}

// Name[Indices[0]]...
type LVal struct {
	node
	Name    string
	Indices []*Exp
}

type Number struct {
	node
	Value int64
}

// ----------------------------------------------------------------------------
// Markers

func (*Decl) aTopLevel()    {}
func (*FuncDef) aTopLevel() {}

func (*Decl) aBlockItem()         {}
func (*AssignStmt) aBlockItem()   {}
func (*ExpStmt) aBlockItem()      {}
func (*BlockStmt) aBlockItem()    {}
func (*IfStmt) aBlockItem()       {}
func (*WhileStmt) aBlockItem()    {}
func (*BreakStmt) aBlockItem()    {}
func (*ContinueStmt) aBlockItem() {}
func (*ReturnStmt) aBlockItem()   {}

func (*AssignStmt) aStmt()   {}
func (*ExpStmt) aStmt()      {}
func (*BlockStmt) aStmt()    {}
func (*IfStmt) aStmt()       {}
func (*WhileStmt) aStmt()    {}
func (*BreakStmt) aStmt()    {}
func (*ContinueStmt) aStmt() {}
func (*ReturnStmt) aStmt()   {}

func (*ScalarInit) aInitVal()    {}
func (*AggregateInit) aInitVal() {}

func (*UnaryOperation) aUnaryExp() {}
func (*FuncCall) aUnaryExp()       {}
func (*ParenExp) aUnaryExp()       {}
func (*LVal) aUnaryExp()           {}
func (*Number) aUnaryExp()         {}

func (*ParenExp) aPrimaryExp() {}
func (*LVal) aPrimaryExp()     {}
func (*Number) aPrimaryExp()   {}
