// Package syntax implements the SysY front end: matcher-driven lexical
// analysis, recursive-descent parsing, and the abstract syntax tree.
package syntax

import "fmt"

// Kind identifies the lexical class of a token.
type Kind uint

const (
	_EOF Kind = iota // end of token stream; never produced by Tokenize

	// Delimiters
	_Lparen // (
	_Rparen // )
	_Lbrack // [
	_Rbrack // ]
	_Lbrace // {
	_Rbrace // }
	_Semi   // ;
	_Comma  // ,

	// Operators
	_Assign // =
	_Add    // +
	_Sub    // -
	_Not    // !
	_Mul    // *
	_Div    // /
	_Rem    // %
	_Lss    // <
	_Gtr    // >
	_Leq    // <=
	_Geq    // >=
	_Eql    // ==
	_Neq    // !=
	_AndAnd // &&
	_OrOr   // ||

	// Keywords
	_Int      // int
	_Void     // void
	_Const    // const
	_If       // if
	_Else     // else
	_While    // while
	_Break    // break
	_Continue // continue
	_Return   // return

	// Literals
	_Ident  // main, x, _tmp1
	_IntLit // 42, 052, 0x2A (text is always decimal)

	kindCount
)

// Exported kinds for packages that inspect the token stream.
const (
	EOF    = _EOF
	Ident  = _Ident
	IntLit = _IntLit
	Lparen = _Lparen
	Rparen = _Rparen
	Lbrack = _Lbrack
	Rbrack = _Rbrack
	Lbrace = _Lbrace
	Rbrace = _Rbrace
)

// kindNames is the name printed in token listings.
var kindNames = [kindCount]string{
	_EOF: "EOF",

	_Lparen: "LPARENT",
	_Rparen: "RPARENT",
	_Lbrack: "LBRACK",
	_Rbrack: "RBRACK",
	_Lbrace: "LBRACE",
	_Rbrace: "RBRACE",
	_Semi:   "SEMICN",
	_Comma:  "COMMA",

	_Assign: "ASSIGN",
	_Add:    "PLUS",
	_Sub:    "MINU",
	_Not:    "NOT",
	_Mul:    "MULT",
	_Div:    "DIV",
	_Rem:    "MOD",
	_Lss:    "LSS",
	_Gtr:    "GRE",
	_Leq:    "LEQ",
	_Geq:    "GEQ",
	_Eql:    "EQL",
	_Neq:    "NEQ",
	_AndAnd: "AND",
	_OrOr:   "OR",

	_Int:      "INTTK",
	_Void:     "VOIDTK",
	_Const:    "CONSTTK",
	_If:       "IFTK",
	_Else:     "ELSETK",
	_While:    "WHILETK",
	_Break:    "BREAKTK",
	_Continue: "CONTINUETK",
	_Return:   "RETURNTK",

	_Ident:  "IDENFR",
	_IntLit: "INTCON",
}

// kindValues holds the fixed spelling of keywords and operators.
var kindValues = [kindCount]string{
	_Lparen: "(",
	_Rparen: ")",
	_Lbrack: "[",
	_Rbrack: "]",
	_Lbrace: "{",
	_Rbrace: "}",
	_Semi:   ";",
	_Comma:  ",",

	_Assign: "=",
	_Add:    "+",
	_Sub:    "-",
	_Not:    "!",
	_Mul:    "*",
	_Div:    "/",
	_Rem:    "%",
	_Lss:    "<",
	_Gtr:    ">",
	_Leq:    "<=",
	_Geq:    ">=",
	_Eql:    "==",
	_Neq:    "!=",
	_AndAnd: "&&",
	_OrOr:   "||",

	_Int:      "int",
	_Void:     "void",
	_Const:    "const",
	_If:       "if",
	_Else:     "else",
	_While:    "while",
	_Break:    "break",
	_Continue: "continue",
	_Return:   "return",
}

// String returns the listing name of the kind (e.g. "LPARENT").
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Value returns the fixed spelling of a keyword, operator or delimiter,
// or "" for identifiers, literals and EOF.
func (k Kind) Value() string {
	if k < kindCount {
		return kindValues[k]
	}
	return ""
}

// Category classifies token kinds.
type Category uint8

const (
	Keyword Category = iota
	Operator
	IntLiteral
	Identifier
	Delimiter
)

var categoryNames = [...]string{
	Keyword:    "keyword",
	Operator:   "operator",
	IntLiteral: "integer-literal",
	Identifier: "identifier",
	Delimiter:  "delimiter",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("category(%d)", c)
}

// Category returns the category of k. EOF is reported as a delimiter.
func (k Kind) Category() Category {
	switch {
	case k >= _Assign && k <= _OrOr:
		return Operator
	case k >= _Int && k <= _Return:
		return Keyword
	case k == _Ident:
		return Identifier
	case k == _IntLit:
		return IntLiteral
	}
	return Delimiter
}

// Precedence returns the binding strength of a binary operator, or 0 if k
// is not one. Higher binds tighter:
//
//	6: * / % ==
//	5: + -
//	4: < > <= >=
//	3: !=
//	2: &&
//	1: ||
func (k Kind) Precedence() int {
	switch k {
	case _Mul, _Div, _Rem, _Eql:
		return 6
	case _Add, _Sub:
		return 5
	case _Lss, _Gtr, _Leq, _Geq:
		return 4
	case _Neq:
		return 3
	case _AndAnd:
		return 2
	case _OrOr:
		return 1
	}
	return 0
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool {
	return k.Category() == Keyword
}

// keywords maps reserved spellings to their kind.
var keywords = func() map[string]Kind {
	m := make(map[string]Kind)
	for k := _Int; k <= _Return; k++ {
		m[k.Value()] = k
	}
	return m
}()

// Token is a single lexeme. Text holds the spelling for keywords, operators
// and identifiers and the decimal value for integer literals.
type Token struct {
	Kind Kind
	Text string
	Line uint32
}

func (t Token) String() string {
	return t.Kind.String() + " " + t.Text
}
