package syntax

import (
	"fmt"
	"testing"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{_EOF, "EOF"},
		{_Lparen, "LPARENT"},
		{_Semi, "SEMICN"},
		{_Leq, "LEQ"},
		{_AndAnd, "AND"},
		{_Int, "INTTK"},
		{_Continue, "CONTINUETK"},
		{_Ident, "IDENFR"},
		{_IntLit, "INTCON"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestKindStringOutOfRange(t *testing.T) {
	k := kindCount + 3
	if got, want := k.String(), fmt.Sprintf("kind(%d)", int(k)); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestKindValue(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{_Lbrack, "["},
		{_Rem, "%"},
		{_Geq, ">="},
		{_OrOr, "||"},
		{_Void, "void"},
		{_While, "while"},
		{_Ident, ""},
		{_IntLit, ""},
		{_EOF, ""},
	}
	for _, tt := range tests {
		if got := tt.kind.Value(); got != tt.want {
			t.Errorf("%s.Value() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestKindCategory(t *testing.T) {
	tests := []struct {
		kind Kind
		want Category
	}{
		{_Lparen, Delimiter},
		{_Comma, Delimiter},
		{_Semi, Delimiter},
		{_Assign, Operator},
		{_Not, Operator},
		{_OrOr, Operator},
		{_Int, Keyword},
		{_Return, Keyword},
		{_Ident, Identifier},
		{_IntLit, IntLiteral},
	}
	for _, tt := range tests {
		if got := tt.kind.Category(); got != tt.want {
			t.Errorf("%s.Category() = %s, want %s", tt.kind, got, tt.want)
		}
	}
}

func TestKindPrecedence(t *testing.T) {
	// == shares the multiplicative tier and != sits below the relational
	// operators.
	order := [][]Kind{
		{_Mul, _Div, _Rem, _Eql},
		{_Add, _Sub},
		{_Lss, _Gtr, _Leq, _Geq},
		{_Neq},
		{_AndAnd},
		{_OrOr},
	}
	for i, tier := range order {
		want := len(order) - i
		for _, k := range tier {
			if got := k.Precedence(); got != want {
				t.Errorf("%s.Precedence() = %d, want %d", k, got, want)
			}
		}
	}
	for _, k := range []Kind{_Assign, _Not, _Lparen, _Ident, _Int} {
		if got := k.Precedence(); got != 0 {
			t.Errorf("%s.Precedence() = %d, want 0", k, got)
		}
	}
}

func TestKeywords(t *testing.T) {
	want := map[string]Kind{
		"int": _Int, "void": _Void, "const": _Const, "if": _If, "else": _Else,
		"while": _While, "break": _Break, "continue": _Continue, "return": _Return,
	}
	if len(keywords) != len(want) {
		t.Fatalf("len(keywords) = %d, want %d", len(keywords), len(want))
	}
	for s, k := range want {
		if keywords[s] != k {
			t.Errorf("keywords[%q] = %s, want %s", s, keywords[s], k)
		}
		if !k.IsKeyword() {
			t.Errorf("%s.IsKeyword() = false", k)
		}
	}
}
