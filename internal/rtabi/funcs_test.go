package rtabi

import "testing"

func TestLookup(t *testing.T) {
	s, ok := Lookup(Memset)
	if !ok {
		t.Fatalf("Lookup(%q) failed", Memset)
	}
	if got, want := s.Declare(), "declare void @llvm.memset.p0.i64(ptr, i8, i64, i1)"; got != want {
		t.Errorf("Declare() = %q, want %q", got, want)
	}
	if _, ok := Lookup("llvm.trap"); ok {
		t.Error("Lookup found an intrinsic that is not in the table")
	}
}

func TestDeclareNoReturn(t *testing.T) {
	s := FuncSignature{Name: "abort", ReturnType: "void", NoReturn: true}
	if got, want := s.Declare(), "declare void @abort() noreturn"; got != want {
		t.Errorf("Declare() = %q, want %q", got, want)
	}
}
