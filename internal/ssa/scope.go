package ssa

// Var is a name bound during lowering: a local, a global or a function.
type Var struct {
	Name string
	Line uint32

	Addr   *Value  // stack slot of a local
	Global *Global // storage of a global
	Func   *Func   // set for functions

	Dims  []int64 // array shape; empty for scalars
	Const bool

	// Values holds the row-major value of a constant, for use in constant
	// expressions. It is nil for variables.
	Values []int64
}

// Scope is a lexical scope. Scopes form a chain ending at the module scope.
type Scope struct {
	parent *Scope
	elems  map[string]*Var
}

// NewScope creates a new scope with the given parent.
func NewScope(parent *Scope) *Scope {
	return &Scope{
		parent: parent,
		elems:  make(map[string]*Var),
	}
}

// Parent returns the enclosing scope, or nil for the module scope.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Lookup returns the variable called name in s itself.
func (s *Scope) Lookup(name string) *Var {
	return s.elems[name]
}

// LookupParent searches s and then its parents for name, innermost first.
// It returns the variable and the scope it was found in, or (nil, nil).
func (s *Scope) LookupParent(name string) (*Var, *Scope) {
	for scope := s; scope != nil; scope = scope.parent {
		if v := scope.elems[name]; v != nil {
			return v, scope
		}
	}
	return nil, nil
}

// Insert adds v to the scope. If the name is already bound in s, Insert
// leaves the scope unchanged and returns the existing variable.
func (s *Scope) Insert(v *Var) *Var {
	if existing := s.elems[v.Name]; existing != nil {
		return existing
	}
	s.elems[v.Name] = v
	return nil
}
