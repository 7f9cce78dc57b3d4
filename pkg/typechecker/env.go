package typechecker

// Environment maps variable names to their static types, one scope per
// block. Generator and function names live in the Checker's tables instead.
type Environment struct {
	outer *Environment
	vars  map[string]Type
}

func NewEnvironment(outer *Environment) *Environment {
	return &Environment{outer: outer, vars: make(map[string]Type)}
}

func (e *Environment) Extend() *Environment {
	return NewEnvironment(e)
}

func (e *Environment) Define(name string, typ Type) {
	e.vars[name] = typ
}

// DefinedLocally reports whether this scope itself declares name, which is
// what redeclaration checks need.
func (e *Environment) DefinedLocally(name string) bool {
	_, ok := e.vars[name]
	return ok
}

// Lookup resolves name from the innermost scope outward.
func (e *Environment) Lookup(name string) (Type, bool) {
	for scope := e; scope != nil; scope = scope.outer {
		if typ, ok := scope.vars[name]; ok {
			return typ, true
		}
	}
	return nil, false
}
