package runtime

import (
	"fmt"
	"sort"
)

// UndefinedError reports a lookup or assignment of a name that no scope binds.
type UndefinedError struct {
	Name string
}

func (e *UndefinedError) Error() string {
	return fmt.Sprintf("Undefined variable '%s'", e.Name)
}

// Environment is one lexical scope. Generator frames keep a chain of them
// alive between advances: parameters at the bottom, one scope per active
// block or loop header above.
type Environment struct {
	slots map[string]Value
	outer *Environment
}

// NewEnvironment opens a scope under outer, which may be nil for globals.
func NewEnvironment(outer *Environment) *Environment {
	return &Environment{slots: make(map[string]Value), outer: outer}
}

// Extend opens a child scope.
func (e *Environment) Extend() *Environment {
	return NewEnvironment(e)
}

// Parent returns the enclosing scope, nil for globals.
func (e *Environment) Parent() *Environment {
	return e.outer
}

// Define binds name in this scope, shadowing any outer binding.
func (e *Environment) Define(name string, value Value) {
	e.slots[name] = value
}

// Has reports whether this scope itself binds name.
func (e *Environment) Has(name string) bool {
	_, ok := e.slots[name]
	return ok
}

// owner finds the innermost scope binding name.
func (e *Environment) owner(name string) *Environment {
	for scope := e; scope != nil; scope = scope.outer {
		if _, ok := scope.slots[name]; ok {
			return scope
		}
	}
	return nil
}

// Get resolves name through the scope chain.
func (e *Environment) Get(name string) (Value, error) {
	scope := e.owner(name)
	if scope == nil {
		return nil, &UndefinedError{Name: name}
	}
	return scope.slots[name], nil
}

// Assign overwrites the innermost existing binding of name.
func (e *Environment) Assign(name string, value Value) error {
	scope := e.owner(name)
	if scope == nil {
		return &UndefinedError{Name: name}
	}
	scope.slots[name] = value
	return nil
}

// Keys lists this scope's names in sorted order.
func (e *Environment) Keys() []string {
	names := make([]string, 0, len(e.slots))
	for name := range e.slots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
