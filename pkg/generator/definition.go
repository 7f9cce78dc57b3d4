package generator

import (
	"fmt"
	"sort"

	"mylang/interpreter-go/pkg/ast"
)

// Definition is an immutable generator declaration: name, ordered
// parameters, the yield type and the body block.
type Definition struct {
	Name      string
	Params    []*ast.FunctionParameter
	YieldType ast.TypeExpression
	Body      *ast.Block
	Node      *ast.GeneratorDefinition
}

// NewDefinition wraps a parsed declaration. yieldType overrides the declared
// type when the checker inferred it from the first yield.
func NewDefinition(node *ast.GeneratorDefinition, yieldType ast.TypeExpression) *Definition {
	if yieldType == nil {
		yieldType = node.YieldType
	}
	name := ""
	if node.ID != nil {
		name = node.ID.Name
	}
	return &Definition{
		Name:      name,
		Params:    node.Params,
		YieldType: yieldType,
		Body:      node.Body,
		Node:      node,
	}
}

// Signature renders the definition as written, with the resolved yield type.
func (d *Definition) Signature() string {
	out := fmt.Sprintf("generator<%s> %s(", ast.TypeString(d.YieldType), d.Name)
	for i, p := range d.Params {
		if i > 0 {
			out += ", "
		}
		out += ast.TypeString(p.ParamType) + " " + p.Name.Name
	}
	return out + ")"
}

// Table maps generator names to definitions. A table never changes after
// construction; With returns a new table.
type Table struct {
	defs map[string]*Definition
}

// NewTable builds a table, rejecting duplicate names.
func NewTable(defs ...*Definition) (*Table, error) {
	return (&Table{}).With(defs...)
}

// With returns a table holding the receiver's definitions plus defs.
func (t *Table) With(defs ...*Definition) (*Table, error) {
	out := &Table{defs: make(map[string]*Definition, len(t.defs)+len(defs))}
	for name, def := range t.defs {
		out.defs[name] = def
	}
	for _, def := range defs {
		if def == nil {
			continue
		}
		if _, exists := out.defs[def.Name]; exists {
			return nil, fmt.Errorf("generator '%s' is already defined", def.Name)
		}
		out.defs[def.Name] = def
	}
	return out, nil
}

// Lookup finds a definition by name.
func (t *Table) Lookup(name string) (*Definition, bool) {
	if t == nil {
		return nil, false
	}
	def, ok := t.defs[name]
	return def, ok
}

// Names lists the defined generators in sorted order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.defs))
	for name := range t.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.defs)
}
