package ast

import "fmt"

// Scalar type names.
const (
	TypeNameInt    = "int"
	TypeNameFloat  = "float"
	TypeNameDouble = "double"
	TypeNameBool   = "bool"
	TypeNameString = "string"
	TypeNameVoid   = "void"
)

// IsScalarTypeName reports whether name is one of the built-in scalar types.
func IsScalarTypeName(name string) bool {
	switch name {
	case TypeNameInt, TypeNameFloat, TypeNameDouble, TypeNameBool, TypeNameString:
		return true
	}
	return false
}

// TypeString renders a type expression the way it is written in source.
func TypeString(expr TypeExpression) string {
	switch t := expr.(type) {
	case nil:
		return TypeNameVoid
	case *SimpleTypeExpression:
		if t.Name == nil {
			return "<unknown>"
		}
		return t.Name.Name
	case *ArrayTypeExpression:
		base, dims := arrayShape(t)
		out := TypeString(base)
		for _, d := range dims {
			out += fmt.Sprintf("[%d]", d)
		}
		return out
	case *GeneratorTypeExpression:
		return "generator<" + TypeString(t.Element) + ">"
	default:
		return "<unknown>"
	}
}

// arrayShape flattens nested array types into the scalar element type and
// the dimension sizes in declaration order.
func arrayShape(t *ArrayTypeExpression) (TypeExpression, []int) {
	dims := []int{t.Size}
	elem := t.Element
	for {
		inner, ok := elem.(*ArrayTypeExpression)
		if !ok {
			return elem, dims
		}
		dims = append(dims, inner.Size)
		elem = inner.Element
	}
}
