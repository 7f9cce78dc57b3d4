package runtime

import (
	"errors"
	"fmt"

	"mylang/interpreter-go/pkg/ast"
)

// ErrUninitialisedGenerator is returned when a generator variable is declared
// without a generator call to bind it to.
var ErrUninitialisedGenerator = errors.New("generator variable must be initialised")

// Zero returns the default value held by a declaration without an initialiser.
func Zero(t ast.TypeExpression) (Value, error) {
	switch tt := t.(type) {
	case *ast.SimpleTypeExpression:
		name := simpleName(tt)
		switch name {
		case ast.TypeNameInt:
			return IntegerValue{}, nil
		case ast.TypeNameFloat:
			return FloatValue{TypeSuffix: FloatF32}, nil
		case ast.TypeNameDouble:
			return FloatValue{TypeSuffix: FloatF64}, nil
		case ast.TypeNameBool:
			return BoolValue{}, nil
		case ast.TypeNameString:
			return StringValue{}, nil
		}
		return nil, fmt.Errorf("unknown type '%s'", name)
	case *ast.ArrayTypeExpression:
		if tt.Size <= 0 {
			return nil, fmt.Errorf("array size must be positive, got %d", tt.Size)
		}
		elems := make([]Value, tt.Size)
		for i := range elems {
			v, err := Zero(tt.Element)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return &ArrayValue{Elements: elems}, nil
	case *ast.GeneratorTypeExpression:
		return nil, ErrUninitialisedGenerator
	default:
		return nil, fmt.Errorf("unsupported type expression %T", t)
	}
}

// Coerce converts v to the declared type t. Integers widen to float and
// double; float and double convert into each other. Arrays are rebuilt
// element by element so the result never aliases v; a shorter initialiser is
// padded with zero values.
func Coerce(v Value, t ast.TypeExpression) (Value, error) {
	switch tt := t.(type) {
	case *ast.SimpleTypeExpression:
		name := simpleName(tt)
		switch name {
		case ast.TypeNameInt:
			if iv, ok := v.(IntegerValue); ok {
				return iv, nil
			}
		case ast.TypeNameFloat, ast.TypeNameDouble:
			suffix := FloatF64
			if name == ast.TypeNameFloat {
				suffix = FloatF32
			}
			switch x := v.(type) {
			case IntegerValue:
				return NewFloat(float64(x.Val), suffix), nil
			case FloatValue:
				return NewFloat(x.Val, suffix), nil
			}
		case ast.TypeNameBool:
			if bv, ok := v.(BoolValue); ok {
				return bv, nil
			}
		case ast.TypeNameString:
			if sv, ok := v.(StringValue); ok {
				return sv, nil
			}
		default:
			return nil, fmt.Errorf("unknown type '%s'", name)
		}
		return nil, fmt.Errorf("cannot use %s value as %s", TypeName(v), name)
	case *ast.ArrayTypeExpression:
		arr, ok := v.(*ArrayValue)
		if !ok {
			return nil, fmt.Errorf("cannot use %s value as %s", TypeName(v), ast.TypeString(tt))
		}
		if len(arr.Elements) > tt.Size {
			return nil, fmt.Errorf("array of length %d does not fit %s", len(arr.Elements), ast.TypeString(tt))
		}
		out := make([]Value, tt.Size)
		for i := range out {
			var (
				elem Value
				err  error
			)
			if i < len(arr.Elements) {
				elem, err = Coerce(arr.Elements[i], tt.Element)
			} else {
				elem, err = Zero(tt.Element)
			}
			if err != nil {
				return nil, err
			}
			out[i] = elem
		}
		return &ArrayValue{Elements: out}, nil
	case *ast.GeneratorTypeExpression:
		if v == nil || v.Kind() != KindGenerator {
			return nil, fmt.Errorf("only a generator value can be assigned to %s", ast.TypeString(tt))
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported type expression %T", t)
	}
}

// Clone copies arrays deeply; every other value is immutable and returned as is.
func Clone(v Value) Value {
	arr, ok := v.(*ArrayValue)
	if !ok {
		return v
	}
	out := make([]Value, len(arr.Elements))
	for i, elem := range arr.Elements {
		out[i] = Clone(elem)
	}
	return &ArrayValue{Elements: out}
}

// TypeName describes a value using source-level type names.
func TypeName(v Value) string {
	switch val := v.(type) {
	case nil:
		return "<nil>"
	case IntegerValue:
		return ast.TypeNameInt
	case FloatValue:
		if val.TypeSuffix == FloatF32 {
			return ast.TypeNameFloat
		}
		return ast.TypeNameDouble
	case BoolValue:
		return ast.TypeNameBool
	case StringValue:
		return ast.TypeNameString
	case *ArrayValue:
		if len(val.Elements) == 0 {
			return "array[0]"
		}
		return fmt.Sprintf("%s[%d]", TypeName(val.Elements[0]), len(val.Elements))
	case VoidValue:
		return ast.TypeNameVoid
	default:
		return v.Kind().String()
	}
}

func simpleName(t *ast.SimpleTypeExpression) string {
	if t == nil || t.Name == nil {
		return ""
	}
	return t.Name.Name
}
