package typechecker

import (
	"fmt"
	"strings"

	"mylang/interpreter-go/pkg/ast"
)

// Type represents a type understood by the checker.
type Type interface {
	Name() string
}

type PrimitiveKind string

const (
	PrimitiveInt    PrimitiveKind = ast.TypeNameInt
	PrimitiveFloat  PrimitiveKind = ast.TypeNameFloat
	PrimitiveDouble PrimitiveKind = ast.TypeNameDouble
	PrimitiveBool   PrimitiveKind = ast.TypeNameBool
	PrimitiveString PrimitiveKind = ast.TypeNameString
	PrimitiveVoid   PrimitiveKind = ast.TypeNameVoid
)

type PrimitiveType struct {
	Kind PrimitiveKind
}

func (p PrimitiveType) Name() string { return string(p.Kind) }

var (
	intType    = PrimitiveType{Kind: PrimitiveInt}
	floatType  = PrimitiveType{Kind: PrimitiveFloat}
	doubleType = PrimitiveType{Kind: PrimitiveDouble}
	boolType   = PrimitiveType{Kind: PrimitiveBool}
	stringType = PrimitiveType{Kind: PrimitiveString}
	voidType   = PrimitiveType{Kind: PrimitiveVoid}
)

// ArrayType is a fixed-size array; nested arrays model extra dimensions.
type ArrayType struct {
	Element Type
	Size    int
}

func (a ArrayType) Name() string {
	dims := []string{fmt.Sprintf("[%d]", a.Size)}
	elem := a.Element
	for {
		inner, ok := elem.(ArrayType)
		if !ok {
			break
		}
		dims = append(dims, fmt.Sprintf("[%d]", inner.Size))
		elem = inner.Element
	}
	return typeName(elem) + strings.Join(dims, "")
}

// GeneratorType is the type of a generator handle, `generator<T>`.
type GeneratorType struct {
	Element Type
}

func (g GeneratorType) Name() string { return "generator<" + typeName(g.Element) + ">" }

// GeneratorFunctionType is the type of a generator definition's name.
type GeneratorFunctionType struct {
	Params []Type
	Yield  Type
}

func (g GeneratorFunctionType) Name() string {
	return "generator<" + typeName(g.Yield) + "> (" + joinTypeNames(g.Params) + ")"
}

type FunctionType struct {
	Params []Type
	Return Type
}

func (f FunctionType) Name() string {
	return "fn(" + joinTypeNames(f.Params) + ") -> " + typeName(f.Return)
}

// BuiltinType marks names provided by the runtime, such as print.
type BuiltinType struct {
	BuiltinName string
}

func (b BuiltinType) Name() string { return "builtin " + b.BuiltinName }

// UnknownType is produced after an error so one mistake does not cascade.
type UnknownType struct{}

func (UnknownType) Name() string { return "<unknown>" }

func typeName(t Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.Name()
}

func joinTypeNames(types []Type) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = typeName(t)
	}
	return strings.Join(parts, ", ")
}

func isUnknown(t Type) bool {
	if t == nil {
		return true
	}
	_, ok := t.(UnknownType)
	return ok
}

func isPrimitive(t Type, kinds ...PrimitiveKind) bool {
	p, ok := t.(PrimitiveType)
	if !ok {
		return false
	}
	for _, k := range kinds {
		if p.Kind == k {
			return true
		}
	}
	return false
}

func isNumeric(t Type) bool {
	return isPrimitive(t, PrimitiveInt, PrimitiveFloat, PrimitiveDouble)
}

func isScalar(t Type) bool {
	return isPrimitive(t, PrimitiveInt, PrimitiveFloat, PrimitiveDouble, PrimitiveBool, PrimitiveString)
}

func sameType(a, b Type) bool {
	return typeName(a) == typeName(b)
}

// promote returns the result type of arithmetic on two numeric operands.
func promote(a, b Type) Type {
	switch {
	case isPrimitive(a, PrimitiveDouble) || isPrimitive(b, PrimitiveDouble):
		return doubleType
	case isPrimitive(a, PrimitiveFloat) || isPrimitive(b, PrimitiveFloat):
		return floatType
	default:
		return intType
	}
}

// assignable reports whether a value of type value may initialise or be
// assigned to a slot of type target. Integers widen to float and double,
// float and double convert into each other, and an array initialiser may be
// shorter than the declared size.
func assignable(target, value Type) bool {
	if isUnknown(target) || isUnknown(value) {
		return true
	}
	if sameType(target, value) {
		return true
	}
	switch t := target.(type) {
	case PrimitiveType:
		if t.Kind == PrimitiveFloat || t.Kind == PrimitiveDouble {
			return isNumeric(value)
		}
		return false
	case ArrayType:
		v, ok := value.(ArrayType)
		if !ok || v.Size > t.Size {
			return false
		}
		return assignable(t.Element, v.Element)
	case GeneratorType:
		v, ok := value.(GeneratorType)
		return ok && (isUnknown(t.Element) || isUnknown(v.Element))
	default:
		return false
	}
}

// resolveTypeExpression converts a parsed type into a checker type.
func resolveTypeExpression(expr ast.TypeExpression) (Type, error) {
	switch t := expr.(type) {
	case nil:
		return voidType, nil
	case *ast.SimpleTypeExpression:
		if t.Name == nil || !ast.IsScalarTypeName(t.Name.Name) {
			return UnknownType{}, fmt.Errorf("unknown type '%s'", ast.TypeString(t))
		}
		return PrimitiveType{Kind: PrimitiveKind(t.Name.Name)}, nil
	case *ast.ArrayTypeExpression:
		elem, err := resolveTypeExpression(t.Element)
		if err != nil {
			return UnknownType{}, err
		}
		if _, isGen := elem.(GeneratorType); isGen {
			return UnknownType{}, fmt.Errorf("arrays of generators are not supported")
		}
		if t.Size <= 0 {
			return UnknownType{}, fmt.Errorf("array size must be positive")
		}
		return ArrayType{Element: elem, Size: t.Size}, nil
	case *ast.GeneratorTypeExpression:
		elem, err := resolveTypeExpression(t.Element)
		if err != nil {
			return UnknownType{}, err
		}
		if _, isGen := elem.(GeneratorType); isGen {
			return UnknownType{}, fmt.Errorf("generators cannot yield generators")
		}
		return GeneratorType{Element: elem}, nil
	default:
		return UnknownType{}, fmt.Errorf("unsupported type expression %T", expr)
	}
}

// typeExpression converts a checker type back into a type expression, used to
// publish inferred yield types.
func typeExpression(t Type) ast.TypeExpression {
	switch tt := t.(type) {
	case PrimitiveType:
		if tt.Kind == PrimitiveVoid {
			return nil
		}
		return ast.Ty(string(tt.Kind))
	case ArrayType:
		return ast.ArrTy(typeExpression(tt.Element), tt.Size)
	case GeneratorType:
		return ast.GenTy(typeExpression(tt.Element))
	default:
		return nil
	}
}
