package typechecker

import (
	"fmt"

	"mylang/interpreter-go/pkg/ast"
)

const (
	memberNext    = "next"
	memberCurrent = "current"
)

func (c *Checker) checkExpression(env *Environment, expr ast.Expression) ([]Diagnostic, Type) {
	switch e := expr.(type) {
	case nil:
		return nil, UnknownType{}
	case *ast.IntegerLiteral:
		return nil, intType
	case *ast.FloatLiteral:
		if e.FloatType == ast.FloatTypeF32 {
			return nil, floatType
		}
		return nil, doubleType
	case *ast.BooleanLiteral:
		return nil, boolType
	case *ast.StringLiteral:
		return nil, stringType
	case *ast.ArrayLiteral:
		return c.checkArrayLiteral(env, e)
	case *ast.Identifier:
		return c.checkIdentifier(env, e)
	case *ast.UnaryExpression:
		return c.checkUnaryExpression(env, e)
	case *ast.BinaryExpression:
		return c.checkBinaryExpression(env, e)
	case *ast.IndexExpression:
		return c.checkIndexExpression(env, e)
	case *ast.SliceExpression:
		return c.checkSliceExpression(env, e)
	case *ast.MemberAccessExpression:
		return c.checkMemberAccess(env, e)
	case *ast.FunctionCall:
		return c.checkFunctionCall(env, e)
	default:
		return []Diagnostic{{Message: fmt.Sprintf("typechecker: unsupported expression %T", expr), Node: expr}}, UnknownType{}
	}
}

func (c *Checker) checkIdentifier(env *Environment, id *ast.Identifier) ([]Diagnostic, Type) {
	if typ, ok := env.Lookup(id.Name); ok {
		return nil, typ
	}
	if info, ok := c.generators[id.Name]; ok {
		return nil, GeneratorFunctionType{Params: info.params, Yield: c.yieldTypeOf(info)}
	}
	if info, ok := c.functions[id.Name]; ok {
		return nil, FunctionType{Params: info.params, Return: info.ret}
	}
	if id.Name == builtinPrint {
		return nil, BuiltinType{BuiltinName: id.Name}
	}
	return []Diagnostic{{Message: fmt.Sprintf("typechecker: undefined variable '%s'", id.Name), Node: id}}, UnknownType{}
}

// yieldTypeOf returns the yield type of a generator, checking its body first
// when the type must be inferred. A generator referenced from its own body
// before any yield has an unknown yield type.
func (c *Checker) yieldTypeOf(info *generatorInfo) Type {
	if info.yield == nil && info.state == stateUnchecked {
		// Diagnostics from the body are reported when its definition is reached.
		c.pending = append(c.pending, c.ensureGenerator(info)...)
	}
	if info.yield == nil {
		return UnknownType{}
	}
	return info.yield
}

func (c *Checker) checkArrayLiteral(env *Environment, lit *ast.ArrayLiteral) ([]Diagnostic, Type) {
	var diags []Diagnostic
	var elem Type
	for _, el := range lit.Elements {
		elDiags, typ := c.checkExpression(env, el)
		diags = append(diags, elDiags...)
		if isUnknown(typ) {
			continue
		}
		switch {
		case elem == nil:
			elem = typ
		case isNumeric(elem) && isNumeric(typ):
			elem = promote(elem, typ)
		case sameType(elem, typ):
		case isArrayPair(elem, typ):
			elem = widerArray(elem.(ArrayType), typ.(ArrayType))
		default:
			diags = append(diags, Diagnostic{Message: fmt.Sprintf("typechecker: array elements must share a type (got %s and %s)", typeName(elem), typeName(typ)), Node: el})
		}
	}
	if elem == nil {
		return diags, UnknownType{}
	}
	if _, isGen := elem.(GeneratorType); isGen {
		diags = append(diags, Diagnostic{Message: "typechecker: arrays of generators are not supported", Node: lit})
	}
	return diags, ArrayType{Element: elem, Size: len(lit.Elements)}
}

func isArrayPair(a, b Type) bool {
	_, okA := a.(ArrayType)
	_, okB := b.(ArrayType)
	return okA && okB && (assignable(a, b) || assignable(b, a))
}

func widerArray(a, b ArrayType) ArrayType {
	if b.Size > a.Size {
		return b
	}
	return a
}

func (c *Checker) checkUnaryExpression(env *Environment, expr *ast.UnaryExpression) ([]Diagnostic, Type) {
	diags, operand := c.checkExpression(env, expr.Operand)
	if isUnknown(operand) {
		return diags, UnknownType{}
	}
	switch expr.Operator {
	case ast.UnaryOperatorNegate:
		if !isNumeric(operand) {
			diags = append(diags, Diagnostic{Message: fmt.Sprintf("typechecker: unary '-' requires a numeric operand (got %s)", typeName(operand)), Node: expr})
			return diags, UnknownType{}
		}
		return diags, operand
	case ast.UnaryOperatorNot:
		if !isPrimitive(operand, PrimitiveBool) {
			diags = append(diags, Diagnostic{Message: fmt.Sprintf("typechecker: unary '!' requires a bool operand (got %s)", typeName(operand)), Node: expr})
			return diags, UnknownType{}
		}
		return diags, boolType
	default:
		diags = append(diags, Diagnostic{Message: fmt.Sprintf("typechecker: unsupported unary operator %s", expr.Operator), Node: expr})
		return diags, UnknownType{}
	}
}

func (c *Checker) checkIndexExpression(env *Environment, expr *ast.IndexExpression) ([]Diagnostic, Type) {
	diags, objType := c.checkExpression(env, expr.Object)
	indexDiags, indexType := c.checkExpression(env, expr.Index)
	diags = append(diags, indexDiags...)
	if !isUnknown(indexType) && !isPrimitive(indexType, PrimitiveInt) {
		diags = append(diags, Diagnostic{Message: fmt.Sprintf("typechecker: array index must be int (got %s)", typeName(indexType)), Node: expr.Index})
	}
	if isUnknown(objType) {
		return diags, UnknownType{}
	}
	arr, ok := objType.(ArrayType)
	if !ok {
		diags = append(diags, Diagnostic{Message: fmt.Sprintf("typechecker: cannot index %s", typeName(objType)), Node: expr})
		return diags, UnknownType{}
	}
	return diags, arr.Element
}

// checkSliceExpression types a[low:high]. Bounds must be integer literals so
// the result keeps a fixed size.
func (c *Checker) checkSliceExpression(env *Environment, expr *ast.SliceExpression) ([]Diagnostic, Type) {
	diags, objType := c.checkExpression(env, expr.Object)
	bounds := [2]int64{0, -1}
	constant := true
	for idx, bound := range []ast.Expression{expr.Low, expr.High} {
		if bound == nil {
			continue
		}
		boundDiags, boundType := c.checkExpression(env, bound)
		diags = append(diags, boundDiags...)
		if !isUnknown(boundType) && !isPrimitive(boundType, PrimitiveInt) {
			diags = append(diags, Diagnostic{Message: fmt.Sprintf("typechecker: slice bound must be int (got %s)", typeName(boundType)), Node: bound})
			constant = false
			continue
		}
		lit, ok := bound.(*ast.IntegerLiteral)
		if !ok {
			diags = append(diags, Diagnostic{Message: "typechecker: slice bounds must be integer literals", Node: bound})
			constant = false
			continue
		}
		bounds[idx] = lit.Value
	}
	if isUnknown(objType) {
		return diags, UnknownType{}
	}
	arr, ok := objType.(ArrayType)
	if !ok {
		diags = append(diags, Diagnostic{Message: fmt.Sprintf("typechecker: cannot slice %s", typeName(objType)), Node: expr})
		return diags, UnknownType{}
	}
	if !constant {
		return diags, UnknownType{}
	}
	low, high := bounds[0], bounds[1]
	if expr.High == nil {
		high = int64(arr.Size)
	}
	if low < 0 || high > int64(arr.Size) || low > high {
		diags = append(diags, Diagnostic{Message: fmt.Sprintf("typechecker: slice [%d:%d] out of bounds for %s", low, high, typeName(arr)), Node: expr})
		return diags, UnknownType{}
	}
	return diags, ArrayType{Element: arr.Element, Size: int(high - low)}
}

func (c *Checker) checkMemberAccess(env *Environment, expr *ast.MemberAccessExpression) ([]Diagnostic, Type) {
	diags, objType := c.checkExpression(env, expr.Object)
	if isUnknown(objType) {
		return diags, UnknownType{}
	}
	member := expr.Member.Name
	gen, ok := objType.(GeneratorType)
	if !ok {
		diags = append(diags, Diagnostic{Message: fmt.Sprintf("typechecker: cannot access member '%s' on %s", member, typeName(objType)), Node: expr})
		return diags, UnknownType{}
	}
	switch member {
	case memberCurrent:
		return diags, gen.Element
	case memberNext:
		diags = append(diags, Diagnostic{Message: "typechecker: generator method 'next' must be called", Node: expr})
	default:
		diags = append(diags, Diagnostic{Message: fmt.Sprintf("typechecker: generator has no member '%s'", member), Node: expr})
	}
	return diags, UnknownType{}
}

func (c *Checker) checkFunctionCall(env *Environment, call *ast.FunctionCall) ([]Diagnostic, Type) {
	switch callee := call.Callee.(type) {
	case *ast.MemberAccessExpression:
		return c.checkMethodCall(env, call, callee)
	case *ast.Identifier:
		if _, shadowed := env.Lookup(callee.Name); !shadowed {
			if info, ok := c.generators[callee.Name]; ok {
				diags := c.checkArguments(env, callee.Name, info.params, call)
				return diags, GeneratorType{Element: c.yieldTypeOf(info)}
			}
			if info, ok := c.functions[callee.Name]; ok {
				diags := c.checkArguments(env, callee.Name, info.params, call)
				return diags, info.ret
			}
			if callee.Name == builtinPrint {
				return c.checkPrintCall(env, call)
			}
		}
		diags, typ := c.checkIdentifier(env, callee)
		if isUnknown(typ) {
			return diags, UnknownType{}
		}
		return append(diags, Diagnostic{Message: fmt.Sprintf("typechecker: '%s' is not callable (type %s)", callee.Name, typeName(typ)), Node: call}), UnknownType{}
	default:
		diags, _ := c.checkExpression(env, call.Callee)
		return append(diags, Diagnostic{Message: "typechecker: expression is not callable", Node: call}), UnknownType{}
	}
}

func (c *Checker) checkMethodCall(env *Environment, call *ast.FunctionCall, callee *ast.MemberAccessExpression) ([]Diagnostic, Type) {
	diags, objType := c.checkExpression(env, callee.Object)
	for _, arg := range call.Arguments {
		argDiags, _ := c.checkExpression(env, arg)
		diags = append(diags, argDiags...)
	}
	if isUnknown(objType) {
		return diags, UnknownType{}
	}
	member := callee.Member.Name
	if _, ok := objType.(GeneratorType); !ok {
		return append(diags, Diagnostic{Message: fmt.Sprintf("typechecker: cannot call '%s' on %s", member, typeName(objType)), Node: call}), UnknownType{}
	}
	if member != memberNext {
		return append(diags, Diagnostic{Message: fmt.Sprintf("typechecker: generator has no method '%s'", member), Node: call}), UnknownType{}
	}
	if len(call.Arguments) != 0 {
		diags = append(diags, Diagnostic{Message: fmt.Sprintf("typechecker: next expects 0 arguments, got %d", len(call.Arguments)), Node: call})
	}
	return diags, boolType
}

func (c *Checker) checkArguments(env *Environment, name string, params []Type, call *ast.FunctionCall) []Diagnostic {
	var diags []Diagnostic
	if len(call.Arguments) != len(params) {
		diags = append(diags, Diagnostic{Message: fmt.Sprintf("typechecker: %s expects %d arguments, got %d", name, len(params), len(call.Arguments)), Node: call})
	}
	for i, arg := range call.Arguments {
		argDiags, typ := c.checkExpression(env, arg)
		diags = append(diags, argDiags...)
		if i >= len(params) {
			continue
		}
		if !assignable(params[i], typ) {
			diags = append(diags, Diagnostic{Message: fmt.Sprintf("typechecker: argument %d of %s: expected %s, got %s", i+1, name, typeName(params[i]), typeName(typ)), Node: arg})
		}
	}
	return diags
}
