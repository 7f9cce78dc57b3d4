package typechecker

import (
	"fmt"

	"mylang/interpreter-go/pkg/ast"
)

func (c *Checker) checkBinaryExpression(env *Environment, expr *ast.BinaryExpression) ([]Diagnostic, Type) {
	diags, left := c.checkExpression(env, expr.Left)
	rightDiags, right := c.checkExpression(env, expr.Right)
	diags = append(diags, rightDiags...)
	if isUnknown(left) || isUnknown(right) {
		return diags, UnknownType{}
	}

	mismatch := func() ([]Diagnostic, Type) {
		diags = append(diags, Diagnostic{
			Message: fmt.Sprintf("typechecker: operator '%s' cannot be applied to %s and %s", expr.Operator, typeName(left), typeName(right)),
			Node:    expr,
		})
		return diags, UnknownType{}
	}

	switch expr.Operator {
	case "&&", "||", "^":
		if isPrimitive(left, PrimitiveBool) && isPrimitive(right, PrimitiveBool) {
			return diags, boolType
		}
		return mismatch()
	case "+":
		if isPrimitive(left, PrimitiveString) && isPrimitive(right, PrimitiveString) {
			return diags, stringType
		}
		if isNumeric(left) && isNumeric(right) {
			return diags, promote(left, right)
		}
		return mismatch()
	case "-", "*", "/":
		if isNumeric(left) && isNumeric(right) {
			return diags, promote(left, right)
		}
		return mismatch()
	case "%":
		if isPrimitive(left, PrimitiveInt) && isPrimitive(right, PrimitiveInt) {
			return diags, intType
		}
		return mismatch()
	case "<", "<=", ">", ">=":
		if isNumeric(left) && isNumeric(right) {
			return diags, boolType
		}
		return mismatch()
	case "==", "!=":
		if isNumeric(left) && isNumeric(right) {
			return diags, boolType
		}
		if isPrimitive(left, PrimitiveBool, PrimitiveString) && sameType(left, right) {
			return diags, boolType
		}
		return mismatch()
	default:
		diags = append(diags, Diagnostic{Message: fmt.Sprintf("typechecker: unsupported operator '%s'", expr.Operator), Node: expr})
		return diags, UnknownType{}
	}
}
