package typechecker

import (
	"fmt"

	"mylang/interpreter-go/pkg/ast"
)

const builtinPrint = "print"

// checkPrintCall validates print(x): exactly one argument whose value is
// printable.
func (c *Checker) checkPrintCall(env *Environment, call *ast.FunctionCall) ([]Diagnostic, Type) {
	var diags []Diagnostic
	if len(call.Arguments) != 1 {
		diags = append(diags, Diagnostic{Message: fmt.Sprintf("typechecker: print expects 1 argument, got %d", len(call.Arguments)), Node: call})
	}
	for _, arg := range call.Arguments {
		argDiags, typ := c.checkExpression(env, arg)
		diags = append(diags, argDiags...)
		if isUnknown(typ) || isScalar(typ) {
			continue
		}
		if _, isArray := typ.(ArrayType); isArray {
			continue
		}
		diags = append(diags, Diagnostic{Message: fmt.Sprintf("typechecker: cannot print a value of type %s", typeName(typ)), Node: arg})
	}
	return diags, voidType
}
