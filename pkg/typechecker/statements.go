package typechecker

import (
	"fmt"

	"mylang/interpreter-go/pkg/ast"
)

func (c *Checker) checkStatement(env *Environment, stmt ast.Statement) []Diagnostic {
	switch s := stmt.(type) {
	case nil:
		return nil
	case *ast.GeneratorDefinition:
		if env != c.global || c.current != nil {
			return []Diagnostic{{Message: fmt.Sprintf("typechecker: generator %s must be defined at the top level", s.ID.Name), Node: s}}
		}
		if info, ok := c.genNodes[s]; ok {
			return c.ensureGenerator(info)
		}
		return nil
	case *ast.FunctionDefinition:
		if env != c.global || c.current != nil {
			return []Diagnostic{{Message: fmt.Sprintf("typechecker: function %s must be defined at the top level", s.ID.Name), Node: s}}
		}
		if info, ok := c.fnNodes[s]; ok {
			return c.ensureFunction(info)
		}
		return nil
	case *ast.Block:
		return c.checkBlock(env.Extend(), s)
	case *ast.VariableDeclaration:
		return c.checkVariableDeclaration(env, s)
	case *ast.AssignmentStatement:
		return c.checkAssignment(env, s)
	case *ast.IfStatement:
		diags := c.checkCondition(env, "if", s.Condition)
		diags = append(diags, c.checkBlock(env.Extend(), s.Then)...)
		if s.Else != nil {
			diags = append(diags, c.checkStatement(env, s.Else)...)
		}
		return diags
	case *ast.WhileLoop:
		diags := c.checkCondition(env, "while", s.Condition)
		c.loopDepth++
		diags = append(diags, c.checkBlock(env.Extend(), s.Body)...)
		c.loopDepth--
		return diags
	case *ast.ForLoop:
		loopEnv := env.Extend()
		var diags []Diagnostic
		if s.Init != nil {
			diags = append(diags, c.checkStatement(loopEnv, s.Init)...)
		}
		if s.Condition != nil {
			diags = append(diags, c.checkCondition(loopEnv, "for", s.Condition)...)
		}
		if s.Post != nil {
			diags = append(diags, c.checkStatement(loopEnv, s.Post)...)
		}
		c.loopDepth++
		diags = append(diags, c.checkBlock(loopEnv.Extend(), s.Body)...)
		c.loopDepth--
		return diags
	case *ast.YieldStatement:
		return c.checkYield(env, s)
	case *ast.ReturnStatement:
		return c.checkReturn(env, s)
	case *ast.BreakStatement:
		if c.loopDepth == 0 {
			return []Diagnostic{{Message: "typechecker: break outside of a loop", Node: s}}
		}
		return nil
	case *ast.ContinueStatement:
		if c.loopDepth == 0 {
			return []Diagnostic{{Message: "typechecker: continue outside of a loop", Node: s}}
		}
		return nil
	case *ast.ReadStatement:
		diags, typ := c.checkAssignmentTarget(env, s.Target)
		if !isUnknown(typ) && !isScalar(typ) {
			diags = append(diags, Diagnostic{Message: fmt.Sprintf("typechecker: read target must be a scalar variable (got %s)", typeName(typ)), Node: s})
		}
		return diags
	case ast.Expression:
		diags, _ := c.checkExpression(env, s)
		return diags
	default:
		return []Diagnostic{{Message: fmt.Sprintf("typechecker: unsupported statement %T", stmt), Node: stmt}}
	}
}

func (c *Checker) checkBlock(env *Environment, block *ast.Block) []Diagnostic {
	if block == nil {
		return nil
	}
	var diags []Diagnostic
	for _, stmt := range block.Body {
		diags = append(diags, c.checkStatement(env, stmt)...)
	}
	return diags
}

func (c *Checker) checkCondition(env *Environment, keyword string, cond ast.Expression) []Diagnostic {
	diags, typ := c.checkExpression(env, cond)
	if !isUnknown(typ) && !isPrimitive(typ, PrimitiveBool) {
		diags = append(diags, Diagnostic{Message: fmt.Sprintf("typechecker: %s condition must be bool (got %s)", keyword, typeName(typ)), Node: cond})
	}
	return diags
}

func (c *Checker) checkVariableDeclaration(env *Environment, decl *ast.VariableDeclaration) []Diagnostic {
	var diags []Diagnostic
	name := decl.Name.Name
	declared, err := resolveTypeExpression(decl.VarType)
	if err != nil {
		diags = append(diags, Diagnostic{Message: "typechecker: " + err.Error(), Node: decl.VarType})
	}
	if isPrimitive(declared, PrimitiveVoid) {
		diags = append(diags, Diagnostic{Message: fmt.Sprintf("typechecker: variable '%s' cannot be void", name), Node: decl})
		declared = UnknownType{}
	}
	if env.DefinedLocally(name) {
		diags = append(diags, Diagnostic{Message: fmt.Sprintf("typechecker: '%s' is already declared in this scope", name), Node: decl.Name})
	} else if c.isDefinedName(name) {
		diags = append(diags, Diagnostic{Message: fmt.Sprintf("typechecker: '%s' is already defined", name), Node: decl.Name})
	}
	if _, isGen := declared.(GeneratorType); isGen && decl.Value == nil {
		diags = append(diags, Diagnostic{Message: fmt.Sprintf("typechecker: generator variable '%s' must be initialised", name), Node: decl})
	}
	if decl.Value != nil {
		valueDiags, valueType := c.checkExpression(env, decl.Value)
		diags = append(diags, valueDiags...)
		diags = append(diags, checkAssignable(declared, valueType, name, decl.Value)...)
	}
	env.Define(name, declared)
	return diags
}

func (c *Checker) checkAssignment(env *Environment, assign *ast.AssignmentStatement) []Diagnostic {
	diags, targetType := c.checkAssignmentTarget(env, assign.Target)
	valueDiags, valueType := c.checkExpression(env, assign.Value)
	diags = append(diags, valueDiags...)
	return append(diags, checkAssignable(targetType, valueType, targetLabel(assign.Target), assign.Value)...)
}

func (c *Checker) checkAssignmentTarget(env *Environment, target ast.AssignmentTarget) ([]Diagnostic, Type) {
	switch t := target.(type) {
	case *ast.Identifier:
		typ, ok := env.Lookup(t.Name)
		if !ok {
			if c.isDefinedName(t.Name) {
				return []Diagnostic{{Message: fmt.Sprintf("typechecker: cannot assign to '%s'", t.Name), Node: t}}, UnknownType{}
			}
			return []Diagnostic{{Message: fmt.Sprintf("typechecker: undefined variable '%s'", t.Name), Node: t}}, UnknownType{}
		}
		return nil, typ
	case *ast.IndexExpression:
		return c.checkExpression(env, t)
	default:
		return []Diagnostic{{Message: fmt.Sprintf("typechecker: invalid assignment target %T", target), Node: target}}, UnknownType{}
	}
}

func targetLabel(target ast.AssignmentTarget) string {
	switch t := target.(type) {
	case *ast.Identifier:
		return t.Name
	case *ast.IndexExpression:
		if id, ok := t.Object.(*ast.Identifier); ok {
			return id.Name + "[]"
		}
	}
	return "element"
}

// checkAssignable reports a diagnostic when value cannot be stored in a slot
// of type target. Generator slots only accept handles with the same element
// type.
func checkAssignable(target, value Type, name string, node ast.Node) []Diagnostic {
	if tg, ok := target.(GeneratorType); ok {
		vg, isGen := value.(GeneratorType)
		switch {
		case isUnknown(value):
			return nil
		case !isGen:
			return []Diagnostic{{Message: fmt.Sprintf("typechecker: only a generator value can be assigned to generator variable '%s' (got %s)", name, typeName(value)), Node: node}}
		case !isUnknown(vg.Element) && !isUnknown(tg.Element) && !sameType(tg.Element, vg.Element):
			return []Diagnostic{{Message: fmt.Sprintf("typechecker: cannot assign %s to %s variable '%s'", typeName(value), typeName(target), name), Node: node}}
		}
		return nil
	}
	if !assignable(target, value) {
		return []Diagnostic{{Message: fmt.Sprintf("typechecker: cannot assign %s to %s variable '%s'", typeName(value), typeName(target), name), Node: node}}
	}
	return nil
}

func (c *Checker) checkYield(env *Environment, stmt *ast.YieldStatement) []Diagnostic {
	diags, typ := c.checkExpression(env, stmt.Expression)
	ctx := c.current
	if ctx == nil || ctx.generator == nil {
		return append(diags, Diagnostic{Message: "typechecker: yield outside of a generator", Node: stmt})
	}
	ctx.yields++
	info := ctx.generator
	switch {
	case isUnknown(typ):
	case isPrimitive(typ, PrimitiveVoid):
		diags = append(diags, Diagnostic{Message: fmt.Sprintf("typechecker: generator %s cannot yield a void value", info.node.ID.Name), Node: stmt})
	case info.yield == nil:
		info.yield = typ
	case !sameType(info.yield, typ):
		diags = append(diags, Diagnostic{Message: fmt.Sprintf("typechecker: generator %s yields %s, expected %s", info.node.ID.Name, typeName(typ), typeName(info.yield)), Node: stmt})
	}
	return diags
}

func (c *Checker) checkReturn(env *Environment, stmt *ast.ReturnStatement) []Diagnostic {
	var diags []Diagnostic
	var valueType Type = voidType
	if stmt.Argument != nil {
		diags, valueType = c.checkExpression(env, stmt.Argument)
	}
	ctx := c.current
	switch {
	case ctx == nil:
		return append(diags, Diagnostic{Message: "typechecker: return outside of a function", Node: stmt})
	case ctx.generator != nil:
		if stmt.Argument != nil {
			diags = append(diags, Diagnostic{Message: fmt.Sprintf("typechecker: generator %s cannot return a value", ctx.generator.node.ID.Name), Node: stmt})
		}
	case ctx.function != nil:
		name := ctx.function.node.ID.Name
		ret := ctx.function.ret
		isVoid := isPrimitive(ret, PrimitiveVoid)
		switch {
		case stmt.Argument == nil && !isVoid && !isUnknown(ret):
			diags = append(diags, Diagnostic{Message: fmt.Sprintf("typechecker: function %s must return %s", name, typeName(ret)), Node: stmt})
		case stmt.Argument != nil && isVoid:
			diags = append(diags, Diagnostic{Message: fmt.Sprintf("typechecker: void function %s cannot return a value", name), Node: stmt})
		case stmt.Argument != nil && !assignable(ret, valueType):
			diags = append(diags, Diagnostic{Message: fmt.Sprintf("typechecker: function %s returns %s, expected %s", name, typeName(valueType), typeName(ret)), Node: stmt})
		}
	}
	return diags
}
