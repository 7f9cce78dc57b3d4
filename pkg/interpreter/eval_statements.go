package interpreter

import (
	"fmt"

	"mylang/interpreter-go/pkg/ast"
	"mylang/interpreter-go/pkg/runtime"
)

// ExecuteStatement implements generator.Evaluator for the statements that
// never suspend. Control flow is handled by the machine.
func (i *Interpreter) ExecuteStatement(node ast.Statement, env *runtime.Environment) error {
	switch n := node.(type) {
	case *ast.VariableDeclaration:
		return i.executeVariableDeclaration(n, env)
	case *ast.AssignmentStatement:
		return i.executeAssignment(n, env)
	case *ast.ReadStatement:
		return i.executeRead(n, env)
	case *ast.GeneratorDefinition, *ast.FunctionDefinition:
		return i.fail(node, fmt.Errorf("definitions are only allowed at the top level"))
	case ast.Expression:
		_, err := i.EvaluateExpression(n, env)
		return err
	default:
		return i.fail(node, fmt.Errorf("unsupported statement %T", node))
	}
}

func (i *Interpreter) executeVariableDeclaration(decl *ast.VariableDeclaration, env *runtime.Environment) error {
	var (
		val runtime.Value
		err error
	)
	if decl.Value == nil {
		val, err = runtime.Zero(decl.VarType)
	} else {
		var init runtime.Value
		if init, err = i.EvaluateExpression(decl.Value, env); err != nil {
			return err
		}
		val, err = runtime.Coerce(runtime.Clone(init), decl.VarType)
	}
	if err != nil {
		return i.fail(decl, fmt.Errorf("%s: %w", decl.Name.Name, err))
	}
	env.Define(decl.Name.Name, val)
	return nil
}

func (i *Interpreter) executeAssignment(assign *ast.AssignmentStatement, env *runtime.Environment) error {
	val, err := i.EvaluateExpression(assign.Value, env)
	if err != nil {
		return err
	}
	return i.store(assign.Target, runtime.Clone(val), assign, env)
}

// store writes val into target, converting it to the kind of value the
// target already holds so declared types survive assignment.
func (i *Interpreter) store(target ast.AssignmentTarget, val runtime.Value, node ast.Node, env *runtime.Environment) error {
	switch t := target.(type) {
	case *ast.Identifier:
		existing, err := env.Get(t.Name)
		if err != nil {
			return i.fail(t, err)
		}
		converted, err := convertLike(existing, val)
		if err != nil {
			return i.fail(node, fmt.Errorf("%s: %w", t.Name, err))
		}
		if err := env.Assign(t.Name, converted); err != nil {
			return i.fail(t, err)
		}
		return nil
	case *ast.IndexExpression:
		arr, idx, err := i.resolveIndex(t, env)
		if err != nil {
			return err
		}
		converted, err := convertLike(arr.Elements[idx], val)
		if err != nil {
			return i.fail(node, err)
		}
		arr.Elements[idx] = converted
		return nil
	default:
		return i.fail(node, fmt.Errorf("invalid assignment target %T", target))
	}
}

// convertLike converts val to the type of existing: numbers follow the slot's
// int/float/double type, arrays keep their length and generator slots only
// accept handles.
func convertLike(existing, val runtime.Value) (runtime.Value, error) {
	switch ex := existing.(type) {
	case runtime.IntegerValue:
		if v, ok := val.(runtime.IntegerValue); ok {
			return v, nil
		}
	case runtime.FloatValue:
		switch v := val.(type) {
		case runtime.IntegerValue:
			return runtime.NewFloat(float64(v.Val), ex.TypeSuffix), nil
		case runtime.FloatValue:
			return runtime.NewFloat(v.Val, ex.TypeSuffix), nil
		}
	case runtime.BoolValue:
		if v, ok := val.(runtime.BoolValue); ok {
			return v, nil
		}
	case runtime.StringValue:
		if v, ok := val.(runtime.StringValue); ok {
			return v, nil
		}
	case *runtime.ArrayValue:
		v, ok := val.(*runtime.ArrayValue)
		if !ok {
			break
		}
		if len(v.Elements) > len(ex.Elements) {
			return nil, fmt.Errorf("array of length %d does not fit length %d", len(v.Elements), len(ex.Elements))
		}
		out := make([]runtime.Value, len(ex.Elements))
		for idx := range out {
			if idx >= len(v.Elements) {
				out[idx] = zeroLike(ex.Elements[idx])
				continue
			}
			elem, err := convertLike(ex.Elements[idx], v.Elements[idx])
			if err != nil {
				return nil, err
			}
			out[idx] = elem
		}
		return &runtime.ArrayValue{Elements: out}, nil
	default:
		if existing != nil && existing.Kind() == runtime.KindGenerator {
			if val != nil && val.Kind() == runtime.KindGenerator {
				return val, nil
			}
			return nil, fmt.Errorf("only a generator value can be assigned to a generator variable")
		}
	}
	return nil, fmt.Errorf("cannot assign %s to %s", runtime.TypeName(val), runtime.TypeName(existing))
}

func zeroLike(v runtime.Value) runtime.Value {
	switch x := v.(type) {
	case runtime.IntegerValue:
		return runtime.IntegerValue{}
	case runtime.FloatValue:
		return runtime.FloatValue{TypeSuffix: x.TypeSuffix}
	case runtime.BoolValue:
		return runtime.BoolValue{}
	case runtime.StringValue:
		return runtime.StringValue{}
	case *runtime.ArrayValue:
		out := make([]runtime.Value, len(x.Elements))
		for idx, elem := range x.Elements {
			out[idx] = zeroLike(elem)
		}
		return &runtime.ArrayValue{Elements: out}
	default:
		return v
	}
}
