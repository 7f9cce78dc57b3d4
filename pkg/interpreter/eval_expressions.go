package interpreter

import (
	"fmt"

	"mylang/interpreter-go/pkg/ast"
	"mylang/interpreter-go/pkg/generator"
	"mylang/interpreter-go/pkg/runtime"
)

// EvaluateExpression implements generator.Evaluator.
func (i *Interpreter) EvaluateExpression(node ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case nil:
		return nil, fmt.Errorf("missing expression")
	case *ast.StringLiteral:
		return runtime.StringValue{Val: n.Value}, nil
	case *ast.BooleanLiteral:
		return runtime.BoolValue{Val: n.Value}, nil
	case *ast.IntegerLiteral:
		return runtime.IntegerValue{Val: n.Value}, nil
	case *ast.FloatLiteral:
		suffix := runtime.FloatF64
		if n.FloatType == ast.FloatTypeF32 {
			suffix = runtime.FloatF32
		}
		return runtime.NewFloat(n.Value, suffix), nil
	case *ast.ArrayLiteral:
		elems := make([]runtime.Value, len(n.Elements))
		for idx, el := range n.Elements {
			val, err := i.EvaluateExpression(el, env)
			if err != nil {
				return nil, err
			}
			elems[idx] = runtime.Clone(val)
		}
		return &runtime.ArrayValue{Elements: elems}, nil
	case *ast.Identifier:
		return i.evaluateIdentifier(n, env)
	case *ast.UnaryExpression:
		return i.evaluateUnaryExpression(n, env)
	case *ast.BinaryExpression:
		return i.evaluateBinaryExpression(n, env)
	case *ast.IndexExpression:
		return i.evaluateIndexExpression(n, env)
	case *ast.SliceExpression:
		return i.evaluateSliceExpression(n, env)
	case *ast.MemberAccessExpression:
		return i.evaluateMemberAccess(n, env)
	case *ast.FunctionCall:
		return i.evaluateFunctionCall(n, env)
	default:
		return nil, i.fail(node, fmt.Errorf("unsupported expression %T", node))
	}
}

func (i *Interpreter) evaluateIdentifier(id *ast.Identifier, env *runtime.Environment) (runtime.Value, error) {
	val, err := env.Get(id.Name)
	if err == nil {
		return val, nil
	}
	if _, ok := i.generators.Lookup(id.Name); ok {
		return nil, i.fail(id, fmt.Errorf("generator '%s' must be called", id.Name))
	}
	if _, ok := i.functions[id.Name]; ok {
		return nil, i.fail(id, fmt.Errorf("function '%s' must be called", id.Name))
	}
	return nil, i.fail(id, err)
}

func (i *Interpreter) evaluateUnaryExpression(expr *ast.UnaryExpression, env *runtime.Environment) (runtime.Value, error) {
	operand, err := i.EvaluateExpression(expr.Operand, env)
	if err != nil {
		return nil, err
	}
	switch expr.Operator {
	case ast.UnaryOperatorNegate:
		switch v := operand.(type) {
		case runtime.IntegerValue:
			return runtime.IntegerValue{Val: -v.Val}, nil
		case runtime.FloatValue:
			return runtime.NewFloat(-v.Val, v.TypeSuffix), nil
		}
		return nil, i.fail(expr, fmt.Errorf("unary '-' requires a numeric operand, got %s", runtime.TypeName(operand)))
	case ast.UnaryOperatorNot:
		if b, ok := operand.(runtime.BoolValue); ok {
			return runtime.BoolValue{Val: !b.Val}, nil
		}
		return nil, i.fail(expr, fmt.Errorf("unary '!' requires a bool operand, got %s", runtime.TypeName(operand)))
	default:
		return nil, i.fail(expr, fmt.Errorf("unsupported unary operator %s", expr.Operator))
	}
}

func (i *Interpreter) evaluateBinaryExpression(expr *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.EvaluateExpression(expr.Left, env)
	if err != nil {
		return nil, err
	}
	switch expr.Operator {
	case "&&", "||":
		lb, ok := left.(runtime.BoolValue)
		if !ok {
			return nil, i.fail(expr, fmt.Errorf("operator '%s' requires bool operands, got %s", expr.Operator, runtime.TypeName(left)))
		}
		if (expr.Operator == "&&" && !lb.Val) || (expr.Operator == "||" && lb.Val) {
			return lb, nil
		}
		right, err := i.EvaluateExpression(expr.Right, env)
		if err != nil {
			return nil, err
		}
		rb, ok := right.(runtime.BoolValue)
		if !ok {
			return nil, i.fail(expr, fmt.Errorf("operator '%s' requires bool operands, got %s", expr.Operator, runtime.TypeName(right)))
		}
		return rb, nil
	}
	right, err := i.EvaluateExpression(expr.Right, env)
	if err != nil {
		return nil, err
	}
	var result runtime.Value
	switch expr.Operator {
	case "+", "-", "*", "/", "%":
		result, err = evaluateArithmetic(expr.Operator, left, right)
	case "<", "<=", ">", ">=":
		result, err = evaluateComparison(expr.Operator, left, right)
	case "==":
		result, err = evaluateEquality(left, right)
	case "!=":
		result, err = evaluateEquality(left, right)
		if err == nil {
			result = runtime.BoolValue{Val: !result.(runtime.BoolValue).Val}
		}
	case "^":
		lb, lok := left.(runtime.BoolValue)
		rb, rok := right.(runtime.BoolValue)
		if !lok || !rok {
			err = fmt.Errorf("operator '^' requires bool operands, got %s and %s", runtime.TypeName(left), runtime.TypeName(right))
			break
		}
		result = runtime.BoolValue{Val: lb.Val != rb.Val}
	default:
		err = fmt.Errorf("unsupported binary operator %s", expr.Operator)
	}
	if err != nil {
		return nil, i.fail(expr, err)
	}
	return result, nil
}

func (i *Interpreter) evaluateIndexExpression(expr *ast.IndexExpression, env *runtime.Environment) (runtime.Value, error) {
	arr, idx, err := i.resolveIndex(expr, env)
	if err != nil {
		return nil, err
	}
	return arr.Elements[idx], nil
}

// evaluateSliceExpression copies arr[low:high] into a new array.
func (i *Interpreter) evaluateSliceExpression(expr *ast.SliceExpression, env *runtime.Environment) (runtime.Value, error) {
	obj, err := i.EvaluateExpression(expr.Object, env)
	if err != nil {
		return nil, err
	}
	arr, ok := obj.(*runtime.ArrayValue)
	if !ok {
		return nil, i.fail(expr, fmt.Errorf("cannot slice %s", runtime.TypeName(obj)))
	}
	low, err := i.sliceBound(expr.Low, 0, env)
	if err != nil {
		return nil, err
	}
	high, err := i.sliceBound(expr.High, int64(len(arr.Elements)), env)
	if err != nil {
		return nil, err
	}
	if low < 0 || high > int64(len(arr.Elements)) || low > high {
		return nil, i.fail(expr, fmt.Errorf("slice [%d:%d] out of bounds for length %d", low, high, len(arr.Elements)))
	}
	elems := make([]runtime.Value, 0, high-low)
	for _, el := range arr.Elements[low:high] {
		elems = append(elems, runtime.Clone(el))
	}
	return &runtime.ArrayValue{Elements: elems}, nil
}

func (i *Interpreter) sliceBound(bound ast.Expression, fallback int64, env *runtime.Environment) (int64, error) {
	if bound == nil {
		return fallback, nil
	}
	val, err := i.EvaluateExpression(bound, env)
	if err != nil {
		return 0, err
	}
	n, ok := val.(runtime.IntegerValue)
	if !ok {
		return 0, i.fail(bound, fmt.Errorf("slice bound must be int, got %s", runtime.TypeName(val)))
	}
	return n.Val, nil
}

// resolveIndex evaluates the array and the bounds-checked index of expr.
func (i *Interpreter) resolveIndex(expr *ast.IndexExpression, env *runtime.Environment) (*runtime.ArrayValue, int, error) {
	obj, err := i.EvaluateExpression(expr.Object, env)
	if err != nil {
		return nil, 0, err
	}
	arr, ok := obj.(*runtime.ArrayValue)
	if !ok {
		return nil, 0, i.fail(expr, fmt.Errorf("cannot index %s", runtime.TypeName(obj)))
	}
	idxVal, err := i.EvaluateExpression(expr.Index, env)
	if err != nil {
		return nil, 0, err
	}
	idx, ok := idxVal.(runtime.IntegerValue)
	if !ok {
		return nil, 0, i.fail(expr.Index, fmt.Errorf("array index must be int, got %s", runtime.TypeName(idxVal)))
	}
	if idx.Val < 0 || idx.Val >= int64(len(arr.Elements)) {
		return nil, 0, i.fail(expr, fmt.Errorf("array index %d out of bounds for length %d", idx.Val, len(arr.Elements)))
	}
	return arr, int(idx.Val), nil
}

func (i *Interpreter) evaluateFunctionCall(call *ast.FunctionCall, env *runtime.Environment) (runtime.Value, error) {
	if member, ok := call.Callee.(*ast.MemberAccessExpression); ok {
		return i.evaluateMethodCall(call, member, env)
	}
	id, ok := call.Callee.(*ast.Identifier)
	if !ok {
		return nil, i.fail(call, fmt.Errorf("expression is not callable"))
	}
	args, err := i.evaluateArguments(call.Arguments, env)
	if err != nil {
		return nil, err
	}
	if val, err := env.Get(id.Name); err == nil {
		native, ok := val.(runtime.NativeFunctionValue)
		if !ok {
			return nil, i.fail(call, fmt.Errorf("'%s' is not callable", id.Name))
		}
		if native.Arity >= 0 && len(args) != native.Arity {
			return nil, i.fail(call, fmt.Errorf("%s expects %d arguments, got %d", native.Name, native.Arity, len(args)))
		}
		ctx := &runtime.NativeCallContext{Env: env, Stdout: i.config.Stdout}
		result, err := native.Impl(ctx, args)
		if err != nil {
			return nil, i.fail(call, err)
		}
		return result, nil
	}
	if def, ok := i.generators.Lookup(id.Name); ok {
		handle, err := i.machine.Instantiate(def, i.global, args)
		if err != nil {
			return nil, i.fail(call, err)
		}
		return handle, nil
	}
	if def, ok := i.functions[id.Name]; ok {
		result, err := i.invokeFunction(def, args)
		if err != nil {
			return nil, i.fail(call, err)
		}
		return result, nil
	}
	return nil, i.fail(call, fmt.Errorf("undefined function '%s'", id.Name))
}

func (i *Interpreter) evaluateArguments(exprs []ast.Expression, env *runtime.Environment) ([]runtime.Value, error) {
	args := make([]runtime.Value, len(exprs))
	for idx, expr := range exprs {
		val, err := i.EvaluateExpression(expr, env)
		if err != nil {
			return nil, err
		}
		args[idx] = val
	}
	return args, nil
}

// handleOf evaluates obj and requires a generator handle.
func (i *Interpreter) handleOf(obj ast.Expression, member string, env *runtime.Environment) (*generator.Handle, error) {
	val, err := i.EvaluateExpression(obj, env)
	if err != nil {
		return nil, err
	}
	handle, ok := val.(*generator.Handle)
	if !ok {
		return nil, i.fail(obj, fmt.Errorf("cannot access '%s' on %s", member, runtime.TypeName(val)))
	}
	return handle, nil
}
