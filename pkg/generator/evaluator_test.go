package generator

import (
	"fmt"

	"mylang/interpreter-go/pkg/ast"
	"mylang/interpreter-go/pkg/runtime"
)

// stubEvaluator understands just enough of the language to drive the machine
// in isolation: literals, identifiers, integer arithmetic, comparisons,
// indexing, declarations and assignments.
type stubEvaluator struct {
	log   []string
	hooks map[string]func() error
}

func newStubEvaluator() *stubEvaluator {
	return &stubEvaluator{hooks: make(map[string]func() error)}
}

func (s *stubEvaluator) EvaluateExpression(expr ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return runtime.IntegerValue{Val: e.Value}, nil
	case *ast.FloatLiteral:
		return runtime.NewFloat(e.Value, runtime.FloatType(e.FloatType)), nil
	case *ast.StringLiteral:
		return runtime.StringValue{Val: e.Value}, nil
	case *ast.BooleanLiteral:
		return runtime.BoolValue{Val: e.Value}, nil
	case *ast.ArrayLiteral:
		elems := make([]runtime.Value, len(e.Elements))
		for i, el := range e.Elements {
			v, err := s.EvaluateExpression(el, env)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return &runtime.ArrayValue{Elements: elems}, nil
	case *ast.Identifier:
		return env.Get(e.Name)
	case *ast.UnaryExpression:
		v, err := s.EvaluateExpression(e.Operand, env)
		if err != nil {
			return nil, err
		}
		switch x := v.(type) {
		case runtime.IntegerValue:
			return runtime.IntegerValue{Val: -x.Val}, nil
		case runtime.FloatValue:
			return runtime.NewFloat(-x.Val, x.TypeSuffix), nil
		case runtime.BoolValue:
			return runtime.BoolValue{Val: !x.Val}, nil
		}
		return nil, fmt.Errorf("bad unary operand %s", runtime.TypeName(v))
	case *ast.IndexExpression:
		obj, err := s.EvaluateExpression(e.Object, env)
		if err != nil {
			return nil, err
		}
		idx, err := s.EvaluateExpression(e.Index, env)
		if err != nil {
			return nil, err
		}
		arr := obj.(*runtime.ArrayValue)
		i := idx.(runtime.IntegerValue).Val
		if i < 0 || int(i) >= len(arr.Elements) {
			return nil, fmt.Errorf("index %d out of bounds for length %d", i, len(arr.Elements))
		}
		return arr.Elements[i], nil
	case *ast.BinaryExpression:
		return s.binary(e, env)
	case *ast.FunctionCall:
		name := e.Callee.(*ast.Identifier).Name
		if hook, ok := s.hooks[name]; ok {
			if err := hook(); err != nil {
				return nil, err
			}
			return runtime.VoidValue{}, nil
		}
		args := make([]string, len(e.Arguments))
		for i, arg := range e.Arguments {
			v, err := s.EvaluateExpression(arg, env)
			if err != nil {
				return nil, err
			}
			args[i] = runtime.Format(v)
		}
		s.log = append(s.log, fmt.Sprintf("%s%v", name, args))
		return runtime.VoidValue{}, nil
	}
	return nil, fmt.Errorf("stub evaluator cannot evaluate %T", expr)
}

func (s *stubEvaluator) binary(e *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	lv, err := s.EvaluateExpression(e.Left, env)
	if err != nil {
		return nil, err
	}
	rv, err := s.EvaluateExpression(e.Right, env)
	if err != nil {
		return nil, err
	}
	if ls, ok := lv.(runtime.StringValue); ok {
		rs := rv.(runtime.StringValue)
		switch e.Operator {
		case "==":
			return runtime.BoolValue{Val: ls.Val == rs.Val}, nil
		case "!=":
			return runtime.BoolValue{Val: ls.Val != rs.Val}, nil
		}
		return nil, fmt.Errorf("bad string operator %s", e.Operator)
	}
	l := lv.(runtime.IntegerValue).Val
	r := rv.(runtime.IntegerValue).Val
	switch e.Operator {
	case "+":
		return runtime.IntegerValue{Val: l + r}, nil
	case "-":
		return runtime.IntegerValue{Val: l - r}, nil
	case "*":
		return runtime.IntegerValue{Val: l * r}, nil
	case "/":
		if r == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return runtime.IntegerValue{Val: l / r}, nil
	case "<":
		return runtime.BoolValue{Val: l < r}, nil
	case "<=":
		return runtime.BoolValue{Val: l <= r}, nil
	case ">":
		return runtime.BoolValue{Val: l > r}, nil
	case ">=":
		return runtime.BoolValue{Val: l >= r}, nil
	case "==":
		return runtime.BoolValue{Val: l == r}, nil
	case "!=":
		return runtime.BoolValue{Val: l != r}, nil
	}
	return nil, fmt.Errorf("bad operator %s", e.Operator)
}

func (s *stubEvaluator) ExecuteStatement(stmt ast.Statement, env *runtime.Environment) error {
	switch st := stmt.(type) {
	case *ast.VariableDeclaration:
		var val runtime.Value
		var err error
		if st.Value != nil {
			val, err = s.EvaluateExpression(st.Value, env)
			if err == nil {
				val, err = runtime.Coerce(val, st.VarType)
			}
		} else {
			val, err = runtime.Zero(st.VarType)
		}
		if err != nil {
			return err
		}
		env.Define(st.Name.Name, val)
		return nil
	case *ast.AssignmentStatement:
		val, err := s.EvaluateExpression(st.Value, env)
		if err != nil {
			return err
		}
		switch target := st.Target.(type) {
		case *ast.Identifier:
			return env.Assign(target.Name, val)
		case *ast.IndexExpression:
			obj, err := s.EvaluateExpression(target.Object, env)
			if err != nil {
				return err
			}
			idx, err := s.EvaluateExpression(target.Index, env)
			if err != nil {
				return err
			}
			obj.(*runtime.ArrayValue).Elements[idx.(runtime.IntegerValue).Val] = val
			return nil
		}
		return fmt.Errorf("bad assignment target %T", st.Target)
	case ast.Expression:
		_, err := s.EvaluateExpression(st, env)
		return err
	}
	return fmt.Errorf("stub evaluator cannot execute %T", stmt)
}
