package interpreter

import (
	"fmt"

	"mylang/interpreter-go/pkg/runtime"
)

// numericPair widens two numeric operands to a common representation. The
// result suffix is f64 when either side is a double, f32 when either side is
// a float, and empty for two ints.
func numericPair(left, right runtime.Value) (l, r float64, li, ri int64, suffix runtime.FloatType, ok bool) {
	switch lv := left.(type) {
	case runtime.IntegerValue:
		li, l = lv.Val, float64(lv.Val)
	case runtime.FloatValue:
		l, suffix = lv.Val, lv.TypeSuffix
	default:
		return 0, 0, 0, 0, "", false
	}
	switch rv := right.(type) {
	case runtime.IntegerValue:
		ri, r = rv.Val, float64(rv.Val)
	case runtime.FloatValue:
		r = rv.Val
		if suffix != runtime.FloatF64 {
			suffix = rv.TypeSuffix
		}
	default:
		return 0, 0, 0, 0, "", false
	}
	return l, r, li, ri, suffix, true
}

func evaluateArithmetic(op string, left, right runtime.Value) (runtime.Value, error) {
	if ls, ok := left.(runtime.StringValue); ok && op == "+" {
		rs, ok := right.(runtime.StringValue)
		if !ok {
			return nil, fmt.Errorf("string concatenation requires both operands to be strings")
		}
		return runtime.StringValue{Val: ls.Val + rs.Val}, nil
	}
	l, r, li, ri, suffix, ok := numericPair(left, right)
	if !ok {
		return nil, fmt.Errorf("operator '%s' cannot be applied to %s and %s", op, runtime.TypeName(left), runtime.TypeName(right))
	}
	if suffix == "" {
		switch op {
		case "+":
			return runtime.IntegerValue{Val: li + ri}, nil
		case "-":
			return runtime.IntegerValue{Val: li - ri}, nil
		case "*":
			return runtime.IntegerValue{Val: li * ri}, nil
		case "/":
			if ri == 0 {
				return nil, fmt.Errorf("division by zero")
			}
			return runtime.IntegerValue{Val: li / ri}, nil
		case "%":
			if ri == 0 {
				return nil, fmt.Errorf("modulo by zero")
			}
			return runtime.IntegerValue{Val: li % ri}, nil
		}
		return nil, fmt.Errorf("unsupported arithmetic operator %s", op)
	}
	var val float64
	switch op {
	case "+":
		val = l + r
	case "-":
		val = l - r
	case "*":
		val = l * r
	case "/":
		val = l / r
	default:
		return nil, fmt.Errorf("operator '%s' requires int operands", op)
	}
	return runtime.NewFloat(val, suffix), nil
}

func evaluateComparison(op string, left, right runtime.Value) (runtime.Value, error) {
	l, r, li, ri, suffix, ok := numericPair(left, right)
	if !ok {
		return nil, fmt.Errorf("operator '%s' cannot be applied to %s and %s", op, runtime.TypeName(left), runtime.TypeName(right))
	}
	cmp := 0
	if suffix == "" {
		switch {
		case li < ri:
			cmp = -1
		case li > ri:
			cmp = 1
		}
	} else {
		switch {
		case l < r:
			cmp = -1
		case l > r:
			cmp = 1
		}
	}
	return runtime.BoolValue{Val: comparisonOp(op, cmp)}, nil
}

func comparisonOp(op string, cmp int) bool {
	switch op {
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	default:
		return false
	}
}

// evaluateEquality compares numbers by value across int/float/double, and
// bools and strings by content.
func evaluateEquality(left, right runtime.Value) (runtime.Value, error) {
	if l, r, li, ri, suffix, ok := numericPair(left, right); ok {
		if suffix == "" {
			return runtime.BoolValue{Val: li == ri}, nil
		}
		return runtime.BoolValue{Val: l == r}, nil
	}
	switch lv := left.(type) {
	case runtime.StringValue:
		if rv, ok := right.(runtime.StringValue); ok {
			return runtime.BoolValue{Val: lv.Val == rv.Val}, nil
		}
	case runtime.BoolValue:
		if rv, ok := right.(runtime.BoolValue); ok {
			return runtime.BoolValue{Val: lv.Val == rv.Val}, nil
		}
	}
	return nil, fmt.Errorf("cannot compare %s and %s", runtime.TypeName(left), runtime.TypeName(right))
}
