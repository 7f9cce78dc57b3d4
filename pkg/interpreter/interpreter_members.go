package interpreter

import (
	"errors"
	"fmt"

	"mylang/interpreter-go/pkg/ast"
	"mylang/interpreter-go/pkg/generator"
	"mylang/interpreter-go/pkg/runtime"
)

const (
	memberNext    = "next"
	memberCurrent = "current"
)

// evaluateMemberAccess handles g.current.
func (i *Interpreter) evaluateMemberAccess(expr *ast.MemberAccessExpression, env *runtime.Environment) (runtime.Value, error) {
	member := expr.Member.Name
	handle, err := i.handleOf(expr.Object, member, env)
	if err != nil {
		return nil, err
	}
	switch member {
	case memberCurrent:
		val, err := handle.Current()
		if err != nil {
			return nil, i.fail(expr, err)
		}
		return runtime.Clone(val), nil
	case memberNext:
		return nil, i.fail(expr, fmt.Errorf("generator method 'next' must be called"))
	default:
		return nil, i.fail(expr, fmt.Errorf("generator has no member '%s'", member))
	}
}

// evaluateMethodCall handles g.next(). A fault in the generator body is
// reported or propagated according to the fault policy; the handle is
// exhausted either way.
func (i *Interpreter) evaluateMethodCall(call *ast.FunctionCall, member *ast.MemberAccessExpression, env *runtime.Environment) (runtime.Value, error) {
	name := member.Member.Name
	handle, err := i.handleOf(member.Object, name, env)
	if err != nil {
		return nil, err
	}
	if name != memberNext {
		return nil, i.fail(call, fmt.Errorf("generator has no method '%s'", name))
	}
	if len(call.Arguments) != 0 {
		return nil, i.fail(call, fmt.Errorf("next expects 0 arguments, got %d", len(call.Arguments)))
	}
	if i.callDepth >= maxCallDepth {
		return nil, i.fail(call, fmt.Errorf("call depth exceeded in generator %s", handle.Definition().Name))
	}
	i.callDepth++
	ok, err := handle.Next()
	i.callDepth--
	if err == nil {
		return runtime.BoolValue{Val: ok}, nil
	}
	if errors.Is(err, generator.ErrReentrantNext) || i.config.Faults == FaultsAbort {
		return nil, i.fail(call, err)
	}
	cause := errors.Unwrap(err)
	if cause == nil {
		cause = err
	}
	fmt.Fprintf(i.config.Diagnostics, "generator %s faulted: %v\n", handle.Definition().Name, cause)
	return runtime.BoolValue{Val: false}, nil
}
