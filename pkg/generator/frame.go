package generator

import (
	"fmt"

	"mylang/interpreter-go/pkg/ast"
	"mylang/interpreter-go/pkg/runtime"
)

// Frame is one activation: its private environment, the body it runs and the
// suspension point inside that body. Only Machine mutates a frame.
type Frame struct {
	name  string
	env   *runtime.Environment
	body  *ast.Block
	point SuspensionPoint
	done  bool
}

// NewFrame prepares a frame that runs body with env as its root scope.
// Statements at the top of body declare directly into env.
func NewFrame(name string, body *ast.Block, env *runtime.Environment) *Frame {
	return &Frame{name: name, env: env, body: body}
}

func (f *Frame) Name() string { return f.name }

func (f *Frame) Env() *runtime.Environment { return f.env }

// Suspension exposes the frame's resumption path.
func (f *Frame) Suspension() *SuspensionPoint { return &f.point }

// Done reports whether the frame ran to completion or faulted.
func (f *Frame) Done() bool { return f.done }

func (f *Frame) finish() {
	f.done = true
	f.point.clear()
}

// BindParameters defines each parameter in env. Arguments are cloned and
// converted to the declared parameter type, so arrays are bound by value.
func BindParameters(params []*ast.FunctionParameter, args []runtime.Value, env *runtime.Environment) error {
	if len(args) != len(params) {
		return fmt.Errorf("expected %d arguments, got %d", len(params), len(args))
	}
	for i, param := range params {
		if param == nil || param.Name == nil {
			return fmt.Errorf("parameter %d has no name", i)
		}
		val, err := runtime.Coerce(runtime.Clone(args[i]), param.ParamType)
		if err != nil {
			return fmt.Errorf("argument %d (%s): %w", i+1, param.Name.Name, err)
		}
		env.Define(param.Name.Name, val)
	}
	return nil
}
