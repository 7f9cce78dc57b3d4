package interpreter

import (
	"errors"
	"fmt"
	"strings"

	"mylang/interpreter-go/pkg/ast"
	"mylang/interpreter-go/pkg/typechecker"
)

// RuntimeError is an evaluation failure tied to the node that raised it.
type RuntimeError struct {
	Err  error
	Node ast.Node
}

func (e *RuntimeError) Error() string {
	if e.Node != nil {
		if pos := e.Node.Span().String(); pos != "" {
			return fmt.Sprintf("runtime error at %s: %v", pos, e.Err)
		}
	}
	return fmt.Sprintf("runtime error: %v", e.Err)
}

func (e *RuntimeError) Unwrap() error { return e.Err }

// TypecheckError reports the diagnostics that prevented evaluation.
type TypecheckError struct {
	Diagnostics []typechecker.Diagnostic
}

func (e *TypecheckError) Error() string {
	if len(e.Diagnostics) == 1 {
		return e.Diagnostics[0].String()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d typecheck diagnostics:", len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		b.WriteString("\n- ")
		b.WriteString(d.String())
	}
	return b.String()
}

// fail attaches node to err unless err already carries a location.
func (i *Interpreter) fail(node ast.Node, err error) error {
	if err == nil {
		return nil
	}
	var rt *RuntimeError
	if errors.As(err, &rt) {
		return err
	}
	return &RuntimeError{Err: err, Node: node}
}
