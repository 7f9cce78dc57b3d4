package interpreter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"mylang/interpreter-go/pkg/ast"
	"mylang/interpreter-go/pkg/runtime"
)

func (i *Interpreter) initBuiltins() {
	i.global.Define("print", runtime.NativeFunctionValue{
		Name:  "print",
		Arity: 1,
		Impl: func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if _, err := fmt.Fprintln(ctx.Stdout, runtime.Format(args[0])); err != nil {
				return nil, fmt.Errorf("print: %w", err)
			}
			return runtime.VoidValue{}, nil
		},
	})
}

// executeRead fills the target with the next whitespace-delimited token from
// Stdin, parsed according to the target's current type.
func (i *Interpreter) executeRead(stmt *ast.ReadStatement, env *runtime.Environment) error {
	var existing runtime.Value
	switch t := stmt.Target.(type) {
	case *ast.Identifier:
		val, err := env.Get(t.Name)
		if err != nil {
			return i.fail(t, err)
		}
		existing = val
	case *ast.IndexExpression:
		val, err := i.EvaluateExpression(t, env)
		if err != nil {
			return err
		}
		existing = val
	default:
		return i.fail(stmt, fmt.Errorf("invalid read target %T", stmt.Target))
	}
	token, err := i.readToken()
	if err != nil {
		return i.fail(stmt, err)
	}
	val, err := parseToken(token, existing)
	if err != nil {
		return i.fail(stmt, err)
	}
	return i.store(stmt.Target, val, stmt, env)
}

func (i *Interpreter) readToken() (string, error) {
	if i.input == nil {
		i.input = bufio.NewReader(i.config.Stdin)
	}
	var b strings.Builder
	for {
		r, _, err := i.input.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) && b.Len() > 0 {
				return b.String(), nil
			}
			if errors.Is(err, io.EOF) {
				return "", fmt.Errorf("read: unexpected end of input")
			}
			return "", fmt.Errorf("read: %w", err)
		}
		if unicode.IsSpace(r) {
			if b.Len() > 0 {
				return b.String(), nil
			}
			continue
		}
		b.WriteRune(r)
	}
}

func parseToken(token string, like runtime.Value) (runtime.Value, error) {
	switch v := like.(type) {
	case runtime.IntegerValue:
		n, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("read: %q is not an int", token)
		}
		return runtime.IntegerValue{Val: n}, nil
	case runtime.FloatValue:
		bits := 64
		if v.TypeSuffix == runtime.FloatF32 {
			bits = 32
		}
		f, err := strconv.ParseFloat(token, bits)
		if err != nil {
			return nil, fmt.Errorf("read: %q is not a %s", token, runtime.TypeName(like))
		}
		return runtime.NewFloat(f, v.TypeSuffix), nil
	case runtime.BoolValue:
		switch token {
		case "true":
			return runtime.BoolValue{Val: true}, nil
		case "false":
			return runtime.BoolValue{Val: false}, nil
		}
		return nil, fmt.Errorf("read: %q is not a bool", token)
	case runtime.StringValue:
		return runtime.StringValue{Val: token}, nil
	default:
		return nil, fmt.Errorf("read: cannot read into %s", runtime.TypeName(like))
	}
}
