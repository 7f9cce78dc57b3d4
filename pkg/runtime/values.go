package runtime

import (
	"fmt"
	"io"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInteger
	KindFloat
	KindArray
	KindVoid
	KindNativeFunction
	KindGenerator
)

var kindNames = [...]string{
	KindString:         "string",
	KindBool:           "bool",
	KindInteger:        "integer",
	KindFloat:          "float",
	KindArray:          "array",
	KindVoid:           "void",
	KindNativeFunction: "native_function",
	KindGenerator:      "generator",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("unknown_kind_%d", int(k))
}

// Value is anything a MyLang variable can hold, including generator handles.
type Value interface {
	Kind() Kind
}

type StringValue struct{ Val string }

type BoolValue struct{ Val bool }

// IntegerValue is MyLang's int.
type IntegerValue struct{ Val int64 }

// FloatType separates MyLang's float (f32) from double (f64).
type FloatType string

const (
	FloatF32 FloatType = "f32"
	FloatF64 FloatType = "f64"
)

// FloatValue holds both float widths in a float64; f32 values are kept
// rounded to float32 precision.
type FloatValue struct {
	Val        float64
	TypeSuffix FloatType
}

// NewFloat builds a float value, rounding through float32 for f32. Any
// other suffix becomes f64.
func NewFloat(val float64, suffix FloatType) FloatValue {
	if suffix != FloatF32 {
		return FloatValue{Val: val, TypeSuffix: FloatF64}
	}
	return FloatValue{Val: float64(float32(val)), TypeSuffix: FloatF32}
}

// VoidValue is what a void function call evaluates to.
type VoidValue struct{}

// ArrayValue is a fixed-size array. Declarations, assignments, call
// arguments and g.current all receive a Clone, so arrays behave as values.
type ArrayValue struct {
	Elements []Value
}

// NativeCallContext is handed to builtins.
type NativeCallContext struct {
	Env    *Environment
	Stdout io.Writer
}

type NativeFunc func(*NativeCallContext, []Value) (Value, error)

// NativeFunctionValue is a builtin such as print.
type NativeFunctionValue struct {
	Name  string
	Arity int
	Impl  NativeFunc
}

func (StringValue) Kind() Kind         { return KindString }
func (BoolValue) Kind() Kind           { return KindBool }
func (IntegerValue) Kind() Kind        { return KindInteger }
func (FloatValue) Kind() Kind          { return KindFloat }
func (VoidValue) Kind() Kind           { return KindVoid }
func (*ArrayValue) Kind() Kind         { return KindArray }
func (NativeFunctionValue) Kind() Kind { return KindNativeFunction }
