package generator

import (
	"fmt"
	"iter"

	"mylang/interpreter-go/pkg/runtime"
)

// Converter turns a yielded runtime value into a Go value.
type Converter[T any] func(runtime.Value) (T, error)

// Typed adapts a Handle to a Go-typed Next/Current/Err iterator.
type Typed[T any] struct {
	handle  *Handle
	convert Converter[T]
	current T
	err     error
}

func NewTyped[T any](h *Handle, convert func(runtime.Value) (T, error)) *Typed[T] {
	return &Typed[T]{handle: h, convert: convert}
}

// Next advances the underlying handle. A conversion failure closes the
// handle and is reported through Err.
func (t *Typed[T]) Next() bool {
	var zero T
	t.current = zero
	if t.err != nil {
		return false
	}
	ok, err := t.handle.Next()
	if err != nil {
		t.err = err
		return false
	}
	if !ok {
		return false
	}
	val, err := t.handle.Current()
	if err != nil {
		t.err = err
		return false
	}
	conv, err := t.convert(val)
	if err != nil {
		t.handle.Close()
		t.err = fmt.Errorf("generator %s: %w", t.handle.def.Name, err)
		return false
	}
	t.current = conv
	return true
}

// Current is the value from the last Next that returned true. It is the
// zero value before the first Next and once Next has returned false.
func (t *Typed[T]) Current() T { return t.current }

func (t *Typed[T]) Err() error { return t.err }

// All ranges over the remaining values. Stopping early closes the handle.
func (t *Typed[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for t.Next() {
			if !yield(t.current) {
				t.handle.Close()
				return
			}
		}
	}
}

// Collect drains the generator into a slice.
func Collect[T any](h *Handle, convert func(runtime.Value) (T, error)) ([]T, error) {
	typed := NewTyped(h, convert)
	var out []T
	for v := range typed.All() {
		out = append(out, v)
	}
	return out, typed.Err()
}

func Ints(v runtime.Value) (int64, error) {
	iv, ok := v.(runtime.IntegerValue)
	if !ok {
		return 0, fmt.Errorf("expected int, got %s", runtime.TypeName(v))
	}
	return iv.Val, nil
}

// Floats accepts both float and double values.
func Floats(v runtime.Value) (float64, error) {
	fv, ok := v.(runtime.FloatValue)
	if !ok {
		return 0, fmt.Errorf("expected float or double, got %s", runtime.TypeName(v))
	}
	return fv.Val, nil
}

func Bools(v runtime.Value) (bool, error) {
	bv, ok := v.(runtime.BoolValue)
	if !ok {
		return false, fmt.Errorf("expected bool, got %s", runtime.TypeName(v))
	}
	return bv.Val, nil
}

func Strings(v runtime.Value) (string, error) {
	sv, ok := v.(runtime.StringValue)
	if !ok {
		return "", fmt.Errorf("expected string, got %s", runtime.TypeName(v))
	}
	return sv.Val, nil
}

// Values passes runtime values through unchanged.
func Values(v runtime.Value) (runtime.Value, error) {
	return v, nil
}
