package runtime

import (
	"errors"
	"testing"
)

func TestEnvironmentShadowingAndAssign(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("x", IntegerValue{Val: 1})

	inner := global.Extend()
	inner.Define("y", StringValue{Val: "hi"})
	if err := inner.Assign("x", IntegerValue{Val: 2}); err != nil {
		t.Fatalf("assign through parent: %v", err)
	}
	got, err := global.Get("x")
	if err != nil {
		t.Fatalf("get x: %v", err)
	}
	if iv, ok := got.(IntegerValue); !ok || iv.Val != 2 {
		t.Fatalf("expected x=2 in global scope, got %#v", got)
	}

	inner.Define("x", IntegerValue{Val: 9})
	got, _ = global.Get("x")
	if got.(IntegerValue).Val != 2 {
		t.Fatalf("shadowing leaked into parent: %#v", got)
	}
	if !inner.Has("y") || global.Has("y") {
		t.Fatalf("expected y to be bound only in the inner scope")
	}
	if inner.Parent() != global {
		t.Fatalf("expected parent link to global")
	}
}

func TestEnvironmentUndefinedVariable(t *testing.T) {
	env := NewEnvironment(nil)
	if _, err := env.Get("missing"); err == nil || err.Error() != "Undefined variable 'missing'" {
		t.Fatalf("expected undefined variable error, got %v", err)
	}
	err := env.Assign("missing", BoolValue{Val: true})
	var undefined *UndefinedError
	if !errors.As(err, &undefined) || undefined.Name != "missing" {
		t.Fatalf("expected an UndefinedError for missing, got %v", err)
	}
}

func TestEnvironmentKeysSorted(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("b", VoidValue{})
	env.Define("a", VoidValue{})
	keys := env.Keys()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Fatalf("expected sorted keys [a b], got %v", keys)
	}
}
