package generator

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"mylang/interpreter-go/pkg/ast"
	"mylang/interpreter-go/pkg/runtime"
)

func intParams(names ...string) []*ast.FunctionParameter {
	params := make([]*ast.FunctionParameter, len(names))
	for i, name := range names {
		params[i] = ast.Param(name, ast.Ty("int"))
	}
	return params
}

func countingFor(start, stop ast.Expression, body ...ast.Statement) *ast.ForLoop {
	return ast.For(
		ast.Decl(ast.Ty("int"), "i", start),
		ast.Bin("<=", ast.ID("i"), stop),
		ast.Assign("i", ast.Bin("+", ast.ID("i"), ast.Int(1))),
		ast.Blk(body...),
	)
}

func oddNumbersDef() *Definition {
	isOdd := ast.Bin("==",
		ast.Bin("-", ast.ID("i"), ast.Bin("*", ast.Bin("/", ast.ID("i"), ast.Int(2)), ast.Int(2))),
		ast.Int(1),
	)
	node := ast.Gen("oddNumbers", intParams("start", "stop"), nil,
		countingFor(ast.ID("start"), ast.ID("stop"),
			ast.If(isOdd, ast.Blk(ast.Yield(ast.ID("i"))), nil),
		),
	)
	return NewDefinition(node, ast.Ty("int"))
}

func instantiate(t *testing.T, m *Machine, def *Definition, args ...runtime.Value) *Handle {
	t.Helper()
	h, err := m.Instantiate(def, runtime.NewEnvironment(nil), args)
	if err != nil {
		t.Fatalf("instantiate %s: %v", def.Name, err)
	}
	return h
}

func ints(vals ...int64) []runtime.Value {
	out := make([]runtime.Value, len(vals))
	for i, v := range vals {
		out[i] = runtime.IntegerValue{Val: v}
	}
	return out
}

func drainInts(t *testing.T, h *Handle) []int64 {
	t.Helper()
	got, err := Collect(h, Ints)
	if err != nil {
		t.Fatalf("drain %s: %v", h.Definition().Name, err)
	}
	return got
}

func TestOddNumbersResumesAtIncrement(t *testing.T) {
	m := NewMachine(newStubEvaluator())
	h := instantiate(t, m, oddNumbersDef(), ints(3, 15)...)
	got := drainInts(t, h)
	want := []int64{3, 5, 7, 9, 11, 13, 15}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestResumedLoopMatchesUninterruptedLoop(t *testing.T) {
	m := NewMachine(newStubEvaluator())
	for _, bounds := range [][2]int64{{0, 0}, {1, 20}, {-7, 4}, {10, 3}} {
		var want []int64
		for i := bounds[0]; i <= bounds[1]; i++ {
			if i-(i/2)*2 == 1 {
				want = append(want, i)
			}
		}
		got := drainInts(t, instantiate(t, m, oddNumbersDef(), ints(bounds[0], bounds[1])...))
		if len(want) == 0 && len(got) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("bounds %v: expected %v, got %v", bounds, want, got)
		}
	}
}

func TestEmptyRangeYieldsNothing(t *testing.T) {
	m := NewMachine(newStubEvaluator())
	h := instantiate(t, m, oddNumbersDef(), ints(8, 7)...)
	if h.State() != Fresh {
		t.Fatalf("expected fresh handle, got %s", h.State())
	}
	ok, err := h.Next()
	if err != nil || ok {
		t.Fatalf("expected first next to be false, got %v, %v", ok, err)
	}
	if h.State() != Exhausted {
		t.Fatalf("expected exhausted handle, got %s", h.State())
	}
	if _, err := h.Current(); !errors.Is(err, ErrNoCurrent) {
		t.Fatalf("expected ErrNoCurrent, got %v", err)
	}
}

func TestExhaustionIsIdempotent(t *testing.T) {
	m := NewMachine(newStubEvaluator())
	def := NewDefinition(ast.Gen("values", nil, nil,
		ast.Yield(ast.Int(1)),
		ast.Yield(ast.Int(2)),
		ast.Yield(ast.Int(3)),
	), nil)
	h := instantiate(t, m, def)
	got := drainInts(t, h)
	if !reflect.DeepEqual(got, []int64{1, 2, 3}) {
		t.Fatalf("expected [1 2 3], got %v", got)
	}
	for i := 0; i < 3; i++ {
		ok, err := h.Next()
		if ok || err != nil {
			t.Fatalf("call %d after exhaustion: expected false, nil; got %v, %v", i, ok, err)
		}
	}
}

func TestCurrentBeforeNextIsMisuse(t *testing.T) {
	m := NewMachine(newStubEvaluator())
	h := instantiate(t, m, oddNumbersDef(), ints(1, 3)...)
	if _, err := h.Current(); !errors.Is(err, ErrNoCurrent) {
		t.Fatalf("expected ErrNoCurrent before next, got %v", err)
	}
	if ok, _ := h.Next(); !ok {
		t.Fatalf("expected a first value")
	}
	v, err := h.Current()
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if v.(runtime.IntegerValue).Val != 1 {
		t.Fatalf("expected 1, got %s", runtime.Format(v))
	}
	// Current is stable until the next advance.
	again, _ := h.Current()
	if again.(runtime.IntegerValue).Val != 1 {
		t.Fatalf("expected current to stay 1, got %s", runtime.Format(again))
	}
}

func TestConditionalYieldOverLocalArray(t *testing.T) {
	m := NewMachine(newStubEvaluator())
	items := ast.Arr(ast.Str("apple"), ast.Str("banana"), ast.Str("cherry"), ast.Str("banana"))
	node := ast.Gen("skipWord", []*ast.FunctionParameter{ast.Param("skip", ast.Ty("string"))}, nil,
		ast.Decl(ast.ArrTy(ast.Ty("string"), 4), "items", items),
		ast.For(
			ast.Decl(ast.Ty("int"), "i", ast.Int(0)),
			ast.Bin("<", ast.ID("i"), ast.Int(4)),
			ast.Assign("i", ast.Bin("+", ast.ID("i"), ast.Int(1))),
			ast.Blk(ast.If(
				ast.Bin("!=", ast.Index(ast.ID("items"), ast.ID("i")), ast.ID("skip")),
				ast.Blk(ast.Yield(ast.Index(ast.ID("items"), ast.ID("i")))),
				nil,
			)),
		),
	)
	h := instantiate(t, m, NewDefinition(node, ast.Ty("string")), runtime.StringValue{Val: "banana"})
	got, err := Collect(h, Strings)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"apple", "cherry"}) {
		t.Fatalf("expected [apple cherry], got %v", got)
	}
}

func TestDoubleYieldsKeepExactValues(t *testing.T) {
	m := NewMachine(newStubEvaluator())
	node := ast.Gen("doubles", nil, ast.Ty("double"),
		ast.Yield(ast.Flt(1.5)),
		ast.Yield(ast.Flt(3.1415)),
		ast.Yield(ast.Un(ast.UnaryOperatorNegate, ast.Flt(2.71))),
	)
	h := instantiate(t, m, NewDefinition(node, nil))
	var got []string
	for {
		ok, err := h.Next()
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if !ok {
			break
		}
		v, _ := h.Current()
		fv := v.(runtime.FloatValue)
		if fv.TypeSuffix != runtime.FloatF64 {
			t.Fatalf("expected double, got %s", runtime.TypeName(fv))
		}
		got = append(got, runtime.Format(fv))
	}
	if strings.Join(got, ",") != "1.5,3.1415,-2.71" {
		t.Fatalf("expected 1.5,3.1415,-2.71, got %v", got)
	}
}

func TestArrayArgumentsAreBoundByValue(t *testing.T) {
	m := NewMachine(newStubEvaluator())
	node := ast.Gen("fromArray", []*ast.FunctionParameter{ast.Param("arr", ast.ArrTy(ast.Ty("int"), 4))}, nil,
		ast.For(
			ast.Decl(ast.Ty("int"), "i", ast.Int(0)),
			ast.Bin("<", ast.ID("i"), ast.Int(4)),
			ast.Assign("i", ast.Bin("+", ast.ID("i"), ast.Int(1))),
			ast.Blk(ast.Yield(ast.Index(ast.ID("arr"), ast.ID("i")))),
		),
	)
	arr := &runtime.ArrayValue{Elements: ints(10, 20, 30, 40)}
	h := instantiate(t, m, NewDefinition(node, ast.Ty("int")), arr)
	if ok, _ := h.Next(); !ok {
		t.Fatalf("expected first value")
	}
	arr.Elements[1] = runtime.IntegerValue{Val: 99}
	rest := drainInts(t, h)
	if !reflect.DeepEqual(rest, []int64{20, 30, 40}) {
		t.Fatalf("expected [20 30 40], got %v", rest)
	}
}

func TestFaultExhaustsHandle(t *testing.T) {
	m := NewMachine(newStubEvaluator())
	node := ast.Gen("overrun", nil, nil,
		ast.Decl(ast.ArrTy(ast.Ty("int"), 2), "xs", ast.Arr(ast.Int(1), ast.Int(2))),
		countingFor(ast.Int(0), ast.Int(2),
			ast.Yield(ast.Index(ast.ID("xs"), ast.ID("i"))),
		),
	)
	h := instantiate(t, m, NewDefinition(node, ast.Ty("int")))
	for i := 0; i < 2; i++ {
		if ok, err := h.Next(); !ok || err != nil {
			t.Fatalf("step %d: expected value, got %v, %v", i, ok, err)
		}
	}
	ok, err := h.Next()
	if ok || err == nil {
		t.Fatalf("expected fault, got %v, %v", ok, err)
	}
	if !strings.Contains(err.Error(), "out of bounds") {
		t.Fatalf("unexpected fault %v", err)
	}
	if h.Err() == nil || h.State() != Exhausted {
		t.Fatalf("expected recorded fault and exhausted state, got %v, %s", h.Err(), h.State())
	}
	if ok, err := h.Next(); ok || err != nil {
		t.Fatalf("expected quiet false after fault, got %v, %v", ok, err)
	}
}

func TestReentrantNextIsRejected(t *testing.T) {
	eval := newStubEvaluator()
	m := NewMachine(eval)
	node := ast.Gen("selfish", nil, nil,
		ast.Yield(ast.Int(1)),
		ast.Call("reenter"),
		ast.Yield(ast.Int(2)),
	)
	h := instantiate(t, m, NewDefinition(node, ast.Ty("int")))
	var inner error
	eval.hooks["reenter"] = func() error {
		_, inner = h.Next()
		return nil
	}
	got := drainInts(t, h)
	if !errors.Is(inner, ErrReentrantNext) {
		t.Fatalf("expected ErrReentrantNext, got %v", inner)
	}
	if !reflect.DeepEqual(got, []int64{1, 2}) {
		t.Fatalf("expected re-entry to leave the generator intact, got %v", got)
	}
}

func TestHandlesAreIndependent(t *testing.T) {
	m := NewMachine(newStubEvaluator())
	def := oddNumbersDef()
	a := instantiate(t, m, def, ints(1, 5)...)
	b := instantiate(t, m, def, ints(11, 15)...)
	var got []int64
	for {
		okA, _ := a.Next()
		okB, _ := b.Next()
		if !okA && !okB {
			break
		}
		if okA {
			v, _ := a.Current()
			got = append(got, v.(runtime.IntegerValue).Val)
		}
		if okB {
			v, _ := b.Current()
			got = append(got, v.(runtime.IntegerValue).Val)
		}
	}
	want := []int64{1, 11, 3, 13, 5, 15}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if a.ID() == b.ID() {
		t.Fatalf("expected distinct handle ids")
	}
}

func TestCloseAbandonsGenerator(t *testing.T) {
	eval := newStubEvaluator()
	m := NewMachine(eval)
	node := ast.Gen("noisy", nil, nil,
		ast.Yield(ast.Int(1)),
		ast.Call("after"),
		ast.Yield(ast.Int(2)),
	)
	h := instantiate(t, m, NewDefinition(node, ast.Ty("int")))
	if ok, _ := h.Next(); !ok {
		t.Fatalf("expected first value")
	}
	h.Close()
	if ok, err := h.Next(); ok || err != nil {
		t.Fatalf("expected closed handle to be exhausted, got %v, %v", ok, err)
	}
	if len(eval.log) != 0 {
		t.Fatalf("expected the rest of the body to be skipped, got %v", eval.log)
	}
}

func TestTypedAllStopsEarly(t *testing.T) {
	m := NewMachine(newStubEvaluator())
	h := instantiate(t, m, oddNumbersDef(), ints(1, 99)...)
	typed := NewTyped(h, Ints)
	var got []int64
	for v := range typed.All() {
		got = append(got, v)
		if len(got) == 2 {
			break
		}
	}
	if !reflect.DeepEqual(got, []int64{1, 3}) {
		t.Fatalf("expected [1 3], got %v", got)
	}
	if h.State() != Exhausted {
		t.Fatalf("expected early stop to close the handle, got %s", h.State())
	}
}

func TestTypedCurrentResetsOnExhaustion(t *testing.T) {
	m := NewMachine(newStubEvaluator())
	typed := NewTyped(instantiate(t, m, oddNumbersDef(), ints(5, 6)...), Ints)
	if got := typed.Current(); got != 0 {
		t.Fatalf("expected zero before Next, got %d", got)
	}
	if !typed.Next() || typed.Current() != 5 {
		t.Fatalf("expected 5, got %d", typed.Current())
	}
	if typed.Next() {
		t.Fatalf("expected exhaustion after 5")
	}
	if got := typed.Current(); got != 0 {
		t.Fatalf("expected zero after exhaustion, got %d", got)
	}
	if typed.Err() != nil {
		t.Fatalf("unexpected error %v", typed.Err())
	}
}

func TestTypedConversionFailure(t *testing.T) {
	m := NewMachine(newStubEvaluator())
	def := NewDefinition(ast.Gen("words", nil, nil, ast.Yield(ast.Str("hello"))), ast.Ty("string"))
	typed := NewTyped(instantiate(t, m, def), Ints)
	if typed.Next() {
		t.Fatalf("expected conversion failure")
	}
	if typed.Err() == nil || !strings.Contains(typed.Err().Error(), "expected int") {
		t.Fatalf("unexpected error %v", typed.Err())
	}
}

func TestInstantiateChecksArity(t *testing.T) {
	m := NewMachine(newStubEvaluator())
	if _, err := m.Instantiate(oddNumbersDef(), nil, ints(1)); err == nil {
		t.Fatalf("expected arity error")
	}
	if _, err := m.Instantiate(oddNumbersDef(), nil, []runtime.Value{runtime.StringValue{Val: "x"}, runtime.IntegerValue{}}); err == nil {
		t.Fatalf("expected type error for string argument")
	}
}
