package interpreter

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"mylang/interpreter-go/pkg/generator"
	"mylang/interpreter-go/pkg/parser"
	"mylang/interpreter-go/pkg/runtime"
)

type harness struct {
	interp      *Interpreter
	stdout      *bytes.Buffer
	diagnostics *bytes.Buffer
}

func newHarness(cfg Config) *harness {
	h := &harness{stdout: &bytes.Buffer{}, diagnostics: &bytes.Buffer{}}
	cfg.Stdout = h.stdout
	cfg.Diagnostics = h.diagnostics
	if cfg.Stdin == nil {
		cfg.Stdin = strings.NewReader("")
	}
	h.interp = NewWithConfig(cfg)
	return h
}

func (h *harness) eval(t *testing.T, source string) error {
	t.Helper()
	program, err := parser.ParseProgram([]byte(source))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return h.interp.EvaluateModule(program)
}

func (h *harness) mustEval(t *testing.T, source string) {
	t.Helper()
	if err := h.eval(t, source); err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}
}

func (h *harness) lines() []string {
	return splitLines(h.stdout.String())
}

func expectLines(t *testing.T, got []string, want ...string) {
	t.Helper()
	if !equalLines(got, want) {
		t.Fatalf("expected output %q, got %q", want, got)
	}
}

func TestOddNumbersProgram(t *testing.T) {
	h := newHarness(Config{})
	h.mustEval(t, `
generator oddNumbers(int start, int stop) {
    for (int i = start; i <= stop; i = i + 1) {
        if (i - (i / 2) * 2 == 1) {
            yield i;
        }
    }
}

generator<int> g = oddNumbers(3, 15);
while (g.next()) {
    print(g.current);
}
`)
	expectLines(t, h.lines(), "3", "5", "7", "9", "11", "13", "15")
}

func TestHandlesAreIndependent(t *testing.T) {
	h := newHarness(Config{})
	h.mustEval(t, `
generator<int> count(int n) {
    for (int i = 1; i <= n; i = i + 1) {
        yield i;
    }
}

generator<int> a = count(3);
generator<int> b = count(2);
while (a.next()) {
    if (b.next()) {
        print(a.current * 10 + b.current);
    } else {
        print(a.current);
    }
}
`)
	expectLines(t, h.lines(), "11", "22", "3")
}

func TestGeneratorDrivenFromAnotherGenerator(t *testing.T) {
	h := newHarness(Config{})
	h.mustEval(t, `
generator<int> naturals(int n) {
    int i = 0;
    while (i < n) {
        i = i + 1;
        yield i;
    }
}

generator<int> squares(int n) {
    generator<int> src = naturals(n);
    while (src.next()) {
        yield src.current * src.current;
    }
}

generator<int> s = squares(4);
while (s.next()) {
    print(s.current);
}
`)
	expectLines(t, h.lines(), "1", "4", "9", "16")
}

func TestFunctionsAndGeneratorsTogether(t *testing.T) {
	h := newHarness(Config{})
	h.mustEval(t, `
int twice(int n) {
    return n * 2;
}

void show(string label, int n) {
    print(label);
    print(n);
}

generator<int> doubled(int n) {
    for (int i = 1; i <= n; i = i + 1) {
        yield twice(i);
    }
}

generator<int> g = doubled(2);
while (g.next()) {
    show("value", g.current);
}
`)
	expectLines(t, h.lines(), "value", "2", "value", "4")
}

func TestCurrentBeforeNextIsRuntimeError(t *testing.T) {
	h := newHarness(Config{})
	err := h.eval(t, `
generator<int> one() {
    yield 1;
}
generator<int> g = one();
print(g.current);
`)
	if !errors.Is(err, generator.ErrNoCurrent) {
		t.Fatalf("expected ErrNoCurrent, got %v", err)
	}
	var rt *RuntimeError
	if !errors.As(err, &rt) || !strings.HasPrefix(rt.Error(), "runtime error at 6:") {
		t.Fatalf("expected a located runtime error, got %v", err)
	}
}

func TestNextAfterExhaustionIsFalse(t *testing.T) {
	h := newHarness(Config{})
	h.mustEval(t, `
generator<string> pair() {
    yield "a";
    yield "b";
}
generator<string> g = pair();
while (g.next()) {
}
print(g.next());
`)
	expectLines(t, h.lines(), "false")
}

const faultingProgram = `
generator<int> ratios(int d) {
    yield 10 / 2;
    yield 10 / d;
    yield 1;
}
generator<int> g = ratios(0);
while (g.next()) {
    print(g.current);
}
print(g.next());
print("done");
`

func TestFaultReportPolicy(t *testing.T) {
	h := newHarness(Config{Faults: FaultsReport})
	h.mustEval(t, faultingProgram)
	expectLines(t, h.lines(), "5", "false", "done")
	diags := splitLines(h.diagnostics.String())
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %q", diags)
	}
	if !strings.HasPrefix(diags[0], "generator ratios faulted: ") || !strings.HasSuffix(diags[0], "division by zero") {
		t.Fatalf("unexpected diagnostic %q", diags[0])
	}
}

func TestFaultAbortPolicy(t *testing.T) {
	h := newHarness(Config{Faults: FaultsAbort})
	err := h.eval(t, faultingProgram)
	if err == nil || !strings.Contains(err.Error(), "division by zero") {
		t.Fatalf("expected division by zero, got %v", err)
	}
	expectLines(t, h.lines(), "5")
	if h.diagnostics.Len() != 0 {
		t.Fatalf("expected no diagnostics, got %q", h.diagnostics.String())
	}
}

func TestParseFaultPolicy(t *testing.T) {
	cases := map[string]FaultPolicy{"": FaultsReport, "report": FaultsReport, " abort ": FaultsAbort}
	for input, want := range cases {
		got, err := ParseFaultPolicy(input)
		if err != nil || got != want {
			t.Fatalf("ParseFaultPolicy(%q) = %q, %v; want %q", input, got, err, want)
		}
	}
	if _, err := ParseFaultPolicy("ignore"); err == nil {
		t.Fatalf("expected an error for an unknown policy")
	}
}

func TestReentrantNextPropagates(t *testing.T) {
	h := newHarness(Config{Faults: FaultsReport, SkipTypecheck: true})
	err := h.eval(t, `
generator<int> selfish() {
    yield 1;
    g.next();
    yield 2;
}
generator<int> g = selfish();
while (g.next()) {
    print(g.current);
}
`)
	if !errors.Is(err, generator.ErrReentrantNext) {
		t.Fatalf("expected ErrReentrantNext, got %v", err)
	}
	expectLines(t, h.lines(), "1")
	handle, lookupErr := h.interp.GlobalEnvironment().Get("g")
	if lookupErr != nil {
		t.Fatalf("lookup g: %v", lookupErr)
	}
	if state := handle.(*generator.Handle).State(); state != generator.Exhausted {
		t.Fatalf("expected the handle to be exhausted, got %s", state)
	}
}

const unboundedGeneratorProgram = `
generator<int> nest(int n) {
    generator<int> inner = nest(n + 1);
    while (inner.next()) {
        yield inner.current;
    }
    yield n;
}
generator<int> g = nest(0);
print(g.next());
print("done");
`

func TestUnboundedGeneratorNestingFaultsTheDeepestHandle(t *testing.T) {
	h := newHarness(Config{Faults: FaultsReport})
	h.mustEval(t, unboundedGeneratorProgram)
	expectLines(t, h.lines(), "true", "done")
	diags := splitLines(h.diagnostics.String())
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %d", len(diags))
	}
	if !strings.HasPrefix(diags[0], "generator nest faulted: ") || !strings.HasSuffix(diags[0], "call depth exceeded in generator nest") {
		t.Fatalf("unexpected diagnostic %q", diags[0])
	}
	if h.interp.callDepth != 0 {
		t.Fatalf("expected call depth to unwind to 0, got %d", h.interp.callDepth)
	}
}

func TestUnboundedGeneratorNestingAborts(t *testing.T) {
	h := newHarness(Config{Faults: FaultsAbort})
	err := h.eval(t, unboundedGeneratorProgram)
	if err == nil || !strings.Contains(err.Error(), "call depth exceeded in generator nest") {
		t.Fatalf("expected a call depth error, got %v", err)
	}
	if len(h.lines()) != 0 {
		t.Fatalf("expected no output, got %q", h.lines())
	}
}

func TestTracerWritesOneLinePerAdvance(t *testing.T) {
	var trace bytes.Buffer
	h := newHarness(Config{Trace: &trace})
	h.mustEval(t, `
generator<int> values() {
    yield 1;
}
generator<int> g = values();
while (g.next()) {
}
`)
	lines := splitLines(trace.String())
	want := []string{"trace: yield values#1 ", "trace: complete values#1 ", "trace: complete <main> "}
	if len(lines) != len(want) {
		t.Fatalf("expected %d trace lines, got %q", len(want), lines)
	}
	for idx, prefix := range want {
		if !strings.HasPrefix(lines[idx], prefix) {
			t.Fatalf("trace line %d: expected prefix %q, got %q", idx, prefix, lines[idx])
		}
	}
	if !strings.HasSuffix(lines[0], "-> 1") {
		t.Fatalf("expected the yielded value in %q", lines[0])
	}
}

func TestCallGeneratorFromGo(t *testing.T) {
	h := newHarness(Config{})
	h.mustEval(t, `
generator<int> fromArray(int[3] arr) {
    for (int i = 0; i < 3; i = i + 1) {
        yield arr[i];
    }
}
`)
	arr := &runtime.ArrayValue{Elements: []runtime.Value{
		runtime.IntegerValue{Val: 1}, runtime.IntegerValue{Val: 2}, runtime.IntegerValue{Val: 3},
	}}
	handle, err := h.interp.CallGenerator("fromArray", arr)
	if err != nil {
		t.Fatalf("CallGenerator: %v", err)
	}
	if handle.State() != generator.Fresh {
		t.Fatalf("expected a fresh handle, got %s", handle.State())
	}
	arr.Elements[1] = runtime.IntegerValue{Val: 99}

	var got []string
	for {
		ok, err := handle.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		val, err := handle.Current()
		if err != nil {
			t.Fatalf("Current: %v", err)
		}
		got = append(got, runtime.Format(val))
	}
	expectLines(t, got, "1", "2", "3")

	if _, err := h.interp.CallGenerator("missing"); err == nil {
		t.Fatalf("expected an error for an undefined generator")
	}
}

func TestCallFunctionFromGo(t *testing.T) {
	h := newHarness(Config{})
	h.mustEval(t, `
double half(int n) {
    return n / 2.0;
}
int broken(int n) {
    if (n > 0) {
        return n;
    }
}
`)
	val, err := h.interp.CallFunction("half", runtime.IntegerValue{Val: 3})
	if err != nil {
		t.Fatalf("CallFunction: %v", err)
	}
	if runtime.Format(val) != "1.5" {
		t.Fatalf("expected 1.5, got %s", runtime.Format(val))
	}
	if _, err := h.interp.CallFunction("broken", runtime.IntegerValue{Val: -1}); err == nil ||
		!strings.Contains(err.Error(), "function broken ended without returning a int") {
		t.Fatalf("expected a missing return error, got %v", err)
	}
	if _, err := h.interp.CallFunction("half"); err == nil {
		t.Fatalf("expected an arity error")
	}
}

func TestArraysArePassedByValue(t *testing.T) {
	h := newHarness(Config{})
	h.mustEval(t, `
generator<int> sum(int[2] xs) {
    xs[0] = xs[0] + 100;
    yield xs[0] + xs[1];
}
int[2] data = {1, 2};
generator<int> g = sum(data);
data[1] = 50;
while (g.next()) {
    print(g.current);
}
print(data[0]);
`)
	expectLines(t, h.lines(), "103", "1")
}

func TestReadFromStdin(t *testing.T) {
	h := newHarness(Config{Stdin: strings.NewReader("4 2.5\n  word true")})
	h.mustEval(t, `
int n;
double d;
string s;
bool b;
read(n);
read(d);
read(s);
read(b);
print(n * 2);
print(d);
print(s);
print(b);
`)
	expectLines(t, h.lines(), "8", "2.5", "word", "true")

	err := h.eval(t, "int m;\nread(m);\n")
	if err == nil || !strings.Contains(err.Error(), "read: unexpected end of input") {
		t.Fatalf("expected end of input, got %v", err)
	}
}

func TestModulesAccumulateDefinitions(t *testing.T) {
	h := newHarness(Config{})
	h.mustEval(t, `
generator<int> upTo(int n) {
    for (int i = 1; i <= n; i = i + 1) {
        yield i;
    }
}
int total = 0;
`)
	before := h.interp.Generators()
	h.mustEval(t, `
generator<int> g = upTo(4);
while (g.next()) {
    total = total + g.current;
}
print(total);
generator<string> greet() {
    yield "hi";
}
`)
	expectLines(t, h.lines(), "10")
	if _, ok := before.Lookup("greet"); ok {
		t.Fatalf("expected the earlier table to stay unchanged")
	}
	if _, ok := h.interp.Generators().Lookup("greet"); !ok {
		t.Fatalf("expected greet in the current table")
	}
}

func TestTypecheckErrorsStopEvaluation(t *testing.T) {
	h := newHarness(Config{})
	err := h.eval(t, `
print("before");
generator<int> words() {
    yield "nope";
}
`)
	var tcErr *TypecheckError
	if !errors.As(err, &tcErr) {
		t.Fatalf("expected a TypecheckError, got %v", err)
	}
	if !strings.Contains(tcErr.Error(), "generator words yields string, expected int") {
		t.Fatalf("unexpected diagnostics: %v", tcErr)
	}
	if h.stdout.Len() != 0 {
		t.Fatalf("expected no output, got %q", h.stdout.String())
	}
}

func TestRejectedModuleLeavesNoDeclarations(t *testing.T) {
	h := newHarness(Config{})
	var tcErr *TypecheckError
	err := h.eval(t, `
int x = 1;
generator<int> q() { yield 1; }
print(undefinedThing);
`)
	if !errors.As(err, &tcErr) {
		t.Fatalf("expected a TypecheckError, got %v", err)
	}

	err = h.eval(t, `print(x);`)
	if !errors.As(err, &tcErr) || !strings.Contains(tcErr.Error(), "undefined variable 'x'") {
		t.Fatalf("expected x to be undefined for the checker, got %v", err)
	}
	err = h.eval(t, `generator<int> g = q();`)
	if !errors.As(err, &tcErr) || !strings.Contains(tcErr.Error(), "undefined variable 'q'") {
		t.Fatalf("expected q to be undefined for the checker, got %v", err)
	}

	h.mustEval(t, `
int x = 5;
generator<int> q() { yield 7; }
generator<int> g = q();
if (g.next()) {
    print(x + g.current);
}
`)
	expectLines(t, h.lines(), "12")
}

func TestSlicesAreYieldableCopies(t *testing.T) {
	h := newHarness(Config{})
	h.mustEval(t, `
int[5] xs = {1, 2, 3, 4, 5};
generator windows() {
    yield xs[0:2];
    yield xs[2:4];
    yield xs[3:];
}
generator<int[2]> w = windows();
while (w.next()) {
    print(w.current[0] + w.current[1]);
}
int[5] copy = xs[:];
copy[0] = 100;
print(xs[0]);
print(copy[0]);
`)
	expectLines(t, h.lines(), "3", "7", "9", "1", "100")
}

func TestSliceBoundsCheckedAtRuntime(t *testing.T) {
	h := newHarness(Config{SkipTypecheck: true})
	err := h.eval(t, `
int[3] xs = {1, 2, 3};
int lo = 2;
int hi = 1;
int[3] ys = xs[lo:hi];
`)
	var rtErr *RuntimeError
	if !errors.As(err, &rtErr) || !strings.Contains(err.Error(), "slice [2:1] out of bounds for length 3") {
		t.Fatalf("expected a slice bounds error, got %v", err)
	}
}

func TestSkipTypecheckSurfacesRuntimeErrors(t *testing.T) {
	h := newHarness(Config{SkipTypecheck: true})
	err := h.eval(t, `print(missing);`)
	if err == nil || !strings.Contains(err.Error(), "Undefined variable 'missing'") {
		t.Fatalf("expected an undefined variable error, got %v", err)
	}
}

func TestRuntimeErrors(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   string
	}{
		{"index out of bounds", "int[2] xs = {1, 2};\nprint(xs[2]);\n", "array index 2 out of bounds for length 2"},
		{"modulo by zero", "int z = 0;\nprint(5 % z);\n", "modulo by zero"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(Config{})
			err := h.eval(t, tc.source)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q, got %v", tc.want, err)
			}
		})
	}
}
