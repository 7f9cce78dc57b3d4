package typechecker

import (
	"strings"
	"testing"

	"mylang/interpreter-go/pkg/ast"
	"mylang/interpreter-go/pkg/parser"
)

func checkSource(t *testing.T, checker *Checker, source string) []Diagnostic {
	t.Helper()
	program, err := parser.ParseProgram([]byte(source))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	diags, err := checker.CheckProgram(program)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return diags
}

func expectNoDiagnostics(t *testing.T, diags []Diagnostic) {
	t.Helper()
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
}

func expectDiagnostic(t *testing.T, diags []Diagnostic, want string) {
	t.Helper()
	for _, d := range diags {
		if strings.Contains(d.Message, want) {
			return
		}
	}
	t.Fatalf("expected diagnostic mentioning %q, got %v", want, diags)
}

const oddNumbersSource = `
generator oddNumbers(int start, int stop) {
	for (int i = start; i <= stop; i = i + 1) {
		if (i % 2 == 1) {
			yield i;
		}
	}
}

generator<int> g = oddNumbers(3, 15);
while (g.next()) {
	print(g.current);
}
`

func TestOddNumbersProgramChecks(t *testing.T) {
	checker := New()
	expectNoDiagnostics(t, checkSource(t, checker, oddNumbersSource))
	yield, ok := checker.GeneratorYieldType("oddNumbers")
	if !ok {
		t.Fatalf("expected inferred yield type")
	}
	if got := ast.TypeString(yield); got != "int" {
		t.Fatalf("expected yield type int, got %s", got)
	}
}

func TestAnnotatedGeneratorYieldTypes(t *testing.T) {
	checker := New()
	diags := checkSource(t, checker, `
generator<double> doubles() {
	yield 1.5;
	yield 3.1415;
	yield -2.71;
}
generator<double> d = doubles();
double sum = 0;
while (d.next()) {
	sum = sum + d.current;
}
`)
	expectNoDiagnostics(t, diags)
}

func TestYieldTypeMismatch(t *testing.T) {
	diags := checkSource(t, New(), `
generator mixed() {
	yield 1;
	yield "two";
}
`)
	expectDiagnostic(t, diags, "generator mixed yields string, expected int")
}

func TestAnnotatedYieldTypeMismatch(t *testing.T) {
	diags := checkSource(t, New(), `
generator<bool> flags() {
	yield 1;
}
`)
	expectDiagnostic(t, diags, "generator flags yields int, expected bool")
}

func TestGeneratorNeverYields(t *testing.T) {
	diags := checkSource(t, New(), `
generator quiet() {
	int x = 1;
}
`)
	expectDiagnostic(t, diags, "generator quiet never yields a value")
}

func TestGeneratorVariableRules(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "uninitialised",
			source: `generator<int> g;`,
			want:   "generator variable 'g' must be initialised",
		},
		{
			name:   "non generator value",
			source: `generator<int> g = 5;`,
			want:   "only a generator value can be assigned to generator variable 'g'",
		},
		{
			name: "element mismatch",
			source: `
generator words() { yield "a"; }
generator<int> g = words();`,
			want: "cannot assign generator<string> to generator<int> variable 'g'",
		},
		{
			name: "reassignment keeps element type",
			source: `
generator words() { yield "a"; }
generator numbers() { yield 1; }
generator<int> g = numbers();
g = words();`,
			want: "cannot assign generator<string> to generator<int> variable 'g'",
		},
		{
			name: "current has element type",
			source: `
generator words() { yield "a"; }
generator<string> g = words();
int x = g.current;`,
			want: "cannot assign string to int variable 'x'",
		},
		{
			name: "unknown member",
			source: `
generator words() { yield "a"; }
generator<string> g = words();
g.reset();`,
			want: "generator has no method 'reset'",
		},
		{
			name:   "member on non generator",
			source: `int n = 1; bool b = n.next();`,
			want:   "cannot call 'next' on int",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			expectDiagnostic(t, checkSource(t, New(), tc.source), tc.want)
		})
	}
}

func TestForwardReferenceToGenerator(t *testing.T) {
	checker := New()
	diags := checkSource(t, checker, `
generator<int> g = later();
while (g.next()) { print(g.current); }
generator later() { yield 1; }
`)
	expectNoDiagnostics(t, diags)
}

func TestForwardReferenceReportsBodyDiagnostics(t *testing.T) {
	diags := checkSource(t, New(), `
generator<int> g = later();
generator later() { yield 1; yield true; }
`)
	expectDiagnostic(t, diags, "generator later yields bool, expected int")
	if len(diags) != 1 {
		t.Fatalf("expected body diagnostics once, got %v", diags)
	}
}

func TestControlFlowPlacement(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   string
	}{
		{name: "yield at top level", source: `yield 1;`, want: "yield outside of a generator"},
		{name: "yield in function", source: `int f() { yield 1; return 1; }`, want: "yield outside of a generator"},
		{name: "break outside loop", source: `generator g() { yield 1; break; }`, want: "break outside of a loop"},
		{name: "continue outside loop", source: `continue;`, want: "continue outside of a loop"},
		{name: "generator returns value", source: `generator g() { yield 1; return 2; }`, want: "generator g cannot return a value"},
		{name: "void function returns value", source: `void f() { return 1; }`, want: "void function f cannot return a value"},
		{name: "missing return value", source: `int f() { return; }`, want: "function f must return int"},
		{name: "nested definition", source: `if (true) { generator g() { yield 1; } }`, want: "must be defined at the top level"},
		{name: "duplicate definition", source: `generator g() { yield 1; } generator g() { yield 2; }`, want: "'g' is already defined"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			expectDiagnostic(t, checkSource(t, New(), tc.source), tc.want)
		})
	}
}

func TestExpressionRules(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   string
	}{
		{name: "condition must be bool", source: `while (1) { }`, want: "while condition must be bool (got int)"},
		{name: "modulo on doubles", source: `double d = 1.5 % 2.0;`, want: "operator '%' cannot be applied to double and double"},
		{name: "xor on ints", source: `bool b = 1 ^ 2;`, want: "operator '^' cannot be applied to int and int"},
		{name: "string and int", source: `string s = "a" + 1;`, want: "operator '+' cannot be applied to string and int"},
		{name: "index must be int", source: `int[2] a = {1, 2}; int x = a[true];`, want: "array index must be int (got bool)"},
		{name: "index non array", source: `int n = 1; int x = n[0];`, want: "cannot index int"},
		{name: "undefined variable", source: `print(missing);`, want: "undefined variable 'missing'"},
		{name: "arity", source: `generator g(int a) { yield a; } generator<int> h = g();`, want: "g expects 1 arguments, got 0"},
		{name: "argument type", source: `generator g(int a) { yield a; } generator<int> h = g("x");`, want: "argument 1 of g: expected int, got string"},
		{name: "array too long", source: `int[2] a = {1, 2, 3};`, want: "cannot assign int[3] to int[2] variable 'a'"},
		{name: "read target", source: `int[2] a = {1, 2}; read(a);`, want: "read target must be a scalar variable"},
		{name: "redeclaration", source: `int x = 1; int x = 2;`, want: "'x' is already declared in this scope"},
		{name: "slice out of bounds", source: `int[3] xs = {1, 2, 3}; int[3] a = xs[2:5];`, want: "slice [2:5] out of bounds for int[3]"},
		{name: "slice reversed", source: `int[3] xs = {1, 2, 3}; int[3] a = xs[2:1];`, want: "slice [2:1] out of bounds for int[3]"},
		{name: "slice bound literal", source: `int n = 1; int[3] xs = {1, 2, 3}; int[1] a = xs[n:2];`, want: "slice bounds must be integer literals"},
		{name: "slice bound type", source: `int[3] xs = {1, 2, 3}; int[1] a = xs[true:2];`, want: "slice bound must be int (got bool)"},
		{name: "slice non array", source: `int n = 1; int[1] a = n[0:1];`, want: "cannot slice int"},
		{name: "slice too long for target", source: `int[3] xs = {1, 2, 3}; int[1] a = xs[0:2];`, want: "cannot assign int[2] to int[1] variable 'a'"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			expectDiagnostic(t, checkSource(t, New(), tc.source), tc.want)
		})
	}
}

func TestNumericPromotionAccepted(t *testing.T) {
	diags := checkSource(t, New(), `
double d = 1;
float f = 2;
d = d + f * 3;
int[4] xs = {10, 20};
string s = "a" + "b";
bool same = s == "ab";
`)
	expectNoDiagnostics(t, diags)
}

func TestSliceTypes(t *testing.T) {
	checker := New()
	expectNoDiagnostics(t, checkSource(t, checker, `
int[5] xs = {1, 2, 3, 4, 5};
int[2] head = xs[:2];
int[5] all = xs[:];
generator windows() {
	yield xs[0:2];
	yield xs[3:];
}
`))
	yield, ok := checker.GeneratorYieldType("windows")
	if !ok {
		t.Fatalf("expected inferred yield type")
	}
	if got := ast.TypeString(yield); got != "int[2]" {
		t.Fatalf("expected yield type int[2], got %s", got)
	}
}

func TestGlobalScopePersistsAcrossPrograms(t *testing.T) {
	checker := New()
	expectNoDiagnostics(t, checkSource(t, checker, `int x = 1; generator count() { yield x; }`))
	expectNoDiagnostics(t, checkSource(t, checker, `generator<int> g = count(); print(x);`))
	expectDiagnostic(t, checkSource(t, checker, `int x = 2;`), "'x' is already declared in this scope")
}

func TestInnerScopeMayShadow(t *testing.T) {
	diags := checkSource(t, New(), `
int x = 1;
if (x > 0) {
	string x = "inner";
	print(x);
}
`)
	expectNoDiagnostics(t, diags)
}

func TestDiagnosticStringIncludesPosition(t *testing.T) {
	node := ast.ID("missing")
	ast.SetSpan(node, ast.Span{Start: ast.Position{Line: 3, Column: 7}, End: ast.Position{Line: 3, Column: 14}})
	d := Diagnostic{Message: "typechecker: undefined variable 'missing'", Node: node}
	if got, want := d.String(), "3:7: typechecker: undefined variable 'missing'"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestCheckProgramNil(t *testing.T) {
	if _, err := New().CheckProgram(nil); err == nil {
		t.Fatalf("expected error for nil program")
	}
}
