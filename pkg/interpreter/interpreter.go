package interpreter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"mylang/interpreter-go/pkg/ast"
	"mylang/interpreter-go/pkg/driver"
	"mylang/interpreter-go/pkg/generator"
	"mylang/interpreter-go/pkg/runtime"
	"mylang/interpreter-go/pkg/typechecker"
)

// FaultPolicy selects what g.next() does when the generator body faults.
type FaultPolicy string

const (
	// FaultsReport makes g.next() evaluate to false and writes a diagnostic.
	FaultsReport FaultPolicy = "report"
	// FaultsAbort propagates the fault and stops the program.
	FaultsAbort FaultPolicy = "abort"
)

// ParseFaultPolicy validates a policy name. The empty string selects report.
func ParseFaultPolicy(name string) (FaultPolicy, error) {
	switch FaultPolicy(strings.TrimSpace(name)) {
	case "", FaultsReport:
		return FaultsReport, nil
	case FaultsAbort:
		return FaultsAbort, nil
	default:
		return "", fmt.Errorf("unknown fault policy %q (want report or abort)", name)
	}
}

// Config wires the interpreter to its surroundings. Nil writers default to
// the process streams; a nil Trace disables tracing.
type Config struct {
	Stdout        io.Writer
	Stdin         io.Reader
	Diagnostics   io.Writer
	Faults        FaultPolicy
	Trace         io.Writer
	SkipTypecheck bool
}

// maxCallDepth bounds nested function calls and g.next() advances together.
const maxCallDepth = 4096

// Interpreter evaluates MyLang programs. Generator bodies, function bodies
// and the program body all run as frames on a single generator.Machine.
type Interpreter struct {
	config     Config
	global     *runtime.Environment
	machine    *generator.Machine
	generators *generator.Table
	functions  map[string]*ast.FunctionDefinition
	checker    *typechecker.Checker
	input      *bufio.Reader
	callDepth  int
}

// New returns an interpreter writing to the process streams.
func New() *Interpreter {
	return NewWithConfig(Config{})
}

// NewWithConfig returns an interpreter using cfg.
func NewWithConfig(cfg Config) *Interpreter {
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Stdin == nil {
		cfg.Stdin = os.Stdin
	}
	if cfg.Diagnostics == nil {
		cfg.Diagnostics = os.Stderr
	}
	if cfg.Faults == "" {
		cfg.Faults = FaultsReport
	}
	i := &Interpreter{
		config:     cfg,
		global:     runtime.NewEnvironment(nil),
		generators: &generator.Table{},
		functions:  make(map[string]*ast.FunctionDefinition),
		checker:    typechecker.New(),
	}
	i.machine = generator.NewMachine(i)
	if cfg.Trace != nil {
		i.machine.SetTracer(NewTracer(cfg.Trace))
	}
	i.initBuiltins()
	return i
}

// GlobalEnvironment returns the interpreter's global environment.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

// Generators returns the current definition table. Each evaluated module
// produces a new table; earlier tables are never modified.
func (i *Interpreter) Generators() *generator.Table {
	return i.generators
}

// Config returns the effective configuration.
func (i *Interpreter) Config() Config {
	return i.config
}

// EvaluateProgram evaluates every module of a loaded program in order, so
// dependency definitions are visible to the entry module.
func (i *Interpreter) EvaluateProgram(program *driver.Program) error {
	if program == nil {
		return fmt.Errorf("interpreter: program is nil")
	}
	for _, mod := range program.Modules {
		if mod == nil || mod.AST == nil {
			continue
		}
		if err := i.EvaluateModule(mod.AST); err != nil {
			return fmt.Errorf("%s: %w", mod.Path, err)
		}
	}
	return nil
}

// EvaluateModule typechecks a program, registers its definitions and runs its
// top-level statements against the global environment. Definitions and
// globals accumulate across calls; a program rejected before it runs leaves
// the checker as it was.
func (i *Interpreter) EvaluateModule(program *ast.Program) error {
	if program == nil {
		return fmt.Errorf("interpreter: program is nil")
	}
	snap := i.checker.Snapshot()
	if !i.config.SkipTypecheck {
		diags, err := i.checker.CheckProgram(program)
		if err != nil {
			return err
		}
		if len(diags) > 0 {
			i.checker.Restore(snap)
			return &TypecheckError{Diagnostics: diags}
		}
	}
	body, err := i.registerDefinitions(program)
	if err != nil {
		i.checker.Restore(snap)
		return err
	}
	return i.runProgramBody(body)
}

func (i *Interpreter) registerDefinitions(program *ast.Program) (*ast.Block, error) {
	var (
		defs  []*generator.Definition
		funcs = make(map[string]*ast.FunctionDefinition)
		rest  []ast.Statement
	)
	for _, stmt := range program.Body {
		switch def := stmt.(type) {
		case *ast.GeneratorDefinition:
			var yieldType ast.TypeExpression
			if !i.config.SkipTypecheck {
				yieldType, _ = i.checker.GeneratorYieldType(def.ID.Name)
			}
			defs = append(defs, generator.NewDefinition(def, yieldType))
		case *ast.FunctionDefinition:
			name := def.ID.Name
			if _, exists := i.functions[name]; exists {
				return nil, fmt.Errorf("function '%s' is already defined", name)
			}
			if _, exists := funcs[name]; exists {
				return nil, fmt.Errorf("function '%s' is already defined", name)
			}
			funcs[name] = def
		default:
			rest = append(rest, stmt)
		}
	}
	table, err := i.generators.With(defs...)
	if err != nil {
		return nil, err
	}
	for _, def := range defs {
		if _, clash := funcs[def.Name]; clash {
			return nil, fmt.Errorf("'%s' is defined as both a generator and a function", def.Name)
		}
		if _, clash := i.functions[def.Name]; clash {
			return nil, fmt.Errorf("'%s' is defined as both a generator and a function", def.Name)
		}
	}
	i.generators = table
	for name, def := range funcs {
		i.functions[name] = def
	}
	return ast.NewBlock(rest), nil
}

func (i *Interpreter) runProgramBody(body *ast.Block) error {
	frame := generator.NewFrame("<main>", body, i.global)
	for {
		step := i.machine.Advance(frame)
		switch step.Kind {
		case generator.Completed, generator.Returned:
			return nil
		case generator.Faulted:
			return step.Err
		case generator.Yielded:
			return i.fail(step.Node, fmt.Errorf("yield outside of a generator"))
		}
	}
}

// CallGenerator instantiates a generator by name. The body does not run until
// the first Next.
func (i *Interpreter) CallGenerator(name string, args ...runtime.Value) (*generator.Handle, error) {
	def, ok := i.generators.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("undefined generator '%s'", name)
	}
	return i.machine.Instantiate(def, i.global, args)
}

// CallFunction runs a function by name and returns its result.
func (i *Interpreter) CallFunction(name string, args ...runtime.Value) (runtime.Value, error) {
	def, ok := i.functions[name]
	if !ok {
		return nil, fmt.Errorf("undefined function '%s'", name)
	}
	return i.invokeFunction(def, args)
}

func (i *Interpreter) invokeFunction(def *ast.FunctionDefinition, args []runtime.Value) (runtime.Value, error) {
	name := def.ID.Name
	if i.callDepth >= maxCallDepth {
		return nil, fmt.Errorf("call depth exceeded in %s", name)
	}
	env := runtime.NewEnvironment(i.global)
	if err := generator.BindParameters(def.Params, args, env); err != nil {
		return nil, fmt.Errorf("function %s: %w", name, err)
	}
	i.callDepth++
	defer func() { i.callDepth-- }()

	step := i.machine.Advance(generator.NewFrame(name, def.Body, env))
	switch step.Kind {
	case generator.Returned:
		if def.ReturnType == nil {
			return runtime.VoidValue{}, nil
		}
		val, err := runtime.Coerce(step.Value, def.ReturnType)
		if err != nil {
			return nil, i.fail(step.Node, fmt.Errorf("function %s: %w", name, err))
		}
		return val, nil
	case generator.Completed:
		if def.ReturnType != nil {
			return nil, i.fail(def, fmt.Errorf("function %s ended without returning a %s", name, ast.TypeString(def.ReturnType)))
		}
		return runtime.VoidValue{}, nil
	case generator.Yielded:
		return nil, i.fail(step.Node, fmt.Errorf("yield outside of a generator"))
	default:
		return nil, step.Err
	}
}
