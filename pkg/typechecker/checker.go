package typechecker

import (
	"fmt"
	"maps"

	"mylang/interpreter-go/pkg/ast"
)

type checkState int

const (
	stateUnchecked checkState = iota
	stateChecking
	stateChecked
)

type generatorInfo struct {
	node   *ast.GeneratorDefinition
	params []Type
	yield  Type // nil until declared or inferred from the first yield
	state  checkState
}

type functionInfo struct {
	node   *ast.FunctionDefinition
	params []Type
	ret    Type
	state  checkState
}

// bodyContext tracks the definition whose body is being checked.
type bodyContext struct {
	generator *generatorInfo
	function  *functionInfo
	yields    int
}

// Checker traverses program ASTs and records diagnostics. Global bindings and
// definitions persist across CheckProgram calls so a session can be checked
// incrementally.
type Checker struct {
	global     *Environment
	generators map[string]*generatorInfo
	functions  map[string]*functionInfo
	genNodes   map[*ast.GeneratorDefinition]*generatorInfo
	fnNodes    map[*ast.FunctionDefinition]*functionInfo
	current    *bodyContext
	loopDepth  int
	pending    []Diagnostic
}

// Diagnostic represents a type-checking error.
type Diagnostic struct {
	Message string
	Node    ast.Node
}

// String prefixes the message with the node's source position when known.
func (d Diagnostic) String() string {
	if d.Node != nil {
		if pos := d.Node.Span().String(); pos != "" {
			return pos + ": " + d.Message
		}
	}
	return d.Message
}

// New returns a checker instance.
func New() *Checker {
	return &Checker{
		global:     NewEnvironment(nil),
		generators: make(map[string]*generatorInfo),
		functions:  make(map[string]*functionInfo),
		genNodes:   make(map[*ast.GeneratorDefinition]*generatorInfo),
		fnNodes:    make(map[*ast.FunctionDefinition]*functionInfo),
	}
}

// CheckProgram typechecks a program and returns its diagnostics.
func (c *Checker) CheckProgram(program *ast.Program) ([]Diagnostic, error) {
	if program == nil {
		return nil, fmt.Errorf("typechecker: program is nil")
	}
	c.current = nil
	c.loopDepth = 0

	diagnostics := c.collectDeclarations(program)
	for _, stmt := range program.Body {
		diagnostics = append(diagnostics, c.checkStatement(c.global, stmt)...)
	}
	diagnostics = append(diagnostics, c.pending...)
	c.pending = nil
	return diagnostics, nil
}

// Snapshot captures the checker's global declarations.
type Snapshot struct {
	vars       map[string]Type
	generators map[string]*generatorInfo
	functions  map[string]*functionInfo
	genNodes   map[*ast.GeneratorDefinition]*generatorInfo
	fnNodes    map[*ast.FunctionDefinition]*functionInfo
}

// Snapshot records the current globals and definitions so a rejected program
// can be undone with Restore.
func (c *Checker) Snapshot() Snapshot {
	return Snapshot{
		vars:       maps.Clone(c.global.vars),
		generators: maps.Clone(c.generators),
		functions:  maps.Clone(c.functions),
		genNodes:   maps.Clone(c.genNodes),
		fnNodes:    maps.Clone(c.fnNodes),
	}
}

// Restore drops every declaration made since snap was taken.
func (c *Checker) Restore(snap Snapshot) {
	c.global.vars = snap.vars
	c.generators = snap.generators
	c.functions = snap.functions
	c.genNodes = snap.genNodes
	c.fnNodes = snap.fnNodes
	c.current = nil
	c.loopDepth = 0
	c.pending = nil
}

// GeneratorYieldType reports the declared or inferred yield type of a checked
// generator.
func (c *Checker) GeneratorYieldType(name string) (ast.TypeExpression, bool) {
	info, ok := c.generators[name]
	if !ok || info.yield == nil || isUnknown(info.yield) {
		return nil, false
	}
	return typeExpression(info.yield), true
}

// Global exposes the checker's global scope.
func (c *Checker) Global() *Environment {
	return c.global
}

func (c *Checker) isDefinedName(name string) bool {
	if _, ok := c.generators[name]; ok {
		return true
	}
	if _, ok := c.functions[name]; ok {
		return true
	}
	return name == builtinPrint
}

func (c *Checker) collectDeclarations(program *ast.Program) []Diagnostic {
	var diags []Diagnostic
	for _, stmt := range program.Body {
		switch def := stmt.(type) {
		case *ast.GeneratorDefinition:
			name := def.ID.Name
			if c.isDefinedName(name) || c.global.DefinedLocally(name) {
				diags = append(diags, Diagnostic{Message: fmt.Sprintf("typechecker: '%s' is already defined", name), Node: def})
				continue
			}
			info := &generatorInfo{node: def}
			info.params, diags = c.resolveParams(def.Params, diags)
			if def.YieldType != nil {
				yield, err := resolveTypeExpression(def.YieldType)
				if err != nil {
					diags = append(diags, Diagnostic{Message: "typechecker: " + err.Error(), Node: def.YieldType})
				}
				if isPrimitive(yield, PrimitiveVoid) {
					diags = append(diags, Diagnostic{Message: fmt.Sprintf("typechecker: generator %s cannot yield void", name), Node: def})
				}
				info.yield = yield
			}
			c.generators[name] = info
			c.genNodes[def] = info
		case *ast.FunctionDefinition:
			name := def.ID.Name
			if c.isDefinedName(name) || c.global.DefinedLocally(name) {
				diags = append(diags, Diagnostic{Message: fmt.Sprintf("typechecker: '%s' is already defined", name), Node: def})
				continue
			}
			info := &functionInfo{node: def}
			info.params, diags = c.resolveParams(def.Params, diags)
			ret, err := resolveTypeExpression(def.ReturnType)
			if err != nil {
				diags = append(diags, Diagnostic{Message: "typechecker: " + err.Error(), Node: def.ReturnType})
			}
			info.ret = ret
			c.functions[name] = info
			c.fnNodes[def] = info
		}
	}
	return diags
}

func (c *Checker) resolveParams(params []*ast.FunctionParameter, diags []Diagnostic) ([]Type, []Diagnostic) {
	out := make([]Type, len(params))
	seen := make(map[string]struct{}, len(params))
	for i, p := range params {
		t, err := resolveTypeExpression(p.ParamType)
		if err != nil {
			diags = append(diags, Diagnostic{Message: "typechecker: " + err.Error(), Node: p})
		}
		if _, dup := seen[p.Name.Name]; dup {
			diags = append(diags, Diagnostic{Message: fmt.Sprintf("typechecker: duplicate parameter '%s'", p.Name.Name), Node: p})
		}
		seen[p.Name.Name] = struct{}{}
		out[i] = t
	}
	return out, diags
}

// ensureGenerator checks a generator body once, inferring its yield type.
// Bodies are checked on first use so calls may precede the definition.
func (c *Checker) ensureGenerator(info *generatorInfo) []Diagnostic {
	if info.state != stateUnchecked {
		return nil
	}
	info.state = stateChecking
	savedCtx, savedLoop := c.current, c.loopDepth
	ctx := &bodyContext{generator: info}
	c.current, c.loopDepth = ctx, 0

	env := c.global.Extend()
	for i, p := range info.node.Params {
		env.Define(p.Name.Name, info.params[i])
	}
	var diags []Diagnostic
	for _, stmt := range info.node.Body.Body {
		diags = append(diags, c.checkStatement(env, stmt)...)
	}
	if ctx.yields == 0 {
		diags = append(diags, Diagnostic{Message: fmt.Sprintf("typechecker: generator %s never yields a value", info.node.ID.Name), Node: info.node})
	}
	if info.yield == nil {
		info.yield = UnknownType{}
	}

	c.current, c.loopDepth = savedCtx, savedLoop
	info.state = stateChecked
	return diags
}

func (c *Checker) ensureFunction(info *functionInfo) []Diagnostic {
	if info.state != stateUnchecked {
		return nil
	}
	info.state = stateChecking
	savedCtx, savedLoop := c.current, c.loopDepth
	c.current, c.loopDepth = &bodyContext{function: info}, 0

	env := c.global.Extend()
	for i, p := range info.node.Params {
		env.Define(p.Name.Name, info.params[i])
	}
	var diags []Diagnostic
	for _, stmt := range info.node.Body.Body {
		diags = append(diags, c.checkStatement(env, stmt)...)
	}

	c.current, c.loopDepth = savedCtx, savedLoop
	info.state = stateChecked
	return diags
}
