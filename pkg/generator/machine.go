// Package generator runs statement trees as resumable activations. A Frame
// keeps an explicit cursor stack instead of a goroutine, so a yield inside
// nested loops and conditionals suspends by simply returning from Advance.
package generator

import (
	"errors"
	"fmt"

	"mylang/interpreter-go/pkg/ast"
	"mylang/interpreter-go/pkg/runtime"
)

var (
	ErrFrameExhausted      = errors.New("frame is exhausted")
	ErrBreakOutsideLoop    = errors.New("break outside of a loop")
	ErrContinueOutsideLoop = errors.New("continue outside of a loop")
)

// Evaluator supplies expression evaluation and the simple statements
// (declarations, assignments, expression statements, read) that never
// suspend.
type Evaluator interface {
	EvaluateExpression(expr ast.Expression, env *runtime.Environment) (runtime.Value, error)
	ExecuteStatement(stmt ast.Statement, env *runtime.Environment) error
}

// Tracer observes every advance. from is the suspension path the frame
// resumed at.
type Tracer interface {
	TraceStep(frame *Frame, from string, step Step)
}

type StepKind int

const (
	Yielded StepKind = iota
	Completed
	Returned
	Faulted
)

func (k StepKind) String() string {
	switch k {
	case Yielded:
		return "yield"
	case Completed:
		return "complete"
	case Returned:
		return "return"
	case Faulted:
		return "fault"
	default:
		return fmt.Sprintf("step(%d)", int(k))
	}
}

// Step is the outcome of one advance. Value is set for Yielded and Returned,
// Err for Faulted. Node is the statement that ended the advance, if any.
type Step struct {
	Kind  StepKind
	Value runtime.Value
	Err   error
	Node  ast.Node
}

// Machine drives frames. It holds no per-frame state, so one machine serves
// every frame of an interpreter.
type Machine struct {
	eval   Evaluator
	tracer Tracer
	nextID int
}

func NewMachine(eval Evaluator) *Machine {
	return &Machine{eval: eval}
}

func (m *Machine) SetTracer(t Tracer) {
	m.tracer = t
}

// Advance runs f from its suspension point until the next yield, the end of
// the body, a return, or an error. A finished frame stays finished.
func (m *Machine) Advance(f *Frame) Step {
	if f == nil || f.done {
		return Step{Kind: Faulted, Err: ErrFrameExhausted}
	}
	from := f.point.String()
	step := m.run(f)
	if m.tracer != nil {
		m.tracer.TraceStep(f, from, step)
	}
	return step
}

func (m *Machine) run(f *Frame) Step {
	if f.point.Empty() {
		if f.body == nil {
			f.finish()
			return Step{Kind: Completed}
		}
		f.point.push(cursor{node: f.body, env: f.env})
	}
	for {
		c := f.point.top()
		if c == nil {
			f.finish()
			return Step{Kind: Completed}
		}
		switch node := c.node.(type) {
		case *ast.Block:
			if c.index >= len(node.Body) {
				f.point.pop()
				continue
			}
			stmt := node.Body[c.index]
			c.index++
			if step, stop := m.execute(f, stmt, c.env); stop {
				return step
			}
		case *ast.WhileLoop:
			ok, err := m.condition(node.Condition, c.env)
			if err != nil {
				return m.fault(f, err)
			}
			if !ok {
				f.point.pop()
				continue
			}
			f.point.push(cursor{node: node.Body, env: c.env.Extend()})
		case *ast.ForLoop:
			switch c.phase {
			case phaseInit, phasePost:
				clause := node.Init
				if c.phase == phasePost {
					clause = node.Post
				}
				c.phase = phaseCond
				if clause != nil {
					if err := m.eval.ExecuteStatement(clause, c.env); err != nil {
						return m.fault(f, err)
					}
				}
			case phaseCond:
				ok := true
				if node.Condition != nil {
					var err error
					if ok, err = m.condition(node.Condition, c.env); err != nil {
						return m.fault(f, err)
					}
				}
				if !ok {
					f.point.pop()
					continue
				}
				c.phase = phasePost
				f.point.push(cursor{node: node.Body, env: c.env.Extend()})
			}
		default:
			return m.fault(f, fmt.Errorf("cannot resume at %T", c.node))
		}
	}
}

// execute runs one statement of a block. stop is true when the advance ends
// here.
func (m *Machine) execute(f *Frame, stmt ast.Statement, env *runtime.Environment) (Step, bool) {
	switch s := stmt.(type) {
	case *ast.YieldStatement:
		if s.Expression == nil {
			return m.fault(f, fmt.Errorf("yield requires a value")), true
		}
		val, err := m.eval.EvaluateExpression(s.Expression, env)
		if err != nil {
			return m.fault(f, err), true
		}
		return Step{Kind: Yielded, Value: runtime.Clone(val), Node: s}, true
	case *ast.ReturnStatement:
		if s.Argument == nil {
			f.finish()
			return Step{Kind: Completed, Node: s}, true
		}
		val, err := m.eval.EvaluateExpression(s.Argument, env)
		if err != nil {
			return m.fault(f, err), true
		}
		f.finish()
		return Step{Kind: Returned, Value: runtime.Clone(val), Node: s}, true
	case *ast.BreakStatement:
		if !f.point.unwindToLoop() {
			return m.fault(f, ErrBreakOutsideLoop), true
		}
		f.point.pop()
	case *ast.ContinueStatement:
		// A for cursor already sits in its post phase and a while cursor in
		// its condition phase, so unwinding is enough.
		if !f.point.unwindToLoop() {
			return m.fault(f, ErrContinueOutsideLoop), true
		}
	case *ast.Block:
		f.point.push(cursor{node: s, env: env.Extend()})
	case *ast.IfStatement:
		branch, err := m.chooseBranch(s, env)
		if err != nil {
			return m.fault(f, err), true
		}
		if branch != nil {
			f.point.push(cursor{node: branch, env: env.Extend()})
		}
	case *ast.WhileLoop:
		f.point.push(cursor{node: s, phase: phaseCond, env: env})
	case *ast.ForLoop:
		f.point.push(cursor{node: s, phase: phaseInit, env: env.Extend()})
	default:
		if err := m.eval.ExecuteStatement(stmt, env); err != nil {
			return m.fault(f, err), true
		}
	}
	return Step{}, false
}

func (m *Machine) chooseBranch(s *ast.IfStatement, env *runtime.Environment) (*ast.Block, error) {
	for s != nil {
		ok, err := m.condition(s.Condition, env)
		if err != nil {
			return nil, err
		}
		if ok {
			return s.Then, nil
		}
		switch e := s.Else.(type) {
		case nil:
			return nil, nil
		case *ast.Block:
			return e, nil
		case *ast.IfStatement:
			s = e
		default:
			return nil, fmt.Errorf("unsupported else branch %T", e)
		}
	}
	return nil, nil
}

func (m *Machine) condition(expr ast.Expression, env *runtime.Environment) (bool, error) {
	val, err := m.eval.EvaluateExpression(expr, env)
	if err != nil {
		return false, err
	}
	b, ok := val.(runtime.BoolValue)
	if !ok {
		return false, fmt.Errorf("condition must be bool, got %s", runtime.TypeName(val))
	}
	return b.Val, nil
}

func (m *Machine) fault(f *Frame, err error) Step {
	f.finish()
	return Step{Kind: Faulted, Err: err}
}
