package generator

import (
	"errors"
	"fmt"

	"mylang/interpreter-go/pkg/ast"
	"mylang/interpreter-go/pkg/runtime"
)

var (
	// ErrNoCurrent is returned by Current before the first successful Next
	// and after the handle is exhausted.
	ErrNoCurrent = errors.New("generator has no current value")
	// ErrReentrantNext is returned when a generator body resumes its own handle.
	ErrReentrantNext = errors.New("generator resumed while already running")
)

type State int

const (
	Fresh State = iota
	Suspended
	Running
	Exhausted
)

func (s State) String() string {
	switch s {
	case Fresh:
		return "fresh"
	case Suspended:
		return "suspended"
	case Running:
		return "running"
	case Exhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Handle is the caller's view of one generator call. It exclusively owns its
// frame; the frame is dropped once the handle is exhausted.
type Handle struct {
	def     *Definition
	id      int
	machine *Machine
	frame   *Frame
	state   State
	current runtime.Value
	err     error
}

// Instantiate binds args to def's parameters in a fresh scope under globals
// and returns a handle that has not run any of the body yet.
func (m *Machine) Instantiate(def *Definition, globals *runtime.Environment, args []runtime.Value) (*Handle, error) {
	if def == nil {
		return nil, fmt.Errorf("generator definition is nil")
	}
	env := runtime.NewEnvironment(globals)
	if err := BindParameters(def.Params, args, env); err != nil {
		return nil, fmt.Errorf("generator %s: %w", def.Name, err)
	}
	m.nextID++
	name := fmt.Sprintf("%s#%d", def.Name, m.nextID)
	return &Handle{
		def:     def,
		id:      m.nextID,
		machine: m,
		frame:   NewFrame(name, def.Body, env),
	}, nil
}

func (h *Handle) Kind() runtime.Kind { return runtime.KindGenerator }

func (h *Handle) String() string {
	return fmt.Sprintf("<generator %s#%d %s>", h.def.Name, h.id, h.state)
}

func (h *Handle) Definition() *Definition { return h.def }

func (h *Handle) YieldType() ast.TypeExpression { return h.def.YieldType }

func (h *Handle) ID() int { return h.id }

func (h *Handle) State() State { return h.state }

// Err returns the fault that exhausted the handle, if any.
func (h *Handle) Err() error { return h.err }

// Next advances the generator. It reports true when a new value is available
// through Current. Once exhausted it keeps returning false with a nil error;
// a fault is returned only by the call that hit it.
func (h *Handle) Next() (bool, error) {
	switch h.state {
	case Exhausted:
		return false, nil
	case Running:
		return false, fmt.Errorf("generator %s: %w", h.def.Name, ErrReentrantNext)
	}
	h.state = Running
	step := h.machine.Advance(h.frame)
	switch step.Kind {
	case Yielded:
		h.current = step.Value
		h.state = Suspended
		return true, nil
	case Faulted:
		h.exhaust()
		h.err = fmt.Errorf("generator %s: %w", h.def.Name, step.Err)
		return false, h.err
	default:
		h.exhaust()
		return false, nil
	}
}

// Current returns the value produced by the last successful Next.
func (h *Handle) Current() (runtime.Value, error) {
	if h.current == nil {
		return nil, fmt.Errorf("generator %s (%s): %w", h.def.Name, h.state, ErrNoCurrent)
	}
	return h.current, nil
}

// Close abandons the generator without running the rest of its body.
func (h *Handle) Close() {
	h.exhaust()
}

func (h *Handle) exhaust() {
	h.state = Exhausted
	h.frame = nil
	h.current = nil
}
