package generator

import (
	"fmt"
	"strings"

	"mylang/interpreter-go/pkg/ast"
	"mylang/interpreter-go/pkg/runtime"
)

// phase records where a loop cursor continues.
type phase int

const (
	phaseInit phase = iota // for: run the init clause
	phaseCond              // evaluate the condition
	phasePost              // for: run the increment, then the condition
)

func (p phase) String() string {
	switch p {
	case phaseInit:
		return "init"
	case phaseCond:
		return "cond"
	case phasePost:
		return "post"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// cursor is one level of the resumption path. Block cursors track the next
// statement index; loop cursors track their phase. The branch chosen by an if
// statement is pushed as a block cursor, so the decision is never re-evaluated.
type cursor struct {
	node  ast.Statement
	index int
	phase phase
	env   *runtime.Environment
}

func (c cursor) isLoop() bool {
	switch c.node.(type) {
	case *ast.WhileLoop, *ast.ForLoop:
		return true
	}
	return false
}

func (c cursor) String() string {
	switch c.node.(type) {
	case *ast.Block:
		return fmt.Sprintf("block[%d]", c.index)
	case *ast.WhileLoop:
		return "while(" + c.phase.String() + ")"
	case *ast.ForLoop:
		return "for(" + c.phase.String() + ")"
	default:
		return fmt.Sprintf("%T", c.node)
	}
}

// SuspensionPoint is the stack of cursors from the frame entry down to the
// statement that runs next. It is empty before the first advance.
type SuspensionPoint struct {
	cursors []cursor
}

// Depth reports how many cursors are live.
func (s *SuspensionPoint) Depth() int {
	return len(s.cursors)
}

func (s *SuspensionPoint) Empty() bool {
	return len(s.cursors) == 0
}

func (s *SuspensionPoint) push(c cursor) {
	s.cursors = append(s.cursors, c)
}

func (s *SuspensionPoint) top() *cursor {
	if len(s.cursors) == 0 {
		return nil
	}
	return &s.cursors[len(s.cursors)-1]
}

func (s *SuspensionPoint) pop() {
	if len(s.cursors) == 0 {
		return
	}
	s.cursors[len(s.cursors)-1] = cursor{}
	s.cursors = s.cursors[:len(s.cursors)-1]
}

func (s *SuspensionPoint) clear() {
	s.cursors = nil
}

// unwindToLoop pops cursors until the innermost loop is on top. It reports
// false, leaving the stack untouched, when no loop is active.
func (s *SuspensionPoint) unwindToLoop() bool {
	idx := -1
	for i := len(s.cursors) - 1; i >= 0; i-- {
		if s.cursors[i].isLoop() {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	for len(s.cursors) > idx+1 {
		s.pop()
	}
	return true
}

// String renders the path, outermost first, e.g. "block[2] > for(post) > block[1]".
func (s *SuspensionPoint) String() string {
	if len(s.cursors) == 0 {
		return "<start>"
	}
	parts := make([]string, len(s.cursors))
	for i, c := range s.cursors {
		parts[i] = c.String()
	}
	return strings.Join(parts, " > ")
}
