package interpreter

import (
	"fmt"
	"io"

	"mylang/interpreter-go/pkg/generator"
	"mylang/interpreter-go/pkg/runtime"
)

// Tracer writes one line per frame advance:
//
//	trace: <event> <frame> <resumed-at> [-> value | : error]
type Tracer struct {
	w io.Writer
}

func NewTracer(w io.Writer) *Tracer {
	return &Tracer{w: w}
}

func (t *Tracer) TraceStep(frame *generator.Frame, from string, step generator.Step) {
	line := fmt.Sprintf("trace: %s %s %s", step.Kind, frame.Name(), from)
	switch step.Kind {
	case generator.Yielded, generator.Returned:
		line += " -> " + runtime.Format(step.Value)
	case generator.Faulted:
		line += ": " + step.Err.Error()
	}
	fmt.Fprintln(t.w, line)
}
