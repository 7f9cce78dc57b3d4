package ast

import "fmt"

// SetSpan annotates the node with the provided span.
func SetSpan(node Node, span Span) {
	if node == nil {
		return
	}
	if setter, ok := node.(interface{ setSpan(Span) }); ok {
		setter.setSpan(span)
	}
}

// ZeroSpan returns an empty span value.
func ZeroSpan() Span {
	return Span{}
}

// String renders the span start as line:column, or "" for an unset span.
func (s Span) String() string {
	if s.Start.Line == 0 {
		return ""
	}
	return fmt.Sprintf("%d:%d", s.Start.Line, s.Start.Column)
}
