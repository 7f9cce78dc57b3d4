package parser

import (
	"fmt"

	"mylang/interpreter-go/pkg/ast"
)

// SyntaxError reports a lexing or parsing failure at a source position.
type SyntaxError struct {
	Pos     ast.Position
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("parser: line %d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}
