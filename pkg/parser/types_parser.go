package parser

import (
	"strconv"

	"mylang/interpreter-go/pkg/ast"
)

func (p *parser) atTypeStart() bool {
	tok := p.peek()
	return tok.Kind == TokenKeyword && (ast.IsScalarTypeName(tok.Text) || tok.Text == "generator")
}

// parseType parses `int`, `string[4]`, `double[2][3]` or `generator<T>`.
func (p *parser) parseType() (ast.TypeExpression, error) {
	start := p.peek().Start
	if p.atKeyword("generator") {
		p.advance()
		if _, err := p.expectPunct("<"); err != nil {
			return nil, err
		}
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectPunct(">"); err != nil {
			return nil, err
		}
		t := ast.GenTy(elem)
		p.finish(t, start)
		return t, nil
	}
	tok := p.peek()
	if tok.Kind != TokenKeyword || !ast.IsScalarTypeName(tok.Text) {
		return nil, p.unexpected("type")
	}
	p.advance()
	name := ast.ID(tok.Text)
	ast.SetSpan(name, ast.Span{Start: tok.Start, End: tok.End})
	var base ast.TypeExpression = ast.NewSimpleTypeExpression(name)
	p.finish(base, start)

	var dims []int
	for p.atPunct("[") {
		p.advance()
		sizeTok := p.peek()
		if sizeTok.Kind != TokenInteger {
			return nil, p.unexpected("array size")
		}
		p.advance()
		size, err := strconv.Atoi(sizeTok.Text)
		if err != nil || size <= 0 {
			return nil, &SyntaxError{Pos: sizeTok.Start, Message: "array size must be a positive integer"}
		}
		if _, err := p.expectPunct("]"); err != nil {
			return nil, err
		}
		dims = append(dims, size)
	}
	for i := len(dims) - 1; i >= 0; i-- {
		arr := ast.ArrTy(base, dims[i])
		p.finish(arr, start)
		base = arr
	}
	return base, nil
}
