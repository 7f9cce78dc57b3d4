package parser

import (
	"fmt"
	"strconv"

	"mylang/interpreter-go/pkg/ast"
)

func (p *parser) parseExpression() (ast.Expression, error) {
	return p.parseBinary(0)
}

func (p *parser) parseBinary(level int) (ast.Expression, error) {
	if level >= len(infixOperatorLevels) {
		return p.parseUnary()
	}
	start := p.peek().Start
	left, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}
	for p.atOperator(infixOperatorLevels[level]) {
		op := p.advance().Text
		right, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}
		bin := ast.NewBinaryExpression(op, left, right)
		p.finish(bin, start)
		left = bin
	}
	return left, nil
}

func (p *parser) atOperator(ops []string) bool {
	tok := p.peek()
	if tok.Kind != TokenPunct {
		return false
	}
	for _, op := range ops {
		if tok.Text == op {
			return true
		}
	}
	return false
}

func (p *parser) parseUnary() (ast.Expression, error) {
	if p.atPunct("-") || p.atPunct("!") {
		tok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		expr := ast.NewUnaryExpression(ast.UnaryOperator(tok.Text), operand)
		p.finish(expr, tok.Start)
		return expr, nil
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (ast.Expression, error) {
	start := p.peek().Start
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.atPunct("("):
			args, err := p.parseArguments()
			if err != nil {
				return nil, err
			}
			call := ast.NewFunctionCall(expr, args)
			p.finish(call, start)
			expr = call
		case p.atPunct("["):
			indexed, err := p.parseIndexSuffix(expr, start)
			if err != nil {
				return nil, err
			}
			expr = indexed
		case p.atPunct("."):
			p.advance()
			member, err := p.expectIdentifier()
			if err != nil {
				return nil, err
			}
			access := ast.NewMemberAccessExpression(expr, member)
			p.finish(access, start)
			expr = access
		default:
			return expr, nil
		}
	}
}

// parseIndexSuffix parses [index] or [low:high] after object; either slice
// bound may be omitted.
func (p *parser) parseIndexSuffix(object ast.Expression, start ast.Position) (ast.Expression, error) {
	p.advance()
	var low, high ast.Expression
	var err error
	if !p.atPunct(":") {
		if low, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	if !p.atPunct(":") {
		if _, err := p.expectPunct("]"); err != nil {
			return nil, err
		}
		idx := ast.NewIndexExpression(object, low)
		p.finish(idx, start)
		return idx, nil
	}
	p.advance()
	if !p.atPunct("]") {
		if high, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expectPunct("]"); err != nil {
		return nil, err
	}
	slice := ast.NewSliceExpression(object, low, high)
	p.finish(slice, start)
	return slice, nil
}

func (p *parser) parseArguments() ([]ast.Expression, error) {
	p.advance()
	var args []ast.Expression
	for !p.atPunct(")") {
		if len(args) > 0 {
			if _, err := p.expectPunct(","); err != nil {
				return nil, err
			}
		}
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	p.advance()
	return args, nil
}

func (p *parser) parsePrimary() (ast.Expression, error) {
	tok := p.peek()
	span := ast.Span{Start: tok.Start, End: tok.End}
	switch tok.Kind {
	case TokenInteger:
		p.advance()
		val, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return nil, &SyntaxError{Pos: tok.Start, Message: fmt.Sprintf("integer literal %s out of range", tok.Text)}
		}
		lit := ast.Int(val)
		ast.SetSpan(lit, span)
		return lit, nil
	case TokenFloat:
		p.advance()
		floatType := ast.FloatTypeF64
		bits := 64
		if tok.Suffix == "f" {
			floatType = ast.FloatTypeF32
			bits = 32
		}
		val, err := strconv.ParseFloat(tok.Text, bits)
		if err != nil {
			return nil, &SyntaxError{Pos: tok.Start, Message: fmt.Sprintf("float literal %s out of range", tok.Text)}
		}
		lit := ast.FltTyped(val, floatType)
		ast.SetSpan(lit, span)
		return lit, nil
	case TokenString:
		p.advance()
		lit := ast.Str(tok.Text)
		ast.SetSpan(lit, span)
		return lit, nil
	case TokenIdentifier:
		id, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		return id, nil
	case TokenKeyword:
		if tok.Text == "true" || tok.Text == "false" {
			p.advance()
			lit := ast.Bool(tok.Text == "true")
			ast.SetSpan(lit, span)
			return lit, nil
		}
	case TokenPunct:
		switch tok.Text {
		case "(":
			p.advance()
			expr, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			return expr, nil
		case "{":
			return p.parseArrayLiteral()
		}
	}
	return nil, p.unexpected("expression")
}

// parseArrayLiteral parses a brace initialiser; nested braces build rows of a
// multi-dimensional array.
func (p *parser) parseArrayLiteral() (ast.Expression, error) {
	open := p.advance()
	var elems []ast.Expression
	for !p.atPunct("}") {
		if len(elems) > 0 {
			if _, err := p.expectPunct(","); err != nil {
				return nil, err
			}
		}
		elem, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
	}
	p.advance()
	if len(elems) == 0 {
		return nil, &SyntaxError{Pos: open.Start, Message: "array initialiser cannot be empty"}
	}
	lit := ast.NewArrayLiteral(elems)
	p.finish(lit, open.Start)
	return lit, nil
}
