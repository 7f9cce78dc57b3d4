package parser

import (
	"mylang/interpreter-go/pkg/ast"
)

func (p *parser) parseStatement() (ast.Statement, error) {
	tok := p.peek()
	if tok.Kind == TokenPunct && tok.Text == "{" {
		return p.parseBlock()
	}
	if tok.Kind == TokenKeyword {
		switch tok.Text {
		case "generator":
			return p.parseGeneratorStatement()
		case "void", ast.TypeNameInt, ast.TypeNameFloat, ast.TypeNameDouble, ast.TypeNameBool, ast.TypeNameString:
			return p.parseTypedStatement()
		case "if":
			return p.parseIf()
		case "while":
			return p.parseWhile()
		case "for":
			return p.parseFor()
		case "yield":
			return p.parseYield()
		case "return":
			return p.parseReturn()
		case "break", "continue":
			return p.parseLoopControl()
		case "read":
			return p.parseRead()
		}
	}
	stmt, err := p.parseSimpleStatement()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	p.finish(stmt, stmt.Span().Start)
	return stmt, nil
}

func (p *parser) parseBlock() (*ast.Block, error) {
	open, err := p.expectPunct("{")
	if err != nil {
		return nil, err
	}
	var body []ast.Statement
	for !p.atPunct("}") {
		if p.at(TokenEOF, "") {
			return nil, p.unexpected("'}'")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	p.advance()
	block := ast.NewBlock(body)
	p.finish(block, open.Start)
	return block, nil
}

// parseBody parses a loop or branch body. A lone statement is wrapped in a
// block so every body opens its own scope.
func (p *parser) parseBody() (*ast.Block, error) {
	if p.atPunct("{") {
		return p.parseBlock()
	}
	start := p.peek().Start
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	block := ast.NewBlock([]ast.Statement{stmt})
	p.finish(block, start)
	return block, nil
}

// parseSimpleStatement parses a declaration, an assignment or an expression,
// without the trailing semicolon.
func (p *parser) parseSimpleStatement() (ast.Statement, error) {
	if p.atTypeStart() {
		return p.parseVariableDeclaration()
	}
	start := p.peek().Start
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !p.atPunct("=") {
		return expr, nil
	}
	target, ok := expr.(ast.AssignmentTarget)
	if !ok {
		return nil, &SyntaxError{Pos: start, Message: "invalid assignment target"}
	}
	p.advance()
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	assign := ast.NewAssignmentStatement(target, value)
	p.finish(assign, start)
	return assign, nil
}

func (p *parser) parseCondition() (ast.Expression, error) {
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return cond, nil
}

func (p *parser) parseIf() (ast.Statement, error) {
	start := p.advance().Start
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	var elseBranch ast.Statement
	if p.atKeyword("else") {
		p.advance()
		if p.atKeyword("if") {
			elseBranch, err = p.parseIf()
		} else {
			elseBranch, err = p.parseBody()
		}
		if err != nil {
			return nil, err
		}
	}
	stmt := ast.NewIfStatement(cond, then, elseBranch)
	p.finish(stmt, start)
	return stmt, nil
}

func (p *parser) parseWhile() (ast.Statement, error) {
	start := p.advance().Start
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	stmt := ast.NewWhileLoop(cond, body)
	p.finish(stmt, start)
	return stmt, nil
}

func (p *parser) parseFor() (ast.Statement, error) {
	start := p.advance().Start
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var (
		init ast.Statement
		cond ast.Expression
		post ast.Statement
		err  error
	)
	if !p.atPunct(";") {
		if init, err = p.parseSimpleStatement(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	if !p.atPunct(";") {
		if cond, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	if !p.atPunct(")") {
		postStart := p.peek().Start
		if post, err = p.parseSimpleStatement(); err != nil {
			return nil, err
		}
		if _, isDecl := post.(*ast.VariableDeclaration); isDecl {
			return nil, &SyntaxError{Pos: postStart, Message: "declaration not allowed in for increment"}
		}
	}
	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	stmt := ast.NewForLoop(init, cond, post, body)
	p.finish(stmt, start)
	return stmt, nil
}

func (p *parser) parseYield() (ast.Statement, error) {
	start := p.advance().Start
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	stmt := ast.NewYieldStatement(expr)
	p.finish(stmt, start)
	return stmt, nil
}

func (p *parser) parseReturn() (ast.Statement, error) {
	start := p.advance().Start
	var arg ast.Expression
	if !p.atPunct(";") {
		var err error
		if arg, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	stmt := ast.NewReturnStatement(arg)
	p.finish(stmt, start)
	return stmt, nil
}

func (p *parser) parseLoopControl() (ast.Statement, error) {
	tok := p.advance()
	if _, err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	var stmt ast.Statement
	if tok.Text == "break" {
		stmt = ast.NewBreakStatement()
	} else {
		stmt = ast.NewContinueStatement()
	}
	p.finish(stmt, tok.Start)
	return stmt, nil
}

func (p *parser) parseRead() (ast.Statement, error) {
	start := p.advance().Start
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	targetStart := p.peek().Start
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	target, ok := expr.(ast.AssignmentTarget)
	if !ok {
		return nil, &SyntaxError{Pos: targetStart, Message: "read expects a variable or array element"}
	}
	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	if _, err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	stmt := ast.NewReadStatement(target)
	p.finish(stmt, start)
	return stmt, nil
}
