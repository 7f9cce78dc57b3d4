package parser

import (
	"mylang/interpreter-go/pkg/ast"
)

// parseGeneratorStatement handles the three forms that begin with the
// generator keyword: `generator name(...)`, `generator<T> name(...)` and the
// variable declaration `generator<T> g = call(...);`.
func (p *parser) parseGeneratorStatement() (ast.Statement, error) {
	start := p.peek().Start
	if p.peekAt(1).Kind == TokenIdentifier {
		p.advance()
		name, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		return p.parseGeneratorRest(start, name, nil)
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if p.atPunct("(") {
		genType, ok := typ.(*ast.GeneratorTypeExpression)
		if !ok {
			return nil, &SyntaxError{Pos: start, Message: "generator definition must be annotated as generator<T>"}
		}
		return p.parseGeneratorRest(start, name, genType.Element)
	}
	return p.parseVariableDeclarationRest(start, typ, name, true)
}

func (p *parser) parseGeneratorRest(start ast.Position, name *ast.Identifier, yieldType ast.TypeExpression) (ast.Statement, error) {
	params, err := p.parseParameters()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	def := ast.NewGeneratorDefinition(name, params, yieldType, body)
	p.finish(def, start)
	return def, nil
}

// parseTypedStatement handles statements that begin with a scalar type or
// void: function definitions and variable declarations.
func (p *parser) parseTypedStatement() (ast.Statement, error) {
	start := p.peek().Start
	var typ ast.TypeExpression
	if p.atKeyword("void") {
		p.advance()
	} else {
		var err error
		if typ, err = p.parseType(); err != nil {
			return nil, err
		}
	}
	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if p.atPunct("(") {
		params, err := p.parseParameters()
		if err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		def := ast.NewFunctionDefinition(name, params, typ, body)
		p.finish(def, start)
		return def, nil
	}
	if typ == nil {
		return nil, &SyntaxError{Pos: start, Message: "variables cannot be declared void"}
	}
	return p.parseVariableDeclarationRest(start, typ, name, true)
}

func (p *parser) parseParameters() ([]*ast.FunctionParameter, error) {
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var params []*ast.FunctionParameter
	for !p.atPunct(")") {
		if len(params) > 0 {
			if _, err := p.expectPunct(","); err != nil {
				return nil, err
			}
		}
		start := p.peek().Start
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		name, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		param := ast.NewFunctionParameter(name, typ)
		p.finish(param, start)
		params = append(params, param)
	}
	p.advance()
	return params, nil
}

// parseVariableDeclaration parses `type name [= value]` without the
// terminating semicolon, for use in for headers.
func (p *parser) parseVariableDeclaration() (*ast.VariableDeclaration, error) {
	start := p.peek().Start
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	stmt, err := p.parseVariableDeclarationRest(start, typ, name, false)
	if err != nil {
		return nil, err
	}
	return stmt.(*ast.VariableDeclaration), nil
}

func (p *parser) parseVariableDeclarationRest(start ast.Position, typ ast.TypeExpression, name *ast.Identifier, terminated bool) (ast.Statement, error) {
	var value ast.Expression
	if p.atPunct("=") {
		p.advance()
		var err error
		if value, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	if terminated {
		if _, err := p.expectPunct(";"); err != nil {
			return nil, err
		}
	}
	decl := ast.NewVariableDeclaration(typ, name, value)
	p.finish(decl, start)
	return decl, nil
}
