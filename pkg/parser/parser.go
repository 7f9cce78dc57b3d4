package parser

import (
	"fmt"

	"mylang/interpreter-go/pkg/ast"
)

// infixOperatorLevels lists binary operators from loosest to tightest binding.
var infixOperatorLevels = [][]string{
	{"||"},
	{"&&"},
	{"^"},
	{"==", "!="},
	{"<", "<=", ">", ">="},
	{"+", "-"},
	{"*", "/", "%"},
}

type parser struct {
	tokens []Token
	pos    int
}

// ParseProgram parses source into a Program. Definitions and statements may
// be interleaved at the top level.
func ParseProgram(source []byte) (*ast.Program, error) {
	tokens, err := Lex(source)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	start := p.peek().Start
	var body []ast.Statement
	for !p.at(TokenEOF, "") {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	prog := ast.NewProgram(body)
	ast.SetSpan(prog, ast.Span{Start: start, End: p.peek().End})
	return prog, nil
}

func (p *parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *parser) peekAt(ahead int) Token {
	idx := p.pos + ahead
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *parser) advance() Token {
	tok := p.tokens[p.pos]
	if tok.Kind != TokenEOF {
		p.pos++
	}
	return tok
}

// at reports whether the next token has the given kind and, when text is
// non-empty, the given text.
func (p *parser) at(kind TokenKind, text string) bool {
	tok := p.peek()
	return tok.Kind == kind && (text == "" || tok.Text == text)
}

func (p *parser) atPunct(text string) bool {
	return p.at(TokenPunct, text)
}

func (p *parser) atKeyword(text string) bool {
	return p.at(TokenKeyword, text)
}

func (p *parser) expectPunct(text string) (Token, error) {
	if !p.atPunct(text) {
		return Token{}, p.unexpected(fmt.Sprintf("'%s'", text))
	}
	return p.advance(), nil
}

func (p *parser) expectKeyword(text string) (Token, error) {
	if !p.atKeyword(text) {
		return Token{}, p.unexpected(fmt.Sprintf("'%s'", text))
	}
	return p.advance(), nil
}

func (p *parser) expectIdentifier() (*ast.Identifier, error) {
	tok := p.peek()
	if tok.Kind != TokenIdentifier {
		return nil, p.unexpected("identifier")
	}
	p.advance()
	id := ast.ID(tok.Text)
	ast.SetSpan(id, ast.Span{Start: tok.Start, End: tok.End})
	return id, nil
}

func (p *parser) unexpected(want string) error {
	tok := p.peek()
	return &SyntaxError{Pos: tok.Start, Message: fmt.Sprintf("expected %s, found %s", want, tok.describe())}
}

// prevEnd is the end position of the last consumed token.
func (p *parser) prevEnd() ast.Position {
	if p.pos == 0 {
		return p.tokens[0].Start
	}
	return p.tokens[p.pos-1].End
}

func (p *parser) finish(node ast.Node, start ast.Position) {
	ast.SetSpan(node, ast.Span{Start: start, End: p.prevEnd()})
}
