package parser

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"mylang/interpreter-go/pkg/ast"
)

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenIdentifier
	TokenKeyword
	TokenInteger
	TokenFloat
	TokenString
	TokenPunct
)

func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "end of input"
	case TokenIdentifier:
		return "identifier"
	case TokenKeyword:
		return "keyword"
	case TokenInteger:
		return "integer"
	case TokenFloat:
		return "float"
	case TokenString:
		return "string"
	case TokenPunct:
		return "punctuation"
	default:
		return fmt.Sprintf("token(%d)", int(k))
	}
}

// Token is one lexeme. Text holds the decoded value for strings and the
// digits (without suffix) for numbers; Suffix is "f" for float literals
// written with a trailing f.
type Token struct {
	Kind   TokenKind
	Text   string
	Suffix string
	Start  ast.Position
	End    ast.Position
}

func (t Token) describe() string {
	switch t.Kind {
	case TokenEOF:
		return "end of input"
	case TokenString:
		return fmt.Sprintf("string %q", t.Text)
	default:
		return fmt.Sprintf("'%s'", t.Text+t.Suffix)
	}
}

var keywords = map[string]struct{}{
	"generator": {}, "int": {}, "float": {}, "double": {}, "bool": {}, "string": {},
	"void": {}, "if": {}, "else": {}, "while": {}, "for": {}, "yield": {},
	"return": {}, "break": {}, "continue": {}, "true": {}, "false": {}, "read": {},
}

var twoCharPunct = []string{"==", "!=", "<=", ">=", "&&", "||"}

const singleCharPunct = "+-*/%<>!=^(){}[],;.:"

type lexer struct {
	src    []byte
	offset int
	line   int
	col    int
	tokens []Token
}

// Lex splits source into tokens, ending with a TokenEOF.
func Lex(source []byte) ([]Token, error) {
	lx := &lexer{src: source, line: 1, col: 1}
	for {
		if err := lx.skipTrivia(); err != nil {
			return nil, err
		}
		if lx.offset >= len(lx.src) {
			pos := lx.pos()
			lx.tokens = append(lx.tokens, Token{Kind: TokenEOF, Start: pos, End: pos})
			return lx.tokens, nil
		}
		if err := lx.next(); err != nil {
			return nil, err
		}
	}
}

func (lx *lexer) pos() ast.Position {
	return ast.Position{Line: lx.line, Column: lx.col}
}

func (lx *lexer) peekRune(ahead int) rune {
	off := lx.offset
	for i := 0; ; i++ {
		if off >= len(lx.src) {
			return 0
		}
		r, size := utf8.DecodeRune(lx.src[off:])
		if i == ahead {
			return r
		}
		off += size
	}
}

func (lx *lexer) advance() rune {
	r, size := utf8.DecodeRune(lx.src[lx.offset:])
	lx.offset += size
	if r == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
	return r
}

func (lx *lexer) errorf(pos ast.Position, format string, args ...interface{}) error {
	return &SyntaxError{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

func (lx *lexer) skipTrivia() error {
	for lx.offset < len(lx.src) {
		r := lx.peekRune(0)
		switch {
		case unicode.IsSpace(r):
			lx.advance()
		case r == '/' && lx.peekRune(1) == '/':
			for lx.offset < len(lx.src) && lx.peekRune(0) != '\n' {
				lx.advance()
			}
		case r == '/' && lx.peekRune(1) == '*':
			start := lx.pos()
			lx.advance()
			lx.advance()
			closed := false
			for lx.offset < len(lx.src) {
				if lx.peekRune(0) == '*' && lx.peekRune(1) == '/' {
					lx.advance()
					lx.advance()
					closed = true
					break
				}
				lx.advance()
			}
			if !closed {
				return lx.errorf(start, "unterminated block comment")
			}
		default:
			return nil
		}
	}
	return nil
}

func (lx *lexer) emit(kind TokenKind, text, suffix string, start ast.Position) {
	lx.tokens = append(lx.tokens, Token{Kind: kind, Text: text, Suffix: suffix, Start: start, End: lx.pos()})
}

func (lx *lexer) next() error {
	start := lx.pos()
	r := lx.peekRune(0)
	switch {
	case r == '_' || unicode.IsLetter(r):
		var sb strings.Builder
		for lx.offset < len(lx.src) {
			c := lx.peekRune(0)
			if c != '_' && !unicode.IsLetter(c) && !unicode.IsDigit(c) {
				break
			}
			sb.WriteRune(lx.advance())
		}
		word := sb.String()
		if _, ok := keywords[word]; ok {
			lx.emit(TokenKeyword, word, "", start)
		} else {
			lx.emit(TokenIdentifier, word, "", start)
		}
		return nil
	case isDigit(r) || (r == '.' && isDigit(lx.peekRune(1))):
		return lx.number(start)
	case r == '"':
		return lx.stringLiteral(start)
	}
	for _, op := range twoCharPunct {
		if r == rune(op[0]) && lx.peekRune(1) == rune(op[1]) {
			lx.advance()
			lx.advance()
			lx.emit(TokenPunct, op, "", start)
			return nil
		}
	}
	if strings.ContainsRune(singleCharPunct, r) {
		lx.advance()
		lx.emit(TokenPunct, string(r), "", start)
		return nil
	}
	return lx.errorf(start, "unexpected character %q", r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func (lx *lexer) number(start ast.Position) error {
	var sb strings.Builder
	isFloat := false
	for isDigit(lx.peekRune(0)) {
		sb.WriteRune(lx.advance())
	}
	if lx.peekRune(0) == '.' && isDigit(lx.peekRune(1)) {
		isFloat = true
		sb.WriteRune(lx.advance())
		for isDigit(lx.peekRune(0)) {
			sb.WriteRune(lx.advance())
		}
	}
	if c := lx.peekRune(0); c == 'e' || c == 'E' {
		sign := lx.peekRune(1)
		if isDigit(sign) || ((sign == '+' || sign == '-') && isDigit(lx.peekRune(2))) {
			isFloat = true
			sb.WriteRune(lx.advance())
			if sign == '+' || sign == '-' {
				sb.WriteRune(lx.advance())
			}
			for isDigit(lx.peekRune(0)) {
				sb.WriteRune(lx.advance())
			}
		}
	}
	suffix := ""
	if c := lx.peekRune(0); c == 'f' || c == 'F' {
		lx.advance()
		suffix = "f"
		isFloat = true
	}
	if c := lx.peekRune(0); c == '_' || unicode.IsLetter(c) {
		return lx.errorf(start, "invalid numeric literal %q", sb.String()+suffix+string(c))
	}
	if isFloat {
		lx.emit(TokenFloat, sb.String(), suffix, start)
	} else {
		lx.emit(TokenInteger, sb.String(), "", start)
	}
	return nil
}

func (lx *lexer) stringLiteral(start ast.Position) error {
	lx.advance()
	var sb strings.Builder
	for {
		if lx.offset >= len(lx.src) {
			return lx.errorf(start, "unterminated string literal")
		}
		r := lx.advance()
		switch r {
		case '"':
			lx.emit(TokenString, sb.String(), "", start)
			return nil
		case '\n':
			return lx.errorf(start, "newline in string literal")
		case '\\':
			if lx.offset >= len(lx.src) {
				return lx.errorf(start, "unterminated string literal")
			}
			escPos := lx.pos()
			switch esc := lx.advance(); esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '0':
				sb.WriteByte(0)
			case '"', '\\':
				sb.WriteRune(esc)
			default:
				return lx.errorf(escPos, "unknown escape sequence \\%c", esc)
			}
		default:
			sb.WriteRune(r)
		}
	}
}
