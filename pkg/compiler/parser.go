package compiler

import "strings"

// Parser consumes the flat token slice produced by the Lexer and builds the
// expression AST for the one program shape this compiler accepts.
//
// Grammar (exact sequence at the top level, no flexibility):
//
//	program    = "int" "main" "(" ")" "{" "return" expression ";" "}" EOF
//	expression = additive
//	additive   = multiplicative (("+" | "-") multiplicative)*
//	multiplicative = primary (("*" | "/") primary)*
//	primary    = INTEGER | "(" expression ")"
//
// The two precedence levels are left-associative loops: each iteration wraps
// the accumulated node as the Left child of a new BinaryExpr, so a - b - c
// parses as (a - b) - c.
type Parser struct {
	tokens      []Token
	pos         int
	sourceLines []string
}

func NewParser(tokens []Token, rawSource string) *Parser {
	return &Parser{tokens: tokens, sourceLines: strings.Split(rawSource, "\n")}
}

// snippet returns the trimmed source line a token appears on, for error
// messages.
func (p *Parser) snippet(tok Token) string {
	lineIdx := tok.Line - 1 // lines are 1-based
	if lineIdx < 0 || lineIdx >= len(p.sourceLines) {
		return ""
	}
	return strings.TrimSpace(p.sourceLines[lineIdx])
}

func (p *Parser) expectedErr(expected TokenType, found Token) error {
	return &ParseError{
		Kind:     ExpectedToken,
		Expected: expected,
		Found:    found,
		Snippet:  p.snippet(found),
	}
}

func (p *Parser) unexpectedErr(found Token) error {
	return &ParseError{
		Kind:    UnexpectedToken,
		Found:   found,
		Snippet: p.snippet(found),
	}
}

// peek returns the current token without consuming it.
func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos]
}

// advance consumes and returns the current token.
func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// expect consumes the current token if it matches tt, otherwise returns an
// error. The first mismatch aborts the run; there is no recovery.
func (p *Parser) expect(tt TokenType) (Token, error) {
	tok := p.advance()
	if tok.Type != tt {
		return tok, p.expectedErr(tt, tok)
	}
	return tok, nil
}

// parseProgram matches the fixed skeleton as an ordered checklist and
// returns the parsed return expression.
func (p *Parser) parseProgram() (Expr, error) {
	if _, err := p.expect(INT); err != nil {
		return nil, err
	}
	// Not general identifier binding: the one supported entry point is
	// literally "main".
	tok, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if tok.Lexeme != "main" {
		return nil, p.unexpectedErr(tok)
	}
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(LBRACE); err != nil {
		return nil, err
	}
	if _, err := p.expect(RETURN); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	if _, err := p.expect(RBRACE); err != nil {
		return nil, err
	}
	if _, err := p.expect(EOF); err != nil {
		return nil, err
	}
	return expr, nil
}

// parseExpression is the entry point for expression parsing.
func (p *Parser) parseExpression() (Expr, error) {
	return p.parseAdditive()
}

// parseAdditive handles + and -
func (p *Parser) parseAdditive() (Expr, error) {
	expr, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == PLUS || p.peek().Type == MINUS {
		op, _ := operatorFor(p.advance().Type)
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Op: op, Left: expr, Right: right}
	}
	return expr, nil
}

// parseMultiplicative handles * and /
func (p *Parser) parseMultiplicative() (Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == STAR || p.peek().Type == SLASH {
		op, _ := operatorFor(p.advance().Type)
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Op: op, Left: expr, Right: right}
	}
	return expr, nil
}

// parsePrimary handles integer literals and parenthesised sub-expressions.
func (p *Parser) parsePrimary() (Expr, error) {
	tok := p.peek()
	switch tok.Type {
	case INTEGER:
		p.advance()
		return &NumberLit{Value: tok.Value}, nil
	case LPAREN:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	default:
		return nil, p.unexpectedErr(tok)
	}
}

// Parse builds the AST for the fixed program int main() { return <expr>; }.
// rawSource is used only to attach source-line snippets to errors.
func Parse(tokens []Token, rawSource string) (Expr, error) {
	p := NewParser(tokens, rawSource)
	return p.parseProgram()
}
