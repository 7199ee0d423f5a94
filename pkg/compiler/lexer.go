package compiler

import "strconv"

// keywords maps source text to its keyword TokenType. Lookup happens only
// after a full identifier run has been collected, so "intx" stays an
// identifier rather than INT followed by "x".
var keywords = map[string]TokenType{
	"int":    INT,
	"return": RETURN,
}

// Lexer holds all mutable state for a single scanning pass over src.
type Lexer struct {
	src  []rune
	pos  int // index of the next rune to consume
	line int // current 1-based source line
	col  int // current 1-based source column
}

func newLexer(src string) *Lexer {
	return &Lexer{src: []rune(src), pos: 0, line: 1, col: 1}
}

// peek returns the rune at the current position without advancing.
func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

// advance consumes one rune and returns it.
func (l *Lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) {
		switch l.peek() {
		case ' ', '\t', '\n', '\r':
			l.advance()
		default:
			return
		}
	}
}

// scanIdent collects a full identifier or keyword token.
// The first character (letter or '_') must still be at l.peek().
func (l *Lexer) scanIdent() Token {
	line, col := l.line, l.col
	start := l.pos
	for l.pos < len(l.src) && (isLetter(l.peek()) || isDigit(l.peek())) {
		l.advance()
	}
	lexeme := string(l.src[start:l.pos])
	tt := IDENTIFIER
	if kw, ok := keywords[lexeme]; ok {
		tt = kw
	}
	return Token{Type: tt, Lexeme: lexeme, Line: line, Col: col}
}

// scanInt collects a maximal decimal digit run and parses it as a 64-bit
// signed integer. A run that exceeds the int64 range is a NumericOverflow
// lexical error, not undefined behavior.
func (l *Lexer) scanInt() (Token, error) {
	line, col := l.line, l.col
	start := l.pos
	for l.pos < len(l.src) && isDigit(l.peek()) {
		l.advance()
	}
	lexeme := string(l.src[start:l.pos])
	value, err := strconv.ParseInt(lexeme, 10, 64)
	if err != nil {
		return Token{}, &LexError{Kind: NumericOverflow, Line: line, Col: col, Lexeme: lexeme}
	}
	return Token{Type: INTEGER, Lexeme: lexeme, Value: value, Line: line, Col: col}, nil
}

// nextToken skips whitespace and returns the next Token.
func (l *Lexer) nextToken() (Token, error) {
	l.skipWhitespace()
	if l.pos >= len(l.src) {
		return Token{Type: EOF, Lexeme: "", Line: l.line, Col: l.col}, nil
	}

	ch := l.peek()
	line, col := l.line, l.col

	if isLetter(ch) {
		return l.scanIdent(), nil
	}
	if isDigit(ch) {
		return l.scanInt()
	}

	l.advance() // consume the character before the switch
	switch ch {
	case '+':
		return Token{PLUS, "+", 0, line, col}, nil
	case '-':
		return Token{MINUS, "-", 0, line, col}, nil
	case '*':
		return Token{STAR, "*", 0, line, col}, nil
	case '/':
		return Token{SLASH, "/", 0, line, col}, nil
	case '(':
		return Token{LPAREN, "(", 0, line, col}, nil
	case ')':
		return Token{RPAREN, ")", 0, line, col}, nil
	case '{':
		return Token{LBRACE, "{", 0, line, col}, nil
	case '}':
		return Token{RBRACE, "}", 0, line, col}, nil
	case ';':
		return Token{SEMICOLON, ";", 0, line, col}, nil
	default:
		return Token{}, &LexError{Kind: UnexpectedCharacter, Line: line, Col: col, Char: ch}
	}
}

// Lex tokenises src and returns all tokens including the final EOF token.
// It returns a non-nil *LexError on the first illegal character or
// out-of-range integer literal. Lex is a pure function of src: no I/O,
// no global state.
func Lex(src string) ([]Token, error) {
	l := newLexer(src)
	var tokens []Token
	for {
		tok, err := l.nextToken()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}
