package compiler

import "fmt"

// The three error families below classify every way a compilation run can
// fail. All of them are unrecoverable for the run: the first one produced
// aborts its stage and propagates unchanged to the caller. The core never
// prints and never exits; turning an error into a diagnostic and a non-zero
// process status is the driver's job.

// LexErrorKind classifies lexical failures.
type LexErrorKind int

const (
	UnexpectedCharacter LexErrorKind = iota
	NumericOverflow
)

// LexError reports an illegal character or an out-of-range integer literal.
type LexError struct {
	Kind   LexErrorKind
	Line   int
	Col    int
	Char   rune   // set for UnexpectedCharacter
	Lexeme string // set for NumericOverflow: the offending digit run
}

func (e *LexError) Error() string {
	switch e.Kind {
	case NumericOverflow:
		return fmt.Sprintf("line %d:%d: integer literal %s overflows a 64-bit signed integer", e.Line, e.Col, e.Lexeme)
	default:
		return fmt.Sprintf("line %d:%d: unexpected character %q", e.Line, e.Col, e.Char)
	}
}

// ParseErrorKind classifies grammar violations.
type ParseErrorKind int

const (
	// ExpectedToken: a specific token was required next and something else
	// was found (the match-and-advance path).
	ExpectedToken ParseErrorKind = iota
	// UnexpectedToken: the found token fits no production at this point
	// (the primary-expression path).
	UnexpectedToken
)

// ParseError reports the first deviation from the fixed grammar. There is no
// recovery: parsing stops at the token recorded in Found.
type ParseError struct {
	Kind     ParseErrorKind
	Expected TokenType // meaningful only for ExpectedToken
	Found    Token
	Snippet  string // trimmed source line containing Found
}

func (e *ParseError) Error() string {
	var msg string
	switch e.Kind {
	case ExpectedToken:
		msg = fmt.Sprintf("expected %s, got %s (%q)", e.Expected, e.Found.Type, e.Found.Lexeme)
	default:
		msg = fmt.Sprintf("unexpected token %s (%q)", e.Found.Type, e.Found.Lexeme)
	}
	if e.Snippet == "" {
		return fmt.Sprintf("line %d: %s", e.Found.Line, msg)
	}
	return fmt.Sprintf("line %d: %s\n  |> %s", e.Found.Line, msg, e.Snippet)
}

// CodegenErrorKind classifies code generation failures.
type CodegenErrorKind int

const (
	// UnsupportedOperator is unreachable for trees built by the parser,
	// since Operator admits only the four emitted operators. Kept as a
	// defensive case should the AST ever be widened.
	UnsupportedOperator CodegenErrorKind = iota
	// DivisionByZero: the right operand of '/' is the literal 0. Divisors
	// that are zero only at runtime still fault in the emitted program.
	DivisionByZero
)

// CodegenError reports a failure while emitting assembly.
type CodegenError struct {
	Kind CodegenErrorKind
	Op   Operator
}

func (e *CodegenError) Error() string {
	switch e.Kind {
	case DivisionByZero:
		return "division by zero in constant expression"
	default:
		return fmt.Sprintf("codegen: unsupported operator %s", e.Op)
	}
}
