package compiler

import "fmt"

// Operator is the closed set of arithmetic operators a BinaryExpr may carry.
// Keeping this separate from TokenType makes invalid operators
// unrepresentable in the tree.
type Operator int

const (
	OpAdd Operator = iota // +
	OpSub                 // -
	OpMul                 // *
	OpDiv                 // /
)

var operatorNames = [...]string{
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
}

func (op Operator) String() string {
	if int(op) >= 0 && int(op) < len(operatorNames) {
		return operatorNames[op]
	}
	return fmt.Sprintf("Operator(%d)", int(op))
}

// operatorFor maps an arithmetic operator token to its Operator, reporting
// false for any other token type.
func operatorFor(tt TokenType) (Operator, bool) {
	switch tt {
	case PLUS:
		return OpAdd, true
	case MINUS:
		return OpSub, true
	case STAR:
		return OpMul, true
	case SLASH:
		return OpDiv, true
	}
	return 0, false
}

// Expr is implemented by every node that produces a value.
// genExpr always leaves the result in rax.
type Expr interface {
	exprNode()
	String() string
}

// NumberLit is a 64-bit signed integer constant.
//
//	return 42;
//	       ^^  NumberLit{Value: 42}
type NumberLit struct {
	Value int64
}

func (*NumberLit) exprNode()        {}
func (n *NumberLit) String() string { return fmt.Sprintf("%d", n.Value) }

// BinaryExpr represents Left Op Right. Left and Right are exclusively owned
// by this node: the parser builds a strict tree, never a DAG.
//
//	2 + 3
//	^ ^ ^
//	| | Right
//	| Op
//	Left
type BinaryExpr struct {
	Op    Operator
	Left  Expr
	Right Expr
}

func (*BinaryExpr) exprNode() {}
func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right)
}
