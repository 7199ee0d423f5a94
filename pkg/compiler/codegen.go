package compiler

import (
	"fmt"
	"strings"
)

// CodeGen walks an expression tree and emits x86-64 assembly source text in
// nasm syntax. It is the only stage that knows register names, mnemonics,
// and the Linux process-exit convention.
type CodeGen struct {
	out strings.Builder
}

func newCodeGen() *CodeGen {
	return &CodeGen{}
}

func (cg *CodeGen) line(format string, args ...any) {
	fmt.Fprintf(&cg.out, format+"\n", args...)
}

// genExpr emits code that leaves the value of e in rax.
//
// Post-order stack-machine discipline: the right subtree is evaluated first
// and parked on the stack, the left subtree lands in rax, then the saved
// right value is popped into rcx. With rax = left and rcx = right, sub and
// idiv compute left - right and left / right without any operand swap.
// The right-before-left order must be preserved exactly: it is what lets a
// single push/pop pair stand in for a register allocator.
func (cg *CodeGen) genExpr(e Expr) error {
	switch n := e.(type) {
	case *NumberLit:
		cg.line("    mov rax, %d", n.Value)
		return nil

	case *BinaryExpr:
		if n.Op == OpDiv {
			if lit, ok := n.Right.(*NumberLit); ok && lit.Value == 0 {
				return &CodegenError{Kind: DivisionByZero, Op: n.Op}
			}
		}

		if err := cg.genExpr(n.Right); err != nil {
			return err
		}
		cg.line("    push rax")
		if err := cg.genExpr(n.Left); err != nil {
			return err
		}
		cg.line("    pop rcx")

		switch n.Op {
		case OpAdd:
			cg.line("    add rax, rcx")
		case OpSub:
			cg.line("    sub rax, rcx")
		case OpMul:
			cg.line("    imul rax, rcx")
		case OpDiv:
			// Signed division divides rdx:rax by the operand, so rax must
			// be sign-extended into rdx first. Quotient lands in rax.
			cg.line("    cqo")
			cg.line("    idiv rcx")
		default:
			return &CodegenError{Kind: UnsupportedOperator, Op: n.Op}
		}
		return nil

	default:
		return fmt.Errorf("codegen: unknown expression node %T", e)
	}
}

// Generate emits a complete standalone program: _start calls main and exits
// the process with main's return value; main evaluates expr into rax and
// returns. The output is a pure function of expr — compiling the same tree
// twice yields byte-identical text.
func Generate(expr Expr) (string, error) {
	cg := newCodeGen()

	cg.line("    global _start")
	cg.line("    global main")
	cg.line("    section .text")
	cg.line("")
	cg.line("_start:")
	cg.line("    call main")
	cg.line("    mov rdi, rax")
	cg.line("    mov rax, 60")
	cg.line("    syscall")
	cg.line("")
	cg.line("main:")
	if err := cg.genExpr(expr); err != nil {
		return "", err
	}
	cg.line("    ret")

	return cg.out.String(), nil
}
