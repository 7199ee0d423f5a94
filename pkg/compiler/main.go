// Package compiler provides a minimal-C lexer, parser, and code generator
// that targets x86-64 Linux assembly (nasm dialect).
//
// Pipeline: C source → Lex → Parse → Generate → x86-64 assembly text
package compiler
