package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/51ddhesh/min-cc/pkg/compiler"
	"github.com/sanity-io/litter"
)

// outputPath is where the generated assembly is written, relative to the
// working directory. Assemble and link with e.g.:
//
//	nasm -f elf64 output.asm -o output.o && ld output.o -o a.out
const outputPath = "output.asm"

func main() {
	dumpTokens := flag.Bool("dump-tokens", false, "print the token stream to stderr")
	dumpAST := flag.Bool("dump-ast", false, "print the parsed AST to stderr")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(1)
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "read error:", err)
		os.Exit(1)
	}
	src := string(data)

	tokens, err := compiler.Lex(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, "lex error:", err)
		os.Exit(1)
	}
	if *dumpTokens {
		fmt.Fprintf(os.Stderr, "Tokens (%d)\n", len(tokens))
		for _, tok := range tokens {
			fmt.Fprintln(os.Stderr, " ", tok)
		}
	}

	expr, err := compiler.Parse(tokens, src)
	if err != nil {
		fmt.Fprintln(os.Stderr, "parse error:", err)
		os.Exit(1)
	}
	if *dumpAST {
		litter.Dump(expr)
	}

	assembly, err := compiler.Generate(expr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "codegen error:", err)
		os.Exit(1)
	}

	if err := os.WriteFile(outputPath, []byte(assembly), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, "write error:", err)
		os.Exit(1)
	}
	fmt.Printf("Assembly written to %s\n", outputPath)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] <file.c>\n", os.Args[0])
	flag.PrintDefaults()
}
