package compiler

// Compile runs the full pipeline over src and returns the generated x86-64
// assembly text. The first stage error aborts the run and is returned
// unchanged (*LexError, *ParseError, or *CodegenError); there is no partial
// output. Compile never prints and never exits — diagnostics are the
// caller's job.
func Compile(src string) (string, error) {
	tokens, err := Lex(src)
	if err != nil {
		return "", err
	}

	expr, err := Parse(tokens, src)
	if err != nil {
		return "", err
	}

	assembly, err := Generate(expr)
	if err != nil {
		return "", err
	}

	return assembly, nil
}
