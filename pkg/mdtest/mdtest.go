// Package mdtest extracts compiler test cases from Markdown documents.
//
// A case starts at a heading of the form "## Test: <name>". Fenced code
// blocks inside the case attach by their info string:
//
//	c              the C source to compile (exactly one per case)
//	exit           expected process exit status of the compiled program
//	asm-contains   lines that must each appear in the emitted assembly
//	compile-error  substring the compilation error must contain
package mdtest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// AssertionType identifies an assertion fence.
type AssertionType string

const (
	AssertionExit         AssertionType = "exit"
	AssertionAsmContains  AssertionType = "asm-contains"
	AssertionCompileError AssertionType = "compile-error"
)

const inputFence = "c"

// Assertion is one expectation attached to a test case.
type Assertion struct {
	Type    AssertionType
	Content string // raw fence content, trailing newline trimmed
}

// Case is one complete test case extracted from a Markdown document.
type Case struct {
	Name       string
	Source     string // the C source from the input fence
	Assertions []Assertion
}

// ExtractCases parses a Markdown document and returns all test cases in
// document order. A case must have exactly one input fence and at least one
// assertion fence.
func ExtractCases(markdown []byte) ([]Case, error) {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(markdown))

	var cases []Case
	var current *Case
	haveSource := false

	flush := func() error {
		if current == nil {
			return nil
		}
		if !haveSource {
			return fmt.Errorf("test %q has no c input fence", current.Name)
		}
		if len(current.Assertions) == 0 {
			return fmt.Errorf("test %q has no assertion fences", current.Name)
		}
		cases = append(cases, *current)
		return nil
	}

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			headingText := nodeText(n, markdown)
			if strings.HasPrefix(headingText, "Test: ") {
				if err := flush(); err != nil {
					return ast.WalkStop, err
				}
				current = &Case{Name: strings.TrimPrefix(headingText, "Test: ")}
				haveSource = false
			}

		case *ast.FencedCodeBlock:
			language := string(n.Language(markdown))
			if language == "" {
				return ast.WalkContinue, nil
			}
			if current == nil {
				return ast.WalkStop, fmt.Errorf("%s fence found outside of a test case", language)
			}
			content := strings.TrimRight(fenceContent(n, markdown), "\n")

			switch language {
			case inputFence:
				if haveSource {
					return ast.WalkStop, fmt.Errorf("test %q has multiple c input fences", current.Name)
				}
				current.Source = content
				haveSource = true
			case string(AssertionExit), string(AssertionAsmContains), string(AssertionCompileError):
				current.Assertions = append(current.Assertions, Assertion{
					Type:    AssertionType(language),
					Content: content,
				})
			default:
				return ast.WalkStop, fmt.Errorf("unknown fence language %q in test %q", language, current.Name)
			}
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	if err := flush(); err != nil {
		return nil, err
	}
	return cases, nil
}

// nodeText extracts the plain text content of a markdown node.
func nodeText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := n.(*ast.Text); ok {
				buf.Write(t.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

// fenceContent extracts the body of a fenced code block.
func fenceContent(codeBlock *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	for i := 0; i < codeBlock.Lines().Len(); i++ {
		line := codeBlock.Lines().At(i)
		buf.Write(line.Value(source))
	}
	return buf.String()
}
