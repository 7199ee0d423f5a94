package compiler_test

import (
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/51ddhesh/min-cc/pkg/compiler"
	"github.com/51ddhesh/min-cc/pkg/emu"
	"github.com/51ddhesh/min-cc/pkg/mdtest"
	"github.com/nalgeon/be"
)

// TestCorpus runs every case in testdata/corpus.md.
func TestCorpus(t *testing.T) {
	markdown, err := os.ReadFile("testdata/corpus.md")
	be.Err(t, err, nil)

	cases, err := mdtest.ExtractCases(markdown)
	be.Err(t, err, nil)
	be.True(t, len(cases) > 0)

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			assembly, compileErr := compiler.Compile(tc.Source)

			for _, a := range tc.Assertions {
				switch a.Type {
				case mdtest.AssertionCompileError:
					if compileErr == nil {
						t.Fatalf("expected a compile error containing %q, got assembly:\n%s", a.Content, assembly)
					}
					if !strings.Contains(compileErr.Error(), a.Content) {
						t.Errorf("compile error %q does not contain %q", compileErr, a.Content)
					}

				case mdtest.AssertionAsmContains:
					be.Err(t, compileErr, nil)
					for _, line := range strings.Split(a.Content, "\n") {
						if !strings.Contains(assembly, line) {
							t.Errorf("emitted assembly missing %q\nAssembly:\n%s", line, assembly)
						}
					}

				case mdtest.AssertionExit:
					be.Err(t, compileErr, nil)
					want, err := strconv.ParseInt(strings.TrimSpace(a.Content), 10, 64)
					be.Err(t, err, nil)
					got, err := emu.Run(assembly)
					be.Err(t, err, nil)
					be.Equal(t, got, want)
				}
			}
		})
	}
}
