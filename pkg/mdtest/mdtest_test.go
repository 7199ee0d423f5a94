package mdtest

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

const sampleDoc = `# Corpus

Prose between cases is ignored.

## Test: addition

` + "```c\nint main(){return 1+2;}\n```" + `

` + "```exit\n3\n```" + `

## Test: rejection

Some explanation.

` + "```c\nint main(){return 1 % 2;}\n```" + `

` + "```compile-error\nunexpected character\n```" + `

` + "```asm-contains\nmov rax, 60\nsyscall\n```" + `
`

func TestExtractCases(t *testing.T) {
	cases, err := ExtractCases([]byte(sampleDoc))
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 2)

	be.Equal(t, cases[0].Name, "addition")
	be.Equal(t, cases[0].Source, "int main(){return 1+2;}")
	be.Equal(t, len(cases[0].Assertions), 1)
	be.Equal(t, cases[0].Assertions[0].Type, AssertionExit)
	be.Equal(t, cases[0].Assertions[0].Content, "3")

	be.Equal(t, cases[1].Name, "rejection")
	be.Equal(t, len(cases[1].Assertions), 2)
	be.Equal(t, cases[1].Assertions[0].Type, AssertionCompileError)
	be.Equal(t, cases[1].Assertions[1].Type, AssertionAsmContains)
	be.Equal(t, cases[1].Assertions[1].Content, "mov rax, 60\nsyscall")
}

func TestExtractCases_PlainFencesIgnored(t *testing.T) {
	doc := "## Test: one\n\n```\nnot a directive\n```\n\n```c\nint main(){return 0;}\n```\n\n```exit\n0\n```\n"
	cases, err := ExtractCases([]byte(doc))
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 1)
	be.Equal(t, len(cases[0].Assertions), 1)
}

func TestExtractCases_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "fence outside a case",
			doc:  "```c\nint main(){return 0;}\n```\n",
			want: "outside of a test case",
		},
		{
			name: "case without input",
			doc:  "## Test: empty\n\n```exit\n0\n```\n",
			want: "has no c input fence",
		},
		{
			name: "case without assertions",
			doc:  "## Test: bare\n\n```c\nint main(){return 0;}\n```\n",
			want: "has no assertion fences",
		},
		{
			name: "duplicate input fence",
			doc:  "## Test: dup\n\n```c\na\n```\n\n```c\nb\n```\n",
			want: "multiple c input fences",
		},
		{
			name: "unknown fence language",
			doc:  "## Test: odd\n\n```c\na\n```\n\n```wasm\nb\n```\n",
			want: "unknown fence language",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractCases([]byte(tt.doc))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
