package lexical

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsInString(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		needle string
		want   bool
	}{
		{"double quoted", `const msg = "call oldFn() now"`, "oldFn", true},
		{"single quoted", `const msg = 'call oldFn() now'`, "oldFn", true},
		{"back quoted", "const msg = `call oldFn() now`", "oldFn", true},
		{"after closed string", `const msg = "x"; oldFn()`, "oldFn", false},
		{"plain code", `oldFn(1, 2)`, "oldFn", false},
		{"escaped quote keeps string open", `const s = "a \" oldFn"`, "oldFn", true},
		{"template interpolation", "const s = `value ${oldFn()} end`", "oldFn", false},
		{"after interpolation closes", "const s = `value ${a} oldFn`", "oldFn", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := strings.Index(tt.line, tt.needle)
			assert.Equal(t, tt.want, IsInString(tt.line, pos))
		})
	}
}

func TestIsInString_Bounds(t *testing.T) {
	assert.False(t, IsInString(`"abc"`, 0))
	assert.False(t, IsInString(`"abc"`, -1))
	assert.False(t, IsInString(`"abc"`, 100))
}

func TestIsComment(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"// comment", true},
		{"   // indented", true},
		{"/* block", true},
		{" * continuation", true},
		{" */", true},
		{"const a = 1; /* trailing */", true},
		{"const a = 1;", false},
		{"", false},
		{"   ", false},
		{"const url = 'a';", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsComment(tt.line), "line %q", tt.line)
	}
}

func TestCommentText(t *testing.T) {
	assert.Equal(t, "// @husk-ignore", CommentText("foo(); // @husk-ignore"))
	assert.Equal(t, "/* x */", CommentText("a /* x */"))
	assert.Equal(t, "* @deprecated", CommentText("   * @deprecated"))
	assert.Equal(t, "", CommentText(`const u = "http://example.com";`))
	assert.Equal(t, "", CommentText("const a = 1;"))
}

func TestIsCompleteIdentifier(t *testing.T) {
	line := "const fooBar = foo + $foo + foo_1 + foo;"
	idx := IdentifierIndexes(line, "foo")
	assert.Len(t, idx, 2)
	for _, i := range idx {
		assert.True(t, IsCompleteIdentifier(line, i, "foo"))
	}
	assert.False(t, IsCompleteIdentifier(line, strings.Index(line, "fooBar"), "foo"))
	assert.False(t, IsCompleteIdentifier(line, -1, "foo"))
	assert.False(t, IsCompleteIdentifier("fo", 0, "foo"))
}

func TestIsValidIdentifier(t *testing.T) {
	valid := []string{"a", "_private", "$store", "camelCase", "A1", "$"}
	invalid := []string{"", "1abc", "a-b", "a b", "@types", "a.b"}

	for _, name := range valid {
		assert.True(t, IsValidIdentifier(name), name)
	}
	for _, name := range invalid {
		assert.False(t, IsValidIdentifier(name), name)
	}
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b", ""}, SplitLines("a\r\nb\n"))
}

func TestImportExportLines(t *testing.T) {
	assert.True(t, IsImportLine("import { a } from './a';"))
	assert.True(t, IsImportLine("  import './side-effect';"))
	assert.False(t, IsImportLine("const important = 1;"))
	assert.True(t, IsExportLine("export const a = 1;"))
	assert.True(t, IsExportLine("export{ a };"))
	assert.False(t, IsExportLine("exports.a = 1;"))
}

func TestEnclosingBracket(t *testing.T) {
	line := "f(a: string, { b: 1, c: [d, e] })"
	assert.Equal(t, byte('('), EnclosingBracket(line, strings.Index(line, "a:")))
	assert.Equal(t, byte('{'), EnclosingBracket(line, strings.Index(line, "c:")))
	assert.Equal(t, byte('['), EnclosingBracket(line, strings.Index(line, "e]")))
	assert.Equal(t, byte(0), EnclosingBracket("x: 1", 0))
}
