package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/panbanda/husk/pkg/lexical"
)

func lines(src string) []string {
	return lexical.SplitLines(src)
}

func TestShouldIgnoreDeclaration(t *testing.T) {
	a := New()

	src := lines(`// @husk-ignore
function a() {}
function b() {} // @husk-ignore
function c() {}`)

	assert.True(t, a.ShouldIgnoreDeclaration(src, 1), "marker on line above")
	assert.True(t, a.ShouldIgnoreDeclaration(src, 2), "trailing marker")
	assert.True(t, a.ShouldIgnoreDeclaration(src, 3), "trailing marker on preceding line")

	plain := lines(`// @husk-ignore

function a() {}`)
	assert.False(t, a.ShouldIgnoreDeclaration(plain, 2), "only the directly preceding line counts")
}

func TestShouldIgnoreDeclaration_FileMarkerIsNotLineMarker(t *testing.T) {
	a := New()
	src := lines(`const x = 1; // @husk-ignore-file`)
	assert.False(t, a.ShouldIgnoreDeclaration(src, 0))
}

func TestShouldIgnoreDeclarationWithContext(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		idx     int
		context int
		want    bool
	}{
		{
			name: "marker within window",
			src: `// @husk-ignore
// explains why

function a() {}`,
			idx:     3,
			context: 3,
			want:    true,
		},
		{
			name: "marker beyond window",
			src: `// @husk-ignore
//
//
//
function a() {}`,
			idx:     4,
			context: 3,
			want:    false,
		},
		{
			name: "code line stops lookback",
			src: `// @husk-ignore
const unrelated = 1;
function a() {}`,
			idx:     2,
			context: 3,
			want:    false,
		},
		{
			name: "block comment interior",
			src: `/*
   @husk-ignore
*/
function a() {}`,
			idx:     3,
			context: 3,
			want:    true,
		},
		{
			name: "larger window reaches marker",
			src: `// @husk-ignore
//
//
//
function a() {}`,
			idx:     4,
			context: 5,
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(WithContextLines(tt.context))
			assert.Equal(t, tt.want, a.ShouldIgnoreDeclarationWithContext(lines(tt.src), tt.idx))
		})
	}
}

func TestDisabledAnnotations(t *testing.T) {
	a := New(WithEnabled(false))
	src := lines(`// @husk-ignore-file
// @husk-ignore
function a() {}`)

	assert.False(t, a.Enabled())
	assert.False(t, a.ShouldIgnoreFile(src))
	assert.False(t, a.ShouldIgnoreDeclaration(src, 2))
	assert.False(t, a.ShouldIgnoreDeclarationWithContext(src, 2))
}

func TestShouldIgnoreFile(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want bool
	}{
		{"first line", "// @husk-ignore-file\nfunction unused() {}", true},
		{"after blank lines and comments", "\n// header\n\n/* @husk-ignore-file */\nconst a = 1;", true},
		{"inside block comment", "/**\n * License\n * @husk-ignore-file\n */\nconst a = 1;", true},
		{"after code is inert", "const a = 1;\n// @husk-ignore-file", false},
		{"line marker only", "// @husk-ignore\nconst a = 1;", false},
		{"empty file", "", false},
	}

	a := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.ShouldIgnoreFile(lines(tt.src)))
		})
	}
}

func TestIsDeprecated(t *testing.T) {
	tests := []struct {
		name string
		src  string
		idx  int
		want bool
	}{
		{"jsdoc block", "/** @deprecated */\nexport const OLD = 1;", 1, true},
		{"multi-line jsdoc", "/**\n * Old helper.\n * @deprecated use next\n */\nfunction old() {}", 4, true},
		{"trailing comment", "export const OLD = 1; // @deprecated", 0, true},
		{"separated by code", "/** @deprecated */\nconst a = 1;\nconst b = 2;", 2, false},
		{"no marker", "/** docs */\nconst a = 1;", 1, false},
		{"string is not a marker", "const s = '@deprecated';", 0, false},
		{
			name: "beyond lookback",
			src:  "// @deprecated\n//\n//\n//\n//\n//\n//\n//\n//\n//\n//\nconst a = 1;",
			idx:  11,
			want: false,
		},
	}

	a := New(WithEnabled(false))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.IsDeprecated(lines(tt.src), tt.idx))
		})
	}
}

func TestContainsMarker(t *testing.T) {
	assert.True(t, containsMarker("// @husk-ignore", IgnoreMarker))
	assert.True(t, containsMarker("// @husk-ignore: reason", IgnoreMarker))
	assert.False(t, containsMarker("// @husk-ignore-file", IgnoreMarker))
	assert.True(t, containsMarker("// @husk-ignore-file @husk-ignore", IgnoreMarker))
	assert.False(t, containsMarker("// @husk-ignored", IgnoreMarker))
}
