// Package verify decides which detected declarations are used. Single-file
// verifiers look for usages of a file's declarations inside that file;
// cross-file verifiers resolve imports, package references and deprecated
// usages across every file of the run.
package verify

import (
	"regexp"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/panbanda/husk/pkg/lexical"
)

// spanLookahead bounds how far a brace list of an import or export statement
// may continue past its first line.
const spanLookahead = 50

var (
	exportListStart = regexp.MustCompile(`^\s*export\s*(?:type\s+)?\{`)
	fromClause      = regexp.MustCompile(`^\s*export\b[^'"]*\bfrom\s*['"]`)
	specifierRef    = regexp.MustCompile(`(?:\bfrom\s*|\bimport\s*\(\s*|\brequire\s*\(\s*|\bimport\s+)['"]([^'"]+)['"]`)
)

// File is one file's text split into lines, with an index of the lines that
// never count as usage.
type File struct {
	Path  string
	Text  string
	Lines []string

	comments    *roaring.Bitmap
	imports     *roaring.Bitmap
	exportLists *roaring.Bitmap

	statements []statement
}

// NewFile splits content into lines and classifies them.
func NewFile(path string, content []byte) *File {
	text := string(content)
	f := &File{
		Path:        path,
		Text:        text,
		Lines:       lexical.SplitLines(text),
		comments:    roaring.New(),
		imports:     roaring.New(),
		exportLists: roaring.New(),
	}
	f.index()
	return f
}

func (f *File) index() {
	inBlock := false
	for i, line := range f.Lines {
		if inBlock || lexical.IsComment(line) {
			f.comments.Add(uint32(i))
		}
		inBlock = blockState(line, inBlock)
	}

	for i := 0; i < len(f.Lines); i++ {
		line := f.Lines[i]
		if f.IsComment(i) || (!lexical.IsImportLine(line) && !lexical.IsExportLine(line)) {
			continue
		}
		end := f.braceSpanEnd(i)
		text := strings.Join(f.Lines[i:end+1], " ")

		var span *roaring.Bitmap
		switch {
		case lexical.IsImportLine(line), fromClause.MatchString(text):
			span = f.imports
		case exportListStart.MatchString(line):
			span = f.exportLists
		default:
			continue
		}
		span.AddRange(uint64(i), uint64(end)+1)
		f.statements = append(f.statements, statement{line: i, text: text})
		i = end
	}
}

// braceSpanEnd returns the last line of the statement starting on line
// start: the line holding the closing brace when the statement opens a brace
// list it does not close, otherwise start itself.
func (f *File) braceSpanEnd(start int) int {
	line := f.Lines[start]
	open := strings.Index(line, "{")
	if open < 0 || strings.Contains(line[open:], "}") {
		return start
	}
	for i := start + 1; i < len(f.Lines) && i <= start+spanLookahead; i++ {
		if strings.Contains(f.Lines[i], "}") {
			return i
		}
	}
	return start
}

// blockState reports whether a block comment is still open after line.
// Comment delimiters inside strings or after an escaping backslash, as in
// the regex literal /a\/*/, are ignored.
func blockState(line string, inBlock bool) bool {
	for i := 0; i+1 < len(line); i++ {
		if inBlock {
			if line[i] == '*' && line[i+1] == '/' {
				inBlock = false
				i++
			}
			continue
		}
		if line[i] != '/' || !opensComment(line, i) {
			continue
		}
		switch line[i+1] {
		case '/':
			return false
		case '*':
			inBlock = true
			i++
		}
	}
	return inBlock
}

// opensComment reports whether the slash at i can start a comment.
func opensComment(line string, i int) bool {
	if i > 0 && line[i-1] == '\\' {
		return false
	}
	return !lexical.IsInString(line, i)
}

// IsComment reports whether line idx is a comment line or lies inside a
// block comment.
func (f *File) IsComment(idx int) bool {
	return f.comments.Contains(uint32(idx))
}

// IsImport reports whether line idx belongs to an import statement or a
// re-export with a from clause.
func (f *File) IsImport(idx int) bool {
	return f.imports.Contains(uint32(idx))
}

// IsExportList reports whether line idx belongs to a local export brace list.
func (f *File) IsExportList(idx int) bool {
	return f.exportLists.Contains(uint32(idx))
}

// code returns line idx without its trailing comment.
func (f *File) code(idx int) string {
	line := f.Lines[idx]
	if c := lexical.CommentText(line); c != "" {
		return line[:len(line)-len(c)]
	}
	return line
}

// Specifiers returns every module specifier referenced by an import,
// re-export, require or dynamic import outside comments.
func (f *File) Specifiers() []string {
	var out []string
	for i := range f.Lines {
		if f.IsComment(i) {
			continue
		}
		code := f.code(i)
		for _, m := range specifierRef.FindAllStringSubmatchIndex(code, -1) {
			if !lexical.IsInString(code, m[0]) {
				out = append(out, code[m[2]:m[3]])
			}
		}
	}
	return out
}
