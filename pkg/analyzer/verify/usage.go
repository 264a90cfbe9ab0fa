package verify

import (
	"strings"

	"github.com/panbanda/husk/pkg/lexical"
	"github.com/panbanda/husk/pkg/models"
)

// usageQuery describes one search for a name in a file.
type usageQuery struct {
	name string
	// decl, when set, is the declaration being verified; its own occurrence
	// is never a usage.
	decl *models.Declaration
	// skipLine excludes a whole 1-based line; zero excludes nothing.
	skipLine int
	// memberAccess accepts occurrences directly after a '.'.
	memberAccess bool
	// accept applies the kind-specific pattern to a candidate occurrence.
	accept func(code string, pos int) bool
}

// hasUsage reports whether f contains an occurrence of q.name that counts as
// usage: outside comments, strings, import statements and export lists, as
// a complete identifier, and accepted by q.accept. Code inside a ${...}
// interpolation is not a string.
func (f *File) hasUsage(q usageQuery) bool {
	if q.name == "" || !strings.Contains(f.Text, q.name) {
		return false
	}
	for idx := range f.Lines {
		if idx+1 == q.skipLine || f.IsComment(idx) || f.IsImport(idx) || f.IsExportList(idx) {
			continue
		}
		code := f.code(idx)
		for _, pos := range lexical.IdentifierIndexes(code, q.name) {
			if q.decl != nil && idx == q.decl.Location.Line-1 && pos == q.decl.Location.Column-1 {
				continue
			}
			if lexical.IsInString(code, pos) {
				continue
			}
			if !q.memberAccess && isMemberAccess(code, pos) {
				continue
			}
			if q.accept == nil || q.accept(code, pos) {
				return true
			}
		}
	}
	return false
}

// isMemberAccess reports whether the occurrence at pos follows a single '.'
// (obj.name), as opposed to a spread (...name).
func isMemberAccess(line string, pos int) bool {
	if pos == 0 || line[pos-1] != '.' {
		return false
	}
	return pos < 3 || line[pos-3:pos] != "..."
}

// endsWithKeyword reports whether s, with trailing blanks removed, ends with
// the keyword kw as a whole word.
func endsWithKeyword(s, kw string) bool {
	s = strings.TrimRight(s, " \t")
	if !strings.HasSuffix(s, kw) {
		return false
	}
	i := len(s) - len(kw)
	return i == 0 || !lexical.IsIdentifierChar(s[i-1])
}

// endsWithAny reports whether s, with trailing blanks removed, ends with one
// of the given punctuation tokens.
func endsWithAny(s string, tokens ...string) bool {
	s = strings.TrimRight(s, " \t")
	for _, t := range tokens {
		if strings.HasSuffix(s, t) {
			return true
		}
	}
	return false
}

// inHeritageList reports whether before ends inside an implements or extends
// clause that continues with commas (class A implements B, C).
func inHeritageList(before string) bool {
	if !endsWithAny(before, ",") {
		return false
	}
	for _, kw := range []string{"implements", "extends"} {
		for _, i := range lexical.IdentifierIndexes(before, kw) {
			if !strings.ContainsAny(before[i:], "{(=") {
				return true
			}
		}
	}
	return false
}

// inGenericArgs reports whether before ends with a comma inside an unclosed
// type argument list (Map<string, Name>).
func inGenericArgs(before string) bool {
	if !endsWithAny(before, ",") {
		return false
	}
	depth := 0
	for i := len(before) - 1; i >= 0; i-- {
		switch before[i] {
		case '>':
			if i > 0 && before[i-1] == '=' {
				continue
			}
			depth++
		case '<':
			if depth == 0 {
				return true
			}
			depth--
		case '(', ')', '{', '}', ';':
			return false
		}
	}
	return false
}
