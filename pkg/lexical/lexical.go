// Package lexical provides the line-level string, comment and identifier
// primitives shared by detection and verification.
//
// Nothing here understands the grammar of JavaScript or TypeScript. The
// checks work on a single line of text and are tuned for conventionally
// formatted source.
package lexical

import "strings"

// IsInString reports whether pos lies inside a quoted string on line.
// Unescaped quotes of each kind before pos are counted; an odd count means
// the string is still open. A back-quoted string does not count while pos is
// inside a ${...} interpolation.
func IsInString(line string, pos int) bool {
	if pos <= 0 {
		return false
	}
	if pos > len(line) {
		pos = len(line)
	}

	var single, double, back int
	for i := 0; i < pos; i++ {
		switch line[i] {
		case '\'', '"', '`':
			if isEscaped(line, i) {
				continue
			}
			switch line[i] {
			case '\'':
				single++
			case '"':
				double++
			default:
				back++
			}
		}
	}

	if single%2 == 1 || double%2 == 1 {
		return true
	}
	if back%2 == 1 {
		return !IsInTemplateInterpolation(line, pos)
	}
	return false
}

// IsInTemplateInterpolation reports whether pos follows more ${ openers
// than } closers on line.
func IsInTemplateInterpolation(line string, pos int) bool {
	if pos > len(line) {
		pos = len(line)
	}
	prefix := line[:pos]
	opens := strings.Count(prefix, "${")
	closes := strings.Count(prefix, "}")
	return opens > closes
}

// isEscaped reports whether the byte at i is preceded by an odd number of
// backslashes.
func isEscaped(line string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && line[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

// IsComment reports whether line is (part of) a comment.
func IsComment(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	if strings.HasPrefix(trimmed, "//") ||
		strings.HasPrefix(trimmed, "/*") ||
		strings.HasPrefix(trimmed, "*/") ||
		strings.HasPrefix(trimmed, "*") {
		return true
	}
	return strings.Contains(trimmed, "/*") || strings.Contains(trimmed, "*/")
}

// CommentText returns the comment portion of line, or "" when the line
// carries no comment. Comment openers inside strings are ignored.
func CommentText(line string) string {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "*") {
		return trimmed
	}
	for i := 0; i+1 < len(line); i++ {
		if line[i] != '/' || (line[i+1] != '/' && line[i+1] != '*') {
			continue
		}
		if IsInString(line, i) {
			continue
		}
		return line[i:]
	}
	return ""
}

// IsIdentifierChar reports whether b can appear inside an identifier.
func IsIdentifierChar(b byte) bool {
	return isLetter(b) || isDigit(b) || b == '_' || b == '$'
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// IsCompleteIdentifier reports whether the occurrence of name at index in
// line is not part of a longer identifier.
func IsCompleteIdentifier(line string, index int, name string) bool {
	if index < 0 || index+len(name) > len(line) {
		return false
	}
	if index > 0 && IsIdentifierChar(line[index-1]) {
		return false
	}
	end := index + len(name)
	if end < len(line) && IsIdentifierChar(line[end]) {
		return false
	}
	return true
}

// IsValidIdentifier reports whether name is a valid identifier: a letter,
// '_' or '$' followed by letters, digits, '_' or '$'.
func IsValidIdentifier(name string) bool {
	if name == "" {
		return false
	}
	first := name[0]
	if !isLetter(first) && first != '_' && first != '$' {
		return false
	}
	for i := 1; i < len(name); i++ {
		if !IsIdentifierChar(name[i]) {
			return false
		}
	}
	return true
}

// IdentifierIndexes returns the byte offsets of every complete occurrence
// of name in line.
func IdentifierIndexes(line, name string) []int {
	if name == "" {
		return nil
	}
	var out []int
	from := 0
	for from <= len(line)-len(name) {
		i := strings.Index(line[from:], name)
		if i < 0 {
			break
		}
		idx := from + i
		if IsCompleteIdentifier(line, idx, name) {
			out = append(out, idx)
		}
		from = idx + 1
	}
	return out
}

// SplitLines splits text into lines, accepting \n and \r\n endings.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// IsImportLine reports whether line starts an import statement.
func IsImportLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "import" ||
		strings.HasPrefix(trimmed, "import ") ||
		strings.HasPrefix(trimmed, "import{") ||
		strings.HasPrefix(trimmed, "import*") ||
		strings.HasPrefix(trimmed, "import'") ||
		strings.HasPrefix(trimmed, "import\"")
}

// IsExportLine reports whether line starts with the export keyword.
func IsExportLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "export" ||
		strings.HasPrefix(trimmed, "export ") ||
		strings.HasPrefix(trimmed, "export{") ||
		strings.HasPrefix(trimmed, "export*")
}

// EnclosingBracket returns the innermost unclosed bracket ('(', '[' or '{')
// before pos on line, or 0 when there is none. Brackets inside strings are
// skipped.
func EnclosingBracket(line string, pos int) byte {
	if pos > len(line) {
		pos = len(line)
	}
	var paren, square, brace int
	for i := pos - 1; i >= 0; i-- {
		c := line[i]
		if c != '(' && c != ')' && c != '[' && c != ']' && c != '{' && c != '}' {
			continue
		}
		if IsInString(line, i) {
			continue
		}
		switch c {
		case ')':
			paren++
		case ']':
			square++
		case '}':
			brace++
		case '(':
			if paren == 0 {
				return '('
			}
			paren--
		case '[':
			if square == 0 {
				return '['
			}
			square--
		case '{':
			if brace == 0 {
				return '{'
			}
			brace--
		}
	}
	return 0
}
