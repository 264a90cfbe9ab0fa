// Package detect finds declarations in source files.
//
// Every detector is a pure function over one file's lines. Detectors never
// fail: a line that does not fit a pattern simply produces nothing.
package detect

import (
	"regexp"
	"strings"

	"github.com/panbanda/husk/pkg/annotation"
	"github.com/panbanda/husk/pkg/lexical"
	"github.com/panbanda/husk/pkg/models"
)

// Func is the signature shared by every source detector.
type Func func(path string, lines []string, ann *annotation.Analyzer) []models.Declaration

// Named pairs a detector with its name for debug output and merge order.
type Named struct {
	Name string
	Fn   Func
}

// Detectors returns the source detectors in merge order. Exports come first
// so that an exported declaration keeps the export kind when another
// detector reports the same position; Deprecated comes last so it only ORs
// its flag into entries that already exist.
func Detectors() []Named {
	return []Named{
		{"exports", Exports},
		{"constants", Constants},
		{"functions", Functions},
		{"classes", Classes},
		{"consoles", Consoles},
		{"properties", Properties},
		{"definitions", Definitions},
		{"deprecated", Deprecated},
	}
}

// DetectFile runs every source detector over one file and returns the
// concatenated output in merge order.
func DetectFile(path string, lines []string, ann *annotation.Analyzer) []models.Declaration {
	if ann.ShouldIgnoreFile(lines) {
		return nil
	}
	var out []models.Declaration
	for _, d := range Detectors() {
		out = append(out, d.Fn(path, lines, ann)...)
	}
	return out
}

const identPattern = `[A-Za-z_$][\w$]*`

// emitter collects one detector's declarations for a file and applies the
// rejection rules shared by all detectors.
type emitter struct {
	path        string
	lines       []string
	ann         *annotation.Analyzer
	withContext bool
	out         []models.Declaration
}

func newEmitter(path string, lines []string, ann *annotation.Analyzer) *emitter {
	return &emitter{path: path, lines: lines, ann: ann}
}

// add records name found at byte offset pos of line idx. It reports whether
// the declaration was kept.
func (e *emitter) add(idx, pos int, name string, kind models.Kind, context string) bool {
	d, ok := e.build(idx, pos, name, kind, context)
	if ok {
		e.out = append(e.out, d)
	}
	return ok
}

func (e *emitter) build(idx, pos int, name string, kind models.Kind, context string) (models.Declaration, bool) {
	line := e.lines[idx]
	if kind != models.KindConsole && !lexical.IsValidIdentifier(name) {
		return models.Declaration{}, false
	}
	if lexical.IsInString(line, pos) {
		return models.Declaration{}, false
	}
	if e.ignored(idx) {
		return models.Declaration{}, false
	}
	return models.Declaration{
		Name: name,
		Kind: kind,
		Location: models.Location{
			File:   e.path,
			Line:   idx + 1,
			Column: pos + 1,
		},
		Context: context,
	}, true
}

func (e *emitter) ignored(idx int) bool {
	if e.withContext {
		return e.ann.ShouldIgnoreDeclarationWithContext(e.lines, idx)
	}
	return e.ann.ShouldIgnoreDeclaration(e.lines, idx)
}

// skipLine reports whether a line carries no code worth matching.
func skipLine(line string) bool {
	return strings.TrimSpace(line) == "" || lexical.IsComment(line)
}

var (
	// arrowSameLine matches the right-hand side of an assignment whose value
	// is an arrow function with its parameter list on the same line.
	arrowSameLine = regexp.MustCompile(`^\s*(?:async\s+)?(?:<[^>]*>\s*)?(?:\([^)]*\)|` + identPattern + `)\s*(?::[^=]*)?=>`)
	// arrowOpenParams matches an arrow function whose parameter list
	// continues on following lines.
	arrowOpenParams = regexp.MustCompile(`^\s*(?:async\s+)?(?:<[^>]*>\s*)?\([^)]*$`)
	// arrowCloseParams matches the line that closes such a parameter list.
	arrowCloseParams = regexp.MustCompile(`\)\s*(?::[^=]*)?=>`)
)

// arrowLookahead is how many lines a multi-line parameter list may span.
const arrowLookahead = 10

// isArrowValue reports whether rest, the text after an assignment's '=' on
// line idx, starts an arrow function.
func isArrowValue(lines []string, idx int, rest string) bool {
	if arrowSameLine.MatchString(rest) {
		return true
	}
	if !arrowOpenParams.MatchString(rest) {
		return false
	}
	for i := idx + 1; i < len(lines) && i <= idx+arrowLookahead; i++ {
		if !strings.Contains(lines[i], ")") {
			continue
		}
		return arrowCloseParams.MatchString(lines[i])
	}
	return false
}

// assignedValue returns the text after the '=' that follows a declared name
// at byte offset end, or false when the name is not directly assigned.
func assignedValue(line string, end int) (string, bool) {
	rest := strings.TrimLeft(line[end:], " \t")
	if !strings.HasPrefix(rest, "=") || strings.HasPrefix(rest, "==") || strings.HasPrefix(rest, "=>") {
		return "", false
	}
	return rest[1:], true
}

// binding is a name bound by a destructuring pattern and its byte offset
// in the pattern text.
type binding struct {
	name string
	pos  int
}

// destructuredNames returns the names bound at the top level of the object
// or array pattern that starts at s[0]. Nested patterns are skipped. For
// `key: alias` the bound name is alias.
func destructuredNames(s string) []binding {
	if s == "" || (s[0] != '{' && s[0] != '[') {
		return nil
	}
	object := s[0] == '{'
	var out []binding
	depth := 0
	start := 1
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '{', '[', '(':
			depth++
		case '}', ']', ')':
			if depth == 0 {
				if b, ok := bindingItem(s, start, i, object); ok {
					out = append(out, b)
				}
				return out
			}
			depth--
		case ',':
			if depth == 0 {
				if b, ok := bindingItem(s, start, i, object); ok {
					out = append(out, b)
				}
				start = i + 1
			}
		}
	}
	if b, ok := bindingItem(s, start, len(s), object); ok {
		out = append(out, b)
	}
	return out
}

func bindingItem(s string, from, to int, object bool) (binding, bool) {
	item := s[from:to]
	if eq := strings.IndexByte(item, '='); eq >= 0 {
		item = item[:eq]
	}
	offset := from
	if object {
		if colon := strings.IndexByte(item, ':'); colon >= 0 {
			offset += colon + 1
			item = item[colon+1:]
		}
	}
	trimmed := strings.TrimLeft(item, " \t")
	offset += len(item) - len(trimmed)
	if strings.HasPrefix(trimmed, "...") {
		trimmed = trimmed[3:]
		offset += 3
	}
	end := 0
	for end < len(trimmed) && lexical.IsIdentifierChar(trimmed[end]) {
		end++
	}
	name := trimmed[:end]
	if !lexical.IsValidIdentifier(name) {
		return binding{}, false
	}
	return binding{name: name, pos: offset}, true
}

// identifierAt returns the identifier starting at byte offset pos of s.
func identifierAt(s string, pos int) string {
	end := pos
	for end < len(s) && lexical.IsIdentifierChar(s[end]) {
		end++
	}
	return s[pos:end]
}
