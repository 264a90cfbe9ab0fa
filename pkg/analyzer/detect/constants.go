package detect

import (
	"regexp"

	"github.com/panbanda/husk/pkg/annotation"
	"github.com/panbanda/husk/pkg/lexical"
	"github.com/panbanda/husk/pkg/models"
)

var variableKeyword = regexp.MustCompile(`\b(?:const|let|var)\s+`)

// Constants reports const, let and var bindings. A destructuring pattern
// reports only its first bound name. Bindings with a type annotation are left
// to Properties and arrow-function bindings to Functions.
func Constants(path string, lines []string, ann *annotation.Analyzer) []models.Declaration {
	if ann.ShouldIgnoreFile(lines) {
		return nil
	}
	e := newEmitter(path, lines, ann)

	for idx, line := range lines {
		if skipLine(line) || lexical.IsImportLine(line) || lexical.IsExportLine(line) {
			continue
		}
		for _, m := range variableKeyword.FindAllStringIndex(line, -1) {
			if lexical.IsInString(line, m[0]) {
				continue
			}
			if name, pos, ok := constantBinding(lines, idx, m[1]); ok {
				e.add(idx, pos, name, models.KindConstant, "")
			}
		}
	}
	return e.out
}

// constantBinding inspects the text at byte offset at of lines[idx], just
// after a const/let/var keyword, and returns the binding a constant
// declaration should report.
func constantBinding(lines []string, idx, at int) (string, int, bool) {
	line := lines[idx]
	if at >= len(line) {
		return "", 0, false
	}
	if line[at] == '{' || line[at] == '[' {
		names := destructuredNames(line[at:])
		if len(names) == 0 {
			return "", 0, false
		}
		return names[0].name, at + names[0].pos, true
	}

	name := identifierAt(line, at)
	if !lexical.IsValidIdentifier(name) {
		return "", 0, false
	}
	end := at + len(name)
	if isTypeAnnotated(line, end) {
		return "", 0, false
	}
	if rest, ok := assignedValue(line, end); ok && isArrowValue(lines, idx, rest) {
		return "", 0, false
	}
	return name, at, true
}

// isTypeAnnotated reports whether a ':' follows the name ending at end.
func isTypeAnnotated(line string, end int) bool {
	for i := end; i < len(line); i++ {
		switch line[i] {
		case ' ', '\t':
			continue
		case ':':
			return true
		default:
			return false
		}
	}
	return false
}
