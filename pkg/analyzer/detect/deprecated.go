package detect

import (
	"regexp"

	"github.com/panbanda/husk/pkg/annotation"
	"github.com/panbanda/husk/pkg/lexical"
	"github.com/panbanda/husk/pkg/models"
)

// ContextDeprecated tags declarations found by the Deprecated detector.
const ContextDeprecated = "deprecated"

var (
	deprecatedType      = regexp.MustCompile(`^\s*(?:export\s+)?(?:default\s+)?(?:declare\s+)?type\s+(` + identPattern + `)`)
	deprecatedInterface = regexp.MustCompile(`^\s*(?:export\s+)?(?:default\s+)?(?:declare\s+)?interface\s+(` + identPattern + `)`)
)

// Deprecated re-scans the lines preceded by a @deprecated marker and reports
// the declaration on each such line with IsDeprecated set. It tries, in
// order, a function, an arrow function, a class, a type, an interface, a
// constant and finally a property. Its output is merged into the other
// detectors' entries by identity key.
func Deprecated(path string, lines []string, ann *annotation.Analyzer) []models.Declaration {
	if ann.ShouldIgnoreFile(lines) {
		return nil
	}
	e := newEmitter(path, lines, ann)

	for idx, line := range lines {
		if skipLine(line) || lexical.IsImportLine(line) {
			continue
		}
		if !ann.IsDeprecated(lines, idx) {
			continue
		}
		if d, ok := deprecatedDecl(e, idx, line); ok {
			d.IsDeprecated = true
			e.out = append(e.out, d)
		}
	}
	return e.out
}

func deprecatedDecl(e *emitter, idx int, line string) (models.Declaration, bool) {
	if m := classicFunction.FindStringSubmatchIndex(line); m != nil {
		return e.build(idx, m[2], line[m[2]:m[3]], models.KindFunction, ContextDeprecated)
	}
	for _, m := range arrowBinding.FindAllStringSubmatchIndex(line, -1) {
		if m[1] < len(line) && (line[m[1]] == '=' || line[m[1]] == '>') {
			continue
		}
		if isArrowValue(e.lines, idx, line[m[1]:]) {
			return e.build(idx, m[2], line[m[2]:m[3]], models.KindFunction, ContextDeprecated)
		}
	}
	if m := classDeclaration.FindStringSubmatchIndex(line); m != nil {
		return e.build(idx, m[2], line[m[2]:m[3]], models.KindClass, ContextDeprecated)
	}
	if m := deprecatedType.FindStringSubmatchIndex(line); m != nil {
		return e.build(idx, m[2], line[m[2]:m[3]], models.KindDefinition, ContextDeprecated)
	}
	if m := deprecatedInterface.FindStringSubmatchIndex(line); m != nil {
		return e.build(idx, m[2], line[m[2]:m[3]], models.KindDefinition, ContextDeprecated)
	}
	if m := variableKeyword.FindStringIndex(line); m != nil && !lexical.IsInString(line, m[0]) {
		if name, pos, ok := deprecatedConstant(line, m[1]); ok {
			return e.build(idx, pos, name, models.KindConstant, ContextDeprecated)
		}
	}
	if m := typeBodyField.FindStringSubmatchIndex(line); m != nil {
		name := line[m[2]:m[3]]
		if name != "default" && name != "case" {
			return e.build(idx, m[2], name, models.KindProp, ContextDeprecated)
		}
	}
	return models.Declaration{}, false
}

// deprecatedConstant returns the first name bound after a const/let/var
// keyword ending at byte offset at, typed or not.
func deprecatedConstant(line string, at int) (string, int, bool) {
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
	return name, at, name != ""
}
