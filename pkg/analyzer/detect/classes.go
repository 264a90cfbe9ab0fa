package detect

import (
	"regexp"

	"github.com/panbanda/husk/pkg/annotation"
	"github.com/panbanda/husk/pkg/lexical"
	"github.com/panbanda/husk/pkg/models"
)

var classDeclaration = regexp.MustCompile(`\bclass\s+(` + identPattern + `)`)

// Classes reports class declarations anywhere on a code line, including
// exported and class-expression forms.
func Classes(path string, lines []string, ann *annotation.Analyzer) []models.Declaration {
	if ann.ShouldIgnoreFile(lines) {
		return nil
	}
	e := newEmitter(path, lines, ann)

	for idx, line := range lines {
		if skipLine(line) || lexical.IsImportLine(line) {
			continue
		}
		for _, m := range classDeclaration.FindAllStringSubmatchIndex(line, -1) {
			name := line[m[2]:m[3]]
			if name == "extends" || name == "implements" {
				continue
			}
			e.add(idx, m[2], name, models.KindClass, "class")
		}
	}
	return e.out
}

var consoleCall = regexp.MustCompile(`\bconsole\.(log|warn|error|info|debug|table|trace|dir|dirxml|groupCollapsed|groupEnd|group|timeEnd|timeLog|time|countReset|count|assert|clear|profileEnd|profile)\s*\(`)

// Consoles reports calls to console diagnostic methods. The declaration name
// and context are both console.<method>.
func Consoles(path string, lines []string, ann *annotation.Analyzer) []models.Declaration {
	if ann.ShouldIgnoreFile(lines) {
		return nil
	}
	e := newEmitter(path, lines, ann)

	for idx, line := range lines {
		if skipLine(line) || lexical.IsImportLine(line) {
			continue
		}
		for _, m := range consoleCall.FindAllStringSubmatchIndex(line, -1) {
			name := "console." + line[m[2]:m[3]]
			e.add(idx, m[0], name, models.KindConsole, name)
		}
	}
	return e.out
}

var typeDefinition = regexp.MustCompile(`^\s*(?:export\s+)?(?:default\s+)?(?:declare\s+)?(type|interface)\s+(` + identPattern + `)`)

// Definitions reports type aliases and interfaces declared at the start of a
// line, exported or not.
func Definitions(path string, lines []string, ann *annotation.Analyzer) []models.Declaration {
	if ann.ShouldIgnoreFile(lines) {
		return nil
	}
	e := newEmitter(path, lines, ann)

	for idx, line := range lines {
		if skipLine(line) {
			continue
		}
		m := typeDefinition.FindStringSubmatchIndex(line)
		if m == nil {
			continue
		}
		e.add(idx, m[4], line[m[4]:m[5]], models.KindDefinition, line[m[2]:m[3]])
	}
	return e.out
}
