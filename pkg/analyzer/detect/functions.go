package detect

import (
	"regexp"

	"github.com/panbanda/husk/pkg/annotation"
	"github.com/panbanda/husk/pkg/lexical"
	"github.com/panbanda/husk/pkg/models"
)

var (
	classicFunction = regexp.MustCompile(`\b(?:async\s+)?function\b\s*\*?\s*(` + identPattern + `)\s*[<(]`)
	arrowBinding    = regexp.MustCompile(`\b(?:const|let|var)\s+(` + identPattern + `)\s*(?::[^=]+)?=`)
)

// Functions reports function declarations and arrow functions bound to a
// const, let or var. Ignore markers are honoured within the configured
// context window.
func Functions(path string, lines []string, ann *annotation.Analyzer) []models.Declaration {
	if ann.ShouldIgnoreFile(lines) {
		return nil
	}
	e := newEmitter(path, lines, ann)
	e.withContext = true

	for idx, line := range lines {
		if skipLine(line) || lexical.IsImportLine(line) || lexical.IsExportLine(line) {
			continue
		}
		for _, m := range classicFunction.FindAllStringSubmatchIndex(line, -1) {
			e.add(idx, m[2], line[m[2]:m[3]], models.KindFunction, "function")
		}
		for _, m := range arrowBinding.FindAllStringSubmatchIndex(line, -1) {
			if m[1] < len(line) && (line[m[1]] == '=' || line[m[1]] == '>') {
				continue
			}
			if isArrowValue(lines, idx, line[m[1]:]) {
				e.add(idx, m[2], line[m[2]:m[3]], models.KindFunction, "arrow function")
			}
		}
	}
	return e.out
}
