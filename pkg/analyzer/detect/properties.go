package detect

import (
	"regexp"
	"strings"

	"github.com/panbanda/husk/pkg/annotation"
	"github.com/panbanda/husk/pkg/lexical"
	"github.com/panbanda/husk/pkg/models"
)

// Property contexts.
const (
	ContextTypeField     = "type field"
	ContextTypedConstant = "typed constant"
	ContextObjectField   = "object field"
	ContextInlineField   = "inline field"
)

var (
	typeBodyField = regexp.MustCompile(`^\s*(?:readonly\s+)?(` + identPattern + `)\??\s*:`)
	typedConstant = regexp.MustCompile(`^\s*(?:const|let|var)\s+(` + identPattern + `)\s*:\s*[^=]+=`)
	objectField   = regexp.MustCompile(`^\s*(` + identPattern + `)\s*:\s*\S`)
	inlineField   = regexp.MustCompile(`[{,]\s*(` + identPattern + `)\s*:`)

	typeHeader        = regexp.MustCompile(`^\s*(?:export\s+)?(?:default\s+)?(?:declare\s+)?(?:type\s+` + identPattern + `[^=]*=|interface\s+` + identPattern + `)`)
	topLevelDecl      = regexp.MustCompile(`^\s*(?:export\s+)?(?:default\s+)?(?:async\s+)?(?:const|let|var|function|class|import)\b`)
	destructuringDecl = regexp.MustCompile(`\b(?:const|let|var)\s*[{\[]`)
)

// typeHeaderLookback is how far above a field its type or interface header
// may be.
const typeHeaderLookback = 20

// Properties reports typed and object fields. Each line yields at most one
// property; the patterns are tried in this order and the first hit wins:
// a field inside a type or interface body, a typed constant, an object
// literal field at the start of a line, and an inline field after '{' or ','.
func Properties(path string, lines []string, ann *annotation.Analyzer) []models.Declaration {
	if ann.ShouldIgnoreFile(lines) {
		return nil
	}
	e := newEmitter(path, lines, ann)

	for idx, line := range lines {
		if skipLine(line) || lexical.IsImportLine(line) || lexical.IsExportLine(line) {
			continue
		}

		if m := typeBodyField.FindStringSubmatchIndex(line); m != nil && insideTypeBody(lines, idx) {
			e.add(idx, m[2], line[m[2]:m[3]], models.KindProp, ContextTypeField)
			continue
		}

		if m := typedConstant.FindStringSubmatchIndex(line); m != nil {
			if !isArrowValue(lines, idx, line[m[1]:]) {
				e.add(idx, m[2], line[m[2]:m[3]], models.KindProp, ContextTypedConstant)
			}
			continue
		}

		if m := objectField.FindStringSubmatchIndex(line); m != nil {
			name := line[m[2]:m[3]]
			if name != "default" && name != "case" {
				e.add(idx, m[2], name, models.KindProp, ContextObjectField)
				continue
			}
		}

		if destructuringDecl.MatchString(line) {
			continue
		}
		for _, m := range inlineField.FindAllStringSubmatchIndex(line, -1) {
			if lexical.IsInString(line, m[0]) || lexical.EnclosingBracket(line, m[2]) != '{' {
				continue
			}
			e.add(idx, m[2], line[m[2]:m[3]], models.KindProp, ContextInlineField)
			break
		}
	}
	return e.out
}

// insideTypeBody scans upward for a type or interface header, giving up at a
// closing brace or at another top-level declaration.
func insideTypeBody(lines []string, idx int) bool {
	for i := idx - 1; i >= 0 && i >= idx-typeHeaderLookback; i-- {
		line := lines[i]
		if typeHeader.MatchString(line) {
			return true
		}
		if containsCode(line, '}') || topLevelDecl.MatchString(line) {
			return false
		}
	}
	return false
}

// containsCode reports whether c occurs in line outside strings and
// comments.
func containsCode(line string, c byte) bool {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "/*") || strings.HasPrefix(trimmed, "*") {
		return false
	}
	for i := 0; i < len(line); i++ {
		if lexical.IsInString(line, i) {
			continue
		}
		if strings.HasPrefix(line[i:], "//") {
			return false
		}
		if line[i] == c {
			return true
		}
	}
	return false
}
