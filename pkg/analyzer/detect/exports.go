package detect

import (
	"regexp"
	"strings"

	"github.com/panbanda/husk/pkg/annotation"
	"github.com/panbanda/husk/pkg/lexical"
	"github.com/panbanda/husk/pkg/models"
)

var (
	exportDefault     = regexp.MustCompile(`^\s*export\s+default\b\s*`)
	defaultFunction   = regexp.MustCompile(`^(?:async\s+)?function\b\s*\*?\s*(` + identPattern + `)`)
	defaultClass      = regexp.MustCompile(`^(?:abstract\s+)?class\s+(` + identPattern + `)`)
	defaultIdentifier = regexp.MustCompile(`^(` + identPattern + `)\s*;?\s*$`)

	exportList      = regexp.MustCompile(`^\s*export\s*(?:type\s+)?\{`)
	exportStar      = regexp.MustCompile(`^\s*export\s*\*`)
	exportClass     = regexp.MustCompile(`^\s*export\s+(?:declare\s+)?(?:abstract\s+)?class\s+(` + identPattern + `)`)
	exportFunction  = regexp.MustCompile(`^\s*export\s+(?:declare\s+)?(?:async\s+)?function\b\s*\*?\s*(` + identPattern + `)`)
	exportVariable  = regexp.MustCompile(`^\s*export\s+(?:declare\s+)?(const|let|var)\s+`)
	exportTypeAlias = regexp.MustCompile(`^\s*export\s+(?:declare\s+)?type\s+(` + identPattern + `)`)
	exportInterface = regexp.MustCompile(`^\s*export\s+(?:declare\s+)?interface\s+(` + identPattern + `)`)
	exportEnum      = regexp.MustCompile(`^\s*export\s+(?:declare\s+)?(?:const\s+)?enum\s+(` + identPattern + `)`)

	fromClause = regexp.MustCompile(`^\s*from\s*['"]`)
)

// exportListLookahead bounds how many lines a multi-line export list may span.
const exportListLookahead = 50

// Exports reports what a module exports. Only lines starting with the export
// keyword are examined. Named lists report the local name of each entry
// (`a as b` reports a); lists re-exported from another module and
// `export *` produce nothing.
func Exports(path string, lines []string, ann *annotation.Analyzer) []models.Declaration {
	if ann.ShouldIgnoreFile(lines) {
		return nil
	}
	e := newEmitter(path, lines, ann)

	for idx, line := range lines {
		if skipLine(line) || !lexical.IsExportLine(line) {
			continue
		}

		if m := exportDefault.FindStringIndex(line); m != nil {
			exportDefaultDecl(e, idx, line, m[1])
			continue
		}
		if exportList.MatchString(line) {
			exportListDecls(e, idx)
			continue
		}
		if exportStar.MatchString(line) {
			continue
		}
		if m := exportClass.FindStringSubmatchIndex(line); m != nil {
			e.add(idx, m[2], line[m[2]:m[3]], models.KindExport, "exported class")
			continue
		}
		if m := exportFunction.FindStringSubmatchIndex(line); m != nil {
			e.add(idx, m[2], line[m[2]:m[3]], models.KindExport, "exported function")
			continue
		}
		if m := exportEnum.FindStringSubmatchIndex(line); m != nil {
			e.add(idx, m[2], line[m[2]:m[3]], models.KindExport, "exported enum")
			continue
		}
		if m := exportVariable.FindStringSubmatchIndex(line); m != nil {
			context := "exported " + line[m[2]:m[3]]
			at := m[1]
			if at < len(line) && (line[at] == '{' || line[at] == '[') {
				for _, b := range destructuredNames(line[at:]) {
					e.add(idx, at+b.pos, b.name, models.KindExport, context)
				}
				continue
			}
			e.add(idx, at, identifierAt(line, at), models.KindExport, context)
			continue
		}
		if m := exportTypeAlias.FindStringSubmatchIndex(line); m != nil {
			e.add(idx, m[2], line[m[2]:m[3]], models.KindExport, "exported type")
			continue
		}
		if m := exportInterface.FindStringSubmatchIndex(line); m != nil {
			e.add(idx, m[2], line[m[2]:m[3]], models.KindExport, "exported interface")
		}
	}
	return e.out
}

// exportDefaultDecl records a default export. A named function, class or
// identifier reports that name; anything else is recorded as "default" at
// the position of the default keyword.
func exportDefaultDecl(e *emitter, idx int, line string, at int) {
	rest := line[at:]
	for _, re := range []*regexp.Regexp{defaultFunction, defaultClass, defaultIdentifier} {
		if m := re.FindStringSubmatchIndex(rest); m != nil {
			name := rest[m[2]:m[3]]
			if name != "function" && name != "class" && name != "async" {
				e.add(idx, at+m[2], name, models.KindExport, models.ContextDefaultExport)
				return
			}
		}
	}
	pos := strings.Index(line, "default")
	e.add(idx, pos, "default", models.KindExport, models.ContextDefaultExport)
}

// listEntry is one identifier inside an export list.
type listEntry struct {
	idx  int
	pos  int
	name string
}

// exportListDecls records the entries of the export list opening on line
// idx, which may continue over following lines. Nothing is recorded when
// the list is re-exported from another module.
func exportListDecls(e *emitter, idx int) {
	var entries []listEntry
	closed := false
	afterClose := ""

	for i := idx; i < len(e.lines) && i <= idx+exportListLookahead && !closed; i++ {
		line := e.lines[i]
		if i != idx && skipLine(line) {
			continue
		}
		start := 0
		if i == idx {
			start = strings.IndexByte(line, '{') + 1
		}
		end := len(line)
		if c := strings.IndexByte(line[start:], '}'); c >= 0 {
			end = start + c
			closed = true
			afterClose = line[end+1:]
		}
		entries = append(entries, listEntries(i, line, start, end)...)
	}

	if fromClause.MatchString(afterClose) {
		return
	}
	for _, en := range entries {
		e.add(en.idx, en.pos, en.name, models.KindExport, models.ContextNamedExport)
	}
}

// listEntries splits line[start:end] on commas and returns the local name of
// each entry.
func listEntries(idx int, line string, start, end int) []listEntry {
	var out []listEntry
	from := start
	for from <= end {
		to := strings.IndexByte(line[from:end], ',')
		if to < 0 {
			to = end
		} else {
			to += from
		}
		if en, ok := listEntryAt(idx, line, from, to); ok {
			out = append(out, en)
		}
		from = to + 1
	}
	return out
}

func listEntryAt(idx int, line string, from, to int) (listEntry, bool) {
	item := line[from:to]
	trimmed := strings.TrimLeft(item, " \t")
	pos := from + len(item) - len(trimmed)
	if rest, ok := strings.CutPrefix(trimmed, "type "); ok {
		stripped := strings.TrimLeft(rest, " \t")
		pos += len(trimmed) - len(stripped)
		trimmed = stripped
	}
	name := identifierAt(trimmed, 0)
	if name == "" || name == "default" {
		return listEntry{}, false
	}
	return listEntry{idx: idx, pos: pos, name: name}, true
}
