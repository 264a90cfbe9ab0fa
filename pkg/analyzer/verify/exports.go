package verify

import (
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/panbanda/husk/pkg/lexical"
	"github.com/panbanda/husk/pkg/models"
)

// statement is an import or export statement joined onto one line.
type statement struct {
	line int
	text string
}

var (
	statementFrom  = regexp.MustCompile(`\bfrom\s*['"]([^'"]+)['"]`)
	braceList      = regexp.MustCompile(`\{([^}]*)\}`)
	namespaceStar  = regexp.MustCompile(`^\s*(?:import\s+(?:type\s+)?(?:[\w$]+\s*,\s*)?\*\s*as\s+[\w$]+|export\s*\*)`)
	declarationKey = []string{"const", "let", "var", "function", "function*", "class", "type", "interface", "enum"}
)

// importRef is what one statement imports from one module specifier.
type importRef struct {
	spec  string
	names []string
	// all is set for namespace imports and export * re-exports.
	all bool
}

// Imports parses the file's import statements and re-exports.
func (f *File) Imports() []importRef {
	var out []importRef
	for _, st := range f.statements {
		if !f.IsImport(st.line) {
			continue
		}
		m := statementFrom.FindStringSubmatch(st.text)
		if m == nil {
			continue
		}
		ref := importRef{spec: m[1], all: namespaceStar.MatchString(st.text)}
		if b := braceList.FindStringSubmatch(st.text); b != nil {
			ref.names = importedNames(b[1])
		}
		out = append(out, ref)
	}
	return out
}

// importedNames returns the exported names of a brace list, resolving
// "a as b" to a and dropping inline type modifiers.
func importedNames(list string) []string {
	var names []string
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		item = strings.TrimPrefix(item, "type ")
		if i := strings.Index(item, " as "); i >= 0 {
			item = item[:i]
		}
		item = strings.TrimSpace(item)
		if lexical.IsValidIdentifier(item) {
			names = append(names, item)
		}
	}
	return names
}

// Exports verifies export declarations in two phases. The local phase marks
// exports referenced in their own file outside the export statement and
// imports, and marks default exports as both local and imported. The
// external phase resolves every relative import of every other file and
// marks the exports it names. Locals published through an export list
// inherit the external import of their list entry.
func Exports(files map[string]*File, table *models.Table, extensions []string) {
	exports := table.OfKind(models.KindExport)
	ExportsLocal(files, exports)
	ExportsExternal(files, exports, extensions)
	propagateListExports(table, exports)
}

// ExportsLocal runs the local-usage phase.
func ExportsLocal(files map[string]*File, exports []*models.Declaration) {
	for _, d := range exports {
		if d.IsDefaultExport() {
			d.IsUsedLocally = true
			d.IsImportedExternally = true
			continue
		}
		if d.IsUsedLocally {
			continue
		}
		f := files[d.Location.File]
		if f == nil {
			continue
		}
		q := usageQuery{name: d.Name, decl: d, skipLine: d.Location.Line}
		if d.Context == models.ContextNamedExport {
			q.accept = func(code string, pos int) bool {
				return !isDeclarationSite(code[:pos])
			}
		}
		if f.hasUsage(q) {
			d.IsUsedLocally = true
		}
	}
}

// isDeclarationSite reports whether the text before an occurrence makes it
// the name being declared, as in "const name" or "class name".
func isDeclarationSite(before string) bool {
	for _, kw := range declarationKey {
		if endsWithKeyword(before, kw) {
			return true
		}
	}
	return false
}

// ExportsExternal runs the import-resolution phase. It checks every export
// not yet imported, including locally used ones, so that local-only exports
// can be told apart.
func ExportsExternal(files map[string]*File, exports []*models.Declaration, extensions []string) {
	byModule := make(map[string][]*models.Declaration)
	for _, d := range exports {
		if d.IsImportedExternally {
			continue
		}
		key := stripExtension(filepath.ToSlash(d.Location.File), extensions)
		byModule[key] = append(byModule[key], d)
	}
	if len(byModule) == 0 {
		return
	}

	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		importer := filepath.ToSlash(p)
		for _, ref := range files[p].Imports() {
			if !isRelative(ref.spec) {
				continue
			}
			target := path.Join(path.Dir(importer), ref.spec)
			for _, key := range moduleKeys(target, extensions) {
				for _, d := range byModule[key] {
					if filepath.ToSlash(d.Location.File) == importer {
						continue
					}
					if ref.all || slices.Contains(ref.names, d.Name) {
						d.IsImportedExternally = true
					}
				}
			}
		}
	}
}

// propagateListExports marks the local declarations named by an imported
// export list entry as imported.
func propagateListExports(table *models.Table, exports []*models.Declaration) {
	imported := make(map[string]bool)
	for _, d := range exports {
		if d.Context == models.ContextNamedExport && d.IsImportedExternally {
			imported[d.Location.File+"\x00"+d.Name] = true
		}
	}
	if len(imported) == 0 {
		return
	}
	for _, d := range table.Sorted() {
		switch d.Kind {
		case models.KindConstant, models.KindFunction, models.KindClass, models.KindDefinition:
			if imported[d.Location.File+"\x00"+d.Name] {
				d.IsImportedExternally = true
			}
		}
	}
}

func isRelative(spec string) bool {
	return spec == "." || spec == ".." || strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../")
}

// moduleKeys returns the extension-less module paths an import target may
// refer to: the file itself and the directory index.
func moduleKeys(target string, extensions []string) []string {
	stripped := stripExtension(target, extensions)
	return []string{stripped, stripped + "/index"}
}

// stripExtension removes a trailing source extension from p.
func stripExtension(p string, extensions []string) string {
	ext := path.Ext(p)
	if ext == "" {
		return p
	}
	for _, e := range extensions {
		if strings.EqualFold(e, ext) {
			return strings.TrimSuffix(p, ext)
		}
	}
	return p
}
