package models

import (
	"fmt"
	"sort"
)

// Kind classifies a detected declaration.
type Kind string

const (
	KindConstant   Kind = "constant"
	KindFunction   Kind = "function"
	KindClass      Kind = "class"
	KindConsole    Kind = "console"
	KindProp       Kind = "prop"
	KindExport     Kind = "export"
	KindDependency Kind = "dependency"
	KindDefinition Kind = "definition"
)

// String returns the string representation.
func (k Kind) String() string {
	return string(k)
}

// Kinds returns every declaration kind in reporting order.
func Kinds() []Kind {
	return []Kind{
		KindFunction,
		KindClass,
		KindConstant,
		KindProp,
		KindDefinition,
		KindExport,
		KindConsole,
		KindDependency,
	}
}

// Location is a 1-based position in a file.
type Location struct {
	File   string `json:"file" toon:"file"`
	Line   int    `json:"line" toon:"line"`
	Column int    `json:"column" toon:"column"`
}

// String formats the location as file:line:column.
func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Declaration is one detected definition of a name in source or manifest.
type Declaration struct {
	Name                 string   `json:"name" toon:"name"`
	Kind                 Kind     `json:"kind" toon:"kind"`
	Location             Location `json:"location" toon:"location"`
	IsUsedLocally        bool     `json:"is_used_locally" toon:"is_used_locally"`
	IsImportedExternally bool     `json:"is_imported_externally" toon:"is_imported_externally"`
	IsDeprecated         bool     `json:"is_deprecated,omitempty" toon:"is_deprecated,omitempty"`
	Context              string   `json:"context,omitempty" toon:"context,omitempty"`
}

// Key returns the identity key file:line:column:name.
func (d *Declaration) Key() string {
	return fmt.Sprintf("%s:%d:%d:%s", d.Location.File, d.Location.Line, d.Location.Column, d.Name)
}

// IsUsed reports whether any verifier proved a usage.
func (d *Declaration) IsUsed() bool {
	return d.IsUsedLocally || d.IsImportedExternally
}

// IsDefaultExport reports whether the declaration is a default export.
func (d *Declaration) IsDefaultExport() bool {
	return d.Kind == KindExport && d.Context == ContextDefaultExport
}

// Context values shared by detectors and verifiers.
const (
	ContextDefaultExport = "default export"
	ContextNamedExport   = "named export"
	ContextDependency    = "dependency"
	ContextDevDependency = "devDependency"
)

// SortDeclarations orders declarations by file, line, column and name.
func SortDeclarations(decls []Declaration) {
	sort.Slice(decls, func(i, j int) bool {
		return less(&decls[i], &decls[j])
	})
}

func less(a, b *Declaration) bool {
	if a.Location.File != b.Location.File {
		return a.Location.File < b.Location.File
	}
	if a.Location.Line != b.Location.Line {
		return a.Location.Line < b.Location.Line
	}
	if a.Location.Column != b.Location.Column {
		return a.Location.Column < b.Location.Column
	}
	return a.Name < b.Name
}
