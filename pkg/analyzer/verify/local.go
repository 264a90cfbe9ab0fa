package verify

import (
	"strings"

	"github.com/panbanda/husk/pkg/lexical"
	"github.com/panbanda/husk/pkg/models"
)

// FileVerifier marks the declarations of one file that are used inside it.
// decls holds only declarations located in f.
type FileVerifier func(f *File, decls []*models.Declaration)

// FileVerifiers returns the single-file verifiers in run order.
func FileVerifiers() []FileVerifier {
	return []FileVerifier{
		Functions,
		Constants,
		Classes,
		Definitions,
		Properties,
		Consoles,
	}
}

func pending(decls []*models.Declaration, kind models.Kind) []*models.Declaration {
	var out []*models.Declaration
	for _, d := range decls {
		if d.Kind == kind && !d.IsUsed() {
			out = append(out, d)
		}
	}
	return out
}

// Functions marks functions referenced anywhere else in their file.
func Functions(f *File, decls []*models.Declaration) {
	for _, d := range pending(decls, models.KindFunction) {
		if f.hasUsage(usageQuery{name: d.Name, decl: d}) {
			d.IsUsedLocally = true
		}
	}
}

// Constants marks constants and variables referenced anywhere else in their
// file.
func Constants(f *File, decls []*models.Declaration) {
	for _, d := range pending(decls, models.KindConstant) {
		if f.hasUsage(usageQuery{name: d.Name, decl: d}) {
			d.IsUsedLocally = true
		}
	}
}

// Classes marks classes that are instantiated, extended, implemented, tested
// with instanceof, accessed statically, or named in a type, generic or
// argument position.
func Classes(f *File, decls []*models.Declaration) {
	for _, d := range pending(decls, models.KindClass) {
		name := d.Name
		q := usageQuery{name: name, decl: d, accept: func(code string, pos int) bool {
			return isClassUsage(code, pos, name)
		}}
		if f.hasUsage(q) {
			d.IsUsedLocally = true
		}
	}
}

func isClassUsage(code string, pos int, name string) bool {
	before := code[:pos]
	after := code[pos+len(name):]
	switch {
	case endsWithKeyword(before, "new"),
		endsWithKeyword(before, "extends"),
		endsWithKeyword(before, "implements"),
		endsWithKeyword(before, "instanceof"):
		return true
	case strings.HasPrefix(after, "."):
		return true
	case endsWithAny(before, "<", ":", "("):
		return true
	case inHeritageList(before):
		return true
	case endsWithAny(before, ",") && lexical.EnclosingBracket(code, pos) == '(':
		return true
	}
	return false
}

// Definitions marks types and interfaces named in a type position.
func Definitions(f *File, decls []*models.Declaration) {
	for _, d := range pending(decls, models.KindDefinition) {
		q := usageQuery{name: d.Name, decl: d, accept: isTypeUsage}
		if f.hasUsage(q) {
			d.IsUsedLocally = true
		}
	}
}

var typeKeywords = []string{
	"extends", "implements", "as", "is", "keyof", "typeof", "satisfies",
}

func isTypeUsage(code string, pos int) bool {
	before := code[:pos]
	if endsWithAny(before, ":", "<", "|", "&", "=") {
		return true
	}
	for _, kw := range typeKeywords {
		if endsWithKeyword(before, kw) {
			return true
		}
	}
	return inHeritageList(before) || inGenericArgs(before)
}

// Properties marks typed properties and object fields referenced anywhere
// else in their file, including member access and template interpolation.
func Properties(f *File, decls []*models.Declaration) {
	for _, d := range pending(decls, models.KindProp) {
		if f.hasUsage(usageQuery{name: d.Name, decl: d, memberAccess: true}) {
			d.IsUsedLocally = true
		}
	}
}

// Consoles never proves usage: console calls are always reported.
func Consoles(_ *File, decls []*models.Declaration) {
	for _, d := range decls {
		if d.Kind == models.KindConsole {
			d.IsUsedLocally = false
			d.IsImportedExternally = false
		}
	}
}
