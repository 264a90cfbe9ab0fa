package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func decl(name string, kind Kind, file string, line, col int) Declaration {
	return Declaration{Name: name, Kind: kind, Location: Location{File: file, Line: line, Column: col}}
}

func TestDeclaration_Key(t *testing.T) {
	d := decl("helper", KindFunction, "src/a.ts", 3, 10)
	assert.Equal(t, "src/a.ts:3:10:helper", d.Key())
	assert.Equal(t, "src/a.ts:3:10", d.Location.String())
}

func TestDeclaration_IsUsed(t *testing.T) {
	tests := []struct {
		name     string
		local    bool
		external bool
		want     bool
	}{
		{"unused", false, false, false},
		{"local", true, false, true},
		{"external", false, true, true},
		{"both", true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Declaration{IsUsedLocally: tt.local, IsImportedExternally: tt.external}
			assert.Equal(t, tt.want, d.IsUsed())
		})
	}
}

func TestDeclaration_IsDefaultExport(t *testing.T) {
	d := decl("App", KindExport, "a.ts", 1, 1)
	d.Context = ContextDefaultExport
	assert.True(t, d.IsDefaultExport())

	d.Context = ContextNamedExport
	assert.False(t, d.IsDefaultExport())

	d.Kind = KindFunction
	d.Context = ContextDefaultExport
	assert.False(t, d.IsDefaultExport())
}

func TestKinds(t *testing.T) {
	kinds := Kinds()
	assert.Len(t, kinds, 8)
	assert.Equal(t, KindFunction, kinds[0])
	assert.Equal(t, KindDependency, kinds[len(kinds)-1])
	assert.Equal(t, "prop", KindProp.String())
}

func TestSortDeclarations(t *testing.T) {
	decls := []Declaration{
		decl("b", KindFunction, "b.ts", 1, 1),
		decl("z", KindFunction, "a.ts", 2, 1),
		decl("y", KindFunction, "a.ts", 1, 5),
		decl("x", KindConstant, "a.ts", 1, 5),
		decl("w", KindFunction, "a.ts", 1, 2),
	}
	SortDeclarations(decls)

	names := make([]string, len(decls))
	for i, d := range decls {
		names[i] = d.Name
	}
	assert.Equal(t, []string{"w", "x", "y", "z", "b"}, names)
}
