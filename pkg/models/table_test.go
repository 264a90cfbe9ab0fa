package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_Merge(t *testing.T) {
	table := NewTable()

	first := decl("OLD", KindExport, "a.ts", 2, 14)
	first.Context = ContextNamedExport
	stored, inserted := table.Merge(first)
	require.True(t, inserted)
	assert.False(t, stored.IsDeprecated)

	second := decl("OLD", KindExport, "a.ts", 2, 14)
	second.Context = "other"
	second.IsDeprecated = true
	again, inserted := table.Merge(second)
	assert.False(t, inserted)
	assert.Same(t, stored, again)
	assert.True(t, again.IsDeprecated, "deprecation is OR-ed in")
	assert.Equal(t, ContextNamedExport, again.Context, "first-seen fields win")

	third := decl("OLD", KindExport, "a.ts", 2, 14)
	table.Merge(third)
	got, ok := table.Get(first.Key())
	require.True(t, ok)
	assert.True(t, got.IsDeprecated, "a later non-deprecated hit does not clear the flag")

	assert.Equal(t, 1, table.Len())
}

func TestTable_MergeDistinctKeys(t *testing.T) {
	table := NewTable()
	table.MergeAll([]Declaration{
		decl("x", KindConstant, "a.ts", 1, 7),
		decl("x", KindConstant, "a.ts", 5, 7),
		decl("x", KindConstant, "b.ts", 1, 7),
	})
	assert.Equal(t, 3, table.Len())

	_, ok := table.Get("a.ts:9:9:x")
	assert.False(t, ok)
}

func TestTable_Views(t *testing.T) {
	table := NewTable()
	table.MergeAll([]Declaration{
		decl("lodash", KindDependency, "package.json", 3, 6),
		decl("b", KindFunction, "src/a.ts", 4, 10),
		decl("a", KindFunction, "src/a.ts", 1, 10),
		decl("C", KindClass, "src/b.ts", 1, 7),
	})

	sorted := table.Sorted()
	require.Len(t, sorted, 4)
	assert.Equal(t, "lodash", sorted[0].Name)
	assert.Equal(t, "a", sorted[1].Name)

	groups := table.ByFile()
	assert.Len(t, groups, 3)
	require.Len(t, groups["src/a.ts"], 2)
	assert.Equal(t, "a", groups["src/a.ts"][0].Name)

	funcs := table.OfKind(KindFunction)
	require.Len(t, funcs, 2)
	assert.Equal(t, "b", funcs[1].Name)
	assert.Empty(t, table.OfKind(KindConsole))

	assert.Equal(t, []string{"package.json", "src/a.ts", "src/b.ts"}, table.Files())
}

func TestTable_Snapshot(t *testing.T) {
	table := NewTable()
	table.Merge(decl("a", KindFunction, "a.ts", 1, 10))

	snap := table.Snapshot()
	require.Len(t, snap, 1)
	snap[0].IsUsedLocally = true

	got, _ := table.Get(snap[0].Key())
	assert.False(t, got.IsUsedLocally, "snapshot is a copy")
}
