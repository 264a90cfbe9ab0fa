package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultTable() *Table {
	used := decl("used", KindFunction, "a.ts", 1, 10)
	used.IsUsedLocally = true

	dead := decl("dead", KindFunction, "a.ts", 5, 10)

	localOnly := decl("LIMIT", KindExport, "a.ts", 8, 14)
	localOnly.Context = ContextNamedExport
	localOnly.IsUsedLocally = true

	deflt := decl("App", KindExport, "b.ts", 1, 16)
	deflt.Context = ContextDefaultExport
	deflt.IsUsedLocally = true

	old := decl("OLD", KindConstant, "b.ts", 3, 7)
	old.IsDeprecated = true
	old.IsImportedExternally = true

	dep := decl("lodash", KindDependency, "package.json", 3, 6)

	table := NewTable()
	table.MergeAll([]Declaration{used, dead, localOnly, deflt, old, dep})
	return table
}

func TestNewAnalysisResult(t *testing.T) {
	res := NewAnalysisResult(resultTable(), 1500*time.Millisecond)

	assert.Equal(t, 6, res.Summary.TotalDeclarations)
	assert.Equal(t, 4, res.Summary.Used)
	assert.Equal(t, 2, res.Summary.Unused)
	assert.Equal(t, 1, res.Summary.Deprecated)
	assert.Equal(t, 1, res.Summary.LocalOnlyExports)
	assert.Equal(t, int64(1500), res.DurationMillis)

	require.Len(t, res.DeadCode, 2)
	assert.Equal(t, "dead", res.DeadCode[0].Name)
	assert.Equal(t, "lodash", res.DeadCode[1].Name)
	assert.Equal(t, map[Kind]int{KindFunction: 1, KindDependency: 1}, res.Summary.DeadByKind)
	assert.Equal(t, map[string]int{"a.ts": 1, "package.json": 1}, res.Summary.DeadByFile)

	require.Len(t, res.Deprecated, 1)
	assert.Equal(t, "OLD", res.Deprecated[0].Name)

	require.Len(t, res.LocalOnlyExports, 1)
	assert.Equal(t, "LIMIT", res.LocalOnlyExports[0].Name)

	assert.True(t, res.HasDeadCode())
	assert.Len(t, res.DeadCodeOfKind(KindDependency), 1)
	assert.Empty(t, res.DeadCodeOfKind(KindClass))
}

func TestNewAnalysisResult_Empty(t *testing.T) {
	res := NewAnalysisResult(NewTable(), 0)
	assert.False(t, res.HasDeadCode())
	assert.NotNil(t, res.DeadCode)
	assert.Zero(t, res.Summary.TotalDeclarations)
}

func TestIsLocalOnlyExport(t *testing.T) {
	d := decl("x", KindExport, "a.ts", 1, 14)
	d.IsUsedLocally = true
	assert.True(t, IsLocalOnlyExport(&d))

	d.IsImportedExternally = true
	assert.False(t, IsLocalOnlyExport(&d))

	d.IsImportedExternally = false
	d.Context = ContextDefaultExport
	assert.False(t, IsLocalOnlyExport(&d))

	d.Context = ""
	d.Kind = KindFunction
	assert.False(t, IsLocalOnlyExport(&d))
}

func TestAnalysisResult_MarshalJSON(t *testing.T) {
	res := NewAnalysisResult(resultTable(), time.Second)

	raw, err := json.Marshal(res)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))
	for _, key := range []string{"declarations", "dead_code", "deprecated", "local_only_exports", "summary", "duration_ms"} {
		assert.Contains(t, decoded, key)
	}

	var all []Declaration
	require.NoError(t, json.Unmarshal(decoded["declarations"], &all))
	assert.Len(t, all, 6)
}
