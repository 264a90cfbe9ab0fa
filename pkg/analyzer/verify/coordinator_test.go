package verify

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/husk/internal/logging"
	"github.com/panbanda/husk/pkg/analyzer"
	"github.com/panbanda/husk/pkg/analyzer/detect"
	"github.com/panbanda/husk/pkg/config"
	"github.com/panbanda/husk/pkg/models"
)

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func detectProject(t *testing.T, root string) *detect.Result {
	t.Helper()
	res, err := detect.New(config.DefaultConfig()).Detect(context.Background(), root)
	require.NoError(t, err)
	return res
}

func TestCoordinator_Verify(t *testing.T) {
	root := writeProject(t, map[string]string{
		"package.json": `{"dependencies": {"react": "^18.0.0", "lodash": "^4.0.0"}}`,
		"src/math.ts": `export function add(a: number, b: number) { return a + b; }
export function unusedExport() {}
function divide(a, b) { return a / b; }
export const LOCAL_ONLY = 1;
console.log(LOCAL_ONLY);
`,
		"src/app.ts": `import React from 'react';
import { add } from './math';
const msg = "call divide() now";
add(1, 2);
`,
	})
	res := detectProject(t, root)

	var buf bytes.Buffer
	c := New(config.DefaultConfig(), WithLogger(logging.NewWithWriter(&buf, true)))
	stats, err := c.Verify(context.Background(), res.Table, res.Files)
	require.NoError(t, err)

	assert.Equal(t, Stats{Total: 8, Used: 3, Unused: 5}, stats)

	status := make(map[string]*models.Declaration)
	for _, d := range res.Table.Sorted() {
		status[d.Name] = d
	}
	assert.True(t, status["add"].IsImportedExternally)
	assert.False(t, status["unusedExport"].IsUsed())
	assert.False(t, status["divide"].IsUsed())
	assert.True(t, models.IsLocalOnlyExport(status["LOCAL_ONLY"]))
	assert.False(t, status["console.log"].IsUsed())
	assert.False(t, status["msg"].IsUsed())
	assert.True(t, status["react"].IsUsed())
	assert.False(t, status["lodash"].IsUsed())

	out := buf.String()
	assert.Contains(t, out, "[verification] total 8, used 3, unused 5")
	assert.Contains(t, out, "function divide at ")
	assert.Contains(t, out, ": unused")
}

func TestCoordinator_Monotonic(t *testing.T) {
	root := writeProject(t, map[string]string{
		"a.ts": "export function helper() {}\nconst x = 1;\nconsole.log(x);\n",
		"b.ts": "import { helper } from './a';\nhelper();\n",
	})
	res := detectProject(t, root)
	c := New(config.DefaultConfig())

	first, err := c.Verify(context.Background(), res.Table, res.Files)
	require.NoError(t, err)
	snapshot := res.Table.Snapshot()

	second, err := c.Verify(context.Background(), res.Table, res.Files)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, res.Table.Snapshot())
}

func TestCoordinator_UnreadableFile(t *testing.T) {
	root := writeProject(t, map[string]string{
		"a.ts": "function lonely() {}\n",
	})
	res := detectProject(t, root)

	var buf bytes.Buffer
	c := New(config.DefaultConfig(), WithLogger(logging.NewWithWriter(&buf, false)))
	missing := filepath.Join(root, "gone.ts")
	stats, err := c.Verify(context.Background(), res.Table, append(res.Files, missing))
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Unused)
	assert.Contains(t, buf.String(), "gone.ts")
}

func TestCoordinator_Progress(t *testing.T) {
	root := writeProject(t, map[string]string{
		"package.json": `{"dependencies": {"react": "^18.0.0"}}`,
		"a.ts":         "const a = 1;\n",
	})
	res := detectProject(t, root)

	tracker := analyzer.NewTracker(nil)
	ctx := analyzer.WithTracker(context.Background(), tracker)
	_, err := New(config.DefaultConfig()).Verify(ctx, res.Table, res.Files)
	require.NoError(t, err)

	assert.Equal(t, analyzer.PhaseVerification, tracker.Phase())
	// reads of a.ts and package.json, then one verification pass per file
	// with declarations
	assert.Equal(t, 4, tracker.Total())
	assert.Equal(t, tracker.Total(), tracker.Current())
}

func TestCoordinator_ProgressFilesWithoutDeclarations(t *testing.T) {
	root := writeProject(t, map[string]string{
		"a.ts":     "const a = 1;
",
		"empty.ts": "a;
",
	})
	res := detectProject(t, root)

	var mu sync.Mutex
	overflow := false
	tracker := analyzer.NewTracker(func(_ analyzer.Phase, current, total int, _ string) {
		mu.Lock()
		defer mu.Unlock()
		overflow = overflow || current > total
	})
	ctx := analyzer.WithTracker(context.Background(), tracker)
	_, err := New(config.DefaultConfig()).Verify(ctx, res.Table, res.Files)
	require.NoError(t, err)

	assert.Equal(t, 3, tracker.Total())
	assert.Equal(t, 3, tracker.Current())
	assert.False(t, overflow, "a tick reported more files than the phase total")
}

func TestCoordinator_Cancelled(t *testing.T) {
	root := writeProject(t, map[string]string{"a.ts": "const a = 1;\n"})
	res := detectProject(t, root)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(config.DefaultConfig()).Verify(ctx, res.Table, res.Files)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUnionPaths(t *testing.T) {
	got := unionPaths([]string{"b", "a"}, []string{"c", "a"})
	assert.Equal(t, []string{"a", "b", "c"}, got)
}
