package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/husk/pkg/config"
	"github.com/panbanda/husk/pkg/models"
)

func sample() []models.Declaration {
	return []models.Declaration{
		{
			Name:     "helper",
			Kind:     models.KindExport,
			Location: models.Location{File: "src/a.ts", Line: 1, Column: 17},
			Context:  "exported function",
		},
		{
			Name:         "OLD",
			Kind:         models.KindConstant,
			Location:     models.Location{File: "src/a.ts", Line: 3, Column: 7},
			IsDeprecated: true,
		},
	}
}

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()
	cacheDir := filepath.Join(tmpDir, "nested", "cache")

	c, err := New(cacheDir, 24, true, "fp")
	require.NoError(t, err)
	assert.True(t, c.Enabled())
	assert.DirExists(t, cacheDir)

	c, err = New("", 0, false, "")
	require.NoError(t, err)
	assert.False(t, c.Enabled())

	var nilCache *Cache
	assert.False(t, nilCache.Enabled())
	assert.False(t, Disabled().Enabled())
}

func TestOpen(t *testing.T) {
	root := t.TempDir()
	cfg := config.DefaultConfig()

	c, err := Open(root, cfg)
	require.NoError(t, err)
	assert.True(t, c.Enabled())
	assert.DirExists(t, filepath.Join(root, ".husk", "cache"))

	abs := filepath.Join(t.TempDir(), "elsewhere")
	cfg.Cache.Dir = abs
	_, err = Open(root, cfg)
	require.NoError(t, err)
	assert.DirExists(t, abs)

	cfg.Cache.Enabled = false
	c, err = Open(root, cfg)
	require.NoError(t, err)
	assert.False(t, c.Enabled())

	missing := filepath.Join(t.TempDir(), "missing")
	_, err = Open(missing, config.DefaultConfig())
	assert.Error(t, err)
	assert.NoDirExists(t, missing)
}

func TestStoreAndLookup(t *testing.T) {
	c, err := New(t.TempDir(), 24, true, Fingerprint(true, 3))
	require.NoError(t, err)

	content := []byte("export function helper() {}")
	require.NoError(t, c.Store("src/a.ts", content, sample()))

	got, ok := c.Lookup("src/a.ts", content)
	require.True(t, ok)
	assert.Equal(t, sample(), got)

	_, ok = c.Lookup("src/a.ts", []byte("export function helper2() {}"))
	assert.False(t, ok, "changed content misses")

	_, ok = c.Lookup("src/b.ts", content)
	assert.False(t, ok, "other path misses")
}

func TestLookup_FingerprintMismatch(t *testing.T) {
	dir := t.TempDir()
	content := []byte("const a = 1;")

	c1, err := New(dir, 24, true, Fingerprint(true, 3))
	require.NoError(t, err)
	require.NoError(t, c1.Store("a.ts", content, sample()))

	c2, err := New(dir, 24, true, Fingerprint(true, 5))
	require.NoError(t, err)
	_, ok := c2.Lookup("a.ts", content)
	assert.False(t, ok)
}

func TestLookup_Expired(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir, 1, true, "fp")
	require.NoError(t, err)

	content := []byte("x")
	entry := Entry{
		Hash:        HashBytes(content),
		Fingerprint: "fp",
		Timestamp:   time.Now().Add(-2 * time.Hour),
	}
	data, err := json.Marshal(entry)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(c.keyPath("a.ts"), data, 0o600))

	_, ok := c.Lookup("a.ts", content)
	assert.False(t, ok)
	assert.NoFileExists(t, c.keyPath("a.ts"), "expired entries are removed")
}

func TestLookup_Corrupt(t *testing.T) {
	c, err := New(t.TempDir(), 24, true, "fp")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(c.keyPath("a.ts"), []byte("{not json"), 0o600))

	_, ok := c.Lookup("a.ts", []byte("x"))
	assert.False(t, ok)
}

func TestDisabledCache(t *testing.T) {
	c := Disabled()
	assert.NoError(t, c.Store("a.ts", []byte("x"), sample()))
	_, ok := c.Lookup("a.ts", []byte("x"))
	assert.False(t, ok)
	assert.NoError(t, c.Invalidate("a.ts"))
	assert.NoError(t, c.Clear())

	stats, err := c.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Entries)
}

func TestInvalidateAndStats(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c, err := New(dir, 24, true, "fp")
	require.NoError(t, err)

	require.NoError(t, c.Store("a.ts", []byte("a"), sample()))
	require.NoError(t, c.Store("b.ts", []byte("b"), nil))

	stats, err := c.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Entries)
	assert.Positive(t, stats.TotalSize)

	require.NoError(t, c.Invalidate("a.ts"))
	require.NoError(t, c.Invalidate("a.ts"), "missing entries are not an error")
	_, ok := c.Lookup("a.ts", []byte("a"))
	assert.False(t, ok)

	require.NoError(t, c.Clear())
	assert.NoDirExists(t, dir)
}

func TestHashBytes(t *testing.T) {
	assert.Equal(t, HashBytes([]byte("a")), HashBytes([]byte("a")))
	assert.NotEqual(t, HashBytes([]byte("a")), HashBytes([]byte("b")))
	assert.Len(t, HashBytes(nil), 64)
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t, Fingerprint(true, 3), Fingerprint(true, 3))
	assert.NotEqual(t, Fingerprint(true, 3), Fingerprint(false, 3))
	assert.NotEqual(t, Fingerprint(true, 3), Fingerprint(true, 4))
}
