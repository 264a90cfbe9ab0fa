package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}
	if !cfg.Annotations.Enabled {
		t.Error("Annotations.Enabled should be true by default")
	}
	if cfg.Annotations.ContextLines != 3 {
		t.Errorf("Annotations.ContextLines = %d, want 3", cfg.Annotations.ContextLines)
	}
	if cfg.Analysis.Manifest != "package.json" {
		t.Errorf("Analysis.Manifest = %s, want package.json", cfg.Analysis.Manifest)
	}
	if cfg.Debug {
		t.Error("Debug should be false by default")
	}
	assert.Contains(t, cfg.Exclude.Dirs, "node_modules")
	assert.Contains(t, cfg.Exclude.Dirs, ".git")
	assert.Contains(t, cfg.Analysis.Extensions, ".tsx")
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "toml",
			file: "husk.toml",
			content: `debug = true
[analysis]
extensions = [".ts"]
[annotations]
context_lines = 5
`,
		},
		{
			name: "yaml",
			file: "husk.yaml",
			content: `debug: true
analysis:
  extensions: [".ts"]
annotations:
  context_lines: 5
`,
		},
		{
			name:    "json",
			file:    "husk.json",
			content: `{"debug": true, "analysis": {"extensions": [".ts"]}, "annotations": {"context_lines": 5}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			cfg, err := Load(path)
			require.NoError(t, err)

			assert.True(t, cfg.Debug)
			assert.Equal(t, []string{".ts"}, cfg.Analysis.Extensions)
			assert.Equal(t, 5, cfg.Annotations.ContextLines)
			// untouched keys keep their defaults
			assert.True(t, cfg.Annotations.Enabled)
			assert.Equal(t, "package.json", cfg.Analysis.Manifest)
		})
	}
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()

	missing := filepath.Join(dir, "missing.toml")
	_, err := Load(missing)
	assert.Error(t, err)

	bad := filepath.Join(dir, "husk.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[annotations]\ncontext_lines = -1\n"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)
}

func TestLoadOrDefault(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadOrDefault(dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".husk"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".husk", "husk.yml"), []byte("debug: true\n"), 0o644))

	assert.Equal(t, filepath.Join(dir, ".husk", "husk.yml"), Find(dir))
	cfg, err = LoadOrDefault(dir)
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
}

func TestHasExtension(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.HasExtension("src/App.tsx"))
	assert.True(t, cfg.HasExtension("src/App.VUE"))
	assert.False(t, cfg.HasExtension("src/main.go"))
	assert.False(t, cfg.HasExtension("README"))
}

func TestShouldExclude(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		path string
		want bool
	}{
		{"src/index.ts", false},
		{"node_modules/react/index.js", true},
		{"packages/ui/dist/index.js", true},
		{"src/vendor.min.js", true},
		{"src/types.d.ts", true},
		{"src/distance.ts", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cfg.ShouldExclude(tt.path), tt.path)
	}
}
