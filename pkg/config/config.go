package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for husk.
type Config struct {
	// Analysis settings
	Analysis AnalysisConfig `koanf:"analysis" toml:"analysis" yaml:"analysis"`

	// File exclusion
	Exclude ExcludeConfig `koanf:"exclude" toml:"exclude" yaml:"exclude"`

	// Suppression markers
	Annotations AnnotationConfig `koanf:"annotations" toml:"annotations" yaml:"annotations"`

	// Detection cache
	Cache CacheConfig `koanf:"cache" toml:"cache" yaml:"cache"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output" yaml:"output"`

	// Debug enables the detection and verification debug streams.
	Debug bool `koanf:"debug" toml:"debug" yaml:"debug"`
}

// AnalysisConfig controls which files are analyzed.
type AnalysisConfig struct {
	Extensions []string `koanf:"extensions" toml:"extensions" yaml:"extensions"`
	Manifest   string   `koanf:"manifest" toml:"manifest" yaml:"manifest"`
}

// ExcludeConfig defines file exclusion rules.
type ExcludeConfig struct {
	Dirs      []string `koanf:"dirs" toml:"dirs" yaml:"dirs"`
	Patterns  []string `koanf:"patterns" toml:"patterns" yaml:"patterns"`
	Gitignore bool     `koanf:"gitignore" toml:"gitignore" yaml:"gitignore"`
}

// AnnotationConfig controls the ignore markers.
type AnnotationConfig struct {
	Enabled      bool `koanf:"enabled" toml:"enabled" yaml:"enabled"`
	ContextLines int  `koanf:"context_lines" toml:"context_lines" yaml:"context_lines"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" toml:"enabled" yaml:"enabled"`
	Dir     string `koanf:"dir" toml:"dir" yaml:"dir"`
	TTL     int    `koanf:"ttl" toml:"ttl" yaml:"ttl"` // TTL in hours
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format string `koanf:"format" toml:"format" yaml:"format"` // text, json, markdown, toon
	Color  bool   `koanf:"color" toml:"color" yaml:"color"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Extensions: []string{
				".js",
				".jsx",
				".ts",
				".tsx",
				".mjs",
				".cjs",
				".vue",
				".svelte",
			},
			Manifest: "package.json",
		},
		Exclude: ExcludeConfig{
			Dirs: []string{
				".git",
				"node_modules",
				"dist",
				"build",
				".next",
				".nuxt",
				"coverage",
				"out",
				".husk",
			},
			Patterns: []string{
				"*.min.js",
				"*.d.ts",
			},
			Gitignore: true,
		},
		Annotations: AnnotationConfig{
			Enabled:      true,
			ContextLines: 3,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".husk/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
	}
}

// Load loads configuration from a file on top of the defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// FileNames are the config file names searched by LoadOrDefault.
var FileNames = []string{
	"husk.toml",
	"husk.yaml",
	"husk.yml",
	"husk.json",
	".husk.toml",
	".husk.yaml",
	".husk.yml",
	".husk.json",
}

// Find returns the first config file under dir or dir/.husk, or "".
func Find(dir string) string {
	for _, base := range []string{dir, filepath.Join(dir, ".husk")} {
		for _, name := range FileNames {
			path := filepath.Join(base, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// LoadOrDefault loads the first config found under dir, falling back to the
// defaults when none exists. A config file that fails to load is an error.
func LoadOrDefault(dir string) (*Config, error) {
	path := Find(dir)
	if path == "" {
		return DefaultConfig(), nil
	}
	return Load(path)
}

// Validate checks option ranges.
func (c *Config) Validate() error {
	if len(c.Analysis.Extensions) == 0 {
		return fmt.Errorf("analysis.extensions must not be empty")
	}
	for _, ext := range c.Analysis.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with '.'", ext)
		}
	}
	if c.Annotations.ContextLines < 0 {
		return fmt.Errorf("annotations.context_lines must be >= 0 (got %d)", c.Annotations.ContextLines)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must be >= 0 (got %d)", c.Cache.TTL)
	}
	return nil
}

// HasExtension reports whether path has one of the configured extensions.
func (c *Config) HasExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range c.Analysis.Extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

// IsIgnoredDir reports whether a directory name is excluded.
func (c *Config) IsIgnoredDir(name string) bool {
	for _, dir := range c.Exclude.Dirs {
		if name == dir {
			return true
		}
	}
	return false
}

// ShouldExclude checks if a path should be excluded from analysis by
// directory name or base-name pattern.
func (c *Config) ShouldExclude(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(filepath.Dir(path)), "/") {
		if c.IsIgnoredDir(part) {
			return true
		}
	}

	base := filepath.Base(path)
	for _, pattern := range c.Exclude.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}
