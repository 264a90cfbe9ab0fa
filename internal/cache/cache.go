// Package cache persists per-file detection results between runs. An entry
// is reused only while the file's content hash and the detection settings
// fingerprint are unchanged.
package cache

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"

	"github.com/panbanda/husk/pkg/config"
	"github.com/panbanda/husk/pkg/models"
)

// formatVersion is bumped whenever detector output changes shape or meaning.
const formatVersion = "1"

// Cache provides file-based caching for detection results.
// It is safe for concurrent use as long as callers use distinct paths.
type Cache struct {
	dir         string
	ttl         time.Duration
	enabled     bool
	fingerprint string
}

// Entry represents a cached detection result for one file.
type Entry struct {
	Hash         string               `json:"hash"`
	Fingerprint  string               `json:"fingerprint"`
	Timestamp    time.Time            `json:"timestamp"`
	Declarations []models.Declaration `json:"declarations"`
}

// New creates a new cache instance. fingerprint identifies the settings that
// influence detection; see Fingerprint.
func New(dir string, ttlHours int, enabled bool, fingerprint string) (*Cache, error) {
	if !enabled {
		return &Cache{enabled: false}, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir %s: %w", dir, err)
	}

	return &Cache{
		dir:         dir,
		ttl:         time.Duration(ttlHours) * time.Hour,
		enabled:     true,
		fingerprint: fingerprint,
	}, nil
}

// Open creates the cache described by cfg for the project at root. A
// relative cache directory is resolved against root, which must exist.
func Open(root string, cfg *config.Config) (*Cache, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	dir := cfg.Cache.Dir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}
	return New(dir, cfg.Cache.TTL, cfg.Cache.Enabled,
		Fingerprint(cfg.Annotations.Enabled, cfg.Annotations.ContextLines))
}

// Disabled returns a cache that never hits and never writes.
func Disabled() *Cache {
	return &Cache{enabled: false}
}

// Enabled reports whether the cache reads and writes entries.
func (c *Cache) Enabled() bool {
	return c != nil && c.enabled
}

// Dir returns the entry directory, or "" when disabled.
func (c *Cache) Dir() string {
	if !c.Enabled() {
		return ""
	}
	return c.dir
}

// Fingerprint hashes the detection settings into a short key component.
func Fingerprint(annotationsEnabled bool, contextLines int) string {
	d := xxhash.New()
	_, _ = d.WriteString(formatVersion)
	_, _ = d.WriteString("|")
	_, _ = d.WriteString(strconv.FormatBool(annotationsEnabled))
	_, _ = d.WriteString("|")
	_, _ = d.WriteString(strconv.Itoa(contextLines))
	return strconv.FormatUint(d.Sum64(), 16)
}

// HashBytes computes a BLAKE3 hash of bytes and returns it as a hex string.
func HashBytes(data []byte) string {
	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Lookup returns the cached declarations for path when the entry exists, is
// not expired, and was stored for the same content and settings.
func (c *Cache) Lookup(path string, content []byte) ([]models.Declaration, bool) {
	if !c.Enabled() {
		return nil, false
	}

	entryPath := c.keyPath(path)
	data, err := os.ReadFile(entryPath)
	if err != nil {
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}

	if entry.Fingerprint != c.fingerprint || entry.Hash != HashBytes(content) {
		return nil, false
	}

	if c.ttl > 0 && time.Since(entry.Timestamp) > c.ttl {
		_ = os.Remove(entryPath)
		return nil, false
	}

	return entry.Declarations, true
}

// Store saves the declarations detected in path.
func (c *Cache) Store(path string, content []byte, decls []models.Declaration) error {
	if !c.Enabled() {
		return nil
	}

	entry := Entry{
		Hash:         HashBytes(content),
		Fingerprint:  c.fingerprint,
		Timestamp:    time.Now(),
		Declarations: decls,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry for %s: %w", path, err)
	}

	return os.WriteFile(c.keyPath(path), data, 0o600)
}

// Invalidate removes the entry for path.
func (c *Cache) Invalidate(path string) error {
	if !c.Enabled() {
		return nil
	}
	err := os.Remove(c.keyPath(path))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Clear removes all cache entries.
func (c *Cache) Clear() error {
	if !c.Enabled() {
		return nil
	}
	return os.RemoveAll(c.dir)
}

// keyPath converts a file path to an entry path.
func (c *Cache) keyPath(path string) string {
	hash := blake3.Sum256([]byte(path))
	return filepath.Join(c.dir, hex.EncodeToString(hash[:16])+".json")
}

// Stats returns cache statistics.
type Stats struct {
	Entries   int   `json:"entries"`
	TotalSize int64 `json:"total_size"`
}

// GetStats returns statistics about the cache.
func (c *Cache) GetStats() (*Stats, error) {
	if !c.Enabled() {
		return &Stats{}, nil
	}

	stats := &Stats{}
	err := filepath.Walk(c.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		stats.Entries++
		stats.TotalSize += info.Size()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}
