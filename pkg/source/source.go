// Package source reads file content for the analysis phases.
package source

import (
	"fmt"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ContentSource provides file content.
type ContentSource interface {
	// Read returns the content of the file at path.
	Read(path string) ([]byte, error)
}

// FilesystemSource reads files from the local filesystem.
type FilesystemSource struct{}

// NewFilesystem creates a source that reads from the filesystem.
func NewFilesystem() *FilesystemSource {
	return &FilesystemSource{}
}

// Read implements ContentSource.
func (f *FilesystemSource) Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// DefaultCacheSize is the number of files a CachedSource keeps.
const DefaultCacheSize = 4096

// CachedSource keeps recently read files so that verification does not read
// every file a second time after detection. Failed reads are not cached.
// It is safe for concurrent use.
type CachedSource struct {
	inner ContentSource
	cache *lru.Cache[string, []byte]
}

// NewCached wraps inner with an LRU cache of size entries.
// A size <= 0 uses DefaultCacheSize.
func NewCached(inner ContentSource, size int) (*CachedSource, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("create source cache: %w", err)
	}
	return &CachedSource{inner: inner, cache: cache}, nil
}

// Read implements ContentSource.
func (c *CachedSource) Read(path string) ([]byte, error) {
	if content, ok := c.cache.Get(path); ok {
		return content, nil
	}
	content, err := c.inner.Read(path)
	if err != nil {
		return nil, err
	}
	c.cache.Add(path, content)
	return content, nil
}

// Forget drops path from the cache. Watch mode calls it for changed files.
func (c *CachedSource) Forget(path string) {
	c.cache.Remove(path)
}

// Purge empties the cache.
func (c *CachedSource) Purge() {
	c.cache.Purge()
}

// Len returns the number of cached files.
func (c *CachedSource) Len() int {
	return c.cache.Len()
}
