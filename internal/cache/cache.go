// Package cache stores compiled WASM clients keyed by a digest of their
// sources so unchanged clients are not rebuilt.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Cache is an on-disk artifact store with least-recently-used eviction
type Cache struct {
	mu      sync.Mutex
	dir     string
	index   *Index
	maxSize int64
	maxAge  time.Duration
	stats   Stats
}

// Index tracks all cached artifacts
type Index struct {
	Version string            `json:"version"`
	Entries map[string]*Entry `json:"entries"`
	Updated time.Time         `json:"updated"`
}

// Entry is a single cached artifact
type Entry struct {
	Key        string    `json:"key"`
	Hash       string    `json:"hash"`
	File       string    `json:"file"`
	Size       int64     `json:"size"`
	Created    time.Time `json:"created"`
	LastAccess time.Time `json:"last_access"`
}

// Stats reports cache effectiveness
type Stats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
	TotalSize int64 `json:"total_size"`
	Entries   int   `json:"entries"`
}

// Config holds cache configuration
type Config struct {
	Dir     string        // Cache directory (default: $HOME/.cache/skinview)
	MaxSize int64         // Maximum total size in bytes, 0 for no limit
	MaxAge  time.Duration // Maximum entry age, 0 for no expiry
}

const indexVersion = "1"

// DefaultConfig returns the default cache configuration
func DefaultConfig() Config {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return Config{
		Dir:     filepath.Join(dir, "skinview"),
		MaxSize: 256 << 20,
		MaxAge:  7 * 24 * time.Hour,
	}
}

// New opens the cache in config.Dir, creating it if needed. A missing or
// corrupt index starts the cache empty.
func New(config Config) (*Cache, error) {
	if config.Dir == "" {
		config = DefaultConfig()
	}
	if err := os.MkdirAll(filepath.Join(config.Dir, "artifacts"), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	c := &Cache{
		dir:     config.Dir,
		maxSize: config.MaxSize,
		maxAge:  config.MaxAge,
		index:   newIndex(),
	}
	if err := c.loadIndex(); err != nil {
		c.index = newIndex()
	}
	c.pruneExpired()
	return c, nil
}

func newIndex() *Index {
	return &Index{
		Version: indexVersion,
		Entries: make(map[string]*Entry),
		Updated: time.Now(),
	}
}

// Get returns the artifact stored under key
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.index.Entries[key]
	if !ok || c.isExpired(entry) {
		if ok {
			c.removeEntry(key, entry)
			c.saveIndex()
		}
		c.stats.Misses++
		return nil, false
	}

	data, err := os.ReadFile(c.path(entry))
	if err != nil || digest(data) != entry.Hash {
		// Artifact vanished or was modified behind our back
		c.removeEntry(key, entry)
		c.saveIndex()
		c.stats.Misses++
		return nil, false
	}

	entry.LastAccess = time.Now()
	c.stats.Hits++
	c.saveIndex()
	return data, true
}

// Put stores data under key, evicting old artifacts to stay within MaxSize
func (c *Cache) Put(key string, data []byte) error {
	hash := digest(data)
	size := int64(len(data))

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.index.Entries[key]; ok {
		if existing.Hash == hash {
			existing.LastAccess = time.Now()
			return c.saveIndex()
		}
		c.removeEntry(key, existing)
	}
	if c.maxSize > 0 && size > c.maxSize {
		return fmt.Errorf("artifact of %d bytes exceeds cache limit of %d", size, c.maxSize)
	}
	c.evictFor(size)

	entry := &Entry{
		Key:        key,
		Hash:       hash,
		File:       sanitizeKey(key) + "_" + hash[:8],
		Size:       size,
		Created:    time.Now(),
		LastAccess: time.Now(),
	}
	if err := os.WriteFile(c.path(entry), data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	c.index.Entries[key] = entry
	c.stats.TotalSize += size
	c.stats.Entries = len(c.index.Entries)
	return c.saveIndex()
}

// Delete removes key from the cache
func (c *Cache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.index.Entries[key]
	if !ok {
		return nil
	}
	c.removeEntry(key, entry)
	return c.saveIndex()
}

// Clear removes every artifact
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	artifacts := filepath.Join(c.dir, "artifacts")
	if err := os.RemoveAll(artifacts); err != nil {
		return fmt.Errorf("failed to clear artifacts: %w", err)
	}
	if err := os.MkdirAll(artifacts, 0755); err != nil {
		return err
	}
	c.index = newIndex()
	c.stats = Stats{}
	return c.saveIndex()
}

// Stats returns a snapshot of cache statistics
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Key derives a cache key from arbitrary inputs
func Key(inputs ...string) string {
	h := sha256.New()
	for _, input := range inputs {
		fmt.Fprintf(h, "%d:%s", len(input), input)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// SourceKey derives a cache key from every Go source under the given roots
// plus go.mod and go.sum in the working directory. Extra inputs such as the
// toolchain version are mixed in.
func SourceKey(roots []string, extra ...string) (string, error) {
	var files []string
	for _, name := range []string{"go.mod", "go.sum"} {
		if _, err := os.Stat(name); err == nil {
			files = append(files, name)
		}
	}
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				name := d.Name()
				if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor") {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasSuffix(path, ".go") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return "", fmt.Errorf("failed to walk %s: %w", root, err)
		}
	}
	sort.Strings(files)

	inputs := append([]string{}, extra...)
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", file, err)
		}
		inputs = append(inputs, file, string(data))
	}
	return Key(inputs...), nil
}

func (c *Cache) path(e *Entry) string {
	return filepath.Join(c.dir, "artifacts", e.File)
}

func (c *Cache) loadIndex() error {
	data, err := os.ReadFile(filepath.Join(c.dir, "index.json"))
	if err != nil {
		return err
	}
	var index Index
	if err := json.Unmarshal(data, &index); err != nil {
		return err
	}
	if index.Version != indexVersion || index.Entries == nil {
		return fmt.Errorf("unsupported cache index version %q", index.Version)
	}

	c.index = &index
	for _, entry := range index.Entries {
		c.stats.TotalSize += entry.Size
	}
	c.stats.Entries = len(index.Entries)
	return nil
}

// saveIndex writes the index; the caller holds c.mu
func (c *Cache) saveIndex() error {
	c.index.Updated = time.Now()
	data, err := json.MarshalIndent(c.index, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, "index.json"), data, 0644)
}

func (c *Cache) isExpired(e *Entry) bool {
	return c.maxAge > 0 && time.Since(e.Created) > c.maxAge
}

func (c *Cache) pruneExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	pruned := false
	for key, entry := range c.index.Entries {
		if c.isExpired(entry) {
			c.removeEntry(key, entry)
			pruned = true
		}
	}
	if pruned {
		c.saveIndex()
	}
}

// evictFor drops least recently used entries until needed bytes fit
func (c *Cache) evictFor(needed int64) {
	if c.maxSize <= 0 {
		return
	}
	for c.stats.TotalSize+needed > c.maxSize && len(c.index.Entries) > 0 {
		var oldestKey string
		var oldest *Entry
		for key, entry := range c.index.Entries {
			if oldest == nil || entry.LastAccess.Before(oldest.LastAccess) {
				oldestKey, oldest = key, entry
			}
		}
		c.removeEntry(oldestKey, oldest)
		c.stats.Evictions++
	}
}

func (c *Cache) removeEntry(key string, e *Entry) {
	if err := os.Remove(c.path(e)); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: failed to remove cache file %s: %v\n", e.File, err)
	}
	delete(c.index.Entries, key)
	c.stats.TotalSize -= e.Size
	c.stats.Entries = len(c.index.Entries)
}

func digest(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

func sanitizeKey(key string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, key)
	if len(sanitized) > 64 {
		sanitized = sanitized[:64]
	}
	return sanitized
}
