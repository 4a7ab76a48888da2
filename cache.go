package tieredkv

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/tieredkv/tieredkv/disk"
	"github.com/tieredkv/tieredkv/memory"
)

// Cache is the unified two-tier facade: a memory.Cache in front of a
// disk.Cache. All methods are safe for concurrent use by multiple
// goroutines.
type Cache struct {
	name string
	root string
	mem  *memory.Cache[string, []byte]
	disk *disk.Cache
	exec Executor
}

// ByName constructs a Cache rooted under the per-user caches directory
// joined with name. name must be non-empty and must not contain a path
// separator. Returns an error on invalid input or engine-init failure.
func ByName(name string, opts ...Option) (*Cache, error) {
	if name == "" || name != filepath.Base(name) {
		return nil, errors.New("tieredkv: invalid cache name")
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return nil, err
	}
	return newCache(name, filepath.Join(base, name), opts)
}

// ByPath constructs a Cache rooted at the given absolute or relative
// path. The cache's Name is the path's last segment.
func ByPath(path string, opts ...Option) (*Cache, error) {
	if path == "" {
		return nil, errors.New("tieredkv: empty root path")
	}
	return newCache(filepath.Base(path), path, opts)
}

func newCache(name, root string, opts []Option) (*Cache, error) {
	cfg := newConfig(opts)

	diskCache, err := disk.New(root, cfg.diskOpts...)
	if err != nil {
		return nil, err
	}

	c := &Cache{
		name: name,
		root: root,
		mem:  memory.New[string, []byte](cfg.memoryConfig),
		disk: diskCache,
		exec: cfg.executor,
	}
	return c, nil
}

// Name returns the cache's name (its root path's last segment).
func (c *Cache) Name() string { return c.name }

// MemoryCache exposes the memory tier for direct configuration and
// inspection (count_limit, cost_limit, trims, and so on).
func (c *Cache) MemoryCache() *memory.Cache[string, []byte] { return c.mem }

// DiskCache exposes the disk tier for direct configuration and
// inspection (inline_threshold, trims, and so on).
func (c *Cache) DiskCache() *disk.Cache { return c.disk }

// Contains reports whether key is present in either tier.
func (c *Cache) Contains(key string) bool {
	if c.mem.Contains(key) {
		return true
	}
	return c.disk.Contains(key)
}

// Get probes the memory tier first; on miss it probes the disk tier
// and, on a disk hit, promotes the value into memory before returning.
func (c *Cache) Get(key string) ([]byte, bool) {
	if v, ok := c.mem.Get(key); ok {
		return v, true
	}
	v, ok := c.disk.Get(key)
	if !ok {
		return nil, false
	}
	c.mem.Set(key, v.Payload, uint64(len(v.Payload)))
	return v.Payload, true
}

// Set writes value to the memory tier, then the disk tier.
func (c *Cache) Set(key string, value []byte) bool {
	c.mem.Set(key, value, uint64(len(value)))
	return c.disk.Set(key, &disk.Value{Payload: value})
}

// Remove removes key from the memory tier, then the disk tier.
func (c *Cache) Remove(key string) {
	c.mem.Remove(key)
	c.disk.Remove(key)
}

// RemoveAll clears both tiers.
func (c *Cache) RemoveAll() {
	c.mem.RemoveAll()
	c.disk.RemoveAll()
}

// Close tears down both tiers.
func (c *Cache) Close() error {
	c.mem.Close()
	return c.disk.Close()
}
