package disk

import (
	"fmt"
	"sync"
	"time"

	"github.com/tieredkv/tieredkv/diskkv"
	"github.com/tieredkv/tieredkv/internal/util"
)

const (
	// thresholdAllExternal selects StorageFile: every value is stored
	// externally regardless of size.
	thresholdAllExternal = 0
)

// Cache is a thin, serialising wrapper over a diskkv.Engine. It holds
// a mutex around every engine call (the spec's "binary semaphore") and
// exposes a byte-level, opaque-payload cache surface.
type Cache struct {
	mu     sync.Mutex
	engine *diskkv.Engine

	// inlineThreshold: values whose length is <= threshold are stored
	// inline; larger values are stored externally under a filename
	// derived from the key by a deterministic hash.
	inlineThreshold int

	// clock overrides the engine's wall-clock-seconds source. Nil means
	// the engine's own default (time.Now().Unix()).
	clock func() int64
}

// Option configures a Cache at New time.
type Option func(*Cache)

// WithInlineThreshold sets the inline/external size boundary. Values of
// length <= threshold are stored inline; larger ones externally. It
// also selects the underlying engine's storage type: 0 or any negative
// value => every value external (StorageFile), math.MaxInt => every
// value inline (StorageSQLite), anything else => StorageMixed. Defaults to a threshold that maps to StorageMixed.
func WithInlineThreshold(threshold int) Option {
	return func(c *Cache) { c.inlineThreshold = threshold }
}

// WithClock overrides the wall-clock-seconds source used for
// modification/access timestamps and TrimToAge's cutoff. Defaults to
// time.Now().Unix(). Useful for deterministic tests.
func WithClock(fn func() int64) Option {
	return func(c *Cache) { c.clock = fn }
}

// storageTypeFor maps an inline threshold to the diskkv storage type
// that must be configured on the engine to honor it.
func storageTypeFor(threshold int) diskkv.StorageType {
	switch {
	case threshold <= thresholdAllExternal:
		return diskkv.StorageFile
	case threshold == maxThreshold:
		return diskkv.StorageSQLite
	default:
		return diskkv.StorageMixed
	}
}

const maxThreshold = int(^uint(0) >> 1) // math.MaxInt without importing math for one constant

// New constructs a disk Cache rooted at root, opening (or creating) its
// diskkv.Engine. The inline threshold defaults to 4096 bytes.
func New(root string, opts ...Option) (*Cache, error) {
	c := &Cache{inlineThreshold: 4096}
	for _, opt := range opts {
		opt(c)
	}

	engineOpts := []diskkv.Option{diskkv.WithStorageType(storageTypeFor(c.inlineThreshold))}
	if c.clock != nil {
		engineOpts = append(engineOpts, diskkv.WithClock(c.clock))
	}
	engine, err := diskkv.Open(root, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("disk: open engine: %w", err)
	}
	c.engine = engine
	return c, nil
}

// filenameFor derives a deterministic external filename from key.
func filenameFor(key string) string {
	return fmt.Sprintf("%016x.bin", util.Fnv64a(key))
}

// Contains reports whether key is present, without loading its value.
func (c *Cache) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.engine.GetInfo(key)
	return ok
}

// Get returns key's value and extended data, or (nil, false) on miss.
func (c *Cache) Get(key string) (*Value, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	it, ok := c.engine.Get(key)
	if !ok {
		return nil, false
	}
	return &Value{Payload: it.Value, Extended: it.ExtendedData}, true
}

// Set stores value under key, choosing inline or external storage
// based on value.Payload's length relative to InlineThreshold.
func (c *Cache) Set(key string, value *Value) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	filename := ""
	if len(value.Payload) > c.inlineThreshold {
		filename = filenameFor(key)
	}
	return c.engine.Save(key, value.Payload, filename, value.Extended)
}

// Remove deletes key. Idempotent.
func (c *Cache) Remove(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.Remove(key)
}

// RemoveAll clears the cache.
func (c *Cache) RemoveAll() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.RemoveAll()
}

// RemoveAllWithProgress clears the cache, reporting progress.
func (c *Cache) RemoveAllWithProgress(progress func(done, total int), end func(canceled bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.engine.RemoveAllWithProgress(progress, end)
}

// Count returns the number of resident items.
func (c *Cache) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, _ := c.engine.Count()
	return n
}

// Size returns the total byte size of resident items.
func (c *Cache) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, _ := c.engine.TotalSize()
	return n
}

// TrimToCount evicts LRU items until at most n remain.
func (c *Cache) TrimToCount(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.RemoveItemsToFitCount(n)
}

// TrimToSize evicts LRU items until the total size is at most max.
func (c *Cache) TrimToSize(max int64) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.RemoveItemsToFitSize(max)
}

// TrimToAge evicts items whose last access is older than age, matching
// the access-time ordering TrimToCount and TrimToSize already use (and
// the memory tier's access-time-based AgeLimit).
func (c *Cache) TrimToAge(age time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	cutoff := c.engine.Now() - int64(age.Seconds())
	return c.engine.RemoveItemsNotAccessedSince(cutoff)
}

// InlineThreshold returns the configured inline/external boundary.
func (c *Cache) InlineThreshold() int { return c.inlineThreshold }

// Close releases the underlying engine's resources.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.Close()
}
