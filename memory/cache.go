package memory

import (
	"io"
	"log/slog"
	"sync"
	"time"
)

// Destroyable may be implemented by cached values that own a resource
// needing explicit release (a native handle, a pooled buffer). Values
// that don't implement it are simply dropped on eviction; Go's garbage
// collector reclaims their memory.
type Destroyable interface{ Destroy() }

// Cache is a thread-safe, bounded in-process LRU cache keyed by K,
// holding values of type V. All methods are safe for concurrent use by
// multiple goroutines. See the package doc for the trimming and
// destruction model.
type Cache[K comparable, V any] struct {
	mu sync.Mutex
	lm *linkedMap[K, V]

	countLimit int
	costLimit  uint64
	ageLimit   time.Duration

	clock      Clock
	metrics    Metrics
	destructor DestructionExecutor
	log        *slog.Logger

	stopAutoTrim chan struct{}
	stopped      bool

	unsubMemory func()
	unsubBg     func()
}

// New constructs a Cache with the given Config. The background auto-trim
// worker and any injected platform-signal subscriptions start
// immediately; call Close to stop them.
func New[K comparable, V any](cfg Config) *Cache[K, V] {
	clock := cfg.Clock
	if clock == nil {
		clock = realClock{}
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	destructor := cfg.DestructionExecutor
	if destructor == nil {
		destructor = BackgroundExecutor{Logger: log}
	}

	c := &Cache[K, V]{
		lm:           newLinkedMap[K, V](),
		countLimit:   cfg.CountLimit,
		costLimit:    cfg.CostLimit,
		ageLimit:     cfg.AgeLimit,
		clock:        clock,
		metrics:      metrics,
		destructor:   destructor,
		log:          log,
		stopAutoTrim: make(chan struct{}),
	}

	interval := cfg.AutoTrimInterval
	switch {
	case interval == 0:
		interval = 5 * time.Second
		go c.autoTrimLoop(interval)
	case interval > 0:
		go c.autoTrimLoop(interval)
	default:
		// negative disables the background trimmer
	}

	if cfg.MemorySource != nil {
		clear := boolDefault(cfg.ClearOnMemoryWarning, true)
		c.unsubMemory = cfg.MemorySource.Subscribe(func() {
			c.log.Debug("memory: memory warning received", "will_clear", clear)
			if cfg.OnMemoryWarning != nil {
				cfg.OnMemoryWarning()
			}
			if clear {
				c.RemoveAll()
			}
		})
	}
	if cfg.BackgroundSignal != nil {
		clear := boolDefault(cfg.ClearOnBackground, true)
		c.unsubBg = cfg.BackgroundSignal.Subscribe(func() {
			c.log.Debug("memory: background signal received", "will_clear", clear)
			if cfg.OnBackground != nil {
				cfg.OnBackground()
			}
			if clear {
				c.RemoveAll()
			}
		})
	}

	return c
}

// Contains reports whether key is resident, without affecting its
// recency.
func (c *Cache[K, V]) Contains(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.lm.m[key]
	return ok
}

// Get returns the value stored for key and promotes it to MRU on hit.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	n, ok := c.lm.m[key]
	if !ok {
		c.mu.Unlock()
		c.metrics.Miss()
		var zero V
		return zero, false
	}
	n.accessTime = c.clock.NowUnixNano()
	c.lm.moveToFront(n)
	v := n.val
	c.mu.Unlock()
	c.metrics.Hit()
	return v, true
}

// Set inserts or replaces key's value and cost, and promotes it to MRU.
// If the resulting total cost exceeds CostLimit, an asynchronous cost
// trim is scheduled. If the resulting count exceeds CountLimit, the new
// tail is evicted immediately, in-line.
func (c *Cache[K, V]) Set(key K, value V, cost uint64) {
	c.mu.Lock()
	now := c.clock.NowUnixNano()

	if n, ok := c.lm.m[key]; ok {
		if n.cost > c.lm.totalCost {
			c.lm.totalCost = 0
		} else {
			c.lm.totalCost -= n.cost
		}
		n.val = value
		n.cost = cost
		n.accessTime = now
		c.lm.totalCost += cost
		c.lm.moveToFront(n)
	} else {
		n := &node[K, V]{key: key, val: value, cost: cost, accessTime: now}
		c.lm.m[key] = n
		c.lm.pushFront(n)
	}

	var inlineEvicted *node[K, V]
	if c.countLimit > 0 && c.lm.totalCount() > c.countLimit {
		if tail := c.lm.back(); tail != nil {
			c.lm.remove(tail)
			inlineEvicted = tail
		}
	}
	needCostTrim := c.costLimit > 0 && c.lm.totalCost > c.costLimit
	c.metrics.Size(c.lm.totalCount(), c.lm.totalCost)
	c.mu.Unlock()

	if inlineEvicted != nil {
		c.metrics.Evict(EvictLimit)
		c.destructOne(inlineEvicted)
	}
	if needCostTrim {
		go c.TrimToCost(c.costLimit)
	}
}

// Remove deletes key if present and hands its value to the configured
// DestructionExecutor.
func (c *Cache[K, V]) Remove(key K) {
	c.mu.Lock()
	n, ok := c.lm.m[key]
	if !ok {
		c.mu.Unlock()
		return
	}
	c.lm.remove(n)
	c.metrics.Size(c.lm.totalCount(), c.lm.totalCost)
	c.mu.Unlock()

	c.metrics.Evict(EvictRemove)
	c.destructOne(n)
}

// RemoveAll clears the cache. Destruction of evicted entries is handed
// to the destruction executor rather than performed in-line.
func (c *Cache[K, V]) RemoveAll() {
	c.mu.Lock()
	evicted := c.lm.removeAll()
	c.metrics.Size(0, 0)
	c.mu.Unlock()

	for n := evicted; n != nil; {
		next := n.prev // removeAll leaves the old chain's prev/next intact
		c.metrics.Evict(EvictClear)
		c.destructOne(n)
		n = next
	}
}

// TotalCount returns the number of resident entries.
func (c *Cache[K, V]) TotalCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lm.totalCount()
}

// TotalCost returns the sum of Cost over resident entries.
func (c *Cache[K, V]) TotalCost() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lm.totalCost
}

// Close stops the background auto-trim worker and any platform-signal
// subscriptions. It does not clear the cache.
func (c *Cache[K, V]) Close() error {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return nil
	}
	c.stopped = true
	c.mu.Unlock()

	close(c.stopAutoTrim)
	if c.unsubMemory != nil {
		c.unsubMemory()
	}
	if c.unsubBg != nil {
		c.unsubBg()
	}
	return nil
}

func (c *Cache[K, V]) destructOne(n *node[K, V]) {
	v := n.val
	c.destructor.Run(func() {
		if d, ok := any(v).(Destroyable); ok {
			d.Destroy()
		}
	})
}
