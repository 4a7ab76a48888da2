package memory

import "time"

// limitRelativeTrim implements the shared protocol behind TrimToCount,
// TrimToCost and TrimToAge:
//
//  1. Under the lock, if the limit itself is zero the whole cache is
//     cleared and we're done. Otherwise, if the cache is already within
//     the limit, we're done.
//  2. Otherwise, repeatedly try to acquire the lock without blocking;
//     on success evict exactly one LRU-tail entry and release the lock;
//     on failure sleep briefly and retry. This keeps any single holder
//     of the lock from being blocked by a long-running trim, at the
//     cost of trims taking longer under contention.
//
// Eviction of the collected batch's values is handed to the destruction
// executor once the loop finishes.
func (c *Cache[K, V]) limitRelativeTrim(zero bool, overLimit func() bool) {
	c.mu.Lock()
	if zero {
		evicted := c.lm.removeAll()
		c.metrics.Size(0, 0)
		c.mu.Unlock()
		for n := evicted; n != nil; {
			next := n.prev
			c.metrics.Evict(EvictLimit)
			c.destructOne(n)
			n = next
		}
		return
	}
	if !overLimit() {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	var holder []*node[K, V]
	for {
		if !c.mu.TryLock() {
			c.log.Debug("memory: trim lock contended, backing off")
			time.Sleep(10 * time.Millisecond)
			continue
		}
		tail := c.lm.back()
		if tail == nil || !overLimit() {
			c.mu.Unlock()
			break
		}
		c.lm.remove(tail)
		c.metrics.Size(c.lm.totalCount(), c.lm.totalCost)
		c.mu.Unlock()

		c.metrics.Evict(EvictLimit)
		holder = append(holder, tail)
	}
	for _, n := range holder {
		c.destructOne(n)
	}
}

// TrimToCount evicts LRU entries until at most n remain. n == 0 clears
// the cache.
func (c *Cache[K, V]) TrimToCount(n int) {
	c.limitRelativeTrim(n == 0, func() bool {
		return c.lm.totalCount() > n
	})
}

// TrimToCost evicts LRU entries until the total cost is at most limit.
// limit == 0 clears the cache.
func (c *Cache[K, V]) TrimToCost(limit uint64) {
	c.limitRelativeTrim(limit == 0, func() bool {
		return c.lm.totalCost > limit
	})
}

// TrimToAge evicts entries whose time since last access exceeds limit,
// starting from the LRU tail. limit == 0 clears the cache.
func (c *Cache[K, V]) TrimToAge(limit time.Duration) {
	limitNanos := int64(limit)
	c.limitRelativeTrim(limit == 0, func() bool {
		tail := c.lm.back()
		if tail == nil {
			return false
		}
		return c.clock.NowUnixNano()-tail.accessTime > limitNanos
	})
}

// autoTrimLoop periodically runs cost, count, then age trims, in that
// order, matching Set's priority of an asynchronous cost trim over the
// inline count eviction. It exits when the cache is closed.
func (c *Cache[K, V]) autoTrimLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stopAutoTrim:
			return
		case <-ticker.C:
			if c.costLimit > 0 {
				c.TrimToCost(c.costLimit)
			}
			if c.countLimit > 0 {
				c.TrimToCount(c.countLimit)
			}
			if c.ageLimit > 0 {
				c.TrimToAge(c.ageLimit)
			}
		}
	}
}
