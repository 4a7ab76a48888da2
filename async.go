package tieredkv

// Every synchronous facade operation has an async sibling that
// dispatches the synchronous call onto the configured Executor and
// invokes the caller-supplied completion callback there. The callback
// signature mirrors the result type of the synchronous call.

// ContainsAsync dispatches Contains and reports (key, present) to cb.
func (c *Cache) ContainsAsync(key string, cb func(key string, present bool)) {
	c.exec.Run(func() {
		cb(key, c.Contains(key))
	})
}

// GetAsync dispatches Get and reports (key, value) to cb. value is nil
// on a miss.
func (c *Cache) GetAsync(key string, cb func(key string, value []byte)) {
	c.exec.Run(func() {
		v, ok := c.Get(key)
		if !ok {
			v = nil
		}
		cb(key, v)
	})
}

// SetAsync dispatches Set and invokes cb on completion, with no
// arguments.
func (c *Cache) SetAsync(key string, value []byte, cb func()) {
	c.exec.Run(func() {
		c.Set(key, value)
		if cb != nil {
			cb()
		}
	})
}

// RemoveAsync dispatches Remove and reports (key) to cb on completion.
func (c *Cache) RemoveAsync(key string, cb func(key string)) {
	c.exec.Run(func() {
		c.Remove(key)
		if cb != nil {
			cb(key)
		}
	})
}

// RemoveAllAsync dispatches RemoveAll and invokes cb on completion,
// with no arguments.
func (c *Cache) RemoveAllAsync(cb func()) {
	c.exec.Run(func() {
		c.RemoveAll()
		if cb != nil {
			cb()
		}
	})
}

// RemoveAllWithProgressAsync dispatches a RemoveAll that reports
// progress on both tiers concurrently via progress, then calls end once
// both tiers have finished. canceled is true iff either tier's clear
// failed.
//
// The two tiers' clears run concurrently (memory's RemoveAll is
// synchronous and cheap; disk's may drive a multi-step swap-to-trash
// protocol), coordinated with errgroup so end fires exactly once after
// both complete.
func (c *Cache) RemoveAllWithProgressAsync(progress func(done, total int), end func(canceled bool)) {
	c.exec.Run(func() {
		canceled := runBothTierClears(c, progress)
		if end != nil {
			end(canceled)
		}
	})
}
