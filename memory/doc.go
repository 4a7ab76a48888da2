// Package memory implements a thread-safe, bounded in-process LRU cache.
//
// Design
//
//   - Storage: a hash map from key to *node[K,V] plus an intrusive
//     MRU↔LRU doubly linked list (head is most-recently-touched, tail is
//     least-recently-touched). Every operation that mutates the list or
//     the map runs under a single mutex; readers take the same mutex
//     because every Get also reorders the list.
//
//   - Bounds: three independent, orthogonal limits can be configured —
//     CountLimit (max resident entries), CostLimit (max sum of per-entry
//     Cost), and AgeLimit (max time since an entry's last access). Any
//     subset may be left at zero, meaning "unbounded".
//
//   - Trimming: TrimToCount, TrimToCost, and TrimToAge share a
//     "limit-relative trim" protocol: try to take the lock without
//     blocking (briefly sleeping and retrying if it is held), evict at
//     most one tail node if still over limit, release, and repeat until
//     the limit is met. This keeps any single trim from holding the lock
//     across a whole eviction pass, bounding reader/writer latency even
//     while trimming a large cache. A background goroutine runs the cost,
//     count, and age trims, in that order, once per AutoTrimInterval.
//
//   - Destruction: evicted values are handed to a DestructionExecutor
//     rather than being dropped in place, so an embedder whose values own
//     expensive resources (large decoded buffers, native handles) can
//     choose to release them off the hot path — on a background
//     goroutine (the default), on a designated "main" goroutine, or
//     synchronously inline.
//
//   - Platform signals: MemoryWarningSource and BackgroundSource are
//     injected event streams. When they fire, the cache's observer
//     callback runs and, if configured, the whole cache is cleared.
//
//   - Logging: Config.Logger receives Debug records for recovered
//     destructor panics, trim-loop lock contention, and platform-signal
//     handling. The tier never logs above Debug; its public surface
//     does not fail.
//
// See Config for the full set of tunables.
package memory
