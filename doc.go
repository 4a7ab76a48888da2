// Package tieredkv provides a two-tier key-value cache: a bounded
// in-process LRU memory tier (package memory) in front of a persistent
// on-disk tier backed by a SQLite manifest (packages diskkv and disk).
// Cache composes both behind a single read-through/write-through facade
// with synchronous and asynchronous variants of every operation.
//
// Reads probe memory first, then disk, promoting a disk hit back into
// memory. Writes go to memory then disk. Removes go to memory then
// disk. Eviction is internal to each tier and never crosses the tier
// boundary.
package tieredkv
