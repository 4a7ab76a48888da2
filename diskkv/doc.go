// Package diskkv implements the on-disk key-value storage engine: a
// SQLite manifest tracking per-key metadata plus either an inline blob
// payload or a reference to a file under the engine's data directory.
//
// Storage layout under a root directory:
//
//	<root>/manifest.db       relational database file
//	<root>/manifest.db-shm   auxiliary (WAL)
//	<root>/manifest.db-wal   auxiliary (WAL)
//	<root>/data/             external payload files
//	<root>/trash/            staged for asynchronous deletion
//
// Every operation reports failure as a boolean or a nil item rather
// than propagating an error out of the engine; callers that need the
// underlying cause can inspect Engine.LastErr. Database open is lazy
// and self-healing: a failed open increments an error counter and
// leaves the engine closed, and later calls retry the open with a
// short backoff rather than tight-looping.
package diskkv
