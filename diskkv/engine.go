package diskkv

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const (
	manifestFilename = "manifest.db"
	dataDirName      = "data"
	trashDirName     = "trash"
	dirPerm          = 0o700

	minOpenBackoff = 100 * time.Millisecond
	maxOpenBackoff = 30 * time.Second
)

var errClosed = errors.New("diskkv: engine is closed")

// Engine is the on-disk KV storage engine: a SQLite manifest plus a
// data directory holding externally-stored payloads. All operations
// are safe for concurrent use; failures are reported as booleans or nil
// items rather than as errors — see LastErr to inspect the last cause.
type Engine struct {
	root     string
	dataDir  string
	trashDir string
	storage  StorageType
	clock    func() int64
	log      *slog.Logger

	mu          sync.Mutex
	db          *sql.DB
	stmts       map[string]*sql.Stmt
	openErrs    int
	nextOpenTry time.Time
	lastErr     error
	drainWG     sync.WaitGroup
}

// Option configures an Engine at Open time.
type Option func(*Engine)

// WithStorageType selects how Save decides between an inline manifest
// blob and an external payload file. Defaults to StorageMixed.
func WithStorageType(t StorageType) Option {
	return func(e *Engine) { e.storage = t }
}

// WithLogger sets the logger used for storage execution and filesystem
// failures. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithClock overrides the wall-clock-seconds source used for
// modification/access timestamps. Defaults to time.Now().Unix().
func WithClock(fn func() int64) Option {
	return func(e *Engine) { e.clock = fn }
}

// Open creates (if absent) the root, data/ and trash/ directories and
// returns a ready Engine. Opening the manifest database itself is
// lazy — it happens on first use — so Open never touches SQLite.
func Open(root string, opts ...Option) (*Engine, error) {
	if root == "" {
		return nil, errors.New("diskkv: empty root path")
	}
	e := &Engine{
		root:     root,
		dataDir:  filepath.Join(root, dataDirName),
		trashDir: filepath.Join(root, trashDirName),
		storage:  StorageMixed,
		clock:    func() int64 { return time.Now().Unix() },
		log:      slog.Default(),
		stmts:    make(map[string]*sql.Stmt),
	}
	for _, opt := range opts {
		opt(e)
	}
	for _, dir := range []string{e.root, e.dataDir, e.trashDir} {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return nil, fmt.Errorf("diskkv: create %s: %w", dir, err)
		}
	}
	return e, nil
}

// Now returns the engine's wall-clock-seconds reading, per its
// configured Clock (time.Now().Unix() by default).
func (e *Engine) Now() int64 { return e.clock() }

// LastErr returns the error behind the most recent failed operation,
// or nil. It is provided for diagnostics; no engine method returns an
// error directly.
func (e *Engine) LastErr() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

func (e *Engine) setErr(err error) {
	e.lastErr = err
	if err != nil {
		e.log.Warn("diskkv operation failed", "error", err)
	}
}

// ensureOpen lazily opens the manifest database and creates its schema.
// Must be called with e.mu held. On failure it records the error,
// increments the open-failure counter, and schedules a backed-off retry
// window so repeated calls don't tight-loop against a broken database.
func (e *Engine) ensureOpen() bool {
	if e.db != nil {
		return true
	}
	if !e.nextOpenTry.IsZero() && time.Now().Before(e.nextOpenTry) {
		return false
	}

	dsn := filepath.Join(e.root, manifestFilename)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		e.openFailed(err)
		return false
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		e.openFailed(err)
		return false
	}
	if _, err := db.Exec(`PRAGMA busy_timeout=5000`); err != nil {
		db.Close()
		e.openFailed(err)
		return false
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		e.openFailed(err)
		return false
	}

	e.db = db
	e.openErrs = 0
	e.nextOpenTry = time.Time{}
	e.setErr(nil)
	return true
}

func (e *Engine) openFailed(err error) {
	e.openErrs++
	backoff := minOpenBackoff << uint(e.openErrs-1)
	if backoff > maxOpenBackoff || backoff <= 0 {
		backoff = maxOpenBackoff
	}
	e.nextOpenTry = time.Now().Add(backoff)
	wrapped := fmt.Errorf("diskkv: open manifest: %w", err)
	e.lastErr = wrapped
	e.log.Error("diskkv storage open failed", "error", wrapped, "retry_in", backoff)
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS kv_items (
	key                TEXT PRIMARY KEY,
	filename           TEXT NOT NULL DEFAULT '',
	size               INTEGER NOT NULL,
	inline_data        BLOB,
	modification_time  INTEGER NOT NULL,
	last_access_time   INTEGER NOT NULL,
	extended_data      BLOB
);
CREATE INDEX IF NOT EXISTS kv_items_last_access ON kv_items(last_access_time);
CREATE INDEX IF NOT EXISTS kv_items_size ON kv_items(size);
`

// Close finalizes every cached prepared statement and closes the
// database handle. It waits for any in-flight trash drain to finish.
func (e *Engine) Close() error {
	e.mu.Lock()
	for text, stmt := range e.stmts {
		stmt.Close()
		delete(e.stmts, text)
	}
	var err error
	if e.db != nil {
		err = e.db.Close()
		e.db = nil
	}
	e.mu.Unlock()

	e.drainWG.Wait()
	return err
}
