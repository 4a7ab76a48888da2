package diskkv

import (
	"database/sql"
	"errors"
)

// Get returns the full item for key, including its payload, loading it
// from the external file if the item is stored that way. On a hit,
// last_access_time is bumped to now via a prepared statement.
func (e *Engine) Get(key string) (*Item, bool) {
	if key == "" {
		return nil, false
	}

	e.mu.Lock()
	if !e.ensureOpen() {
		e.mu.Unlock()
		return nil, false
	}

	it, ok := e.selectItem(key)
	if !ok {
		e.mu.Unlock()
		return nil, false
	}

	now := e.clock()
	if stmt, err := e.prepared(sqlBumpAccess); err == nil {
		if _, err := stmt.Exec(now, key); err == nil {
			it.LastAccessTime = now
		} else {
			e.setErr(err)
		}
	} else {
		e.setErr(err)
	}
	e.mu.Unlock()

	if it.External() {
		data, ok := e.readExternalFile(it.Filename)
		if !ok {
			return nil, false
		}
		it.Value = data
	}
	return it, true
}

// GetInfo returns key's item metadata without its payload: external
// files are not read and Item.Value is always nil. It does not bump
// last_access_time — it is a peek, not a read for LRU purposes.
func (e *Engine) GetInfo(key string) (*Item, bool) {
	if key == "" {
		return nil, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ensureOpen() {
		return nil, false
	}
	it, ok := e.selectItem(key)
	if ok {
		it.Value = nil
	}
	return it, ok
}

// selectItem loads a manifest row without its external payload. Must
// be called with e.mu held and e.db non-nil.
func (e *Engine) selectItem(key string) (*Item, bool) {
	stmt, err := e.prepared(sqlSelectItem)
	if err != nil {
		e.setErr(err)
		return nil, false
	}

	var it Item
	var inline []byte
	var extended []byte
	row := stmt.QueryRow(key)
	err = row.Scan(&it.Key, &it.Filename, &it.Size, &inline, &it.ModificationTime, &it.LastAccessTime, &extended)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			e.setErr(err)
		}
		return nil, false
	}
	it.ExtendedData = extended
	if !it.External() {
		it.Value = inline
	}
	e.setErr(nil)
	return &it, true
}
