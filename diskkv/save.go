package diskkv

// Save inserts or replaces key's record. filename, when non-empty,
// stores the payload externally under the data directory instead of
// inline in the manifest; its legality depends on the engine's storage
// type:
//
//   - StorageFile requires a non-empty filename.
//   - StorageSQLite requires an empty filename.
//   - StorageMixed accepts either.
//
// Both modification_time and last_access_time snap to now. Save fails
// (returns false) on an empty key, an empty value, a storage-type
// violation, or a storage execution failure.
func (e *Engine) Save(key string, value []byte, filename string, extended []byte) bool {
	if key == "" || len(value) == 0 {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.storage {
	case StorageFile:
		if filename == "" {
			return false
		}
	case StorageSQLite:
		if filename != "" {
			return false
		}
	}

	if filename != "" {
		if err := e.writeExternalFile(filename, value); err != nil {
			e.setErr(err)
			return false
		}
	}

	if !e.ensureOpen() {
		if filename != "" {
			e.deleteExternalFile(filename)
		}
		return false
	}

	now := e.clock()
	var inline any
	if filename == "" {
		inline = value
	}
	var ext any
	if len(extended) > 0 {
		ext = extended
	}

	stmt, err := e.prepared(sqlUpsert)
	if err != nil {
		e.setErr(err)
		if filename != "" {
			e.deleteExternalFile(filename)
		}
		return false
	}
	if _, err := stmt.Exec(key, filename, int64(len(value)), inline, now, now, ext); err != nil {
		e.setErr(err)
		if filename != "" {
			e.deleteExternalFile(filename)
		}
		return false
	}
	e.setErr(nil)
	return true
}
