package diskkv

// Remove deletes key's manifest row and, if it had an external
// filename, the corresponding file. Removing an absent key succeeds:
// remove is idempotent.
func (e *Engine) Remove(key string) bool {
	if key == "" {
		return false
	}

	e.mu.Lock()
	if !e.ensureOpen() {
		e.mu.Unlock()
		return false
	}

	it, _ := e.selectItem(key)

	stmt, err := e.prepared(sqlDeleteKey)
	if err != nil {
		e.setErr(err)
		e.mu.Unlock()
		return false
	}
	if _, err := stmt.Exec(key); err != nil {
		e.setErr(err)
		e.mu.Unlock()
		return false
	}
	e.setErr(nil)
	e.mu.Unlock()

	if it != nil && it.External() {
		return e.deleteExternalFile(it.Filename)
	}
	return true
}

// RemoveMany deletes every key in keys and returns how many of the
// individual Remove calls succeeded (removal of an absent key still
// succeeds, per Remove's idempotence).
func (e *Engine) RemoveMany(keys []string) int {
	n := 0
	for _, k := range keys {
		if e.Remove(k) {
			n++
		}
	}
	return n
}
