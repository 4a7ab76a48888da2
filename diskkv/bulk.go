package diskkv

// row is a (key, filename) pair used by the bulk predicate deletes to
// know which external files to clean up after the manifest rows are
// gone.
type row struct {
	key      string
	filename string
}

// RemoveItemsLargerThan deletes every item whose size exceeds max,
// returning the number removed.
func (e *Engine) RemoveItemsLargerThan(max int64) int {
	return e.bulkPredicateDelete(sqlSelectLarger, sqlDeleteLarger, max)
}

// RemoveItemsEarlierThan deletes every item whose modification_time is
// earlier than t (wall-clock seconds), returning the number removed.
func (e *Engine) RemoveItemsEarlierThan(t int64) int {
	return e.bulkPredicateDelete(sqlSelectEarlier, sqlDeleteEarlier, t)
}

// RemoveItemsNotAccessedSince deletes every item whose last_access_time
// is earlier than t (wall-clock seconds), returning the number removed.
// Unlike RemoveItemsEarlierThan (write time), this tracks read recency,
// matching the ascending-last_access_time ordering RemoveItemsToFitSize
// and RemoveItemsToFitCount already use.
func (e *Engine) RemoveItemsNotAccessedSince(t int64) int {
	return e.bulkPredicateDelete(sqlSelectNotAccessedSince, sqlDeleteNotAccessedSince, t)
}

func (e *Engine) bulkPredicateDelete(selectSQL, deleteSQL string, arg int64) int {
	e.mu.Lock()
	if !e.ensureOpen() {
		e.mu.Unlock()
		return 0
	}

	selStmt, err := e.prepared(selectSQL)
	if err != nil {
		e.setErr(err)
		e.mu.Unlock()
		return 0
	}
	rows, err := selStmt.Query(arg)
	if err != nil {
		e.setErr(err)
		e.mu.Unlock()
		return 0
	}
	var victims []row
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.key, &r.filename); err != nil {
			continue
		}
		victims = append(victims, r)
	}
	rows.Close()

	delStmt, err := e.prepared(deleteSQL)
	if err != nil {
		e.setErr(err)
		e.mu.Unlock()
		return 0
	}
	if _, err := delStmt.Exec(arg); err != nil {
		e.setErr(err)
		e.mu.Unlock()
		return 0
	}
	e.setErr(nil)
	e.mu.Unlock()

	for _, v := range victims {
		if v.filename != "" {
			e.deleteExternalFile(v.filename)
		}
	}
	return len(victims)
}

// RemoveItemsToFitSize evicts items in ascending last_access_time order
// (LRU) until the manifest's aggregate size is at most max, returning
// the number evicted.
func (e *Engine) RemoveItemsToFitSize(max int64) int {
	total, ok := e.TotalSize()
	if !ok || total <= max {
		return 0
	}
	keys, sizes, _ := e.oldestFirst()
	removed, n := int64(0), 0
	for i, k := range keys {
		if total-removed <= max {
			break
		}
		if e.Remove(k) {
			removed += sizes[i]
			n++
		}
	}
	return n
}

// RemoveItemsToFitCount evicts items in ascending last_access_time
// order (LRU) until the manifest holds at most max rows, returning the
// number evicted.
func (e *Engine) RemoveItemsToFitCount(max int) int {
	count, ok := e.Count()
	if !ok || count <= max {
		return 0
	}
	keys, _, _ := e.oldestFirst()
	n, toEvict := 0, count-max
	for i := 0; i < toEvict && i < len(keys); i++ {
		if e.Remove(keys[i]) {
			n++
		}
	}
	return n
}

// oldestFirst returns every key, size, and filename ordered ascending
// by last_access_time (LRU order).
func (e *Engine) oldestFirst() (keys []string, sizes []int64, filenames []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ensureOpen() {
		return nil, nil, nil
	}
	stmt, err := e.prepared(sqlOldestFirst)
	if err != nil {
		e.setErr(err)
		return nil, nil, nil
	}
	rows, err := stmt.Query()
	if err != nil {
		e.setErr(err)
		return nil, nil, nil
	}
	defer rows.Close()
	for rows.Next() {
		var k, fn string
		var sz int64
		if err := rows.Scan(&k, &fn, &sz); err != nil {
			continue
		}
		keys = append(keys, k)
		sizes = append(sizes, sz)
		filenames = append(filenames, fn)
	}
	return keys, sizes, filenames
}

// Count returns the number of manifest rows.
func (e *Engine) Count() (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ensureOpen() {
		return 0, false
	}
	stmt, err := e.prepared(sqlCount)
	if err != nil {
		e.setErr(err)
		return 0, false
	}
	var n int
	if err := stmt.QueryRow().Scan(&n); err != nil {
		e.setErr(err)
		return 0, false
	}
	e.setErr(nil)
	return n, true
}

// TotalSize returns the sum of Size over every manifest row.
func (e *Engine) TotalSize() (int64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ensureOpen() {
		return 0, false
	}
	stmt, err := e.prepared(sqlTotalSize)
	if err != nil {
		e.setErr(err)
		return 0, false
	}
	var n int64
	if err := stmt.QueryRow().Scan(&n); err != nil {
		e.setErr(err)
		return 0, false
	}
	e.setErr(nil)
	return n, true
}
