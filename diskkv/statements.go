package diskkv

import "database/sql"

// prepared returns a cached *sql.Stmt for text, preparing and caching it
// on first use. Must be called with e.mu held and e.db non-nil.
func (e *Engine) prepared(text string) (*sql.Stmt, error) {
	if stmt, ok := e.stmts[text]; ok {
		return stmt, nil
	}
	stmt, err := e.db.Prepare(text)
	if err != nil {
		return nil, err
	}
	e.stmts[text] = stmt
	return stmt, nil
}

const (
	sqlUpsert = `
INSERT INTO kv_items (key, filename, size, inline_data, modification_time, last_access_time, extended_data)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
	filename = excluded.filename,
	size = excluded.size,
	inline_data = excluded.inline_data,
	modification_time = excluded.modification_time,
	last_access_time = excluded.last_access_time,
	extended_data = excluded.extended_data`

	sqlSelectItem = `SELECT key, filename, size, inline_data, modification_time, last_access_time, extended_data FROM kv_items WHERE key = ?`

	sqlBumpAccess = `UPDATE kv_items SET last_access_time = ? WHERE key = ?`

	sqlDeleteKey = `DELETE FROM kv_items WHERE key = ?`

	sqlCount = `SELECT COUNT(*) FROM kv_items`

	sqlTotalSize = `SELECT COALESCE(SUM(size), 0) FROM kv_items`

	sqlSelectLarger = `SELECT key, filename FROM kv_items WHERE size > ?`

	sqlDeleteLarger = `DELETE FROM kv_items WHERE size > ?`

	sqlSelectEarlier = `SELECT key, filename FROM kv_items WHERE modification_time < ?`

	sqlDeleteEarlier = `DELETE FROM kv_items WHERE modification_time < ?`

	sqlSelectNotAccessedSince = `SELECT key, filename FROM kv_items WHERE last_access_time < ?`

	sqlDeleteNotAccessedSince = `DELETE FROM kv_items WHERE last_access_time < ?`

	sqlOldestFirst = `SELECT key, filename, size FROM kv_items ORDER BY last_access_time ASC`

	sqlDeleteAll = `DELETE FROM kv_items`
)
