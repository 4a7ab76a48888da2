package diskkv

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// RemoveAll clears the manifest and the data directory using the
// swap-to-trash protocol: data/ is atomically renamed into a
// fresh UUID-named subdirectory of trash/, a new empty data/ is
// created, and the manifest is truncated — all before this call
// returns. The renamed-away subtree is then deleted asynchronously on
// a background goroutine, so RemoveAll is constant-time at the call
// site. If the rename fails, RemoveAll falls back to row-by-row
// deletion.
func (e *Engine) RemoveAll() bool {
	ok, _ := e.removeAllImpl(nil, nil)
	return ok
}

// RemoveAllWithProgress behaves like RemoveAll but additionally reports
// progress. When the swap-to-trash path is taken, progress is called
// once with (total, total) since the visible work is already done by
// the time this call returns. When the degraded row-by-row fallback is
// used, progress is called after each row. end(canceled) always runs
// last, with canceled true iff the clear failed outright.
func (e *Engine) RemoveAllWithProgress(progress func(done, total int), end func(canceled bool)) {
	ok, _ := e.removeAllImpl(progress, end)
	_ = ok
}

func (e *Engine) removeAllImpl(progress func(done, total int), end func(canceled bool)) (bool, error) {
	e.mu.Lock()
	if !e.ensureOpen() {
		e.mu.Unlock()
		if end != nil {
			end(true)
		}
		return false, errClosed
	}

	trashSub := filepath.Join(e.trashDir, uuid.NewString())
	if err := os.Rename(e.dataDir, trashSub); err != nil {
		e.mu.Unlock()
		ok := e.removeAllRowByRow(progress)
		if end != nil {
			end(!ok)
		}
		return ok, nil
	}
	if err := os.MkdirAll(e.dataDir, dirPerm); err != nil {
		// Data directory is gone; this is unrecoverable enough to log
		// and still attempt the manifest truncate so state isn't worse
		// than necessary.
		e.log.Warn("diskkv: recreate data dir after trash swap failed", "error", err)
	}

	stmt, err := e.prepared(sqlDeleteAll)
	if err != nil {
		e.setErr(err)
		e.mu.Unlock()
		if end != nil {
			end(true)
		}
		return false, err
	}
	total := 0
	_ = e.withRowCount(&total)
	if _, err := stmt.Exec(); err != nil {
		e.setErr(err)
		e.mu.Unlock()
		if end != nil {
			end(true)
		}
		return false, err
	}
	e.setErr(nil)
	e.mu.Unlock()

	if progress != nil {
		progress(total, total)
	}

	e.drainWG.Add(1)
	go func() {
		defer e.drainWG.Done()
		if err := os.RemoveAll(trashSub); err != nil {
			e.log.Warn("diskkv: trash drain failed, will retry on next drain", "dir", trashSub, "error", err)
		}
	}()

	if end != nil {
		end(false)
	}
	return true, nil
}

// withRowCount captures the current row count before a destructive
// statement runs, for progress reporting. Best-effort: failure leaves
// *out at zero.
func (e *Engine) withRowCount(out *int) error {
	stmt, err := e.prepared(sqlCount)
	if err != nil {
		return err
	}
	return stmt.QueryRow().Scan(out)
}

// removeAllRowByRow is the degraded fallback when the trash-swap rename
// fails (e.g. data/ and trash/ are on different filesystems). It
// deletes rows and their external files one at a time, reporting
// progress after each.
func (e *Engine) removeAllRowByRow(progress func(done, total int)) bool {
	keys, _, _ := e.oldestFirst()
	total := len(keys)
	for i, k := range keys {
		e.Remove(k) // deletes the manifest row and any external file
		if progress != nil {
			progress(i+1, total)
		}
	}
	return true
}
