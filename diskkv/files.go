package diskkv

import (
	"errors"
	"os"
	"path/filepath"
)

// writeExternalFile atomically writes data to filename under the data
// directory: write to a temp file, then rename into place. Absence of
// the destination is not required; an existing file is overwritten.
func (e *Engine) writeExternalFile(filename string, data []byte) error {
	path := filepath.Join(e.dataDir, filename)
	tmp, err := os.CreateTemp(e.dataDir, "tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// readExternalFile returns the contents of filename under the data
// directory, or (nil, false) if it doesn't exist.
func (e *Engine) readExternalFile(filename string) ([]byte, bool) {
	data, err := os.ReadFile(filepath.Join(e.dataDir, filename))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			e.log.Warn("diskkv: read external file failed", "file", filename, "error", err)
		}
		return nil, false
	}
	return data, true
}

// statExternalFile returns the byte size of filename under the data
// directory, or (0, false) if it doesn't exist.
func (e *Engine) statExternalFile(filename string) (int64, bool) {
	fi, err := os.Stat(filepath.Join(e.dataDir, filename))
	if err != nil {
		return 0, false
	}
	return fi.Size(), true
}

// deleteExternalFile removes filename under the data directory.
// Absence is treated as success.
func (e *Engine) deleteExternalFile(filename string) bool {
	if filename == "" {
		return true
	}
	err := os.Remove(filepath.Join(e.dataDir, filename))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		e.log.Warn("diskkv: delete external file failed", "file", filename, "error", err)
		return false
	}
	return true
}
