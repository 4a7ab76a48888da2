package diskkv

import (
	"path/filepath"
	"testing"
)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := Open(t.TempDir(), opts...)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = e.Close() })
	return e
}

// Round-trip: save then get must return the same payload and extended
// data, whether stored inline or externally.
func TestEngine_SaveGetRoundTrip(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, WithStorageType(StorageMixed))

	if !e.Save("inline-key", []byte("hello"), "", []byte("ext")) {
		t.Fatal("Save inline failed")
	}
	it, ok := e.Get("inline-key")
	if !ok {
		t.Fatal("Get inline-key miss")
	}
	if string(it.Value) != "hello" || string(it.ExtendedData) != "ext" {
		t.Fatalf("unexpected item %+v", it)
	}
	if it.Filename != "" {
		t.Fatal("inline item must not have a filename")
	}

	if !e.Save("ext-key", []byte("world"), "ext-file", nil) {
		t.Fatal("Save external failed")
	}
	it2, ok := e.Get("ext-key")
	if !ok {
		t.Fatal("Get ext-key miss")
	}
	if string(it2.Value) != "world" || it2.Filename != "ext-file" {
		t.Fatalf("unexpected item %+v", it2)
	}
}

// Empty key or empty value must fail Save.
func TestEngine_SaveRejectsEmpty(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	if e.Save("", []byte("v"), "", nil) {
		t.Fatal("empty key must fail")
	}
	if e.Save("k", nil, "", nil) {
		t.Fatal("empty value must fail")
	}
}

// StorageFile requires a filename; StorageSQLite forbids one.
func TestEngine_StorageTypeEnforcement(t *testing.T) {
	t.Parallel()

	fileEngine := newTestEngine(t, WithStorageType(StorageFile))
	if fileEngine.Save("k", []byte("v"), "", nil) {
		t.Fatal("StorageFile must require a filename")
	}
	if !fileEngine.Save("k", []byte("v"), "k.bin", nil) {
		t.Fatal("StorageFile with filename must succeed")
	}

	sqliteEngine := newTestEngine(t, WithStorageType(StorageSQLite))
	if sqliteEngine.Save("k", []byte("v"), "k.bin", nil) {
		t.Fatal("StorageSQLite must reject a filename")
	}
	if !sqliteEngine.Save("k", []byte("v"), "", nil) {
		t.Fatal("StorageSQLite without filename must succeed")
	}
}

// Remove is idempotent and deletes the external file when present.
func TestEngine_RemoveIdempotent(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	e.Save("k", []byte("v"), "k.bin", nil)

	if !e.Remove("k") {
		t.Fatal("first Remove must succeed")
	}
	if !e.Remove("k") {
		t.Fatal("second Remove must also succeed")
	}
	if _, ok := e.Get("k"); ok {
		t.Fatal("k must be gone")
	}
	if _, ok := e.statExternalFile("k.bin"); ok {
		t.Fatal("external file must be deleted")
	}
}

// RemoveItemsToFitCount evicts in ascending last_access_time order.
func TestEngine_RemoveItemsToFit_LRUOrder(t *testing.T) {
	t.Parallel()

	var now int64 = 1000
	e := newTestEngine(t, WithClock(func() int64 { now++; return now }))

	e.Save("old", []byte("111"), "", nil)
	e.Save("mid", []byte("222"), "", nil)
	e.Save("new", []byte("333"), "", nil)

	n := e.RemoveItemsToFitCount(2)
	if n != 1 {
		t.Fatalf("expected 1 eviction, got %d", n)
	}
	if _, ok := e.Get("old"); ok {
		t.Fatal("oldest item must have been evicted")
	}
	if _, ok := e.Get("mid"); !ok {
		t.Fatal("mid item must survive")
	}
}

// RemoveAll (swap-to-trash) must empty both the manifest and data/,
// and the trash subtree must eventually drain.
func TestEngine_RemoveAllSwapToTrash(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	for i := 0; i < 5; i++ {
		e.Save(string(rune('a'+i)), []byte("payload"), string(rune('a'+i))+".bin", nil)
	}

	if !e.RemoveAll() {
		t.Fatal("RemoveAll must succeed")
	}

	count, ok := e.Count()
	if !ok || count != 0 {
		t.Fatalf("expected empty manifest, got count=%d ok=%v", count, ok)
	}

	entries, err := filepath.Glob(filepath.Join(e.dataDir, "*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty data dir, found %v", entries)
	}

	e.drainWG.Wait()
	trashEntries, err := filepath.Glob(filepath.Join(e.trashDir, "*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(trashEntries) != 0 {
		t.Fatalf("expected trash drained, found %v", trashEntries)
	}
}

// RemoveAllWithProgress must report completion before returning and
// call end(false) on success.
func TestEngine_RemoveAllWithProgress(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	e.Save("k", []byte("v"), "", nil)

	var ended bool
	var canceled bool
	e.RemoveAllWithProgress(func(done, total int) {}, func(c bool) {
		ended = true
		canceled = c
	})

	if !ended {
		t.Fatal("end callback must be invoked")
	}
	if canceled {
		t.Fatal("end(canceled) must be false on success")
	}
}

// Reopening the same root must recover previously saved data.
func TestEngine_PersistAcrossReopen(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	e1, err := Open(root)
	if err != nil {
		t.Fatal(err)
	}
	e1.Save("k", []byte("hello"), "", nil)
	e1.Close()

	e2, err := Open(root)
	if err != nil {
		t.Fatal(err)
	}
	defer e2.Close()

	it, ok := e2.Get("k")
	if !ok || string(it.Value) != "hello" {
		t.Fatalf("expected persisted value, got %+v ok=%v", it, ok)
	}
}
