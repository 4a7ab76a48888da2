package tieredkv

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/tieredkv/tieredkv/disk"
	"github.com/tieredkv/tieredkv/memory"
)

func newTestCache(t *testing.T, opts ...Option) *Cache {
	t.Helper()
	c, err := ByPath(t.TempDir(), opts...)
	if err != nil {
		t.Fatalf("ByPath: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// S1 (memory LRU): with count_limit = 2, the third write evicts the
// first.
func TestFacade_S1_MemoryLRU(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, WithMemoryConfig(memory.Config{
		CountLimit:          2,
		AutoTrimInterval:    -1,
		DestructionExecutor: memory.InlineExecutor{},
	}))

	c.mem.Set("a", []byte("A"), 1)
	c.mem.Set("b", []byte("B"), 1)
	c.mem.Set("c", []byte("C"), 1)

	if _, ok := c.mem.Get("a"); ok {
		t.Fatal("a must be evicted from memory")
	}
	if v, ok := c.mem.Get("b"); !ok || string(v) != "B" {
		t.Fatal("b must survive")
	}
	if v, ok := c.mem.Get("c"); !ok || string(v) != "C" {
		t.Fatal("c must survive")
	}
}

// S3 (age eviction): after the age limit elapses and a trim runs, the
// entry is gone.
func TestFacade_S3_AgeEviction(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, WithMemoryConfig(memory.Config{
		AutoTrimInterval:    -1,
		DestructionExecutor: memory.InlineExecutor{},
	}))

	c.mem.Set("k", []byte("v"), 1)
	time.Sleep(120 * time.Millisecond)
	c.mem.TrimToAge(100 * time.Millisecond)

	if _, ok := c.mem.Get("k"); ok {
		t.Fatal("k must be evicted by age trim")
	}
}

// S4 (disk round-trip): values survive closing and reopening the same
// root path.
func TestFacade_S4_DiskRoundTripAcrossReopen(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	c1, err := ByPath(root)
	if err != nil {
		t.Fatal(err)
	}
	if !c1.Set("k", []byte("hello")) {
		t.Fatal("Set failed")
	}
	if err := c1.Close(); err != nil {
		t.Fatal(err)
	}

	c2, err := ByPath(root)
	if err != nil {
		t.Fatal(err)
	}
	defer c2.Close()

	v, ok := c2.Get("k")
	if !ok || string(v) != "hello" {
		t.Fatalf("expected persisted value, got %q ok=%v", v, ok)
	}
}

// S5 (inline vs external): with inline_threshold = 4, a short value is
// stored inline and a longer one externally.
func TestFacade_S5_InlineVsExternal(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, WithDiskOptions(disk.WithInlineThreshold(4)))

	if !c.Set("s", []byte("hi")) {
		t.Fatal("Set short failed")
	}
	if !c.Set("l", []byte("hello")) {
		t.Fatal("Set long failed")
	}

	if v, ok := c.disk.Get("s"); !ok || string(v.Payload) != "hi" {
		t.Fatalf("disk Get s: %+v ok=%v", v, ok)
	}
	if v, ok := c.disk.Get("l"); !ok || string(v.Payload) != "hello" {
		t.Fatalf("disk Get l: %+v ok=%v", v, ok)
	}

	files, err := filepath.Glob(filepath.Join(c.root, "data", "*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Fatalf("expected exactly one external file in data/, found %v", files)
	}
}

// S6 (promotion): evicting a key from memory alone, then reading it
// through the facade, must promote it back into memory.
func TestFacade_S6_Promotion(t *testing.T) {
	t.Parallel()

	c := newTestCache(t)

	if !c.Set("k", []byte("v")) {
		t.Fatal("Set failed")
	}
	c.mem.TrimToCount(0) // evict from memory only
	if c.mem.Contains("k") {
		t.Fatal("k must not be memory-resident before the read-through")
	}

	v, ok := c.Get("k")
	if !ok || string(v) != "v" {
		t.Fatalf("Get: %q ok=%v", v, ok)
	}
	if !c.mem.Contains("k") {
		t.Fatal("k must be memory-resident after the read-through promotion")
	}
}

// Property 7: after Set, both tiers report Contains = true.
func TestFacade_TierCoherenceOnSet(t *testing.T) {
	t.Parallel()

	c := newTestCache(t)
	c.Set("k", []byte("v"))

	if !c.mem.Contains("k") {
		t.Fatal("memory tier must contain k")
	}
	if !c.disk.Contains("k") {
		t.Fatal("disk tier must contain k")
	}
}

// Property 9: after RemoveAll, both tiers report empty.
func TestFacade_RemoveAllIsTotal(t *testing.T) {
	t.Parallel()

	c := newTestCache(t)
	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))

	c.RemoveAll()

	if c.mem.TotalCount() != 0 {
		t.Fatalf("memory tier must be empty, got %d", c.mem.TotalCount())
	}
	if c.disk.Count() != 0 || c.disk.Size() != 0 {
		t.Fatalf("disk tier must be empty, count=%d size=%d", c.disk.Count(), c.disk.Size())
	}
}

// Property 6: remove is idempotent.
func TestFacade_RemoveIdempotent(t *testing.T) {
	t.Parallel()

	c := newTestCache(t)
	c.Set("k", []byte("v"))
	c.Remove("k")
	c.Remove("k")

	if c.Contains("k") {
		t.Fatal("k must be absent")
	}
}

// Async Get reports the same result as the synchronous call, delivered
// on the callback.
func TestFacade_GetAsync(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, WithExecutor(memory.InlineExecutor{}))
	c.Set("k", []byte("v"))

	var wg sync.WaitGroup
	wg.Add(1)
	var got []byte
	c.GetAsync("k", func(key string, value []byte) {
		got = value
		wg.Done()
	})
	wg.Wait()

	if string(got) != "v" {
		t.Fatalf("GetAsync: got %q", got)
	}
}

// RemoveAllWithProgressAsync must report end(false) after clearing both
// tiers, and the tiers must actually be empty by the time end fires.
func TestFacade_RemoveAllWithProgressAsync(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, WithExecutor(memory.InlineExecutor{}))
	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))

	resultCh := make(chan bool, 1)
	c.RemoveAllWithProgressAsync(func(done, total int) {}, func(canceled bool) {
		resultCh <- canceled
	})

	canceled := <-resultCh
	if canceled {
		t.Fatal("expected successful clear")
	}
	if c.mem.TotalCount() != 0 || c.disk.Count() != 0 {
		t.Fatal("both tiers must be empty once end fires")
	}
}
