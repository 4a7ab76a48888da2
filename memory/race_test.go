package memory

import (
	"math/rand"
	"runtime"
	"strconv"
	"sync"
	"testing"
	"time"
)

// A mixed workload of concurrent Set/Get/Remove/RemoveAll on random keys,
// with a tight CountLimit and CostLimit to force frequent inline and
// async trims. Should pass under -race without detector reports.
func TestRace_Basic(t *testing.T) {
	c := New[string, []byte](Config{
		CountLimit:          512,
		CostLimit:           4096,
		AutoTrimInterval:    50 * time.Millisecond,
		DestructionExecutor: InlineExecutor{},
	})
	t.Cleanup(func() { _ = c.Close() })

	workers := 4 * runtime.GOMAXPROCS(0)
	keyspace := 5000
	deadline := time.Now().Add(2 * time.Second)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(id)*9973))
			for time.Now().Before(deadline) {
				k := "k:" + strconv.Itoa(r.Intn(keyspace))
				switch r.Intn(100) {
				case 0, 1, 2, 3, 4: // ~5% — Remove
					c.Remove(k)
				case 5: // ~1% — RemoveAll
					c.RemoveAll()
				case 6, 7, 8, 9, 10, 11, 12, 13, 14, 15: // ~10% — Set
					c.Set(k, []byte("x"), uint64(8+r.Intn(8)))
				default: // ~84% — Get
					c.Get(k)
				}
			}
		}(w)
	}
	wg.Wait()
}

// Concurrent TrimToCount/TrimToCost/TrimToAge calls racing against Set
// must never leave the list or map in an inconsistent state.
func TestRace_ConcurrentTrims(t *testing.T) {
	c := New[int, int](Config{AutoTrimInterval: -1, DestructionExecutor: InlineExecutor{}})
	t.Cleanup(func() { _ = c.Close() })

	for i := 0; i < 2000; i++ {
		c.Set(i, i, 1)
	}

	var wg sync.WaitGroup
	wg.Add(4)
	go func() { defer wg.Done(); c.TrimToCount(100) }()
	go func() { defer wg.Done(); c.TrimToCost(50) }()
	go func() { defer wg.Done(); c.TrimToAge(time.Millisecond) }()
	go func() {
		defer wg.Done()
		for i := 2000; i < 2500; i++ {
			c.Set(i, i, 1)
		}
	}()
	wg.Wait()
}
