package memory

import (
	"log/slog"
	"time"
)

// Clock provides monotonic time in nanoseconds. Access timestamps use it
// so trim predicates stay stable across wall-clock adjustments. Nil
// (the Config default) means a real clock backed by time.Now's
// monotonic reading.
type Clock interface{ NowUnixNano() int64 }

// realClock is the default Clock. It reports nanoseconds elapsed on the
// monotonic clock since clockBase, offset by clockBase's Unix time.
type realClock struct{}

var clockBase = time.Now()

func (realClock) NowUnixNano() int64 { return clockBase.UnixNano() + int64(time.Since(clockBase)) }

// Config configures a Cache. The zero value is safe and means all three
// limits are unbounded, auto-trim runs every 5 seconds, both platform
// warnings clear the cache, and destruction happens on a background
// goroutine.
type Config struct {
	// CountLimit caps the number of resident entries. Zero means
	// unbounded.
	CountLimit int

	// CostLimit caps the sum of all resident entries' Cost. Zero means
	// unbounded.
	CostLimit uint64

	// AgeLimit caps how long an entry may go unaccessed before it
	// becomes eligible for trimming. Zero means unbounded.
	AgeLimit time.Duration

	// AutoTrimInterval is the period between background trim passes.
	// Defaults to 5 seconds if zero and negative disables the
	// background trimmer entirely.
	AutoTrimInterval time.Duration

	// ClearOnMemoryWarning, if true (the default), clears the cache
	// when MemoryWarningSource fires.
	ClearOnMemoryWarning *bool

	// ClearOnBackground, if true (the default), clears the cache when
	// BackgroundSource fires.
	ClearOnBackground *bool

	// DestructionExecutor chooses where evicted values are released.
	// Defaults to BackgroundExecutor.
	DestructionExecutor DestructionExecutor

	// OnMemoryWarning, if set, runs before the (optional) clear
	// triggered by a memory warning.
	OnMemoryWarning func()

	// OnBackground, if set, runs before the (optional) clear triggered
	// by a background transition.
	OnBackground func()

	// MemorySource and BackgroundSignal are injected platform event
	// streams. Nil means the cache never observes that signal.
	MemorySource     MemoryWarningSource
	BackgroundSignal BackgroundSource

	// Metrics receives Hit/Miss/Evict/Size signals. Defaults to
	// NoopMetrics.
	Metrics Metrics

	// Clock overrides the time source (useful in tests). Defaults to
	// a real monotonic clock.
	Clock Clock

	// Logger receives Debug records for destructor panics (recovered),
	// trim-loop lock-contention backoff, and platform-signal handling.
	// Defaults to a discarding logger — the memory tier never logs at
	// a level above Debug, since its public surface does not fail.
	Logger *slog.Logger
}

func boolDefault(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
