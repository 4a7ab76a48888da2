package memory

import (
	"io"
	"log/slog"
)

// discardLogger is the fallback used by the built-in executors when no
// Logger is configured, so a recovered destructor panic is dropped
// rather than causing a nil-pointer dereference.
var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// DestructionExecutor runs value destructors away from the cache's
// critical sections. Each evicted value's destructor is passed to Run as
// its own call, after the cache's lock is released, so an embedder whose
// values own expensive resources (large buffers, native handles) can
// choose where that release happens.
//
// Run must not panic; the three built-in executors recover internally
// and log the recovered panic at Debug on their configured Logger (or
// discard it silently if Logger is nil).
type DestructionExecutor interface {
	Run(destroy func())
}

// BackgroundExecutor runs destroy on a new goroutine. It is the default
// when Config.DestructionExecutor is nil — "release asynchronously".
type BackgroundExecutor struct {
	// Logger receives a Debug record if destroy panics. Nil discards it.
	Logger *slog.Logger
}

func (b BackgroundExecutor) Run(destroy func()) {
	go runRecovered(b.Logger, destroy)
}

// InlineExecutor runs destroy synchronously, in the caller's goroutine —
// "release synchronously". Useful for deterministic tests or when values
// have no meaningful destructor cost.
type InlineExecutor struct {
	// Logger receives a Debug record if destroy panics. Nil discards it.
	Logger *slog.Logger
}

func (i InlineExecutor) Run(destroy func()) {
	runRecovered(i.Logger, destroy)
}

// MainThreadExecutor forwards destroy to a caller-supplied dispatcher that
// runs work on a designated "main" goroutine (e.g. a UI event loop) —
// "release on main thread", useful when destructors mutate UI state.
type MainThreadExecutor struct {
	// Dispatch schedules fn to run on the main goroutine. It must not
	// block the caller of Run.
	Dispatch func(fn func())
	// Logger receives a Debug record if destroy panics. Nil discards it.
	Logger *slog.Logger
}

func (m MainThreadExecutor) Run(destroy func()) {
	wrapped := func() { runRecovered(m.Logger, destroy) }
	if m.Dispatch == nil {
		wrapped()
		return
	}
	m.Dispatch(wrapped)
}

// runRecovered calls destroy, recovering any panic so a buggy
// destructor cannot take down the process or, on MainThreadExecutor,
// the caller's main loop. A recovered panic is logged at Debug.
func runRecovered(log *slog.Logger, destroy func()) {
	defer func() {
		if r := recover(); r != nil {
			if log == nil {
				log = discardLogger
			}
			log.Debug("memory: destructor panicked, recovered", "panic", r)
		}
	}()
	destroy()
}

var (
	_ DestructionExecutor = BackgroundExecutor{}
	_ DestructionExecutor = InlineExecutor{}
	_ DestructionExecutor = MainThreadExecutor{}
)
