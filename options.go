package tieredkv

import (
	"github.com/tieredkv/tieredkv/disk"
	"github.com/tieredkv/tieredkv/memory"
)

// Executor dispatches a function for later execution, away from the
// caller's goroutine. It has the same shape as memory.DestructionExecutor
// and is reused here for the facade's async operations.
type Executor interface {
	Run(func())
}

// config collects the options passed to ByName/ByPath.
type config struct {
	memoryConfig memory.Config
	diskOpts     []disk.Option
	executor     Executor
}

// Option configures a Cache at construction time.
type Option func(*config)

// WithMemoryConfig overrides the memory tier's configuration.
func WithMemoryConfig(c memory.Config) Option {
	return func(cfg *config) { cfg.memoryConfig = c }
}

// WithDiskOptions overrides the disk tier's configuration.
func WithDiskOptions(opts ...disk.Option) Option {
	return func(cfg *config) { cfg.diskOpts = opts }
}

// WithExecutor overrides the executor used to run async operations.
// Defaults to memory.BackgroundExecutor.
func WithExecutor(e Executor) Option {
	return func(cfg *config) { cfg.executor = e }
}

func newConfig(opts []Option) *config {
	cfg := &config{executor: memory.BackgroundExecutor{}}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
