package resource

import (
	"runtime"
	"time"

	"github.com/duskhall/dusk-go/engine/logger"
)

// defaultLoaderWorkers bounds concurrent resource loads. Loads are mostly
// IO + upload staging, so one worker per CPU minus one is plenty.
var defaultLoaderWorkers = max(runtime.NumCPU()-1, 1)

// loaderIdleTimeout is how long an idle loader worker lingers before exiting.
const loaderIdleTimeout = 1 * time.Second

// CacheBuilderOption is a functional option for configuring a Cache.
// Use the With* functions to create options.
type CacheBuilderOption func(c *cache)

// WithLoaderWorkers sets the number of worker goroutines used to run
// resource loaders. Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of loader workers (minimum 1)
//
// Returns:
//   - CacheBuilderOption: option function to apply
func WithLoaderWorkers(n int) CacheBuilderOption {
	return func(c *cache) {
		if n < 1 {
			n = 1
		}
		c.loaderWorkers = n
	}
}

// WithLogger sets the logger used for load-failure diagnostics.
// Defaults to a no-op logger.
//
// Parameters:
//   - log: the logger to use
//
// Returns:
//   - CacheBuilderOption: option function to apply
func WithLogger(log logger.Logger) CacheBuilderOption {
	return func(c *cache) {
		if log != nil {
			c.log = log
		}
	}
}
