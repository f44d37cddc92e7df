package engine

import (
	"time"

	"github.com/duskhall/dusk-go/engine/descriptor"
	"github.com/duskhall/dusk-go/engine/lifecycle"
	"github.com/duskhall/dusk-go/engine/logger"
	"github.com/duskhall/dusk-go/engine/quality"
	"github.com/duskhall/dusk-go/engine/resource"
	"github.com/duskhall/dusk-go/engine/scene"
	"github.com/duskhall/dusk-go/engine/window"
)

// RuntimeOption is a functional option for configuring a Runtime.
// Use the With* functions to create options.
type RuntimeOption func(rt *Runtime)

// WithLog sets the runtime-wide logger. Collaborators constructed by
// NewRuntime inherit it; pre-supplied collaborators keep their own.
//
// Parameters:
//   - log: the logger to use
//
// Returns:
//   - RuntimeOption: option function to apply
func WithLog(log logger.Logger) RuntimeOption {
	return func(rt *Runtime) {
		if log != nil {
			rt.Log = log
		}
	}
}

// WithCache supplies a pre-built resource cache.
//
// Parameters:
//   - cache: the cache to use
//
// Returns:
//   - RuntimeOption: option function to apply
func WithCache(cache resource.Cache) RuntimeOption {
	return func(rt *Runtime) {
		rt.Cache = cache
	}
}

// WithRegistry supplies a pre-built descriptor registry.
//
// Parameters:
//   - registry: the registry to use
//
// Returns:
//   - RuntimeOption: option function to apply
func WithRegistry(registry descriptor.Registry) RuntimeOption {
	return func(rt *Runtime) {
		rt.Registry = registry
	}
}

// WithBuilder supplies a pre-built scene builder.
//
// Parameters:
//   - builder: the builder to use
//
// Returns:
//   - RuntimeOption: option function to apply
func WithBuilder(builder scene.Builder) RuntimeOption {
	return func(rt *Runtime) {
		rt.Builder = builder
	}
}

// WithLifecycle supplies a pre-built lifecycle manager.
//
// Parameters:
//   - mgr: the manager to use
//
// Returns:
//   - RuntimeOption: option function to apply
func WithLifecycle(mgr lifecycle.Manager) RuntimeOption {
	return func(rt *Runtime) {
		rt.Lifecycle = mgr
	}
}

// WithQuality supplies a pre-built quality controller.
//
// Parameters:
//   - controller: the controller to use
//
// Returns:
//   - RuntimeOption: option function to apply
func WithQuality(controller quality.Controller) RuntimeOption {
	return func(rt *Runtime) {
		rt.Quality = controller
	}
}

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options.
type EngineBuilderOption func(e *engine)

// WithWindow sets the platform window for windowed runs. Omit it for
// headless mode.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithTickRate sets the tick rate in ticks per second.
// Values <= 0 are treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			fps = 60
		}
		e.tickRate = time.Second / time.Duration(fps)
	}
}

// WithProfiling enables or disables profiler reporting.
//
// Parameters:
//   - enabled: if true, enables periodic FPS and heap reporting
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}
