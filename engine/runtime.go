// Package engine wires the scene lifecycle, resource cache, and quality
// controller together and drives them with a serialized frame tick.
package engine

import (
	"sync/atomic"

	"github.com/duskhall/dusk-go/engine/descriptor"
	"github.com/duskhall/dusk-go/engine/lifecycle"
	"github.com/duskhall/dusk-go/engine/logger"
	"github.com/duskhall/dusk-go/engine/quality"
	"github.com/duskhall/dusk-go/engine/resource"
	"github.com/duskhall/dusk-go/engine/scene"
)

// Runtime aggregates the engine's long-lived collaborators. It is
// constructed once and passed by reference; there is no package-level
// instance.
type Runtime struct {
	// Cache is the shared ref-counted GPU resource cache.
	Cache resource.Cache

	// Registry resolves scene ids to descriptors.
	Registry descriptor.Registry

	// Builder turns descriptors into loaded scenes.
	Builder scene.Builder

	// Loaders routes scene resource loads through the cache.
	Loaders scene.Loaders

	// Lifecycle owns the active scene and the transition state machine.
	Lifecycle lifecycle.Manager

	// Quality adapts rendering detail to the frame-time budget.
	Quality quality.Controller

	// Log is the engine-wide logger.
	Log logger.Logger

	postProcess atomic.Bool
	shadows     atomic.Bool
}

// NewRuntime constructs the full collaborator set around the given asset
// fetchers and registers the quality controller's detail handles.
//
// Parameters:
//   - fetchers: the asset fetchers handed to the scene builder
//   - options: functional options for runtime configuration
//
// Returns:
//   - *Runtime: the newly created runtime
func NewRuntime(fetchers scene.Fetchers, options ...RuntimeOption) *Runtime {
	rt := &Runtime{
		Log: logger.NewNop(),
	}

	for _, option := range options {
		option(rt)
	}

	if rt.Cache == nil {
		rt.Cache = resource.NewCache(resource.WithLogger(rt.Log))
	}
	if rt.Registry == nil {
		rt.Registry = descriptor.NewRegistry(descriptor.WithLogger(rt.Log))
	}
	if rt.Builder == nil {
		rt.Builder = scene.NewBuilder(fetchers, scene.WithLogger(rt.Log))
	}
	if rt.Loaders == nil {
		rt.Loaders = scene.NewLoaders(rt.Cache)
	}
	if rt.Lifecycle == nil {
		rt.Lifecycle = lifecycle.NewManager(rt.Registry, rt.Builder, rt.Loaders,
			lifecycle.WithLogger(rt.Log))
	}
	if rt.Quality == nil {
		rt.Quality = quality.NewController(quality.WithLogger(rt.Log))
	}

	rt.postProcess.Store(true)
	rt.shadows.Store(true)
	rt.Quality.RegisterDetailHandles(&detailHandles{rt: rt})

	return rt
}

// PostProcessEnabled reports whether the post-processing chain should run
// this frame. Toggled by the quality controller.
//
// Returns:
//   - bool: true when post-processing is enabled
func (rt *Runtime) PostProcessEnabled() bool {
	return rt.postProcess.Load()
}

// ShadowsEnabled reports whether shadow rendering should run this frame.
// Toggled by the quality controller.
//
// Returns:
//   - bool: true when shadows are enabled
func (rt *Runtime) ShadowsEnabled() bool {
	return rt.shadows.Load()
}

// detailHandles fans the quality controller's toggles out to the lifecycle
// manager (particles, flicker) and the runtime's render flags (post-process,
// shadows).
type detailHandles struct {
	rt *Runtime
}

var _ quality.DetailHandles = &detailHandles{}

func (h *detailHandles) SetParticlesDegraded(degraded bool) {
	h.rt.Lifecycle.SetParticlesDegraded(degraded)
}

func (h *detailHandles) SetFlickerFrozen(frozen bool) {
	h.rt.Lifecycle.SetFlickerFrozen(frozen)
}

func (h *detailHandles) SetPostProcessEnabled(enabled bool) {
	h.rt.postProcess.Store(enabled)
}

func (h *detailHandles) SetShadowsEnabled(enabled bool) {
	h.rt.shadows.Store(enabled)
}
