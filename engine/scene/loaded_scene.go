package scene

import (
	"sync"

	"github.com/duskhall/dusk-go/common"
	"github.com/duskhall/dusk-go/engine/descriptor"
	"github.com/duskhall/dusk-go/engine/light"
	"github.com/duskhall/dusk-go/engine/particle"
)

// LoadedScene is the runtime aggregate produced by a Builder and owned
// exclusively by the lifecycle manager while active. At most one
// LoadedScene is active at a time; a new one is never adopted until the old
// one has been fully retired.
type LoadedScene struct {
	// ID is the scene id this aggregate was built from.
	ID string

	// Root is the opaque root node handle for the scene graph.
	Root string

	// Lights holds every runtime light in the scene.
	Lights []light.Light

	// FlickerLights is the subset of Lights requiring continuous per-frame
	// flicker registration with the entity system.
	FlickerLights []light.Light

	// Triggers are the door trigger volumes active while this scene is live.
	Triggers []descriptor.TriggerVolume

	// Bounds is the scene's axis-aligned extent.
	Bounds common.AABB

	// Emitters are the active particle emitters.
	Emitters []particle.Emitter

	// Background are the scrolling backdrop layers, if any.
	Background []descriptor.BackgroundLayer

	// acquiredKeys records every resource acquisition this scene holds, in
	// acquisition order. Disposal releases each exactly once.
	acquiredKeys []string

	disposeOnce sync.Once
	dispose     func()
}

// AcquiredKeys returns the resource keys this scene holds acquisitions for.
// Diagnostic only.
//
// Returns:
//   - []string: a copy of the acquisition key list
func (s *LoadedScene) AcquiredKeys() []string {
	out := make([]string, len(s.acquiredKeys))
	copy(out, s.acquiredKeys)
	return out
}

// Dispose retires the scene: releases every resource acquisition, disposes
// every particle emitter, and clears the trigger list. Safe to call more
// than once; only the first call has effect.
func (s *LoadedScene) Dispose() {
	s.disposeOnce.Do(func() {
		if s.dispose != nil {
			s.dispose()
		}
		for _, e := range s.Emitters {
			e.Dispose()
		}
		s.Emitters = nil
		s.Triggers = nil
		s.Lights = nil
		s.FlickerLights = nil
	})
}
