// Package particle provides the minimal emitter runtime owned by a loaded
// scene: spawning, aging, and explicit disposal. Particle rendering lives
// with the sprite layer, outside this engine.
package particle

import (
	"github.com/duskhall/dusk-go/common"
	"github.com/duskhall/dusk-go/engine/descriptor"
)

const (
	defaultRate         = float32(10)
	defaultMaxParticles = 256
	defaultLifetime     = float32(2.0)
)

// Emitter is one particle emitter active in the current scene. Emitters are
// created by the scene builder and disposed when the scene is retired;
// driving Update after Dispose is a no-op.
type Emitter interface {
	// Name returns the emitter's identifier for diagnostics.
	//
	// Returns:
	//   - string: the emitter name
	Name() string

	// Position returns the emitter origin in world space.
	//
	// Returns:
	//   - common.Vec3: the origin
	Position() common.Vec3

	// Update advances particle ages and spawns new particles.
	//
	// Parameters:
	//   - dt: elapsed time since the last frame in seconds
	Update(dt float32)

	// LiveCount returns the number of currently live particles.
	//
	// Returns:
	//   - int: the live particle count
	LiveCount() int

	// SetDegraded halves the spawn rate when true. Used by the quality
	// controller's particle-density degradation step.
	//
	// Parameters:
	//   - degraded: true to halve the spawn rate
	SetDegraded(degraded bool)

	// Dispose clears all particles and permanently deactivates the emitter.
	Dispose()

	// Disposed reports whether Dispose has been called.
	//
	// Returns:
	//   - bool: true once disposed
	Disposed() bool
}

type emitter struct {
	name         string
	position     common.Vec3
	rate         float32
	maxParticles int

	degraded bool
	disposed bool

	spawnAccum float32
	ages       []float32
}

// FromSpec constructs an emitter from a descriptor emitter spec.
// Zero rate and zero particle cap take engine defaults.
//
// Parameters:
//   - spec: the descriptor emitter spec
//
// Returns:
//   - Emitter: the constructed emitter
func FromSpec(spec descriptor.EmitterSpec) Emitter {
	rate := spec.Rate
	if rate <= 0 {
		rate = defaultRate
	}
	maxParticles := spec.MaxParticles
	if maxParticles <= 0 {
		maxParticles = defaultMaxParticles
	}
	return &emitter{
		name:         spec.Name,
		position:     spec.Position,
		rate:         rate,
		maxParticles: maxParticles,
	}
}

var _ Emitter = &emitter{}

func (e *emitter) Name() string {
	return e.name
}

func (e *emitter) Position() common.Vec3 {
	return e.position
}

func (e *emitter) Update(dt float32) {
	if e.disposed || dt <= 0 {
		return
	}

	// Age out expired particles in place.
	live := e.ages[:0]
	for _, age := range e.ages {
		age += dt
		if age < defaultLifetime {
			live = append(live, age)
		}
	}
	e.ages = live

	rate := e.rate
	if e.degraded {
		rate /= 2
	}
	e.spawnAccum += rate * dt
	spawn := int(e.spawnAccum)
	e.spawnAccum -= float32(spawn)

	for i := 0; i < spawn && len(e.ages) < e.maxParticles; i++ {
		e.ages = append(e.ages, 0)
	}
}

func (e *emitter) LiveCount() int {
	return len(e.ages)
}

func (e *emitter) SetDegraded(degraded bool) {
	e.degraded = degraded
}

func (e *emitter) Dispose() {
	e.disposed = true
	e.ages = nil
	e.spawnAccum = 0
}

func (e *emitter) Disposed() bool {
	return e.disposed
}
