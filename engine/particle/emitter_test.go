package particle

import (
	"testing"

	"github.com/duskhall/dusk-go/engine/descriptor"
	"github.com/stretchr/testify/assert"
)

func TestEmitterSpawnsAtRate(t *testing.T) {
	e := FromSpec(descriptor.EmitterSpec{Name: "brazier_smoke", Rate: 30})

	// One second at 30/s spawns 30 particles (lifetime is 2s, none expire).
	for i := 0; i < 60; i++ {
		e.Update(1.0 / 60.0)
	}
	assert.Equal(t, 30, e.LiveCount())
}

func TestEmitterExpiresParticles(t *testing.T) {
	e := FromSpec(descriptor.EmitterSpec{Rate: 10})

	e.Update(0.1) // spawns 1
	assert.Equal(t, 1, e.LiveCount())

	// Push the particle past its lifetime without spawning a full new one.
	e.Update(defaultLifetime)
	// The big step also accrues spawns; live count must only hold unexpired ones.
	for _, age := range e.(*emitter).ages {
		assert.Less(t, age, defaultLifetime)
	}
}

func TestEmitterRespectsCap(t *testing.T) {
	e := FromSpec(descriptor.EmitterSpec{Rate: 1000, MaxParticles: 16})
	e.Update(1)
	assert.Equal(t, 16, e.LiveCount())
}

func TestEmitterDegradedHalvesRate(t *testing.T) {
	e := FromSpec(descriptor.EmitterSpec{Rate: 40})
	e.SetDegraded(true)
	e.Update(1)
	assert.Equal(t, 20, e.LiveCount())
}

func TestDisposeStopsEmitter(t *testing.T) {
	e := FromSpec(descriptor.EmitterSpec{Rate: 40})
	e.Update(0.5)
	assert.Positive(t, e.LiveCount())

	e.Dispose()
	assert.True(t, e.Disposed())
	assert.Zero(t, e.LiveCount())

	e.Update(1)
	assert.Zero(t, e.LiveCount(), "updates after dispose are no-ops")
}

func TestDefaults(t *testing.T) {
	e := FromSpec(descriptor.EmitterSpec{}).(*emitter)
	assert.Equal(t, defaultRate, e.rate)
	assert.Equal(t, defaultMaxParticles, e.maxParticles)
}
