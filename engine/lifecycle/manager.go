// Package lifecycle owns the single active scene and drives the transition
// state machine between scenes. The manager is tick-driven: the frame
// driver calls Update once per frame and the manager advances whatever
// phase is in flight, so every state change happens on the tick goroutine.
package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/duskhall/dusk-go/common"
	"github.com/duskhall/dusk-go/engine/descriptor"
	"github.com/duskhall/dusk-go/engine/light"
	"github.com/duskhall/dusk-go/engine/logger"
	"github.com/duskhall/dusk-go/engine/scene"
)

// Manager drives scene transitions and owns the one active LoadedScene.
// At most one transition is in flight at a time; requests made while a
// transition is running are ignored entirely.
//
// Manager is not safe for concurrent use: every method must be called from
// the tick goroutine. Scene builds run on their own goroutine but settle
// through a mailbox drained by Update.
type Manager interface {
	// TransitionTo starts an animated transition to the target scene:
	// fade out, retire the current scene, build the target, fade back in.
	// Ignored unless the manager is idle. An unknown target id is logged
	// and ignored.
	//
	// Parameters:
	//   - ctx: abort context, checked during fade-out and while the build
	//     settles; once the new scene is adopted the fade-in always
	//     completes and cancellation is ignored
	//   - targetID: the scene id to transition to
	//   - spawn: the spawn point queued for consumption after the load
	TransitionTo(ctx context.Context, targetID string, spawn common.Vec3)

	// LoadRoom performs an instant, synchronous scene swap with no fade
	// choreography and sets the teleported flag so downstream camera logic
	// snaps instead of interpolating. Used for initial boot and teleports.
	//
	// Parameters:
	//   - id: the scene id to load
	//
	// Returns:
	//   - error: unknown id, a transition in flight, or a build failure
	LoadRoom(id string) error

	// Update advances the in-flight transition, if any. Called once per
	// frame by the frame driver.
	//
	// Parameters:
	//   - dt: seconds elapsed since the previous tick
	Update(dt float64)

	// UpdateParticles steps every particle emitter of the active scene.
	//
	// Parameters:
	//   - dt: seconds elapsed since the previous tick
	UpdateParticles(dt float64)

	// OnFrameTick advances continuous per-frame animation state: the
	// flicker clock and background layer scroll offsets.
	//
	// Parameters:
	//   - dt: seconds elapsed since the previous tick
	OnFrameTick(dt float64)

	// State returns the current transition state.
	//
	// Returns:
	//   - TransitionState: the current state
	State() TransitionState

	// ActiveSceneID returns the id of the active scene, or "" when none is
	// loaded.
	//
	// Returns:
	//   - string: the active scene id
	ActiveSceneID() string

	// FadeOpacity returns the current screen fade, 0 (transparent) to
	// 1 (fully opaque). Sampled by the renderer every frame.
	//
	// Returns:
	//   - float64: the fade opacity
	FadeOpacity() float64

	// CurrentBounds returns the active scene's bounds, or the zero AABB
	// when no scene is loaded.
	//
	// Returns:
	//   - common.AABB: the active scene bounds
	CurrentBounds() common.AABB

	// DoorTriggers returns the door trigger volumes of the active scene.
	//
	// Returns:
	//   - []descriptor.TriggerVolume: a copy of the active trigger list
	DoorTriggers() []descriptor.TriggerVolume

	// TakePendingSpawnPoint consumes the queued spawn point, if any. The
	// slot is one-shot: a second call returns false until the next load
	// queues a new point.
	//
	// Returns:
	//   - common.Vec3: the spawn point
	//   - bool: whether a point was pending
	TakePendingSpawnPoint() (common.Vec3, bool)

	// TakePendingFlickerLights consumes the queued flicker-light
	// registration list, if any. One-shot like the spawn slot.
	//
	// Returns:
	//   - []light.Light: the lights to register, nil when none are pending
	TakePendingFlickerLights() []light.Light

	// SetParticlesDegraded toggles the halved particle spawn rate on the
	// active scene's emitters. The setting persists across loads: a scene
	// adopted while degradation is on starts degraded.
	//
	// Parameters:
	//   - degraded: true to halve spawn rates
	SetParticlesDegraded(degraded bool)

	// SetFlickerFrozen pins or releases the active scene's flickering
	// lights. Persists across loads like SetParticlesDegraded.
	//
	// Parameters:
	//   - frozen: true to pin flicker lights to their base intensity
	SetFlickerFrozen(frozen bool)

	// Teleported reports whether the camera should snap this tick. True
	// for a single tick after an instant load or a completed transition.
	//
	// Returns:
	//   - bool: the teleported flag
	Teleported() bool

	// FlickerTime returns the accumulated flicker clock, fed to
	// light.FlickerIntensity by the renderer.
	//
	// Returns:
	//   - float64: seconds of accumulated flicker time
	FlickerTime() float64

	// BackgroundOffsets returns the current scroll offset per background
	// layer of the active scene.
	//
	// Returns:
	//   - []float64: one offset per background layer
	BackgroundOffsets() []float64
}

// transition is the in-flight transition bookkeeping. It exists only
// between a TransitionTo call and the return to StateIdle.
type transition struct {
	ctx      context.Context
	targetID string
	spawn    common.Vec3

	fadeElapsed float64
	holdElapsed float64
	adopted     bool

	buildDone chan buildResult
}

type buildResult struct {
	scene *scene.LoadedScene
	err   error
}

type manager struct {
	registry descriptor.Registry
	builder  scene.Builder
	loaders  scene.Loaders
	log      logger.Logger
	onError  func(error)

	fadeDuration float64
	holdDuration float64

	state   TransitionState
	current *scene.LoadedScene
	tr      *transition
	fade    float64

	pendingSpawn    *common.Vec3
	pendingFlicker  []light.Light
	teleported      bool
	teleportedFresh bool

	particlesDegraded bool
	flickerFrozen     bool

	flickerTime   float64
	scrollOffsets []float64
}

var _ Manager = &manager{}

// NewManager creates a Manager with the provided options applied.
//
// Parameters:
//   - registry: the scene descriptor registry (must not be nil)
//   - builder: the scene builder (must not be nil)
//   - loaders: the resource loader set handed to builds (must not be nil)
//   - options: functional options for manager configuration
//
// Returns:
//   - Manager: the newly created manager
func NewManager(registry descriptor.Registry, builder scene.Builder, loaders scene.Loaders, options ...ManagerBuilderOption) Manager {
	if registry == nil {
		panic("lifecycle: NewManager requires a non-nil Registry")
	}
	if builder == nil {
		panic("lifecycle: NewManager requires a non-nil Builder")
	}
	if loaders == nil {
		panic("lifecycle: NewManager requires non-nil Loaders")
	}

	m := &manager{
		registry:     registry,
		builder:      builder,
		loaders:      loaders,
		log:          logger.NewNop(),
		fadeDuration: defaultFadeDuration,
		holdDuration: defaultHoldDuration,
		state:        StateIdle,
	}

	for _, option := range options {
		option(m)
	}

	return m
}

func (m *manager) TransitionTo(ctx context.Context, targetID string, spawn common.Vec3) {
	if m.state != StateIdle {
		m.log.Debug("transition request ignored, transition in flight",
			logger.WithField("target", targetID),
			logger.WithField("state", m.state.String()))
		return
	}
	if !m.registry.Has(targetID) {
		m.log.Warn("transition to unknown scene ignored", logger.WithField("target", targetID))
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	m.tr = &transition{
		ctx:       ctx,
		targetID:  targetID,
		spawn:     spawn,
		buildDone: make(chan buildResult, 1),
	}
	m.state = StateFadingOut
	m.log.Info("transition started", logger.WithField("target", targetID))
}

func (m *manager) LoadRoom(id string) error {
	if m.state != StateIdle {
		return fmt.Errorf("lifecycle: load of %q refused, transition in flight", id)
	}
	desc, ok := m.registry.Get(id)
	if !ok {
		m.log.Warn("load of unknown scene ignored", logger.WithField("target", id))
		return fmt.Errorf("lifecycle: unknown scene %q", id)
	}

	m.retireCurrent()

	loaded, err := m.builder.Build(context.Background(), desc, m.loaders)
	if err != nil {
		return fmt.Errorf("lifecycle: loading %q: %w", id, err)
	}

	m.adopt(loaded)
	m.log.Info("scene loaded", logger.WithField("scene", id))
	return nil
}

func (m *manager) Update(dt float64) {
	// Age out the teleported flag. A flag armed outside Update (instant
	// loads) survives one full tick past the tick it was set on; a flag the
	// state machine below sets mid-Update is cleared here on the next tick.
	// Either way a per-tick consumer observes it exactly once.
	if m.teleported {
		if m.teleportedFresh {
			m.teleportedFresh = false
		} else {
			m.teleported = false
		}
	}

	switch m.state {
	case StateIdle:
		return

	case StateFadingOut:
		if err := m.tr.ctx.Err(); err != nil {
			// Aborted before the committed boundary: the old scene is
			// untouched, rewind the fade.
			m.log.Info("transition aborted during fade-out", logger.WithField("target", m.tr.targetID))
			m.finishTransition(0)
			return
		}
		m.tr.fadeElapsed += dt
		m.fade = common.Clamp(m.tr.fadeElapsed/m.fadeDuration, 0, 1)
		if m.tr.fadeElapsed >= m.fadeDuration {
			m.fade = 1
			m.state = StateUnloading
		}

	case StateUnloading:
		// Committed: from here the transition runs to completion or to a
		// sceneless idle, never back to the old scene.
		m.retireCurrent()
		m.state = StateLoading
		m.startBuild()

	case StateLoading:
		if m.tr.adopted {
			m.tr.holdElapsed += dt
			if m.tr.holdElapsed >= m.holdDuration {
				m.state = StateFadingIn
				m.tr.fadeElapsed = 0
				// Set without the grace arm: this tick's aging already ran,
				// so the next Update clears the flag after one observation.
				m.teleported = true
			}
			return
		}

		select {
		case res := <-m.tr.buildDone:
			m.settleBuild(res)
		default:
		}

	case StateFadingIn:
		// The scene is adopted: cancellation no longer applies, the fade-in
		// always runs to completion.
		m.tr.fadeElapsed += dt
		m.fade = common.Clamp(1-m.tr.fadeElapsed/m.fadeDuration, 0, 1)
		if m.tr.fadeElapsed >= m.fadeDuration {
			m.log.Info("transition complete", logger.WithField("scene", m.tr.targetID))
			m.finishTransition(0)
		}
	}
}

// settleBuild handles the asynchronous build resolving while in
// StateLoading.
func (m *manager) settleBuild(res buildResult) {
	tr := m.tr

	if res.err != nil {
		if errors.Is(res.err, context.Canceled) || errors.Is(res.err, context.DeadlineExceeded) {
			// Abort observed by the build itself; its acquisitions are
			// already released.
			m.log.Info("transition aborted during load", logger.WithField("target", tr.targetID))
		} else {
			m.log.Error("scene build failed",
				logger.WithField("target", tr.targetID),
				logger.WithField("error", res.err.Error()))
			if m.onError != nil {
				m.onError(res.err)
			}
		}
		m.finishTransition(0)
		return
	}

	if err := tr.ctx.Err(); err != nil {
		// The build resolved after the abort. The old scene is gone and the
		// fresh one must not be silently kept, so release it.
		m.log.Info("transition aborted after load, releasing fresh scene",
			logger.WithField("target", tr.targetID))
		res.scene.Dispose()
		m.finishTransition(0)
		return
	}

	m.adopt(res.scene)
	m.pendingSpawn = &tr.spawn
	tr.adopted = true
	tr.holdElapsed = 0
}

// startBuild launches the asynchronous scene build for the in-flight
// transition. The result is delivered through the transition's mailbox and
// drained on a later tick.
func (m *manager) startBuild() {
	tr := m.tr
	desc, ok := m.registry.Get(tr.targetID)
	if !ok {
		// The descriptor vanished between validation and the build, which
		// only a live-reload race can cause.
		tr.buildDone <- buildResult{err: fmt.Errorf("lifecycle: scene %q disappeared from registry", tr.targetID)}
		return
	}

	go func() {
		loaded, err := m.builder.Build(tr.ctx, desc, m.loaders)
		tr.buildDone <- buildResult{scene: loaded, err: err}
	}()
}

// adopt installs a freshly built scene and queues the one-shot mailboxes.
// Instant loads flag the teleport here; animated transitions flag it when
// entering StateFadingIn instead.
func (m *manager) adopt(loaded *scene.LoadedScene) {
	m.current = loaded
	m.scrollOffsets = make([]float64, len(loaded.Background))
	if len(loaded.FlickerLights) > 0 {
		m.pendingFlicker = loaded.FlickerLights
	}
	if m.state == StateIdle {
		spawn := loaded.Bounds.Center()
		m.pendingSpawn = &spawn
		m.setTeleported()
	}
	m.applyDegradation()
}

// applyDegradation pushes the persistent quality toggles into the active
// scene so a scene adopted mid-degradation starts degraded.
func (m *manager) applyDegradation() {
	if m.current == nil {
		return
	}
	for _, e := range m.current.Emitters {
		e.SetDegraded(m.particlesDegraded)
	}
	for _, l := range m.current.FlickerLights {
		l.SetFlickerFrozen(m.flickerFrozen)
	}
}

// setTeleported arms the flag for callers outside Update (instant loads):
// the fresh arm lets it survive the Update of the tick it was set on.
func (m *manager) setTeleported() {
	m.teleported = true
	m.teleportedFresh = true
}

// retireCurrent releases the active scene's resources and clears the query
// surface. Atomic within the calling tick.
func (m *manager) retireCurrent() {
	if m.current == nil {
		return
	}
	m.log.Debug("retiring scene", logger.WithField("scene", m.current.ID))
	m.current.Dispose()
	m.current = nil
	m.scrollOffsets = nil
	m.pendingSpawn = nil
	m.pendingFlicker = nil
}

// finishTransition returns the machine to idle at the given fade opacity.
func (m *manager) finishTransition(fade float64) {
	m.fade = fade
	m.state = StateIdle
	m.tr = nil
}

func (m *manager) UpdateParticles(dt float64) {
	if m.current == nil {
		return
	}
	for _, e := range m.current.Emitters {
		e.Update(float32(dt))
	}
}

func (m *manager) OnFrameTick(dt float64) {
	m.flickerTime += dt
	if m.current == nil {
		return
	}
	for i, layer := range m.current.Background {
		m.scrollOffsets[i] += float64(layer.ScrollSpeed) * dt
	}
}

func (m *manager) State() TransitionState {
	return m.state
}

func (m *manager) ActiveSceneID() string {
	if m.current == nil {
		return ""
	}
	return m.current.ID
}

func (m *manager) FadeOpacity() float64 {
	return m.fade
}

func (m *manager) CurrentBounds() common.AABB {
	if m.current == nil {
		return common.AABB{}
	}
	return m.current.Bounds
}

func (m *manager) DoorTriggers() []descriptor.TriggerVolume {
	if m.current == nil {
		return nil
	}
	out := make([]descriptor.TriggerVolume, len(m.current.Triggers))
	copy(out, m.current.Triggers)
	return out
}

func (m *manager) TakePendingSpawnPoint() (common.Vec3, bool) {
	if m.pendingSpawn == nil {
		return common.Vec3{}, false
	}
	spawn := *m.pendingSpawn
	m.pendingSpawn = nil
	return spawn, true
}

func (m *manager) TakePendingFlickerLights() []light.Light {
	lights := m.pendingFlicker
	m.pendingFlicker = nil
	return lights
}

func (m *manager) SetParticlesDegraded(degraded bool) {
	m.particlesDegraded = degraded
	m.applyDegradation()
}

func (m *manager) SetFlickerFrozen(frozen bool) {
	m.flickerFrozen = frozen
	m.applyDegradation()
}

func (m *manager) Teleported() bool {
	return m.teleported
}

func (m *manager) FlickerTime() float64 {
	return m.flickerTime
}

func (m *manager) BackgroundOffsets() []float64 {
	out := make([]float64, len(m.scrollOffsets))
	copy(out, m.scrollOffsets)
	return out
}
