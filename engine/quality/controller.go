package quality

import (
	"math"

	"github.com/duskhall/dusk-go/engine/logger"
)

// Step is one degradation rung on the ladder, ordered cheapest first.
// A level of L means steps 0 through L-1 are active; degradation is
// monotone and never skips or partially reverts a rung.
type Step int

const (
	// StepHalveParticles halves particle emitter spawn rates.
	StepHalveParticles Step = iota

	// StepFreezeFlicker pins flickering lights to their base intensity.
	StepFreezeFlicker

	// StepDisablePostProcess turns the post-processing chain off.
	StepDisablePostProcess

	// StepDisableShadows turns shadow rendering off.
	StepDisableShadows

	numSteps
)

// String returns the step name.
//
// Returns:
//   - string: the step name
func (s Step) String() string {
	switch s {
	case StepHalveParticles:
		return "halve-particles"
	case StepFreezeFlicker:
		return "freeze-flicker"
	case StepDisablePostProcess:
		return "disable-postprocess"
	case StepDisableShadows:
		return "disable-shadows"
	default:
		return "unknown"
	}
}

// DetailHandles is the scene-scoped toggle surface the controller drives.
// A fresh set is registered after every scene load; the controller
// immediately re-applies the current level so a scene loaded
// mid-degradation starts degraded correctly.
type DetailHandles interface {
	// SetParticlesDegraded toggles the halved particle spawn rate.
	SetParticlesDegraded(degraded bool)

	// SetFlickerFrozen pins or releases flickering light intensity.
	SetFlickerFrozen(frozen bool)

	// SetPostProcessEnabled toggles the post-processing chain.
	SetPostProcessEnabled(enabled bool)

	// SetShadowsEnabled toggles shadow rendering.
	SetShadowsEnabled(enabled bool)
}

// Controller adapts rendering detail to hold a frame-time budget.
// Update is called exactly once per rendered frame and never blocks.
type Controller interface {
	// Update records one frame duration and, once the rolling window is
	// full and no cooldown is pending, steps the degradation level up or
	// down by at most one.
	//
	// Parameters:
	//   - frameMs: the frame duration in milliseconds
	Update(frameMs float64)

	// Level returns the current degradation level, 0 (full detail) to
	// MaxLevel.
	//
	// Returns:
	//   - int: the current level
	Level() int

	// MaxLevel returns the number of degradation rungs on the ladder.
	//
	// Returns:
	//   - int: the maximum level
	MaxLevel() int

	// StepActive reports whether the given rung is currently applied.
	//
	// Parameters:
	//   - step: the rung to query
	//
	// Returns:
	//   - bool: true when the rung is active at the current level
	StepActive(step Step) bool

	// RegisterDetailHandles installs the toggle surface for the active
	// scene and re-applies the current level to it.
	//
	// Parameters:
	//   - handles: the scene's toggles, or nil to detach
	RegisterDetailHandles(handles DetailHandles)
}

type controller struct {
	window   *RollingWindow
	upperMs  float64
	lowerMs  float64
	cooldown int
	level    int
	handles  DetailHandles
	log      logger.Logger
}

var _ Controller = &controller{}

// NewController creates a Controller with the provided options applied.
//
// Parameters:
//   - options: functional options for controller configuration
//
// Returns:
//   - Controller: the newly created controller
func NewController(options ...ControllerBuilderOption) Controller {
	c := &controller{
		upperMs: defaultUpperThresholdMs,
		lowerMs: defaultLowerThresholdMs,
		log:     logger.NewNop(),
	}

	for _, option := range options {
		option(c)
	}

	if c.window == nil {
		c.window = NewRollingWindow(defaultWindowSize)
	}

	return c
}

func (c *controller) Update(frameMs float64) {
	if math.IsNaN(frameMs) || math.IsInf(frameMs, 0) || frameMs < 0 {
		return
	}

	c.window.Push(frameMs)
	if !c.window.Full() {
		return
	}
	if c.cooldown > 0 {
		c.cooldown--
		return
	}

	avg := c.window.Mean()
	switch {
	case avg > c.upperMs && c.level < c.MaxLevel():
		c.setLevel(c.level+1, avg)
	case avg < c.lowerMs && c.level > 0:
		c.setLevel(c.level-1, avg)
	}
}

// setLevel applies a one-rung change and starts the cooldown.
func (c *controller) setLevel(level int, avg float64) {
	c.level = level
	c.cooldown = c.window.Capacity()
	c.apply()
	c.log.Info("detail level changed",
		logger.WithField("level", level),
		logger.WithField("avgMs", avg))
}

// apply pushes the cumulative toggle state for the current level into the
// registered handles.
func (c *controller) apply() {
	if c.handles == nil {
		return
	}
	c.handles.SetParticlesDegraded(c.StepActive(StepHalveParticles))
	c.handles.SetFlickerFrozen(c.StepActive(StepFreezeFlicker))
	c.handles.SetPostProcessEnabled(!c.StepActive(StepDisablePostProcess))
	c.handles.SetShadowsEnabled(!c.StepActive(StepDisableShadows))
}

func (c *controller) Level() int {
	return c.level
}

func (c *controller) MaxLevel() int {
	return int(numSteps)
}

func (c *controller) StepActive(step Step) bool {
	return int(step) < c.level
}

func (c *controller) RegisterDetailHandles(handles DetailHandles) {
	c.handles = handles
	c.apply()
}
